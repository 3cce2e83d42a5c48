// Package httpfactory implements factory.ModuleFactory by treating a
// dependency's request string as a URL and fetching its content over
// HTTP with resty.dev/v3. It demonstrates the ModuleFactory contract end
// to end without a real source-language parser or resolver, both out of
// scope for the compilation core itself.
package httpfactory
