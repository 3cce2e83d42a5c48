// Package hashengine implements the compilation's digest pipeline: a
// createHash(name)-style factory over standard cryptographic hash
// functions, plus the module/chunk/compilation hashing procedure that
// folds per-module and per-chunk digests into one overall compilation
// hash.
package hashengine
