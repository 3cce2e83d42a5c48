// Package template defines the abstract rendering contracts a
// Compilation hashes and asset-renders against: MainTemplate for
// runtime-carrying chunks, ChunkTemplate for the rest, and
// ModuleTemplate per source language. See internal/template/simple for
// a minimal concrete implementation.
package template
