// Package cache provides the optional persistent cache AssetRenderer
// consults before re-rendering a chunk: an in-memory default, and a
// msgpack-serialized file-backed implementation for caching across
// process runs.
package cache
