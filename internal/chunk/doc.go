// Package chunk defines the output-unit data model: Chunk and Entrypoint.
//
// A Chunk is a set of modules destined for one rendered asset, plus the
// graph edges (parents/children) ChunkGraphBuilder draws between chunks
// during partitioning. Chunk implements module.ChunkHandle so modules can
// track their own membership without this package's module set type
// leaking into package module and creating an import cycle.
package chunk
