// Package chunkgraph implements ChunkGraphBuilder's two-phase module→chunk
// partitioning: phase 1 discovers chunks from async split points and
// records every chunk-to-chunk edge they create, phase 2 connects those
// edges while pruning any whose target chunk's modules are already
// available through another path — a monotonically shrinking
// availability set that both guarantees termination and breaks cycles.
package chunkgraph
