package module

// Block groups a subset of a Module's Dependencies and Variables that must
// be reachable together — the async/lazy boundary the spec models as a
// DependencyBlock. A Block with a non-empty ChunkName is an async block:
// the ChunkGraphBuilder gives it its own Chunk rather than folding its
// dependencies into the owning Module's chunk(s).
type Block struct {
	Module *Module
	Loc    Location

	Dependencies []*Dependency
	Variables    []*Variable
	Blocks       []*Block

	// ChunkName, when non-empty, marks this Block as an async boundary and
	// names the chunk it should produce (before deduplication/naming
	// finalization). Empty means the block's dependencies belong to
	// whichever chunk(s) already contain Module.
	ChunkName string

	chunks []ChunkHandle
}

// IsAsync reports whether this Block introduces an async boundary.
func (b *Block) IsAsync() bool { return b.ChunkName != "" }

// Chunks returns the chunks created for this async block so far. Empty for
// synchronous blocks.
func (b *Block) Chunks() []ChunkHandle { return b.chunks }

// AddChunk records a chunk produced for this async block.
func (b *Block) AddChunk(c ChunkHandle) { b.chunks = append(b.chunks, c) }

// Variable names a value a Block's dependencies are evaluated against
// (e.g. an import-binding name for a dynamic import), carried opaquely by
// this package for the embedder's own use.
type Variable struct {
	Name         string
	Dependencies []*Dependency
}
