package chunkgraph

import "github.com/specialistvlad/bundlecore/internal/module"

// blockLike unifies traversal over a Module's own top-level dependency
// surface and a real module.Block's, since phase 1's queue walks both
// (a chunk's entry module is treated as an implicit root block).
type blockLike struct {
	dependencies []*module.Dependency
	variables    []*module.Variable
	blocks       []*module.Block

	// source is non-nil only when this blockLike wraps a real Block,
	// used as the blockChunks/chunkDependencies map key.
	source *module.Block
}

func moduleAsBlock(m *module.Module) blockLike {
	return blockLike{dependencies: m.Dependencies, variables: m.Variables, blocks: m.Blocks}
}

func realBlock(b *module.Block) blockLike {
	return blockLike{dependencies: b.Dependencies, variables: b.Variables, blocks: b.Blocks, source: b}
}

func (bl blockLike) effectiveDependencies() []*module.Dependency {
	return module.EffectiveDependencies(bl.variables, bl.dependencies)
}
