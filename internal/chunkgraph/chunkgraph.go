package chunkgraph

import (
	"github.com/specialistvlad/bundlecore/internal/cerrors"
	"github.com/specialistvlad/bundlecore/internal/chunk"
	"github.com/specialistvlad/bundlecore/internal/module"
)

// edge is a chunk-to-chunk dependency discovered in phase 1, attributed
// to the Block whose async split produced it.
type edge struct {
	block *module.Block
	chunk *chunk.Chunk
}

// Result is what Build reports back once partitioning completes.
type Result struct {
	// AllCreatedChunks are the chunks phase 1 created for async splits —
	// the candidate set phase 2's cleanup step prunes from.
	AllCreatedChunks []*chunk.Chunk
	// Warnings accumulates AsyncDependencyToInitialChunkWarning values.
	Warnings []error
}

// Builder runs ChunkGraphBuilder's two phases over a set of input
// (entry) chunks. NamedChunks is mutated in place as phase 1 creates new
// named async-split chunks — the caller's Compilation.namedChunks table
// should be passed directly.
type Builder struct {
	NamedChunks map[string]*chunk.Chunk

	initial map[*chunk.Chunk]struct{}
}

// NewBuilder creates a Builder. initialChunks marks which chunks are
// pre-declared entry chunks, consulted when an async split's target name
// collides with one of them (spec.md §4.7's AsyncDependencyToInitialChunk
// fold-in case).
func NewBuilder(namedChunks map[string]*chunk.Chunk, initialChunks []*chunk.Chunk) *Builder {
	b := &Builder{NamedChunks: namedChunks, initial: make(map[*chunk.Chunk]struct{}, len(initialChunks))}
	for _, c := range initialChunks {
		b.initial[c] = struct{}{}
	}
	return b
}

// Build runs both phases over inputChunks (which must already have
// EntryModule set) and returns the chunks created for async splits plus
// any warnings raised along the way. Unconnected created chunks are
// marked removed before returning.
func (b *Builder) Build(inputChunks []*chunk.Chunk) Result {
	blockChunks := make(map[*module.Block]*chunk.Chunk)
	chunkDependencies := make(map[*chunk.Chunk][]edge)
	var allCreated []*chunk.Chunk
	var warnings []error

	b.phase1(inputChunks, blockChunks, chunkDependencies, &allCreated, &warnings)
	b.phase2(inputChunks, chunkDependencies)

	for _, c := range allCreated {
		if c.ParentCount() == 0 {
			c.Remove("unconnected")
		}
	}

	return Result{AllCreatedChunks: allCreated, Warnings: warnings}
}

type queueItem1 struct {
	bl blockLike
	ch *chunk.Chunk
}

func (b *Builder) phase1(inputChunks []*chunk.Chunk, blockChunks map[*module.Block]*chunk.Chunk, chunkDependencies map[*chunk.Chunk][]edge, allCreated *[]*chunk.Chunk, warnings *[]error) {
	queue := make([]queueItem1, 0, len(inputChunks))
	for _, ic := range inputChunks {
		if ic.AddModule(ic.EntryModule) {
			ic.EntryModule.AddChunk(ic)
		}
		queue = append(queue, queueItem1{bl: moduleAsBlock(ic.EntryModule), ch: ic})
	}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]
		bl, ch := item.bl, item.ch

		for _, dep := range bl.effectiveDependencies() {
			if dep.Weak {
				continue
			}
			ref := dep.GetReference()
			if ref == nil {
				continue
			}
			if ch.AddModule(ref) {
				ref.AddChunk(ch)
				queue = append(queue, queueItem1{bl: moduleAsBlock(ref), ch: ch})
			}
		}

		for _, nb := range bl.blocks {
			var target *chunk.Chunk
			switch {
			case blockChunks[nb] != nil:
				target = blockChunks[nb]

			case nb.ChunkName != "" && b.isInitialNamedChunk(nb.ChunkName):
				*warnings = append(*warnings, &cerrors.AsyncDependencyToInitialChunkWarning{
					ChunkName: nb.ChunkName,
					Module:    identifierOf(nb.Module),
				})
				target = ch

			default:
				target = chunk.New(nb.ChunkName)
				target.EntryModule = nb.Module
				if nb.ChunkName != "" {
					b.NamedChunks[nb.ChunkName] = target
				}
				blockChunks[nb] = target
				*allCreated = append(*allCreated, target)
			}

			chunkDependencies[ch] = append(chunkDependencies[ch], edge{block: nb, chunk: target})
			queue = append(queue, queueItem1{bl: realBlock(nb), ch: target})
		}
	}
}

func (b *Builder) isInitialNamedChunk(name string) bool {
	c, ok := b.NamedChunks[name]
	if !ok {
		return false
	}
	_, isInitial := b.initial[c]
	return isInitial
}

func identifierOf(m *module.Module) string {
	if m == nil {
		return ""
	}
	return m.Identifier()
}

type queueItem2 struct {
	chunk     *chunk.Chunk
	available map[*module.Module]struct{}
}

func (b *Builder) phase2(inputChunks []*chunk.Chunk, chunkDependencies map[*chunk.Chunk][]edge) {
	minAvailable := make(map[*chunk.Chunk]map[*module.Module]struct{})
	queue := make([]queueItem2, 0, len(inputChunks))
	for _, ic := range inputChunks {
		queue = append(queue, queueItem2{chunk: ic, available: map[*module.Module]struct{}{}})
	}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]
		ch, available := item.chunk, item.available

		stored, seen := minAvailable[ch]
		if !seen {
			stored = copySet(available)
			minAvailable[ch] = stored
		} else if !intersectInPlace(stored, available) {
			continue // no progress: this chunk's minimal set didn't shrink
		}

		edges := chunkDependencies[ch]
		if len(edges) == 0 {
			continue
		}

		newAvailable := copySet(stored)
		ch.ForEachModule(func(m *module.Module) { newAvailable[m] = struct{}{} })

		nextChunks := make([]*chunk.Chunk, 0, len(edges))
		seenNext := make(map[*chunk.Chunk]struct{})
		for _, e := range edges {
			depChunk := e.chunk
			if allModulesAvailable(depChunk, newAvailable) {
				continue // target already fully available; also breaks cycles
			}
			if depChunk.AddBlock(e.block) {
				e.block.AddChunk(depChunk)
			}
			if ch.AddChunk(depChunk) {
				depChunk.AddParent(ch)
			}
			if _, dup := seenNext[depChunk]; !dup {
				seenNext[depChunk] = struct{}{}
				nextChunks = append(nextChunks, depChunk)
			}
		}

		for _, nc := range nextChunks {
			queue = append(queue, queueItem2{chunk: nc, available: newAvailable})
		}
	}
}

func copySet(src map[*module.Module]struct{}) map[*module.Module]struct{} {
	out := make(map[*module.Module]struct{}, len(src))
	for m := range src {
		out[m] = struct{}{}
	}
	return out
}

// intersectInPlace removes from stored every module absent from incoming,
// returning true iff something was removed (i.e. progress was made).
func intersectInPlace(stored, incoming map[*module.Module]struct{}) bool {
	removed := false
	for m := range stored {
		if _, ok := incoming[m]; !ok {
			delete(stored, m)
			removed = true
		}
	}
	return removed
}

func allModulesAvailable(c *chunk.Chunk, available map[*module.Module]struct{}) bool {
	all := true
	c.ForEachModule(func(m *module.Module) {
		if _, ok := available[m]; !ok {
			all = false
		}
	})
	return all
}
