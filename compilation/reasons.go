package compilation

import (
	"context"

	"github.com/specialistvlad/bundlecore/internal/buildcoordinator"
	"github.com/specialistvlad/bundlecore/internal/chunk"
	"github.com/specialistvlad/bundlecore/internal/module"
)

// RemoveReasonsOfDependencyBlock removes the reason edge origin -> dep
// for every dependency (own and variable-owned) block holds, cascading:
// a target that loses its last reason is itself detached from every
// chunk and has its own blocks' reasons removed in turn, matching
// spec.md §4.11's rebuild path ("stale reason edges are cleaned up").
// Nested blocks are not descended into here — each is its own
// DependencyBlock with its own removal call once its owning edge is
// itself removed.
func (comp *Compilation) RemoveReasonsOfDependencyBlock(origin *module.Module, block *module.Block) {
	for _, dep := range block.Dependencies {
		comp.removeReasonEdge(origin, dep)
	}
	for _, v := range block.Variables {
		for _, dep := range v.Dependencies {
			comp.removeReasonEdge(origin, dep)
		}
	}
}

func (comp *Compilation) removeReasonEdge(origin *module.Module, dep *module.Dependency) {
	target := dep.Module()
	if target == nil {
		return
	}
	target.RemoveReason(origin, dep)
	if !target.HasReasons() {
		comp.removeUnreachableModule(target)
	}
}

func (comp *Compilation) removeUnreachableModule(m *module.Module) {
	comp.PatchChunksAfterReasonRemoval(m)
	for _, b := range m.Blocks {
		comp.RemoveReasonsOfDependencyBlock(m, b)
	}
}

// PatchChunksAfterReasonRemoval detaches m from every chunk it currently
// belongs to, used once m has lost its last reason and is no longer
// reachable from any entry (spec.md §4.11).
func (comp *Compilation) PatchChunksAfterReasonRemoval(m *module.Module) {
	var handles []module.ChunkHandle
	m.ForEachChunk(func(h module.ChunkHandle) { handles = append(handles, h) })
	for _, h := range handles {
		if c, ok := h.(*chunk.Chunk); ok {
			c.RemoveModule(m)
		}
		m.RemoveChunk(h)
	}
}

// RebuildModule rebuilds m from scratch (a watch-mode style incremental
// rebuild, spec.md §1's "incremental/watch rebuilds" left to the
// embedder but grounded here since BuildCoordinator already carries the
// RebuildModule primitive it needs): reprocesses its dependencies through
// the resolver, then removes the reason edges the old dependency graph
// held so modules no longer referenced become unreachable.
func (comp *Compilation) RebuildModule(ctx context.Context, m *module.Module) error {
	outcome := comp.coordinator.RebuildModule(m,
		func(mod *module.Module) error { return comp.resolver.ProcessModuleDependencies(ctx, mod) },
		func(mod *module.Module, snapshot buildcoordinator.RebuildState) {
			for _, b := range snapshot.Blocks {
				comp.RemoveReasonsOfDependencyBlock(mod, b)
			}
			for _, dep := range snapshot.Dependencies {
				comp.removeReasonEdge(mod, dep)
			}
			for _, v := range snapshot.Variables {
				for _, dep := range v.Dependencies {
					comp.removeReasonEdge(mod, dep)
				}
			}
		})

	comp.Errors = append(comp.Errors, outcome.Errors...)
	comp.Warnings = append(comp.Warnings, outcome.Warnings...)
	comp.drainResolver()
	return outcome.Err
}
