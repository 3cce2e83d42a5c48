package module

// EffectiveDependencies prepends every variable's own dependencies to
// deps, since a block's (or a module's) variables' dependencies are
// treated as if inlined at the start of its dependency list by every
// traversal in this module (GraphLabeller, ChunkGraphBuilder).
func EffectiveDependencies(variables []*Variable, deps []*Dependency) []*Dependency {
	if len(variables) == 0 {
		return deps
	}
	out := make([]*Dependency, 0, len(deps))
	for _, v := range variables {
		out = append(out, v.Dependencies...)
	}
	out = append(out, deps...)
	return out
}

// AllDependencies returns every dependency transitively owned by m: its
// own Dependencies, its Variables' Dependencies, and everything nested in
// its Blocks (recursively), in depth-first array order. Used by
// Compilation.Finish's walk (spec.md §4.11) to collect per-dependency
// errors/warnings across the whole module, not just its own top level.
func AllDependencies(m *Module) []*Dependency {
	var out []*Dependency
	out = append(out, m.Dependencies...)
	for _, b := range m.Blocks {
		out = append(out, allBlockDependencies(b)...)
	}
	for _, v := range m.Variables {
		out = append(out, v.Dependencies...)
	}
	return out
}

func allBlockDependencies(b *Block) []*Dependency {
	var out []*Dependency
	out = append(out, b.Dependencies...)
	for _, v := range b.Variables {
		out = append(out, v.Dependencies...)
	}
	for _, nested := range b.Blocks {
		out = append(out, allBlockDependencies(nested)...)
	}
	return out
}
