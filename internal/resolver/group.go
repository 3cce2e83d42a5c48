package resolver

import "github.com/specialistvlad/bundlecore/internal/module"

// Group is a bucket of dependencies that all request the same underlying
// resource (per Dependency.IsEqualResource), resolved with a single
// factory.Create call.
type Group struct {
	Dependencies []*module.Dependency
}

// AllOptional reports whether every dependency in the group is optional,
// the condition under which a factory failure is reclassified as a
// warning instead of an error.
func (g Group) AllOptional() bool {
	for _, d := range g.Dependencies {
		if !d.Optional {
			return false
		}
	}
	return true
}

// groupDependencies buckets deps by IsEqualResource, preserving the order
// in which each distinct resource was first seen.
func groupDependencies(deps []*module.Dependency) []Group {
	var groups []Group
	for _, d := range deps {
		placed := false
		for i := range groups {
			if groups[i].Dependencies[0].IsEqualResource(d) {
				groups[i].Dependencies = append(groups[i].Dependencies, d)
				placed = true
				break
			}
		}
		if !placed {
			groups = append(groups, Group{Dependencies: []*module.Dependency{d}})
		}
	}
	return groups
}

// collectTransitiveDependencies gathers a Module's own dependencies plus
// every dependency nested in its Blocks and Variables, recursing into
// nested Blocks, in depth-first array order.
func collectTransitiveDependencies(m *module.Module) []*module.Dependency {
	var out []*module.Dependency
	out = append(out, m.Dependencies...)
	for _, b := range m.Blocks {
		out = append(out, collectBlockDependencies(b)...)
	}
	for _, v := range m.Variables {
		out = append(out, v.Dependencies...)
	}
	return out
}

func collectBlockDependencies(b *module.Block) []*module.Dependency {
	var out []*module.Dependency
	out = append(out, b.Dependencies...)
	for _, v := range b.Variables {
		out = append(out, v.Dependencies...)
	}
	for _, nested := range b.Blocks {
		out = append(out, collectBlockDependencies(nested)...)
	}
	return out
}
