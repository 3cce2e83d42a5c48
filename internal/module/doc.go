// Package module defines the compiled-unit data model shared by the rest of
// the compilation core: Module, Dependency, Block, Variable, and Reason.
//
// A Module is built once by a factory.ModuleFactory and then owned
// exclusively by the Compilation that created it (see compilation.Compilation).
// Modules hold only weak references to each other through
// Dependency.Module() — cycles are expected and safe; nothing in this
// package or its callers recursively frees a cycle, the whole graph is
// simply dropped with the Compilation.
//
// Concrete Dependency subtypes (e.g. "import", "require", "dynamic
// import") are out of scope for this module: callers distinguish behavior
// through the Tag field and the Weak/Optional flags rather than through
// Go-level subtyping, matching spec.md's framing of concrete dependency
// subtypes as an external collaborator concern.
package module
