// Package factory defines the ModuleFactory contract DependencyResolver
// consumes to turn a dependency request into a module.Module, plus a
// Registry that looks up the right factory by a dependency's tag.
//
// Concrete factories live in subpackages (httpfactory, staticfactory);
// this package only defines the contract and the tag-keyed lookup table,
// mirroring the teacher's registry.Registry split between the generic
// registration machinery and its concrete handler packages.
package factory
