// Package cerrors defines the compilation core's error taxonomy: a closed
// set of typed errors/warnings that carry enough context (module, chunk,
// dependency, location) for a reporter to render them without re-deriving
// the failure from scratch.
//
// Every type implements error and supports errors.As. Severity is carried
// by the Go type: warnings have their own types (ModuleBuildWarning,
// ModuleDependencyWarning, AsyncDependencyToInitialChunkWarning), and an
// optional build's failures are recorded as ModuleBuildWarning values
// instead of ModuleBuildError ones (spec.md §7).
package cerrors
