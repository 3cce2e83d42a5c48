package cerrors

import "fmt"

// EntryModuleNotFound means the factory could not resolve an entry's
// request. Always fatal under bail; otherwise recorded and the
// Compilation continues without that entry.
type EntryModuleNotFound struct {
	EntryName string
	Request   string
	Cause     error
}

func (e *EntryModuleNotFound) Error() string {
	return fmt.Sprintf("entry %q: module %q not found: %v", e.EntryName, e.Request, e.Cause)
}

func (e *EntryModuleNotFound) Unwrap() error { return e.Cause }

// ModuleNotFound means a non-entry dependency's factory lookup failed.
// Reclassified returns true when every dependency sharing this request was
// optional, in which case the caller records this as a warning rather than
// an error.
type ModuleNotFound struct {
	Request      string
	Origin       string
	Cause        error
	Reclassified bool
}

func (e *ModuleNotFound) Error() string {
	return fmt.Sprintf("module %q not found (requested from %q): %v", e.Request, e.Origin, e.Cause)
}

func (e *ModuleNotFound) Unwrap() error { return e.Cause }

// ModuleBuildError is an error accumulated by Module.Build, stamped with
// the identifier of the module that requested the build (Origin) and the
// requests of the dependencies that led to it.
type ModuleBuildError struct {
	Origin       string
	Dependencies []string
	Cause        error
}

func (e *ModuleBuildError) Error() string {
	return fmt.Sprintf("module %q build error: %v", e.Origin, e.Cause)
}

func (e *ModuleBuildError) Unwrap() error { return e.Cause }

// ModuleBuildWarning is the non-fatal counterpart to ModuleBuildError,
// used when the failing module's inclusion was itself optional.
type ModuleBuildWarning struct {
	Origin       string
	Dependencies []string
	Cause        error
}

func (e *ModuleBuildWarning) Error() string {
	return fmt.Sprintf("module %q build warning: %v", e.Origin, e.Cause)
}

func (e *ModuleBuildWarning) Unwrap() error { return e.Cause }

// ModuleDependencyError is emitted by Compilation.Finish from a
// Dependency's own recorded errors.
type ModuleDependencyError struct {
	Module string
	Loc    string
	Cause  error
}

func (e *ModuleDependencyError) Error() string {
	return fmt.Sprintf("module %q dependency error at %s: %v", e.Module, e.Loc, e.Cause)
}

func (e *ModuleDependencyError) Unwrap() error { return e.Cause }

// ModuleDependencyWarning is the warning counterpart of
// ModuleDependencyError, sourced from a Dependency's recorded warnings.
type ModuleDependencyWarning struct {
	Module string
	Loc    string
	Cause  error
}

func (e *ModuleDependencyWarning) Error() string {
	return fmt.Sprintf("module %q dependency warning at %s: %v", e.Module, e.Loc, e.Cause)
}

func (e *ModuleDependencyWarning) Unwrap() error { return e.Cause }

// AsyncDependencyToInitialChunkWarning fires when an async split's target
// chunk name collides with a pre-declared initial (entry) chunk; the split
// is folded into the parent chunk instead of creating a new one.
type AsyncDependencyToInitialChunkWarning struct {
	ChunkName string
	Module    string
}

func (e *AsyncDependencyToInitialChunkWarning) Error() string {
	return fmt.Sprintf("async dependency from %q targets initial chunk %q, folding into parent", e.Module, e.ChunkName)
}

// ChunkRenderError wraps any failure while rendering a chunk's assets,
// scoped to that one chunk so other chunks can still render.
type ChunkRenderError struct {
	ChunkName string
	Cause     error
}

func (e *ChunkRenderError) Error() string {
	return fmt.Sprintf("chunk %q render error: %v", e.ChunkName, e.Cause)
}

func (e *ChunkRenderError) Unwrap() error { return e.Cause }

// FactoryLookupError means no ModuleFactory was registered for a
// dependency's tag. It is always fatal: the resolver returns it directly,
// whatever the bail setting, rather than accumulating it.
type FactoryLookupError struct {
	Tag string
}

func (e *FactoryLookupError) Error() string {
	return fmt.Sprintf("no factory registered for dependency tag %q", e.Tag)
}

// AssetConflictError means two chunks tried to emit different content to
// the same output file.
type AssetConflictError struct {
	File    string
	ChunkA  string
	ChunkB  string
}

func (e *AssetConflictError) Error() string {
	return fmt.Sprintf("asset %q: conflicting content from chunks %q and %q", e.File, e.ChunkA, e.ChunkB)
}

// NonTerminatingOptimizationError means a fixed-point optimization loop
// (e.g. a seal-time plugin hook) did not converge within the iteration
// cap, and was aborted rather than looping forever.
type NonTerminatingOptimizationError struct {
	HookName string
	MaxIters int
}

func (e *NonTerminatingOptimizationError) Error() string {
	return fmt.Sprintf("hook %q did not converge after %d iterations", e.HookName, e.MaxIters)
}
