package factory

import (
	"context"

	"github.com/specialistvlad/bundlecore/internal/module"
)

// ContextInfo carries the identity of whoever is requesting a new module:
// the issuing module (nil for an entry) plus a free-form compiler label,
// used by factories that want to vary behavior by caller (e.g. resolving
// relative requests against the issuer's own identifier).
type ContextInfo struct {
	Issuer   *module.Module
	Compiler string
}

// CreateRequest bundles everything a ModuleFactory needs to resolve one or
// more grouped dependencies sharing the same request into a single Module.
type CreateRequest struct {
	ContextInfo    ContextInfo
	ResolveOptions any
	Context        string
	Dependencies   []*module.Dependency
}

// ModuleFactory resolves a CreateRequest into a built or buildable Module.
// Implementations are free to do the resolution synchronously or spawn
// their own goroutines internally — the Semaphore in internal/semaphore
// bounds how many Create calls run concurrently, not what happens inside
// one call.
type ModuleFactory interface {
	Create(ctx context.Context, req CreateRequest) (*module.Module, error)
}

// ModuleFactoryFunc adapts a plain function to ModuleFactory.
type ModuleFactoryFunc func(ctx context.Context, req CreateRequest) (*module.Module, error)

// Create implements ModuleFactory.
func (f ModuleFactoryFunc) Create(ctx context.Context, req CreateRequest) (*module.Module, error) {
	return f(ctx, req)
}
