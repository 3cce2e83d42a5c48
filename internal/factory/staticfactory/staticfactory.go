package staticfactory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/specialistvlad/bundlecore/internal/factory"
	"github.com/specialistvlad/bundlecore/internal/module"
)

// Source is a pre-supplied module body keyed by request string.
type Source struct {
	// Content is the module's raw text, consumed by internal/template's
	// simple implementation when rendering assets.
	Content string
	// Dependencies lists requests this module itself depends on, resolved
	// by DependencyResolver against the same Factory.
	Dependencies []StaticDependency
	// FailBuild, when set, makes the module's Build step return this
	// error instead of succeeding — used to exercise ModuleBuildError/
	// ModuleBuildWarning paths in tests.
	FailBuild error
	// BuildDelay, when set, makes the module's Build step sleep before
	// returning — used to widen a build's in-flight window so tests can
	// reliably land concurrent callers inside it.
	BuildDelay time.Duration
}

// StaticDependency mirrors the subset of module.Dependency fields a static
// fixture needs to declare: the tag for factory lookup, the request
// string, and whether the edge is weak/optional.
type StaticDependency struct {
	Tag      string
	Request  string
	Weak     bool
	Optional bool
}

// Factory serves Modules from an in-memory source map. It is safe for
// concurrent Create calls.
type Factory struct {
	mu      sync.RWMutex
	sources map[string]Source
}

// New creates a Factory with no sources. Use Add to register fixtures.
func New() *Factory {
	return &Factory{sources: make(map[string]Source)}
}

// Add registers or replaces the source for request.
func (f *Factory) Add(request string, src Source) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sources[request] = src
}

// Create implements factory.ModuleFactory.
func (f *Factory) Create(ctx context.Context, req factory.CreateRequest) (*module.Module, error) {
	if len(req.Dependencies) == 0 {
		return nil, fmt.Errorf("staticfactory: create request has no dependencies")
	}
	request := req.Dependencies[0].Request

	f.mu.RLock()
	src, ok := f.sources[request]
	f.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("staticfactory: no source registered for %q", request)
	}

	m := module.New(request, func() error {
		if src.BuildDelay > 0 {
			time.Sleep(src.BuildDelay)
		}
		return src.FailBuild
	})
	for _, sd := range src.Dependencies {
		dep := module.NewDependency(sd.Tag, sd.Request)
		dep.Weak = sd.Weak
		dep.Optional = sd.Optional
		m.Dependencies = append(m.Dependencies, dep)
	}
	m.Assets["content"] = contentAsset(src.Content)
	return m, nil
}

type contentAsset string

func (c contentAsset) Size() int { return len(c) }

// String lets internal/template/simple recover the raw text without this
// package needing to know about templates.
func (c contentAsset) String() string { return string(c) }

// Content lets internal/assets install this asset's bytes into
// compilation.assets without this package needing to know about assets.
func (c contentAsset) Content() []byte { return []byte(c) }

var _ factory.ModuleFactory = (*Factory)(nil)
