package resolver

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/specialistvlad/bundlecore/internal/buildcoordinator"
	"github.com/specialistvlad/bundlecore/internal/cerrors"
	"github.com/specialistvlad/bundlecore/internal/factory"
	"github.com/specialistvlad/bundlecore/internal/module"
	"github.com/specialistvlad/bundlecore/internal/modulestore"
	"github.com/specialistvlad/bundlecore/internal/semaphore"
)

// Resolver is the DependencyResolver: it walks a Module's dependency
// groups and turns each into a resolved sibling Module, recursing until
// the reachable graph is exhausted.
type Resolver struct {
	Factories    *factory.Registry
	Store        *modulestore.Store
	Coordinator  *buildcoordinator.Coordinator
	Semaphore    *semaphore.Semaphore
	Bail         bool
	CompilerName string

	FileTimestamps    map[string]int64
	ContextTimestamps map[string]int64

	mu       sync.Mutex
	errors   []error
	warnings []error
}

// New creates a Resolver wired to the given collaborators.
func New(factories *factory.Registry, store *modulestore.Store, coordinator *buildcoordinator.Coordinator, sem *semaphore.Semaphore, bail bool, compilerName string) *Resolver {
	return &Resolver{
		Factories:    factories,
		Store:        store,
		Coordinator:  coordinator,
		Semaphore:    sem,
		Bail:         bail,
		CompilerName: compilerName,
	}
}

// Errors returns the errors accumulated across every resolution performed
// by this Resolver so far.
func (r *Resolver) Errors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]error(nil), r.errors...)
}

// Warnings returns the warnings accumulated across every resolution
// performed by this Resolver so far.
func (r *Resolver) Warnings() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]error(nil), r.warnings...)
}

func (r *Resolver) addError(err error) {
	r.mu.Lock()
	r.errors = append(r.errors, err)
	r.mu.Unlock()
}

func (r *Resolver) addWarning(err error) {
	r.mu.Lock()
	r.warnings = append(r.warnings, err)
	r.mu.Unlock()
}

// ProcessModuleDependencies groups m's transitive dependencies (own,
// blocks, variables) by resource identity and resolves each group,
// recursing into every freshly discovered module.
func (r *Resolver) ProcessModuleDependencies(ctx context.Context, m *module.Module) error {
	deps := collectTransitiveDependencies(m)
	groups := groupDependencies(deps)
	return r.AddModuleDependencies(ctx, m, groups, r.Bail, "", true)
}

// AddModuleDependencies resolves each group concurrently (bounded by
// Semaphore) under an errgroup so the first fatal failure, when bail is
// set, cancels the others via ctx.
func (r *Resolver) AddModuleDependencies(ctx context.Context, origin *module.Module, groups []Group, bail bool, cacheGroup string, recursive bool) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, grp := range groups {
		grp := grp
		g.Go(func() error {
			return r.addGroup(gctx, origin, grp, bail, cacheGroup, recursive)
		})
	}
	return g.Wait()
}

func (r *Resolver) addGroup(ctx context.Context, origin *module.Module, grp Group, bail bool, cacheGroup string, recursive bool) error {
	tag := grp.Dependencies[0].Tag
	f, ok := r.Factories.Lookup(tag)
	if !ok {
		// Fatal regardless of bail: no factory means nothing in this
		// group can ever resolve.
		return &cerrors.FactoryLookupError{Tag: tag}
	}

	if err := r.Semaphore.Acquire(ctx, 1); err != nil {
		return err
	}
	released := false
	release := func() {
		if !released {
			r.Semaphore.Release(1)
			released = true
		}
	}
	defer release()

	req := factory.CreateRequest{
		ContextInfo:  factory.ContextInfo{Issuer: origin, Compiler: r.CompilerName},
		Dependencies: grp.Dependencies,
	}
	m, err := f.Create(ctx, req)
	if err != nil {
		allOptional := grp.AllOptional()
		wrapped := &cerrors.ModuleNotFound{Request: grp.Dependencies[0].Request, Origin: identifierOf(origin), Cause: err, Reclassified: allOptional}
		if allOptional {
			r.addWarning(wrapped)
		} else {
			r.addError(wrapped)
		}
		if bail {
			return wrapped
		}
		return nil
	}
	if m == nil {
		return nil
	}

	result := r.Store.AddModule(m, cacheGroup, r.FileTimestamps, r.ContextTimestamps)

	switch {
	case result.Duplicate:
		existing, _ := r.Store.Get(m.Identifier())
		r.attach(existing, origin, grp.Dependencies)
		release()
		r.Coordinator.WaitForBuildingFinished(existing.Identifier())
		return nil

	case result.Cached != nil:
		cached := result.Cached
		cached.SetIssuer(origin)
		r.attach(cached, origin, grp.Dependencies)
		release()
		if recursive {
			return r.ProcessModuleDependencies(ctx, cached)
		}
		return nil

	default: // newly inserted
		m.SetIssuer(origin)
		r.attach(m, origin, grp.Dependencies)
		release()

		outcome := r.Coordinator.BuildModule(m, grp.AllOptional(), origin, grp.Dependencies)
		r.appendOutcome(outcome)
		if outcome.Err != nil {
			if bail {
				return outcome.Err
			}
			return nil
		}
		if recursive {
			return r.ProcessModuleDependencies(ctx, m)
		}
		return nil
	}
}

func (r *Resolver) attach(m *module.Module, origin *module.Module, deps []*module.Dependency) {
	for _, d := range deps {
		d.SetModule(m)
		m.AddReason(origin, d)
	}
}

func (r *Resolver) appendOutcome(o buildcoordinator.Outcome) {
	r.mu.Lock()
	r.errors = append(r.errors, o.Errors...)
	r.warnings = append(r.warnings, o.Warnings...)
	r.mu.Unlock()
}

func identifierOf(m *module.Module) string {
	if m == nil {
		return ""
	}
	return m.Identifier()
}

// AddModuleChain resolves a single dependency (used for entries and
// prefetch requests, where there is exactly one dependency rather than a
// grouped set): one factory call under a permit, attaching dep to the
// resulting module and invoking onModule exactly once, then recursing via
// ProcessModuleDependencies.
func (r *Resolver) AddModuleChain(ctx context.Context, dep *module.Dependency, onModule func(*module.Module)) error {
	f, ok := r.Factories.Lookup(dep.Tag)
	if !ok {
		return &cerrors.FactoryLookupError{Tag: dep.Tag}
	}

	if err := r.Semaphore.Acquire(ctx, 1); err != nil {
		return err
	}

	req := factory.CreateRequest{Dependencies: []*module.Dependency{dep}}
	m, err := f.Create(ctx, req)
	r.Semaphore.Release(1)
	if err != nil {
		wrapped := &cerrors.EntryModuleNotFound{Request: dep.Request, Cause: err}
		r.addError(wrapped)
		return wrapped
	}
	if m == nil {
		return nil
	}

	result := r.Store.AddModule(m, "", r.FileTimestamps, r.ContextTimestamps)
	final := m
	if result.Duplicate {
		existing, _ := r.Store.Get(m.Identifier())
		final = existing
	} else if result.Cached != nil {
		final = result.Cached
	}

	dep.SetModule(final)
	if onModule != nil {
		onModule(final)
	}

	if result.Inserted {
		outcome := r.Coordinator.BuildModule(final, dep.Optional, nil, []*module.Dependency{dep})
		r.appendOutcome(outcome)
		if outcome.Err != nil {
			return fmt.Errorf("resolver: building entry module %q: %w", final.Identifier(), outcome.Err)
		}
	}

	return r.ProcessModuleDependencies(ctx, final)
}

// AddEntry resolves the single dependency that names an entry's start
// module via AddModuleChain. The caller (compilation.Compilation) owns
// preparedChunks bookkeeping: it should reserve a named slot before
// calling AddEntry and remove that slot if AddEntry returns a nil module
// with no error (spec.md §4.5: "If no module was produced, the slot is
// removed from preparedChunks").
func (r *Resolver) AddEntry(ctx context.Context, entryDep *module.Dependency) (*module.Module, error) {
	var result *module.Module
	err := r.AddModuleChain(ctx, entryDep, func(m *module.Module) { result = m })
	return result, err
}
