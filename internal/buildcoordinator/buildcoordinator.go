package buildcoordinator

import (
	"sync"
	"time"

	"github.com/specialistvlad/bundlecore/internal/cerrors"
	"github.com/specialistvlad/bundlecore/internal/module"
)

// Outcome is what every waiter on a build receives once it completes.
type Outcome struct {
	// Errors and Warnings are the stamped errors/warnings to append to the
	// owning Compilation's own lists — stamped with Origin/Dependencies
	// per spec.md §4.4, with optional-dependency failures reclassified as
	// warnings before appending.
	Errors   []error
	Warnings []error
	// Err is non-nil only when the module.Build call itself returned an
	// error (as opposed to recording non-fatal Module.Errors/Warnings).
	Err error
}

// Hooks are the notifications BuildCoordinator fires around a build.
// SealLifecycle or the embedding Compilation taps these for logging and
// for plugin-visible lifecycle events; none of them can alter the build
// outcome, matching spec.md's "build-module"/"succeed-module"/
// "failed-module" being plain sync hooks.
type Hooks struct {
	BuildModule   func(m *module.Module)
	SucceedModule func(m *module.Module)
	FailedModule  func(m *module.Module, err error)
}

// Coordinator deduplicates concurrent build requests per Module identity:
// only the first caller for a given identifier actually runs
// Module.Build; every other concurrent caller is queued as a waiter and
// receives the same Outcome once the in-flight build finishes.
type Coordinator struct {
	hooks Hooks

	mu      sync.Mutex
	waiters map[string][]chan Outcome
}

// New creates a Coordinator. hooks fields are all individually optional;
// a zero Hooks value disables all notifications.
func New(hooks Hooks) *Coordinator {
	return &Coordinator{
		hooks:   hooks,
		waiters: make(map[string][]chan Outcome),
	}
}

// BuildModule builds m, or, if a build for the same identifier is already
// in flight, waits for that build's result instead of starting a second
// one. optional marks whether m's inclusion is itself optional: when
// true, errors recorded on m are reclassified as warnings before being
// returned, matching spec.md's "optional builds reclassify errors as
// warnings".
func (c *Coordinator) BuildModule(m *module.Module, optional bool, origin *module.Module, dependencies []*module.Dependency) Outcome {
	id := m.Identifier()
	ch := make(chan Outcome, 1)

	c.mu.Lock()
	if existing, inFlight := c.waiters[id]; inFlight {
		c.waiters[id] = append(existing, ch)
		c.mu.Unlock()
		return <-ch
	}
	c.waiters[id] = []chan Outcome{ch}
	c.mu.Unlock()

	if c.hooks.BuildModule != nil {
		c.hooks.BuildModule(m)
	}

	outcome := c.runBuild(m, optional, origin, dependencies)

	c.mu.Lock()
	waiters := c.waiters[id]
	delete(c.waiters, id)
	c.mu.Unlock()

	for _, w := range waiters {
		w <- outcome
		close(w)
	}
	return outcome
}

func (c *Coordinator) runBuild(m *module.Module, optional bool, origin *module.Module, dependencies []*module.Dependency) Outcome {
	buildErr := m.Build()

	depNames := make([]string, 0, len(dependencies))
	for _, d := range dependencies {
		depNames = append(depNames, d.Request)
	}
	var originName string
	if origin != nil {
		originName = origin.Identifier()
	}

	var outcome Outcome
	for _, e := range m.Errors {
		if optional {
			outcome.Warnings = append(outcome.Warnings, &cerrors.ModuleBuildWarning{Origin: originName, Dependencies: depNames, Cause: e})
		} else {
			outcome.Errors = append(outcome.Errors, &cerrors.ModuleBuildError{Origin: originName, Dependencies: depNames, Cause: e})
		}
	}
	for _, w := range m.Warnings {
		outcome.Warnings = append(outcome.Warnings, &cerrors.ModuleBuildWarning{Origin: originName, Dependencies: depNames, Cause: w})
	}

	m.SortItems(false)

	if buildErr != nil {
		outcome.Err = buildErr
		if c.hooks.FailedModule != nil {
			c.hooks.FailedModule(m, buildErr)
		}
		return outcome
	}

	m.MarkBuildTimestamp(time.Now().UnixNano())
	if c.hooks.SucceedModule != nil {
		c.hooks.SucceedModule(m)
	}
	return outcome
}

// WaitForBuildingFinished blocks until the in-flight Module.Build call for
// identifier completes, for a caller that lost the ModuleStore.AddModule
// race (the Duplicate branch of spec.md §4.5) and therefore never called
// BuildModule itself. It only covers the build itself, not whatever
// dependency recursion the winning goroutine runs afterward in
// resolver.addGroup — that recursion is tracked by the errgroup the winner
// is running under, not by this waiters map. If no build is tracked for
// identifier — it already finished, or (per spec.md's own open question)
// was never started — this returns immediately, matching
// waitForBuildingFinished's documented next-tick fallthrough.
func (c *Coordinator) WaitForBuildingFinished(identifier string) {
	c.mu.Lock()
	existing, inFlight := c.waiters[identifier]
	if !inFlight {
		c.mu.Unlock()
		return
	}
	ch := make(chan Outcome, 1)
	c.waiters[identifier] = append(existing, ch)
	c.mu.Unlock()
	<-ch
}

// RebuildState is the pre-rebuild snapshot RebuildModule needs in order to
// remove the reasons the old dependency graph held, once the new one is
// in place.
type RebuildState struct {
	Dependencies []*module.Dependency
	Blocks       []*module.Block
	Variables    []*module.Variable
}

// RebuildModule snapshots m's current dependency graph, rebuilds it
// (always as a non-optional build), lets processDependencies re-resolve
// the fresh dependency list, and finally invokes removeOldReasons with
// the pre-rebuild snapshot so stale reason edges are cleaned up. The two
// callbacks exist so this package does not need to import the resolver
// that owns processModuleDependencies/removeReasonsOfDependencyBlock,
// avoiding an import cycle between buildcoordinator and resolver.
func (c *Coordinator) RebuildModule(m *module.Module, processDependencies func(*module.Module) error, removeOldReasons func(*module.Module, RebuildState)) Outcome {
	snapshot := RebuildState{
		Dependencies: append([]*module.Dependency(nil), m.Dependencies...),
		Blocks:       append([]*module.Block(nil), m.Blocks...),
		Variables:    append([]*module.Variable(nil), m.Variables...),
	}

	outcome := c.BuildModule(m, false, nil, nil)
	if outcome.Err != nil {
		return outcome
	}

	if processDependencies != nil {
		if err := processDependencies(m); err != nil {
			outcome.Err = err
			return outcome
		}
	}
	if removeOldReasons != nil {
		removeOldReasons(m, snapshot)
	}
	return outcome
}
