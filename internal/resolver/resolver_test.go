package resolver

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/bundlecore/internal/buildcoordinator"
	"github.com/specialistvlad/bundlecore/internal/cerrors"
	"github.com/specialistvlad/bundlecore/internal/factory"
	"github.com/specialistvlad/bundlecore/internal/factory/staticfactory"
	"github.com/specialistvlad/bundlecore/internal/module"
	"github.com/specialistvlad/bundlecore/internal/modulestore"
	"github.com/specialistvlad/bundlecore/internal/semaphore"
)

func newTestResolver(t *testing.T, sf *staticfactory.Factory) *Resolver {
	t.Helper()
	reg := factory.NewRegistry()
	reg.Register("import", sf)
	return New(reg, modulestore.New(16), buildcoordinator.New(buildcoordinator.Hooks{}), semaphore.New(8), false, "test")
}

func TestResolver_ProcessModuleDependenciesResolvesLinearChain(t *testing.T) {
	sf := staticfactory.New()
	sf.Add("./a", staticfactory.Source{Dependencies: []staticfactory.StaticDependency{{Tag: "import", Request: "./b"}}})
	sf.Add("./b", staticfactory.Source{Content: "leaf"})

	r := newTestResolver(t, sf)
	a := module.New("./a", nil)
	a.Dependencies = []*module.Dependency{module.NewDependency("import", "./b")}

	err := r.ProcessModuleDependencies(context.Background(), a)
	require.NoError(t, err)

	b, ok := r.Store.Get("./b")
	require.True(t, ok)
	assert.True(t, b.HasReasons())
}

func TestResolver_DiamondDependencySharesOneModuleInstance(t *testing.T) {
	sf := staticfactory.New()
	sf.Add("./shared", staticfactory.Source{Content: "shared"})

	r := newTestResolver(t, sf)
	left := module.New("./left", nil)
	left.Dependencies = []*module.Dependency{module.NewDependency("import", "./shared")}
	right := module.New("./right", nil)
	right.Dependencies = []*module.Dependency{module.NewDependency("import", "./shared")}

	require.NoError(t, r.ProcessModuleDependencies(context.Background(), left))
	require.NoError(t, r.ProcessModuleDependencies(context.Background(), right))

	shared, ok := r.Store.Get("./shared")
	require.True(t, ok)
	assert.Equal(t, 2, len(shared.Reasons()))
}

func TestResolver_ConcurrentDiamondLegsWaitForSharedModuleBuildToFinish(t *testing.T) {
	sf := staticfactory.New()
	sf.Add("./shared", staticfactory.Source{Content: "shared", BuildDelay: 20 * time.Millisecond})

	r := newTestResolver(t, sf)
	left := module.New("./left", nil)
	left.Dependencies = []*module.Dependency{module.NewDependency("import", "./shared")}
	right := module.New("./right", nil)
	right.Dependencies = []*module.Dependency{module.NewDependency("import", "./shared")}

	start := time.Now()
	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		errs[0] = r.ProcessModuleDependencies(context.Background(), left)
	}()
	go func() {
		defer wg.Done()
		errs[1] = r.ProcessModuleDependencies(context.Background(), right)
	}()
	wg.Wait()
	elapsed := time.Since(start)

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	// Both legs have returned, so the shared build (BuildDelay) has run to
	// completion: the winner of the AddModule race builds ./shared itself,
	// and a loser that arrives while that build is in flight waits for it
	// through the Duplicate branch's WaitForBuildingFinished call.
	assert.GreaterOrEqual(t, elapsed, 15*time.Millisecond)

	shared, ok := r.Store.Get("./shared")
	require.True(t, ok)
	assert.Equal(t, 2, len(shared.Reasons()))
}

func TestResolver_OptionalMissingDependencyBecomesWarningNotError(t *testing.T) {
	sf := staticfactory.New() // "./missing" is never registered

	r := newTestResolver(t, sf)
	m := module.New("./a", nil)
	optDep := module.NewDependency("import", "./missing")
	optDep.Optional = true
	m.Dependencies = []*module.Dependency{optDep}

	err := r.ProcessModuleDependencies(context.Background(), m)
	require.NoError(t, err)
	assert.Empty(t, r.Errors())
	require.Len(t, r.Warnings(), 1)
}

func TestResolver_RequiredMissingDependencyBecomesError(t *testing.T) {
	sf := staticfactory.New()

	r := newTestResolver(t, sf)
	m := module.New("./a", nil)
	m.Dependencies = []*module.Dependency{module.NewDependency("import", "./missing")}

	err := r.ProcessModuleDependencies(context.Background(), m)
	require.NoError(t, err) // non-bail: error accumulated, not propagated
	require.Len(t, r.Errors(), 1)
}

func TestResolver_BailPropagatesFatalFactoryLookupError(t *testing.T) {
	reg := factory.NewRegistry() // no "import" tag registered at all
	r := New(reg, modulestore.New(16), buildcoordinator.New(buildcoordinator.Hooks{}), semaphore.New(8), true, "test")

	m := module.New("./a", nil)
	m.Dependencies = []*module.Dependency{module.NewDependency("import", "./b")}

	err := r.ProcessModuleDependencies(context.Background(), m)
	var lookupErr *cerrors.FactoryLookupError
	require.ErrorAs(t, err, &lookupErr)
}

func TestResolver_AddEntryResolvesStartModule(t *testing.T) {
	sf := staticfactory.New()
	sf.Add("./main", staticfactory.Source{Content: "main"})

	r := newTestResolver(t, sf)
	dep := module.NewDependency("import", "./main")

	m, err := r.AddEntry(context.Background(), dep)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "./main", m.Identifier())
}

func TestResolver_AddEntryMissingModuleReturnsNilWithoutPanicking(t *testing.T) {
	sf := staticfactory.New()
	r := newTestResolver(t, sf)
	dep := module.NewDependency("import", "./missing")

	m, err := r.AddEntry(context.Background(), dep)
	assert.Error(t, err)
	assert.Nil(t, m)
}
