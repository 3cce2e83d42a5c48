package buildcoordinator

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/bundlecore/internal/module"
)

func TestCoordinator_BuildModuleSucceeds(t *testing.T) {
	var succeeded *module.Module
	c := New(Hooks{SucceedModule: func(m *module.Module) { succeeded = m }})

	m := module.New("a", nil)
	outcome := c.BuildModule(m, false, nil, nil)

	assert.NoError(t, outcome.Err)
	assert.Empty(t, outcome.Errors)
	assert.Same(t, m, succeeded)
}

func TestCoordinator_BuildModuleFailurePropagates(t *testing.T) {
	boom := errors.New("parse error")
	var failedWith error
	c := New(Hooks{FailedModule: func(m *module.Module, err error) { failedWith = err }})

	m := module.New("a", func() error { return boom })
	outcome := c.BuildModule(m, false, nil, nil)

	assert.ErrorIs(t, outcome.Err, boom)
	assert.ErrorIs(t, failedWith, boom)
}

func TestCoordinator_OptionalBuildReclassifiesErrorsAsWarnings(t *testing.T) {
	c := New(Hooks{})
	m := module.New("a", nil)
	// Simulate module.Build recording a non-fatal error on the module
	// itself, distinct from the BuildFunc's own returned error.
	m.Errors = []error{errors.New("missing optional asset")}

	outcome := c.BuildModule(m, true, nil, nil)
	assert.NoError(t, outcome.Err)
	assert.Empty(t, outcome.Errors)
	assert.Len(t, outcome.Warnings, 1)
}

func TestCoordinator_NonOptionalBuildKeepsErrorsAsErrors(t *testing.T) {
	c := New(Hooks{})
	m := module.New("a", nil)
	m.Errors = []error{errors.New("missing required asset")}

	outcome := c.BuildModule(m, false, nil, nil)
	assert.Len(t, outcome.Errors, 1)
	assert.Empty(t, outcome.Warnings)
}

func TestCoordinator_ConcurrentBuildersShareOneResult(t *testing.T) {
	var buildCount int
	var mu sync.Mutex
	m := module.New("a", func() error {
		mu.Lock()
		buildCount++
		mu.Unlock()
		time.Sleep(10 * time.Millisecond)
		return nil
	})

	c := New(Hooks{})
	var wg sync.WaitGroup
	outcomes := make([]Outcome, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outcomes[i] = c.BuildModule(m, false, nil, nil)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, buildCount)
	for _, o := range outcomes {
		assert.NoError(t, o.Err)
	}
}

func TestCoordinator_WaitForBuildingFinishedBlocksUntilInFlightBuildCompletes(t *testing.T) {
	var built int32
	m := module.New("a", func() error {
		time.Sleep(15 * time.Millisecond)
		atomic.StoreInt32(&built, 1)
		return nil
	})

	c := New(Hooks{})
	go c.BuildModule(m, false, nil, nil)
	time.Sleep(2 * time.Millisecond) // give BuildModule time to register the in-flight waiter

	c.WaitForBuildingFinished(m.Identifier())
	assert.Equal(t, int32(1), atomic.LoadInt32(&built))
}

func TestCoordinator_WaitForBuildingFinishedReturnsImmediatelyWhenNothingTracked(t *testing.T) {
	c := New(Hooks{})
	done := make(chan struct{})
	go func() {
		c.WaitForBuildingFinished("never-built")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("WaitForBuildingFinished blocked with no build tracked")
	}
}

func TestCoordinator_RebuildModuleInvokesCallbacksInOrder(t *testing.T) {
	c := New(Hooks{})
	m := module.New("a", nil)
	m.Dependencies = []*module.Dependency{module.NewDependency("import", "old")}

	var processed *module.Module
	var removedSnapshot RebuildState
	outcome := c.RebuildModule(m,
		func(mm *module.Module) error {
			processed = mm
			mm.Dependencies = []*module.Dependency{module.NewDependency("import", "new")}
			return nil
		},
		func(mm *module.Module, snap RebuildState) {
			removedSnapshot = snap
		},
	)

	require.NoError(t, outcome.Err)
	assert.Same(t, m, processed)
	require.Len(t, removedSnapshot.Dependencies, 1)
	assert.Equal(t, "old", removedSnapshot.Dependencies[0].Request)
	assert.Equal(t, "new", m.Dependencies[0].Request)
}
