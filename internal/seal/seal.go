package seal

import (
	"fmt"
	"sync"

	"github.com/specialistvlad/bundlecore/internal/cerrors"
	"github.com/specialistvlad/bundlecore/internal/hooks"
)

// State is one node of the Building -> Finished -> Sealing -> Sealed
// state machine. Sealed can re-enter Building via Unseal.
type State int32

const (
	Building State = iota
	Finished
	Sealing
	Sealed
)

func (s State) String() string {
	switch s {
	case Building:
		return "building"
	case Finished:
		return "finished"
	case Sealing:
		return "sealing"
	case Sealed:
		return "sealed"
	default:
		return "unknown"
	}
}

// Lifecycle guards the state machine's transitions; it holds no graph
// data itself, only the current State.
type Lifecycle struct {
	mu    sync.Mutex
	state State
}

// New creates a Lifecycle in the Building state.
func New() *Lifecycle {
	return &Lifecycle{state: Building}
}

// State returns the current state.
func (l *Lifecycle) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// transition moves from `from` to `to`, failing if the current state
// isn't `from`.
func (l *Lifecycle) transition(from, to State) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != from {
		return fmt.Errorf("seal: cannot move to %s from %s (expected %s)", to, l.state, from)
	}
	l.state = to
	return nil
}

// Finish performs the Building -> Finished transition.
func (l *Lifecycle) Finish() error { return l.transition(Building, Finished) }

// BeginSeal performs the Finished -> Sealing transition, or, for the
// recursive reseal an unsealed need-additional-seal bail triggers,
// Building -> Sealing directly — Unseal returns to Building without
// re-running finish(), since nothing about the already-resolved
// dependency graph changed.
func (l *Lifecycle) BeginSeal() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != Building && l.state != Finished {
		return fmt.Errorf("seal: cannot move to %s from %s (expected %s or %s)", Sealing, l.state, Building, Finished)
	}
	l.state = Sealing
	return nil
}

// FinishSeal performs the Sealing -> Sealed transition.
func (l *Lifecycle) FinishSeal() error { return l.transition(Sealing, Sealed) }

// Unseal performs the Sealed -> Building transition, letting the
// Compilation be re-entered and re-sealed.
func (l *Lifecycle) Unseal() error { return l.transition(Sealed, Building) }

// Plugins is the full set of named hooks the seal sequence fires between
// every phase (spec.md §4.12), each typed to the invocation style that
// phase actually uses. A Compilation holds exactly one Plugins and taps
// into it the way an embedder's own plugins would.
type Plugins struct {
	Seal hooks.SyncHook

	OptimizeDependenciesBasic    hooks.BailHook
	OptimizeDependencies         hooks.BailHook
	OptimizeDependenciesAdvanced hooks.BailHook
	AfterOptimizeDependencies    hooks.SyncHook

	Optimize                 hooks.SyncHook
	OptimizeModulesBasic     hooks.BailHook
	OptimizeModules          hooks.BailHook
	OptimizeModulesAdvanced  hooks.BailHook
	AfterOptimizeModules     hooks.SyncHook
	OptimizeChunksBasic      hooks.BailHook
	OptimizeChunks           hooks.BailHook
	OptimizeChunksAdvanced   hooks.BailHook
	AfterOptimizeChunks      hooks.SyncHook

	OptimizeTree      hooks.AsyncSeriesHook
	AfterOptimizeTree hooks.SyncHook

	OptimizeChunkModulesBasic    hooks.BailHook
	OptimizeChunkModules         hooks.BailHook
	OptimizeChunkModulesAdvanced hooks.BailHook
	AfterOptimizeChunkModules    hooks.SyncHook

	ShouldRecord hooks.BailHook

	ReviveModules               hooks.SyncHook
	OptimizeModuleOrder         hooks.SyncHook
	AdvancedOptimizeModuleOrder hooks.SyncHook
	BeforeModuleIds             hooks.SyncHook
	ModuleIds                   hooks.SyncHook
	OptimizeModuleIds           hooks.SyncHook
	AfterOptimizeModuleIds      hooks.SyncHook

	ReviveChunks         hooks.SyncHook
	OptimizeChunkOrder   hooks.SyncHook
	BeforeChunkIds       hooks.SyncHook
	OptimizeChunkIds     hooks.SyncHook
	AfterOptimizeChunkIds hooks.SyncHook

	RecordModules hooks.SyncHook
	RecordChunks  hooks.SyncHook

	BeforeHash hooks.SyncHook
	AfterHash  hooks.SyncHook
	RecordHash hooks.SyncHook
	ChunkHash  hooks.SyncHook

	BeforeModuleAssets        hooks.SyncHook
	ShouldGenerateChunkAssets hooks.BailHook
	BeforeChunkAssets         hooks.SyncHook
	ModuleAsset               hooks.SyncHook
	ChunkAsset                hooks.SyncHook
	AdditionalChunkAssets     hooks.SyncHook
	Record                    hooks.SyncHook

	AdditionalAssets         hooks.AsyncSeriesHook
	OptimizeChunkAssets      hooks.AsyncSeriesHook
	AfterOptimizeChunkAssets hooks.SyncHook
	OptimizeAssets           hooks.AsyncSeriesHook
	AfterOptimizeAssets      hooks.SyncHook

	NeedAdditionalSeal hooks.BailHook
	AfterSeal          hooks.SyncHook

	UnsealHook hooks.SyncHook

	FinishModules hooks.SyncHook

	BuildModule   hooks.SyncHook
	SucceedModule hooks.SyncHook
	FailedModule  hooks.SyncHook
}

// DefaultMaxIterations is the cap FixedPoint applies to every optimize-*
// triplet, per spec.md §9 ("cap iterations defensively").
const DefaultMaxIterations = 1000

// FixedPoint repeatedly calls each of hooks in order until a full pass
// bails from none of them, matching spec.md §4.12's "any truthy return
// restarts the loop" semantics for the optimize-dependencies/-modules/
// -chunks/-chunk-modules triplets. It returns a
// cerrors.NonTerminatingOptimizationError if convergence isn't reached
// within maxIters passes.
func FixedPoint(name string, maxIters int, hooksToRun ...*hooks.BailHook) error {
	if maxIters <= 0 {
		maxIters = DefaultMaxIterations
	}
	for i := 0; i < maxIters; i++ {
		restarted := false
		for _, h := range hooksToRun {
			if _, bailed := h.Call(); bailed {
				restarted = true
				break
			}
		}
		if !restarted {
			return nil
		}
	}
	return &cerrors.NonTerminatingOptimizationError{HookName: name, MaxIters: maxIters}
}
