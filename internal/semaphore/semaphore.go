package semaphore

import (
	"context"

	xsemaphore "golang.org/x/sync/semaphore"
)

// DefaultCapacity is the permit count used when no explicit capacity is
// configured, matching the default concurrent-factory-call ceiling.
const DefaultCapacity = 100

// Semaphore is a counting permit gate: Acquire blocks (FIFO among
// waiters) until k permits are available, Release returns them. It has no
// fairness guarantee beyond what golang.org/x/sync/semaphore provides,
// which satisfies the FIFO-of-waiters requirement without a hand-rolled
// condition-variable queue.
type Semaphore struct {
	weighted *xsemaphore.Weighted
}

// New creates a Semaphore with the given permit capacity. A capacity <= 0
// falls back to DefaultCapacity.
func New(capacity int64) *Semaphore {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Semaphore{weighted: xsemaphore.NewWeighted(capacity)}
}

// Acquire blocks until k permits are available or ctx is cancelled.
func (s *Semaphore) Acquire(ctx context.Context, k int64) error {
	return s.weighted.Acquire(ctx, k)
}

// Release returns k permits, waking at most as many waiters as the
// returned capacity allows.
func (s *Semaphore) Release(k int64) {
	s.weighted.Release(k)
}

// Run acquires one permit, invokes fn, and releases the permit regardless
// of fn's outcome. The resolver's factory call sites use Acquire and
// Release directly instead.
func (s *Semaphore) Run(ctx context.Context, fn func() error) error {
	if err := s.Acquire(ctx, 1); err != nil {
		return err
	}
	defer s.Release(1)
	return fn()
}
