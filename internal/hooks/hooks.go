package hooks

import (
	"context"
	"fmt"
)

// tap pairs a registered handler with the name it was registered under,
// used only in AsyncSeriesHook's error messages.
type tap[F any] struct {
	name string
	fn   F
}

// SyncHook invokes every tapped handler in registration order and
// discards return values. Used for fire-and-forget lifecycle
// notifications (e.g. "compilation", "this-compilation").
type SyncHook struct {
	taps []tap[func(args ...any)]
}

// Tap registers fn under name. Registration order is call order.
func (h *SyncHook) Tap(name string, fn func(args ...any)) {
	h.taps = append(h.taps, tap[func(args ...any)]{name: name, fn: fn})
}

// Call invokes every tapped handler with args, in registration order.
func (h *SyncHook) Call(args ...any) {
	for _, t := range h.taps {
		t.fn(args...)
	}
}

// Len reports how many handlers are tapped.
func (h *SyncHook) Len() int { return len(h.taps) }

// BailHook invokes tapped handlers in order until one returns ok == true;
// that value short-circuits the remaining handlers and is returned. An
// empty handler set, or one where every handler returns ok == false,
// yields (nil, false) — the spec's "undefined" bail result.
type BailHook struct {
	taps []tap[func(args ...any) (any, bool)]
}

// Tap registers fn under name.
func (h *BailHook) Tap(name string, fn func(args ...any) (any, bool)) {
	h.taps = append(h.taps, tap[func(args ...any) (any, bool)]{name: name, fn: fn})
}

// Call invokes tapped handlers until one bails (returns ok == true).
func (h *BailHook) Call(args ...any) (any, bool) {
	for _, t := range h.taps {
		if v, ok := t.fn(args...); ok {
			return v, true
		}
	}
	return nil, false
}

// Len reports how many handlers are tapped.
func (h *BailHook) Len() int { return len(h.taps) }

// WaterfallHook threads a value through every tapped handler: each
// handler receives the previous handler's return value (or seed, for the
// first handler) and returns the value for the next. With no handlers
// tapped, Call returns seed unchanged.
type WaterfallHook struct {
	taps []tap[func(value any, args ...any) any]
}

// Tap registers fn under name.
func (h *WaterfallHook) Tap(name string, fn func(value any, args ...any) any) {
	h.taps = append(h.taps, tap[func(value any, args ...any) any]{name: name, fn: fn})
}

// Call threads seed through every tapped handler and returns the final
// value.
func (h *WaterfallHook) Call(seed any, args ...any) any {
	value := seed
	for _, t := range h.taps {
		value = t.fn(value, args...)
	}
	return value
}

// Len reports how many handlers are tapped.
func (h *WaterfallHook) Len() int { return len(h.taps) }

// AsyncSeriesHook invokes tapped handlers one at a time, waiting for each
// to complete before starting the next; the first error short-circuits
// the remaining handlers and is returned wrapped with the failing tap's
// name (errors.Is/As still reach the original). Handlers observe ctx
// cancellation themselves — this hook does not impose a timeout.
type AsyncSeriesHook struct {
	taps []tap[func(ctx context.Context, args ...any) error]
}

// Tap registers fn under name.
func (h *AsyncSeriesHook) Tap(name string, fn func(ctx context.Context, args ...any) error) {
	h.taps = append(h.taps, tap[func(ctx context.Context, args ...any) error]{name: name, fn: fn})
}

// Call runs tapped handlers in sequence, stopping at the first error.
func (h *AsyncSeriesHook) Call(ctx context.Context, args ...any) error {
	for _, t := range h.taps {
		if err := t.fn(ctx, args...); err != nil {
			return fmt.Errorf("hook %q: %w", t.name, err)
		}
	}
	return nil
}

// Len reports how many handlers are tapped.
func (h *AsyncSeriesHook) Len() int { return len(h.taps) }
