package hooks

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSyncHook_CallsAllInOrder(t *testing.T) {
	var h SyncHook
	var order []string
	h.Tap("a", func(args ...any) { order = append(order, "a") })
	h.Tap("b", func(args ...any) { order = append(order, "b") })

	h.Call()
	assert.Equal(t, []string{"a", "b"}, order)
}

func TestBailHook_ShortCircuitsOnFirstBail(t *testing.T) {
	var h BailHook
	var called []string
	h.Tap("a", func(args ...any) (any, bool) {
		called = append(called, "a")
		return nil, false
	})
	h.Tap("b", func(args ...any) (any, bool) {
		called = append(called, "b")
		return "stop", true
	})
	h.Tap("c", func(args ...any) (any, bool) {
		called = append(called, "c")
		return nil, false
	})

	v, ok := h.Call()
	assert.True(t, ok)
	assert.Equal(t, "stop", v)
	assert.Equal(t, []string{"a", "b"}, called)
}

func TestBailHook_EmptyReturnsUndefined(t *testing.T) {
	var h BailHook
	v, ok := h.Call()
	assert.False(t, ok)
	assert.Nil(t, v)
}

func TestWaterfallHook_ThreadsValueThroughHandlers(t *testing.T) {
	var h WaterfallHook
	h.Tap("double", func(v any, args ...any) any { return v.(int) * 2 })
	h.Tap("plusOne", func(v any, args ...any) any { return v.(int) + 1 })

	result := h.Call(5)
	assert.Equal(t, 11, result)
}

func TestWaterfallHook_EmptyReturnsSeed(t *testing.T) {
	var h WaterfallHook
	assert.Equal(t, "seed", h.Call("seed"))
}

func TestAsyncSeriesHook_StopsAtFirstError(t *testing.T) {
	var h AsyncSeriesHook
	var called []string
	boom := errors.New("boom")

	h.Tap("a", func(ctx context.Context, args ...any) error {
		called = append(called, "a")
		return nil
	})
	h.Tap("b", func(ctx context.Context, args ...any) error {
		called = append(called, "b")
		return boom
	})
	h.Tap("c", func(ctx context.Context, args ...any) error {
		called = append(called, "c")
		return nil
	})

	err := h.Call(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"a", "b"}, called)
}

func TestAsyncSeriesHook_EmptySucceeds(t *testing.T) {
	var h AsyncSeriesHook
	assert.NoError(t, h.Call(context.Background()))
}

func TestRegistry_CreatesHookLazilyAndReusesIt(t *testing.T) {
	reg := NewBailRegistry()
	h1 := reg.Get("seal")
	h2 := reg.Get("seal")
	assert.Same(t, h1, h2)

	other := reg.Get("finish")
	assert.NotSame(t, h1, other)
}
