package hooks

import "sync"

// Registry is a name-keyed table of hooks of a single invocation style,
// lazily creating each hook the first time it is looked up by name. The
// seal sequence does not use it: seal.Plugins declares a field per named
// hook instead.
type Registry[H any] struct {
	mu    sync.Mutex
	hooks map[string]*H
	new   func() *H
}

// NewRegistry creates a Registry whose hooks are created on first access
// via newHook.
func NewRegistry[H any](newHook func() *H) *Registry[H] {
	return &Registry[H]{hooks: make(map[string]*H), new: newHook}
}

// Get returns the named hook, creating it if this is the first reference.
func (r *Registry[H]) Get(name string) *H {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, exists := r.hooks[name]
	if !exists {
		h = r.new()
		r.hooks[name] = h
	}
	return h
}

// NewSyncRegistry creates a Registry of SyncHooks.
func NewSyncRegistry() *Registry[SyncHook] {
	return NewRegistry(func() *SyncHook { return &SyncHook{} })
}

// NewBailRegistry creates a Registry of BailHooks.
func NewBailRegistry() *Registry[BailHook] {
	return NewRegistry(func() *BailHook { return &BailHook{} })
}

// NewWaterfallRegistry creates a Registry of WaterfallHooks.
func NewWaterfallRegistry() *Registry[WaterfallHook] {
	return NewRegistry(func() *WaterfallHook { return &WaterfallHook{} })
}

// NewAsyncSeriesRegistry creates a Registry of AsyncSeriesHooks.
func NewAsyncSeriesRegistry() *Registry[AsyncSeriesHook] {
	return NewRegistry(func() *AsyncSeriesHook { return &AsyncSeriesHook{} })
}
