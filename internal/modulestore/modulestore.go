package modulestore

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/specialistvlad/bundlecore/internal/module"
)

// AddResult is the three-valued outcome of AddModule. Collapsing this to a
// bool would destroy the cache-hit case: the caller must start using
// Cached.Module instead of the Module it just tried to add, not merely
// learn that the add failed.
type AddResult struct {
	// Inserted is true when candidate was newly inserted and should be
	// used as-is.
	Inserted bool
	// Duplicate is true when the identifier was already present under a
	// live (non-cache) entry; the caller must discard candidate.
	Duplicate bool
	// Cached holds the reused cached Module instance, non-nil only when
	// neither Inserted nor Duplicate is true.
	Cached *module.Module
}

// Store is the identifier-keyed Module table for one Compilation, with an
// optional persistent-ish content cache shared across Compilations (e.g.
// watch-mode rebuilds), keyed by the identifier prefixed with a caller
// supplied cache group (default "m").
type Store struct {
	mu      sync.RWMutex
	modules map[string]*module.Module
	order   []string

	cache *lru.Cache[string, *module.Module]
}

// DefaultCacheSize bounds the optional content cache when New is called
// with cacheSize <= 0.
const DefaultCacheSize = 4096

// New creates a Store. cacheSize <= 0 uses DefaultCacheSize; pass a
// negative... no, pass 0 to disable caching entirely is not supported —
// every Store gets a cache, matching spec.md's framing of the cache as
// always-present but optionally empty-hitting.
func New(cacheSize int) *Store {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	c, err := lru.New[string, *module.Module](cacheSize)
	if err != nil {
		// Only returns an error for size <= 0, which DefaultCacheSize
		// guards against above.
		panic(err)
	}
	return &Store{modules: make(map[string]*module.Module), cache: c}
}

// AddModule implements the three-valued add contract of spec.md §4.3.
// fileTimestamps and contextTimestamps may be nil, in which case any cache
// hit is always treated as stale (needRebuild unconditionally true).
func (s *Store) AddModule(candidate *module.Module, cacheGroup string, fileTimestamps, contextTimestamps map[string]int64) AddResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := candidate.Identifier()
	if _, exists := s.modules[id]; exists {
		return AddResult{Duplicate: true}
	}

	group := cacheGroup
	if group == "" {
		group = "m"
	}
	cacheName := group + id

	if cached, ok := s.cache.Get(cacheName); ok {
		if fileTimestamps != nil && contextTimestamps != nil && !cached.NeedRebuild(fileTimestamps, contextTimestamps) {
			cached.Disconnect()
			s.insertLocked(id, cached)
			return AddResult{Cached: cached}
		}
		cached.Unbuild()
	}

	s.insertLocked(id, candidate)
	s.cache.Add(cacheName, candidate)
	return AddResult{Inserted: true}
}

func (s *Store) insertLocked(id string, m *module.Module) {
	s.modules[id] = m
	s.order = append(s.order, id)
}

// Get returns the Module registered under id, if any.
func (s *Store) Get(id string) (*module.Module, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.modules[id]
	return m, ok
}

// Modules returns all registered Modules in insertion order. The returned
// slice must not be mutated by the caller; SortModules below replaces the
// store's own order, it does not give callers a mutable view into it.
func (s *Store) Modules() []*module.Module {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*module.Module, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.modules[id])
	}
	return out
}

// Len returns the number of registered modules.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// SortModules replaces the store's iteration order with modules sorted by
// Module.Index, called once GraphLabeller has assigned indices (spec.md
// §3: "modules preserves insertion order until sortModules replaces it by
// index").
func (s *Store) SortModules() {
	s.mu.Lock()
	defer s.mu.Unlock()
	byIndex := make(map[string]int, len(s.order))
	for _, id := range s.order {
		byIndex[id] = s.modules[id].Index
	}
	newOrder := make([]string, len(s.order))
	copy(newOrder, s.order)
	insertionSortByIndex(newOrder, byIndex)
	s.order = newOrder
}

func insertionSortByIndex(ids []string, byIndex map[string]int) {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && byIndex[ids[j]] < byIndex[ids[j-1]]; j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}
}
