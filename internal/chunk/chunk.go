package chunk

import (
	"fmt"
	"hash"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/specialistvlad/bundlecore/internal/module"
)

// Chunk is a unit of output: a set of modules plus the parent/child edges
// connecting it to other chunks. See spec.md §3 for the full invariant
// list; the two enforced outside the mutex-guarded accessors below are
// structural and checked by callers: a named chunk appears at most once in
// a Compilation's namedChunks table, and a chunk left with zero parents
// after partitioning (and that isn't itself an input chunk) is removed.
type Chunk struct {
	mu sync.RWMutex

	Name string
	// ID and IDs are nil/empty until IdAllocator.applyChunkIds runs.
	ID  *int
	IDs []int

	Files []string

	modules map[*module.Module]struct{}
	parents map[*Chunk]struct{}
	children map[*Chunk]struct{}
	blocks   map[*module.Block]struct{}

	EntryModule *module.Module
	Origins     []Origin

	DebugID      string
	Hash         string
	RenderedHash string

	removed    bool
	removeReason string
}

// Origin records why a chunk exists: the entry name (for input chunks) or
// the module/block/location that triggered an async split.
type Origin struct {
	Request string
	Module  *module.Module
	Loc     module.Location
}

// New creates an empty Chunk. name may be empty for unnamed (async-split)
// chunks.
func New(name string) *Chunk {
	return &Chunk{
		Name:     name,
		modules:  make(map[*module.Module]struct{}),
		parents:  make(map[*Chunk]struct{}),
		children: make(map[*Chunk]struct{}),
		blocks:   make(map[*module.Block]struct{}),
		DebugID:  uuid.NewString(),
	}
}

// IsChunkHandle implements module.ChunkHandle, allowing package module to
// track chunk membership without importing this package.
func (c *Chunk) IsChunkHandle() {}

// AddModule adds m to the chunk's module set. It returns true the first
// time m is added; ChunkGraphBuilder relies on this to detect whether it
// needs to also call m.AddChunk(c) and enqueue the traversal continuation.
func (c *Chunk) AddModule(m *module.Module) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.modules[m]; exists {
		return false
	}
	c.modules[m] = struct{}{}
	return true
}

// RemoveModule removes m from the chunk's module set, returning true if it
// was present.
func (c *Chunk) RemoveModule(m *module.Module) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.modules[m]; !exists {
		return false
	}
	delete(c.modules, m)
	return true
}

// HasModule reports whether m currently belongs to the chunk.
func (c *Chunk) HasModule(m *module.Module) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, exists := c.modules[m]
	return exists
}

// ModuleCount returns the number of modules currently in the chunk.
func (c *Chunk) ModuleCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.modules)
}

// ForEachModule invokes fn once per module currently in the chunk. Order
// is not guaranteed; callers that need determinism should sort first.
func (c *Chunk) ForEachModule(fn func(*module.Module)) {
	c.mu.RLock()
	snapshot := make([]*module.Module, 0, len(c.modules))
	for m := range c.modules {
		snapshot = append(snapshot, m)
	}
	c.mu.RUnlock()
	for _, m := range snapshot {
		fn(m)
	}
}

// AddBlock records an async Block as belonging to this chunk's incoming
// edge set. It returns true the first time block is added.
func (c *Chunk) AddBlock(block *module.Block) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.blocks[block]; exists {
		return false
	}
	c.blocks[block] = struct{}{}
	return true
}

// AddChunk registers child as a graph child of c. It returns true the
// first time child is added, mirroring the addModule-style dedup contract
// spec.md describes for chunk.addChunk.
func (c *Chunk) AddChunk(child *Chunk) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.children[child]; exists {
		return false
	}
	c.children[child] = struct{}{}
	return true
}

// AddParent registers parent as a graph parent of c.
func (c *Chunk) AddParent(parent *Chunk) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.parents[parent]; exists {
		return false
	}
	c.parents[parent] = struct{}{}
	return true
}

// ParentCount returns the number of parent chunks. A chunk with zero
// parents after partitioning (that is not an input chunk) is a removal
// candidate.
func (c *Chunk) ParentCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.parents)
}

// Parents returns a snapshot of the chunk's parents.
func (c *Chunk) Parents() []*Chunk {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Chunk, 0, len(c.parents))
	for p := range c.parents {
		out = append(out, p)
	}
	return out
}

// Children returns a snapshot of the chunk's children.
func (c *Chunk) Children() []*Chunk {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Chunk, 0, len(c.children))
	for ch := range c.children {
		out = append(out, ch)
	}
	return out
}

// Remove marks the chunk removed, recording reason for diagnostics (e.g.
// "unconnected"). Removed chunks are filtered out of the Compilation's
// final chunk set but are not otherwise mutated.
func (c *Chunk) Remove(reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removed = true
	c.removeReason = reason
}

// Removed reports whether Remove was called, and if so, why.
func (c *Chunk) Removed() (bool, string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.removed, c.removeReason
}

// HasRuntime reports whether this chunk carries the runtime bootstrap and
// should therefore be rendered with a MainTemplate rather than a
// ChunkTemplate. A chunk has a runtime iff it has an EntryModule and at
// least one Origin describing an entry request (as opposed to being purely
// an async split target).
func (c *Chunk) HasRuntime() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.EntryModule != nil && len(c.Origins) > 0
}

// UpdateHash feeds the chunk's own identity (name, sorted module hashes)
// into h. Module hashes must already be finalized by the time this is
// called (HashEngine processes chunks in module-hash order).
func (c *Chunk) UpdateHash(h hash.Hash) {
	c.mu.RLock()
	mods := make([]*module.Module, 0, len(c.modules))
	for m := range c.modules {
		mods = append(mods, m)
	}
	name := c.Name
	c.mu.RUnlock()

	sort.Slice(mods, func(i, j int) bool { return mods[i].Identifier() < mods[j].Identifier() })

	_, _ = h.Write([]byte(name))
	for _, m := range mods {
		_, _ = h.Write([]byte(m.Hash))
	}
}

// String returns a debug-friendly label, preferring the chunk's name and
// falling back to its debug id.
func (c *Chunk) String() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.Name != "" {
		return c.Name
	}
	return fmt.Sprintf("chunk(%s)", c.DebugID)
}
