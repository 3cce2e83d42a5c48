package idalloc

import (
	"github.com/specialistvlad/bundlecore/internal/chunk"
	"github.com/specialistvlad/bundlecore/internal/module"
)

// ApplyModuleIds assigns a numeric id to every module in modules that
// doesn't already have one, reusing holes in usedModuleIds (a
// caller-provided set of reserved ids, e.g. from a previous compilation)
// before allocating fresh ids past the current maximum.
func ApplyModuleIds(modules []*module.Module, usedModuleIds map[int]struct{}) {
	applyIds(modules,
		func(m *module.Module) *int { return m.ID },
		func(m *module.Module, id int) { m.ID = &id },
		usedModuleIds,
	)
}

// ApplyChunkIds assigns a numeric id to every chunk in chunks that
// doesn't already have one, analogous to ApplyModuleIds. After
// assignment, every chunk with no IDs slice receives IDs = []int{ID}.
func ApplyChunkIds(chunks []*chunk.Chunk, usedChunkIds map[int]struct{}) {
	applyIds(chunks,
		func(c *chunk.Chunk) *int { return c.ID },
		func(c *chunk.Chunk, id int) { c.ID = &id },
		usedChunkIds,
	)
	for _, c := range chunks {
		if len(c.IDs) == 0 && c.ID != nil {
			c.IDs = []int{*c.ID}
		}
	}
}

// applyIds is the shared allocation core: gather already-used ids (both
// caller-reserved and already-assigned), compute the unused-id holes
// below the current maximum, and hand them out LIFO (highest hole
// first) before falling back to a fresh, ever-increasing id.
func applyIds[T any](items []T, getID func(T) *int, setID func(T, int), reserved map[int]struct{}) {
	used := make(map[int]struct{}, len(reserved))
	for id := range reserved {
		used[id] = struct{}{}
	}
	maxUsed := -1
	for _, item := range items {
		if id := getID(item); id != nil {
			used[*id] = struct{}{}
			if *id > maxUsed {
				maxUsed = *id
			}
		}
	}
	for id := range used {
		if id > maxUsed {
			maxUsed = id
		}
	}

	nextFree := maxUsed + 1

	var unused []int
	for i := 0; i < nextFree; i++ {
		if _, ok := used[i]; !ok {
			unused = append(unused, i)
		}
	}

	for _, item := range items {
		if getID(item) != nil {
			continue
		}
		if n := len(unused); n > 0 {
			id := unused[n-1]
			unused = unused[:n-1]
			setID(item, id)
			continue
		}
		setID(item, nextFree)
		nextFree++
	}
}
