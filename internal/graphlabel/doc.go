// Package graphlabel assigns the two orderings (Index/Index2) and the
// reachability depth (Depth) GraphLabeller computes over a module graph.
// AssignIndex is iterative — an explicit stack of {Enter, Leave, Block}
// actions rather than recursion — so a deeply nested graph never
// overflows the goroutine stack, and a module whose Index has already been
// assigned is skipped on re-entry, which makes it safe over cyclic graphs.
// AssignDepth is a queue-based relaxation instead: it resets the root's
// Depth to 0 and re-enqueues a module whenever its Depth improves, so it
// also terminates on cycles.
package graphlabel
