// Package workqueue provides two small, generic data structures: an
// explicit Stack (used by GraphLabeller's iterative DFS so deep module
// graphs never recurse) and a SortableSet, an insertion-ordered set with
// "have I seen this" membership testing plus a deterministic iteration
// order for later sorting. No other package in this module uses
// SortableSet.
package workqueue
