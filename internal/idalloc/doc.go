// Package idalloc assigns deterministic numeric ids to modules and
// chunks, reusing any "holes" left by caller-provided reservations before
// handing out fresh ids — so recompiling after removing module 3 out of
// {0,1,2,3,4} reuses id 3 for whatever needs an id next, rather than
// growing the id space forever.
package idalloc
