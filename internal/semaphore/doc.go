// Package semaphore provides the counting permit gate used to bound
// concurrent factory calls; module builds run after the permit is
// released and are not bounded by it. It is a thin, context-aware wrapper
// over golang.org/x/sync/semaphore so callers get cancellation-aware
// Acquire without reimplementing a wait queue.
package semaphore
