// Package hooks implements the four hook-invocation styles the
// compilation pipeline fires between named phases: Sync, Bail, Waterfall,
// and AsyncSeries. Each style is its own generic type rather than one
// generic "event bus", so a caller's registration site is typed to
// exactly the arguments and return shape that hook actually uses — the
// same dispatch-by-explicit-contract style the teacher's handler registry
// uses instead of an untyped event emitter.
package hooks
