// Package buildcoordinator deduplicates concurrent build requests for the
// same Module identity: if two goroutines both try to build module "a" at
// once, only one call actually runs Module.Build; the other is queued as
// a waiter and notified with the same result.
//
// The state machine per identifier is: notStarted (no entry) ->
// building{waiters} -> absent again once finished, mirroring the
// teacher's node.go pattern of guarding a one-time transition with a
// lightweight lock rather than a full actor mailbox.
//
// WaitForBuildingFinished lets a caller that never itself called
// BuildModule (a loser of ModuleStore.AddModule's dedup, i.e. the
// Duplicate case) block on that same state machine: building{waiters}
// queues it alongside BuildModule's own waiters, absent lets it through
// immediately. Because absent covers both "finished" and "never
// started", a caller that races ahead of the winner actually starting
// its build falls through without waiting — this is the ambiguity
// spec.md leaves open, and it is harmless here because the only caller
// (resolver.addGroup's Duplicate branch) only reaches this state after
// ModuleStore.AddModule has already returned an existing Module
// instance, i.e. a build for that identifier has already been started
// by whichever goroutine inserted it.
package buildcoordinator
