// Package modulestore holds the identity-keyed Module table a Compilation
// builds up as dependencies resolve, plus an optional bounded content
// cache that lets a second Compilation reuse an already-built Module
// instance instead of rebuilding it from scratch.
//
// # Concurrency Model
//
// AddModule is the only mutating entry point and is safe for concurrent
// callers: DependencyResolver may discover the same identifier from two
// goroutines racing to resolve sibling dependencies, and the three-valued
// return (see AddModule) is how the loser finds out it must discard its
// own Module and use the winner's instead.
package modulestore
