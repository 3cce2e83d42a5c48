// Package resolver implements DependencyResolver: turning a Module's own
// dependencies, and the dependencies nested in its Blocks and Variables,
// into resolved sibling Modules via the factory.Registry, with
// concurrency bounded by a semaphore.Semaphore and fanned out with
// golang.org/x/sync/errgroup so the first fatal failure cancels the rest
// of an in-flight group.
package resolver
