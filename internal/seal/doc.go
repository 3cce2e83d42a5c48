// Package seal provides the SealLifecycle primitives: the
// Building/Finished/Sealing/Sealed state machine (spec.md §4.12), the
// Plugins surface naming every phase of the seal sequence, and the
// fixed-point bail-loop helper the "optimize-*" phase triplets share. The
// orchestration of those phases against a concrete module/chunk graph is
// the top-level compilation package's job (compilation.Compilation.Seal);
// this package only owns the state transitions and the hook contracts
// every phase is invoked through, mirroring how little of the teacher's
// own internal/dag/executor.go concerns itself with *what* a node does
// versus *when* it runs.
package seal
