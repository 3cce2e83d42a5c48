// Package compilation is the public entry point of the compilation core:
// Compiler wires the collaborators (ModuleFactory registry, templates,
// caches, options) and Compilation is the per-build aggregate produced by
// one call to Compiler.Compile — the module graph, the chunk graph, the
// id/hash assignments and the rendered assets, all sealed through a single
// orchestrated Seal call. Everything this package needs from the graph,
// resolution, chunking, hashing and rendering machinery already lives in
// internal/*; this package's job is only to own the sequence those pieces
// run in, the way the teacher's internal/dag.Executor owns a run's
// sequencing without knowing what any one node actually does.
package compilation
