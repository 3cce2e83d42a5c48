// Package simple implements internal/template's MainTemplate,
// ChunkTemplate, and ModuleTemplate contracts by concatenating each
// module's source text in identifier order. It exists so
// internal/assets and the demo CLI have a concrete, dependency-free
// renderer to exercise the render-manifest pipeline against.
package simple
