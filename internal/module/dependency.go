package module

import "strings"

// Dependency is a directed edge from the Module (or Block) that owns it to
// the Module it requests, identified loosely by Request until resolved.
// Concrete dependency kinds (import, require, dynamic import, ...) are an
// external collaborator concern (spec.md §1); Tag is the embedder's own
// label for that kind and is never interpreted by this package.
type Dependency struct {
	Tag     string
	Request string
	Weak     bool
	Optional bool
	Loc      Location

	module          *Module
	referenceModule *Module
	noReference     bool

	errors   []error
	warnings []error
}

// NewDependency builds a Dependency for the given request string. tag
// labels the dependency's kind for the embedder's own use.
func NewDependency(tag, request string) *Dependency {
	return &Dependency{Tag: tag, Request: request}
}

// Module returns the resolved target Module, or nil if resolution has not
// happened yet (or failed).
func (d *Dependency) Module() *Module { return d.module }

// SetModule binds the Dependency to its resolved target. Called exactly
// once by DependencyResolver per successful resolution.
func (d *Dependency) SetModule(m *Module) { d.module = m }

// GetReference returns the Module this dependency should be considered to
// point to for graph-traversal purposes. By default this is Module(), but
// a Dependency can be marked noReference (e.g. a type-only or weak
// reference used purely for ordering) via SetNoReference, in which case
// GetReference returns nil even though Module() still holds the resolved
// target. referenceModule, when set, overrides both — used by dependency
// kinds that resolve to one module but should be graph-traversed as if
// pointing to another (spec.md's allowance for "redirect" dependency
// subtypes).
func (d *Dependency) GetReference() *Module {
	if d.noReference {
		return nil
	}
	if d.referenceModule != nil {
		return d.referenceModule
	}
	return d.module
}

// SetReferenceModule overrides the module GetReference reports.
func (d *Dependency) SetReferenceModule(m *Module) { d.referenceModule = m }

// SetNoReference marks the dependency as not contributing a graph edge,
// even though Module() may still resolve to a concrete target.
func (d *Dependency) SetNoReference(v bool) { d.noReference = v }

// IsEqualResource reports whether other requests the same underlying
// resource as d, used by the resolver to dedupe repeated requests from the
// same origin module (spec.md §4.3: "a module requesting the same resource
// twice yields one Dependency, reused").
func (d *Dependency) IsEqualResource(other *Dependency) bool {
	if other == nil {
		return false
	}
	return d.Request == other.Request && d.Tag == other.Tag
}

// Compare orders two Dependencies deterministically for SortItems: first by
// Tag, then by Request, then by source location. It returns a value <0, 0,
// or >0 like strings.Compare.
func (d *Dependency) Compare(other *Dependency) int {
	if c := strings.Compare(d.Tag, other.Tag); c != 0 {
		return c
	}
	if c := strings.Compare(d.Request, other.Request); c != 0 {
		return c
	}
	if c := strings.Compare(d.Loc.File, other.Loc.File); c != 0 {
		return c
	}
	if d.Loc.Line != other.Loc.Line {
		return d.Loc.Line - other.Loc.Line
	}
	return d.Loc.Column - other.Loc.Column
}

// AddError records a resolution or build error attributed to this
// dependency edge.
func (d *Dependency) AddError(err error) { d.errors = append(d.errors, err) }

// AddWarning records a non-fatal resolution issue attributed to this
// dependency edge (e.g. an optional dependency that could not be found).
func (d *Dependency) AddWarning(err error) { d.warnings = append(d.warnings, err) }

// GetErrors returns the errors recorded against this dependency edge.
func (d *Dependency) GetErrors() []error { return d.errors }

// GetWarnings returns the warnings recorded against this dependency edge.
func (d *Dependency) GetWarnings() []error { return d.warnings }

// Reference pairs a resolved Module with the Dependency that resolved it,
// returned by DependencyResolver to its caller so both halves of the edge
// are available without a second lookup.
type Reference struct {
	Module     *Module
	Dependency *Dependency
}
