package compilation

import (
	"fmt"

	"github.com/specialistvlad/bundlecore/internal/cache"
	"github.com/specialistvlad/bundlecore/internal/config"
	"github.com/specialistvlad/bundlecore/internal/factory"
	"github.com/specialistvlad/bundlecore/internal/template"
)

// Compiler is the long-lived collaborator set a Compilation is built
// against: the options, the dependency factory registry, and the
// templates/cache used to render output (spec.md §6's Compiler
// collaborator). A single Compiler can drive many Compilations —
// sequential rebuilds, or a parent/child tree via CreateChildCompiler.
type Compiler struct {
	Name    string
	Options *config.CompilerOptions

	Factories *factory.Registry

	MainTemplate    template.MainTemplate
	ChunkTemplate   template.ChunkTemplate
	ModuleTemplates map[string]template.ModuleTemplate

	RenderCache cache.Cache
}

// NewCompiler creates a Compiler with an empty factory registry and an
// in-memory render cache. opts nil falls back to config.Default().
func NewCompiler(name string, opts *config.CompilerOptions) *Compiler {
	if opts == nil {
		opts = config.Default()
	}
	return &Compiler{
		Name:            name,
		Options:         opts,
		Factories:       factory.NewRegistry(),
		ModuleTemplates: make(map[string]template.ModuleTemplate),
		RenderCache:     cache.NewMemory(),
	}
}

// Compile creates a fresh Compilation against this Compiler's current
// collaborators. Each call gets its own module/chunk graph; nothing is
// shared with a prior Compilation except the Compiler's factories,
// templates and render cache.
func (c *Compiler) Compile() *Compilation {
	return newCompilation(c, c.Name)
}

// CreateChildCompiler spins up a child Compilation that shares this
// Compiler's factories and templates but owns an isolated module/chunk
// graph and its own error/warning lists, the way a parent compiler hands
// a sub-build (e.g. extracting a named asset group) its own Compilation
// without its modules leaking into the parent's (spec.md §6's
// createChildCompiler collaborator method).
func (c *Compiler) CreateChildCompiler(parent *Compilation, name string, index int) *Compilation {
	child := newCompilation(c, fmt.Sprintf("%s/%s/%d", parent.Name, name, index))
	parent.Children = append(parent.Children, child)
	return child
}
