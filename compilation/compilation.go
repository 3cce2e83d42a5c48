package compilation

import (
	"github.com/specialistvlad/bundlecore/internal/assets"
	"github.com/specialistvlad/bundlecore/internal/buildcoordinator"
	"github.com/specialistvlad/bundlecore/internal/cache"
	"github.com/specialistvlad/bundlecore/internal/chunk"
	"github.com/specialistvlad/bundlecore/internal/module"
	"github.com/specialistvlad/bundlecore/internal/modulestore"
	"github.com/specialistvlad/bundlecore/internal/resolver"
	"github.com/specialistvlad/bundlecore/internal/seal"
	"github.com/specialistvlad/bundlecore/internal/semaphore"
	"github.com/specialistvlad/bundlecore/internal/template"
)

// Entry is one named request passed to AddEntry, recorded in Entries in
// call order. Unseal keeps preparedChunks, so a later Seal works from
// those rather than from Entries.
type Entry struct {
	Name    string
	Tag     string
	Request string
}

// PreparedChunk pairs an entry's name with the module it resolved to and
// the chunk Seal eventually builds for it (spec.md §3's preparedChunks).
// A slot with a nil Module means AddEntry failed for that entry; such
// slots are removed rather than carried into Seal.
type PreparedChunk struct {
	Name   string
	Module *module.Module
	Chunk  *chunk.Chunk
}

// Compilation is one build: a module graph, the chunk graph Seal derives
// from it, and the ids/hashes/assets Seal assigns along the way (spec.md
// §3). It is not safe for concurrent use by multiple goroutines calling
// its own methods (AddEntry, Finish, Seal) concurrently — the concurrency
// this module exploits is entirely internal to each of those calls.
type Compilation struct {
	Name string

	compiler *Compiler

	Entries        []Entry
	preparedChunks []*PreparedChunk

	Entrypoints map[string]*chunk.Entrypoint
	Chunks      []*chunk.Chunk
	NamedChunks map[string]*chunk.Chunk

	Store *modulestore.Store

	Cache cache.Cache

	RecordedModuleIds map[int]struct{}
	RecordedChunkIds  map[int]struct{}

	FileDependencies    map[string]struct{}
	ContextDependencies map[string]struct{}

	Assets map[string]template.Source

	Hash     string
	FullHash string

	Errors   []error
	Warnings []error

	Children []*Compilation

	Lifecycle *seal.Lifecycle
	Plugins   *seal.Plugins

	resolver    *resolver.Resolver
	coordinator *buildcoordinator.Coordinator
	semaphore   *semaphore.Semaphore
	renderer    *assets.Renderer

	resolverErrSeen  int
	resolverWarnSeen int
}

func newCompilation(c *Compiler, name string) *Compilation {
	plugins := &seal.Plugins{}
	store := modulestore.New(c.Options.ModuleCacheSize)
	coordinator := buildcoordinator.New(buildcoordinator.Hooks{
		BuildModule:   func(m *module.Module) { plugins.BuildModule.Call(m) },
		SucceedModule: func(m *module.Module) { plugins.SucceedModule.Call(m) },
		FailedModule:  func(m *module.Module, err error) { plugins.FailedModule.Call(m, err) },
	})
	sem := semaphore.New(int64(c.Options.Parallelism))
	r := resolver.New(c.Factories, store, coordinator, sem, c.Options.Bail, name)

	renderer := assets.New(c.MainTemplate, c.ChunkTemplate, c.RenderCache)
	renderer.ModuleAsset.Tap("compilation", func(args ...any) { plugins.ModuleAsset.Call(args...) })
	renderer.ChunkAsset.Tap("compilation", func(args ...any) { plugins.ChunkAsset.Call(args...) })

	return &Compilation{
		Name:                name,
		compiler:            c,
		Entrypoints:         make(map[string]*chunk.Entrypoint),
		NamedChunks:         make(map[string]*chunk.Chunk),
		Store:               store,
		Cache:               c.RenderCache,
		RecordedModuleIds:   make(map[int]struct{}),
		RecordedChunkIds:    make(map[int]struct{}),
		FileDependencies:    make(map[string]struct{}),
		ContextDependencies: make(map[string]struct{}),
		Assets:              make(map[string]template.Source),
		Lifecycle:           seal.New(),
		Plugins:             plugins,
		resolver:            r,
		coordinator:         coordinator,
		semaphore:           sem,
		renderer:            renderer,
	}
}

// drainResolver appends whatever errors/warnings the resolver has
// accumulated since the last drain onto the Compilation's own lists.
// resolver.Errors()/Warnings() return the full cumulative snapshot every
// call, so only the tail past what was already seen is new.
func (comp *Compilation) drainResolver() {
	errs := comp.resolver.Errors()
	warns := comp.resolver.Warnings()
	comp.Errors = append(comp.Errors, errs[comp.resolverErrSeen:]...)
	comp.Warnings = append(comp.Warnings, warns[comp.resolverWarnSeen:]...)
	comp.resolverErrSeen = len(errs)
	comp.resolverWarnSeen = len(warns)
}

// addOrGetChunk returns the named chunk if one already exists (e.g. a
// second entry reusing a chunk name), or creates and registers a fresh
// one. An empty name never gets registered into NamedChunks.
func (comp *Compilation) addOrGetChunk(name string) *chunk.Chunk {
	if name != "" {
		if c, ok := comp.NamedChunks[name]; ok {
			return c
		}
	}
	c := chunk.New(name)
	if name != "" {
		comp.NamedChunks[name] = c
	}
	comp.Chunks = append(comp.Chunks, c)
	return c
}
