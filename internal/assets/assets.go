package assets

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/specialistvlad/bundlecore/internal/cache"
	"github.com/specialistvlad/bundlecore/internal/cerrors"
	"github.com/specialistvlad/bundlecore/internal/chunk"
	"github.com/specialistvlad/bundlecore/internal/hooks"
	"github.com/specialistvlad/bundlecore/internal/module"
	"github.com/specialistvlad/bundlecore/internal/template"
)

// contentProvider is the subset of module.AssetSource implementations
// that can actually hand back their bytes; a source that only reports
// Size() still gets installed as an (empty-content) entry, matching the
// spec's "the asset exists" contract without this package requiring a
// richer module.AssetSource interface.
type contentProvider interface {
	Content() []byte
}

// CachedSource wraps a rendered template.Source with the hash it was
// rendered at, so a later render can be skipped on hash match (spec.md
// §4.10's "wrap in a CachedSource if not already").
type CachedSource struct {
	Hash  string
	inner template.Source
}

func (c *CachedSource) Content() []byte { return c.inner.Content() }

// Renderer is the AssetRenderer: installs module-declared assets, then
// renders every chunk's manifest into the same assets map.
type Renderer struct {
	MainTemplate  template.MainTemplate
	ChunkTemplate template.ChunkTemplate
	Cache         cache.Cache
	PathHooks     *template.AssetPathHooks

	ModuleAsset hooks.SyncHook
	ChunkAsset  hooks.SyncHook
}

// New creates a Renderer. cache may be nil to disable render caching.
func New(mainTemplate template.MainTemplate, chunkTemplate template.ChunkTemplate, c cache.Cache) *Renderer {
	return &Renderer{
		MainTemplate:  mainTemplate,
		ChunkTemplate: chunkTemplate,
		Cache:         c,
		PathHooks:     &template.AssetPathHooks{},
	}
}

func assetSource(a module.AssetSource) template.Source {
	if cp, ok := a.(contentProvider); ok {
		return template.BytesSource(cp.Content())
	}
	return template.BytesSource(nil)
}

// CreateModuleAssets installs every module's own declared assets into
// assets, firing the module-asset hook for each. Modules are processed in
// the order given (insertion order); each module's own asset names are
// processed in sorted order for determinism.
func (r *Renderer) CreateModuleAssets(modules []*module.Module, assets map[string]template.Source) []error {
	var errs []error
	for _, m := range modules {
		names := make([]string, 0, len(m.Assets))
		for name := range m.Assets {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			file := r.expandName(name)
			src := assetSource(m.Assets[name])

			if existing, ok := assets[file]; ok && !bytes.Equal(existing.Content(), src.Content()) {
				errs = append(errs, &cerrors.AssetConflictError{
					File:   file,
					ChunkA: fmt.Sprintf("module:%s", m.Identifier()),
					ChunkB: fmt.Sprintf("module:%s", m.Identifier()),
				})
				continue
			}

			assets[file] = src
			r.ModuleAsset.Call(m, file)
		}
	}
	return errs
}

// CreateChunkAssets renders every chunk's manifest (MainTemplate if the
// chunk carries the runtime, ChunkTemplate otherwise) into assets,
// recording files on the chunk and firing chunk-asset per file. A failure
// partway through one chunk is caught and reported as a single
// ChunkRenderError so other chunks still render.
func (r *Renderer) CreateChunkAssets(chunks []*chunk.Chunk, assets map[string]template.Source) []error {
	var errs []error
	for _, c := range chunks {
		if err := r.renderChunk(c, assets); err != nil {
			errs = append(errs, &cerrors.ChunkRenderError{ChunkName: c.Name, Cause: err})
		}
	}
	return errs
}

func (r *Renderer) renderChunk(c *chunk.Chunk, assets map[string]template.Source) error {
	manifest := r.manifestFor(c)

	for _, entry := range manifest {
		src, err := r.renderEntry(c, entry)
		if err != nil {
			return err
		}

		file := r.expandFilename(entry.FilenameTemplate, entry.PathOptions)
		if existing, ok := assets[file]; ok && !bytes.Equal(existing.Content(), src.Content()) {
			return &cerrors.AssetConflictError{File: file, ChunkA: "<unknown>", ChunkB: c.Name}
		}

		assets[file] = src
		c.Files = append(c.Files, file)
		r.ChunkAsset.Call(c, file)
	}
	return nil
}

func (r *Renderer) manifestFor(c *chunk.Chunk) []template.RenderManifestEntry {
	if c.HasRuntime() {
		if r.MainTemplate == nil {
			return nil
		}
		return r.MainTemplate.GetRenderManifest(c)
	}
	if r.ChunkTemplate == nil {
		return nil
	}
	return r.ChunkTemplate.GetRenderManifest(c)
}

func (r *Renderer) renderEntry(c *chunk.Chunk, entry template.RenderManifestEntry) (template.Source, error) {
	key := c.Name + "/" + entry.Identifier
	if r.Cache != nil {
		if cached, ok := r.Cache.Get(key); ok && cached.Hash == entry.Hash {
			return &CachedSource{Hash: cached.Hash, inner: template.BytesSource(cached.Content)}, nil
		}
	}

	src, err := entry.Render()
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", entry.Identifier, err)
	}

	cached, ok := src.(*CachedSource)
	if !ok {
		cached = &CachedSource{Hash: entry.Hash, inner: src}
	}

	if r.Cache != nil {
		r.Cache.Set(key, cache.Entry{Hash: entry.Hash, Content: cached.Content()})
	}
	return cached, nil
}

func (r *Renderer) expandName(name string) string {
	return r.PathHooks.ExpandPath(name, template.PathOptions{})
}

func (r *Renderer) expandFilename(filenameTemplate string, opts template.PathOptions) string {
	expanded := filenameTemplate
	if opts.Chunk != nil {
		expanded = strings.ReplaceAll(expanded, "[name]", opts.Chunk.Name)
		expanded = strings.ReplaceAll(expanded, "[hash]", opts.Chunk.Hash)
	}
	return r.PathHooks.ExpandPath(expanded, opts)
}
