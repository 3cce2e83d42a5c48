package template

import (
	"hash"

	"github.com/specialistvlad/bundlecore/internal/chunk"
	"github.com/specialistvlad/bundlecore/internal/hooks"
	"github.com/specialistvlad/bundlecore/internal/module"
)

// Source is a rendered asset body, ready to be written out or hashed.
// AssetRenderer wraps freshly rendered Sources in a CachedSource keyed by
// hash so unchanged chunks skip re-rendering.
type Source interface {
	Content() []byte
}

// BytesSource is the simplest Source: a fixed byte slice.
type BytesSource []byte

func (b BytesSource) Content() []byte { return b }

// PathOptions carries the context getPath/ApplyPluginsWaterfall("asset-path", ...)
// needs to expand filename template placeholders like [name] or [hash].
type PathOptions struct {
	Chunk           *chunk.Chunk
	ContentHashType string
}

// RenderManifestEntry is one file a chunk's template wants written out.
// Render is deferred so AssetRenderer can skip it on a cache hit.
type RenderManifestEntry struct {
	Identifier       string
	Hash             string
	FilenameTemplate string
	PathOptions      PathOptions
	Render           func() (Source, error)
}

// MainTemplate renders chunks that carry the runtime bootstrap
// (chunk.HasRuntime() == true).
type MainTemplate interface {
	UpdateHash(h hash.Hash)
	UpdateHashForChunk(h hash.Hash, c *chunk.Chunk)
	GetRenderManifest(c *chunk.Chunk) []RenderManifestEntry
}

// ChunkTemplate renders chunks with no runtime bootstrap.
type ChunkTemplate interface {
	UpdateHash(h hash.Hash)
	UpdateHashForChunk(h hash.Hash, c *chunk.Chunk)
	GetRenderManifest(c *chunk.Chunk) []RenderManifestEntry
}

// ModuleTemplate renders one module's own contribution to a chunk's
// output, keyed by source language/type in Compilation.dependencyTemplates.
type ModuleTemplate interface {
	UpdateHash(h hash.Hash)
	Render(m *module.Module, c *chunk.Chunk) (Source, error)
}

// AssetPathHooks exposes the "asset-path" waterfall hook templates consult
// when expanding a FilenameTemplate's placeholders, kept as a hook (rather
// than a method) so plugins can intercept path generation the way
// spec.md §6 describes.
type AssetPathHooks struct {
	AssetPath hooks.WaterfallHook
}

// ExpandPath runs filenameTemplate through the asset-path waterfall,
// falling back to the template unchanged if nothing is tapped.
func (h *AssetPathHooks) ExpandPath(filenameTemplate string, opts PathOptions) string {
	result := h.AssetPath.Call(filenameTemplate, opts)
	s, ok := result.(string)
	if !ok {
		return filenameTemplate
	}
	return s
}
