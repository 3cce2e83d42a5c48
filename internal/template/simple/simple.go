package simple

import (
	"bytes"
	"fmt"
	"hash"
	"sort"

	"github.com/specialistvlad/bundlecore/internal/chunk"
	"github.com/specialistvlad/bundlecore/internal/module"
	"github.com/specialistvlad/bundlecore/internal/template"
)

// ModuleTemplate renders a module's "content" asset verbatim, falling
// back to its identifier when no content asset was set (e.g. a module
// whose factory only cares about the dependency graph).
type ModuleTemplate struct{}

func (ModuleTemplate) UpdateHash(h hash.Hash) {
	_, _ = h.Write([]byte("simple-module-template"))
}

func (ModuleTemplate) Render(m *module.Module, c *chunk.Chunk) (template.Source, error) {
	return template.BytesSource([]byte(moduleText(m))), nil
}

func moduleText(m *module.Module) string {
	if asset, ok := m.Assets["content"]; ok {
		if s, ok := asset.(fmt.Stringer); ok {
			return s.String()
		}
	}
	return m.Identifier()
}

// sortedModules returns c's modules sorted by identifier, matching the
// determinism chunk.UpdateHash already relies on.
func sortedModules(c *chunk.Chunk) []*module.Module {
	mods := make([]*module.Module, 0, c.ModuleCount())
	c.ForEachModule(func(m *module.Module) { mods = append(mods, m) })
	sort.Slice(mods, func(i, j int) bool { return mods[i].Identifier() < mods[j].Identifier() })
	return mods
}

func concatenate(c *chunk.Chunk, mt ModuleTemplate) (template.Source, error) {
	var buf bytes.Buffer
	for _, m := range sortedModules(c) {
		src, err := mt.Render(m, c)
		if err != nil {
			return nil, fmt.Errorf("simple: render module %s: %w", m.Identifier(), err)
		}
		buf.Write(src.Content())
		buf.WriteByte('\n')
	}
	return template.BytesSource(buf.Bytes()), nil
}

// ChunkTemplate renders a non-runtime chunk as its modules' contents
// concatenated in identifier order.
type ChunkTemplate struct {
	ModuleTemplate ModuleTemplate
}

func (t *ChunkTemplate) UpdateHash(h hash.Hash) {
	_, _ = h.Write([]byte("simple-chunk-template"))
}

func (t *ChunkTemplate) UpdateHashForChunk(h hash.Hash, c *chunk.Chunk) {
	_, _ = h.Write([]byte("chunk:" + c.Name))
}

func (t *ChunkTemplate) GetRenderManifest(c *chunk.Chunk) []template.RenderManifestEntry {
	return []template.RenderManifestEntry{{
		Identifier:       c.Name,
		Hash:             c.Hash,
		FilenameTemplate: "[name].[hash].js",
		PathOptions:      template.PathOptions{Chunk: c},
		Render: func() (template.Source, error) {
			return concatenate(c, t.ModuleTemplate)
		},
	}}
}

// MainTemplate renders a runtime-carrying chunk the same way ChunkTemplate
// does, with a bootstrap comment prepended so output is visibly
// distinguishable in tests and the demo CLI.
type MainTemplate struct {
	ModuleTemplate ModuleTemplate
}

func (t *MainTemplate) UpdateHash(h hash.Hash) {
	_, _ = h.Write([]byte("simple-main-template"))
}

func (t *MainTemplate) UpdateHashForChunk(h hash.Hash, c *chunk.Chunk) {
	_, _ = h.Write([]byte("main:" + c.Name))
}

func (t *MainTemplate) GetRenderManifest(c *chunk.Chunk) []template.RenderManifestEntry {
	return []template.RenderManifestEntry{{
		Identifier:       c.Name,
		Hash:             c.Hash,
		FilenameTemplate: "[name].[hash].js",
		PathOptions:      template.PathOptions{Chunk: c},
		Render: func() (template.Source, error) {
			body, err := concatenate(c, t.ModuleTemplate)
			if err != nil {
				return nil, err
			}
			var buf bytes.Buffer
			buf.WriteString("// runtime bootstrap\n")
			buf.Write(body.Content())
			return template.BytesSource(buf.Bytes()), nil
		},
	}}
}

var (
	_ template.ModuleTemplate = ModuleTemplate{}
	_ template.ChunkTemplate  = (*ChunkTemplate)(nil)
	_ template.MainTemplate   = (*MainTemplate)(nil)
)
