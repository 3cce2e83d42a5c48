package simple

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/bundlecore/internal/chunk"
	"github.com/specialistvlad/bundlecore/internal/module"
)

type stringAsset string

func (s stringAsset) Size() int      { return len(s) }
func (s stringAsset) String() string { return string(s) }

func TestModuleTemplate_RenderUsesContentAssetWhenPresent(t *testing.T) {
	m := module.New("a", nil)
	m.Assets["content"] = stringAsset("console.log('a')")

	var mt ModuleTemplate
	src, err := mt.Render(m, nil)
	require.NoError(t, err)
	assert.Equal(t, "console.log('a')", string(src.Content()))
}

func TestModuleTemplate_RenderFallsBackToIdentifier(t *testing.T) {
	m := module.New("b", nil)

	var mt ModuleTemplate
	src, err := mt.Render(m, nil)
	require.NoError(t, err)
	assert.Equal(t, "b", string(src.Content()))
}

func TestChunkTemplate_GetRenderManifest_ConcatenatesModulesInIdentifierOrder(t *testing.T) {
	b := module.New("b", nil)
	a := module.New("a", nil)
	a.Assets["content"] = stringAsset("A")
	b.Assets["content"] = stringAsset("B")

	c := chunk.New("main")
	c.AddModule(b)
	c.AddModule(a)

	ct := &ChunkTemplate{}
	manifest := ct.GetRenderManifest(c)
	require.Len(t, manifest, 1)

	src, err := manifest[0].Render()
	require.NoError(t, err)
	assert.Equal(t, "A\nB\n", string(src.Content()))
}

func TestMainTemplate_GetRenderManifest_PrependsBootstrapComment(t *testing.T) {
	a := module.New("a", nil)
	a.Assets["content"] = stringAsset("A")

	c := chunk.New("main")
	c.AddModule(a)

	mt := &MainTemplate{}
	manifest := mt.GetRenderManifest(c)
	require.Len(t, manifest, 1)

	src, err := manifest[0].Render()
	require.NoError(t, err)
	assert.Contains(t, string(src.Content()), "// runtime bootstrap")
	assert.Contains(t, string(src.Content()), "A\n")
}

func TestMainTemplate_UpdateHashForChunk_DiffersByChunkName(t *testing.T) {
	mt := &MainTemplate{}
	h1 := sha256.New()
	h2 := sha256.New()

	mt.UpdateHashForChunk(h1, chunk.New("main"))
	mt.UpdateHashForChunk(h2, chunk.New("vendor"))

	assert.NotEqual(t, h1.Sum(nil), h2.Sum(nil))
}
