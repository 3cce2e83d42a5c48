package fsfactory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/bundlecore/internal/factory"
	"github.com/specialistvlad/bundlecore/internal/module"
)

func TestFactory_CreateReadsFileContentAndTracksFileDependency(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.js")
	require.NoError(t, os.WriteFile(path, []byte("console.log('a')"), 0o644))

	f := New()
	dep := module.NewDependency("file", path)
	m, err := f.Create(context.Background(), factory.CreateRequest{Dependencies: []*module.Dependency{dep}})
	require.NoError(t, err)

	assert.Equal(t, path, m.Identifier())
	assert.Equal(t, []string{path}, m.FileDependencies)

	asset, ok := m.Assets["content"]
	require.True(t, ok)
	assert.Equal(t, "console.log('a')", asset.(interface{ String() string }).String())
}

func TestFactory_CreateMissingFileErrors(t *testing.T) {
	f := New()
	dep := module.NewDependency("file", filepath.Join(t.TempDir(), "missing.js"))
	_, err := f.Create(context.Background(), factory.CreateRequest{Dependencies: []*module.Dependency{dep}})
	assert.Error(t, err)
}

func TestDiscover_FindsFilesByExtensionRecursively(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.js"), []byte("a"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "b.js"), []byte("b"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.md"), []byte("ignored"), 0o644))

	found, err := Discover(dir, ".js")
	require.NoError(t, err)
	assert.Len(t, found, 2)
}
