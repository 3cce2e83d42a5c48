package compilation

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/bundlecore/internal/config"
	"github.com/specialistvlad/bundlecore/internal/ctxlog"
	"github.com/specialistvlad/bundlecore/internal/factory/staticfactory"
	"github.com/specialistvlad/bundlecore/internal/template/simple"
)

// testContext returns a context carrying a discarding logger, since
// Compilation's methods log through ctxlog and expect one to be present.
func testContext() context.Context {
	return ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestCompiler(t *testing.T, sf *staticfactory.Factory, opts *config.CompilerOptions) *Compiler {
	t.Helper()
	if opts == nil {
		opts = config.Default()
	}
	c := NewCompiler("test", opts)
	c.Factories.Register("import", sf)

	mt := simple.ModuleTemplate{}
	c.MainTemplate = &simple.MainTemplate{ModuleTemplate: mt}
	c.ChunkTemplate = &simple.ChunkTemplate{ModuleTemplate: mt}
	c.ModuleTemplates["import"] = mt
	return c
}

func TestCompilation_SingleModuleEntrySealsOneChunk(t *testing.T) {
	sf := staticfactory.New()
	sf.Add("./main", staticfactory.Source{Content: "main"})

	comp := newTestCompiler(t, sf, nil).Compile()
	ctx := testContext()

	require.NoError(t, comp.AddEntry(ctx, "main", "import", "./main"))
	require.NoError(t, comp.Finish(ctx))
	require.NoError(t, comp.Seal(ctx))

	require.Empty(t, comp.Errors)
	require.Len(t, comp.Chunks, 1)
	assert.Equal(t, 1, comp.Chunks[0].ModuleCount())
	assert.NotEmpty(t, comp.Hash)
	assert.NotEmpty(t, comp.Assets)
}

func TestCompilation_LinearChainSharesOneChunk(t *testing.T) {
	sf := staticfactory.New()
	sf.Add("./a", staticfactory.Source{Content: "a", Dependencies: []staticfactory.StaticDependency{
		{Tag: "import", Request: "./b"},
	}})
	sf.Add("./b", staticfactory.Source{Content: "b", Dependencies: []staticfactory.StaticDependency{
		{Tag: "import", Request: "./c"},
	}})
	sf.Add("./c", staticfactory.Source{Content: "c"})

	comp := newTestCompiler(t, sf, nil).Compile()
	ctx := testContext()

	require.NoError(t, comp.AddEntry(ctx, "main", "import", "./a"))
	require.NoError(t, comp.Finish(ctx))
	require.NoError(t, comp.Seal(ctx))

	require.Empty(t, comp.Errors)
	require.Len(t, comp.Chunks, 1)
	assert.Equal(t, 3, comp.Chunks[0].ModuleCount())
}

func TestCompilation_DiamondDependencySharesOneModuleAcrossTwoEntries(t *testing.T) {
	sf := staticfactory.New()
	sf.Add("./left", staticfactory.Source{Content: "left", Dependencies: []staticfactory.StaticDependency{
		{Tag: "import", Request: "./shared"},
	}})
	sf.Add("./right", staticfactory.Source{Content: "right", Dependencies: []staticfactory.StaticDependency{
		{Tag: "import", Request: "./shared"},
	}})
	sf.Add("./shared", staticfactory.Source{Content: "shared"})

	comp := newTestCompiler(t, sf, nil).Compile()
	ctx := testContext()

	require.NoError(t, comp.AddEntry(ctx, "left", "import", "./left"))
	require.NoError(t, comp.AddEntry(ctx, "right", "import", "./right"))
	require.NoError(t, comp.Finish(ctx))
	require.NoError(t, comp.Seal(ctx))

	require.Empty(t, comp.Errors)
	assert.Equal(t, 3, comp.Store.Len())

	shared, ok := comp.Store.Get("./shared")
	require.True(t, ok)
	assert.Len(t, shared.Reasons(), 2)

	wantModules := []string{"./left", "./right", "./shared"}
	var gotModules []string
	for _, m := range comp.Store.Modules() {
		gotModules = append(gotModules, m.Identifier())
	}
	if diff := cmp.Diff(wantModules, gotModules, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Errorf("module set mismatch (-want +got):\n%s", diff)
	}
}

func TestCompilation_OptionalMissingDependencyWarnsAndStillSeals(t *testing.T) {
	sf := staticfactory.New()
	sf.Add("./main", staticfactory.Source{Content: "main", Dependencies: []staticfactory.StaticDependency{
		{Tag: "import", Request: "./missing", Optional: true},
	}})

	comp := newTestCompiler(t, sf, nil).Compile()
	ctx := testContext()

	require.NoError(t, comp.AddEntry(ctx, "main", "import", "./main"))
	require.NoError(t, comp.Finish(ctx))
	require.NoError(t, comp.Seal(ctx))

	assert.Empty(t, comp.Errors)
	require.NotEmpty(t, comp.Warnings)
	require.Len(t, comp.Chunks, 1)
	assert.Equal(t, 1, comp.Chunks[0].ModuleCount())
}

func TestCompilation_RequiredMissingDependencyRecordsErrorWithoutBail(t *testing.T) {
	sf := staticfactory.New()
	sf.Add("./main", staticfactory.Source{Content: "main", Dependencies: []staticfactory.StaticDependency{
		{Tag: "import", Request: "./missing"},
	}})

	comp := newTestCompiler(t, sf, nil).Compile()
	ctx := testContext()

	require.NoError(t, comp.AddEntry(ctx, "main", "import", "./main"))
	require.NoError(t, comp.Finish(ctx))
	require.NoError(t, comp.Seal(ctx))

	require.NotEmpty(t, comp.Errors)
}

func TestCompilation_BailOptionPropagatesEntryFailure(t *testing.T) {
	sf := staticfactory.New() // "./main" never registered

	opts := config.Default()
	opts.Bail = true
	comp := newTestCompiler(t, sf, opts).Compile()
	ctx := testContext()

	err := comp.AddEntry(ctx, "main", "import", "./main")
	require.Error(t, err)
}

func TestCompilation_EntryModuleNotFoundWithoutBailRecordsErrorAndDropsSlot(t *testing.T) {
	sf := staticfactory.New()

	comp := newTestCompiler(t, sf, nil).Compile()
	ctx := testContext()

	require.NoError(t, comp.AddEntry(ctx, "main", "import", "./main"))
	require.NoError(t, comp.Finish(ctx))
	require.NoError(t, comp.Seal(ctx))

	assert.NotEmpty(t, comp.Errors)
	assert.Empty(t, comp.Chunks)
}

func TestCompilation_UnsealThenResealKeepsModulesButRebuildsChunks(t *testing.T) {
	sf := staticfactory.New()
	sf.Add("./main", staticfactory.Source{Content: "main"})

	comp := newTestCompiler(t, sf, nil).Compile()
	ctx := testContext()

	require.NoError(t, comp.AddEntry(ctx, "main", "import", "./main"))
	require.NoError(t, comp.Finish(ctx))
	require.NoError(t, comp.Seal(ctx))
	require.Len(t, comp.Chunks, 1)

	require.NoError(t, comp.Unseal(ctx))
	assert.Empty(t, comp.Chunks)
	assert.Equal(t, 1, comp.Store.Len())

	require.NoError(t, comp.Seal(ctx))
	require.Len(t, comp.Chunks, 1)
}

func TestCompilation_NeedAdditionalSealReentersSealUntilFalse(t *testing.T) {
	sf := staticfactory.New()
	sf.Add("./main", staticfactory.Source{Content: "main"})

	compiler := newTestCompiler(t, sf, nil)
	comp := compiler.Compile()
	ctx := testContext()

	var calls int
	comp.Plugins.NeedAdditionalSeal.Tap("test", func(args ...any) (any, bool) {
		calls++
		return calls < 2, true
	})

	require.NoError(t, comp.AddEntry(ctx, "main", "import", "./main"))
	require.NoError(t, comp.Finish(ctx))
	require.NoError(t, comp.Seal(ctx))

	assert.Equal(t, 2, calls)
	require.Len(t, comp.Chunks, 1)
}

func TestCompilation_RebuildModuleDropsUnreferencedDependency(t *testing.T) {
	sf := staticfactory.New()
	sf.Add("./main", staticfactory.Source{Content: "main", Dependencies: []staticfactory.StaticDependency{
		{Tag: "import", Request: "./child"},
	}})
	sf.Add("./child", staticfactory.Source{Content: "child"})

	comp := newTestCompiler(t, sf, nil).Compile()
	ctx := testContext()

	require.NoError(t, comp.AddEntry(ctx, "main", "import", "./main"))
	require.NoError(t, comp.Finish(ctx))

	main, ok := comp.Store.Get("./main")
	require.True(t, ok)
	child, ok := comp.Store.Get("./child")
	require.True(t, ok)
	assert.True(t, child.HasReasons())

	// The rebuilt module no longer declares ./child: its dependency list is
	// cleared during the rebuild, after RebuildModule has taken its snapshot.
	comp.Plugins.BuildModule.Tap("drop-child", func(args ...any) {
		if args[0] == main {
			main.Dependencies = nil
		}
	})
	require.NoError(t, comp.RebuildModule(ctx, main))

	assert.False(t, child.HasReasons())
}
