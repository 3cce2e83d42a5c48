package compilation

import (
	"context"
	"fmt"
	"sort"

	"github.com/specialistvlad/bundlecore/internal/chunk"
	"github.com/specialistvlad/bundlecore/internal/chunkgraph"
	"github.com/specialistvlad/bundlecore/internal/ctxlog"
	"github.com/specialistvlad/bundlecore/internal/graphlabel"
	"github.com/specialistvlad/bundlecore/internal/hashengine"
	"github.com/specialistvlad/bundlecore/internal/hooks"
	"github.com/specialistvlad/bundlecore/internal/idalloc"
	"github.com/specialistvlad/bundlecore/internal/seal"
	"github.com/specialistvlad/bundlecore/internal/template"
)

// Seal runs the full seal sequence (spec.md §4.12): turns preparedChunks
// into a chunk graph, runs the optimize-* fixed-point triplets between
// named hook checkpoints, assigns module/chunk ids and hashes, renders
// assets, and finally either re-enters itself (need-additional-seal
// bailed truthy) or transitions to Sealed.
func (comp *Compilation) Seal(ctx context.Context) error {
	logger := ctxlog.Component(ctx, "seal")

	if err := comp.Lifecycle.BeginSeal(); err != nil {
		return err
	}
	logger.Debug("sealing compilation", "name", comp.Name)

	comp.Plugins.Seal.Call()

	if err := seal.FixedPoint("optimize-dependencies", 0,
		&comp.Plugins.OptimizeDependenciesBasic,
		&comp.Plugins.OptimizeDependencies,
		&comp.Plugins.OptimizeDependenciesAdvanced,
	); err != nil {
		return err
	}
	comp.Plugins.AfterOptimizeDependencies.Call()

	if err := comp.buildChunkGraph(); err != nil {
		return err
	}
	comp.Store.SortModules()

	comp.Plugins.Optimize.Call()
	if err := seal.FixedPoint("optimize-modules", 0,
		&comp.Plugins.OptimizeModulesBasic,
		&comp.Plugins.OptimizeModules,
		&comp.Plugins.OptimizeModulesAdvanced,
	); err != nil {
		return err
	}
	comp.Plugins.AfterOptimizeModules.Call()

	if err := seal.FixedPoint("optimize-chunks", 0,
		&comp.Plugins.OptimizeChunksBasic,
		&comp.Plugins.OptimizeChunks,
		&comp.Plugins.OptimizeChunksAdvanced,
	); err != nil {
		return err
	}
	comp.Plugins.AfterOptimizeChunks.Call()

	if err := comp.Plugins.OptimizeTree.Call(ctx, comp.Chunks, comp.Store.Modules()); err != nil {
		return fmt.Errorf("compilation: optimize-tree: %w", err)
	}
	comp.Plugins.AfterOptimizeTree.Call()

	if err := seal.FixedPoint("optimize-chunk-modules", 0,
		&comp.Plugins.OptimizeChunkModulesBasic,
		&comp.Plugins.OptimizeChunkModules,
		&comp.Plugins.OptimizeChunkModulesAdvanced,
	); err != nil {
		return err
	}
	comp.Plugins.AfterOptimizeChunkModules.Call()

	shouldRecord := bailDefaultTrue(&comp.Plugins.ShouldRecord)

	comp.Plugins.ReviveModules.Call()
	comp.Plugins.OptimizeModuleOrder.Call()
	comp.Plugins.AdvancedOptimizeModuleOrder.Call()
	comp.Plugins.BeforeModuleIds.Call()
	comp.Plugins.ModuleIds.Call()
	idalloc.ApplyModuleIds(comp.Store.Modules(), comp.RecordedModuleIds)
	comp.Plugins.OptimizeModuleIds.Call()
	comp.Plugins.AfterOptimizeModuleIds.Call()

	for _, m := range comp.Store.Modules() {
		m.SortItems(true)
	}

	comp.Plugins.ReviveChunks.Call()
	comp.Plugins.OptimizeChunkOrder.Call()
	comp.Plugins.BeforeChunkIds.Call()
	idalloc.ApplyChunkIds(comp.Chunks, comp.RecordedChunkIds)
	comp.Plugins.OptimizeChunkIds.Call()
	comp.Plugins.AfterOptimizeChunkIds.Call()

	comp.sortItemsWithChunkIds()

	if shouldRecord {
		comp.Plugins.RecordModules.Call()
		comp.Plugins.RecordChunks.Call()
	}

	comp.Plugins.BeforeHash.Call()
	if err := comp.runHashEngine(); err != nil {
		return err
	}
	comp.Plugins.AfterHash.Call()
	if shouldRecord {
		comp.Plugins.RecordHash.Call()
	}

	comp.Plugins.BeforeModuleAssets.Call()
	comp.appendErrors(comp.renderer.CreateModuleAssets(comp.Store.Modules(), comp.Assets))

	if bailDefaultTrue(&comp.Plugins.ShouldGenerateChunkAssets) {
		comp.Plugins.BeforeChunkAssets.Call()
		comp.appendErrors(comp.renderer.CreateChunkAssets(comp.Chunks, comp.Assets))
	}

	comp.Plugins.AdditionalChunkAssets.Call()
	comp.summarizeDependencies()
	if shouldRecord {
		comp.Plugins.Record.Call()
	}

	if err := comp.Plugins.AdditionalAssets.Call(ctx); err != nil {
		return fmt.Errorf("compilation: additional-assets: %w", err)
	}
	if err := comp.Plugins.OptimizeChunkAssets.Call(ctx); err != nil {
		return fmt.Errorf("compilation: optimize-chunk-assets: %w", err)
	}
	comp.Plugins.AfterOptimizeChunkAssets.Call()
	if err := comp.Plugins.OptimizeAssets.Call(ctx); err != nil {
		return fmt.Errorf("compilation: optimize-assets: %w", err)
	}
	comp.Plugins.AfterOptimizeAssets.Call()

	if bailTruthy(&comp.Plugins.NeedAdditionalSeal) {
		if err := comp.Lifecycle.FinishSeal(); err != nil {
			return err
		}
		if err := comp.Unseal(ctx); err != nil {
			return err
		}
		return comp.Seal(ctx)
	}

	comp.Plugins.AfterSeal.Call()
	if err := comp.Lifecycle.FinishSeal(); err != nil {
		return err
	}
	logger.Info("compilation sealed", "chunks", len(comp.Chunks), "modules", comp.Store.Len())
	return nil
}

// Unseal performs the Sealed -> Building transition: chunks and assets
// are discarded, but built modules and their reasons survive (spec.md
// §4.12: "Modules survive unseal; chunks do not").
func (comp *Compilation) Unseal(ctx context.Context) error {
	logger := ctxlog.Component(ctx, "seal")
	logger.Debug("unsealing compilation", "name", comp.Name)

	comp.Plugins.UnsealHook.Call()
	comp.Chunks = nil
	comp.NamedChunks = make(map[string]*chunk.Chunk)
	comp.Assets = make(map[string]template.Source)
	for _, m := range comp.Store.Modules() {
		m.Unseal()
	}
	for _, slot := range comp.preparedChunks {
		slot.Chunk = nil
	}
	return comp.Lifecycle.Unseal()
}

// buildChunkGraph turns every preparedChunks slot into an input chunk
// (spec.md §4.12 step "for each preparedChunk: addChunk, attach entry
// module, assign index/depth") and runs ChunkGraphBuilder over the
// resulting set.
func (comp *Compilation) buildChunkGraph() error {
	inputChunks := make([]*chunk.Chunk, 0, len(comp.preparedChunks))
	for _, slot := range comp.preparedChunks {
		c := comp.addOrGetChunk(slot.Name)
		c.EntryModule = slot.Module
		c.Origins = append(c.Origins, chunk.Origin{Request: slot.Name, Module: slot.Module})
		slot.Chunk = c
		comp.Entrypoints[slot.Name] = &chunk.Entrypoint{Name: slot.Name, Chunk: c}

		graphlabel.AssignIndex(slot.Module)
		graphlabel.AssignDepth(slot.Module)

		inputChunks = append(inputChunks, c)
	}

	builder := chunkgraph.NewBuilder(comp.NamedChunks, inputChunks)
	result := builder.Build(inputChunks)

	for _, c := range result.AllCreatedChunks {
		if removed, _ := c.Removed(); !removed {
			comp.Chunks = append(comp.Chunks, c)
		}
	}
	comp.Warnings = append(comp.Warnings, result.Warnings...)
	return nil
}

func (comp *Compilation) sortItemsWithChunkIds() {
	sort.SliceStable(comp.Chunks, func(i, j int) bool {
		return chunkIDLess(comp.Chunks[i], comp.Chunks[j])
	})
	sort.SliceStable(comp.Errors, func(i, j int) bool { return comp.Errors[i].Error() < comp.Errors[j].Error() })
	sort.SliceStable(comp.Warnings, func(i, j int) bool { return comp.Warnings[i].Error() < comp.Warnings[j].Error() })
}

func chunkIDLess(a, b *chunk.Chunk) bool {
	if a.ID == nil || b.ID == nil {
		return a.ID != nil
	}
	return *a.ID < *b.ID
}

func (comp *Compilation) runHashEngine() error {
	moduleTemplates := make(map[string]hashengine.ModuleTemplate, len(comp.compiler.ModuleTemplates))
	for k, v := range comp.compiler.ModuleTemplates {
		moduleTemplates[k] = v
	}

	childHashes := make([]string, 0, len(comp.Children))
	for _, child := range comp.Children {
		if child.FullHash != "" {
			childHashes = append(childHashes, child.FullHash)
		}
	}

	messages := make([]string, 0, len(comp.Errors)+len(comp.Warnings))
	for _, e := range comp.Errors {
		messages = append(messages, e.Error())
	}
	for _, w := range comp.Warnings {
		messages = append(messages, w.Error())
	}

	opts := hashengine.Options{
		Function:     comp.compiler.Options.Output.HashFunction,
		Digest:       comp.compiler.Options.Output.HashDigest,
		DigestLength: comp.compiler.Options.Output.HashDigestLength,
		Salt:         comp.compiler.Options.Output.HashSalt,
	}

	result, err := hashengine.Run(opts, hashengine.Params{
		MainTemplate:    comp.compiler.MainTemplate,
		ChunkTemplate:   comp.compiler.ChunkTemplate,
		ModuleTemplates: moduleTemplates,
		ChildHashes:     childHashes,
		Messages:        messages,
		Modules:         comp.Store.Modules(),
		Chunks:          comp.Chunks,
		OnChunkHash:     func(c *chunk.Chunk) { comp.Plugins.ChunkHash.Call(c) },
	})
	if err != nil {
		return fmt.Errorf("compilation: hashing: %w", err)
	}

	comp.Hash = result.Hash
	comp.FullHash = result.FullHash
	return nil
}

// summarizeDependencies aggregates every module's FileDependencies and
// ContextDependencies into the Compilation-level sets an embedder's
// watch-mode rebuild would diff against a fresh filesystem snapshot
// (spec.md §4.12 step "summarizeDependencies").
func (comp *Compilation) summarizeDependencies() {
	for _, m := range comp.Store.Modules() {
		for _, f := range m.FileDependencies {
			comp.FileDependencies[f] = struct{}{}
		}
		for _, c := range m.ContextDependencies {
			comp.ContextDependencies[c] = struct{}{}
		}
	}
}

func (comp *Compilation) appendErrors(errs []error) {
	comp.Errors = append(comp.Errors, errs...)
}

// bailDefaultTrue evaluates a bail hook under the "!== false" convention
// spec.md uses for should-record/should-generate-chunk-assets: no tap, or
// a tap that bails with anything other than an explicit false, means true.
func bailDefaultTrue(h *hooks.BailHook, args ...any) bool {
	v, bailed := h.Call(args...)
	if !bailed {
		return true
	}
	if b, ok := v.(bool); ok && !b {
		return false
	}
	return true
}

// bailTruthy evaluates a bail hook under ordinary truthiness: no bail, or
// a bail with a nil/false result, means false.
func bailTruthy(h *hooks.BailHook, args ...any) bool {
	v, bailed := h.Call(args...)
	if !bailed {
		return false
	}
	if v == nil {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return true
}
