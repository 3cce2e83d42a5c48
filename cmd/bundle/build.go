package main

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/specialistvlad/bundlecore/compilation"
	"github.com/specialistvlad/bundlecore/internal/config"
	"github.com/specialistvlad/bundlecore/internal/ctxlog"
	"github.com/specialistvlad/bundlecore/internal/factory/fsfactory"
	"github.com/specialistvlad/bundlecore/internal/module"
	"github.com/specialistvlad/bundlecore/internal/template/simple"
)

var (
	buildDir  string
	buildExt  string
	buildBail bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Compile every file under a directory into chunks and print a summary",
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&buildDir, "dir", "d", ".", "directory to discover entry files under")
	buildCmd.Flags().StringVarP(&buildExt, "ext", "e", ".js", "file extension an entry file must have")
	buildCmd.Flags().BoolVar(&buildBail, "bail", false, "stop the first time a module or entry fails to resolve")
}

func runBuild(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := ctxlog.Component(ctx, "cmd/build")

	entries, err := fsfactory.Discover(buildDir, buildExt)
	if err != nil {
		return fmt.Errorf("discovering entries under %s: %w", buildDir, err)
	}
	if len(entries) == 0 {
		return fmt.Errorf("no %s files found under %s", buildExt, buildDir)
	}
	sort.Strings(entries)
	logger.Info("discovered entries", "count", len(entries), "dir", buildDir)

	opts := config.Default()
	opts.Bail = buildBail

	compiler := compilation.NewCompiler("bundle", opts)
	compiler.Factories.Register("file", fsfactory.New())

	moduleTemplate := simple.ModuleTemplate{}
	compiler.MainTemplate = &simple.MainTemplate{ModuleTemplate: moduleTemplate}
	compiler.ChunkTemplate = &simple.ChunkTemplate{ModuleTemplate: moduleTemplate}
	compiler.ModuleTemplates["file"] = moduleTemplate

	comp := compiler.Compile()

	for _, path := range entries {
		name := entryName(buildDir, path)
		if err := comp.AddEntry(ctx, name, "file", path); err != nil {
			return fmt.Errorf("adding entry %s: %w", name, err)
		}
	}

	if err := comp.Finish(ctx); err != nil {
		return fmt.Errorf("finishing compilation: %w", err)
	}
	if err := comp.Seal(ctx); err != nil {
		return fmt.Errorf("sealing compilation: %w", err)
	}

	printSummary(comp)
	return nil
}

func entryName(dir, path string) string {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		rel = path
	}
	ext := filepath.Ext(rel)
	return rel[:len(rel)-len(ext)]
}

func printSummary(comp *compilation.Compilation) {
	fmt.Println(titleStyle.Render(comp.Name) + subtitleStyle.Render(fmt.Sprintf(" hash=%s", comp.Hash)))

	for _, c := range comp.Chunks {
		fmt.Printf("  %s %s\n", chunkNameStyle.Render(chunkLabel(c.Name)), subtitleStyle.Render(fmt.Sprintf("modules=%d", c.ModuleCount())))
		c.ForEachModule(func(m *module.Module) {
			fmt.Printf("    %s\n", moduleNameStyle.Render(m.Identifier()))
		})
	}

	for name := range comp.Assets {
		fmt.Printf("  %s\n", assetNameStyle.Render(name))
	}

	for _, w := range comp.Warnings {
		fmt.Println(warningStyle.Render("warning: " + w.Error()))
	}
	for _, e := range comp.Errors {
		fmt.Println(errorStyle.Render("error: " + e.Error()))
	}
}

func chunkLabel(name string) string {
	if name == "" {
		return "<unnamed>"
	}
	return name
}
