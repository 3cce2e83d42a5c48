package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/specialistvlad/bundlecore/internal/ctxlog"
)

func contextWithLogger(logger *slog.Logger) context.Context {
	return ctxlog.WithLogger(context.Background(), logger)
}

var rootCmd = &cobra.Command{
	Use:   "bundle",
	Short: "A demo driver for the bundlecore compilation pipeline",
	Long: titleStyle.Render("bundle") + subtitleStyle.Render(" - drives compilation.Compiler over a directory of files") + `

bundle discovers entry files under a directory, feeds each one through
compilation.Compiler as an entry, seals the resulting module/chunk graph,
and prints a summary of the chunks, modules and assets it produced.`,
}

// Execute runs the root command, wiring the given charmbracelet logger
// into every subcommand via the command context.
func Execute(logger *charmlog.Logger) {
	rootCmd.AddCommand(buildCmd)
	rootCmd.SetContext(contextWithLogger(slog.New(logger)))
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		os.Exit(1)
	}
}
