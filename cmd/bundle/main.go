package main

import (
	"os"

	"github.com/charmbracelet/log"
)

// main is the entrypoint for the bundle demo CLI, exercising
// compilation.Compiler end to end against a directory of files on disk.
func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "bundle",
	})
	Execute(logger)
}
