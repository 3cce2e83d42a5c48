// Package fsfactory resolves a dependency's Request as a path on disk,
// reading the whole file as the module's content asset. Discover finds
// the candidate entry files under a root directory by extension, the way
// a CLI front end turns a project directory into a set of entry requests
// before ever touching the compilation core.
package fsfactory

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/bundlecore/internal/factory"
	"github.com/specialistvlad/bundlecore/internal/module"
)

// Factory reads each dependency's Request as a file path, producing one
// Module per distinct path. Unlike httpfactory, the read happens in
// Create rather than Build: local disk reads don't benefit from being
// deferred behind BuildCoordinator's dedup, and FileDependencies needs to
// be populated before the module can be cached.
type Factory struct{}

// New creates an fsfactory.Factory.
func New() *Factory { return &Factory{} }

// Discover walks root and returns every regular file whose name ends with
// extension, in the order filepath.WalkDir visits them. extension must be
// non-empty — an entry directory with no suffix to filter by is a caller
// bug, not a "match everything" request.
func Discover(root, extension string) ([]string, error) {
	if extension == "" {
		panic("fsfactory: Discover requires a non-empty extension")
	}

	var paths []string
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), extension) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fsfactory: discovering %s files under %s: %w", extension, root, err)
	}
	return paths, nil
}

// Create implements factory.ModuleFactory.
func (f *Factory) Create(ctx context.Context, req factory.CreateRequest) (*module.Module, error) {
	if len(req.Dependencies) == 0 {
		return nil, fmt.Errorf("fsfactory: create request has no dependencies")
	}
	path := req.Dependencies[0].Request

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fsfactory: read %s: %w", path, err)
	}

	m := module.New(path, nil)
	m.Assets["content"] = fileAsset(content)
	m.FileDependencies = []string{path}
	return m, nil
}

type fileAsset []byte

func (f fileAsset) Size() int       { return len(f) }
func (f fileAsset) String() string  { return string(f) }
func (f fileAsset) Content() []byte { return []byte(f) }

var _ factory.ModuleFactory = (*Factory)(nil)
