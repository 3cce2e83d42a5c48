package compilation

import (
	"context"
	"fmt"

	"github.com/specialistvlad/bundlecore/internal/cerrors"
	"github.com/specialistvlad/bundlecore/internal/ctxlog"
	"github.com/specialistvlad/bundlecore/internal/module"
)

// Finish performs the Building -> Finished transition (spec.md §4.11):
// fire finish-modules, then walk every module's dependency edges
// collecting the errors/warnings resolution left stamped on them.
func (comp *Compilation) Finish(ctx context.Context) error {
	logger := ctxlog.Component(ctx, "finish")

	modules := comp.Store.Modules()
	comp.Plugins.FinishModules.Call(modules)

	for _, m := range modules {
		comp.collectDependencyDiagnostics(m)
	}

	if err := comp.Lifecycle.Finish(); err != nil {
		return err
	}
	logger.Info("compilation finished", "modules", len(modules))
	return nil
}

func (comp *Compilation) collectDependencyDiagnostics(m *module.Module) {
	for _, dep := range module.AllDependencies(m) {
		loc := locString(dep.Loc)
		for _, e := range dep.GetErrors() {
			comp.Errors = append(comp.Errors, &cerrors.ModuleDependencyError{Module: m.Identifier(), Loc: loc, Cause: e})
		}
		for _, w := range dep.GetWarnings() {
			comp.Warnings = append(comp.Warnings, &cerrors.ModuleDependencyWarning{Module: m.Identifier(), Loc: loc, Cause: w})
		}
	}
}

func locString(loc module.Location) string {
	if loc.File == "" {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", loc.File, loc.Line, loc.Column)
}
