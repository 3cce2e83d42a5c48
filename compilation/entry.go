package compilation

import (
	"context"

	"github.com/specialistvlad/bundlecore/internal/ctxlog"
	"github.com/specialistvlad/bundlecore/internal/module"
)

// AddEntry resolves name's request into an entry module, reserving a
// preparedChunks slot for it first. If resolution produces no module, the
// slot is removed (spec.md §4.5: "If no module was produced, the slot is
// removed from preparedChunks") and, unless bail is set, the error is
// recorded rather than returned.
func (comp *Compilation) AddEntry(ctx context.Context, name, tag, request string) error {
	logger := ctxlog.Component(ctx, "entry")
	logger.Debug("adding entry", "name", name, "request", request)

	comp.Entries = append(comp.Entries, Entry{Name: name, Tag: tag, Request: request})

	slot := &PreparedChunk{Name: name}
	comp.preparedChunks = append(comp.preparedChunks, slot)

	dep := module.NewDependency(tag, request)
	m, err := comp.resolver.AddEntry(ctx, dep)
	comp.drainResolver()

	if m == nil {
		comp.removePreparedChunk(slot)
		if err != nil {
			logger.Warn("entry module not found", "name", name, "request", request, "error", err)
			if comp.compiler.Options.Bail {
				return err
			}
		}
		return nil
	}

	slot.Module = m
	return nil
}

func (comp *Compilation) removePreparedChunk(slot *PreparedChunk) {
	for i, s := range comp.preparedChunks {
		if s == slot {
			comp.preparedChunks = append(comp.preparedChunks[:i], comp.preparedChunks[i+1:]...)
			return
		}
	}
}
