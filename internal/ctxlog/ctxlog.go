// Package ctxlog carries a *slog.Logger through a context.Context so
// every layer of a compilation — cmd/bundle's CLI front end, the
// Compilation lifecycle, individual build/resolve steps — logs through
// whichever logger its caller configured, without threading a *Logger
// parameter through every function signature.
package ctxlog

import (
	"context"
	"log/slog"
)

// ctxKey distinguishes this package's context value from every other
// package's, including another ctxKey-shaped type.
type ctxKey struct{}

var loggerCtxKey ctxKey

// WithLogger returns a copy of ctx carrying logger, retrievable by
// FromContext or Component.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey, logger)
}

// FromContext returns the logger embedded in ctx by WithLogger. Unlike a
// "fall back to slog.Default()" helper, this panics on a missing logger:
// cmd/bundle's root command seeds one before doing anything else, and
// Compilation's methods expect the context they are given to already
// carry one, so a missing logger here means a caller skipped that setup
// rather than a legitimately logger-less context.
func FromContext(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(loggerCtxKey).(*slog.Logger)
	if !ok {
		panic("ctxlog: logger missing from context")
	}
	return logger
}

// Component returns ctx's logger tagged with a "component" attribute, so
// log lines from a given subsystem (entry resolution, sealing, the build
// coordinator) are attributable without that subsystem needing to know
// its own name at every call site — it just asks for it once per
// operation.
func Component(ctx context.Context, name string) *slog.Logger {
	return FromContext(ctx).With("component", name)
}
