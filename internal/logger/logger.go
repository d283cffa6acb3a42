// Package logger holds the slog.Logger shared by the image-core packages.
//
// Nothing is logged until Set is called with a real logger.
package logger

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record. Enabled reports false so callers skip
// attribute formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNop() *slog.Logger { return slog.New(nopHandler{}) }

var current atomic.Pointer[slog.Logger]

func init() {
	current.Store(newNop())
}

// Set installs l as the package-wide logger. Passing nil restores the silent
// default. Safe for concurrent use.
//
// Levels used:
//   - [slog.LevelDebug]: conversion path decisions (in-place or fallback), buffer sizes
//   - [slog.LevelWarn]: an image was cleared after a failed conversion
func Set(l *slog.Logger) {
	if l == nil {
		l = newNop()
	}
	current.Store(l)
}

// Get returns the active logger.
func Get() *slog.Logger {
	return current.Load()
}
