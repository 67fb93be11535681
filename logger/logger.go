package logger

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler drops every record. Enabled reports false so callers skip
// formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var current atomic.Pointer[slog.Logger]

func init() {
	current.Store(slog.New(nopHandler{}))
}

// Set installs the logger used by every ustxroll package. Nothing is logged
// until Set is called; passing nil restores the silent default.
//
// Levels in use:
//   - Debug: per-render geometry (line counts, widths)
//   - Info: project loads, surface resizes
//   - Warn: aborted renders, rejected documents
func Set(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	current.Store(l)
}

// L returns the active logger.
func L() *slog.Logger {
	return current.Load()
}
