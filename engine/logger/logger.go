// Package logger holds the structured logger shared by every engine package.
// Nothing is logged until SetLogger installs a real logger.
package logger

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record. Enabled reports false so callers skip formatting.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger installs l as the engine logger. Passing nil restores the silent default.
// Safe for concurrent use with Logger.
//
// Levels used by the engine:
//   - slog.LevelDebug: per-pass diagnostics (bind groups, buffer sizes)
//   - slog.LevelInfo: setup milestones and profiler output
//   - slog.LevelWarn: dropped frames and recovered render panics
//   - slog.LevelError: fatal setup failures reported just before exit
//
// Parameters:
//   - l: the logger to install
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the current engine logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
