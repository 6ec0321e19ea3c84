package caster

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler drops every record. Enabled reports false so callers skip
// formatting attributes.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var silent = slog.New(nopHandler{})

// logger is swapped atomically so SetLogger may race with logging.
var logger atomic.Pointer[slog.Logger]

func init() {
	logger.Store(silent)
}

// SetLogger installs l for caster and its sub-packages. caster is silent
// until a logger is set; nil restores silence.
//
// Levels in use:
//   - [slog.LevelDebug]: per-frame detail (entity spawns, instance buffer
//     growth, skipped frames, image cache hits)
//   - [slog.LevelInfo]: lifecycle (device opened, renderer ready, surface
//     reconfigured, loop started and stopped)
//   - [slog.LevelWarn]: degraded setup (surface format fallback, shader
//     validation the compiler cannot complete, dispose with pending frames)
//
// Example:
//
//	caster.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = silent
	}
	logger.Store(l)
}

// Logger returns the logger set with SetLogger. render, texture and loop
// log through it. Safe for concurrent use.
func Logger() *slog.Logger {
	return logger.Load()
}
