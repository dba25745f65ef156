package rhi

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler drops every record. Because Enabled is false, devices skip
// formatting native call traces and warnings while logging is off.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var silent = slog.New(nopHandler{})

// packageLogger is the logger of every device opened without WithLogger.
var packageLogger atomic.Pointer[slog.Logger]

func init() { packageLogger.Store(silent) }

// SetLogger sets the logger shared by all devices that were not given one
// with WithLogger. Devices look it up on each message, so the change also
// reaches devices that are already open. Nil silences them again.
//
// Levels:
//   - [slog.LevelDebug]: native calls, debug markers, draws dropped by the
//     draw state
//   - [slog.LevelInfo]: a device came up, with its backend and adapter
//   - [slog.LevelWarn]: a resource could not be created, a root signature
//     failed validation
//
// To see every native call of the OpenGL and Direct3D backends:
//
//	rhi.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = silent
	}
	packageLogger.Store(l)
}

// Logger returns the logger set with SetLogger. Backends reach it through
// Options.Log.
func Logger() *slog.Logger { return packageLogger.Load() }
