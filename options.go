package rhi

import (
	"log/slog"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// Option configures a Device during creation.
// Backends resolve options with ResolveOptions.
//
// Example:
//
//	dev := rhi.NewDevice(rhi.BackendVulkan,
//	    rhi.WithLabel("main"),
//	    rhi.WithAdapterType(gpucontext.AdapterTypeDiscrete),
//	)
type Option func(*Options)

// Options holds the resolved device configuration.
type Options struct {
	// Label is attached to native objects and command encoders.
	Label string

	// Limits requested from the adapter (table backends) or reported as
	// capabilities (slot and name backends).
	Limits gputypes.Limits

	// AdapterType is the preferred physical adapter. Backends fall back to the
	// first adapter when no adapter of this type exists.
	AdapterType gpucontext.AdapterType

	// Validation runs root signature validation at creation time even in
	// release builds. Invalid root signatures then yield nil.
	Validation bool

	// DebugMarkers forwards debug markers and events to the native API.
	DebugMarkers bool

	// Logger overrides the package logger for one device.
	Logger *slog.Logger
}

// defaultOptions returns the default device options.
func defaultOptions() Options {
	return Options{
		Label:        "rhi",
		Limits:       gputypes.DefaultLimits(),
		AdapterType:  gpucontext.AdapterTypeDiscrete,
		DebugMarkers: true,
	}
}

// ResolveOptions applies opts over the defaults.
func ResolveOptions(opts ...Option) Options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// Log returns the device logger, or the package logger when none was set.
func (o Options) Log() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return Logger()
}

// WithLabel sets the device label.
func WithLabel(label string) Option {
	return func(o *Options) {
		o.Label = label
	}
}

// WithLimits sets the requested device limits.
func WithLimits(limits gputypes.Limits) Option {
	return func(o *Options) {
		o.Limits = limits
	}
}

// WithAdapterType sets the preferred adapter type.
func WithAdapterType(t gpucontext.AdapterType) Option {
	return func(o *Options) {
		o.AdapterType = t
	}
}

// WithValidation enables root signature validation in release builds.
func WithValidation(enabled bool) Option {
	return func(o *Options) {
		o.Validation = enabled
	}
}

// WithDebugMarkers enables or disables forwarding of debug markers.
func WithDebugMarkers(enabled bool) Option {
	return func(o *Options) {
		o.DebugMarkers = enabled
	}
}

// WithLogger sets a logger for one device. Nil keeps the package logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}
