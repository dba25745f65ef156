package rhi

import (
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// TestResolveOptionsDefault tests the defaults applied without options.
func TestResolveOptionsDefault(t *testing.T) {
	o := ResolveOptions()

	if o.Label != "rhi" {
		t.Errorf("Label = %q, want %q", o.Label, "rhi")
	}
	if o.Limits != gputypes.DefaultLimits() {
		t.Error("Limits should default to gputypes.DefaultLimits()")
	}
	if o.AdapterType != gpucontext.AdapterTypeDiscrete {
		t.Errorf("AdapterType = %v, want %v", o.AdapterType, gpucontext.AdapterTypeDiscrete)
	}
	if o.Validation {
		t.Error("Validation should be off by default")
	}
	if !o.DebugMarkers {
		t.Error("DebugMarkers should be on by default")
	}
	if o.Logger != nil {
		t.Error("Logger should be nil by default")
	}
}

// TestResolveOptionsApply tests that each option overrides its field.
func TestResolveOptionsApply(t *testing.T) {
	limits := gputypes.DefaultLimits()
	limits.MaxBindGroups = 8

	o := ResolveOptions(
		WithLabel("frame"),
		WithLimits(limits),
		WithAdapterType(gpucontext.AdapterTypeSoftware),
		WithValidation(true),
		WithDebugMarkers(false),
		nil,
	)

	if o.Label != "frame" {
		t.Errorf("Label = %q, want %q", o.Label, "frame")
	}
	if o.Limits.MaxBindGroups != 8 {
		t.Errorf("Limits.MaxBindGroups = %d, want 8", o.Limits.MaxBindGroups)
	}
	if o.AdapterType != gpucontext.AdapterTypeSoftware {
		t.Errorf("AdapterType = %v, want %v", o.AdapterType, gpucontext.AdapterTypeSoftware)
	}
	if !o.Validation {
		t.Error("WithValidation(true) not applied")
	}
	if o.DebugMarkers {
		t.Error("WithDebugMarkers(false) not applied")
	}
}

// TestResolveOptionsLastWins tests that later options override earlier ones.
func TestResolveOptionsLastWins(t *testing.T) {
	o := ResolveOptions(WithLabel("a"), WithLabel("b"))
	if o.Label != "b" {
		t.Errorf("Label = %q, want %q", o.Label, "b")
	}
}
