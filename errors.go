package rhi

import "errors"

// Common rhi errors.
var (
	// ErrUnknownBackend is returned when no backend is registered under a name.
	ErrUnknownBackend = errors.New("rhi: unknown backend")

	// ErrNotInitialized is returned when a device failed to initialize.
	ErrNotInitialized = errors.New("rhi: device not initialized")

	// ErrInvalidRootSignature is returned for structurally invalid root signatures.
	ErrInvalidRootSignature = errors.New("rhi: invalid root signature")

	// ErrInvalidDescriptorRange is returned for descriptor ranges that break
	// the range contract (type, count, fallback name length).
	ErrInvalidDescriptorRange = errors.New("rhi: invalid descriptor range")

	// ErrNotPortable is returned when a root signature cannot be realized on
	// name-based or sampler-coupled backends.
	ErrNotPortable = errors.New("rhi: root signature not portable")
)
