package rhi

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/gogpu/gpucontext"
)

// Backend names. Names are case-sensitive.
const (
	BackendOpenGL     = "OpenGL"
	BackendDirect3D9  = "Direct3D9"
	BackendDirect3D10 = "Direct3D10"
	BackendDirect3D11 = "Direct3D11"
	BackendDirect3D12 = "Direct3D12"
	BackendVulkan     = "Vulkan"
	BackendNull       = "Null"
)

// Factory creates a device. It must not panic and must not return nil:
// failures are reported through Device.Initialized.
type Factory func(opts ...Option) Device

// registerMu serializes the duplicate check with the insert.
var registerMu sync.Mutex

// backendPriority is the order DefaultDevice tries backends in.
var backendPriority = []string{
	BackendDirect3D12,
	BackendVulkan,
	BackendDirect3D11,
	BackendOpenGL,
	BackendDirect3D10,
	BackendDirect3D9,
	BackendNull,
}

// backends holds the registered factories.
var backends = gpucontext.NewRegistry[Factory](gpucontext.WithPriority(backendPriority...))

// Register makes a backend available under name.
// This function is typically called from init() in backend packages,
// following the database/sql driver pattern:
//
//	func init() {
//	    rhi.Register(rhi.BackendOpenGL, func(opts ...rhi.Option) rhi.Device {
//	        return New(opts...)
//	    })
//	}
//
// Register panics if factory is nil or name is already registered.
func Register(name string, factory Factory) {
	registerMu.Lock()
	defer registerMu.Unlock()

	if factory == nil {
		panic("rhi: Register factory is nil")
	}
	if backends.Has(name) {
		panic("rhi: Register called twice for " + name)
	}
	backends.Register(name, func() Factory { return factory })
}

// Unregister removes a backend. It is primarily useful in tests.
func Unregister(name string) {
	registerMu.Lock()
	defer registerMu.Unlock()
	backends.Unregister(name)
}

// IsRegistered reports whether a backend is registered under name.
func IsRegistered(name string) bool {
	return backends.Has(name)
}

// Backends returns the registered backend names, sorted.
func Backends() []string {
	names := backends.Available()
	sort.Strings(names)
	return names
}

// NewDevice creates a device of the named backend. It never returns nil:
// an unknown name yields a device whose Initialized method reports false.
func NewDevice(name string, opts ...Option) Device {
	factory := backends.Get(name)
	if factory == nil {
		ResolveOptions(opts...).Log().Warn("rhi: unknown backend", "name", name, "registered", Backends())
		return &uninitializedDevice{name: name}
	}
	return factory(opts...)
}

// OpenDevice creates a device of the named backend and checks that it
// initialized.
//
// Example:
//
//	import _ "github.com/gogpu/rhi/backend/all"
//
//	dev, err := rhi.OpenDevice(rhi.BackendVulkan)
//	if err != nil {
//	    // Handle error
//	}
//	defer dev.Close()
func OpenDevice(name string, opts ...Option) (Device, error) {
	if !IsRegistered(name) {
		return nil, fmt.Errorf("%w %q (forgotten import?)", ErrUnknownBackend, name)
	}
	dev := NewDevice(name, opts...)
	if !dev.Initialized() {
		dev.Close()
		return nil, fmt.Errorf("%w: %s", ErrNotInitialized, name)
	}
	return dev, nil
}

// DefaultDevice opens the highest-priority registered backend that
// initializes: Direct3D12, Vulkan, Direct3D11, OpenGL, Direct3D10, Direct3D9,
// then Null. Backends outside that list are tried last.
func DefaultDevice(opts ...Option) (Device, error) {
	if backends.BestName() == "" {
		return nil, fmt.Errorf("%w: no backends registered", ErrUnknownBackend)
	}
	var errs []error
	for _, name := range candidateBackends() {
		dev, err := OpenDevice(name, opts...)
		if err == nil {
			return dev, nil
		}
		errs = append(errs, err)
	}
	return nil, errors.Join(errs...)
}

// candidateBackends returns the registered names in DefaultDevice order.
func candidateBackends() []string {
	registered := Backends()
	names := make([]string, 0, len(registered))
	for _, name := range backendPriority {
		if slices.Contains(registered, name) {
			names = append(names, name)
		}
	}
	for _, name := range registered {
		if !slices.Contains(backendPriority, name) {
			names = append(names, name)
		}
	}
	return names
}
