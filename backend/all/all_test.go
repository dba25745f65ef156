package all

import (
	"slices"
	"testing"

	"github.com/gogpu/rhi"
)

func TestBackendsRegistered(t *testing.T) {
	for _, name := range []string{
		rhi.BackendNull,
		rhi.BackendOpenGL,
		rhi.BackendDirect3D9,
		rhi.BackendDirect3D10,
		rhi.BackendDirect3D11,
	} {
		if !rhi.IsRegistered(name) {
			t.Errorf("IsRegistered(%q) = false, want true", name)
		}
	}
	names := rhi.Backends()
	if !slices.IsSorted(names) {
		t.Errorf("Backends() = %v, want sorted names", names)
	}
}

func TestDefaultDevice(t *testing.T) {
	dev, err := rhi.DefaultDevice()
	if err != nil {
		t.Fatalf("DefaultDevice() error = %v", err)
	}
	t.Cleanup(dev.Close)
	if !dev.Initialized() {
		t.Errorf("DefaultDevice() returned uninitialized %s device", dev.Name())
	}
}
