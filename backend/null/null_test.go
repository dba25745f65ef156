package null

import (
	"fmt"
	"testing"

	"github.com/gogpu/gputypes"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/rhi"
	"github.com/gogpu/rhi/internal/scenario"
)

func TestRegistered(t *testing.T) {
	if !rhi.IsRegistered(rhi.BackendNull) {
		t.Fatal("Null backend is not registered")
	}
	dev, err := rhi.OpenDevice(rhi.BackendNull)
	if err != nil {
		t.Fatalf("OpenDevice() error = %v", err)
	}
	t.Cleanup(dev.Close)
	if dev.Name() != rhi.BackendNull || !dev.Initialized() {
		t.Errorf("device = %q initialized=%v", dev.Name(), dev.Initialized())
	}
	if got := dev.Capabilities().BindingModel; got != rhi.BindingModelTable {
		t.Errorf("BindingModel = %v, want %v", got, rhi.BindingModelTable)
	}
}

func TestCreateResources(t *testing.T) {
	dev := New()
	t.Cleanup(dev.Close)

	ib := dev.CreateIndexBuffer(12, gputypes.IndexFormatUint16, nil, rhi.BufferUsageStatic)
	if ib == nil || ib.IndexFormat() != gputypes.IndexFormatUint16 || ib.Size() != 12 {
		t.Errorf("CreateIndexBuffer() = %v", ib)
	}
	arr := dev.CreateTexture2DArray(&rhi.Texture2DArrayDesc{Width: 4, Height: 4, Format: gputypes.TextureFormatRGBA8Unorm})
	if arr == nil || arr.Layers() != 1 || arr.ResourceType() != rhi.ResourceTexture2DArray {
		t.Errorf("CreateTexture2DArray() = %v, want one layer", arr)
	}
	if sh := dev.CreateShader(rhi.StageVertex, rhi.ShaderSource{EntryPoint: "main"}); sh == nil || sh.EntryPoint() != "main" {
		t.Errorf("CreateShader() = %v", sh)
	}
	if ps := dev.CreatePipelineState(&rhi.PipelineStateDesc{}); ps != nil {
		t.Errorf("CreatePipelineState(no program) = %v, want nil", ps)
	}
	if tex := dev.CreateTexture2D(nil); tex != nil {
		t.Errorf("CreateTexture2D(nil) = %v, want nil", tex)
	}
}

func TestDrawWithoutPipelineIsDropped(t *testing.T) {
	if rhi.DebugBuild {
		t.Skip("debug builds assert on undrawable state")
	}
	dev := New()
	t.Cleanup(dev.Close)

	rs := dev.CreateRootSignature(&rhi.RootSignatureDesc{})
	t.Cleanup(func() { rhi.Release(rs) })

	cb := rhi.NewCommandBuffer(4)
	cb.SetGraphicsRootSignature(rs)
	cb.SetPrimitiveTopology(gputypes.PrimitiveTopologyTriangleList)
	cb.Draw(rhi.DrawArguments{VertexCountPerInstance: 3, InstanceCount: 1})
	cb.SubmitAndClear(dev)

	if got := dev.Stats(); got.Draws != 0 || got.Submits != 1 {
		t.Errorf("Stats() = %+v, want one submit and no draws", got)
	}
	if got := dev.DrawState().State(); got != rhi.StateRootSignatureBound {
		t.Errorf("State() = %v, want %v", got, rhi.StateRootSignatureBound)
	}
}

func TestSubmitEmpty(t *testing.T) {
	dev := New()
	t.Cleanup(dev.Close)
	dev.Submit(nil)
	dev.Submit(rhi.NewCommandBuffer(0))
	if got := dev.Stats().Submits; got != 0 {
		t.Errorf("Submits = %d, want 0", got)
	}
}

func TestCloseReleasesBoundState(t *testing.T) {
	dev := New()
	rs := dev.CreateRootSignature(&rhi.RootSignatureDesc{})

	cb := rhi.NewCommandBuffer(1)
	cb.SetGraphicsRootSignature(rs)
	cb.SubmitAndClear(dev)
	if got := rs.RefCount(); got != 2 {
		t.Fatalf("RefCount() while bound = %d, want 2", got)
	}
	dev.Close()
	if got := rs.RefCount(); got != 1 {
		t.Errorf("RefCount() after Close = %d, want 1", got)
	}
	rhi.Release(rs)
}

func TestConcurrentCreation(t *testing.T) {
	dev := New()
	t.Cleanup(dev.Close)
	desc := scenario.RootSignatureDesc(scenario.DefaultConfig())
	var g errgroup.Group
	for range 8 {
		g.Go(func() error {
			for range 50 {
				rs := dev.CreateRootSignature(desc)
				tb := dev.CreateTextureBuffer(64, gputypes.TextureFormatRGBA32Float, nil)
				if rs == nil || tb == nil {
					return fmt.Errorf("CreateRootSignature() = %v, CreateTextureBuffer() = %v", rs, tb)
				}
				rhi.Release(rs)
				rhi.Release(tb)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
}
