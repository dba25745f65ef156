// Package null provides the "Null" backend: a device that creates real,
// reference-counted resources and executes command buffers against nothing.
//
// It is always initialized. It is useful for tests, for headless tools and
// as the last resort of rhi.DefaultDevice.
//
// Import it for its side effect:
//
//	import _ "github.com/gogpu/rhi/backend/null"
package null

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/rhi"
	"github.com/gogpu/rhi/internal/native"
)

func init() {
	rhi.Register(rhi.BackendNull, func(opts ...rhi.Option) rhi.Device { return New(opts...) })
}

// Stats counts the work a Null device has executed.
type Stats struct {
	Submits   int
	Draws     int
	Instances int
	Binds     int
}

// Device is the Null device.
type Device struct {
	opts  rhi.Options
	caps  rhi.Capabilities
	state rhi.DrawState
	stats Stats
}

// New returns an initialized Null device.
func New(opts ...rhi.Option) *Device {
	o := rhi.ResolveOptions(opts...)
	d := &Device{opts: o}
	d.caps = rhi.Capabilities{
		DeviceName:               "Null Device",
		Adapter:                  gpucontext.AdapterInfo{Name: "Null", Type: gpucontext.AdapterTypeSoftware},
		BindingModel:             rhi.BindingModelTable,
		ExplicitBindingLocations: true,
		InstancedArrays:          true,
		DrawInstanced:            true,
		BaseVertex:               true,
		NativeMultithreading:     true,
		TessellationShaders:      true,
		GeometryShader:           true,
		UpperLeftOrigin:          true,
		ZeroToOneClipZ:           true,
	}
	d.caps.ApplyLimits(o.Limits)
	o.Log().Info("rhi: device initialized", "backend", rhi.BackendNull, "label", o.Label)
	return d
}

// Stats returns the work counters.
func (d *Device) Stats() Stats { return d.stats }

func (d *Device) Name() string                    { return rhi.BackendNull }
func (d *Device) Initialized() bool               { return true }
func (d *Device) Capabilities() *rhi.Capabilities { return &d.caps }

// --------------------------------------------------------------------------
// Resource creation
// --------------------------------------------------------------------------

func (d *Device) CreateRootSignature(desc *rhi.RootSignatureDesc) rhi.RootSignature {
	if !rhi.ValidateForDevice(desc, d.opts, false) {
		return nil
	}
	return native.NewRootSignature(desc, nil)
}

func (d *Device) CreateVertexBuffer(size uint32, _ []byte, usage rhi.BufferUsage) rhi.VertexBuffer {
	return native.NewBuffer(rhi.ResourceVertexBuffer, 0, size, usage, nil)
}

func (d *Device) CreateIndexBuffer(size uint32, format gputypes.IndexFormat, _ []byte, usage rhi.BufferUsage) rhi.IndexBuffer {
	return native.NewIndexBuffer(0, size, format, usage, nil)
}

func (d *Device) CreateUniformBuffer(size uint32, _ []byte, usage rhi.BufferUsage) rhi.UniformBuffer {
	return native.NewBuffer(rhi.ResourceUniformBuffer, 0, size, usage, nil)
}

func (d *Device) CreateTextureBuffer(size uint32, format gputypes.TextureFormat, _ []byte) rhi.TextureBuffer {
	return native.NewTextureBuffer(0, size, format, nil)
}

func (d *Device) CreateTexture2D(desc *rhi.Texture2DDesc) rhi.Texture2D {
	if desc == nil {
		return nil
	}
	return native.NewTexture(0, desc.Width, desc.Height, 0, desc.Format, nil)
}

func (d *Device) CreateTexture2DArray(desc *rhi.Texture2DArrayDesc) rhi.Texture2DArray {
	if desc == nil {
		return nil
	}
	return native.NewTexture(0, desc.Width, desc.Height, max(desc.Layers, 1), desc.Format, nil)
}

func (d *Device) CreateSamplerState(desc *rhi.SamplerStateDesc) rhi.SamplerState {
	if desc == nil {
		return nil
	}
	return native.NewSampler(0, *desc, nil)
}

func (d *Device) CreateShader(stage rhi.ShaderStage, src rhi.ShaderSource) rhi.Shader {
	if !d.caps.StageSupported(stage) {
		d.opts.Log().Warn("rhi: unsupported shader stage", "backend", rhi.BackendNull, "stage", stage)
		return nil
	}
	return native.NewShader(0, stage, src.EntryPoint, nil, nil)
}

func (d *Device) CreateProgram(_ rhi.RootSignature, _ []rhi.VertexAttribute, shaders ...rhi.Shader) rhi.Program {
	return native.NewProgram(0, shaders, nil)
}

func (d *Device) CreatePipelineState(desc *rhi.PipelineStateDesc) rhi.PipelineState {
	if desc == nil || desc.Program == nil {
		d.opts.Log().Warn("rhi: pipeline state without program", "backend", rhi.BackendNull)
		return nil
	}
	return native.NewPipelineState(0, desc, nil)
}

func (d *Device) CreateVertexArray(desc *rhi.VertexArrayDesc) rhi.VertexArray {
	if desc == nil {
		return nil
	}
	return native.NewVertexArray(0, desc, nil)
}

func (d *Device) CreateFramebuffer(color []rhi.Texture, depthStencil rhi.Texture) rhi.Framebuffer {
	return native.NewFramebuffer(0, color, depthStencil, nil)
}

func (d *Device) CreateSwapChain(width, height uint32, format gputypes.TextureFormat) rhi.SwapChain {
	return native.NewSwapChain(0, width, height, format, nil, nil)
}

// --------------------------------------------------------------------------
// Execution
// --------------------------------------------------------------------------

// Submit executes cb.
func (d *Device) Submit(cb *rhi.CommandBuffer) {
	if cb == nil || cb.IsEmpty() {
		return
	}
	d.stats.Submits++
	cb.Execute(d)
}

// Close releases the bound state.
func (d *Device) Close() { d.state.Reset() }

// DrawState implements rhi.Executor.
func (d *Device) DrawState() *rhi.DrawState { return &d.state }

func (d *Device) SetGraphicsRootSignature(rhi.RootSignature)                   {}
func (d *Device) SetGraphicsRootDescriptorTable(uint32, rhi.Resource)          { d.stats.Binds++ }
func (d *Device) SetPipelineState(rhi.PipelineState)                           {}
func (d *Device) SetVertexArray(rhi.VertexArray)                               {}
func (d *Device) SetPrimitiveTopology(gputypes.PrimitiveTopology)              {}
func (d *Device) SetViewports([]rhi.Viewport)                                  {}
func (d *Device) SetScissorRectangles([]rhi.ScissorRectangle)                  {}
func (d *Device) SetRenderTarget(rhi.RenderTarget)                             {}
func (d *Device) ClearRenderTarget(rhi.ClearFlag, [4]float32, float32, uint32) {}

func (d *Device) Draw(args []rhi.DrawArguments) {
	for _, a := range args {
		d.stats.Draws++
		d.stats.Instances += int(a.InstanceCount)
	}
}

func (d *Device) DrawIndexed(args []rhi.DrawIndexedArguments) {
	for _, a := range args {
		d.stats.Draws++
		d.stats.Instances += int(a.InstanceCount)
	}
}

func (d *Device) UpdateBuffer(rhi.Buffer, uint32, []byte) {}
func (d *Device) SetDebugMarker(string)                   {}
func (d *Device) BeginDebugEvent(string)                  {}
func (d *Device) EndDebugEvent()                          {}
