//go:build !nogpu

package hal

import (
	"fmt"
	"slices"
	"sync"
	"testing"
	"unsafe"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	gpuhal "github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/rhi"
	"github.com/gogpu/rhi/internal/scenario"
)

// countingDevice counts the layouts, bind groups and render pipelines a
// device creates and records its render passes.
type countingDevice struct {
	gpuhal.Device

	mu      sync.Mutex
	layouts int
	groups  int
	renders int
	passes  []*recordingPass
}

func (c *countingDevice) CreateBindGroupLayout(desc *gpuhal.BindGroupLayoutDescriptor) (gpuhal.BindGroupLayout, error) {
	c.mu.Lock()
	c.layouts++
	c.mu.Unlock()
	return c.Device.CreateBindGroupLayout(desc)
}

func (c *countingDevice) CreateBindGroup(desc *gpuhal.BindGroupDescriptor) (gpuhal.BindGroup, error) {
	c.mu.Lock()
	c.groups++
	c.mu.Unlock()
	return c.Device.CreateBindGroup(desc)
}

func (c *countingDevice) CreateRenderPipeline(desc *gpuhal.RenderPipelineDescriptor) (gpuhal.RenderPipeline, error) {
	c.mu.Lock()
	c.renders++
	c.mu.Unlock()
	return c.Device.CreateRenderPipeline(desc)
}

func (c *countingDevice) CreateCommandEncoder(desc *gpuhal.CommandEncoderDescriptor) (gpuhal.CommandEncoder, error) {
	enc, err := c.Device.CreateCommandEncoder(desc)
	if err != nil {
		return nil, err
	}
	return &recordingEncoder{CommandEncoder: enc, dev: c}, nil
}

type recordingEncoder struct {
	gpuhal.CommandEncoder
	dev *countingDevice
}

func (e *recordingEncoder) BeginRenderPass(desc *gpuhal.RenderPassDescriptor) gpuhal.RenderPassEncoder {
	p := &recordingPass{RenderPassEncoder: e.CommandEncoder.BeginRenderPass(desc), desc: *desc}
	e.dev.mu.Lock()
	e.dev.passes = append(e.dev.passes, p)
	e.dev.mu.Unlock()
	return p
}

// recordingPass records the commands of one render pass.
type recordingPass struct {
	gpuhal.RenderPassEncoder
	desc    gpuhal.RenderPassDescriptor
	calls   []string
	scissor [4]uint32
}

func (p *recordingPass) record(format string, args ...any) {
	p.calls = append(p.calls, fmt.Sprintf(format, args...))
}

func (p *recordingPass) End() {
	p.record("End")
	p.RenderPassEncoder.End()
}

func (p *recordingPass) SetPipeline(rp gpuhal.RenderPipeline) {
	p.record("SetPipeline")
	p.RenderPassEncoder.SetPipeline(rp)
}

func (p *recordingPass) SetBindGroup(index uint32, g gpuhal.BindGroup, offsets []uint32) {
	p.record("SetBindGroup %d", index)
	p.RenderPassEncoder.SetBindGroup(index, g, offsets)
}

func (p *recordingPass) SetVertexBuffer(slot uint32, buf gpuhal.Buffer, offset uint64) {
	p.record("SetVertexBuffer %d", slot)
	p.RenderPassEncoder.SetVertexBuffer(slot, buf, offset)
}

func (p *recordingPass) SetIndexBuffer(buf gpuhal.Buffer, format gputypes.IndexFormat, offset uint64) {
	p.record("SetIndexBuffer")
	p.RenderPassEncoder.SetIndexBuffer(buf, format, offset)
}

func (p *recordingPass) SetViewport(x, y, w, h, minDepth, maxDepth float32) {
	p.record("SetViewport")
	p.RenderPassEncoder.SetViewport(x, y, w, h, minDepth, maxDepth)
}

func (p *recordingPass) SetScissorRect(x, y, w, h uint32) {
	p.record("SetScissorRect")
	p.scissor = [4]uint32{x, y, w, h}
	p.RenderPassEncoder.SetScissorRect(x, y, w, h)
}

func (p *recordingPass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	p.record("Draw")
	p.RenderPassEncoder.Draw(vertexCount, instanceCount, firstVertex, firstInstance)
}

func (p *recordingPass) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	p.record("DrawIndexed")
	p.RenderPassEncoder.DrawIndexed(indexCount, instanceCount, firstIndex, baseVertex, firstInstance)
}

// newCountingDevice opens a noop HAL device behind a countingDevice.
func newCountingDevice(t *testing.T, opts ...rhi.Option) (*Device, *countingDevice) {
	t.Helper()
	instance, err := noop.API{}.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance() error = %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		t.Fatal("no noop adapter")
	}
	od, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	counting := &countingDevice{Device: od.Device}
	dev := New(Config{Variant: gputypes.BackendEmpty, Device: counting, Queue: od.Queue}, opts...)
	t.Cleanup(func() {
		dev.Close()
		od.Device.Destroy()
		instance.Destroy()
	})
	return dev, counting
}

func buildScenario(t *testing.T, dev *Device) *scenario.Scenario {
	t.Helper()
	s, err := scenario.Build(dev, scenario.DefaultConfig())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	t.Cleanup(s.Release)
	return s
}

func TestRegistered(t *testing.T) {
	for _, name := range []string{rhi.BackendDirect3D12, rhi.BackendVulkan} {
		if !rhi.IsRegistered(name) {
			t.Errorf("%s backend is not registered", name)
		}
	}
}

func TestNewOpensAdapter(t *testing.T) {
	dev := New(Config{Variant: gputypes.BackendEmpty})
	t.Cleanup(dev.Close)
	if !dev.Initialized() {
		t.Fatal("Initialized() = false, want true")
	}
	if got, want := dev.Name(), gputypes.BackendEmpty.String(); got != want {
		t.Errorf("Name() = %q, want %q", got, want)
	}
	caps := dev.Capabilities()
	if caps.BindingModel != rhi.BindingModelTable || !caps.ExplicitBindingLocations {
		t.Errorf("binding caps = %v explicit=%v, want table with explicit locations", caps.BindingModel, caps.ExplicitBindingLocations)
	}
	if caps.Adapter.Type != gpucontext.AdapterTypeUnknown {
		t.Errorf("Adapter.Type = %v, want %v", caps.Adapter.Type, gpucontext.AdapterTypeUnknown)
	}
	if caps.GeometryShader || caps.TessellationShaders {
		t.Error("HAL devices have no geometry or tessellation stage")
	}
}

func TestNewUnavailableBackend(t *testing.T) {
	dev := New(Config{Variant: gputypes.BackendBrowserWebGPU})
	if dev.Initialized() {
		t.Fatal("Initialized() = true for a backend that is not compiled in")
	}
	if rs := dev.CreateRootSignature(scenario.RootSignatureDesc(scenario.DefaultConfig())); rs != nil {
		t.Error("CreateRootSignature() on an uninitialized device returned a signature")
	}
	dev.Submit(&rhi.CommandBuffer{})
	dev.Close()
	dev.Close()
}

func TestPickAdapter(t *testing.T) {
	adapters := []gpuhal.ExposedAdapter{
		{Info: gputypes.AdapterInfo{Name: "igpu", DeviceType: gputypes.DeviceTypeIntegratedGPU}},
		{Info: gputypes.AdapterInfo{Name: "dgpu", DeviceType: gputypes.DeviceTypeDiscreteGPU}},
	}
	tests := []struct {
		pref gpucontext.AdapterType
		want string
	}{
		{gpucontext.AdapterTypeDiscrete, "dgpu"},
		{gpucontext.AdapterTypeIntegrated, "igpu"},
		{gpucontext.AdapterTypeSoftware, "igpu"},
		{gpucontext.AdapterTypeUnknown, "igpu"},
	}
	for _, tt := range tests {
		if got := pickAdapter(adapters, tt.pref).Info.Name; got != tt.want {
			t.Errorf("pickAdapter(%v) = %q, want %q", tt.pref, got, tt.want)
		}
	}
}

func TestScenarioDraws(t *testing.T) {
	dev, counting := newCountingDevice(t)
	s := buildScenario(t, dev)

	var cb rhi.CommandBuffer
	s.RecordFrame(&cb)
	dev.Submit(&cb)

	if counting.layouts != 3 {
		t.Errorf("bind group layouts = %d, want one per root parameter (3)", counting.layouts)
	}
	if len(counting.passes) != 1 {
		t.Fatalf("render passes = %d, want 1", len(counting.passes))
	}
	pass := counting.passes[0]
	want := []string{
		"SetPipeline", "SetBindGroup 0", "SetBindGroup 1", "SetBindGroup 2",
		"SetVertexBuffer 0", "SetViewport", "SetScissorRect", "Draw", "End",
	}
	if !slices.Equal(pass.calls, want) {
		t.Errorf("pass calls = %v, want %v", pass.calls, want)
	}
	if pass.scissor != [4]uint32{0, 0, s.Config.Width, s.Config.Height} {
		t.Errorf("scissor = %v, want the whole target", pass.scissor)
	}
	att := pass.desc.ColorAttachments
	if len(att) != 1 || att[0].LoadOp != gputypes.LoadOpClear || att[0].ClearValue.R != float64(s.Config.ClearColor[0]) {
		t.Errorf("color attachments = %+v, want one cleared to %v", att, s.Config.ClearColor)
	}
}

func TestBindGroupsCached(t *testing.T) {
	dev, counting := newCountingDevice(t)
	s := buildScenario(t, dev)

	for range 3 {
		var cb rhi.CommandBuffer
		s.RecordFrame(&cb)
		dev.Submit(&cb)
	}
	if counting.groups != 3 {
		t.Errorf("bind groups created = %d, want 3", counting.groups)
	}
	if _, groups, _ := dev.Stats(); groups.Hits != 6 || groups.Entries != 3 {
		t.Errorf("group stats = %+v, want 6 hits over 3 entries", groups)
	}
}

func TestRenderPipelineVariants(t *testing.T) {
	dev, counting := newCountingDevice(t)
	s := buildScenario(t, dev)
	if counting.renders != 1 {
		t.Fatalf("render pipelines after build = %d, want 1", counting.renders)
	}

	draw := func(top gputypes.PrimitiveTopology) []string {
		var cb rhi.CommandBuffer
		cb.SetRenderTarget(s.Target)
		s.Record(&cb)
		cb.SetPrimitiveTopology(top)
		cb.Draw(rhi.DrawArguments{VertexCountPerInstance: 3, InstanceCount: 1})
		dev.Submit(&cb)
		return counting.passes[len(counting.passes)-1].calls
	}

	draw(gputypes.PrimitiveTopologyTriangleStrip)
	if counting.renders != 2 {
		t.Errorf("render pipelines after strip draw = %d, want 2", counting.renders)
	}
	draw(gputypes.PrimitiveTopologyTriangleStrip)
	if counting.renders != 2 {
		t.Errorf("render pipelines after repeated strip draw = %d, want 2", counting.renders)
	}
	calls := draw(gputypes.PrimitiveTopologyLineList)
	if n := countOf(calls, "Draw"); n != 1 {
		t.Errorf("draws with a line topology = %d, want only the triangle-list draw", n)
	}
	if counting.renders != 2 {
		t.Errorf("render pipelines after rejected draw = %d, want 2", counting.renders)
	}
}

func countOf(calls []string, name string) int {
	n := 0
	for _, c := range calls {
		if c == name {
			n++
		}
	}
	return n
}

func TestIndexedDraw(t *testing.T) {
	dev, counting := newCountingDevice(t)
	s := buildScenario(t, dev)

	indices := []byte{0, 0, 1, 0, 2, 0}
	ib := dev.CreateIndexBuffer(uint32(len(indices)), gputypes.IndexFormatUint16, indices, rhi.BufferUsageStatic)
	if ib == nil {
		t.Fatal("CreateIndexBuffer() = nil")
	}
	t.Cleanup(func() { rhi.Release(ib) })
	va := dev.CreateVertexArray(&rhi.VertexArrayDesc{
		Attributes:    scenario.VertexAttributes(),
		VertexBuffers: []rhi.VertexArrayVertexBuffer{{Buffer: s.VertexBuffer}},
		IndexBuffer:   ib,
	})
	t.Cleanup(func() { rhi.Release(va) })

	var cb rhi.CommandBuffer
	cb.SetRenderTarget(s.Target)
	s.Record(&cb)
	cb.SetVertexArray(va)
	cb.DrawIndexed(rhi.DrawIndexedArguments{IndexCountPerInstance: 3, InstanceCount: 1})
	cb.SetVertexArray(s.VertexArray)
	cb.DrawIndexed(rhi.DrawIndexedArguments{IndexCountPerInstance: 3, InstanceCount: 1})
	dev.Submit(&cb)

	calls := counting.passes[0].calls
	if countOf(calls, "SetIndexBuffer") != 1 || countOf(calls, "DrawIndexed") != 1 {
		t.Errorf("pass calls = %v, want one indexed draw and the one without index buffer dropped", calls)
	}
}

func TestUpdateBuffer(t *testing.T) {
	dev, counting := newCountingDevice(t)
	ub := dev.CreateUniformBuffer(64, nil, rhi.BufferUsageDynamic)
	if ub == nil {
		t.Fatal("CreateUniformBuffer() = nil")
	}
	t.Cleanup(func() { rhi.Release(ub) })

	var cb rhi.CommandBuffer
	cb.UpdateBuffer(ub, 16, []byte{1, 2, 3, 4, 5})
	cb.UpdateBuffer(ub, 3, []byte{9})
	dev.Submit(&cb)

	obj := dev.objectOf(ub)
	m, err := counting.MapBuffer(obj.buffer, 16, 8)
	if err != nil {
		t.Fatalf("MapBuffer() error = %v", err)
	}
	got := unsafe.Slice((*byte)(m.Ptr), 8)
	if want := []byte{1, 2, 3, 4, 5, 0, 0, 0}; !slices.Equal(got, want) {
		t.Errorf("buffer contents = %v, want %v", got, want)
	}
}

func TestCreateBufferAlignment(t *testing.T) {
	dev, _ := newCountingDevice(t)
	tests := []struct {
		name string
		buf  rhi.Buffer
		want uint64
	}{
		{"vertex", dev.CreateVertexBuffer(10, nil, rhi.BufferUsageStatic), 12},
		{"uniform", dev.CreateUniformBuffer(20, nil, rhi.BufferUsageDynamic), 32},
		{"texture buffer", dev.CreateTextureBuffer(6, gputypes.TextureFormatR16Float, nil), 8},
	}
	for _, tt := range tests {
		if tt.buf == nil {
			t.Errorf("%s buffer = nil", tt.name)
			continue
		}
		t.Cleanup(func() { rhi.Release(tt.buf) })
		if got := dev.objectOf(tt.buf).size; got != tt.want {
			t.Errorf("%s size = %d, want %d", tt.name, got, tt.want)
		}
		if tt.buf.Size() > uint32(tt.want) {
			t.Errorf("%s Size() = %d exceeds the allocation %d", tt.name, tt.buf.Size(), tt.want)
		}
	}
}

func TestCreateFailures(t *testing.T) {
	dev, _ := newCountingDevice(t)
	s := buildScenario(t, dev)

	tests := []struct {
		name   string
		create func() rhi.Resource
	}{
		{"patch pipeline", func() rhi.Resource {
			return dev.CreatePipelineState(&rhi.PipelineStateDesc{
				RootSignature: s.RootSignature, Program: s.Program, TopologyType: rhi.TopologyTypePatch,
			})
		}},
		{"pipeline without root signature", func() rhi.Resource {
			return dev.CreatePipelineState(&rhi.PipelineStateDesc{Program: s.Program})
		}},
		{"geometry shader", func() rhi.Resource {
			return dev.CreateShader(rhi.StageGeometry, rhi.ShaderSource{WGSL: scenario.TexturedWGSL, EntryPoint: "vs_main"})
		}},
		{"program without vertex shader", func() rhi.Resource {
			return dev.CreateProgram(s.RootSignature, nil, s.FragmentShader)
		}},
		{"too many bind groups", func() rhi.Resource {
			desc := &rhi.RootSignatureDesc{}
			for range 5 {
				desc.Parameters = append(desc.Parameters, rhi.Constants32Bit(rhi.VisibilityAll, 0, 0, 1))
			}
			return dev.CreateRootSignature(desc)
		}},
		{"undefined index format", func() rhi.Resource {
			return dev.CreateIndexBuffer(6, gputypes.IndexFormatUndefined, nil, rhi.BufferUsageStatic)
		}},
		{"empty texture", func() rhi.Resource {
			return dev.CreateTexture2D(&rhi.Texture2DDesc{Format: gputypes.TextureFormatRGBA8Unorm})
		}},
		{"short texture data", func() rhi.Resource {
			return dev.CreateTexture2D(&rhi.Texture2DDesc{
				Width: 4, Height: 4, Format: gputypes.TextureFormatRGBA8Unorm, Data: make([]byte, 10),
			})
		}},
		{"sampled texture as color attachment", func() rhi.Resource {
			return dev.CreateFramebuffer([]rhi.Texture{s.Texture}, nil)
		}},
		{"color texture as depth attachment", func() rhi.Resource {
			return dev.CreateFramebuffer(nil, s.ColorTarget)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := tt.create()
			if res != nil {
				rhi.Release(res)
				t.Errorf("%s was created, want nil", tt.name)
			}
		})
	}
}

func TestStaticSamplers(t *testing.T) {
	const wgsl = `
@group(0) @binding(0) var Tex: texture_2d<f32>;
@group(1) @binding(0) var Samp: sampler;

@vertex
fn vs_main(@location(0) p: vec2<f32>) -> @builtin(position) vec4<f32> {
    return vec4<f32>(p, 0.0, 1.0);
}

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return textureSample(Tex, Samp, vec2<f32>(0.5, 0.5));
}
`
	dev, counting := newCountingDevice(t)
	s := buildScenario(t, dev)

	rs := dev.CreateRootSignature(&rhi.RootSignatureDesc{
		Parameters: []rhi.RootParameter{
			rhi.DescriptorTable(rhi.VisibilityFragment, rhi.DescriptorRange{
				Type: rhi.RangeSRV, Count: 1, OffsetInTable: rhi.OffsetAppend,
				PairedSamplerParameterIndex: rhi.NoPairedSampler,
			}),
		},
		StaticSamplers: []rhi.StaticSampler{{Sampler: rhi.DefaultSamplerState(), Visibility: rhi.VisibilityFragment}},
	})
	if rs == nil {
		t.Fatal("CreateRootSignature() = nil")
	}
	vs := dev.CreateShader(rhi.StageVertex, rhi.ShaderSource{WGSL: wgsl, EntryPoint: "vs_main"})
	fs := dev.CreateShader(rhi.StageFragment, rhi.ShaderSource{WGSL: wgsl, EntryPoint: "fs_main"})
	attrs := []rhi.VertexAttribute{{Format: gputypes.VertexFormatFloat32x2, Stride: 8}}
	prog := dev.CreateProgram(rs, attrs, vs, fs)
	if prog == nil {
		t.Fatal("CreateProgram() = nil")
	}
	ps := dev.CreatePipelineState(&rhi.PipelineStateDesc{
		RootSignature:    rs,
		Program:          prog,
		VertexAttributes: attrs,
		Rasterizer:       rhi.DefaultRasterizerState(),
		ColorFormats:     []gputypes.TextureFormat{gputypes.TextureFormatRGBA8Unorm},
	})
	if ps == nil {
		t.Fatal("CreatePipelineState() = nil")
	}
	t.Cleanup(func() {
		for _, r := range []rhi.Resource{ps, prog, fs, vs, rs} {
			rhi.Release(r)
		}
	})

	var cb rhi.CommandBuffer
	cb.SetRenderTarget(s.Target)
	cb.SetGraphicsRootSignature(rs)
	cb.SetPipelineState(ps)
	cb.SetGraphicsRootDescriptorTable(0, s.Texture)
	cb.SetVertexArray(s.VertexArray)
	cb.SetPrimitiveTopology(gputypes.PrimitiveTopologyTriangleList)
	cb.Draw(rhi.DrawArguments{VertexCountPerInstance: 3, InstanceCount: 1})
	dev.Submit(&cb)

	calls := counting.passes[len(counting.passes)-1].calls
	if !slices.Contains(calls, "SetBindGroup 1") || !slices.Contains(calls, "SetBindGroup 0") {
		t.Errorf("pass calls = %v, want the table group and the static sampler group", calls)
	}
}

func TestSwapChain(t *testing.T) {
	dev, counting := newCountingDevice(t)
	sc := dev.CreateSwapChain(32, 16, gputypes.TextureFormatBGRA8Unorm)
	if sc == nil {
		t.Fatal("CreateSwapChain() = nil")
	}
	t.Cleanup(func() { rhi.Release(sc) })
	if w, h := sc.Size(); w != 32 || h != 16 {
		t.Errorf("Size() = %d, %d, want 32, 16", w, h)
	}

	var cb rhi.CommandBuffer
	cb.SetRenderTarget(sc)
	cb.ClearRenderTarget(rhi.ClearColor, [4]float32{0, 0, 1, 1}, 1, 0)
	dev.Submit(&cb)
	sc.Present()
	sc.Present()

	if dev.Presents() != 2 {
		t.Errorf("Presents() = %d, want 2", dev.Presents())
	}
	if len(counting.passes) != 1 || len(counting.passes[0].desc.ColorAttachments) != 1 {
		t.Errorf("passes = %d, want one pass on the back buffer", len(counting.passes))
	}
	if dev.CreateSwapChain(4, 4, gputypes.TextureFormatDepth24Plus) != nil {
		t.Error("CreateSwapChain(depth format) succeeded")
	}
}

func TestDepthStencilPass(t *testing.T) {
	dev, counting := newCountingDevice(t)
	color := dev.CreateTexture2D(&rhi.Texture2DDesc{
		Width: 8, Height: 8, Format: gputypes.TextureFormatRGBA8Unorm, RenderTarget: true,
	})
	depth := dev.CreateTexture2D(&rhi.Texture2DDesc{Width: 8, Height: 8, Format: gputypes.TextureFormatDepth24PlusStencil8})
	fb := dev.CreateFramebuffer([]rhi.Texture{color}, depth)
	if fb == nil {
		t.Fatal("CreateFramebuffer() = nil")
	}
	t.Cleanup(func() {
		for _, r := range []rhi.Resource{fb, depth, color} {
			rhi.Release(r)
		}
	})

	var cb rhi.CommandBuffer
	cb.SetRenderTarget(fb)
	cb.ClearRenderTarget(rhi.ClearDepth|rhi.ClearStencil, [4]float32{}, 0.5, 7)
	dev.Submit(&cb)

	ds := counting.passes[0].desc.DepthStencilAttachment
	if ds == nil {
		t.Fatal("pass has no depth attachment")
	}
	if ds.DepthLoadOp != gputypes.LoadOpClear || ds.DepthClearValue != 0.5 ||
		ds.StencilLoadOp != gputypes.LoadOpClear || ds.StencilClearValue != 7 {
		t.Errorf("depth attachment = %+v, want depth 0.5 and stencil 7 cleared", ds)
	}
	if op := counting.passes[0].desc.ColorAttachments[0].LoadOp; op != gputypes.LoadOpLoad {
		t.Errorf("color LoadOp = %v, want %v", op, gputypes.LoadOpLoad)
	}
}

func TestRetireWaitsForSubmission(t *testing.T) {
	dev, _ := newCountingDevice(t)
	dev.submitMu.Lock()
	dev.last = 1 << 40
	dev.submitMu.Unlock()

	var ran bool
	dev.retire(func() { ran = true })
	if ran {
		t.Fatal("retirement ran before its submission completed")
	}
	dev.drain(1 << 40)
	if !ran {
		t.Error("retirement did not run once its submission completed")
	}
}

func TestClampScissor(t *testing.T) {
	tests := []struct {
		r    rhi.ScissorRectangle
		want [4]uint32
	}{
		{rhi.ScissorRectangle{X: 10, Y: 20, Width: 30, Height: 40}, [4]uint32{10, 20, 30, 40}},
		{rhi.ScissorRectangle{X: -10, Y: -5, Width: 30, Height: 10}, [4]uint32{0, 0, 20, 5}},
		{rhi.ScissorRectangle{X: 90, Y: 90, Width: 30, Height: 30}, [4]uint32{90, 90, 10, 10}},
		{rhi.ScissorRectangle{X: 200, Y: 0, Width: 5, Height: 5}, [4]uint32{100, 0, 0, 5}},
	}
	for _, tt := range tests {
		x, y, w, h := clampScissor(tt.r, 100, 100)
		if got := [4]uint32{x, y, w, h}; got != tt.want {
			t.Errorf("clampScissor(%+v) = %v, want %v", tt.r, got, tt.want)
		}
	}
}

func TestConcurrentCreation(t *testing.T) {
	dev, _ := newCountingDevice(t)
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
	if n := len(dev.objects); n != 0 {
		t.Errorf("after release: %d objects, want none", n)
	}
}
