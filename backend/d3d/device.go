// Package d3d provides the "Direct3D9", "Direct3D10" and "Direct3D11"
// backends: slot-based binding without descriptor tables.
//
// Each descriptor range is flattened to a register of its class (t, u, b or
// s) at its base register, bound for every stage its root parameter is
// visible to. Programs are translated to HLSL with every resource global
// placed at the register its range flattens to. Two ranges claiming the same
// register in a common stage cannot be realized, so such root signatures are
// rejected.
//
// Direct3D 9 has neither constant buffers nor separate sampler slots: uniform
// buffers are shadowed on the CPU and uploaded to float4 constant registers,
// and a sampler table is bound at the texture stage of every SRV range paired
// with it.
//
// Native calls go through the Native interface. When no Native is given the
// device counts and logs them in a trace.Recorder, which keeps the calls
// only when Config.Retain is set.
//
// Import it for its side effect:
//
//	import _ "github.com/gogpu/rhi/backend/d3d"
package d3d

import (
	"sync"
	"sync/atomic"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/rhi"
	"github.com/gogpu/rhi/internal/binding"
	"github.com/gogpu/rhi/internal/native"
	"github.com/gogpu/rhi/internal/shader"
	"github.com/gogpu/rhi/internal/trace"
)

func init() {
	for _, v := range []Version{Version9, Version10, Version11} {
		rhi.Register(v.Backend(), func(opts ...rhi.Option) rhi.Device {
			return New(Config{Version: v}, opts...)
		})
	}
}

// Version is a Direct3D API version.
type Version uint8

const (
	Version9  Version = 9
	Version10 Version = 10
	Version11 Version = 11
)

// Backend returns the backend name the version registers under.
func (v Version) Backend() string {
	switch v {
	case Version9:
		return rhi.BackendDirect3D9
	case Version10:
		return rhi.BackendDirect3D10
	default:
		return rhi.BackendDirect3D11
	}
}

// Supports reports whether the version has stage s.
func (v Version) Supports(s Stage) bool {
	switch s {
	case VS, PS:
		return true
	case GS:
		return v >= Version10
	case HS, DS:
		return v >= Version11
	default:
		return false
	}
}

var profilePrefixes = [...]string{VS: "vs", HS: "hs", DS: "ds", GS: "gs", PS: "ps"}

// Profile returns the compiler target of stage s, such as "ps_5_0".
func (v Version) Profile(s Stage) string {
	model := "_5_0"
	switch v {
	case Version9:
		model = "_3_0"
	case Version10:
		model = "_4_0"
	}
	return profilePrefixes[s] + model
}

// Config selects the native sink and the API version.
type Config struct {
	// Native receives the Direct3D calls. Nil records into a trace.Recorder.
	Native Native
	// Retain makes the default recorder keep every call. Without it the
	// recorder only counts and logs them.
	Retain bool
	// Version is the API version. Zero selects Version11.
	Version Version
}

// signatureLayout is what the device derives from a root signature.
type signatureLayout struct {
	slots []binding.SlotBinding
	// registers places each shader global at the register of its range.
	registers map[shader.Location]shader.Register
	// coupled lists, per sampler parameter, the texture registers of the SRV
	// ranges paired with it.
	coupled map[uint32][]uint32
}

// views are the views created for one resource.
type views struct {
	srv, uav, rtv, dsv Object
}

// program holds the native shader of every stage.
type program struct {
	shaders [rhi.NumStages]Object
}

// pipeline holds the native state objects of a pipeline state.
type pipeline struct {
	prog         *program
	inputLayout  Object
	rasterizer   Object
	depthStencil Object
	blend        Object
}

// Device is the Direct3D device.
type Device struct {
	opts    rhi.Options
	caps    rhi.Capabilities
	version Version
	d3d     Native
	state   rhi.DrawState

	// mu guards the maps below. Resource creation is free-threaded.
	mu        sync.RWMutex
	layouts   map[*native.RootSignature]*signatureLayout
	views     map[native.Handle]views
	programs  map[*native.Program]*program
	pipelines map[*native.PipelineState]*pipeline
	// shadows holds the content of Direct3D 9 uniform buffers.
	shadows map[native.Handle][]byte

	nextShadow atomic.Uint32

	exec executor
}

// New returns an initialized Direct3D device.
func New(cfg Config, opts ...rhi.Option) *Device {
	o := rhi.ResolveOptions(opts...)
	v := cfg.Version
	if v != Version9 && v != Version10 {
		v = Version11
	}
	n := cfg.Native
	if n == nil {
		rec := trace.NewCounter(v.Backend(), o.Log())
		if cfg.Retain {
			rec = trace.NewRecorder(v.Backend(), o.Log())
		}
		n = NewTraceNative(rec, v)
	}
	d := &Device{
		opts:      o,
		version:   v,
		d3d:       n,
		layouts:   make(map[*native.RootSignature]*signatureLayout),
		views:     make(map[native.Handle]views),
		programs:  make(map[*native.Program]*program),
		pipelines: make(map[*native.PipelineState]*pipeline),
		shadows:   make(map[native.Handle][]byte),
	}
	d.exec.dev = d
	d.caps = rhi.Capabilities{
		DeviceName:           v.Backend(),
		Adapter:              gpucontext.AdapterInfo{Name: v.Backend(), Type: o.AdapterType},
		BindingModel:         rhi.BindingModelSlot,
		InstancedArrays:      true,
		DrawInstanced:        v >= Version10,
		BaseVertex:           true,
		NativeMultithreading: v >= Version11,
		TessellationShaders:  v.Supports(HS),
		GeometryShader:       v.Supports(GS),
		UpperLeftOrigin:      true,
		ZeroToOneClipZ:       true,
	}
	d.caps.ApplyLimits(o.Limits)
	if v >= Version10 {
		d.caps.MaxViewports = 16
	} else {
		d.caps.MaxSimultaneousRenderTargets = min(d.caps.MaxSimultaneousRenderTargets, 4)
		d.caps.MaxTextureArraySlices = 0
	}
	o.Log().Info("rhi: device initialized", "backend", v.Backend(), "label", o.Label)
	return d
}

// Native returns the native sink.
func (d *Device) Native() Native { return d.d3d }

// Recorder returns the trace recorder when the device records into one.
func (d *Device) Recorder() *trace.Recorder {
	if t, ok := d.d3d.(*TraceNative); ok {
		return t.Recorder()
	}
	return nil
}

// Version returns the API version of the device.
func (d *Device) Version() Version { return d.version }

func (d *Device) Name() string                    { return d.version.Backend() }
func (d *Device) Initialized() bool               { return true }
func (d *Device) Capabilities() *rhi.Capabilities { return &d.caps }

func (d *Device) warn(msg string, args ...any) {
	d.opts.Log().Warn("rhi: "+msg, append([]any{"backend", d.version.Backend()}, args...)...)
}

func (d *Device) layoutOf(rs rhi.RootSignature) *signatureLayout {
	nrs, ok := rs.(*native.RootSignature)
	if !ok {
		return nil
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.layouts[nrs]
}

func (d *Device) viewsOf(res rhi.Resource) views {
	h := native.HandleOf(res)
	if h == 0 {
		return views{}
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.views[h]
}

func (d *Device) setViews(h native.Handle, v views) {
	d.mu.Lock()
	d.views[h] = v
	d.mu.Unlock()
}

// releaseViews releases the views of h and then obj itself.
func (d *Device) releaseViews(h native.Handle, obj Object) {
	d.mu.Lock()
	v := d.views[h]
	delete(d.views, h)
	d.mu.Unlock()
	for _, view := range []Object{v.srv, v.uav, v.rtv, v.dsv} {
		if view != 0 {
			d.d3d.Release(view)
		}
	}
	d.d3d.Release(obj)
}

// --------------------------------------------------------------------------
// Root signature
// --------------------------------------------------------------------------

func (d *Device) CreateRootSignature(desc *rhi.RootSignatureDesc) rhi.RootSignature {
	if !rhi.ValidateForDevice(desc, d.opts, d.version == Version9) {
		return nil
	}
	slots := binding.SlotLayout(desc)
	if err := binding.SlotConflicts(slots); err != nil {
		d.warn("root signature rejected", "err", err)
		return nil
	}
	var rs *native.RootSignature
	rs = native.NewRootSignature(desc, func() {
		d.mu.Lock()
		delete(d.layouts, rs)
		d.mu.Unlock()
	})
	layout := newSignatureLayout(rs.Desc(), slots)
	d.mu.Lock()
	d.layouts[rs] = layout
	d.mu.Unlock()
	return rs
}

// newSignatureLayout derives the register placement of desc. Table and slot
// layouts list the same ranges in the same order.
func newSignatureLayout(desc *rhi.RootSignatureDesc, slots []binding.SlotBinding) *signatureLayout {
	l := &signatureLayout{
		slots:     slots,
		registers: make(map[shader.Location]shader.Register),
		coupled:   make(map[uint32][]uint32),
	}
	for i, tb := range binding.TableLayout(desc) {
		sb := slots[i]
		for k := range tb.Count {
			l.registers[shader.Location{Group: tb.Parameter, Binding: tb.Binding + k}] =
				shader.Register{Space: sb.Space, Register: sb.Slot + k}
		}
		if tb.Root || sb.Class != binding.ClassTexture {
			continue
		}
		if p, ok := desc.PairedSampler(desc.Parameters[tb.Parameter].Ranges[tb.Range]); ok {
			for k := range sb.Count {
				l.coupled[p] = append(l.coupled[p], sb.Slot+k)
			}
		}
	}
	return l
}

// --------------------------------------------------------------------------
// Buffers
// --------------------------------------------------------------------------

func (d *Device) createBuffer(size uint32, data []byte, usage rhi.BufferUsage, bind BIND_FLAG) (Object, func()) {
	b := d.d3d.CreateBuffer(BUFFER_DESC{ByteWidth: size, Usage: bufferUsage(usage), BindFlags: bind}, data)
	if b == 0 {
		return 0, nil
	}
	return b, func() { d.d3d.Release(b) }
}

func (d *Device) CreateVertexBuffer(size uint32, data []byte, usage rhi.BufferUsage) rhi.VertexBuffer {
	b, destroy := d.createBuffer(size, data, usage, BIND_VERTEX_BUFFER)
	if b == 0 {
		d.warn("buffer creation failed", "kind", rhi.ResourceVertexBuffer)
		return nil
	}
	return native.NewBuffer(rhi.ResourceVertexBuffer, native.Handle(b), size, usage, destroy)
}

func (d *Device) CreateIndexBuffer(size uint32, format gputypes.IndexFormat, data []byte, usage rhi.BufferUsage) rhi.IndexBuffer {
	if _, _, ok := indexFormat(format); !ok {
		d.warn("unsupported index format", "format", format)
		return nil
	}
	b, destroy := d.createBuffer(size, data, usage, BIND_INDEX_BUFFER)
	if b == 0 {
		d.warn("buffer creation failed", "kind", rhi.ResourceIndexBuffer)
		return nil
	}
	return native.NewIndexBuffer(native.Handle(b), size, format, usage, destroy)
}

// CreateUniformBuffer rounds the size up to whole constant registers.
func (d *Device) CreateUniformBuffer(size uint32, data []byte, usage rhi.BufferUsage) rhi.UniformBuffer {
	aligned := (size + 15) &^ 15
	if d.version == Version9 {
		h := native.Handle(d.nextShadow.Add(1))
		shadow := make([]byte, aligned)
		copy(shadow, data)
		d.mu.Lock()
		d.shadows[h] = shadow
		d.mu.Unlock()
		return native.NewBuffer(rhi.ResourceUniformBuffer, h, size, usage, func() {
			d.mu.Lock()
			delete(d.shadows, h)
			d.mu.Unlock()
		})
	}
	b, destroy := d.createBuffer(aligned, data, usage, BIND_CONSTANT_BUFFER)
	if b == 0 {
		d.warn("buffer creation failed", "kind", rhi.ResourceUniformBuffer)
		return nil
	}
	return native.NewBuffer(rhi.ResourceUniformBuffer, native.Handle(b), size, usage, destroy)
}

func (d *Device) CreateTextureBuffer(size uint32, format gputypes.TextureFormat, data []byte) rhi.TextureBuffer {
	if d.version == Version9 {
		d.warn("texture buffers unsupported")
		return nil
	}
	f, ok := textureFormat(format)
	if !ok || isDepthFormat(format) {
		d.warn("unsupported texture buffer format", "format", format)
		return nil
	}
	bind := BIND_SHADER_RESOURCE
	if d.version >= Version11 {
		bind |= BIND_UNORDERED_ACCESS
	}
	b, _ := d.createBuffer(size, data, rhi.BufferUsageStatic, bind)
	if b == 0 {
		d.warn("buffer creation failed", "kind", rhi.ResourceTextureBuffer)
		return nil
	}
	h := native.Handle(b)
	v := views{srv: d.d3d.CreateShaderResourceView(b, f)}
	if bind&BIND_UNORDERED_ACCESS != 0 {
		v.uav = d.d3d.CreateUnorderedAccessView(b, f)
	}
	d.setViews(h, v)
	return native.NewTextureBuffer(h, size, format, func() { d.releaseViews(h, b) })
}

// --------------------------------------------------------------------------
// Textures and samplers
// --------------------------------------------------------------------------

func (d *Device) createTexture(desc TEXTURE2D_DESC, format gputypes.TextureFormat, renderTarget bool, data []byte) (native.Handle, bool) {
	f, ok := textureFormat(format)
	if !ok || desc.Width == 0 || desc.Height == 0 {
		d.warn("texture creation failed", "format", format, "width", desc.Width, "height", desc.Height)
		return 0, false
	}
	depth := isDepthFormat(format)
	desc.Format = f
	switch {
	case depth:
		desc.BindFlags = BIND_DEPTH_STENCIL
	case renderTarget:
		desc.BindFlags = BIND_SHADER_RESOURCE | BIND_RENDER_TARGET
		if d.version >= Version11 {
			desc.BindFlags |= BIND_UNORDERED_ACCESS
		}
	default:
		desc.BindFlags = BIND_SHADER_RESOURCE
	}
	tex := d.d3d.CreateTexture2D(desc, data)
	if tex == 0 {
		d.warn("texture creation failed", "format", format)
		return 0, false
	}
	var v views
	if desc.BindFlags&BIND_SHADER_RESOURCE != 0 {
		v.srv = d.d3d.CreateShaderResourceView(tex, f)
	}
	if desc.BindFlags&BIND_UNORDERED_ACCESS != 0 {
		v.uav = d.d3d.CreateUnorderedAccessView(tex, f)
	}
	if desc.BindFlags&BIND_RENDER_TARGET != 0 {
		v.rtv = d.d3d.CreateRenderTargetView(tex, f)
	}
	if depth {
		v.dsv = d.d3d.CreateDepthStencilView(tex, f)
	}
	h := native.Handle(tex)
	d.setViews(h, v)
	return h, true
}

func (d *Device) CreateTexture2D(desc *rhi.Texture2DDesc) rhi.Texture2D {
	if desc == nil {
		return nil
	}
	h, ok := d.createTexture(TEXTURE2D_DESC{
		Width: desc.Width, Height: desc.Height, MipLevels: max(desc.MipLevels, 1), ArraySize: 1,
	}, desc.Format, desc.RenderTarget, desc.Data)
	if !ok {
		return nil
	}
	return native.NewTexture(h, desc.Width, desc.Height, 0, desc.Format, func() { d.releaseViews(h, Object(h)) })
}

func (d *Device) CreateTexture2DArray(desc *rhi.Texture2DArrayDesc) rhi.Texture2DArray {
	if desc == nil {
		return nil
	}
	layers := max(desc.Layers, 1)
	if layers > d.caps.MaxTextureArraySlices {
		d.warn("texture array too large", "layers", layers, "max", d.caps.MaxTextureArraySlices)
		return nil
	}
	h, ok := d.createTexture(TEXTURE2D_DESC{
		Width: desc.Width, Height: desc.Height, MipLevels: 1, ArraySize: layers,
	}, desc.Format, false, desc.Data)
	if !ok {
		return nil
	}
	return native.NewTexture(h, desc.Width, desc.Height, layers, desc.Format, func() { d.releaseViews(h, Object(h)) })
}

func (d *Device) CreateSamplerState(desc *rhi.SamplerStateDesc) rhi.SamplerState {
	if desc == nil {
		return nil
	}
	u, _ := addressMode(desc.AddressModeU)
	v, _ := addressMode(desc.AddressModeV)
	w, _ := addressMode(desc.AddressModeW)
	cmp, ok := compareFunc(desc.Compare)
	if !ok {
		cmp = COMPARISON_NEVER
	}
	s := d.d3d.CreateSamplerState(SAMPLER_DESC{
		Filter:         filter(desc),
		AddressU:       u,
		AddressV:       v,
		AddressW:       w,
		MipLODBias:     desc.MipLODBias,
		MaxAnisotropy:  uint32(max(desc.MaxAnisotropy, 1)),
		ComparisonFunc: cmp,
		BorderColor:    desc.BorderColor,
		MinLOD:         desc.LodMinClamp,
		MaxLOD:         desc.LodMaxClamp,
	})
	if s == 0 {
		d.warn("sampler creation failed")
		return nil
	}
	return native.NewSampler(native.Handle(s), *desc, func() { d.d3d.Release(s) })
}

// --------------------------------------------------------------------------
// Shaders and programs
// --------------------------------------------------------------------------

// CreateShader reflects src. Translation to HLSL waits for CreateProgram,
// which knows the registers of the root signature.
func (d *Device) CreateShader(stage rhi.ShaderStage, src rhi.ShaderSource) rhi.Shader {
	st, ok := stageOf(stage)
	if !ok || !d.version.Supports(st) {
		d.warn("unsupported shader stage", "stage", stage)
		return nil
	}
	refl, err := shader.Reflect(src.WGSL)
	if err != nil {
		d.warn("shader reflection failed", "stage", stage, "err", err)
		return nil
	}
	ep, err := refl.EntryPoint(stage, src.EntryPoint)
	if err != nil {
		d.warn("shader entry point missing", "stage", stage, "err", err)
		return nil
	}
	s := native.NewShader(0, stage, ep.Name, refl, nil)
	s.Source = src.WGSL
	return s
}

func (d *Device) CreateProgram(rs rhi.RootSignature, _ []rhi.VertexAttribute, shaders ...rhi.Shader) rhi.Program {
	if len(shaders) == 0 {
		d.warn("program without shaders")
		return nil
	}
	var registers map[shader.Location]shader.Register
	if layout := d.layoutOf(rs); layout != nil {
		registers = layout.registers
	} else {
		d.warn("program linked without a root signature")
	}

	prog := &program{}
	release := func() {
		for _, obj := range prog.shaders {
			if obj != 0 {
				d.d3d.Release(obj)
			}
		}
	}
	for _, s := range shaders {
		ns, ok := s.(*native.Shader)
		if !ok {
			d.warn("foreign shader object")
			release()
			return nil
		}
		st, _ := stageOf(ns.Stage())
		src, err := shader.CompileHLSL(ns.Source, ns.EntryPoint(), registers)
		if err != nil {
			d.warn("shader translation failed", "stage", ns.Stage(), "err", err)
			release()
			return nil
		}
		obj, log := d.d3d.CreateShader(st, src, d.version.Profile(st))
		if obj == 0 {
			d.warn("shader compilation failed", "stage", ns.Stage(), "log", log)
			release()
			return nil
		}
		prog.shaders[st] = obj
	}

	var p *native.Program
	p = native.NewProgram(0, shaders, func() {
		d.mu.Lock()
		delete(d.programs, p)
		d.mu.Unlock()
		release()
	})
	d.mu.Lock()
	d.programs[p] = prog
	d.mu.Unlock()
	return p
}

// --------------------------------------------------------------------------
// Pipeline state, vertex arrays and render targets
// --------------------------------------------------------------------------

func (d *Device) CreatePipelineState(desc *rhi.PipelineStateDesc) rhi.PipelineState {
	if desc == nil || desc.Program == nil {
		d.warn("pipeline state without program")
		return nil
	}
	np, _ := desc.Program.(*native.Program)
	d.mu.RLock()
	prog := d.programs[np]
	d.mu.RUnlock()
	if prog == nil {
		d.warn("pipeline state with a foreign program")
		return nil
	}

	pl := &pipeline{prog: prog}
	if len(desc.VertexAttributes) > 0 {
		elems, ok := d.inputElements(desc.VertexAttributes)
		if !ok {
			return nil
		}
		if pl.inputLayout = d.d3d.CreateInputLayout(elems, prog.shaders[VS]); pl.inputLayout == 0 {
			d.warn("input layout creation failed")
			return nil
		}
	}
	pl.rasterizer = d.d3d.CreateRasterizerState(rasterizerDesc(desc.Rasterizer))
	pl.depthStencil = d.d3d.CreateDepthStencilState(depthStencilDesc(desc.DepthStencil))
	pl.blend = d.d3d.CreateBlendState(blendDesc(desc))

	var ps *native.PipelineState
	ps = native.NewPipelineState(0, desc, func() {
		d.mu.Lock()
		delete(d.pipelines, ps)
		d.mu.Unlock()
		for _, obj := range []Object{pl.inputLayout, pl.rasterizer, pl.depthStencil, pl.blend} {
			if obj != 0 {
				d.d3d.Release(obj)
			}
		}
	})
	d.mu.Lock()
	d.pipelines[ps] = pl
	d.mu.Unlock()
	return ps
}

// inputElements matches each attribute to the LOC<n> semantic the
// translated vertex shader declares for location n.
func (d *Device) inputElements(attrs []rhi.VertexAttribute) ([]INPUT_ELEMENT_DESC, bool) {
	elems := make([]INPUT_ELEMENT_DESC, 0, len(attrs))
	for _, a := range attrs {
		f, ok := vertexFormat(a.Format)
		if !ok {
			d.warn("unsupported vertex format", "attribute", a.Name, "format", a.Format)
			return nil, false
		}
		e := INPUT_ELEMENT_DESC{
			SemanticName:      "LOC",
			SemanticIndex:     a.ShaderLocation,
			Format:            f,
			InputSlot:         a.InputSlot,
			AlignedByteOffset: a.AlignedByteOffset,
		}
		if a.InstancesPerElement > 0 {
			e.InputSlotClass = INPUT_PER_INSTANCE_DATA
			e.InstanceDataStepRate = a.InstancesPerElement
		}
		elems = append(elems, e)
	}
	return elems, true
}

func rasterizerDesc(r rhi.RasterizerState) RASTERIZER_DESC {
	cull, _ := cullMode(r.CullMode)
	fill := FILL_SOLID
	if r.FillMode == rhi.FillWireframe {
		fill = FILL_WIREFRAME
	}
	return RASTERIZER_DESC{
		FillMode:              fill,
		CullMode:              cull,
		FrontCounterClockwise: r.FrontFace == gputypes.FrontFaceCCW,
		DepthBias:             r.DepthBias,
		SlopeScaledDepthBias:  r.SlopeScaledDepthBias,
		DepthClipEnable:       r.DepthClipEnable,
		ScissorEnable:         r.ScissorEnable,
		MultisampleEnable:     r.MultisampleEnable,
	}
}

func depthStencilDesc(ds *gputypes.DepthStencilState) DEPTH_STENCIL_DESC {
	if ds == nil {
		return DEPTH_STENCIL_DESC{DepthFunc: COMPARISON_LESS}
	}
	fn, _ := compareFunc(ds.DepthCompare)
	return DEPTH_STENCIL_DESC{
		DepthEnable:      true,
		DepthWriteMask:   ds.DepthWriteEnabled,
		DepthFunc:        fn,
		StencilEnable:    ds.StencilReadMask != 0 || ds.StencilWriteMask != 0,
		StencilReadMask:  uint8(ds.StencilReadMask),
		StencilWriteMask: uint8(ds.StencilWriteMask),
		FrontFace:        stencilFaceDesc(ds.StencilFront),
		BackFace:         stencilFaceDesc(ds.StencilBack),
	}
}

func stencilFaceDesc(f gputypes.StencilFaceState) DEPTH_STENCILOP_DESC {
	fail, _ := stencilOp(f.FailOp)
	dfail, _ := stencilOp(f.DepthFailOp)
	pass, _ := stencilOp(f.PassOp)
	fn, _ := compareFunc(f.Compare)
	return DEPTH_STENCILOP_DESC{StencilFailOp: fail, StencilDepthFailOp: dfail, StencilPassOp: pass, StencilFunc: fn}
}

func blendDesc(desc *rhi.PipelineStateDesc) BLEND_DESC {
	out := BLEND_DESC{AlphaToCoverageEnable: desc.Blend.AlphaToCoverage}
	targets := desc.ColorTargets()
	out.IndependentBlendEnable = len(targets) > 1
	for i, t := range targets {
		if i >= len(out.RenderTarget) {
			break
		}
		rt := RENDER_TARGET_BLEND_DESC{
			SrcBlend: BLEND_ONE, DestBlend: BLEND_ZERO, BlendOp: BLEND_OP_ADD,
			SrcBlendAlpha: BLEND_ONE, DestBlendAlpha: BLEND_ZERO, BlendOpAlpha: BLEND_OP_ADD,
			RenderTargetWriteMask: colorWriteMask(t.WriteMask),
		}
		if b := t.Blend; b != nil {
			rt.BlendEnable = true
			rt.SrcBlend, _ = blendFactor(b.Color.SrcFactor)
			rt.DestBlend, _ = blendFactor(b.Color.DstFactor)
			rt.BlendOp, _ = blendOp(b.Color.Operation)
			rt.SrcBlendAlpha, _ = blendFactor(b.Alpha.SrcFactor)
			rt.DestBlendAlpha, _ = blendFactor(b.Alpha.DstFactor)
			rt.BlendOpAlpha, _ = blendOp(b.Alpha.Operation)
		}
		out.RenderTarget[i] = rt
	}
	return out
}

// CreateVertexArray keeps the buffers; Direct3D binds them per draw.
func (d *Device) CreateVertexArray(desc *rhi.VertexArrayDesc) rhi.VertexArray {
	if desc == nil {
		return nil
	}
	for _, a := range desc.Attributes {
		if int(a.InputSlot) >= len(desc.VertexBuffers) || desc.VertexBuffers[a.InputSlot].Buffer == nil {
			d.warn("vertex attribute without buffer", "attribute", a.Name, "slot", a.InputSlot)
			return nil
		}
	}
	return native.NewVertexArray(0, desc, nil)
}

func (d *Device) CreateFramebuffer(color []rhi.Texture, depthStencil rhi.Texture) rhi.Framebuffer {
	for i, t := range color {
		if t != nil && d.viewsOf(t).rtv == 0 {
			d.warn("color attachment is not a render target", "index", i)
			return nil
		}
	}
	if depthStencil != nil && d.viewsOf(depthStencil).dsv == 0 {
		d.warn("depth attachment has no depth format")
		return nil
	}
	return native.NewFramebuffer(0, color, depthStencil, nil)
}

func (d *Device) CreateSwapChain(width, height uint32, format gputypes.TextureFormat) rhi.SwapChain {
	f, ok := textureFormat(format)
	if !ok || isDepthFormat(format) {
		d.warn("unsupported swap chain format", "format", format)
		return nil
	}
	sc := d.d3d.CreateSwapChain(width, height, f)
	if sc == 0 {
		d.warn("swap chain creation failed")
		return nil
	}
	h := native.Handle(sc)
	d.setViews(h, views{rtv: d.d3d.CreateRenderTargetView(sc, f)})
	return native.NewSwapChain(h, width, height, format, func() { d.d3d.Present(sc) }, func() { d.releaseViews(h, sc) })
}

// --------------------------------------------------------------------------
// Submission
// --------------------------------------------------------------------------

// Submit executes cb on the immediate context. Calls must not overlap.
func (d *Device) Submit(cb *rhi.CommandBuffer) {
	if cb == nil || cb.IsEmpty() {
		return
	}
	cb.Execute(&d.exec)
}

// Close unbinds everything the device holds.
func (d *Device) Close() {
	d.exec.reset()
	d.state.Reset()
}
