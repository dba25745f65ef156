// Package gl provides the "OpenGL" backend: name-based binding with coupled
// samplers.
//
// Descriptor ranges are resolved when a program is linked. With explicit
// binding locations the shader's own group and binding find the uniform;
// without them the range's fallback name is looked up. Either way the uniform
// is pointed at the unit internal/binding assigned to the range. Samplers have
// no name: a sampler table is bound to the texture units of every SRV range
// paired with it.
//
// Native calls go through the Native interface. When no Native is given the
// device counts and logs them in a trace.Recorder, which keeps the calls
// only when Config.Retain is set.
//
// Import it for its side effect:
//
//	import _ "github.com/gogpu/rhi/backend/gl"
package gl

import (
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/rhi"
	"github.com/gogpu/rhi/internal/binding"
	"github.com/gogpu/rhi/internal/native"
	"github.com/gogpu/rhi/internal/shader"
	"github.com/gogpu/rhi/internal/trace"
)

func init() {
	rhi.Register(rhi.BackendOpenGL, func(opts ...rhi.Option) rhi.Device {
		return New(Config{ExplicitBindingLocations: true}, opts...)
	})
}

// Config selects the native sink and the binding resolution mode.
type Config struct {
	// Native receives the OpenGL calls. Nil records into a trace.Recorder.
	Native Native
	// Retain makes the default recorder keep every call. Without it the
	// recorder only counts and logs them.
	Retain bool
	// ExplicitBindingLocations resolves ranges through the group and binding
	// the shaders declare instead of their fallback names.
	ExplicitBindingLocations bool
}

// signatureLayout is what the device derives from a root signature.
type signatureLayout struct {
	names  []binding.NamedBinding
	tables []binding.TableBinding
}

// Device is the OpenGL device.
type Device struct {
	opts  rhi.Options
	caps  rhi.Capabilities
	gl    Native
	state rhi.DrawState

	// mu guards the maps below. Resource creation is free-threaded.
	mu      sync.RWMutex
	layouts map[*native.RootSignature]*signatureLayout
	// texBuffers maps a texture buffer's storage to the texture viewing it.
	texBuffers map[native.Handle]Texture

	exec executor
}

// New returns an initialized OpenGL device.
func New(cfg Config, opts ...rhi.Option) *Device {
	o := rhi.ResolveOptions(opts...)
	n := cfg.Native
	if n == nil {
		rec := trace.NewCounter(rhi.BackendOpenGL, o.Log())
		if cfg.Retain {
			rec = trace.NewRecorder(rhi.BackendOpenGL, o.Log())
		}
		n = NewTraceNative(rec)
	}
	d := &Device{
		opts:       o,
		gl:         n,
		layouts:    make(map[*native.RootSignature]*signatureLayout),
		texBuffers: make(map[native.Handle]Texture),
	}
	d.exec.dev = d
	d.caps = rhi.Capabilities{
		DeviceName:               "OpenGL 4.6",
		Adapter:                  gpucontext.AdapterInfo{Name: "OpenGL", Type: o.AdapterType},
		BindingModel:             rhi.BindingModelName,
		ExplicitBindingLocations: cfg.ExplicitBindingLocations,
		IndividualUniforms:       true,
		InstancedArrays:          true,
		DrawInstanced:            true,
		BaseVertex:               true,
		TessellationShaders:      true,
		GeometryShader:           true,
	}
	d.caps.ApplyLimits(o.Limits)
	o.Log().Info("rhi: device initialized", "backend", rhi.BackendOpenGL,
		"label", o.Label, "explicitLocations", cfg.ExplicitBindingLocations)
	return d
}

// Native returns the native sink.
func (d *Device) Native() Native { return d.gl }

// Recorder returns the trace recorder when the device records into one.
func (d *Device) Recorder() *trace.Recorder {
	if t, ok := d.gl.(*TraceNative); ok {
		return t.Recorder()
	}
	return nil
}

func (d *Device) Name() string                    { return rhi.BackendOpenGL }
func (d *Device) Initialized() bool               { return true }
func (d *Device) Capabilities() *rhi.Capabilities { return &d.caps }

func (d *Device) warn(msg string, args ...any) {
	d.opts.Log().Warn("rhi: "+msg, append([]any{"backend", rhi.BackendOpenGL}, args...)...)
}

// --------------------------------------------------------------------------
// Root signature and buffers
// --------------------------------------------------------------------------

func (d *Device) CreateRootSignature(desc *rhi.RootSignatureDesc) rhi.RootSignature {
	if !rhi.ValidateForDevice(desc, d.opts, true) {
		return nil
	}
	var rs *native.RootSignature
	rs = native.NewRootSignature(desc, func() {
		d.mu.Lock()
		delete(d.layouts, rs)
		d.mu.Unlock()
	})
	l := &signatureLayout{
		names:  binding.NameLayout(rs.Desc()),
		tables: binding.TableLayout(rs.Desc()),
	}
	d.mu.Lock()
	d.layouts[rs] = l
	d.mu.Unlock()
	return rs
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

// textureOf returns the texture viewing the texture buffer storage h.
func (d *Device) textureOf(h native.Handle) Texture {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.texBuffers[h]
}

func (d *Device) createBuffer(size uint32, data []byte, usage rhi.BufferUsage) (Buffer, func()) {
	b := d.gl.CreateBuffer()
	if b == 0 {
		return 0, nil
	}
	d.gl.BufferData(b, size, data, bufferUsage(usage))
	return b, func() { d.gl.DeleteBuffer(b) }
}

func (d *Device) CreateVertexBuffer(size uint32, data []byte, usage rhi.BufferUsage) rhi.VertexBuffer {
	b, destroy := d.createBuffer(size, data, usage)
	if b == 0 {
		d.warn("buffer creation failed", "kind", rhi.ResourceVertexBuffer)
		return nil
	}
	return native.NewBuffer(rhi.ResourceVertexBuffer, native.Handle(b), size, usage, destroy)
}

func (d *Device) CreateIndexBuffer(size uint32, format gputypes.IndexFormat, data []byte, usage rhi.BufferUsage) rhi.IndexBuffer {
	if _, _, ok := indexType(format); !ok {
		d.warn("unsupported index format", "format", format)
		return nil
	}
	b, destroy := d.createBuffer(size, data, usage)
	if b == 0 {
		d.warn("buffer creation failed", "kind", rhi.ResourceIndexBuffer)
		return nil
	}
	return native.NewIndexBuffer(native.Handle(b), size, format, usage, destroy)
}

func (d *Device) CreateUniformBuffer(size uint32, data []byte, usage rhi.BufferUsage) rhi.UniformBuffer {
	b, destroy := d.createBuffer(size, data, usage)
	if b == 0 {
		d.warn("buffer creation failed", "kind", rhi.ResourceUniformBuffer)
		return nil
	}
	return native.NewBuffer(rhi.ResourceUniformBuffer, native.Handle(b), size, usage, destroy)
}

func (d *Device) CreateTextureBuffer(size uint32, format gputypes.TextureFormat, data []byte) rhi.TextureBuffer {
	tf, ok := convertTextureFormat(format)
	if !ok {
		d.warn("unsupported texture buffer format", "format", format)
		return nil
	}
	b, deleteBuffer := d.createBuffer(size, data, rhi.BufferUsageStatic)
	if b == 0 {
		d.warn("buffer creation failed", "kind", rhi.ResourceTextureBuffer)
		return nil
	}
	tex := d.gl.CreateTexture(TEXTURE_BUFFER)
	d.gl.TexBuffer(tex, tf.internal, b)
	h := native.Handle(b)
	d.mu.Lock()
	d.texBuffers[h] = tex
	d.mu.Unlock()
	return native.NewTextureBuffer(h, size, format, func() {
		d.mu.Lock()
		delete(d.texBuffers, h)
		d.mu.Unlock()
		d.gl.DeleteTexture(tex)
		deleteBuffer()
	})
}

// --------------------------------------------------------------------------
// Textures and samplers
// --------------------------------------------------------------------------

func (d *Device) createTexture(target Enum, width, height, layers, levels uint32, format gputypes.TextureFormat, data []byte) (Texture, bool) {
	tf, ok := convertTextureFormat(format)
	if !ok || width == 0 || height == 0 {
		d.warn("texture creation failed", "format", format, "width", width, "height", height)
		return 0, false
	}
	tex := d.gl.CreateTexture(target)
	if tex == 0 {
		d.warn("texture creation failed", "format", format)
		return 0, false
	}
	d.gl.TexStorage(tex, max(levels, 1), tf.internal, width, height, layers)
	if len(data) > 0 {
		d.gl.TexSubImage(tex, 0, tf.format, tf.typ, width, height, layers, data)
	}
	return tex, true
}

func (d *Device) CreateTexture2D(desc *rhi.Texture2DDesc) rhi.Texture2D {
	if desc == nil {
		return nil
	}
	tex, ok := d.createTexture(TEXTURE_2D, desc.Width, desc.Height, 0, desc.MipLevels, desc.Format, desc.Data)
	if !ok {
		return nil
	}
	return native.NewTexture(native.Handle(tex), desc.Width, desc.Height, 0, desc.Format, func() { d.gl.DeleteTexture(tex) })
}

func (d *Device) CreateTexture2DArray(desc *rhi.Texture2DArrayDesc) rhi.Texture2DArray {
	if desc == nil {
		return nil
	}
	layers := max(desc.Layers, 1)
	tex, ok := d.createTexture(TEXTURE_2D_ARRAY, desc.Width, desc.Height, layers, 1, desc.Format, desc.Data)
	if !ok {
		return nil
	}
	return native.NewTexture(native.Handle(tex), desc.Width, desc.Height, layers, desc.Format, func() { d.gl.DeleteTexture(tex) })
}

func (d *Device) CreateSamplerState(desc *rhi.SamplerStateDesc) rhi.SamplerState {
	if desc == nil {
		return nil
	}
	s := d.gl.CreateSampler()
	if s == 0 {
		d.warn("sampler creation failed")
		return nil
	}
	minf, _ := minFilter(desc.MinFilter, desc.MipmapFilter)
	magf, _ := magFilter(desc.MagFilter)
	wrapS, _ := addressMode(desc.AddressModeU)
	wrapT, _ := addressMode(desc.AddressModeV)
	wrapR, _ := addressMode(desc.AddressModeW)
	d.gl.SamplerParameteri(s, TEXTURE_MIN_FILTER, int32(minf))
	d.gl.SamplerParameteri(s, TEXTURE_MAG_FILTER, int32(magf))
	d.gl.SamplerParameteri(s, TEXTURE_WRAP_S, int32(wrapS))
	d.gl.SamplerParameteri(s, TEXTURE_WRAP_T, int32(wrapT))
	d.gl.SamplerParameteri(s, TEXTURE_WRAP_R, int32(wrapR))
	d.gl.SamplerParameterf(s, TEXTURE_MIN_LOD, desc.LodMinClamp)
	d.gl.SamplerParameterf(s, TEXTURE_MAX_LOD, desc.LodMaxClamp)
	if desc.MipLODBias != 0 {
		d.gl.SamplerParameterf(s, TEXTURE_LOD_BIAS, desc.MipLODBias)
	}
	if desc.BorderColor != [4]float32{} {
		d.gl.SamplerParameterfv(s, TEXTURE_BORDER_COLOR, desc.BorderColor[:])
	}
	if desc.MaxAnisotropy > 1 {
		d.gl.SamplerParameterf(s, TEXTURE_MAX_ANISOTROPY, float32(desc.MaxAnisotropy))
	}
	if fn, ok := compareFunc(desc.Compare); ok {
		d.gl.SamplerParameteri(s, TEXTURE_COMPARE_MODE, int32(COMPARE_REF_TO_TEXTURE))
		d.gl.SamplerParameteri(s, TEXTURE_COMPARE_FUNC, int32(fn))
	}
	return native.NewSampler(native.Handle(s), *desc, func() { d.gl.DeleteSampler(s) })
}

// --------------------------------------------------------------------------
// Shaders and programs
// --------------------------------------------------------------------------

func (d *Device) CreateShader(stage rhi.ShaderStage, src rhi.ShaderSource) rhi.Shader {
	typ, ok := shaderType(stage)
	if !ok || !d.caps.StageSupported(stage) {
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
	h, info := d.gl.CompileShader(typ, src.WGSL)
	if h == 0 {
		d.warn("shader compilation failed", "stage", stage, "log", info)
		return nil
	}
	s := native.NewShader(native.Handle(h), stage, ep.Name, refl, func() { d.gl.DeleteShader(h) })
	s.Source = src.WGSL
	return s
}

func (d *Device) CreateProgram(rs rhi.RootSignature, attrs []rhi.VertexAttribute, shaders ...rhi.Shader) rhi.Program {
	if len(shaders) == 0 {
		d.warn("program without shaders")
		return nil
	}
	p := d.gl.CreateProgram()
	if p == 0 {
		d.warn("program creation failed")
		return nil
	}
	for _, s := range shaders {
		d.gl.AttachShader(p, Shader(native.HandleOf(s)))
	}
	for _, a := range attrs {
		if a.Name != "" {
			d.gl.BindAttribLocation(p, a.ShaderLocation, a.Name)
		}
	}
	if ok, info := d.gl.LinkProgram(p); !ok {
		d.warn("program link failed", "log", info)
		d.gl.DeleteProgram(p)
		return nil
	}

	prog := native.NewProgram(native.Handle(p), shaders, func() { d.gl.DeleteProgram(p) })
	if l := d.layoutOf(rs); l != nil {
		d.assignUnits(p, l, prog.Bindings())
	} else {
		d.warn("program linked without a root signature")
	}
	return prog
}

// assignUnits points every named range's uniform at its unit.
func (d *Device) assignUnits(p Program, layout *signatureLayout, bindings []rhi.ShaderBinding) {
	for _, nb := range layout.names {
		if nb.Kind == binding.UnitSampler {
			continue
		}
		name := d.resolveName(nb, layout, bindings)
		if name == "" {
			d.warn("descriptor range has no name", "parameter", nb.Parameter, "range", nb.Range)
			continue
		}
		if nb.Kind == binding.UnitUniformBlock {
			block := d.gl.GetUniformBlockIndex(p, name)
			if block == InvalidIndex {
				d.warn("uniform block not found", "name", name)
				continue
			}
			d.gl.UniformBlockBinding(p, block, nb.Unit)
			continue
		}
		loc := d.gl.GetUniformLocation(p, name)
		if loc < 0 {
			d.warn("uniform not found", "name", name)
			continue
		}
		d.gl.ProgramUniform1i(p, loc, int32(nb.Unit))
	}
}

// resolveName returns the shader name a range binds to.
func (d *Device) resolveName(nb binding.NamedBinding, layout *signatureLayout, bindings []rhi.ShaderBinding) string {
	if !d.caps.ExplicitBindingLocations {
		return nb.Name
	}
	for _, tb := range layout.tables {
		if tb.Parameter == nb.Parameter && tb.Range == nb.Range {
			if sb, ok := rhi.FindBindingByLocation(bindings, tb.Parameter, tb.Binding); ok {
				return sb.Name
			}
			break
		}
	}
	return nb.Name
}

// --------------------------------------------------------------------------
// Pipeline state, vertex arrays and render targets
// --------------------------------------------------------------------------

func (d *Device) CreatePipelineState(desc *rhi.PipelineStateDesc) rhi.PipelineState {
	if desc == nil || desc.Program == nil {
		d.warn("pipeline state without program")
		return nil
	}
	return native.NewPipelineState(0, desc, nil)
}

func (d *Device) CreateVertexArray(desc *rhi.VertexArrayDesc) rhi.VertexArray {
	if desc == nil {
		return nil
	}
	va := d.gl.CreateVertexArray()
	if va == 0 {
		d.warn("vertex array creation failed")
		return nil
	}
	d.gl.BindVertexArray(va)
	for _, a := range desc.Attributes {
		if int(a.InputSlot) >= len(desc.VertexBuffers) || desc.VertexBuffers[a.InputSlot].Buffer == nil {
			d.warn("vertex attribute without buffer", "attribute", a.Name, "slot", a.InputSlot)
			continue
		}
		vf, ok := convertVertexFormat(a.Format)
		if !ok {
			d.warn("unsupported vertex format", "attribute", a.Name, "format", a.Format)
			continue
		}
		vb := desc.VertexBuffers[a.InputSlot]
		stride := a.Stride
		if vb.Stride != 0 {
			stride = vb.Stride
		}
		d.gl.BindBuffer(ARRAY_BUFFER, Buffer(native.HandleOf(vb.Buffer)))
		d.gl.EnableVertexAttribArray(a.ShaderLocation)
		d.gl.VertexAttribPointer(a.ShaderLocation, vf.size, vf.typ, vf.normalized, stride, vb.Offset+a.AlignedByteOffset)
		if a.InstancesPerElement > 0 {
			d.gl.VertexAttribDivisor(a.ShaderLocation, a.InstancesPerElement)
		}
	}
	if desc.IndexBuffer != nil {
		d.gl.BindBuffer(ELEMENT_ARRAY_BUFFER, Buffer(native.HandleOf(desc.IndexBuffer)))
	}
	d.gl.BindVertexArray(0)
	return native.NewVertexArray(native.Handle(va), desc, func() { d.gl.DeleteVertexArray(va) })
}

func (d *Device) CreateFramebuffer(color []rhi.Texture, depthStencil rhi.Texture) rhi.Framebuffer {
	fb := d.gl.CreateFramebuffer()
	if fb == 0 {
		d.warn("framebuffer creation failed")
		return nil
	}
	for i, t := range color {
		if t != nil {
			d.gl.FramebufferTexture(fb, COLOR_ATTACHMENT0+Enum(i), Texture(native.HandleOf(t)))
		}
	}
	if depthStencil != nil {
		attachment := DEPTH_ATTACHMENT
		if depthStencil.Format() == gputypes.TextureFormatDepth24PlusStencil8 {
			attachment = DEPTH_STENCIL_ATTACHMENT
		}
		d.gl.FramebufferTexture(fb, attachment, Texture(native.HandleOf(depthStencil)))
	}
	return native.NewFramebuffer(native.Handle(fb), color, depthStencil, func() { d.gl.DeleteFramebuffer(fb) })
}

func (d *Device) CreateSwapChain(width, height uint32, format gputypes.TextureFormat) rhi.SwapChain {
	if _, ok := convertTextureFormat(format); !ok || isDepthFormat(format) {
		d.warn("unsupported swap chain format", "format", format)
		return nil
	}
	return native.NewSwapChain(0, width, height, format, d.gl.SwapBuffers, nil)
}

// --------------------------------------------------------------------------
// Submission
// --------------------------------------------------------------------------

// Submit executes cb. It must be called on the goroutine owning the context.
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
