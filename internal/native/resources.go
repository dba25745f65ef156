// Package native holds the resource objects shared by backends whose native
// API identifies objects by integer handle.
//
// Each object embeds rhi.RefCounted and carries the native handle the backend
// assigned to it. The destroy callback passed to a constructor runs once, when
// the last reference is released, and is where a backend deletes the native
// object.
package native

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/rhi"
	"github.com/gogpu/rhi/internal/shader"
)

// Handle is a native object name. Zero is never a live object.
type Handle uint32

// --------------------------------------------------------------------------
// Buffers
// --------------------------------------------------------------------------

// Buffer implements every rhi buffer kind.
type Buffer struct {
	rhi.RefCounted
	Handle      Handle
	Usage       rhi.BufferUsage
	size        uint32
	indexFormat gputypes.IndexFormat
	format      gputypes.TextureFormat
}

// NewBuffer returns a buffer of the given kind owning handle.
func NewBuffer(kind rhi.ResourceType, h Handle, size uint32, usage rhi.BufferUsage, destroy func()) *Buffer {
	b := &Buffer{Handle: h, Usage: usage, size: size}
	b.InitRefCounted(kind, destroy)
	return b
}

// NewIndexBuffer returns an index buffer of the given format.
func NewIndexBuffer(h Handle, size uint32, format gputypes.IndexFormat, usage rhi.BufferUsage, destroy func()) *Buffer {
	b := NewBuffer(rhi.ResourceIndexBuffer, h, size, usage, destroy)
	b.indexFormat = format
	return b
}

// NewTextureBuffer returns a texture buffer of the given element format.
func NewTextureBuffer(h Handle, size uint32, format gputypes.TextureFormat, destroy func()) *Buffer {
	b := NewBuffer(rhi.ResourceTextureBuffer, h, size, rhi.BufferUsageStatic, destroy)
	b.format = format
	return b
}

func (b *Buffer) Size() uint32                      { return b.size }
func (b *Buffer) IndexFormat() gputypes.IndexFormat { return b.indexFormat }
func (b *Buffer) Format() gputypes.TextureFormat    { return b.format }

// --------------------------------------------------------------------------
// Textures and samplers
// --------------------------------------------------------------------------

// Texture implements rhi.Texture2D and rhi.Texture2DArray.
type Texture struct {
	rhi.RefCounted
	Handle        Handle
	width, height uint32
	layers        uint32
	format        gputypes.TextureFormat
}

// NewTexture returns a 2D texture, or a 2D array when layers is non-zero.
func NewTexture(h Handle, width, height, layers uint32, format gputypes.TextureFormat, destroy func()) *Texture {
	t := &Texture{Handle: h, width: width, height: height, layers: layers, format: format}
	kind := rhi.ResourceTexture2D
	if layers > 0 {
		kind = rhi.ResourceTexture2DArray
	}
	t.InitRefCounted(kind, destroy)
	return t
}

func (t *Texture) Width() uint32                  { return t.width }
func (t *Texture) Height() uint32                 { return t.height }
func (t *Texture) Layers() uint32                 { return t.layers }
func (t *Texture) Format() gputypes.TextureFormat { return t.format }

// Sampler implements rhi.SamplerState.
type Sampler struct {
	rhi.RefCounted
	Handle Handle
	desc   rhi.SamplerStateDesc
}

// NewSampler returns a sampler described by desc.
func NewSampler(h Handle, desc rhi.SamplerStateDesc, destroy func()) *Sampler {
	s := &Sampler{Handle: h, desc: desc}
	s.InitRefCounted(rhi.ResourceSamplerState, destroy)
	return s
}

func (s *Sampler) Desc() rhi.SamplerStateDesc { return s.desc }

// --------------------------------------------------------------------------
// Root signature, shaders and programs
// --------------------------------------------------------------------------

// RootSignature implements rhi.RootSignature over a private copy of its
// description.
type RootSignature struct {
	rhi.RefCounted
	desc *rhi.RootSignatureDesc
}

// NewRootSignature clones desc into a new root signature.
func NewRootSignature(desc *rhi.RootSignatureDesc, destroy func()) *RootSignature {
	rs := &RootSignature{desc: desc.Clone()}
	rs.InitRefCounted(rhi.ResourceRootSignature, destroy)
	return rs
}

func (rs *RootSignature) Desc() *rhi.RootSignatureDesc { return rs.desc }

// Shader implements rhi.Shader and keeps the reflection of its source.
type Shader struct {
	rhi.RefCounted
	Handle     Handle
	Reflection *shader.Reflection
	Source     string
	stage      rhi.ShaderStage
	entryPoint string
}

// NewShader returns a shader of stage running entryPoint.
func NewShader(h Handle, stage rhi.ShaderStage, entryPoint string, refl *shader.Reflection, destroy func()) *Shader {
	s := &Shader{Handle: h, Reflection: refl, stage: stage, entryPoint: entryPoint}
	s.InitRefCounted(stage.ResourceType(), destroy)
	return s
}

func (s *Shader) Stage() rhi.ShaderStage { return s.stage }
func (s *Shader) EntryPoint() string     { return s.entryPoint }

// Bindings returns the reflected bindings of the shader's module.
func (s *Shader) Bindings() []rhi.ShaderBinding {
	if s.Reflection == nil {
		return nil
	}
	return s.Reflection.Bindings()
}

// ProgramBindings merges the reflected bindings of shaders in stage order.
func ProgramBindings(shaders []rhi.Shader) []rhi.ShaderBinding {
	stages := make([][]rhi.ShaderBinding, 0, len(shaders))
	for _, s := range shaders {
		if ns, ok := s.(*Shader); ok {
			stages = append(stages, ns.Bindings())
		}
	}
	return shader.MergeBindings(stages...)
}

// Program implements rhi.Program.
type Program struct {
	rhi.ProgramBase
	Handle Handle
}

// NewProgram links shaders into a program owning handle.
func NewProgram(h Handle, shaders []rhi.Shader, destroy func()) *Program {
	p := &Program{Handle: h}
	p.InitProgramBase(shaders, ProgramBindings(shaders), destroy)
	return p
}

// --------------------------------------------------------------------------
// Pipeline state, vertex array and render targets
// --------------------------------------------------------------------------

// PipelineState implements rhi.PipelineState and keeps its description.
type PipelineState struct {
	rhi.PipelineStateBase
	Handle Handle
	Desc   rhi.PipelineStateDesc
}

// NewPipelineState returns a pipeline for desc. The caller has checked that
// desc names a program.
func NewPipelineState(h Handle, desc *rhi.PipelineStateDesc, destroy func()) *PipelineState {
	p := &PipelineState{Handle: h, Desc: *desc}
	p.Desc.VertexAttributes = append([]rhi.VertexAttribute(nil), desc.VertexAttributes...)
	p.Desc.ColorFormats = append([]gputypes.TextureFormat(nil), desc.ColorFormats...)
	p.Desc.Blend.Targets = append([]gputypes.ColorTargetState(nil), desc.Blend.Targets...)
	if desc.DepthStencil != nil {
		ds := *desc.DepthStencil
		p.Desc.DepthStencil = &ds
	}
	p.InitPipelineStateBase(desc, destroy)
	return p
}

// VertexArray implements rhi.VertexArray.
type VertexArray struct {
	rhi.VertexArrayBase
	Handle Handle
}

// NewVertexArray returns a vertex array holding the buffers of desc.
func NewVertexArray(h Handle, desc *rhi.VertexArrayDesc, destroy func()) *VertexArray {
	va := &VertexArray{Handle: h}
	va.InitVertexArrayBase(desc, destroy)
	return va
}

// Framebuffer implements rhi.Framebuffer.
type Framebuffer struct {
	rhi.FramebufferBase
	Handle Handle
}

// NewFramebuffer returns a framebuffer holding its attachments.
func NewFramebuffer(h Handle, color []rhi.Texture, depthStencil rhi.Texture, destroy func()) *Framebuffer {
	fb := &Framebuffer{Handle: h}
	fb.InitFramebufferBase(color, depthStencil, destroy)
	return fb
}

// SwapChain implements rhi.SwapChain. Present forwards to the backend.
type SwapChain struct {
	rhi.RefCounted
	Handle        Handle
	width, height uint32
	format        gputypes.TextureFormat
	present       func()
}

// NewSwapChain returns a swap chain whose Present calls present.
func NewSwapChain(h Handle, width, height uint32, format gputypes.TextureFormat, present, destroy func()) *SwapChain {
	sc := &SwapChain{Handle: h, width: width, height: height, format: format, present: present}
	sc.InitRefCounted(rhi.ResourceSwapChain, destroy)
	return sc
}

func (sc *SwapChain) Size() (width, height uint32)   { return sc.width, sc.height }
func (sc *SwapChain) Format() gputypes.TextureFormat { return sc.format }

// Present shows the back buffer.
func (sc *SwapChain) Present() {
	if sc.present != nil && !sc.Destroyed() {
		sc.present()
	}
}

// HandleOf returns the native handle of res, or zero when res is nil or not
// a native object.
func HandleOf(res rhi.Resource) Handle {
	switch r := res.(type) {
	case *Buffer:
		return r.Handle
	case *Texture:
		return r.Handle
	case *Sampler:
		return r.Handle
	case *Shader:
		return r.Handle
	case *Program:
		return r.Handle
	case *PipelineState:
		return r.Handle
	case *VertexArray:
		return r.Handle
	case *Framebuffer:
		return r.Handle
	case *SwapChain:
		return r.Handle
	default:
		return 0
	}
}
