package gl

import (
	"slices"
	"sync"

	"github.com/gogpu/rhi"
	"github.com/gogpu/rhi/internal/shader"
	"github.com/gogpu/rhi/internal/trace"
)

// TraceNative is a Native that records every call into a trace.Recorder.
//
// It stands in for a driver. Shader objects are compiled by reflecting their
// WGSL source, and LinkProgram assigns uniform locations and block indices
// to the resource globals of the attached shaders in declaration order, so
// name lookups behave as they would against a real linker.
type TraceNative struct {
	rec *trace.Recorder

	mu       sync.Mutex
	shaders  map[Shader]*shader.Reflection
	programs map[Program]*traceProgram
}

type traceProgram struct {
	shaders  []Shader
	linked   bool
	uniforms map[string]Uniform
	blocks   map[string]uint32
}

// NewTraceNative returns a Native recording into rec.
func NewTraceNative(rec *trace.Recorder) *TraceNative {
	return &TraceNative{
		rec:      rec,
		shaders:  make(map[Shader]*shader.Reflection),
		programs: make(map[Program]*traceProgram),
	}
}

// Recorder returns the recorder calls go to.
func (n *TraceNative) Recorder() *trace.Recorder { return n.rec }

func (n *TraceNative) CreateBuffer() Buffer {
	b := Buffer(n.rec.NewHandle())
	n.rec.Record("glCreateBuffers", b)
	return b
}

func (n *TraceNative) BufferData(buf Buffer, size uint32, data []byte, usage Enum) {
	n.rec.Record("glNamedBufferData", buf, size, len(data), usage)
}

func (n *TraceNative) BufferSubData(buf Buffer, offset uint32, data []byte) {
	n.rec.Record("glNamedBufferSubData", buf, offset, len(data))
}

func (n *TraceNative) DeleteBuffer(buf Buffer) { n.rec.Record("glDeleteBuffers", buf) }

func (n *TraceNative) CreateTexture(target Enum) Texture {
	t := Texture(n.rec.NewHandle())
	n.rec.Record("glCreateTextures", target, t)
	return t
}

func (n *TraceNative) TexStorage(tex Texture, levels uint32, internalFormat Enum, width, height, layers uint32) {
	if layers > 0 {
		n.rec.Record("glTextureStorage3D", tex, levels, internalFormat, width, height, layers)
		return
	}
	n.rec.Record("glTextureStorage2D", tex, levels, internalFormat, width, height)
}

func (n *TraceNative) TexSubImage(tex Texture, level uint32, format, typ Enum, width, height, layers uint32, data []byte) {
	if layers > 0 {
		n.rec.Record("glTextureSubImage3D", tex, level, width, height, layers, format, typ, len(data))
		return
	}
	n.rec.Record("glTextureSubImage2D", tex, level, width, height, format, typ, len(data))
}

func (n *TraceNative) TexBuffer(tex Texture, internalFormat Enum, buf Buffer) {
	n.rec.Record("glTextureBuffer", tex, internalFormat, buf)
}

func (n *TraceNative) DeleteTexture(tex Texture) { n.rec.Record("glDeleteTextures", tex) }

func (n *TraceNative) CreateSampler() Sampler {
	s := Sampler(n.rec.NewHandle())
	n.rec.Record("glCreateSamplers", s)
	return s
}

func (n *TraceNative) SamplerParameteri(s Sampler, pname Enum, param int32) {
	n.rec.Record("glSamplerParameteri", s, pname, param)
}

func (n *TraceNative) SamplerParameterf(s Sampler, pname Enum, param float32) {
	n.rec.Record("glSamplerParameterf", s, pname, param)
}

func (n *TraceNative) SamplerParameterfv(s Sampler, pname Enum, params []float32) {
	n.rec.Record("glSamplerParameterfv", s, pname, params)
}

func (n *TraceNative) DeleteSampler(s Sampler) { n.rec.Record("glDeleteSamplers", s) }

func (n *TraceNative) CompileShader(typ Enum, source string) (Shader, string) {
	refl, err := shader.Reflect(source)
	if err != nil {
		n.rec.Record("glCompileShader", typ, 0)
		return 0, err.Error()
	}
	s := Shader(n.rec.NewHandle())
	n.mu.Lock()
	n.shaders[s] = refl
	n.mu.Unlock()
	n.rec.Record("glCompileShader", typ, s)
	return s, ""
}

func (n *TraceNative) DeleteShader(s Shader) {
	n.mu.Lock()
	delete(n.shaders, s)
	n.mu.Unlock()
	n.rec.Record("glDeleteShader", s)
}

func (n *TraceNative) CreateProgram() Program {
	p := Program(n.rec.NewHandle())
	n.mu.Lock()
	n.programs[p] = &traceProgram{}
	n.mu.Unlock()
	n.rec.Record("glCreateProgram", p)
	return p
}

func (n *TraceNative) AttachShader(p Program, s Shader) {
	n.mu.Lock()
	if tp := n.programs[p]; tp != nil {
		tp.shaders = append(tp.shaders, s)
	}
	n.mu.Unlock()
	n.rec.Record("glAttachShader", p, s)
}

func (n *TraceNative) BindAttribLocation(p Program, index uint32, name string) {
	n.rec.Record("glBindAttribLocation", p, index, name)
}

func (n *TraceNative) LinkProgram(p Program) (bool, string) {
	n.rec.Record("glLinkProgram", p)
	n.mu.Lock()
	defer n.mu.Unlock()
	tp := n.programs[p]
	if tp == nil {
		return false, "unknown program"
	}
	tp.uniforms = make(map[string]Uniform)
	tp.blocks = make(map[string]uint32)
	var nextLoc Uniform
	var nextBlock uint32
	for _, s := range tp.shaders {
		refl := n.shaders[s]
		if refl == nil {
			return false, "attached shader is not compiled"
		}
		for _, g := range refl.Globals {
			switch g.Kind {
			case rhi.BindingUniformBuffer, rhi.BindingStorageBuffer:
				if _, ok := tp.blocks[g.Name]; !ok {
					tp.blocks[g.Name] = nextBlock
					nextBlock++
				}
			default:
				if _, ok := tp.uniforms[g.Name]; !ok {
					tp.uniforms[g.Name] = nextLoc
					nextLoc++
				}
			}
		}
	}
	tp.linked = true
	return true, ""
}

func (n *TraceNative) GetUniformLocation(p Program, name string) Uniform {
	loc := Uniform(-1)
	n.mu.Lock()
	if tp := n.programs[p]; tp != nil && tp.linked {
		if l, ok := tp.uniforms[name]; ok {
			loc = l
		}
	}
	n.mu.Unlock()
	n.rec.Record("glGetUniformLocation", p, name)
	return loc
}

func (n *TraceNative) GetUniformBlockIndex(p Program, name string) uint32 {
	idx := InvalidIndex
	n.mu.Lock()
	if tp := n.programs[p]; tp != nil && tp.linked {
		if i, ok := tp.blocks[name]; ok {
			idx = i
		}
	}
	n.mu.Unlock()
	n.rec.Record("glGetUniformBlockIndex", p, name)
	return idx
}

func (n *TraceNative) UniformBlockBinding(p Program, block, binding uint32) {
	n.rec.Record("glUniformBlockBinding", p, block, binding)
}

func (n *TraceNative) ProgramUniform1i(p Program, loc Uniform, v int32) {
	n.rec.Record("glProgramUniform1i", p, loc, v)
}

func (n *TraceNative) UseProgram(p Program) { n.rec.Record("glUseProgram", p) }

func (n *TraceNative) DeleteProgram(p Program) {
	n.mu.Lock()
	delete(n.programs, p)
	n.mu.Unlock()
	n.rec.Record("glDeleteProgram", p)
}

// UniformNames returns the uniform names the linker assigned locations to,
// sorted.
func (n *TraceNative) UniformNames(p Program) []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	tp := n.programs[p]
	if tp == nil {
		return nil
	}
	names := make([]string, 0, len(tp.uniforms)+len(tp.blocks))
	for name := range tp.uniforms {
		names = append(names, name)
	}
	for name := range tp.blocks {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (n *TraceNative) CreateVertexArray() VertexArray {
	va := VertexArray(n.rec.NewHandle())
	n.rec.Record("glCreateVertexArrays", va)
	return va
}

func (n *TraceNative) BindVertexArray(va VertexArray) { n.rec.Record("glBindVertexArray", va) }

func (n *TraceNative) BindBuffer(target Enum, buf Buffer) {
	n.rec.Record("glBindBuffer", target, buf)
}

func (n *TraceNative) EnableVertexAttribArray(index uint32) {
	n.rec.Record("glEnableVertexAttribArray", index)
}

func (n *TraceNative) VertexAttribPointer(index uint32, size int32, typ Enum, normalized bool, stride, offset uint32) {
	n.rec.Record("glVertexAttribPointer", index, size, typ, normalized, stride, offset)
}

func (n *TraceNative) VertexAttribDivisor(index, divisor uint32) {
	n.rec.Record("glVertexAttribDivisor", index, divisor)
}

func (n *TraceNative) DeleteVertexArray(va VertexArray) { n.rec.Record("glDeleteVertexArrays", va) }

func (n *TraceNative) BindTextureUnit(unit uint32, tex Texture) {
	n.rec.Record("glBindTextureUnit", unit, tex)
}

func (n *TraceNative) BindSampler(unit uint32, s Sampler) { n.rec.Record("glBindSampler", unit, s) }

func (n *TraceNative) BindBufferBase(target Enum, index uint32, buf Buffer) {
	n.rec.Record("glBindBufferBase", target, index, buf)
}

func (n *TraceNative) BindImageTexture(unit uint32, tex Texture, access, format Enum) {
	n.rec.Record("glBindImageTexture", unit, tex, access, format)
}

func (n *TraceNative) CreateFramebuffer() Framebuffer {
	fb := Framebuffer(n.rec.NewHandle())
	n.rec.Record("glCreateFramebuffers", fb)
	return fb
}

func (n *TraceNative) FramebufferTexture(fb Framebuffer, attachment Enum, tex Texture) {
	n.rec.Record("glNamedFramebufferTexture", fb, attachment, tex)
}

func (n *TraceNative) BindFramebuffer(fb Framebuffer) { n.rec.Record("glBindFramebuffer", fb) }

func (n *TraceNative) DeleteFramebuffer(fb Framebuffer) {
	n.rec.Record("glDeleteFramebuffers", fb)
}

func (n *TraceNative) Enable(c Enum)           { n.rec.Record("glEnable", c) }
func (n *TraceNative) Disable(c Enum)          { n.rec.Record("glDisable", c) }
func (n *TraceNative) CullFace(mode Enum)      { n.rec.Record("glCullFace", mode) }
func (n *TraceNative) FrontFace(mode Enum)     { n.rec.Record("glFrontFace", mode) }
func (n *TraceNative) PolygonMode(mode Enum)   { n.rec.Record("glPolygonMode", FRONT_AND_BACK, mode) }
func (n *TraceNative) DepthFunc(fn Enum)       { n.rec.Record("glDepthFunc", fn) }
func (n *TraceNative) DepthMask(flag bool)     { n.rec.Record("glDepthMask", flag) }
func (n *TraceNative) StencilMask(mask uint32) { n.rec.Record("glStencilMask", mask) }

func (n *TraceNative) PolygonOffset(factor, units float32) {
	n.rec.Record("glPolygonOffset", factor, units)
}

func (n *TraceNative) StencilFuncSeparate(face, fn Enum, ref int32, mask uint32) {
	n.rec.Record("glStencilFuncSeparate", face, fn, ref, mask)
}

func (n *TraceNative) StencilOpSeparate(face, sfail, dpfail, dppass Enum) {
	n.rec.Record("glStencilOpSeparate", face, sfail, dpfail, dppass)
}

func (n *TraceNative) BlendFuncSeparatei(buf uint32, srcRGB, dstRGB, srcAlpha, dstAlpha Enum) {
	n.rec.Record("glBlendFuncSeparatei", buf, srcRGB, dstRGB, srcAlpha, dstAlpha)
}

func (n *TraceNative) BlendEquationSeparatei(buf uint32, modeRGB, modeAlpha Enum) {
	n.rec.Record("glBlendEquationSeparatei", buf, modeRGB, modeAlpha)
}

func (n *TraceNative) ColorMaski(buf uint32, r, g, b, a bool) {
	n.rec.Record("glColorMaski", buf, r, g, b, a)
}

func (n *TraceNative) ViewportIndexedf(index uint32, x, y, w, h float32) {
	n.rec.Record("glViewportIndexedf", index, x, y, w, h)
}

func (n *TraceNative) DepthRangeIndexed(index uint32, near, far float64) {
	n.rec.Record("glDepthRangeIndexed", index, near, far)
}

func (n *TraceNative) ScissorIndexed(index uint32, x, y, w, h int32) {
	n.rec.Record("glScissorIndexed", index, x, y, w, h)
}

func (n *TraceNative) ClearColor(r, g, b, a float32) { n.rec.Record("glClearColor", r, g, b, a) }
func (n *TraceNative) ClearDepthf(d float32)         { n.rec.Record("glClearDepthf", d) }
func (n *TraceNative) ClearStencil(s int32)          { n.rec.Record("glClearStencil", s) }
func (n *TraceNative) Clear(mask Enum)               { n.rec.Record("glClear", mask) }

func (n *TraceNative) DrawArraysInstancedBaseInstance(mode Enum, first, count, instances, baseInstance uint32) {
	n.rec.Record("glDrawArraysInstancedBaseInstance", mode, first, count, instances, baseInstance)
}

func (n *TraceNative) DrawElementsInstancedBaseVertexBaseInstance(mode Enum, count uint32, typ Enum, offset uintptr, instances uint32, baseVertex int32, baseInstance uint32) {
	n.rec.Record("glDrawElementsInstancedBaseVertexBaseInstance", mode, count, typ, offset, instances, baseVertex, baseInstance)
}

func (n *TraceNative) PushDebugGroup(message string) {
	n.rec.Record("glPushDebugGroup", DEBUG_SOURCE_APPLICATION, message)
}

func (n *TraceNative) PopDebugGroup() { n.rec.Record("glPopDebugGroup") }

func (n *TraceNative) DebugMessageInsert(message string) {
	n.rec.Record("glDebugMessageInsert", DEBUG_SOURCE_APPLICATION, DEBUG_TYPE_MARKER, message)
}

func (n *TraceNative) SwapBuffers() { n.rec.Record("SwapBuffers") }
