package gl

// Native is the subset of OpenGL 4.x entry points the device issues. Object
// creation returns zero on failure. Calls are made from the goroutine that
// owns the context.
type Native interface {
	CreateBuffer() Buffer
	BufferData(buf Buffer, size uint32, data []byte, usage Enum)
	BufferSubData(buf Buffer, offset uint32, data []byte)
	DeleteBuffer(buf Buffer)

	CreateTexture(target Enum) Texture
	TexStorage(tex Texture, levels uint32, internalFormat Enum, width, height, layers uint32)
	TexSubImage(tex Texture, level uint32, format, typ Enum, width, height, layers uint32, data []byte)
	TexBuffer(tex Texture, internalFormat Enum, buf Buffer)
	DeleteTexture(tex Texture)

	CreateSampler() Sampler
	SamplerParameteri(s Sampler, pname Enum, param int32)
	SamplerParameterf(s Sampler, pname Enum, param float32)
	SamplerParameterfv(s Sampler, pname Enum, params []float32)
	DeleteSampler(s Sampler)

	// CompileShader creates and compiles a shader object. It returns zero
	// and the info log when compilation fails.
	CompileShader(typ Enum, source string) (Shader, string)
	DeleteShader(s Shader)

	CreateProgram() Program
	AttachShader(p Program, s Shader)
	BindAttribLocation(p Program, index uint32, name string)
	// LinkProgram links p. It returns false and the info log on failure.
	LinkProgram(p Program) (bool, string)
	GetUniformLocation(p Program, name string) Uniform
	GetUniformBlockIndex(p Program, name string) uint32
	UniformBlockBinding(p Program, block, binding uint32)
	ProgramUniform1i(p Program, loc Uniform, v int32)
	UseProgram(p Program)
	DeleteProgram(p Program)

	CreateVertexArray() VertexArray
	BindVertexArray(va VertexArray)
	BindBuffer(target Enum, buf Buffer)
	EnableVertexAttribArray(index uint32)
	VertexAttribPointer(index uint32, size int32, typ Enum, normalized bool, stride, offset uint32)
	VertexAttribDivisor(index, divisor uint32)
	DeleteVertexArray(va VertexArray)

	BindTextureUnit(unit uint32, tex Texture)
	BindSampler(unit uint32, s Sampler)
	BindBufferBase(target Enum, index uint32, buf Buffer)
	BindImageTexture(unit uint32, tex Texture, access, format Enum)

	CreateFramebuffer() Framebuffer
	FramebufferTexture(fb Framebuffer, attachment Enum, tex Texture)
	BindFramebuffer(fb Framebuffer)
	DeleteFramebuffer(fb Framebuffer)

	Enable(capability Enum)
	Disable(capability Enum)
	CullFace(mode Enum)
	FrontFace(mode Enum)
	PolygonMode(mode Enum)
	PolygonOffset(factor, units float32)
	DepthFunc(fn Enum)
	DepthMask(flag bool)
	StencilFuncSeparate(face, fn Enum, ref int32, mask uint32)
	StencilOpSeparate(face, sfail, dpfail, dppass Enum)
	StencilMask(mask uint32)
	BlendFuncSeparatei(buf uint32, srcRGB, dstRGB, srcAlpha, dstAlpha Enum)
	BlendEquationSeparatei(buf uint32, modeRGB, modeAlpha Enum)
	ColorMaski(buf uint32, r, g, b, a bool)

	ViewportIndexedf(index uint32, x, y, w, h float32)
	DepthRangeIndexed(index uint32, near, far float64)
	ScissorIndexed(index uint32, x, y, w, h int32)

	ClearColor(r, g, b, a float32)
	ClearDepthf(d float32)
	ClearStencil(s int32)
	Clear(mask Enum)

	DrawArraysInstancedBaseInstance(mode Enum, first, count, instances, baseInstance uint32)
	DrawElementsInstancedBaseVertexBaseInstance(mode Enum, count uint32, typ Enum, offset uintptr, instances uint32, baseVertex int32, baseInstance uint32)

	PushDebugGroup(message string)
	PopDebugGroup()
	DebugMessageInsert(message string)

	SwapBuffers()
}
