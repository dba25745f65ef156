package rhi

import "github.com/gogpu/gputypes"

// Device creates resources and executes command buffers on one backend.
//
// A device must be checked with Initialized before any other call. Calls on
// an uninitialized device are forbidden. Create methods never return typed
// nil pointers: a failed creation yields a nil interface and a Warn log
// entry. Creation is all-or-nothing.
//
// Device methods other than resource creation are not safe for concurrent
// use. Submit must be called on the goroutine that owns the native context.
type Device interface {
	// Name returns the backend name the device was created with.
	Name() string

	// Initialized reports whether the backend came up successfully.
	Initialized() bool

	// Capabilities returns the capability set filled at initialization.
	Capabilities() *Capabilities

	CreateRootSignature(desc *RootSignatureDesc) RootSignature
	CreateVertexBuffer(size uint32, data []byte, usage BufferUsage) VertexBuffer
	CreateIndexBuffer(size uint32, format gputypes.IndexFormat, data []byte, usage BufferUsage) IndexBuffer
	CreateUniformBuffer(size uint32, data []byte, usage BufferUsage) UniformBuffer
	CreateTextureBuffer(size uint32, format gputypes.TextureFormat, data []byte) TextureBuffer
	CreateTexture2D(desc *Texture2DDesc) Texture2D
	CreateTexture2DArray(desc *Texture2DArrayDesc) Texture2DArray
	CreateSamplerState(desc *SamplerStateDesc) SamplerState
	CreateShader(stage ShaderStage, src ShaderSource) Shader

	// CreateProgram links shaders against a root signature. Vertex attributes
	// are used by name-based backends to assign attribute locations.
	CreateProgram(rs RootSignature, attrs []VertexAttribute, shaders ...Shader) Program

	// CreatePipelineState returns nil when desc has no program.
	CreatePipelineState(desc *PipelineStateDesc) PipelineState
	CreateVertexArray(desc *VertexArrayDesc) VertexArray
	CreateFramebuffer(color []Texture, depthStencil Texture) Framebuffer
	CreateSwapChain(width, height uint32, format gputypes.TextureFormat) SwapChain

	// Submit executes cb. An empty buffer is a no-op.
	Submit(cb *CommandBuffer)

	// Close releases native objects. The device is unusable afterwards.
	Close()
}

// uninitializedDevice is returned by NewDevice for unknown backends.
// Every method is an inert no-op.
type uninitializedDevice struct {
	name string
	caps Capabilities
}

func (d *uninitializedDevice) Name() string                { return d.name }
func (d *uninitializedDevice) Initialized() bool           { return false }
func (d *uninitializedDevice) Capabilities() *Capabilities { return &d.caps }
func (d *uninitializedDevice) CreateRootSignature(*RootSignatureDesc) RootSignature {
	return nil
}

func (d *uninitializedDevice) CreateVertexBuffer(uint32, []byte, BufferUsage) VertexBuffer {
	return nil
}

func (d *uninitializedDevice) CreateIndexBuffer(uint32, gputypes.IndexFormat, []byte, BufferUsage) IndexBuffer {
	return nil
}

func (d *uninitializedDevice) CreateUniformBuffer(uint32, []byte, BufferUsage) UniformBuffer {
	return nil
}

func (d *uninitializedDevice) CreateTextureBuffer(uint32, gputypes.TextureFormat, []byte) TextureBuffer {
	return nil
}

func (d *uninitializedDevice) CreateTexture2D(*Texture2DDesc) Texture2D { return nil }
func (d *uninitializedDevice) CreateTexture2DArray(*Texture2DArrayDesc) Texture2DArray {
	return nil
}
func (d *uninitializedDevice) CreateSamplerState(*SamplerStateDesc) SamplerState { return nil }
func (d *uninitializedDevice) CreateShader(ShaderStage, ShaderSource) Shader     { return nil }
func (d *uninitializedDevice) CreateProgram(RootSignature, []VertexAttribute, ...Shader) Program {
	return nil
}

func (d *uninitializedDevice) CreatePipelineState(*PipelineStateDesc) PipelineState {
	return nil
}
func (d *uninitializedDevice) CreateVertexArray(*VertexArrayDesc) VertexArray { return nil }
func (d *uninitializedDevice) CreateFramebuffer([]Texture, Texture) Framebuffer {
	return nil
}

func (d *uninitializedDevice) CreateSwapChain(uint32, uint32, gputypes.TextureFormat) SwapChain {
	return nil
}
func (d *uninitializedDevice) Submit(*CommandBuffer) {}
func (d *uninitializedDevice) Close()                {}
