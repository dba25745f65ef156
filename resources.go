package rhi

import "github.com/gogpu/gputypes"

// --------------------------------------------------------------------------
// Buffers
// --------------------------------------------------------------------------

// BufferUsage hints how often buffer contents change.
type BufferUsage uint8

const (
	// BufferUsageStatic is written once and drawn many times.
	BufferUsageStatic BufferUsage = iota
	// BufferUsageDynamic is rewritten repeatedly and drawn many times.
	BufferUsageDynamic
	// BufferUsageStream is rewritten every frame.
	BufferUsageStream
)

// Buffer is the common interface of all buffer kinds.
type Buffer interface {
	Resource
	// Size returns the buffer size in bytes.
	Size() uint32
}

// VertexBuffer holds vertex data.
type VertexBuffer interface {
	Buffer
}

// IndexBuffer holds index data of a fixed format.
type IndexBuffer interface {
	Buffer
	IndexFormat() gputypes.IndexFormat
}

// UniformBuffer holds shader constants.
type UniformBuffer interface {
	Buffer
}

// TextureBuffer holds typed elements read by shaders.
type TextureBuffer interface {
	Buffer
	Format() gputypes.TextureFormat
}

// --------------------------------------------------------------------------
// Textures and samplers
// --------------------------------------------------------------------------

// Texture is the common interface of all texture kinds.
type Texture interface {
	Resource
	Width() uint32
	Height() uint32
	Format() gputypes.TextureFormat
}

// Texture2D is a two-dimensional texture.
type Texture2D interface {
	Texture
}

// Texture2DArray is an array of two-dimensional textures.
type Texture2DArray interface {
	Texture
	Layers() uint32
}

// Texture2DDesc describes a 2D texture.
type Texture2DDesc struct {
	Width, Height uint32
	Format        gputypes.TextureFormat
	// MipLevels is the number of mip levels; zero means one.
	MipLevels uint32
	// RenderTarget allows the texture as a framebuffer attachment.
	RenderTarget bool
	// Data is the optional initial content of mip level zero.
	Data []byte
}

// Texture2DArrayDesc describes a 2D texture array.
type Texture2DArrayDesc struct {
	Width, Height uint32
	Layers        uint32
	Format        gputypes.TextureFormat
	Data          []byte
}

// SamplerStateDesc describes a sampler. It extends the WebGPU sampler
// descriptor with the fields legacy APIs expose.
type SamplerStateDesc struct {
	gputypes.SamplerDescriptor
	MipLODBias  float32
	BorderColor [4]float32
}

// DefaultSamplerState returns a trilinear, repeating sampler description.
func DefaultSamplerState() SamplerStateDesc {
	d := gputypes.LinearSamplerDescriptor()
	d.AddressModeU = gputypes.AddressModeRepeat
	d.AddressModeV = gputypes.AddressModeRepeat
	d.AddressModeW = gputypes.AddressModeRepeat
	return SamplerStateDesc{SamplerDescriptor: d}
}

// SamplerState is an immutable sampler object.
type SamplerState interface {
	Resource
	Desc() SamplerStateDesc
}

// --------------------------------------------------------------------------
// Shaders and programs
// --------------------------------------------------------------------------

// ShaderStage identifies a programmable pipeline stage. Values are zero-based
// and index per-stage tables directly.
type ShaderStage uint8

const (
	StageVertex ShaderStage = iota
	StageTessellationControl
	StageTessellationEvaluation
	StageGeometry
	StageFragment

	// NumStages is the number of graphics shader stages.
	NumStages = 5
)

var shaderStageNames = [...]string{
	StageVertex:                 "Vertex",
	StageTessellationControl:    "TessellationControl",
	StageTessellationEvaluation: "TessellationEvaluation",
	StageGeometry:               "Geometry",
	StageFragment:               "Fragment",
}

// String returns the stage name.
func (s ShaderStage) String() string {
	if int(s) < len(shaderStageNames) {
		return shaderStageNames[s]
	}
	return "Unknown"
}

// ResourceType returns the resource kind of a shader of this stage.
func (s ShaderStage) ResourceType() ResourceType {
	return ResourceVertexShader + ResourceType(s)
}

// ShaderSource is WGSL text plus the entry point to use.
type ShaderSource struct {
	WGSL       string
	EntryPoint string
}

// Shader is one compiled shader stage.
type Shader interface {
	Resource
	Stage() ShaderStage
	EntryPoint() string
}

// BindingKind classifies a resource global declared by a shader.
type BindingKind uint8

const (
	BindingUniformBuffer BindingKind = iota
	BindingStorageBuffer
	BindingTexture
	BindingSampler
	BindingComparisonSampler
	BindingStorageTexture
)

var bindingKindNames = [...]string{
	BindingUniformBuffer:     "UniformBuffer",
	BindingStorageBuffer:     "StorageBuffer",
	BindingTexture:           "Texture",
	BindingSampler:           "Sampler",
	BindingComparisonSampler: "ComparisonSampler",
	BindingStorageTexture:    "StorageTexture",
}

// String returns the binding kind name.
func (k BindingKind) String() string {
	if int(k) < len(bindingKindNames) {
		return bindingKindNames[k]
	}
	return "Unknown"
}

// ShaderBinding is one resource global found by program reflection.
type ShaderBinding struct {
	Name    string
	Group   uint32
	Binding uint32
	Kind    BindingKind
}

// Program is a linked set of shader stages. It keeps its shaders alive.
type Program interface {
	Resource
	Shaders() []Shader
	// Bindings returns the reflected resource globals in declaration order.
	Bindings() []ShaderBinding
}

// FindBindingByName returns the binding declared under name.
func FindBindingByName(bindings []ShaderBinding, name string) (ShaderBinding, bool) {
	for _, b := range bindings {
		if b.Name == name {
			return b, true
		}
	}
	return ShaderBinding{}, false
}

// FindBindingByLocation returns the binding declared at group and binding.
func FindBindingByLocation(bindings []ShaderBinding, group, binding uint32) (ShaderBinding, bool) {
	for _, b := range bindings {
		if b.Group == group && b.Binding == binding {
			return b, true
		}
	}
	return ShaderBinding{}, false
}

// --------------------------------------------------------------------------
// Render targets
// --------------------------------------------------------------------------

// RenderTarget is anything a render pass can draw into.
type RenderTarget interface {
	Resource
	Size() (width, height uint32)
}

// Framebuffer is an offscreen render target. It keeps its attachments alive.
type Framebuffer interface {
	RenderTarget
	ColorTextures() []Texture
	DepthStencilTexture() Texture
}

// SwapChain is a presentable render target.
type SwapChain interface {
	RenderTarget
	Format() gputypes.TextureFormat
	// Present shows the current back buffer. It must be called on the
	// goroutine that owns the native context.
	Present()
}
