package rhi

// ResourceType is the kind discriminant carried by every resource.
// Values are zero-based and stable for the lifetime of a resource.
type ResourceType uint8

const (
	// Root signature and pipeline objects
	ResourceRootSignature ResourceType = iota // Root signature
	ResourceProgram                           // Linked program
	ResourceVertexArray                       // Vertex array object
	ResourceSwapChain                         // Presentable render target
	ResourceFramebuffer                       // Offscreen render target

	// Buffers
	ResourceIndexBuffer   // Index buffer
	ResourceVertexBuffer  // Vertex buffer
	ResourceUniformBuffer // Uniform (constant) buffer
	ResourceTextureBuffer // Texture (typed) buffer

	// Textures
	ResourceTexture2D      // 2D texture
	ResourceTexture2DArray // 2D texture array

	// States
	ResourcePipelineState // Pipeline state object
	ResourceSamplerState  // Sampler state

	// Shader stages
	ResourceVertexShader                 // Vertex shader
	ResourceTessellationControlShader    // Tessellation control shader
	ResourceTessellationEvaluationShader // Tessellation evaluation shader
	ResourceGeometryShader               // Geometry shader
	ResourceFragmentShader               // Fragment shader

	resourceTypeCount
)

// resourceTypeNames maps ResourceType values to their string representation.
var resourceTypeNames = [...]string{
	ResourceRootSignature:                "RootSignature",
	ResourceProgram:                      "Program",
	ResourceVertexArray:                  "VertexArray",
	ResourceSwapChain:                    "SwapChain",
	ResourceFramebuffer:                  "Framebuffer",
	ResourceIndexBuffer:                  "IndexBuffer",
	ResourceVertexBuffer:                 "VertexBuffer",
	ResourceUniformBuffer:                "UniformBuffer",
	ResourceTextureBuffer:                "TextureBuffer",
	ResourceTexture2D:                    "Texture2D",
	ResourceTexture2DArray:               "Texture2DArray",
	ResourcePipelineState:                "PipelineState",
	ResourceSamplerState:                 "SamplerState",
	ResourceVertexShader:                 "VertexShader",
	ResourceTessellationControlShader:    "TessellationControlShader",
	ResourceTessellationEvaluationShader: "TessellationEvaluationShader",
	ResourceGeometryShader:               "GeometryShader",
	ResourceFragmentShader:               "FragmentShader",
}

// String returns the string representation of a ResourceType.
func (t ResourceType) String() string {
	if t < resourceTypeCount {
		return resourceTypeNames[t]
	}
	return "Unknown"
}

// IsShader reports whether t is one of the shader stage kinds.
func (t ResourceType) IsShader() bool {
	return t >= ResourceVertexShader && t <= ResourceFragmentShader
}

// IsBuffer reports whether t is one of the buffer kinds.
func (t ResourceType) IsBuffer() bool {
	return t >= ResourceIndexBuffer && t <= ResourceTextureBuffer
}

// IsTexture reports whether t is one of the texture kinds.
func (t ResourceType) IsTexture() bool {
	return t == ResourceTexture2D || t == ResourceTexture2DArray
}

// Resource is implemented by every GPU object.
//
// AddReference and ReleaseReference must be called in matching pairs by every
// holder. The resource is destroyed exactly once, when its count drops from
// one to zero. Reference counting is not atomic: a resource shared across
// goroutines needs external synchronization.
type Resource interface {
	// ResourceType returns the kind discriminant.
	ResourceType() ResourceType

	// AddReference increments the reference count and returns the new count.
	AddReference() uint32

	// ReleaseReference decrements the reference count and returns the new
	// count. The resource is destroyed when the count reaches zero.
	ReleaseReference() uint32

	// RefCount returns the current reference count.
	RefCount() uint32
}

// RefCounted implements the reference counting half of Resource.
// Backend resource types embed it and call InitRefCounted on creation.
//
// The zero value is a destroyed resource; use InitRefCounted.
type RefCounted struct {
	kind      ResourceType
	refs      uint32
	destroyed bool
	destroy   func()
}

// InitRefCounted prepares r for use. The creator owns the first reference.
// destroy runs once when the last reference is released; it may be nil.
func (r *RefCounted) InitRefCounted(kind ResourceType, destroy func()) {
	r.kind = kind
	r.refs = 1
	r.destroyed = false
	r.destroy = destroy
}

// ResourceType implements Resource.
func (r *RefCounted) ResourceType() ResourceType { return r.kind }

// RefCount implements Resource.
func (r *RefCounted) RefCount() uint32 { return r.refs }

// Destroyed reports whether the last reference has been released.
func (r *RefCounted) Destroyed() bool { return r.destroyed }

// AddReference implements Resource.
func (r *RefCounted) AddReference() uint32 {
	Assertf(!r.destroyed, "AddReference on destroyed %v", r.kind)
	if r.destroyed {
		return 0
	}
	r.refs++
	return r.refs
}

// ReleaseReference implements Resource.
func (r *RefCounted) ReleaseReference() uint32 {
	Assertf(!r.destroyed && r.refs > 0, "ReleaseReference on destroyed %v", r.kind)
	if r.destroyed || r.refs == 0 {
		return 0
	}
	r.refs--
	if r.refs == 0 {
		r.destroyed = true
		if d := r.destroy; d != nil {
			r.destroy = nil
			d()
		}
	}
	return r.refs
}

// Retain adds a reference to res if it is non-nil and returns it.
// It is the increment-on-store half of the ownership contract.
func Retain[T Resource](res T) T {
	if Resource(res) != nil {
		res.AddReference()
	}
	return res
}

// Release drops a reference from res if it is non-nil.
// It is the decrement-on-release half of the ownership contract.
func Release(res Resource) {
	if res != nil {
		res.ReleaseReference()
	}
}
