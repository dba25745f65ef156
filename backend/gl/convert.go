package gl

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/rhi"
)

// The conversions below map the zero-based-with-Undefined gputypes
// enumerations onto OpenGL enumerants. Each returns false for Undefined and
// out-of-range values, together with the OpenGL default for that state.

// topology maps a primitive topology. gputypes starts at TriangleList (0);
// the OpenGL modes are sparse.
func topology(t gputypes.PrimitiveTopology) (Enum, bool) {
	switch t {
	case gputypes.PrimitiveTopologyTriangleList:
		return TRIANGLES, true
	case gputypes.PrimitiveTopologyPointList:
		return POINTS, true
	case gputypes.PrimitiveTopologyLineList:
		return LINES, true
	case gputypes.PrimitiveTopologyLineStrip:
		return LINE_STRIP, true
	case gputypes.PrimitiveTopologyTriangleStrip:
		return TRIANGLE_STRIP, true
	default:
		return TRIANGLES, false
	}
}

// compareFunc maps a compare function. gputypes is one-based (Never = 1)
// and follows the OpenGL order, so Never..Always map to NEVER + (v - 1).
func compareFunc(f gputypes.CompareFunction) (Enum, bool) {
	if f < gputypes.CompareFunctionNever || f > gputypes.CompareFunctionAlways {
		return ALWAYS, false
	}
	return NEVER + Enum(f-gputypes.CompareFunctionNever), true
}

// stencilOp maps a stencil operation. gputypes is one-based (Keep = 1).
func stencilOp(op gputypes.StencilOperation) (Enum, bool) {
	switch op {
	case gputypes.StencilOperationKeep:
		return KEEP, true
	case gputypes.StencilOperationZero:
		return ZERO, true
	case gputypes.StencilOperationReplace:
		return REPLACE, true
	case gputypes.StencilOperationInvert:
		return INVERT, true
	case gputypes.StencilOperationIncrementClamp:
		return INCR, true
	case gputypes.StencilOperationDecrementClamp:
		return DECR, true
	case gputypes.StencilOperationIncrementWrap:
		return INCR_WRAP, true
	case gputypes.StencilOperationDecrementWrap:
		return DECR_WRAP, true
	default:
		return KEEP, false
	}
}

// blendFactor maps a blend factor. gputypes is one-based (Zero = 1).
func blendFactor(f gputypes.BlendFactor) (Enum, bool) {
	switch f {
	case gputypes.BlendFactorZero:
		return ZERO, true
	case gputypes.BlendFactorOne:
		return ONE, true
	case gputypes.BlendFactorSrc:
		return SRC_COLOR, true
	case gputypes.BlendFactorOneMinusSrc:
		return ONE_MINUS_SRC_COLOR, true
	case gputypes.BlendFactorSrcAlpha:
		return SRC_ALPHA, true
	case gputypes.BlendFactorOneMinusSrcAlpha:
		return ONE_MINUS_SRC_ALPHA, true
	case gputypes.BlendFactorDst:
		return DST_COLOR, true
	case gputypes.BlendFactorOneMinusDst:
		return ONE_MINUS_DST_COLOR, true
	case gputypes.BlendFactorDstAlpha:
		return DST_ALPHA, true
	case gputypes.BlendFactorOneMinusDstAlpha:
		return ONE_MINUS_DST_ALPHA, true
	case gputypes.BlendFactorSrcAlphaSaturated:
		return SRC_ALPHA_SATURATE, true
	case gputypes.BlendFactorConstant:
		return CONSTANT_COLOR, true
	case gputypes.BlendFactorOneMinusConstant:
		return ONE_MINUS_CONSTANT_COLOR, true
	default:
		return ONE, false
	}
}

// blendOp maps a blend operation. gputypes is one-based (Add = 1).
func blendOp(op gputypes.BlendOperation) (Enum, bool) {
	switch op {
	case gputypes.BlendOperationAdd:
		return FUNC_ADD, true
	case gputypes.BlendOperationSubtract:
		return FUNC_SUBTRACT, true
	case gputypes.BlendOperationReverseSubtract:
		return FUNC_REVERSE_SUBTRACT, true
	case gputypes.BlendOperationMin:
		return MIN, true
	case gputypes.BlendOperationMax:
		return MAX, true
	default:
		return FUNC_ADD, false
	}
}

// addressMode maps a sampler address mode. gputypes is one-based
// (ClampToEdge = 1).
func addressMode(m gputypes.AddressMode) (Enum, bool) {
	switch m {
	case gputypes.AddressModeClampToEdge:
		return CLAMP_TO_EDGE, true
	case gputypes.AddressModeRepeat:
		return REPEAT, true
	case gputypes.AddressModeMirrorRepeat:
		return MIRRORED_REPEAT, true
	default:
		return REPEAT, false
	}
}

// magFilter maps a magnification filter. gputypes is one-based
// (Nearest = 1).
func magFilter(f gputypes.FilterMode) (Enum, bool) {
	switch f {
	case gputypes.FilterModeNearest:
		return NEAREST, true
	case gputypes.FilterModeLinear:
		return LINEAR, true
	default:
		return LINEAR, false
	}
}

// minFilter combines a minification and a mipmap filter. An Undefined
// mipmap filter selects the non-mipmapped mode and is not an error.
func minFilter(f gputypes.FilterMode, mip gputypes.MipmapFilterMode) (Enum, bool) {
	linear := f == gputypes.FilterModeLinear
	ok := f == gputypes.FilterModeNearest || linear
	switch mip {
	case gputypes.MipmapFilterModeNearest:
		if linear {
			return LINEAR_MIPMAP_NEAREST, ok
		}
		return NEAREST_MIPMAP_NEAREST, ok
	case gputypes.MipmapFilterModeLinear:
		if linear {
			return LINEAR_MIPMAP_LINEAR, ok
		}
		return NEAREST_MIPMAP_LINEAR, ok
	default:
		if linear {
			return LINEAR, ok
		}
		return NEAREST, ok
	}
}

// cullFace maps a cull mode. None (0) returns zero and true: the caller
// disables culling instead.
func cullFace(m gputypes.CullMode) (Enum, bool) {
	switch m {
	case gputypes.CullModeNone:
		return 0, true
	case gputypes.CullModeFront:
		return FRONT, true
	case gputypes.CullModeBack:
		return BACK, true
	default:
		return BACK, false
	}
}

// frontFace maps a winding order. gputypes is zero-based (CCW = 0).
func frontFace(f gputypes.FrontFace) (Enum, bool) {
	switch f {
	case gputypes.FrontFaceCCW:
		return CCW, true
	case gputypes.FrontFaceCW:
		return CW, true
	default:
		return CCW, false
	}
}

// indexType maps an index format to its element type and size in bytes.
// gputypes is one-based (Uint16 = 1).
func indexType(f gputypes.IndexFormat) (typ Enum, size uint32, ok bool) {
	switch f {
	case gputypes.IndexFormatUint16:
		return UNSIGNED_SHORT, 2, true
	case gputypes.IndexFormatUint32:
		return UNSIGNED_INT, 4, true
	default:
		return UNSIGNED_SHORT, 2, false
	}
}

// textureFormat is the storage and upload description of a texture format.
type textureFormat struct {
	internal Enum
	format   Enum
	typ      Enum
}

// convertTextureFormat maps a texture format. gputypes starts at Undefined
// (0); the OpenGL formats are sparse.
func convertTextureFormat(f gputypes.TextureFormat) (textureFormat, bool) {
	switch f {
	case gputypes.TextureFormatR8Unorm:
		return textureFormat{R8, RED, UNSIGNED_BYTE}, true
	case gputypes.TextureFormatRGBA8Unorm:
		return textureFormat{RGBA8, RGBA, UNSIGNED_BYTE}, true
	case gputypes.TextureFormatRGBA8UnormSrgb:
		return textureFormat{SRGB8_ALPHA8, RGBA, UNSIGNED_BYTE}, true
	case gputypes.TextureFormatBGRA8Unorm:
		return textureFormat{RGBA8, BGRA, UNSIGNED_BYTE}, true
	case gputypes.TextureFormatRGBA16Float:
		return textureFormat{RGBA16F, RGBA, HALF_FLOAT}, true
	case gputypes.TextureFormatRGBA32Float:
		return textureFormat{RGBA32F, RGBA, FLOAT}, true
	case gputypes.TextureFormatDepth16Unorm:
		return textureFormat{DEPTH_COMPONENT16, DEPTH_COMPONENT, UNSIGNED_SHORT}, true
	case gputypes.TextureFormatDepth24Plus:
		return textureFormat{DEPTH_COMPONENT24, DEPTH_COMPONENT, UNSIGNED_INT}, true
	case gputypes.TextureFormatDepth24PlusStencil8:
		return textureFormat{DEPTH24_STENCIL8, DEPTH_STENCIL, UNSIGNED_INT_24_8}, true
	case gputypes.TextureFormatDepth32Float:
		return textureFormat{DEPTH_COMPONENT32F, DEPTH_COMPONENT, FLOAT}, true
	default:
		return textureFormat{RGBA8, RGBA, UNSIGNED_BYTE}, false
	}
}

// isDepthFormat reports whether f has a depth aspect.
func isDepthFormat(f gputypes.TextureFormat) bool {
	switch f {
	case gputypes.TextureFormatDepth16Unorm, gputypes.TextureFormatDepth24Plus,
		gputypes.TextureFormatDepth24PlusStencil8, gputypes.TextureFormatDepth32Float:
		return true
	}
	return false
}

// vertexFormat is the attribute pointer description of a vertex format.
type vertexFormat struct {
	size       int32
	typ        Enum
	normalized bool
}

// convertVertexFormat maps a vertex format. gputypes starts at Undefined (0).
func convertVertexFormat(f gputypes.VertexFormat) (vertexFormat, bool) {
	switch f {
	case gputypes.VertexFormatUnorm8x4:
		return vertexFormat{4, UNSIGNED_BYTE, true}, true
	case gputypes.VertexFormatFloat32:
		return vertexFormat{1, FLOAT, false}, true
	case gputypes.VertexFormatFloat32x2:
		return vertexFormat{2, FLOAT, false}, true
	case gputypes.VertexFormatFloat32x3:
		return vertexFormat{3, FLOAT, false}, true
	case gputypes.VertexFormatFloat32x4:
		return vertexFormat{4, FLOAT, false}, true
	case gputypes.VertexFormatUint32:
		return vertexFormat{1, UNSIGNED_INT, false}, true
	default:
		return vertexFormat{4, FLOAT, false}, false
	}
}

// bufferUsage maps a usage hint.
func bufferUsage(u rhi.BufferUsage) Enum {
	switch u {
	case rhi.BufferUsageDynamic:
		return DYNAMIC_DRAW
	case rhi.BufferUsageStream:
		return STREAM_DRAW
	default:
		return STATIC_DRAW
	}
}

// shaderType maps a shader stage. rhi stages are zero-based (Vertex = 0).
func shaderType(s rhi.ShaderStage) (Enum, bool) {
	switch s {
	case rhi.StageVertex:
		return VERTEX_SHADER, true
	case rhi.StageTessellationControl:
		return TESS_CONTROL_SHADER, true
	case rhi.StageTessellationEvaluation:
		return TESS_EVALUATION_SHADER, true
	case rhi.StageGeometry:
		return GEOMETRY_SHADER, true
	case rhi.StageFragment:
		return FRAGMENT_SHADER, true
	default:
		return VERTEX_SHADER, false
	}
}
