package d3d

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/rhi"
)

// The conversions below map the gputypes enumerations onto Direct3D
// enumerants. Most Direct3D enumerations are one-based like gputypes but
// ordered differently, so each is spelled out. Each returns false for
// Undefined and out-of-range values, together with the Direct3D default for
// that state.

// topology maps a primitive topology. gputypes is zero-based
// (TriangleList = 0); Direct3D is one-based (POINTLIST = 1).
func topology(t gputypes.PrimitiveTopology) (PRIMITIVE_TOPOLOGY, bool) {
	switch t {
	case gputypes.PrimitiveTopologyPointList:
		return PRIMITIVE_TOPOLOGY_POINTLIST, true
	case gputypes.PrimitiveTopologyLineList:
		return PRIMITIVE_TOPOLOGY_LINELIST, true
	case gputypes.PrimitiveTopologyLineStrip:
		return PRIMITIVE_TOPOLOGY_LINESTRIP, true
	case gputypes.PrimitiveTopologyTriangleList:
		return PRIMITIVE_TOPOLOGY_TRIANGLELIST, true
	case gputypes.PrimitiveTopologyTriangleStrip:
		return PRIMITIVE_TOPOLOGY_TRIANGLESTRIP, true
	default:
		return PRIMITIVE_TOPOLOGY_UNDEFINED, false
	}
}

// compareFunc maps a compare function. Both enumerations are one-based
// (Never = 1) in the same order.
func compareFunc(f gputypes.CompareFunction) (COMPARISON_FUNC, bool) {
	if f < gputypes.CompareFunctionNever || f > gputypes.CompareFunctionAlways {
		return COMPARISON_ALWAYS, false
	}
	return COMPARISON_FUNC(f), true
}

// stencilOp maps a stencil operation. Both are one-based (Keep = 1) but
// Direct3D lists the saturating operations before INVERT.
func stencilOp(op gputypes.StencilOperation) (STENCIL_OP, bool) {
	switch op {
	case gputypes.StencilOperationKeep:
		return STENCIL_OP_KEEP, true
	case gputypes.StencilOperationZero:
		return STENCIL_OP_ZERO, true
	case gputypes.StencilOperationReplace:
		return STENCIL_OP_REPLACE, true
	case gputypes.StencilOperationInvert:
		return STENCIL_OP_INVERT, true
	case gputypes.StencilOperationIncrementClamp:
		return STENCIL_OP_INCR_SAT, true
	case gputypes.StencilOperationDecrementClamp:
		return STENCIL_OP_DECR_SAT, true
	case gputypes.StencilOperationIncrementWrap:
		return STENCIL_OP_INCR, true
	case gputypes.StencilOperationDecrementWrap:
		return STENCIL_OP_DECR, true
	default:
		return STENCIL_OP_KEEP, false
	}
}

// blendFactor maps a blend factor. Both are one-based (Zero = 1); Direct3D
// orders destination alpha before destination color and leaves a gap before
// BLEND_FACTOR (14).
func blendFactor(f gputypes.BlendFactor) (BLEND, bool) {
	switch f {
	case gputypes.BlendFactorZero:
		return BLEND_ZERO, true
	case gputypes.BlendFactorOne:
		return BLEND_ONE, true
	case gputypes.BlendFactorSrc:
		return BLEND_SRC_COLOR, true
	case gputypes.BlendFactorOneMinusSrc:
		return BLEND_INV_SRC_COLOR, true
	case gputypes.BlendFactorSrcAlpha:
		return BLEND_SRC_ALPHA, true
	case gputypes.BlendFactorOneMinusSrcAlpha:
		return BLEND_INV_SRC_ALPHA, true
	case gputypes.BlendFactorDst:
		return BLEND_DEST_COLOR, true
	case gputypes.BlendFactorOneMinusDst:
		return BLEND_INV_DEST_COLOR, true
	case gputypes.BlendFactorDstAlpha:
		return BLEND_DEST_ALPHA, true
	case gputypes.BlendFactorOneMinusDstAlpha:
		return BLEND_INV_DEST_ALPHA, true
	case gputypes.BlendFactorSrcAlphaSaturated:
		return BLEND_SRC_ALPHA_SAT, true
	case gputypes.BlendFactorConstant:
		return BLEND_BLEND_FACTOR, true
	case gputypes.BlendFactorOneMinusConstant:
		return BLEND_INV_BLEND_FACTOR, true
	default:
		return BLEND_ONE, false
	}
}

// blendOp maps a blend operation. Both are one-based (Add = 1) in the same
// order.
func blendOp(op gputypes.BlendOperation) (BLEND_OP, bool) {
	if op < gputypes.BlendOperationAdd || op > gputypes.BlendOperationMax {
		return BLEND_OP_ADD, false
	}
	return BLEND_OP(op), true
}

// addressMode maps a sampler address mode. gputypes is one-based
// (ClampToEdge = 1, Repeat = 2); Direct3D is one-based with WRAP first.
func addressMode(m gputypes.AddressMode) (TEXTURE_ADDRESS_MODE, bool) {
	switch m {
	case gputypes.AddressModeClampToEdge:
		return TEXTURE_ADDRESS_CLAMP, true
	case gputypes.AddressModeRepeat:
		return TEXTURE_ADDRESS_WRAP, true
	case gputypes.AddressModeMirrorRepeat:
		return TEXTURE_ADDRESS_MIRROR, true
	default:
		return TEXTURE_ADDRESS_WRAP, false
	}
}

// filter composes a FILTER from its parts. Undefined modes count as point
// sampling. Anisotropy above one overrides the linear bits.
func filter(desc *rhi.SamplerStateDesc) FILTER {
	var f FILTER
	if desc.MinFilter == gputypes.FilterModeLinear {
		f |= filterMinLinear
	}
	if desc.MagFilter == gputypes.FilterModeLinear {
		f |= filterMagLinear
	}
	if desc.MipmapFilter == gputypes.MipmapFilterModeLinear {
		f |= filterMipLinear
	}
	if desc.MaxAnisotropy > 1 {
		f = FILTER_ANISOTROPIC
	}
	if _, ok := compareFunc(desc.Compare); ok {
		f |= filterComparison
	}
	return f
}

// cullMode maps a cull mode. gputypes is zero-based (None = 0); Direct3D is
// one-based (CULL_NONE = 1).
func cullMode(m gputypes.CullMode) (CULL_MODE, bool) {
	switch m {
	case gputypes.CullModeNone:
		return CULL_NONE, true
	case gputypes.CullModeFront:
		return CULL_FRONT, true
	case gputypes.CullModeBack:
		return CULL_BACK, true
	default:
		return CULL_BACK, false
	}
}

// indexFormat maps an index format to its DXGI format and size in bytes.
// gputypes is one-based (Uint16 = 1).
func indexFormat(f gputypes.IndexFormat) (DXGI_FORMAT, uint32, bool) {
	switch f {
	case gputypes.IndexFormatUint16:
		return DXGI_FORMAT_R16_UINT, 2, true
	case gputypes.IndexFormatUint32:
		return DXGI_FORMAT_R32_UINT, 4, true
	default:
		return DXGI_FORMAT_R16_UINT, 2, false
	}
}

// textureFormat maps a texture format. gputypes starts at Undefined (0); the
// DXGI formats are sparse.
func textureFormat(f gputypes.TextureFormat) (DXGI_FORMAT, bool) {
	switch f {
	case gputypes.TextureFormatR8Unorm:
		return DXGI_FORMAT_R8_UNORM, true
	case gputypes.TextureFormatR32Float:
		return DXGI_FORMAT_R32_FLOAT, true
	case gputypes.TextureFormatRGBA8Unorm:
		return DXGI_FORMAT_R8G8B8A8_UNORM, true
	case gputypes.TextureFormatRGBA8UnormSrgb:
		return DXGI_FORMAT_R8G8B8A8_UNORM_SRGB, true
	case gputypes.TextureFormatBGRA8Unorm:
		return DXGI_FORMAT_B8G8R8A8_UNORM, true
	case gputypes.TextureFormatRGBA16Float:
		return DXGI_FORMAT_R16G16B16A16_FLOAT, true
	case gputypes.TextureFormatRGBA32Float:
		return DXGI_FORMAT_R32G32B32A32_FLOAT, true
	case gputypes.TextureFormatDepth16Unorm:
		return DXGI_FORMAT_D16_UNORM, true
	case gputypes.TextureFormatDepth24Plus, gputypes.TextureFormatDepth24PlusStencil8:
		return DXGI_FORMAT_D24_UNORM_S8_UINT, true
	case gputypes.TextureFormatDepth32Float:
		return DXGI_FORMAT_D32_FLOAT, true
	default:
		return DXGI_FORMAT_UNKNOWN, false
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

// vertexFormat maps a vertex format. gputypes starts at Undefined (0).
func vertexFormat(f gputypes.VertexFormat) (DXGI_FORMAT, bool) {
	switch f {
	case gputypes.VertexFormatUnorm8x4:
		return DXGI_FORMAT_R8G8B8A8_UNORM, true
	case gputypes.VertexFormatFloat32:
		return DXGI_FORMAT_R32_FLOAT, true
	case gputypes.VertexFormatFloat32x2:
		return DXGI_FORMAT_R32G32_FLOAT, true
	case gputypes.VertexFormatFloat32x3:
		return DXGI_FORMAT_R32G32B32_FLOAT, true
	case gputypes.VertexFormatFloat32x4:
		return DXGI_FORMAT_R32G32B32A32_FLOAT, true
	case gputypes.VertexFormatUint32:
		return DXGI_FORMAT_R32_UINT, true
	default:
		return DXGI_FORMAT_UNKNOWN, false
	}
}

// bufferUsage maps a usage hint. Stream buffers are rewritten every frame
// and mapped with discard; the rest are updated in place.
func bufferUsage(u rhi.BufferUsage) USAGE {
	if u == rhi.BufferUsageStream {
		return USAGE_DYNAMIC
	}
	return USAGE_DEFAULT
}

// colorWriteMask maps a write mask. Both use the same bit per channel.
func colorWriteMask(m gputypes.ColorWriteMask) COLOR_WRITE_ENABLE {
	return COLOR_WRITE_ENABLE(m & gputypes.ColorWriteMaskAll)
}

// stageOf maps a shader stage. rhi stages are zero-based (Vertex = 0) in
// the Direct3D pipeline order.
func stageOf(s rhi.ShaderStage) (Stage, bool) {
	if s >= rhi.NumStages {
		return VS, false
	}
	return Stage(s), true
}
