//go:build !nogpu

package hal

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	gpuhal "github.com/gogpu/wgpu/hal"

	"github.com/gogpu/rhi"
	"github.com/gogpu/rhi/internal/shader"
)

// stencilOp maps a stencil operation. gputypes starts at Undefined (0) with
// Keep at 1; the HAL enumeration starts at Keep (0).
func stencilOp(op gputypes.StencilOperation) (gpuhal.StencilOperation, bool) {
	if op < gputypes.StencilOperationKeep || op > gputypes.StencilOperationDecrementWrap {
		return gpuhal.StencilOperationKeep, false
	}
	return gpuhal.StencilOperation(op - gputypes.StencilOperationKeep), true
}

// mipmapFilter maps a mipmap filter to the filter mode the HAL sampler
// takes. Both start at Undefined (0) with Nearest at 1.
func mipmapFilter(f gputypes.MipmapFilterMode) (gputypes.FilterMode, bool) {
	switch f {
	case gputypes.MipmapFilterModeNearest:
		return gputypes.FilterModeNearest, true
	case gputypes.MipmapFilterModeLinear:
		return gputypes.FilterModeLinear, true
	default:
		return gputypes.FilterModeNearest, false
	}
}

// defaultTopology returns the topology a pipeline of class tt is created
// with. Patches have no HAL topology.
func defaultTopology(tt rhi.PrimitiveTopologyType) (gputypes.PrimitiveTopology, bool) {
	switch tt {
	case rhi.TopologyTypeTriangle:
		return gputypes.PrimitiveTopologyTriangleList, true
	case rhi.TopologyTypePoint:
		return gputypes.PrimitiveTopologyPointList, true
	case rhi.TopologyTypeLine:
		return gputypes.PrimitiveTopologyLineList, true
	default:
		return gputypes.PrimitiveTopologyTriangleList, false
	}
}

// visibility maps a zero-based shader visibility to HAL stages. Only the
// vertex and fragment stages exist.
func visibility(v rhi.ShaderVisibility) (gputypes.ShaderStages, bool) {
	switch v {
	case rhi.VisibilityAll:
		return gputypes.ShaderStageVertex | gputypes.ShaderStageFragment, true
	case rhi.VisibilityVertex:
		return gputypes.ShaderStageVertex, true
	case rhi.VisibilityFragment:
		return gputypes.ShaderStageFragment, true
	default:
		return gputypes.ShaderStageVertex | gputypes.ShaderStageFragment, false
	}
}

// indexFormat checks an index format. gputypes starts at Undefined (0).
func indexFormat(f gputypes.IndexFormat) (uint32, bool) {
	switch f {
	case gputypes.IndexFormatUint16:
		return 2, true
	case gputypes.IndexFormatUint32:
		return 4, true
	default:
		return 0, false
	}
}

// texelSize returns the bytes per texel of the uncompressed formats textures
// can be uploaded in.
func texelSize(f gputypes.TextureFormat) (uint32, bool) {
	switch f {
	case gputypes.TextureFormatR8Unorm, gputypes.TextureFormatR8Snorm,
		gputypes.TextureFormatR8Uint, gputypes.TextureFormatR8Sint:
		return 1, true
	case gputypes.TextureFormatR16Float, gputypes.TextureFormatRG8Unorm,
		gputypes.TextureFormatR16Uint, gputypes.TextureFormatR16Sint:
		return 2, true
	case gputypes.TextureFormatR32Float, gputypes.TextureFormatR32Uint, gputypes.TextureFormatR32Sint,
		gputypes.TextureFormatRG16Float, gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatRGBA8UnormSrgb,
		gputypes.TextureFormatRGBA8Snorm, gputypes.TextureFormatRGBA8Uint, gputypes.TextureFormatRGBA8Sint,
		gputypes.TextureFormatBGRA8Unorm, gputypes.TextureFormatBGRA8UnormSrgb:
		return 4, true
	case gputypes.TextureFormatRG32Float, gputypes.TextureFormatRGBA16Float:
		return 8, true
	case gputypes.TextureFormatRGBA32Float:
		return 16, true
	default:
		return 0, false
	}
}

// deviceType maps an adapter preference to the HAL device type.
// gpucontext starts at Discrete (0); gputypes starts at Other (0).
func deviceType(t gpucontext.AdapterType) (gputypes.DeviceType, bool) {
	switch t {
	case gpucontext.AdapterTypeDiscrete:
		return gputypes.DeviceTypeDiscreteGPU, true
	case gpucontext.AdapterTypeIntegrated:
		return gputypes.DeviceTypeIntegratedGPU, true
	case gpucontext.AdapterTypeSoftware:
		return gputypes.DeviceTypeCPU, true
	default:
		return gputypes.DeviceTypeOther, false
	}
}

// adapterType is the inverse of deviceType. Virtual and unknown devices map
// to AdapterTypeUnknown.
func adapterType(t gputypes.DeviceType) gpucontext.AdapterType {
	switch t {
	case gputypes.DeviceTypeDiscreteGPU:
		return gpucontext.AdapterTypeDiscrete
	case gputypes.DeviceTypeIntegratedGPU:
		return gpucontext.AdapterTypeIntegrated
	case gputypes.DeviceTypeCPU:
		return gpucontext.AdapterTypeSoftware
	default:
		return gpucontext.AdapterTypeUnknown
	}
}

// bufferUsage returns the HAL usage of a buffer kind. Every buffer is a
// copy destination so that data and updates go through the queue.
func bufferUsage(kind rhi.ResourceType) gputypes.BufferUsage {
	u := gputypes.BufferUsageCopyDst
	switch kind {
	case rhi.ResourceVertexBuffer:
		u |= gputypes.BufferUsageVertex
	case rhi.ResourceIndexBuffer:
		u |= gputypes.BufferUsageIndex
	case rhi.ResourceUniformBuffer:
		u |= gputypes.BufferUsageUniform
	case rhi.ResourceTextureBuffer:
		u |= gputypes.BufferUsageStorage
	}
	return u
}

// layoutEntry returns the bind group layout entry for a binding of kind. A
// reflected global refines the texture shape.
func layoutEntry(binding uint32, stages gputypes.ShaderStages, kind rhi.BindingKind, rangeType rhi.DescriptorRangeType, g *shader.Global) gputypes.BindGroupLayoutEntry {
	e := gputypes.BindGroupLayoutEntry{Binding: binding, Visibility: stages}
	dim := gputypes.TextureViewDimension2D
	if g != nil && g.Arrayed {
		dim = gputypes.TextureViewDimension2DArray
	}
	switch kind {
	case rhi.BindingUniformBuffer:
		e.Buffer = &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}
	case rhi.BindingStorageBuffer:
		t := gputypes.BufferBindingTypeReadOnlyStorage
		if rangeType == rhi.RangeUAV {
			t = gputypes.BufferBindingTypeStorage
		}
		e.Buffer = &gputypes.BufferBindingLayout{Type: t}
	case rhi.BindingSampler:
		e.Sampler = &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering}
	case rhi.BindingComparisonSampler:
		e.Sampler = &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeComparison}
	case rhi.BindingStorageTexture:
		e.StorageTexture = &gputypes.StorageTextureBindingLayout{
			Access:        gputypes.StorageTextureAccessWriteOnly,
			Format:        gputypes.TextureFormatRGBA8Unorm,
			ViewDimension: dim,
		}
	default:
		st := gputypes.TextureSampleTypeFloat
		if g != nil && g.Depth {
			st = gputypes.TextureSampleTypeDepth
		}
		e.Texture = &gputypes.TextureBindingLayout{SampleType: st, ViewDimension: dim}
	}
	return e
}

// rangeKind is the binding kind assumed for a range no shader declares.
func rangeKind(t rhi.DescriptorRangeType) rhi.BindingKind {
	switch t {
	case rhi.RangeCBV:
		return rhi.BindingUniformBuffer
	case rhi.RangeUAV:
		return rhi.BindingStorageBuffer
	case rhi.RangeSampler:
		return rhi.BindingSampler
	default:
		return rhi.BindingTexture
	}
}

// depthStencilState converts the depth-stencil state of a pipeline. A nil
// state with a depth format still attaches the format with testing off.
func depthStencilState(desc *rhi.PipelineStateDesc) *gpuhal.DepthStencilState {
	ds := desc.DepthStencil
	if ds == nil {
		if desc.DepthStencilFormat == gputypes.TextureFormatUndefined {
			return nil
		}
		return &gpuhal.DepthStencilState{Format: desc.DepthStencilFormat, DepthCompare: gputypes.CompareFunctionAlways}
	}
	out := &gpuhal.DepthStencilState{
		Format:              ds.Format,
		DepthWriteEnabled:   ds.DepthWriteEnabled,
		DepthCompare:        ds.DepthCompare,
		StencilFront:        stencilFace(ds.StencilFront),
		StencilBack:         stencilFace(ds.StencilBack),
		StencilReadMask:     ds.StencilReadMask,
		StencilWriteMask:    ds.StencilWriteMask,
		DepthBias:           ds.DepthBias + desc.Rasterizer.DepthBias,
		DepthBiasSlopeScale: ds.DepthBiasSlopeScale + desc.Rasterizer.SlopeScaledDepthBias,
		DepthBiasClamp:      ds.DepthBiasClamp,
	}
	if out.Format == gputypes.TextureFormatUndefined {
		out.Format = desc.DepthStencilFormat
	}
	if out.DepthCompare == gputypes.CompareFunctionUndefined {
		out.DepthCompare = gputypes.CompareFunctionLess
	}
	return out
}

func stencilFace(f gputypes.StencilFaceState) gpuhal.StencilFaceState {
	fail, _ := stencilOp(f.FailOp)
	dfail, _ := stencilOp(f.DepthFailOp)
	pass, _ := stencilOp(f.PassOp)
	cmp := f.Compare
	if cmp == gputypes.CompareFunctionUndefined {
		cmp = gputypes.CompareFunctionAlways
	}
	return gpuhal.StencilFaceState{Compare: cmp, FailOp: fail, DepthFailOp: dfail, PassOp: pass}
}

// samplerDescriptor converts a sampler state. Undefined address modes clamp,
// undefined filters are nearest and a zero LodMaxClamp means no clamp.
func samplerDescriptor(label string, desc *rhi.SamplerStateDesc) *gpuhal.SamplerDescriptor {
	mip, _ := mipmapFilter(desc.MipmapFilter)
	lodMax := desc.LodMaxClamp
	if lodMax == 0 {
		lodMax = 32
	}
	return &gpuhal.SamplerDescriptor{
		Label:        label,
		AddressModeU: orDefault(desc.AddressModeU, gputypes.AddressModeClampToEdge),
		AddressModeV: orDefault(desc.AddressModeV, gputypes.AddressModeClampToEdge),
		AddressModeW: orDefault(desc.AddressModeW, gputypes.AddressModeClampToEdge),
		MagFilter:    orDefault(desc.MagFilter, gputypes.FilterModeNearest),
		MinFilter:    orDefault(desc.MinFilter, gputypes.FilterModeNearest),
		MipmapFilter: mip,
		LodMinClamp:  desc.LodMinClamp,
		LodMaxClamp:  lodMax,
		Compare:      desc.Compare,
		Anisotropy:   max(desc.MaxAnisotropy, 1),
	}
}

func orDefault[T comparable](v, fallback T) T {
	var zero T
	if v == zero {
		return fallback
	}
	return v
}
