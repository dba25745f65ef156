package d3d

// Stage is a programmable pipeline stage. Values follow rhi.ShaderStage.
type Stage uint8

const (
	VS Stage = iota // vertex
	HS              // hull (tessellation control)
	DS              // domain (tessellation evaluation)
	GS              // geometry
	PS              // pixel
)

var stageNames = [...]string{VS: "VS", HS: "HS", DS: "DS", GS: "GS", PS: "PS"}

// String returns the two-letter method prefix of the stage.
func (s Stage) String() string {
	if int(s) < len(stageNames) {
		return stageNames[s]
	}
	return "??"
}

// Native is the subset of the Direct3D device and immediate context the
// backend issues. Direct3D 9 devices implement the same methods with their
// own calls underneath. Creation returns zero on failure.
type Native interface {
	CreateBuffer(desc BUFFER_DESC, data []byte) Object
	CreateTexture2D(desc TEXTURE2D_DESC, data []byte) Object
	CreateShaderResourceView(res Object, format DXGI_FORMAT) Object
	CreateUnorderedAccessView(res Object, format DXGI_FORMAT) Object
	CreateRenderTargetView(res Object, format DXGI_FORMAT) Object
	CreateDepthStencilView(res Object, format DXGI_FORMAT) Object
	CreateSamplerState(desc SAMPLER_DESC) Object
	// CreateShader compiles HLSL source for profile. It returns zero and the
	// compiler output on failure.
	CreateShader(stage Stage, source, profile string) (Object, string)
	CreateInputLayout(elements []INPUT_ELEMENT_DESC, vs Object) Object
	CreateRasterizerState(desc RASTERIZER_DESC) Object
	CreateDepthStencilState(desc DEPTH_STENCIL_DESC) Object
	CreateBlendState(desc BLEND_DESC) Object
	CreateSwapChain(width, height uint32, format DXGI_FORMAT) Object
	Release(obj Object)

	IASetInputLayout(layout Object)
	IASetVertexBuffers(start uint32, buffers []Object, strides, offsets []uint32)
	IASetIndexBuffer(buf Object, format DXGI_FORMAT, offset uint32)
	IASetPrimitiveTopology(t PRIMITIVE_TOPOLOGY)

	SetShader(stage Stage, sh Object)
	SetConstantBuffers(stage Stage, start uint32, buffers []Object)
	// SetShaderConstantF uploads float4 constant registers. Direct3D 9 has
	// no constant buffers.
	SetShaderConstantF(stage Stage, start uint32, data []float32)
	SetShaderResources(stage Stage, start uint32, views []Object)
	SetSamplers(stage Stage, start uint32, samplers []Object)
	OMSetUnorderedAccessViews(start uint32, views []Object)

	RSSetState(state Object)
	RSSetViewports(viewports []VIEWPORT)
	RSSetScissorRects(rects []RECT)
	OMSetDepthStencilState(state Object, stencilRef uint32)
	OMSetBlendState(state Object, factor [4]float32, sampleMask uint32)
	OMSetRenderTargets(rtvs []Object, dsv Object)

	ClearRenderTargetView(rtv Object, color [4]float32)
	ClearDepthStencilView(dsv Object, flags CLEAR_FLAG, depth float32, stencil uint8)
	DrawInstanced(vertexCount, instanceCount, startVertex, startInstance uint32)
	DrawIndexedInstanced(indexCount, instanceCount, startIndex uint32, baseVertex int32, startInstance uint32)
	UpdateSubresource(res Object, offset uint32, data []byte)

	BeginEvent(name string)
	EndEvent()
	SetMarker(name string)
	Present(swapChain Object)
}
