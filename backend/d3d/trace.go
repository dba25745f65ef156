package d3d

import (
	"github.com/gogpu/rhi/internal/trace"
)

// TraceNative is a Native that records every call into a trace.Recorder
// under the method names of its Direct3D version.
//
// Direct3D 10 and 11 calls are recorded as context methods with their stage
// prefix ("PSSetShaderResources"). Direct3D 9 calls are recorded under the
// IDirect3DDevice9 method they correspond to ("SetTexture").
type TraceNative struct {
	rec     *trace.Recorder
	version Version
}

// NewTraceNative returns a Native recording into rec.
func NewTraceNative(rec *trace.Recorder, v Version) *TraceNative {
	return &TraceNative{rec: rec, version: v}
}

// Recorder returns the recorder calls go to.
func (n *TraceNative) Recorder() *trace.Recorder { return n.rec }

// d3d9Names maps context method names to IDirect3DDevice9 methods. Stage
// prefixed names are looked up with their prefix.
var d3d9Names = map[string]string{
	"CreateBuffer":              "CreateVertexBuffer",
	"CreateTexture2D":           "CreateTexture",
	"CreateSamplerState":        "CreateStateBlock",
	"CreateInputLayout":         "CreateVertexDeclaration",
	"IASetInputLayout":          "SetVertexDeclaration",
	"IASetVertexBuffers":        "SetStreamSource",
	"IASetIndexBuffer":          "SetIndices",
	"VSSetShader":               "SetVertexShader",
	"PSSetShader":               "SetPixelShader",
	"VSSetShaderConstantF":      "SetVertexShaderConstantF",
	"PSSetShaderConstantF":      "SetPixelShaderConstantF",
	"VSSetShaderResources":      "SetTexture",
	"PSSetShaderResources":      "SetTexture",
	"VSSetSamplers":             "SetSamplerState",
	"PSSetSamplers":             "SetSamplerState",
	"RSSetState":                "SetRenderState",
	"RSSetViewports":            "SetViewport",
	"RSSetScissorRects":         "SetScissorRect",
	"OMSetDepthStencilState":    "SetRenderState",
	"OMSetBlendState":           "SetRenderState",
	"OMSetRenderTargets":        "SetRenderTarget",
	"ClearRenderTargetView":     "Clear",
	"ClearDepthStencilView":     "Clear",
	"DrawInstanced":             "DrawPrimitive",
	"DrawIndexedInstanced":      "DrawIndexedPrimitive",
	"UpdateSubresource":         "Lock",
	"BeginEvent":                "D3DPERF_BeginEvent",
	"EndEvent":                  "D3DPERF_EndEvent",
	"SetMarker":                 "D3DPERF_SetMarker",
	"CreateSwapChain":           "CreateAdditionalSwapChain",
	"CreateShaderResourceView":  "GetSurfaceLevel",
	"CreateRenderTargetView":    "GetSurfaceLevel",
	"CreateDepthStencilView":    "GetSurfaceLevel",
	"CreateRasterizerState":     "CreateStateBlock",
	"CreateDepthStencilState":   "CreateStateBlock",
	"CreateBlendState":          "CreateStateBlock",
	"IASetPrimitiveTopology":    "",
	"OMSetUnorderedAccessViews": "",
}

// record records fn under the name of the device version. Calls with no
// Direct3D 9 counterpart are dropped there.
func (n *TraceNative) record(fn string, args ...any) {
	if n.version == Version9 {
		name, ok := d3d9Names[fn]
		if ok && name == "" {
			return
		}
		if ok {
			fn = name
		}
	}
	n.rec.Record(fn, args...)
}

func (n *TraceNative) create(fn string, args ...any) Object {
	obj := Object(n.rec.NewHandle())
	n.record(fn, append(args, obj)...)
	return obj
}

func (n *TraceNative) CreateBuffer(desc BUFFER_DESC, data []byte) Object {
	return n.create("CreateBuffer", desc.ByteWidth, desc.BindFlags, len(data))
}

func (n *TraceNative) CreateTexture2D(desc TEXTURE2D_DESC, data []byte) Object {
	return n.create("CreateTexture2D", desc.Width, desc.Height, desc.ArraySize, desc.Format, len(data))
}

func (n *TraceNative) CreateShaderResourceView(res Object, format DXGI_FORMAT) Object {
	return n.create("CreateShaderResourceView", res, format)
}

func (n *TraceNative) CreateUnorderedAccessView(res Object, format DXGI_FORMAT) Object {
	return n.create("CreateUnorderedAccessView", res, format)
}

func (n *TraceNative) CreateRenderTargetView(res Object, format DXGI_FORMAT) Object {
	return n.create("CreateRenderTargetView", res, format)
}

func (n *TraceNative) CreateDepthStencilView(res Object, format DXGI_FORMAT) Object {
	return n.create("CreateDepthStencilView", res, format)
}

func (n *TraceNative) CreateSamplerState(desc SAMPLER_DESC) Object {
	return n.create("CreateSamplerState", desc.Filter, desc.AddressU, desc.AddressV, desc.ComparisonFunc)
}

var createShaderNames = [...]string{
	VS: "CreateVertexShader",
	HS: "CreateHullShader",
	DS: "CreateDomainShader",
	GS: "CreateGeometryShader",
	PS: "CreatePixelShader",
}

// CreateShader fails on empty source. Translated HLSL is never empty.
func (n *TraceNative) CreateShader(stage Stage, source, profile string) (Object, string) {
	fn := createShaderNames[stage]
	if source == "" {
		n.record(fn, profile, Object(0))
		return 0, "error X3501: no entry point"
	}
	return n.create(fn, profile), ""
}

func (n *TraceNative) CreateInputLayout(elements []INPUT_ELEMENT_DESC, vs Object) Object {
	if vs == 0 {
		n.record("CreateInputLayout", len(elements), vs, Object(0))
		return 0
	}
	return n.create("CreateInputLayout", len(elements), vs)
}

func (n *TraceNative) CreateRasterizerState(desc RASTERIZER_DESC) Object {
	return n.create("CreateRasterizerState", desc.FillMode, desc.CullMode)
}

func (n *TraceNative) CreateDepthStencilState(desc DEPTH_STENCIL_DESC) Object {
	return n.create("CreateDepthStencilState", desc.DepthEnable, desc.DepthFunc, desc.StencilEnable)
}

func (n *TraceNative) CreateBlendState(desc BLEND_DESC) Object {
	return n.create("CreateBlendState", desc.AlphaToCoverageEnable, desc.RenderTarget[0].BlendEnable)
}

func (n *TraceNative) CreateSwapChain(width, height uint32, format DXGI_FORMAT) Object {
	return n.create("CreateSwapChain", width, height, format)
}

func (n *TraceNative) Release(obj Object) { n.rec.Record("Release", obj) }

func (n *TraceNative) IASetInputLayout(layout Object) { n.record("IASetInputLayout", layout) }

func (n *TraceNative) IASetVertexBuffers(start uint32, buffers []Object, strides, offsets []uint32) {
	n.record("IASetVertexBuffers", start, buffers, strides, offsets)
}

func (n *TraceNative) IASetIndexBuffer(buf Object, format DXGI_FORMAT, offset uint32) {
	n.record("IASetIndexBuffer", buf, format, offset)
}

func (n *TraceNative) IASetPrimitiveTopology(t PRIMITIVE_TOPOLOGY) {
	n.record("IASetPrimitiveTopology", t)
}

func (n *TraceNative) SetShader(stage Stage, sh Object) { n.record(stage.String()+"SetShader", sh) }

func (n *TraceNative) SetConstantBuffers(stage Stage, start uint32, buffers []Object) {
	n.record(stage.String()+"SetConstantBuffers", start, buffers)
}

func (n *TraceNative) SetShaderConstantF(stage Stage, start uint32, data []float32) {
	n.record(stage.String()+"SetShaderConstantF", start, len(data)/4)
}

func (n *TraceNative) SetShaderResources(stage Stage, start uint32, views []Object) {
	n.record(stage.String()+"SetShaderResources", start, views)
}

func (n *TraceNative) SetSamplers(stage Stage, start uint32, samplers []Object) {
	n.record(stage.String()+"SetSamplers", start, samplers)
}

func (n *TraceNative) OMSetUnorderedAccessViews(start uint32, views []Object) {
	n.record("OMSetUnorderedAccessViews", start, views)
}

func (n *TraceNative) RSSetState(state Object)             { n.record("RSSetState", state) }
func (n *TraceNative) RSSetViewports(viewports []VIEWPORT) { n.record("RSSetViewports", viewports) }
func (n *TraceNative) RSSetScissorRects(rects []RECT)      { n.record("RSSetScissorRects", rects) }

func (n *TraceNative) OMSetDepthStencilState(state Object, stencilRef uint32) {
	n.record("OMSetDepthStencilState", state, stencilRef)
}

func (n *TraceNative) OMSetBlendState(state Object, factor [4]float32, sampleMask uint32) {
	n.record("OMSetBlendState", state, factor, sampleMask)
}

func (n *TraceNative) OMSetRenderTargets(rtvs []Object, dsv Object) {
	n.record("OMSetRenderTargets", rtvs, dsv)
}

func (n *TraceNative) ClearRenderTargetView(rtv Object, color [4]float32) {
	n.record("ClearRenderTargetView", rtv, color)
}

func (n *TraceNative) ClearDepthStencilView(dsv Object, flags CLEAR_FLAG, depth float32, stencil uint8) {
	n.record("ClearDepthStencilView", dsv, flags, depth, stencil)
}

func (n *TraceNative) DrawInstanced(vertexCount, instanceCount, startVertex, startInstance uint32) {
	n.record("DrawInstanced", vertexCount, instanceCount, startVertex, startInstance)
}

func (n *TraceNative) DrawIndexedInstanced(indexCount, instanceCount, startIndex uint32, baseVertex int32, startInstance uint32) {
	n.record("DrawIndexedInstanced", indexCount, instanceCount, startIndex, baseVertex, startInstance)
}

func (n *TraceNative) UpdateSubresource(res Object, offset uint32, data []byte) {
	n.record("UpdateSubresource", res, offset, len(data))
}

func (n *TraceNative) BeginEvent(name string)   { n.record("BeginEvent", name) }
func (n *TraceNative) EndEvent()                { n.record("EndEvent") }
func (n *TraceNative) SetMarker(name string)    { n.record("SetMarker", name) }
func (n *TraceNative) Present(swapChain Object) { n.record("Present", swapChain) }
