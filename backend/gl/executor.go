package gl

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/rhi"
	"github.com/gogpu/rhi/internal/binding"
	"github.com/gogpu/rhi/internal/native"
)

// executor implements rhi.Executor for a Device.
//
// Descriptor table binds are deferred: they are stored per root parameter
// and flushed in parameter order before the next draw. A texture and the
// sampler coupled to it therefore reach the native API in the same order
// whichever was bound first.
type executor struct {
	dev *Device

	layout *signatureLayout
	tables []rhi.Resource
	dirty  []bool

	mode      Enum
	indexType Enum
	indexSize uint32
}

func (e *executor) DrawState() *rhi.DrawState { return &e.dev.state }

func (e *executor) reset() {
	for i, res := range e.tables {
		rhi.Release(res)
		e.tables[i] = nil
	}
	e.tables = e.tables[:0]
	e.dirty = e.dirty[:0]
	e.layout = nil
}

func (e *executor) SetGraphicsRootSignature(rs rhi.RootSignature) {
	e.reset()
	nrs, ok := rs.(*native.RootSignature)
	if !ok {
		return
	}
	e.layout = e.dev.layoutOf(nrs)
	n := len(nrs.Desc().Parameters)
	e.tables = append(e.tables, make([]rhi.Resource, n)...)
	e.dirty = append(e.dirty, make([]bool, n)...)
}

func (e *executor) SetGraphicsRootDescriptorTable(index uint32, res rhi.Resource) {
	if int(index) >= len(e.tables) {
		return
	}
	old := e.tables[index]
	e.tables[index] = rhi.Retain(res)
	rhi.Release(old)
	e.dirty[index] = true
}

func (e *executor) SetPipelineState(ps rhi.PipelineState) {
	gl := e.dev.gl
	p, ok := ps.(*native.PipelineState)
	if !ok {
		gl.UseProgram(0)
		return
	}
	gl.UseProgram(Program(native.HandleOf(p.Program())))
	e.applyRasterizer(p.Desc.Rasterizer)
	e.applyDepthStencil(p.Desc.DepthStencil)
	e.applyBlend(&p.Desc)
}

func (e *executor) applyRasterizer(r rhi.RasterizerState) {
	gl := e.dev.gl
	if face, _ := cullFace(r.CullMode); face == 0 {
		gl.Disable(CULL_FACE)
	} else {
		gl.Enable(CULL_FACE)
		gl.CullFace(face)
	}
	ff, _ := frontFace(r.FrontFace)
	gl.FrontFace(ff)
	if r.FillMode == rhi.FillWireframe {
		gl.PolygonMode(LINE)
	} else {
		gl.PolygonMode(FILL)
	}
	if r.DepthBias != 0 || r.SlopeScaledDepthBias != 0 {
		gl.Enable(POLYGON_OFFSET_FILL)
		gl.PolygonOffset(r.SlopeScaledDepthBias, float32(r.DepthBias))
	} else {
		gl.Disable(POLYGON_OFFSET_FILL)
	}
	enable(gl, DEPTH_CLAMP, !r.DepthClipEnable)
	enable(gl, SCISSOR_TEST, r.ScissorEnable)
	enable(gl, MULTISAMPLE, r.MultisampleEnable)
}

func (e *executor) applyDepthStencil(ds *gputypes.DepthStencilState) {
	gl := e.dev.gl
	if ds == nil {
		gl.Disable(DEPTH_TEST)
		gl.Disable(STENCIL_TEST)
		return
	}
	gl.Enable(DEPTH_TEST)
	fn, _ := compareFunc(ds.DepthCompare)
	gl.DepthFunc(fn)
	gl.DepthMask(ds.DepthWriteEnabled)

	if ds.StencilReadMask == 0 && ds.StencilWriteMask == 0 {
		gl.Disable(STENCIL_TEST)
		return
	}
	gl.Enable(STENCIL_TEST)
	gl.StencilMask(ds.StencilWriteMask)
	for _, f := range []struct {
		face  Enum
		state gputypes.StencilFaceState
	}{{FRONT, ds.StencilFront}, {BACK, ds.StencilBack}} {
		cmp, _ := compareFunc(f.state.Compare)
		fail, _ := stencilOp(f.state.FailOp)
		dfail, _ := stencilOp(f.state.DepthFailOp)
		pass, _ := stencilOp(f.state.PassOp)
		gl.StencilFuncSeparate(f.face, cmp, 0, ds.StencilReadMask)
		gl.StencilOpSeparate(f.face, fail, dfail, pass)
	}
}

func (e *executor) applyBlend(desc *rhi.PipelineStateDesc) {
	gl := e.dev.gl
	enable(gl, SAMPLE_ALPHA_TO_COVERAGE, desc.Blend.AlphaToCoverage)
	blending := false
	for i, t := range desc.ColorTargets() {
		buf := uint32(i)
		m := t.WriteMask
		gl.ColorMaski(buf,
			m&gputypes.ColorWriteMaskRed != 0, m&gputypes.ColorWriteMaskGreen != 0,
			m&gputypes.ColorWriteMaskBlue != 0, m&gputypes.ColorWriteMaskAlpha != 0)
		if t.Blend == nil {
			continue
		}
		blending = true
		srcRGB, _ := blendFactor(t.Blend.Color.SrcFactor)
		dstRGB, _ := blendFactor(t.Blend.Color.DstFactor)
		srcA, _ := blendFactor(t.Blend.Alpha.SrcFactor)
		dstA, _ := blendFactor(t.Blend.Alpha.DstFactor)
		opRGB, _ := blendOp(t.Blend.Color.Operation)
		opA, _ := blendOp(t.Blend.Alpha.Operation)
		gl.BlendFuncSeparatei(buf, srcRGB, dstRGB, srcA, dstA)
		gl.BlendEquationSeparatei(buf, opRGB, opA)
	}
	enable(gl, BLEND, blending)
}

func enable(gl Native, capability Enum, on bool) {
	if on {
		gl.Enable(capability)
	} else {
		gl.Disable(capability)
	}
}

func (e *executor) SetVertexArray(va rhi.VertexArray) {
	e.dev.gl.BindVertexArray(VertexArray(native.HandleOf(va)))
	e.indexType, e.indexSize = UNSIGNED_SHORT, 2
	if va != nil && va.IndexBuffer() != nil {
		e.indexType, e.indexSize, _ = indexType(va.IndexBuffer().IndexFormat())
	}
}

func (e *executor) SetPrimitiveTopology(t gputypes.PrimitiveTopology) {
	mode, ok := topology(t)
	if !ok {
		e.dev.warn("unsupported primitive topology", "topology", t)
	}
	e.mode = mode
}

func (e *executor) SetViewports(viewports []rhi.Viewport) {
	for i, vp := range viewports {
		e.dev.gl.ViewportIndexedf(uint32(i), vp.X, vp.Y, vp.Width, vp.Height)
		e.dev.gl.DepthRangeIndexed(uint32(i), float64(vp.MinDepth), float64(vp.MaxDepth))
	}
}

func (e *executor) SetScissorRectangles(rects []rhi.ScissorRectangle) {
	for i, r := range rects {
		e.dev.gl.ScissorIndexed(uint32(i), r.X, r.Y, r.Width, r.Height)
	}
}

func (e *executor) SetRenderTarget(rt rhi.RenderTarget) {
	var fb Framebuffer
	if f, ok := rt.(*native.Framebuffer); ok {
		fb = Framebuffer(f.Handle)
	}
	e.dev.gl.BindFramebuffer(fb)
}

func (e *executor) ClearRenderTarget(flags rhi.ClearFlag, color [4]float32, depth float32, stencil uint32) {
	gl := e.dev.gl
	var mask Enum
	if flags&rhi.ClearColor != 0 {
		gl.ClearColor(color[0], color[1], color[2], color[3])
		mask |= COLOR_BUFFER_BIT
	}
	if flags&rhi.ClearDepth != 0 {
		gl.ClearDepthf(depth)
		mask |= DEPTH_BUFFER_BIT
	}
	if flags&rhi.ClearStencil != 0 {
		gl.ClearStencil(int32(stencil))
		mask |= STENCIL_BUFFER_BIT
	}
	if mask != 0 {
		gl.Clear(mask)
	}
}

func (e *executor) Draw(args []rhi.DrawArguments) {
	e.flush()
	for _, a := range args {
		e.dev.gl.DrawArraysInstancedBaseInstance(e.mode, a.StartVertexLocation, a.VertexCountPerInstance,
			a.InstanceCount, a.StartInstanceLocation)
	}
}

func (e *executor) DrawIndexed(args []rhi.DrawIndexedArguments) {
	e.flush()
	for _, a := range args {
		offset := uintptr(a.StartIndexLocation) * uintptr(e.indexSize)
		e.dev.gl.DrawElementsInstancedBaseVertexBaseInstance(e.mode, a.IndexCountPerInstance, e.indexType, offset,
			a.InstanceCount, a.BaseVertexLocation, a.StartInstanceLocation)
	}
}

func (e *executor) UpdateBuffer(buf rhi.Buffer, offset uint32, data []byte) {
	e.dev.gl.BufferSubData(Buffer(native.HandleOf(buf)), offset, data)
}

func (e *executor) SetDebugMarker(name string) {
	if e.dev.opts.DebugMarkers {
		e.dev.gl.DebugMessageInsert(name)
	}
}

func (e *executor) BeginDebugEvent(name string) {
	if e.dev.opts.DebugMarkers {
		e.dev.gl.PushDebugGroup(name)
	}
}

func (e *executor) EndDebugEvent() {
	if e.dev.opts.DebugMarkers {
		e.dev.gl.PopDebugGroup()
	}
}

// flush binds the dirty descriptor tables in parameter order.
func (e *executor) flush() {
	if e.layout == nil {
		return
	}
	for i, dirty := range e.dirty {
		if !dirty {
			continue
		}
		for _, nb := range binding.ParameterNames(e.layout.names, uint32(i)) {
			e.bind(nb, e.tables[i])
		}
		e.dirty[i] = false
	}
}

// bind binds res to the unit of nb. A nil res unbinds the unit.
func (e *executor) bind(nb binding.NamedBinding, res rhi.Resource) {
	gl := e.dev.gl
	h := native.HandleOf(res)
	switch nb.Kind {
	case binding.UnitTexture:
		tex := Texture(h)
		if res != nil && res.ResourceType() == rhi.ResourceTextureBuffer {
			tex = e.dev.textureOf(h)
		}
		gl.BindTextureUnit(nb.Unit, tex)
	case binding.UnitUniformBlock:
		gl.BindBufferBase(UNIFORM_BUFFER, nb.Unit, Buffer(h))
	case binding.UnitImage:
		if t, ok := res.(rhi.Texture); ok {
			tf, _ := convertTextureFormat(t.Format())
			gl.BindImageTexture(nb.Unit, Texture(h), READ_WRITE, tf.internal)
			return
		}
		gl.BindBufferBase(SHADER_STORAGE_BUFFER, nb.Unit, Buffer(h))
	case binding.UnitSampler:
		for _, unit := range nb.CoupledUnits {
			gl.BindSampler(unit, Sampler(h))
		}
	}
}
