//go:build !nogpu

package hal

import (
	"github.com/gogpu/gputypes"
	gpuhal "github.com/gogpu/wgpu/hal"

	"github.com/gogpu/rhi"
	"github.com/gogpu/rhi/internal/native"
)

// executor implements rhi.Executor for a Device.
//
// A submission records into one command encoder. Render passes begin lazily
// at the first draw after the render target changes, loading the
// attachments, or at a clear, clearing them. Descriptor tables, the render
// pipeline, vertex buffers, the viewport and the scissor are applied at draw
// time, and all of them are applied again in a new pass.
type executor struct {
	dev *Device

	encoder gpuhal.CommandEncoder
	pass    gpuhal.RenderPassEncoder

	colors        []gpuhal.TextureView
	depth         gpuhal.TextureView
	stencil       bool
	width, height uint32

	tables []rhi.Resource
	dirty  []bool

	viewport    rhi.Viewport
	hasViewport bool
	scissor     rhi.ScissorRectangle
	hasScissor  bool

	// Bound in the current pass.
	render        gpuhal.RenderPipeline
	set           *layoutSet
	vertexArray   rhi.VertexArray
	vertexLayout  *pipeline
	viewportDirty bool
	scissorDirty  bool
	scissorOn     bool

	events []string
}

func (e *executor) DrawState() *rhi.DrawState { return &e.dev.state }

// begin opens the command encoder of a submission.
func (e *executor) begin() bool {
	enc, err := e.dev.device.CreateCommandEncoder(&gpuhal.CommandEncoderDescriptor{Label: e.dev.opts.Label})
	if err != nil {
		e.dev.warn("command encoder creation failed", "err", err)
		return false
	}
	if err := enc.BeginEncoding(e.dev.opts.Label); err != nil {
		enc.Destroy()
		e.dev.warn("command encoding failed", "err", err)
		return false
	}
	e.encoder = enc
	return true
}

// end closes the open pass and submits the encoder.
func (e *executor) end() {
	if e.encoder == nil {
		return
	}
	e.endPass()
	enc := e.encoder
	e.encoder = nil
	cmd, err := enc.EndEncoding()
	if err != nil {
		enc.Destroy()
		e.dev.warn("command encoding failed", "err", err)
		return
	}
	index, err := e.dev.queue.Submit([]gpuhal.CommandBuffer{cmd})
	if err != nil {
		e.dev.device.FreeCommandBuffer(cmd)
		enc.Destroy()
		e.dev.warn("submission failed", "err", err)
		return
	}
	e.dev.track(index, enc, cmd)
}

func (e *executor) endPass() {
	if e.pass != nil {
		e.pass.End()
		e.pass = nil
	}
}

// beginPass opens a pass on the bound render target, clearing the planes in
// flags.
func (e *executor) beginPass(flags rhi.ClearFlag, color [4]float32, depth float32, stencil uint32) bool {
	e.endPass()
	if e.encoder == nil || (len(e.colors) == 0 && e.depth == nil) {
		return false
	}
	desc := &gpuhal.RenderPassDescriptor{Label: e.dev.opts.Label}
	for _, v := range e.colors {
		a := gpuhal.RenderPassColorAttachment{View: v, LoadOp: gputypes.LoadOpLoad, StoreOp: gputypes.StoreOpStore}
		if flags&rhi.ClearColor != 0 {
			a.LoadOp = gputypes.LoadOpClear
			a.ClearValue = gputypes.Color{
				R: float64(color[0]), G: float64(color[1]), B: float64(color[2]), A: float64(color[3]),
			}
		}
		desc.ColorAttachments = append(desc.ColorAttachments, a)
	}
	if e.depth != nil {
		ds := &gpuhal.RenderPassDepthStencilAttachment{
			View:            e.depth,
			DepthLoadOp:     gputypes.LoadOpLoad,
			DepthStoreOp:    gputypes.StoreOpStore,
			DepthClearValue: depth,
		}
		if flags&rhi.ClearDepth != 0 {
			ds.DepthLoadOp = gputypes.LoadOpClear
		}
		if e.stencil {
			ds.StencilLoadOp, ds.StencilStoreOp = gputypes.LoadOpLoad, gputypes.StoreOpStore
			ds.StencilClearValue = stencil
			if flags&rhi.ClearStencil != 0 {
				ds.StencilLoadOp = gputypes.LoadOpClear
			}
		}
		desc.DepthStencilAttachment = ds
	}
	e.pass = e.encoder.BeginRenderPass(desc)
	e.render, e.set, e.vertexArray, e.vertexLayout = nil, nil, nil, nil
	e.viewportDirty, e.scissorDirty = true, true
	for i := range e.dirty {
		e.dirty[i] = true
	}
	return true
}

// reset releases the held tables and drops an open encoder.
func (e *executor) reset() {
	for i, res := range e.tables {
		rhi.Release(res)
		e.tables[i] = nil
	}
	e.tables = e.tables[:0]
	e.dirty = e.dirty[:0]
	e.endPass()
	if e.encoder != nil {
		e.encoder.DiscardEncoding()
		e.encoder.Destroy()
		e.encoder = nil
	}
}

func (e *executor) SetGraphicsRootSignature(rs rhi.RootSignature) {
	for i, res := range e.tables {
		rhi.Release(res)
		e.tables[i] = nil
	}
	e.tables, e.dirty = e.tables[:0], e.dirty[:0]
	if rs == nil {
		return
	}
	n := len(rs.Desc().Parameters)
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

// SetPipelineState, SetVertexArray and SetPrimitiveTopology take effect at
// the next draw, which reads them from the draw state.
func (e *executor) SetPipelineState(rhi.PipelineState)              {}
func (e *executor) SetVertexArray(rhi.VertexArray)                  {}
func (e *executor) SetPrimitiveTopology(gputypes.PrimitiveTopology) {}

// SetViewports keeps the first viewport; HAL devices have one.
func (e *executor) SetViewports(viewports []rhi.Viewport) {
	e.hasViewport = len(viewports) > 0
	if e.hasViewport {
		e.viewport = viewports[0]
	}
	e.viewportDirty = true
}

func (e *executor) SetScissorRectangles(rects []rhi.ScissorRectangle) {
	e.hasScissor = len(rects) > 0
	if e.hasScissor {
		e.scissor = rects[0]
	}
	e.scissorDirty = true
}

// SetRenderTarget closes the open pass. The next pass takes the size of the
// smallest attachment.
func (e *executor) SetRenderTarget(rt rhi.RenderTarget) {
	e.endPass()
	e.colors, e.depth, e.stencil = e.colors[:0], nil, false
	e.width, e.height = 0, 0
	switch t := rt.(type) {
	case *native.Framebuffer:
		for _, c := range t.ColorTextures() {
			if obj := e.dev.objectOf(c); obj != nil {
				e.colors = append(e.colors, obj.view)
				e.fit(c.Width(), c.Height())
			}
		}
		if ds := t.DepthStencilTexture(); ds != nil {
			if obj := e.dev.objectOf(ds); obj != nil {
				e.depth, e.stencil = obj.view, obj.format.HasStencil()
				e.fit(ds.Width(), ds.Height())
			}
		}
	case *native.SwapChain:
		if obj := e.dev.objectOf(t); obj != nil {
			e.colors = append(e.colors, obj.view)
			e.fit(t.Size())
		}
	}
}

func (e *executor) fit(w, h uint32) {
	if e.width == 0 || w < e.width {
		e.width = w
	}
	if e.height == 0 || h < e.height {
		e.height = h
	}
}

// ClearRenderTarget starts a new pass that clears the planes in flags.
func (e *executor) ClearRenderTarget(flags rhi.ClearFlag, color [4]float32, depth float32, stencil uint32) {
	if flags&rhi.ClearAll == 0 {
		return
	}
	if !e.beginPass(flags, color, depth, stencil) {
		e.dev.warn("clear without render target")
	}
}

func (e *executor) Draw(args []rhi.DrawArguments) {
	if !e.prepare(false) {
		return
	}
	for _, a := range args {
		e.pass.Draw(a.VertexCountPerInstance, a.InstanceCount, a.StartVertexLocation, a.StartInstanceLocation)
	}
}

func (e *executor) DrawIndexed(args []rhi.DrawIndexedArguments) {
	if !e.prepare(true) {
		return
	}
	for _, a := range args {
		e.pass.DrawIndexed(a.IndexCountPerInstance, a.InstanceCount, a.StartIndexLocation,
			a.BaseVertexLocation, a.StartInstanceLocation)
	}
}

// prepare brings the pass up to the draw state, beginning one when none is
// open. It reports whether the draw can be issued.
func (e *executor) prepare(indexed bool) bool {
	st := e.DrawState()
	ps := st.PipelineState()
	pl := e.dev.pipelineOf(ps)
	if pl == nil {
		e.dev.warn("draw with a foreign pipeline state")
		return false
	}
	top, _ := st.Topology()
	if !ps.TopologyType().Accepts(top) {
		e.dev.warn("topology outside the pipeline topology type", "topology", top, "type", ps.TopologyType())
		return false
	}
	va := st.VertexArray()
	if indexed && va.IndexBuffer() == nil {
		e.dev.warn("indexed draw without index buffer")
		return false
	}
	if e.pass == nil && !e.beginPass(0, [4]float32{}, 0, 0) {
		e.dev.warn("draw without render target")
		return false
	}

	render, err := e.dev.renderPipeline(pl, top)
	if err != nil {
		e.dev.warn("render pipeline creation failed", "topology", top, "err", err)
		return false
	}
	if render != e.render {
		e.pass.SetPipeline(render)
		e.render = render
	}
	e.bindTables(pl.set)
	e.bindVertices(pl, va)
	e.applyRects(pl)
	return true
}

// bindTables sets the bind groups of the dirty descriptor tables. A set
// change makes every table dirty and binds the static samplers.
func (e *executor) bindTables(set *layoutSet) {
	if set != e.set {
		e.set = set
		for i := range e.dirty {
			e.dirty[i] = true
		}
		if set.static != nil {
			e.pass.SetBindGroup(uint32(len(set.groups)-1), set.static, nil)
		}
	}
	for i, dirty := range e.dirty {
		if !dirty || i >= set.params {
			continue
		}
		e.dirty[i] = false
		res := e.tables[i]
		if res == nil && len(set.entries[i]) > 0 {
			continue
		}
		g, err := e.dev.bindGroup(set, uint32(i), res)
		if err != nil {
			e.dev.warn("descriptor table bind failed", "parameter", i, "err", err)
			continue
		}
		e.pass.SetBindGroup(uint32(i), g, nil)
	}
}

// bindVertices binds the buffers of va at the HAL slots of pl.
func (e *executor) bindVertices(pl *pipeline, va rhi.VertexArray) {
	if va == e.vertexArray && pl == e.vertexLayout {
		return
	}
	e.vertexArray, e.vertexLayout = va, pl
	vbs := va.VertexBuffers()
	for i, slot := range pl.slots {
		if int(slot) >= len(vbs) {
			continue
		}
		vb := vbs[slot]
		if obj := e.dev.objectOf(vb.Buffer); obj != nil && obj.buffer != nil {
			e.pass.SetVertexBuffer(uint32(i), obj.buffer, uint64(vb.Offset))
		}
	}
	if ib := va.IndexBuffer(); ib != nil {
		if obj := e.dev.objectOf(ib); obj != nil && obj.buffer != nil {
			e.pass.SetIndexBuffer(obj.buffer, ib.IndexFormat(), 0)
		}
	}
}

// applyRects sets the viewport, defaulting to the whole target, and the
// scissor, which covers the whole target unless the pipeline enables it.
func (e *executor) applyRects(pl *pipeline) {
	if e.viewportDirty {
		e.viewportDirty = false
		vp := e.viewport
		if !e.hasViewport {
			vp = rhi.Viewport{Width: float32(e.width), Height: float32(e.height), MaxDepth: 1}
		}
		e.pass.SetViewport(vp.X, vp.Y, vp.Width, vp.Height, vp.MinDepth, vp.MaxDepth)
	}
	if !e.scissorDirty && pl.scissor == e.scissorOn {
		return
	}
	e.scissorDirty, e.scissorOn = false, pl.scissor
	if pl.scissor && e.hasScissor {
		e.pass.SetScissorRect(clampScissor(e.scissor, e.width, e.height))
		return
	}
	e.pass.SetScissorRect(0, 0, e.width, e.height)
}

// clampScissor clips r to a w by h target.
func clampScissor(r rhi.ScissorRectangle, w, h uint32) (x, y, width, height uint32) {
	x0 := min(max(int64(r.X), 0), int64(w))
	y0 := min(max(int64(r.Y), 0), int64(h))
	x1 := min(max(int64(r.X)+int64(r.Width), x0), int64(w))
	y1 := min(max(int64(r.Y)+int64(r.Height), y0), int64(h))
	return uint32(x0), uint32(y0), uint32(x1 - x0), uint32(y1 - y0)
}

// UpdateBuffer submits the work recorded so far, writes data through the
// queue and continues in a new encoder, so draws before the update read the
// old contents.
func (e *executor) UpdateBuffer(buf rhi.Buffer, offset uint32, data []byte) {
	obj := e.dev.objectOf(buf)
	if obj == nil || obj.buffer == nil || len(data) == 0 {
		return
	}
	if offset%4 != 0 || uint64(offset)+uint64(len(data)) > obj.size {
		e.dev.warn("buffer update out of range", "offset", offset, "size", len(data))
		return
	}
	e.end()
	if err := e.dev.queue.WriteBuffer(obj.buffer, uint64(offset), padded(data)); err != nil {
		e.dev.warn("buffer update failed", "err", err)
	}
	e.begin()
}

// The HAL has no debug label commands; markers and events go to the logger.

func (e *executor) SetDebugMarker(name string) {
	if e.dev.opts.DebugMarkers {
		e.dev.opts.Log().Debug("rhi: marker", "backend", e.dev.name, "name", name)
	}
}

func (e *executor) BeginDebugEvent(name string) {
	if e.dev.opts.DebugMarkers {
		e.events = append(e.events, name)
		e.dev.opts.Log().Debug("rhi: begin event", "backend", e.dev.name, "name", name, "depth", len(e.events))
	}
}

func (e *executor) EndDebugEvent() {
	if !e.dev.opts.DebugMarkers || len(e.events) == 0 {
		return
	}
	name := e.events[len(e.events)-1]
	e.events = e.events[:len(e.events)-1]
	e.dev.opts.Log().Debug("rhi: end event", "backend", e.dev.name, "name", name, "depth", len(e.events)+1)
}
