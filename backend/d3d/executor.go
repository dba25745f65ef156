package d3d

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/rhi"
	"github.com/gogpu/rhi/internal/binding"
	"github.com/gogpu/rhi/internal/native"
)

// executor implements rhi.Executor for a Device.
//
// Descriptor table binds are deferred like on the name-based backend: they
// are stored per root parameter and flushed to their slots in parameter
// order before the next draw.
type executor struct {
	dev *Device

	layout *signatureLayout
	tables []rhi.Resource
	dirty  []bool

	rtvs []Object
	dsv  Object
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
	n := e.dev.d3d
	var pl *pipeline
	if p, ok := ps.(*native.PipelineState); ok {
		e.dev.mu.RLock()
		pl = e.dev.pipelines[p]
		e.dev.mu.RUnlock()
	}
	for s := range Stage(rhi.NumStages) {
		if !e.dev.version.Supports(s) {
			continue
		}
		var sh Object
		if pl != nil {
			sh = pl.prog.shaders[s]
		}
		n.SetShader(s, sh)
	}
	if pl == nil {
		return
	}
	n.IASetInputLayout(pl.inputLayout)
	n.RSSetState(pl.rasterizer)
	n.OMSetDepthStencilState(pl.depthStencil, 0)
	n.OMSetBlendState(pl.blend, [4]float32{}, 0xFFFFFFFF)
}

func (e *executor) SetVertexArray(va rhi.VertexArray) {
	n := e.dev.d3d
	if va == nil {
		return
	}
	vbs := va.VertexBuffers()
	bufs := make([]Object, len(vbs))
	strides := make([]uint32, len(vbs))
	offsets := make([]uint32, len(vbs))
	for i, vb := range vbs {
		bufs[i] = Object(native.HandleOf(vb.Buffer))
		strides[i] = vb.Stride
		offsets[i] = vb.Offset
	}
	for _, a := range va.Attributes() {
		if int(a.InputSlot) < len(strides) && strides[a.InputSlot] == 0 {
			strides[a.InputSlot] = a.Stride
		}
	}
	if len(bufs) > 0 {
		n.IASetVertexBuffers(0, bufs, strides, offsets)
	}
	if ib := va.IndexBuffer(); ib != nil {
		f, _, _ := indexFormat(ib.IndexFormat())
		n.IASetIndexBuffer(Object(native.HandleOf(ib)), f, 0)
	}
}

func (e *executor) SetPrimitiveTopology(t gputypes.PrimitiveTopology) {
	top, ok := topology(t)
	if !ok {
		e.dev.warn("unsupported primitive topology", "topology", t)
	}
	e.dev.d3d.IASetPrimitiveTopology(top)
}

func (e *executor) SetViewports(viewports []rhi.Viewport) {
	n := min(len(viewports), int(e.dev.caps.MaxViewports))
	vps := make([]VIEWPORT, n)
	for i, vp := range viewports[:n] {
		vps[i] = VIEWPORT{
			TopLeftX: vp.X, TopLeftY: vp.Y, Width: vp.Width, Height: vp.Height,
			MinDepth: vp.MinDepth, MaxDepth: vp.MaxDepth,
		}
	}
	e.dev.d3d.RSSetViewports(vps)
}

func (e *executor) SetScissorRectangles(rects []rhi.ScissorRectangle) {
	n := min(len(rects), int(e.dev.caps.MaxViewports))
	out := make([]RECT, n)
	for i, r := range rects[:n] {
		out[i] = RECT{Left: r.X, Top: r.Y, Right: r.X + r.Width, Bottom: r.Y + r.Height}
	}
	e.dev.d3d.RSSetScissorRects(out)
}

func (e *executor) SetRenderTarget(rt rhi.RenderTarget) {
	e.rtvs, e.dsv = e.rtvs[:0], 0
	switch t := rt.(type) {
	case *native.Framebuffer:
		for _, c := range t.ColorTextures() {
			e.rtvs = append(e.rtvs, e.dev.viewsOf(c).rtv)
		}
		if ds := t.DepthStencilTexture(); ds != nil {
			e.dsv = e.dev.viewsOf(ds).dsv
		}
	case *native.SwapChain:
		e.rtvs = append(e.rtvs, e.dev.viewsOf(t).rtv)
	}
	e.dev.d3d.OMSetRenderTargets(e.rtvs, e.dsv)
}

func (e *executor) ClearRenderTarget(flags rhi.ClearFlag, color [4]float32, depth float32, stencil uint32) {
	n := e.dev.d3d
	if flags&rhi.ClearColor != 0 {
		for _, rtv := range e.rtvs {
			if rtv != 0 {
				n.ClearRenderTargetView(rtv, color)
			}
		}
	}
	var ds CLEAR_FLAG
	if flags&rhi.ClearDepth != 0 {
		ds |= CLEAR_DEPTH
	}
	if flags&rhi.ClearStencil != 0 {
		ds |= CLEAR_STENCIL
	}
	if ds != 0 && e.dsv != 0 {
		n.ClearDepthStencilView(e.dsv, ds, depth, uint8(stencil))
	}
}

func (e *executor) Draw(args []rhi.DrawArguments) {
	e.flush()
	for _, a := range args {
		e.dev.d3d.DrawInstanced(a.VertexCountPerInstance, a.InstanceCount, a.StartVertexLocation, a.StartInstanceLocation)
	}
}

func (e *executor) DrawIndexed(args []rhi.DrawIndexedArguments) {
	e.flush()
	for _, a := range args {
		e.dev.d3d.DrawIndexedInstanced(a.IndexCountPerInstance, a.InstanceCount, a.StartIndexLocation,
			a.BaseVertexLocation, a.StartInstanceLocation)
	}
}

// UpdateBuffer writes data at offset. Direct3D 9 uniform buffers update
// their shadow, and every table holding one is uploaded again.
func (e *executor) UpdateBuffer(buf rhi.Buffer, offset uint32, data []byte) {
	if buf == nil {
		return
	}
	h := native.HandleOf(buf)
	if e.dev.version != Version9 || buf.ResourceType() != rhi.ResourceUniformBuffer {
		e.dev.d3d.UpdateSubresource(Object(h), offset, data)
		return
	}
	e.dev.mu.Lock()
	if shadow := e.dev.shadows[h]; int(offset) < len(shadow) {
		copy(shadow[offset:], data)
	}
	e.dev.mu.Unlock()
	for i, res := range e.tables {
		if res != nil && native.HandleOf(res) == h && res.ResourceType() == rhi.ResourceUniformBuffer {
			e.dirty[i] = true
		}
	}
}

func (e *executor) SetDebugMarker(name string) {
	if e.dev.opts.DebugMarkers {
		e.dev.d3d.SetMarker(name)
	}
}

func (e *executor) BeginDebugEvent(name string) {
	if e.dev.opts.DebugMarkers {
		e.dev.d3d.BeginEvent(name)
	}
}

func (e *executor) EndDebugEvent() {
	if e.dev.opts.DebugMarkers {
		e.dev.d3d.EndEvent()
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
		for _, sb := range binding.ParameterSlots(e.layout.slots, uint32(i)) {
			e.bind(sb, e.tables[i])
		}
		e.dirty[i] = false
	}
}

// bind binds res at the slot of sb in every stage sb is visible to. A nil
// res unbinds the slot.
func (e *executor) bind(sb binding.SlotBinding, res rhi.Resource) {
	n := e.dev.d3d
	v := e.dev.version
	if sb.Class == binding.ClassUAV {
		if v < Version11 {
			e.dev.warn("unordered access views unsupported", "slot", sb)
			return
		}
		n.OMSetUnorderedAccessViews(sb.Slot, []Object{e.dev.viewsOf(res).uav})
		return
	}
	obj := Object(native.HandleOf(res))
	bound := false
	for s := range Stage(rhi.NumStages) {
		if !sb.Stages.Has(rhi.ShaderStage(s)) || !v.Supports(s) {
			continue
		}
		bound = true
		switch sb.Class {
		case binding.ClassConstant:
			if v == Version9 {
				n.SetShaderConstantF(s, sb.Slot, e.constants(res))
				continue
			}
			n.SetConstantBuffers(s, sb.Slot, []Object{obj})
		case binding.ClassTexture:
			n.SetShaderResources(s, sb.Slot, []Object{e.dev.viewsOf(res).srv})
		case binding.ClassSampler:
			if v != Version9 {
				n.SetSamplers(s, sb.Slot, []Object{obj})
				continue
			}
			for _, slot := range e.layout.coupled[sb.Parameter] {
				n.SetSamplers(s, slot, []Object{obj})
			}
		}
	}
	if !bound {
		e.dev.warn("binding visible to no supported stage", "slot", sb)
	}
}

// constants returns the shadow of a Direct3D 9 uniform buffer as float4
// registers.
func (e *executor) constants(res rhi.Resource) []float32 {
	if res == nil {
		return nil
	}
	e.dev.mu.RLock()
	defer e.dev.mu.RUnlock()
	shadow := e.dev.shadows[native.HandleOf(res)]
	out := make([]float32, len(shadow)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(shadow[i*4:]))
	}
	return out
}
