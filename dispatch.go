package rhi

import (
	"math"

	"github.com/gogpu/gputypes"
)

// Executor is the per-backend target of command dispatch. Each backend
// implements it once; CommandBuffer.Execute drives it.
//
// Binding commands reach the executor after DrawState has been updated, so
// an executor can read the new state from DrawState. Draw commands reach the
// executor only when DrawState is drawable.
//
// Slices passed to an executor are only valid for the duration of the call.
type Executor interface {
	// DrawState returns the device's draw state machine.
	DrawState() *DrawState

	SetGraphicsRootSignature(rs RootSignature)
	SetGraphicsRootDescriptorTable(index uint32, res Resource)
	SetPipelineState(ps PipelineState)
	SetVertexArray(va VertexArray)
	SetPrimitiveTopology(t gputypes.PrimitiveTopology)
	SetViewports(viewports []Viewport)
	SetScissorRectangles(rects []ScissorRectangle)
	SetRenderTarget(rt RenderTarget)
	ClearRenderTarget(flags ClearFlag, color [4]float32, depth float32, stencil uint32)
	Draw(args []DrawArguments)
	DrawIndexed(args []DrawIndexedArguments)
	UpdateBuffer(buf Buffer, offset uint32, data []byte)
	SetDebugMarker(name string)
	BeginDebugEvent(name string)
	EndDebugEvent()
}

// dispatchFunc executes one packet against an executor.
type dispatchFunc func(e Executor, cb *CommandBuffer, p *packet)

// dispatchTable maps each command type to its dispatch function. It is
// indexed when a command is recorded.
var dispatchTable = [commandTypeCount]dispatchFunc{
	CmdSetGraphicsRootSignature:       dispatchSetGraphicsRootSignature,
	CmdSetGraphicsRootDescriptorTable: dispatchSetGraphicsRootDescriptorTable,
	CmdSetPipelineState:               dispatchSetPipelineState,
	CmdSetVertexArray:                 dispatchSetVertexArray,
	CmdSetPrimitiveTopology:           dispatchSetPrimitiveTopology,
	CmdSetViewports:                   dispatchSetViewports,
	CmdSetScissorRectangles:           dispatchSetScissorRectangles,
	CmdSetRenderTarget:                dispatchSetRenderTarget,
	CmdClearRenderTarget:              dispatchClearRenderTarget,
	CmdDraw:                           dispatchDraw,
	CmdDrawIndexed:                    dispatchDrawIndexed,
	CmdUpdateBuffer:                   dispatchUpdateBuffer,
	CmdSetDebugMarker:                 dispatchSetDebugMarker,
	CmdBeginDebugEvent:                dispatchBeginDebugEvent,
	CmdEndDebugEvent:                  dispatchEndDebugEvent,
}

func dispatchSetGraphicsRootSignature(e Executor, _ *CommandBuffer, p *packet) {
	rs, _ := p.res.(RootSignature)
	e.DrawState().SetRootSignature(rs)
	e.SetGraphicsRootSignature(rs)
}

func dispatchSetGraphicsRootDescriptorTable(e Executor, _ *CommandBuffer, p *packet) {
	index := p.args[0]
	rs := e.DrawState().RootSignature()
	inRange := rs != nil && int(index) < len(rs.Desc().Parameters)
	Assertf(inRange, "root parameter %d out of range", index)
	if !inRange {
		Logger().Debug("rhi: descriptor table bind dropped", "index", index)
		return
	}
	e.SetGraphicsRootDescriptorTable(index, p.res)
}

func dispatchSetPipelineState(e Executor, _ *CommandBuffer, p *packet) {
	ps, _ := p.res.(PipelineState)
	e.DrawState().SetPipelineState(ps)
	e.SetPipelineState(ps)
}

func dispatchSetVertexArray(e Executor, _ *CommandBuffer, p *packet) {
	va, _ := p.res.(VertexArray)
	e.DrawState().SetVertexArray(va)
	e.SetVertexArray(va)
}

func dispatchSetPrimitiveTopology(e Executor, _ *CommandBuffer, p *packet) {
	t := gputypes.PrimitiveTopology(p.args[0])
	e.DrawState().SetTopology(t)
	e.SetPrimitiveTopology(t)
}

func dispatchSetViewports(e Executor, cb *CommandBuffer, p *packet) {
	e.SetViewports(cb.decodeViewports(p))
}

func dispatchSetScissorRectangles(e Executor, cb *CommandBuffer, p *packet) {
	e.SetScissorRectangles(cb.decodeScissors(p))
}

func dispatchSetRenderTarget(e Executor, _ *CommandBuffer, p *packet) {
	rt, _ := p.res.(RenderTarget)
	e.SetRenderTarget(rt)
}

func dispatchClearRenderTarget(e Executor, _ *CommandBuffer, p *packet) {
	var color [4]float32
	for i := range color {
		color[i] = math.Float32frombits(p.args[1+i])
	}
	e.ClearRenderTarget(ClearFlag(p.args[0]), color, math.Float32frombits(p.args[5]), p.args[6])
}

// drawable checks the draw prerequisites. A failed check asserts in debug
// builds and drops the draw otherwise.
func drawable(e Executor, cmd CommandType) bool {
	st := e.DrawState()
	if st.Drawable() {
		return true
	}
	Assertf(false, "%v in state %v", cmd, st.State())
	Logger().Debug("rhi: draw dropped", "cmd", cmd, "state", st.State())
	return false
}

func dispatchDraw(e Executor, cb *CommandBuffer, p *packet) {
	if drawable(e, CmdDraw) {
		e.Draw(cb.decodeDraws(p))
	}
}

func dispatchDrawIndexed(e Executor, cb *CommandBuffer, p *packet) {
	if drawable(e, CmdDrawIndexed) {
		e.DrawIndexed(cb.decodeDrawIndexed(p))
	}
}

func dispatchUpdateBuffer(e Executor, cb *CommandBuffer, p *packet) {
	buf, _ := p.res.(Buffer)
	if buf == nil {
		return
	}
	e.UpdateBuffer(buf, p.args[0], cb.updateData(p))
}

func dispatchSetDebugMarker(e Executor, cb *CommandBuffer, p *packet) {
	e.SetDebugMarker(string(cb.auxBytes(p)))
}

func dispatchBeginDebugEvent(e Executor, cb *CommandBuffer, p *packet) {
	e.BeginDebugEvent(string(cb.auxBytes(p)))
}

func dispatchEndDebugEvent(e Executor, _ *CommandBuffer, _ *packet) {
	e.EndDebugEvent()
}
