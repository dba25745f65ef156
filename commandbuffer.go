package rhi

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/gputypes"
)

// packet is one recorded command. The dispatch function is resolved from the
// command type when the packet is recorded. Variable-length payloads live in
// the buffer's auxiliary arena at [aux, aux+auxN).
type packet struct {
	fn   dispatchFunc
	cmd  CommandType
	res  Resource
	args [8]uint32
	aux  uint32
	auxN uint32
}

// CommandBuffer records rendering commands for later execution on a device.
//
// Recording appends fixed-size packets plus an optional auxiliary payload and
// never calls a backend. Execution replays the packets in recording order
// with one dispatch call each.
//
// Packets do not hold references: resources passed to a command must stay
// alive until the buffer has been submitted or cleared.
//
// A CommandBuffer is not safe for concurrent use, but distinct buffers may be
// recorded on distinct goroutines. The zero value is an empty buffer ready
// for use.
type CommandBuffer struct {
	packets []packet
	aux     []byte
	blobs   [][]byte

	// Decode scratch reused across executions.
	viewports   []Viewport
	scissors    []ScissorRectangle
	draws       []DrawArguments
	drawIndexed []DrawIndexedArguments
}

// NewCommandBuffer returns an empty buffer with room for n packets.
func NewCommandBuffer(n int) *CommandBuffer {
	return &CommandBuffer{packets: make([]packet, 0, n)}
}

// Len returns the number of recorded packets.
func (cb *CommandBuffer) Len() int { return len(cb.packets) }

// IsEmpty reports whether no packets are recorded.
func (cb *CommandBuffer) IsEmpty() bool { return len(cb.packets) == 0 }

// AuxiliarySize returns the number of bytes in the auxiliary arena.
func (cb *CommandBuffer) AuxiliarySize() int { return len(cb.aux) }

// Types returns the command types in recording order.
func (cb *CommandBuffer) Types() []CommandType {
	types := make([]CommandType, len(cb.packets))
	for i := range cb.packets {
		types[i] = cb.packets[i].cmd
	}
	return types
}

// Clear discards all packets without executing them. Capacity is kept.
func (cb *CommandBuffer) Clear() {
	clear(cb.packets)
	cb.packets = cb.packets[:0]
	cb.aux = cb.aux[:0]
	clear(cb.blobs)
	cb.blobs = cb.blobs[:0]
}

// Execute dispatches every packet against e in recording order.
// The slices passed to e are only valid during the call.
func (cb *CommandBuffer) Execute(e Executor) {
	for i := range cb.packets {
		p := &cb.packets[i]
		p.fn(e, cb, p)
	}
}

// Submit executes the buffer on d. The packets are kept.
func (cb *CommandBuffer) Submit(d Device) {
	d.Submit(cb)
}

// SubmitAndClear executes the buffer on d, then clears it for reuse.
func (cb *CommandBuffer) SubmitAndClear(d Device) {
	d.Submit(cb)
	cb.Clear()
}

// ----------------------------------------------------------------------------
// Recording
// ----------------------------------------------------------------------------

func (cb *CommandBuffer) push(cmd CommandType, res Resource) *packet {
	cb.packets = append(cb.packets, packet{fn: dispatchTable[cmd], cmd: cmd, res: res})
	p := &cb.packets[len(cb.packets)-1]
	p.aux = uint32(len(cb.aux))
	return p
}

// closeAux records the auxiliary bytes appended since push.
func (cb *CommandBuffer) closeAux(p *packet) {
	p.auxN = uint32(len(cb.aux)) - p.aux
}

// SetGraphicsRootSignature records binding rs. Nil unbinds everything.
func (cb *CommandBuffer) SetGraphicsRootSignature(rs RootSignature) {
	cb.push(CmdSetGraphicsRootSignature, rs)
}

// SetGraphicsRootDescriptorTable records binding res to root parameter index.
func (cb *CommandBuffer) SetGraphicsRootDescriptorTable(index uint32, res Resource) {
	p := cb.push(CmdSetGraphicsRootDescriptorTable, res)
	p.args[0] = index
}

// SetPipelineState records binding ps. Nil unbinds the pipeline.
func (cb *CommandBuffer) SetPipelineState(ps PipelineState) {
	cb.push(CmdSetPipelineState, ps)
}

// SetVertexArray records binding va. Nil unbinds the vertex array.
func (cb *CommandBuffer) SetVertexArray(va VertexArray) {
	cb.push(CmdSetVertexArray, va)
}

// SetPrimitiveTopology records the primitive topology for following draws.
func (cb *CommandBuffer) SetPrimitiveTopology(t gputypes.PrimitiveTopology) {
	p := cb.push(CmdSetPrimitiveTopology, nil)
	p.args[0] = uint32(t)
}

// SetViewports records the viewports.
func (cb *CommandBuffer) SetViewports(viewports ...Viewport) {
	p := cb.push(CmdSetViewports, nil)
	for _, v := range viewports {
		cb.aux = appendFloat32(cb.aux, v.X)
		cb.aux = appendFloat32(cb.aux, v.Y)
		cb.aux = appendFloat32(cb.aux, v.Width)
		cb.aux = appendFloat32(cb.aux, v.Height)
		cb.aux = appendFloat32(cb.aux, v.MinDepth)
		cb.aux = appendFloat32(cb.aux, v.MaxDepth)
	}
	cb.closeAux(p)
}

// SetScissorRectangles records the scissor rectangles.
func (cb *CommandBuffer) SetScissorRectangles(rects ...ScissorRectangle) {
	p := cb.push(CmdSetScissorRectangles, nil)
	for _, r := range rects {
		cb.aux = binary.LittleEndian.AppendUint32(cb.aux, uint32(r.X))
		cb.aux = binary.LittleEndian.AppendUint32(cb.aux, uint32(r.Y))
		cb.aux = binary.LittleEndian.AppendUint32(cb.aux, uint32(r.Width))
		cb.aux = binary.LittleEndian.AppendUint32(cb.aux, uint32(r.Height))
	}
	cb.closeAux(p)
}

// SetRenderTarget records binding rt for output.
func (cb *CommandBuffer) SetRenderTarget(rt RenderTarget) {
	cb.push(CmdSetRenderTarget, rt)
}

// ClearRenderTarget records a clear of the bound render target.
func (cb *CommandBuffer) ClearRenderTarget(flags ClearFlag, color [4]float32, depth float32, stencil uint32) {
	p := cb.push(CmdClearRenderTarget, nil)
	p.args[0] = uint32(flags)
	for i, c := range color {
		p.args[1+i] = math.Float32bits(c)
	}
	p.args[5] = math.Float32bits(depth)
	p.args[6] = stencil
}

// Draw records non-indexed draws. Several arguments emulate a multi-draw.
// A call without arguments records nothing.
func (cb *CommandBuffer) Draw(args ...DrawArguments) {
	if len(args) == 0 {
		return
	}
	p := cb.push(CmdDraw, nil)
	for _, a := range args {
		cb.aux = binary.LittleEndian.AppendUint32(cb.aux, a.VertexCountPerInstance)
		cb.aux = binary.LittleEndian.AppendUint32(cb.aux, a.InstanceCount)
		cb.aux = binary.LittleEndian.AppendUint32(cb.aux, a.StartVertexLocation)
		cb.aux = binary.LittleEndian.AppendUint32(cb.aux, a.StartInstanceLocation)
	}
	cb.closeAux(p)
}

// DrawIndexed records indexed draws. A call without arguments records
// nothing.
func (cb *CommandBuffer) DrawIndexed(args ...DrawIndexedArguments) {
	if len(args) == 0 {
		return
	}
	p := cb.push(CmdDrawIndexed, nil)
	for _, a := range args {
		cb.aux = binary.LittleEndian.AppendUint32(cb.aux, a.IndexCountPerInstance)
		cb.aux = binary.LittleEndian.AppendUint32(cb.aux, a.InstanceCount)
		cb.aux = binary.LittleEndian.AppendUint32(cb.aux, a.StartIndexLocation)
		cb.aux = binary.LittleEndian.AppendUint32(cb.aux, uint32(a.BaseVertexLocation))
		cb.aux = binary.LittleEndian.AppendUint32(cb.aux, a.StartInstanceLocation)
	}
	cb.closeAux(p)
}

// UpdateBuffer records writing data into buf at offset. Data up to
// MaxInlineDataSize bytes is copied into the auxiliary arena; larger data is
// copied into a side list.
func (cb *CommandBuffer) UpdateBuffer(buf Buffer, offset uint32, data []byte) {
	p := cb.push(CmdUpdateBuffer, buf)
	p.args[0] = offset
	if len(data) <= MaxInlineDataSize {
		cb.aux = append(cb.aux, data...)
		cb.closeAux(p)
		return
	}
	p.args[1] = 1
	p.args[2] = uint32(len(cb.blobs))
	cb.blobs = append(cb.blobs, append([]byte(nil), data...))
}

// SetDebugMarker records a debug marker.
func (cb *CommandBuffer) SetDebugMarker(name string) {
	p := cb.push(CmdSetDebugMarker, nil)
	cb.aux = append(cb.aux, name...)
	cb.closeAux(p)
}

// BeginDebugEvent records the start of a named debug event.
func (cb *CommandBuffer) BeginDebugEvent(name string) {
	p := cb.push(CmdBeginDebugEvent, nil)
	cb.aux = append(cb.aux, name...)
	cb.closeAux(p)
}

// EndDebugEvent records the end of the innermost debug event.
func (cb *CommandBuffer) EndDebugEvent() {
	cb.push(CmdEndDebugEvent, nil)
}

// ----------------------------------------------------------------------------
// Decoding
// ----------------------------------------------------------------------------

func appendFloat32(b []byte, f float32) []byte {
	return binary.LittleEndian.AppendUint32(b, math.Float32bits(f))
}

func (cb *CommandBuffer) auxBytes(p *packet) []byte {
	return cb.aux[p.aux : p.aux+p.auxN]
}

func (cb *CommandBuffer) decodeViewports(p *packet) []Viewport {
	b := cb.auxBytes(p)
	cb.viewports = cb.viewports[:0]
	for ; len(b) >= viewportSize; b = b[viewportSize:] {
		cb.viewports = append(cb.viewports, Viewport{
			X:        readFloat32(b[0:]),
			Y:        readFloat32(b[4:]),
			Width:    readFloat32(b[8:]),
			Height:   readFloat32(b[12:]),
			MinDepth: readFloat32(b[16:]),
			MaxDepth: readFloat32(b[20:]),
		})
	}
	return cb.viewports
}

func (cb *CommandBuffer) decodeScissors(p *packet) []ScissorRectangle {
	b := cb.auxBytes(p)
	cb.scissors = cb.scissors[:0]
	for ; len(b) >= scissorSize; b = b[scissorSize:] {
		cb.scissors = append(cb.scissors, ScissorRectangle{
			X:      int32(binary.LittleEndian.Uint32(b[0:])),
			Y:      int32(binary.LittleEndian.Uint32(b[4:])),
			Width:  int32(binary.LittleEndian.Uint32(b[8:])),
			Height: int32(binary.LittleEndian.Uint32(b[12:])),
		})
	}
	return cb.scissors
}

func (cb *CommandBuffer) decodeDraws(p *packet) []DrawArguments {
	b := cb.auxBytes(p)
	cb.draws = cb.draws[:0]
	for ; len(b) >= drawArgsSize; b = b[drawArgsSize:] {
		cb.draws = append(cb.draws, DrawArguments{
			VertexCountPerInstance: binary.LittleEndian.Uint32(b[0:]),
			InstanceCount:          binary.LittleEndian.Uint32(b[4:]),
			StartVertexLocation:    binary.LittleEndian.Uint32(b[8:]),
			StartInstanceLocation:  binary.LittleEndian.Uint32(b[12:]),
		})
	}
	return cb.draws
}

func (cb *CommandBuffer) decodeDrawIndexed(p *packet) []DrawIndexedArguments {
	b := cb.auxBytes(p)
	cb.drawIndexed = cb.drawIndexed[:0]
	for ; len(b) >= drawIndexedSize; b = b[drawIndexedSize:] {
		cb.drawIndexed = append(cb.drawIndexed, DrawIndexedArguments{
			IndexCountPerInstance: binary.LittleEndian.Uint32(b[0:]),
			InstanceCount:         binary.LittleEndian.Uint32(b[4:]),
			StartIndexLocation:    binary.LittleEndian.Uint32(b[8:]),
			BaseVertexLocation:    int32(binary.LittleEndian.Uint32(b[12:])),
			StartInstanceLocation: binary.LittleEndian.Uint32(b[16:]),
		})
	}
	return cb.drawIndexed
}

func (cb *CommandBuffer) updateData(p *packet) []byte {
	if p.args[1] != 0 {
		return cb.blobs[p.args[2]]
	}
	return cb.auxBytes(p)
}

func readFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}
