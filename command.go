package rhi

// CommandType identifies the kind of a recorded command packet.
// Each command type maps to one entry of the dispatch table.
type CommandType uint8

const (
	// Binding commands
	CmdSetGraphicsRootSignature       CommandType = iota // Bind a root signature
	CmdSetGraphicsRootDescriptorTable                    // Bind a resource to a root parameter
	CmdSetPipelineState                                  // Bind a pipeline state
	CmdSetVertexArray                                    // Bind a vertex array
	CmdSetPrimitiveTopology                              // Set the primitive topology

	// Rasterizer and output commands
	CmdSetViewports         // Set viewports
	CmdSetScissorRectangles // Set scissor rectangles
	CmdSetRenderTarget      // Bind a render target
	CmdClearRenderTarget    // Clear the bound render target

	// Draw commands
	CmdDraw        // Non-indexed draws
	CmdDrawIndexed // Indexed draws

	// Resource commands
	CmdUpdateBuffer // Write buffer contents

	// Debug commands
	CmdSetDebugMarker  // Insert a debug marker
	CmdBeginDebugEvent // Open a debug event scope
	CmdEndDebugEvent   // Close a debug event scope

	commandTypeCount
)

// commandTypeNames maps CommandType values to their string representation.
var commandTypeNames = [...]string{
	CmdSetGraphicsRootSignature:       "SetGraphicsRootSignature",
	CmdSetGraphicsRootDescriptorTable: "SetGraphicsRootDescriptorTable",
	CmdSetPipelineState:               "SetPipelineState",
	CmdSetVertexArray:                 "SetVertexArray",
	CmdSetPrimitiveTopology:           "SetPrimitiveTopology",
	CmdSetViewports:                   "SetViewports",
	CmdSetScissorRectangles:           "SetScissorRectangles",
	CmdSetRenderTarget:                "SetRenderTarget",
	CmdClearRenderTarget:              "ClearRenderTarget",
	CmdDraw:                           "Draw",
	CmdDrawIndexed:                    "DrawIndexed",
	CmdUpdateBuffer:                   "UpdateBuffer",
	CmdSetDebugMarker:                 "SetDebugMarker",
	CmdBeginDebugEvent:                "BeginDebugEvent",
	CmdEndDebugEvent:                  "EndDebugEvent",
}

// String returns the string representation of a CommandType.
func (c CommandType) String() string {
	if c < commandTypeCount {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// ----------------------------------------------------------------------------
// Command arguments
// ----------------------------------------------------------------------------

// Viewport is a rasterizer viewport in pixels.
type Viewport struct {
	X, Y, Width, Height float32
	MinDepth, MaxDepth  float32
}

// ScissorRectangle is a scissor rectangle in pixels.
type ScissorRectangle struct {
	X, Y, Width, Height int32
}

// DrawArguments are the parameters of one non-indexed draw.
type DrawArguments struct {
	VertexCountPerInstance uint32
	InstanceCount          uint32
	StartVertexLocation    uint32
	StartInstanceLocation  uint32
}

// DrawIndexedArguments are the parameters of one indexed draw.
type DrawIndexedArguments struct {
	IndexCountPerInstance uint32
	InstanceCount         uint32
	StartIndexLocation    uint32
	BaseVertexLocation    int32
	StartInstanceLocation uint32
}

// ClearFlag selects the render target planes a clear touches.
type ClearFlag uint32

const (
	ClearColor ClearFlag = 1 << iota
	ClearDepth
	ClearStencil

	ClearColorDepth = ClearColor | ClearDepth
	ClearAll        = ClearColor | ClearDepth | ClearStencil
)

// MaxInlineDataSize is the largest UpdateBuffer payload stored in the
// auxiliary arena. Larger payloads are kept in a side list.
const MaxInlineDataSize = 4096

// Byte sizes of auxiliary records.
const (
	viewportSize    = 6 * 4
	scissorSize     = 4 * 4
	drawArgsSize    = 4 * 4
	drawIndexedSize = 5 * 4
)
