package rhi

import "github.com/gogpu/gputypes"

// VertexAttribute describes one vertex shader input.
type VertexAttribute struct {
	// Name is the attribute name, used by name-based backends.
	Name           string
	Format         gputypes.VertexFormat
	ShaderLocation uint32
	// InputSlot is the vertex buffer index the attribute reads from.
	InputSlot         uint32
	AlignedByteOffset uint32
	// Stride is the byte distance between consecutive elements in InputSlot.
	Stride uint32
	// InstancesPerElement is zero for per-vertex data and the instance step
	// rate otherwise.
	InstancesPerElement uint32
}

// VertexLayout returns the per-slot buffer layouts described by attrs, in
// ascending slot order. Slots without attributes are omitted.
func VertexLayout(attrs []VertexAttribute) []gputypes.VertexBufferLayout {
	var maxSlot uint32
	for _, a := range attrs {
		maxSlot = max(maxSlot, a.InputSlot)
	}
	if len(attrs) == 0 {
		return nil
	}
	slots := make([]gputypes.VertexBufferLayout, maxSlot+1)
	used := make([]bool, maxSlot+1)
	for _, a := range attrs {
		l := &slots[a.InputSlot]
		used[a.InputSlot] = true
		l.ArrayStride = uint64(a.Stride)
		l.StepMode = gputypes.VertexStepModeVertex
		if a.InstancesPerElement > 0 {
			l.StepMode = gputypes.VertexStepModeInstance
		}
		l.Attributes = append(l.Attributes, gputypes.VertexAttribute{
			Format:         a.Format,
			Offset:         uint64(a.AlignedByteOffset),
			ShaderLocation: a.ShaderLocation,
		})
	}
	out := slots[:0]
	for i := range slots {
		if used[i] {
			out = append(out, slots[i])
		}
	}
	return out
}

// PrimitiveTopologyType is the topology class a pipeline is built for.
type PrimitiveTopologyType uint8

const (
	TopologyTypeTriangle PrimitiveTopologyType = iota
	TopologyTypePoint
	TopologyTypeLine
	TopologyTypePatch
)

// Accepts reports whether t belongs to the topology class.
func (tt PrimitiveTopologyType) Accepts(t gputypes.PrimitiveTopology) bool {
	switch tt {
	case TopologyTypeTriangle:
		return t == gputypes.PrimitiveTopologyTriangleList || t == gputypes.PrimitiveTopologyTriangleStrip
	case TopologyTypePoint:
		return t == gputypes.PrimitiveTopologyPointList
	case TopologyTypeLine:
		return t == gputypes.PrimitiveTopologyLineList || t == gputypes.PrimitiveTopologyLineStrip
	default:
		return false
	}
}

// FillMode selects solid or wireframe rasterization.
type FillMode uint8

const (
	FillSolid FillMode = iota
	FillWireframe
)

// RasterizerState is the fixed-function rasterizer configuration.
type RasterizerState struct {
	FillMode             FillMode
	CullMode             gputypes.CullMode
	FrontFace            gputypes.FrontFace
	DepthBias            int32
	SlopeScaledDepthBias float32
	DepthClipEnable      bool
	ScissorEnable        bool
	MultisampleEnable    bool
}

// DefaultRasterizerState culls back faces with counter-clockwise front faces.
func DefaultRasterizerState() RasterizerState {
	return RasterizerState{
		CullMode:        gputypes.CullModeBack,
		FrontFace:       gputypes.FrontFaceCCW,
		DepthClipEnable: true,
	}
}

// BlendState holds per-target blending.
type BlendState struct {
	AlphaToCoverage bool
	// Targets holds one entry per color format of the pipeline. Missing
	// entries use the replace blend.
	Targets []gputypes.ColorTargetState
}

// PipelineStateDesc describes a pipeline state object.
type PipelineStateDesc struct {
	RootSignature    RootSignature
	Program          Program
	VertexAttributes []VertexAttribute
	TopologyType     PrimitiveTopologyType
	Rasterizer       RasterizerState
	// DepthStencil is nil when depth testing is disabled.
	DepthStencil       *gputypes.DepthStencilState
	Blend              BlendState
	ColorFormats       []gputypes.TextureFormat
	DepthStencilFormat gputypes.TextureFormat
	SampleCount        uint32
}

// ColorTargets returns one color target per color format, taking blending
// from Blend.Targets where present.
func (d *PipelineStateDesc) ColorTargets() []gputypes.ColorTargetState {
	targets := make([]gputypes.ColorTargetState, len(d.ColorFormats))
	for i, f := range d.ColorFormats {
		if i < len(d.Blend.Targets) {
			targets[i] = d.Blend.Targets[i]
		} else {
			targets[i] = gputypes.ColorTargetState{WriteMask: gputypes.ColorWriteMaskAll}
		}
		targets[i].Format = f
	}
	return targets
}

// PipelineState is an immutable bundle of program, vertex layout and
// fixed-function state. It keeps its root signature and program alive.
type PipelineState interface {
	Resource
	RootSignature() RootSignature
	Program() Program
	TopologyType() PrimitiveTopologyType
}

// PipelineStateBase implements the ownership half of PipelineState for
// backends. It holds references to the root signature and program.
type PipelineStateBase struct {
	RefCounted
	rootSignature RootSignature
	program       Program
	topologyType  PrimitiveTopologyType
}

// InitPipelineStateBase retains the root signature and program of desc.
// release runs before they are released, from the destroy callback.
func (p *PipelineStateBase) InitPipelineStateBase(desc *PipelineStateDesc, release func()) {
	p.rootSignature = Retain(desc.RootSignature)
	p.program = Retain(desc.Program)
	p.topologyType = desc.TopologyType
	p.InitRefCounted(ResourcePipelineState, func() {
		if release != nil {
			release()
		}
		Release(p.program)
		Release(p.rootSignature)
		p.program = nil
		p.rootSignature = nil
	})
}

// RootSignature implements PipelineState.
func (p *PipelineStateBase) RootSignature() RootSignature { return p.rootSignature }

// Program implements PipelineState.
func (p *PipelineStateBase) Program() Program { return p.program }

// TopologyType implements PipelineState.
func (p *PipelineStateBase) TopologyType() PrimitiveTopologyType { return p.topologyType }
