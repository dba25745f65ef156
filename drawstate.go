package rhi

import "github.com/gogpu/gputypes"

// BindingState is a state of the draw state machine.
type BindingState uint8

const (
	StateNotBound BindingState = iota
	StateRootSignatureBound
	StatePipelineBound
	StateVertexArrayBound
	StateDrawable
)

var bindingStateNames = [...]string{
	StateNotBound:           "NotBound",
	StateRootSignatureBound: "RootSignatureBound",
	StatePipelineBound:      "PipelineBound",
	StateVertexArrayBound:   "VertexArrayBound",
	StateDrawable:           "Drawable",
}

// String returns the state name.
func (s BindingState) String() string {
	if int(s) < len(bindingStateNames) {
		return bindingStateNames[s]
	}
	return "Unknown"
}

// DrawState tracks what is bound for drawing. Every device owns one and it
// persists across submissions. The shared dispatch functions update it
// before the executor sees a command, so all backends run the same machine:
//
//	NotBound -> RootSignatureBound -> PipelineBound -> VertexArrayBound -> Drawable
//
// The last step is taken by SetPrimitiveTopology. Binding nil is the explicit
// unbind: a nil root signature resets to NotBound, a nil pipeline drops to
// RootSignatureBound and a nil vertex array drops to PipelineBound.
//
// DrawState holds references to the bound objects.
type DrawState struct {
	rootSignature RootSignature
	pipeline      PipelineState
	vertexArray   VertexArray
	topology      gputypes.PrimitiveTopology
	topologySet   bool
}

// State returns the current machine state.
func (s *DrawState) State() BindingState {
	switch {
	case s.rootSignature == nil:
		return StateNotBound
	case s.pipeline == nil:
		return StateRootSignatureBound
	case s.vertexArray == nil:
		return StatePipelineBound
	case !s.topologySet:
		return StateVertexArrayBound
	default:
		return StateDrawable
	}
}

// Drawable reports whether a draw may be issued.
func (s *DrawState) Drawable() bool { return s.State() == StateDrawable }

// RootSignature returns the bound root signature.
func (s *DrawState) RootSignature() RootSignature { return s.rootSignature }

// PipelineState returns the bound pipeline state.
func (s *DrawState) PipelineState() PipelineState { return s.pipeline }

// VertexArray returns the bound vertex array.
func (s *DrawState) VertexArray() VertexArray { return s.vertexArray }

// Topology returns the primitive topology and whether one was set.
func (s *DrawState) Topology() (gputypes.PrimitiveTopology, bool) {
	return s.topology, s.topologySet
}

// SetRootSignature binds rs. Nil unbinds everything.
func (s *DrawState) SetRootSignature(rs RootSignature) {
	if rs == nil {
		s.Reset()
		return
	}
	old := s.rootSignature
	s.rootSignature = Retain(rs)
	Release(old)
}

// SetPipelineState binds ps. Nil unbinds the pipeline only.
func (s *DrawState) SetPipelineState(ps PipelineState) {
	old := s.pipeline
	s.pipeline = Retain(ps)
	Release(old)
}

// SetVertexArray binds va. Nil unbinds the vertex array only.
func (s *DrawState) SetVertexArray(va VertexArray) {
	old := s.vertexArray
	s.vertexArray = Retain(va)
	Release(old)
}

// SetTopology sets the primitive topology.
func (s *DrawState) SetTopology(t gputypes.PrimitiveTopology) {
	s.topology = t
	s.topologySet = true
}

// Reset unbinds everything and returns to NotBound.
func (s *DrawState) Reset() {
	Release(s.vertexArray)
	Release(s.pipeline)
	Release(s.rootSignature)
	*s = DrawState{}
}
