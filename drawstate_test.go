package rhi

import (
	"testing"

	"github.com/gogpu/gputypes"
)

func TestDrawStateTransitions(t *testing.T) {
	s := newScenario(t)
	var st DrawState
	t.Cleanup(st.Reset)

	steps := []struct {
		name string
		do   func()
		want BindingState
	}{
		{"initial", func() {}, StateNotBound},
		{"root signature", func() { st.SetRootSignature(s.rs) }, StateRootSignatureBound},
		{"pipeline", func() { st.SetPipelineState(s.pipeline) }, StatePipelineBound},
		{"vertex array", func() { st.SetVertexArray(s.va) }, StateVertexArrayBound},
		{"topology", func() { st.SetTopology(gputypes.PrimitiveTopologyTriangleList) }, StateDrawable},
		{"unbind vertex array", func() { st.SetVertexArray(nil) }, StatePipelineBound},
		{"rebind vertex array", func() { st.SetVertexArray(s.va) }, StateDrawable},
		{"unbind pipeline", func() { st.SetPipelineState(nil) }, StateRootSignatureBound},
		{"rebind pipeline", func() { st.SetPipelineState(s.pipeline) }, StateDrawable},
		{"unbind root signature", func() { st.SetRootSignature(nil) }, StateNotBound},
	}
	for _, step := range steps {
		step.do()
		if got := st.State(); got != step.want {
			t.Fatalf("after %s: State() = %v, want %v", step.name, got, step.want)
		}
	}
	if _, ok := st.Topology(); ok {
		t.Error("unbinding the root signature kept the topology")
	}
}

func TestDrawStateHoldsReferences(t *testing.T) {
	s := newScenario(t)
	var st DrawState

	before := s.va.RefCount()
	st.SetVertexArray(s.va)
	if got := s.va.RefCount(); got != before+1 {
		t.Errorf("RefCount() while bound = %d, want %d", got, before+1)
	}
	st.SetVertexArray(s.va)
	if got := s.va.RefCount(); got != before+1 {
		t.Errorf("RefCount() after rebinding = %d, want %d", got, before+1)
	}
	st.Reset()
	if got := s.va.RefCount(); got != before {
		t.Errorf("RefCount() after Reset = %d, want %d", got, before)
	}
}

// TestDrawStatePersistsAcrossSubmits checks that binds survive between
// submissions and that consecutive draws need no rebinding.
func TestDrawStatePersistsAcrossSubmits(t *testing.T) {
	s := newScenario(t)
	dev := &testDevice{}
	t.Cleanup(dev.exec.state.Reset)

	var cb CommandBuffer
	s.record(&cb)
	cb.SubmitAndClear(dev)

	cb.Draw(DrawArguments{VertexCountPerInstance: 6, InstanceCount: 1})
	cb.Draw(DrawArguments{VertexCountPerInstance: 9, InstanceCount: 1})
	cb.SubmitAndClear(dev)

	calls := dev.exec.calls[len(dev.exec.calls)-2:]
	if calls[0] != "Draw([{6 1 0 0}])" || calls[1] != "Draw([{9 1 0 0}])" {
		t.Errorf("draws after resubmit = %q", calls)
	}
	if got := dev.exec.state.State(); got != StateDrawable {
		t.Errorf("State() = %v, want %v", got, StateDrawable)
	}
}

func TestBindingStateString(t *testing.T) {
	if got := StateVertexArrayBound.String(); got != "VertexArrayBound" {
		t.Errorf("String() = %q, want %q", got, "VertexArrayBound")
	}
	if got := BindingState(42).String(); got != "Unknown" {
		t.Errorf("String() = %q, want %q", got, "Unknown")
	}
}
