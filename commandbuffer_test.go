package rhi

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/gogpu/gputypes"
	"golang.org/x/sync/errgroup"
)

// scenario holds the resources of the three-table draw.
type scenario struct {
	rs       *testRootSignature
	pipeline *testPipeline
	va       *testVertexArray
	ubo      *testBuffer
	texture  *testTexture
	sampler  *testResource
}

func newScenario(t *testing.T) *scenario {
	t.Helper()
	s := &scenario{
		rs:      newTestRootSignature(scenarioRootSignature()),
		ubo:     newTestBuffer(ResourceUniformBuffer, 64),
		texture: newTestTexture(ResourceTexture2D, 4, 4),
		sampler: newTestResource(ResourceSamplerState),
	}
	prog := newTestProgram(newTestShader(StageVertex), newTestShader(StageFragment))
	s.pipeline = newTestPipeline(s.rs, prog)
	Release(prog)
	vb := newTestBuffer(ResourceVertexBuffer, 36)
	s.va = newTestVertexArray(&VertexArrayDesc{VertexBuffers: []VertexArrayVertexBuffer{{Buffer: vb, Stride: 12}}})
	Release(vb)
	t.Cleanup(func() {
		Release(s.va)
		Release(s.pipeline)
		Release(s.rs)
		Release(s.ubo)
		Release(s.texture)
		Release(s.sampler)
	})
	return s
}

// record records the bind sequence and a three-vertex draw.
func (s *scenario) record(cb *CommandBuffer) {
	cb.SetGraphicsRootSignature(s.rs)
	cb.SetPipelineState(s.pipeline)
	cb.SetGraphicsRootDescriptorTable(0, s.ubo)
	cb.SetGraphicsRootDescriptorTable(1, s.texture)
	cb.SetGraphicsRootDescriptorTable(2, s.sampler)
	cb.SetVertexArray(s.va)
	cb.SetPrimitiveTopology(gputypes.PrimitiveTopologyTriangleList)
	cb.Draw(DrawArguments{VertexCountPerInstance: 3, InstanceCount: 1, StartVertexLocation: 0})
}

var scenarioCalls = []string{
	"SetGraphicsRootSignature(true)",
	"SetPipelineState(true)",
	"SetGraphicsRootDescriptorTable(0,UniformBuffer)",
	"SetGraphicsRootDescriptorTable(1,Texture2D)",
	"SetGraphicsRootDescriptorTable(2,SamplerState)",
	"SetVertexArray(true)",
	fmt.Sprintf("SetPrimitiveTopology(%d)", gputypes.PrimitiveTopologyTriangleList),
	"Draw([{3 1 0 0}])",
}

func TestCommandTypeString(t *testing.T) {
	tests := []struct {
		cmd  CommandType
		want string
	}{
		{CmdSetGraphicsRootSignature, "SetGraphicsRootSignature"},
		{CmdDraw, "Draw"},
		{CmdEndDebugEvent, "EndDebugEvent"},
		{commandTypeCount, "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.cmd.String(); got != tt.want {
			t.Errorf("CommandType(%d).String() = %q, want %q", tt.cmd, got, tt.want)
		}
	}
}

func TestDispatchTableComplete(t *testing.T) {
	for cmd := CommandType(0); cmd < commandTypeCount; cmd++ {
		if dispatchTable[cmd] == nil {
			t.Errorf("no dispatch function for %v", cmd)
		}
		if commandTypeNames[cmd] == "" {
			t.Errorf("CommandType(%d) has no name", cmd)
		}
	}
}

func TestCommandBufferScenario(t *testing.T) {
	s := newScenario(t)
	var cb CommandBuffer
	s.record(&cb)

	exec := &recordingExecutor{}
	cb.Execute(exec)
	t.Cleanup(exec.state.Reset)

	if !slices.Equal(exec.calls, scenarioCalls) {
		t.Errorf("calls =\n%q\nwant\n%q", exec.calls, scenarioCalls)
	}

	binds := 0
	for _, c := range exec.calls {
		if strings.HasPrefix(c, "SetGraphicsRootDescriptorTable") {
			binds++
		}
	}
	if binds != 3 {
		t.Errorf("descriptor table binds = %d, want 3", binds)
	}
}

func TestCommandBufferFIFO(t *testing.T) {
	var cb CommandBuffer
	const k = 50
	for i := range k {
		cb.SetDebugMarker(fmt.Sprintf("m%d", i))
		if i%5 == 0 {
			cb.BeginDebugEvent("e")
			cb.EndDebugEvent()
		}
	}

	exec := &recordingExecutor{}
	cb.Execute(exec)

	if len(exec.calls) != cb.Len() {
		t.Fatalf("dispatch calls = %d, want %d", len(exec.calls), cb.Len())
	}
	marker := 0
	for _, c := range exec.calls {
		if !strings.HasPrefix(c, "SetDebugMarker") {
			continue
		}
		if want := fmt.Sprintf("SetDebugMarker(m%d)", marker); c != want {
			t.Fatalf("call = %q, want %q", c, want)
		}
		marker++
	}
	if marker != k {
		t.Errorf("markers = %d, want %d", marker, k)
	}
	types := cb.Types()
	if types[0] != CmdSetDebugMarker || types[1] != CmdBeginDebugEvent || types[2] != CmdEndDebugEvent {
		t.Errorf("Types()[:3] = %v", types[:3])
	}
}

func TestCommandBufferClear(t *testing.T) {
	var cb CommandBuffer
	cb.SetViewports(Viewport{Width: 1, Height: 1})
	cb.SetDebugMarker("x")
	cb.Clear()

	if !cb.IsEmpty() || cb.Len() != 0 || cb.AuxiliarySize() != 0 {
		t.Errorf("after Clear: Len() = %d, AuxiliarySize() = %d", cb.Len(), cb.AuxiliarySize())
	}
	exec := &recordingExecutor{}
	cb.Execute(exec)
	if len(exec.calls) != 0 {
		t.Errorf("dispatch calls after Clear = %d, want 0", len(exec.calls))
	}
}

func TestCommandBufferEmptySubmit(t *testing.T) {
	dev := &testDevice{}
	var cb CommandBuffer
	cb.Submit(dev)
	cb.SubmitAndClear(dev)

	if len(dev.exec.calls) != 0 {
		t.Errorf("dispatch calls = %d, want 0", len(dev.exec.calls))
	}
	if dev.exec.state.State() != StateNotBound {
		t.Errorf("State() = %v, want %v", dev.exec.state.State(), StateNotBound)
	}
}

func TestCommandBufferSubmitAndClear(t *testing.T) {
	s := newScenario(t)
	dev := &testDevice{}
	t.Cleanup(dev.exec.state.Reset)

	cb := NewCommandBuffer(16)
	s.record(cb)
	cb.Submit(dev)
	if cb.Len() != len(scenarioCalls) {
		t.Errorf("Submit cleared the buffer: Len() = %d", cb.Len())
	}
	cb.SubmitAndClear(dev)
	if !cb.IsEmpty() {
		t.Errorf("Len() after SubmitAndClear = %d, want 0", cb.Len())
	}
	if got, want := len(dev.exec.calls), 2*len(scenarioCalls); got != want {
		t.Errorf("dispatch calls = %d, want %d", got, want)
	}

	// Reuse after clear.
	s.record(cb)
	cb.SubmitAndClear(dev)
	if dev.submits != 3 {
		t.Errorf("submits = %d, want 3", dev.submits)
	}
}

func TestCommandBufferAuxiliaryPayloads(t *testing.T) {
	var cb CommandBuffer
	cb.SetViewports(
		Viewport{Width: 640, Height: 480, MaxDepth: 1},
		Viewport{X: 10, Y: 20, Width: 30, Height: 40, MinDepth: 0.25, MaxDepth: 0.75},
	)
	cb.SetScissorRectangles(ScissorRectangle{X: -1, Y: 2, Width: 3, Height: 4})
	cb.ClearRenderTarget(ClearAll, [4]float32{0.5, 0.25, 0, 1}, 1, 7)

	buf := newTestBuffer(ResourceUniformBuffer, 8192)
	t.Cleanup(func() { Release(buf) })
	cb.UpdateBuffer(buf, 16, make([]byte, MaxInlineDataSize))
	inline := cb.AuxiliarySize()
	cb.UpdateBuffer(buf, 32, make([]byte, MaxInlineDataSize+1))
	if cb.AuxiliarySize() != inline {
		t.Errorf("large UpdateBuffer grew the arena from %d to %d", inline, cb.AuxiliarySize())
	}
	cb.BeginDebugEvent("frame")
	cb.EndDebugEvent()

	exec := &recordingExecutor{}
	cb.Execute(exec)

	want := []string{
		"SetViewports([{0 0 640 480 0 1} {10 20 30 40 0.25 0.75}])",
		"SetScissorRectangles([{-1 2 3 4}])",
		"ClearRenderTarget(7,[0.5 0.25 0 1],1,7)",
		fmt.Sprintf("UpdateBuffer(16,%d)", MaxInlineDataSize),
		fmt.Sprintf("UpdateBuffer(32,%d)", MaxInlineDataSize+1),
		"BeginDebugEvent(frame)",
		"EndDebugEvent()",
	}
	if !slices.Equal(exec.calls, want) {
		t.Errorf("calls =\n%q\nwant\n%q", exec.calls, want)
	}
}

func TestCommandBufferMultiDraw(t *testing.T) {
	s := newScenario(t)
	var cb CommandBuffer
	cb.SetGraphicsRootSignature(s.rs)
	cb.SetPipelineState(s.pipeline)
	cb.SetVertexArray(s.va)
	cb.SetPrimitiveTopology(gputypes.PrimitiveTopologyTriangleStrip)
	cb.Draw()
	cb.DrawIndexed(
		DrawIndexedArguments{IndexCountPerInstance: 6, InstanceCount: 1},
		DrawIndexedArguments{IndexCountPerInstance: 3, InstanceCount: 2, StartIndexLocation: 6, BaseVertexLocation: -4},
	)
	if got := cb.Len(); got != 5 {
		t.Errorf("Len() = %d, want 5 (empty Draw records nothing)", got)
	}

	exec := &recordingExecutor{}
	t.Cleanup(exec.state.Reset)
	cb.Execute(exec)
	if got, want := exec.calls[len(exec.calls)-1], "DrawIndexed([{6 1 0 0 0} {3 2 6 -4 0}])"; got != want {
		t.Errorf("last call = %q, want %q", got, want)
	}
}

func TestCommandBufferDrawWithoutPipelineIsNoOp(t *testing.T) {
	if DebugBuild {
		t.Skip("draws without prerequisites assert in debug builds")
	}
	s := newScenario(t)
	var cb CommandBuffer
	cb.SetGraphicsRootSignature(s.rs)
	cb.SetVertexArray(s.va)
	cb.SetPrimitiveTopology(gputypes.PrimitiveTopologyTriangleList)
	cb.Draw(DrawArguments{VertexCountPerInstance: 3, InstanceCount: 1})
	cb.DrawIndexed(DrawIndexedArguments{IndexCountPerInstance: 3, InstanceCount: 1})

	exec := &recordingExecutor{}
	t.Cleanup(exec.state.Reset)
	cb.Execute(exec)
	for _, c := range exec.calls {
		if strings.HasPrefix(c, "Draw") {
			t.Errorf("draw reached the executor: %q", c)
		}
	}
}

func TestCommandBufferDescriptorTableOutOfRange(t *testing.T) {
	if DebugBuild {
		t.Skip("out-of-range root parameters assert in debug builds")
	}
	s := newScenario(t)
	var cb CommandBuffer
	cb.SetGraphicsRootDescriptorTable(0, s.ubo)
	cb.SetGraphicsRootSignature(s.rs)
	cb.SetGraphicsRootDescriptorTable(3, s.ubo)

	exec := &recordingExecutor{}
	t.Cleanup(exec.state.Reset)
	cb.Execute(exec)
	if want := []string{"SetGraphicsRootSignature(true)"}; !slices.Equal(exec.calls, want) {
		t.Errorf("calls = %q, want %q", exec.calls, want)
	}
}

// TestCommandBufferReplay replays one recorded buffer against two executors.
func TestCommandBufferReplay(t *testing.T) {
	s := newScenario(t)
	var cb CommandBuffer
	s.record(&cb)

	a, b := &recordingExecutor{}, &recordingExecutor{}
	t.Cleanup(a.state.Reset)
	t.Cleanup(b.state.Reset)
	cb.Execute(a)
	cb.Execute(b)

	if !slices.Equal(a.calls, b.calls) {
		t.Errorf("replay differs:\n%q\n%q", a.calls, b.calls)
	}
}

func TestCommandBufferConcurrentRecording(t *testing.T) {
	s := newScenario(t)
	const workers = 8
	buffers := make([]CommandBuffer, workers)

	var g errgroup.Group
	for i := range buffers {
		g.Go(func() error {
			cb := &buffers[i]
			cb.SetViewports(Viewport{Width: float32(i + 1), Height: 1, MaxDepth: 1})
			s.record(cb)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}

	dev := &testDevice{}
	t.Cleanup(dev.exec.state.Reset)
	for i := range buffers {
		buffers[i].SubmitAndClear(dev)
	}
	if got, want := len(dev.exec.calls), workers*(len(scenarioCalls)+1); got != want {
		t.Errorf("dispatch calls = %d, want %d", got, want)
	}
	if got, want := dev.exec.calls[0], "SetViewports([{0 0 1 1 0 1}])"; got != want {
		t.Errorf("first call = %q, want %q", got, want)
	}
}

func BenchmarkCommandBufferRecordExecute(b *testing.B) {
	rs := newTestRootSignature(scenarioRootSignature())
	ps := newTestPipeline(rs, newTestProgram())
	va := newTestVertexArray(&VertexArrayDesc{})
	ubo := newTestBuffer(ResourceUniformBuffer, 64)
	exec := &recordingExecutor{}
	var cb CommandBuffer
	for b.Loop() {
		cb.SetGraphicsRootSignature(rs)
		cb.SetPipelineState(ps)
		cb.SetGraphicsRootDescriptorTable(0, ubo)
		cb.SetVertexArray(va)
		cb.SetPrimitiveTopology(gputypes.PrimitiveTopologyTriangleList)
		cb.Draw(DrawArguments{VertexCountPerInstance: 3, InstanceCount: 1})
		cb.Execute(exec)
		cb.Clear()
		exec.calls = exec.calls[:0]
	}
}
