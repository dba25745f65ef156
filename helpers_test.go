package rhi

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// testResource is a bare resource that counts destroy calls.
type testResource struct {
	RefCounted
	destroyCalls int
}

func newTestResource(kind ResourceType) *testResource {
	r := &testResource{}
	r.InitRefCounted(kind, func() { r.destroyCalls++ })
	return r
}

type testRootSignature struct {
	RefCounted
	desc *RootSignatureDesc
}

func (r *testRootSignature) Desc() *RootSignatureDesc { return r.desc }

func newTestRootSignature(desc *RootSignatureDesc) *testRootSignature {
	r := &testRootSignature{desc: desc.Clone()}
	r.InitRefCounted(ResourceRootSignature, nil)
	return r
}

type testBuffer struct {
	RefCounted
	size         uint32
	destroyCalls int
}

func (b *testBuffer) Size() uint32                      { return b.size }
func (b *testBuffer) IndexFormat() gputypes.IndexFormat { return gputypes.IndexFormatUint16 }

func newTestBuffer(kind ResourceType, size uint32) *testBuffer {
	b := &testBuffer{size: size}
	b.InitRefCounted(kind, func() { b.destroyCalls++ })
	return b
}

type testTexture struct {
	RefCounted
	w, h uint32
}

func (t *testTexture) Width() uint32                  { return t.w }
func (t *testTexture) Height() uint32                 { return t.h }
func (t *testTexture) Format() gputypes.TextureFormat { return gputypes.TextureFormatRGBA8Unorm }

func newTestTexture(kind ResourceType, w, h uint32) *testTexture {
	t := &testTexture{w: w, h: h}
	t.InitRefCounted(kind, nil)
	return t
}

type testShader struct {
	RefCounted
	stage ShaderStage
}

func (s *testShader) Stage() ShaderStage { return s.stage }
func (s *testShader) EntryPoint() string { return "main" }

func newTestShader(stage ShaderStage) *testShader {
	s := &testShader{stage: stage}
	s.InitRefCounted(stage.ResourceType(), nil)
	return s
}

type testProgram struct{ ProgramBase }

func newTestProgram(shaders ...Shader) *testProgram {
	p := &testProgram{}
	p.InitProgramBase(shaders, nil, nil)
	return p
}

type testPipeline struct{ PipelineStateBase }

func newTestPipeline(rs RootSignature, prog Program) *testPipeline {
	p := &testPipeline{}
	p.InitPipelineStateBase(&PipelineStateDesc{RootSignature: rs, Program: prog}, nil)
	return p
}

type testVertexArray struct{ VertexArrayBase }

func newTestVertexArray(desc *VertexArrayDesc) *testVertexArray {
	v := &testVertexArray{}
	v.InitVertexArrayBase(desc, nil)
	return v
}

// scenarioRootSignature returns the three-parameter CBV/SRV/Sampler layout.
func scenarioRootSignature() *RootSignatureDesc {
	return &RootSignatureDesc{
		Parameters: []RootParameter{
			DescriptorTable(VisibilityAll, DescriptorRange{
				Type: RangeCBV, Count: 1, OffsetInTable: OffsetAppend,
				FallbackName: "Uniforms", PairedSamplerParameterIndex: NoPairedSampler,
			}),
			DescriptorTable(VisibilityFragment, DescriptorRange{
				Type: RangeSRV, Count: 1, OffsetInTable: OffsetAppend,
				FallbackName: "DiffuseMap", PairedSamplerParameterIndex: 2,
			}),
			DescriptorTable(VisibilityFragment, DescriptorRange{
				Type: RangeSampler, Count: 1, OffsetInTable: OffsetAppend,
				PairedSamplerParameterIndex: NoPairedSampler,
			}),
		},
	}
}

// recordingExecutor logs every executor call as a string.
type recordingExecutor struct {
	state DrawState
	calls []string
}

func (r *recordingExecutor) DrawState() *DrawState { return &r.state }

func (r *recordingExecutor) log(format string, args ...any) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *recordingExecutor) SetGraphicsRootSignature(rs RootSignature) {
	r.log("SetGraphicsRootSignature(%t)", rs != nil)
}

func (r *recordingExecutor) SetGraphicsRootDescriptorTable(index uint32, res Resource) {
	kind := "nil"
	if res != nil {
		kind = res.ResourceType().String()
	}
	r.log("SetGraphicsRootDescriptorTable(%d,%s)", index, kind)
}

func (r *recordingExecutor) SetPipelineState(ps PipelineState) {
	r.log("SetPipelineState(%t)", ps != nil)
}

func (r *recordingExecutor) SetVertexArray(va VertexArray) {
	r.log("SetVertexArray(%t)", va != nil)
}

func (r *recordingExecutor) SetPrimitiveTopology(t gputypes.PrimitiveTopology) {
	r.log("SetPrimitiveTopology(%d)", t)
}

func (r *recordingExecutor) SetViewports(v []Viewport) { r.log("SetViewports(%v)", v) }

func (r *recordingExecutor) SetScissorRectangles(s []ScissorRectangle) {
	r.log("SetScissorRectangles(%v)", s)
}

func (r *recordingExecutor) SetRenderTarget(rt RenderTarget) {
	r.log("SetRenderTarget(%t)", rt != nil)
}

func (r *recordingExecutor) ClearRenderTarget(flags ClearFlag, color [4]float32, depth float32, stencil uint32) {
	r.log("ClearRenderTarget(%d,%v,%v,%d)", flags, color, depth, stencil)
}

func (r *recordingExecutor) Draw(args []DrawArguments) { r.log("Draw(%v)", args) }

func (r *recordingExecutor) DrawIndexed(args []DrawIndexedArguments) {
	r.log("DrawIndexed(%v)", args)
}

func (r *recordingExecutor) UpdateBuffer(buf Buffer, offset uint32, data []byte) {
	r.log("UpdateBuffer(%d,%d)", offset, len(data))
}

func (r *recordingExecutor) SetDebugMarker(name string)  { r.log("SetDebugMarker(%s)", name) }
func (r *recordingExecutor) BeginDebugEvent(name string) { r.log("BeginDebugEvent(%s)", name) }
func (r *recordingExecutor) EndDebugEvent()              { r.log("EndDebugEvent()") }

// testDevice executes submitted buffers on a recording executor.
type testDevice struct {
	uninitializedDevice
	exec    recordingExecutor
	submits int
}

func (d *testDevice) Initialized() bool { return true }

func (d *testDevice) Submit(cb *CommandBuffer) {
	d.submits++
	cb.Execute(&d.exec)
}
