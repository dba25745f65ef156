package rhi

import (
	"testing"

	"github.com/gogpu/gputypes"
)

func TestFramebufferSize(t *testing.T) {
	tests := []struct {
		name         string
		color        []Texture
		depth        Texture
		wantW, wantH uint32
	}{
		{"none", nil, nil, 0, 0},
		{"single", []Texture{newTestTexture(ResourceTexture2D, 640, 480)}, nil, 640, 480},
		{
			"minimum over attachments",
			[]Texture{
				newTestTexture(ResourceTexture2D, 640, 480),
				newTestTexture(ResourceTexture2DArray, 320, 720),
			},
			newTestTexture(ResourceTexture2D, 800, 400),
			320, 400,
		},
		{"depth only", nil, newTestTexture(ResourceTexture2D, 256, 128), 256, 128},
		{"nil color entry", []Texture{nil, newTestTexture(ResourceTexture2D, 16, 8)}, nil, 16, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := FramebufferSize(tt.color, tt.depth)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("FramebufferSize() = %d, %d, want %d, %d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestFramebufferBaseKeepsAttachmentsAlive(t *testing.T) {
	color := newTestTexture(ResourceTexture2D, 64, 32)
	depth := newTestTexture(ResourceTexture2D, 128, 128)

	var fb FramebufferBase
	fb.InitFramebufferBase([]Texture{color}, depth, nil)
	if w, h := fb.Size(); w != 64 || h != 32 {
		t.Errorf("Size() = %d, %d, want 64, 32", w, h)
	}

	Release(color)
	Release(depth)
	if color.Destroyed() || depth.Destroyed() {
		t.Fatal("attachment destroyed while the framebuffer holds it")
	}
	fb.ReleaseReference()
	if !color.Destroyed() || !depth.Destroyed() {
		t.Error("framebuffer did not release its attachments")
	}
}

func TestVertexArrayReleasesBuffersOnce(t *testing.T) {
	vb0 := newTestBuffer(ResourceVertexBuffer, 48)
	vb1 := newTestBuffer(ResourceVertexBuffer, 96)
	ib := newTestBuffer(ResourceIndexBuffer, 12)

	va := newTestVertexArray(&VertexArrayDesc{
		Attributes: []VertexAttribute{
			{Name: "position", Format: gputypes.VertexFormatFloat32x3, InputSlot: 0, Stride: 12},
			{Name: "uv", Format: gputypes.VertexFormatFloat32x2, InputSlot: 1, Stride: 8, ShaderLocation: 1},
		},
		VertexBuffers: []VertexArrayVertexBuffer{{Buffer: vb0}, {Buffer: vb1, Stride: 16}},
		IndexBuffer:   ib,
	})
	Release(vb0)
	Release(vb1)
	Release(ib)

	if got := va.VertexBuffers()[0].Stride; got != 12 {
		t.Errorf("slot 0 stride = %d, want 12 (from attributes)", got)
	}
	if got := va.VertexBuffers()[1].Stride; got != 16 {
		t.Errorf("slot 1 stride = %d, want 16 (explicit)", got)
	}
	if vb0.destroyCalls+vb1.destroyCalls+ib.destroyCalls != 0 {
		t.Fatal("buffer destroyed while the vertex array holds it")
	}

	va.ReleaseReference()
	for i, b := range []*testBuffer{vb0, vb1, ib} {
		if b.destroyCalls != 1 {
			t.Errorf("buffer %d destroyed %d times, want 1", i, b.destroyCalls)
		}
	}
}

func TestPipelineStateKeepsRootSignatureAndProgram(t *testing.T) {
	rs := newTestRootSignature(scenarioRootSignature())
	vs := newTestShader(StageVertex)
	fs := newTestShader(StageFragment)
	prog := newTestProgram(vs, fs)
	Release(vs)
	Release(fs)

	ps := newTestPipeline(rs, prog)
	Release(rs)
	Release(prog)

	if ps.RootSignature() == nil || ps.Program() == nil {
		t.Fatal("pipeline dropped its root signature or program")
	}
	if got := prog.Shader(StageFragment); got == nil || got.Stage() != StageFragment {
		t.Errorf("Shader(Fragment) = %v", got)
	}
	if prog.Shader(StageGeometry) != nil {
		t.Error("Shader(Geometry) returned a shader")
	}

	ps.ReleaseReference()
	if !rs.Destroyed() || !prog.Destroyed() || !vs.Destroyed() || !fs.Destroyed() {
		t.Error("releasing the pipeline did not cascade to its children")
	}
}

func TestVertexLayout(t *testing.T) {
	attrs := []VertexAttribute{
		{Format: gputypes.VertexFormatFloat32x3, InputSlot: 0, Stride: 20, ShaderLocation: 0},
		{Format: gputypes.VertexFormatFloat32x2, InputSlot: 0, Stride: 20, AlignedByteOffset: 12, ShaderLocation: 1},
		{Format: gputypes.VertexFormatFloat32x4, InputSlot: 2, Stride: 16, InstancesPerElement: 1, ShaderLocation: 2},
	}
	layout := VertexLayout(attrs)
	if len(layout) != 2 {
		t.Fatalf("len(VertexLayout()) = %d, want 2", len(layout))
	}
	if layout[0].ArrayStride != 20 || len(layout[0].Attributes) != 2 || layout[0].StepMode != gputypes.VertexStepModeVertex {
		t.Errorf("slot 0 = %+v", layout[0])
	}
	if layout[0].Attributes[1].Offset != 12 {
		t.Errorf("slot 0 attribute 1 offset = %d, want 12", layout[0].Attributes[1].Offset)
	}
	if layout[1].StepMode != gputypes.VertexStepModeInstance {
		t.Errorf("slot 2 step mode = %v, want instance", layout[1].StepMode)
	}
	if VertexLayout(nil) != nil {
		t.Error("VertexLayout(nil) != nil")
	}
}

func TestPipelineColorTargets(t *testing.T) {
	blend := gputypes.BlendStatePremultiplied()
	desc := PipelineStateDesc{
		ColorFormats: []gputypes.TextureFormat{gputypes.TextureFormatBGRA8Unorm, gputypes.TextureFormatRGBA8Unorm},
		Blend: BlendState{Targets: []gputypes.ColorTargetState{
			{Blend: &blend, WriteMask: gputypes.ColorWriteMaskAll},
		}},
	}
	targets := desc.ColorTargets()
	if len(targets) != 2 {
		t.Fatalf("len(ColorTargets()) = %d, want 2", len(targets))
	}
	if targets[0].Format != gputypes.TextureFormatBGRA8Unorm || targets[0].Blend == nil {
		t.Errorf("target 0 = %+v", targets[0])
	}
	if targets[1].Blend != nil || targets[1].WriteMask != gputypes.ColorWriteMaskAll {
		t.Errorf("target 1 = %+v, want replace with full write mask", targets[1])
	}
}

func TestTopologyTypeAccepts(t *testing.T) {
	tests := []struct {
		tt   PrimitiveTopologyType
		t    gputypes.PrimitiveTopology
		want bool
	}{
		{TopologyTypeTriangle, gputypes.PrimitiveTopologyTriangleList, true},
		{TopologyTypeTriangle, gputypes.PrimitiveTopologyTriangleStrip, true},
		{TopologyTypeTriangle, gputypes.PrimitiveTopologyLineList, false},
		{TopologyTypeLine, gputypes.PrimitiveTopologyLineStrip, true},
		{TopologyTypePoint, gputypes.PrimitiveTopologyPointList, true},
		{TopologyTypePatch, gputypes.PrimitiveTopologyTriangleList, false},
	}
	for _, tt := range tests {
		if got := tt.tt.Accepts(tt.t); got != tt.want {
			t.Errorf("%d.Accepts(%d) = %v, want %v", tt.tt, tt.t, got, tt.want)
		}
	}
}

func TestCapabilitiesStageSupported(t *testing.T) {
	caps := Capabilities{GeometryShader: true}
	tests := []struct {
		stage ShaderStage
		want  bool
	}{
		{StageVertex, true},
		{StageFragment, true},
		{StageGeometry, true},
		{StageTessellationControl, false},
		{ShaderStage(9), false},
	}
	for _, tt := range tests {
		if got := caps.StageSupported(tt.stage); got != tt.want {
			t.Errorf("StageSupported(%v) = %v, want %v", tt.stage, got, tt.want)
		}
	}

	caps.ApplyLimits(gputypes.DefaultLimits())
	if caps.MaxTextureDimension != gputypes.DefaultLimits().MaxTextureDimension2D {
		t.Errorf("MaxTextureDimension = %d", caps.MaxTextureDimension)
	}
	if got := BindingModelName.String(); got != "Name" {
		t.Errorf("BindingModelName.String() = %q", got)
	}
}
