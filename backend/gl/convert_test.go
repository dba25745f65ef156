package gl

import (
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/rhi"
)

func TestCompareFunc(t *testing.T) {
	tests := []struct {
		in     gputypes.CompareFunction
		want   Enum
		wantOK bool
	}{
		{gputypes.CompareFunctionUndefined, ALWAYS, false},
		{gputypes.CompareFunctionNever, NEVER, true},
		{gputypes.CompareFunctionLess, LESS, true},
		{gputypes.CompareFunctionLessEqual, LEQUAL, true},
		{gputypes.CompareFunctionGreaterEqual, GEQUAL, true},
		{gputypes.CompareFunctionAlways, ALWAYS, true},
		{gputypes.CompareFunctionAlways + 1, ALWAYS, false},
	}
	for _, tt := range tests {
		got, ok := compareFunc(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("compareFunc(%v) = %#x, %v, want %#x, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestStencilOp(t *testing.T) {
	tests := []struct {
		in     gputypes.StencilOperation
		want   Enum
		wantOK bool
	}{
		{gputypes.StencilOperationUndefined, KEEP, false},
		{gputypes.StencilOperationKeep, KEEP, true},
		{gputypes.StencilOperationZero, ZERO, true},
		{gputypes.StencilOperationIncrementClamp, INCR, true},
		{gputypes.StencilOperationDecrementWrap, DECR_WRAP, true},
	}
	for _, tt := range tests {
		got, ok := stencilOp(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("stencilOp(%v) = %#x, %v, want %#x, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestBlendConversions(t *testing.T) {
	factors := []struct {
		in     gputypes.BlendFactor
		want   Enum
		wantOK bool
	}{
		{gputypes.BlendFactorZero, ZERO, true},
		{gputypes.BlendFactorOne, ONE, true},
		{gputypes.BlendFactorSrcAlpha, SRC_ALPHA, true},
		{gputypes.BlendFactorOneMinusSrcAlpha, ONE_MINUS_SRC_ALPHA, true},
		{gputypes.BlendFactorOneMinusConstant, ONE_MINUS_CONSTANT_COLOR, true},
		{gputypes.BlendFactor(0xFF), ONE, false},
	}
	for _, tt := range factors {
		got, ok := blendFactor(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("blendFactor(%v) = %#x, %v, want %#x, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}

	ops := []struct {
		in   gputypes.BlendOperation
		want Enum
	}{
		{gputypes.BlendOperationAdd, FUNC_ADD},
		{gputypes.BlendOperationReverseSubtract, FUNC_REVERSE_SUBTRACT},
		{gputypes.BlendOperationMax, MAX},
	}
	for _, tt := range ops {
		if got, ok := blendOp(tt.in); got != tt.want || !ok {
			t.Errorf("blendOp(%v) = %#x, %v, want %#x", tt.in, got, ok, tt.want)
		}
	}
}

func TestSamplerConversions(t *testing.T) {
	tests := []struct {
		name string
		min  gputypes.FilterMode
		mip  gputypes.MipmapFilterMode
		want Enum
	}{
		{"nearest without mips", gputypes.FilterModeNearest, gputypes.MipmapFilterModeUndefined, NEAREST},
		{"linear without mips", gputypes.FilterModeLinear, gputypes.MipmapFilterModeUndefined, LINEAR},
		{"trilinear", gputypes.FilterModeLinear, gputypes.MipmapFilterModeLinear, LINEAR_MIPMAP_LINEAR},
		{"nearest mip linear", gputypes.FilterModeNearest, gputypes.MipmapFilterModeLinear, NEAREST_MIPMAP_LINEAR},
		{"linear mip nearest", gputypes.FilterModeLinear, gputypes.MipmapFilterModeNearest, LINEAR_MIPMAP_NEAREST},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, ok := minFilter(tt.min, tt.mip); got != tt.want || !ok {
				t.Errorf("minFilter() = %#x, %v, want %#x", got, ok, tt.want)
			}
		})
	}

	if _, ok := minFilter(gputypes.FilterModeUndefined, gputypes.MipmapFilterModeUndefined); ok {
		t.Error("minFilter(Undefined) ok = true, want false")
	}
	if got, ok := addressMode(gputypes.AddressModeClampToEdge); got != CLAMP_TO_EDGE || !ok {
		t.Errorf("addressMode(ClampToEdge) = %#x, %v", got, ok)
	}
	if got, ok := addressMode(gputypes.AddressModeUndefined); got != REPEAT || ok {
		t.Errorf("addressMode(Undefined) = %#x, %v, want REPEAT, false", got, ok)
	}
}

func TestRasterizerConversions(t *testing.T) {
	if face, ok := cullFace(gputypes.CullModeNone); face != 0 || !ok {
		t.Errorf("cullFace(None) = %#x, %v, want 0, true", face, ok)
	}
	if face, _ := cullFace(gputypes.CullModeBack); face != BACK {
		t.Errorf("cullFace(Back) = %#x, want BACK", face)
	}
	if ff, _ := frontFace(gputypes.FrontFaceCW); ff != CW {
		t.Errorf("frontFace(CW) = %#x, want CW", ff)
	}
	if mode, ok := topology(gputypes.PrimitiveTopologyTriangleStrip); mode != TRIANGLE_STRIP || !ok {
		t.Errorf("topology(TriangleStrip) = %#x, %v", mode, ok)
	}
}

func TestFormatConversions(t *testing.T) {
	if typ, size, ok := indexType(gputypes.IndexFormatUint32); typ != UNSIGNED_INT || size != 4 || !ok {
		t.Errorf("indexType(Uint32) = %#x, %d, %v", typ, size, ok)
	}
	if _, _, ok := indexType(gputypes.IndexFormatUndefined); ok {
		t.Error("indexType(Undefined) ok = true, want false")
	}

	tf, ok := convertTextureFormat(gputypes.TextureFormatDepth24PlusStencil8)
	if !ok || tf.internal != DEPTH24_STENCIL8 || tf.format != DEPTH_STENCIL {
		t.Errorf("convertTextureFormat(Depth24PlusStencil8) = %+v, %v", tf, ok)
	}
	if _, ok := convertTextureFormat(gputypes.TextureFormatUndefined); ok {
		t.Error("convertTextureFormat(Undefined) ok = true, want false")
	}
	if !isDepthFormat(gputypes.TextureFormatDepth32Float) || isDepthFormat(gputypes.TextureFormatRGBA8Unorm) {
		t.Error("isDepthFormat() misclassifies formats")
	}

	vf, ok := convertVertexFormat(gputypes.VertexFormatUnorm8x4)
	if !ok || vf != (vertexFormat{4, UNSIGNED_BYTE, true}) {
		t.Errorf("convertVertexFormat(Unorm8x4) = %+v, %v", vf, ok)
	}
}

func TestStageConversions(t *testing.T) {
	tests := []struct {
		stage rhi.ShaderStage
		want  Enum
	}{
		{rhi.StageVertex, VERTEX_SHADER},
		{rhi.StageTessellationControl, TESS_CONTROL_SHADER},
		{rhi.StageGeometry, GEOMETRY_SHADER},
		{rhi.StageFragment, FRAGMENT_SHADER},
	}
	for _, tt := range tests {
		if got, ok := shaderType(tt.stage); got != tt.want || !ok {
			t.Errorf("shaderType(%v) = %#x, %v, want %#x", tt.stage, got, ok, tt.want)
		}
	}
	if _, ok := shaderType(rhi.NumStages); ok {
		t.Error("shaderType(NumStages) ok = true, want false")
	}
	if got := bufferUsage(rhi.BufferUsageStream); got != STREAM_DRAW {
		t.Errorf("bufferUsage(Stream) = %#x, want STREAM_DRAW", got)
	}
}
