package gl

import (
	"slices"
	"testing"

	"github.com/gogpu/rhi/internal/scenario"
	"github.com/gogpu/rhi/internal/trace"
)

func newTraceNative(t *testing.T) *TraceNative {
	t.Helper()
	return NewTraceNative(trace.NewRecorder("OpenGL", nil))
}

func TestTraceLinkAssignsLocations(t *testing.T) {
	n := newTraceNative(t)
	vs, info := n.CompileShader(VERTEX_SHADER, scenario.TexturedWGSL)
	if vs == 0 {
		t.Fatalf("CompileShader() failed: %s", info)
	}
	p := n.CreateProgram()
	n.AttachShader(p, vs)
	if ok, info := n.LinkProgram(p); !ok {
		t.Fatalf("LinkProgram() failed: %s", info)
	}

	want := []string{"DiffuseMap", "DiffuseSampler", "Uniforms"}
	if got := n.UniformNames(p); !slices.Equal(got, want) {
		t.Errorf("UniformNames() = %v, want %v", got, want)
	}
	if idx := n.GetUniformBlockIndex(p, "Uniforms"); idx != 0 {
		t.Errorf("GetUniformBlockIndex(Uniforms) = %d, want 0", idx)
	}
	if loc := n.GetUniformLocation(p, "DiffuseMap"); loc != 0 {
		t.Errorf("GetUniformLocation(DiffuseMap) = %d, want 0", loc)
	}
	if loc := n.GetUniformLocation(p, "Missing"); loc != -1 {
		t.Errorf("GetUniformLocation(Missing) = %d, want -1", loc)
	}
	if idx := n.GetUniformBlockIndex(p, "DiffuseMap"); idx != InvalidIndex {
		t.Errorf("GetUniformBlockIndex(DiffuseMap) = %d, want InvalidIndex", idx)
	}
}

func TestTraceCompileFailure(t *testing.T) {
	n := newTraceNative(t)
	s, info := n.CompileShader(FRAGMENT_SHADER, "fn broken(")
	if s != 0 || info == "" {
		t.Errorf("CompileShader(invalid) = %d, %q, want 0 and a log", s, info)
	}
}

func TestTraceLinkUnknownProgram(t *testing.T) {
	n := newTraceNative(t)
	if ok, _ := n.LinkProgram(42); ok {
		t.Error("LinkProgram(unknown) = true, want false")
	}
	if loc := n.GetUniformLocation(42, "Uniforms"); loc != -1 {
		t.Errorf("GetUniformLocation(unlinked) = %d, want -1", loc)
	}
}

func TestTraceRecordsCalls(t *testing.T) {
	n := newTraceNative(t)
	b := n.CreateBuffer()
	n.BufferData(b, 16, make([]byte, 16), STATIC_DRAW)
	n.DeleteBuffer(b)

	want := []string{
		"glCreateBuffers(1)",
		"glNamedBufferData(1, 16, 16, 35044)",
		"glDeleteBuffers(1)",
	}
	if got := n.Recorder().Strings(); !slices.Equal(got, want) {
		t.Errorf("Strings() = %v, want %v", got, want)
	}
}
