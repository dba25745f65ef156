// Package scenario builds and records the textured-triangle scenario used by
// the backend tests and by cmd/rhidemo.
//
// The scenario binds a root signature of three descriptor tables: a constant
// buffer, a texture paired with the sampler table, and the sampler table. It
// then draws one triangle list.
package scenario

import (
	_ "embed"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/rhi"
)

// TexturedWGSL is the scenario shader module.
//
//go:embed shaders/textured.wgsl
var TexturedWGSL string

// Root parameter indices of the scenario root signature.
const (
	ParamUniforms = 0
	ParamTexture  = 1
	ParamSampler  = 2
)

// VertexStride is the size of one Vertex in the vertex buffer.
const VertexStride = 20

// ErrCreate is returned when the device fails to create a scenario resource.
var ErrCreate = errors.New("scenario: resource creation failed")

// RootSignatureDesc returns the scenario root signature with the fallback
// names of cfg.
func RootSignatureDesc(cfg Config) *rhi.RootSignatureDesc {
	return &rhi.RootSignatureDesc{
		Parameters: []rhi.RootParameter{
			ParamUniforms: rhi.DescriptorTable(rhi.VisibilityAll, rhi.DescriptorRange{
				Type: rhi.RangeCBV, Count: 1, OffsetInTable: rhi.OffsetAppend,
				FallbackName: cfg.UniformsName, PairedSamplerParameterIndex: rhi.NoPairedSampler,
			}),
			ParamTexture: rhi.DescriptorTable(rhi.VisibilityFragment, rhi.DescriptorRange{
				Type: rhi.RangeSRV, Count: 1, OffsetInTable: rhi.OffsetAppend,
				FallbackName: cfg.TextureName, PairedSamplerParameterIndex: ParamSampler,
			}),
			ParamSampler: rhi.DescriptorTable(rhi.VisibilityFragment, rhi.DescriptorRange{
				Type: rhi.RangeSampler, Count: 1, OffsetInTable: rhi.OffsetAppend,
				PairedSamplerParameterIndex: rhi.NoPairedSampler,
			}),
		},
		Flags: rhi.RootSignatureFlagAllowInputAssemblerInputLayout,
	}
}

// VertexAttributes returns the layout of Vertex in slot zero.
func VertexAttributes() []rhi.VertexAttribute {
	return []rhi.VertexAttribute{
		{Name: "position", Format: gputypes.VertexFormatFloat32x3, ShaderLocation: 0, Stride: VertexStride},
		{Name: "uv", Format: gputypes.VertexFormatFloat32x2, ShaderLocation: 1, AlignedByteOffset: 12, Stride: VertexStride},
	}
}

// Scenario owns every resource the scenario draws with.
type Scenario struct {
	Config Config

	RootSignature  rhi.RootSignature
	VertexShader   rhi.Shader
	FragmentShader rhi.Shader
	Program        rhi.Program
	Pipeline       rhi.PipelineState
	VertexBuffer   rhi.VertexBuffer
	VertexArray    rhi.VertexArray
	Uniforms       rhi.UniformBuffer
	Texture        rhi.Texture2D
	Sampler        rhi.SamplerState
	ColorTarget    rhi.Texture2D
	Target         rhi.Framebuffer
}

// Build creates the scenario resources on dev. Creation is all-or-nothing:
// on failure every resource created so far is released.
func Build(dev rhi.Device, cfg Config) (*Scenario, error) {
	s := &Scenario{Config: cfg}
	if err := s.build(dev); err != nil {
		s.Release()
		return nil, err
	}
	return s, nil
}

func (s *Scenario) build(dev rhi.Device) error {
	cfg := s.Config
	missing := func(what string) error {
		return fmt.Errorf("%w: %s on %s", ErrCreate, what, dev.Name())
	}

	if s.RootSignature = dev.CreateRootSignature(RootSignatureDesc(cfg)); s.RootSignature == nil {
		return missing("root signature")
	}
	s.VertexShader = dev.CreateShader(rhi.StageVertex, rhi.ShaderSource{WGSL: TexturedWGSL, EntryPoint: "vs_main"})
	if s.VertexShader == nil {
		return missing("vertex shader")
	}
	s.FragmentShader = dev.CreateShader(rhi.StageFragment, rhi.ShaderSource{WGSL: TexturedWGSL, EntryPoint: "fs_main"})
	if s.FragmentShader == nil {
		return missing("fragment shader")
	}
	if s.Program = dev.CreateProgram(s.RootSignature, VertexAttributes(), s.VertexShader, s.FragmentShader); s.Program == nil {
		return missing("program")
	}

	s.ColorTarget = dev.CreateTexture2D(&rhi.Texture2DDesc{
		Width: cfg.Width, Height: cfg.Height, Format: gputypes.TextureFormatRGBA8Unorm, RenderTarget: true,
	})
	if s.ColorTarget == nil {
		return missing("color target")
	}
	if s.Target = dev.CreateFramebuffer([]rhi.Texture{s.ColorTarget}, nil); s.Target == nil {
		return missing("framebuffer")
	}

	s.Pipeline = dev.CreatePipelineState(&rhi.PipelineStateDesc{
		RootSignature:    s.RootSignature,
		Program:          s.Program,
		VertexAttributes: VertexAttributes(),
		TopologyType:     rhi.TopologyTypeTriangle,
		Rasterizer:       rhi.DefaultRasterizerState(),
		ColorFormats:     []gputypes.TextureFormat{gputypes.TextureFormatRGBA8Unorm},
		SampleCount:      1,
	})
	if s.Pipeline == nil {
		return missing("pipeline state")
	}

	vertices := VertexData(cfg.Vertices)
	s.VertexBuffer = dev.CreateVertexBuffer(uint32(len(vertices)), vertices, rhi.BufferUsageStatic)
	if s.VertexBuffer == nil {
		return missing("vertex buffer")
	}
	s.VertexArray = dev.CreateVertexArray(&rhi.VertexArrayDesc{
		Attributes:    VertexAttributes(),
		VertexBuffers: []rhi.VertexArrayVertexBuffer{{Buffer: s.VertexBuffer}},
	})
	if s.VertexArray == nil {
		return missing("vertex array")
	}

	uniforms := identityMatrix()
	if s.Uniforms = dev.CreateUniformBuffer(uint32(len(uniforms)), uniforms, rhi.BufferUsageDynamic); s.Uniforms == nil {
		return missing("uniform buffer")
	}
	s.Texture = dev.CreateTexture2D(&rhi.Texture2DDesc{
		Width: 2, Height: 2, Format: gputypes.TextureFormatRGBA8Unorm, Data: checkerboard(),
	})
	if s.Texture == nil {
		return missing("texture")
	}
	sampler := rhi.DefaultSamplerState()
	if s.Sampler = dev.CreateSamplerState(&sampler); s.Sampler == nil {
		return missing("sampler state")
	}
	return nil
}

// Record records the draw sequence: root signature, pipeline, the three
// descriptor tables, vertex array, topology and one draw.
func (s *Scenario) Record(cb *rhi.CommandBuffer) {
	cb.SetGraphicsRootSignature(s.RootSignature)
	cb.SetPipelineState(s.Pipeline)
	cb.SetGraphicsRootDescriptorTable(ParamUniforms, s.Uniforms)
	cb.SetGraphicsRootDescriptorTable(ParamTexture, s.Texture)
	cb.SetGraphicsRootDescriptorTable(ParamSampler, s.Sampler)
	cb.SetVertexArray(s.VertexArray)
	cb.SetPrimitiveTopology(gputypes.PrimitiveTopologyTriangleList)
	cb.Draw(rhi.DrawArguments{VertexCountPerInstance: uint32(len(s.Config.Vertices)), InstanceCount: 1})
}

// RecordFrame records a full frame into the scenario framebuffer: target,
// clear, viewport and scissor, then the draw sequence.
func (s *Scenario) RecordFrame(cb *rhi.CommandBuffer) {
	w, h := s.Config.Width, s.Config.Height
	cb.BeginDebugEvent("scenario frame")
	cb.SetRenderTarget(s.Target)
	cb.ClearRenderTarget(rhi.ClearColor, s.Config.ClearColor, 1, 0)
	cb.SetViewports(rhi.Viewport{Width: float32(w), Height: float32(h), MaxDepth: 1})
	cb.SetScissorRectangles(rhi.ScissorRectangle{Width: int32(w), Height: int32(h)})
	s.Record(cb)
	cb.EndDebugEvent()
}

// Release drops the scenario's reference to every resource.
func (s *Scenario) Release() {
	for _, r := range []rhi.Resource{
		s.Sampler, s.Texture, s.Uniforms, s.VertexArray, s.VertexBuffer,
		s.Pipeline, s.Target, s.ColorTarget, s.Program,
		s.FragmentShader, s.VertexShader, s.RootSignature,
	} {
		rhi.Release(r)
	}
	*s = Scenario{Config: s.Config}
}

// VertexData packs vertices as little-endian float32s.
func VertexData(vertices []Vertex) []byte {
	b := make([]byte, 0, len(vertices)*VertexStride)
	for _, v := range vertices {
		for _, f := range v.Position {
			b = binary.LittleEndian.AppendUint32(b, math.Float32bits(f))
		}
		for _, f := range v.UV {
			b = binary.LittleEndian.AppendUint32(b, math.Float32bits(f))
		}
	}
	return b
}

func identityMatrix() []byte {
	b := make([]byte, 0, 64)
	for i := range 16 {
		f := float32(0)
		if i%5 == 0 {
			f = 1
		}
		b = binary.LittleEndian.AppendUint32(b, math.Float32bits(f))
	}
	return b
}

func checkerboard() []byte {
	return []byte{
		255, 255, 255, 255, 0, 0, 0, 255,
		0, 0, 0, 255, 255, 255, 255, 255,
	}
}
