package rhi

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// BindingModel is the native resource binding archetype of a device.
type BindingModel uint8

const (
	// BindingModelTable binds through descriptor tables (Direct3D 12, Vulkan).
	BindingModelTable BindingModel = iota
	// BindingModelSlot binds through fixed per-stage slots (Direct3D 9/10/11).
	BindingModelSlot
	// BindingModelName binds uniforms by name with coupled samplers (OpenGL).
	BindingModelName
)

var bindingModelNames = [...]string{
	BindingModelTable: "Table",
	BindingModelSlot:  "Slot",
	BindingModelName:  "Name",
}

// String returns the binding model name.
func (m BindingModel) String() string {
	if int(m) < len(bindingModelNames) {
		return bindingModelNames[m]
	}
	return "Unknown"
}

// Capabilities describes what a device supports. It is filled once when the
// device initializes and never changes afterwards.
type Capabilities struct {
	DeviceName   string
	Adapter      gpucontext.AdapterInfo
	BindingModel BindingModel

	MaxViewports                 uint32
	MaxSimultaneousRenderTargets uint32
	MaxTextureDimension          uint32
	MaxTextureArraySlices        uint32
	MaxUniformBufferSize         uint64
	MaxVertexAttributes          uint32

	// ExplicitBindingLocations reports whether shaders declare binding
	// locations. Name-based devices without it resolve bindings by name.
	ExplicitBindingLocations bool
	// IndividualUniforms reports whether loose uniforms outside blocks exist.
	IndividualUniforms   bool
	InstancedArrays      bool
	DrawInstanced        bool
	BaseVertex           bool
	NativeMultithreading bool
	TessellationShaders  bool
	GeometryShader       bool
	// UpperLeftOrigin reports a top-left framebuffer origin.
	UpperLeftOrigin bool
	// ZeroToOneClipZ reports a [0,1] clip-space depth range.
	ZeroToOneClipZ bool
}

// StageSupported reports whether the device runs shaders of stage s.
func (c *Capabilities) StageSupported(s ShaderStage) bool {
	switch s {
	case StageVertex, StageFragment:
		return true
	case StageTessellationControl, StageTessellationEvaluation:
		return c.TessellationShaders
	case StageGeometry:
		return c.GeometryShader
	default:
		return false
	}
}

// ApplyLimits fills the limit fields from l.
func (c *Capabilities) ApplyLimits(l gputypes.Limits) {
	c.MaxViewports = 1
	c.MaxSimultaneousRenderTargets = l.MaxColorAttachments
	c.MaxTextureDimension = l.MaxTextureDimension2D
	c.MaxTextureArraySlices = l.MaxTextureArrayLayers
	c.MaxUniformBufferSize = l.MaxUniformBufferBindingSize
	c.MaxVertexAttributes = l.MaxVertexAttributes
}
