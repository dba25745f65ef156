// Package rhi provides a render hardware interface for Go.
//
// # Overview
//
// rhi is a single API surface over OpenGL, Direct3D 9/10/11/12, Vulkan and a
// "null" backend. Client code describes resource bindings once, in a
// backend-neutral root signature, and records draw work into command buffers
// that any device can execute.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/rhi"
//	    _ "github.com/gogpu/rhi/backend/all"
//	)
//
//	dev, err := rhi.OpenDevice(rhi.BackendOpenGL)
//	if err != nil {
//	    // Backend not registered or not initialized.
//	}
//	defer dev.Close()
//
//	rs := dev.CreateRootSignature(&rhi.RootSignatureDesc{
//	    Parameters: []rhi.RootParameter{
//	        rhi.DescriptorTable(rhi.VisibilityAll, rhi.DescriptorRange{
//	            Type: rhi.RangeCBV, Count: 1, OffsetInTable: rhi.OffsetAppend,
//	            FallbackName: "Uniforms", PairedSamplerParameterIndex: rhi.NoPairedSampler,
//	        }),
//	    },
//	})
//
//	var cb rhi.CommandBuffer
//	cb.SetGraphicsRootSignature(rs)
//	cb.SetPipelineState(ps)
//	cb.SetVertexArray(va)
//	cb.SetPrimitiveTopology(gputypes.PrimitiveTopologyTriangleList)
//	cb.Draw(rhi.DrawArguments{VertexCountPerInstance: 3, InstanceCount: 1})
//	cb.SubmitAndClear(dev)
//
// # Architecture
//
// The library is organized into:
//   - Resource model: reference-counted resources with a kind discriminant
//   - Root signature: descriptor ranges, tables, root parameters, static samplers
//   - Command buffer: packet queue with a dispatch table keyed by command type
//   - Draw state: the bind state machine every draw is checked against
//   - Backends: table-based (backend/hal), slot-based (backend/d3d),
//     name-based (backend/gl) and no-op (backend/null)
//
// # Threading
//
// Recording into a CommandBuffer never calls a backend, so separate buffers
// may be recorded on separate goroutines. Submission must happen on the
// goroutine that owns the native context. Reference counts are not atomic.
package rhi

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
