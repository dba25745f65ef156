// Package all registers every backend of this module.
//
// Import it for its side effect:
//
//	import _ "github.com/gogpu/rhi/backend/all"
//
// The Direct3D12 and Vulkan backends are left out under the nogpu build tag.
package all

import (
	_ "github.com/gogpu/rhi/backend/d3d"  // Direct3D9, Direct3D10, Direct3D11
	_ "github.com/gogpu/rhi/backend/gl"   // OpenGL
	_ "github.com/gogpu/rhi/backend/null" // Null
)
