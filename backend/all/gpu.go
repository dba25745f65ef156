//go:build !nogpu

package all

import (
	_ "github.com/gogpu/rhi/backend/hal" // Direct3D12, Vulkan
)
