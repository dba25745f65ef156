//go:build !nogpu && !android

package hal

import _ "github.com/gogpu/wgpu/hal/vulkan"
