//go:build !nogpu && windows

package hal

import _ "github.com/gogpu/wgpu/hal/dx12"
