//go:build rhidebug

package rhi

import "fmt"

// DebugBuild reports whether binding-contract assertions panic.
const DebugBuild = true

// Assertf panics with the formatted message when cond is false.
func Assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("rhi: assertion failed: "+format, args...))
	}
}
