//go:build !rhidebug

package rhi

// DebugBuild reports whether binding-contract assertions panic.
const DebugBuild = false

// Assertf checks cond in debug builds. Release builds trust the caller.
func Assertf(bool, string, ...any) {}
