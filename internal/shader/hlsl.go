package shader

import (
	"fmt"

	"github.com/gogpu/naga/hlsl"
)

// Location is the group and binding a WGSL resource global declares.
type Location struct {
	Group   uint32
	Binding uint32
}

// Register is the HLSL register space and index a resource is placed at.
// The register class follows from the resource kind.
type Register struct {
	Space    uint32
	Register uint32
}

// CompileHLSL translates the named entry point of src to HLSL source.
// Globals found in registers are placed there; the rest get registers
// assigned by the translator.
func CompileHLSL(src, entryPoint string, registers map[Location]Register) (string, error) {
	m, err := lower(src)
	if err != nil {
		return "", err
	}
	opts := hlsl.DefaultOptions()
	opts.ShaderModel = hlsl.ShaderModel5_0
	opts.EntryPoint = entryPoint
	for loc, reg := range registers {
		opts.BindingMap[hlsl.ResourceBinding{Group: loc.Group, Binding: loc.Binding}] = hlsl.BindTarget{
			Space:    uint8(reg.Space),
			Register: reg.Register,
		}
	}
	out, _, err := hlsl.Compile(m, opts)
	if err != nil {
		return "", fmt.Errorf("shader: HLSL translation of %q: %w", entryPoint, err)
	}
	return out, nil
}
