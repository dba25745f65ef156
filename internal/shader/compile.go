package shader

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/naga"
)

// CompileSPIRV compiles WGSL source to SPIR-V words.
func CompileSPIRV(src string) ([]uint32, error) {
	code, err := naga.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return spirvWords(code)
}

// spirvWords converts a little-endian SPIR-V byte stream to words.
func spirvWords(code []byte) ([]uint32, error) {
	if len(code)%4 != 0 {
		return nil, fmt.Errorf("shader: SPIR-V length %d is not a multiple of 4", len(code))
	}
	words := make([]uint32, len(code)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(code[i*4:])
	}
	return words, nil
}
