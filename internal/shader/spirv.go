package shader

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/gogpu/naga"

	"github.com/conduit-gpu/conduit/internal/device"
)

// spirvMagic is the SPIR-V module magic number in word 0.
const spirvMagic = 0x07230203

// CompileSPIRV compiles WGSL source into SPIR-V words for drivers that
// consume SPIR-V instead of WGSL. Words are packed little-endian.
func CompileSPIRV(wgsl string) ([]uint32, error) {
	raw, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("shader: wgsl compilation failed: %w", err)
	}
	if len(raw) == 0 || len(raw)%4 != 0 {
		return nil, fmt.Errorf("shader: spir-v output is %d bytes, want a positive multiple of 4", len(raw))
	}
	words := make([]uint32, len(raw)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(raw[i*4:])
	}
	if words[0] != spirvMagic {
		return nil, fmt.Errorf("shader: bad spir-v magic 0x%08x", words[0])
	}
	return words, nil
}

// Precompile fills p.SPIRV from p.WGSL. Programs without WGSL are left
// untouched.
func Precompile(p *device.Program) error {
	if p == nil || p.WGSL == "" || p.SPIRV != nil {
		return nil
	}
	words, err := CompileSPIRV(p.WGSL)
	if err != nil {
		return fmt.Errorf("precompiling %s: %w", p.Name, err)
	}
	p.SPIRV = words
	return nil
}

// InconclusiveWGSL reports whether a CompileSPIRV error reflects a gap in
// the pure-Go compiler rather than a defect in the source, e.g. constructs
// it does not implement yet. Callers validating WGSL ahead of a real device
// compiler should treat such errors as inconclusive and defer to the
// device.
func InconclusiveWGSL(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "not yet implemented") ||
		strings.Contains(msg, "not supported") ||
		strings.Contains(msg, "lowering error")
}
