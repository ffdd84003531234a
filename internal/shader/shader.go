// Package shader provides the built-in compute programs of the binding
// layer. Every program is carried in each representation a driver might
// consume: a host-executable kernel covering all element kinds, and WGSL
// source for the kinds WGSL can address in storage buffers (f32, i32, u32).
// SPIR-V words can be produced on demand through CompileSPIRV.
package shader

import (
	"fmt"

	"github.com/conduit-gpu/conduit/internal/memory"
)

// workgroupSize is the number of invocations per workgroup in the built-in
// WGSL programs.
const workgroupSize = 256

// wgslScalar returns the WGSL storage scalar for the element kind, or ""
// when the kind cannot be addressed in a WGSL storage buffer. WGSL has no
// 8- or 16-bit storage scalars, so the narrow integer kinds stay
// host-kernel only.
func wgslScalar(kind memory.ElemKind) string {
	switch kind {
	case memory.Float32:
		return "f32"
	case memory.Int32:
		return "i32"
	case memory.Uint32:
		return "u32"
	default:
		return ""
	}
}

// renderWGSL instantiates a shader template with the kind's WGSL scalar.
// Returns "" for kinds WGSL cannot express.
func renderWGSL(template string, kind memory.ElemKind) string {
	scalar := wgslScalar(kind)
	if scalar == "" {
		return ""
	}
	return fmt.Sprintf(template, scalar)
}
