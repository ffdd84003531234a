package shader

import (
	"github.com/conduit-gpu/conduit/errors"
	"github.com/conduit-gpu/conduit/internal/device"
	"github.com/conduit-gpu/conduit/internal/memory"
)

// mulWGSL computes out[idx] = a[idx] * b[idx] guarded by the output length.
const mulWGSL = `
@group(0) @binding(0) var<storage, read> a: array<%[1]s>;
@group(0) @binding(1) var<storage, read> b: array<%[1]s>;
@group(0) @binding(2) var<storage, read_write> out: array<%[1]s>;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let idx = global_id.x;
    if (idx < arrayLength(&out)) {
        out[idx] = a[idx] * b[idx];
    }
}
`

// Mul returns the elementwise multiply program for the kind:
// out[i] = a[i] * b[i] with bindings (a, b, out).
//
// Integer multiplication wraps modulo 2^width (two's complement for signed
// kinds), matching the storage arithmetic on both drivers. A product
// exceeding the kind's range is therefore well-defined, not an error:
// int8 16*16 reads back as 0.
func Mul(kind memory.ElemKind) (*device.Program, error) {
	if !kind.Valid() {
		return nil, errors.New(errors.PhaseCreate, errors.KindTypeMismatch).
			HostKind(kind.String()).
			Detail("no multiply program for this element kind").
			Build()
	}
	return &device.Program{
		Name:      "mul_" + kind.String(),
		Entry:     "main",
		WGSL:      renderWGSL(mulWGSL, kind),
		Kernel:    mulKernelFor(kind),
		LocalSize: workgroupSize,
	}, nil
}
