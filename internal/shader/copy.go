package shader

import (
	"github.com/conduit-gpu/conduit/errors"
	"github.com/conduit-gpu/conduit/internal/device"
	"github.com/conduit-gpu/conduit/internal/memory"
)

// copyWGSL computes out[idx] = in[idx] guarded by the output length.
const copyWGSL = `
@group(0) @binding(0) var<storage, read> in: array<%[1]s>;
@group(0) @binding(1) var<storage, read_write> out: array<%[1]s>;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let idx = global_id.x;
    if (idx < arrayLength(&out)) {
        out[idx] = in[idx];
    }
}
`

// Copy returns the elementwise copy program for the kind:
// out[i] = in[i] with bindings (in, out).
func Copy(kind memory.ElemKind) (*device.Program, error) {
	if !kind.Valid() {
		return nil, errors.New(errors.PhaseCreate, errors.KindTypeMismatch).
			HostKind(kind.String()).
			Detail("no copy program for this element kind").
			Build()
	}
	return &device.Program{
		Name:      "copy_" + kind.String(),
		Entry:     "main",
		WGSL:      renderWGSL(copyWGSL, kind),
		Kernel:    copyKernelFor(kind),
		LocalSize: workgroupSize,
	}, nil
}
