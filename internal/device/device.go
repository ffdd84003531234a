// Package device defines the narrow interface between the binding layer and
// the compute drivers behind it. The binding layer never touches a graphics
// API directly: uploads, dispatches and downloads all go through Device, and
// each driver is consumed as an opaque service.
package device

// Buffer is a device memory allocation.
type Buffer interface {
	// Size returns the allocation size in bytes.
	Size() int
	// Upload copies p from the host into the buffer. len(p) must not
	// exceed Size.
	Upload(p []byte) error
	// Download copies from the buffer into p, draining any pending
	// batched work first. len(p) must not exceed Size.
	Download(p []byte) error
	// Release frees the allocation. The buffer must not be used after.
	Release()
}

// Pipeline is a compiled program handle, opaque to callers.
type Pipeline interface {
	// ProgramName returns the name of the program the pipeline was
	// compiled from.
	ProgramName() string
}

// Kernel is a host-executable program body. It receives the bound buffers
// in binding order as raw bytes and the workgroup counts the dispatch was
// issued with.
type Kernel func(bufs [][]byte, groups [3]uint32) error

// Program describes a compute program in every representation a driver
// might accept. Drivers pick the field they understand and reject programs
// that carry none.
type Program struct {
	Name      string   // cache key, e.g. "mul_float32"
	Entry     string   // entry point, e.g. "main"
	WGSL      string   // shader source for WGSL-consuming drivers
	SPIRV     []uint32 // precompiled words for SPIR-V-consuming drivers
	Kernel    Kernel   // host-executable body for the host driver
	LocalSize uint32   // invocations per workgroup; 0 means 1
}

// WorkgroupSize returns the program's invocations per workgroup, defaulting
// to 1 when unset.
func (p *Program) WorkgroupSize() uint32 {
	if p.LocalSize == 0 {
		return 1
	}
	return p.LocalSize
}

// Device is the opaque compute service executing uploads, dispatches and
// downloads on behalf of the binding layer.
type Device interface {
	// Name identifies the driver, e.g. "host" or "webgpu".
	Name() string
	// Alloc allocates a device buffer of the given byte size.
	Alloc(size int) (Buffer, error)
	// Compile turns a program into a dispatchable pipeline. Drivers cache
	// by Program.Name, so repeated compiles of one program are cheap.
	Compile(p *Program) (Pipeline, error)
	// Dispatch runs the pipeline over the buffers, bound in order. The
	// driver may batch the work; it is executed no later than the next
	// Flush or Download.
	Dispatch(p Pipeline, bufs []Buffer, groups [3]uint32) error
	// Copy copies src into dst on the device side. Sizes must match.
	Copy(dst, src Buffer) error
	// Flush drains batched work and surfaces any deferred failure.
	Flush() error
	// Close releases the device. All buffers and pipelines die with it.
	Close() error
}
