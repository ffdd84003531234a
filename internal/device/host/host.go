// Package host implements the reference compute device: pure Go, always
// available, covering every element kind with exact arithmetic. It is the
// default device a manager runs on and the one the contract tests target.
package host

import (
	"fmt"
	"sync/atomic"

	"github.com/conduit-gpu/conduit/errors"
	"github.com/conduit-gpu/conduit/internal/device"
)

// Verify that Device implements device.Device.
var _ device.Device = (*Device)(nil)

// Device executes programs synchronously on the CPU. Buffers are plain byte
// slices and Dispatch runs the program's host kernel in the calling
// goroutine, so Flush has nothing to drain.
type Device struct {
	live   atomic.Int32 // outstanding buffers
	closed atomic.Bool
}

// New creates the host device.
func New() *Device {
	return &Device{}
}

// Name returns the driver name.
func (d *Device) Name() string {
	return "host"
}

// LiveBuffers returns the number of allocated, not yet released buffers.
func (d *Device) LiveBuffers() int {
	return int(d.live.Load())
}

// Alloc allocates a zero-filled in-memory buffer.
func (d *Device) Alloc(size int) (device.Buffer, error) {
	if d.closed.Load() {
		return nil, fmt.Errorf("host: device is closed")
	}
	if size <= 0 {
		return nil, fmt.Errorf("host: invalid buffer size %d", size)
	}
	d.live.Add(1)
	return &buffer{dev: d, data: make([]byte, size)}, nil
}

// Compile wraps the program's host kernel into a pipeline. Programs without
// a host-executable body cannot run here.
func (d *Device) Compile(p *device.Program) (device.Pipeline, error) {
	if p == nil {
		return nil, errors.InvalidInput(errors.PhaseDevice, "host: nil program")
	}
	if p.Kernel == nil {
		return nil, errors.Unsupported(errors.PhaseDevice, fmt.Sprintf("program %q carries no host kernel", p.Name))
	}
	return &pipeline{name: p.Name, kernel: p.Kernel}, nil
}

// Dispatch runs the pipeline's kernel over the buffers immediately.
func (d *Device) Dispatch(p device.Pipeline, bufs []device.Buffer, groups [3]uint32) error {
	hp, ok := p.(*pipeline)
	if !ok {
		return fmt.Errorf("host: foreign pipeline %T", p)
	}
	raw := make([][]byte, len(bufs))
	for i, b := range bufs {
		hb, ok := b.(*buffer)
		if !ok {
			return fmt.Errorf("host: foreign buffer %T", b)
		}
		if hb.released.Load() {
			return fmt.Errorf("host: dispatch over released buffer")
		}
		raw[i] = hb.data
	}
	return hp.kernel(raw, groups)
}

// Copy copies src into dst. Sizes must match.
func (d *Device) Copy(dst, src device.Buffer) error {
	db, ok := dst.(*buffer)
	if !ok {
		return fmt.Errorf("host: foreign buffer %T", dst)
	}
	sb, ok := src.(*buffer)
	if !ok {
		return fmt.Errorf("host: foreign buffer %T", src)
	}
	if db.released.Load() || sb.released.Load() {
		return fmt.Errorf("host: copy over released buffer")
	}
	if len(db.data) != len(sb.data) {
		return fmt.Errorf("host: copy size mismatch: %d vs %d", len(db.data), len(sb.data))
	}
	copy(db.data, sb.data)
	return nil
}

// Flush is a no-op; host work executes synchronously.
func (d *Device) Flush() error {
	return nil
}

// Close marks the device closed. Idempotent.
func (d *Device) Close() error {
	d.closed.Store(true)
	return nil
}

type pipeline struct {
	name   string
	kernel device.Kernel
}

func (p *pipeline) ProgramName() string {
	return p.name
}

type buffer struct {
	dev      *Device
	data     []byte
	released atomic.Bool
}

func (b *buffer) Size() int {
	return len(b.data)
}

func (b *buffer) Upload(p []byte) error {
	if b.released.Load() {
		return fmt.Errorf("host: upload to released buffer")
	}
	if len(p) > len(b.data) {
		return fmt.Errorf("host: upload of %d bytes into %d byte buffer", len(p), len(b.data))
	}
	copy(b.data, p)
	return nil
}

func (b *buffer) Download(p []byte) error {
	if b.released.Load() {
		return fmt.Errorf("host: download from released buffer")
	}
	if len(p) > len(b.data) {
		return fmt.Errorf("host: download of %d bytes from %d byte buffer", len(p), len(b.data))
	}
	copy(p, b.data)
	return nil
}

func (b *buffer) Release() {
	if b.released.Swap(true) {
		return
	}
	b.dev.live.Add(-1)
}
