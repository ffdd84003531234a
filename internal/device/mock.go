package device

import (
	"fmt"
	"sync/atomic"
)

// Verify that MockDevice implements Device.
var _ Device = (*MockDevice)(nil)

// MockDevice is a simple in-memory device for testing. Buffers are plain
// byte slices, dispatches run host kernels synchronously, and every failure
// path can be forced through the Fail* switches.
type MockDevice struct {
	FailAlloc    bool
	FailUpload   bool
	FailDownload bool
	FailDispatch bool
	FailCopy     bool
	FailCompile  bool
	FailClose    bool

	live   atomic.Int32 // outstanding buffers
	closed bool
}

// NewMock creates a new MockDevice.
func NewMock() *MockDevice {
	return &MockDevice{}
}

// Name returns the device name.
func (d *MockDevice) Name() string {
	return "mock"
}

// LiveBuffers returns the number of allocated, not yet released buffers.
func (d *MockDevice) LiveBuffers() int {
	return int(d.live.Load())
}

// Alloc allocates an in-memory buffer.
func (d *MockDevice) Alloc(size int) (Buffer, error) {
	if d.closed {
		return nil, fmt.Errorf("mock: device closed")
	}
	if d.FailAlloc {
		return nil, fmt.Errorf("mock: forced alloc failure")
	}
	if size <= 0 {
		return nil, fmt.Errorf("mock: invalid buffer size %d", size)
	}
	d.live.Add(1)
	return &mockBuffer{dev: d, data: make([]byte, size)}, nil
}

// Compile wraps the program's host kernel into a pipeline.
func (d *MockDevice) Compile(p *Program) (Pipeline, error) {
	if d.FailCompile {
		return nil, fmt.Errorf("mock: forced compile failure")
	}
	if p == nil || p.Kernel == nil {
		return nil, fmt.Errorf("mock: program has no host kernel")
	}
	return &mockPipeline{name: p.Name, kernel: p.Kernel}, nil
}

// Dispatch runs the pipeline's kernel over the buffers immediately.
func (d *MockDevice) Dispatch(p Pipeline, bufs []Buffer, groups [3]uint32) error {
	if d.FailDispatch {
		return fmt.Errorf("mock: forced dispatch failure")
	}
	mp, ok := p.(*mockPipeline)
	if !ok {
		return fmt.Errorf("mock: foreign pipeline %T", p)
	}
	raw := make([][]byte, len(bufs))
	for i, b := range bufs {
		mb, ok := b.(*mockBuffer)
		if !ok {
			return fmt.Errorf("mock: foreign buffer %T", b)
		}
		raw[i] = mb.data
	}
	return mp.kernel(raw, groups)
}

// Copy copies src into dst.
func (d *MockDevice) Copy(dst, src Buffer) error {
	if d.FailCopy {
		return fmt.Errorf("mock: forced copy failure")
	}
	db, ok := dst.(*mockBuffer)
	if !ok {
		return fmt.Errorf("mock: foreign buffer %T", dst)
	}
	sb, ok := src.(*mockBuffer)
	if !ok {
		return fmt.Errorf("mock: foreign buffer %T", src)
	}
	if len(db.data) != len(sb.data) {
		return fmt.Errorf("mock: copy size mismatch: %d vs %d", len(db.data), len(sb.data))
	}
	copy(db.data, sb.data)
	return nil
}

// Flush is a no-op; mock work executes synchronously.
func (d *MockDevice) Flush() error {
	return nil
}

// Close marks the device closed.
func (d *MockDevice) Close() error {
	d.closed = true
	if d.FailClose {
		return fmt.Errorf("mock: forced close failure")
	}
	return nil
}

type mockPipeline struct {
	name   string
	kernel Kernel
}

func (p *mockPipeline) ProgramName() string {
	return p.name
}

type mockBuffer struct {
	dev      *MockDevice
	data     []byte
	released bool
}

func (b *mockBuffer) Size() int {
	return len(b.data)
}

func (b *mockBuffer) Upload(p []byte) error {
	if b.released {
		return fmt.Errorf("mock: upload to released buffer")
	}
	if b.dev.FailUpload {
		return fmt.Errorf("mock: forced upload failure")
	}
	if len(p) > len(b.data) {
		return fmt.Errorf("mock: upload of %d bytes into %d byte buffer", len(p), len(b.data))
	}
	copy(b.data, p)
	return nil
}

func (b *mockBuffer) Download(p []byte) error {
	if b.released {
		return fmt.Errorf("mock: download from released buffer")
	}
	if b.dev.FailDownload {
		return fmt.Errorf("mock: forced download failure")
	}
	if len(p) > len(b.data) {
		return fmt.Errorf("mock: download of %d bytes from %d byte buffer", len(p), len(b.data))
	}
	copy(p, b.data)
	return nil
}

func (b *mockBuffer) Release() {
	if b.released {
		return
	}
	b.released = true
	b.dev.live.Add(-1)
}
