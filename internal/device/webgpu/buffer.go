//go:build windows

package webgpu

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"github.com/go-webgpu/webgpu/wgpu"

	"github.com/conduit-gpu/conduit/errors"
)

// alignSize rounds a byte size up to the 4-byte copy alignment the GPU
// requires, with a 4-byte floor.
func alignSize(size int) uint64 {
	if size < 4 {
		return 4
	}
	return (uint64(size) + 3) &^ 3
}

// buffer is a storage allocation on the GPU. size is what the caller asked
// for; the underlying allocation is padded to copy alignment.
type buffer struct {
	dev      *Device
	buf      *wgpu.Buffer
	size     int
	aligned  uint64
	released atomic.Bool
}

func (b *buffer) Size() int {
	return b.size
}

// Upload stages p in a mapped-at-creation buffer and enqueues the copy into
// the allocation. The write lands no later than the next Flush. Partial
// uploads write whole 4-byte words; trailing bytes of the final word are
// zeroed.
func (b *buffer) Upload(p []byte) error {
	if b.released.Load() {
		return fmt.Errorf("webgpu: upload to released buffer")
	}
	if len(p) > b.size {
		return fmt.Errorf("webgpu: upload of %d bytes into %d byte buffer", len(p), b.size)
	}
	if len(p) == 0 {
		return nil
	}
	return b.dev.stageUpload(b.buf, p)
}

// Download drains pending work, then reads the allocation back through a
// pooled staging buffer.
func (b *buffer) Download(p []byte) error {
	if b.released.Load() {
		return fmt.Errorf("webgpu: download from released buffer")
	}
	if len(p) > b.size {
		return fmt.Errorf("webgpu: download of %d bytes from %d byte buffer", len(p), b.size)
	}
	if len(p) == 0 {
		return nil
	}
	return b.dev.readBuffer(b.buf, p)
}

func (b *buffer) Release() {
	if b.released.Swap(true) {
		return
	}
	b.buf.Release()
	b.dev.trackRelease(b.aligned)
}

// stageUpload copies p into a fresh CopySrc buffer mapped at creation and
// enqueues a buffer-to-buffer copy into dst. The staging buffer is released
// after the batch it belongs to is submitted.
func (d *Device) stageUpload(dst *wgpu.Buffer, p []byte) error {
	if d.closed.Load() {
		return fmt.Errorf("webgpu: device is closed")
	}
	size := alignSize(len(p))

	staging := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            wgpu.BufferUsageCopySrc,
		Size:             size,
		MappedAtCreation: wgpu.True,
	})
	mapped := staging.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	copy(unsafe.Slice((*byte)(mapped), size), p)
	staging.Unmap()

	encoder := d.device.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(staging, 0, dst, 0, size)
	d.enqueue(encoder.Finish(nil), staging)
	return nil
}

// readBuffer flushes the batch, copies src into a pooled MapRead staging
// buffer, maps it and copies the bytes out into p.
func (d *Device) readBuffer(src *wgpu.Buffer, p []byte) error {
	if err := d.Flush(); err != nil {
		return err
	}
	size := alignSize(len(p))
	usage := wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst

	staging := d.pool.Acquire(size, usage)

	encoder := d.device.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(src, 0, staging, 0, size)
	d.queue.Submit(encoder.Finish(nil))

	if err := staging.MapAsync(d.device, wgpu.MapModeRead, 0, size); err != nil {
		d.pool.Release(staging, size, usage)
		return errors.DeviceFailure(errors.PhaseDevice, "staging buffer map failed", err)
	}
	mapped := staging.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	copy(p, unsafe.Slice((*byte)(mapped), size))
	staging.Unmap()

	d.pool.Release(staging, size, usage)
	return nil
}
