//go:build windows

package webgpu

import (
	"sync"

	"github.com/go-webgpu/webgpu/wgpu"
)

// Staging buffers are pooled by size class so repeated readbacks reuse
// allocations instead of creating a fresh MapRead buffer per download.
const (
	classSmall  = iota // < 4KB
	classMedium        // 4KB - 1MB
	classLarge         // > 1MB
	numClasses
)

const (
	smallLimit  = 4 * 1024
	mediumLimit = 1024 * 1024
	maxPooled   = 100 // per class
)

type pooled struct {
	buf   *wgpu.Buffer
	size  uint64
	usage wgpu.BufferUsage
}

// BufferPool recycles staging buffers between readbacks. Acquire returns any
// pooled buffer in the matching size class that is at least as large as
// requested and carries a superset of the requested usage.
type BufferPool struct {
	device *wgpu.Device

	mu      sync.Mutex
	classes [numClasses][]pooled

	hits   uint64
	misses uint64
}

// NewBufferPool creates an empty pool backed by the given device.
func NewBufferPool(device *wgpu.Device) *BufferPool {
	return &BufferPool{device: device}
}

// classOf maps a byte size to its pool class.
func classOf(size uint64) int {
	switch {
	case size < smallLimit:
		return classSmall
	case size < mediumLimit:
		return classMedium
	default:
		return classLarge
	}
}

// Acquire takes a suitable buffer out of the pool or creates a new one.
func (p *BufferPool) Acquire(size uint64, usage wgpu.BufferUsage) *wgpu.Buffer {
	p.mu.Lock()
	defer p.mu.Unlock()

	class := classOf(size)
	pool := p.classes[class]
	for i, pb := range pool {
		if pb.size >= size && pb.usage&usage == usage {
			p.classes[class] = append(pool[:i], pool[i+1:]...)
			p.hits++
			return pb.buf
		}
	}

	p.misses++
	return p.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: usage,
		Size:  size,
	})
}

// Release returns a buffer to the pool. When the class is full the buffer is
// released to the device instead.
func (p *BufferPool) Release(buf *wgpu.Buffer, size uint64, usage wgpu.BufferUsage) {
	p.mu.Lock()
	defer p.mu.Unlock()

	class := classOf(size)
	if len(p.classes[class]) >= maxPooled {
		buf.Release()
		return
	}
	p.classes[class] = append(p.classes[class], pooled{buf: buf, size: size, usage: usage})
}

// Clear releases every pooled buffer. Called on device teardown.
func (p *BufferPool) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for c := range p.classes {
		for _, pb := range p.classes[c] {
			pb.buf.Release()
		}
		p.classes[c] = nil
	}
}

// PoolStats counts pool effectiveness.
type PoolStats struct {
	Hits   uint64 // acquisitions served from the pool
	Misses uint64 // acquisitions that allocated
	Pooled int    // buffers currently held
}

// Stats returns a snapshot of the pool counters.
func (p *BufferPool) Stats() PoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := 0
	for c := range p.classes {
		n += len(p.classes[c])
	}
	return PoolStats{Hits: p.hits, Misses: p.misses, Pooled: n}
}
