//go:build windows

// Package webgpu implements the GPU compute device on wgpu-native through
// the go-webgpu bindings. Dispatches, copies and uploads are encoded
// immediately but submitted in batches: work reaches the queue at the next
// Flush, and Download flushes before reading back through pooled staging
// memory.
package webgpu

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/go-webgpu/webgpu/wgpu"
	"go.uber.org/zap"

	"github.com/conduit-gpu/conduit/errors"
	"github.com/conduit-gpu/conduit/internal/device"
	"github.com/conduit-gpu/conduit/internal/shader"
)

// Verify that Device implements device.Device.
var _ device.Device = (*Device)(nil)

// AdapterInfo describes the GPU adapter backing the device.
type AdapterInfo struct {
	Vendor      string
	Device      string
	Description string
	Backend     string // D3D12, Vulkan, Metal, ...
	VendorID    uint32
	DeviceID    uint32
}

// String renders the adapter for display, e.g. "NVIDIA RTX 4070 (D3D12)".
func (i AdapterInfo) String() string {
	if i.Device == "" {
		return "unknown adapter"
	}
	if i.Backend == "" {
		return i.Device
	}
	return fmt.Sprintf("%s (%s)", i.Device, i.Backend)
}

// Device executes programs on the GPU. Compiled shader modules and pipelines
// are cached by program name, and encoded work is batched until Flush.
type Device struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	info     AdapterInfo

	mu        sync.RWMutex
	shaders   map[string]*wgpu.ShaderModule
	pipelines map[string]*wgpu.ComputePipeline

	pool *BufferPool

	pendingMu sync.Mutex
	pending   []*wgpu.CommandBuffer
	staged    []*wgpu.Buffer // upload staging buffers awaiting submission

	stats struct {
		mu             sync.Mutex
		allocatedBytes uint64
		peakBytes      uint64
		liveBuffers    int64
	}

	closed atomic.Bool
}

// New initializes wgpu-native and creates a device on the highest-performance
// adapter available. Returns an error when the native library or a compatible
// GPU is missing.
func New() (dev *Device, err error) {
	// The bindings panic when wgpu_native cannot be loaded.
	defer func() {
		if r := recover(); r != nil {
			dev = nil
			err = errors.DeviceFailure(errors.PhaseDevice, "webgpu native library not available", fmt.Errorf("%v", r))
		}
	}()

	if initErr := wgpu.Init(); initErr != nil {
		return nil, errors.DeviceFailure(errors.PhaseDevice, "webgpu native library not available", initErr)
	}

	instance, instErr := wgpu.CreateInstance(nil)
	if instErr != nil {
		return nil, errors.DeviceFailure(errors.PhaseDevice, "webgpu instance creation failed", instErr)
	}

	adapter, adapterErr := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if adapterErr != nil {
		instance.Release()
		return nil, errors.DeviceFailure(errors.PhaseDevice, "no gpu adapter available", adapterErr)
	}

	info := adapterInfo(adapter)

	wdev, devErr := adapter.RequestDevice(nil)
	if devErr != nil {
		adapter.Release()
		instance.Release()
		return nil, errors.DeviceFailure(errors.PhaseDevice, "gpu device creation failed", devErr)
	}

	queue := wdev.GetQueue()
	if queue == nil {
		wdev.Release()
		adapter.Release()
		instance.Release()
		return nil, errors.DeviceFailure(errors.PhaseDevice, "gpu queue retrieval failed", nil)
	}

	d := &Device{
		instance:  instance,
		adapter:   adapter,
		device:    wdev,
		queue:     queue,
		info:      info,
		shaders:   make(map[string]*wgpu.ShaderModule),
		pipelines: make(map[string]*wgpu.ComputePipeline),
		pool:      NewBufferPool(wdev),
	}

	Logger().Info("webgpu device ready",
		zap.String("adapter", info.Device),
		zap.String("backend", info.Backend),
		zap.String("vendor", info.Vendor))

	return d, nil
}

// IsAvailable reports whether the native library loads and an adapter can be
// requested. Useful for falling back to the host device.
func IsAvailable() (available bool) {
	defer func() {
		if r := recover(); r != nil {
			available = false
		}
	}()

	if err := wgpu.Init(); err != nil {
		return false
	}
	instance, err := wgpu.CreateInstance(nil)
	if err != nil {
		return false
	}
	defer instance.Release()

	adapter, err := instance.RequestAdapter(nil)
	if err != nil {
		return false
	}
	adapter.Release()
	return true
}

// adapterInfo converts the binding's adapter info, tolerating drivers where
// GetInfo fails.
func adapterInfo(adapter *wgpu.Adapter) AdapterInfo {
	raw, err := adapter.GetInfo()
	if err != nil {
		return AdapterInfo{}
	}
	return AdapterInfo{
		Vendor:      raw.Vendor,
		Device:      raw.Device,
		Description: raw.Description,
		Backend:     backendName(raw.BackendType),
		VendorID:    raw.VendorID,
		DeviceID:    raw.DeviceID,
	}
}

func backendName(bt wgpu.BackendType) string {
	switch bt {
	case wgpu.BackendTypeD3D11:
		return "D3D11"
	case wgpu.BackendTypeD3D12:
		return "D3D12"
	case wgpu.BackendTypeMetal:
		return "Metal"
	case wgpu.BackendTypeVulkan:
		return "Vulkan"
	case wgpu.BackendTypeOpenGL:
		return "OpenGL"
	case wgpu.BackendTypeOpenGLES:
		return "OpenGLES"
	default:
		return ""
	}
}

// Name returns the driver name.
func (d *Device) Name() string {
	return "webgpu"
}

// AdapterInfo returns the adapter the device runs on.
func (d *Device) AdapterInfo() AdapterInfo {
	return d.info
}

// Alloc allocates a storage buffer of the given byte size. The allocation is
// padded to copy alignment; Size on the returned buffer reports the
// requested size.
func (d *Device) Alloc(size int) (device.Buffer, error) {
	if d.closed.Load() {
		return nil, fmt.Errorf("webgpu: device is closed")
	}
	if size <= 0 {
		return nil, fmt.Errorf("webgpu: invalid buffer size %d", size)
	}
	aligned := alignSize(size)

	buf := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst,
		Size:  aligned,
	})
	if buf == nil {
		return nil, errors.Allocation(errors.PhaseDevice, size, nil)
	}
	d.trackAlloc(aligned)

	return &buffer{dev: d, buf: buf, size: size, aligned: aligned}, nil
}

// Compile validates the program's WGSL and builds a compute pipeline for it.
// Modules and pipelines are cached by program name. Programs that carry no
// WGSL cannot run here.
func (d *Device) Compile(p *device.Program) (device.Pipeline, error) {
	if d.closed.Load() {
		return nil, fmt.Errorf("webgpu: device is closed")
	}
	if p == nil {
		return nil, errors.InvalidInput(errors.PhaseDevice, "webgpu: nil program")
	}
	if p.WGSL == "" {
		return nil, errors.Unsupported(errors.PhaseDevice, fmt.Sprintf("program %q carries no wgsl source", p.Name))
	}

	d.mu.RLock()
	cached, ok := d.pipelines[p.Name]
	d.mu.RUnlock()
	if ok {
		return &pipeline{name: p.Name, pipeline: cached}, nil
	}

	// Pre-flight the source through the pure-Go compiler so plainly broken
	// WGSL fails with a structured error instead of a native one. Constructs
	// the pure-Go compiler does not implement are left to the native
	// compiler to judge.
	if _, vErr := shader.CompileSPIRV(p.WGSL); vErr != nil {
		if !shader.InconclusiveWGSL(vErr) {
			return nil, errors.New(errors.PhaseDevice, errors.KindInvalidInput).
				Detail("program %q failed wgsl validation", p.Name).
				Cause(vErr).
				Build()
		}
		Logger().Debug("wgsl validation inconclusive",
			zap.String("program", p.Name),
			zap.Error(vErr))
	}

	entry := p.Entry
	if entry == "" {
		entry = "main"
	}

	module := d.compileShader(p.Name, p.WGSL)
	pl := d.device.CreateComputePipelineSimple(nil, module, entry)

	d.mu.Lock()
	d.pipelines[p.Name] = pl
	d.mu.Unlock()

	return &pipeline{name: p.Name, pipeline: pl}, nil
}

// compileShader compiles WGSL into a module, caching by name.
func (d *Device) compileShader(name, code string) *wgpu.ShaderModule {
	d.mu.RLock()
	if module, ok := d.shaders[name]; ok {
		d.mu.RUnlock()
		return module
	}
	d.mu.RUnlock()

	module := d.device.CreateShaderModuleWGSL(code)

	d.mu.Lock()
	d.shaders[name] = module
	d.mu.Unlock()

	return module
}

// Dispatch binds the buffers in order and encodes a compute pass over the
// workgroup grid. The pass is batched and executes no later than the next
// Flush.
func (d *Device) Dispatch(p device.Pipeline, bufs []device.Buffer, groups [3]uint32) error {
	if d.closed.Load() {
		return fmt.Errorf("webgpu: device is closed")
	}
	wp, ok := p.(*pipeline)
	if !ok {
		return fmt.Errorf("webgpu: foreign pipeline %T", p)
	}

	entries := make([]wgpu.BindGroupEntry, len(bufs))
	for i, b := range bufs {
		wb, ok := b.(*buffer)
		if !ok {
			return fmt.Errorf("webgpu: foreign buffer %T", b)
		}
		if wb.released.Load() {
			return fmt.Errorf("webgpu: dispatch over released buffer")
		}
		//nolint:gosec // G115: binding indices are small
		entries[i] = wgpu.BufferBindingEntry(uint32(i), wb.buf, 0, wb.aligned)
	}

	layout := wp.pipeline.GetBindGroupLayout(0)
	bindGroup := d.device.CreateBindGroupSimple(layout, entries)
	defer bindGroup.Release()

	encoder := d.device.CreateCommandEncoder(nil)
	pass := encoder.BeginComputePass(nil)
	pass.SetPipeline(wp.pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.DispatchWorkgroups(groups[0], groups[1], groups[2])
	pass.End()

	d.enqueue(encoder.Finish(nil), nil)
	return nil
}

// Copy encodes a device-side copy of src into dst. Sizes must match.
func (d *Device) Copy(dst, src device.Buffer) error {
	if d.closed.Load() {
		return fmt.Errorf("webgpu: device is closed")
	}
	db, ok := dst.(*buffer)
	if !ok {
		return fmt.Errorf("webgpu: foreign buffer %T", dst)
	}
	sb, ok := src.(*buffer)
	if !ok {
		return fmt.Errorf("webgpu: foreign buffer %T", src)
	}
	if db.released.Load() || sb.released.Load() {
		return fmt.Errorf("webgpu: copy over released buffer")
	}
	if db.size != sb.size {
		return fmt.Errorf("webgpu: copy size mismatch: %d vs %d", db.size, sb.size)
	}

	encoder := d.device.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(sb.buf, 0, db.buf, 0, db.aligned)
	d.enqueue(encoder.Finish(nil), nil)
	return nil
}

// enqueue adds a command buffer to the pending batch, with the staging
// buffer to release after submission, if any.
func (d *Device) enqueue(cmd *wgpu.CommandBuffer, staging *wgpu.Buffer) {
	d.pendingMu.Lock()
	defer d.pendingMu.Unlock()

	d.pending = append(d.pending, cmd)
	if staging != nil {
		d.staged = append(d.staged, staging)
	}
}

// Flush submits the pending batch to the queue and releases the upload
// staging buffers it carried.
func (d *Device) Flush() error {
	if d.closed.Load() {
		return fmt.Errorf("webgpu: device is closed")
	}
	d.pendingMu.Lock()
	defer d.pendingMu.Unlock()
	d.flushLocked()
	return nil
}

// flushLocked submits pending commands. Caller holds pendingMu.
func (d *Device) flushLocked() {
	if len(d.pending) == 0 {
		return
	}
	d.queue.Submit(d.pending...)
	d.pending = d.pending[:0]

	for _, s := range d.staged {
		s.Release()
	}
	d.staged = d.staged[:0]
}

// Close drains the batch and releases every native resource. Idempotent.
// Buffers and pipelines handed out by the device die with it.
func (d *Device) Close() error {
	if d.closed.Swap(true) {
		return nil
	}

	d.pendingMu.Lock()
	d.flushLocked()
	d.pendingMu.Unlock()

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pool != nil {
		d.pool.Clear()
		d.pool = nil
	}
	for _, p := range d.pipelines {
		p.Release()
	}
	d.pipelines = nil
	for _, s := range d.shaders {
		s.Release()
	}
	d.shaders = nil

	if d.queue != nil {
		d.queue.Release()
		d.queue = nil
	}
	if d.device != nil {
		d.device.Release()
		d.device = nil
	}
	if d.adapter != nil {
		d.adapter.Release()
		d.adapter = nil
	}
	if d.instance != nil {
		d.instance.Release()
		d.instance = nil
	}

	Logger().Debug("webgpu device closed")
	return nil
}

// MemoryStats reports allocation counters for diagnostics.
type MemoryStats struct {
	AllocatedBytes uint64 // live storage bytes, aligned sizes
	PeakBytes      uint64
	LiveBuffers    int64
	Staging        PoolStats
}

// MemoryStats returns a snapshot of current GPU memory usage.
func (d *Device) MemoryStats() MemoryStats {
	d.stats.mu.Lock()
	m := MemoryStats{
		AllocatedBytes: d.stats.allocatedBytes,
		PeakBytes:      d.stats.peakBytes,
		LiveBuffers:    d.stats.liveBuffers,
	}
	d.stats.mu.Unlock()

	if d.pool != nil {
		m.Staging = d.pool.Stats()
	}
	return m
}

func (d *Device) trackAlloc(size uint64) {
	d.stats.mu.Lock()
	defer d.stats.mu.Unlock()

	d.stats.allocatedBytes += size
	d.stats.liveBuffers++
	if d.stats.allocatedBytes > d.stats.peakBytes {
		d.stats.peakBytes = d.stats.allocatedBytes
	}
}

func (d *Device) trackRelease(size uint64) {
	d.stats.mu.Lock()
	defer d.stats.mu.Unlock()

	if d.stats.allocatedBytes >= size {
		d.stats.allocatedBytes -= size
	}
	d.stats.liveBuffers--
}

// pipeline wraps a compiled compute pipeline. The native object is owned by
// the device's cache, not the handle.
type pipeline struct {
	name     string
	pipeline *wgpu.ComputePipeline
}

func (p *pipeline) ProgramName() string {
	return p.name
}
