//go:build windows

// Copyright 2025 The Conduit Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package webgpu provides the GPU driver for Conduit, built on go-webgpu
// with zero CGO.
//
// The driver batches dispatches and copies into command buffers that are
// submitted on flush, pools readback staging buffers by size class, and
// caches compiled pipelines by program name. It supports the 32-bit
// element kinds (float32, int32, uint32); narrower kinds stay on the host
// driver because WGSL storage buffers have no 8/16-bit scalars.
//
// Example:
//
//	import (
//	    "github.com/conduit-gpu/conduit/compute"
//	    "github.com/conduit-gpu/conduit/device/webgpu"
//	)
//
//	func main() {
//	    if !webgpu.IsAvailable() {
//	        log.Fatal("no compatible GPU")
//	    }
//	    gpu, err := webgpu.New()
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    m, _ := compute.NewManager(compute.WithDevice(gpu))
//	    defer m.Destroy()
//	}
package webgpu

import (
	"go.uber.org/zap"

	"github.com/conduit-gpu/conduit/device"
	internalwebgpu "github.com/conduit-gpu/conduit/internal/device/webgpu"
)

// Device is the WebGPU driver.
type Device = internalwebgpu.Device

// Compile-time check that Device implements device.Device.
var _ device.Device = (*Device)(nil)

// AdapterInfo describes the GPU adapter the driver selected.
type AdapterInfo = internalwebgpu.AdapterInfo

// MemoryStats is a point-in-time snapshot of the driver's buffer
// accounting: live allocations, peak usage and staging pool behavior.
type MemoryStats = internalwebgpu.MemoryStats

// PoolStats reports staging buffer pool hits, misses and pooled count.
type PoolStats = internalwebgpu.PoolStats

// New creates a WebGPU device on the system's high-performance adapter.
//
// Initialization requests an instance, adapter, device and queue; any
// missing piece (no GPU, no driver) surfaces as a device_failure error.
// Callers that want a graceful fallback should probe IsAvailable first.
func New() (*Device, error) {
	return internalwebgpu.New()
}

// IsAvailable reports whether a WebGPU adapter can be initialized on this
// system.
//
// Example:
//
//	var dev device.Device
//	if webgpu.IsAvailable() {
//	    dev, _ = webgpu.New()
//	} else {
//	    dev = host.New()
//	}
func IsAvailable() bool {
	return internalwebgpu.IsAvailable()
}

// SetLogger routes the driver's structured logs (adapter selection, batch
// flushes, teardown) to l. The default is a no-op logger.
func SetLogger(l *zap.Logger) {
	internalwebgpu.SetLogger(l)
}
