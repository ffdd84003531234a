// Copyright 2025 The Conduit Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package device defines the driver contract Conduit runs on.
//
// A device owns raw buffers and compiled pipelines. Everything above it
// (resources, algorithms, sequences) is expressed against this narrow
// surface, so managers run unchanged on any driver:
//   - host: pure Go reference driver, all element kinds
//   - webgpu: GPU driver via go-webgpu (Windows)
//
// Example:
//
//	import (
//	    "github.com/conduit-gpu/conduit/compute"
//	    "github.com/conduit-gpu/conduit/device/host"
//	)
//
//	func main() {
//	    m, err := compute.NewManager(compute.WithDevice(host.New()))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer m.Destroy()
//	}
package device

import (
	internaldevice "github.com/conduit-gpu/conduit/internal/device"
)

// Device is the narrow driver interface: buffer allocation, program
// compilation, dispatch, device-to-device copies and batch flushing.
//
// Implementations are safe for concurrent use by a single manager.
type Device = internaldevice.Device

// Buffer is a single device allocation. Upload and Download move bytes
// across the host/device boundary; Release returns the memory to the
// driver.
type Buffer = internaldevice.Buffer

// Pipeline is a compiled program, ready for dispatch. Drivers cache
// pipelines by program name.
type Pipeline = internaldevice.Pipeline

// Program describes a compute program in every form a driver might
// consume: WGSL source, precompiled SPIR-V words, or a host-executable
// kernel. Drivers pick the form they understand and reject programs that
// carry none of them.
type Program = internaldevice.Program

// Kernel is the host-executable form of a program: it receives the raw
// bytes of each bound buffer in binding order plus the workgroup grid.
type Kernel = internaldevice.Kernel
