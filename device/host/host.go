// Copyright 2025 The Conduit Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package host provides the reference driver: a pure Go device that runs
// program kernels synchronously in process memory.
//
// The host driver supports every element kind and needs no hardware, which
// makes it the default device for managers and the fallback when no GPU is
// available.
package host

import (
	"github.com/conduit-gpu/conduit/device"
	internalhost "github.com/conduit-gpu/conduit/internal/device/host"
)

// Device is the host driver. Buffers are plain process memory and
// dispatches execute the program's host kernel in the calling goroutine.
type Device = internalhost.Device

// Compile-time check that Device implements device.Device.
var _ device.Device = (*Device)(nil)

// New creates a host device.
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
func New() *Device {
	return internalhost.New()
}
