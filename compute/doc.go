// Copyright 2025 The Conduit Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package compute is Conduit's public API: managers, resources, algorithms
// and sequences over a compute device.
//
// # Overview
//
// Conduit marshals typed data across the host/device boundary with
// explicit ownership. A Manager owns a device and everything created
// through it; callers hold wrappers they may drop at any time, and Views
// that track the native resource's lifetime rather than the wrapper's.
//
// # Basic Usage
//
//	import (
//	    "github.com/conduit-gpu/conduit/compute"
//	    "github.com/conduit-gpu/conduit/memory"
//	    "github.com/conduit-gpu/conduit/shader"
//	)
//
//	func main() {
//	    m, err := compute.NewManager()
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer m.Destroy()
//
//	    a, _ := compute.NewTensor(m, []float32{2, 4, 6})
//	    b, _ := compute.NewTensor(m, []float32{0.5, 1.5, 2.5})
//	    out, _ := compute.NewTensorEmpty[float32](m, 3)
//
//	    prog, _ := shader.Mul(memory.Float32)
//	    algo, _ := m.Algorithm(prog, []memory.Resource{a, b, out})
//
//	    seq := m.Sequence()
//	    seq.Record(
//	        compute.SyncDevice(a, b),
//	        compute.Dispatch(algo),
//	        compute.SyncLocal(out),
//	    )
//	    if err := seq.Eval(); err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(out.View().Float32s()) // [1 6 15]
//	}
//
// # Sequences and Sync Points
//
// Work is recorded into sequences and evaluated as ordered batches.
// Device effects become observable on the host only at sync points: a
// view keeps returning the last-synced value until a sync-to-local op
// runs, stale but never garbage. Evaluation stops at the first failing
// op and reports the whole batch as one error naming it; the remaining
// ops are skipped.
//
// Eval blocks; EvalAsync/EvalAwait split the same batch into submission
// and completion. At most one evaluation per sequence is in flight, and
// protocol misuse (double eval, await without eval, record during eval)
// fails with a sync_ordering error.
//
// # Ownership and Teardown
//
// Destruction rights belong to the manager. Destroy tears down sequences,
// algorithms, resources and the device in that order, collecting per-item
// failures instead of stopping, and every outstanding View observes the
// invalidation immediately:
//
//	v := tensor.View()
//	m.Destroy()
//	v.IsValid() // false
//	v.Bytes()   // nil
//
// # Devices
//
// Managers default to the host driver, a pure Go device supporting all
// element kinds. The webgpu driver (Windows) accelerates the 32-bit kinds
// on real GPUs; gate it on webgpu.IsAvailable for graceful fallback.
package compute
