// Copyright 2025 The Conduit Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package compute

import (
	"go.uber.org/zap"

	"github.com/conduit-gpu/conduit/device"
	internalcompute "github.com/conduit-gpu/conduit/internal/compute"
	"github.com/conduit-gpu/conduit/memory"
)

// Manager owns a device and every resource, algorithm and sequence created
// through it. Wrapper objects may be dropped at any time; the manager
// decides when memory actually dies.
type Manager = internalcompute.Manager

// Option configures a Manager.
type Option = internalcompute.Option

// Algorithm binds a compiled program to an ordered set of resources and a
// workgroup grid.
type Algorithm = internalcompute.Algorithm

// Sequence is an ordered batch of operations, recorded once and evaluated
// as a unit.
type Sequence = internalcompute.Sequence

// Op is one recorded operation in a sequence.
type Op = internalcompute.Op

// NewManager creates a manager. Without options it runs on the host driver
// and logs nowhere.
func NewManager(opts ...Option) (*Manager, error) {
	return internalcompute.NewManager(opts...)
}

// WithDevice runs the manager on the given device. Ownership transfers:
// the manager closes the device on Destroy.
//
// Example:
//
//	gpu, err := webgpu.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	m, err := compute.NewManager(compute.WithDevice(gpu))
func WithDevice(dev device.Device) Option {
	return internalcompute.WithDevice(dev)
}

// WithLogger sets the manager's logger. The default is the package logger,
// which is a no-op unless SetLogger was called.
func WithLogger(l *zap.Logger) Option {
	return internalcompute.WithLogger(l)
}

// NewTensor creates a tensor seeded with data. The element kind is
// inferred from T.
//
// Example:
//
//	t, err := compute.NewTensor(m, []int8{2, 3, 2})
func NewTensor[T memory.Elem](m *Manager, data []T, opts ...memory.CreateOption) (*memory.Tensor, error) {
	return internalcompute.NewTensor(m, data, opts...)
}

// NewTensorEmpty creates a zero-filled tensor of n elements.
func NewTensorEmpty[T memory.Elem](m *Manager, n int, opts ...memory.CreateOption) (*memory.Tensor, error) {
	return internalcompute.NewTensorEmpty[T](m, n, opts...)
}

// NewImage creates a width x height image with the given channel count,
// seeded with data in row-major order. len(data) must be exactly
// width*height*channels.
func NewImage[T memory.Elem](m *Manager, data []T, width, height, channels uint32, opts ...memory.CreateOption) (*memory.Image, error) {
	return internalcompute.NewImage(m, data, width, height, channels, opts...)
}

// NewTexture creates a sampled image seeded with data. Sampling parameters
// are fixed for the texture's lifetime.
func NewTexture[T memory.Elem](m *Manager, data []T, width, height, channels uint32, s memory.Sampling, opts ...memory.CreateOption) (*memory.Texture, error) {
	return internalcompute.NewTexture(m, data, width, height, channels, s, opts...)
}

// NewTensorFromBytes creates a tensor from raw bytes with a runtime
// element kind, for callers marshalling untyped payloads. len(data) must
// be a whole number of elements.
func NewTensorFromBytes(m *Manager, kind memory.ElemKind, data []byte, opts ...memory.CreateOption) (*memory.Tensor, error) {
	return internalcompute.NewTensorFromBytes(m, kind, data, opts...)
}

// NewImageFromBytes creates an image from raw bytes with a runtime element
// kind.
func NewImageFromBytes(m *Manager, kind memory.ElemKind, data []byte, width, height, channels uint32, opts ...memory.CreateOption) (*memory.Image, error) {
	return internalcompute.NewImageFromBytes(m, kind, data, width, height, channels, opts...)
}

// NewTextureFromBytes creates a texture from raw bytes with a runtime
// element kind.
func NewTextureFromBytes(m *Manager, kind memory.ElemKind, data []byte, width, height, channels uint32, s memory.Sampling, opts ...memory.CreateOption) (*memory.Texture, error) {
	return internalcompute.NewTextureFromBytes(m, kind, data, width, height, channels, s, opts...)
}

// SyncDevice returns an op that copies each resource's host mirror into
// its device buffer. Storage-only resources are skipped.
func SyncDevice(rs ...memory.Resource) Op {
	return internalcompute.SyncDevice(rs...)
}

// SyncLocal returns an op that copies each resource's device buffer back
// into its host mirror, making device results observable through Views.
func SyncLocal(rs ...memory.Resource) Op {
	return internalcompute.SyncLocal(rs...)
}

// Dispatch returns an op that runs the algorithm's program over its bound
// resources.
func Dispatch(algo *Algorithm) Op {
	return internalcompute.Dispatch(algo)
}

// CopyResource returns an op that copies src's device buffer into dst's.
// Kinds and element counts must match.
func CopyResource(dst, src memory.Resource) Op {
	return internalcompute.CopyResource(dst, src)
}

// SetLogger routes manager and sequence logs (creation, eval lifecycle,
// teardown) to l. The default is a no-op logger.
func SetLogger(l *zap.Logger) {
	internalcompute.SetLogger(l)
}
