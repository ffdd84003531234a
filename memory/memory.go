// Copyright 2025 The Conduit Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package memory exposes Conduit's resource and ownership model: element
// kinds, device formats, resources (tensors, images, textures) and views.
//
// # Ownership
//
// Resources are owned by the manager that created them, never by the
// wrapper objects callers hold. Dropping a wrapper releases nothing; the
// native allocation lives until the resource is explicitly destroyed or
// the manager tears everything down. Views make that model observable:
//
//	v := t.View()
//	t = nil // wrapper gone, resource alive
//	v.IsValid() // true
//	m.Destroy()
//	v.IsValid() // false, immediately
//
// # Element kinds
//
// The supported kinds are closed: float32, int32, uint32, int16, uint16,
// int8 and uint8. Every kind maps to exactly one single-channel device
// format of the same width and signedness; nothing widens or truncates on
// the way to the device. Unsupported element types are rejected when the
// resource is created, never at dispatch time.
package memory

import (
	internalmemory "github.com/conduit-gpu/conduit/internal/memory"
)

// Elem constrains the element types resources can be parameterized by.
type Elem = internalmemory.Elem

// ElemKind is runtime element type information for resources.
type ElemKind = internalmemory.ElemKind

// Supported element kinds.
const (
	Float32 = internalmemory.Float32
	Int32   = internalmemory.Int32
	Uint32  = internalmemory.Uint32
	Int16   = internalmemory.Int16
	Uint16  = internalmemory.Uint16
	Int8    = internalmemory.Int8
	Uint8   = internalmemory.Uint8
)

// Format is the device-side single-channel format tag for an element kind.
type Format = internalmemory.Format

// Device format tags. FormatInvalid is the zero value.
const (
	FormatInvalid  = internalmemory.FormatInvalid
	FormatR32Float = internalmemory.FormatR32Float
	FormatR32Sint  = internalmemory.FormatR32Sint
	FormatR32Uint  = internalmemory.FormatR32Uint
	FormatR16Sint  = internalmemory.FormatR16Sint
	FormatR16Uint  = internalmemory.FormatR16Uint
	FormatR8Sint   = internalmemory.FormatR8Sint
	FormatR8Uint   = internalmemory.FormatR8Uint
)

// MemoryType selects where a resource's memory lives and whether a
// host-visible mirror is kept for it.
type MemoryType = internalmemory.MemoryType

// Memory types.
const (
	DeviceLocal   = internalmemory.DeviceLocal
	HostVisible   = internalmemory.HostVisible
	DeviceAndHost = internalmemory.DeviceAndHost
	StorageOnly   = internalmemory.StorageOnly
)

// Resource is the surface shared by all device-backed resource types.
// Sequences and algorithms operate on it.
type Resource = internalmemory.Resource

// Tensor is a flat, typed device-backed array.
type Tensor = internalmemory.Tensor

// Image is a 2D device-backed resource with 1 to 4 channels per texel.
type Image = internalmemory.Image

// Texture is an Image plus sampling parameters.
type Texture = internalmemory.Texture

// Tiling is the texel layout of an image's device memory.
type Tiling = internalmemory.Tiling

// Tilings.
const (
	TilingOptimal = internalmemory.TilingOptimal
	TilingLinear  = internalmemory.TilingLinear
)

// Sampling describes how a texture is sampled during dispatch. The zero
// value is nearest filtering with clamp-to-edge addressing.
type Sampling = internalmemory.Sampling

// Filter selects how a texture is filtered when sampled.
type Filter = internalmemory.Filter

// Filters.
const (
	FilterNearest = internalmemory.FilterNearest
	FilterLinear  = internalmemory.FilterLinear
)

// AddressMode selects how out-of-range texture coordinates resolve.
type AddressMode = internalmemory.AddressMode

// Address modes.
const (
	AddressClampToEdge    = internalmemory.AddressClampToEdge
	AddressRepeat         = internalmemory.AddressRepeat
	AddressMirroredRepeat = internalmemory.AddressMirroredRepeat
	AddressClampToBorder  = internalmemory.AddressClampToBorder
)

// View is a handle onto a resource's host-visible data. It tracks the
// resource's native lifetime, not the wrapper's: IsValid keeps answering
// truthfully after the wrapper is gone, and reads return nil once the
// resource is destroyed.
type View = internalmemory.View

// CreateOption configures optional resource-creation parameters.
type CreateOption = internalmemory.CreateOption

// WithMemoryType selects where the resource's memory lives. The default is
// DeviceLocal.
func WithMemoryType(mt MemoryType) CreateOption {
	return internalmemory.WithMemoryType(mt)
}

// KindOf infers the ElemKind for a generic element type T.
//
// Example:
//
//	memory.KindOf[float32]() // memory.Float32
func KindOf[T Elem]() ElemKind {
	return internalmemory.KindOf[T]()
}

// Data reinterprets a view's bytes as a typed slice without copying. T
// must match the view's element kind. The slice aliases the resource's
// host mirror: writes through it are picked up by the next sync to
// device. Returns nil once the resource is destroyed.
func Data[T Elem](v View) []T {
	return internalmemory.Data[T](v)
}

// FromSlice reinterprets a typed slice as raw bytes without copying, for
// the FromBytes creation paths.
func FromSlice[T Elem](data []T) []byte {
	return internalmemory.FromSlice(data)
}
