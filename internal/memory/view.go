package memory

import (
	"fmt"
	"unsafe"
)

// View is a lightweight, aliasable handle onto a resource's host-visible
// memory. Views hold the resource's control block, never the wrapper that
// produced them, so they stay meaningful after the wrapper is released:
// validity always reflects the resource's current state, and reads return
// the last-synced value until an explicit destroy flips the resource to
// invalid. Many Views may alias one resource; none of them owns it.
//
// Reading through an invalid View fails deterministically: accessors
// return nil, never a crash or a stale buffer.
type View struct {
	ctl  *control
	kind ElemKind
	n    int
}

// IsValid reports whether the underlying resource is still alive. The zero
// View is invalid.
func (v View) IsValid() bool {
	return v.ctl != nil && v.ctl.isValid()
}

// Kind returns the element kind of the viewed resource.
func (v View) Kind() ElemKind {
	return v.kind
}

// Len returns the number of elements in the viewed resource.
func (v View) Len() int {
	return v.n
}

// NumBytes returns the viewed resource's size in bytes.
func (v View) NumBytes() int {
	return v.n * v.kind.Size()
}

// Bytes returns the host mirror as raw bytes, or nil once the resource was
// destroyed or when it is storage-only. The slice aliases the mirror:
// writes through it reach the device on the next sync to device, and a
// sync to host updates it in place.
func (v View) Bytes() []byte {
	if v.ctl == nil {
		return nil
	}
	return v.ctl.bytes()
}

// Float32s interprets the data as []float32.
// Panics if the view's kind is not Float32; returns nil once invalid.
func (v View) Float32s() []float32 {
	if v.kind != Float32 {
		panic(fmt.Sprintf("view kind is %s, not float32", v.kind))
	}
	data := v.Bytes()
	if len(data) == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy reinterpretation, length fixed at creation
	return unsafe.Slice((*float32)(unsafe.Pointer(&data[0])), v.n)
}

// Int32s interprets the data as []int32.
// Panics if the view's kind is not Int32; returns nil once invalid.
func (v View) Int32s() []int32 {
	if v.kind != Int32 {
		panic(fmt.Sprintf("view kind is %s, not int32", v.kind))
	}
	data := v.Bytes()
	if len(data) == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy reinterpretation, length fixed at creation
	return unsafe.Slice((*int32)(unsafe.Pointer(&data[0])), v.n)
}

// Uint32s interprets the data as []uint32.
// Panics if the view's kind is not Uint32; returns nil once invalid.
func (v View) Uint32s() []uint32 {
	if v.kind != Uint32 {
		panic(fmt.Sprintf("view kind is %s, not uint32", v.kind))
	}
	data := v.Bytes()
	if len(data) == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy reinterpretation, length fixed at creation
	return unsafe.Slice((*uint32)(unsafe.Pointer(&data[0])), v.n)
}

// Int16s interprets the data as []int16.
// Panics if the view's kind is not Int16; returns nil once invalid.
func (v View) Int16s() []int16 {
	if v.kind != Int16 {
		panic(fmt.Sprintf("view kind is %s, not int16", v.kind))
	}
	data := v.Bytes()
	if len(data) == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy reinterpretation, length fixed at creation
	return unsafe.Slice((*int16)(unsafe.Pointer(&data[0])), v.n)
}

// Uint16s interprets the data as []uint16.
// Panics if the view's kind is not Uint16; returns nil once invalid.
func (v View) Uint16s() []uint16 {
	if v.kind != Uint16 {
		panic(fmt.Sprintf("view kind is %s, not uint16", v.kind))
	}
	data := v.Bytes()
	if len(data) == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy reinterpretation, length fixed at creation
	return unsafe.Slice((*uint16)(unsafe.Pointer(&data[0])), v.n)
}

// Int8s interprets the data as []int8.
// Panics if the view's kind is not Int8; returns nil once invalid.
func (v View) Int8s() []int8 {
	if v.kind != Int8 {
		panic(fmt.Sprintf("view kind is %s, not int8", v.kind))
	}
	data := v.Bytes()
	if len(data) == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy reinterpretation, length fixed at creation
	return unsafe.Slice((*int8)(unsafe.Pointer(&data[0])), v.n)
}

// Uint8s interprets the data as []uint8.
// Panics if the view's kind is not Uint8; returns nil once invalid.
func (v View) Uint8s() []uint8 {
	if v.kind != Uint8 {
		panic(fmt.Sprintf("view kind is %s, not uint8", v.kind))
	}
	return v.Bytes() // Already []byte = []uint8
}

// Data interprets the view's data as []T for any supported element type.
// Panics if T does not match the view's kind; returns nil once invalid.
func Data[T Elem](v View) []T {
	if want := KindOf[T](); want != v.kind {
		panic(fmt.Sprintf("view kind is %s, not %s", v.kind, want))
	}
	data := v.Bytes()
	if len(data) == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy reinterpretation, length fixed at creation
	return unsafe.Slice((*T)(unsafe.Pointer(&data[0])), v.n)
}

// FromSlice reinterprets a typed slice as raw bytes without copying.
// Resource constructors copy the result into the host mirror, so the
// caller's slice stays independent after creation.
func FromSlice[T Elem](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	size := KindOf[T]().Size()
	//nolint:gosec // unsafe.Slice for zero-copy reinterpretation, length derived from input
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), len(data)*size)
}
