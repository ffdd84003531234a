package shader

import (
	"fmt"
	"unsafe"

	"github.com/conduit-gpu/conduit/internal/device"
	"github.com/conduit-gpu/conduit/internal/memory"
)

// sliceOf reinterprets a raw device buffer as a typed slice without copying.
func sliceOf[T memory.Elem](raw []byte) []T {
	if len(raw) == 0 {
		return nil
	}
	n := len(raw) / memory.KindOf[T]().Size()
	//nolint:gosec // unsafe.Slice for zero-copy reinterpretation of a driver buffer
	return unsafe.Slice((*T)(unsafe.Pointer(&raw[0])), n)
}

// mulKernel builds the host kernel for out[i] = a[i] * b[i] over bindings
// (a, b, out). Integer products wrap modulo 2^width like the device ALU.
func mulKernel[T memory.Elem]() device.Kernel {
	return func(bufs [][]byte, _ [3]uint32) error {
		if len(bufs) != 3 {
			return fmt.Errorf("mul kernel needs bindings (a, b, out), got %d buffer(s)", len(bufs))
		}
		a := sliceOf[T](bufs[0])
		b := sliceOf[T](bufs[1])
		out := sliceOf[T](bufs[2])
		if len(a) < len(out) || len(b) < len(out) {
			return fmt.Errorf("mul kernel input shorter than output: %d, %d vs %d elements", len(a), len(b), len(out))
		}
		for i := range out {
			out[i] = a[i] * b[i]
		}
		return nil
	}
}

// copyKernel builds the host kernel for out[i] = in[i] over bindings
// (in, out).
func copyKernel[T memory.Elem]() device.Kernel {
	return func(bufs [][]byte, _ [3]uint32) error {
		if len(bufs) != 2 {
			return fmt.Errorf("copy kernel needs bindings (in, out), got %d buffer(s)", len(bufs))
		}
		in := sliceOf[T](bufs[0])
		out := sliceOf[T](bufs[1])
		if len(in) < len(out) {
			return fmt.Errorf("copy kernel input shorter than output: %d vs %d elements", len(in), len(out))
		}
		copy(out, in[:len(out)])
		return nil
	}
}

func mulKernelFor(kind memory.ElemKind) device.Kernel {
	switch kind {
	case memory.Float32:
		return mulKernel[float32]()
	case memory.Int32:
		return mulKernel[int32]()
	case memory.Uint32:
		return mulKernel[uint32]()
	case memory.Int16:
		return mulKernel[int16]()
	case memory.Uint16:
		return mulKernel[uint16]()
	case memory.Int8:
		return mulKernel[int8]()
	case memory.Uint8:
		return mulKernel[uint8]()
	default:
		return nil
	}
}

func copyKernelFor(kind memory.ElemKind) device.Kernel {
	switch kind {
	case memory.Float32:
		return copyKernel[float32]()
	case memory.Int32:
		return copyKernel[int32]()
	case memory.Uint32:
		return copyKernel[uint32]()
	case memory.Int16:
		return copyKernel[int16]()
	case memory.Uint16:
		return copyKernel[uint16]()
	case memory.Int8:
		return copyKernel[int8]()
	case memory.Uint8:
		return copyKernel[uint8]()
	default:
		return nil
	}
}
