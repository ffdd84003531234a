package shader

import (
	"strings"
	"testing"

	"github.com/conduit-gpu/conduit/errors"
	"github.com/conduit-gpu/conduit/internal/memory"
)

var allKinds = []memory.ElemKind{
	memory.Float32, memory.Int32, memory.Uint32,
	memory.Int16, memory.Uint16, memory.Int8, memory.Uint8,
}

func TestMulProgramShape(t *testing.T) {
	for _, kind := range allKinds {
		prog, err := Mul(kind)
		if err != nil {
			t.Fatalf("Mul(%s) failed: %v", kind, err)
		}
		if want := "mul_" + kind.String(); prog.Name != want {
			t.Errorf("Name = %q, want %q", prog.Name, want)
		}
		if prog.Entry != "main" {
			t.Errorf("Entry = %q, want main", prog.Entry)
		}
		if prog.Kernel == nil {
			t.Errorf("Mul(%s) has no host kernel", kind)
		}
		if prog.LocalSize != 256 {
			t.Errorf("LocalSize = %d, want 256", prog.LocalSize)
		}
	}
}

func TestMulWGSLCoverage(t *testing.T) {
	// WGSL storage buffers address 32-bit scalars only; narrow kinds stay
	// host-kernel only.
	wants := map[memory.ElemKind]string{
		memory.Float32: "array<f32>",
		memory.Int32:   "array<i32>",
		memory.Uint32:  "array<u32>",
		memory.Int16:   "",
		memory.Uint16:  "",
		memory.Int8:    "",
		memory.Uint8:   "",
	}

	for kind, want := range wants {
		prog, _ := Mul(kind)
		if want == "" {
			if prog.WGSL != "" {
				t.Errorf("Mul(%s) should carry no WGSL", kind)
			}
			continue
		}
		if !strings.Contains(prog.WGSL, want) {
			t.Errorf("Mul(%s) WGSL missing %q", kind, want)
		}
		if !strings.Contains(prog.WGSL, "arrayLength(&out)") {
			t.Errorf("Mul(%s) WGSL missing output length guard", kind)
		}
	}
}

func TestMulRejectsCustomKind(t *testing.T) {
	_, err := Mul(memory.ElemKind(42))
	if !errors.IsKind(err, errors.KindTypeMismatch) {
		t.Errorf("Mul(custom) = %v, want type_mismatch", err)
	}
}

// runMul drives a kind's host kernel over typed inputs.
func runMul[T memory.Elem](t *testing.T, a, b []T) []T {
	t.Helper()

	prog, err := Mul(memory.KindOf[T]())
	if err != nil {
		t.Fatalf("Mul failed: %v", err)
	}
	out := make([]T, len(a))
	bufs := [][]byte{
		memory.FromSlice(a),
		memory.FromSlice(b),
		memory.FromSlice(out),
	}
	if err := prog.Kernel(bufs, [3]uint32{1, 1, 1}); err != nil {
		t.Fatalf("kernel failed: %v", err)
	}
	return out
}

func TestMulKernelInt8(t *testing.T) {
	got := runMul(t, []int8{2, 3, 2}, []int8{35, 12, 23})
	want := []int8{70, 36, 46}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("out[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestMulKernelInt8Wraps(t *testing.T) {
	// Products outside int8 range wrap two's-complement.
	got := runMul(t, []int8{16, 100}, []int8{16, 2})
	want := []int8{0, -56}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("out[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestMulKernelFloat32(t *testing.T) {
	got := runMul(t, []float32{123, 153, 231}, []float32{9482, 1208, 1238})
	want := []float32{1166286, 184824, 286578}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("out[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestMulKernelAllKinds(t *testing.T) {
	t.Run("int32", func(t *testing.T) {
		got := runMul(t, []int32{-4, 9}, []int32{3, -9})
		if got[0] != -12 || got[1] != -81 {
			t.Errorf("got %v", got)
		}
	})
	t.Run("uint32", func(t *testing.T) {
		got := runMul(t, []uint32{123, 153, 231}, []uint32{9482, 1208, 1238})
		if got[0] != 1166286 || got[1] != 184824 || got[2] != 286578 {
			t.Errorf("got %v", got)
		}
	})
	t.Run("int16", func(t *testing.T) {
		got := runMul(t, []int16{12, 15, 23}, []int16{948, 120, 123})
		if got[0] != 11376 || got[1] != 1800 || got[2] != 2829 {
			t.Errorf("got %v", got)
		}
	})
	t.Run("uint16", func(t *testing.T) {
		got := runMul(t, []uint16{12, 15, 23}, []uint16{948, 120, 123})
		if got[0] != 11376 || got[1] != 1800 || got[2] != 2829 {
			t.Errorf("got %v", got)
		}
	})
	t.Run("uint8", func(t *testing.T) {
		got := runMul(t, []uint8{2, 3, 2}, []uint8{35, 12, 23})
		if got[0] != 70 || got[1] != 36 || got[2] != 46 {
			t.Errorf("got %v", got)
		}
	})
}

func TestMulKernelBindingErrors(t *testing.T) {
	prog, _ := Mul(memory.Float32)

	if err := prog.Kernel([][]byte{make([]byte, 4)}, [3]uint32{1, 1, 1}); err == nil {
		t.Error("kernel with one binding should fail")
	}

	bufs := [][]byte{make([]byte, 4), make([]byte, 4), make([]byte, 8)}
	if err := prog.Kernel(bufs, [3]uint32{1, 1, 1}); err == nil {
		t.Error("kernel with short inputs should fail")
	}
}
