package memory

import (
	"testing"

	"github.com/conduit-gpu/conduit/internal/device"
)

// View accessor tests

func TestViewZeroValue(t *testing.T) {
	var v View

	if v.IsValid() {
		t.Error("zero View should be invalid")
	}
	if v.Bytes() != nil {
		t.Error("zero View Bytes should be nil")
	}
}

func TestViewTypedAccessors(t *testing.T) {
	dev := device.NewMock()

	f32, _ := NewTensor(dev, Float32, 2, DeviceLocal, FromSlice([]float32{1.5, 2.5}))
	if got := f32.View().Float32s(); got[0] != 1.5 || got[1] != 2.5 {
		t.Errorf("Float32s = %v", got)
	}

	i16, _ := NewTensor(dev, Int16, 2, DeviceLocal, FromSlice([]int16{-3, 9}))
	if got := i16.View().Int16s(); got[0] != -3 || got[1] != 9 {
		t.Errorf("Int16s = %v", got)
	}

	u8, _ := NewTensor(dev, Uint8, 3, DeviceLocal, FromSlice([]uint8{255, 0, 7}))
	if got := u8.View().Uint8s(); got[0] != 255 || got[2] != 7 {
		t.Errorf("Uint8s = %v", got)
	}
}

func TestViewZeroCopy(t *testing.T) {
	dev := device.NewMock()
	ts, _ := NewTensor(dev, Int32, 2, DeviceLocal, FromSlice([]int32{1, 2}))

	v := ts.View()
	data := v.Int32s()
	data[0] = 42

	// A second view over the same resource observes the write.
	if got := ts.View().Int32s()[0]; got != 42 {
		t.Errorf("aliasing view saw %d, want 42", got)
	}
}

func TestViewSharedAcrossSync(t *testing.T) {
	dev := device.NewMock()
	ts, _ := NewTensor(dev, Int32, 2, DeviceLocal, FromSlice([]int32{1, 2}))

	data := ts.View().Int32s()

	// Mirror writes reach the device on sync, and a sync back updates the
	// slice handed out earlier in place.
	data[0] = 10
	if err := ts.SyncToDevice(); err != nil {
		t.Fatalf("SyncToDevice failed: %v", err)
	}
	data[0] = 0
	if err := ts.SyncToHost(); err != nil {
		t.Fatalf("SyncToHost failed: %v", err)
	}
	if data[0] != 10 {
		t.Errorf("view after round trip = %d, want 10", data[0])
	}
}

// As* methods panic on kind mismatch.

func TestViewWrongKindPanics(t *testing.T) {
	dev := device.NewMock()
	ts, _ := NewTensor(dev, Float32, 2, DeviceLocal, nil)
	v := ts.View()

	defer func() {
		if r := recover(); r == nil {
			t.Error("Int32s on a float32 view should panic")
		}
	}()
	_ = v.Int32s()
}

func TestViewDataWrongKindPanics(t *testing.T) {
	dev := device.NewMock()
	ts, _ := NewTensor(dev, Uint8, 2, DeviceLocal, nil)
	v := ts.View()

	defer func() {
		if r := recover(); r == nil {
			t.Error("Data[int8] on a uint8 view should panic")
		}
	}()
	_ = Data[int8](v)
}

// Generic accessor tests

func TestDataGeneric(t *testing.T) {
	dev := device.NewMock()

	i8, _ := NewTensor(dev, Int8, 3, DeviceLocal, FromSlice([]int8{2, 3, 2}))
	got := Data[int8](i8.View())
	want := []int8{2, 3, 2}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Data[int8][%d] = %d, want %d", i, got[i], want[i])
		}
	}

	u16, _ := NewTensor(dev, Uint16, 2, DeviceLocal, FromSlice([]uint16{65535, 1}))
	if got := Data[uint16](u16.View()); got[0] != 65535 || got[1] != 1 {
		t.Errorf("Data[uint16] = %v", got)
	}
}

func TestDataAfterDestroy(t *testing.T) {
	dev := device.NewMock()
	ts, _ := NewTensor(dev, Float32, 2, DeviceLocal, FromSlice([]float32{1, 2}))
	v := ts.View()

	_ = ts.Destroy()

	if got := Data[float32](v); got != nil {
		t.Errorf("Data after destroy = %v, want nil", got)
	}
}

func TestFromSlice(t *testing.T) {
	b := FromSlice([]uint16{0x0201, 0x0403})
	if len(b) != 4 {
		t.Fatalf("FromSlice length = %d, want 4", len(b))
	}

	if FromSlice[float32](nil) != nil {
		t.Error("FromSlice of empty slice should be nil")
	}
}

func TestViewMetadata(t *testing.T) {
	dev := device.NewMock()
	ts, _ := NewTensor(dev, Int16, 5, DeviceLocal, nil)
	v := ts.View()

	if v.Kind() != Int16 {
		t.Errorf("Kind = %v, want Int16", v.Kind())
	}
	if v.Len() != 5 {
		t.Errorf("Len = %d, want 5", v.Len())
	}
	if v.NumBytes() != 10 {
		t.Errorf("NumBytes = %d, want 10", v.NumBytes())
	}

	// Metadata stays queryable after destroy; only data access fails.
	_ = ts.Destroy()
	if v.Len() != 5 || v.Kind() != Int16 {
		t.Error("metadata should survive destroy")
	}
}
