package memory

import (
	"fmt"

	"github.com/conduit-gpu/conduit/internal/device"
)

// Verify that all resource types satisfy Resource.
var (
	_ Resource = (*Tensor)(nil)
	_ Resource = (*Image)(nil)
	_ Resource = (*Texture)(nil)
)

// Tensor is a flat device-backed buffer of one element kind.
type Tensor struct {
	Memory
}

// NewTensor creates a tensor of n elements. data, when non-nil, must be
// exactly n*kind.Size() bytes and seeds the host mirror; the device buffer
// stays zeroed until the first sync to device.
func NewTensor(dev device.Device, kind ElemKind, n int, mt MemoryType, data []byte) (*Tensor, error) {
	label := fmt.Sprintf("tensor(%s, %d)", kind, n)
	m, err := newMemory(dev, label, kind, n, mt, data)
	if err != nil {
		return nil, err
	}
	return &Tensor{Memory: m}, nil
}
