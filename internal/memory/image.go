package memory

import (
	"fmt"
	"math"

	"github.com/conduit-gpu/conduit/errors"
	"github.com/conduit-gpu/conduit/internal/device"
)

// Tiling is the texel layout of an image's device memory.
type Tiling int

const (
	// TilingOptimal lets the device pick its preferred opaque layout.
	TilingOptimal Tiling = iota
	// TilingLinear is row-major, required for host-addressable memory.
	TilingLinear
)

// String returns a human-readable tiling name.
func (t Tiling) String() string {
	switch t {
	case TilingOptimal:
		return "optimal"
	case TilingLinear:
		return "linear"
	default:
		return "unknown"
	}
}

// Image is a 2D device-backed resource with 1 to 4 channels per texel.
// Its data is addressed as a flat buffer of width*height*channels elements
// in row-major order.
type Image struct {
	Memory
	width    uint32
	height   uint32
	channels uint32
}

// NewImage creates a width x height image with the given channel count.
// data, when non-nil, must hold exactly width*height*channels elements.
func NewImage(dev device.Device, kind ElemKind, width, height, channels uint32, mt MemoryType, data []byte) (*Image, error) {
	label := fmt.Sprintf("image(%s, %dx%dx%d)", kind, width, height, channels)
	return newImage(dev, label, kind, width, height, channels, mt, data)
}

func newImage(dev device.Device, label string, kind ElemKind, width, height, channels uint32, mt MemoryType, data []byte) (*Image, error) {
	if width == 0 || height == 0 {
		return nil, errors.InvalidInput(errors.PhaseCreate, "%s: dimensions must be positive", label)
	}
	if channels < 1 || channels > 4 {
		return nil, errors.InvalidInput(errors.PhaseCreate, "%s: channels must be 1..4, got %d", label, channels)
	}
	total := uint64(width) * uint64(height) * uint64(channels)
	if total > math.MaxInt32 {
		return nil, errors.InvalidInput(errors.PhaseCreate, "%s: too many elements", label)
	}
	m, err := newMemory(dev, label, kind, int(total), mt, data)
	if err != nil {
		return nil, err
	}
	return &Image{Memory: m, width: width, height: height, channels: channels}, nil
}

// Width returns the image width in texels.
func (im *Image) Width() uint32 {
	return im.width
}

// Height returns the image height in texels.
func (im *Image) Height() uint32 {
	return im.height
}

// Channels returns the number of channels per texel.
func (im *Image) Channels() uint32 {
	return im.channels
}

// Tiling is inferred from the memory type, never user-set: host-addressable
// images are linear, device-local and storage-only images use the device's
// optimal layout.
func (im *Image) Tiling() Tiling {
	switch im.mtype {
	case HostVisible, DeviceAndHost:
		return TilingLinear
	default:
		return TilingOptimal
	}
}
