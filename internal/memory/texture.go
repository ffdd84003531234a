package memory

import (
	"fmt"

	"github.com/conduit-gpu/conduit/errors"
	"github.com/conduit-gpu/conduit/internal/device"
)

// Filter selects how a texture is filtered when sampled.
type Filter int

const (
	FilterNearest Filter = iota
	FilterLinear
)

// String returns a human-readable filter name.
func (f Filter) String() string {
	switch f {
	case FilterNearest:
		return "nearest"
	case FilterLinear:
		return "linear"
	default:
		return "unknown"
	}
}

// AddressMode selects how out-of-range texture coordinates resolve.
type AddressMode int

const (
	AddressClampToEdge AddressMode = iota
	AddressRepeat
	AddressMirroredRepeat
	AddressClampToBorder
)

// String returns a human-readable address mode name.
func (a AddressMode) String() string {
	switch a {
	case AddressClampToEdge:
		return "clamp-to-edge"
	case AddressRepeat:
		return "repeat"
	case AddressMirroredRepeat:
		return "mirrored-repeat"
	case AddressClampToBorder:
		return "clamp-to-border"
	default:
		return "unknown"
	}
}

// Sampling describes how a texture is sampled during dispatch. The zero
// value is nearest filtering with clamp-to-edge addressing.
type Sampling struct {
	Filter      Filter
	AddressMode AddressMode
}

// Texture is an Image plus sampling parameters.
type Texture struct {
	Image
	sampling Sampling
}

// NewTexture creates a sampled image. Sampling parameters are fixed for
// the texture's lifetime.
func NewTexture(dev device.Device, kind ElemKind, width, height, channels uint32, s Sampling, mt MemoryType, data []byte) (*Texture, error) {
	label := fmt.Sprintf("texture(%s, %dx%dx%d)", kind, width, height, channels)
	if s.Filter < FilterNearest || s.Filter > FilterLinear {
		return nil, errors.InvalidInput(errors.PhaseCreate, "%s: unknown filter %d", label, s.Filter)
	}
	if s.AddressMode < AddressClampToEdge || s.AddressMode > AddressClampToBorder {
		return nil, errors.InvalidInput(errors.PhaseCreate, "%s: unknown address mode %d", label, s.AddressMode)
	}
	im, err := newImage(dev, label, kind, width, height, channels, mt, data)
	if err != nil {
		return nil, err
	}
	return &Texture{Image: *im, sampling: s}, nil
}

// Sampling returns the texture's sampling parameters.
func (t *Texture) Sampling() Sampling {
	return t.sampling
}
