// Package memory provides the resource and ownership model for the Conduit
// compute binding layer: element kinds, device formats, control blocks,
// tensors, images, textures and views.
package memory

// Elem is a constraint for supported resource element types.
// It uses Go generics to ensure compile-time type safety.
type Elem interface {
	~float32 | ~int32 | ~uint32 | ~int16 | ~uint16 | ~int8 | ~uint8
}

// ElemKind represents runtime element type information for resources.
type ElemKind int

// Supported element kinds. The set is closed: resources are parameterized
// by exactly one of these, and unsupported kinds are rejected at creation
// time, never at dispatch time.
const (
	Float32 ElemKind = iota
	Int32
	Uint32
	Int16
	Uint16
	Int8
	Uint8
)

// Size returns the byte size of one element of the kind.
func (k ElemKind) Size() int {
	switch k {
	case Float32, Int32, Uint32:
		return 4
	case Int16, Uint16:
		return 2
	case Int8, Uint8:
		return 1
	default:
		return 0
	}
}

// String returns a human-readable name for the element kind.
func (k ElemKind) String() string {
	switch k {
	case Float32:
		return "float32"
	case Int32:
		return "int32"
	case Uint32:
		return "uint32"
	case Int16:
		return "int16"
	case Uint16:
		return "uint16"
	case Int8:
		return "int8"
	case Uint8:
		return "uint8"
	default:
		return "unknown"
	}
}

// Valid reports whether the kind is one of the supported element kinds.
func (k ElemKind) Valid() bool {
	return k >= Float32 && k <= Uint8
}

// Format is the device-side single-channel format tag for an element kind.
type Format int

// Device format tags. FormatInvalid is the zero value.
const (
	FormatInvalid Format = iota
	FormatR32Float
	FormatR32Sint
	FormatR32Uint
	FormatR16Sint
	FormatR16Uint
	FormatR8Sint
	FormatR8Uint
)

// String returns the WebGPU-style name of the format.
func (f Format) String() string {
	switch f {
	case FormatR32Float:
		return "r32float"
	case FormatR32Sint:
		return "r32sint"
	case FormatR32Uint:
		return "r32uint"
	case FormatR16Sint:
		return "r16sint"
	case FormatR16Uint:
		return "r16uint"
	case FormatR8Sint:
		return "r8sint"
	case FormatR8Uint:
		return "r8uint"
	default:
		return "invalid"
	}
}

// Format returns the device format for the element kind. The mapping is
// total and injective: every supported kind maps to exactly one format,
// preserving bit width and signedness. No implicit widening or truncation
// happens anywhere across the host/device boundary.
func (k ElemKind) Format() Format {
	switch k {
	case Float32:
		return FormatR32Float
	case Int32:
		return FormatR32Sint
	case Uint32:
		return FormatR32Uint
	case Int16:
		return FormatR16Sint
	case Uint16:
		return FormatR16Uint
	case Int8:
		return FormatR8Sint
	case Uint8:
		return FormatR8Uint
	default:
		return FormatInvalid
	}
}

// KindOf infers the ElemKind for a generic element type T.
func KindOf[T Elem]() ElemKind {
	var zero T
	switch any(zero).(type) {
	case float32:
		return Float32
	case int32:
		return Int32
	case uint32:
		return Uint32
	case int16:
		return Int16
	case uint16:
		return Uint16
	case int8:
		return Int8
	case uint8:
		return Uint8
	default:
		panic("unsupported element type")
	}
}
