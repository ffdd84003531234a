package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in the resource/dispatch pipeline the error occurred
type Phase string

const (
	PhaseCreate Phase = "create" // resource creation and marshalling
	PhaseRecord Phase = "record" // sequence recording
	PhaseEval   Phase = "eval"   // batched device execution
	PhaseRead   Phase = "read"   // view/handle readback
	PhaseDevice Phase = "device" // driver-level operations
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidResource Kind = "invalid_resource"
	KindTypeMismatch    Kind = "type_mismatch"
	KindSyncOrdering    Kind = "sync_ordering"
	KindUnsupported     Kind = "unsupported"
	KindAllocation      Kind = "allocation"
	KindDeviceFailure   Kind = "device_failure"
	KindInvalidInput    Kind = "invalid_input"
)

// Error is the structured error type used throughout the library
type Error struct {
	Cause        error
	Phase        Phase
	Kind         Kind
	Resource     string // resource description, e.g. "tensor(float32, 3)"
	HostKind     string // host-side element kind involved, if any
	DeviceFormat string // device-side format involved, if any
	Detail       string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Resource != "" {
		b.WriteString(" on ")
		b.WriteString(e.Resource)
	}

	if e.HostKind != "" || e.DeviceFormat != "" {
		b.WriteString(": ")
		if e.HostKind != "" && e.DeviceFormat != "" {
			b.WriteString("host kind ")
			b.WriteString(e.HostKind)
			b.WriteString(", device format ")
			b.WriteString(e.DeviceFormat)
		} else if e.HostKind != "" {
			b.WriteString("host kind ")
			b.WriteString(e.HostKind)
		} else {
			b.WriteString("device format ")
			b.WriteString(e.DeviceFormat)
		}
	}

	if e.Detail != "" {
		if e.HostKind != "" || e.DeviceFormat != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// IsKind reports whether err is an *Error of the given kind, at any phase.
func IsKind(err error, kind Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Kind == kind {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Resource sets the resource description
func (b *Builder) Resource(r string) *Builder {
	b.err.Resource = r
	return b
}

// HostKind sets the host-side element kind name
func (b *Builder) HostKind(k string) *Builder {
	b.err.HostKind = k
	return b
}

// DeviceFormat sets the device-side format name
func (b *Builder) DeviceFormat(f string) *Builder {
	b.err.DeviceFormat = f
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// InvalidResource creates an invalid-resource error. Operations on a
// destroyed or never-initialized resource surface this immediately, never
// deferred to the next sync point.
func InvalidResource(phase Phase, resource string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindInvalidResource,
		Resource: resource,
		Detail:   "resource is destroyed or not initialized",
	}
}

// TypeMismatch creates a type mismatch error between a host element kind
// and a device format or another host kind.
func TypeMismatch(phase Phase, hostKind, deviceFormat string) *Error {
	return &Error{
		Phase:        phase,
		Kind:         KindTypeMismatch,
		HostKind:     hostKind,
		DeviceFormat: deviceFormat,
	}
}

// SyncOrdering creates a sync-ordering violation error for sequence
// protocol misuse (double eval, await without eval, record during eval).
func SyncOrdering(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindSyncOrdering,
		Detail: detail,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// Allocation creates an allocation failure error
func Allocation(phase Phase, size int, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes", size),
		Cause:  cause,
	}
}

// DeviceFailure wraps a driver error
func DeviceFailure(phase Phase, detail string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindDeviceFailure,
		Detail: detail,
		Cause:  cause,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string, args ...any) *Error {
	if len(args) > 0 {
		detail = fmt.Sprintf(detail, args...)
	}
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
