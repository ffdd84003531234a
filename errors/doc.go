// Package errors provides structured error types for the conduit library.
//
// Errors are categorized by Phase (where in the resource/dispatch pipeline
// the error occurred) and Kind (error category). The Error type carries the
// offending resource description, the host element kind and the device format
// involved, plus a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseCreate, errors.KindTypeMismatch).
//		Resource("image(int8, 12)").
//		HostKind("int8").
//		DeviceFormat("r8sint").
//		Detail("channel count exceeds format width").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.InvalidResource(errors.PhaseEval, "tensor(float32, 3)")
//	err := errors.TypeMismatch(errors.PhaseCreate, "int8", "r8sint")
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
