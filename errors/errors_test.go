package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:        PhaseCreate,
				Kind:         KindTypeMismatch,
				Resource:     "image(int8, 12)",
				HostKind:     "int8",
				DeviceFormat: "r8sint",
				Detail:       "cannot marshal",
			},
			contains: []string{"[create]", "type_mismatch", "image(int8, 12)", "int8", "r8sint", "cannot marshal"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseRead,
				Kind:  KindInvalidResource,
			},
			contains: []string{"[read]", "invalid_resource"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseEval,
				Kind:   KindDeviceFailure,
				Detail: "dispatch failed",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[eval]", "device_failure", "dispatch failed", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseDevice,
		Kind:  KindAllocation,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}

	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase:    PhaseRecord,
		Kind:     KindInvalidResource,
		Resource: "tensor(float32, 3)",
	}

	if !err.Is(&Error{Phase: PhaseRecord, Kind: KindInvalidResource}) {
		t.Error("Is should match same phase and kind")
	}

	if err.Is(&Error{Phase: PhaseEval, Kind: KindInvalidResource}) {
		t.Error("Is should not match different phase")
	}

	if err.Is(&Error{Phase: PhaseRecord, Kind: KindSyncOrdering}) {
		t.Error("Is should not match different kind")
	}

	target := &Error{Phase: PhaseRecord, Kind: KindInvalidResource}
	if !errors.Is(err, target) {
		t.Error("errors.Is should match")
	}
}

func TestIsKind(t *testing.T) {
	base := InvalidResource(PhaseEval, "tensor(uint8, 4)")
	wrapped := Wrap(PhaseEval, KindDeviceFailure, base, "batch aborted")

	if !IsKind(base, KindInvalidResource) {
		t.Error("IsKind should match direct error")
	}
	if !IsKind(wrapped, KindInvalidResource) {
		t.Error("IsKind should match through the cause chain")
	}
	if !IsKind(wrapped, KindDeviceFailure) {
		t.Error("IsKind should match outer kind")
	}
	if IsKind(wrapped, KindTypeMismatch) {
		t.Error("IsKind should not match absent kind")
	}
	if IsKind(nil, KindInvalidResource) {
		t.Error("IsKind on nil should be false")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseCreate, KindTypeMismatch).
		Resource("texture(uint16, 3)").
		HostKind("uint16").
		DeviceFormat("r16uint").
		Cause(cause).
		Detail("expected %s, got %s", "uint16", "int16").
		Build()

	if err.Phase != PhaseCreate {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseCreate)
	}
	if err.Kind != KindTypeMismatch {
		t.Errorf("Kind = %v, want %v", err.Kind, KindTypeMismatch)
	}
	if err.Resource != "texture(uint16, 3)" {
		t.Errorf("Resource = %v, want 'texture(uint16, 3)'", err.Resource)
	}
	if err.HostKind != "uint16" {
		t.Errorf("HostKind = %v, want 'uint16'", err.HostKind)
	}
	if err.DeviceFormat != "r16uint" {
		t.Errorf("DeviceFormat = %v, want 'r16uint'", err.DeviceFormat)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "expected uint16, got int16" {
		t.Errorf("Detail = %v, want 'expected uint16, got int16'", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	if e := InvalidResource(PhaseRead, "tensor(int32, 8)"); e.Kind != KindInvalidResource || e.Resource == "" {
		t.Errorf("InvalidResource = %+v", e)
	}
	if e := TypeMismatch(PhaseCreate, "int8", "r8sint"); e.HostKind != "int8" || e.DeviceFormat != "r8sint" {
		t.Errorf("TypeMismatch = %+v", e)
	}
	if e := SyncOrdering(PhaseEval, "sequence already running"); e.Kind != KindSyncOrdering {
		t.Errorf("SyncOrdering = %+v", e)
	}
	if e := Unsupported(PhaseDevice, "int16 storage"); e.Kind != KindUnsupported {
		t.Errorf("Unsupported = %+v", e)
	}
	if e := Allocation(PhaseDevice, 1024, nil); !strings.Contains(e.Detail, "1024") {
		t.Errorf("Allocation = %+v", e)
	}
	if e := InvalidInput(PhaseCreate, "channels must be 1..4, got %d", 5); !strings.Contains(e.Detail, "5") {
		t.Errorf("InvalidInput = %+v", e)
	}
}
