package compute

import (
	"github.com/conduit-gpu/conduit/errors"
	"github.com/conduit-gpu/conduit/internal/device"
	"github.com/conduit-gpu/conduit/internal/memory"
)

// Op is one recorded operation in a sequence. Ops validate at record time,
// so a sequence holding them can be evaluated repeatedly without
// re-checking shapes, and run at eval time in recording order.
type Op interface {
	// Name identifies the op in errors and logs, e.g. "dispatch".
	Name() string

	validate() error
	run(dev device.Device) error
}

// SyncDevice returns an op that copies each resource's host mirror into its
// device buffer. Storage-only resources are skipped.
func SyncDevice(rs ...memory.Resource) Op {
	return &syncDeviceOp{rs: rs}
}

type syncDeviceOp struct {
	rs []memory.Resource
}

func (o *syncDeviceOp) Name() string { return "sync-to-device" }

func (o *syncDeviceOp) validate() error {
	return validateResources(o.Name(), o.rs)
}

func (o *syncDeviceOp) run(device.Device) error {
	for _, r := range o.rs {
		if err := r.SyncToDevice(); err != nil {
			return err
		}
	}
	return nil
}

// SyncLocal returns an op that copies each resource's device buffer back
// into its host mirror, making device results observable through Views.
// Storage-only resources are skipped.
func SyncLocal(rs ...memory.Resource) Op {
	return &syncLocalOp{rs: rs}
}

type syncLocalOp struct {
	rs []memory.Resource
}

func (o *syncLocalOp) Name() string { return "sync-to-local" }

func (o *syncLocalOp) validate() error {
	return validateResources(o.Name(), o.rs)
}

func (o *syncLocalOp) run(device.Device) error {
	for _, r := range o.rs {
		if err := r.SyncToHost(); err != nil {
			return err
		}
	}
	return nil
}

// Dispatch returns an op that runs the algorithm's program over its bound
// resources.
func Dispatch(algo *Algorithm) Op {
	return &dispatchOp{algo: algo}
}

type dispatchOp struct {
	algo *Algorithm
}

func (o *dispatchOp) Name() string { return "dispatch" }

func (o *dispatchOp) validate() error {
	if o.algo == nil {
		return errors.InvalidInput(errors.PhaseRecord, "dispatch: nil algorithm")
	}
	if o.algo.destroyed.Load() {
		return errors.InvalidResource(errors.PhaseRecord, o.algo.label())
	}
	return validateResources(o.Name(), o.algo.resources)
}

func (o *dispatchOp) run(dev device.Device) error {
	return o.algo.run(dev)
}

// CopyResource returns an op that copies src's device buffer into dst's.
// Kinds and element counts must match.
func CopyResource(dst, src memory.Resource) Op {
	return &copyOp{dst: dst, src: src}
}

type copyOp struct {
	dst memory.Resource
	src memory.Resource
}

func (o *copyOp) Name() string { return "copy" }

func (o *copyOp) validate() error {
	if o.dst == nil || o.src == nil {
		return errors.InvalidInput(errors.PhaseRecord, "copy: nil resource")
	}
	if err := validateResources(o.Name(), []memory.Resource{o.dst, o.src}); err != nil {
		return err
	}
	if o.dst.Kind() != o.src.Kind() {
		return errors.New(errors.PhaseRecord, errors.KindTypeMismatch).
			Resource(o.dst.Label()).
			HostKind(o.src.Kind().String()).
			Detail("cannot copy %s into %s", o.src.Label(), o.dst.Label()).
			Build()
	}
	if o.dst.Len() != o.src.Len() {
		return errors.InvalidInput(errors.PhaseRecord, "cannot copy %s into %s: lengths differ", o.src.Label(), o.dst.Label())
	}
	return nil
}

func (o *copyOp) run(device.Device) error {
	return o.dst.CopyFrom(o.src)
}

// validateResources fails fast on empty resource lists, nil entries and
// already-destroyed resources.
func validateResources(op string, rs []memory.Resource) error {
	if len(rs) == 0 {
		return errors.InvalidInput(errors.PhaseRecord, "%s: no resources", op)
	}
	for _, r := range rs {
		if r == nil {
			return errors.InvalidInput(errors.PhaseRecord, "%s: nil resource", op)
		}
		if !r.IsValid() {
			return errors.InvalidResource(errors.PhaseRecord, r.Label())
		}
	}
	return nil
}
