package compute

import (
	"fmt"
	"sync/atomic"

	"github.com/conduit-gpu/conduit/errors"
	"github.com/conduit-gpu/conduit/internal/device"
	"github.com/conduit-gpu/conduit/internal/memory"
)

// Algorithm binds a compiled program to an ordered set of resources and a
// workgroup grid. Binding i of the program sees the device buffer of
// resource i. Algorithms are created through Manager.Algorithm and die with
// the manager.
type Algorithm struct {
	prog      *device.Program
	pipe      device.Pipeline
	resources []memory.Resource
	groups    [3]uint32
	kind      memory.ElemKind
	destroyed atomic.Bool
}

// ProgramName returns the bound program's name.
func (a *Algorithm) ProgramName() string {
	return a.prog.Name
}

// Kind returns the element kind all bound resources share.
func (a *Algorithm) Kind() memory.ElemKind {
	return a.kind
}

// Groups returns the workgroup grid the algorithm dispatches over.
func (a *Algorithm) Groups() [3]uint32 {
	return a.groups
}

// IsValid reports whether the algorithm can still be dispatched.
func (a *Algorithm) IsValid() bool {
	return !a.destroyed.Load()
}

// Destroy detaches the algorithm from its resources. Recorded dispatches
// over it fail with invalid_resource afterwards. Idempotent. The compiled
// pipeline stays in the driver's cache and dies with the device.
func (a *Algorithm) Destroy() error {
	a.destroyed.Store(true)
	return nil
}

func (a *Algorithm) label() string {
	return fmt.Sprintf("algorithm(%s)", a.prog.Name)
}

// run dispatches the pipeline over the bound resources. Resource validity
// is re-checked at eval time: destroying a resource between record and eval
// surfaces invalid_resource here, not a device fault.
func (a *Algorithm) run(dev device.Device) error {
	if a.destroyed.Load() {
		return errors.InvalidResource(errors.PhaseEval, a.label())
	}
	bufs := make([]device.Buffer, len(a.resources))
	for i, r := range a.resources {
		if !r.IsValid() {
			return errors.InvalidResource(errors.PhaseEval, r.Label())
		}
		bufs[i] = r.DeviceBuffer()
	}
	if err := dev.Dispatch(a.pipe, bufs, a.groups); err != nil {
		return wrapDevice(errors.PhaseEval, "dispatch "+a.prog.Name, err)
	}
	return nil
}

// wrapDevice passes structured driver errors through untouched and wraps
// everything else as a device failure.
func wrapDevice(phase errors.Phase, detail string, err error) error {
	if _, ok := err.(*errors.Error); ok {
		return err
	}
	return errors.DeviceFailure(phase, detail, err)
}
