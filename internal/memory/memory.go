package memory

import (
	"fmt"

	"github.com/conduit-gpu/conduit/errors"
	"github.com/conduit-gpu/conduit/internal/device"
)

// MemoryType selects where a resource's memory lives and whether a
// host-visible mirror is kept for it.
type MemoryType int

const (
	// DeviceLocal is device memory with a host staging mirror (the default).
	DeviceLocal MemoryType = iota
	// HostVisible is host-coherent memory.
	HostVisible
	// DeviceAndHost is device memory that is also host-addressable.
	DeviceAndHost
	// StorageOnly is device scratch memory with no host mirror. Views on
	// storage-only resources report valid but carry no data, and sync
	// operations skip them.
	StorageOnly
)

// String returns a human-readable memory type name.
func (mt MemoryType) String() string {
	switch mt {
	case DeviceLocal:
		return "device"
	case HostVisible:
		return "host"
	case DeviceAndHost:
		return "device+host"
	case StorageOnly:
		return "storage"
	default:
		return "unknown"
	}
}

// hostVisible reports whether resources of this memory type keep a host
// mirror at all.
func (mt MemoryType) hostVisible() bool {
	return mt != StorageOnly
}

// Resource is the surface shared by all device-backed resource types
// (Tensor, Image, Texture). Sequences and algorithms operate on it.
type Resource interface {
	Kind() ElemKind
	Len() int
	NumBytes() int
	Label() string
	MemType() MemoryType
	IsValid() bool
	View() View
	Destroy() error
	SyncToDevice() error
	SyncToHost() error
	CopyFrom(src Resource) error
	DeviceBuffer() device.Buffer
}

// Memory is the base resource: a device buffer plus a control block with a
// host-visible mirror. Tensor, Image and Texture embed it. The embedding
// wrapper may be dropped by the caller at any time; the control block and
// the device allocation live on until an explicit destroy.
type Memory struct {
	ctl   *control
	dev   device.Device
	buf   device.Buffer
	kind  ElemKind
	n     int
	mtype MemoryType
	label string
}

// newMemory allocates the device buffer and control block for a resource.
// data, when non-nil, seeds the host mirror only; the device buffer is not
// written until the first sync to device.
func newMemory(dev device.Device, label string, kind ElemKind, n int, mt MemoryType, data []byte) (Memory, error) {
	if dev == nil {
		return Memory{}, errors.InvalidInput(errors.PhaseCreate, "nil device")
	}
	if !kind.Valid() {
		return Memory{}, errors.New(errors.PhaseCreate, errors.KindTypeMismatch).
			Resource(label).
			Detail("custom element kinds are not supported").
			Build()
	}
	if n <= 0 {
		return Memory{}, errors.InvalidInput(errors.PhaseCreate, "%s: element count must be positive, got %d", label, n)
	}
	size := n * kind.Size()
	if data != nil && len(data) != size {
		return Memory{}, errors.New(errors.PhaseCreate, errors.KindTypeMismatch).
			Resource(label).
			HostKind(kind.String()).
			Detail("data is %d bytes, want %d (%d elements of %d bytes)", len(data), size, n, kind.Size()).
			Build()
	}
	if mt == StorageOnly && data != nil {
		return Memory{}, errors.InvalidInput(errors.PhaseCreate, "%s: storage-only resources cannot be seeded with host data", label)
	}

	buf, err := dev.Alloc(size)
	if err != nil {
		return Memory{}, errors.Allocation(errors.PhaseCreate, size, err)
	}

	return Memory{
		ctl:   newControl(size, data, mt.hostVisible()),
		dev:   dev,
		buf:   buf,
		kind:  kind,
		n:     n,
		mtype: mt,
		label: label,
	}, nil
}

// Kind returns the resource's element kind.
func (m *Memory) Kind() ElemKind {
	return m.kind
}

// Len returns the number of elements.
func (m *Memory) Len() int {
	return m.n
}

// NumBytes returns the total memory size in bytes.
func (m *Memory) NumBytes() int {
	return m.n * m.kind.Size()
}

// MemType returns the resource's memory type.
func (m *Memory) MemType() MemoryType {
	return m.mtype
}

// Label returns the resource description used in errors and logs,
// e.g. "tensor(float32, 3)".
func (m *Memory) Label() string {
	return m.label
}

// IsValid reports whether the resource is still alive. It reflects the
// current control block state, not the reachability of any wrapper.
func (m *Memory) IsValid() bool {
	return m.ctl.isValid()
}

// View acquires a handle onto the resource's host-visible data. The View
// shares the resource's control block and stays meaningful after this
// wrapper is released: it keeps reporting the resource's current validity
// and reads the last-synced mirror until an explicit destroy.
func (m *Memory) View() View {
	return View{ctl: m.ctl, kind: m.kind, n: m.n}
}

// DeviceBuffer exposes the underlying device allocation. Advanced use only;
// sequences and algorithms consume it internally.
func (m *Memory) DeviceBuffer() device.Buffer {
	return m.buf
}

// Destroy releases the device buffer and invalidates the control block.
// Outstanding Views observe the invalidation immediately: IsValid turns
// false and reads return nil. Idempotent; destroying twice is a no-op.
func (m *Memory) Destroy() error {
	if !m.ctl.invalidate() {
		return nil
	}
	m.buf.Release()
	return nil
}

// SyncToDevice copies the host mirror into the device buffer. Storage-only
// resources have nothing to copy and return nil.
func (m *Memory) SyncToDevice() error {
	if !m.ctl.isValid() {
		return errors.InvalidResource(errors.PhaseEval, m.label)
	}
	src := m.ctl.bytes()
	if src == nil {
		return nil
	}
	if err := m.buf.Upload(src); err != nil {
		return errors.DeviceFailure(errors.PhaseEval, fmt.Sprintf("sync %s to device", m.label), err)
	}
	return nil
}

// SyncToHost copies the device buffer back into the host mirror, making
// device results observable through Views. Storage-only resources are
// skipped. Before the first SyncToHost after a dispatch, Views keep
// returning the last-synced value.
func (m *Memory) SyncToHost() error {
	if !m.ctl.isValid() {
		return errors.InvalidResource(errors.PhaseEval, m.label)
	}
	if !m.mtype.hostVisible() {
		return nil
	}
	tmp := make([]byte, m.NumBytes())
	if err := m.buf.Download(tmp); err != nil {
		return errors.DeviceFailure(errors.PhaseEval, fmt.Sprintf("sync %s to host", m.label), err)
	}
	if !m.ctl.store(tmp) {
		return errors.InvalidResource(errors.PhaseEval, m.label)
	}
	return nil
}

// CopyFrom copies src's device buffer into this resource's device buffer.
// Element kinds and lengths must match. Host mirrors are unaffected until
// the next SyncToHost.
func (m *Memory) CopyFrom(src Resource) error {
	if !m.ctl.isValid() {
		return errors.InvalidResource(errors.PhaseEval, m.label)
	}
	if !src.IsValid() {
		return errors.InvalidResource(errors.PhaseEval, src.Label())
	}
	if src.Kind() != m.kind {
		return errors.New(errors.PhaseEval, errors.KindTypeMismatch).
			Resource(m.label).
			HostKind(src.Kind().String()).
			Detail("cannot copy %s into %s", src.Label(), m.label).
			Build()
	}
	if src.Len() != m.n {
		return errors.InvalidInput(errors.PhaseEval, "cannot copy %s into %s: lengths differ", src.Label(), m.label)
	}
	if err := m.dev.Copy(m.buf, src.DeviceBuffer()); err != nil {
		return errors.DeviceFailure(errors.PhaseEval, fmt.Sprintf("copy %s into %s", src.Label(), m.label), err)
	}
	return nil
}
