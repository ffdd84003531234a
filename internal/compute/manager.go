// Package compute orchestrates resources, algorithms and sequences over a
// compute device. The Manager is the sole owner of everything it creates:
// resources live until they are individually destroyed or the manager tears
// everything down in bulk, regardless of which wrapper objects the caller
// still holds.
package compute

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/conduit-gpu/conduit/errors"
	"github.com/conduit-gpu/conduit/internal/device"
	"github.com/conduit-gpu/conduit/internal/device/host"
	"github.com/conduit-gpu/conduit/internal/memory"
)

// Manager owns a device and every resource, algorithm and sequence created
// through it. Destruction rights are exclusively the manager's: callers
// release wrappers whenever they like, the manager decides when memory
// actually dies.
type Manager struct {
	id  string
	dev device.Device
	log *zap.Logger

	mu         sync.Mutex
	resources  []memory.Resource
	algorithms []*Algorithm
	sequences  []*Sequence
	destroyed  bool
}

type managerConfig struct {
	dev    device.Device
	devSet bool
	log    *zap.Logger
}

// Option configures a Manager.
type Option func(*managerConfig)

// WithDevice runs the manager on the given device. Ownership transfers: the
// manager closes the device on Destroy. The default is the host driver.
func WithDevice(dev device.Device) Option {
	return func(c *managerConfig) {
		c.dev = dev
		c.devSet = true
	}
}

// WithLogger sets the manager's logger. The default is the package logger,
// which is a no-op unless SetLogger was called.
func WithLogger(l *zap.Logger) Option {
	return func(c *managerConfig) {
		c.log = l
	}
}

// NewManager creates a manager. Without options it runs on the host driver
// and logs nowhere.
func NewManager(opts ...Option) (*Manager, error) {
	var cfg managerConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.devSet && cfg.dev == nil {
		return nil, errors.InvalidInput(errors.PhaseCreate, "nil device")
	}
	if cfg.dev == nil {
		cfg.dev = host.New()
	}
	if cfg.log == nil {
		cfg.log = Logger()
	}

	m := &Manager{
		id:  uuid.NewString(),
		dev: cfg.dev,
		log: cfg.log,
	}
	m.log.Debug("manager created",
		zap.String("manager", m.id),
		zap.String("device", m.dev.Name()))
	return m, nil
}

// ID returns the manager's identity used in logs.
func (m *Manager) ID() string {
	return m.id
}

// Device returns the device the manager runs on. The manager keeps
// ownership.
func (m *Manager) Device() device.Device {
	return m.dev
}

// NewTensor creates a tensor seeded with data. The element kind is inferred
// from T.
func NewTensor[T memory.Elem](m *Manager, data []T, opts ...memory.CreateOption) (*memory.Tensor, error) {
	return NewTensorFromBytes(m, memory.KindOf[T](), memory.FromSlice(data), opts...)
}

// NewTensorEmpty creates a zero-filled tensor of n elements.
func NewTensorEmpty[T memory.Elem](m *Manager, n int, opts ...memory.CreateOption) (*memory.Tensor, error) {
	return m.newTensor(memory.KindOf[T](), n, nil, opts...)
}

// NewImage creates a width x height image with the given channel count,
// seeded with data in row-major order.
func NewImage[T memory.Elem](m *Manager, data []T, width, height, channels uint32, opts ...memory.CreateOption) (*memory.Image, error) {
	return NewImageFromBytes(m, memory.KindOf[T](), memory.FromSlice(data), width, height, channels, opts...)
}

// NewTexture creates a sampled image seeded with data.
func NewTexture[T memory.Elem](m *Manager, data []T, width, height, channels uint32, s memory.Sampling, opts ...memory.CreateOption) (*memory.Texture, error) {
	return NewTextureFromBytes(m, memory.KindOf[T](), memory.FromSlice(data), width, height, channels, s, opts...)
}

// NewTensorFromBytes creates a tensor from raw bytes with a runtime element
// kind, for callers marshalling untyped payloads. len(data) must be a whole
// number of elements.
func NewTensorFromBytes(m *Manager, kind memory.ElemKind, data []byte, opts ...memory.CreateOption) (*memory.Tensor, error) {
	n, err := elementCount(kind, data)
	if err != nil {
		return nil, err
	}
	return m.newTensor(kind, n, data, opts...)
}

// NewImageFromBytes creates an image from raw bytes with a runtime element
// kind. len(data) must be exactly width*height*channels elements.
func NewImageFromBytes(m *Manager, kind memory.ElemKind, data []byte, width, height, channels uint32, opts ...memory.CreateOption) (*memory.Image, error) {
	if err := m.creatable(); err != nil {
		return nil, err
	}
	cfg := memory.ApplyCreateOptions(opts...)
	img, err := memory.NewImage(m.dev, kind, width, height, channels, cfg.MemType, data)
	if err != nil {
		return nil, err
	}
	if err := m.adopt(img); err != nil {
		_ = img.Destroy()
		return nil, err
	}
	m.logCreated(img, cfg.MemType)
	return img, nil
}

// NewTextureFromBytes creates a texture from raw bytes with a runtime
// element kind.
func NewTextureFromBytes(m *Manager, kind memory.ElemKind, data []byte, width, height, channels uint32, s memory.Sampling, opts ...memory.CreateOption) (*memory.Texture, error) {
	if err := m.creatable(); err != nil {
		return nil, err
	}
	cfg := memory.ApplyCreateOptions(opts...)
	tex, err := memory.NewTexture(m.dev, kind, width, height, channels, s, cfg.MemType, data)
	if err != nil {
		return nil, err
	}
	if err := m.adopt(tex); err != nil {
		_ = tex.Destroy()
		return nil, err
	}
	m.logCreated(tex, cfg.MemType)
	return tex, nil
}

// newTensor is the common tensor creation path: allocate, adopt, log.
func (m *Manager) newTensor(kind memory.ElemKind, n int, data []byte, opts ...memory.CreateOption) (*memory.Tensor, error) {
	if err := m.creatable(); err != nil {
		return nil, err
	}
	cfg := memory.ApplyCreateOptions(opts...)
	t, err := memory.NewTensor(m.dev, kind, n, cfg.MemType, data)
	if err != nil {
		return nil, err
	}
	if err := m.adopt(t); err != nil {
		_ = t.Destroy()
		return nil, err
	}
	m.logCreated(t, cfg.MemType)
	return t, nil
}

// elementCount derives the element count of a raw payload, rejecting
// partial elements.
func elementCount(kind memory.ElemKind, data []byte) (int, error) {
	size := kind.Size()
	if size == 0 {
		return 0, errors.New(errors.PhaseCreate, errors.KindTypeMismatch).
			Detail("custom element kinds are not supported").
			Build()
	}
	if len(data)%size != 0 {
		return 0, errors.New(errors.PhaseCreate, errors.KindTypeMismatch).
			HostKind(kind.String()).
			Detail("payload is %d bytes, not a whole number of %d byte elements", len(data), size).
			Build()
	}
	return len(data) / size, nil
}

// Algorithm compiles the program on the manager's device and binds it to
// the resources, in binding order. All resources must be valid and share
// one element kind. groups optionally fixes the workgroup grid (1 to 3
// dimensions); by default the grid is ceil(n / workgroupSize) over the
// first resource's element count.
func (m *Manager) Algorithm(prog *device.Program, resources []memory.Resource, groups ...uint32) (*Algorithm, error) {
	if err := m.creatable(); err != nil {
		return nil, err
	}
	if prog == nil {
		return nil, errors.InvalidInput(errors.PhaseCreate, "nil program")
	}
	if len(resources) == 0 {
		return nil, errors.InvalidInput(errors.PhaseCreate, "algorithm %s: no resources bound", prog.Name)
	}
	if len(groups) > 3 {
		return nil, errors.InvalidInput(errors.PhaseCreate, "algorithm %s: workgroup grid has at most 3 dimensions, got %d", prog.Name, len(groups))
	}

	kind := resources[0].Kind()
	for _, r := range resources {
		if r == nil {
			return nil, errors.InvalidInput(errors.PhaseCreate, "algorithm %s: nil resource", prog.Name)
		}
		if !r.IsValid() {
			return nil, errors.InvalidResource(errors.PhaseCreate, r.Label())
		}
		if r.Kind() != kind {
			return nil, errors.New(errors.PhaseCreate, errors.KindTypeMismatch).
				Resource(r.Label()).
				HostKind(r.Kind().String()).
				Detail("algorithm %s binds %s resources", prog.Name, kind).
				Build()
		}
	}

	grid := [3]uint32{1, 1, 1}
	if len(groups) > 0 {
		for i, g := range groups {
			if g == 0 {
				return nil, errors.InvalidInput(errors.PhaseCreate, "algorithm %s: workgroup counts must be positive", prog.Name)
			}
			grid[i] = g
		}
	} else {
		wg := prog.WorkgroupSize()
		//nolint:gosec // G115: element counts fit in uint32 well before GPU limits
		grid[0] = (uint32(resources[0].Len()) + wg - 1) / wg
	}

	pipe, err := m.dev.Compile(prog)
	if err != nil {
		return nil, wrapDevice(errors.PhaseCreate, fmt.Sprintf("compile %s", prog.Name), err)
	}

	a := &Algorithm{
		prog:      prog,
		pipe:      pipe,
		resources: append([]memory.Resource(nil), resources...),
		groups:    grid,
		kind:      kind,
	}
	if err := m.adoptAlgorithm(a); err != nil {
		return nil, err
	}

	m.log.Debug("algorithm created",
		zap.String("manager", m.id),
		zap.String("program", prog.Name),
		zap.String("kind", kind.String()),
		zap.Int("resources", len(resources)),
		zap.Uint32s("groups", grid[:]))
	return a, nil
}

// Sequence creates and registers an empty sequence. On a destroyed manager
// the returned sequence is itself destroyed: every Record and Eval on it
// fails with invalid_resource.
func (m *Manager) Sequence() *Sequence {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.destroyed {
		return &Sequence{destroyed: true, dev: m.dev, log: m.log, mid: m.id}
	}
	s := &Sequence{dev: m.dev, log: m.log, mid: m.id}
	m.sequences = append(m.sequences, s)
	return s
}

// Destroy tears down everything the manager owns: sequences first (awaiting
// any in-flight evaluation), then algorithms, then resources, then the
// device. Every outstanding View observes the invalidation immediately.
// Per-item failures are collected and teardown continues; the aggregate is
// returned. Idempotent.
func (m *Manager) Destroy() error {
	m.mu.Lock()
	if m.destroyed {
		m.mu.Unlock()
		return nil
	}
	m.destroyed = true
	seqs := m.sequences
	algos := m.algorithms
	res := m.resources
	m.sequences = nil
	m.algorithms = nil
	m.resources = nil
	m.mu.Unlock()

	var result *multierror.Error
	for _, s := range seqs {
		if err := s.Destroy(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	for _, a := range algos {
		if err := a.Destroy(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	for _, r := range res {
		if err := r.Destroy(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if err := m.dev.Close(); err != nil {
		result = multierror.Append(result, err)
	}

	m.log.Debug("manager destroyed",
		zap.String("manager", m.id),
		zap.Int("sequences", len(seqs)),
		zap.Int("algorithms", len(algos)),
		zap.Int("resources", len(res)))
	return result.ErrorOrNil()
}

// creatable fails when the manager has been destroyed.
func (m *Manager) creatable() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.destroyed {
		return errors.InvalidResource(errors.PhaseCreate, "manager")
	}
	return nil
}

// adopt registers a resource, re-checking for a teardown that raced the
// creation. The caller destroys the resource when adoption fails.
func (m *Manager) adopt(r memory.Resource) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.destroyed {
		return errors.InvalidResource(errors.PhaseCreate, "manager")
	}
	m.resources = append(m.resources, r)
	return nil
}

func (m *Manager) adoptAlgorithm(a *Algorithm) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.destroyed {
		return errors.InvalidResource(errors.PhaseCreate, "manager")
	}
	m.algorithms = append(m.algorithms, a)
	return nil
}

func (m *Manager) logCreated(r memory.Resource, mt memory.MemoryType) {
	m.log.Debug("resource created",
		zap.String("manager", m.id),
		zap.String("resource", r.Label()),
		zap.Int("elements", r.Len()),
		zap.String("memory", mt.String()))
}
