package memory

import "sync"

// control is the always-allocated block tracking a resource's validity
// independently of any wrapper's reachability. Every View issued for a
// resource shares the same control block, so a View outlives the wrapper
// that produced it and still reports the current state. Destruction is
// single-writer (the owning manager or an explicit per-resource destroy);
// validity checks and reads are many-reader.
type control struct {
	mu    sync.RWMutex
	valid bool
	host  []byte // host-visible mirror holding the last-synced value; nil for storage-only resources
}

// newControl allocates a control block with valid = true. When data is
// non-nil the mirror is seeded with a copy of it, so later mutation of the
// caller's slice does not leak into the resource. A storage-only resource
// passes hostVisible = false and carries no mirror at all.
func newControl(size int, data []byte, hostVisible bool) *control {
	c := &control{valid: true}
	if !hostVisible {
		return c
	}
	c.host = make([]byte, size)
	copy(c.host, data)
	return c
}

// isValid reports the current validity of the resource.
func (c *control) isValid() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.valid
}

// bytes returns the host mirror, or nil once the resource was destroyed
// or when it has no host-visible memory. The returned slice aliases the
// mirror: writes through it are picked up by the next sync to device.
func (c *control) bytes() []byte {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.valid {
		return nil
	}
	return c.host
}

// store overwrites the mirror in place. The backing array is never
// reallocated, so slices handed out earlier keep observing the resource.
func (c *control) store(src []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.valid || c.host == nil {
		return false
	}
	copy(c.host, src)
	return true
}

// invalidate flips the resource to invalid and drops the mirror. The
// control block itself stays alive for as long as any View references it,
// reporting valid = false from then on. Idempotent.
func (c *control) invalidate() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.valid {
		return false
	}
	c.valid = false
	c.host = nil
	return true
}
