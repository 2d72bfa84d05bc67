package frames

import (
	"fmt"
	"sync"
)

// Registry stores, for every frame of one hierarchy, the transform of that
// frame relative to its declared parent. Slots start at the identity.
//
// A Registry is not safe for concurrent use; wrap it in a SyncRegistry or
// provide your own locking when it is shared.
type Registry[F comparable] struct {
	h     Hierarchy[F]
	slots []Transform
}

// NewRegistry validates h and allocates one identity slot per frame.
func NewRegistry[F comparable](h Hierarchy[F]) (*Registry[F], error) {
	if err := Validate(h); err != nil {
		Opsf("rejected hierarchy: %v", err)
		return nil, fmt.Errorf("invalid frame hierarchy: %w", err)
	}
	n := h.FrameCount()
	Diagf("registry created: %d frames", n)
	return &Registry[F]{
		h:     h,
		slots: make([]Transform, n),
	}, nil
}

// MustNewRegistry is like NewRegistry but panics on an invalid hierarchy.
// Intended for hierarchies declared in code.
func MustNewRegistry[F comparable](h Hierarchy[F]) *Registry[F] {
	r, err := NewRegistry(h)
	if err != nil {
		panic(err)
	}
	return r
}

// Hierarchy returns the frame set this registry is keyed by.
func (r *Registry[F]) Hierarchy() Hierarchy[F] { return r.h }

func (r *Registry[F]) slot(f F) int {
	idx := r.h.Index(f)
	if idx < 0 || idx >= len(r.slots) {
		panic(fmt.Sprintf("frames: index %d for frame %v outside registry of %d slots", idx, f, len(r.slots)))
	}
	return idx
}

// Set records t as the pose of f relative to its parent.
func (r *Registry[F]) Set(f F, t Transform) {
	r.slots[r.slot(f)] = t
	Tracef("set %v -> %s", f, t)
}

// Get returns the pose of f relative to its parent, or the identity if it
// was never set.
func (r *Registry[F]) Get(f F) Transform {
	return r.slots[r.slot(f)]
}

// Reset returns the slot for f to the identity.
func (r *Registry[F]) Reset(f F) {
	r.Set(f, Identity())
}

// Entry pairs a frame with its stored parent-relative transform.
type Entry[F comparable] struct {
	Frame     F
	Transform Transform
}

// Entries returns a copy of every slot, ordered by frame index.
func (r *Registry[F]) Entries() []Entry[F] {
	out := make([]Entry[F], len(r.slots))
	for _, f := range r.h.Frames() {
		idx := r.h.Index(f)
		out[idx] = Entry[F]{Frame: f, Transform: r.slots[idx]}
	}
	return out
}

// PathTo resolves the up/down chains between two frames of this registry's
// hierarchy. The hierarchy was validated at construction so an error here
// means Index or Parent changed behaviour afterwards.
func (r *Registry[F]) PathTo(src, dst F) (up, down []F) {
	up, down, err := PathTo(r.h, src, dst)
	if err != nil {
		panic(fmt.Sprintf("frames: %v", err))
	}
	return up, down
}

// SyncRegistry guards a Registry with a RWMutex for callers that share one
// table between goroutines.
type SyncRegistry[F comparable] struct {
	mu  sync.RWMutex
	reg *Registry[F]
}

// NewSyncRegistry validates h and returns a lock-guarded registry.
func NewSyncRegistry[F comparable](h Hierarchy[F]) (*SyncRegistry[F], error) {
	reg, err := NewRegistry(h)
	if err != nil {
		return nil, err
	}
	return &SyncRegistry[F]{reg: reg}, nil
}

// Set records t as the pose of f relative to its parent.
func (s *SyncRegistry[F]) Set(f F, t Transform) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reg.Set(f, t)
}

// Get returns the stored transform for f.
func (s *SyncRegistry[F]) Get(f F) Transform {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reg.Get(f)
}

// Convert re-expresses p in dst while holding the read lock, so the whole
// chain is evaluated against one consistent set of transforms.
func (s *SyncRegistry[F]) Convert(p Point[F], dst F) Point[F] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return p.InFrame(s.reg, dst)
}

// Entries returns a consistent copy of every slot.
func (s *SyncRegistry[F]) Entries() []Entry[F] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reg.Entries()
}
