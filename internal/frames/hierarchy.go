package frames

import (
	"errors"
	"fmt"
)

// Hierarchy describes a fixed set of frames arranged as a rooted tree.
//
// Each concrete frame set (an enum type, or a set built from configuration)
// supplies one Hierarchy. The parent relation must be total over Frames and
// must not contain cycles; Validate checks both.
type Hierarchy[F comparable] interface {
	// Parent returns the frame f is attached to. ok is false when f hangs
	// directly off the implicit root.
	Parent(f F) (parent F, ok bool)
	// FrameCount is the number of distinct frames in the set.
	FrameCount() int
	// Index maps f to a dense slot in [0, FrameCount).
	Index(f F) int
	// Frames lists every frame in the set.
	Frames() []F
}

var (
	ErrFrameCount     = errors.New("frame count mismatch")
	ErrIndexRange     = errors.New("frame index out of range")
	ErrIndexCollision = errors.New("frame index collision")
	ErrUnknownParent  = errors.New("parent is not a member of the frame set")
	ErrCycle          = errors.New("cycle in frame hierarchy")
)

// Validate checks that h describes a well-formed tree: indices are dense and
// unique, every parent belongs to the set, and following parents from any
// frame reaches the root.
func Validate[F comparable](h Hierarchy[F]) error {
	all := h.Frames()
	n := h.FrameCount()
	if len(all) != n {
		return fmt.Errorf("%w: FrameCount()=%d but Frames() lists %d", ErrFrameCount, n, len(all))
	}

	members := make(map[F]struct{}, n)
	owners := make([]bool, n)
	for _, f := range all {
		idx := h.Index(f)
		if idx < 0 || idx >= n {
			return fmt.Errorf("%w: frame %v has index %d, want [0, %d)", ErrIndexRange, f, idx, n)
		}
		if owners[idx] {
			return fmt.Errorf("%w: index %d assigned twice (frame %v)", ErrIndexCollision, idx, f)
		}
		owners[idx] = true
		members[f] = struct{}{}
	}

	for _, f := range all {
		if p, ok := h.Parent(f); ok {
			if _, known := members[p]; !known {
				return fmt.Errorf("%w: frame %v has parent %v", ErrUnknownParent, f, p)
			}
		}
	}

	// 0 = unvisited, 1 = on the current walk, 2 = known to reach root.
	state := make([]uint8, n)
	for _, start := range all {
		var walk []int
		cur := start
		for {
			idx := h.Index(cur)
			if state[idx] == 2 {
				break
			}
			if state[idx] == 1 {
				return fmt.Errorf("%w: frame %v is its own ancestor", ErrCycle, cur)
			}
			state[idx] = 1
			walk = append(walk, idx)
			p, ok := h.Parent(cur)
			if !ok {
				break
			}
			cur = p
		}
		for _, idx := range walk {
			state[idx] = 2
		}
	}
	return nil
}

// Ancestors returns f followed by each of its ancestors, ending with the
// frame attached to the root. The walk is bounded by FrameCount so a cyclic
// hierarchy yields ErrCycle instead of looping forever.
func Ancestors[F comparable](h Hierarchy[F], f F) ([]F, error) {
	limit := h.FrameCount()
	chain := make([]F, 0, 4)
	cur := f
	for {
		if len(chain) >= limit {
			return nil, fmt.Errorf("%w: walk from %v exceeded %d frames", ErrCycle, f, limit)
		}
		chain = append(chain, cur)
		p, ok := h.Parent(cur)
		if !ok {
			return chain, nil
		}
		cur = p
	}
}

// Depth is the number of parent steps from f to the root-attached frame.
func Depth[F comparable](h Hierarchy[F], f F) (int, error) {
	chain, err := Ancestors(h, f)
	if err != nil {
		return 0, err
	}
	return len(chain) - 1, nil
}
