package frames

import (
	"errors"
	"fmt"
)

// NamedFrame identifies a frame of a NamedHierarchy by its dense index.
type NamedFrame int

// FrameDef declares one frame of a NamedHierarchy. An empty Parent attaches
// the frame to the root.
type FrameDef struct {
	Name   string
	Parent string
}

// NamedHierarchy is a frame set declared at startup from configuration
// rather than as a Go enum. It is immutable once built.
type NamedHierarchy struct {
	names   []string
	parents []NamedFrame // -1 marks a root-attached frame
	byName  map[string]NamedFrame
}

var ErrDuplicateFrame = errors.New("duplicate frame name")

// NewNamedHierarchy builds a hierarchy from defs. Frames are indexed in
// declaration order; parents may be declared before or after their children.
// The result is validated before it is returned.
func NewNamedHierarchy(defs []FrameDef) (*NamedHierarchy, error) {
	h := &NamedHierarchy{
		names:   make([]string, len(defs)),
		parents: make([]NamedFrame, len(defs)),
		byName:  make(map[string]NamedFrame, len(defs)),
	}
	for i, d := range defs {
		if d.Name == "" {
			return nil, fmt.Errorf("frame %d: empty name", i)
		}
		if _, dup := h.byName[d.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateFrame, d.Name)
		}
		h.names[i] = d.Name
		h.byName[d.Name] = NamedFrame(i)
	}
	for i, d := range defs {
		if d.Parent == "" {
			h.parents[i] = -1
			continue
		}
		p, ok := h.byName[d.Parent]
		if !ok {
			return nil, fmt.Errorf("%w: frame %q has parent %q", ErrUnknownParent, d.Name, d.Parent)
		}
		h.parents[i] = p
	}
	if err := Validate[NamedFrame](h); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *NamedHierarchy) Parent(f NamedFrame) (NamedFrame, bool) {
	p := h.parents[f]
	if p < 0 {
		return 0, false
	}
	return p, true
}

func (h *NamedHierarchy) FrameCount() int { return len(h.names) }

func (h *NamedHierarchy) Index(f NamedFrame) int { return int(f) }

func (h *NamedHierarchy) Frames() []NamedFrame {
	out := make([]NamedFrame, len(h.names))
	for i := range out {
		out[i] = NamedFrame(i)
	}
	return out
}

// Lookup returns the frame called name.
func (h *NamedHierarchy) Lookup(name string) (NamedFrame, bool) {
	f, ok := h.byName[name]
	return f, ok
}

// Name returns the declared name of f.
func (h *NamedHierarchy) Name(f NamedFrame) string {
	if int(f) < 0 || int(f) >= len(h.names) {
		return fmt.Sprintf("NamedFrame(%d)", int(f))
	}
	return h.names[f]
}

// Names maps a chain of frames to their names.
func (h *NamedHierarchy) Names(chain []NamedFrame) []string {
	out := make([]string, len(chain))
	for i, f := range chain {
		out[i] = h.Name(f)
	}
	return out
}
