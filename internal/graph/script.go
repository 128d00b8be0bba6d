package graph

import (
	"fmt"
	"slices"
)

// Script is an ordered arena of boxes. Links between boxes are PortRefs
// held by client nodes, so removing a box never leaves a pointer behind;
// Remove sweeps every link into the box first.
//
// A Script is not safe for concurrent use.
type Script struct {
	boxes  []*Box
	byID   map[BoxID]*Box
	nextID BoxID
}

// NewScript creates an empty script.
func NewScript() *Script {
	return &Script{byID: make(map[BoxID]*Box)}
}

// Add appends b and assigns it an id. A box belongs to at most one script;
// adding a box that already has an id is an error.
func (s *Script) Add(b *Box) (BoxID, error) {
	if b.id != 0 {
		return 0, fmt.Errorf("box %s already belongs to a script", b)
	}
	s.nextID++
	b.id = s.nextID
	s.boxes = append(s.boxes, b)
	s.byID[b.id] = b
	return b.id, nil
}

// Boxes returns the boxes in script order.
func (s *Script) Boxes() []*Box {
	return slices.Clone(s.boxes)
}

// Len returns the number of boxes.
func (s *Script) Len() int { return len(s.boxes) }

// Box looks up a box by id.
func (s *Script) Box(id BoxID) (*Box, bool) {
	b, ok := s.byID[id]
	return b, ok
}

// Index returns the position of the box in script order, or -1.
func (s *Script) Index(id BoxID) int {
	return slices.IndexFunc(s.boxes, func(b *Box) bool { return b.id == id })
}

// Remove breaks every link into the box, then removes it. It reports
// whether the box was present.
func (s *Script) Remove(id BoxID) bool {
	i := s.Index(id)
	if i < 0 {
		return false
	}
	s.BreakLinksTo(id)
	b := s.boxes[i]
	s.boxes = slices.Delete(s.boxes, i, i+1)
	delete(s.byID, id)
	b.id = 0
	return true
}

// BreakLinksTo clears every client node in the script that points at a
// server node of box id.
func (s *Script) BreakLinksTo(id BoxID) int {
	n := 0
	for _, b := range s.boxes {
		for i := range b.nodes {
			if l := b.nodes[i].link; l != nil && l.Box == id {
				b.nodes[i].link = nil
				n++
			}
		}
	}
	return n
}

// Link points client port from at server port to, replacing any previous
// link of from.
func (s *Script) Link(from, to PortRef) error {
	fb, ok := s.byID[from.Box]
	if !ok {
		return fmt.Errorf("link source %d: %w", from.Box, ErrNoSuchBox)
	}
	tb, ok := s.byID[to.Box]
	if !ok {
		return fmt.Errorf("link target %d: %w", to.Box, ErrNoSuchBox)
	}
	if fn, ok := fb.Node(from.Port); !ok || !fn.IsClient() {
		return fmt.Errorf("%s port %d: %w", fb, from.Port, ErrBadPort)
	}
	if tn, ok := tb.Node(to.Port); !ok || !tn.IsServer() {
		return fmt.Errorf("%s port %d: %w", tb, to.Port, ErrBadPort)
	}
	ref := to
	fb.nodes[from.Port].link = &ref
	return nil
}

// Unlink clears the link of a client port.
func (s *Script) Unlink(from PortRef) error {
	fb, ok := s.byID[from.Box]
	if !ok {
		return fmt.Errorf("unlink %d: %w", from.Box, ErrNoSuchBox)
	}
	if fn, ok := fb.Node(from.Port); !ok || !fn.IsClient() {
		return fmt.Errorf("%s port %d: %w", fb, from.Port, ErrBadPort)
	}
	fb.nodes[from.Port].link = nil
	return nil
}

// FindSubroutine returns the first Subroutine in script order named name.
func (s *Script) FindSubroutine(name string) (*Box, bool) {
	for _, b := range s.boxes {
		if b.kind == KindSubroutine && b.name == name {
			return b, true
		}
	}
	return nil, false
}

// Starts returns every Start box in script order.
func (s *Script) Starts() []*Box {
	var out []*Box
	for _, b := range s.boxes {
		if b.kind == KindStart {
			out = append(out, b)
		}
	}
	return out
}
