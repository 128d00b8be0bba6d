package graph

// Reachable returns every box reachable from root by following client
// links to the boxes that own their targets, and Invoke boxes to the first
// Subroutine with a matching name. The root itself is included only when
// something reachable from it leads back to it.
func (s *Script) Reachable(root BoxID) map[BoxID]bool {
	seen := make(map[BoxID]bool)
	b, ok := s.byID[root]
	if !ok {
		return seen
	}
	stack := s.successors(b)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[id] {
			continue
		}
		next, ok := s.byID[id]
		if !ok {
			continue
		}
		seen[id] = true
		stack = append(stack, s.successors(next)...)
	}
	return seen
}

func (s *Script) successors(b *Box) []BoxID {
	var out []BoxID
	for _, ref := range b.links() {
		out = append(out, ref.Box)
	}
	if b.kind == KindInvoke {
		if sub, ok := s.FindSubroutine(b.name); ok {
			out = append(out, sub.id)
		}
	}
	return out
}

// Useful computes the boxes AutoClean keeps. Every mutable Event box is a
// candidate root. A root is live when its traversal reaches some box other
// than itself; a live root and everything it reaches are useful. An Event
// box with nothing behind it is dead even though it is a root.
func (s *Script) Useful() map[BoxID]bool {
	useful := make(map[BoxID]bool)
	for _, b := range s.boxes {
		if !b.mutable || !b.kind.IsEvent() {
			continue
		}
		reached := s.Reachable(b.id)
		live := false
		for id := range reached {
			if id != b.id {
				live = true
				break
			}
		}
		if !live {
			continue
		}
		useful[b.id] = true
		for id := range reached {
			useful[id] = true
		}
	}
	return useful
}

// Removed records a box deleted by AutoClean.
type Removed struct {
	ID    BoxID
	Kind  Kind
	Index int // position in script order before the pass
}

// AutoClean removes every mutable box that is not useful, through the same
// path as Remove. Immutable boxes are never removed. A second call removes
// nothing.
func (s *Script) AutoClean() []Removed {
	useful := s.Useful()
	var removed []Removed
	for i, b := range s.Boxes() {
		if !b.mutable || useful[b.id] {
			continue
		}
		removed = append(removed, Removed{ID: b.id, Kind: b.kind, Index: i})
		s.Remove(b.id)
	}
	return removed
}
