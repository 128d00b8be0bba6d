package graph

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/roach88/vls/internal/value"
)

// Box is one operator instance. Its ordered Nodes are fixed per Kind; the
// text format depends on that order.
//
// Immutable boxes are read-only templates: position edits and value edits
// are refused.
type Box struct {
	id      BoxID
	kind    Kind
	x, y    float64
	mutable bool
	nodes   []Node

	literal value.Value // value family
	name    string      // Subroutine and Invoke
	cell    value.Value // State
}

// NewBox constructs a mutable box of kind k with fresh server node ids.
// It panics if k is not a catalog kind.
func NewBox(k Kind) *Box {
	if !k.Valid() {
		panic(fmt.Sprintf("graph: invalid box kind %d", int(k)))
	}
	s := k.info()
	b := &Box{
		kind:    k,
		mutable: true,
		nodes:   make([]Node, len(s.ports)),
		literal: s.literal,
		cell:    value.Null{},
	}
	for i, p := range s.ports {
		b.nodes[i] = Node{name: p.name, description: p.desc, dir: p.dir}
		if p.dir == Server {
			b.nodes[i].id = uuid.New()
		}
	}
	return b
}

// Create constructs a box from its serialization tag.
func Create(tag string) (*Box, error) {
	k, ok := KindByTag(tag)
	if !ok {
		return nil, fmt.Errorf("unknown box type %q", tag)
	}
	return NewBox(k), nil
}

func (b *Box) ID() BoxID { return b.id }
func (b *Box) Kind() Kind { return b.kind }

// Title is the display name.
func (b *Box) Title() string { return b.kind.Title() }
func (b *Box) Color() Color { return b.kind.Color() }
func (b *Box) Help() Help { return b.kind.Help() }

func (b *Box) String() string {
	return fmt.Sprintf("%s#%d", b.kind, b.id)
}

func (b *Box) X() float64 { return b.x }
func (b *Box) Y() float64 { return b.y }

// SetPosition moves a mutable box. It reports whether the move happened.
func (b *Box) SetPosition(x, y float64) bool {
	if !b.mutable {
		return false
	}
	b.x, b.y = x, y
	return true
}

func (b *Box) Mutable() bool { return b.mutable }
func (b *Box) SetMutable(m bool) { b.mutable = m }

// Nodes returns a copy of the box's ports in declared order.
func (b *Box) Nodes() []Node {
	out := make([]Node, len(b.nodes))
	copy(out, b.nodes)
	return out
}

// Node returns port i.
func (b *Box) Node(i int) (Node, bool) {
	if i < 0 || i >= len(b.nodes) {
		return Node{}, false
	}
	return b.nodes[i], true
}

// Port finds a port index by name and direction.
func (b *Box) Port(name string, dir Direction) (int, bool) {
	for i, n := range b.nodes {
		if n.name == name && n.dir == dir {
			return i, true
		}
	}
	return 0, false
}

// Literal returns the stored value of a value-family box, or nil.
func (b *Box) Literal() value.Value { return b.literal }

// PortalName returns the name a Subroutine answers to, or the name an
// Invoke looks for.
func (b *Box) PortalName() string { return b.name }

// Cell returns the current contents of a State box's memory.
func (b *Box) Cell() value.Value { return b.cell }

// ValueText returns the settable value as text.
func (b *Box) ValueText() (string, bool) {
	switch {
	case b.kind.HasName():
		return b.name, true
	case b.kind.Settable():
		return b.literal.String(), true
	}
	return "", false
}

// SetValueText parses text into the box's current variant and stores it.
// Only mutable boxes accept it, and text must not contain a line break. On
// failure the box is unchanged.
func (b *Box) SetValueText(text string) error {
	if !b.kind.Settable() {
		return fmt.Errorf("%s: %w", b.kind, ErrNotSettable)
	}
	if !b.mutable {
		return fmt.Errorf("%s: %w", b.kind, ErrImmutable)
	}
	if strings.ContainsAny(text, "\r\n") {
		return fmt.Errorf("%s: %w", b.kind, ErrMultiline)
	}
	return b.setPayload(text)
}

// setPayload stores a literal or name without the mutability check.
func (b *Box) setPayload(text string) error {
	if b.kind.HasName() {
		b.name = text
		return nil
	}
	v, err := value.FromString(b.literal.Kind(), text)
	if err != nil {
		return err
	}
	b.literal = v
	return nil
}

// Clone returns an independent mutable copy with fresh, unlinked nodes.
// The copy keeps the position, literal and name but not the State cell.
func (b *Box) Clone() *Box {
	c := NewBox(b.kind)
	c.x, c.y = b.x, b.y
	c.literal = b.literal
	c.name = b.name
	return c
}

// links returns the client links of b in port order.
func (b *Box) links() []PortRef {
	var out []PortRef
	for _, n := range b.nodes {
		if ref, ok := n.Link(); ok {
			out = append(out, ref)
		}
	}
	return out
}
