package value

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Kind identifies a Value variant.
type Kind int

const (
	NullKind Kind = iota
	IntegerKind
	DoubleKind
	BoolKind
	StringKind
	ListKind
)

func (k Kind) String() string {
	switch k {
	case NullKind:
		return "Null"
	case IntegerKind:
		return "Integer"
	case DoubleKind:
		return "Double"
	case BoolKind:
		return "Bool"
	case StringKind:
		return "String"
	case ListKind:
		return "List"
	default:
		return "Unknown"
	}
}

// Value is a sealed interface over the runtime value variants.
// Only Null, Integer, Double, Bool, String and List implement it.
type Value interface {
	// Kind reports the variant.
	Kind() Kind

	// String returns the canonical text representation. For scalar
	// variants FromString(v.Kind(), v.String()) reproduces v.
	String() string

	// Len is 0 for scalars, the rune count for String and the element
	// count for List.
	Len() int

	// IsEqualTo compares by value. Integer and Double compare numerically.
	IsEqualTo(x Value) bool

	value() // Sealed
}

// Null is the absent value. Unlinked ports evaluate to Null.
type Null struct{}

func (Null) value() {}
func (Null) Kind() Kind { return NullKind }
func (Null) String() string { return "null" }
func (Null) Len() int { return 0 }
func (Null) IsEqualTo(x Value) bool { return x != nil && x.Kind() == NullKind }

// Integer is a 32-bit signed integer. Arithmetic wraps on overflow.
type Integer int32

func (Integer) value() {}
func (Integer) Kind() Kind { return IntegerKind }
func (Integer) Len() int { return 0 }
func (i Integer) String() string {
	return strconv.FormatInt(int64(i), 10)
}

func (i Integer) IsEqualTo(x Value) bool {
	switch v := x.(type) {
	case Integer:
		return i == v
	case Double:
		return float64(i) == float64(v)
	}
	return false
}

// Double is a 64-bit IEEE float.
type Double float64

func (Double) value() {}
func (Double) Kind() Kind { return DoubleKind }
func (Double) Len() int { return 0 }

// String uses the shortest representation that parses back to the same
// float ("1.5", "2", "+Inf", "NaN").
func (d Double) String() string {
	return strconv.FormatFloat(float64(d), 'g', -1, 64)
}

func (d Double) IsEqualTo(x Value) bool {
	switch v := x.(type) {
	case Double:
		return d == v
	case Integer:
		return float64(d) == float64(v)
	}
	return false
}

// Bool is a boolean.
type Bool bool

func (Bool) value() {}
func (Bool) Kind() Kind { return BoolKind }
func (Bool) Len() int { return 0 }
func (b Bool) String() string {
	return strconv.FormatBool(bool(b))
}

func (b Bool) IsEqualTo(x Value) bool {
	v, ok := x.(Bool)
	return ok && b == v
}

// String is UTF-8 text. Len counts runes, not bytes.
type String string

func (String) value() {}
func (String) Kind() Kind { return StringKind }
func (s String) String() string { return string(s) }
func (s String) Len() int { return utf8.RuneCountInString(string(s)) }

func (s String) IsEqualTo(x Value) bool {
	v, ok := x.(String)
	return ok && s == v
}

// List is an immutable ordered sequence. The zero List is empty.
type List struct {
	items []Value
}

// NewList creates a List holding copies of the given elements.
// Nil elements are stored as Null.
func NewList(items ...Value) List {
	cp := make([]Value, len(items))
	for i, it := range items {
		if it == nil {
			it = Null{}
		}
		cp[i] = it
	}
	return List{items: cp}
}

func (List) value() {}
func (List) Kind() Kind { return ListKind }
func (l List) Len() int { return len(l.items) }

// Items returns a copy of the elements.
func (l List) Items() []Value {
	cp := make([]Value, len(l.items))
	copy(cp, l.items)
	return cp
}

// Index returns the element at i, or Null when i is out of range.
func (l List) Index(i int) Value {
	if i < 0 || i >= len(l.items) {
		return Null{}
	}
	return l.items[i]
}

// Add returns a new List with v appended.
func (l List) Add(v Value) List {
	if v == nil {
		v = Null{}
	}
	out := make([]Value, len(l.items), len(l.items)+1)
	copy(out, l.items)
	return List{items: append(out, v)}
}

// Concat returns a new List holding l's elements followed by o's.
func (l List) Concat(o List) List {
	out := make([]Value, 0, len(l.items)+len(o.items))
	out = append(out, l.items...)
	return List{items: append(out, o.items...)}
}

// Cdr drops the first element. The Cdr of an empty List is empty.
func (l List) Cdr() List {
	if len(l.items) <= 1 {
		return List{}
	}
	return NewList(l.items[1:]...)
}

// String renders the list as a bracketed, comma-separated sequence. String
// elements are quoted so the text parses back with FromString(ListKind, …).
func (l List) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, it := range l.items {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(elementText(it))
	}
	b.WriteByte(']')
	return b.String()
}

func (l List) IsEqualTo(x Value) bool {
	o, ok := x.(List)
	if !ok || len(o.items) != len(l.items) {
		return false
	}
	for i := range l.items {
		if !l.items[i].IsEqualTo(o.items[i]) {
			return false
		}
	}
	return true
}

// TypesEqual reports whether a and b are the same variant.
func TypesEqual(a, b Value) bool {
	return a.Kind() == b.Kind()
}

// Of normalizes a possibly-nil Value to Null.
func Of(v Value) Value {
	if v == nil {
		return Null{}
	}
	return v
}
