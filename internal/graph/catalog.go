package graph

import (
	"strings"

	"github.com/roach88/vls/internal/value"
)

// Kind identifies a box operator. The set is closed.
type Kind int

const (
	KindInvalid Kind = iota

	// Value family
	KindNull
	KindInteger
	KindDouble
	KindString
	KindTrue
	KindFalse
	KindList
	KindRandom

	// Operator family
	KindAdd
	KindSubtract
	KindMultiply
	KindDivide
	KindRemainder
	KindNegate
	KindLength
	KindToNumber
	KindToString
	KindConcat
	KindSubstring
	KindListAdd
	KindListConcat
	KindListIndex
	KindListCdr
	KindLessThan
	KindLessOrEqual
	KindAnd
	KindOr
	KindNot
	KindEqual
	KindTypesEqual

	// Branch family
	KindIf
	KindWhile

	// Event family
	KindStart
	KindSubroutine

	// Action family
	KindPrint
	KindWrite
	KindAsk

	// Patch family
	KindCall
	KindCallValue
	KindState
	KindSequence
	KindInvoke

	kindCount
)

// Family groups kinds sharing an evaluation contract.
type Family int

const (
	FamilyValue Family = iota
	FamilyOperator
	FamilyBranch
	FamilyEvent
	FamilyAction
	FamilyPatch
)

func (f Family) String() string {
	switch f {
	case FamilyValue:
		return "Value"
	case FamilyOperator:
		return "Operator"
	case FamilyBranch:
		return "Branch"
	case FamilyEvent:
		return "Event"
	case FamilyAction:
		return "Action"
	case FamilyPatch:
		return "Patch"
	default:
		return "Unknown"
	}
}

// Color is the visual category an editor draws a box with.
type Color string

// Color returns the family's color.
func (f Family) Color() Color {
	switch f {
	case FamilyValue:
		return "Cyan"
	case FamilyOperator:
		return "DeepSkyBlue"
	case FamilyBranch:
		return "Orange"
	case FamilyEvent:
		return "LimeGreen"
	case FamilyAction:
		return "Gold"
	case FamilyPatch:
		return "Violet"
	default:
		return "Gray"
	}
}

// Help is the title and body of a help page.
type Help struct {
	Title   string
	Content string
}

type portSpec struct {
	name string
	desc string
	dir  Direction
}

func input(name, desc string) portSpec { return portSpec{name: name, desc: desc, dir: Client} }
func output(name, desc string) portSpec { return portSpec{name: name, desc: desc, dir: Server} }

type kindInfo struct {
	tag     string // serialization tag
	title   string
	family  Family
	about   string
	ports   []portSpec
	literal value.Value // initial literal, value family only
	fixed   bool        // literal cannot be changed
	named   bool        // carries a settable name
}

var catalog = buildCatalog()

func kind(tag, title string, f Family, about string, ports ...portSpec) kindInfo {
	return kindInfo{tag: tag, title: title, family: f, about: about, ports: ports}
}

func literalKind(tag, about string, lit value.Value, fixed bool, portDesc string) kindInfo {
	s := kind(tag, tag, FamilyValue, about, output("Value", portDesc))
	s.literal = lit
	s.fixed = fixed
	return s
}

func namedKind(s kindInfo) kindInfo {
	s.named = true
	return s
}

func buildCatalog() (c [kindCount]kindInfo) {
	c[KindInvalid] = kind("Invalid", "Invalid", FamilyPatch, "Not a box kind.")

	c[KindNull] = literalKind("Null", "Produces the empty value.", value.Null{}, true, "Always null.")
	c[KindInteger] = literalKind("Integer", "Produces a 32-bit integer literal.", value.Integer(0), false, "The stored integer.")
	c[KindDouble] = literalKind("Double", "Produces a floating point literal.", value.Double(0), false, "The stored double.")
	c[KindString] = literalKind("String", "Produces a text literal.", value.String(""), false, "The stored text.")
	c[KindTrue] = literalKind("True", "Produces true.", value.Bool(true), true, "Always true.")
	c[KindFalse] = literalKind("False", "Produces false.", value.Bool(false), true, "Always false.")
	c[KindList] = literalKind("List", "Produces a list literal, empty by default.", value.NewList(), false, "The stored list.")
	c[KindRandom] = kind("Random", "Random", FamilyValue, "Produces a fresh double in [0, 1) on every pull.",
		output("Value", "A new random double."))

	c[KindAdd] = kind("Add", "Add", FamilyOperator, "Adds two numbers.",
		input("A", "First number."), input("B", "Second number."), output("Sum", "A + B."))
	c[KindSubtract] = kind("Subtract", "Subtract", FamilyOperator, "Subtracts one number from another.",
		input("A", "Number to subtract from."), input("B", "Number to subtract."), output("Difference", "A - B."))
	c[KindMultiply] = kind("Multiply", "Multiply", FamilyOperator, "Multiplies two numbers.",
		input("A", "First number."), input("B", "Second number."), output("Product", "A * B."))
	c[KindDivide] = kind("Divide", "Divide", FamilyOperator, "Divides two numbers. Inexact integer division produces a double.",
		input("A", "Dividend."), input("B", "Divisor."), output("Quotient", "A / B."))
	c[KindRemainder] = kind("Remainder", "Remainder", FamilyOperator, "Remainder of a division, with the sign of the dividend.",
		input("A", "Dividend."), input("B", "Divisor."), output("Remainder", "A mod B."))
	c[KindNegate] = kind("Negate", "Negate", FamilyOperator, "Flips the sign of a number.",
		input("A", "Number."), output("Negation", "-A."))
	c[KindLength] = kind("Length", "Length", FamilyOperator, "Length of a string or list. Scalars have length 0.",
		input("Value", "Any value."), output("Length", "Character or element count."))
	c[KindToNumber] = kind("ToNumber", "To Number", FamilyOperator, "Parses text as an integer, or as a double if that fails.",
		input("Text", "String to parse."), output("Number", "The parsed number."))
	c[KindToString] = kind("ToString", "To String", FamilyOperator, "Text representation of any value.",
		input("Value", "Any value."), output("Text", "The value as text."))
	c[KindConcat] = kind("Concat", "Concat", FamilyOperator, "Joins two strings.",
		input("A", "First string."), input("B", "Second string."), output("Joined", "A followed by B."))
	c[KindSubstring] = kind("Substring", "Substring", FamilyOperator, "Slice of a string by character position, clamped to its bounds.",
		input("String", "Source text."), input("Start", "First character index."), input("Length", "Number of characters."),
		output("Substring", "The slice."))
	c[KindListAdd] = kind("ListAdd", "List Add", FamilyOperator, "Appends a value to a list.",
		input("List", "Source list."), input("Value", "Element to append."), output("List", "A new list."))
	c[KindListConcat] = kind("ListConcat", "List Concat", FamilyOperator, "Joins two lists.",
		input("A", "First list."), input("B", "Second list."), output("List", "A followed by B."))
	c[KindListIndex] = kind("ListIndex", "List Index", FamilyOperator, "Element at an integer index. Out of range gives null.",
		input("List", "Source list."), input("Index", "Zero-based integer index."), output("Element", "The element."))
	c[KindListCdr] = kind("ListCdr", "List Cdr", FamilyOperator, "A list without its first element.",
		input("List", "Source list."), output("Rest", "Every element after the first."))
	c[KindLessThan] = kind("LT", "Less Than", FamilyOperator, "Compares two numbers.",
		input("A", "Left number."), input("B", "Right number."), output("Result", "A < B."))
	c[KindLessOrEqual] = kind("LTE", "Less Or Equal", FamilyOperator, "Compares two numbers.",
		input("A", "Left number."), input("B", "Right number."), output("Result", "A <= B."))
	c[KindAnd] = kind("And", "And", FamilyOperator, "Logical conjunction. Both inputs are always pulled.",
		input("A", "First bool."), input("B", "Second bool."), output("Result", "A and B."))
	c[KindOr] = kind("Or", "Or", FamilyOperator, "Logical disjunction. Both inputs are always pulled.",
		input("A", "First bool."), input("B", "Second bool."), output("Result", "A or B."))
	c[KindNot] = kind("Not", "Not", FamilyOperator, "Logical negation.",
		input("A", "A bool."), output("Result", "not A."))
	c[KindEqual] = kind("Equal", "Equal", FamilyOperator, "Value equality. Integers and doubles compare numerically.",
		input("A", "Any value."), input("B", "Any value."), output("Result", "A equals B."))
	c[KindTypesEqual] = kind("TypesEqual", "Types Equal", FamilyOperator, "Whether two values are the same variant.",
		input("A", "Any value."), input("B", "Any value."), output("Result", "A and B share a type."))

	c[KindIf] = kind("If", "If", FamilyBranch, "Pulls the condition, then only the chosen branch.",
		input("Condition", "A bool."), input("Then", "Pulled when the condition is true."),
		input("Else", "Pulled when the condition is false."), output("Result", "The chosen branch's value."))
	c[KindWhile] = kind("While", "While", FamilyBranch, "Pulls the body for as long as the condition is true.",
		input("Condition", "Re-pulled before every iteration."), input("Body", "Pulled once per iteration."),
		output("Result", "The last body value, or null if the body never ran."))

	c[KindStart] = kind("Start", "Start", FamilyEvent, "Entry point. Every Start box is triggered when the script runs.",
		input("Event", "Pulled when the script runs."))
	c[KindSubroutine] = namedKind(kind("Subroutine", "Subroutine", FamilyEvent, "A named body that Invoke boxes call by name.",
		input("Event", "Pulled when invoked, under the caller's call argument.")))

	c[KindPrint] = kind("Print", "Print", FamilyAction, "Writes a value and a newline to the console.",
		input("Value", "Value to print."), output("Echo", "The printed value."))
	c[KindWrite] = kind("Write", "Write", FamilyAction, "Writes a value to the console without a newline.",
		input("Value", "Value to write."), output("Echo", "The written value."))
	c[KindAsk] = kind("Ask", "Ask", FamilyAction, "Reads a line from the console.",
		input("Prompt", "Written before reading unless null."), output("Answer", "The line read, or null at end of input."))

	c[KindCall] = kind("Call", "Call", FamilyPatch, "Pulls the target with the argument as the call argument.",
		input("Target", "Pulled under the new call argument."), input("Argument", "Pulled under the current call argument."),
		output("Result", "The target's value."))
	c[KindCallValue] = kind("CallValue", "Call Value", FamilyPatch, "The call argument currently in effect.",
		output("Value", "The current call argument."))
	c[KindState] = kind("State", "State", FamilyPatch, "A private memory cell.",
		output("Set", "Stores the call argument and returns it."), output("Get", "Returns the stored value, null initially."))
	c[KindSequence] = kind("Sequence", "Sequence", FamilyPatch, "Pulls the first input for its effects, then returns the second.",
		input("Discard", "Pulled first, result dropped."), input("Return", "Pulled second."), output("Result", "The second input's value."))
	c[KindInvoke] = namedKind(kind("Invoke", "Invoke", FamilyPatch, "Triggers the first Subroutine whose name matches.",
		output("Result", "The subroutine body's value.")))
	return c
}

var kindsByTag = func() map[string]Kind {
	m := make(map[string]Kind, kindCount)
	for k := KindNull; k < kindCount; k++ {
		m[catalog[k].tag] = k
	}
	return m
}()

// Kinds returns every valid kind in catalog order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount-1)
	for k := KindNull; k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// KindByTag looks up a kind by its serialization tag.
func KindByTag(tag string) (Kind, bool) {
	k, ok := kindsByTag[tag]
	return k, ok
}

// Valid reports whether k names a catalog entry.
func (k Kind) Valid() bool { return k > KindInvalid && k < kindCount }

func (k Kind) info() *kindInfo {
	if !k.Valid() {
		return &catalog[KindInvalid]
	}
	return &catalog[k]
}

// String returns the serialization tag.
func (k Kind) String() string {
	if !k.Valid() {
		return "Invalid"
	}
	return catalog[k].tag
}

func (k Kind) Title() string { return k.info().title }
func (k Kind) Family() Family { return k.info().family }
func (k Kind) Color() Color { return k.info().family.Color() }
func (k Kind) IsEvent() bool { return k.Valid() && k.Family() == FamilyEvent }
func (k Kind) Settable() bool { return k.info().named || (k.info().literal != nil && !k.info().fixed) }
func (k Kind) HasName() bool { return k.info().named }
func (k Kind) HasLiteral() bool { return k.info().literal != nil }

// Help describes the kind and each of its ports.
func (k Kind) Help() Help {
	s := k.info()
	var b strings.Builder
	b.WriteString(s.about)
	for _, p := range s.ports {
		b.WriteString("\n")
		b.WriteString(p.name)
		b.WriteString(" (")
		b.WriteString(p.dir.String())
		b.WriteString("): ")
		b.WriteString(p.desc)
	}
	return Help{Title: s.title, Content: b.String()}
}
