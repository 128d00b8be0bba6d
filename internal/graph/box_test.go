package graph

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/vls/internal/value"
)

func TestCatalogIsComplete(t *testing.T) {
	kinds := Kinds()
	assert.Len(t, kinds, 42)

	tags := make(map[string]bool)
	for _, k := range kinds {
		tag := k.String()
		assert.False(t, tags[tag], "duplicate tag %s", tag)
		tags[tag] = true

		back, ok := KindByTag(tag)
		require.True(t, ok, tag)
		assert.Equal(t, k, back)

		assert.NotEmpty(t, k.Title())
		assert.NotEqual(t, Color("Gray"), k.Color(), tag)

		b := NewBox(k)
		assert.NotEmpty(t, b.Nodes(), "%s has ports", tag)
		help := b.Help()
		assert.Equal(t, k.Title(), help.Title)
		for _, n := range b.Nodes() {
			assert.NotEmpty(t, n.Description())
			assert.Contains(t, help.Content, n.Name())
		}
	}

	_, ok := KindByTag("Invalid")
	assert.False(t, ok)
	assert.False(t, KindInvalid.Valid())
}

func TestFamilyPortShapes(t *testing.T) {
	for _, k := range Kinds() {
		var clients, servers int
		for _, n := range NewBox(k).Nodes() {
			if n.IsClient() {
				clients++
			} else {
				servers++
			}
		}

		switch k.Family() {
		case FamilyValue:
			assert.Equal(t, 0, clients, k.String())
			assert.Equal(t, 1, servers, k.String())
		case FamilyOperator, FamilyBranch:
			assert.Positive(t, clients, k.String())
			assert.Equal(t, 1, servers, k.String())
		case FamilyEvent:
			assert.Equal(t, 1, clients, k.String())
			assert.Equal(t, 0, servers, k.String())
		case FamilyAction:
			assert.Equal(t, 1, clients, k.String())
			assert.Equal(t, 1, servers, k.String())
		}
	}
}

func TestNewBoxHasFreshServerIDs(t *testing.T) {
	a := NewBox(KindState)
	b := NewBox(KindState)

	ids := map[uuid.UUID]bool{}
	for _, box := range []*Box{a, b} {
		for _, n := range box.Nodes() {
			require.True(t, n.IsServer())
			assert.NotEqual(t, uuid.Nil, n.ID())
			assert.False(t, ids[n.ID()])
			ids[n.ID()] = true
		}
	}
}

func TestCreateByTag(t *testing.T) {
	b, err := Create("LTE")
	require.NoError(t, err)
	assert.Equal(t, KindLessOrEqual, b.Kind())
	assert.True(t, b.Mutable())

	_, err = Create("Nope")
	assert.Error(t, err)

	assert.Panics(t, func() { NewBox(Kind(999)) })
}

func TestSetValueText(t *testing.T) {
	b := NewBox(KindInteger)
	require.NoError(t, b.SetValueText("42"))
	assert.Equal(t, value.Integer(42), b.Literal())

	err := b.SetValueText("4.5")
	require.Error(t, err)
	assert.True(t, value.IsParseError(err))
	assert.Equal(t, value.Integer(42), b.Literal(), "unchanged on failure")

	text, ok := b.ValueText()
	assert.True(t, ok)
	assert.Equal(t, "42", text)

	sub := NewBox(KindSubroutine)
	require.NoError(t, sub.SetValueText("Main Loop"))
	assert.Equal(t, "Main Loop", sub.PortalName())

	assert.ErrorIs(t, sub.SetValueText("two\nlines"), ErrMultiline)
	assert.ErrorIs(t, b.SetValueText("4\r"), ErrMultiline)
	assert.Equal(t, "Main Loop", sub.PortalName(), "unchanged after a multi-line value")

	_, ok = NewBox(KindAdd).ValueText()
	assert.False(t, ok)
	assert.ErrorIs(t, NewBox(KindAdd).SetValueText("1"), ErrNotSettable)
	assert.ErrorIs(t, NewBox(KindTrue).SetValueText("false"), ErrNotSettable)
}

func TestImmutableBoxes(t *testing.T) {
	b := NewBox(KindString)
	b.SetPosition(1, 2)
	b.SetMutable(false)

	assert.False(t, b.SetPosition(5, 5))
	assert.Equal(t, 1.0, b.X())
	assert.Equal(t, 2.0, b.Y())
	assert.ErrorIs(t, b.SetValueText("x"), ErrImmutable)
}

func TestCloneIsIndependent(t *testing.T) {
	s := NewScript()
	src := literal(t, s, KindString, "abc")
	src.SetPosition(3, 4)
	pr := addBox(t, s, KindPrint)
	feed(t, s, pr, "Value", src)
	pr.SetMutable(false)

	c := pr.Clone()
	assert.True(t, c.Mutable(), "clones of templates are editable")
	assert.Equal(t, BoxID(0), c.ID())
	n, _ := c.Node(0)
	_, linked := n.Link()
	assert.False(t, linked, "clone has fresh unlinked nodes")

	orig, _ := pr.Node(1)
	cloned, _ := c.Node(1)
	assert.NotEqual(t, orig.ID(), cloned.ID())

	lc := src.Clone()
	assert.Equal(t, value.String("abc"), lc.Literal())
	assert.Equal(t, 3.0, lc.X())
	require.NoError(t, lc.SetValueText("changed"))
	assert.Equal(t, value.String("abc"), src.Literal())
}
