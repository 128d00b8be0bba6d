package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/vls/internal/graph"
)

// Builder assembles scripts in tests, failing the test on any error.
type Builder struct {
	t      testing.TB
	script *graph.Script
}

// NewBuilder starts an empty script.
func NewBuilder(t testing.TB) *Builder {
	return &Builder{t: t, script: graph.NewScript()}
}

// Script returns the script built so far.
func (b *Builder) Script() *graph.Script {
	return b.script
}

// Box adds a box of kind k.
func (b *Builder) Box(k graph.Kind) *graph.Box {
	b.t.Helper()
	box := graph.NewBox(k)
	_, err := b.script.Add(box)
	require.NoError(b.t, err)
	return box
}

// Value adds a settable box and sets its literal or name from text.
func (b *Builder) Value(k graph.Kind, text string) *graph.Box {
	b.t.Helper()
	box := b.Box(k)
	require.NoError(b.t, box.SetValueText(text))
	return box
}

// Connect links client port in of to onto server port out of from.
func (b *Builder) Connect(to *graph.Box, in string, from *graph.Box, out string) {
	b.t.Helper()
	ci, ok := to.Port(in, graph.Client)
	require.True(b.t, ok, "%s has no client port %q", to.Kind(), in)
	si, ok := from.Port(out, graph.Server)
	require.True(b.t, ok, "%s has no server port %q", from.Kind(), out)
	require.NoError(b.t, b.script.Link(
		graph.PortRef{Box: to.ID(), Port: ci},
		graph.PortRef{Box: from.ID(), Port: si},
	))
}

// Feed links the first server port of from into client port in of to.
func (b *Builder) Feed(to *graph.Box, in string, from *graph.Box) {
	b.t.Helper()
	for _, n := range from.Nodes() {
		if n.IsServer() {
			b.Connect(to, in, from, n.Name())
			return
		}
	}
	b.t.Fatalf("%s has no server port", from.Kind())
}

// Print adds Start -> Print(src) and returns the Print box.
func (b *Builder) Print(src *graph.Box) *graph.Box {
	b.t.Helper()
	start := b.Box(graph.KindStart)
	pr := b.Box(graph.KindPrint)
	b.Feed(start, "Event", pr)
	b.Feed(pr, "Value", src)
	return pr
}

// Marshal serializes the script with sequential server ids, so equal
// scripts give equal bytes.
func (b *Builder) Marshal() []byte {
	b.t.Helper()
	data, err := graph.Marshal(b.script, graph.WithSequentialIDs())
	require.NoError(b.t, err)
	return data
}
