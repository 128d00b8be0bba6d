package graph

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/vls/internal/value"
)

func addBox(t *testing.T, s *Script, k Kind) *Box {
	t.Helper()
	b := NewBox(k)
	_, err := s.Add(b)
	require.NoError(t, err)
	return b
}

func literal(t *testing.T, s *Script, k Kind, text string) *Box {
	t.Helper()
	b := addBox(t, s, k)
	require.NoError(t, b.SetValueText(text))
	return b
}

func named(t *testing.T, s *Script, k Kind, name string) *Box {
	t.Helper()
	b := addBox(t, s, k)
	require.NoError(t, b.SetValueText(name))
	return b
}

// connect links client port in of to onto server port out of from.
func connect(t *testing.T, s *Script, to *Box, in string, from *Box, out string) {
	t.Helper()
	ci, ok := to.Port(in, Client)
	require.True(t, ok, "%s has no client port %q", to.Kind(), in)
	si, ok := from.Port(out, Server)
	require.True(t, ok, "%s has no server port %q", from.Kind(), out)
	require.NoError(t, s.Link(PortRef{Box: to.ID(), Port: ci}, PortRef{Box: from.ID(), Port: si}))
}

// feed links the single server port of from into client port in of to.
func feed(t *testing.T, s *Script, to *Box, in string, from *Box) {
	t.Helper()
	for _, n := range from.Nodes() {
		if n.IsServer() {
			connect(t, s, to, in, from, n.Name())
			return
		}
	}
	t.Fatalf("%s has no server port", from.Kind())
}

type testConsole struct {
	lines []string
	out   strings.Builder
}

func (c *testConsole) ReadLine() (string, bool, error) {
	if len(c.lines) == 0 {
		return "", false, nil
	}
	line := c.lines[0]
	c.lines = c.lines[1:]
	return line, true, nil
}

func (c *testConsole) Write(text string) error {
	c.out.WriteString(text)
	return nil
}

// runStarts triggers every Start box and returns the last result.
func runStarts(t *testing.T, s *Script, con Console) (value.Value, error) {
	t.Helper()
	ip := NewInterp(s, WithConsole(con))
	var last value.Value = value.Null{}
	for _, b := range s.Starts() {
		v, err := ip.Trigger(t.Context(), b.ID(), value.Null{})
		if err != nil {
			return nil, err
		}
		last = v
	}
	return last, nil
}
