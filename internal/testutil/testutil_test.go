package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/vls/internal/graph"
)

func TestBuilderMarshalIsStable(t *testing.T) {
	build := func() []byte {
		b := NewBuilder(t)
		b.Print(b.Value(graph.KindString, "hi"))
		return b.Marshal()
	}

	first := build()
	second := build()
	assert.Equal(t, string(first), string(second))

	s, err := graph.Unmarshal(first)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Len())
}

func TestBuilderMarshalUsesSequentialIDs(t *testing.T) {
	b := NewBuilder(t)
	b.Print(b.Value(graph.KindString, "hi"))

	data := string(b.Marshal())
	assert.Contains(t, data, "00000000-0000-0000-0000-000000000001\n")
	assert.Contains(t, data, "00000000-0000-0000-0000-000000000002\n")
	assert.NotContains(t, data, "00000000-0000-0000-0000-000000000003\n", "only String and Print have server ports")
}
