package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogLists(t *testing.T) {
	stdout, _, err := execute(t, "", "catalog")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(stdout, "\n"), "\n")
	assert.Len(t, lines, 42)
	assert.True(t, strings.HasPrefix(lines[0], "Null"), lines[0])
	assert.Contains(t, stdout, "LTE          Operator  Less Or Equal\n")
}

func TestCatalogShowsOneKind(t *testing.T) {
	stdout, _, err := execute(t, "", "catalog", "Ask")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(stdout, "Ask (Ask, Action)\nReads a line from the console.\n"), stdout)
	assert.Contains(t, stdout, "Prompt (client): Written before reading unless null.")
	assert.Contains(t, stdout, "Answer (server): The line read, or null at end of input.")
}

func TestCatalogJSON(t *testing.T) {
	stdout, _, err := execute(t, "", "--format", "json", "catalog", "State")
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   []KindView `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	require.Len(t, resp.Data, 1)

	v := resp.Data[0]
	assert.Equal(t, "State", v.Tag)
	assert.Equal(t, "Patch", v.Family)
	assert.False(t, v.Settable)
	require.Len(t, v.Ports, 2)
	assert.Equal(t, "Set", v.Ports[0].Name)
	assert.Equal(t, "server", v.Ports[0].Direction)
}

func TestCatalogUnknownKind(t *testing.T) {
	stdout, _, err := execute(t, "", "catalog", "Frobnicate")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, "UNKNOWN_KIND")
}
