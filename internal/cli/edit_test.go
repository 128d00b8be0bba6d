package cli

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/vls/internal/graph"
)

func TestEditBuildsRunsAndSaves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hello.vls")
	session := strings.Join([]string{
		"add Start",
		"add Print",
		"add String",
		"set 3 hello world",
		"link 1.Event 2.Echo",
		"link 2.Value 3.Value",
		"run",
		"save",
		"quit",
	}, "\n") + "\n"

	stdout, _, err := execute(t, session, "edit", "--prompt", "", path)
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n3\nhello world\n", stdout)

	assert.Equal(t, []graph.Kind{graph.KindStart, graph.KindPrint, graph.KindString}, loadKinds(t, path))

	stdout, _, err = execute(t, "", "run", path)
	require.NoError(t, err)
	assert.Equal(t, "hello world\n", stdout)
}

func TestEditReportsCommandErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.vls")

	stdout, _, err := execute(t, "frobnicate\nrm 9\n", "edit", "--prompt", "", path)
	require.NoError(t, err, "command errors do not end the session")
	assert.Contains(t, stdout, `error: unknown command "frobnicate"`)
	assert.Equal(t, 2, strings.Count(stdout, "error: "))
}

func TestEditOpensBrokenFileEmpty(t *testing.T) {
	path := copyScript(t, "broken.vls")

	stdout, stderr, err := execute(t, "ls\ncheck\n", "edit", "--prompt", "", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "warning: script has no Start box")
	assert.Contains(t, stderr, "cannot parse script")
}

func TestEditAskReadsSameInput(t *testing.T) {
	path := copyScript(t, "greet.vls")

	stdout, _, err := execute(t, "run\nAda\nquit\n", "edit", "--prompt", "", path)
	require.NoError(t, err)
	assert.Equal(t, "name? Hi Ada\n", stdout)
}

func TestEditFlushesPartialLineAfterCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tail.vls")
	session := strings.Join([]string{
		"add Start",
		"add Write",
		"add String",
		"set 3 tail",
		"link 1.Event 2.Echo",
		"link 2.Value 3.Value",
		"run",
		"ls",
		"quit",
	}, "\n") + "\n"

	stdout, _, err := execute(t, session, "edit", "--prompt", "", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "1\n2\n3\ntail1\tStart"), stdout)
}

func TestEditUndoRedo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "undo.vls")

	stdout, _, err := execute(t, "add Start\nadd Print\nundo\nsave\nredo\nredo\nquit\n", "edit", "--prompt", "", path)
	require.NoError(t, err)
	assert.Equal(t, "1\n2\nerror: nothing to redo\n", stdout)
	assert.Equal(t, []graph.Kind{graph.KindStart}, loadKinds(t, path))
}

func TestEditPipedInputKeepsNoHistory(t *testing.T) {
	dir := t.TempDir()
	hist := filepath.Join(dir, "history")

	_, _, err := execute(t, "ls\n", "edit", "--prompt", "", "--history", hist, filepath.Join(dir, "x.vls"))
	require.NoError(t, err)
	assert.NoFileExists(t, hist)
}
