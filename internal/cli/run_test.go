package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunPrintsOutput(t *testing.T) {
	path := copyScript(t, "greet.vls")

	stdout, _, err := execute(t, "Ada\n", "run", path)
	require.NoError(t, err)
	assert.Equal(t, "name? Hi Ada\n", stdout)
}

func TestRunNoEcho(t *testing.T) {
	path := copyScript(t, "greet.vls")

	stdout, _, err := execute(t, "Ada\n", "run", "--no-echo", path)
	require.NoError(t, err)
	assert.Equal(t, "Hi Ada\n", stdout)
}

func TestRunScriptFailure(t *testing.T) {
	path := copyScript(t, "missing.vls")

	stdout, _, err := execute(t, "", "run", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "UNRESOLVED_PORTAL")
	assert.Empty(t, stdout)
}

func TestRunLoadFailure(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{"unknown tag", func(t *testing.T) string { return copyScript(t, "broken.vls") }},
		{"missing file", func(t *testing.T) string { return filepath.Join(t.TempDir(), "absent.vls") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, "", "run", tt.path(t))
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, err.Error(), "failed to load script")
		})
	}
}

func TestRunReadsConfigFile(t *testing.T) {
	path := copyScript(t, "greet.vls")
	cfg := filepath.Join(filepath.Dir(path), "vls.cue")
	require.NoError(t, os.WriteFile(cfg, []byte("echo_prompts: false\n"), 0o644))

	stdout, _, err := execute(t, "Ada\n", "run", path)
	require.NoError(t, err)
	assert.Equal(t, "Hi Ada\n", stdout)

	// A flag the user sets wins over the file.
	stdout, _, err = execute(t, "Ada\n", "run", "--no-echo=false", path)
	require.NoError(t, err)
	assert.Equal(t, "name? Hi Ada\n", stdout)
}

func TestRunExplicitConfig(t *testing.T) {
	path := copyScript(t, "greet.vls")
	cfg := filepath.Join(t.TempDir(), "quiet.cue")
	require.NoError(t, os.WriteFile(cfg, []byte("echo_prompts: false\n"), 0o644))

	stdout, _, err := execute(t, "Ada\n", "run", "--config", cfg, path)
	require.NoError(t, err)
	assert.Equal(t, "Hi Ada\n", stdout)
}

func TestRunInvalidConfig(t *testing.T) {
	path := copyScript(t, "greet.vls")
	cfg := filepath.Join(filepath.Dir(path), "vls.cue")
	require.NoError(t, os.WriteFile(cfg, []byte("echo_prompt: false\n"), 0o644))

	_, _, err := execute(t, "Ada\n", "run", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestRunJSONSummary(t *testing.T) {
	path := copyScript(t, "portal.vls")

	stdout, _, err := execute(t, "", "--format", "json", "run", "--seed", "9", path)
	require.NoError(t, err)

	output, summary, found := strings.Cut(stdout, "from sub\n")
	require.True(t, found)
	assert.Equal(t, "first\n", output)

	var resp struct {
		Status string     `json:"status"`
		Data   RunSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(summary), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, uint64(9), resp.Data.Seed)
	assert.Equal(t, 2, resp.Data.Triggered)
	assert.Equal(t, "from sub", resp.Data.Result)
}

func TestRunVerboseLogsToStderr(t *testing.T) {
	path := copyScript(t, "portal.vls")

	stdout, stderr, err := execute(t, "", "-v", "run", path)
	require.NoError(t, err)
	assert.Equal(t, "first\nfrom sub\n", stdout)
	assert.Contains(t, stderr, "run starting")
	assert.Contains(t, stderr, "triggering start")
}
