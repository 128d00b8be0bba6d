package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, dir, yaml string) string {
	t.Helper()
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	return path
}

func TestLoadScenario(t *testing.T) {
	s := loadScenario(t, "greeting")

	assert.Equal(t, "greeting", s.Name)
	assert.Equal(t, filepath.Join(scenarioDir, "greet.vls"), s.Script)
	assert.Equal(t, []string{"Ada"}, s.Stdin)
	require.NotNil(t, s.Expect.Stdout)
	assert.Equal(t, "name? Hi Ada\n", *s.Expect.Stdout)
	require.NotNil(t, s.Expect.Triggered)
	assert.Equal(t, 1, *s.Expect.Triggered)
	assert.Len(t, s.Assertions, 3)
	assert.Nil(t, s.EchoPrompts)
}

func TestLoadScenarioErrors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "s.vls"), []byte("0\n"), 0o644))

	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown field", "name: a\ndescription: b\nscript: s.vls\nassertion: []\n", "field assertion not found"},
		{"missing name", "description: b\nscript: s.vls\n", "name is required"},
		{"missing description", "name: a\nscript: s.vls\n", "description is required"},
		{"missing script", "name: a\ndescription: b\n", "script is required"},
		{"script not found", "name: a\ndescription: b\nscript: nope.vls\n", "script file not found"},
		{"negative triggered", "name: a\ndescription: b\nscript: s.vls\nexpect:\n  triggered: -1\n", "must be non-negative"},
		{"empty text", "name: a\ndescription: b\nscript: s.vls\nassertions:\n  - type: output_contains\n", "text is required"},
		{"empty lines", "name: a\ndescription: b\nscript: s.vls\nassertions:\n  - type: output_order\n", "lines list is required"},
		{"bad stream", "name: a\ndescription: b\nscript: s.vls\nassertions:\n  - type: event_count\n    stream: err\n", "stream must be out, in or prompt"},
		{"unknown type", "name: a\ndescription: b\nscript: s.vls\nassertions:\n  - type: trace_contains\n", "unknown assertion type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, dir, tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadScenarioMissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenarioEmptyScript(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "s.vls"), []byte("0\n"), 0o644))
	path := writeScenario(t, dir, "name: empty\ndescription: no boxes\nscript: s.vls\nexpect:\n  stdout: \"\"\n  triggered: 0\n")

	s, err := LoadScenario(path)
	require.NoError(t, err)

	result, err := Run(t.Context(), s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Empty(t, result.Trace)
}
