package harness

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/vls/internal/value"
)

// TraceSnapshot captures the observable outcome of a scenario run.
// It is serialized as canonical JSON for deterministic comparison.
type TraceSnapshot struct {
	ScenarioName string       `json:"scenario_name"`
	RunID        string       `json:"run_id"`
	ErrorCode    string       `json:"error_code,omitempty"`
	Triggered    int          `json:"triggered"`
	Trace        []TraceEvent `json:"trace"`
}

// Snapshot builds the golden snapshot of a result.
func Snapshot(name string, result *Result) TraceSnapshot {
	return TraceSnapshot{
		ScenarioName: name,
		RunID:        RunID,
		ErrorCode:    result.ErrorCode,
		Triggered:    result.Triggered,
		Trace:        result.Trace,
	}
}

// toCanonicalMap converts a TraceSnapshot to a map for canonical JSON.
// value.MarshalCanonical only handles plain maps, slices and scalars.
func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	trace := make([]any, len(s.Trace))
	for i, ev := range s.Trace {
		trace[i] = map[string]any{
			"seq":    ev.Seq,
			"stream": ev.Stream,
			"box":    ev.Box,
			"text":   ev.Text,
		}
	}

	m := map[string]any{
		"scenario_name": s.ScenarioName,
		"run_id":        s.RunID,
		"triggered":     s.Triggered,
		"trace":         trace,
	}
	if s.ErrorCode != "" {
		m["error_code"] = s.ErrorCode
	}
	return m
}

// Marshal returns the snapshot as canonical JSON.
func (s *TraceSnapshot) Marshal() ([]byte, error) {
	return value.MarshalCanonical(s.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns the result so callers can also check Pass.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(context.Background(), scenario)
	if err != nil {
		return nil, err
	}

	snapshot := Snapshot(scenario.Name, result)
	data, err := snapshot.Marshal()
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)

	return result, nil
}

// GoldenMismatchError reports a snapshot that differs from its golden file.
type GoldenMismatchError struct {
	Path     string
	Expected []byte
	Actual   []byte
}

func (e *GoldenMismatchError) Error() string {
	return fmt.Sprintf("snapshot differs from %s\n  expected: %s\n  actual:   %s", e.Path, e.Expected, e.Actual)
}

// CheckGolden compares the snapshot of result with {dir}/{name}.golden.
// With update set, the golden file is written instead. A missing golden
// file is an error unless updating.
func CheckGolden(dir, name string, result *Result, update bool) error {
	snapshot := Snapshot(name, result)
	data, err := snapshot.Marshal()
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	path := filepath.Join(dir, name+".golden")
	if update {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		return os.WriteFile(path, data, 0o644)
	}

	want, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("golden file %s not found (run with --update to create it)", path)
	}
	if err != nil {
		return err
	}
	if !bytes.Equal(want, data) {
		return &GoldenMismatchError{Path: path, Expected: want, Actual: data}
	}
	return nil
}
