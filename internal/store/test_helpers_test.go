package store

import (
	"context"
	"testing"
)

// createTestStore opens an in-memory journal closed at test end.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun inserts a run with minimal required fields.
func createTestRun(t *testing.T, s *Store, id string) Run {
	t.Helper()
	run := Run{
		ID:            id,
		ScriptPath:    "scripts/" + id + ".vls",
		ScriptHash:    "hash-" + id,
		FormatVersion: "1",
		EngineVersion: "0.1.0",
		RandomSeed:    7,
	}
	if err := s.BeginRun(context.Background(), run); err != nil {
		t.Fatalf("BeginRun(%s) failed: %v", id, err)
	}
	return run
}
