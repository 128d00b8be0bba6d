package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// NotFoundError reports a run id with no journal record.
type NotFoundError struct {
	RunID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("run %s not found", e.RunID)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// ReadRun returns the run record for id.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, script_path, script_hash, format_version, engine_version,
		       random_seed, status, error_code, error_message, events
		FROM runs
		WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, &NotFoundError{RunID: id}
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run: %w", err)
	}
	return run, nil
}

// ListRuns returns every run, oldest first. Run ids are UUIDv7, so
// ordering by id is ordering by creation time.
//
// Returns an empty slice (not nil) for an empty journal.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, script_path, script_hash, format_version, engine_version,
		       random_seed, status, error_code, error_message, events
		FROM runs
		ORDER BY id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadTranscript returns the transcript of a run ordered by seq.
//
// Returns an empty slice (not nil) when the run has no events.
func (s *Store) ReadTranscript(ctx context.Context, runID string) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, seq, stream, box_id, text
		FROM transcript
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query transcript: %w", err)
	}
	defer rows.Close()

	events := []Event{}
	for rows.Next() {
		var ev Event
		var stream string
		if err := rows.Scan(&ev.RunID, &ev.Seq, &stream, &ev.BoxID, &ev.Text); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.Stream = Stream(stream)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transcript: %w", err)
	}
	return events, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var run Run
	var seed int64
	var status string
	err := sc.Scan(
		&run.ID,
		&run.ScriptPath,
		&run.ScriptHash,
		&run.FormatVersion,
		&run.EngineVersion,
		&seed,
		&status,
		&run.ErrorCode,
		&run.ErrorMessage,
		&run.Events,
	)
	if err != nil {
		return Run{}, err
	}
	run.RandomSeed = uint64(seed)
	run.Status = Status(status)
	return run, nil
}
