package store

import (
	"context"
	"fmt"
)

// BeginRun inserts a run record with status running.
// A second BeginRun with the same ID is an error: run ids are never reused.
func (s *Store) BeginRun(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs
		(id, script_path, script_hash, format_version, engine_version, random_seed, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.ScriptPath,
		run.ScriptHash,
		run.FormatVersion,
		run.EngineVersion,
		int64(run.RandomSeed),
		string(StatusRunning),
	)
	if err != nil {
		return fmt.Errorf("begin run: %w", err)
	}
	return nil
}

// RecordEvent appends a transcript line.
// Uses ON CONFLICT DO NOTHING so re-recording the same (run_id, seq) is a no-op.
// The run referenced by RunID must exist (foreign key constraint).
func (s *Store) RecordEvent(ctx context.Context, ev Event) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transcript (run_id, seq, stream, box_id, text)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(run_id, seq) DO NOTHING
	`,
		ev.RunID,
		ev.Seq,
		string(ev.Stream),
		ev.BoxID,
		ev.Text,
	)
	if err != nil {
		return fmt.Errorf("record event: %w", err)
	}
	return nil
}

// FinishRun stores the final status of a run along with its error, if any,
// and the number of transcript events.
func (s *Store) FinishRun(ctx context.Context, id string, status Status, code, message string) error {
	if status == StatusRunning {
		return fmt.Errorf("finish run %s: status %q is not final", id, status)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE runs
		SET status = ?, error_code = ?, error_message = ?,
		    events = (SELECT COUNT(*) FROM transcript WHERE run_id = ?)
		WHERE id = ?
	`, string(status), code, message, id, id)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("finish run: %w", &NotFoundError{RunID: id})
	}
	return nil
}
