package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/vls/internal/graph"
)

// RunError is a fatal error that ended a run.
//
// Run errors include:
//   - Load failures: the script file is unreadable or malformed
//   - Evaluation failures: a box raised a cast, parse, portal or I/O error
//   - Cancellation: the context was canceled between or inside Start boxes
//   - Journal failures: the run journal could not be written
//
// Err holds the underlying cause for errors.As/Is.
type RunError struct {
	// Code identifies the error category.
	Code RunErrorCode

	// Message is a human-readable description.
	Message string

	// RunID identifies the affected run, if one was started.
	RunID string

	// BoxID identifies the Start box being triggered, if any.
	BoxID graph.BoxID

	// Err is the wrapped cause.
	Err error
}

// RunErrorCode categorizes run errors.
type RunErrorCode string

const (
	// ErrCodeLoadFailed indicates the script could not be read or parsed.
	ErrCodeLoadFailed RunErrorCode = "LOAD_FAILED"

	// ErrCodeEvalFailed indicates a box evaluation failed.
	ErrCodeEvalFailed RunErrorCode = "EVAL_FAILED"

	// ErrCodeCanceled indicates the run's context ended.
	ErrCodeCanceled RunErrorCode = "CANCELED"

	// ErrCodeJournalFailed indicates the run journal rejected a write.
	ErrCodeJournalFailed RunErrorCode = "JOURNAL_FAILED"
)

// Error implements the error interface.
func (e *RunError) Error() string {
	if e.RunID != "" && e.BoxID != 0 {
		return fmt.Sprintf("%s: %s (run=%s, start=%d)", e.Code, e.Message, e.RunID, e.BoxID)
	}
	if e.RunID != "" {
		return fmt.Sprintf("%s: %s (run=%s)", e.Code, e.Message, e.RunID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// IsLoadError returns true if the error is a script load failure.
// Uses errors.As to handle wrapped errors.
func IsLoadError(err error) bool {
	return hasCode(err, ErrCodeLoadFailed)
}

// IsEvalError returns true if a box evaluation ended the run.
func IsEvalError(err error) bool {
	return hasCode(err, ErrCodeEvalFailed)
}

// IsCanceled returns true if the run was canceled.
func IsCanceled(err error) bool {
	return hasCode(err, ErrCodeCanceled)
}

// IsJournalError returns true if the journal failed.
func IsJournalError(err error) bool {
	return hasCode(err, ErrCodeJournalFailed)
}

func hasCode(err error, code RunErrorCode) bool {
	var re *RunError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}

// DiagnosticCode returns the most specific code for err: the graph
// evaluation or load code when one is wrapped, else the run code, else "".
func DiagnosticCode(err error) string {
	var ee *graph.EvalError
	if errors.As(err, &ee) {
		return string(ee.Code)
	}
	var le *graph.LoadError
	if errors.As(err, &le) {
		return le.Code
	}
	var re *RunError
	if errors.As(err, &re) {
		return string(re.Code)
	}
	return ""
}

// NewLoadError creates a RunError for a script that could not be loaded.
func NewLoadError(path string, err error) *RunError {
	return &RunError{
		Code:    ErrCodeLoadFailed,
		Message: fmt.Sprintf("load %s: %v", path, err),
		Err:     err,
	}
}
