package graph

import (
	"errors"
	"fmt"
)

// EvalError is a fatal condition raised while evaluating a box. It aborts
// the current run; there is no partial result.
type EvalError struct {
	// Code identifies the error category.
	Code EvalErrorCode

	// Message is a human-readable description.
	Message string

	// BoxID and Kind identify the box whose evaluation failed.
	BoxID BoxID
	Kind  Kind

	// Port names the port involved, if any.
	Port string

	// Err is the underlying value-level error, if any.
	Err error
}

// EvalErrorCode categorizes evaluation errors.
type EvalErrorCode string

const (
	// ErrCodeCast indicates a port was pulled and cast to a variant it does
	// not hold.
	ErrCodeCast EvalErrorCode = "CAST_ERROR"

	// ErrCodeParse indicates malformed text reached a parsing box.
	ErrCodeParse EvalErrorCode = "PARSE_ERROR"

	// ErrCodeUnresolvedPortal indicates an Invoke found no Subroutine.
	ErrCodeUnresolvedPortal EvalErrorCode = "UNRESOLVED_PORTAL"

	// ErrCodeIO indicates the console failed.
	ErrCodeIO EvalErrorCode = "IO_ERROR"

	// ErrCodeDanglingLink indicates a link to a box outside the script.
	ErrCodeDanglingLink EvalErrorCode = "DANGLING_LINK"
)

func (e *EvalError) Error() string {
	where := fmt.Sprintf("%s#%d", e.Kind, e.BoxID)
	if e.Port != "" {
		where += "." + e.Port
	}
	return fmt.Sprintf("%s: %s (box=%s)", e.Code, e.Message, where)
}

func (e *EvalError) Unwrap() error {
	return e.Err
}

func isEvalCode(err error, code EvalErrorCode) bool {
	var ee *EvalError
	if errors.As(err, &ee) {
		return ee.Code == code
	}
	return false
}

// IsCastError returns true if err is a type-mismatch evaluation error.
func IsCastError(err error) bool { return isEvalCode(err, ErrCodeCast) }

// IsParseError returns true if err is a literal parse evaluation error.
func IsParseError(err error) bool { return isEvalCode(err, ErrCodeParse) }

// IsUnresolvedPortal returns true if err reports a missing Subroutine.
func IsUnresolvedPortal(err error) bool { return isEvalCode(err, ErrCodeUnresolvedPortal) }

// IsIOError returns true if err reports a console failure.
func IsIOError(err error) bool { return isEvalCode(err, ErrCodeIO) }

// LoadError reports malformed script text. Line is 1-based; 0 means the
// error is not tied to a line (e.g. an unresolved id found in pass 2).
type LoadError struct {
	Line    int
	Code    string
	Message string
	Err     error
}

// Load error codes.
const (
	ErrLoadCount      = "E201" // box count missing or not a non-negative integer
	ErrLoadTag        = "E202" // unknown box type tag
	ErrLoadPosition   = "E203" // X or Y is not a number
	ErrLoadPayload    = "E204" // literal or name payload does not parse
	ErrLoadID         = "E205" // node id is not a UUID, or a server id repeats
	ErrLoadUnresolved = "E206" // client id names no server node
	ErrLoadTruncated  = "E207" // input ended early
)

func (e *LoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s", e.Code, e.Line, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// IsLoadError returns true if err is a script-load error.
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}

// Errors returned by structural edits.
var (
	ErrImmutable   = errors.New("box is immutable")
	ErrNotSettable = errors.New("box has no settable value")
	ErrNoSuchBox   = errors.New("no such box in script")
	ErrBadPort     = errors.New("port index out of range or wrong direction")
	ErrMultiline   = errors.New("value text must fit on one line")
)
