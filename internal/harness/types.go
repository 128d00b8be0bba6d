package harness

// TraceEvent is one console event of a scenario run, read back from the
// run journal.
type TraceEvent struct {
	Seq    int64  `json:"seq"`
	Stream string `json:"stream"` // "out", "in" or "prompt"
	Box    int    `json:"box"`
	Text   string `json:"text"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	Pass bool `json:"pass"`

	// Output is everything the script wrote to the console.
	Output string `json:"output"`

	// ErrorCode is the diagnostic code of the error that ended the run,
	// or "" when it succeeded.
	ErrorCode string `json:"error_code,omitempty"`

	// ErrorMessage is the text of that error.
	ErrorMessage string `json:"error_message,omitempty"`

	// Triggered counts Start boxes that completed.
	Triggered int `json:"triggered"`

	// Trace is the console transcript in seq order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
