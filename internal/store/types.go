package store

// Status is the lifecycle state of a journaled run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusCanceled  Status = "canceled"
)

// Stream identifies the direction of a transcript line.
type Stream string

const (
	// StreamOut is text written by Print or Write.
	StreamOut Stream = "out"

	// StreamIn is a line read by Ask.
	StreamIn Stream = "in"

	// StreamPrompt is an Ask prompt echoed to the console.
	StreamPrompt Stream = "prompt"
)

// Run is one execution of a script.
type Run struct {
	ID            string `json:"id"`
	ScriptPath    string `json:"script_path"`
	ScriptHash    string `json:"script_hash"`
	FormatVersion string `json:"format_version"`
	EngineVersion string `json:"engine_version"`
	RandomSeed    uint64 `json:"random_seed"`
	Status        Status `json:"status"`
	ErrorCode     string `json:"error_code,omitempty"`
	ErrorMessage  string `json:"error_message,omitempty"`
	Events        int64  `json:"events"`
}

// Event is one transcript line. Seq comes from the runner's logical clock
// and orders events within a run.
type Event struct {
	RunID  string
	Seq    int64
	Stream Stream
	BoxID  int
	Text   string
}
