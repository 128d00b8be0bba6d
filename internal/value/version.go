package value

// Version constants recorded in the run journal.
const (
	// FormatVersion is the script text format version.
	FormatVersion = "1"

	// EngineVersion is the interpreter version.
	EngineVersion = "0.1.0"
)
