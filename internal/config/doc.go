// Package config loads run settings from an optional CUE file.
//
// The file is plain CUE fields validated against an embedded closed
// definition, so unknown fields and out-of-range values are rejected with
// a file position:
//
//	log_level:    "debug"
//	random_seed:  42
//	journal:      "runs.db"
//	echo_prompts: false
//
// Precedence is defaults < file < command-line flags; the CLI applies
// flags on top of the Config returned here.
package config
