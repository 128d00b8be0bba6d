package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/vls/internal/engine"
	"github.com/roach88/vls/internal/graph"
)

// ProblemView is the JSON form of a structural problem.
type ProblemView struct {
	Severity string `json:"severity"`
	Box      int    `json:"box,omitempty"`
	Kind     string `json:"kind,omitempty"`
	Message  string `json:"message"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool          `json:"valid"`
	Boxes    int           `json:"boxes"`
	Problems []ProblemView `json:"problems"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <script>",
		Short: "Check a script without running it",
		Long: `Load a script and check its structure without running it.

Errors: a file that does not load is reported with its load code
(E201-E207) and line number. A client node naming an id that no server
node in the file holds is one of these (E206).

Warnings (the script runs, but probably not as intended):
  - duplicate Subroutine names; the first in script order is used
  - Invoke boxes naming no Subroutine
  - no Start box`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	script, _, err := engine.LoadScript(path)
	if err != nil {
		var details any
		var le *graph.LoadError
		if errors.As(err, &le) {
			details = map[string]int{"line": le.Line}
		}
		code := engine.DiagnosticCode(err)
		_ = formatter.Error(code, err.Error(), details)
		if code == string(engine.ErrCodeLoadFailed) {
			// The file could not be read at all.
			return WrapExitError(ExitCommandError, "cannot read script", err)
		}
		return NewExitError(ExitFailure, fmt.Sprintf("%s: %s", code, err.Error()))
	}
	formatter.VerboseLog("loaded %d boxes from %s", script.Len(), path)

	problems := graph.Problems(graph.Validate(script))
	result := ValidationResult{
		Valid:    true,
		Boxes:    script.Len(),
		Problems: make([]ProblemView, 0, len(problems)),
	}
	errCount := 0
	for _, p := range problems {
		if p.Severity == graph.SeverityError {
			result.Valid = false
			errCount++
		}
		view := ProblemView{Severity: string(p.Severity), Message: p.Message}
		if p.Box != 0 {
			view.Box = int(p.Box)
			view.Kind = p.Kind.String()
		}
		result.Problems = append(result.Problems, view)
	}

	if formatter.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		for _, p := range problems {
			fmt.Fprintln(formatter.Writer, p.Error())
		}
		if result.Valid {
			fmt.Fprintf(formatter.Writer, "✓ %s: %d boxes, %d warning(s)\n", path, result.Boxes, len(problems))
		} else {
			fmt.Fprintf(formatter.Writer, "✗ %s: %d error(s)\n", path, errCount)
		}
	}

	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", errCount))
	}
	return nil
}
