package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/vls/internal/engine"
	"github.com/roach88/vls/internal/graph"
)

// FmtOptions holds flags for the fmt command.
type FmtOptions struct {
	*RootOptions
	Check bool
}

// NewFmtCommand creates the fmt command.
func NewFmtCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FmtOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "fmt <script>...",
		Short: "Rewrite scripts in canonical form",
		Long: `Rewrite scripts in canonical form.

Coordinates are written in shortest form and server node ids are
renumbered 00000000-0000-0000-0000-000000000001, ...0002 and so on in
script order, so formatting the same graph always yields the same bytes.

With --check nothing is written; the command fails if any file would
change.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFmt(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Check, "check", false, "report files that are not formatted instead of rewriting them")

	return cmd
}

func runFmt(opts *FmtOptions, paths []string, cmd *cobra.Command) error {
	w := cmd.OutOrStdout()
	var unformatted []string

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read script", err)
		}
		formatted, err := Canonical(data)
		if err != nil {
			return WrapExitError(ExitFailure, fmt.Sprintf("failed to parse %s [%s]", path, engine.DiagnosticCode(err)), err)
		}
		if bytes.Equal(data, formatted) {
			continue
		}

		unformatted = append(unformatted, path)
		if opts.Check {
			fmt.Fprintln(w, path)
			continue
		}
		if err := writeFileAtomic(path, formatted); err != nil {
			return WrapExitError(ExitCommandError, "failed to write script", err)
		}
		fmt.Fprintf(w, "formatted %s\n", path)
	}

	if opts.Check && len(unformatted) > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d file(s) not formatted", len(unformatted)))
	}
	return nil
}

// Canonical re-serializes script text with sequential server ids.
func Canonical(data []byte) ([]byte, error) {
	s, err := graph.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return graph.Marshal(s, graph.WithSequentialIDs())
}

// writeFileAtomic writes data to a temp file in the target directory and
// renames it over path.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".vls-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
