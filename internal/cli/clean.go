package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/vls/internal/engine"
	"github.com/roach88/vls/internal/graph"
)

// CleanOptions holds flags for the clean command.
type CleanOptions struct {
	*RootOptions
	Output string
}

// CleanResult reports what AutoClean removed.
type CleanResult struct {
	Output  string        `json:"output"`
	Removed []RemovedView `json:"removed"`
	Kept    int           `json:"kept"`
}

// RemovedView is the JSON form of one removed box.
type RemovedView struct {
	Box   int    `json:"box"`
	Kind  string `json:"kind"`
	Index int    `json:"index"`
}

// NewCleanCommand creates the clean command.
func NewCleanCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CleanOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "clean <script>",
		Short: "Remove boxes no event can reach",
		Long: `Remove every box that cannot contribute to running the script.

A box is kept when it is reachable from a Start or Subroutine box that
reaches at least one other box, following links and Invoke names. The
cleaned script is written back to the file, or to --output.

Examples:
  vls clean draft.vls
  vls clean draft.vls -o clean.vls`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClean(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the cleaned script here instead of in place")

	return cmd
}

func runClean(opts *CleanOptions, path string, cmd *cobra.Command) error {
	setupLogging(cmd.ErrOrStderr(), opts.Verbose, slog.LevelWarn)
	formatter := newFormatter(opts.RootOptions, cmd)

	script, _, err := engine.LoadScript(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load script", err)
	}

	removed := script.AutoClean()
	for _, r := range removed {
		slog.Debug("removed box", "box", r.ID, "kind", r.Kind, "index", r.Index)
	}

	out := opts.Output
	if out == "" {
		out = path
	}
	if err := writeScript(out, script); err != nil {
		return WrapExitError(ExitCommandError, "failed to write script", err)
	}

	if formatter.Format == "json" {
		result := CleanResult{Output: out, Removed: make([]RemovedView, 0, len(removed)), Kept: script.Len()}
		for _, r := range removed {
			result.Removed = append(result.Removed, RemovedView{Box: int(r.ID), Kind: r.Kind.String(), Index: r.Index})
		}
		return formatter.Success(result)
	}

	for _, r := range removed {
		formatter.VerboseLog("removed %s#%d", r.Kind, r.ID)
	}
	fmt.Fprintf(formatter.Writer, "removed %d boxes, %d kept\n", len(removed), script.Len())
	return nil
}

// writeScript serializes s to path.
func writeScript(path string, s *graph.Script) error {
	data, err := graph.Marshal(s)
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data)
}
