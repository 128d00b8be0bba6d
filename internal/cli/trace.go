package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/vls/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Journal string
	Stream  string // optional - filter to one stream
}

// TraceEvent represents a single console event in the run timeline.
type TraceEvent struct {
	Seq    int64  `json:"seq"`
	Stream string `json:"stream"` // "out", "in" or "prompt"
	Box    int    `json:"box"`
	Text   string `json:"text"`
}

// TraceResult holds the complete trace output.
type TraceResult struct {
	Run      store.Run    `json:"run"`
	Timeline []TraceEvent `json:"timeline"`
	Stats    TraceStats   `json:"stats"`
}

// TraceStats holds summary statistics for the run.
type TraceStats struct {
	TotalEvents int `json:"total_events"`
	Out         int `json:"out"`
	In          int `json:"in"`
	Prompts     int `json:"prompts"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace [run-id]",
		Short: "Show journaled runs",
		Long: `Show runs recorded by "vls run --journal".

Without a run id, lists every run with its status. With a run id, shows
the run's console transcript in the order it happened: everything
printed, every prompt written and every line read.

Examples:
  vls trace --journal runs.db
  vls trace --journal runs.db 0190a5c4-7d2e-7c1a-9f0e-2b4c6d8e0f12
  vls trace --journal runs.db 0190a5c4-7d2e-7c1a-9f0e-2b4c6d8e0f12 --stream in
  vls trace --journal runs.db --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return runListRuns(opts, cmd)
			}
			return runTrace(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Journal, "journal", "", "path to the SQLite journal (required)")
	_ = cmd.MarkFlagRequired("journal")
	cmd.Flags().StringVar(&opts.Stream, "stream", "", "filter to one stream (out|in|prompt)")

	return cmd
}

// openJournal opens an existing journal. store.Open would create a
// missing file, which is never what a reader wants.
func openJournal(path string) (*store.Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, WrapExitError(ExitCommandError, "journal not found", err)
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	return st, nil
}

func runListRuns(opts *TraceOptions, cmd *cobra.Command) error {
	st, err := openJournal(opts.Journal)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.ListRuns(cmd.Context())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), CLIResponse{Status: "ok", Data: runs})
	}

	w := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}
	for _, r := range runs {
		fmt.Fprintf(w, "%s  %-9s  %3d events  %s", r.ID, r.Status, r.Events, r.ScriptPath)
		if r.ErrorCode != "" {
			fmt.Fprintf(w, "  [%s]", r.ErrorCode)
		}
		fmt.Fprintln(w)
	}
	return nil
}

func runTrace(opts *TraceOptions, runID string, cmd *cobra.Command) error {
	switch opts.Stream {
	case "", string(store.StreamOut), string(store.StreamIn), string(store.StreamPrompt):
	default:
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid stream %q: must be out, in or prompt", opts.Stream))
	}

	st, err := openJournal(opts.Journal)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	run, err := st.ReadRun(ctx, runID)
	if store.IsNotFound(err) {
		return WrapExitError(ExitCommandError, "unknown run", err)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}

	events, err := st.ReadTranscript(ctx, runID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read transcript", err)
	}

	result := TraceResult{
		Run:      run,
		Timeline: buildTimeline(events, opts.Stream),
	}
	result.Stats = computeStats(events)

	// Output results
	if opts.Format == "json" {
		return outputTraceJSON(cmd, result)
	}
	return outputTraceText(cmd, result)
}

// buildTimeline converts journal events, optionally keeping one stream.
func buildTimeline(events []store.Event, stream string) []TraceEvent {
	timeline := make([]TraceEvent, 0, len(events))
	for _, ev := range events {
		if stream != "" && string(ev.Stream) != stream {
			continue
		}
		timeline = append(timeline, TraceEvent{
			Seq:    ev.Seq,
			Stream: string(ev.Stream),
			Box:    ev.BoxID,
			Text:   ev.Text,
		})
	}
	return timeline
}

func computeStats(events []store.Event) TraceStats {
	stats := TraceStats{TotalEvents: len(events)}
	for _, ev := range events {
		switch ev.Stream {
		case store.StreamOut:
			stats.Out++
		case store.StreamIn:
			stats.In++
		case store.StreamPrompt:
			stats.Prompts++
		}
	}
	return stats
}

// outputTraceJSON outputs the trace result as JSON.
func outputTraceJSON(cmd *cobra.Command, result TraceResult) error {
	response := CLIResponse{
		Status: "ok",
		Data:   result,
		RunID:  result.Run.ID,
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(response)
}

// outputTraceText outputs the trace result as human-readable text.
func outputTraceText(cmd *cobra.Command, result TraceResult) error {
	w := cmd.OutOrStdout()
	r := result.Run

	fmt.Fprintf(w, "Run: %s\n", r.ID)
	fmt.Fprintf(w, "Script: %s (%s)\n", r.ScriptPath, r.ScriptHash)
	fmt.Fprintf(w, "Seed: %d\n", r.RandomSeed)
	fmt.Fprintf(w, "Status: %s", r.Status)
	if r.ErrorCode != "" {
		fmt.Fprintf(w, " [%s] %s", r.ErrorCode, r.ErrorMessage)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Timeline:")
	for _, ev := range result.Timeline {
		fmt.Fprintf(w, "  [%d] %-6s box=%d %q\n", ev.Seq, ev.Stream, ev.Box, ev.Text)
	}
	fmt.Fprintln(w)

	s := result.Stats
	fmt.Fprintf(w, "Stats: %d events (%d out, %d in, %d prompts)\n", s.TotalEvents, s.Out, s.In, s.Prompts)
	return nil
}
