package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/roach88/vls/internal/editor"
	"github.com/roach88/vls/internal/engine"
)

const historyFile = ".vls_history"

// EditOptions holds flags for the edit command.
type EditOptions struct {
	*RootOptions
	Prompt  string
	History string
}

// NewEditCommand creates the edit command.
func NewEditCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EditOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "edit <script>",
		Short: "Edit a script interactively",
		Long: `Open a script in a line-oriented editor.

A file that does not exist or cannot be parsed opens as an empty script.
Commands are read one per line; "help" lists them and "undo"/"redo" step
through the last 30 states. On a terminal, input has line editing and the
command history is kept in --history. Ctrl+C clears the line, Ctrl+D
leaves. Ask boxes of a script started with "run" read from the same input.

Example:
  vls edit hello.vls
  > add Start
  > add Print
  > add String
  > set 3 hello
  > link 1.Event 2.Echo
  > link 2.Value 3.Value
  > run
  hello
  > save`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Prompt, "prompt", "> ", "prompt written before each command")
	cmd.Flags().StringVar(&opts.History, "history", defaultHistoryPath(), "file keeping command history on a terminal (empty disables)")

	return cmd
}

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, historyFile)
}

// lineInput is the command source of the editor.
type lineInput interface {
	engine.Prompter
	AppendHistory(item string)
	Close() error
}

// pipedInput reads commands from a non-terminal reader without history.
type pipedInput struct {
	*engine.StdConsole
}

func (pipedInput) AppendHistory(string) {}
func (pipedInput) Close() error         { return nil }

// terminalInput is a liner session that saves its history on Close.
type terminalInput struct {
	*liner.State
	history string
}

func (t *terminalInput) Close() error {
	if t.history != "" {
		if f, err := os.Create(t.history); err == nil {
			if _, err := t.WriteHistory(f); err != nil {
				slog.Warn("cannot write history", "path", t.history, "error", err)
			}
			f.Close()
		} else {
			slog.Warn("cannot write history", "path", t.history, "error", err)
		}
	}
	return t.State.Close()
}

// openLineInput uses liner when the command reads the process stdin, and
// a plain line reader otherwise.
func openLineInput(cmd *cobra.Command, history string) lineInput {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); !ok || f != os.Stdin {
		return pipedInput{engine.NewStdConsole(in, cmd.OutOrStdout())}
	}

	ln := liner.NewLiner()
	ln.SetCtrlCAborts(true)
	if history != "" {
		if f, err := os.Open(history); err == nil {
			_, _ = ln.ReadHistory(f)
			f.Close()
		}
	}
	return &terminalInput{State: ln, history: history}
}

func runEdit(opts *EditOptions, path string, cmd *cobra.Command) error {
	setupLogging(cmd.ErrOrStderr(), opts.Verbose, slog.LevelWarn)

	out := cmd.OutOrStdout()
	input := openLineInput(cmd, opts.History)
	defer input.Close()

	con := engine.NewPromptConsole(input, out)
	session := editor.Open(path, editor.WithLogger(slog.Default()))
	commands := editor.NewCommands(session, con, out)

	ctx := cmd.Context()
	for {
		line, err := input.Prompt(opts.Prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(out)
			break
		}
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read command", err)
		}
		if strings.TrimSpace(line) != "" {
			input.AppendHistory(line)
		}

		err = commands.Exec(ctx, line)
		if ferr := con.Flush(); ferr != nil {
			return WrapExitError(ExitCommandError, "failed to write output", ferr)
		}
		if errors.Is(err, editor.ErrQuit) {
			break
		}
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}
	}

	if session.Dirty() {
		slog.Warn("unsaved changes discarded", "path", path)
	}
	return nil
}
