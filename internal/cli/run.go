package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/vls/internal/config"
	"github.com/roach88/vls/internal/engine"
	"github.com/roach88/vls/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Config  string
	Journal string
	Seed    uint64
	NoEcho  bool

	// RunIDGenerator allows overriding the journal run id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunIDGenerator engine.RunIDGenerator
}

// RunSummary is the JSON payload of a finished run.
type RunSummary struct {
	Script    string `json:"script"`
	Seed      uint64 `json:"seed"`
	Triggered int    `json:"triggered"`
	Result    string `json:"result"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <script>",
		Short: "Run a script",
		Long: `Run a script by triggering each of its Start boxes in order.

Print and Write boxes write to stdout; Ask boxes read lines from stdin.
Settings come from vls.cue next to the script (or --config), and flags
override the file. With a journal, the run and its console transcript
are recorded in a SQLite database for "vls trace".

Exit codes:
  0 - Every Start box completed
  1 - The script failed (cast error, missing Subroutine, ...)
  2 - Command error (unreadable script, bad config, journal error)

Examples:
  vls run hello.vls
  echo Ada | vls run greet.vls --no-echo
  vls run dice.vls --seed 42 --journal runs.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Config, "config", "", "path to a CUE config file (default: vls.cue next to the script)")
	cmd.Flags().StringVar(&opts.Journal, "journal", "", "record the run in this SQLite database")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "random seed (0 picks one)")
	cmd.Flags().BoolVar(&opts.NoEcho, "no-echo", false, "do not write Ask prompts")

	return cmd
}

// resolveRunConfig layers flags the user actually set over the config file.
func resolveRunConfig(opts *RunOptions, script string, cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Resolve(opts.Config, script)
	if err != nil {
		return config.Config{}, err
	}
	flags := cmd.Flags()
	if flags.Changed("journal") {
		cfg.Journal = opts.Journal
	}
	if flags.Changed("seed") {
		cfg.RandomSeed = opts.Seed
	}
	if flags.Changed("no-echo") {
		cfg.EchoPrompts = !opts.NoEcho
	}
	return cfg, nil
}

func runScript(opts *RunOptions, path string, cmd *cobra.Command) error {
	cfg, err := resolveRunConfig(opts, path, cmd)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	setupLogging(cmd.ErrOrStderr(), opts.Verbose, cfg.SlogLevel())

	runOpts := []engine.RunnerOption{
		engine.WithConsole(engine.NewStdConsole(cmd.InOrStdin(), cmd.OutOrStdout())),
		engine.WithRandomSeed(cfg.RandomSeed),
		engine.WithEchoPrompts(cfg.EchoPrompts),
		engine.WithLogger(slog.Default()),
	}
	if opts.RunIDGenerator != nil {
		runOpts = append(runOpts, engine.WithRunIDGenerator(opts.RunIDGenerator))
	}

	// Open journal (create if not exists)
	if cfg.Journal != "" {
		slog.Debug("opening journal", "path", cfg.Journal)
		st, err := store.Open(cfg.Journal)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open journal", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				slog.Error("error closing journal", "error", closeErr)
			}
		}()
		runOpts = append(runOpts, engine.WithJournal(st))
	}

	runner, err := engine.Load(path, runOpts...)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load script", err)
	}

	// Setup signal handling for graceful shutdown
	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan) // Prevent signal handler leak

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, stopping run", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	res, err := runner.Run(ctx)
	if err != nil {
		if engine.IsJournalError(err) {
			return WrapExitError(ExitCommandError, "journal error", err)
		}
		if opts.Format == "json" {
			formatter := newFormatter(opts.RootOptions, cmd)
			_ = formatter.Error(engine.DiagnosticCode(err), err.Error(), map[string]any{
				"run_id":    res.RunID,
				"triggered": res.Triggered,
			})
		}
		return WrapExitError(ExitFailure, fmt.Sprintf("run failed [%s]", engine.DiagnosticCode(err)), err)
	}

	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), CLIResponse{
			Status: "ok",
			RunID:  res.RunID,
			Data: RunSummary{
				Script:    path,
				Seed:      res.Seed,
				Triggered: res.Triggered,
				Result:    res.Last.String(),
			},
		})
	}
	return nil
}
