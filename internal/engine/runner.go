package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"

	"github.com/roach88/vls/internal/graph"
	"github.com/roach88/vls/internal/store"
	"github.com/roach88/vls/internal/value"
)

// Runner executes a script: it fires every Start box, in script order,
// with a Null argument. The first error ends the run.
//
// A Runner may be reused; each Run gets a fresh interpreter and random
// source, but State cells live in the script's boxes and carry over.
type Runner struct {
	script      *graph.Script
	scriptPath  string
	scriptHash  string
	console     graph.Console
	seed        uint64
	echoPrompts bool
	journal     *store.Store
	runIDs      RunIDGenerator
	clock       *Clock
	logger      *slog.Logger
}

// RunnerOption allows configuration of runner parameters.
type RunnerOption func(*Runner)

// WithConsole sets the console for Print, Write and Ask.
// Default: a console that reads nothing and discards output.
func WithConsole(c graph.Console) RunnerOption {
	return func(r *Runner) {
		r.console = c
	}
}

// WithRandomSeed seeds Random boxes. Zero picks a seed at run time; the
// chosen seed is logged and journaled so the run can be repeated.
func WithRandomSeed(seed uint64) RunnerOption {
	return func(r *Runner) {
		r.seed = seed
	}
}

// WithEchoPrompts controls whether Ask writes its prompt. Default: true.
func WithEchoPrompts(echo bool) RunnerOption {
	return func(r *Runner) {
		r.echoPrompts = echo
	}
}

// WithJournal records every run and its console transcript in st.
func WithJournal(st *store.Store) RunnerOption {
	return func(r *Runner) {
		r.journal = st
	}
}

// WithRunIDGenerator sets the journal's run id source.
// Default: UUIDv7Generator.
func WithRunIDGenerator(gen RunIDGenerator) RunnerOption {
	return func(r *Runner) {
		r.runIDs = gen
	}
}

// WithClock sets the logical clock stamping transcript events.
func WithClock(c *Clock) RunnerOption {
	return func(r *Runner) {
		r.clock = c
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = l
	}
}

// WithScriptSource records where the script came from and the hash of its
// text. Load sets both.
func WithScriptSource(path, hash string) RunnerOption {
	return func(r *Runner) {
		r.scriptPath = path
		r.scriptHash = hash
	}
}

// NewRunner creates a Runner over an already loaded script.
func NewRunner(s *graph.Script, opts ...RunnerOption) *Runner {
	r := &Runner{
		script:      s,
		console:     NewBufferConsole(),
		echoPrompts: true,
		runIDs:      UUIDv7Generator{},
		clock:       NewClock(),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load reads and parses the script at path and returns a Runner for it.
// Any read or parse failure is fatal and reported as a LOAD_FAILED
// RunError wrapping the underlying cause.
func Load(path string, opts ...RunnerOption) (*Runner, error) {
	s, hash, err := LoadScript(path)
	if err != nil {
		return nil, err
	}
	opts = append([]RunnerOption{WithScriptSource(path, hash)}, opts...)
	return NewRunner(s, opts...), nil
}

// LoadScript reads the script at path and returns it with the hash of its text.
func LoadScript(path string) (*graph.Script, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", NewLoadError(path, err)
	}
	s, err := graph.Unmarshal(data)
	if err != nil {
		return nil, "", NewLoadError(path, err)
	}
	return s, value.ScriptHash(string(data)), nil
}

// Script returns the script being run.
func (r *Runner) Script() *graph.Script {
	return r.script
}

// Result summarizes a completed run.
type Result struct {
	// RunID is the journal id, or "" without a journal.
	RunID string

	// Seed is the random seed actually used.
	Seed uint64

	// Triggered counts Start boxes that ran to completion.
	Triggered int

	// Last is the value returned by the last Start box, Null if none ran.
	Last value.Value
}

// Run triggers every Start box in script order. It stops at the first
// error, which is returned as a *RunError; the Result still reports the
// boxes that completed before it.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	res := Result{Seed: r.seed, Last: value.Null{}}
	if res.Seed == 0 {
		res.Seed = rand.Uint64()
	}

	starts := r.script.Starts()
	r.logger.Info("run starting", "script", r.scriptPath, "starts", len(starts), "seed", res.Seed)

	jr, err := r.beginJournal(ctx, res.Seed)
	if err != nil {
		return res, err
	}
	res.RunID = jr.runID

	ip := graph.NewInterp(r.script,
		graph.WithConsole(r.console),
		graph.WithRand(rand.New(rand.NewPCG(res.Seed, res.Seed))),
		graph.WithEchoPrompts(r.echoPrompts),
		graph.WithLogger(r.logger),
		graph.WithObserver(jr.record),
	)

	for i, b := range starts {
		if ctx.Err() != nil {
			return res, r.fail(ctx, jr, r.canceled(jr.runID, b.ID(), ctx.Err()))
		}

		r.logger.Debug("triggering start", "box", b.ID(), "index", i)
		v, err := ip.Trigger(ctx, b.ID(), value.Null{})
		if jr.err != nil {
			return res, r.fail(ctx, jr, jr.failure(b.ID()))
		}
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return res, r.fail(ctx, jr, r.canceled(jr.runID, b.ID(), err))
			}
			return res, r.fail(ctx, jr, &RunError{
				Code:    ErrCodeEvalFailed,
				Message: err.Error(),
				RunID:   jr.runID,
				BoxID:   b.ID(),
				Err:     err,
			})
		}
		res.Triggered++
		res.Last = v
	}

	if err := jr.finish(ctx, store.StatusSucceeded, nil); err != nil {
		return res, err
	}
	r.logger.Info("run finished", "run", jr.runID, "triggered", res.Triggered)
	return res, nil
}

func (r *Runner) canceled(runID string, box graph.BoxID, err error) *RunError {
	return &RunError{
		Code:    ErrCodeCanceled,
		Message: "run canceled",
		RunID:   runID,
		BoxID:   box,
		Err:     err,
	}
}

// fail logs the fatal error and closes the journal record.
func (r *Runner) fail(ctx context.Context, jr *journal, re *RunError) error {
	r.logger.Error("run failed",
		"run", re.RunID,
		"start", re.BoxID,
		"code", DiagnosticCode(re),
		"error", re.Message,
	)
	status := store.StatusFailed
	if re.Code == ErrCodeCanceled {
		status = store.StatusCanceled
		// The run's own context is done; the final write must still land.
		ctx = context.WithoutCancel(ctx)
	}
	if err := jr.finish(ctx, status, re); err != nil {
		return errors.Join(re, err)
	}
	return re
}

func (r *Runner) beginJournal(ctx context.Context, seed uint64) (*journal, error) {
	jr := &journal{clock: r.clock}
	if r.journal == nil {
		return jr, nil
	}

	jr.st = r.journal
	// Journal writes outlive cancellation so the journal shows what the
	// program printed before it stopped, and that it was canceled.
	jr.ctx = context.WithoutCancel(ctx)
	jr.runID = r.runIDs.Generate()
	err := jr.st.BeginRun(jr.ctx, store.Run{
		ID:            jr.runID,
		ScriptPath:    r.scriptPath,
		ScriptHash:    r.scriptHash,
		FormatVersion: value.FormatVersion,
		EngineVersion: value.EngineVersion,
		RandomSeed:    seed,
	})
	if err != nil {
		return nil, &RunError{Code: ErrCodeJournalFailed, Message: err.Error(), RunID: jr.runID, Err: err}
	}
	r.logger.Debug("journal run started", "run", jr.runID)
	return jr, nil
}

// journal records console events of one run. Without a store every
// method is a no-op.
type journal struct {
	st    *store.Store
	ctx   context.Context
	clock *Clock
	runID string
	err   error // first write failure
}

func (j *journal) record(ev graph.IOEvent) {
	if j.st == nil || j.err != nil {
		return
	}
	j.err = j.st.RecordEvent(j.ctx, store.Event{
		RunID:  j.runID,
		Seq:    j.clock.Next(),
		Stream: store.Stream(ev.Stream.String()),
		BoxID:  int(ev.Box),
		Text:   ev.Text,
	})
}

func (j *journal) failure(box graph.BoxID) *RunError {
	return &RunError{
		Code:    ErrCodeJournalFailed,
		Message: fmt.Sprintf("record transcript: %v", j.err),
		RunID:   j.runID,
		BoxID:   box,
		Err:     j.err,
	}
}

func (j *journal) finish(ctx context.Context, status store.Status, re *RunError) error {
	if j.st == nil {
		return nil
	}
	var code, msg string
	if re != nil {
		code, msg = DiagnosticCode(re), re.Message
	}
	if err := j.st.FinishRun(ctx, j.runID, status, code, msg); err != nil {
		return &RunError{Code: ErrCodeJournalFailed, Message: err.Error(), RunID: j.runID, Err: err}
	}
	return nil
}
