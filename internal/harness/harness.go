package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/vls/internal/engine"
	"github.com/roach88/vls/internal/store"
)

// Harness runs scenarios deterministically: a fixed run id, a fresh
// logical clock, a fixed random seed and an in-memory console and journal.
type Harness struct {
	store  *store.Store
	clock  *engine.Clock
	runIDs *engine.FixedGenerator
	logger *slog.Logger
}

// RunID is the journal id every scenario run gets.
const RunID = "scenario-run"

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory journal for isolation.
//
// Execution flow:
// 1. Load the script (a load failure is reported as LOAD_FAILED or its E2xx code)
// 2. Trigger every Start box against the scenario's stdin
// 3. Read the transcript back from the journal
// 4. Check expectations and assertions
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		store:  st,
		clock:  engine.NewClock(),
		runIDs: engine.NewFixedGenerator(RunID),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}
	return h.run(ctx, scenario)
}

func (h *Harness) run(ctx context.Context, scenario *Scenario) (*Result, error) {
	result := NewResult()
	con := engine.NewBufferConsole(scenario.Stdin...)

	seed := scenario.Seed
	if seed == 0 {
		seed = 1
	}
	echo := true
	if scenario.EchoPrompts != nil {
		echo = *scenario.EchoPrompts
	}

	r, err := engine.Load(scenario.Script,
		engine.WithConsole(con),
		engine.WithRandomSeed(seed),
		engine.WithEchoPrompts(echo),
		engine.WithJournal(h.store),
		engine.WithRunIDGenerator(h.runIDs),
		engine.WithClock(h.clock),
		engine.WithLogger(h.logger),
	)
	if err != nil {
		result.ErrorCode = engine.DiagnosticCode(err)
		result.ErrorMessage = err.Error()
		checkExpect(result, scenario.Expect)
		return result, nil
	}

	res, runErr := r.Run(ctx)
	result.Output = con.Output()
	result.Triggered = res.Triggered
	if runErr != nil {
		if engine.IsJournalError(runErr) {
			return nil, fmt.Errorf("journal: %w", runErr)
		}
		result.ErrorCode = engine.DiagnosticCode(runErr)
		result.ErrorMessage = runErr.Error()
	}

	events, err := h.store.ReadTranscript(ctx, res.RunID)
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}
	for _, ev := range events {
		result.Trace = append(result.Trace, TraceEvent{
			Seq:    ev.Seq,
			Stream: string(ev.Stream),
			Box:    ev.BoxID,
			Text:   ev.Text,
		})
	}

	checkExpect(result, scenario.Expect)
	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

func checkExpect(result *Result, want Expect) {
	if result.ErrorCode != want.Error {
		switch {
		case want.Error == "":
			result.AddError(fmt.Sprintf("expected success, got %s: %s", result.ErrorCode, result.ErrorMessage))
		case result.ErrorCode == "":
			result.AddError(fmt.Sprintf("expected error %s, run succeeded", want.Error))
		default:
			result.AddError(fmt.Sprintf("expected error %s, got %s: %s", want.Error, result.ErrorCode, result.ErrorMessage))
		}
	}
	if want.Stdout != nil && result.Output != *want.Stdout {
		result.AddError(fmt.Sprintf("stdout mismatch:\n  expected: %q\n  actual:   %q", *want.Stdout, result.Output))
	}
	if want.Triggered != nil && result.Triggered != *want.Triggered {
		result.AddError(fmt.Sprintf("expected %d Start boxes to complete, got %d", *want.Triggered, result.Triggered))
	}
}
