package harness

import (
	"fmt"
	"strings"
)

// AssertionError is returned when an assertion fails.
// It includes the transcript to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full transcript for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nTranscript:\n")
	for _, event := range e.Trace {
		fmt.Fprintf(&buf, "  [%d] %-6s box=%d %q\n", event.Seq, event.Stream, event.Box, event.Text)
	}

	return buf.String()
}

// EvaluateAssertions runs every assertion against result and returns the
// failure messages in assertion order.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var failures []string
	for i, a := range assertions {
		if err := evaluateAssertion(result, a); err != nil {
			failures = append(failures, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return failures
}

func evaluateAssertion(result *Result, a Assertion) error {
	switch a.Type {
	case AssertOutputContains:
		return assertOutputContains(result, a)
	case AssertOutputOrder:
		return assertOutputOrder(result, a)
	case AssertEventCount:
		return assertEventCount(result, a)
	}
	return fmt.Errorf("unknown assertion type %q", a.Type)
}

// assertOutputContains checks that the output contains a.Text.
func assertOutputContains(result *Result, a Assertion) error {
	if strings.Contains(result.Output, a.Text) {
		return nil
	}
	return &AssertionError{
		Type:     AssertOutputContains,
		Expected: fmt.Sprintf("output containing %q", a.Text),
		Actual:   fmt.Sprintf("%q", result.Output),
		Trace:    result.Trace,
	}
}

// assertOutputOrder checks that the output lines include a.Lines in order,
// not necessarily adjacent.
func assertOutputOrder(result *Result, a Assertion) error {
	lines := strings.Split(result.Output, "\n")
	next := 0
	for _, line := range lines {
		if next < len(a.Lines) && line == a.Lines[next] {
			next++
		}
	}
	if next == len(a.Lines) {
		return nil
	}
	return &AssertionError{
		Type:     AssertOutputOrder,
		Expected: fmt.Sprintf("lines in order %q", a.Lines),
		Actual:   fmt.Sprintf("matched %d of %d; output %q", next, len(a.Lines), result.Output),
		Trace:    result.Trace,
	}
}

// assertEventCount checks the number of transcript events on a stream.
func assertEventCount(result *Result, a Assertion) error {
	count := 0
	for _, ev := range result.Trace {
		if ev.Stream == a.Stream {
			count++
		}
	}
	if count == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertEventCount,
		Expected: fmt.Sprintf("%d %s events", a.Count, a.Stream),
		Actual:   fmt.Sprintf("%d %s events", count, a.Stream),
		Trace:    result.Trace,
	}
}
