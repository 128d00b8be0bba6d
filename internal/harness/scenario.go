package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario: one script run against
// fixed input, with expectations on its output, its error and its
// console transcript.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Script is the path of the script file to run.
	// Relative paths are resolved against the scenario file's directory.
	Script string `yaml:"script"`

	// Stdin lines answer Ask boxes in order.
	Stdin []string `yaml:"stdin,omitempty"`

	// Seed seeds Random boxes. Zero means 1, so scenarios are always
	// deterministic.
	Seed uint64 `yaml:"seed,omitempty"`

	// EchoPrompts controls Ask prompts. Default: true.
	EchoPrompts *bool `yaml:"echo_prompts,omitempty"`

	// Expect describes how the run must end.
	Expect Expect `yaml:"expect"`

	// Assertions check the console transcript.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Expect is the expected outcome of a run.
type Expect struct {
	// Stdout, when set, must equal everything the script wrote.
	Stdout *string `yaml:"stdout,omitempty"`

	// Error is the expected diagnostic code (for example CAST_ERROR or
	// UNRESOLVED_PORTAL). Empty means the run must succeed.
	Error string `yaml:"error,omitempty"`

	// Triggered, when set, is the number of Start boxes that must complete.
	Triggered *int `yaml:"triggered,omitempty"`
}

// Assertion validates the console transcript.
type Assertion struct {
	// Type specifies the assertion type:
	// - "output_contains": Text appears in the output
	// - "output_order": Lines appear in the output in this order
	// - "event_count": the transcript holds Count events on Stream
	Type string `yaml:"type"`

	// Text is the expected substring (used by output_contains).
	Text string `yaml:"text,omitempty"`

	// Lines is the expected order (used by output_order).
	Lines []string `yaml:"lines,omitempty"`

	// Stream is out, in or prompt (used by event_count).
	Stream string `yaml:"stream,omitempty"`

	// Count is the expected number of events (used by event_count).
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertOutputContains = "output_contains"
	AssertOutputOrder    = "output_order"
	AssertEventCount     = "event_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// The script path is resolved against the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Script != "" && !filepath.IsAbs(scenario.Script) {
		scenario.Script = filepath.Join(filepath.Dir(path), scenario.Script)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Script == "" {
		return fmt.Errorf("script is required")
	}
	if _, err := os.Stat(s.Script); os.IsNotExist(err) {
		return fmt.Errorf("script file not found: %s", s.Script)
	}

	if s.Expect.Triggered != nil && *s.Expect.Triggered < 0 {
		return fmt.Errorf("expect.triggered must be non-negative")
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertOutputContains:
		if a.Text == "" {
			return fmt.Errorf("assertions[%d]: text is required for output_contains", index)
		}
	case AssertOutputOrder:
		if len(a.Lines) == 0 {
			return fmt.Errorf("assertions[%d]: lines list is required for output_order", index)
		}
	case AssertEventCount:
		switch a.Stream {
		case "out", "in", "prompt":
		default:
			return fmt.Errorf("assertions[%d]: stream must be out, in or prompt for event_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for event_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
