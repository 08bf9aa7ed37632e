package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Input is the adapter document, inline.
	Input string `yaml:"input,omitempty"`

	// InputFile is a path to the adapter document, relative to the
	// scenario file. Exactly one of Input and InputFile is set.
	InputFile string `yaml:"input_file,omitempty"`

	// Options configures the pipeline run.
	Options RunOptions `yaml:"options,omitempty"`

	// Expect describes the expected outcome.
	Expect Expect `yaml:"expect,omitempty"`

	// Assertions validate the final graph and output.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// RunOptions mirrors the pipeline options a scenario can set.
type RunOptions struct {
	Compact  bool   `yaml:"compact,omitempty"`
	Condense bool   `yaml:"condense,omitempty"`
	Output   string `yaml:"output,omitempty"` // ir | dot | none
	Style    string `yaml:"style,omitempty"`  // flowchart | swimlane
}

// Expect describes the expected outcome of a run.
type Expect struct {
	// ExitCode is the expected exit code (default 0).
	ExitCode int `yaml:"exit_code"`

	// ErrorContains must appear in the error message of a failed run.
	ErrorContains string `yaml:"error_contains,omitempty"`

	// Condensed, if set, must equal whether condensation changed the graph.
	Condensed *bool `yaml:"condensed,omitempty"`

	// Advisories, if set, must equal the advisory codes in order.
	Advisories []string `yaml:"advisories,omitempty"`
}

// Assertion validates the final graph or output.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Node is the node id (node_exists, node_absent, members).
	Node string `yaml:"node,omitempty"`

	// Kind is the expected node kind (node_exists, optional).
	Kind string `yaml:"kind,omitempty"`

	// Members is the expected member set (members).
	Members []string `yaml:"members,omitempty"`

	// From and To name an edge (edge, no_edge).
	From string `yaml:"from,omitempty"`
	To   string `yaml:"to,omitempty"`

	// Outcome is the expected edge outcome (edge, optional).
	Outcome string `yaml:"outcome,omitempty"`

	// Count is the expected node count (node_count).
	Count int `yaml:"count,omitempty"`

	// Text must appear in the output (output_contains).
	Text string `yaml:"text,omitempty"`
}

// Assertion type constants.
const (
	AssertNodeCount      = "node_count"
	AssertNodeExists     = "node_exists"
	AssertNodeAbsent     = "node_absent"
	AssertMembers        = "members"
	AssertEdge           = "edge"
	AssertNoEdge         = "no_edge"
	AssertOutputContains = "output_contains"
)

// LoadScenario reads and parses a scenario YAML file. input_file is
// resolved relative to the scenario's directory and read eagerly.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict decoding catches typos like "assertion:" vs "assertions:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	if scenario.InputFile != "" {
		inputPath := scenario.InputFile
		if !filepath.IsAbs(inputPath) {
			inputPath = filepath.Join(filepath.Dir(path), inputPath)
		}
		content, err := os.ReadFile(inputPath)
		if err != nil {
			return nil, fmt.Errorf("invalid scenario: input file: %w", err)
		}
		scenario.Input = string(content)
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
	if (s.Input == "") == (s.InputFile == "") {
		return fmt.Errorf("exactly one of input and input_file is required")
	}

	switch s.Options.Output {
	case "", "none", "ir", "dot":
	default:
		return fmt.Errorf("options.output: unknown output %q", s.Options.Output)
	}
	switch s.Options.Style {
	case "", "flowchart", "swimlane":
	default:
		return fmt.Errorf("options.style: unknown style %q", s.Options.Style)
	}
	if s.Expect.ExitCode < 0 {
		return fmt.Errorf("expect.exit_code must be non-negative")
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
	case AssertNodeCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for node_count", index)
		}
	case AssertNodeExists, AssertNodeAbsent:
		if a.Node == "" {
			return fmt.Errorf("assertions[%d]: node is required for %s", index, a.Type)
		}
	case AssertMembers:
		if a.Node == "" || len(a.Members) == 0 {
			return fmt.Errorf("assertions[%d]: node and members are required for members", index)
		}
	case AssertEdge, AssertNoEdge:
		if a.From == "" || a.To == "" {
			return fmt.Errorf("assertions[%d]: from and to are required for %s", index, a.Type)
		}
	case AssertOutputContains:
		if a.Text == "" {
			return fmt.Errorf("assertions[%d]: text is required for output_contains", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
