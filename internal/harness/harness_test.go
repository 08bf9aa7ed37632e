package harness

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func TestRun_LinearScenario(t *testing.T) {
	scenario := &Scenario{
		Name:        "minimal",
		Description: "Minimal test scenario",
		Input:       "nodes:\n  - id: s\n    kind: start\n    attrs:\n      edges: [e]\n  - id: e\n    kind: end\n",
		Expect:      Expect{ExitCode: 0},
		Assertions: []Assertion{
			{Type: AssertNodeCount, Count: 2},
			{Type: AssertEdge, From: "s", To: "e"},
		},
	}

	result, err := Run(context.Background(), scenario, nil)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 0, result.ExitCode)
	require.NotNil(t, result.Graph)
	assert.Len(t, result.Graph.Nodes, 2)
}

func TestRun_ExpectedFailure(t *testing.T) {
	scenario := &Scenario{
		Name:        "dup",
		Description: "Duplicate ids fail structural validation",
		Input:       "nodes:\n  - id: a\n  - id: a\n",
		Expect:      Expect{ExitCode: 4, ErrorContains: "V202"},
	}

	result, err := Run(context.Background(), scenario, nil)
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, 4, result.ExitCode)
	assert.Nil(t, result.Graph)
}

func TestRun_ExitCodeMismatch(t *testing.T) {
	scenario := &Scenario{
		Name:        "mismatch",
		Description: "Expects success but the input does not parse",
		Input:       "- just\n- a list\n",
	}

	result, err := Run(context.Background(), scenario, nil)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	assert.Equal(t, 2, result.ExitCode)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], "exit code: expected 0, got 2")
}

func TestRun_ErrorContainsOnSuccess(t *testing.T) {
	scenario := &Scenario{
		Name:        "no_error",
		Description: "Expects an error that never happens",
		Input:       "name: plain text\n",
		Expect:      Expect{ErrorContains: "V201"},
	}

	result, err := Run(context.Background(), scenario, nil)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], "run succeeded")
}

func TestRun_CondensedExpectation(t *testing.T) {
	scenario := &Scenario{
		Name:        "cycle",
		Description: "Two tasks in a loop",
		Input:       "nodes:\n  - id: a\n    attrs:\n      edges: [b]\n  - id: b\n    attrs:\n      edges: [a]\n",
		Options:     RunOptions{Condense: true},
		Expect:      Expect{Condensed: boolPtr(false)},
	}

	result, err := Run(context.Background(), scenario, nil)
	require.NoError(t, err)

	assert.True(t, result.Condensed)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors, "condensed: expected false, got true")
}

func TestRun_Advisories(t *testing.T) {
	scenario := &Scenario{
		Name:        "advisory",
		Description: "No start node",
		Input:       "nodes:\n  - id: a\n",
		Expect:      Expect{Advisories: []string{"V206"}},
	}

	result, err := Run(context.Background(), scenario, nil)
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, []string{"V206"}, result.Advisories)
}

func TestRun_DOTOutput(t *testing.T) {
	scenario := &Scenario{
		Name:        "dot",
		Description: "Render the compiled graph",
		Input:       "name: flow\nnodes:\n  - id: a\n    kind: start\n",
		Options:     RunOptions{Output: "dot"},
		Assertions: []Assertion{
			{Type: AssertOutputContains, Text: `digraph "flow" {`},
		},
	}

	result, err := Run(context.Background(), scenario, nil)
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.NotEmpty(t, result.Output)
}

func TestRun_UnknownStyle(t *testing.T) {
	scenario := &Scenario{
		Name:        "bad_style",
		Description: "Style is not validated when built in code",
		Input:       "name: x\n",
		Options:     RunOptions{Style: "radial"},
	}

	_, err := Run(context.Background(), scenario, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "radial")
}

func TestRun_ScenarioFiles(t *testing.T) {
	files, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		if strings.HasSuffix(file, ".input.yaml") {
			continue
		}
		t.Run(filepath.Base(file), func(t *testing.T) {
			scenario, err := LoadScenario(file)
			require.NoError(t, err)

			result, err := Run(context.Background(), scenario, nil)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)

			AssertGolden(t, file, scenario, result)
		})
	}
}
