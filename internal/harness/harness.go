package harness

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/roach88/flo/internal/compiler"
	"github.com/roach88/flo/internal/pipeline"
	"github.com/roach88/flo/internal/render"
	"github.com/roach88/flo/internal/schema"
	"github.com/roach88/flo/internal/testutil"
)

// Run executes a scenario and returns the result.
//
// Pipeline failures are not errors here: they are compared against
// scenario.Expect. The returned error is reserved for scenarios that cannot
// be run at all. s may be nil to use the embedded schema.
func Run(ctx context.Context, scenario *Scenario, s *schema.Schema) (*Result, error) {
	opts, err := pipelineOptions(scenario, s)
	if err != nil {
		return nil, err
	}

	ctx = pipeline.WithLogger(ctx, log.New(io.Discard))
	res, runErr := pipeline.Run(ctx, scenario.Input, opts)

	result := NewResult()
	result.ExitCode = pipeline.ExitCode(runErr)
	if res != nil {
		result.Condensed = res.Condensed
		result.Output = res.Output
		result.Advisories = advisoryCodes(res.Advisories)
		if res.Program != nil {
			result.Graph = res.Program.Graph()
		}
	}

	checkExpect(scenario.Expect, runErr, result)

	for _, msg := range EvaluateAssertions(result.Graph, result.Output, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

func pipelineOptions(scenario *Scenario, s *schema.Schema) (pipeline.Options, error) {
	style, err := render.ParseStyle(scenario.Options.Style)
	if err != nil {
		return pipeline.Options{}, err
	}

	output := pipeline.Output(scenario.Options.Output)
	if output == "none" {
		output = pipeline.OutputNone
	}

	return pipeline.Options{
		Compact:  scenario.Options.Compact,
		Condense: scenario.Options.Condense,
		Schema:   s,
		Output:   output,
		Style:    style,
		IDs:      testutil.NewFixedIDGenerator(scenario.Name),
	}, nil
}

func checkExpect(want Expect, runErr error, result *Result) {
	if result.ExitCode != want.ExitCode {
		msg := fmt.Sprintf("exit code: expected %d, got %d", want.ExitCode, result.ExitCode)
		if runErr != nil {
			msg += fmt.Sprintf(" (%v)", runErr)
		}
		result.AddError(msg)
	}

	if want.ErrorContains != "" {
		switch {
		case runErr == nil:
			result.AddError(fmt.Sprintf("expected error containing %q, run succeeded", want.ErrorContains))
		case !strings.Contains(runErr.Error(), want.ErrorContains):
			result.AddError(fmt.Sprintf("expected error containing %q, got %q", want.ErrorContains, runErr.Error()))
		}
	}

	if want.Condensed != nil && *want.Condensed != result.Condensed {
		result.AddError(fmt.Sprintf("condensed: expected %t, got %t", *want.Condensed, result.Condensed))
	}

	if want.Advisories != nil && !slices.Equal(want.Advisories, result.Advisories) {
		result.AddError(fmt.Sprintf("advisories: expected %v, got %v", want.Advisories, result.Advisories))
	}
}

func advisoryCodes(diags []compiler.Diagnostic) []string {
	var codes []string
	for _, d := range diags {
		codes = append(codes, d.Code)
	}
	return codes
}
