package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/flo/internal/ir"
)

// Snapshot returns the bytes compared against a golden file: the emitted
// artifact when there is one, otherwise a canonical JSON summary of the run.
func Snapshot(scenario *Scenario, result *Result) ([]byte, error) {
	if len(result.Output) > 0 {
		return result.Output, nil
	}

	advisories := make([]any, len(result.Advisories))
	for i, code := range result.Advisories {
		advisories[i] = code
	}
	summary := map[string]any{
		"scenario":   scenario.Name,
		"exit_code":  result.ExitCode,
		"condensed":  result.Condensed,
		"advisories": advisories,
	}
	if result.Graph != nil {
		summary["nodes"] = len(result.Graph.Nodes)
	}
	return ir.MarshalCanonical(summary)
}

// GoldenPath returns the golden file for a scenario file:
// <dir>/golden/<base>.golden.
func GoldenPath(scenarioFile string) string {
	dir := filepath.Dir(scenarioFile)
	base := filepath.Base(scenarioFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, "golden", name+".golden")
}

// UpdateGolden writes the current snapshot as the golden file.
func UpdateGolden(path string, scenario *Scenario, result *Result) error {
	data, err := Snapshot(scenario, result)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write golden file: %w", err)
	}
	return nil
}

// CompareGolden reports whether the snapshot matches the golden file at
// path. A missing golden file is reported through os.ErrNotExist.
func CompareGolden(path string, scenario *Scenario, result *Result) (bool, error) {
	golden, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	data, err := Snapshot(scenario, result)
	if err != nil {
		return false, err
	}
	return bytes.Equal(golden, data), nil
}

// AssertGolden compares the result snapshot against GoldenPath(scenarioFile),
// the same file CompareGolden reads for flo test.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func AssertGolden(t *testing.T, scenarioFile string, scenario *Scenario, result *Result) {
	t.Helper()

	data, err := Snapshot(scenario, result)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	path := GoldenPath(scenarioFile)
	g := goldie.New(t,
		goldie.WithFixtureDir(filepath.Dir(path)),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, strings.TrimSuffix(filepath.Base(path), ".golden"), data)
}
