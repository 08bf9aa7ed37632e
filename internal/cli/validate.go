package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/flo/internal/compiler"
	"github.com/roach88/flo/internal/pipeline"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid       bool                  `json:"valid"`
	Source      string                `json:"source"`
	Nodes       int                   `json:"nodes"`
	Edges       int                   `json:"edges"`
	Aligned     bool                  `json:"schema_aligned"`
	Fingerprint string                `json:"fingerprint"`
	Advisories  []compiler.Diagnostic `json:"advisories,omitempty"`
}

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Compact bool
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate [path|-]",
		Short: "Validate an adapter document without emitting IR",
		Long: `Validate an adapter document without emitting IR.

Runs the structural checks and, for schema-aligned programs, the JSON Schema
check. Advisories (such as a missing start node) are reported but do not
fail validation.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Compact, "compact", false, "validate the compact shape and skip the schema check")

	return cmd
}

func runValidate(opts *ValidateOptions, args []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	content, source, err := readInput(cmd, args)
	if err != nil {
		return formatter.fail(ExitFailure, ErrCodeInput, err)
	}
	s, err := opts.resolveSchema()
	if err != nil {
		return formatter.fail(ExitFailure, ErrCodeSchemaLoad, err)
	}

	res, err := pipeline.Run(cmd.Context(), content, pipeline.Options{
		Compact: boolFlag(cmd, "compact", opts.Compact, opts.Config().Compact),
		Schema:  s,
	})
	if err != nil {
		return formatter.failRun(err)
	}
	if res.Empty {
		return outputEmpty(formatter, res)
	}

	summary := summarize(res)
	result := ValidationResult{
		Valid:       true,
		Source:      source,
		Nodes:       summary.Nodes,
		Edges:       summary.Edges,
		Aligned:     summary.Aligned,
		Fingerprint: summary.Fingerprint,
		Advisories:  summary.Advisories,
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	printSuccess(w, "%s is valid", source)
	printStats(w, result.Nodes, result.Edges)
	for _, d := range result.Advisories {
		printWarning(w, "%s", d)
	}
	if formatter.Verbose {
		printDetail(w, "fingerprint %s", result.Fingerprint)
	}
	return nil
}
