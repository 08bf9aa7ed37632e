package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/roach88/flo/internal/compiler"
	"github.com/roach88/flo/internal/pipeline"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output   string // output file path
	Compact  bool
	Condense bool
}

// CompilationResult summarizes one compiled program.
type CompilationResult struct {
	RunID       string                `json:"run_id"`
	Name        string                `json:"name"`
	Nodes       int                   `json:"nodes"`
	Edges       int                   `json:"edges"`
	Aligned     bool                  `json:"schema_aligned"`
	Condensed   bool                  `json:"condensed"`
	Fingerprint string                `json:"fingerprint"`
	Advisories  []compiler.Diagnostic `json:"advisories,omitempty"`
	OutputFile  string                `json:"output_file,omitempty"`
	Program     json.RawMessage       `json:"program,omitempty"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile [path|-]",
		Short: "Compile an adapter document to IR",
		Long: `Compile an adapter document (YAML or JSON) to the flo IR.

The document is validated structurally and, unless --compact is given,
against the IR JSON Schema. The IR is written to stdout or to --output.

Examples:
  flo compile process.yaml
  flo compile process.yaml -o process.ir.json --condense
  cat process.yaml | flo compile --compact`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")
	cmd.Flags().BoolVar(&opts.Compact, "compact", false, "emit the compact shape and skip the schema check")
	cmd.Flags().BoolVar(&opts.Condense, "condense", false, "collapse cycles before output (default from flo.toml, true)")

	return cmd
}

func runCompile(opts *CompileOptions, args []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	cfg := opts.Config()

	content, _, err := readInput(cmd, args)
	if err != nil {
		return formatter.fail(ExitFailure, ErrCodeInput, err)
	}
	s, err := opts.resolveSchema()
	if err != nil {
		return formatter.fail(ExitFailure, ErrCodeSchemaLoad, err)
	}

	res, err := pipeline.Run(cmd.Context(), content, pipeline.Options{
		Compact:  boolFlag(cmd, "compact", opts.Compact, cfg.Compact),
		Condense: boolFlag(cmd, "condense", opts.Condense, cfg.Condense),
		Schema:   s,
		Output:   pipeline.OutputIR,
	})
	if err != nil {
		return formatter.failRun(err)
	}
	if res.Empty {
		return outputEmpty(formatter, res)
	}

	result := summarize(res)
	if opts.Output != "" {
		if err := writeOutput(cmd, opts.Output, res.Output); err != nil {
			return formatter.fail(pipeline.ExitRender, ErrCodeWriteFailed, err)
		}
		result.OutputFile = opts.Output
	}

	return outputCompileSuccess(formatter, cmd, result, res.Output)
}

// summarize builds the report for a successful run.
func summarize(res *pipeline.Result) CompilationResult {
	g := res.Program.Graph()
	return CompilationResult{
		RunID:       res.RunID,
		Name:        g.Name,
		Nodes:       len(g.Nodes),
		Edges:       g.EdgeCount(),
		Aligned:     res.Program.SchemaAligned(),
		Condensed:   res.Condensed,
		Fingerprint: res.Fingerprint,
		Advisories:  res.Advisories,
	}
}

// outputCompileSuccess writes the IR itself to stdout when no output file
// was given, and a summary otherwise.
func outputCompileSuccess(formatter *OutputFormatter, cmd *cobra.Command, result CompilationResult, program []byte) error {
	if formatter.Format == "json" {
		if result.OutputFile == "" {
			result.Program = program
		}
		return formatter.Success(result)
	}

	if result.OutputFile == "" {
		if err := writeOutput(cmd, "", program); err != nil {
			return formatter.fail(pipeline.ExitRender, ErrCodeWriteFailed, err)
		}
		return nil
	}

	w := formatter.Writer
	printSuccess(w, "Compiled %s", StyleHighlight.Render(result.Name))
	shape := "schema-aligned"
	if !result.Aligned {
		shape = "compact"
	}
	printStats(w, result.Nodes, result.Edges, shape)
	for _, d := range result.Advisories {
		printWarning(w, "%s", d)
	}
	printFile(w, result.OutputFile)
	return nil
}

// outputEmpty reports blank input, which is not an error.
func outputEmpty(formatter *OutputFormatter, res *pipeline.Result) error {
	if formatter.Format == "json" {
		return formatter.Success(map[string]any{"run_id": res.RunID, "empty": true})
	}
	printWarning(formatter.GetErrWriter(), "input is empty, nothing to do")
	return nil
}
