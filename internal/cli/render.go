package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/flo/internal/pipeline"
	"github.com/roach88/flo/internal/render"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	*RootOptions
	Output   string
	Style    string
	SVG      bool
	Condense bool
}

// RenderResult reports a rendered artifact.
type RenderResult struct {
	Style      string `json:"style"`
	Format     string `json:"format"` // dot | svg
	Bytes      int    `json:"bytes"`
	Condensed  bool   `json:"condensed"`
	OutputFile string `json:"output_file,omitempty"`
	DOT        string `json:"dot,omitempty"`
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "render [path|-]",
		Short: "Render the process graph as DOT or SVG",
		Long: `Compile, validate and (by default) condense an adapter document, then
emit Graphviz DOT. With --svg the DOT is laid out and rendered to SVG.

Styles:
  flowchart  nodes and edges top to bottom
  swimlane   nodes grouped into one cluster per lane, left to right`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")
	cmd.Flags().StringVar(&opts.Style, "style", "", "layout style (flowchart|swimlane)")
	cmd.Flags().BoolVar(&opts.SVG, "svg", false, "render SVG instead of DOT")
	cmd.Flags().BoolVar(&opts.Condense, "condense", true, "collapse cycles before rendering (default from flo.toml)")

	return cmd
}

func runRender(opts *RenderOptions, args []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	cfg := opts.Config()

	styleName := opts.Style
	if styleName == "" {
		styleName = cfg.Style
	}
	style, err := render.ParseStyle(styleName)
	if err != nil {
		return formatter.fail(ExitFailure, ErrCodeUsage, err)
	}
	output := pipeline.OutputDOT
	if opts.SVG {
		output = pipeline.OutputSVG
	}
	if output == pipeline.OutputSVG && formatter.Format == "json" && opts.Output == "" {
		return formatter.fail(ExitFailure, ErrCodeUsage, fmt.Errorf("--svg with --format json requires --output"))
	}

	content, _, err := readInput(cmd, args)
	if err != nil {
		return formatter.fail(ExitFailure, ErrCodeInput, err)
	}
	s, err := opts.resolveSchema()
	if err != nil {
		return formatter.fail(ExitFailure, ErrCodeSchemaLoad, err)
	}

	res, err := pipeline.Run(cmd.Context(), content, pipeline.Options{
		Compact:  cfg.Compact,
		Condense: boolFlag(cmd, "condense", opts.Condense, cfg.Condense),
		Schema:   s,
		Output:   output,
		Style:    style,
	})
	if err != nil {
		return formatter.failRun(err)
	}
	if res.Empty {
		return outputEmpty(formatter, res)
	}

	result := RenderResult{
		Style:     string(style),
		Format:    string(output),
		Bytes:     len(res.Output),
		Condensed: res.Condensed,
	}

	if opts.Output != "" || formatter.Format != "json" {
		if err := writeOutput(cmd, opts.Output, res.Output); err != nil {
			return formatter.fail(pipeline.ExitRender, ErrCodeWriteFailed, err)
		}
		result.OutputFile = opts.Output
	}

	if formatter.Format == "json" {
		if result.OutputFile == "" {
			result.DOT = string(res.Output)
		}
		return formatter.Success(result)
	}

	if result.OutputFile != "" {
		printSuccess(formatter.Writer, "Rendered %s %s", result.Format, StyleDim.Render("("+result.Style+")"))
		printFile(formatter.Writer, result.OutputFile)
	}
	return nil
}
