package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/roach88/flo/internal/ir"
	"github.com/roach88/flo/internal/pipeline"
)

// CondenseOptions holds flags for the condense command.
type CondenseOptions struct {
	*RootOptions
	Output  string
	Compact bool
}

// Component is one collapsed cycle.
type Component struct {
	ID      string   `json:"id"`
	Members []string `json:"members"`
}

// CondenseResult reports what condensation did.
type CondenseResult struct {
	Condensed   bool            `json:"condensed"`
	Nodes       int             `json:"nodes"`
	Edges       int             `json:"edges"`
	Components  []Component     `json:"components"`
	Fingerprint string          `json:"fingerprint"`
	OutputFile  string          `json:"output_file,omitempty"`
	Program     json.RawMessage `json:"program,omitempty"`
}

// NewCondenseCommand creates the condense command.
func NewCondenseCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CondenseOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "condense [path|-]",
		Short: "Collapse cycles into single nodes",
		Long: `Compile and validate an adapter document, then collapse every cycle
into one node of kind scc named scc_<n>.

Reports the collapsed components. The condensed IR (always the compact shape)
is written with --output.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCondense(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the condensed IR to this file")
	cmd.Flags().BoolVar(&opts.Compact, "compact", false, "compile to the compact shape and skip the schema check")

	return cmd
}

func runCondense(opts *CondenseOptions, args []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	content, _, err := readInput(cmd, args)
	if err != nil {
		return formatter.fail(ExitFailure, ErrCodeInput, err)
	}
	s, err := opts.resolveSchema()
	if err != nil {
		return formatter.fail(ExitFailure, ErrCodeSchemaLoad, err)
	}

	res, err := pipeline.Run(cmd.Context(), content, pipeline.Options{
		Compact:  boolFlag(cmd, "compact", opts.Compact, opts.Config().Compact),
		Condense: true,
		Schema:   s,
		Output:   pipeline.OutputIR,
	})
	if err != nil {
		return formatter.failRun(err)
	}
	if res.Empty {
		return outputEmpty(formatter, res)
	}

	g := res.Program.Graph()
	result := CondenseResult{
		Condensed:   res.Condensed,
		Nodes:       len(g.Nodes),
		Edges:       g.EdgeCount(),
		Components:  []Component{},
		Fingerprint: res.Fingerprint,
	}
	if res.Condensed {
		result.Components = components(g)
	}

	if opts.Output != "" {
		if err := writeOutput(cmd, opts.Output, res.Output); err != nil {
			return formatter.fail(pipeline.ExitRender, ErrCodeWriteFailed, err)
		}
		result.OutputFile = opts.Output
	}

	if formatter.Format == "json" {
		if result.OutputFile == "" {
			result.Program = res.Output
		}
		return formatter.Success(result)
	}

	w := formatter.Writer
	if !result.Condensed {
		printInfo(w, "No cycles, graph is unchanged")
	} else {
		printSuccess(w, "Condensed %d cycle(s)", len(result.Components))
		for _, c := range result.Components {
			printDetail(w, "%s %s %v", c.ID, iconArrow, c.Members)
		}
	}
	printStats(w, result.Nodes, result.Edges)
	if result.OutputFile != "" {
		printFile(w, result.OutputFile)
	}
	return nil
}

// components lists the scc nodes of g in node order.
func components(g *ir.IR) []Component {
	out := []Component{}
	for _, n := range g.Nodes {
		if n.Kind == ir.KindSCC {
			out = append(out, Component{ID: n.ID, Members: n.Members})
		}
	}
	return out
}
