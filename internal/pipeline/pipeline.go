package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/roach88/flo/internal/adapter"
	"github.com/roach88/flo/internal/compiler"
	"github.com/roach88/flo/internal/ir"
	"github.com/roach88/flo/internal/render"
	"github.com/roach88/flo/internal/schema"
)

// Output selects what Run emits after the last stage.
type Output string

const (
	OutputNone Output = ""
	OutputIR   Output = "ir"
	OutputDOT  Output = "dot"
	OutputSVG  Output = "svg"
)

// IDGenerator stamps each run with an id.
type IDGenerator interface {
	NewID() string
}

type uuidGenerator struct{}

func (uuidGenerator) NewID() string { return uuid.NewString() }

// Options configures Run.
type Options struct {
	// Compact compiles to a Raw program and skips the schema stage.
	Compact bool
	// Condense collapses cycles before output.
	Condense bool
	// Schema is used for the schema stage; nil means the embedded default.
	Schema *schema.Schema
	// Output selects the emitted artifact.
	Output Output
	// Style is the DOT layout for OutputDOT and OutputSVG.
	Style render.Style
	// IDs generates run ids; nil means random UUIDs.
	IDs IDGenerator
}

// Result is the outcome of a successful run.
type Result struct {
	RunID string `json:"run_id"`
	// Empty is set when the input had no content; nothing else is set.
	Empty       bool                  `json:"empty,omitempty"`
	Program     ir.Program            `json:"-"`
	Condensed   bool                  `json:"condensed"`
	Fingerprint string                `json:"fingerprint,omitempty"`
	Advisories  []compiler.Diagnostic `json:"advisories,omitempty"`
	Output      []byte                `json:"-"`
}

// Run executes every stage over content. Blank input is not an error: it
// yields a Result with Empty set.
func Run(ctx context.Context, content string, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ids := opts.IDs
	if ids == nil {
		ids = uuidGenerator{}
	}
	res := &Result{RunID: ids.NewID()}
	logger := LoggerFrom(ctx).With("run", shortID(res.RunID))

	t := startStage(logger, StageParse)
	doc, err := adapter.Parse(content)
	if errors.Is(err, adapter.ErrEmpty) {
		logger.Warn("input is empty, nothing to do")
		res.Empty = true
		return res, nil
	}
	if err != nil {
		return nil, &StageError{Stage: StageParse, Err: err}
	}
	t.done()

	t = startStage(logger, StageCompile)
	var copts []compiler.Option
	if opts.Compact {
		copts = append(copts, compiler.WithCompact())
	}
	p, err := compiler.Compile(doc, copts...)
	if err != nil {
		return nil, &StageError{Stage: StageCompile, Err: err}
	}
	t.done("name", p.Graph().Name, "nodes", len(p.Graph().Nodes),
		"edges", p.Graph().EdgeCount(), "aligned", p.SchemaAligned())

	t = startStage(logger, StageStructure)
	if err := compiler.ValidateStructure(p); err != nil {
		return nil, &StageError{Stage: StageStructure, Err: err}
	}
	for _, d := range compiler.Diagnose(p) {
		if !d.Fatal() {
			res.Advisories = append(res.Advisories, d)
			logger.Warn(d.Message, "code", d.Code, "node", d.NodeID)
		}
	}
	t.done("advisories", len(res.Advisories))

	if p.SchemaAligned() {
		t = startStage(logger, StageSchema)
		if err := compiler.ValidateSchema(p, opts.Schema); err != nil {
			return nil, &StageError{Stage: StageSchema, Err: err}
		}
		t.done()
	} else {
		logger.Debug("schema check skipped for compact program")
	}

	if opts.Condense {
		t = startStage(logger, StageCondense)
		p, res.Condensed = condense(logger, p)
		t.done("condensed", res.Condensed)
	}
	res.Program = p

	if res.Fingerprint, err = ir.Fingerprint(p); err != nil {
		return nil, fmt.Errorf("fingerprint: %w", err)
	}

	if opts.Output != OutputNone {
		t = startStage(logger, StageRender)
		if res.Output, err = emit(ctx, p, opts); err != nil {
			return nil, &StageError{Stage: StageRender, Err: err}
		}
		t.done("output", string(opts.Output), "bytes", len(res.Output))
	}

	return res, nil
}

// condense runs the condenser and falls back to p on any error.
func condense(logger *log.Logger, p ir.Program) (ir.Program, bool) {
	out, err := compiler.Condense(p)
	if err != nil {
		logger.Warn("condensation skipped", "err", err)
		return p, false
	}
	if ir.Same(out, p) {
		logger.Debug("condense: graph is already acyclic")
		return p, false
	}
	logger.Debug("condense", "nodes_before", len(p.Graph().Nodes), "nodes_after", len(out.Graph().Nodes))
	return out, true
}

func emit(ctx context.Context, p ir.Program, opts Options) ([]byte, error) {
	switch opts.Output {
	case OutputIR:
		return ir.MarshalIndent(p)
	case OutputDOT:
		return []byte(render.DOT(p, render.Options{Style: opts.Style})), nil
	case OutputSVG:
		return render.SVG(ctx, render.DOT(p, render.Options{Style: opts.Style}))
	default:
		return nil, fmt.Errorf("unknown output %q", opts.Output)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
