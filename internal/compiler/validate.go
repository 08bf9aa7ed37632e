package compiler

import (
	"fmt"

	"github.com/roach88/flo/internal/ir"
)

// Diagnostic codes. V2xx come from the structural check, V3xx from the
// schema check.
const (
	CodeEmptyGraph      = "V201" // no nodes
	CodeDuplicateID     = "V202" // two nodes share an id
	CodeDanglingEdge    = "V203" // edge endpoint is not a node id
	CodeDecisionNoEdges = "V204" // decision node has no outgoing edges
	CodeMissingOutcome  = "V205" // decision edge has no outcome
	CodeNoStart         = "V206" // no start node (advisory)

	CodeNotAligned      = "V301" // schema check on a Raw program
	CodeSchemaViolation = "V302" // document does not conform to the schema
)

// Severity separates failures from advisories.
type Severity string

const (
	SeverityError    Severity = "error"
	SeverityAdvisory Severity = "advisory"
)

// Diagnostic is a single validation finding.
type Diagnostic struct {
	Code     string   `json:"code"`
	Severity Severity `json:"severity"`
	Field    string   `json:"field,omitempty"`
	NodeID   string   `json:"node,omitempty"`
	Message  string   `json:"message"`
}

// Fatal reports whether d fails validation.
func (d Diagnostic) Fatal() bool { return d.Severity == SeverityError }

func (d Diagnostic) String() string {
	if d.Field == "" {
		return fmt.Sprintf("[%s] %s", d.Code, d.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", d.Code, d.Field, d.Message)
}

// ValidateStructure checks the graph invariants of p and returns a
// *ValidationError listing every fatal diagnostic, or nil.
// Advisories never fail validation; use Diagnose to see them.
func ValidateStructure(p ir.Program) error {
	var fatal []Diagnostic
	for _, d := range Diagnose(p) {
		if d.Fatal() {
			fatal = append(fatal, d)
		}
	}
	if len(fatal) == 0 {
		return nil
	}
	return &ValidationError{Check: CheckStructure, Diagnostics: fatal}
}

// Diagnose runs the structural checks and returns every finding, fatal
// and advisory, in node order. It does not fail fast.
//
// A missing outcome on a decision edge is fatal for schema-aligned programs
// and advisory for raw ones.
func Diagnose(p ir.Program) []Diagnostic {
	g := p.Graph()
	if g == nil || len(g.Nodes) == 0 {
		return []Diagnostic{{
			Code:     CodeEmptyGraph,
			Severity: SeverityError,
			Field:    "nodes",
			Message:  "at least one node is required",
		}}
	}

	var diags []Diagnostic
	index := g.NodeIndex()

	// V202: report each duplicated id once, at its second occurrence.
	reported := make(map[string]bool)
	for i, n := range g.Nodes {
		if index[n.ID] != i && !reported[n.ID] {
			reported[n.ID] = true
			diags = append(diags, Diagnostic{
				Code:     CodeDuplicateID,
				Severity: SeverityError,
				Field:    fmt.Sprintf("nodes[%d].id", i),
				NodeID:   n.ID,
				Message:  fmt.Sprintf("duplicate node id %q (first defined at nodes[%d])", n.ID, index[n.ID]),
			})
		}
	}

	outcomeSeverity := SeverityAdvisory
	if p.SchemaAligned() {
		outcomeSeverity = SeverityError
	}

	hasStart := false
	for i, n := range g.Nodes {
		if n.Kind == ir.KindStart {
			hasStart = true
		}

		for j, l := range n.Edges {
			if _, ok := index[l.Target]; !ok {
				diags = append(diags, Diagnostic{
					Code:     CodeDanglingEdge,
					Severity: SeverityError,
					Field:    fmt.Sprintf("nodes[%d].edges[%d].target", i, j),
					NodeID:   n.ID,
					Message:  fmt.Sprintf("edge %s -> %s references unknown node %q", n.ID, l.Target, l.Target),
				})
			}
		}

		if n.Kind != ir.KindDecision {
			continue
		}
		if len(n.Edges) == 0 {
			diags = append(diags, Diagnostic{
				Code:     CodeDecisionNoEdges,
				Severity: SeverityError,
				Field:    fmt.Sprintf("nodes[%d].edges", i),
				NodeID:   n.ID,
				Message:  fmt.Sprintf("decision node %q has no outgoing edges", n.ID),
			})
			continue
		}
		for j, l := range n.Edges {
			if l.Outcome == "" {
				diags = append(diags, Diagnostic{
					Code:     CodeMissingOutcome,
					Severity: outcomeSeverity,
					Field:    fmt.Sprintf("nodes[%d].edges[%d].outcome", i, j),
					NodeID:   n.ID,
					Message:  fmt.Sprintf("edge %s -> %s from decision node has no outcome", n.ID, l.Target),
				})
			}
		}
	}

	if !hasStart {
		diags = append(diags, Diagnostic{
			Code:     CodeNoStart,
			Severity: SeverityAdvisory,
			Field:    "nodes",
			Message:  "no start node found (recommended)",
		})
	}
	return diags
}
