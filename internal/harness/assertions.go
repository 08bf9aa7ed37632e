package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/flo/internal/ir"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
	Nodes    []string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	if len(e.Nodes) > 0 {
		fmt.Fprintf(&buf, "\n  Nodes: %s", strings.Join(e.Nodes, ", "))
	}
	return buf.String()
}

// EvaluateAssertions runs every assertion and returns the failures as
// messages. g may be nil when the pipeline failed; graph assertions then
// fail.
func EvaluateAssertions(g *ir.IR, output []byte, assertions []Assertion) []string {
	var errs []string
	for _, a := range assertions {
		if err := evaluate(g, output, a); err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

func evaluate(g *ir.IR, output []byte, a Assertion) error {
	if a.Type == AssertOutputContains {
		return assertOutputContains(output, a)
	}
	if g == nil {
		return &AssertionError{Type: a.Type, Expected: "a compiled graph", Actual: "pipeline failed"}
	}

	switch a.Type {
	case AssertNodeCount:
		return assertNodeCount(g, a)
	case AssertNodeExists:
		return assertNodeExists(g, a)
	case AssertNodeAbsent:
		return assertNodeAbsent(g, a)
	case AssertMembers:
		return assertMembers(g, a)
	case AssertEdge:
		return assertEdge(g, a)
	case AssertNoEdge:
		return assertNoEdge(g, a)
	default:
		return fmt.Errorf("unknown assertion type: %s", a.Type)
	}
}

func nodeIDs(g *ir.IR) []string {
	ids := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		ids[i] = n.ID
	}
	return ids
}

func findNode(g *ir.IR, id string) (ir.Node, bool) {
	if i, ok := g.NodeIndex()[id]; ok {
		return g.Nodes[i], true
	}
	return ir.Node{}, false
}

func assertNodeCount(g *ir.IR, a Assertion) error {
	if len(g.Nodes) == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertNodeCount,
		Expected: fmt.Sprintf("%d nodes", a.Count),
		Actual:   fmt.Sprintf("%d nodes", len(g.Nodes)),
		Nodes:    nodeIDs(g),
	}
}

func assertNodeExists(g *ir.IR, a Assertion) error {
	n, ok := findNode(g, a.Node)
	if !ok {
		return &AssertionError{
			Type:     AssertNodeExists,
			Expected: fmt.Sprintf("node %s", a.Node),
			Actual:   "not found",
			Nodes:    nodeIDs(g),
		}
	}
	if a.Kind != "" && string(n.Kind) != a.Kind {
		return &AssertionError{
			Type:     AssertNodeExists,
			Expected: fmt.Sprintf("node %s of kind %s", a.Node, a.Kind),
			Actual:   fmt.Sprintf("kind %s", n.Kind),
		}
	}
	return nil
}

func assertNodeAbsent(g *ir.IR, a Assertion) error {
	if _, ok := findNode(g, a.Node); !ok {
		return nil
	}
	return &AssertionError{
		Type:     AssertNodeAbsent,
		Expected: fmt.Sprintf("no node %s", a.Node),
		Actual:   "found",
	}
}

// assertMembers compares member sets; order is not significant.
func assertMembers(g *ir.IR, a Assertion) error {
	n, ok := findNode(g, a.Node)
	if !ok {
		return &AssertionError{
			Type:     AssertMembers,
			Expected: fmt.Sprintf("node %s with members %v", a.Node, a.Members),
			Actual:   "node not found",
			Nodes:    nodeIDs(g),
		}
	}

	want := slices.Sorted(slices.Values(a.Members))
	got := slices.Sorted(slices.Values(n.Members))
	if slices.Equal(want, got) {
		return nil
	}
	return &AssertionError{
		Type:     AssertMembers,
		Expected: fmt.Sprintf("members %v", want),
		Actual:   fmt.Sprintf("members %v", got),
	}
}

func findLink(g *ir.IR, from, to string) (ir.Link, bool, error) {
	n, ok := findNode(g, from)
	if !ok {
		return ir.Link{}, false, &AssertionError{
			Type:     "edge",
			Expected: fmt.Sprintf("node %s", from),
			Actual:   "not found",
			Nodes:    nodeIDs(g),
		}
	}
	for _, l := range n.Edges {
		if l.Target == to {
			return l, true, nil
		}
	}
	return ir.Link{}, false, nil
}

func assertEdge(g *ir.IR, a Assertion) error {
	l, ok, err := findLink(g, a.From, a.To)
	if err != nil {
		return err
	}
	if !ok {
		return &AssertionError{
			Type:     AssertEdge,
			Expected: fmt.Sprintf("edge %s -> %s", a.From, a.To),
			Actual:   "not found",
		}
	}
	if a.Outcome != "" && l.Outcome != a.Outcome {
		return &AssertionError{
			Type:     AssertEdge,
			Expected: fmt.Sprintf("edge %s -> %s with outcome %q", a.From, a.To, a.Outcome),
			Actual:   fmt.Sprintf("outcome %q", l.Outcome),
		}
	}
	return nil
}

func assertNoEdge(g *ir.IR, a Assertion) error {
	_, ok, err := findLink(g, a.From, a.To)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	return &AssertionError{
		Type:     AssertNoEdge,
		Expected: fmt.Sprintf("no edge %s -> %s", a.From, a.To),
		Actual:   "found",
	}
}

func assertOutputContains(output []byte, a Assertion) error {
	if strings.Contains(string(output), a.Text) {
		return nil
	}
	return &AssertionError{
		Type:     AssertOutputContains,
		Expected: fmt.Sprintf("output containing %q", a.Text),
		Actual:   fmt.Sprintf("%d bytes without it", len(output)),
	}
}
