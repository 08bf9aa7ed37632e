package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/flo/internal/ir"
	"github.com/roach88/flo/internal/testutil"
)

func sampleGraph() *ir.IR {
	scc := ir.Node{
		ID:      "scc_1",
		Kind:    ir.KindSCC,
		Members: []string{"review", "revise"},
		Edges:   []ir.Link{{Target: "done", Outcome: "approved"}},
	}
	return testutil.Graph("sample",
		testutil.Node("start", ir.KindStart, "scc_1"),
		scc,
		testutil.Node("done", ir.KindEnd),
	)
}

func TestEvaluateAssertions(t *testing.T) {
	g := sampleGraph()

	tests := []struct {
		name      string
		assertion Assertion
		wantErr   string
	}{
		{"count ok", Assertion{Type: AssertNodeCount, Count: 3}, ""},
		{"count wrong", Assertion{Type: AssertNodeCount, Count: 4}, "Expected: 4 nodes"},
		{"exists", Assertion{Type: AssertNodeExists, Node: "start", Kind: "start"}, ""},
		{"exists missing", Assertion{Type: AssertNodeExists, Node: "review"}, "not found"},
		{"exists wrong kind", Assertion{Type: AssertNodeExists, Node: "done", Kind: "task"}, "kind end"},
		{"absent", Assertion{Type: AssertNodeAbsent, Node: "review"}, ""},
		{"absent present", Assertion{Type: AssertNodeAbsent, Node: "done"}, "found"},
		{"members any order", Assertion{Type: AssertMembers, Node: "scc_1", Members: []string{"revise", "review"}}, ""},
		{"members wrong", Assertion{Type: AssertMembers, Node: "scc_1", Members: []string{"review"}}, "members [review]"},
		{"members no node", Assertion{Type: AssertMembers, Node: "scc_9", Members: []string{"a"}}, "node not found"},
		{"edge", Assertion{Type: AssertEdge, From: "start", To: "scc_1"}, ""},
		{"edge outcome", Assertion{Type: AssertEdge, From: "scc_1", To: "done", Outcome: "approved"}, ""},
		{"edge wrong outcome", Assertion{Type: AssertEdge, From: "scc_1", To: "done", Outcome: "rejected"}, `outcome "approved"`},
		{"edge missing", Assertion{Type: AssertEdge, From: "start", To: "done"}, "Expected: edge start -> done"},
		{"edge unknown source", Assertion{Type: AssertEdge, From: "ghost", To: "done"}, "Expected: node ghost"},
		{"no edge", Assertion{Type: AssertNoEdge, From: "start", To: "done"}, ""},
		{"no edge present", Assertion{Type: AssertNoEdge, From: "start", To: "scc_1"}, "found"},
		{"unknown type", Assertion{Type: "bogus"}, "unknown assertion type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := EvaluateAssertions(g, nil, []Assertion{tt.assertion})
			if tt.wantErr == "" {
				assert.Empty(t, errs)
				return
			}
			if assert.Len(t, errs, 1) {
				assert.Contains(t, errs[0], tt.wantErr)
			}
		})
	}
}

func TestEvaluateAssertions_OutputContains(t *testing.T) {
	a := Assertion{Type: AssertOutputContains, Text: "digraph"}

	assert.Empty(t, EvaluateAssertions(nil, []byte("digraph x {}"), []Assertion{a}))
	errs := EvaluateAssertions(nil, []byte("{}"), []Assertion{a})
	if assert.Len(t, errs, 1) {
		assert.Contains(t, errs[0], "2 bytes without it")
	}
}

// Graph assertions against a failed run report the failure instead of
// panicking on a nil graph.
func TestEvaluateAssertions_NilGraph(t *testing.T) {
	errs := EvaluateAssertions(nil, nil, []Assertion{{Type: AssertNodeCount, Count: 0}})
	if assert.Len(t, errs, 1) {
		assert.Contains(t, errs[0], "pipeline failed")
	}
}

func TestAssertionError_Format(t *testing.T) {
	err := &AssertionError{Type: "edge", Expected: "edge a -> b", Actual: "not found", Nodes: []string{"a", "c"}}
	assert.Equal(t, "Assertion failed: edge\n  Expected: edge a -> b\n  Actual: not found\n  Nodes: a, c", err.Error())
}
