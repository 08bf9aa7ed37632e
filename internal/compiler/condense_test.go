package compiler

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/flo/internal/ir"
	"github.com/roach88/flo/internal/testutil"
)

// TestCondense_NoEdgesIsIdentity verifies a graph without adjacency comes
// back as the same program.
func TestCondense_NoEdgesIsIdentity(t *testing.T) {
	p := testutil.Aligned("p", testutil.Task("a"), testutil.Task("b"))

	out, err := Condense(p)
	require.NoError(t, err)
	assert.True(t, ir.Same(p, out))
	assert.True(t, out.SchemaAligned(), "identity keeps the contract")
}

// TestCondense_AcyclicIsIdentity verifies a DAG comes back unchanged.
func TestCondense_AcyclicIsIdentity(t *testing.T) {
	p := testutil.Aligned("p",
		testutil.Task("a", "b", "c"),
		testutil.Task("b", "d"),
		testutil.Task("c", "d"),
		testutil.Task("d"),
	)

	out, err := Condense(p)
	require.NoError(t, err)
	assert.True(t, ir.Same(p, out))
}

// TestCondense_SelfLoopIsIdentity verifies a singleton with a self-loop is
// not a multi-member component.
func TestCondense_SelfLoopIsIdentity(t *testing.T) {
	p := testutil.Aligned("p", testutil.Task("a", "a"))

	out, err := Condense(p)
	require.NoError(t, err)
	assert.True(t, ir.Same(p, out))
}

// TestCondense_TwoNodeCycle verifies a -> b -> a collapses into a single
// representative with no edges.
func TestCondense_TwoNodeCycle(t *testing.T) {
	p, err := Compile(map[string]any{
		"name": "p",
		"nodes": []any{
			map[string]any{"id": "a", "kind": "task", "attrs": map[string]any{"edges": []any{"b"}}},
			map[string]any{"id": "b", "kind": "task", "attrs": map[string]any{"edges": []any{"a"}}},
		},
	})
	require.NoError(t, err)

	out, err := Condense(p)
	require.NoError(t, err)
	assert.False(t, out.SchemaAligned())

	g := out.Graph()
	assert.Equal(t, "p", g.Name)
	require.Len(t, g.Nodes, 1)
	n := g.Nodes[0]
	assert.True(t, strings.HasPrefix(n.ID, SCCPrefix))
	assert.Equal(t, ir.KindSCC, n.Kind)
	assert.ElementsMatch(t, []string{"a", "b"}, n.Members)
	assert.Empty(t, n.Edges)
}

// TestCondense_RewiresSurroundingNodes verifies edges into and out of a
// cycle are re-pointed at the representative.
func TestCondense_RewiresSurroundingNodes(t *testing.T) {
	p := testutil.Aligned("p",
		testutil.Node("s", ir.KindStart, "a"),
		testutil.Task("a", "b"),
		testutil.Task("b", "c", "e"),
		testutil.Task("c", "a", "e"),
		testutil.Node("e", ir.KindEnd),
	)

	out, err := Condense(p)
	require.NoError(t, err)

	g := out.Graph()
	require.Len(t, g.Nodes, 3)
	assert.Equal(t, "s", g.Nodes[0].ID)
	assert.Equal(t, "e", g.Nodes[2].ID)

	rep := g.Nodes[1]
	assert.Equal(t, ir.KindSCC, rep.Kind)
	assert.Equal(t, []string{"a", "b", "c"}, rep.Members, "members follow node order")
	assert.Equal(t, []string{"e"}, rep.Targets(), "union is deduplicated and excludes self-loops")
	assert.Equal(t, []string{rep.ID}, g.Nodes[0].Targets())

	// The input graph is untouched.
	assert.Len(t, p.Graph().Nodes, 5)
	assert.Equal(t, []string{"a"}, p.Graph().Nodes[0].Targets())
}

// TestCondense_ComponentNamesFollowPopOrder verifies scc ids are indexed by
// Tarjan pop order, singletons included.
func TestCondense_ComponentNamesFollowPopOrder(t *testing.T) {
	// Pop order: {d,c}, then b, then {a, x}.
	p := testutil.Aligned("p",
		testutil.Task("a", "x"),
		testutil.Task("x", "a", "b"),
		testutil.Task("b", "c"),
		testutil.Task("c", "d"),
		testutil.Task("d", "c"),
	)

	comps := StronglyConnected(p.Graph())
	require.Len(t, comps, 3)
	assert.ElementsMatch(t, []string{"c", "d"}, comps[0])
	assert.Equal(t, []string{"b"}, comps[1])
	assert.ElementsMatch(t, []string{"a", "x"}, comps[2])

	out, err := Condense(p)
	require.NoError(t, err)

	ids := make([]string, 0)
	for _, n := range out.Graph().Nodes {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{"scc_2", "b", "scc_0"}, ids)
	assert.Equal(t, []string{"b"}, out.Graph().Nodes[0].Targets())
	assert.Equal(t, []string{"scc_0"}, out.Graph().Nodes[1].Targets())
}

// TestCondense_KeepsFirstOutcome verifies a representative edge keeps the
// outcome and label of the first member edge that reached the target.
func TestCondense_KeepsFirstOutcome(t *testing.T) {
	p := testutil.Raw("p",
		testutil.Decision("a", "loop", "b", "exit", "z"),
		ir.Node{ID: "b", Kind: ir.KindTask, Edges: []ir.Link{{Target: "a"}, {Target: "z", Label: "late"}}},
		testutil.Task("z"),
	)

	out, err := Condense(p)
	require.NoError(t, err)

	rep := out.Graph().Nodes[0]
	assert.Equal(t, []ir.Link{{Target: "z", Outcome: "exit"}}, rep.Edges)
}

// TestCondense_UnknownTargetsPassThrough verifies dangling targets are
// neither dropped nor treated as nodes.
func TestCondense_UnknownTargetsPassThrough(t *testing.T) {
	p := testutil.Aligned("p",
		testutil.Task("a", "b", "ghost"),
		testutil.Task("b", "a"),
	)

	out, err := Condense(p)
	require.NoError(t, err)
	require.Len(t, out.Graph().Nodes, 1)
	assert.Equal(t, []string{"ghost"}, out.Graph().Nodes[0].Targets())
}

// TestCondense_SharedLane verifies a representative inherits a lane only
// when all members agree.
func TestCondense_SharedLane(t *testing.T) {
	a := testutil.Task("a", "b")
	b := testutil.Task("b", "a")
	a.Lane, b.Lane = "ops", "ops"

	out, err := Condense(testutil.Aligned("p", a, b))
	require.NoError(t, err)
	assert.Equal(t, "ops", out.Graph().Nodes[0].Lane)

	b.Lane = "finance"
	out, err = Condense(testutil.Aligned("p", a, b))
	require.NoError(t, err)
	assert.Empty(t, out.Graph().Nodes[0].Lane)
}

// TestCondense_Idempotent verifies condensing a condensed graph is the
// identity.
func TestCondense_Idempotent(t *testing.T) {
	p := testutil.Aligned("p",
		testutil.Node("s", ir.KindStart, "a"),
		testutil.Task("a", "b"),
		testutil.Task("b", "a", "c"),
		testutil.Task("c", "d"),
		testutil.Task("d", "c"),
	)

	once, err := Condense(p)
	require.NoError(t, err)
	require.False(t, ir.Same(p, once))

	twice, err := Condense(once)
	require.NoError(t, err)
	assert.True(t, ir.Same(once, twice))
}

// TestCondense_IDCollision verifies a representative id clashing with an
// existing node is reported as a CondenseError.
func TestCondense_IDCollision(t *testing.T) {
	p := testutil.Aligned("p",
		testutil.Task("a", "b"),
		testutil.Task("b", "a"),
		testutil.Task("scc_0"),
	)

	_, err := Condense(p)
	require.Error(t, err)

	var ce *CondenseError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "scc_0", ce.NodeID)
	assert.ErrorIs(t, err, ErrCondense)
}

// TestCondense_StructurallyValidOutput verifies condensation output passes
// structural validation when its input did.
func TestCondense_StructurallyValidOutput(t *testing.T) {
	p := testutil.Aligned("p",
		testutil.Node("s", ir.KindStart, "a"),
		testutil.Task("a", "b"),
		testutil.Task("b", "a", "e"),
		testutil.Node("e", ir.KindEnd),
	)
	require.NoError(t, ValidateStructure(p))

	out, err := Condense(p)
	require.NoError(t, err)
	assert.NoError(t, ValidateStructure(out))
}
