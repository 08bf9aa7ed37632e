package testutil

import "github.com/roach88/flo/internal/ir"

// Node builds a node of the given kind linked to targets without outcomes.
func Node(id string, kind ir.NodeKind, targets ...string) ir.Node {
	n := ir.Node{ID: id, Kind: kind}
	for _, t := range targets {
		n.Edges = append(n.Edges, ir.Link{Target: t})
	}
	return n
}

// Task is shorthand for Node(id, ir.KindTask, targets...).
func Task(id string, targets ...string) ir.Node {
	return Node(id, ir.KindTask, targets...)
}

// Decision builds a decision node whose links carry outcomes. outcomes maps
// pairs of (outcome, target) in order: Decision("d", "yes", "a", "no", "b").
func Decision(id string, outcomeTargets ...string) ir.Node {
	n := ir.Node{ID: id, Kind: ir.KindDecision}
	for i := 0; i+1 < len(outcomeTargets); i += 2 {
		n.Edges = append(n.Edges, ir.Link{Outcome: outcomeTargets[i], Target: outcomeTargets[i+1]})
	}
	return n
}

// Graph builds an IR named name.
func Graph(name string, nodes ...ir.Node) *ir.IR {
	return &ir.IR{Name: name, Nodes: nodes}
}

// Aligned wraps a new graph as a schema-aligned program.
func Aligned(name string, nodes ...ir.Node) ir.Aligned {
	return ir.Aligned{IR: Graph(name, nodes...)}
}

// Raw wraps a new graph as a raw program.
func Raw(name string, nodes ...ir.Node) ir.Raw {
	return ir.Raw{IR: Graph(name, nodes...)}
}

// Linear builds start -> n1 -> ... -> end, a graph every check accepts.
func Linear(name string, tasks ...string) ir.Aligned {
	ids := append([]string{"start"}, tasks...)
	ids = append(ids, "end")

	nodes := make([]ir.Node, len(ids))
	for i, id := range ids {
		kind := ir.KindTask
		switch i {
		case 0:
			kind = ir.KindStart
		case len(ids) - 1:
			kind = ir.KindEnd
		}
		if i+1 < len(ids) {
			nodes[i] = Node(id, kind, ids[i+1])
		} else {
			nodes[i] = Node(id, kind)
		}
	}
	return Aligned(name, nodes...)
}
