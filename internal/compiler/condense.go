package compiler

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/roach88/flo/internal/ir"
)

// SCCPrefix prefixes the ids of representative nodes.
const SCCPrefix = "scc_"

// Condense collapses every strongly connected component with more than one
// member into a single representative node of kind scc.
//
// The input is returned unchanged, as the same Program value, when no node
// has outgoing edges or when every component is a singleton. Otherwise the
// result is a new Raw program; condensation does not preserve the
// schema-aligned contract, so callers that need it must re-validate.
//
// The representative for the i-th component in Tarjan pop order is named
// scc_{i}. Its members are listed in node order, and its edges are the
// deduplicated union of its members' edges with self-loops removed. Edges
// into absorbed nodes are re-pointed at their representative. Targets that
// name no node are carried through untouched.
//
// The input graph is never modified.
func Condense(p ir.Program) (ir.Program, error) {
	g := p.Graph()
	if g == nil || !g.HasEdges() {
		return p, nil
	}

	components := StronglyConnected(g)
	index := g.NodeIndex()

	// absorbed maps member id -> representative id.
	absorbed := make(map[string]string)
	reps := make(map[string]*ir.Node)
	for i, comp := range components {
		if len(comp) < 2 {
			continue
		}
		repID := fmt.Sprintf("%s%d", SCCPrefix, i)
		members := slices.Clone(comp)
		for _, m := range members {
			if _, ok := index[m]; !ok {
				return nil, &CondenseError{NodeID: m, Message: "component member is not in the node table"}
			}
		}
		slices.SortFunc(members, func(a, b string) int { return cmp.Compare(index[a], index[b]) })
		for _, m := range members {
			absorbed[m] = repID
		}
		reps[repID] = &ir.Node{ID: repID, Kind: ir.KindSCC, Members: members}
	}
	if len(reps) == 0 {
		return p, nil
	}

	for repID := range reps {
		if _, clash := index[repID]; clash {
			if _, gone := absorbed[repID]; !gone {
				return nil, &CondenseError{NodeID: repID, Message: "representative id collides with an existing node"}
			}
		}
	}

	remap := func(target string) string {
		if rep, ok := absorbed[target]; ok {
			return rep
		}
		return target
	}

	out := &ir.IR{Name: g.Name, Lanes: g.Lanes}
	emitted := make(map[string]bool, len(reps))
	for _, n := range g.Nodes {
		repID, isMember := absorbed[n.ID]
		if !isMember {
			out.Nodes = append(out.Nodes, rewire(n, remap))
			continue
		}
		if emitted[repID] {
			continue
		}
		emitted[repID] = true
		rep := reps[repID]
		rep.Lane = sharedLane(g, index, rep.Members)
		rep.Edges = unionLinks(g, index, rep, remap)
		out.Nodes = append(out.Nodes, *rep)
	}

	return ir.Raw{IR: out}, nil
}

// rewire copies n with every link target passed through remap.
func rewire(n ir.Node, remap func(string) string) ir.Node {
	if len(n.Edges) == 0 {
		return n
	}
	edges := make([]ir.Link, len(n.Edges))
	for i, l := range n.Edges {
		l.Target = remap(l.Target)
		edges[i] = l
	}
	n.Edges = edges
	return n
}

// unionLinks merges the outgoing links of rep's members. The first link to
// reach a given target keeps its outcome and label.
func unionLinks(g *ir.IR, index map[string]int, rep *ir.Node, remap func(string) string) []ir.Link {
	var links []ir.Link
	seen := make(map[string]bool)
	for _, m := range rep.Members {
		for _, l := range g.Nodes[index[m]].Edges {
			l.Target = remap(l.Target)
			if l.Target == rep.ID || seen[l.Target] {
				continue
			}
			seen[l.Target] = true
			links = append(links, l)
		}
	}
	return links
}

// sharedLane returns the lane common to all members, or "".
func sharedLane(g *ir.IR, index map[string]int, members []string) string {
	lane := g.Nodes[index[members[0]]].Lane
	for _, m := range members[1:] {
		if g.Nodes[index[m]].Lane != lane {
			return ""
		}
	}
	return lane
}

// StronglyConnected partitions the node ids of g into strongly connected
// components using Tarjan's algorithm.
//
// Nodes are visited in node order and successors in link order; components
// are returned in pop order, which is a reverse topological order of the
// condensed graph. Link targets that name no node are ignored. When ids
// repeat, only the first node with that id contributes edges.
func StronglyConnected(g *ir.IR) [][]string {
	index := g.NodeIndex()
	graph := make(map[string][]string, len(index))
	order := make([]string, 0, len(index))
	for i, n := range g.Nodes {
		if index[n.ID] != i {
			continue
		}
		order = append(order, n.ID)
		graph[n.ID] = n.Targets()
	}
	return tarjanSCC(order, graph)
}

func tarjanSCC(order []string, graph map[string][]string) [][]string {
	var (
		index   = 0
		stack   []string
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		sccs    [][]string
	)

	var strongConnect func(string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range graph[v] {
			if _, known := graph[w]; !known {
				continue
			}
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		// v is the root of a component: pop it off the stack.
		if lowlink[v] == indices[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for _, v := range order {
		if _, visited := indices[v]; !visited {
			strongConnect(v)
		}
	}
	return sccs
}
