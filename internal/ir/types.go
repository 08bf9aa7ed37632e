package ir

// NodeKind classifies a node in the process graph.
type NodeKind string

// Node kinds accepted by the schema-aligned contract.
const (
	KindStart      NodeKind = "start"
	KindTask       NodeKind = "task"
	KindDecision   NodeKind = "decision"
	KindEnd        NodeKind = "end"
	KindSubprocess NodeKind = "subprocess"
)

// KindSCC marks a synthetic node standing in for a condensed cycle.
// It is never produced by the compiler and is not a schema kind.
const KindSCC NodeKind = "scc"

// ValidNodeKinds defines the kinds the compiler treats as well known.
var ValidNodeKinds = map[NodeKind]bool{
	KindStart:      true,
	KindTask:       true,
	KindDecision:   true,
	KindEnd:        true,
	KindSubprocess: true,
}

// LaneType classifies a lane.
type LaneType string

// Lane types.
const (
	LaneRole   LaneType = "role"
	LaneTeam   LaneType = "team"
	LaneSystem LaneType = "system"
)

// ValidLaneTypes defines allowed lane types. An empty type is also allowed.
var ValidLaneTypes = map[LaneType]bool{
	LaneRole:   true,
	LaneTeam:   true,
	LaneSystem: true,
}

// Link is one outgoing flow from a node.
type Link struct {
	Target  string `json:"target"`
	Outcome string `json:"outcome,omitempty"` // required on decision edges
	Label   string `json:"label,omitempty"`
}

// Node is a single step in the process graph.
type Node struct {
	ID         string         `json:"id"`
	Kind       NodeKind       `json:"kind"`
	Name       string         `json:"name,omitempty"`
	Lane       string         `json:"lane,omitempty"` // Lane.ID reference
	Attributes map[string]any `json:"attributes,omitempty"`
	Edges      []Link         `json:"edges,omitempty"`
	Members    []string       `json:"members,omitempty"` // only on KindSCC nodes
}

// Targets returns the target ids of n's outgoing links in order.
func (n Node) Targets() []string {
	targets := make([]string, len(n.Edges))
	for i, l := range n.Edges {
		targets[i] = l.Target
	}
	return targets
}

// Lane groups nodes by role, team or system. It has no effect on graph
// algorithms.
type Lane struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Type LaneType `json:"type,omitempty"`
}

// IR is the canonical process graph.
type IR struct {
	Name  string `json:"name"`
	Nodes []Node `json:"nodes"`
	Lanes []Lane `json:"lanes,omitempty"`
}

// NodeIndex maps node ids to their position in g.Nodes. When ids repeat the
// first occurrence wins.
func (g *IR) NodeIndex() map[string]int {
	idx := make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		if _, seen := idx[n.ID]; !seen {
			idx[n.ID] = i
		}
	}
	return idx
}

// HasEdges reports whether any node carries adjacency information.
func (g *IR) HasEdges() bool {
	for _, n := range g.Nodes {
		if len(n.Edges) > 0 {
			return true
		}
	}
	return false
}

// EdgeCount returns the number of outgoing links across all nodes.
func (g *IR) EdgeCount() int {
	count := 0
	for _, n := range g.Nodes {
		count += len(n.Edges)
	}
	return count
}
