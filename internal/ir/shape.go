package ir

import (
	"encoding/json"
	"fmt"
	"maps"
)

// DefaultProcessID is used for process.id and process.name when the IR has
// no name.
const DefaultProcessID = "generated"

// CompactNode is a node in the minimal {name, nodes} shape.
type CompactNode struct {
	ID    string         `json:"id"`
	Type  string         `json:"type"`
	Attrs map[string]any `json:"attrs"`
}

// CompactDocument is the minimal serialized shape of an IR.
type CompactDocument struct {
	Name  string        `json:"name"`
	Nodes []CompactNode `json:"nodes"`
}

// SchemaProcess is the process header of the schema-aligned shape.
type SchemaProcess struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SchemaNode is a node in the schema-aligned shape.
type SchemaNode struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
	Name string `json:"name,omitempty"`
	Lane string `json:"lane,omitempty"`
}

// SchemaEdge is an edge in the schema-aligned shape.
type SchemaEdge struct {
	ID      string `json:"id"`
	Source  string `json:"source"`
	Target  string `json:"target"`
	Outcome string `json:"outcome,omitempty"`
	Label   string `json:"label,omitempty"`
}

// SchemaDocument is the {process, nodes, edges} shape validated against the
// JSON Schema.
type SchemaDocument struct {
	Process SchemaProcess `json:"process"`
	Nodes   []SchemaNode  `json:"nodes"`
	Edges   []SchemaEdge  `json:"edges"`
	Lanes   []Lane        `json:"lanes,omitempty"`
}

// ToCompact converts g to the minimal shape. Typed adjacency and SCC members
// are folded back into attrs as "edges" and "members".
func ToCompact(g *IR) CompactDocument {
	doc := CompactDocument{
		Name:  g.Name,
		Nodes: make([]CompactNode, 0, len(g.Nodes)),
	}
	for _, n := range g.Nodes {
		attrs := make(map[string]any, len(n.Attributes)+2)
		maps.Copy(attrs, n.Attributes)
		if n.Name != "" {
			if _, ok := attrs["name"]; !ok {
				attrs["name"] = n.Name
			}
		}
		if n.Lane != "" {
			if _, ok := attrs["lane"]; !ok {
				attrs["lane"] = n.Lane
			}
		}
		if len(n.Edges) > 0 {
			targets := make([]any, len(n.Edges))
			for i, l := range n.Edges {
				targets[i] = l.Target
			}
			attrs["edges"] = targets
		}
		if len(n.Members) > 0 {
			members := make([]any, len(n.Members))
			for i, m := range n.Members {
				members[i] = m
			}
			attrs["members"] = members
		}
		doc.Nodes = append(doc.Nodes, CompactNode{ID: n.ID, Type: string(n.Kind), Attrs: attrs})
	}
	return doc
}

// ToSchema converts g to the schema-aligned shape. Edge ids are assigned as
// e_{i} in node order, then link order.
func ToSchema(g *IR) SchemaDocument {
	procID := g.Name
	if procID == "" {
		procID = DefaultProcessID
	}

	doc := SchemaDocument{
		Process: SchemaProcess{ID: procID, Name: procID},
		Nodes:   make([]SchemaNode, 0, len(g.Nodes)),
		Edges:   make([]SchemaEdge, 0, g.EdgeCount()),
		Lanes:   g.Lanes,
	}
	for _, n := range g.Nodes {
		doc.Nodes = append(doc.Nodes, SchemaNode{
			ID:   n.ID,
			Kind: string(n.Kind),
			Name: n.Name,
			Lane: n.Lane,
		})
		for _, l := range n.Edges {
			doc.Edges = append(doc.Edges, SchemaEdge{
				ID:      fmt.Sprintf("e_%d", len(doc.Edges)),
				Source:  n.ID,
				Target:  l.Target,
				Outcome: l.Outcome,
				Label:   l.Label,
			})
		}
	}
	return doc
}

// Document returns the serialized shape p promises: SchemaDocument for
// Aligned programs, CompactDocument otherwise.
func Document(p Program) any {
	if p.SchemaAligned() {
		return ToSchema(p.Graph())
	}
	return ToCompact(p.Graph())
}

// MarshalIndent serializes p in the shape it promises, indented for humans.
// Canonical bytes for hashing come from MarshalCanonical instead.
func MarshalIndent(p Program) ([]byte, error) {
	data, err := json.MarshalIndent(Document(p), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling IR: %w", err)
	}
	return data, nil
}
