package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/roach88/flo/internal/ir"
)

// Style selects a DOT layout.
type Style string

const (
	StyleFlowchart Style = "flowchart"
	StyleSwimlane  Style = "swimlane"
)

// ParseStyle validates a style name. The empty string means flowchart.
func ParseStyle(s string) (Style, error) {
	switch Style(s) {
	case "", StyleFlowchart:
		return StyleFlowchart, nil
	case StyleSwimlane:
		return StyleSwimlane, nil
	default:
		return "", fmt.Errorf("unknown render style %q (want %s or %s)", s, StyleFlowchart, StyleSwimlane)
	}
}

// Options configures DOT emission.
type Options struct {
	Style Style
}

var kindAttrs = map[ir.NodeKind][]string{
	ir.KindStart:      {"shape=ellipse", "style=filled", `fillcolor="#e8f5e9"`},
	ir.KindTask:       {"shape=box", "style=rounded"},
	ir.KindDecision:   {"shape=diamond"},
	ir.KindEnd:        {"shape=ellipse", "peripheries=2"},
	ir.KindSubprocess: {"shape=box", "peripheries=2"},
	ir.KindSCC:        {"shape=box", `style="rounded,dashed"`},
}

// DOT converts p to Graphviz DOT. Output is deterministic: nodes and edges
// appear in IR order and lanes in declaration order.
func DOT(p ir.Program, opts Options) string {
	g := p.Graph()

	rankdir := "TB"
	if opts.Style == StyleSwimlane {
		rankdir = "LR"
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %q {\n", g.Name)
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir)
	buf.WriteString("  node [fontname=\"Helvetica\", fontsize=12];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=10];\n")
	buf.WriteString("\n")

	if opts.Style == StyleSwimlane {
		writeLanes(&buf, g)
	} else {
		for _, n := range g.Nodes {
			writeNode(&buf, n, "  ")
		}
	}

	if g.HasEdges() {
		buf.WriteString("\n")
	}
	for _, n := range g.Nodes {
		for _, l := range n.Edges {
			if label := edgeLabel(l); label != "" {
				fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", n.ID, l.Target, label)
			} else {
				fmt.Fprintf(&buf, "  %q -> %q;\n", n.ID, l.Target)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// writeLanes emits one cluster per lane. Declared lanes come first in
// declaration order, then lanes only referenced by nodes in order of first
// use. Nodes without a lane are emitted after the clusters.
func writeLanes(buf *bytes.Buffer, g *ir.IR) {
	names := make(map[string]string, len(g.Lanes))
	var order []string
	for _, l := range g.Lanes {
		if _, dup := names[l.ID]; dup {
			continue
		}
		names[l.ID] = l.Name
		order = append(order, l.ID)
	}

	members := make(map[string][]ir.Node)
	var unlaned []ir.Node
	for _, n := range g.Nodes {
		if n.Lane == "" {
			unlaned = append(unlaned, n)
			continue
		}
		if _, known := names[n.Lane]; !known {
			names[n.Lane] = n.Lane
			order = append(order, n.Lane)
		}
		members[n.Lane] = append(members[n.Lane], n)
	}

	for _, id := range order {
		fmt.Fprintf(buf, "  subgraph %q {\n", "cluster_"+id)
		fmt.Fprintf(buf, "    label=%q;\n", names[id])
		for _, n := range members[id] {
			writeNode(buf, n, "    ")
		}
		buf.WriteString("  }\n")
	}
	for _, n := range unlaned {
		writeNode(buf, n, "  ")
	}
}

func writeNode(buf *bytes.Buffer, n ir.Node, indent string) {
	attrs := []string{fmt.Sprintf("label=%q", nodeLabel(n))}
	if extra, ok := kindAttrs[n.Kind]; ok {
		attrs = append(attrs, extra...)
	} else {
		attrs = append(attrs, "shape=box")
	}
	fmt.Fprintf(buf, "%s%q [%s];\n", indent, n.ID, strings.Join(attrs, ", "))
}

func nodeLabel(n ir.Node) string {
	label := n.ID
	if n.Name != "" {
		label = n.Name
	}
	if len(n.Members) > 0 {
		label += "\n" + strings.Join(n.Members, ", ")
	}
	return label
}

func edgeLabel(l ir.Link) string {
	switch {
	case l.Outcome != "" && l.Label != "":
		return l.Outcome + ": " + l.Label
	case l.Outcome != "":
		return l.Outcome
	default:
		return l.Label
	}
}
