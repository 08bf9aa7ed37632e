package compiler

import (
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/roach88/flo/internal/ir"
)

// DefaultName is used when the adapter document has no name.
const DefaultName = "unnamed"

// FallbackNodeID is the id of the node synthesized for documents without a
// nodes list.
const FallbackNodeID = "n1"

// Option configures Compile.
type Option func(*options)

type options struct {
	compact bool
}

// WithCompact makes Compile emit a Raw program promising only the minimal
// {name, nodes} shape. Raw programs are not eligible for schema validation.
func WithCompact() Option {
	return func(o *options) { o.compact = true }
}

// Compile maps an adapter document into a Program.
//
// The document must be a mapping. Recognized keys:
//
//	name   process name (default "unnamed")
//	nodes  list of {id?, kind|type?, attrs|attributes?, name?, lane?}
//	edges  list of {source, target, outcome?, label?}
//	lanes  list of {id, name?, type?}
//
// Per-node adjacency comes from attrs.edges: either target ids or
// {target, outcome?, label?} mappings. A non-list attrs.edges is ignored.
// Without a nodes key a single task node n1 stands in for the document.
//
// Compile performs no I/O and never mutates adapter.
func Compile(adapter any, opts ...Option) (ir.Program, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	doc, ok := adapter.(map[string]any)
	if !ok {
		return nil, &CompileError{
			Field:   "adapter",
			Message: fmt.Sprintf("expected a mapping, got %s", describe(adapter)),
		}
	}

	name, err := scalar(doc, "name", "name")
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = DefaultName
	}
	g := &ir.IR{Name: name}

	rawNodes, present := doc["nodes"]
	if !present || rawNodes == nil {
		n, err := fallbackNode(name, doc)
		if err != nil {
			return nil, err
		}
		g.Nodes = []ir.Node{n}
	} else {
		list, ok := rawNodes.([]any)
		if !ok {
			return nil, &CompileError{
				Field:   "nodes",
				Message: fmt.Sprintf("expected a list, got %s", describe(rawNodes)),
			}
		}
		g.Nodes = make([]ir.Node, 0, len(list))
		for i, entry := range list {
			n, err := compileNode(i, entry)
			if err != nil {
				return nil, err
			}
			g.Nodes = append(g.Nodes, n)
		}
	}

	if err := compileEdges(g, doc["edges"]); err != nil {
		return nil, err
	}
	if g.Lanes, err = compileLanes(doc["lanes"]); err != nil {
		return nil, err
	}

	if o.compact {
		return ir.Raw{IR: g}, nil
	}
	return ir.Aligned{IR: g}, nil
}

func fallbackNode(name string, doc map[string]any) (ir.Node, error) {
	attrs := map[string]any{"name": name}
	if content, ok := doc["content"]; ok && content != nil {
		if err := checkFinite("content", content); err != nil {
			return ir.Node{}, err
		}
		attrs["content"] = content
	}
	return ir.Node{ID: FallbackNodeID, Kind: ir.KindTask, Attributes: attrs}, nil
}

func compileNode(i int, entry any) (ir.Node, error) {
	path := fmt.Sprintf("nodes[%d]", i)
	m, ok := entry.(map[string]any)
	if !ok {
		return ir.Node{}, &CompileError{
			Field:   path,
			Message: fmt.Sprintf("expected a mapping, got %s", describe(entry)),
		}
	}

	id, err := scalar(m, "id", path+".id")
	if err != nil {
		return ir.Node{}, err
	}
	if id == "" {
		id = fmt.Sprintf("n%d", i)
	}

	kind, err := firstScalar(m, path, "kind", "type")
	if err != nil {
		return ir.Node{}, err
	}
	if kind == "" {
		kind = string(ir.KindTask)
	}

	attrs, err := nodeAttributes(m, path)
	if err != nil {
		return ir.Node{}, err
	}

	n := ir.Node{ID: id, Kind: ir.NodeKind(kind)}

	// name and lane may sit on the node or inside attrs; the node wins.
	if n.Name, err = firstScalarIn(path, "name", m, attrs); err != nil {
		return ir.Node{}, err
	}
	if n.Lane, err = firstScalarIn(path, "lane", m, attrs); err != nil {
		return ir.Node{}, err
	}

	if rawEdges, ok := attrs["edges"]; ok {
		delete(attrs, "edges")
		if list, ok := rawEdges.([]any); ok {
			for j, e := range list {
				link, err := compileLink(fmt.Sprintf("%s.attrs.edges[%d]", path, j), e)
				if err != nil {
					return ir.Node{}, err
				}
				n.Edges = append(n.Edges, link)
			}
		}
	}
	if len(attrs) > 0 {
		n.Attributes = attrs
	}
	return n, nil
}

// nodeAttributes returns a private copy of the node's attribute map so that
// later edits never reach the caller's document.
func nodeAttributes(m map[string]any, path string) (map[string]any, error) {
	for _, key := range []string{"attrs", "attributes"} {
		raw, ok := m[key]
		if !ok || raw == nil {
			continue
		}
		attrs, ok := raw.(map[string]any)
		if !ok {
			return nil, &CompileError{
				Field:   path + "." + key,
				Message: fmt.Sprintf("expected a mapping, got %s", describe(raw)),
			}
		}
		for _, k := range slices.Sorted(maps.Keys(attrs)) {
			if err := checkFinite(path+"."+key+"."+k, attrs[k]); err != nil {
				return nil, err
			}
		}
		return maps.Clone(attrs), nil
	}
	return map[string]any{}, nil
}

// checkFinite rejects NaN and infinite numbers anywhere inside v. YAML
// accepts .inf and .nan but JSON cannot represent them.
func checkFinite(path string, v any) error {
	switch val := v.(type) {
	case float64:
		if math.IsInf(val, 0) || math.IsNaN(val) {
			return &CompileError{Field: path, Message: fmt.Sprintf("non-finite number %v", val)}
		}
	case float32:
		return checkFinite(path, float64(val))
	case map[string]any:
		for _, k := range slices.Sorted(maps.Keys(val)) {
			if err := checkFinite(path+"."+k, val[k]); err != nil {
				return err
			}
		}
	case []any:
		for i, e := range val {
			if err := checkFinite(fmt.Sprintf("%s[%d]", path, i), e); err != nil {
				return err
			}
		}
	}
	return nil
}

func compileLink(path string, entry any) (ir.Link, error) {
	switch v := entry.(type) {
	case string:
		if v == "" {
			return ir.Link{}, &CompileError{Field: path, Message: "empty target"}
		}
		return ir.Link{Target: v}, nil
	case map[string]any:
		target, err := scalar(v, "target", path+".target")
		if err != nil {
			return ir.Link{}, err
		}
		if target == "" {
			return ir.Link{}, &CompileError{Field: path + ".target", Message: "target is required"}
		}
		outcome, err := scalar(v, "outcome", path+".outcome")
		if err != nil {
			return ir.Link{}, err
		}
		label, err := scalar(v, "label", path+".label")
		if err != nil {
			return ir.Link{}, err
		}
		return ir.Link{Target: target, Outcome: outcome, Label: label}, nil
	default:
		return ir.Link{}, &CompileError{
			Field:   path,
			Message: fmt.Sprintf("expected a target id or mapping, got %s", describe(entry)),
		}
	}
}

// compileEdges appends top-level {source, target} entries to the links of
// their source node.
func compileEdges(g *ir.IR, raw any) error {
	if raw == nil {
		return nil
	}
	list, ok := raw.([]any)
	if !ok {
		return &CompileError{Field: "edges", Message: fmt.Sprintf("expected a list, got %s", describe(raw))}
	}

	index := g.NodeIndex()
	for i, entry := range list {
		path := fmt.Sprintf("edges[%d]", i)
		m, ok := entry.(map[string]any)
		if !ok {
			return &CompileError{Field: path, Message: fmt.Sprintf("expected a mapping, got %s", describe(entry))}
		}
		source, err := scalar(m, "source", path+".source")
		if err != nil {
			return err
		}
		pos, ok := index[source]
		if !ok {
			return &CompileError{Field: path + ".source", Message: fmt.Sprintf("unknown node %q", source)}
		}
		link, err := compileLink(path, m)
		if err != nil {
			return err
		}
		g.Nodes[pos].Edges = append(g.Nodes[pos].Edges, link)
	}
	return nil
}

func compileLanes(raw any) ([]ir.Lane, error) {
	if raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, &CompileError{Field: "lanes", Message: fmt.Sprintf("expected a list, got %s", describe(raw))}
	}

	lanes := make([]ir.Lane, 0, len(list))
	for i, entry := range list {
		path := fmt.Sprintf("lanes[%d]", i)
		m, ok := entry.(map[string]any)
		if !ok {
			return nil, &CompileError{Field: path, Message: fmt.Sprintf("expected a mapping, got %s", describe(entry))}
		}
		id, err := scalar(m, "id", path+".id")
		if err != nil {
			return nil, err
		}
		if id == "" {
			return nil, &CompileError{Field: path + ".id", Message: "id is required"}
		}
		name, err := scalar(m, "name", path+".name")
		if err != nil {
			return nil, err
		}
		if name == "" {
			name = id
		}
		typ, err := scalar(m, "type", path+".type")
		if err != nil {
			return nil, err
		}
		lanes = append(lanes, ir.Lane{ID: id, Name: name, Type: ir.LaneType(typ)})
	}
	return lanes, nil
}

// scalar reads m[key] as a string. Numbers and booleans are formatted;
// a missing or null value yields "". Lists and mappings are errors.
func scalar(m map[string]any, key, path string) (string, error) {
	switch v := m[key].(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case int, int64, uint64, float64, bool:
		return fmt.Sprint(v), nil
	default:
		return "", &CompileError{
			Field:   path,
			Message: fmt.Sprintf("expected a scalar, got %s", describe(v)),
		}
	}
}

// firstScalar returns the first non-empty value among keys of m.
func firstScalar(m map[string]any, path string, keys ...string) (string, error) {
	for _, key := range keys {
		s, err := scalar(m, key, path+"."+key)
		if err != nil || s != "" {
			return s, err
		}
	}
	return "", nil
}

// firstScalarIn returns the first non-empty value of key across sources.
func firstScalarIn(path, key string, sources ...map[string]any) (string, error) {
	for _, src := range sources {
		s, err := scalar(src, key, path+"."+key)
		if err != nil || s != "" {
			return s, err
		}
	}
	return "", nil
}

func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "a list"
	case map[string]any:
		return "a mapping"
	case string:
		return "a string"
	default:
		return fmt.Sprintf("%T", v)
	}
}
