package ir

// Program is a compiled IR tagged with the serialization contract it
// satisfies. Only Raw and Aligned implement it.
type Program interface {
	// Graph returns the underlying IR. Callers must treat it as read-only.
	Graph() *IR
	// SchemaAligned reports whether the program promises the
	// {process, nodes, edges} shape.
	SchemaAligned() bool

	program() // sealed
}

// Raw is an IR that only promises the minimal {name, nodes} shape.
// Condensed graphs are always Raw.
type Raw struct {
	IR *IR
}

// Graph implements Program.
func (r Raw) Graph() *IR { return r.IR }

// SchemaAligned implements Program.
func (Raw) SchemaAligned() bool { return false }

func (Raw) program() {}

// Aligned is an IR the compiler emitted in the schema-aligned shape.
type Aligned struct {
	IR *IR
}

// Graph implements Program.
func (a Aligned) Graph() *IR { return a.IR }

// SchemaAligned implements Program.
func (Aligned) SchemaAligned() bool { return true }

func (Aligned) program() {}

// Same reports whether a and b wrap the same IR instance with the same
// contract.
func Same(a, b Program) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Graph() == b.Graph() && a.SchemaAligned() == b.SchemaAligned()
}
