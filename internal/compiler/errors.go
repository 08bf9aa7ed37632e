package compiler

import (
	"errors"
	"fmt"
	"strings"
)

// Error categories. Typed errors wrap one of these so callers can branch
// with errors.Is without knowing the concrete type.
var (
	ErrCompile   = errors.New("compile error")
	ErrStructure = errors.New("structural validation failed")
	ErrSchema    = errors.New("schema validation failed")
	ErrCondense  = errors.New("condensation failed")
)

// CompileError reports adapter data that cannot be coerced into an IR.
type CompileError struct {
	Field   string
	Message string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *CompileError) Unwrap() error { return ErrCompile }

// Check names which validator produced a ValidationError.
type Check string

const (
	CheckStructure Check = "structure"
	CheckSchema    Check = "schema"
)

// ValidationError carries every fatal diagnostic found by one check.
type ValidationError struct {
	Check       Check        `json:"check"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

func (e *ValidationError) Error() string {
	if len(e.Diagnostics) == 1 {
		return fmt.Sprintf("%s validation: %s", e.Check, e.Diagnostics[0])
	}
	lines := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		lines[i] = "  " + d.String()
	}
	return fmt.Sprintf("%s validation: %d problems\n%s",
		e.Check, len(e.Diagnostics), strings.Join(lines, "\n"))
}

// Unwrap returns the category sentinel for e.Check.
func (e *ValidationError) Unwrap() error {
	if e.Check == CheckSchema {
		return ErrSchema
	}
	return ErrStructure
}

// CondenseError reports an inconsistency found while condensing. Pipelines
// treat it as non-fatal and keep the uncondensed program.
type CondenseError struct {
	NodeID  string
	Message string
}

func (e *CondenseError) Error() string {
	return fmt.Sprintf("condense: node %q: %s", e.NodeID, e.Message)
}

func (e *CondenseError) Unwrap() error { return ErrCondense }
