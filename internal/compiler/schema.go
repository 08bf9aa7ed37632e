package compiler

import (
	"fmt"

	"github.com/roach88/flo/internal/ir"
	"github.com/roach88/flo/internal/schema"
)

// ValidateSchema evaluates the schema-aligned document of p against s.
//
// Only Aligned programs carry the {process, nodes, edges} contract; a Raw
// program fails immediately with CodeNotAligned and is never upgraded.
// A nil s means the embedded default schema.
func ValidateSchema(p ir.Program, s *schema.Schema) error {
	if !p.SchemaAligned() {
		return &ValidationError{
			Check: CheckSchema,
			Diagnostics: []Diagnostic{{
				Code:     CodeNotAligned,
				Severity: SeverityError,
				Message:  "program is not schema-aligned; compile without compact mode to validate against the schema",
			}},
		}
	}
	if s == nil {
		s = schema.Default()
	}

	violations, err := s.Validate(ir.ToSchema(p.Graph()))
	if err != nil {
		return fmt.Errorf("evaluating schema %s: %w", s.Source, err)
	}
	if len(violations) == 0 {
		return nil
	}

	diags := make([]Diagnostic, len(violations))
	for i, v := range violations {
		diags[i] = Diagnostic{
			Code:     CodeSchemaViolation,
			Severity: SeverityError,
			Field:    v.Path,
			Message:  v.Message,
		}
	}
	return &ValidationError{Check: CheckSchema, Diagnostics: diags}
}
