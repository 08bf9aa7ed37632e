// Package schema loads the JSON Schema for the schema-aligned IR shape and
// evaluates documents against it.
//
// The schema is data, not code: field requirements, the node kind enum and
// edge constraints live in flo_ir.json and can evolve without touching the
// validator. A copy is embedded as the default; Locate resolves an explicit
// path or the conventional ./schema/flo_ir.json first.
//
// Evaluation uses the CUE JSON Schema encoder: the schema is extracted to a
// CUE value once per call and unified with the instance. A *Schema holds
// only immutable bytes, so it is safe for concurrent use.
package schema
