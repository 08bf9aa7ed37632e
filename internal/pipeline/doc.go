// Package pipeline runs an adapter document through every stage of the
// toolchain:
//
//  1. Parse: adapter text to a mapping
//  2. Compile: mapping to a Program
//  3. Validate structure: graph invariants, advisories logged
//  4. Validate schema: JSON Schema conformance (aligned programs only)
//  5. Condense: collapse cycles (optional, best effort)
//  6. Emit: IR JSON, DOT or SVG
//
// Every failing stage returns a *StageError naming the stage, and ExitCode
// maps it to a process exit code so scripts can tell bad input from a bad
// graph from a schema mismatch. Condensation is the exception: its errors
// are logged and the uncondensed program is kept.
//
// The logger travels in the context; see WithLogger.
package pipeline
