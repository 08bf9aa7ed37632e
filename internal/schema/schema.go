package schema

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cuejson "cuelang.org/go/encoding/json"
	"cuelang.org/go/encoding/jsonschema"
)

// FileName is the conventional schema file name.
const FileName = "flo_ir.json"

// ConventionalPath is where Locate looks when no explicit path is given.
var ConventionalPath = filepath.Join("schema", FileName)

// EmbeddedSource names the built-in schema in diagnostics.
const EmbeddedSource = "embedded:" + FileName

//go:embed flo_ir.json
var embedded []byte

// ErrNotFound is returned when an explicit schema path does not exist.
var ErrNotFound = errors.New("schema file not found")

// Schema is a loaded JSON Schema document.
type Schema struct {
	// Source is the file path the schema was read from, or EmbeddedSource.
	Source string
	raw    []byte
}

// Violation is a single conformance failure.
type Violation struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	if v.Path == "" {
		return v.Message
	}
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Default returns the embedded schema.
func Default() *Schema {
	return &Schema{Source: EmbeddedSource, raw: embedded}
}

// Parse builds a Schema from raw JSON, checking that it extracts cleanly.
func Parse(source string, raw []byte) (*Schema, error) {
	s := &Schema{Source: source, raw: raw}
	if _, err := s.build(cuecontext.New()); err != nil {
		return nil, err
	}
	return s, nil
}

// Load reads and parses the schema at path.
func Load(path string) (*Schema, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading schema: %w", err)
	}
	return Parse(path, raw)
}

// Locate resolves the schema to use:
//  1. explicit path (must exist)
//  2. ConventionalPath relative to the working directory, if present
//  3. the embedded default
func Locate(explicit string) (*Schema, error) {
	if explicit != "" {
		return Load(explicit)
	}
	if _, err := os.Stat(ConventionalPath); err == nil {
		return Load(ConventionalPath)
	}
	return Default(), nil
}

// Bytes returns a copy of the raw schema document.
func (s *Schema) Bytes() []byte {
	out := make([]byte, len(s.raw))
	copy(out, s.raw)
	return out
}

// build extracts the JSON Schema into a CUE value within ctx.
func (s *Schema) build(ctx *cue.Context) (cue.Value, error) {
	expr, err := cuejson.Extract(s.Source, s.raw)
	if err != nil {
		return cue.Value{}, fmt.Errorf("parsing schema %s: %w", s.Source, err)
	}
	doc := ctx.BuildExpr(expr)
	if err := doc.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("parsing schema %s: %w", s.Source, err)
	}

	file, err := jsonschema.Extract(doc, &jsonschema.Config{})
	if err != nil {
		return cue.Value{}, fmt.Errorf("extracting schema %s: %w", s.Source, err)
	}
	v := ctx.BuildFile(file)
	if err := v.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("building schema %s: %w", s.Source, err)
	}
	return v, nil
}

// Validate evaluates instance against the schema. instance is serialized
// with encoding/json first, so json struct tags decide field names.
//
// The returned error is non-nil only when evaluation itself could not run;
// conformance failures are reported as violations.
func (s *Schema) Validate(instance any) ([]Violation, error) {
	data, err := json.Marshal(instance)
	if err != nil {
		return nil, fmt.Errorf("encoding instance: %w", err)
	}

	ctx := cuecontext.New()
	schemaVal, err := s.build(ctx)
	if err != nil {
		return nil, err
	}

	expr, err := cuejson.Extract("instance.json", data)
	if err != nil {
		return nil, fmt.Errorf("decoding instance: %w", err)
	}
	unified := schemaVal.Unify(ctx.BuildExpr(expr))

	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return toViolations(err), nil
	}
	return nil, nil
}

// toViolations flattens a CUE error list, keeping one entry per distinct
// path and message.
func toViolations(err error) []Violation {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return []Violation{{Message: err.Error()}}
	}

	seen := make(map[string]bool, len(errs))
	violations := make([]Violation, 0, len(errs))
	for _, e := range errs {
		format, args := e.Msg()
		v := Violation{
			Path:    strings.Join(e.Path(), "."),
			Message: fmt.Sprintf(format, args...),
		}
		if seen[v.String()] {
			continue
		}
		seen[v.String()] = true
		violations = append(violations, v)
	}
	return violations
}
