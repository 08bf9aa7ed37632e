// Package adapter turns adapter document text into the loosely typed
// mapping the compiler consumes.
//
// Documents are YAML, which makes JSON input work as well. A document that
// is a bare scalar is not an error: it is wrapped as
// {name: "parsed", content: <text>} so that plain notes still compile to a
// single-node program.
package adapter

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// FallbackName names documents that are not mappings.
const FallbackName = "parsed"

// ErrEmpty is returned for blank input.
var ErrEmpty = errors.New("adapter document is empty")

// ParseError reports a document that is not valid YAML or whose top level
// is a sequence.
type ParseError struct {
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse adapter: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("parse adapter: %s", e.Message)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse decodes content into a mapping with string keys throughout.
// Only the first YAML document is read.
func Parse(content string) (map[string]any, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmpty
	}

	var doc any
	dec := yaml.NewDecoder(bytes.NewReader([]byte(content)))
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			// Only comments or document markers.
			return nil, ErrEmpty
		}
		return nil, &ParseError{Message: "invalid YAML", Err: err}
	}

	switch v := normalize(doc).(type) {
	case map[string]any:
		return v, nil
	case []any:
		return nil, &ParseError{Message: "top level must be a mapping, got a sequence"}
	case nil:
		return nil, ErrEmpty
	default:
		return map[string]any{"name": FallbackName, "content": content}, nil
	}
}

// normalize converts map[any]any, which yaml.v3 produces for non-string
// keys, into map[string]any recursively.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = normalize(val)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []any:
		for i, val := range t {
			t[i] = normalize(val)
		}
		return t
	default:
		return v
	}
}
