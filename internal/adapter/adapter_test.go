package adapter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParse_YAMLMapping tests a regular adapter document.
func TestParse_YAMLMapping(t *testing.T) {
	doc, err := Parse(`
name: order
nodes:
  - id: a
    kind: start
    attrs:
      edges: [b]
  - id: b
    kind: end
`)
	require.NoError(t, err)

	assert.Equal(t, "order", doc["name"])
	nodes, ok := doc["nodes"].([]any)
	require.True(t, ok)
	require.Len(t, nodes, 2)

	first, ok := nodes[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"edges": []any{"b"}}, first["attrs"])
}

// TestParse_JSON tests that JSON input is accepted as YAML.
func TestParse_JSON(t *testing.T) {
	doc, err := Parse(`{"name": "p", "nodes": [{"id": "a"}]}`)
	require.NoError(t, err)
	assert.Equal(t, "p", doc["name"])
}

// TestParse_NonStringKeys tests that integer keys are stringified.
func TestParse_NonStringKeys(t *testing.T) {
	doc, err := Parse("name: p\nattrs:\n  1: one\n  2: two\n")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"1": "one", "2": "two"}, doc["attrs"])
}

// TestParse_ScalarFallsBack tests the plain-text fallback.
func TestParse_ScalarFallsBack(t *testing.T) {
	doc, err := Parse("just some notes")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": FallbackName, "content": "just some notes"}, doc)
}

// TestParse_Empty tests blank and comment-only input.
func TestParse_Empty(t *testing.T) {
	for _, content := range []string{"", "   \n\t", "# only a comment\n", "---\n"} {
		_, err := Parse(content)
		assert.True(t, errors.Is(err, ErrEmpty), "content %q: got %v", content, err)
	}
}

// TestParse_Errors tests invalid YAML and non-mapping documents.
func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax error", "name: [unclosed"},
		{"unterminated string", "name: \"order"},
		{"sequence", "- a\n- b\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.content)
			require.Error(t, err)

			var pe *ParseError
			assert.True(t, errors.As(err, &pe), "expected *ParseError, got %T", err)
		})
	}
}
