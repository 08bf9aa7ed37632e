package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderFlowchart(t *testing.T) {
	cmd := NewRenderCommand(&RootOptions{Format: "text"})
	out, _, err := runCommand(t, cmd, "", "testdata/order.yaml", "--condense=false")
	require.NoError(t, err)

	assert.Contains(t, out, `digraph "order" {`)
	assert.Contains(t, out, "rankdir=TB;")
	assert.Contains(t, out, `"check" -> "ship" [label="yes"];`)
	assert.NotContains(t, out, "cluster_")
}

// Condensation is on by default for rendering.
func TestRenderCondensed(t *testing.T) {
	cmd := NewRenderCommand(&RootOptions{Format: "text"})
	out, _, err := runCommand(t, cmd, "", "testdata/order.yaml")
	require.NoError(t, err)

	assert.Contains(t, out, `"scc_1"`)
	assert.Contains(t, out, `"start" -> "scc_1";`)
	assert.NotContains(t, out, `"reorder" ->`)
}

func TestRenderSwimlane(t *testing.T) {
	cmd := NewRenderCommand(&RootOptions{Format: "text"})
	out, _, err := runCommand(t, cmd, "", "testdata/order.yaml", "--style", "swimlane", "--condense=false")
	require.NoError(t, err)

	assert.Contains(t, out, "rankdir=LR;")
	assert.Contains(t, out, `subgraph "cluster_sales" {`)
	assert.Contains(t, out, `label="Operations";`)
}

func TestRenderUnknownStyle(t *testing.T) {
	cmd := NewRenderCommand(&RootOptions{Format: "text"})
	_, errOut, err := runCommand(t, cmd, "", "testdata/order.yaml", "--style", "radial")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, errOut, "radial")
}

func TestRenderJSON(t *testing.T) {
	cmd := NewRenderCommand(&RootOptions{Format: "json"})
	out, _, err := runCommand(t, cmd, "", "testdata/order.yaml")
	require.NoError(t, err)

	var resp struct {
		Data RenderResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "flowchart", resp.Data.Style)
	assert.Equal(t, "dot", resp.Data.Format)
	assert.True(t, resp.Data.Condensed)
	assert.Contains(t, resp.Data.DOT, "digraph")
	assert.Equal(t, len(resp.Data.DOT), resp.Data.Bytes)
}

func TestRenderSVGRequiresOutputForJSON(t *testing.T) {
	cmd := NewRenderCommand(&RootOptions{Format: "json"})
	_, _, err := runCommand(t, cmd, "", "testdata/order.yaml", "--svg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires --output")
}

func TestRenderSVGToFile(t *testing.T) {
	outputFile := filepath.Join(t.TempDir(), "order.svg")

	cmd := NewRenderCommand(&RootOptions{Format: "text"})
	out, _, err := runCommand(t, cmd, "", "testdata/order.yaml", "--svg", "-o", outputFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Rendered svg")

	data, err := os.ReadFile(outputFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
}
