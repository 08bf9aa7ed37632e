package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/flo/internal/adapter"
	"github.com/roach88/flo/internal/compiler"
	"github.com/roach88/flo/internal/pipeline"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Success(map[string]string{"result": "success"})
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Error("V203", "dangling edge", map[string]string{"node": "a"})
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "V203", resp.Error.Code)
	assert.Equal(t, "dangling edge", resp.Error.Message)
	assert.NotNil(t, resp.Error.Details)
}

func TestOutputFormatter_TextSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, formatter.Success("graph is valid"))
	assert.Contains(t, buf.String(), "graph is valid")
}

// Text errors go to ErrWriter so stdout stays clean for piped IR.
func TestOutputFormatter_TextErrorUsesErrWriter(t *testing.T) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: out, ErrWriter: errOut}

	require.NoError(t, formatter.Error("E_PARSE", "bad yaml", "line 3"))
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "Error [E_PARSE]: bad yaml")
	assert.NotContains(t, errOut.String(), "Details")

	formatter.Verbose = true
	require.NoError(t, formatter.Error("E_PARSE", "bad yaml", "line 3"))
	assert.Contains(t, errOut.String(), "Details: line 3")
}

func TestExitError(t *testing.T) {
	err := NewExitError(ExitFailure, "boom")
	assert.Equal(t, "boom", err.Error())
	assert.Equal(t, ExitFailure, GetExitCode(err))

	cause := errors.New("disk full")
	wrapped := WrapExitError(pipeline.ExitRender, "E_WRITE", cause)
	assert.Equal(t, "E_WRITE: disk full", wrapped.Error())
	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, pipeline.ExitRender, GetExitCode(fmt.Errorf("outer: %w", wrapped)))

	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"parse", &pipeline.StageError{Stage: pipeline.StageParse, Err: &adapter.ParseError{Message: "bad"}}, ErrCodeParse},
		{"compile", &pipeline.StageError{Stage: pipeline.StageCompile, Err: &compiler.CompileError{Field: "nodes", Message: "bad"}}, ErrCodeCompile},
		{"validation", &pipeline.StageError{Stage: pipeline.StageStructure, Err: &compiler.ValidationError{
			Check:       compiler.CheckStructure,
			Diagnostics: []compiler.Diagnostic{{Code: "V204"}, {Code: "V203"}},
		}}, "V204"},
		{"render", &pipeline.StageError{Stage: pipeline.StageRender, Err: errors.New("layout")}, ErrCodeRender},
		{"other", context.Canceled, ErrCodeGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errorCode(tt.err))
		})
	}
}
