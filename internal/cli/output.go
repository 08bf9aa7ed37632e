package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/roach88/flo/internal/adapter"
	"github.com/roach88/flo/internal/compiler"
	"github.com/roach88/flo/internal/pipeline"
)

// Exit codes for CLI commands. Pipeline failures exit with
// pipeline.ExitCode of their error (2 parse through 6 render).
const (
	ExitSuccess     = pipeline.ExitOK
	ExitFailure     = pipeline.ExitUsage // usage errors, failed scenarios, unexpected errors
	ExitInterrupted = 130                // shell convention for SIGINT
)

// Error codes for failures that carry no diagnostic code.
const (
	ErrCodeGeneric     = "E_INTERNAL"
	ErrCodeInput       = "E_INPUT"
	ErrCodeSchemaLoad  = "E_SCHEMA_LOAD"
	ErrCodeWriteFailed = "E_WRITE"
	ErrCodeUsage       = "E_USAGE"
	ErrCodeParse       = "E_PARSE"
	ErrCodeCompile     = "E_COMPILE"
	ErrCodeRender      = "E_RENDER"
)

// ExitError represents an error with a specific exit code. Commands report
// the failure themselves before returning an ExitError, so Execute does not
// print it again.
type ExitError struct {
	Code    int    // process exit code
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // diagnostics in text mode (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
	RunID  string    `json:"run_id,omitempty"`
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // "V203", "E_PARSE", etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		enc := json.NewEncoder(f.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(CLIResponse{Status: "ok", Data: data})
	}

	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		enc := json.NewEncoder(f.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	w := f.GetErrWriter()
	printError(w, "Error [%s]: %s", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(w, "Details: %v\n", details)
	}
	return nil
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

// fail reports a command-level failure and returns the ExitError for it.
func (f *OutputFormatter) fail(exitCode int, code string, err error) error {
	_ = f.Error(code, err.Error(), nil)
	return WrapExitError(exitCode, code, err)
}

// failRun reports a pipeline failure. Validation failures list every
// diagnostic; the exit code is pipeline.ExitCode(err).
func (f *OutputFormatter) failRun(err error) error {
	code := errorCode(err)
	exit := pipeline.ExitCode(err)

	var ve *compiler.ValidationError
	if !errors.As(err, &ve) {
		_ = f.Error(code, err.Error(), errorDetails(err))
		return WrapExitError(exit, code, err)
	}

	if f.Format == "json" {
		_ = f.Error(code, fmt.Sprintf("%s validation failed with %d problem(s)", ve.Check, len(ve.Diagnostics)), ve.Diagnostics)
		return WrapExitError(exit, code, err)
	}

	w := f.GetErrWriter()
	printError(w, "%s validation failed", capitalize(string(ve.Check)))
	for _, d := range ve.Diagnostics {
		fmt.Fprintf(w, "  %s\n", d)
	}
	return WrapExitError(exit, code, err)
}

// errorCode returns the diagnostic code of the first finding for validation
// errors and a stage code for everything else.
func errorCode(err error) string {
	var ve *compiler.ValidationError
	if errors.As(err, &ve) && len(ve.Diagnostics) > 0 {
		return ve.Diagnostics[0].Code
	}
	var pe *adapter.ParseError
	if errors.As(err, &pe) {
		return ErrCodeParse
	}
	if errors.Is(err, compiler.ErrCompile) {
		return ErrCodeCompile
	}
	var se *pipeline.StageError
	if errors.As(err, &se) && se.Stage == pipeline.StageRender {
		return ErrCodeRender
	}
	return ErrCodeGeneric
}

func errorDetails(err error) any {
	var ce *compiler.CompileError
	if errors.As(err, &ce) {
		return map[string]string{"field": ce.Field}
	}
	var se *pipeline.StageError
	if errors.As(err, &se) {
		return map[string]string{"stage": string(se.Stage)}
	}
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
