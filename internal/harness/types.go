package harness

import "github.com/roach88/flo/internal/ir"

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: exit code, expectations and
	// assertions all matched.
	Pass bool `json:"pass"`

	// ExitCode is what the CLI would have exited with.
	ExitCode int `json:"exit_code"`

	// Condensed reports whether the condenser changed the graph.
	Condensed bool `json:"condensed"`

	// Advisories lists the codes of non-fatal diagnostics.
	Advisories []string `json:"advisories,omitempty"`

	// Output is the emitted artifact, if the scenario asked for one.
	Output []byte `json:"-"`

	// Graph is the final graph; nil when the pipeline failed.
	Graph *ir.IR `json:"-"`

	// Errors contains failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{Pass: true, Errors: []string{}}
}

// AddError records a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
