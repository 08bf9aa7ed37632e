package pipeline

import (
	"errors"
	"fmt"
)

// Stage names a pipeline step.
type Stage string

const (
	StageParse     Stage = "parse"
	StageCompile   Stage = "compile"
	StageStructure Stage = "validate-structure"
	StageSchema    Stage = "validate-schema"
	StageCondense  Stage = "condense"
	StageRender    Stage = "render"
)

// Process exit codes.
const (
	ExitOK        = 0
	ExitUsage     = 1 // bad flags, unexpected or internal errors
	ExitParse     = 2
	ExitCompile   = 3
	ExitStructure = 4
	ExitSchema    = 5
	ExitRender    = 6 // rendering and output I/O
)

// StageError wraps the failure of one stage.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

var stageExit = map[Stage]int{
	StageParse:     ExitParse,
	StageCompile:   ExitCompile,
	StageStructure: ExitStructure,
	StageSchema:    ExitSchema,
	StageRender:    ExitRender,
}

// ExitCode maps err to a process exit code. nil is ExitOK; errors that did
// not come from a stage are ExitUsage.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var se *StageError
	if errors.As(err, &se) {
		if code, ok := stageExit[se.Stage]; ok {
			return code
		}
	}
	return ExitUsage
}
