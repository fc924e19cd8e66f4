package vm

import (
	"errors"
	"fmt"

	"github.com/zurustar/calc/pkg/calcerr"
)

// RuntimeError reports the script unit at which execution stopped.
// Err is the *calcerr.Error or *compiler.CompileError that caused it.
type RuntimeError struct {
	File string // empty for REPL input
	Line int    // absolute line in File, 0 when unknown
	Code string // source of the failing unit
	Err  error
}

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Detail())
	}
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Detail())
	}
	return e.Err.Error()
}

// Detail renders the cause. Once Line holds the absolute line, the
// unit-relative line of a *calcerr.Error is left out.
func (e *RuntimeError) Detail() string {
	var ce *calcerr.Error
	if e.Line > 0 && errors.As(e.Err, &ce) {
		return ce.Describe()
	}
	return e.Err.Error()
}

func (e *RuntimeError) Unwrap() error { return e.Err }
