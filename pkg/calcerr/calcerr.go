// Package calcerr defines the error kinds reported by the analyzer and the evaluator.
package calcerr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind represents the category of an error.
type Kind string

const (
	// User-facing errors
	KindSyntax     Kind = "SyntaxError"
	KindAssignment Kind = "AssignmentError"
	KindImport     Kind = "ImportError"
	KindType       Kind = "TypeError"
	KindRange      Kind = "RangeError"
	KindReference  Kind = "ReferenceError"

	// KindInternal signals an implementation defect, not a program bug.
	KindInternal Kind = "InternalError"
)

// Component names the part of the engine that raised an internal error.
type Component string

const (
	ComponentAnalyzer  Component = "analyzer"
	ComponentEvaluator Component = "evaluator"
)

// Error is the single error type of the language core.
type Error struct {
	Kind      Kind
	Component Component // internal errors only
	Message   string
	Name      string   // variable, property or parameter the error is about
	Expected  []string // type errors: accepted type names
	Actual    string   // type errors: actual type name
	Line      int      // 0 when unknown
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Describe()
	if e.Line > 0 {
		return fmt.Sprintf("%s (line %d)", msg, e.Line)
	}
	return msg
}

// Describe renders the error without its line.
func (e *Error) Describe() string {
	var msg string
	switch e.Kind {
	case KindInternal:
		msg = fmt.Sprintf("internal error in %s: %s", e.Component, e.Message)
	case KindType:
		if e.Name != "" {
			msg = fmt.Sprintf("%s: %s: expected %s, found %s", e.Kind, e.Name, strings.Join(e.Expected, " | "), e.Actual)
		} else {
			msg = fmt.Sprintf("%s: expected %s, found %s", e.Kind, strings.Join(e.Expected, " | "), e.Actual)
		}
	default:
		msg = fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return msg
}

// WithLine annotates err with a line number when it is an *Error without one.
func WithLine(err error, line int) error {
	var ce *Error
	if line > 0 && errors.As(err, &ce) && ce.Line == 0 {
		ce.Line = line
	}
	return err
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Kind == kind
}

// Syntax creates a syntax error.
func Syntax(format string, args ...any) *Error {
	return &Error{Kind: KindSyntax, Message: fmt.Sprintf(format, args...)}
}

// Assignment creates an assignment error.
func Assignment(msg string) *Error {
	return &Error{Kind: KindAssignment, Message: msg}
}

// Import creates an import error.
func Import(format string, args ...any) *Error {
	return &Error{Kind: KindImport, Message: fmt.Sprintf(format, args...)}
}

// Type creates a type error. name may be empty.
func Type(name string, expected []string, actual string) *Error {
	return &Error{Kind: KindType, Name: name, Expected: expected, Actual: actual}
}

// Range creates an arity error for the given construct.
func Range(target string, expected, found int) *Error {
	return &Error{
		Kind:    KindRange,
		Name:    target,
		Message: fmt.Sprintf("%s: expected %d, found %d", target, expected, found),
	}
}

// Bounds creates an index-out-of-range error.
func Bounds(index, length int) *Error {
	return &Error{
		Kind:    KindRange,
		Message: fmt.Sprintf("index out of range, expected index < %d, found %d", length, index),
	}
}

// RangeMessage creates a range error with a free-form message.
func RangeMessage(msg string) *Error {
	return &Error{Kind: KindRange, Message: msg}
}

// Reference creates an error for an unknown variable or property.
func Reference(what, name string) *Error {
	return &Error{
		Kind:    KindReference,
		Name:    name,
		Message: fmt.Sprintf("%s `%s` is not defined", what, name),
	}
}

// Internal creates an internal error raised by component.
func Internal(component Component, format string, args ...any) *Error {
	return &Error{Kind: KindInternal, Component: component, Message: fmt.Sprintf(format, args...)}
}
