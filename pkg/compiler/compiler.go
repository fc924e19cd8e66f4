// Package compiler runs the front end of calc: source text is tokenized by
// the lexer and resolved into an AST by the analyzer.
package compiler

import (
	"errors"

	"github.com/zurustar/calc/pkg/calcerr"
	"github.com/zurustar/calc/pkg/compiler/analyzer"
	"github.com/zurustar/calc/pkg/compiler/ast"
	"github.com/zurustar/calc/pkg/compiler/lexer"
)

// Compile turns UTF-8 source into an AST.
// Failures are returned as *CompileError wrapping the *calcerr.Error.
func Compile(source string) (*ast.Root, error) {
	tokens, err := lexer.Tokenize(source)
	if err != nil {
		return nil, newCompileError("lexer", err, source)
	}

	root, err := analyzer.Analyze(tokens)
	if err != nil {
		return nil, newCompileError("analyzer", err, source)
	}
	return root, nil
}

func newCompileError(phase string, err error, source string) *CompileError {
	line := 0
	var ce *calcerr.Error
	if errors.As(err, &ce) {
		line = ce.Line
	}
	return &CompileError{
		Phase:   phase,
		Line:    line,
		Context: GenerateErrorContext(source, line, 0),
		Err:     err,
	}
}
