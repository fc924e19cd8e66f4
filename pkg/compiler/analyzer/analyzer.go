// Package analyzer turns a token queue into an AST.
//
// A family of mutually recursive resolvers does the work: the expression
// resolver (a flat operand/operator scan followed by a two-stack priority
// reduction), the composite resolvers for bracketed constructs, and the
// statement resolver for keyword-led statements. Tokens are consumed
// strictly from the front.
package analyzer

import (
	"github.com/zurustar/calc/pkg/compiler/ast"
	"github.com/zurustar/calc/pkg/compiler/token"
)

// Analyze resolves every statement in tokens. Statements are separated by
// line ends outside brackets.
func Analyze(tokens *token.Queue) (*ast.Root, error) {
	root := &ast.Root{}
	for _, unit := range splitUnits(tokens) {
		n, err := resolveSequence(unit)
		if err != nil {
			return nil, err
		}
		root.Nodes = append(root.Nodes, n)
	}
	return root, nil
}
