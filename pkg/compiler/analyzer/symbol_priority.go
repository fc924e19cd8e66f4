package analyzer

import (
	"github.com/zurustar/calc/pkg/calcerr"
	"github.com/zurustar/calc/pkg/compiler/ast"
	"github.com/zurustar/calc/pkg/compiler/token"
)

// priority is indexed by token.Symbol. Comparisons share the lowest
// priority, so chained comparisons reduce left to right.
var priority = [...]int{
	token.Plus:          1,
	token.Minus:         1,
	token.Multiply:      2,
	token.Divide:        2,
	token.Power:         3,
	token.Not:           5,
	token.LessThan:      0,
	token.MoreThan:      0,
	token.LessThanEqual: 0,
	token.MoreThanEqual: 0,
	token.CompareEqual:  0,
	token.NotEqual:      0,
}

// Priority returns the precedence of an operator.
func Priority(s token.Symbol) (int, error) {
	if s < 0 || int(s) >= len(priority) {
		return 0, calcerr.Internal(calcerr.ComponentAnalyzer, "operator %s has no priority", s)
	}
	return priority[s], nil
}

// Compare returns 1 when a binds tighter than b, 0 when equal and -1 otherwise.
// Both nodes must be operators.
func Compare(a, b ast.Node) (int, error) {
	pa, err := nodePriority(a)
	if err != nil {
		return 0, err
	}
	pb, err := nodePriority(b)
	if err != nil {
		return 0, err
	}
	switch {
	case pa > pb:
		return 1, nil
	case pa == pb:
		return 0, nil
	}
	return -1, nil
}

func nodePriority(n ast.Node) (int, error) {
	sym, ok := n.(*ast.SymbolLiteral)
	if !ok {
		return 0, calcerr.Internal(calcerr.ComponentAnalyzer, "%s is not an operator", n)
	}
	return Priority(sym.Symbol)
}
