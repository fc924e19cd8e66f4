package analyzer

import (
	"github.com/zurustar/calc/pkg/calcerr"
	"github.com/zurustar/calc/pkg/compiler/ast"
	"github.com/zurustar/calc/pkg/compiler/token"
)

// isStatementKeyword reports whether kw starts a statement rather than an
// expression operand.
func isStatementKeyword(kw token.Keyword) bool {
	switch kw {
	case token.Out, token.For, token.If, token.Continue, token.Break, token.Import:
		return true
	}
	return false
}

// ResolveStatement resolves a keyword-led statement. The keyword is the
// first token of tokens.
func ResolveStatement(tokens *token.Queue) (*ast.Statement, error) {
	t, ok := tokens.PopFront()
	if !ok || t.Kind != token.KEYWORD {
		return nil, calcerr.Internal(calcerr.ComponentAnalyzer, "statement does not start with a keyword")
	}
	stmt := &ast.Statement{Keyword: t.Keyword, Line: t.Line}

	switch t.Keyword {
	case token.Out, token.Break:
		expr, err := resolveExpression(tokens, modePlain)
		if err != nil {
			return nil, err
		}
		stmt.Body = []ast.Node{expr}

	case token.For, token.If:
		cond, err := resolveCondition(tokens)
		if err != nil {
			return nil, err
		}
		body, err := resolveBlock(tokens)
		if err != nil {
			return nil, err
		}
		stmt.Condition = cond
		stmt.Body = body

	case token.Import:
		target, ok := tokens.PopFront()
		if !ok {
			return nil, calcerr.Import("module name missing")
		}
		switch target.Kind {
		case token.IDENT:
			stmt.Body = []ast.Node{&ast.Variable{Name: target.Literal}}
		case token.STRING:
			stmt.Body = []ast.Node{&ast.StringLiteral{Value: target.Literal}}
		default:
			return nil, calcerr.Import("invalid module name %s", target)
		}

	case token.Continue:

	default:
		return nil, calcerr.Syntax("unexpected keyword `%s` in statement", t.Keyword)
	}
	return stmt, nil
}

// resolveCondition resolves the tokens before the `{` of a for or if.
// The `{` is consumed.
func resolveCondition(tokens *token.Queue) (*ast.Expression, error) {
	cond := token.NewQueue()
	depth := 0
	for {
		t, ok := tokens.PopFront()
		if !ok {
			return nil, calcerr.Syntax("missing `{` after condition")
		}
		if depth == 0 && t.Is(token.LeftBrace) {
			break
		}
		if t.Kind == token.PAREN {
			if t.Paren.IsLeft() {
				depth++
			} else {
				depth--
			}
		}
		cond.PushBack(t)
	}
	return resolveExpression(cond, modePlain)
}

// resolveBlock resolves the statements up to the `}` matching an already
// consumed `{`.
func resolveBlock(tokens *token.Queue) ([]ast.Node, error) {
	inner, err := consumeSingle(tokens, braces)
	if err != nil {
		return nil, err
	}
	units := splitUnits(inner)
	nodes := make([]ast.Node, 0, len(units))
	for _, unit := range units {
		n, err := resolveSequence(unit)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// resolveSequence resolves one unit as a statement or an expression.
// Every token of the unit must be consumed.
func resolveSequence(unit *token.Queue) (ast.Node, error) {
	line := unit.Line()

	var node ast.Node
	var err error
	if t, ok := unit.Front(); ok && t.Kind == token.KEYWORD && isStatementKeyword(t.Keyword) {
		node, err = ResolveStatement(unit)
	} else {
		node, err = resolveExpression(unit, modeUnit)
	}
	if err != nil {
		return nil, calcerr.WithLine(err, line)
	}

	if t, ok := unit.Front(); ok {
		return nil, calcerr.WithLine(calcerr.Syntax("unexpected token %s", t), t.Line)
	}
	return node, nil
}
