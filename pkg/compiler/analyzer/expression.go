package analyzer

import (
	"strconv"
	"strings"

	"github.com/zurustar/calc/pkg/calcerr"
	"github.com/zurustar/calc/pkg/compiler/ast"
	"github.com/zurustar/calc/pkg/compiler/token"
)

// scanMode tells the expression scanner where its tokens came from.
type scanMode int

const (
	// modePlain consumes the whole queue.
	modePlain scanMode = iota
	// modeUnit consumes the whole queue and allows a leading assignment.
	modeUnit
	// modeNested ends at the `)` matching an already consumed `(`.
	modeNested
)

// ResolveExpression resolves every token in tokens into one Expression.
func ResolveExpression(tokens *token.Queue) (*ast.Expression, error) {
	return resolveExpression(tokens, modePlain)
}

func resolveExpression(tokens *token.Queue, mode scanMode) (*ast.Expression, error) {
	line := tokens.Line()

	params, err := scan(tokens, mode)
	if err != nil {
		return nil, err
	}
	elements, err := reduce(params)
	if err != nil {
		return nil, err
	}
	if err := checkOperands(elements); err != nil {
		return nil, err
	}
	return &ast.Expression{Elements: elements, Line: line}, nil
}

// scan classifies tokens into operand and operator nodes in source order.
func scan(tokens *token.Queue, mode scanMode) ([]ast.Node, error) {
	var params []ast.Node
	negate := false
	closed := false

	for !closed {
		t, ok := tokens.PopFront()
		if !ok {
			break
		}

		var operand ast.Node
		var err error

		switch t.Kind {
		case token.LINE_END:
			continue
		case token.NUMBER:
			operand, err = numberLiteral(t)
		case token.STRING:
			operand = &ast.StringLiteral{Value: t.Literal}
		case token.IDENT:
			operand = &ast.Variable{Name: t.Literal}
		case token.SYMBOL:
			if t.Symbol == token.Equal {
				return nil, calcerr.Assignment("invalid left-hand value")
			}
			if t.Symbol == token.Minus && expectsOperand(params) {
				negate = !negate
				continue
			}
			if negate {
				return nil, calcerr.Syntax("operand expected after `-`")
			}
			params = append(params, &ast.SymbolLiteral{Symbol: t.Symbol})
			continue
		case token.PAREN:
			switch t.Paren {
			case token.LeftParen:
				operand, err = resolveExpression(tokens, modeNested)
			case token.RightParen:
				if mode != modeNested {
					return nil, calcerr.Syntax("unmatched parentheses")
				}
				closed = true
				continue
			case token.LeftBracket:
				operand, err = resolveArrayLiteral(tokens)
			case token.LeftBrace:
				operand, err = resolveLazyExpression(tokens)
			default:
				return nil, calcerr.Syntax("unexpected token %s", t)
			}
		case token.KEYWORD:
			switch t.Keyword {
			case token.Import:
				operand, err = resolveImport(tokens)
			case token.Function:
				operand, err = resolveFunctionDefinition(tokens)
			case token.Class:
				operand, err = resolveClassDefinition(tokens)
			case token.New:
				operand, err = resolveInstantiation(tokens)
			default:
				return nil, calcerr.Syntax("unexpected keyword `%s` in expression", t.Keyword)
			}
		default:
			return nil, calcerr.Syntax("unexpected token %s", t)
		}
		if err != nil {
			return nil, err
		}

		allowAssign := mode == modeUnit && len(params) == 0 && !negate
		operand, err = compose(operand, tokens, allowAssign)
		if err != nil {
			return nil, err
		}
		if negate {
			operand = negateNode(operand)
			negate = false
		}
		params = append(params, operand)
	}

	if mode == modeNested && !closed {
		return nil, calcerr.Syntax("unmatched parentheses")
	}
	if negate {
		return nil, calcerr.Syntax("operand expected after `-`")
	}
	return params, nil
}

// reduce orders the scanned nodes for a single left to right evaluation
// pass using an operator stack and a result stack.
func reduce(params []ast.Node) ([]ast.Node, error) {
	result := make([]ast.Node, 0, len(params))
	var operators []ast.Node

	for _, p := range params {
		sym, ok := p.(*ast.SymbolLiteral)
		if !ok {
			if !isOperand(p) {
				return nil, calcerr.Internal(calcerr.ComponentAnalyzer, "unexpected node %T in expression", p)
			}
			result = append(result, p)
			continue
		}

		// Prefix `!` applies to what follows, so it never pops.
		if sym.Symbol != token.Not {
			for len(operators) > 0 {
				top := operators[len(operators)-1]
				c, err := Compare(p, top)
				if err != nil {
					return nil, err
				}
				if c == 1 {
					break
				}
				result = append(result, top)
				operators = operators[:len(operators)-1]
			}
		}
		operators = append(operators, p)
	}

	for i := len(operators) - 1; i >= 0; i-- {
		result = append(result, operators[i])
	}
	return result, nil
}

// checkOperands verifies that every operator of a reduced sequence finds
// its operands and that at most one value remains.
func checkOperands(elements []ast.Node) error {
	depth := 0
	for _, e := range elements {
		sym, ok := e.(*ast.SymbolLiteral)
		if !ok {
			depth++
			continue
		}
		if sym.Symbol == token.Not {
			if depth < 1 {
				return calcerr.Syntax("missing operand for `!`")
			}
			continue
		}
		if depth < 2 {
			return calcerr.Syntax("missing operand for `%s`", sym.Symbol)
		}
		depth--
	}
	if depth > 1 {
		return calcerr.Syntax("missing operator between operands")
	}
	return nil
}

func isOperand(n ast.Node) bool {
	switch n.(type) {
	case *ast.NumberLiteral, *ast.StringLiteral, *ast.Expression, *ast.ArrayLiteral,
		*ast.Variable, *ast.Invocation, *ast.ArrayElementReading, *ast.ObjectReading,
		*ast.LazyExpression, *ast.ImportStatement, *ast.FunctionDefinition,
		*ast.ClassDefinition, *ast.Instantiation, *ast.Assignment:
		return true
	}
	return false
}

func expectsOperand(params []ast.Node) bool {
	if len(params) == 0 {
		return true
	}
	_, isSymbol := params[len(params)-1].(*ast.SymbolLiteral)
	return isSymbol
}

// negateNode applies unary minus: literals are folded, anything else
// becomes (0 n -).
func negateNode(n ast.Node) ast.Node {
	if lit, ok := n.(*ast.NumberLiteral); ok {
		return &ast.NumberLiteral{Int: -lit.Int, Float: -lit.Float, IsFloat: lit.IsFloat}
	}
	return &ast.Expression{Elements: []ast.Node{
		&ast.NumberLiteral{},
		n,
		&ast.SymbolLiteral{Symbol: token.Minus},
	}}
}

func numberLiteral(t token.Token) (*ast.NumberLiteral, error) {
	if strings.Contains(t.Literal, ".") {
		f, err := strconv.ParseFloat(t.Literal, 64)
		if err != nil {
			return nil, calcerr.Syntax("invalid number literal %s", t.Literal)
		}
		return &ast.NumberLiteral{Float: f, IsFloat: true}, nil
	}
	i, err := strconv.ParseInt(t.Literal, 10, 64)
	if err != nil {
		return nil, calcerr.Syntax("number literal %s out of range", t.Literal)
	}
	return &ast.NumberLiteral{Int: i}, nil
}
