package vm

import (
	"github.com/zurustar/calc/pkg/calcerr"
	"github.com/zurustar/calc/pkg/compiler/ast"
	"github.com/zurustar/calc/pkg/compiler/token"
	"github.com/zurustar/calc/pkg/value"
)

// evalSequence evaluates one statement or expression of a unit or body.
func (vm *VM) evalSequence(node ast.Node) (value.Value, error) {
	switch n := node.(type) {
	case *ast.Statement:
		v, err := vm.evalStatement(n)
		if err != nil {
			return nil, calcerr.WithLine(err, n.Line)
		}
		return v, nil
	case *ast.Expression:
		return vm.evalExpression(n)
	}
	return nil, calcerr.Internal(calcerr.ComponentEvaluator, "unexpected %T in statement position", node)
}

// evalBody evaluates nodes in order. A break or continue signal stops the
// body and is returned; otherwise the body yields VoidEmpty.
func (vm *VM) evalBody(nodes []ast.Node) (value.Value, error) {
	for _, n := range nodes {
		v, err := vm.evalSequence(n)
		if err != nil {
			return nil, err
		}
		if value.IsBreak(v) || value.IsContinue(v) {
			return v, nil
		}
	}
	return value.VoidEmpty, nil
}

// evalExpression reduces a postfix expression with a value stack.
// An expression with no elements is the empty sentinel.
func (vm *VM) evalExpression(expr *ast.Expression) (value.Value, error) {
	if len(expr.Elements) == 0 {
		return value.Empty, nil
	}

	stack := make([]value.Value, 0, len(expr.Elements))
	for _, el := range expr.Elements {
		sym, ok := el.(*ast.SymbolLiteral)
		if !ok {
			v, err := vm.evalOperand(el)
			if err != nil {
				return nil, calcerr.WithLine(err, expr.Line)
			}
			stack = append(stack, v)
			continue
		}

		if sym.Symbol == token.Not {
			if len(stack) < 1 {
				return nil, calcerr.Internal(calcerr.ComponentEvaluator, "no operand for `!`")
			}
			v, err := not(stack[len(stack)-1])
			if err != nil {
				return nil, calcerr.WithLine(err, expr.Line)
			}
			stack[len(stack)-1] = v
			continue
		}

		if len(stack) < 2 {
			return nil, calcerr.Internal(calcerr.ComponentEvaluator, "no operands for `%s`", sym.Symbol)
		}
		lhs, rhs := stack[len(stack)-2], stack[len(stack)-1]
		v, err := binary(sym.Symbol, lhs, rhs)
		if err != nil {
			return nil, calcerr.WithLine(err, expr.Line)
		}
		stack = stack[:len(stack)-2]
		stack = append(stack, v)
	}

	if len(stack) != 1 {
		return nil, calcerr.Internal(calcerr.ComponentEvaluator, "expression left %d values", len(stack))
	}
	return stack[0], nil
}

// evalOperand evaluates a non-operator node of an expression.
func (vm *VM) evalOperand(node ast.Node) (value.Value, error) {
	switch n := node.(type) {
	case *ast.NumberLiteral:
		if n.IsFloat {
			return value.Float(n.Float), nil
		}
		return value.Int(n.Int), nil

	case *ast.StringLiteral:
		return value.NewString(n.Value), nil

	case *ast.ArrayLiteral:
		elements := make([]value.Value, len(n.Elements))
		for i, e := range n.Elements {
			v, err := vm.evalExpression(e)
			if err != nil {
				return nil, err
			}
			elements[i] = v
		}
		return value.NewArray(elements), nil

	case *ast.Variable:
		v, ok := vm.scope.Lookup(n.Name)
		if !ok {
			return nil, calcerr.Reference("variable", n.Name)
		}
		return v, nil

	case *ast.Expression:
		return vm.evalExpression(n)

	case *ast.Assignment:
		return vm.assign(n)

	case *ast.Invocation:
		return vm.evalInvocation(n)

	case *ast.ArrayElementReading:
		return vm.readElement(n)

	case *ast.ObjectReading:
		return vm.readProperty(n)

	case *ast.LazyExpression:
		return &value.LazyExpression{Expr: n.Expr, Frame: vm.scope.CurrentFrame()}, nil

	case *ast.ImportStatement:
		return vm.importExpression(n)

	case *ast.FunctionDefinition:
		return defineFunction(n)

	case *ast.ClassDefinition:
		return defineClass(n)

	case *ast.Instantiation:
		return vm.instantiate(n)
	}
	return nil, calcerr.Internal(calcerr.ComponentEvaluator, "unexpected %T in expression", node)
}
