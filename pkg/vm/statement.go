package vm

import (
	"fmt"

	"github.com/zurustar/calc/pkg/calcerr"
	"github.com/zurustar/calc/pkg/compiler/ast"
	"github.com/zurustar/calc/pkg/compiler/token"
	"github.com/zurustar/calc/pkg/value"
)

func (vm *VM) evalStatement(stmt *ast.Statement) (value.Value, error) {
	switch stmt.Keyword {
	case token.Out:
		return vm.evalOut(stmt)
	case token.For:
		return vm.evalFor(stmt)
	case token.If:
		return vm.evalIf(stmt)
	case token.Break:
		v, err := vm.evalStatementExpression(stmt)
		if err != nil {
			return nil, err
		}
		if value.IsNothing(v) {
			return value.BreakSignal(nil), nil
		}
		return value.BreakSignal(v), nil
	case token.Continue:
		return value.ContinueSignal, nil
	case token.Import:
		return vm.evalImport(stmt)
	}
	return nil, calcerr.Internal(calcerr.ComponentEvaluator, "unexpected statement `%s`", stmt.Keyword)
}

func (vm *VM) evalStatementExpression(stmt *ast.Statement) (value.Value, error) {
	if len(stmt.Body) != 1 {
		return nil, calcerr.Internal(calcerr.ComponentEvaluator, "`%s` expects one expression, got %d", stmt.Keyword, len(stmt.Body))
	}
	expr, ok := stmt.Body[0].(*ast.Expression)
	if !ok {
		return nil, calcerr.Internal(calcerr.ComponentEvaluator, "`%s` body is %T", stmt.Keyword, stmt.Body[0])
	}
	return vm.evalExpression(expr)
}

func (vm *VM) evalOut(stmt *ast.Statement) (value.Value, error) {
	v, err := vm.evalStatementExpression(stmt)
	if err != nil {
		return nil, err
	}
	if !value.IsNothing(v) {
		fmt.Fprintln(vm.stdout, v.String())
	}
	return value.VoidEmpty, nil
}

// evalFor runs the body count times, or forever when the count is empty.
// A break ends the loop and becomes its value.
func (vm *VM) evalFor(stmt *ast.Statement) (value.Value, error) {
	v, err := vm.evalExpression(stmt.Condition)
	if err != nil {
		return nil, err
	}
	n, ok := v.(value.Number)
	if !ok {
		return nil, calcerr.Type("for", []string{"Number", "Empty"}, value.TypeName(v))
	}

	infinite := n.IsEmpty()
	count := 0
	if !infinite {
		if count, ok = n.AsIndex(); !ok {
			return nil, calcerr.Type("for", []string{"non-negative integer"}, n.String())
		}
	}

	for i := 0; infinite || i < count; i++ {
		res, err := vm.evalBody(stmt.Body)
		if err != nil {
			return nil, err
		}
		if value.IsBreak(res) {
			vm.log.Debug("loop terminated by break", "iteration", i)
			if carried := res.(value.Void).Value; carried != nil {
				return carried, nil
			}
			return value.VoidEmpty, nil
		}
	}
	return value.VoidEmpty, nil
}

// evalIf runs the body when the condition holds. Signals raised in the
// body pass through.
func (vm *VM) evalIf(stmt *ast.Statement) (value.Value, error) {
	v, err := vm.evalExpression(stmt.Condition)
	if err != nil {
		return nil, err
	}
	cond, ok := value.Truthy(v)
	if !ok {
		return nil, calcerr.Type("if", []string{"Boolean", "Number"}, value.TypeName(v))
	}
	if !cond {
		return value.VoidEmpty, nil
	}
	return vm.evalBody(stmt.Body)
}

func (vm *VM) evalImport(stmt *ast.Statement) (value.Value, error) {
	if len(stmt.Body) != 1 {
		return nil, calcerr.Internal(calcerr.ComponentEvaluator, "import expects one target, got %d", len(stmt.Body))
	}
	switch target := stmt.Body[0].(type) {
	case *ast.Variable:
		if _, err := vm.importStandard(target.Name, true); err != nil {
			return nil, err
		}
	case *ast.StringLiteral:
		name, mod, err := vm.importFile(target.Value)
		if err != nil {
			return nil, err
		}
		vm.scope.SetGlobal(name, mod)
	default:
		return nil, calcerr.Internal(calcerr.ComponentEvaluator, "import target is %T", target)
	}
	return value.VoidEmpty, nil
}
