package vm

import (
	"github.com/zurustar/calc/pkg/calcerr"
	"github.com/zurustar/calc/pkg/compiler/ast"
	"github.com/zurustar/calc/pkg/value"
)

// evalIndex evaluates an index expression to a non-negative integer.
func (vm *VM) evalIndex(expr *ast.Expression) (int, error) {
	v, err := vm.evalExpression(expr)
	if err != nil {
		return 0, err
	}
	n, ok := v.(value.Number)
	if !ok || n.IsEmpty() {
		return 0, calcerr.Type("index", numberOnly, value.TypeName(v))
	}
	i, ok := n.AsIndex()
	if !ok {
		return 0, calcerr.Type("index", []string{"non-negative integer"}, n.String())
	}
	return i, nil
}

// readElement reads one element of an array, or one character of a string.
func (vm *VM) readElement(n *ast.ArrayElementReading) (value.Value, error) {
	target, err := vm.evalOperand(n.Target)
	if err != nil {
		return nil, err
	}
	i, err := vm.evalIndex(n.Index)
	if err != nil {
		return nil, err
	}

	switch t := target.(type) {
	case *value.Array:
		return t.Get(i)
	case *value.String:
		return t.CharAt(i)
	}
	return nil, calcerr.Type("", []string{"Array", "String"}, value.TypeName(target))
}

// readProperty reads a property or method of an object, or a method of a class.
func (vm *VM) readProperty(n *ast.ObjectReading) (value.Value, error) {
	target, err := vm.evalOperand(n.Target)
	if err != nil {
		return nil, err
	}

	switch t := target.(type) {
	case *value.Object:
		return t.Get(n.Property)
	case *value.Class:
		if m, ok := t.Method(n.Property); ok {
			return m, nil
		}
		return nil, calcerr.Reference("method", n.Property)
	}
	return nil, calcerr.Type("", []string{"Object", "Class"}, value.TypeName(target))
}

// assign evaluates the right-hand side and stores it. Assignment itself
// evaluates to the empty value.
func (vm *VM) assign(a *ast.Assignment) (value.Value, error) {
	v, err := vm.evalExpression(a.Value)
	if err != nil {
		return nil, err
	}

	switch t := a.Target.(type) {
	case *ast.Variable:
		vm.scope.Assign(t.Name, v)

	case *ast.ArrayElementReading:
		if err := vm.writeElement(t, v); err != nil {
			return nil, err
		}

	case *ast.ObjectReading:
		target, err := vm.evalOperand(t.Target)
		if err != nil {
			return nil, err
		}
		obj, ok := target.(*value.Object)
		if !ok {
			return nil, calcerr.Type("", []string{"Object"}, value.TypeName(target))
		}
		if err := obj.Set(t.Property, v); err != nil {
			return nil, err
		}

	default:
		return nil, calcerr.Assignment("invalid left-hand value")
	}
	return value.Empty, nil
}

// writeElement replaces an array element, or a character of a string.
// Every handle sharing the buffer observes the write.
func (vm *VM) writeElement(t *ast.ArrayElementReading, v value.Value) error {
	target, err := vm.evalOperand(t.Target)
	if err != nil {
		return err
	}
	i, err := vm.evalIndex(t.Index)
	if err != nil {
		return err
	}

	switch c := target.(type) {
	case *value.Array:
		return c.Set(i, v)
	case *value.String:
		s, ok := v.(*value.String)
		if !ok {
			return calcerr.Type("", []string{"String"}, value.TypeName(v))
		}
		return c.SetAt(i, s.String())
	}
	return calcerr.Type("", []string{"Array", "String"}, value.TypeName(target))
}
