package vm

import (
	"github.com/zurustar/calc/pkg/calcerr"
	"github.com/zurustar/calc/pkg/compiler/ast"
	"github.com/zurustar/calc/pkg/value"
)

func convertParams(params []ast.Param) ([]value.Param, error) {
	out := make([]value.Param, len(params))
	for i, p := range params {
		t := value.TypeAny
		if p.Type != "" {
			var ok bool
			if t, ok = value.ParseType(p.Type); !ok {
				return nil, calcerr.Internal(calcerr.ComponentEvaluator, "unresolved type %s", p.Type)
			}
		}
		out[i] = value.Param{Name: p.Name, Type: t}
	}
	return out, nil
}

func defineFunction(n *ast.FunctionDefinition) (value.Value, error) {
	params, err := convertParams(n.Params)
	if err != nil {
		return nil, err
	}
	return &value.UserFunction{Params: params, Body: n.Body}, nil
}

// defineClass builds a class descriptor. Classes carry no name; `new`
// reports errors under the variable it was given.
func defineClass(n *ast.ClassDefinition) (value.Value, error) {
	props, err := convertParams(n.Properties)
	if err != nil {
		return nil, err
	}
	methods := make([]value.Entry[value.Value], len(n.Methods))
	for i, m := range n.Methods {
		fn, err := defineFunction(m.Definition)
		if err != nil {
			return nil, err
		}
		methods[i] = value.Entry[value.Value]{Name: m.Name, Value: fn}
	}
	return value.NewClass("", props, methods), nil
}

// instantiate creates an object. Missing arguments are a range error and
// each argument must match its declared property type.
func (vm *VM) instantiate(n *ast.Instantiation) (value.Value, error) {
	v, ok := vm.scope.Lookup(n.Class)
	if !ok {
		return nil, calcerr.Reference("class", n.Class)
	}
	class, ok := v.(*value.Class)
	if !ok {
		return nil, calcerr.Type(n.Class, []string{"Class"}, value.TypeName(v))
	}

	args := make([]value.Value, len(n.Params))
	for i, p := range n.Params {
		a, err := vm.evalExpression(p)
		if err != nil {
			return nil, err
		}
		args[i] = a
	}
	if err := checkArgs(n.Class, class.Properties, args); err != nil {
		return nil, err
	}
	return value.NewObject(class, args)
}
