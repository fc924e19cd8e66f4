// Package stdlib implements the standard modules of calc: Basic, BitOps,
// Math, Array, String and FS.
//
// Function-list modules (Basic, BitOps) are merged into the global built-in
// table on import. Math and FS are objects, Array and String are classes
// whose methods take the receiver as their first argument.
package stdlib

import (
	"fmt"

	"github.com/zurustar/calc/pkg/calcerr"
	"github.com/zurustar/calc/pkg/value"
)

// Modules returns every standard module, ready for vm.WithModules.
func Modules() []value.Module {
	return []value.Module{
		{Name: "Basic", Functions: basicFunctions()},
		{Name: "BitOps", Functions: bitOpsFunctions()},
		{Name: "Math", Value: mathObject()},
		{Name: "Array", Value: arrayClass()},
		{Name: "String", Value: stringClass()},
		{Name: "FS", Value: fsObject()},
	}
}

func param(name string, t value.Type) value.Param {
	return value.Param{Name: name, Type: t}
}

func builtin(name string, impl value.BuiltinImpl, params ...value.Param) *value.BuiltinFunction {
	return &value.BuiltinFunction{Name: name, Params: params, Impl: impl}
}

// methods converts built-in functions to a class method table.
func methods(fns ...*value.BuiltinFunction) []value.Entry[value.Value] {
	entries := make([]value.Entry[value.Value], len(fns))
	for i, fn := range fns {
		entries[i] = value.Entry[value.Value]{Name: fn.Name, Value: fn}
	}
	return entries
}

// numberArg returns args[i] as a non-empty Number.
func numberArg(fn string, v value.Value) (value.Number, error) {
	n, ok := v.(value.Number)
	if !ok || n.IsEmpty() {
		return value.Number{}, calcerr.Type(fn, []string{"Number"}, value.TypeName(v))
	}
	return n, nil
}

// intArg returns v as an int64; floats are rejected.
func intArg(fn string, v value.Value) (int64, error) {
	n, err := numberArg(fn, v)
	if err != nil {
		return 0, err
	}
	if !n.IsInt() {
		return 0, calcerr.Type(fn, []string{"Number(Int)"}, n.TypeName())
	}
	return n.Int64(), nil
}

// indexArg returns v as a position no greater than limit.
func indexArg(v value.Value, limit int) (int, error) {
	n, ok := v.(value.Number)
	if !ok {
		return 0, calcerr.Type("index", []string{"Number"}, value.TypeName(v))
	}
	i, ok := n.AsIndex()
	if !ok {
		return 0, calcerr.RangeMessage(fmt.Sprintf("index must be a non-negative integer, found %s", n))
	}
	if i > limit {
		return 0, calcerr.Bounds(i, limit+1)
	}
	return i, nil
}
