package stdlib

import (
	"math"

	"github.com/zurustar/calc/pkg/value"
)

// mathObject builds the Math module: constants and functions stored as
// plain properties, so `Math.sqrt(2)` calls without a receiver.
func mathObject() *value.Object {
	x := param("x", value.TypeNumber)
	fns := []*value.BuiltinFunction{
		builtin("abs", mathAbs, x),
		builtin("floor", rounding("floor", math.Floor), x),
		builtin("ceil", rounding("ceil", math.Ceil), x),
		builtin("round", rounding("round", math.Round), x),
		builtin("sqrt", floatFunc("sqrt", math.Sqrt), x),
		builtin("pow", mathPow, x, param("y", value.TypeNumber)),
		builtin("sin", floatFunc("sin", math.Sin), x),
		builtin("cos", floatFunc("cos", math.Cos), x),
		builtin("tan", floatFunc("tan", math.Tan), x),
		builtin("log", floatFunc("log", math.Log), x),
		{Name: "max", Params: []value.Param{x}, Variadic: true, Impl: extremum("max", 1)},
		{Name: "min", Params: []value.Param{x}, Variadic: true, Impl: extremum("min", -1)},
	}

	entries := []value.Entry[value.Value]{
		{Name: "PI", Value: value.Float(math.Pi)},
		{Name: "E", Value: value.Float(math.E)},
	}
	for _, fn := range fns {
		entries = append(entries, value.Entry[value.Value]{Name: fn.Name, Value: fn})
	}
	return value.NewModule("Math", entries)
}

func mathAbs(_ value.Host, args []value.Value) (value.Value, error) {
	n, err := numberArg("abs", args[0])
	if err != nil {
		return nil, err
	}
	if n.IsInt() {
		if i := n.Int64(); i < 0 {
			return value.Int(-i), nil
		}
		return n, nil
	}
	return value.Float(math.Abs(n.Float64())), nil
}

// rounding returns integers unchanged and rounds floats to an integer.
func rounding(name string, f func(float64) float64) value.BuiltinImpl {
	return func(_ value.Host, args []value.Value) (value.Value, error) {
		n, err := numberArg(name, args[0])
		if err != nil {
			return nil, err
		}
		if n.IsInt() {
			return n, nil
		}
		r := f(n.Float64())
		if math.IsInf(r, 0) || math.IsNaN(r) || math.Abs(r) > math.MaxInt64 {
			return value.Float(r), nil
		}
		return value.Int(int64(r)), nil
	}
}

func floatFunc(name string, f func(float64) float64) value.BuiltinImpl {
	return func(_ value.Host, args []value.Value) (value.Value, error) {
		n, err := numberArg(name, args[0])
		if err != nil {
			return nil, err
		}
		return value.Float(f(n.Float64())), nil
	}
}

func mathPow(_ value.Host, args []value.Value) (value.Value, error) {
	x, err := numberArg("pow", args[0])
	if err != nil {
		return nil, err
	}
	y, err := numberArg("pow", args[1])
	if err != nil {
		return nil, err
	}
	r := math.Pow(x.Float64(), y.Float64())
	if x.IsInt() && y.IsInt() && y.Int64() >= 0 && math.Abs(r) < 1<<53 {
		return value.Int(int64(r)), nil
	}
	return value.Float(r), nil
}

// extremum returns the largest (sign 1) or smallest (sign -1) argument.
func extremum(name string, sign int) value.BuiltinImpl {
	return func(_ value.Host, args []value.Value) (value.Value, error) {
		best, err := numberArg(name, args[0])
		if err != nil {
			return nil, err
		}
		for _, a := range args[1:] {
			n, err := numberArg(name, a)
			if err != nil {
				return nil, err
			}
			if (sign > 0 && n.Float64() > best.Float64()) || (sign < 0 && n.Float64() < best.Float64()) {
				best = n
			}
		}
		return best, nil
	}
}
