package stdlib

import (
	"github.com/zurustar/calc/pkg/calcerr"
	"github.com/zurustar/calc/pkg/value"
)

func bitOpsFunctions() []*value.BuiltinFunction {
	a := param("a", value.TypeNumber)
	b := param("b", value.TypeNumber)
	return []*value.BuiltinFunction{
		builtin("band", binaryBits("band", func(x, y int64) int64 { return x & y }), a, b),
		builtin("bor", binaryBits("bor", func(x, y int64) int64 { return x | y }), a, b),
		builtin("bxor", binaryBits("bxor", func(x, y int64) int64 { return x ^ y }), a, b),
		builtin("bnot", bitNot, a),
		builtin("shl", shift("shl", func(x int64, n uint) int64 { return x << n }), a, param("n", value.TypeNumber)),
		builtin("shr", shift("shr", func(x int64, n uint) int64 { return x >> n }), a, param("n", value.TypeNumber)),
	}
}

func binaryBits(name string, op func(x, y int64) int64) value.BuiltinImpl {
	return func(_ value.Host, args []value.Value) (value.Value, error) {
		x, err := intArg(name, args[0])
		if err != nil {
			return nil, err
		}
		y, err := intArg(name, args[1])
		if err != nil {
			return nil, err
		}
		return value.Int(op(x, y)), nil
	}
}

func bitNot(_ value.Host, args []value.Value) (value.Value, error) {
	x, err := intArg("bnot", args[0])
	if err != nil {
		return nil, err
	}
	return value.Int(^x), nil
}

// shift rejects counts outside 0..63.
func shift(name string, op func(x int64, n uint) int64) value.BuiltinImpl {
	return func(_ value.Host, args []value.Value) (value.Value, error) {
		x, err := intArg(name, args[0])
		if err != nil {
			return nil, err
		}
		n, err := intArg(name, args[1])
		if err != nil {
			return nil, err
		}
		if n < 0 || n > 63 {
			return nil, calcerr.RangeMessage(name + ": shift count must be between 0 and 63")
		}
		return value.Int(op(x, uint(n))), nil
	}
}
