package vm

import (
	"math"

	"github.com/zurustar/calc/pkg/calcerr"
	"github.com/zurustar/calc/pkg/compiler/token"
	"github.com/zurustar/calc/pkg/value"
)

var (
	numberOnly      = []string{"Number"}
	numberOrString  = []string{"Number", "String"}
	booleanOrNumber = []string{"Boolean", "Number"}
)

// binary applies a two-operand operator.
func binary(sym token.Symbol, lhs, rhs value.Value) (value.Value, error) {
	switch sym {
	case token.CompareEqual:
		return value.Boolean(value.Equal(lhs, rhs)), nil
	case token.NotEqual:
		return value.Boolean(!value.Equal(lhs, rhs)), nil
	}

	if ls, ok := lhs.(*value.String); ok {
		rs, ok := rhs.(*value.String)
		if !ok {
			return nil, calcerr.Type(sym.String(), []string{"String"}, value.TypeName(rhs))
		}
		return stringOp(sym, ls.String(), rs.String())
	}

	ln, lok := number(lhs)
	rn, rok := number(rhs)
	if !lok || !rok {
		expected := numberOnly
		if sym == token.Plus || sym.IsComparison() {
			expected = numberOrString
		}
		actual := lhs
		if lok {
			actual = rhs
		}
		return nil, calcerr.Type(sym.String(), expected, value.TypeName(actual))
	}

	if sym.IsComparison() {
		return compareNumbers(sym, ln, rn), nil
	}
	return arith(sym, ln, rn)
}

// number returns v as a non-empty Number.
func number(v value.Value) (value.Number, bool) {
	n, ok := v.(value.Number)
	if !ok || n.IsEmpty() {
		return value.Number{}, false
	}
	return n, true
}

func stringOp(sym token.Symbol, a, b string) (value.Value, error) {
	switch sym {
	case token.Plus:
		return value.NewString(a + b), nil
	case token.LessThan:
		return value.Boolean(a < b), nil
	case token.MoreThan:
		return value.Boolean(a > b), nil
	case token.LessThanEqual:
		return value.Boolean(a <= b), nil
	case token.MoreThanEqual:
		return value.Boolean(a >= b), nil
	}
	return nil, calcerr.Type(sym.String(), numberOnly, "String")
}

func compareNumbers(sym token.Symbol, a, b value.Number) value.Value {
	var c int
	if a.IsInt() && b.IsInt() {
		c = compareInts(a.Int64(), b.Int64())
	} else {
		c = compareFloats(a.Float64(), b.Float64())
	}
	switch sym {
	case token.LessThan:
		return value.Boolean(c < 0)
	case token.MoreThan:
		return value.Boolean(c > 0)
	case token.LessThanEqual:
		return value.Boolean(c <= 0)
	default:
		return value.Boolean(c >= 0)
	}
}

func compareInts(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// arith applies + - * / ^. Integer operands stay integers as long as the
// result is exact and fits in int64; otherwise the result is a float.
func arith(sym token.Symbol, x, y value.Number) (value.Value, error) {
	if x.IsInt() && y.IsInt() {
		a, b := x.Int64(), y.Int64()
		var r int64
		ok := false
		switch sym {
		case token.Plus:
			r, ok = addInt(a, b)
		case token.Minus:
			r, ok = subInt(a, b)
		case token.Multiply:
			r, ok = mulInt(a, b)
		case token.Divide:
			if b == 0 {
				return nil, calcerr.RangeMessage("division by zero")
			}
			if a%b == 0 && !(a == math.MinInt64 && b == -1) {
				r, ok = a/b, true
			}
		case token.Power:
			if b >= 0 {
				r, ok = ipow(a, b)
			}
		}
		if ok {
			return value.Int(r), nil
		}
	}

	a, b := x.Float64(), y.Float64()
	switch sym {
	case token.Plus:
		return value.Float(a + b), nil
	case token.Minus:
		return value.Float(a - b), nil
	case token.Multiply:
		return value.Float(a * b), nil
	case token.Divide:
		return value.Float(a / b), nil
	case token.Power:
		return value.Float(math.Pow(a, b)), nil
	}
	return nil, calcerr.Internal(calcerr.ComponentEvaluator, "`%s` is not an arithmetic operator", sym)
}

// addInt, subInt and mulInt report false when the result overflows int64.
func addInt(a, b int64) (int64, bool) {
	r := a + b
	if (a > 0 && b > 0 && r < 0) || (a < 0 && b < 0 && r >= 0) {
		return 0, false
	}
	return r, true
}

func subInt(a, b int64) (int64, bool) {
	r := a - b
	if (a >= 0 && b < 0 && r < 0) || (a < 0 && b > 0 && r >= 0) {
		return 0, false
	}
	return r, true
}

func mulInt(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	r := a * b
	if r/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}
	return r, true
}

func ipow(base, exp int64) (int64, bool) {
	result := int64(1)
	ok := true
	for exp > 0 {
		if exp&1 == 1 {
			if result, ok = mulInt(result, base); !ok {
				return 0, false
			}
		}
		exp >>= 1
		if exp > 0 {
			if base, ok = mulInt(base, base); !ok {
				return 0, false
			}
		}
	}
	return result, true
}

// not negates a Boolean; a Number is true when it is zero.
func not(v value.Value) (value.Value, error) {
	switch x := v.(type) {
	case value.Boolean:
		return !x, nil
	case value.Number:
		if !x.IsEmpty() {
			return value.Boolean(x.Float64() == 0), nil
		}
	}
	return nil, calcerr.Type("!", booleanOrNumber, value.TypeName(v))
}
