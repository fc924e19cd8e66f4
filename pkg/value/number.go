package value

import (
	"math"
	"strconv"
)

type numberKind int

const (
	numberInt numberKind = iota
	numberFloat
	numberEmpty
)

// Number is an integer, a float, or the empty sentinel produced by an
// empty expression. The empty sentinel marks an infinite `for` loop.
type Number struct {
	kind numberKind
	i    int64
	f    float64
}

// Empty is the absent number.
var Empty = Number{kind: numberEmpty}

// Int creates an integer Number.
func Int(i int64) Number { return Number{kind: numberInt, i: i} }

// Float creates a floating point Number.
func Float(f float64) Number { return Number{kind: numberFloat, f: f} }

func (n Number) Type() Type { return TypeNumber }

// IsEmpty reports whether n is the empty sentinel.
func (n Number) IsEmpty() bool { return n.kind == numberEmpty }

// IsInt reports whether n holds an integer.
func (n Number) IsInt() bool { return n.kind == numberInt }

// IsFloat reports whether n holds a float.
func (n Number) IsFloat() bool { return n.kind == numberFloat }

// Int64 returns n as an integer, truncating floats.
func (n Number) Int64() int64 {
	if n.kind == numberFloat {
		return int64(n.f)
	}
	return n.i
}

// Float64 returns n as a float.
func (n Number) Float64() float64 {
	if n.kind == numberInt {
		return float64(n.i)
	}
	return n.f
}

// AsIndex returns n as an index when it is a non-negative integer. Floats
// with no fractional part are accepted.
func (n Number) AsIndex() (int, bool) {
	switch n.kind {
	case numberInt:
		if n.i >= 0 && n.i <= math.MaxInt32 {
			return int(n.i), true
		}
	case numberFloat:
		if n.f >= 0 && n.f == math.Trunc(n.f) && n.f <= math.MaxInt32 {
			return int(n.f), true
		}
	}
	return 0, false
}

func (n Number) String() string {
	switch n.kind {
	case numberInt:
		return strconv.FormatInt(n.i, 10)
	case numberFloat:
		if math.IsInf(n.f, 1) {
			return "inf"
		}
		if math.IsInf(n.f, -1) {
			return "-inf"
		}
		return strconv.FormatFloat(n.f, 'f', -1, 64)
	}
	return ""
}

// TypeName is Number with the representation appended, used in messages.
func (n Number) TypeName() string {
	switch n.kind {
	case numberInt:
		return "Number(Int)"
	case numberFloat:
		return "Number(Float)"
	}
	return "Number(Empty)"
}
