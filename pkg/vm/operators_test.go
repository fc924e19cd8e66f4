package vm

import (
	"math"
	"testing"

	"github.com/zurustar/calc/pkg/compiler/token"
	"github.com/zurustar/calc/pkg/value"
)

func TestArithIntegerOverflow(t *testing.T) {
	tests := []struct {
		name    string
		sym     token.Symbol
		x, y    int64
		wantInt bool
		want    float64
	}{
		{"add fits", token.Plus, math.MaxInt64 - 1, 1, true, math.MaxInt64},
		{"add overflows", token.Plus, math.MaxInt64, 1, false, 9223372036854775808},
		{"sub overflows", token.Minus, math.MinInt64, 1, false, -9223372036854775809},
		{"mul overflows", token.Multiply, 3037000500, 3037000500, false, 3037000500.0 * 3037000500.0},
		{"mul min by -1", token.Multiply, math.MinInt64, -1, false, 9223372036854775808},
		{"div min by -1", token.Divide, math.MinInt64, -1, false, 9223372036854775808},
		{"pow fits", token.Power, 2, 62, true, 1 << 62},
		{"pow overflows", token.Power, 2, 64, false, 18446744073709551616},
		{"negative pow", token.Power, -3, 3, true, -27},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := arith(tt.sym, value.Int(tt.x), value.Int(tt.y))
			if err != nil {
				t.Fatalf("arith() error = %v", err)
			}
			n, ok := v.(value.Number)
			if !ok {
				t.Fatalf("arith() = %T, want Number", v)
			}
			if n.IsInt() != tt.wantInt {
				t.Errorf("IsInt() = %v, want %v (%s)", n.IsInt(), tt.wantInt, n.TypeName())
			}
			if n.Float64() != tt.want {
				t.Errorf("value = %v, want %v", n.Float64(), tt.want)
			}
		})
	}
}
