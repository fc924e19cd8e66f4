package vm

import (
	"fmt"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/zurustar/calc/pkg/calcerr"
	"github.com/zurustar/calc/pkg/value"
)

// reference evaluates a op1 b op2 c with * binding tighter than + and -.
func reference(a, b, c int64, op1, op2 string) int64 {
	apply := func(x, y int64, op string) int64 {
		switch op {
		case "+":
			return x + y
		case "-":
			return x - y
		}
		return x * y
	}
	if op2 == "*" && op1 != "*" {
		return apply(a, apply(b, c, op2), op1)
	}
	return apply(apply(a, b, op1), c, op2)
}

func TestProperty_OperatorPrecedence(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("evaluation matches the reference reducer", prop.ForAll(
		func(a, b, c int64, op1, op2 string) bool {
			vm, _ := newTestVM()
			v, err := vm.RunSource(fmt.Sprintf("%d %s %d %s %d", a, op1, b, op2, c))
			if err != nil {
				return false
			}
			return value.Equal(v, value.Int(reference(a, b, c, op1, op2)))
		},
		gen.Int64Range(0, 1000),
		gen.Int64Range(0, 1000),
		gen.Int64Range(0, 1000),
		gen.OneConstOf("+", "-", "*"),
		gen.OneConstOf("+", "-", "*"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_ArrayRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("a literal reads back element by element", prop.ForAll(
		func(elements []int64) bool {
			parts := make([]string, len(elements))
			for i, e := range elements {
				parts[i] = fmt.Sprint(e)
			}
			vm, _ := newTestVM()
			if _, err := vm.RunSource("a = [" + strings.Join(parts, ", ") + "]"); err != nil {
				return false
			}
			for i, e := range elements {
				v, err := vm.RunSource(fmt.Sprintf("a[%d]", i))
				if err != nil || !value.Equal(v, value.Int(e)) {
					return false
				}
			}
			n, err := vm.RunSource("len(a)")
			return err == nil && value.Equal(n, value.Int(int64(len(elements))))
		},
		gen.SliceOf(gen.Int64Range(-1000, 1000)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_IndexBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("reads past the end are range errors", prop.ForAll(
		func(size, index int) bool {
			parts := make([]string, size)
			for i := range parts {
				parts[i] = "0"
			}
			vm, _ := newTestVM()
			_, err := vm.RunSource(fmt.Sprintf("a = [%s]\na[%d]", strings.Join(parts, ", "), index))
			if index < size {
				return err == nil
			}
			return calcerr.Is(err, calcerr.KindRange)
		},
		gen.IntRange(0, 10),
		gen.IntRange(0, 20),
	))

	properties.Property("writes past the end are range errors", prop.ForAll(
		func(size, index int) bool {
			vm, _ := newTestVM()
			_, err := vm.RunSource(fmt.Sprintf("s = \"%s\"\ns[%d] = \"x\"", strings.Repeat("a", size), index))
			if index < size {
				return err == nil
			}
			return calcerr.Is(err, calcerr.KindRange)
		},
		gen.IntRange(0, 10),
		gen.IntRange(0, 20),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_FrameRestoration(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	// Each call stores its own tag, recurses and then returns the tag.
	// A leaked inner frame would make the outermost call return a deeper tag.
	src := "f = fn(n, tag) {\n  local = tag\n  if n > 0 { f(n - 1, tag + 1) }\n  brk local\n}"

	properties.Property("callers regain their own locals", prop.ForAll(
		func(depth int) bool {
			vm, _ := newTestVM()
			if _, err := vm.RunSource(src); err != nil {
				return false
			}
			v, err := vm.RunSource(fmt.Sprintf("f(%d, 0)", depth))
			if err != nil || !value.Equal(v, value.Int(0)) {
				return false
			}
			_, leaked := vm.Scope().Global("local")
			return !leaked && vm.Scope().Depth() == 0
		},
		gen.IntRange(0, 100),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_LoopBreakValue(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("break ends an infinite loop with its value", prop.ForAll(
		func(n int64) bool {
			vm, _ := newTestVM()
			v, err := vm.RunSource(fmt.Sprintf("for { brk %d }", n))
			return err == nil && value.Equal(v, value.Int(n))
		},
		gen.Int64Range(-1000, 1000),
	))

	properties.Property("a loop of n iterations runs its body n times", prop.ForAll(
		func(n int) bool {
			vm, out := newTestVM()
			if _, err := vm.RunSource(fmt.Sprintf("for %d { out 1 }", n)); err != nil {
				return false
			}
			return strings.Count(out.String(), "1\n") == n
		},
		gen.IntRange(0, 50),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
