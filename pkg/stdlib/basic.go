package stdlib

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/zurustar/calc/pkg/calcerr"
	"github.com/zurustar/calc/pkg/value"
)

func basicFunctions() []*value.BuiltinFunction {
	return []*value.BuiltinFunction{
		builtin("type", basicType, param("value", value.TypeAny)),
		builtin("len", basicLen, param("value", value.TypeAny)),
		builtin("clone", basicClone, param("value", value.TypeAny)),
		builtin("int", basicInt, param("value", value.TypeAny)),
		builtin("float", basicFloat, param("value", value.TypeAny)),
		builtin("str", basicStr, param("value", value.TypeAny)),
		builtin("input", basicInput, param("prompt", value.TypeString)),
	}
}

func basicType(_ value.Host, args []value.Value) (value.Value, error) {
	return value.NewString(value.TypeName(args[0])), nil
}

func basicLen(_ value.Host, args []value.Value) (value.Value, error) {
	switch x := args[0].(type) {
	case *value.String:
		return value.Int(int64(x.Len())), nil
	case *value.Array:
		return value.Int(int64(x.Len())), nil
	}
	return nil, calcerr.Type("len", []string{"String", "Array"}, value.TypeName(args[0]))
}

// basicClone returns a deep copy that shares no buffer with its argument.
func basicClone(_ value.Host, args []value.Value) (value.Value, error) {
	return value.DeepClone(args[0]), nil
}

func basicInt(_ value.Host, args []value.Value) (value.Value, error) {
	switch x := args[0].(type) {
	case value.Number:
		if !x.IsEmpty() {
			return value.Int(x.Int64()), nil
		}
	case value.Boolean:
		if x {
			return value.Int(1), nil
		}
		return value.Int(0), nil
	case *value.String:
		n, err := parseNumber("int", x.String())
		if err != nil {
			return nil, err
		}
		return value.Int(n.Int64()), nil
	}
	return nil, calcerr.Type("int", []string{"Number", "String", "Boolean"}, value.TypeName(args[0]))
}

func basicFloat(_ value.Host, args []value.Value) (value.Value, error) {
	switch x := args[0].(type) {
	case value.Number:
		if !x.IsEmpty() {
			return value.Float(x.Float64()), nil
		}
	case value.Boolean:
		if x {
			return value.Float(1), nil
		}
		return value.Float(0), nil
	case *value.String:
		n, err := parseNumber("float", x.String())
		if err != nil {
			return nil, err
		}
		return value.Float(n.Float64()), nil
	}
	return nil, calcerr.Type("float", []string{"Number", "String", "Boolean"}, value.TypeName(args[0]))
}

// parseNumber parses an integer or float literal surrounded by optional spaces.
func parseNumber(fn, s string) (value.Number, error) {
	s = strings.TrimSpace(s)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return value.Int(i), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return value.Number{}, calcerr.RangeMessage(fmt.Sprintf("%s: cannot convert %q to a number", fn, s))
	}
	return value.Float(f), nil
}

func basicStr(_ value.Host, args []value.Value) (value.Value, error) {
	return value.NewString(args[0].String()), nil
}

type lineReader interface {
	ReadString(delim byte) (string, error)
}

// basicInput prints the prompt and reads one line without its line break.
// At end of input the partial line, possibly empty, is returned.
func basicInput(host value.Host, args []value.Value) (value.Value, error) {
	fmt.Fprint(host.Stdout(), args[0].String())

	r, ok := host.Stdin().(lineReader)
	if !ok {
		r = bufio.NewReader(host.Stdin())
	}
	line, err := r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("input: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	return value.NewString(line), nil
}
