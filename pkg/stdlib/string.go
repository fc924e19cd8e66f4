package stdlib

import (
	"strings"

	"github.com/zurustar/calc/pkg/calcerr"
	"github.com/zurustar/calc/pkg/value"
)

// stringClass builds the String class. Methods never modify the receiver;
// they return new strings.
func stringClass() *value.Class {
	self := param("self", value.TypeString)
	return value.NewClass("String", nil, methods(
		builtin("split", stringSplit, self, param("sep", value.TypeString)),
		builtin("replace", stringReplace, self, param("from", value.TypeString), param("to", value.TypeString)),
		builtin("repeat", stringRepeat, self, param("count", value.TypeNumber)),
		builtin("upper", stringMap(strings.ToUpper), self),
		builtin("lower", stringMap(strings.ToLower), self),
		builtin("trim", stringMap(strings.TrimSpace), self),
		builtin("contains", stringContains, self, param("sub", value.TypeString)),
		builtin("slice", stringSlice, self, param("start", value.TypeNumber), param("end", value.TypeNumber)),
	))
}

func stringSplit(_ value.Host, args []value.Value) (value.Value, error) {
	parts := strings.Split(args[0].String(), args[1].String())
	out := make([]value.Value, len(parts))
	for i, p := range parts {
		out[i] = value.NewString(p)
	}
	return value.NewArray(out), nil
}

func stringReplace(_ value.Host, args []value.Value) (value.Value, error) {
	return value.NewString(strings.ReplaceAll(args[0].String(), args[1].String(), args[2].String())), nil
}

func stringRepeat(_ value.Host, args []value.Value) (value.Value, error) {
	n, err := intArg("repeat", args[1])
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, calcerr.RangeMessage("repeat: count must not be negative")
	}
	return value.NewString(strings.Repeat(args[0].String(), int(n))), nil
}

func stringMap(f func(string) string) value.BuiltinImpl {
	return func(_ value.Host, args []value.Value) (value.Value, error) {
		return value.NewString(f(args[0].String())), nil
	}
}

func stringContains(_ value.Host, args []value.Value) (value.Value, error) {
	return value.Boolean(strings.Contains(args[0].String(), args[1].String())), nil
}

// stringSlice returns the characters in [start, end).
func stringSlice(_ value.Host, args []value.Value) (value.Value, error) {
	runes := []rune(args[0].String())
	start, end, err := bounds(args[1], args[2], len(runes))
	if err != nil {
		return nil, err
	}
	return value.NewString(string(runes[start:end])), nil
}
