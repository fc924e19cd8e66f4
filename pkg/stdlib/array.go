package stdlib

import (
	"strings"

	"github.com/zurustar/calc/pkg/calcerr"
	"github.com/zurustar/calc/pkg/value"
)

// arrayClass builds the Array class. Every method takes the array as its
// first argument and mutates it in place unless it returns a new array.
func arrayClass() *value.Class {
	self := param("self", value.TypeArray)
	item := param("item", value.TypeAny)
	index := param("index", value.TypeNumber)
	callback := param("fn", value.TypeFunction)

	return value.NewClass("Array", nil, methods(
		builtin("push", arrayPush, self, item),
		builtin("pop", arrayPop, self),
		builtin("shift", arrayShift, self),
		builtin("unshift", arrayUnshift, self, item),
		builtin("insert", arrayInsert, self, index, item),
		builtin("remove", arrayRemove, self, index),
		builtin("reverse", arrayReverse, self),
		builtin("slice", arraySlice, self, param("start", value.TypeNumber), param("end", value.TypeNumber)),
		builtin("join", arrayJoin, self, param("sep", value.TypeString)),
		builtin("map", arrayMap, self, callback),
		builtin("filter", arrayFilter, self, callback),
	))
}

func arrayPush(_ value.Host, args []value.Value) (value.Value, error) {
	args[0].(*value.Array).Push(args[1])
	return value.Empty, nil
}

func arrayPop(_ value.Host, args []value.Value) (value.Value, error) {
	return args[0].(*value.Array).Pop()
}

func arrayShift(_ value.Host, args []value.Value) (value.Value, error) {
	arr := args[0].(*value.Array)
	if arr.Len() == 0 {
		return nil, calcerr.RangeMessage("shift: array is empty")
	}
	return arr.DeleteAt(0)
}

func arrayUnshift(_ value.Host, args []value.Value) (value.Value, error) {
	if err := args[0].(*value.Array).InsertAt(0, args[1]); err != nil {
		return nil, err
	}
	return value.Empty, nil
}

func arrayInsert(_ value.Host, args []value.Value) (value.Value, error) {
	arr := args[0].(*value.Array)
	i, err := indexArg(args[1], arr.Len())
	if err != nil {
		return nil, err
	}
	if err := arr.InsertAt(i, args[2]); err != nil {
		return nil, err
	}
	return value.Empty, nil
}

func arrayRemove(_ value.Host, args []value.Value) (value.Value, error) {
	arr := args[0].(*value.Array)
	i, err := indexArg(args[1], arr.Len()-1)
	if err != nil {
		return nil, err
	}
	return arr.DeleteAt(i)
}

func arrayReverse(_ value.Host, args []value.Value) (value.Value, error) {
	args[0].(*value.Array).Reverse()
	return value.Empty, nil
}

// arraySlice copies the elements in [start, end) to a new array.
func arraySlice(_ value.Host, args []value.Value) (value.Value, error) {
	elements := args[0].(*value.Array).Elements()
	start, end, err := bounds(args[1], args[2], len(elements))
	if err != nil {
		return nil, err
	}
	return value.NewArray(elements[start:end]), nil
}

// bounds validates a half-open range over a sequence of length n.
func bounds(startArg, endArg value.Value, n int) (int, int, error) {
	start, err := indexArg(startArg, n)
	if err != nil {
		return 0, 0, err
	}
	end, err := indexArg(endArg, n)
	if err != nil {
		return 0, 0, err
	}
	if start > end {
		return 0, 0, calcerr.RangeMessage("slice start is after its end")
	}
	return start, end, nil
}

func arrayJoin(_ value.Host, args []value.Value) (value.Value, error) {
	elements := args[0].(*value.Array).Elements()
	parts := make([]string, len(elements))
	for i, e := range elements {
		parts[i] = e.String()
	}
	return value.NewString(strings.Join(parts, args[1].String())), nil
}

// arrayMap calls fn(element, index) for each element and collects the results.
func arrayMap(host value.Host, args []value.Value) (value.Value, error) {
	elements := args[0].(*value.Array).Elements()
	out := make([]value.Value, len(elements))
	for i, e := range elements {
		v, err := host.Call(args[1], []value.Value{e, value.Int(int64(i))})
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return value.NewArray(out), nil
}

// arrayFilter keeps the elements for which fn(element, index) holds.
func arrayFilter(host value.Host, args []value.Value) (value.Value, error) {
	elements := args[0].(*value.Array).Elements()
	var out []value.Value
	for i, e := range elements {
		v, err := host.Call(args[1], []value.Value{e, value.Int(int64(i))})
		if err != nil {
			return nil, err
		}
		keep, ok := value.Truthy(v)
		if !ok {
			return nil, calcerr.Type("filter", []string{"Boolean", "Number"}, value.TypeName(v))
		}
		if keep {
			out = append(out, e)
		}
	}
	return value.NewArray(out), nil
}
