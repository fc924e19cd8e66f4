package value

import "strconv"

// TypeName returns the type name used in error messages.
func TypeName(v Value) string {
	switch x := v.(type) {
	case nil:
		return "Void"
	case Number:
		if x.IsEmpty() {
			return "Empty"
		}
		return "Number"
	}
	return v.Type().String()
}

// inspect renders v as an element of a container: strings are quoted.
func inspect(v Value, level int) string {
	switch x := v.(type) {
	case nil:
		return ""
	case *String:
		return strconv.Quote(x.String())
	case *Array:
		return x.format(level)
	case *Object:
		return x.format(level)
	}
	return v.String()
}

// Equal compares two values. Numbers compare by value across int and
// float, strings by content, booleans by value and everything else by identity.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case Number:
		y, ok := b.(Number)
		if !ok {
			return false
		}
		if x.IsEmpty() || y.IsEmpty() {
			return x.IsEmpty() && y.IsEmpty()
		}
		if x.IsInt() && y.IsInt() {
			return x.Int64() == y.Int64()
		}
		return x.Float64() == y.Float64()
	case *String:
		y, ok := b.(*String)
		return ok && x.String() == y.String()
	case Boolean:
		y, ok := b.(Boolean)
		return ok && x == y
	case Void:
		y, ok := b.(Void)
		return ok && x.Sign == y.Sign
	}
	return a == b
}

// DeepClone copies strings, arrays and objects recursively so the copy
// shares no buffer with v. Functions and classes are returned as is.
func DeepClone(v Value) Value {
	switch x := v.(type) {
	case *String:
		return NewString(x.String())
	case *Array:
		elements := x.Elements()
		cloned := make([]Value, len(elements))
		for i, e := range elements {
			cloned[i] = DeepClone(e)
		}
		return NewArray(cloned)
	case *Object:
		names := x.PropertyNames()
		values := make([]Value, len(names))
		for i, name := range names {
			cell, _ := x.cells.Get(name)
			values[i] = DeepClone(cell.Get())
		}
		obj, _ := NewObject(x.class, values)
		return obj
	}
	return v
}
