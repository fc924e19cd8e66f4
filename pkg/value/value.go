// Package value implements the runtime values of calc.
//
// Strings, arrays and object property cells are shared, mutable buffers:
// every handle to one of them observes writes made through any other handle.
// Reads take the buffer's read lock and writes its write lock, mirroring the
// shared/exclusive borrow discipline of the language.
package value

import "strconv"

// Type is the runtime type tag of a Value.
type Type int

const (
	TypeAny Type = iota // only used for declared parameter and property types
	TypeNumber
	TypeString
	TypeBoolean
	TypeArray
	TypeFunction
	TypeLazyExpression
	TypeClass
	TypeObject
	TypeVoid
)

var typeNames = map[Type]string{
	TypeAny:            "Any",
	TypeNumber:         "Number",
	TypeString:         "String",
	TypeBoolean:        "Boolean",
	TypeArray:          "Array",
	TypeFunction:       "Function",
	TypeLazyExpression: "LazyExpression",
	TypeClass:          "Class",
	TypeObject:         "Object",
	TypeVoid:           "Void",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "Type(" + strconv.Itoa(int(t)) + ")"
}

// ParseType resolves a declared type name. Void cannot be declared.
func ParseType(name string) (Type, bool) {
	for t, n := range typeNames {
		if n == name && t != TypeVoid {
			return t, true
		}
	}
	return TypeAny, false
}

// Value is any runtime datum.
type Value interface {
	Type() Type
	String() string
}

// CheckType reports whether v satisfies the declared type t.
// LazyExpressions are callable, so they satisfy Function as well.
func CheckType(v Value, t Type) bool {
	if t == TypeAny {
		return v.Type() != TypeVoid
	}
	if t == TypeFunction && v.Type() == TypeLazyExpression {
		return true
	}
	return v.Type() == t
}

// Boolean is true or false.
type Boolean bool

func (b Boolean) Type() Type { return TypeBoolean }
func (b Boolean) String() string {
	if b {
		return "true"
	}
	return "false"
}

// Truthy reports whether v selects the body of an `if`.
func Truthy(v Value) (bool, bool) {
	switch x := v.(type) {
	case Boolean:
		return bool(x), true
	case Number:
		if x.IsEmpty() {
			return false, false
		}
		return x.Float64() != 0, true
	}
	return false, false
}

// VoidSign tells which control-flow event a Void carries.
type VoidSign int

const (
	SignEmpty VoidSign = iota
	SignBreak
	SignContinue
)

// Void is not user data: it is a control-flow signal passed back up
// through statement evaluation.
type Void struct {
	Sign  VoidSign
	Value Value // Break only; nil when no value was given
}

func (v Void) Type() Type     { return TypeVoid }
func (v Void) String() string { return "" }

// BreakSignal wraps the value carried by a break.
func BreakSignal(v Value) Void {
	return Void{Sign: SignBreak, Value: v}
}

var (
	// VoidEmpty is produced by statements that yield nothing.
	VoidEmpty = Void{Sign: SignEmpty}
	// ContinueSignal is produced by `continue`.
	ContinueSignal = Void{Sign: SignContinue}
)

// IsBreak reports whether v is a break signal.
func IsBreak(v Value) bool {
	s, ok := v.(Void)
	return ok && s.Sign == SignBreak
}

// IsContinue reports whether v is a continue signal.
func IsContinue(v Value) bool {
	s, ok := v.(Void)
	return ok && s.Sign == SignContinue
}

// IsNothing reports whether v is the empty number or an empty Void,
// the values `out` does not print.
func IsNothing(v Value) bool {
	switch x := v.(type) {
	case nil:
		return true
	case Number:
		return x.IsEmpty()
	case Void:
		return x.Sign == SignEmpty
	}
	return false
}
