package value

import (
	"io"

	"github.com/zurustar/calc/pkg/compiler/ast"
	"github.com/zurustar/calc/pkg/fileutil"
)

// Param is a formal parameter or a declared class property.
type Param struct {
	Name string
	Type Type
}

// Host is the part of the evaluator that built-in functions may use.
type Host interface {
	// Call invokes a callable value with already evaluated arguments.
	Call(fn Value, args []Value) (Value, error)
	Stdout() io.Writer
	Stdin() io.Reader
	// ResolvePath resolves a script-relative path.
	ResolvePath(path string) string
	// FileSystem is where the FS module reads and writes.
	FileSystem() fileutil.FileSystem
}

// BuiltinImpl is the Go body of a built-in function.
type BuiltinImpl func(host Host, args []Value) (Value, error)

// BuiltinFunction is a function implemented in Go.
// With Variadic set, Params is the minimum argument list and extra
// arguments are passed through unchecked.
type BuiltinFunction struct {
	Name     string
	Params   []Param
	Variadic bool
	Impl     BuiltinImpl
}

func (f *BuiltinFunction) Type() Type     { return TypeFunction }
func (f *BuiltinFunction) String() string { return "<Built-in-Function>" }

// UserFunction is a function defined in calc source.
type UserFunction struct {
	Params []Param
	Body   []ast.Node
}

func (f *UserFunction) Type() Type     { return TypeFunction }
func (f *UserFunction) String() string { return "<User-Defined-Function>" }

// BoundMethod is a class method read through an object.
// Calling it passes Receiver as the first argument.
type BoundMethod struct {
	Receiver Value
	Method   Value
}

func (m *BoundMethod) Type() Type     { return TypeFunction }
func (m *BoundMethod) String() string { return "<Method>" }

// Frame is one function-call activation record.
type Frame struct {
	Name      string
	Variables map[string]Value
}

// NewFrame creates an empty frame.
func NewFrame(name string) *Frame {
	return &Frame{Name: name, Variables: make(map[string]Value)}
}

// LazyExpression is an unevaluated expression plus the frame that was
// active where it was written. Frame is nil at top level.
type LazyExpression struct {
	Expr  *ast.Expression
	Frame *Frame
}

func (l *LazyExpression) Type() Type     { return TypeLazyExpression }
func (l *LazyExpression) String() string { return "<Lazy-Expression>" }
