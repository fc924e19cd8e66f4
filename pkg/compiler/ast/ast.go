// Package ast defines the nodes produced by the analyzer.
// Every node owns its children; no node is shared between two parents.
package ast

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/zurustar/calc/pkg/compiler/token"
)

// Node is implemented by every AST node.
type Node interface {
	String() string
	astNode()
}

// Root is the top of one resolved unit of source.
type Root struct {
	Nodes []Node
}

func (r *Root) astNode() {}
func (r *Root) String() string {
	parts := make([]string, len(r.Nodes))
	for i, n := range r.Nodes {
		parts[i] = n.String()
	}
	return strings.Join(parts, "\n")
}

// Expression holds operands and operators in postfix order.
type Expression struct {
	Elements []Node
	Line     int
}

func (e *Expression) astNode() {}
func (e *Expression) String() string {
	parts := make([]string, len(e.Elements))
	for i, n := range e.Elements {
		parts[i] = n.String()
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// NumberLiteral is an integer or floating point literal.
type NumberLiteral struct {
	Int     int64
	Float   float64
	IsFloat bool
}

func (n *NumberLiteral) astNode() {}
func (n *NumberLiteral) String() string {
	if n.IsFloat {
		return strconv.FormatFloat(n.Float, 'f', -1, 64)
	}
	return strconv.FormatInt(n.Int, 10)
}

// StringLiteral is a quoted string.
type StringLiteral struct {
	Value string
}

func (s *StringLiteral) astNode()       {}
func (s *StringLiteral) String() string { return strconv.Quote(s.Value) }

// SymbolLiteral is an operator inside an Expression.
type SymbolLiteral struct {
	Symbol token.Symbol
}

func (s *SymbolLiteral) astNode()       {}
func (s *SymbolLiteral) String() string { return s.Symbol.String() }

// ArrayLiteral is `[e1, e2, ...]`.
type ArrayLiteral struct {
	Elements []*Expression
}

func (a *ArrayLiteral) astNode() {}
func (a *ArrayLiteral) String() string {
	return "[" + joinExpressions(a.Elements) + "]"
}

// Variable is a name reference.
type Variable struct {
	Name string
}

func (v *Variable) astNode()       {}
func (v *Variable) String() string { return v.Name }

// Assignment is `target = value` where target is a Variable,
// ArrayElementReading or ObjectReading.
type Assignment struct {
	Target Node
	Value  *Expression
}

func (a *Assignment) astNode() {}
func (a *Assignment) String() string {
	return a.Target.String() + " = " + a.Value.String()
}

// Invocation is `caller(params...)`.
type Invocation struct {
	Caller Node
	Params []*Expression
}

func (i *Invocation) astNode() {}
func (i *Invocation) String() string {
	return i.Caller.String() + "(" + joinExpressions(i.Params) + ")"
}

// ArrayElementReading is `target[index]` on an array or a string.
type ArrayElementReading struct {
	Target Node
	Index  *Expression
}

func (r *ArrayElementReading) astNode() {}
func (r *ArrayElementReading) String() string {
	return r.Target.String() + "[" + r.Index.String() + "]"
}

// ObjectReading is `target.property`.
type ObjectReading struct {
	Target   Node
	Property string
}

func (r *ObjectReading) astNode() {}
func (r *ObjectReading) String() string {
	return r.Target.String() + "." + r.Property
}

// LazyExpression is `{ expr }`, evaluated only when invoked.
type LazyExpression struct {
	Expr *Expression
}

func (l *LazyExpression) astNode()       {}
func (l *LazyExpression) String() string { return "{" + l.Expr.String() + "}" }

// ModuleType tells a standard module name from a file path.
type ModuleType int

const (
	ModuleStandard ModuleType = iota
	ModuleUserDefined
)

// ImportStatement is `import "path"` used as an expression.
type ImportStatement struct {
	Type   ModuleType
	Target string
}

func (i *ImportStatement) astNode() {}
func (i *ImportStatement) String() string {
	if i.Type == ModuleUserDefined {
		return "import " + strconv.Quote(i.Target)
	}
	return "import " + i.Target
}

// Param is a declared parameter or property with its type name.
type Param struct {
	Name string
	Type string
}

func (p Param) String() string {
	if p.Type == "" {
		return p.Name
	}
	return p.Type + " " + p.Name
}

// FunctionDefinition is `fn(params) { body }`.
type FunctionDefinition struct {
	Params []Param
	Body   []Node
}

func (f *FunctionDefinition) astNode() {}
func (f *FunctionDefinition) String() string {
	var out bytes.Buffer
	out.WriteString("fn(")
	for i, p := range f.Params {
		if i > 0 {
			out.WriteString(", ")
		}
		out.WriteString(p.String())
	}
	out.WriteString(") {")
	out.WriteString(joinNodes(f.Body))
	out.WriteString("}")
	return out.String()
}

// Method is a named function inside a class definition.
type Method struct {
	Name       string
	Definition *FunctionDefinition
}

// ClassDefinition is `cl { props..., name = fn(...) {...} }`.
type ClassDefinition struct {
	Properties []Param
	Methods    []Method
}

func (c *ClassDefinition) astNode() {}
func (c *ClassDefinition) String() string {
	parts := make([]string, 0, len(c.Properties)+len(c.Methods))
	for _, p := range c.Properties {
		parts = append(parts, p.String())
	}
	for _, m := range c.Methods {
		parts = append(parts, m.Name+" = "+m.Definition.String())
	}
	return "cl {" + strings.Join(parts, ", ") + "}"
}

// Instantiation is `new Class(args...)`.
type Instantiation struct {
	Class  string
	Params []*Expression
}

func (i *Instantiation) astNode() {}
func (i *Instantiation) String() string {
	return "new " + i.Class + "(" + joinExpressions(i.Params) + ")"
}

// Statement is a keyword-led construct.
type Statement struct {
	Keyword   token.Keyword
	Condition *Expression // for / if only
	Body      []Node
	Line      int
}

func (s *Statement) astNode() {}
func (s *Statement) String() string {
	var out bytes.Buffer
	out.WriteString(s.Keyword.String())
	if s.Condition != nil {
		out.WriteString(" ")
		out.WriteString(s.Condition.String())
		out.WriteString(" {")
		out.WriteString(joinNodes(s.Body))
		out.WriteString("}")
		return out.String()
	}
	if len(s.Body) > 0 {
		out.WriteString(" ")
		out.WriteString(joinNodes(s.Body))
	}
	return out.String()
}

func joinExpressions(exprs []*Expression) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}

func joinNodes(nodes []Node) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = n.String()
	}
	return strings.Join(parts, "; ")
}
