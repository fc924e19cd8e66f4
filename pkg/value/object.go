package value

import (
	"strings"
	"sync"

	"github.com/zurustar/calc/pkg/calcerr"
)

// Class is a class descriptor: declared properties in order and a method table.
type Class struct {
	Name       string
	Properties []Param
	methods    Storage[Value]
}

// NewClass creates a class. The method table backing is chosen here, once.
func NewClass(name string, props []Param, methods []Entry[Value]) *Class {
	return &Class{Name: name, Properties: props, methods: NewStorage(methods)}
}

// NewClassWithStorage creates a class over an explicit method table.
func NewClassWithStorage(name string, props []Param, methods Storage[Value]) *Class {
	return &Class{Name: name, Properties: props, methods: methods}
}

func (c *Class) Type() Type     { return TypeClass }
func (c *Class) String() string { return "<Class>" }

// Method looks up a method by name.
func (c *Class) Method(name string) (Value, bool) {
	return c.methods.Get(name)
}

// MethodNames returns method names in declaration order.
func (c *Class) MethodNames() []string {
	return c.methods.Names()
}

// Cell is an independently shared property slot.
type Cell struct {
	v  Value
	mu sync.RWMutex
}

// NewCell creates a cell holding v.
func NewCell(v Value) *Cell { return &Cell{v: v} }

// Get returns the cell content.
func (c *Cell) Get() Value {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.v
}

// Set replaces the cell content.
func (c *Cell) Set(v Value) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.v = v
}

// Object is an instance of a Class with one cell per declared property.
type Object struct {
	class *Class
	cells Storage[*Cell]
}

// NewObject creates an instance of class. values are assigned to the
// declared properties in order and must match them in number.
func NewObject(class *Class, values []Value) (*Object, error) {
	if len(values) < len(class.Properties) {
		return nil, calcerr.Range(class.Name, len(class.Properties), len(values))
	}
	entries := make([]Entry[*Cell], len(class.Properties))
	for i, p := range class.Properties {
		entries[i] = Entry[*Cell]{Name: p.Name, Value: NewCell(values[i])}
	}
	return &Object{class: class, cells: NewStorage(entries)}, nil
}

// NewModule creates an object whose properties are the given entries, typed Any.
// Standard modules and imported files are exposed this way.
func NewModule(name string, entries []Entry[Value]) *Object {
	props := make([]Param, len(entries))
	values := make([]Value, len(entries))
	for i, e := range entries {
		props[i] = Param{Name: e.Name, Type: TypeAny}
		values[i] = e.Value
	}
	obj, _ := NewObject(NewClass(name, props, nil), values)
	return obj
}

func (o *Object) Type() Type { return TypeObject }

// Class returns the prototype class.
func (o *Object) Class() *Class { return o.class }

// Get reads a property. A miss falls through to the class methods,
// which are returned bound to o.
func (o *Object) Get(name string) (Value, error) {
	if cell, ok := o.cells.Get(name); ok {
		return cell.Get(), nil
	}
	if m, ok := o.class.Method(name); ok {
		return &BoundMethod{Receiver: o, Method: m}, nil
	}
	return nil, calcerr.Reference("property", name)
}

// Set writes a property. Methods cannot be written.
func (o *Object) Set(name string, v Value) error {
	cell, ok := o.cells.Get(name)
	if !ok {
		return calcerr.Reference("property", name)
	}
	for _, p := range o.class.Properties {
		if p.Name == name && !CheckType(v, p.Type) {
			return calcerr.Type(name, []string{p.Type.String()}, TypeName(v))
		}
	}
	cell.Set(v)
	return nil
}

// PropertyNames returns the property names in declaration order.
func (o *Object) PropertyNames() []string {
	return o.cells.Names()
}

func (o *Object) String() string {
	return inspect(o, 0)
}

func (o *Object) format(level int) string {
	indent := strings.Repeat("  ", level+1)
	var b strings.Builder
	b.WriteString("{\n")
	for _, name := range o.cells.Names() {
		cell, _ := o.cells.Get(name)
		b.WriteString(indent + name + ": " + inspect(cell.Get(), level+1) + "\n")
	}
	for _, name := range o.class.MethodNames() {
		b.WriteString(indent + name + ": <Method>\n")
	}
	b.WriteString(strings.Repeat("  ", level) + "}")
	return b.String()
}
