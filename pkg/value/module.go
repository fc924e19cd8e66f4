package value

// Module is a standard module. Function-list modules carry Functions,
// which are merged into the global built-in table on import; object and
// class modules carry Value, which is bound under Name.
type Module struct {
	Name      string
	Functions []*BuiltinFunction
	Value     Value
}

// Object returns the module as one value for `import` used as an expression.
func (m Module) Object() Value {
	if m.Value != nil {
		return m.Value
	}
	entries := make([]Entry[Value], len(m.Functions))
	for i, fn := range m.Functions {
		entries[i] = Entry[Value]{Name: fn.Name, Value: fn}
	}
	return NewModule(m.Name, entries)
}
