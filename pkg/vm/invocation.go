package vm

import (
	"github.com/zurustar/calc/pkg/calcerr"
	"github.com/zurustar/calc/pkg/compiler/ast"
	"github.com/zurustar/calc/pkg/value"
)

func (vm *VM) evalInvocation(n *ast.Invocation) (value.Value, error) {
	callee, err := vm.evalOperand(n.Caller)
	if err != nil {
		return nil, err
	}

	// Arguments are evaluated in the caller's frame.
	args := make([]value.Value, len(n.Params))
	for i, p := range n.Params {
		v, err := vm.evalExpression(p)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return vm.call(callee, args, calleeName(n.Caller))
}

// calleeName names the callee in arity and type errors.
func calleeName(caller ast.Node) string {
	switch c := caller.(type) {
	case *ast.Variable:
		return c.Name
	case *ast.ObjectReading:
		return c.Property
	}
	return "function"
}

// Call implements value.Host.
func (vm *VM) Call(fn value.Value, args []value.Value) (value.Value, error) {
	return vm.call(fn, args, "callback")
}

func (vm *VM) call(fn value.Value, args []value.Value, name string) (value.Value, error) {
	switch f := fn.(type) {
	case *value.BuiltinFunction:
		if err := checkArgs(f.Name, f.Params, args); err != nil {
			return nil, err
		}
		if !f.Variadic {
			args = args[:len(f.Params)]
		}
		return f.Impl(vm, args)

	case *value.UserFunction:
		return vm.callUser(f, args, name)

	case *value.BoundMethod:
		bound := make([]value.Value, 0, len(args)+1)
		bound = append(bound, f.Receiver)
		bound = append(bound, args...)
		return vm.call(f.Method, bound, name)

	case *value.LazyExpression:
		return vm.callLazy(f)
	}
	return nil, calcerr.Type(name, []string{"Function"}, value.TypeName(fn))
}

// checkArgs rejects missing arguments and arguments of the wrong type.
// Extra arguments are allowed.
func checkArgs(name string, params []value.Param, args []value.Value) error {
	if len(args) < len(params) {
		return calcerr.Range(name, len(params), len(args))
	}
	for i, p := range params {
		if !value.CheckType(args[i], p.Type) {
			return calcerr.Type(p.Name, []string{p.Type.String()}, value.TypeName(args[i]))
		}
	}
	return nil
}

// callUser runs the body of f in a new frame. A break carries the return
// value; running off the end or a continue returns the empty value.
func (vm *VM) callUser(f *value.UserFunction, args []value.Value, name string) (value.Value, error) {
	if err := checkArgs(name, f.Params, args); err != nil {
		return nil, err
	}

	frame := value.NewFrame(name)
	for i, p := range f.Params {
		frame.Variables[p.Name] = args[i]
	}
	if err := vm.scope.PushFrame(frame); err != nil {
		return nil, err
	}
	vm.log.Debug("enter function", "name", name, "depth", vm.scope.Depth())

	res, err := vm.evalBody(f.Body)

	if _, popErr := vm.scope.PopFrame(); popErr != nil && err == nil {
		err = popErr
	}
	vm.log.Debug("leave function", "name", name, "depth", vm.scope.Depth())
	if err != nil {
		return nil, err
	}

	if value.IsBreak(res) {
		if v := res.(value.Void).Value; v != nil {
			return v, nil
		}
	}
	return value.Empty, nil
}

// callLazy evaluates a lazy expression in the frame it was written in.
// At top level the frame is nil, so the caller's locals stay hidden.
func (vm *VM) callLazy(l *value.LazyExpression) (value.Value, error) {
	if err := vm.scope.PushFrame(l.Frame); err != nil {
		return nil, err
	}
	v, err := vm.evalExpression(l.Expr)
	if _, popErr := vm.scope.PopFrame(); popErr != nil && err == nil {
		err = popErr
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}
