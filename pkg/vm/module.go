package vm

import (
	"path/filepath"

	"github.com/zurustar/calc/pkg/calcerr"
	"github.com/zurustar/calc/pkg/compiler/ast"
	"github.com/zurustar/calc/pkg/value"
)

// importStandard imports a registered standard module into the scope.
// Function-list modules are merged into the built-in table; the others are
// bound as a global under the module name. Importing twice is a no-op.
func (vm *VM) importStandard(name string, bind bool) (value.Value, error) {
	mod, ok := vm.modules[name]
	if !ok {
		return nil, calcerr.Import("module `%s` does not exist", name)
	}
	if !bind {
		return mod.Object(), nil
	}
	if vm.imported[name] {
		return mod.Object(), nil
	}

	if mod.Value != nil {
		vm.scope.SetGlobal(name, mod.Value)
	}
	for _, fn := range mod.Functions {
		vm.scope.RegisterBuiltin(fn)
	}
	vm.imported[name] = true
	vm.log.Debug("imported standard module", "name", name, "functions", len(mod.Functions))
	return mod.Object(), nil
}

// importExpression evaluates `import X` used as a value: the module
// object is returned and nothing is bound.
func (vm *VM) importExpression(n *ast.ImportStatement) (value.Value, error) {
	if n.Type == ast.ModuleStandard {
		return vm.importStandard(n.Target, false)
	}
	_, mod, err := vm.importFile(n.Target)
	return mod, err
}

// importFile runs a script file in a scope of its own and collects its
// globals into a module object. It returns the name the module binds to,
// the file name without its extension.
func (vm *VM) importFile(path string) (string, value.Value, error) {
	resolved := vm.ResolvePath(path)
	if vm.importing[resolved] {
		return "", nil, calcerr.Import("circular import of `%s`", path)
	}

	s, err := vm.loader.Load(resolved)
	if err != nil {
		return "", nil, calcerr.Import("cannot load `%s`: %v", path, err)
	}

	vm.importing[resolved] = true
	defer delete(vm.importing, resolved)

	child := vm.child(filepath.Dir(resolved))
	if _, err := child.RunScript(s); err != nil {
		return "", nil, calcerr.Import("error in `%s`: %v", path, err)
	}

	var entries []value.Entry[value.Value]
	for _, name := range child.scope.GlobalNames() {
		if name == "true" || name == "false" {
			continue
		}
		v, _ := child.scope.Global(name)
		entries = append(entries, value.Entry[value.Value]{Name: name, Value: v})
	}
	vm.log.Debug("imported file", "path", s.Path, "globals", len(entries))
	return s.Name(), value.NewModule(s.Name(), entries), nil
}

// child creates a VM for an imported file. It shares the module registry,
// the import guard and the I/O of vm and starts with vm's built-in table.
func (vm *VM) child(baseDir string) *VM {
	c := &VM{
		scope:     vm.scope.child(),
		modules:   vm.modules,
		imported:  make(map[string]bool),
		importing: vm.importing,
		loader:    vm.loader,
		baseDir:   baseDir,
		stdout:    vm.stdout,
		stdin:     vm.stdin,
		log:       vm.log,
	}
	// Function-list modules are already in the copied built-in table.
	for name := range vm.imported {
		if vm.modules[name].Value == nil {
			c.imported[name] = true
		}
	}
	return c
}
