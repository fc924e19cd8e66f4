// Package vm is the tree-walking evaluator of calc.
//
// A VM owns one Scope for the lifetime of a program or REPL session. Each
// top-level unit of source is compiled to an AST and evaluated against that
// scope; break and continue travel back up as value.Void signals.
package vm

import (
	"bufio"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/zurustar/calc/pkg/calcerr"
	"github.com/zurustar/calc/pkg/compiler"
	"github.com/zurustar/calc/pkg/compiler/ast"
	"github.com/zurustar/calc/pkg/fileutil"
	"github.com/zurustar/calc/pkg/logger"
	"github.com/zurustar/calc/pkg/script"
	"github.com/zurustar/calc/pkg/value"
)

// Prelude is the standard module imported into every new VM when registered.
const Prelude = "Basic"

// VM evaluates calc programs.
type VM struct {
	scope   *Scope
	modules map[string]value.Module
	// imported holds the standard modules already imported into scope.
	imported map[string]bool
	// importing holds the files being imported, shared with child VMs.
	importing map[string]bool

	loader  *script.Loader
	baseDir string

	stdout io.Writer
	stdin  *bufio.Reader

	log *slog.Logger
}

// Option is a functional option for configuring the VM.
type Option func(*VM)

// WithLogger sets a custom logger.
func WithLogger(log *slog.Logger) Option {
	return func(vm *VM) {
		vm.log = log
	}
}

// WithStdout sets where `out` writes.
func WithStdout(w io.Writer) Option {
	return func(vm *VM) {
		vm.stdout = w
	}
}

// WithStdin sets where built-in functions read input from.
func WithStdin(r io.Reader) Option {
	return func(vm *VM) {
		vm.stdin = bufio.NewReader(r)
	}
}

// WithBaseDir sets the directory relative imports and file paths resolve against.
func WithBaseDir(dir string) Option {
	return func(vm *VM) {
		vm.baseDir = dir
	}
}

// WithLoader sets the loader used for imported files.
func WithLoader(l *script.Loader) Option {
	return func(vm *VM) {
		vm.loader = l
	}
}

// WithModules registers standard modules.
func WithModules(mods ...value.Module) Option {
	return func(vm *VM) {
		for _, m := range mods {
			vm.modules[m.Name] = m
		}
	}
}

// New creates a VM with a fresh scope. The Prelude module is imported
// when it is registered.
func New(opts ...Option) *VM {
	vm := &VM{
		scope:     NewScope(),
		modules:   make(map[string]value.Module),
		imported:  make(map[string]bool),
		importing: make(map[string]bool),
		loader:    script.NewLoader(fileutil.NewRealFS(""), script.DefaultEncoding),
		stdout:    os.Stdout,
		stdin:     bufio.NewReader(os.Stdin),
		log:       logger.GetLogger(),
	}
	for _, opt := range opts {
		opt(vm)
	}

	if _, ok := vm.modules[Prelude]; ok {
		if _, err := vm.importStandard(Prelude, true); err != nil {
			vm.log.Error("failed to import prelude", "error", err)
		}
	}
	return vm
}

// Scope returns the VM's scope.
func (vm *VM) Scope() *Scope {
	return vm.scope
}

// Run evaluates every node of root. Signals reaching top level are
// discarded. The value of the last node is returned.
func (vm *VM) Run(root *ast.Root) (value.Value, error) {
	var last value.Value = value.VoidEmpty
	for _, node := range root.Nodes {
		v, err := vm.evalSequence(node)
		if err != nil {
			return nil, err
		}
		if _, isSignal := v.(value.Void); isSignal {
			v = value.VoidEmpty
		}
		last = v
	}
	return last, nil
}

// RunSource compiles and evaluates src.
func (vm *VM) RunSource(src string) (value.Value, error) {
	root, err := compiler.Compile(src)
	if err != nil {
		return nil, err
	}
	return vm.Run(root)
}

// RunScript evaluates the units of s in order and stops at the first
// failing one, reported as a *RuntimeError.
func (vm *VM) RunScript(s *script.Script) (value.Value, error) {
	var last value.Value = value.VoidEmpty
	for _, unit := range s.Units {
		v, err := vm.RunSource(unit.Code)
		if err != nil {
			return nil, &RuntimeError{
				File: s.Path,
				Line: absoluteLine(unit, err),
				Code: unit.Code,
				Err:  err,
			}
		}
		last = v
	}
	return last, nil
}

// RunFile loads path relative to the base directory and runs it.
func (vm *VM) RunFile(path string) (value.Value, error) {
	s, err := vm.loader.Load(vm.ResolvePath(path))
	if err != nil {
		return nil, err
	}
	vm.log.Debug("running script", "path", s.Path, "units", len(s.Units))
	return vm.RunScript(s)
}

// absoluteLine maps the line an error carries within unit to a file line.
func absoluteLine(unit script.Unit, err error) int {
	var ce *calcerr.Error
	if errors.As(err, &ce) && ce.Line > 0 {
		return unit.Line + ce.Line - 1
	}
	return unit.Line
}

// Stdout implements value.Host.
func (vm *VM) Stdout() io.Writer { return vm.stdout }

// Stdin implements value.Host. The reader is buffered and shared between
// calls so no input is lost.
func (vm *VM) Stdin() io.Reader { return vm.stdin }

// FileSystem implements value.Host. It is the file system of the loader.
func (vm *VM) FileSystem() fileutil.FileSystem { return vm.loader.FileSystem() }

// ResolvePath implements value.Host.
func (vm *VM) ResolvePath(path string) string {
	return fileutil.ResolvePath(vm.baseDir, path)
}
