package vm

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zurustar/calc/pkg/calcerr"
	"github.com/zurustar/calc/pkg/script"
	"github.com/zurustar/calc/pkg/stdlib"
	"github.com/zurustar/calc/pkg/value"
)

// newTestVM creates a VM with every standard module registered and its
// output captured.
func newTestVM(opts ...Option) (*VM, *bytes.Buffer) {
	var out bytes.Buffer
	base := []Option{
		WithStdout(&out),
		WithStdin(strings.NewReader("")),
		WithModules(stdlib.Modules()...),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
	return New(append(base, opts...)...), &out
}

// run evaluates src and returns what it printed.
func run(t *testing.T, src string) (string, error) {
	t.Helper()
	vm, out := newTestVM()
	_, err := vm.RunScript(&script.Script{Units: script.Split(src)})
	return out.String(), err
}

func TestRunOutput(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"precedence", "out 1 + 2 * 3", "7\n"},
		{"parentheses", "out (1 + 2) * 3", "9\n"},
		{"exact division stays int", "out 6 / 3", "2\n"},
		{"inexact division is float", "out 7 / 2", "3.5\n"},
		{"unary minus", "x = 4\nout 2 * -x", "-8\n"},
		{"int power", "out 2 ^ 10", "1024\n"},
		{"int overflow becomes float", "out 9223372036854775807 + 1", "9223372036854775808\n"},
		{"power overflow becomes float", "out 2 ^ 64 > 0", "true\n"},
		{"large power stays int", "out 2 ^ 62", "4611686018427387904\n"},
		{"comparison", "out 1 < 2", "true\n"},
		{"int equals float", "out 1 == 1.0", "true\n"},
		{"not on number", "out !0", "true\n"},
		{"string concat", `out "ab" + "cd"`, "abcd\n"},
		{"semicolon separates", "a = 1; out a; out a + 1", "1\n2\n"},
		{"array index", "a = [1, 2, 3]\nout a[1]", "2\n"},
		{"array aliasing", "a = [1, 2]\nb = a\nb[0] = 9\nout a[0]", "9\n"},
		{"string char write", "s = \"abc\"\ns[1] = \"x\"\nout s", "axc\n"},
		{"string index by char", "s = \"héllo\"\nout s[1]", "é\n"},
		{"for count", "n = 0\nfor 3 { n = n + 1 }\nout n", "3\n"},
		{"for zero", "for 0 { out 1 }", ""},
		{"infinite for with break", "x = 0\nfor {\n  x = x + 1\n  if x == 5 { brk }\n}\nout x", "5\n"},
		{"continue skips rest of body", "n = 0\nfor 4 {\n  n = n + 1\n  if n > 2 { ctn }\n  out n\n}", "1\n2\n"},
		{"if false", "if 0 { out 1 }", ""},
		{"if true", "if 1 == 1 { out 1 }", "1\n"},
		{"function", "add = fn(a, b) { brk a + b }\nout add(2, 3)", "5\n"},
		{"extra arguments ignored", "f = fn(a, b) { brk a }\nout f(1, 2, 3)", "1\n"},
		{"function without break", "f = fn() { x = 1 }\nout f()", ""},
		{"recursion", "fact = fn(n) {\n  if n < 2 { brk 1 }\n  brk n * fact(n - 1)\n}\nout fact(5)", "120\n"},
		{"locals do not leak", "x = 1\nf = fn() { x = 2 }\nf()\nout x", "1\n"},
		{"functions read globals", "g = 10\nf = fn() { brk g }\nout f()", "10\n"},
		{"typed parameter", "f = fn(Number n) { brk n + 1 }\nout f(1)", "2\n"},
		{"lazy expression", "x = 2\nl = {x * 3}\nx = 5\nout l()", "15\n"},
		{"class", "P = cl { Number x, y, sum = fn(self) { brk self.x + self.y } }\np = new P(1, 2)\nout p.sum()\np.x = 5\nout p.x", "3\n5\n"},
		{"method through class", "P = cl { x, get = fn(self) { brk self.x } }\np = new P(4)\ng = P.get\nout g(p)", "4\n"},
		{"basic functions", "out len(\"héllo\")\nout type(1)\nout str(12) + \"!\"\nout int(\"42\") + 1", "5\nNumber\n12!\n43\n"},
		{"clone is deep", "a = [[1]]\nb = clone(a)\nb[0][0] = 2\nout a[0][0]", "1\n"},
		{"math", "import Math\nout Math.abs(-3)\nout Math.max(1, 5, 3)\nout Math.floor(2.7)", "3\n5\n2\n"},
		{"array module", "import Array\na = [3]\nArray.push(a, 4)\nb = Array.map(a, fn(x) { brk x * 2 })\nout Array.join(b, \"-\")", "6-8\n"},
		{"string module", "import String\nout String.upper(\"ab\")\nout String.slice(\"hello\", 1, 3)", "AB\nel\n"},
		{"bit ops", "import BitOps\nout band(6, 3)\nout shl(1, 4)", "2\n16\n"},
		{"import twice", "import Math\nimport Math\nout Math.PI > 3", "true\n"},
		{"import expression", "m = import Math\nout m.sqrt(16)", "4\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, tt.src)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind calcerr.Kind
	}{
		{"unknown variable", "out y", calcerr.KindReference},
		{"unknown property", "P = cl { x }\np = new P(1)\nout p.z", calcerr.KindReference},
		{"write to unknown property", "P = cl { x }\np = new P(1)\np.z = 1", calcerr.KindReference},
		{"missing argument", "f = fn(a, b) { brk a }\nf(1)", calcerr.KindRange},
		{"parameter type", "f = fn(Number a) { brk a }\nf(\"s\")", calcerr.KindType},
		{"property type", "P = cl { Number x }\np = new P(1)\np.x = \"s\"", calcerr.KindType},
		{"missing constructor argument", "P = cl { x }\np = new P()", calcerr.KindRange},
		{"division by zero", "out 1 / 0", calcerr.KindRange},
		{"if condition type", "if \"s\" { out 1 }", calcerr.KindType},
		{"negative for count", "for -1 { out 1 }", calcerr.KindType},
		{"fractional for count", "for 1.5 { out 1 }", calcerr.KindType},
		{"index out of range", "a = [1]\nout a[3]", calcerr.KindRange},
		{"negative index", "a = [1]\nout a[-1]", calcerr.KindType},
		{"fractional index", "a = [1, 2]\nout a[0.5]", calcerr.KindType},
		{"negative string index write", "s = \"abc\"\ns[-1] = \"x\"", calcerr.KindType},
		{"unknown module", "import Nope", calcerr.KindImport},
		{"call non-function", "x = 1\nx()", calcerr.KindType},
		{"mixed operands", "out 1 + \"a\"", calcerr.KindType},
		{"invalid assignment", "3 = 4", calcerr.KindAssignment},
		{"unmatched parenthesis", "out (1", calcerr.KindSyntax},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.src)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !calcerr.Is(err, tt.kind) {
				t.Errorf("error = %v, want kind %s", err, tt.kind)
			}
		})
	}
}

func TestRunScriptReportsLine(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
	}{
		{"third unit", "a = 1\nb = 2\nout c", 3},
		{"inside a block", "if 1 {\n  out zz\n}", 2},
		{"after a multi-line unit", "if 1 {\n  out 1\n}\nout zz", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.src)
			var re *RuntimeError
			if !errors.As(err, &re) {
				t.Fatalf("expected *RuntimeError, got %v", err)
			}
			if re.Line != tt.line {
				t.Errorf("line = %d, want %d (%v)", re.Line, tt.line, err)
			}
		})
	}
}

func TestRunResult(t *testing.T) {
	vm, _ := newTestVM()

	v, err := vm.RunSource("for { brk 5 }")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !value.Equal(v, value.Int(5)) {
		t.Errorf("loop value = %v, want 5", v)
	}

	v, err = vm.RunSource("if 1 { brk 3 }")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !value.IsNothing(v) {
		t.Errorf("top-level break should be discarded, got %v", v)
	}

	v, err = vm.RunSource("1 + 1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !value.Equal(v, value.Int(2)) {
		t.Errorf("expression value = %v, want 2", v)
	}
}

func TestSessionKeepsState(t *testing.T) {
	vm, out := newTestVM()
	for _, src := range []string{"a = 1", "f = fn(x) { brk x + a }", "out f(2)"} {
		if _, err := vm.RunSource(src); err != nil {
			t.Fatalf("%q: %v", src, err)
		}
	}
	if out.String() != "3\n" {
		t.Errorf("output = %q", out.String())
	}
	if vm.Scope().Depth() != 0 {
		t.Errorf("frames left on the stack: %d", vm.Scope().Depth())
	}
}

func TestPrelude(t *testing.T) {
	vm, _ := newTestVM()
	names := vm.Scope().BuiltinNames()
	if len(names) == 0 {
		t.Fatal("Basic functions should be registered by New")
	}
	if _, ok := vm.Scope().Lookup("len"); !ok {
		t.Error("len should be visible without import")
	}

	bare := New(WithStdout(io.Discard))
	if _, ok := bare.Scope().Lookup("len"); ok {
		t.Error("a VM without modules should have no built-ins")
	}
}

func TestInput(t *testing.T) {
	vm, out := newTestVM(WithStdin(strings.NewReader("alice\nbob\n")))
	if _, err := vm.RunSource("a = input(\"name? \")\nb = input(\"\")\nout a + \",\" + b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "name? alice,bob\n" {
		t.Errorf("output = %q", out.String())
	}
}

func TestStackOverflow(t *testing.T) {
	_, err := run(t, "f = fn() { brk f() }\nf()")
	if !calcerr.Is(err, calcerr.KindRange) {
		t.Fatalf("expected range error, got %v", err)
	}
	if !strings.Contains(err.Error(), "stack overflow") {
		t.Errorf("error = %v", err)
	}
}

func TestFileImport(t *testing.T) {
	dir := t.TempDir()
	lib := "double = fn(x) { brk x * 2 }\nname = \"util\"\n"
	if err := os.WriteFile(filepath.Join(dir, "Util.calc"), []byte(lib), 0644); err != nil {
		t.Fatal(err)
	}

	t.Run("statement binds the file name", func(t *testing.T) {
		vm, out := newTestVM(WithBaseDir(dir))
		if _, err := vm.RunSource("import \"Util.calc\"\nout Util.double(21)\nout Util.name"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.String() != "42\nutil\n" {
			t.Errorf("output = %q", out.String())
		}
	})

	t.Run("expression returns the module", func(t *testing.T) {
		vm, out := newTestVM(WithBaseDir(dir))
		if _, err := vm.RunSource("u = import \"util.calc\"\nout u.double(2)"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.String() != "4\n" {
			t.Errorf("output = %q", out.String())
		}
	})

	t.Run("imported file does not see importer globals", func(t *testing.T) {
		vm, _ := newTestVM(WithBaseDir(dir))
		if _, err := vm.RunSource("secret = 1\nimport \"Util.calc\""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		mod, _ := vm.Scope().Global("Util")
		obj, ok := mod.(*value.Object)
		if !ok {
			t.Fatalf("Util = %v", mod)
		}
		if _, err := obj.Get("secret"); err == nil {
			t.Error("importer globals leaked into the module")
		}
	})

	t.Run("import inside a function binds a global", func(t *testing.T) {
		vm, out := newTestVM(WithBaseDir(dir))
		src := "load = fn() { import \"Util.calc\" }\nload()\nout Util.double(5)"
		if _, err := vm.RunSource(src); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := vm.Scope().Global("Util"); !ok {
			t.Error("Util should be a global after the call returns")
		}
		if out.String() != "10\n" {
			t.Errorf("output = %q", out.String())
		}
	})

	t.Run("missing file", func(t *testing.T) {
		vm, _ := newTestVM(WithBaseDir(dir))
		_, err := vm.RunSource("import \"nope.calc\"")
		if !calcerr.Is(err, calcerr.KindImport) {
			t.Errorf("expected import error, got %v", err)
		}
	})
}

func TestCircularImport(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.calc"), []byte("import \"b.calc\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "b.calc"), []byte("import \"a.calc\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	vm, _ := newTestVM(WithBaseDir(dir))
	_, err := vm.RunSource("import \"a.calc\"")
	if err == nil || !strings.Contains(err.Error(), "circular import") {
		t.Errorf("expected circular import error, got %v", err)
	}
}

func TestRunFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "main.calc"), []byte("# sum\nx = 1 +:\n  2\nout x\n"), 0644); err != nil {
		t.Fatal(err)
	}

	vm, out := newTestVM(WithBaseDir(dir))
	if _, err := vm.RunFile("main.calc"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "3\n" {
		t.Errorf("output = %q", out.String())
	}
}

func TestFSModule(t *testing.T) {
	dir := t.TempDir()
	vm, out := newTestVM(WithBaseDir(dir))

	src := "import FS\nf = FS.create(\"a.txt\")\nf.write(\"hi\")\nf.append(\"!\")\nout f.read()\nout f.is_file\n" +
		"g = FS.open(\"A.TXT\")\nout g.exist\nFS.delete(\"a.txt\")\nout FS.open(\"a.txt\").exist"
	if _, err := vm.RunScript(&script.Script{Units: script.Split(src)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "hi!\ntrue\ntrue\nfalse\n" {
		t.Errorf("output = %q", out.String())
	}
}
