package compiler

import (
	"errors"
	"strings"
	"testing"

	"github.com/zurustar/calc/pkg/calcerr"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		expected string
	}{
		{"assignment", "a = 1 + 2", "(a = (1 2 +))"},
		{"statements", "x = 2\nout x * 3", "(x = (2))\nout (x 3 *)"},
		{"comments", "# header\nout 1 # trailing", "out (1)"},
		{"loop", "for 2 {\n  out \"hi\"\n}", `for (2) {out ("hi")}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := Compile(tt.source)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := root.String(); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		phase  string
		kind   calcerr.Kind
		line   int
	}{
		{"illegal character", "a = 1\nb = $", "lexer", calcerr.KindSyntax, 2},
		{"unmatched parenthesis", "a = 1\nb = 2\nc = (a + b", "analyzer", calcerr.KindSyntax, 3},
		{"bad assignment", "1 = a", "analyzer", calcerr.KindAssignment, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.source)
			if err == nil {
				t.Fatal("expected error, got nil")
			}

			var compileErr *CompileError
			if !errors.As(err, &compileErr) {
				t.Fatalf("expected *CompileError, got %T", err)
			}
			if compileErr.Phase != tt.phase {
				t.Errorf("phase = %q, want %q", compileErr.Phase, tt.phase)
			}
			if compileErr.Line != tt.line {
				t.Errorf("line = %d, want %d", compileErr.Line, tt.line)
			}
			if !calcerr.Is(err, tt.kind) {
				t.Errorf("expected %s, got %v", tt.kind, err)
			}
			if !strings.Contains(compileErr.Context, ">") {
				t.Errorf("context missing marker: %q", compileErr.Context)
			}
		})
	}
}
