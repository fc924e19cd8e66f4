package compiler

import (
	"errors"
	"strings"
	"testing"

	"github.com/zurustar/calc/pkg/calcerr"
)

func TestGenerateErrorContext(t *testing.T) {
	source := `a = 1
b = 2
c = 3
d = (
e = 5
f = 6
g = 7`

	tests := []struct {
		name        string
		source      string
		line        int
		column      int
		contains    []string
		notContains []string
	}{
		{
			name:   "error in middle of file",
			source: source,
			line:   4,
			column: 5,
			contains: []string{
				"2 | b = 2",
				"3 | c = 3",
				"> 4 | d = (",
				"^",
				"5 | e = 5",
				"6 | f = 6",
			},
			notContains: []string{"1 |", "7 |"},
		},
		{
			name:        "error at beginning of file",
			source:      source,
			line:        1,
			column:      1,
			contains:    []string{"> 1 | a = 1", "2 | b = 2", "3 | c = 3"},
			notContains: []string{"4 |"},
		},
		{
			name:        "error at end of file",
			source:      source,
			line:        7,
			column:      0,
			contains:    []string{"5 | e = 5", "6 | f = 6", "> 7 | g = 7"},
			notContains: []string{"4 |"},
		},
		{name: "empty source", source: "", line: 1},
		{name: "invalid line number", source: source, line: 0},
		{name: "line number exceeds source", source: source, line: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			context := GenerateErrorContext(tt.source, tt.line, tt.column)

			if len(tt.contains) == 0 && context != "" {
				t.Errorf("GenerateErrorContext() = %q, want empty", context)
			}
			for _, substr := range tt.contains {
				if !strings.Contains(context, substr) {
					t.Errorf("GenerateErrorContext() = %q, want to contain %q", context, substr)
				}
			}
			for _, substr := range tt.notContains {
				if strings.Contains(context, substr) {
					t.Errorf("GenerateErrorContext() = %q, should not contain %q", context, substr)
				}
			}
		})
	}
}

func TestGenerateErrorContext_PointerPosition(t *testing.T) {
	context := GenerateErrorContext("abc = 5", 1, 5)
	lines := strings.Split(context, "\n")
	if len(lines) < 2 {
		t.Fatalf("context too short: %q", context)
	}

	// "> 1 | " is six characters wide, column 5 is four more.
	if idx := strings.Index(lines[1], "^"); idx != 10 {
		t.Errorf("pointer at %d, want 10 in %q", idx, context)
	}
}

func TestCompileErrorUnwrap(t *testing.T) {
	inner := calcerr.Syntax("unmatched parentheses")
	err := &CompileError{Phase: "analyzer", Line: 2, Err: inner}

	var ce *calcerr.Error
	if !errors.As(err, &ce) || ce != inner {
		t.Error("CompileError does not unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "analyzer: SyntaxError: unmatched parentheses") {
		t.Errorf("Error() = %q", err.Error())
	}
}
