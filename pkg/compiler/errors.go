package compiler

import (
	"fmt"
	"strings"
)

// CompileError is a lexer or analyzer failure with the source around it.
// The underlying *calcerr.Error is reachable through errors.As.
type CompileError struct {
	// Phase is "lexer" or "analyzer".
	Phase string

	// Line is the 1-indexed line of the failure, 0 when unknown.
	Line int

	// Context holds the two lines before and after Line, the failing
	// line marked with '>'.
	Context string

	Err error
}

func (e *CompileError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %v\n%s", e.Phase, e.Err, e.Context)
	}
	return fmt.Sprintf("%s: %v", e.Phase, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

// GenerateErrorContext renders the lines around line with line numbers
// and a '^' under column. A column of 0 points at the line start.
//
// Example output:
//
//	  2 | a = 5
//	  3 | b = 10
//	> 4 | c = (a +
//	      ^
//	  5 | out c
func GenerateErrorContext(source string, line, column int) string {
	if source == "" || line <= 0 {
		return ""
	}

	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return ""
	}

	start := line - 3
	if start < 0 {
		start = 0
	}
	end := line + 2
	if end > len(lines) {
		end = len(lines)
	}

	var buf strings.Builder
	width := len(fmt.Sprintf("%d", end))

	for i := start; i < end; i++ {
		n := i + 1
		if n != line {
			fmt.Fprintf(&buf, "  %*d | %s\n", width, n, lines[i])
			continue
		}
		fmt.Fprintf(&buf, "> %*d | %s\n", width, n, lines[i])
		indent := strings.Repeat(" ", width+3)
		if column > 1 {
			indent += strings.Repeat(" ", column-1)
		}
		fmt.Fprintf(&buf, "  %s^\n", indent)
	}

	return buf.String()
}
