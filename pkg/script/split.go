// Package script loads calc source files and splits them into units that
// are compiled and evaluated one at a time.
package script

import (
	"strings"
)

// Unit は1回のコンパイル・実行の単位
type Unit struct {
	Line int    // 開始行（1始まり）
	Code string // 内部の改行は保持する
}

// Split ソース全体を実行単位に分割する
func Split(content string) []Unit {
	var units []Unit
	var s Splitter
	for _, line := range strings.Split(content, "\n") {
		if u, ok := s.Feed(line); ok {
			units = append(units, u)
		}
	}
	if u, ok := s.Flush(); ok {
		units = append(units, u)
	}
	return units
}

// Splitter は行を受け取り、完結した実行単位を組み立てる
// 末尾が ':' の行は次の行と連結し、括弧が閉じるまでは行を溜める
type Splitter struct {
	pending strings.Builder
	start   int
	line    int
}

// Feed 1行を追加する。単位が完結したら返す
func (s *Splitter) Feed(line string) (Unit, bool) {
	s.line++
	if s.pending.Len() == 0 {
		s.start = s.line
	}

	code := strings.TrimRight(StripComment(line), " \t\r")
	if strings.HasSuffix(code, ":") {
		s.pending.WriteString(strings.TrimSuffix(code, ":"))
		s.pending.WriteString(" ")
		return Unit{}, false
	}

	s.pending.WriteString(code)
	if Depth(s.pending.String()) > 0 {
		s.pending.WriteString("\n")
		return Unit{}, false
	}
	return s.Flush()
}

// Pending 未完結の行が溜まっているか
func (s *Splitter) Pending() bool {
	return strings.TrimSpace(s.pending.String()) != ""
}

// Flush 溜まっている行を単位として取り出す
func (s *Splitter) Flush() (Unit, bool) {
	code := s.pending.String()
	s.pending.Reset()
	if strings.TrimSpace(code) == "" {
		return Unit{}, false
	}
	return Unit{Line: s.start, Code: strings.TrimRight(code, "\n")}, true
}

// Reset 溜まっている行を破棄する
func (s *Splitter) Reset() {
	s.pending.Reset()
}

// StripComment 文字列リテラルの外にある '#' 以降を取り除く
func StripComment(line string) string {
	inString := false
	escaped := false
	for i, r := range line {
		switch {
		case escaped:
			escaped = false
		case inString && r == '\\':
			escaped = true
		case r == '"':
			inString = !inString
		case r == '#' && !inString:
			return line[:i]
		}
	}
	return line
}

// Depth 文字列リテラルの外にある括弧の開き数から閉じ数を引いた値
func Depth(code string) int {
	depth := 0
	inString := false
	escaped := false
	for _, r := range code {
		switch {
		case escaped:
			escaped = false
		case inString && r == '\\':
			escaped = true
		case r == '"':
			inString = !inString
		case r == '\n':
			inString = false
		case inString:
		case r == '(' || r == '[' || r == '{':
			depth++
		case r == ')' || r == ']' || r == '}':
			depth--
		}
	}
	return depth
}
