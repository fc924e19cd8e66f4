// Package token defines the lexical tokens consumed by the analyzer.
package token

import (
	"fmt"
	"strings"
)

// Kind is the tag of a token.
type Kind int

const (
	ILLEGAL Kind = iota
	EOF
	NUMBER       // 12, 3.5
	STRING       // "abc"
	IDENT        // foo
	KEYWORD      // out, for, if, ...
	SYMBOL       // + - * / ^ ! < > <= >= == != =
	PAREN        // ( ) [ ] { }
	DIVIDER      // ,
	POINT        // .
	LINE_END     // newline or ;
)

var kindNames = map[Kind]string{
	ILLEGAL:  "ILLEGAL",
	EOF:      "EOF",
	NUMBER:   "NUMBER",
	STRING:   "STRING",
	IDENT:    "IDENT",
	KEYWORD:  "KEYWORD",
	SYMBOL:   "SYMBOL",
	PAREN:    "PAREN",
	DIVIDER:  "DIVIDER",
	POINT:    "POINT",
	LINE_END: "LINE_END",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "UNKNOWN"
}

// Keyword identifies a reserved word.
type Keyword int

const (
	Out Keyword = iota
	For
	If
	Continue
	Break
	Import
	Function
	Class
	New
)

var keywordNames = [...]string{
	Out:      "out",
	For:      "for",
	If:       "if",
	Continue: "continue",
	Break:    "break",
	Import:   "import",
	Function: "fn",
	Class:    "cl",
	New:      "new",
}

func (k Keyword) String() string {
	if int(k) < len(keywordNames) {
		return keywordNames[k]
	}
	return fmt.Sprintf("keyword(%d)", int(k))
}

// keywords maps source spellings to keywords. `ctn` and `brk` are the short forms.
var keywords = map[string]Keyword{
	"out":      Out,
	"for":      For,
	"if":       If,
	"continue": Continue,
	"ctn":      Continue,
	"break":    Break,
	"brk":      Break,
	"import":   Import,
	"fn":       Function,
	"cl":       Class,
	"new":      New,
}

// LookupKeyword reports whether ident is a reserved word.
func LookupKeyword(ident string) (Keyword, bool) {
	kw, ok := keywords[ident]
	return kw, ok
}

// Symbol identifies an operator. The order of the first twelve values is the
// index into the analyzer's priority table.
type Symbol int

const (
	Plus Symbol = iota
	Minus
	Multiply
	Divide
	Power
	Not
	LessThan
	MoreThan
	LessThanEqual
	MoreThanEqual
	CompareEqual
	NotEqual

	// Equal is assignment and has no priority.
	Equal
)

var symbolNames = [...]string{
	Plus:          "+",
	Minus:         "-",
	Multiply:      "*",
	Divide:        "/",
	Power:         "^",
	Not:           "!",
	LessThan:      "<",
	MoreThan:      ">",
	LessThanEqual: "<=",
	MoreThanEqual: ">=",
	CompareEqual:  "==",
	NotEqual:      "!=",
	Equal:         "=",
}

func (s Symbol) String() string {
	if s >= 0 && int(s) < len(symbolNames) {
		return symbolNames[s]
	}
	return fmt.Sprintf("symbol(%d)", int(s))
}

// IsComparison reports whether s is one of the six comparison operators.
func (s Symbol) IsComparison() bool {
	return s >= LessThan && s <= NotEqual
}

// Paren identifies one side of a bracket pair.
type Paren int

const (
	LeftParen Paren = iota
	RightParen
	LeftBracket
	RightBracket
	LeftBrace
	RightBrace
)

var parenNames = [...]string{
	LeftParen:    "(",
	RightParen:   ")",
	LeftBracket:  "[",
	RightBracket: "]",
	LeftBrace:    "{",
	RightBrace:   "}",
}

func (p Paren) String() string {
	if p >= 0 && int(p) < len(parenNames) {
		return parenNames[p]
	}
	return fmt.Sprintf("paren(%d)", int(p))
}

// IsLeft reports whether p opens a pair.
func (p Paren) IsLeft() bool {
	return p == LeftParen || p == LeftBracket || p == LeftBrace
}

// Token is one lexical unit. Only the field matching Kind is meaningful
// besides Literal and position.
type Token struct {
	Kind    Kind
	Literal string
	Keyword Keyword
	Symbol  Symbol
	Paren   Paren
	Line    int
	Column  int
}

// Is reports whether t is the given paren.
func (t Token) Is(p Paren) bool {
	return t.Kind == PAREN && t.Paren == p
}

// IsSymbol reports whether t is the given operator.
func (t Token) IsSymbol(s Symbol) bool {
	return t.Kind == SYMBOL && t.Symbol == s
}

func (t Token) String() string {
	switch t.Kind {
	case STRING:
		return fmt.Sprintf("%q", t.Literal)
	case KEYWORD:
		return t.Keyword.String()
	case SYMBOL:
		return t.Symbol.String()
	case PAREN:
		return t.Paren.String()
	case DIVIDER:
		return ","
	case POINT:
		return "."
	case LINE_END:
		return "<line end>"
	}
	return t.Literal
}

// Queue is an ordered token sequence consumed from the front.
type Queue struct {
	tokens []Token
}

// NewQueue creates a queue holding tokens in order.
func NewQueue(tokens ...Token) *Queue {
	q := &Queue{tokens: make([]Token, 0, len(tokens))}
	q.tokens = append(q.tokens, tokens...)
	return q
}

// Len returns the number of unconsumed tokens.
func (q *Queue) Len() int {
	return len(q.tokens)
}

// PopFront removes and returns the first token.
func (q *Queue) PopFront() (Token, bool) {
	if len(q.tokens) == 0 {
		return Token{}, false
	}
	t := q.tokens[0]
	q.tokens = q.tokens[1:]
	return t, true
}

// Front returns the first token without consuming it.
func (q *Queue) Front() (Token, bool) {
	if len(q.tokens) == 0 {
		return Token{}, false
	}
	return q.tokens[0], true
}

// Peek returns the i-th unconsumed token without consuming anything.
func (q *Queue) Peek(i int) (Token, bool) {
	if i < 0 || i >= len(q.tokens) {
		return Token{}, false
	}
	return q.tokens[i], true
}

// PushBack appends a token.
func (q *Queue) PushBack(t Token) {
	q.tokens = append(q.tokens, t)
}

// Clear drops every remaining token.
func (q *Queue) Clear() {
	q.tokens = q.tokens[:0]
}

// Line returns the line of the first token, or 0 when empty.
func (q *Queue) Line() int {
	if len(q.tokens) == 0 {
		return 0
	}
	return q.tokens[0].Line
}

func (q *Queue) String() string {
	parts := make([]string, len(q.tokens))
	for i, t := range q.tokens {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}
