// Package lexer turns calc source text into tokens.
package lexer

import (
	"fmt"
	"strings"

	"github.com/zurustar/calc/pkg/calcerr"
	"github.com/zurustar/calc/pkg/compiler/token"
)

// Lexer tokenizes calc source code.
type Lexer struct {
	input        string
	position     int  // current position in input
	readPosition int  // current reading position (after current char)
	ch           byte // current char
	line         int  // current line number
	column       int  // current column number
}

// New creates a new Lexer.
func New(input string) *Lexer {
	l := &Lexer{
		input:  input,
		line:   1,
		column: 0,
	}
	l.readChar()
	return l
}

// Tokenize scans the whole input into a token queue.
// The first illegal character aborts scanning with a syntax error.
func Tokenize(input string) (*token.Queue, error) {
	l := New(input)
	q := token.NewQueue()
	for {
		tok := l.NextToken()
		switch tok.Kind {
		case token.EOF:
			return q, nil
		case token.ILLEGAL:
			err := calcerr.Syntax("unexpected character %s at column %d", tok.Literal, tok.Column)
			err.Line = tok.Line
			return nil, err
		}
		q.PushBack(tok)
	}
}

// NextToken returns the next token.
func (l *Lexer) NextToken() token.Token {
	var tok token.Token

	l.skipWhitespace()

	tok.Line = l.line
	tok.Column = l.column

	switch l.ch {
	case '=':
		if l.peekChar() == '=' {
			tok = l.twoCharSymbol(token.CompareEqual, tok)
		} else {
			tok = l.newSymbol(token.Equal)
		}
	case '!':
		if l.peekChar() == '=' {
			tok = l.twoCharSymbol(token.NotEqual, tok)
		} else {
			tok = l.newSymbol(token.Not)
		}
	case '<':
		if l.peekChar() == '=' {
			tok = l.twoCharSymbol(token.LessThanEqual, tok)
		} else {
			tok = l.newSymbol(token.LessThan)
		}
	case '>':
		if l.peekChar() == '=' {
			tok = l.twoCharSymbol(token.MoreThanEqual, tok)
		} else {
			tok = l.newSymbol(token.MoreThan)
		}
	case '+':
		tok = l.newSymbol(token.Plus)
	case '-':
		tok = l.newSymbol(token.Minus)
	case '*':
		tok = l.newSymbol(token.Multiply)
	case '/':
		tok = l.newSymbol(token.Divide)
	case '^':
		tok = l.newSymbol(token.Power)
	case '(':
		tok = l.newParen(token.LeftParen)
	case ')':
		tok = l.newParen(token.RightParen)
	case '[':
		tok = l.newParen(token.LeftBracket)
	case ']':
		tok = l.newParen(token.RightBracket)
	case '{':
		tok = l.newParen(token.LeftBrace)
	case '}':
		tok = l.newParen(token.RightBrace)
	case ',':
		tok = l.newToken(token.DIVIDER, l.ch)
	case '.':
		tok = l.newToken(token.POINT, l.ch)
	case ';', '\n':
		tok = l.newToken(token.LINE_END, l.ch)
	case '#':
		l.skipComment()
		return l.NextToken()
	case '"':
		lit, ok := l.readString()
		if !ok {
			return token.Token{Kind: token.ILLEGAL, Literal: `unterminated string`, Line: tok.Line, Column: tok.Column}
		}
		tok.Kind = token.STRING
		tok.Literal = lit
	case 0:
		tok.Kind = token.EOF
		return tok
	default:
		if isLetter(l.ch) {
			tok.Literal = l.readIdentifier()
			if kw, ok := token.LookupKeyword(tok.Literal); ok {
				tok.Kind = token.KEYWORD
				tok.Keyword = kw
			} else {
				tok.Kind = token.IDENT
			}
			return tok
		} else if isDigit(l.ch) {
			tok.Kind = token.NUMBER
			tok.Literal = l.readNumber()
			return tok
		}
		tok = l.newToken(token.ILLEGAL, l.ch)
		tok.Literal = fmt.Sprintf("%q", rune(l.ch))
	}

	l.readChar()
	return tok
}

// readChar reads the next character.
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// readIdentifier reads an identifier.
func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

// readNumber reads an integer or floating point literal.
func (l *Lexer) readNumber() string {
	position := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar() // consume '.'
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return l.input[position:l.position]
}

// readString reads a string literal, resolving escapes. The closing quote
// is left as the current char.
func (l *Lexer) readString() (string, bool) {
	var buf strings.Builder
	for {
		l.readChar()
		switch l.ch {
		case 0, '\n':
			return "", false
		case '"':
			return buf.String(), true
		case '\\':
			l.readChar()
			switch l.ch {
			case 'n':
				buf.WriteByte('\n')
			case 't':
				buf.WriteByte('\t')
			case 'r':
				buf.WriteByte('\r')
			case 0:
				return "", false
			default:
				buf.WriteByte(l.ch)
			}
		default:
			buf.WriteByte(l.ch)
		}
	}
}

// skipComment skips a `#` comment up to (not including) the line break.
func (l *Lexer) skipComment() {
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
}

// skipWhitespace skips blanks. Line breaks are tokens.
func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
		l.readChar()
	}
}

func (l *Lexer) newToken(kind token.Kind, ch byte) token.Token {
	return token.Token{Kind: kind, Literal: string(ch), Line: l.line, Column: l.column}
}

func (l *Lexer) newSymbol(sym token.Symbol) token.Token {
	return token.Token{Kind: token.SYMBOL, Symbol: sym, Literal: sym.String(), Line: l.line, Column: l.column}
}

func (l *Lexer) newParen(p token.Paren) token.Token {
	return token.Token{Kind: token.PAREN, Paren: p, Literal: p.String(), Line: l.line, Column: l.column}
}

// twoCharSymbol consumes the first char of a two-char operator; NextToken consumes the second.
func (l *Lexer) twoCharSymbol(sym token.Symbol, at token.Token) token.Token {
	l.readChar()
	return token.Token{Kind: token.SYMBOL, Symbol: sym, Literal: sym.String(), Line: at.Line, Column: at.Column}
}

// isLetter checks if a character can start an identifier.
func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' || ch >= 0x80
}

// isDigit checks if a character is a digit.
func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
