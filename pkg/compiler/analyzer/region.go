package analyzer

import (
	"github.com/zurustar/calc/pkg/calcerr"
	"github.com/zurustar/calc/pkg/compiler/token"
)

// delimiter selects which bracket kinds move the depth of a region.
type delimiter int

const (
	anyBracket delimiter = iota
	parens
	brackets
	braces
)

func (d delimiter) opens(t token.Token) bool {
	switch d {
	case parens:
		return t.Is(token.LeftParen)
	case brackets:
		return t.Is(token.LeftBracket)
	case braces:
		return t.Is(token.LeftBrace)
	}
	return t.Kind == token.PAREN && t.Paren.IsLeft()
}

func (d delimiter) closes(t token.Token) bool {
	switch d {
	case parens:
		return t.Is(token.RightParen)
	case brackets:
		return t.Is(token.RightBracket)
	case braces:
		return t.Is(token.RightBrace)
	}
	return t.Kind == token.PAREN && !t.Paren.IsLeft()
}

func (d delimiter) unmatched() error {
	switch d {
	case brackets:
		return calcerr.Syntax("unmatched brackets")
	case braces:
		return calcerr.Syntax("unmatched braces")
	}
	return calcerr.Syntax("unmatched parentheses")
}

// consumeRegion pops the tokens of one delimited construct whose opening
// delimiter has already been popped, up to and including the matching close.
// The depth starts at 1 and only delimiters of kind d move it. With split
// set, a divider that is not inside any nested bracket ends one element;
// empty elements are dropped. Without split the region is one element.
func consumeRegion(tokens *token.Queue, d delimiter, split bool) ([]*token.Queue, error) {
	depth := 1
	nested := 0
	current := token.NewQueue()
	var elements []*token.Queue

	flush := func() {
		if current.Len() > 0 {
			elements = append(elements, current)
			current = token.NewQueue()
		}
	}

	for {
		t, ok := tokens.PopFront()
		if !ok {
			return nil, d.unmatched()
		}

		if d.opens(t) {
			depth++
		} else if d.closes(t) {
			depth--
			if depth == 0 {
				flush()
				return elements, nil
			}
		}

		if t.Kind == token.PAREN {
			if t.Paren.IsLeft() {
				nested++
			} else {
				nested--
			}
		}

		if split && t.Kind == token.DIVIDER && nested == 0 {
			flush()
			continue
		}
		current.PushBack(t)
	}
}

// consumeSingle is consumeRegion for constructs holding one expression.
func consumeSingle(tokens *token.Queue, d delimiter) (*token.Queue, error) {
	elements, err := consumeRegion(tokens, d, false)
	if err != nil {
		return nil, err
	}
	if len(elements) == 0 {
		return token.NewQueue(), nil
	}
	return elements[0], nil
}

// splitUnits splits tokens into statements at line ends outside brackets.
// Empty units are dropped.
func splitUnits(tokens *token.Queue) []*token.Queue {
	return splitAt(tokens, func(t token.Token) bool { return t.Kind == token.LINE_END })
}

// splitAt splits tokens wherever sep matches outside brackets.
func splitAt(tokens *token.Queue, sep func(token.Token) bool) []*token.Queue {
	var units []*token.Queue
	current := token.NewQueue()
	depth := 0
	for {
		t, ok := tokens.PopFront()
		if !ok {
			break
		}
		if t.Kind == token.PAREN {
			if t.Paren.IsLeft() {
				depth++
			} else if depth > 0 {
				depth--
			}
		}
		if depth == 0 && sep(t) {
			if current.Len() > 0 {
				units = append(units, current)
				current = token.NewQueue()
			}
			continue
		}
		current.PushBack(t)
	}
	if current.Len() > 0 {
		units = append(units, current)
	}
	return units
}
