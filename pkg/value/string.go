package value

import (
	"sync"

	"github.com/zurustar/calc/pkg/calcerr"
)

// String is a shared, mutable character buffer indexed by rune.
type String struct {
	runes []rune
	mu    sync.RWMutex
}

// NewString creates a String holding s.
func NewString(s string) *String {
	return &String{runes: []rune(s)}
}

func (s *String) Type() Type { return TypeString }

func (s *String) String() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return string(s.runes)
}

// Len returns the number of characters.
func (s *String) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.runes)
}

// CharAt returns the character at index as a new one-character String.
func (s *String) CharAt(index int) (*String, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if index < 0 || index >= len(s.runes) {
		return nil, calcerr.Bounds(index, len(s.runes))
	}
	return &String{runes: []rune{s.runes[index]}}, nil
}

// SetAt replaces the character at index with the single character in ch.
func (s *String) SetAt(index int, ch string) error {
	r := []rune(ch)
	if len(r) != 1 {
		return calcerr.RangeMessage("string element must be a single character")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.runes) {
		return calcerr.Bounds(index, len(s.runes))
	}
	s.runes[index] = r[0]
	return nil
}

// Set replaces the whole buffer.
func (s *String) Set(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runes = []rune(v)
}
