package value

import (
	"strings"
	"sync"

	"github.com/zurustar/calc/pkg/calcerr"
)

// Array is an ordered, shared sequence of values.
// Every handle to the same *Array sees writes made through any other handle.
type Array struct {
	elements []Value
	mu       sync.RWMutex
}

// NewArray creates an Array holding elements. The slice is owned by the array.
func NewArray(elements []Value) *Array {
	if elements == nil {
		elements = []Value{}
	}
	return &Array{elements: elements}
}

func (a *Array) Type() Type { return TypeArray }

// Get returns the element at index, or a bounds error.
func (a *Array) Get(index int) (Value, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if index < 0 || index >= len(a.elements) {
		return nil, calcerr.Bounds(index, len(a.elements))
	}
	return a.elements[index], nil
}

// Set replaces the element at index in place, or returns a bounds error.
// Arrays never grow through indexed writes.
func (a *Array) Set(index int, v Value) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if index < 0 || index >= len(a.elements) {
		return calcerr.Bounds(index, len(a.elements))
	}
	a.elements[index] = v
	return nil
}

// Len returns the current length of the array.
func (a *Array) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.elements)
}

// Elements returns a copy of the underlying slice.
func (a *Array) Elements() []Value {
	a.mu.RLock()
	defer a.mu.RUnlock()
	result := make([]Value, len(a.elements))
	copy(result, a.elements)
	return result
}

// Push appends v.
func (a *Array) Push(v Value) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.elements = append(a.elements, v)
}

// Pop removes and returns the last element.
func (a *Array) Pop() (Value, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.elements) == 0 {
		return nil, calcerr.RangeMessage("pop from empty array")
	}
	last := a.elements[len(a.elements)-1]
	a.elements = a.elements[:len(a.elements)-1]
	return last, nil
}

// InsertAt inserts v at index, shifting later elements back.
// index may equal the length.
func (a *Array) InsertAt(index int, v Value) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if index < 0 || index > len(a.elements) {
		return calcerr.Bounds(index, len(a.elements)+1)
	}
	a.elements = append(a.elements[:index], append([]Value{v}, a.elements[index:]...)...)
	return nil
}

// DeleteAt removes and returns the element at index, shifting later elements forward.
func (a *Array) DeleteAt(index int) (Value, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if index < 0 || index >= len(a.elements) {
		return nil, calcerr.Bounds(index, len(a.elements))
	}
	removed := a.elements[index]
	a.elements = append(a.elements[:index], a.elements[index+1:]...)
	return removed, nil
}

// Reverse reverses the array in place.
func (a *Array) Reverse() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i, j := 0, len(a.elements)-1; i < j; i, j = i+1, j-1 {
		a.elements[i], a.elements[j] = a.elements[j], a.elements[i]
	}
}

func (a *Array) String() string {
	return inspect(a, 0)
}

func (a *Array) format(level int) string {
	elements := a.Elements()
	parts := make([]string, len(elements))
	for i, e := range elements {
		parts[i] = inspect(e, level)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
