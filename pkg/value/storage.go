package value

// Storage is a name-keyed table of entries in declaration order.
// Two backings implement it: a small ordered list searched linearly and a
// map with a key slice for order. Lookup behaves identically for both.
type Storage[T any] interface {
	Get(name string) (T, bool)
	Names() []string
	Len() int
}

// Entry is one named element of a Storage.
type Entry[T any] struct {
	Name  string
	Value T
}

// MapThreshold is the entry count above which NewStorage picks the map backing.
const MapThreshold = 8

// NewStorage builds a Storage for entries, choosing the backing by size.
// The choice is made once; a storage never changes backing.
func NewStorage[T any](entries []Entry[T]) Storage[T] {
	if len(entries) > MapThreshold {
		return NewMapStorage(entries)
	}
	return NewListStorage(entries)
}

type listStorage[T any] struct {
	entries []Entry[T]
}

// NewListStorage builds the list-backed Storage.
func NewListStorage[T any](entries []Entry[T]) Storage[T] {
	s := &listStorage[T]{entries: make([]Entry[T], 0, len(entries))}
	for _, e := range entries {
		if _, dup := s.Get(e.Name); dup {
			continue
		}
		s.entries = append(s.entries, e)
	}
	return s
}

func (s *listStorage[T]) Get(name string) (T, bool) {
	for _, e := range s.entries {
		if e.Name == name {
			return e.Value, true
		}
	}
	var zero T
	return zero, false
}

func (s *listStorage[T]) Names() []string {
	names := make([]string, len(s.entries))
	for i, e := range s.entries {
		names[i] = e.Name
	}
	return names
}

func (s *listStorage[T]) Len() int { return len(s.entries) }

type mapStorage[T any] struct {
	values map[string]T
	order  []string
}

// NewMapStorage builds the map-backed Storage.
func NewMapStorage[T any](entries []Entry[T]) Storage[T] {
	s := &mapStorage[T]{values: make(map[string]T, len(entries))}
	for _, e := range entries {
		if _, dup := s.values[e.Name]; dup {
			continue
		}
		s.values[e.Name] = e.Value
		s.order = append(s.order, e.Name)
	}
	return s
}

func (s *mapStorage[T]) Get(name string) (T, bool) {
	v, ok := s.values[name]
	return v, ok
}

func (s *mapStorage[T]) Names() []string {
	names := make([]string, len(s.order))
	copy(names, s.order)
	return names
}

func (s *mapStorage[T]) Len() int { return len(s.order) }
