package vm

import (
	"sort"
	"sync"

	"github.com/zurustar/calc/pkg/calcerr"
	"github.com/zurustar/calc/pkg/value"
)

// MaxStackDepth is the maximum number of frames before a call fails.
const MaxStackDepth = 1000

// Scope is the runtime environment: the built-in function table, the
// global variables and a stack of call frames. Only the top frame is
// visible; a nil entry hides every frame below it, which is how lazy
// expressions written at top level see globals only.
type Scope struct {
	builtins map[string]*value.BuiltinFunction
	globals  map[string]value.Value
	order    []string // global names in first-assignment order
	frames   []*value.Frame
	mu       sync.RWMutex
}

// NewScope creates a scope holding the `true` and `false` globals.
func NewScope() *Scope {
	s := &Scope{
		builtins: make(map[string]*value.BuiltinFunction),
		globals:  make(map[string]value.Value),
	}
	s.SetGlobal("true", value.Boolean(true))
	s.SetGlobal("false", value.Boolean(false))
	return s
}

// Lookup resolves name through the current frame, then the globals,
// then the built-in functions.
func (s *Scope) Lookup(name string) (value.Value, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if f := s.current(); f != nil {
		if v, ok := f.Variables[name]; ok {
			return v, true
		}
	}
	if v, ok := s.globals[name]; ok {
		return v, true
	}
	if fn, ok := s.builtins[name]; ok {
		return fn, true
	}
	return nil, false
}

// Assign binds name in the current frame, or in the globals when no
// frame is active.
func (s *Scope) Assign(name string, v value.Value) {
	s.mu.Lock()
	if f := s.current(); f != nil {
		f.Variables[name] = v
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	s.SetGlobal(name, v)
}

// SetGlobal binds name in the globals.
func (s *Scope) SetGlobal(name string, v value.Value) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.globals[name]; !ok {
		s.order = append(s.order, name)
	}
	s.globals[name] = v
}

// Global returns a global variable.
func (s *Scope) Global(name string) (value.Value, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.globals[name]
	return v, ok
}

// GlobalNames returns the global variable names in first-assignment order.
func (s *Scope) GlobalNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, len(s.order))
	copy(names, s.order)
	return names
}

// RegisterBuiltin adds fn to the built-in table, replacing any function
// of the same name.
func (s *Scope) RegisterBuiltin(fn *value.BuiltinFunction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.builtins[fn.Name] = fn
}

// BuiltinNames returns the sorted built-in function names.
func (s *Scope) BuiltinNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.builtins))
	for name := range s.builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PushFrame makes frame the current frame. A nil frame hides the frames
// below it.
func (s *Scope) PushFrame(frame *value.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) >= MaxStackDepth {
		return calcerr.RangeMessage("stack overflow: maximum depth exceeded")
	}
	s.frames = append(s.frames, frame)
	return nil
}

// PopFrame discards the current frame and restores the previous one.
func (s *Scope) PopFrame() (*value.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) == 0 {
		return nil, calcerr.Internal(calcerr.ComponentEvaluator, "cannot pop from empty frame stack")
	}
	frame := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return frame, nil
}

// CurrentFrame returns the visible frame, nil at top level.
func (s *Scope) CurrentFrame() *value.Frame {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current()
}

// Depth returns the number of pushed frames.
func (s *Scope) Depth() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.frames)
}

func (s *Scope) current() *value.Frame {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

// child creates an empty scope sharing this scope's built-in table
// contents, used to run imported files in isolation.
func (s *Scope) child() *Scope {
	c := NewScope()
	s.mu.RLock()
	defer s.mu.RUnlock()
	for name, fn := range s.builtins {
		c.builtins[name] = fn
	}
	return c
}
