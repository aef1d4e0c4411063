package params

import (
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Store holds the current parameter values for a project.
//
// Reads and writes are safe for concurrent use, but evaluation code must not
// read the live store: take a Snapshot and evaluate against that.
type Store struct {
	mu      sync.RWMutex
	byName  map[string]Parameter
	ordered []string
}

// NewStore creates a store from the declared parameters. Declaration order
// is preserved by List. Each parameter's current value starts at its default.
func NewStore(declared []Parameter) *Store {
	s := &Store{
		byName:  make(map[string]Parameter, len(declared)),
		ordered: make([]string, 0, len(declared)),
	}
	for _, p := range declared {
		p.Value = p.Default
		s.byName[p.Name] = p
		s.ordered = append(s.ordered, p.Name)
	}
	return s
}

// Get returns the current value of the named parameter.
func (s *Store) Get(name string) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.byName[name]
	if !ok {
		return 0, &UnknownParameterError{Name: name}
	}
	return p.Value, nil
}

// Lookup returns the full parameter record.
func (s *Store) Lookup(name string) (Parameter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.byName[name]
	if !ok {
		return Parameter{}, &UnknownParameterError{Name: name}
	}
	return p, nil
}

// Set updates the current value of the named parameter. Non-finite values
// and values outside a declared range are rejected without changing the
// store.
func (s *Store) Set(name string, value float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.byName[name]
	if !ok {
		return &UnknownParameterError{Name: name}
	}
	if !isFinite(value) {
		return &NonFiniteError{Name: name, Value: value}
	}
	if !p.InRange(value) {
		return &OutOfRangeError{Name: name, Value: value, Min: p.Min, Max: p.Max}
	}
	p.Value = value
	s.byName[name] = p
	return nil
}

// Reset restores the named parameter to its declared default.
func (s *Store) Reset(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.byName[name]
	if !ok {
		return &UnknownParameterError{Name: name}
	}
	p.Value = p.Default
	s.byName[name] = p
	return nil
}

// List returns the parameters in declaration order.
func (s *Store) List() []Parameter {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Parameter, 0, len(s.ordered))
	for _, name := range s.ordered {
		out = append(out, s.byName[name])
	}
	return out
}

// Snapshot captures the current value of every parameter. The returned
// snapshot is detached from the store: later Set calls do not affect it.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	values := make(map[string]float64, len(s.byName))
	for name, p := range s.byName {
		values[name] = p.Value
	}
	return Snapshot{values: values}
}

// Snapshot is an immutable view of parameter values at a point in time.
// The zero value is an empty snapshot.
type Snapshot struct {
	values map[string]float64
}

// NewSnapshot builds a snapshot directly from a value map. The map is
// copied; test fixtures and parameter overrides use this.
func NewSnapshot(values map[string]float64) Snapshot {
	copied := make(map[string]float64, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return Snapshot{values: copied}
}

// Value returns the snapshot value for name.
func (s Snapshot) Value(name string) (float64, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Len returns the number of parameters captured.
func (s Snapshot) Len() int {
	return len(s.values)
}

// With returns a derived snapshot with the given overrides applied on top
// of this one. The receiver is not modified.
func (s Snapshot) With(overrides map[string]float64) Snapshot {
	values := make(map[string]float64, len(s.values)+len(overrides))
	for k, v := range s.values {
		values[k] = v
	}
	for k, v := range overrides {
		values[k] = v
	}
	return Snapshot{values: values}
}

// Key returns a deterministic fingerprint of the snapshot contents, used to
// key memoized formula evaluations. Values are rendered in exact hex float
// form so distinct snapshots never collide.
func (s Snapshot) Key() string {
	names := make([]string, 0, len(s.values))
	for name := range s.values {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(strconv.FormatFloat(s.values[name], 'x', -1, 64))
	}
	return b.String()
}
