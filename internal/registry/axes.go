package registry

// Axes is the ordered list of declared reporting axes. Axis order defines
// the lexicographic comparison order of grouping keys, so it is fixed at
// load and never reordered.
type Axes struct {
	names []string
	index map[string]int
}

// NewAxes builds the axis list, rejecting duplicates.
func NewAxes(names []string) (*Axes, error) {
	a := &Axes{
		names: make([]string, 0, len(names)),
		index: make(map[string]int, len(names)),
	}
	for _, name := range names {
		if _, exists := a.index[name]; exists {
			return nil, &DuplicateKeyError{Kind: "axis", Key: name}
		}
		a.index[name] = len(a.names)
		a.names = append(a.names, name)
	}
	return a, nil
}

// Names returns the axes in declaration order. Callers must not modify the
// returned slice.
func (a *Axes) Names() []string {
	return a.names
}

// Len returns the number of declared axes.
func (a *Axes) Len() int {
	return len(a.names)
}

// Has reports whether name is a declared axis.
func (a *Axes) Has(name string) bool {
	_, ok := a.index[name]
	return ok
}
