// Package registry holds the declared, load-time-immutable pieces of an LCA
// project: functional units, impact categories, and reporting axes.
//
// Declaration order is preserved everywhere it is observable. Report columns
// follow functional-unit order and grouping keys follow axis order, so the
// registries are backed by ordered slices with map indexes for lookup.
package registry

import (
	"fmt"

	"github.com/rshade/lca-engine/internal/formula"
	"github.com/rshade/lca-engine/internal/params"
)

// FunctionalUnit is a named reference quantity impacts are normalized by.
// The formula is parsed once at load; Source keeps the original text for
// error messages and export.
type FunctionalUnit struct {
	Name    string
	Formula *formula.Expr
	Source  string
	Unit    string // display label, empty for the raw-totals identity unit
}

// UnknownFunctionalUnitError indicates a resolve of an unregistered name.
type UnknownFunctionalUnitError struct {
	Name string
}

func (e *UnknownFunctionalUnitError) Error() string {
	return fmt.Sprintf("unknown functional unit %q", e.Name)
}

// DuplicateKeyError indicates a configuration declaring the same functional
// unit, impact category, or axis twice.
type DuplicateKeyError struct {
	Kind string // "functional unit", "impact category", "axis"
	Key  string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate %s %q", e.Kind, e.Key)
}

// Units is the functional-unit registry.
type Units struct {
	byName  map[string]FunctionalUnit
	ordered []string
	cache   *formula.Cache
}

// NewUnits builds the registry from declared units, preserving declaration
// order. Duplicate names are a load-time error.
func NewUnits(declared []FunctionalUnit) (*Units, error) {
	u := &Units{
		byName:  make(map[string]FunctionalUnit, len(declared)),
		ordered: make([]string, 0, len(declared)),
		cache:   formula.NewCache(),
	}
	for _, fu := range declared {
		if _, exists := u.byName[fu.Name]; exists {
			return nil, &DuplicateKeyError{Kind: "functional unit", Key: fu.Name}
		}
		u.byName[fu.Name] = fu
		u.ordered = append(u.ordered, fu.Name)
	}
	return u, nil
}

// Resolve evaluates the named unit's formula against the snapshot and
// returns the normalization denominator. Formula errors propagate as-is.
// Results are memoized per (formula, snapshot).
func (u *Units) Resolve(name string, snap params.Snapshot) (float64, error) {
	fu, ok := u.byName[name]
	if !ok {
		return 0, &UnknownFunctionalUnitError{Name: name}
	}
	return u.cache.Eval(fu.Formula, snap)
}

// Lookup returns the named unit's record.
func (u *Units) Lookup(name string) (FunctionalUnit, error) {
	fu, ok := u.byName[name]
	if !ok {
		return FunctionalUnit{}, &UnknownFunctionalUnitError{Name: name}
	}
	return fu, nil
}

// List returns the units in declaration order.
func (u *Units) List() []FunctionalUnit {
	out := make([]FunctionalUnit, 0, len(u.ordered))
	for _, name := range u.ordered {
		out = append(out, u.byName[name])
	}
	return out
}
