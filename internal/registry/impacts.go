package registry

import "fmt"

// ImpactCategory identifies one characterization result of the background
// database. Method, Category, and Indicator are opaque strings passed
// through to the database collaborator unexamined; Unit is the display
// label of the characterized value (e.g. "kg CO2-Eq").
type ImpactCategory struct {
	Key       string
	Method    string
	Category  string
	Indicator string
	Unit      string
}

// UnknownImpactCategoryError indicates a lookup of an undeclared category
// key. Downstream consumers referencing an unknown key is a configuration
// error, never a silent zero.
type UnknownImpactCategoryError struct {
	Key string
}

func (e *UnknownImpactCategoryError) Error() string {
	return fmt.Sprintf("unknown impact category %q", e.Key)
}

// Impacts is the impact-category registry. Immutable after load.
type Impacts struct {
	byKey   map[string]ImpactCategory
	ordered []string
}

// NewImpacts builds the registry, rejecting duplicate keys.
func NewImpacts(declared []ImpactCategory) (*Impacts, error) {
	r := &Impacts{
		byKey:   make(map[string]ImpactCategory, len(declared)),
		ordered: make([]string, 0, len(declared)),
	}
	for _, ic := range declared {
		if _, exists := r.byKey[ic.Key]; exists {
			return nil, &DuplicateKeyError{Kind: "impact category", Key: ic.Key}
		}
		r.byKey[ic.Key] = ic
		r.ordered = append(r.ordered, ic.Key)
	}
	return r, nil
}

// Lookup returns the category for key.
func (r *Impacts) Lookup(key string) (ImpactCategory, error) {
	ic, ok := r.byKey[key]
	if !ok {
		return ImpactCategory{}, &UnknownImpactCategoryError{Key: key}
	}
	return ic, nil
}

// Has reports whether key is declared.
func (r *Impacts) Has(key string) bool {
	_, ok := r.byKey[key]
	return ok
}

// List returns the categories in declaration order.
func (r *Impacts) List() []ImpactCategory {
	out := make([]ImpactCategory, 0, len(r.ordered))
	for _, key := range r.ordered {
		out = append(out, r.byKey[key])
	}
	return out
}
