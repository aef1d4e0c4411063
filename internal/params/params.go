// Package params holds the mutable parameter state of an LCA project:
// named scalar parameters with declared defaults and optional valid ranges.
//
// The store is the only mutable piece of the engine. Evaluation never reads
// it directly; callers take a Snapshot and pass that by value through an
// entire aggregation pass, so all functional-unit denominators within one
// pass see the same parameter values even if the live store is edited
// mid-pass.
package params

import (
	"fmt"
	"math"
)

// Parameter describes a single named scalar parameter.
//
// Default and the declared range are fixed at load time; only the current
// value changes afterwards. Unit is a display label and may be empty
// (dimensionless).
type Parameter struct {
	// Name is the identifier formulas use to reference this parameter.
	Name string

	// Value is the current value, initialized to Default at load.
	Value float64

	// Default is the declared default, immutable after load.
	Default float64

	// Unit is a display label (e.g. "MW", "years"); empty for dimensionless.
	Unit string

	// Min and Max bound valid values when HasRange is true.
	Min float64
	Max float64

	// HasRange indicates whether Min/Max are enforced on Set.
	HasRange bool
}

// InRange reports whether v satisfies the declared range. Parameters
// without a declared range accept any value.
func (p Parameter) InRange(v float64) bool {
	if !p.HasRange {
		return true
	}
	return v >= p.Min && v <= p.Max
}

// UnknownParameterError indicates a lookup of a name the store does not hold.
type UnknownParameterError struct {
	Name string
}

func (e *UnknownParameterError) Error() string {
	return fmt.Sprintf("unknown parameter %q", e.Name)
}

// OutOfRangeError indicates a Set that violates a declared valid range.
type OutOfRangeError struct {
	Name     string
	Value    float64
	Min, Max float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("parameter %q: value %g outside declared range [%g, %g]", e.Name, e.Value, e.Min, e.Max)
}

// NonFiniteError indicates a Set with a NaN or infinite value.
type NonFiniteError struct {
	Name  string
	Value float64
}

func (e *NonFiniteError) Error() string {
	return fmt.Sprintf("parameter %q: value %v is not finite", e.Name, e.Value)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
