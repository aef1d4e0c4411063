// Package aggregate turns raw per-activity impact contributions into
// normalized, axis-grouped results.
//
// The engine owns no I/O: records arrive from the external traversal layer
// already characterized, and results go back to the caller. One call to
// Aggregate is one pass, evaluated entirely against a single parameter
// snapshot.
package aggregate

import (
	"fmt"
	"math"

	"github.com/goccy/go-json"
)

// ImpactRecord is one raw contribution from the traversal collaborator:
// the characterized impact of one activity for one category, tagged with
// that activity's reporting-axis values. An axis absent from AxisTags means
// the activity is unassigned on that axis.
type ImpactRecord struct {
	ActivityID  string            `json:"activity_id"`
	AxisTags    map[string]string `json:"axis_tags,omitempty"`
	CategoryKey string            `json:"category"`
	RawValue    float64           `json:"raw_value"`
}

// Tag is one axis value of a grouping key. Unassigned tags are a distinct
// group of their own, never merged with any tagged group, and marshal as
// JSON null.
type Tag struct {
	Value    string
	Assigned bool
}

// MarshalJSON renders an unassigned tag as null.
func (t Tag) MarshalJSON() ([]byte, error) {
	if !t.Assigned {
		return []byte("null"), nil
	}
	return json.Marshal(t.Value)
}

// UnmarshalJSON accepts null for an unassigned tag.
func (t *Tag) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = Tag{}
		return nil
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*t = Tag{Value: v, Assigned: true}
	return nil
}

func (t Tag) String() string {
	if !t.Assigned {
		return "<unassigned>"
	}
	return t.Value
}

// AggregatedResult is one normalized value: the summed raw impact of one
// (category, axis-tag combination) group divided by one functional-unit
// denominator. AxisTags is aligned with the declared axis order.
//
// ZeroDenominator marks groups whose functional unit resolved to zero; the
// value is NaN and must not be read as a quantity. The flag keeps the
// report rectangular while making the condition explicit instead of a
// silent Inf or zero.
type AggregatedResult struct {
	CategoryKey     string  `json:"category"`
	FunctionalUnit  string  `json:"functional_unit"`
	AxisTags        []Tag   `json:"axis_tags"`
	Value           float64 `json:"value"`
	Unit            string  `json:"unit,omitempty"`
	ZeroDenominator bool    `json:"zero_denominator,omitempty"`
}

// resultJSON is the wire shape of AggregatedResult. Value is a pointer so
// a zero-denominator result can carry null: JSON has no NaN, and one
// flagged group must not make the whole report unencodable.
type resultJSON struct {
	CategoryKey     string   `json:"category"`
	FunctionalUnit  string   `json:"functional_unit"`
	AxisTags        []Tag    `json:"axis_tags"`
	Value           *float64 `json:"value"`
	Unit            string   `json:"unit,omitempty"`
	ZeroDenominator bool     `json:"zero_denominator,omitempty"`
}

// MarshalJSON renders a zero-denominator value as null, keeping the rest
// of the report intact.
func (r AggregatedResult) MarshalJSON() ([]byte, error) {
	out := resultJSON{
		CategoryKey:     r.CategoryKey,
		FunctionalUnit:  r.FunctionalUnit,
		AxisTags:        r.AxisTags,
		Unit:            r.Unit,
		ZeroDenominator: r.ZeroDenominator,
	}
	if !r.ZeroDenominator {
		v := r.Value
		out.Value = &v
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores the NaN sentinel for a null value.
func (r *AggregatedResult) UnmarshalJSON(data []byte) error {
	var in resultJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*r = AggregatedResult{
		CategoryKey:     in.CategoryKey,
		FunctionalUnit:  in.FunctionalUnit,
		AxisTags:        in.AxisTags,
		Unit:            in.Unit,
		ZeroDenominator: in.ZeroDenominator,
	}
	if in.Value != nil {
		r.Value = *in.Value
	} else {
		r.Value = math.NaN()
	}
	return nil
}

// ExcludedRecord describes one input record dropped from its group's sum,
// with the reason. Exclusions are always counted and surfaced; a pass never
// quietly produces clean totals from dirty input.
type ExcludedRecord struct {
	ActivityID  string `json:"activity_id"`
	CategoryKey string `json:"category"`
	Reason      string `json:"reason"`
}

// Report is the outcome of one aggregation pass.
type Report struct {
	// RunID correlates the pass's log lines with its output.
	RunID string `json:"run_id"`

	// Results in deterministic order: category key, then axis tag
	// combination (lexicographic by axis declaration order, unassigned
	// last), then functional-unit declaration order.
	Results []AggregatedResult `json:"results"`

	// Excluded lists records dropped from the pass, one entry each.
	Excluded []ExcludedRecord `json:"excluded,omitempty"`

	// RecordCount is the number of input records that contributed to sums.
	RecordCount int `json:"record_count"`
}

// ExcludedCount returns the number of records dropped from the pass.
func (r *Report) ExcludedCount() int {
	return len(r.Excluded)
}

// Summary renders a one-line account of the pass for logs and CLI output.
func (r *Report) Summary() string {
	return fmt.Sprintf("%d results from %d records (%d excluded)", len(r.Results), r.RecordCount, len(r.Excluded))
}
