package aggregate

import "math"

// RoundSignificant rounds v to the given number of significant digits.
// Non-finite values and zero pass through unchanged; digits < 1 is a no-op.
func RoundSignificant(v float64, digits int) float64 {
	if digits < 1 || v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	magnitude := math.Ceil(math.Log10(math.Abs(v)))
	scale := math.Pow(10, float64(digits)-magnitude)
	return math.Round(v*scale) / scale
}

// Rounded returns a copy of the report with every result value rounded to
// the given number of significant digits. Exclusions and ordering are
// unchanged; zero-denominator sentinels stay NaN.
func (r *Report) Rounded(digits int) *Report {
	out := &Report{
		RunID:       r.RunID,
		Results:     make([]AggregatedResult, len(r.Results)),
		Excluded:    r.Excluded,
		RecordCount: r.RecordCount,
	}
	copy(out.Results, r.Results)
	for i := range out.Results {
		out.Results[i].Value = RoundSignificant(out.Results[i].Value, digits)
	}
	return out
}
