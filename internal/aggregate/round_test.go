package aggregate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundSignificant(t *testing.T) {
	tests := []struct {
		name   string
		value  float64
		digits int
		want   float64
	}{
		{name: "three digits", value: 1234.56, digits: 3, want: 1230},
		{name: "rounds half up", value: 0.041615, digits: 4, want: 0.04162},
		{name: "small magnitude", value: 0.00012345, digits: 2, want: 0.00012},
		{name: "negative value", value: -987.65, digits: 2, want: -990},
		{name: "integer unchanged at enough digits", value: 400, digits: 6, want: 400},
		{name: "zero passes through", value: 0, digits: 3, want: 0},
		{name: "digits zero disables rounding", value: 1234.56, digits: 0, want: 1234.56},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, RoundSignificant(tt.value, tt.digits), math.Abs(tt.want)*1e-12)
		})
	}
}

func TestRoundSignificant_NonFinitePassThrough(t *testing.T) {
	assert.True(t, math.IsNaN(RoundSignificant(math.NaN(), 3)))
	assert.True(t, math.IsInf(RoundSignificant(math.Inf(1), 3), 1))
}

func TestReport_Rounded(t *testing.T) {
	report := &Report{
		RunID: "run-1",
		Results: []AggregatedResult{
			{CategoryKey: "climate_change", FunctionalUnit: "power", Value: 0.0186432},
			{CategoryKey: "climate_change", FunctionalUnit: "energy", Value: math.NaN(), ZeroDenominator: true},
		},
		Excluded:    []ExcludedRecord{{ActivityID: "x", CategoryKey: "climate_change", Reason: "non-finite raw value NaN"}},
		RecordCount: 4,
	}

	rounded := report.Rounded(3)

	assert.Equal(t, 0.0186, rounded.Results[0].Value)
	assert.True(t, math.IsNaN(rounded.Results[1].Value))
	assert.True(t, rounded.Results[1].ZeroDenominator)
	assert.Equal(t, 1, rounded.ExcludedCount())
	assert.Equal(t, "run-1", rounded.RunID)

	// Original untouched.
	assert.Equal(t, 0.0186432, report.Results[0].Value)
}
