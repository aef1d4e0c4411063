package aggregate

import (
	"math"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Unassigned tags render as JSON null so report consumers can tell "no tag"
// apart from an empty-string tag.
func TestTag_JSONNullForUnassigned(t *testing.T) {
	res := AggregatedResult{
		CategoryKey:    "climate_change",
		FunctionalUnit: "system",
		AxisTags:       []Tag{{Value: "turbines", Assigned: true}, {}},
		Value:          7.2,
	}

	data, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"axis_tags":["turbines",null]`)

	var decoded AggregatedResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, res.AxisTags, decoded.AxisTags)
}

// A report with a zero-denominator group must still encode: the NaN
// sentinel renders as null instead of failing the whole marshal and losing
// the healthy results and exclusion summary with it.
func TestReport_JSONWithZeroDenominator(t *testing.T) {
	report := &Report{
		RunID: "run-1",
		Results: []AggregatedResult{
			{CategoryKey: "climate_change", FunctionalUnit: "system", AxisTags: []Tag{{}}, Value: 7.2, Unit: "kg CO2-Eq"},
			{CategoryKey: "climate_change", FunctionalUnit: "power", AxisTags: []Tag{{}}, Value: math.NaN(), ZeroDenominator: true},
		},
		Excluded:    []ExcludedRecord{{ActivityID: "x", CategoryKey: "climate_change", Reason: "non-finite raw value NaN"}},
		RecordCount: 2,
	}

	data, err := json.MarshalIndent(report, "", "  ")
	require.NoError(t, err)

	assert.Contains(t, string(data), `"value": 7.2`)
	assert.Contains(t, string(data), `"value": null`)
	assert.Contains(t, string(data), `"zero_denominator": true`)
	assert.Contains(t, string(data), `"non-finite raw value NaN"`)

	var decoded Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded.Results, 2)
	assert.Equal(t, 7.2, decoded.Results[0].Value)
	assert.True(t, math.IsNaN(decoded.Results[1].Value))
	assert.True(t, decoded.Results[1].ZeroDenominator)
	assert.Equal(t, 1, decoded.ExcludedCount())
}

func TestImpactRecord_JSONShape(t *testing.T) {
	const payload = `[
	  {"activity_id": "foundations", "axis_tags": {"phase": "production"}, "category": "climate_change", "raw_value": 3.5},
	  {"activity_id": "cables", "category": "climate_change", "raw_value": 1.25}
	]`

	var records []ImpactRecord
	require.NoError(t, json.Unmarshal([]byte(payload), &records))

	require.Len(t, records, 2)
	assert.Equal(t, "foundations", records[0].ActivityID)
	assert.Equal(t, "production", records[0].AxisTags["phase"])
	assert.Nil(t, records[1].AxisTags)
	assert.Equal(t, 1.25, records[1].RawValue)
}
