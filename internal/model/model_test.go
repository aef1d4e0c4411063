package model

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/lca-engine/internal/aggregate"
	"github.com/rshade/lca-engine/internal/config"
	"github.com/rshade/lca-engine/internal/registry"
)

const windFarmYAML = `
impacts:
  climate_change:
    method: "EF v3.0"
    category: "climate change"
    indicator: "GWP100"
    unit: "kg CO2-Eq"
  land_use: ["EF v3.0", "land use", "SQP"]

functional_units:
  system: {formula: "1", unit: ""}
  energy:
    formula: "load_rate * availability * 8760 * turbine_MW * 1000 * n_turbines * life_time"
    unit: "kWh"
  power: {formula: "turbine_MW * n_turbines", unit: "MW"}

parameters:
  load_rate: {default: 0.5, min: 0, max: 1}
  availability: {default: 0.95, min: 0, max: 1}
  turbine_MW: {default: 8, unit: "MW"}
  n_turbines: {default: 50}
  life_time: {default: 25, unit: "years"}

axes: [system_1, phase]
`

func windFarmModel(t *testing.T) *Model {
	t.Helper()
	project, err := config.Load(strings.NewReader(windFarmYAML))
	require.NoError(t, err)
	return New(project, zerolog.Nop())
}

func TestModel_ResolveUnit(t *testing.T) {
	m := windFarmModel(t)

	v, unit, err := m.ResolveUnit("energy", nil)
	require.NoError(t, err)
	assert.Equal(t, 41_610_000_000.0, v)
	assert.Equal(t, "kWh", unit)

	v, unit, err = m.ResolveUnit("system", nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)
	assert.Empty(t, unit)
}

func TestModel_ResolveUnitWithOverrides(t *testing.T) {
	m := windFarmModel(t)

	v, _, err := m.ResolveUnit("power", map[string]float64{"n_turbines": 60})
	require.NoError(t, err)
	assert.Equal(t, 480.0, v)

	// Overrides are per-call, not persisted in the store.
	stored, err := m.Params().Get("n_turbines")
	require.NoError(t, err)
	assert.Equal(t, 50.0, stored)
}

func TestModel_ResolveUnknownUnit(t *testing.T) {
	m := windFarmModel(t)

	_, _, err := m.ResolveUnit("distance", nil)

	var unknownErr *registry.UnknownFunctionalUnitError
	require.ErrorAs(t, err, &unknownErr)
}

func TestModel_CharacterizationTriple(t *testing.T) {
	m := windFarmModel(t)

	method, category, indicator, err := m.CharacterizationTriple("climate_change")
	require.NoError(t, err)
	assert.Equal(t, "EF v3.0", method)
	assert.Equal(t, "climate change", category)
	assert.Equal(t, "GWP100", indicator)

	_, _, _, err = m.CharacterizationTriple("acidification")
	var unknownErr *registry.UnknownImpactCategoryError
	require.ErrorAs(t, err, &unknownErr)
}

func TestModel_AggregateNormalizesPerUnit(t *testing.T) {
	m := windFarmModel(t)

	records := []aggregate.ImpactRecord{
		{ActivityID: "foundations", CategoryKey: "climate_change", RawValue: 1000, AxisTags: map[string]string{"phase": "production"}},
		{ActivityID: "towers", CategoryKey: "climate_change", RawValue: 600, AxisTags: map[string]string{"phase": "production"}},
	}

	report, err := m.Aggregate(records, nil)
	require.NoError(t, err)
	require.Len(t, report.Results, 3)

	var perMW float64
	for _, res := range report.Results {
		if res.FunctionalUnit == "power" {
			perMW = res.Value
		}
	}
	assert.Equal(t, 1600.0/400.0, perMW)
}

func TestModel_AggregateWithOverrides(t *testing.T) {
	m := windFarmModel(t)

	records := []aggregate.ImpactRecord{
		{ActivityID: "a", CategoryKey: "climate_change", RawValue: 800},
	}

	report, err := m.Aggregate(records, map[string]float64{"n_turbines": 25})
	require.NoError(t, err)

	var perMW float64
	for _, res := range report.Results {
		if res.FunctionalUnit == "power" {
			perMW = res.Value
		}
	}
	// 25 turbines x 8 MW = 200 MW.
	assert.Equal(t, 4.0, perMW)
}

func TestModel_Accessors(t *testing.T) {
	m := windFarmModel(t)

	assert.Len(t, m.ListFunctionalUnits(), 3)
	assert.Len(t, m.ListImpactCategories(), 2)
	assert.Equal(t, []string{"system_1", "phase"}, m.ListAxes())
}

func TestModel_ExportImportRoundTrip(t *testing.T) {
	m := windFarmModel(t)

	// Mutate the live store to confirm exports carry declarations, not
	// transient values.
	require.NoError(t, m.Params().Set("n_turbines", 99))

	data, err := m.ExportJSON()
	require.NoError(t, err)

	imported, err := ImportJSON(data, zerolog.Nop())
	require.NoError(t, err)

	// Imported model starts from declared defaults.
	v, err := imported.Params().Get("n_turbines")
	require.NoError(t, err)
	assert.Equal(t, 50.0, v)

	// Formulas survived as re-parsed source.
	energy, unit, err := imported.ResolveUnit("energy", nil)
	require.NoError(t, err)
	assert.Equal(t, 41_610_000_000.0, energy)
	assert.Equal(t, "kWh", unit)

	// Ranges survive.
	require.Error(t, imported.Params().Set("load_rate", 2))

	// Registries and axes survive in declaration order.
	assert.Equal(t, m.ListAxes(), imported.ListAxes())
	var fuNames []string
	for _, fu := range imported.ListFunctionalUnits() {
		fuNames = append(fuNames, fu.Name)
	}
	assert.Equal(t, []string{"system", "energy", "power"}, fuNames)

	method, category, indicator, err := imported.CharacterizationTriple("climate_change")
	require.NoError(t, err)
	assert.Equal(t, "EF v3.0", method)
	assert.Equal(t, "climate change", category)
	assert.Equal(t, "GWP100", indicator)
}

func TestImportJSON_RejectsBrokenFormula(t *testing.T) {
	const payload = `{
	  "parameters": [{"name": "x", "default": 1}],
	  "functional_units": [{"name": "bad", "formula": "x +"}],
	  "impacts": [],
	  "axes": []
	}`

	_, err := ImportJSON([]byte(payload), zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `functional unit "bad"`)
}
