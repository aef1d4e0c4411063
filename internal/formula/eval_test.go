package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/lca-engine/internal/params"
)

const energyFormula = "load_rate * availability * 8760 * turbine_MW * 1000 * n_turbines * life_time"

func windFarmSnap() params.Snapshot {
	return params.NewSnapshot(map[string]float64{
		"load_rate":    0.5,
		"availability": 0.95,
		"turbine_MW":   8,
		"n_turbines":   50,
		"life_time":    25,
	})
}

// The reference project fixture: lifetime energy production of a 50-turbine
// offshore wind farm, 41.61 TWh expressed in kWh.
func TestEval_EnergyFixture(t *testing.T) {
	expr := MustParse(energyFormula)

	got, err := expr.Eval(windFarmSnap())
	require.NoError(t, err)
	assert.Equal(t, 41_610_000_000.0, got)
}

func TestEval_PowerFixture(t *testing.T) {
	expr := MustParse("turbine_MW * n_turbines")

	got, err := expr.Eval(params.NewSnapshot(map[string]float64{
		"turbine_MW": 8,
		"n_turbines": 50,
	}))
	require.NoError(t, err)
	assert.Equal(t, 400.0, got)
}

// Identical (expression, snapshot) pairs must yield bit-identical results:
// evaluation has no hidden state.
func TestEval_Deterministic(t *testing.T) {
	expr := MustParse(energyFormula)
	snap := windFarmSnap()

	first, err := expr.Eval(snap)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		got, err := expr.Eval(snap)
		require.NoError(t, err)
		assert.Equal(t, first, got)
	}
}

func TestEval_UnknownIdentifier(t *testing.T) {
	expr := MustParse("load_rate * rotor_diameter")

	_, err := expr.Eval(params.NewSnapshot(map[string]float64{"load_rate": 0.4}))

	var unknownErr *UnknownIdentifierError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "rotor_diameter", unknownErr.Name)
}

func TestEval_DivisionByZero(t *testing.T) {
	tests := []struct {
		name string
		src  string
		snap params.Snapshot
	}{
		{name: "literal zero denominator", src: "1 / 0", snap: params.NewSnapshot(nil)},
		{name: "parameter evaluates to zero", src: "10 / n", snap: params.NewSnapshot(map[string]float64{"n": 0})},
		{name: "subexpression evaluates to zero", src: "1 / (2 - 2)", snap: params.NewSnapshot(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr := MustParse(tt.src)

			_, err := expr.Eval(tt.snap)

			var divErr *DivisionByZeroError
			require.ErrorAs(t, err, &divErr)
		})
	}
}

func TestEval_Overflow(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "power overflow", src: "10 ^ 400"},
		{name: "product of overflows", src: "10 ^ 308 * 10 ^ 308"},
		{name: "NaN from power", src: "(0 - 1) ^ 0.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr := MustParse(tt.src)

			_, err := expr.Eval(params.NewSnapshot(nil))

			var overflowErr *OverflowError
			require.ErrorAs(t, err, &overflowErr)
		})
	}
}

// Evaluation reads the snapshot only; there is nothing it could mutate, but
// the snapshot it was handed must compare equal before and after.
func TestEval_DoesNotMutateSnapshot(t *testing.T) {
	expr := MustParse(energyFormula)
	snap := windFarmSnap()
	keyBefore := snap.Key()

	_, err := expr.Eval(snap)
	require.NoError(t, err)

	assert.Equal(t, keyBefore, snap.Key())
}

func TestEval_ConstantFormula(t *testing.T) {
	// The degenerate "system" functional unit: formula "1", identity
	// normalization.
	expr := MustParse("1")

	got, err := expr.Eval(params.NewSnapshot(nil))
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)
}
