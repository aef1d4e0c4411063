package formula

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/lca-engine/internal/params"
)

func TestCache_MemoizesPerSnapshot(t *testing.T) {
	c := NewCache()
	expr := MustParse("x * 2")

	snapA := params.NewSnapshot(map[string]float64{"x": 3})
	snapB := params.NewSnapshot(map[string]float64{"x": 5})

	v, err := c.Eval(expr, snapA)
	require.NoError(t, err)
	assert.Equal(t, 6.0, v)
	assert.Equal(t, 1, c.Len())

	// Same snapshot hits the existing entry.
	v, err = c.Eval(expr, snapA)
	require.NoError(t, err)
	assert.Equal(t, 6.0, v)
	assert.Equal(t, 1, c.Len())

	// A different snapshot is a different key, never a stale hit.
	v, err = c.Eval(expr, snapB)
	require.NoError(t, err)
	assert.Equal(t, 10.0, v)
	assert.Equal(t, 2, c.Len())
}

func TestCache_DistinguishesExpressions(t *testing.T) {
	c := NewCache()
	snap := params.NewSnapshot(map[string]float64{"x": 4})

	v1, err := c.Eval(MustParse("x + 1"), snap)
	require.NoError(t, err)
	v2, err := c.Eval(MustParse("x - 1"), snap)
	require.NoError(t, err)

	assert.Equal(t, 5.0, v1)
	assert.Equal(t, 3.0, v2)
	assert.Equal(t, 2, c.Len())
}

func TestCache_ErrorsAreNotCached(t *testing.T) {
	c := NewCache()
	expr := MustParse("1 / x")

	_, err := c.Eval(expr, params.NewSnapshot(map[string]float64{"x": 0}))
	var divErr *DivisionByZeroError
	require.ErrorAs(t, err, &divErr)
	assert.Equal(t, 0, c.Len())

	// The same expression still evaluates fine with a usable snapshot.
	v, err := c.Eval(expr, params.NewSnapshot(map[string]float64{"x": 4}))
	require.NoError(t, err)
	assert.Equal(t, 0.25, v)
}

func TestCache_Clear(t *testing.T) {
	c := NewCache()
	_, err := c.Eval(MustParse("2 + 2"), params.NewSnapshot(nil))
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())

	c.Clear()

	assert.Equal(t, 0, c.Len())
}

func TestCache_ConcurrentReaders(t *testing.T) {
	c := NewCache()
	expr := MustParse("x ^ 2")
	snap := params.NewSnapshot(map[string]float64{"x": 9})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.Eval(expr, snap)
			assert.NoError(t, err)
			assert.Equal(t, 81.0, v)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, c.Len())
}
