package formula

import (
	"sync"

	"github.com/rshade/lca-engine/internal/params"
)

type cacheKey struct {
	source  string
	snapKey string
}

// Cache memoizes evaluation results keyed by (expression source, snapshot
// fingerprint). Entries are immutable once written and never evicted except
// by Clear, so readers racing a writer can only ever observe the identical
// value.
//
// Only successful evaluations are cached; errors are recomputed on every
// call so their messages stay attached to the triggering evaluation.
type Cache struct {
	mu      sync.RWMutex
	entries map[cacheKey]float64
}

// NewCache creates an empty evaluation cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[cacheKey]float64)}
}

// Eval returns the memoized result for (expr, snap), evaluating and storing
// it on first use.
func (c *Cache) Eval(expr *Expr, snap params.Snapshot) (float64, error) {
	key := cacheKey{source: expr.Source(), snapKey: snap.Key()}

	c.mu.RLock()
	v, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return v, nil
	}

	v, err := expr.Eval(snap)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	c.entries[key] = v
	c.mu.Unlock()
	return v, nil
}

// Len returns the number of memoized entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear drops every memoized entry. Parameter edits between aggregation
// passes produce new snapshot fingerprints, so clearing is only needed to
// bound memory, not for correctness.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[cacheKey]float64)
}
