package aggregate

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rshade/lca-engine/internal/params"
	"github.com/rshade/lca-engine/internal/registry"
)

// Engine computes aggregation passes against a project's registries.
// It is stateless between passes and safe for concurrent use.
type Engine struct {
	units   *registry.Units
	impacts *registry.Impacts
	axes    *registry.Axes
	logger  zerolog.Logger // logger is immutable (copy-on-write)
}

// New creates an engine over the project's functional units, impact
// categories, and reporting axes.
func New(units *registry.Units, impacts *registry.Impacts, axes *registry.Axes, logger zerolog.Logger) *Engine {
	return &Engine{
		units:   units,
		impacts: impacts,
		axes:    axes,
		logger:  logger,
	}
}

// group is one (category, axis-tag combination) bucket being summed.
type group struct {
	categoryKey string
	tags        []Tag
	records     []ImpactRecord
}

// Aggregate runs one pass: group records by (category, axis tags), sum raw
// values in stable order, resolve every functional-unit denominator against
// snap, and emit one result per (group, functional unit).
//
// A record referencing an undeclared impact category aborts the whole pass:
// partial reports would silently mislabel totals. Records with non-finite
// raw values are excluded from their group's sum, counted, and listed in
// the report. Output order is deterministic regardless of input order.
func (e *Engine) Aggregate(records []ImpactRecord, snap params.Snapshot) (*Report, error) {
	runID := uuid.New().String()
	logger := e.logger.With().Str("run_id", runID).Logger()
	logger.Debug().Int("records", len(records)).Msg("aggregation pass started")

	report := &Report{RunID: runID}

	groups := make(map[string]*group)
	for _, rec := range records {
		if !e.impacts.Has(rec.CategoryKey) {
			logger.Error().
				Str("activity_id", rec.ActivityID).
				Str("category", rec.CategoryKey).
				Msg("undeclared impact category, aborting pass")
			return nil, &registry.UnknownImpactCategoryError{Key: rec.CategoryKey}
		}
		if err := e.checkAxisTags(rec); err != nil {
			return nil, err
		}
		if math.IsNaN(rec.RawValue) || math.IsInf(rec.RawValue, 0) {
			report.Excluded = append(report.Excluded, ExcludedRecord{
				ActivityID:  rec.ActivityID,
				CategoryKey: rec.CategoryKey,
				Reason:      fmt.Sprintf("non-finite raw value %v", rec.RawValue),
			})
			continue
		}

		tags := e.tagTuple(rec.AxisTags)
		key := groupKey(rec.CategoryKey, tags)
		g, ok := groups[key]
		if !ok {
			g = &group{categoryKey: rec.CategoryKey, tags: tags}
			groups[key] = g
		}
		g.records = append(g.records, rec)
		report.RecordCount++
	}

	// Every denominator is resolved once per pass, all against the same
	// snapshot. A formula error here fails the pass.
	denominators := make(map[string]float64)
	for _, fu := range e.units.List() {
		d, err := e.units.Resolve(fu.Name, snap)
		if err != nil {
			return nil, fmt.Errorf("resolving functional unit %q: %w", fu.Name, err)
		}
		if d == 0 {
			logger.Warn().Str("functional_unit", fu.Name).Msg("functional unit resolved to zero")
		}
		denominators[fu.Name] = d
	}

	for _, g := range sortGroups(groups) {
		sum := stableSum(g.records)
		category, err := e.impacts.Lookup(g.categoryKey)
		if err != nil {
			return nil, err
		}
		for _, fu := range e.units.List() {
			res := AggregatedResult{
				CategoryKey:    g.categoryKey,
				FunctionalUnit: fu.Name,
				AxisTags:       g.tags,
				Unit:           resultUnit(category.Unit, fu.Unit),
			}
			if d := denominators[fu.Name]; d == 0 {
				res.Value = math.NaN()
				res.ZeroDenominator = true
			} else {
				res.Value = sum / d
			}
			report.Results = append(report.Results, res)
		}
	}

	logger.Info().
		Int("results", len(report.Results)).
		Int("excluded", len(report.Excluded)).
		Msg("aggregation pass completed")
	return report, nil
}

// checkAxisTags rejects records tagged on an axis the project never
// declared. Such a tag means the traversal and this configuration disagree
// about the project, which is not recoverable per-record.
func (e *Engine) checkAxisTags(rec ImpactRecord) error {
	for axis := range rec.AxisTags {
		if !e.axes.Has(axis) {
			return fmt.Errorf("record %q: tag on undeclared axis %q", rec.ActivityID, axis)
		}
	}
	return nil
}

// tagTuple projects a record's tag map onto the declared axis order.
func (e *Engine) tagTuple(axisTags map[string]string) []Tag {
	tags := make([]Tag, 0, e.axes.Len())
	for _, axis := range e.axes.Names() {
		if v, ok := axisTags[axis]; ok {
			tags = append(tags, Tag{Value: v, Assigned: true})
		} else {
			tags = append(tags, Tag{})
		}
	}
	return tags
}

// groupKey builds the map key for one (category, tag tuple) bucket.
// Assigned values are quoted so an unassigned tag, an empty tag, and tag
// values containing separator bytes all stay distinct.
func groupKey(categoryKey string, tags []Tag) string {
	key := strconv.Quote(categoryKey)
	for _, t := range tags {
		if t.Assigned {
			key += "|" + strconv.Quote(t.Value)
		} else {
			key += "|-"
		}
	}
	return key
}

// stableSum adds raw values in (activity ID, raw value) order so repeated
// passes over the same records produce bit-identical sums regardless of
// input order. The raw value breaks ties between records sharing an
// activity ID, e.g. one activity contributing once per life-cycle phase.
func stableSum(records []ImpactRecord) float64 {
	sorted := make([]ImpactRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].ActivityID != sorted[j].ActivityID {
			return sorted[i].ActivityID < sorted[j].ActivityID
		}
		return sorted[i].RawValue < sorted[j].RawValue
	})

	var sum float64
	for _, rec := range sorted {
		sum += rec.RawValue
	}
	return sum
}

// sortGroups orders buckets by category key, then axis tags lexicographic
// in axis declaration order with unassigned sorting last.
func sortGroups(groups map[string]*group) []*group {
	out := make([]*group, 0, len(groups))
	for _, g := range groups {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].categoryKey != out[j].categoryKey {
			return out[i].categoryKey < out[j].categoryKey
		}
		return lessTags(out[i].tags, out[j].tags)
	})
	return out
}

func lessTags(a, b []Tag) bool {
	for i := range a {
		if i >= len(b) {
			return false
		}
		ta, tb := a[i], b[i]
		switch {
		case ta.Assigned && !tb.Assigned:
			return true // unassigned sorts last
		case !ta.Assigned && tb.Assigned:
			return false
		case ta.Value != tb.Value:
			return ta.Value < tb.Value
		}
	}
	return false
}

// resultUnit composes the display unit of a normalized value: the impact
// unit over the functional-unit label, or the bare impact unit for the
// identity (raw totals) functional unit.
func resultUnit(impactUnit, fuUnit string) string {
	if impactUnit == "" {
		return ""
	}
	if fuUnit == "" {
		return impactUnit
	}
	return impactUnit + "/" + fuUnit
}
