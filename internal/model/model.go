// Package model is the top-level facade over a loaded LCA project: one
// place to resolve functional units, run aggregation passes, and move a
// project across the JSON export format.
package model

import (
	"github.com/rs/zerolog"

	"github.com/rshade/lca-engine/internal/aggregate"
	"github.com/rshade/lca-engine/internal/config"
	"github.com/rshade/lca-engine/internal/params"
	"github.com/rshade/lca-engine/internal/registry"
)

// Model binds a project's registries and parameter store to an aggregation
// engine.
type Model struct {
	project *config.Project
	engine  *aggregate.Engine
	logger  zerolog.Logger
}

// New wraps a loaded project.
func New(project *config.Project, logger zerolog.Logger) *Model {
	return &Model{
		project: project,
		engine:  aggregate.New(project.Units, project.Impacts, project.Axes, logger),
		logger:  logger,
	}
}

// Project returns the underlying project.
func (m *Model) Project() *config.Project {
	return m.project
}

// Params returns the mutable parameter store.
func (m *Model) Params() *params.Store {
	return m.project.Params
}

// ResolveUnit evaluates a functional unit against the current parameter
// values with overrides applied on top, without mutating the store. The
// returned label is the unit's declared display unit.
func (m *Model) ResolveUnit(name string, overrides map[string]float64) (float64, string, error) {
	fu, err := m.project.Units.Lookup(name)
	if err != nil {
		return 0, "", err
	}
	snap := m.snapshot(overrides)
	v, err := m.project.Units.Resolve(name, snap)
	if err != nil {
		return 0, "", err
	}
	return v, fu.Unit, nil
}

// Aggregate runs one pass over records. The pass evaluates against a
// single snapshot of the current parameter values with overrides applied,
// so concurrent parameter edits cannot skew denominators mid-pass.
func (m *Model) Aggregate(records []aggregate.ImpactRecord, overrides map[string]float64) (*aggregate.Report, error) {
	return m.engine.Aggregate(records, m.snapshot(overrides))
}

// CharacterizationTriple returns the (method, category, indicator) triple
// the background database must be queried with for an impact key.
func (m *Model) CharacterizationTriple(key string) (method, category, indicator string, err error) {
	ic, err := m.project.Impacts.Lookup(key)
	if err != nil {
		return "", "", "", err
	}
	return ic.Method, ic.Category, ic.Indicator, nil
}

// ListFunctionalUnits returns the declared functional units in order.
func (m *Model) ListFunctionalUnits() []registry.FunctionalUnit {
	return m.project.ListFunctionalUnits()
}

// ListImpactCategories returns the declared impact categories in order.
func (m *Model) ListImpactCategories() []registry.ImpactCategory {
	return m.project.ListImpactCategories()
}

// ListAxes returns the declared reporting axes in order.
func (m *Model) ListAxes() []string {
	return m.project.ListAxes()
}

func (m *Model) snapshot(overrides map[string]float64) params.Snapshot {
	snap := m.project.Params.Snapshot()
	if len(overrides) == 0 {
		return snap
	}
	return snap.With(overrides)
}
