// Package config loads and validates an LCA project file.
//
// The file is YAML with four sections: impacts, functional_units,
// parameters, and axes. Declaration order inside each section is
// meaningful (report column and grouping order), so mappings are decoded
// through yaml.Node instead of plain Go maps.
package config

import (
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rshade/lca-engine/internal/formula"
	"github.com/rshade/lca-engine/internal/params"
	"github.com/rshade/lca-engine/internal/registry"
)

// ConfigError is a load-time validation failure. It names the offending
// section and key so a user can go straight to the broken line.
type ConfigError struct {
	Section string
	Key     string
	Msg     string
	Err     error // underlying cause, e.g. a formula syntax error
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("config: %s %q: %s", e.Section, e.Key, e.Msg)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Project is a fully loaded and validated LCA project: the mutable
// parameter store plus the immutable registries.
type Project struct {
	Params  *params.Store
	Units   *registry.Units
	Impacts *registry.Impacts
	Axes    *registry.Axes
}

// ListFunctionalUnits returns the declared functional units in order.
func (p *Project) ListFunctionalUnits() []registry.FunctionalUnit {
	return p.Units.List()
}

// ListImpactCategories returns the declared impact categories in order.
func (p *Project) ListImpactCategories() []registry.ImpactCategory {
	return p.Impacts.List()
}

// ListAxes returns the declared reporting axes in order.
func (p *Project) ListAxes() []string {
	return p.Axes.Names()
}

// LoadFile loads a project from a YAML file on disk.
func LoadFile(path string) (*Project, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening project file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses and validates a project file.
//
// Validation: every impact key, functional-unit name, parameter name, and
// axis name is unique; every formula parses; parameter defaults are finite
// and inside their declared range. When the file declares parameters,
// formula identifiers must all be declared parameters; without a
// parameters section identifier resolution is deferred to evaluation time.
func Load(r io.Reader) (*Project, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading project file: %w", err)
	}

	var file fileSchema
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parsing project file: %w", err)
	}

	impacts, err := buildImpacts(file.Impacts)
	if err != nil {
		return nil, err
	}
	units, err := buildUnits(file.FunctionalUnits)
	if err != nil {
		return nil, err
	}
	declared, err := buildParameters(file.Parameters)
	if err != nil {
		return nil, err
	}
	axes, err := registry.NewAxes(file.Axes)
	if err != nil {
		return nil, &ConfigError{Section: "axes", Key: "", Msg: "invalid axis list", Err: err}
	}

	if len(declared) > 0 {
		if err := checkIdentifiers(units, declared); err != nil {
			return nil, err
		}
	}

	return &Project{
		Params:  params.NewStore(declared),
		Units:   units,
		Impacts: impacts,
		Axes:    axes,
	}, nil
}

func buildImpacts(entries []impactEntry) (*registry.Impacts, error) {
	decls := make([]registry.ImpactCategory, 0, len(entries))
	for _, e := range entries {
		if e.Method == "" || e.Category == "" || e.Indicator == "" {
			return nil, &ConfigError{Section: "impacts", Key: e.Key, Msg: "method, category, and indicator are all required"}
		}
		decls = append(decls, registry.ImpactCategory{
			Key:       e.Key,
			Method:    e.Method,
			Category:  e.Category,
			Indicator: e.Indicator,
			Unit:      e.Unit,
		})
	}
	impacts, err := registry.NewImpacts(decls)
	if err != nil {
		return nil, &ConfigError{Section: "impacts", Key: "", Msg: "invalid impact declarations", Err: err}
	}
	return impacts, nil
}

func buildUnits(entries []unitEntry) (*registry.Units, error) {
	decls := make([]registry.FunctionalUnit, 0, len(entries))
	for _, e := range entries {
		if e.Formula == "" {
			return nil, &ConfigError{Section: "functional_units", Key: e.Key, Msg: "formula is required"}
		}
		expr, err := formula.Parse(e.Formula)
		if err != nil {
			return nil, &ConfigError{Section: "functional_units", Key: e.Key, Msg: "malformed formula", Err: err}
		}
		decls = append(decls, registry.FunctionalUnit{
			Name:    e.Key,
			Formula: expr,
			Source:  e.Formula,
			Unit:    e.Unit,
		})
	}
	units, err := registry.NewUnits(decls)
	if err != nil {
		return nil, &ConfigError{Section: "functional_units", Key: "", Msg: "invalid functional unit declarations", Err: err}
	}
	return units, nil
}

func buildParameters(entries []paramEntry) ([]params.Parameter, error) {
	seen := make(map[string]struct{}, len(entries))
	decls := make([]params.Parameter, 0, len(entries))
	for _, e := range entries {
		if _, dup := seen[e.Key]; dup {
			return nil, &ConfigError{Section: "parameters", Key: e.Key, Msg: "declared twice"}
		}
		seen[e.Key] = struct{}{}

		if math.IsNaN(e.Default) || math.IsInf(e.Default, 0) {
			return nil, &ConfigError{Section: "parameters", Key: e.Key, Msg: "default is not finite"}
		}
		p := params.Parameter{
			Name:    e.Key,
			Default: e.Default,
			Unit:    e.Unit,
		}
		if e.Min != nil || e.Max != nil {
			p.HasRange = true
			p.Min = math.Inf(-1)
			p.Max = math.Inf(1)
			if e.Min != nil {
				p.Min = *e.Min
			}
			if e.Max != nil {
				p.Max = *e.Max
			}
			if p.Min > p.Max {
				return nil, &ConfigError{Section: "parameters", Key: e.Key, Msg: fmt.Sprintf("empty range [%g, %g]", p.Min, p.Max)}
			}
			if !p.InRange(e.Default) {
				return nil, &ConfigError{Section: "parameters", Key: e.Key, Msg: fmt.Sprintf("default %g outside declared range [%g, %g]", e.Default, p.Min, p.Max)}
			}
		}
		decls = append(decls, p)
	}
	return decls, nil
}

// checkIdentifiers cross-checks every functional-unit formula against the
// declared parameters, so a typo fails the load instead of the first
// aggregation pass.
func checkIdentifiers(units *registry.Units, declared []params.Parameter) error {
	names := make(map[string]struct{}, len(declared))
	for _, p := range declared {
		names[p.Name] = struct{}{}
	}
	for _, fu := range units.List() {
		for _, ident := range fu.Formula.Identifiers() {
			if _, ok := names[ident]; !ok {
				return &ConfigError{
					Section: "functional_units",
					Key:     fu.Name,
					Msg:     fmt.Sprintf("formula %q references undeclared parameter %q", fu.Source, ident),
				}
			}
		}
	}
	return nil
}
