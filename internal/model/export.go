package model

import (
	"fmt"
	"math"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/rshade/lca-engine/internal/config"
	"github.com/rshade/lca-engine/internal/formula"
	"github.com/rshade/lca-engine/internal/params"
	"github.com/rshade/lca-engine/internal/registry"
)

// exportFile is the JSON export format of a project. Formulas travel as
// their source text and are re-parsed on import, so an exported file is
// subject to the same validation as a fresh load.
type exportFile struct {
	Parameters      []exportParam  `json:"parameters"`
	FunctionalUnits []exportUnit   `json:"functional_units"`
	Impacts         []exportImpact `json:"impacts"`
	Axes            []string       `json:"axes"`
}

type exportParam struct {
	Name    string   `json:"name"`
	Default float64  `json:"default"`
	Unit    string   `json:"unit,omitempty"`
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
}

type exportUnit struct {
	Name    string `json:"name"`
	Formula string `json:"formula"`
	Unit    string `json:"unit,omitempty"`
}

type exportImpact struct {
	Key       string `json:"key"`
	Method    string `json:"method"`
	Category  string `json:"category"`
	Indicator string `json:"indicator"`
	Unit      string `json:"unit,omitempty"`
}

// ExportJSON serializes the project's declarations. Current parameter
// values are not exported; an imported model starts from defaults, the
// same as a fresh config load.
func (m *Model) ExportJSON() ([]byte, error) {
	var file exportFile

	for _, p := range m.project.Params.List() {
		ep := exportParam{Name: p.Name, Default: p.Default, Unit: p.Unit}
		if p.HasRange {
			minV, maxV := p.Min, p.Max
			ep.Min = &minV
			ep.Max = &maxV
		}
		file.Parameters = append(file.Parameters, ep)
	}
	for _, fu := range m.project.Units.List() {
		file.FunctionalUnits = append(file.FunctionalUnits, exportUnit{
			Name:    fu.Name,
			Formula: fu.Source,
			Unit:    fu.Unit,
		})
	}
	for _, ic := range m.project.Impacts.List() {
		file.Impacts = append(file.Impacts, exportImpact{
			Key:       ic.Key,
			Method:    ic.Method,
			Category:  ic.Category,
			Indicator: ic.Indicator,
			Unit:      ic.Unit,
		})
	}
	file.Axes = append(file.Axes, m.project.Axes.Names()...)

	return json.MarshalIndent(file, "", "  ")
}

// ImportJSON rebuilds a model from an ExportJSON payload. Formulas are
// re-parsed and re-validated; a hand-edited export fails the same way a
// broken project file does.
func ImportJSON(data []byte, logger zerolog.Logger) (*Model, error) {
	var file exportFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing model export: %w", err)
	}

	declared := make([]params.Parameter, 0, len(file.Parameters))
	for _, ep := range file.Parameters {
		p := params.Parameter{Name: ep.Name, Default: ep.Default, Unit: ep.Unit}
		if ep.Min != nil || ep.Max != nil {
			p.HasRange = true
			p.Min = math.Inf(-1)
			p.Max = math.Inf(1)
			if ep.Min != nil {
				p.Min = *ep.Min
			}
			if ep.Max != nil {
				p.Max = *ep.Max
			}
		}
		declared = append(declared, p)
	}

	unitDecls := make([]registry.FunctionalUnit, 0, len(file.FunctionalUnits))
	for _, eu := range file.FunctionalUnits {
		expr, err := formula.Parse(eu.Formula)
		if err != nil {
			return nil, fmt.Errorf("functional unit %q: %w", eu.Name, err)
		}
		unitDecls = append(unitDecls, registry.FunctionalUnit{
			Name:    eu.Name,
			Formula: expr,
			Source:  eu.Formula,
			Unit:    eu.Unit,
		})
	}
	units, err := registry.NewUnits(unitDecls)
	if err != nil {
		return nil, fmt.Errorf("importing functional units: %w", err)
	}

	impactDecls := make([]registry.ImpactCategory, 0, len(file.Impacts))
	for _, ei := range file.Impacts {
		impactDecls = append(impactDecls, registry.ImpactCategory{
			Key:       ei.Key,
			Method:    ei.Method,
			Category:  ei.Category,
			Indicator: ei.Indicator,
			Unit:      ei.Unit,
		})
	}
	impacts, err := registry.NewImpacts(impactDecls)
	if err != nil {
		return nil, fmt.Errorf("importing impact categories: %w", err)
	}

	axes, err := registry.NewAxes(file.Axes)
	if err != nil {
		return nil, fmt.Errorf("importing axes: %w", err)
	}

	project := &config.Project{
		Params:  params.NewStore(declared),
		Units:   units,
		Impacts: impacts,
		Axes:    axes,
	}
	return New(project, logger), nil
}
