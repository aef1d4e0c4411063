// Command lcareport runs one aggregation pass over characterized impact
// records and prints the normalized, axis-grouped report as JSON.
//
// Usage:
//
//	lcareport -project windfarm.yaml -records impacts.json -set n_turbines=60
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/rshade/lca-engine/internal/aggregate"
	"github.com/rshade/lca-engine/internal/config"
	"github.com/rshade/lca-engine/internal/model"
)

func main() {
	cfg := parseConfig()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.WarnLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	if err := run(cfg, logger); err != nil {
		logger.Error().Err(err).Msg("report failed")
		os.Exit(1)
	}
}

func run(cfg *Config, logger zerolog.Logger) error {
	project, err := config.LoadFile(cfg.ProjectPath)
	if err != nil {
		return err
	}

	records, err := readRecords(cfg.RecordsPath)
	if err != nil {
		return err
	}

	m := model.New(project, logger)
	report, err := m.Aggregate(records, cfg.Overrides)
	if err != nil {
		return err
	}
	if cfg.Digits > 0 {
		report = report.Rounded(cfg.Digits)
	}
	if n := report.ExcludedCount(); n > 0 {
		logger.Warn().Int("excluded", n).Msg("records excluded from totals")
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func readRecords(path string) ([]aggregate.ImpactRecord, error) {
	var raw []byte
	var err error
	if path == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading records: %w", err)
	}

	var records []aggregate.ImpactRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("parsing records: %w", err)
	}
	return records, nil
}
