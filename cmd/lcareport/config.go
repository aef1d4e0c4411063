package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
)

// Config holds settings for the lcareport tool. ProjectPath names the YAML
// project file, RecordsPath the JSON impact-record input ("-" for stdin),
// Digits the significant digits applied to output values (0 disables
// rounding), and Overrides parameter values applied for this run only.
type Config struct {
	ProjectPath string
	RecordsPath string
	Digits      int
	LogLevel    string
	Overrides   map[string]float64
}

// overrideFlag collects repeated -set name=value flags.
type overrideFlag map[string]float64

func (o overrideFlag) String() string {
	parts := make([]string, 0, len(o))
	for name, v := range o {
		parts = append(parts, fmt.Sprintf("%s=%g", name, v))
	}
	return strings.Join(parts, ",")
}

func (o overrideFlag) Set(arg string) error {
	name, raw, ok := strings.Cut(arg, "=")
	if !ok || name == "" {
		return fmt.Errorf("expected name=value, got %q", arg)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("parameter %q: %w", name, err)
	}
	o[name] = v
	return nil
}

func parseConfig() *Config {
	config := &Config{Overrides: make(map[string]float64)}

	flag.StringVar(&config.ProjectPath, "project", "project.yaml", "Path to the LCA project YAML file")
	flag.StringVar(&config.RecordsPath, "records", "-", "Path to the impact records JSON file, or - for stdin")
	flag.IntVar(&config.Digits, "digits", 3, "Significant digits for output values, 0 to disable rounding")
	flag.StringVar(&config.LogLevel, "log-level", "warn", "Log level (trace, debug, info, warn, error)")
	flag.Var(overrideFlag(config.Overrides), "set", "Parameter override as name=value (repeatable)")

	flag.Parse()

	return config
}
