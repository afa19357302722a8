// Package config provides configuration loading and validation for the
// rangekit CLI.
package config

import (
	"errors"
	"fmt"
)

// Sentinel validation errors.
var (
	ErrInvalidFormat  = errors.New("config: output format must be one of table, csv, json")
	ErrInvalidBuckets = errors.New("config: plot buckets must be positive")
)

// Output formats accepted by the CLI.
const (
	FormatTable = "table"
	FormatCSV   = "csv"
	FormatJSON  = "json"
)

// Default configuration values.
const (
	defaultFormat      = FormatTable
	defaultPlotBuckets = 50
	defaultPlotTitle   = "Interval Coverage"
	defaultEnvironment = ""
)

// Config holds all configuration for the rangekit CLI.
type Config struct {
	Dataset   string          `mapstructure:"dataset"`
	Output    OutputConfig    `mapstructure:"output"`
	Plot      PlotConfig      `mapstructure:"plot"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// OutputConfig controls query result rendering.
type OutputConfig struct {
	Format  string `mapstructure:"format"`
	NoColor bool   `mapstructure:"no_color"`
}

// PlotConfig controls the coverage chart.
type PlotConfig struct {
	Buckets int    `mapstructure:"buckets"`
	Title   string `mapstructure:"title"`
}

// TelemetryConfig controls logging and trace output.
type TelemetryConfig struct {
	Environment string `mapstructure:"environment"`
	LogJSON     bool   `mapstructure:"log_json"`
	TraceStdout bool   `mapstructure:"trace_stdout"`
	Verbose     bool   `mapstructure:"verbose"`
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	switch c.Output.Format {
	case FormatTable, FormatCSV, FormatJSON:
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidFormat, c.Output.Format)
	}

	if c.Plot.Buckets <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidBuckets, c.Plot.Buckets)
	}

	return nil
}
