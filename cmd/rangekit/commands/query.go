package commands

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/rangekit/pkg/config"
	"github.com/Sumatoshi-tech/rangekit/pkg/dataset"
	"github.com/Sumatoshi-tech/rangekit/pkg/observability"
	"github.com/Sumatoshi-tech/rangekit/pkg/rangeindex"
)

// Command-level sentinel errors.
var (
	ErrNoDataset   = errors.New("commands: a dataset is required (--dataset flag or config)")
	ErrNoQueryMode = errors.New("commands: exactly one of --point, --low/--high, or --min/--max must be given")
)

const serviceName = "rangekit"

// QueryCommand holds the flags for the query command.
type QueryCommand struct {
	configPath string
	dataset    string
	format     string
	noColor    bool
	point      int64
	low        int64
	high       int64
	winMin     int64
	winMax     int64
}

// NewQueryCommand creates and configures the query command.
func NewQueryCommand() *cobra.Command {
	cmd := &QueryCommand{}

	cobraCmd := &cobra.Command{
		Use:   "query",
		Short: "Query a dataset for containing, overlapping, or windowed intervals",
		Long: `Query runs one of three lookups against an interval dataset:
a point-containment query (--point), a range-overlap query (--low/--high),
or a min/max window query (--min/--max).`,
		RunE: cmd.Run,
	}

	cobraCmd.Flags().StringVar(&cmd.configPath, "config", "", "config file path")
	cobraCmd.Flags().StringVarP(&cmd.dataset, "dataset", "d", "", "dataset YAML file")
	cobraCmd.Flags().StringVarP(&cmd.format, "format", "f", "", "output format: table, csv, or json")
	cobraCmd.Flags().BoolVar(&cmd.noColor, "no-color", false, "disable colored output")
	cobraCmd.Flags().Int64VarP(&cmd.point, "point", "p", 0, "point-containment query value")
	cobraCmd.Flags().Int64Var(&cmd.low, "low", 0, "overlap query lower bound")
	cobraCmd.Flags().Int64Var(&cmd.high, "high", 0, "overlap query upper bound")
	cobraCmd.Flags().Int64Var(&cmd.winMin, "min", 0, "window query minimum")
	cobraCmd.Flags().Int64Var(&cmd.winMax, "max", 0, "window query maximum")

	return cobraCmd
}

// Run executes the query command.
func (c *QueryCommand) Run(cobraCmd *cobra.Command, _ []string) error {
	cfg, providers, err := c.setup(cobraCmd)
	if err != nil {
		return err
	}

	defer func() {
		shutdownErr := providers.Shutdown(cobraCmd.Context())
		if shutdownErr != nil {
			providers.Logger.Warn("telemetry shutdown failed", slog.Any("error", shutdownErr))
		}
	}()

	ds, err := dataset.Load(cfg.Dataset)
	if err != nil {
		return err
	}

	ix := rangeindex.New[int64, string](ds,
		rangeindex.WithLogger[int64, string](providers.Logger),
		rangeindex.WithTracer[int64, string](providers.Tracer),
	)

	ctx := cobraCmd.Context()
	out := cobraCmd.OutOrStdout()

	flags := cobraCmd.Flags()

	pointMode := flags.Changed("point")
	overlapMode := flags.Changed("low") || flags.Changed("high")
	windowMode := flags.Changed("min") || flags.Changed("max")

	modes := 0

	for _, on := range []bool{pointMode, overlapMode, windowMode} {
		if on {
			modes++
		}
	}

	if modes != 1 {
		return ErrNoQueryMode
	}

	switch {
	case pointMode:
		entries := ix.Containing(ctx, c.point)

		return renderEntries(out, entries, cfg.Output.Format, cfg.Output.NoColor)
	case overlapMode:
		return c.runOverlap(cobraCmd, cfg, ix)
	default:
		entries := ix.Window(ctx, c.winMin, c.winMax)

		return renderEntries(out, entries, cfg.Output.Format, cfg.Output.NoColor)
	}
}

// runOverlap renders an overlap query plus the max-high line when any
// interval overlaps.
func (c *QueryCommand) runOverlap(cobraCmd *cobra.Command, cfg *config.Config, ix *rangeindex.Index[int64, string]) error {
	ctx := cobraCmd.Context()
	out := cobraCmd.OutOrStdout()

	entries := ix.Overlapping(ctx, c.low, c.high)

	renderErr := renderEntries(out, entries, cfg.Output.Format, cfg.Output.NoColor)
	if renderErr != nil {
		return renderErr
	}

	// MaxHigh alone cannot distinguish "no overlap" from a genuine
	// minimum, so gate on the boolean probe.
	if cfg.Output.Format == config.FormatTable && ix.AnyOverlap(ctx, c.low, c.high) {
		cyan := color.New(color.FgCyan)
		if cfg.Output.NoColor {
			cyan.DisableColor()
		}

		fmt.Fprintln(out, cyan.Sprintf("max high among overlaps: %d", ix.MaxHigh(ctx, c.low, c.high)))
	}

	return nil
}

// setup loads config, applies flag overrides, and initializes telemetry.
func (c *QueryCommand) setup(cobraCmd *cobra.Command) (*config.Config, observability.Providers, error) {
	cfg, err := loadConfig(c.configPath, func(cfg *config.Config) {
		flags := cobraCmd.Flags()

		if flags.Changed("dataset") {
			cfg.Dataset = c.dataset
		}

		if flags.Changed("format") {
			cfg.Output.Format = c.format
		}

		if flags.Changed("no-color") {
			cfg.Output.NoColor = c.noColor
		}
	})
	if err != nil {
		return nil, observability.Providers{}, err
	}

	providers, err := initTelemetry(cobraCmd, cfg)
	if err != nil {
		return nil, observability.Providers{}, err
	}

	return cfg, providers, nil
}

// loadConfig loads the config file, applies overrides, and re-validates.
func loadConfig(path string, override func(*config.Config)) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	override(cfg)

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, validateErr
	}

	if cfg.Dataset == "" {
		return nil, ErrNoDataset
	}

	return cfg, nil
}

// initTelemetry stands up logging and optional stdout tracing per the
// config. Metrics are not exposed by the short-lived CLI.
func initTelemetry(cobraCmd *cobra.Command, cfg *config.Config) (observability.Providers, error) {
	level := slog.LevelWarn
	if cfg.Telemetry.Verbose {
		level = slog.LevelDebug
	}

	obsCfg := observability.Config{
		ServiceName: serviceName,
		Environment: cfg.Telemetry.Environment,
		LogLevel:    level,
		LogJSON:     cfg.Telemetry.LogJSON,
		LogWriter:   cobraCmd.ErrOrStderr(),
	}

	if cfg.Telemetry.TraceStdout {
		obsCfg.TraceWriter = cobraCmd.ErrOrStderr()
	}

	return observability.Init(obsCfg)
}
