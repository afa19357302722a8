package commands

import (
	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/rangekit/pkg/config"
	"github.com/Sumatoshi-tech/rangekit/pkg/dataset"
)

// StatsCommand holds the flags for the stats command.
type StatsCommand struct {
	configPath string
	dataset    string
}

// NewStatsCommand creates and configures the stats command.
func NewStatsCommand() *cobra.Command {
	cmd := &StatsCommand{}

	cobraCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show dataset and interval tree statistics",
		RunE:  cmd.Run,
	}

	cobraCmd.Flags().StringVar(&cmd.configPath, "config", "", "config file path")
	cobraCmd.Flags().StringVarP(&cmd.dataset, "dataset", "d", "", "dataset YAML file")

	return cobraCmd
}

// Run executes the stats command.
func (c *StatsCommand) Run(cobraCmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(c.configPath, func(cfg *config.Config) {
		if cobraCmd.Flags().Changed("dataset") {
			cfg.Dataset = c.dataset
		}
	})
	if err != nil {
		return err
	}

	ds, err := dataset.Load(cfg.Dataset)
	if err != nil {
		return err
	}

	tree := ds.Tree()
	low, high := ds.Bounds()

	tw := table.NewWriter()
	tw.SetOutputMirror(cobraCmd.OutOrStdout())
	tw.AppendHeader(table.Row{"Stat", "Value"})
	tw.AppendRows([]table.Row{
		{"Dataset", ds.Name},
		{"Intervals", humanize.Comma(int64(tree.Size()))},
		{"Tree height", tree.Height()},
		{"Lowest bound", humanize.Comma(low)},
		{"Highest bound", humanize.Comma(high)},
		{"Max high (root cache)", humanize.Comma(tree.MaxHigh())},
	})
	tw.Render()

	return nil
}
