package commands

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/rangekit/pkg/config"
	"github.com/Sumatoshi-tech/rangekit/pkg/dataset"
)

const xAxisRotate = 45

// PlotCommand holds the flags for the plot command.
type PlotCommand struct {
	configPath string
	dataset    string
	output     string
	buckets    int
	title      string
}

// NewPlotCommand creates and configures the plot command.
func NewPlotCommand() *cobra.Command {
	cmd := &PlotCommand{}

	cobraCmd := &cobra.Command{
		Use:   "plot",
		Short: "Render an HTML bar chart of interval coverage density",
		Long: `Plot splits the dataset's overall bound span into buckets and counts
the intervals overlapping each bucket, rendering the result as an HTML
bar chart.`,
		RunE: cmd.Run,
	}

	cobraCmd.Flags().StringVar(&cmd.configPath, "config", "", "config file path")
	cobraCmd.Flags().StringVarP(&cmd.dataset, "dataset", "d", "", "dataset YAML file")
	cobraCmd.Flags().StringVarP(&cmd.output, "output", "o", "coverage.html", "output HTML file")
	cobraCmd.Flags().IntVar(&cmd.buckets, "buckets", 0, "number of coverage buckets")
	cobraCmd.Flags().StringVar(&cmd.title, "title", "", "chart title")

	return cobraCmd
}

// Run executes the plot command.
func (c *PlotCommand) Run(cobraCmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(c.configPath, func(cfg *config.Config) {
		flags := cobraCmd.Flags()

		if flags.Changed("dataset") {
			cfg.Dataset = c.dataset
		}

		if flags.Changed("buckets") {
			cfg.Plot.Buckets = c.buckets
		}

		if flags.Changed("title") {
			cfg.Plot.Title = c.title
		}
	})
	if err != nil {
		return err
	}

	ds, err := dataset.Load(cfg.Dataset)
	if err != nil {
		return err
	}

	chart := buildCoverageChart(ds, cfg.Plot.Buckets, cfg.Plot.Title)

	file, err := os.Create(c.output)
	if err != nil {
		return fmt.Errorf("create plot file: %w", err)
	}
	defer file.Close()

	renderErr := chart.Render(file)
	if renderErr != nil {
		return fmt.Errorf("render plot: %w", renderErr)
	}

	fmt.Fprintf(cobraCmd.OutOrStdout(), "wrote %s\n", c.output)

	return nil
}

// buildCoverageChart counts intervals overlapping each bucket of the
// dataset's bound span and returns the bar chart.
func buildCoverageChart(ds *dataset.Dataset, buckets int, title string) *charts.Bar {
	tree := ds.Tree()
	low, high := ds.Bounds()

	span := high - low + 1
	if int64(buckets) > span {
		buckets = int(span)
	}

	width := span / int64(buckets)
	if span%int64(buckets) != 0 {
		width++
	}

	labels := make([]string, 0, buckets)
	data := make([]opts.BarData, 0, buckets)

	for i := range buckets {
		bucketLow := low + int64(i)*width

		bucketHigh := bucketLow + width - 1
		if bucketHigh > high {
			bucketHigh = high
		}

		labels = append(labels, fmt.Sprintf("%d-%d", bucketLow, bucketHigh))
		data = append(data, opts.BarData{Value: len(tree.Overlapping(bucketLow, bucketHigh))})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("%s: intervals overlapping each bucket of [%d, %d]", ds.Name, low, high),
		}),
		charts.WithXAxisOpts(opts.XAxis{
			AxisLabel: &opts.AxisLabel{Rotate: xAxisRotate},
		}),
	)
	bar.SetXAxis(labels).AddSeries("Intervals", data)

	return bar
}
