// Package main provides the entry point for the rangekit CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/rangekit/cmd/rangekit/commands"
	"github.com/Sumatoshi-tech/rangekit/pkg/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rangekit",
		Short: "Rangekit - interval indexing and query tool",
		Long: `Rangekit indexes one-dimensional intervals in an augmented AVL tree
and answers point-containment, range-overlap, and window queries.

Commands:
  query     Run a containment, overlap, or window query against a dataset
  stats     Show dataset and tree statistics
  plot      Render an HTML coverage chart for a dataset`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewQueryCommand())
	rootCmd.AddCommand(commands.NewStatsCommand())
	rootCmd.AddCommand(commands.NewPlotCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "rangekit %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
