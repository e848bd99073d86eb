package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatsCmd(deps func() *backend, asJSON *bool, printJSON jsonPrinter) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the community impact totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := deps().dashboard.ImpactStats(cmd.Context())
			if err != nil {
				return fmt.Errorf("computing stats: %w", err)
			}
			if *asJSON {
				return printJSON(cmd, stats)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "CO2 saved:        %d\n", stats.CO2Saved)
			fmt.Fprintf(out, "Plastic reduced:  %d\n", stats.PlasticReduced)
			fmt.Fprintf(out, "Energy saved:     %d\n", stats.EnergySaved)
			return nil
		},
	}
}
