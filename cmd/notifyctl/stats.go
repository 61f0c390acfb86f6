package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show subscription and delivery statistics",
		Long: `Show subscription counts per channel and device class, and delivery
success and failure totals.

Examples:
  # Show stats
  notifyctl stats

  # Output as YAML
  notifyctl stats -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := newAPIClient(serverURL, reqTimeout).Stats(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to fetch stats: %w", err)
			}
			return outputResult(cmd.OutOrStdout(), stats, outputFmt)
		},
	}
}
