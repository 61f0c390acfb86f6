// notifyctl is an operator CLI for the Rindwa notification service.
//
// Usage:
//
//	notifyctl stats
//	notifyctl deliveries --incident inc-42 --since 1h
//	notifyctl deliveries --latest
//	notifyctl subscriptions inc-42
//	notifyctl broadcast --title "Flood warning" --message "Move to higher ground" --priority critical
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	version    = "dev"
	outputFmt  string
	serverURL  string
	reqTimeout time.Duration
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notifyctl",
		Short: "Inspect and drive the Rindwa notification service",
		Long: `notifyctl talks to a running notifyd over its HTTP API.

It reports subscription and delivery statistics, lists delivery records,
and sends emergency broadcasts.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "table", "Output format: table, json, yaml")
	cmd.PersistentFlags().StringVar(&serverURL, "server", defaultServer(), "notifyd base URL (RINDWA_API_URL)")
	cmd.PersistentFlags().DurationVar(&reqTimeout, "timeout", 30*time.Second, "Request timeout")

	cmd.AddCommand(statsCmd())
	cmd.AddCommand(deliveriesCmd())
	cmd.AddCommand(subscriptionsCmd())
	cmd.AddCommand(broadcastCmd())
	return cmd
}

func defaultServer() string {
	if v := os.Getenv("RINDWA_API_URL"); v != "" {
		return v
	}
	return "http://localhost:8080"
}
