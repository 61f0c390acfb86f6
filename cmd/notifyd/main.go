// notifyd is the Rindwa incident notification service.
//
// Usage:
//
//	notifyd serve
//	notifyd serve --addr :9090 --redis-addr localhost:6379
//
// Configuration is read from .env and RINDWA_* environment variables; flags
// given on the command line take precedence.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "notifyd",
		Short:   "Deliver incident notifications over push, email and SMS",
		Version: version,
	}
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
