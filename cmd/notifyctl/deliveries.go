package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/winnyineza/RindwaApp-sub000/internal/types"
)

func deliveriesCmd() *cobra.Command {
	var (
		q      deliveriesQuery
		since  time.Duration
		latest bool
	)
	cmd := &cobra.Command{
		Use:   "deliveries",
		Short: "List delivery records",
		Long: `List delivery records, oldest first, optionally filtered.

Examples:
  # Last 50 deliveries for an incident
  notifyctl deliveries --incident inc-42 --limit 50

  # Failed SMS from the last hour
  notifyctl deliveries --channel sms --since 1h

  # Current status of every target
  notifyctl deliveries --latest`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newAPIClient(serverURL, reqTimeout)
			var (
				records []types.DeliveryRecord
				err     error
			)
			if latest {
				if q.Channel != "" || q.IncidentID != "" || q.SubscriptionID != "" || since > 0 || q.Limit > 0 {
					return fmt.Errorf("--latest only combines with --target")
				}
				records, err = client.LatestDeliveries(cmd.Context(), q.Target)
			} else {
				if since > 0 {
					q.Since = time.Now().Add(-since)
				}
				records, err = client.Deliveries(cmd.Context(), q)
			}
			if err != nil {
				return fmt.Errorf("failed to list deliveries: %w", err)
			}

			result := deliveriesResult{Records: make([]deliveryRow, 0, len(records)), Total: len(records)}
			for _, r := range records {
				result.Records = append(result.Records, deliveryRow{
					DeliveredAt: r.DeliveredAt,
					Channel:     string(r.Channel),
					Target:      r.Target,
					IncidentID:  r.IncidentID,
					Success:     r.Success,
					Error:       r.Error,
				})
			}
			return outputResult(cmd.OutOrStdout(), result, outputFmt)
		},
	}

	cmd.Flags().StringVar(&q.Target, "target", "", "Only records for this token, email, or phone")
	cmd.Flags().StringVar(&q.Channel, "channel", "", "Only records for this channel: push, email, sms")
	cmd.Flags().StringVar(&q.IncidentID, "incident", "", "Only records for this incident")
	cmd.Flags().StringVar(&q.SubscriptionID, "subscription", "", "Only records for this subscription")
	cmd.Flags().DurationVar(&since, "since", 0, "Only records newer than this, e.g. 30m or 24h")
	cmd.Flags().IntVar(&q.Limit, "limit", 0, "Maximum number of records (server default 100)")
	cmd.Flags().BoolVar(&latest, "latest", false, "Show only the most recent record of each target")
	return cmd
}
