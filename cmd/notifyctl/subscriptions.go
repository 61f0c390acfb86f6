package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func subscriptionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "subscriptions INCIDENT",
		Short: "List the subscriptions of an incident",
		Long: `List every subscription of an incident, including unsubscribed ones
that the retention sweeper has not removed yet.

Examples:
  notifyctl subscriptions inc-42 -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			subs, err := newAPIClient(serverURL, reqTimeout).IncidentSubscriptions(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to list subscriptions: %w", err)
			}

			result := subscriptionsResult{IncidentID: args[0], Subscriptions: make([]subscriptionRow, 0, len(subs))}
			for _, s := range subs {
				result.Subscriptions = append(result.Subscriptions, subscriptionRow{
					ID:       s.ID,
					Active:   s.IsActive,
					Channels: enabledChannels(s.Preferences.Push, s.Preferences.Email, s.Preferences.SMS),
					Timezone: s.Timezone,
				})
				if s.IsActive {
					result.Active++
				}
			}
			return outputResult(cmd.OutOrStdout(), result, outputFmt)
		},
	}
}

func enabledChannels(push, email, sms bool) []string {
	var out []string
	if push {
		out = append(out, "push")
	}
	if email {
		out = append(out, "email")
	}
	if sms {
		out = append(out, "sms")
	}
	return out
}
