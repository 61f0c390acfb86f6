package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/winnyineza/RindwaApp-sub000/internal/api"
	"github.com/winnyineza/RindwaApp-sub000/internal/types"
)

func broadcastCmd() *cobra.Command {
	var (
		req     api.BroadcastRequest
		devices []string
	)
	cmd := &cobra.Command{
		Use:   "broadcast",
		Short: "Send an emergency push alert to every active subscriber",
		Long: `Send an emergency push alert to every active subscriber with a push
token, ignoring quiet hours and critical-only preferences.

Examples:
  notifyctl broadcast --title "Flood warning" --message "Move to higher ground" --priority critical

  # Android devices only
  notifyctl broadcast --title "Test" --message "Drill" --device android`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Title == "" || req.Message == "" {
				return fmt.Errorf("--title and --message are required")
			}
			for _, d := range devices {
				req.DeviceClasses = append(req.DeviceClasses, types.DeviceClass(d))
			}
			res, err := newAPIClient(serverURL, reqTimeout).Broadcast(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("broadcast failed: %w", err)
			}
			return outputResult(cmd.OutOrStdout(), res, outputFmt)
		},
	}

	cmd.Flags().StringVar(&req.Title, "title", "", "Alert title")
	cmd.Flags().StringVar(&req.Message, "message", "", "Alert body")
	cmd.Flags().StringVar(&req.Priority, "priority", "", "Alert priority; critical and high use the emergency sound")
	cmd.Flags().StringSliceVar(&devices, "device", nil, "Restrict to device classes: ios, android, web")
	return cmd
}
