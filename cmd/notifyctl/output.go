package main

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"sigs.k8s.io/yaml"

	"github.com/winnyineza/RindwaApp-sub000/internal/notifier"
	"github.com/winnyineza/RindwaApp-sub000/internal/tracker"
)

// deliveriesResult is the result of a deliveries command.
type deliveriesResult struct {
	Records []deliveryRow `json:"records"`
	Total   int           `json:"total"`
}

type deliveryRow struct {
	DeliveredAt time.Time `json:"deliveredAt"`
	Channel     string    `json:"channel"`
	Target      string    `json:"target"`
	IncidentID  string    `json:"incidentId,omitempty"`
	Success     bool      `json:"success"`
	Error       string    `json:"error,omitempty"`
}

// subscriptionsResult is the result of a subscriptions command.
type subscriptionsResult struct {
	IncidentID    string            `json:"incidentId"`
	Active        int               `json:"active"`
	Subscriptions []subscriptionRow `json:"subscriptions"`
}

type subscriptionRow struct {
	ID       string   `json:"id"`
	Active   bool     `json:"active"`
	Channels []string `json:"channels"`
	Timezone string   `json:"timezone"`
}

// outputResult writes result to w in the given format.
func outputResult(w io.Writer, result any, format string) error {
	switch format {
	case "json":
		return outputJSON(w, result)
	case "yaml":
		return outputYAML(w, result)
	case "table", "":
		return outputTable(w, result)
	default:
		return fmt.Errorf("unknown output format %q (want table, json, or yaml)", format)
	}
}

func outputJSON(w io.Writer, result any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func outputYAML(w io.Writer, result any) error {
	data, err := yaml.Marshal(result)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func outputTable(out io.Writer, result any) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	switch r := result.(type) {
	case tracker.Stats:
		outputStatsTable(w, r)
	case deliveriesResult:
		outputDeliveriesTable(w, r)
	case subscriptionsResult:
		outputSubscriptionsTable(w, r)
	case notifier.BroadcastResult:
		fmt.Fprintf(w, "SENT:\t%d\n", r.Sent)
		fmt.Fprintf(w, "FAILED:\t%d\n", r.Failed)
	default:
		return outputJSON(out, result)
	}
	return nil
}

func outputStatsTable(w *tabwriter.Writer, s tracker.Stats) {
	fmt.Fprintf(w, "SUBSCRIPTIONS:\t%d\n", s.TotalSubscriptions)
	fmt.Fprintf(w, "ACTIVE:\t%d\n", s.ActiveSubscriptions)
	fmt.Fprintf(w, "DELIVERED:\t%d\n", s.DeliverySuccessCount)
	fmt.Fprintf(w, "FAILED:\t%d\n\n", s.DeliveryFailureCount)

	if len(s.ByChannelEnablement) > 0 {
		fmt.Fprintln(w, "CHANNEL\tENABLED")
		for _, k := range sortedKeys(s.ByChannelEnablement) {
			fmt.Fprintf(w, "%s\t%d\n", k, s.ByChannelEnablement[k])
		}
	}
	if len(s.ByDeviceClass) > 0 {
		fmt.Fprintln(w, "\nDEVICE\tSUBSCRIBERS")
		for _, k := range sortedKeys(s.ByDeviceClass) {
			fmt.Fprintf(w, "%s\t%d\n", k, s.ByDeviceClass[k])
		}
	}
}

func outputDeliveriesTable(w *tabwriter.Writer, r deliveriesResult) {
	fmt.Fprintf(w, "TOTAL\t%d\n\n", r.Total)
	fmt.Fprintln(w, "TIME\tCHANNEL\tTARGET\tINCIDENT\tSTATUS\tERROR")
	for _, d := range r.Records {
		status := "ok"
		if !d.Success {
			status = "failed"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			d.DeliveredAt.UTC().Format(time.RFC3339), d.Channel, d.Target, d.IncidentID, status, d.Error)
	}
}

func outputSubscriptionsTable(w *tabwriter.Writer, r subscriptionsResult) {
	fmt.Fprintf(w, "INCIDENT\t%s\n", r.IncidentID)
	fmt.Fprintf(w, "ACTIVE\t%d/%d\n\n", r.Active, len(r.Subscriptions))
	fmt.Fprintln(w, "ID\tACTIVE\tCHANNELS\tTIMEZONE")
	for _, s := range r.Subscriptions {
		fmt.Fprintf(w, "%s\t%t\t%s\t%s\n", s.ID, s.Active, strings.Join(s.Channels, ","), s.Timezone)
	}
}

func sortedKeys[K ~string, V any](m map[K]V) []K {
	return slices.Sorted(maps.Keys(m))
}
