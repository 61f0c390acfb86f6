package notifier

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/winnyineza/RindwaApp-sub000/internal/types"
)

// SendResolution emails the detailed resolution report to every active
// subscriber with email enabled, waits for those sends to finish, then runs
// a regular progress round with status "resolved" so push and SMS
// subscribers hear about it too.
func (d *Dispatcher) SendResolution(ctx context.Context, incidentID string, details types.ResolutionDetails) (ResolutionResult, error) {
	subs, err := d.subs.ActiveSubscribersFor(ctx, incidentID)
	if err != nil {
		return ResolutionResult{}, fmt.Errorf("list subscribers of incident %s: %w", incidentID, err)
	}

	report, renderErr := d.content.ResolutionEmail(incidentID, details)
	if renderErr != nil {
		d.logger.Error("Failed to render resolution report", zap.String("incident_id", incidentID), zap.Error(renderErr))
	}

	var jobs []delivery
	for _, sub := range subs {
		if sub.WantsEmail() {
			jobs = append(jobs, d.emailJob(incidentID, sub, report, renderErr))
		}
	}

	var result ResolutionResult
	result.ReportsAttempted = len(jobs)
	result.ReportsFailed = d.fanOut(ctx, jobs)

	update := types.NotificationUpdate{
		Status:    types.StatusResolved,
		Message:   resolutionMessage(details),
		UpdatedBy: details.ResolvedBy,
	}
	result.Update, err = d.SendProgressUpdate(ctx, incidentID, update)
	return result, err
}

func resolutionMessage(details types.ResolutionDetails) string {
	if details.ResolvedBy == "" {
		return "This incident has been resolved."
	}
	return fmt.Sprintf("This incident has been resolved by %s.", details.ResolvedBy)
}
