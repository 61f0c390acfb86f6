package notifier

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/winnyineza/RindwaApp-sub000/internal/channels"
	"github.com/winnyineza/RindwaApp-sub000/internal/types"
)

// BroadcastResult counts a broadcast round. Sent is every device a push was
// attempted for; Failed is the subset whose send failed.
type BroadcastResult struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

// BroadcastEmergencyAlert pushes an alert to every active subscriber with a
// token and push enabled, across all incidents. Quiet hours and critical-only
// preferences are ignored. A non-empty deviceClasses restricts the audience;
// unknown classes on either side compare as web. A push token shared by
// subscriptions to several incidents receives the alert once.
func (d *Dispatcher) BroadcastEmergencyAlert(ctx context.Context, title, message, priority string, deviceClasses []types.DeviceClass) (BroadcastResult, error) {
	subs, err := d.subs.AllActiveSubscribers(ctx)
	if err != nil {
		return BroadcastResult{}, fmt.Errorf("list active subscribers: %w", err)
	}

	allowed := make(map[types.DeviceClass]bool, len(deviceClasses))
	for _, dc := range deviceClasses {
		allowed[dc.Normalize()] = true
	}

	payload := broadcastPayload(title, message, priority)
	var jobs []delivery
	seen := make(map[string]bool, len(subs))
	for _, sub := range subs {
		if !sub.WantsPush() || seen[sub.Contact.PushToken] {
			continue
		}
		if len(allowed) > 0 && !allowed[sub.Contact.DeviceClass.Normalize()] {
			continue
		}
		seen[sub.Contact.PushToken] = true
		jobs = append(jobs, d.pushJob(sub.IncidentID, sub, payload))
	}

	result := BroadcastResult{Sent: len(jobs)}
	result.Failed = d.fanOut(ctx, jobs)

	d.logger.Info("Broadcast emergency alert",
		zap.String("priority", priority),
		zap.Int("device_classes", len(allowed)),
		zap.Int("sent", result.Sent),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

func broadcastPayload(title, message, priority string) channels.PushPayload {
	p := channels.PushPayload{
		Title: title,
		Body:  message,
		Data: map[string]string{
			"type":     "emergency_broadcast",
			"priority": priority,
		},
		Priority: channels.PushPriorityNormal,
		Sound:    channels.SoundDefault,
	}
	switch strings.ToLower(priority) {
	case types.PriorityCritical, "high":
		p.Priority = channels.PushPriorityHigh
		p.Sound = channels.SoundEmergency
	}
	return p
}
