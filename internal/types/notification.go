package types

import "time"

const (
	PriorityCritical = "critical"
	StatusEscalated  = "escalated"
	StatusResolved   = "resolved"
)

// NotificationUpdate describes an incident change. It is never persisted.
type NotificationUpdate struct {
	Status         string `json:"status"`
	Priority       string `json:"priority,omitempty"`
	Message        string `json:"message"`
	UpdatedBy      string `json:"updatedBy"`
	Location       string `json:"location,omitempty"`
	EstimatedTime  string `json:"estimatedTime,omitempty"`
	ActionRequired *bool  `json:"actionRequired,omitempty"`
}

// IsUrgent reports whether the update bypasses critical-only filtering.
func (u NotificationUpdate) IsUrgent() bool {
	return u.Priority == PriorityCritical || u.Status == StatusEscalated
}

// ResolutionDetails summarizes how an incident was closed.
type ResolutionDetails struct {
	ResolvedBy   string    `json:"resolvedBy"`
	ReportedAt   time.Time `json:"reportedAt"`
	ResolvedAt   time.Time `json:"resolvedAt"`
	ActionsTaken []string  `json:"actionsTaken,omitempty"`
	Notes        string    `json:"notes,omitempty"`
}

// TimeToResolution returns the resolution duration split into whole hours and minutes.
// A zero or negative span yields 0, 0.
func (r ResolutionDetails) TimeToResolution() (hours, minutes int) {
	if r.ReportedAt.IsZero() || r.ResolvedAt.IsZero() {
		return 0, 0
	}
	d := r.ResolvedAt.Sub(r.ReportedAt)
	if d <= 0 {
		return 0, 0
	}
	total := int(d / time.Minute)
	return total / 60, total % 60
}

// DeliveryRecord is the outcome of one attempted channel send.
// Error is set iff Success is false.
type DeliveryRecord struct {
	ID                string    `json:"id"`
	IncidentID        string    `json:"incidentId,omitempty"`
	SubscriptionID    string    `json:"subscriptionId,omitempty"`
	Target            string    `json:"target"`
	Channel           Channel   `json:"channel"`
	Success           bool      `json:"success"`
	Error             string    `json:"error,omitempty"`
	ProviderMessageID string    `json:"providerMessageId,omitempty"`
	DeliveredAt       time.Time `json:"deliveredAt"`
}
