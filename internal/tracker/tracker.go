package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/winnyineza/RindwaApp-sub000/internal/types"
)

// SubscriptionLister supplies the subscriptions counted by StatsSnapshot.
type SubscriptionLister interface {
	All(ctx context.Context) ([]types.Subscription, error)
}

// Stats is an aggregated view of subscriptions and deliveries. Channel and
// device-class counts cover active subscriptions only.
type Stats struct {
	TotalSubscriptions   int                       `json:"totalSubscriptions"`
	ActiveSubscriptions  int                       `json:"activeSubscriptions"`
	ByChannelEnablement  map[types.Channel]int     `json:"byChannelEnablement"`
	ByDeviceClass        map[types.DeviceClass]int `json:"byDeviceClass"`
	DeliverySuccessCount int                       `json:"deliverySuccessCount"`
	DeliveryFailureCount int                       `json:"deliveryFailureCount"`
}

// Tracker records delivery outcomes and aggregates statistics.
type Tracker struct {
	ledger Ledger
	subs   SubscriptionLister
	now    func() time.Time
	logger *zap.Logger
}

// New creates a Tracker. A nil now defaults to time.Now.
func New(ledger Ledger, subs SubscriptionLister, now func() time.Time, logger *zap.Logger) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{
		ledger: ledger,
		subs:   subs,
		now:    now,
		logger: logger.Named("tracker"),
	}
}

// RecordDelivery appends rec to the ledger.
func (t *Tracker) RecordDelivery(ctx context.Context, rec types.DeliveryRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.DeliveredAt.IsZero() {
		rec.DeliveredAt = t.now()
	}
	if rec.Success {
		rec.Error = ""
	} else if rec.Error == "" {
		rec.Error = "unknown delivery failure"
	}
	if err := t.ledger.Append(ctx, rec); err != nil {
		return fmt.Errorf("record delivery to %s: %w", rec.Channel, err)
	}
	return nil
}

// Records returns the records matching filter in append order.
func (t *Tracker) Records(ctx context.Context, filter RecordFilter) ([]types.DeliveryRecord, error) {
	return t.ledger.Records(ctx, filter)
}

// Purge removes records delivered before the cutoff.
func (t *Tracker) Purge(ctx context.Context, before time.Time) (int, error) {
	n, err := t.ledger.Purge(ctx, before)
	if err != nil {
		return 0, fmt.Errorf("purge ledger: %w", err)
	}
	return n, nil
}

// StatsSnapshot recomputes statistics from the subscriptions and the ledger.
func (t *Tracker) StatsSnapshot(ctx context.Context) (Stats, error) {
	subs, err := t.subs.All(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("list subscriptions: %w", err)
	}
	recs, err := t.ledger.Records(ctx, RecordFilter{})
	if err != nil {
		return Stats{}, fmt.Errorf("read ledger: %w", err)
	}

	stats := Stats{
		ByChannelEnablement: map[types.Channel]int{
			types.ChannelPush:  0,
			types.ChannelEmail: 0,
			types.ChannelSMS:   0,
		},
		ByDeviceClass: map[types.DeviceClass]int{},
	}
	stats.TotalSubscriptions = len(subs)
	for _, sub := range subs {
		if !sub.IsActive {
			continue
		}
		stats.ActiveSubscriptions++
		if sub.Preferences.Push {
			stats.ByChannelEnablement[types.ChannelPush]++
		}
		if sub.Preferences.Email {
			stats.ByChannelEnablement[types.ChannelEmail]++
		}
		if sub.Preferences.SMS {
			stats.ByChannelEnablement[types.ChannelSMS]++
		}
		if sub.Contact.PushToken != "" {
			stats.ByDeviceClass[sub.Contact.DeviceClass.Normalize()]++
		}
	}
	for _, rec := range recs {
		if rec.Success {
			stats.DeliverySuccessCount++
		} else {
			stats.DeliveryFailureCount++
		}
	}
	return stats, nil
}

// LatestFor returns the most recent record for target. Ties on DeliveredAt
// resolve to the later append.
func (t *Tracker) LatestFor(ctx context.Context, target string) (types.DeliveryRecord, bool, error) {
	recs, err := t.ledger.Records(ctx, RecordFilter{Target: target})
	if err != nil {
		return types.DeliveryRecord{}, false, err
	}
	var latest types.DeliveryRecord
	found := false
	for _, rec := range recs {
		if !found || !rec.DeliveredAt.Before(latest.DeliveredAt) {
			latest, found = rec, true
		}
	}
	return latest, found, nil
}

// LatestPerTarget returns the most recent record of every target. Ties on
// DeliveredAt resolve to the later append.
func (t *Tracker) LatestPerTarget(ctx context.Context) (map[string]types.DeliveryRecord, error) {
	recs, err := t.ledger.Records(ctx, RecordFilter{})
	if err != nil {
		return nil, err
	}
	out := make(map[string]types.DeliveryRecord)
	for _, rec := range recs {
		prev, ok := out[rec.Target]
		if !ok || !rec.DeliveredAt.Before(prev.DeliveredAt) {
			out[rec.Target] = rec
		}
	}
	return out, nil
}
