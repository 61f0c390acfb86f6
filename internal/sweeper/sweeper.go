// Package sweeper removes expired subscriptions and delivery records.
//
// A subscription is removed once it is inactive and older than the retention
// window; active subscriptions are never removed by age alone. Delivery
// records older than the window are purged regardless of outcome.
package sweeper

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// DefaultRetention is the retention window for subscriptions and records.
const DefaultRetention = 7 * 24 * time.Hour

// SubscriptionPruner removes inactive subscriptions created before cutoff.
type SubscriptionPruner interface {
	RemoveInactiveBefore(ctx context.Context, cutoff time.Time) (int, error)
}

// RecordPurger removes delivery records delivered before cutoff.
type RecordPurger interface {
	Purge(ctx context.Context, before time.Time) (int, error)
}

// Result reports what one pass removed.
type Result struct {
	SubscriptionsRemoved int `json:"subscriptionsRemoved"`
	RecordsPurged        int `json:"recordsPurged"`
}

// Sweeper runs retention passes.
type Sweeper struct {
	subs      SubscriptionPruner
	records   RecordPurger
	retention time.Duration
	now       func() time.Time
	logger    *zap.Logger
}

// New creates a Sweeper. A non-positive retention selects DefaultRetention
// and a nil now selects time.Now.
func New(subs SubscriptionPruner, records RecordPurger, retention time.Duration, now func() time.Time, logger *zap.Logger) *Sweeper {
	if retention <= 0 {
		retention = DefaultRetention
	}
	if now == nil {
		now = time.Now
	}
	return &Sweeper{
		subs:      subs,
		records:   records,
		retention: retention,
		now:       now,
		logger:    logger.Named("sweeper"),
	}
}

// Sweep runs one pass with cutoff now - retention. Both stores are swept even
// if the first one fails; the first error is returned.
func (s *Sweeper) Sweep(ctx context.Context) (Result, error) {
	cutoff := s.now().Add(-s.retention)

	var (
		res      Result
		firstErr error
	)
	n, err := s.subs.RemoveInactiveBefore(ctx, cutoff)
	if err != nil {
		firstErr = fmt.Errorf("prune subscriptions: %w", err)
	}
	res.SubscriptionsRemoved = n

	n, err = s.records.Purge(ctx, cutoff)
	if err != nil && firstErr == nil {
		firstErr = fmt.Errorf("purge delivery records: %w", err)
	}
	res.RecordsPurged = n

	if res.SubscriptionsRemoved > 0 || res.RecordsPurged > 0 {
		s.logger.Info("Retention sweep completed",
			zap.Time("cutoff", cutoff),
			zap.Int("subscriptions_removed", res.SubscriptionsRemoved),
			zap.Int("records_purged", res.RecordsPurged),
		)
	}
	return res, firstErr
}

// Run sweeps every interval until ctx is cancelled. Errors are logged and the
// loop continues.
func (s *Sweeper) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		s.logger.Info("Retention sweeper disabled")
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("Retention sweeper started",
		zap.Duration("interval", interval),
		zap.Duration("retention", s.retention),
	)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Retention sweeper stopped")
			return
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil && ctx.Err() == nil {
				s.logger.Warn("Retention sweep failed", zap.Error(err))
			}
		}
	}
}
