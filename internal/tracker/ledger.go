package tracker

import (
	"context"
	"sync"
	"time"

	"github.com/winnyineza/RindwaApp-sub000/internal/types"
)

// RecordFilter selects delivery records. Zero fields match everything.
type RecordFilter struct {
	Target         string
	Channel        types.Channel
	IncidentID     string
	SubscriptionID string
	// Since keeps records delivered at or after this instant.
	Since time.Time
	// Limit keeps only the most recent N matches. 0 means no limit.
	Limit int
}

// Match reports whether rec passes the filter, ignoring Limit.
func (f RecordFilter) Match(rec types.DeliveryRecord) bool {
	if f.Target != "" && rec.Target != f.Target {
		return false
	}
	if f.Channel != "" && rec.Channel != f.Channel {
		return false
	}
	if f.IncidentID != "" && rec.IncidentID != f.IncidentID {
		return false
	}
	if f.SubscriptionID != "" && rec.SubscriptionID != f.SubscriptionID {
		return false
	}
	if !f.Since.IsZero() && rec.DeliveredAt.Before(f.Since) {
		return false
	}
	return true
}

func (f RecordFilter) limit(recs []types.DeliveryRecord) []types.DeliveryRecord {
	if f.Limit > 0 && len(recs) > f.Limit {
		return recs[len(recs)-f.Limit:]
	}
	return recs
}

// Ledger is the append-only store behind the Tracker.
type Ledger interface {
	Append(ctx context.Context, rec types.DeliveryRecord) error
	// Records returns matching records in append order.
	Records(ctx context.Context, filter RecordFilter) ([]types.DeliveryRecord, error)
	// Purge removes records delivered before the cutoff and returns how many.
	Purge(ctx context.Context, before time.Time) (int, error)
}

// MemoryLedger keeps records in process memory.
type MemoryLedger struct {
	mu      sync.RWMutex
	records []types.DeliveryRecord

	// purgeMu serializes purges so the prefix snapshot stays valid.
	purgeMu sync.Mutex
}

// NewMemoryLedger returns an empty in-memory ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{}
}

// Append adds rec to the end of the log.
func (l *MemoryLedger) Append(ctx context.Context, rec types.DeliveryRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.Lock()
	l.records = append(l.records, rec)
	l.mu.Unlock()
	return nil
}

// Records returns copies of the matching records.
func (l *MemoryLedger) Records(ctx context.Context, filter RecordFilter) ([]types.DeliveryRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []types.DeliveryRecord
	for _, rec := range l.records {
		if filter.Match(rec) {
			out = append(out, rec)
		}
	}
	return filter.limit(out), nil
}

// Len returns the number of stored records.
func (l *MemoryLedger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// Purge drops records delivered before the cutoff. The kept set is computed
// from a snapshot of the current prefix without holding the lock; records
// appended meanwhile are carried over untouched when the log is swapped.
func (l *MemoryLedger) Purge(ctx context.Context, before time.Time) (int, error) {
	l.purgeMu.Lock()
	defer l.purgeMu.Unlock()

	l.mu.RLock()
	n := len(l.records)
	snapshot := l.records[:n:n]
	l.mu.RUnlock()

	kept := make([]types.DeliveryRecord, 0, n)
	for _, rec := range snapshot {
		if !rec.DeliveredAt.Before(before) {
			kept = append(kept, rec)
		}
	}
	removed := n - len(kept)
	if removed == 0 {
		return 0, ctx.Err()
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	l.mu.Lock()
	l.records = append(kept, l.records[n:]...)
	l.mu.Unlock()
	return removed, nil
}
