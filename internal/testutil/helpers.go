// Package testutil provides shared test helpers for the notification engine.
// Import this in test files to avoid duplicating subscription builders and clocks.
package testutil

import (
	"sync"
	"time"

	"github.com/winnyineza/RindwaApp-sub000/internal/types"
)

// Noon is a fixed instant outside the default 22:00-07:00 quiet window in Kigali.
var Noon = time.Date(2026, 5, 12, 10, 0, 0, 0, time.UTC)

// MakeSubscription creates an active subscription with every channel address set
// and default preferences. Use the returned value as a base and override fields.
func MakeSubscription(id, incidentID string) types.Subscription {
	return types.Subscription{
		ID:         id,
		IncidentID: incidentID,
		Contact: types.Contact{
			PushToken:   "token-" + id,
			DeviceClass: types.DeviceClassAndroid,
			Email:       id + "@example.rw",
			Phone:       "+250788-" + id,
		},
		Preferences: types.DefaultPreferences(),
		Timezone:    types.DefaultTimezone,
		IsActive:    true,
		CreatedAt:   Noon,
	}
}

// Bool returns a pointer to b, for building preference patches.
func Bool(b bool) *bool { return &b }

// String returns a pointer to s, for building preference patches.
func String(s string) *string { return &s }

// Clock is a settable clock safe for concurrent reads.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock returns a Clock fixed at t.
func NewClock(t time.Time) *Clock { return &Clock{now: t} }

// Now returns the current fake time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to t.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}
