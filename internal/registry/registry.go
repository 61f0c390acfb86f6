package registry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/winnyineza/RindwaApp-sub000/internal/quiethours"
	"github.com/winnyineza/RindwaApp-sub000/internal/types"
)

// Change event types.
const (
	EventSubscribe   = "subscribe"
	EventUnsubscribe = "unsubscribe"
	EventUpdate      = "update"
	EventRemove      = "remove"
)

// ChangeEvent represents a mutation of the registry.
type ChangeEvent struct {
	Type         string
	Subscription types.Subscription
}

// OnChangeFunc is called after the registry changes.
type OnChangeFunc func(event ChangeEvent)

// Options configures a Registry.
type Options struct {
	// DefaultTimezone is applied when Subscribe receives an empty timezone.
	// Default: types.DefaultTimezone.
	DefaultTimezone string

	// Now returns the creation timestamp for new subscriptions. Default: time.Now.
	Now func() time.Time
}

// Registry is a concurrent-safe in-memory store of subscriptions.
type Registry struct {
	mu         sync.RWMutex
	byID       map[string]types.Subscription
	byIncident map[string][]string
	onChange   OnChangeFunc
	opts       Options
}

// New creates a Registry with default options and an optional change callback.
func New(onChange OnChangeFunc) *Registry {
	return NewWithOptions(onChange, Options{})
}

// NewWithOptions creates a Registry with the given options.
func NewWithOptions(onChange OnChangeFunc, opts Options) *Registry {
	if opts.DefaultTimezone == "" {
		opts.DefaultTimezone = types.DefaultTimezone
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Registry{
		byID:       make(map[string]types.Subscription),
		byIncident: make(map[string][]string),
		onChange:   onChange,
		opts:       opts,
	}
}

// Subscribe registers contact to follow incidentID.
func (r *Registry) Subscribe(incidentID string, contact types.Contact, prefs *types.PreferencesPatch, timezone string) (types.Subscription, error) {
	if !contact.Actionable() {
		return types.Subscription{}, types.ErrInvalidContact
	}
	p := types.DefaultPreferences().Apply(prefs)
	if err := quiethours.Validate(p.QuietHours); err != nil {
		return types.Subscription{}, fmt.Errorf("subscribe to incident %s: %w", incidentID, err)
	}
	if timezone == "" {
		timezone = r.opts.DefaultTimezone
	}
	if err := quiethours.ValidateTimezone(timezone); err != nil {
		return types.Subscription{}, fmt.Errorf("subscribe to incident %s: %w", incidentID, err)
	}

	sub := types.Subscription{
		ID:          uuid.NewString(),
		IncidentID:  incidentID,
		Contact:     contact,
		Preferences: p,
		Timezone:    timezone,
		IsActive:    true,
		CreatedAt:   r.opts.Now(),
	}

	r.mu.Lock()
	r.byID[sub.ID] = sub
	r.byIncident[incidentID] = append(r.byIncident[incidentID], sub.ID)
	r.mu.Unlock()

	r.notify(EventSubscribe, sub)
	return sub, nil
}

// Unsubscribe deactivates a subscription. Returns false if it is unknown or
// already inactive.
func (r *Registry) Unsubscribe(id string) bool {
	r.mu.Lock()
	sub, exists := r.byID[id]
	changed := exists && sub.IsActive
	if changed {
		sub.IsActive = false
		r.byID[id] = sub
	}
	r.mu.Unlock()

	if changed {
		r.notify(EventUnsubscribe, sub)
	}
	return changed
}

// UpdatePreferences merges patch into the subscription's preferences.
// Returns false if the subscription is unknown.
func (r *Registry) UpdatePreferences(id string, patch types.PreferencesPatch) (bool, error) {
	r.mu.Lock()
	sub, exists := r.byID[id]
	if !exists {
		r.mu.Unlock()
		return false, nil
	}
	merged := sub.Preferences.Apply(&patch)
	if err := quiethours.Validate(merged.QuietHours); err != nil {
		r.mu.Unlock()
		return true, fmt.Errorf("update subscription %s: %w", id, err)
	}
	sub.Preferences = merged
	r.byID[id] = sub
	r.mu.Unlock()

	r.notify(EventUpdate, sub)
	return true, nil
}

// Get returns the subscription with the given ID.
func (r *Registry) Get(id string) (types.Subscription, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sub, ok := r.byID[id]
	return sub, ok
}

// SubscriptionsFor returns every subscription of an incident, active or not.
func (r *Registry) SubscriptionsFor(incidentID string) []types.Subscription {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(incidentID, false)
}

// ActiveSubscribersFor returns the active subscriptions of an incident.
func (r *Registry) ActiveSubscribersFor(ctx context.Context, incidentID string) ([]types.Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(incidentID, true), nil
}

// AllActiveSubscribers returns the active subscriptions across all incidents.
func (r *Registry) AllActiveSubscribers(ctx context.Context) ([]types.Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]types.Subscription, 0, len(r.byID))
	for _, sub := range r.byID {
		if sub.IsActive {
			result = append(result, sub)
		}
	}
	return result, nil
}

// All returns every stored subscription (copy of the slice).
func (r *Registry) All(ctx context.Context) ([]types.Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]types.Subscription, 0, len(r.byID))
	for _, sub := range r.byID {
		result = append(result, sub)
	}
	return result, nil
}

// Count returns the total number of stored subscriptions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

// RemoveInactiveBefore deletes inactive subscriptions created before cutoff
// and returns how many were removed.
func (r *Registry) RemoveInactiveBefore(ctx context.Context, cutoff time.Time) (int, error) {
	r.mu.RLock()
	var candidates []string
	for id, sub := range r.byID {
		if expired(sub, cutoff) {
			candidates = append(candidates, id)
		}
	}
	r.mu.RUnlock()

	if len(candidates) == 0 {
		return 0, ctx.Err()
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	removed := make([]types.Subscription, 0, len(candidates))
	for _, id := range candidates {
		sub, exists := r.byID[id]
		if !exists || !expired(sub, cutoff) {
			continue
		}
		delete(r.byID, id)
		r.unindex(sub.IncidentID, id)
		removed = append(removed, sub)
	}
	r.mu.Unlock()

	for _, sub := range removed {
		r.notify(EventRemove, sub)
	}
	return len(removed), nil
}

func expired(sub types.Subscription, cutoff time.Time) bool {
	return !sub.IsActive && sub.CreatedAt.Before(cutoff)
}

// collect must be called with r.mu held.
func (r *Registry) collect(incidentID string, activeOnly bool) []types.Subscription {
	ids := r.byIncident[incidentID]
	result := make([]types.Subscription, 0, len(ids))
	for _, id := range ids {
		sub, ok := r.byID[id]
		if !ok || (activeOnly && !sub.IsActive) {
			continue
		}
		result = append(result, sub)
	}
	return result
}

// unindex must be called with r.mu write-locked.
func (r *Registry) unindex(incidentID, id string) {
	ids := r.byIncident[incidentID]
	for i, v := range ids {
		if v == id {
			ids = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
	if len(ids) == 0 {
		delete(r.byIncident, incidentID)
		return
	}
	r.byIncident[incidentID] = ids
}

func (r *Registry) notify(eventType string, sub types.Subscription) {
	if r.onChange != nil {
		r.onChange(ChangeEvent{Type: eventType, Subscription: sub})
	}
}
