// Package registry provides a concurrent-safe in-memory store of incident subscriptions.
//
// # Contract
//
// The Registry stores Subscription objects keyed by ID, with a secondary index
// from incident ID to the IDs following it. Lookups by ID are O(1); lookups by
// incident are O(subscribers of that incident).
//
// Thread safety: all methods are safe for concurrent use via sync.RWMutex.
// Read methods return copies; callers may not mutate registry state through them.
//
// # Methods
//
//	Subscribe(incidentID, contact, prefs, timezone) (types.Subscription, error)
//	  - Applies DefaultPreferences for any nil patch field and the default timezone
//	    when timezone is empty. Fails with types.ErrInvalidContact when the contact
//	    has no push token, email, or phone, and with types.ErrInvalidQuietHours when
//	    a quiet-hours bound is not HH:MM.
//
//	Unsubscribe(id) bool
//	  - Marks the subscription inactive. Returns false if unknown or already inactive.
//
//	UpdatePreferences(id, patch) (bool, error)
//	  - Merges non-nil patch fields. Returns false if unknown.
//
//	ActiveSubscribersFor(ctx, incidentID) / AllActiveSubscribers(ctx)
//	  - Active subscriptions only, in no meaningful order.
//
//	RemoveInactiveBefore(ctx, cutoff) (int, error)
//	  - Deletes inactive subscriptions created before cutoff. Candidates are taken
//	    from a read-locked snapshot and deleted under a short write lock, so a
//	    subscription created during the pass is never removed.
//
// # Callback
//
// An optional OnChangeFunc fires after every mutation, outside the lock.
package registry
