package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/winnyineza/RindwaApp-sub000/internal/testutil"
	"github.com/winnyineza/RindwaApp-sub000/internal/types"
)

func pushContact(token string) types.Contact {
	return types.Contact{PushToken: token, DeviceClass: types.DeviceClassIOS}
}

func TestSubscribe_AppliesDefaults(t *testing.T) {
	clock := testutil.NewClock(testutil.Noon)
	r := NewWithOptions(nil, Options{Now: clock.Now})

	sub, err := r.Subscribe("inc-1", pushContact("tok-1"), nil, "")
	require.NoError(t, err)

	assert.NotEmpty(t, sub.ID)
	assert.Equal(t, "inc-1", sub.IncidentID)
	assert.Equal(t, types.DefaultPreferences(), sub.Preferences)
	assert.Equal(t, "Africa/Kigali", sub.Timezone)
	assert.True(t, sub.IsActive)
	assert.Equal(t, testutil.Noon, sub.CreatedAt)
	assert.Equal(t, 1, r.Count())
}

func TestSubscribe_PartialPreferences(t *testing.T) {
	r := New(nil)
	sub, err := r.Subscribe("inc-1", types.Contact{Phone: "+250788111222"}, &types.PreferencesPatch{
		SMS:        testutil.Bool(true),
		QuietHours: &types.QuietHoursPatch{Enabled: testutil.Bool(true)},
	}, "Europe/Paris")
	require.NoError(t, err)

	assert.True(t, sub.Preferences.Push, "omitted field takes default")
	assert.True(t, sub.Preferences.SMS)
	assert.True(t, sub.Preferences.QuietHours.Enabled)
	assert.Equal(t, "22:00", sub.Preferences.QuietHours.Start)
	assert.Equal(t, "07:00", sub.Preferences.QuietHours.End)
	assert.Equal(t, "Europe/Paris", sub.Timezone)
}

func TestSubscribe_InvalidContact(t *testing.T) {
	r := New(nil)
	_, err := r.Subscribe("inc-1", types.Contact{DeviceClass: types.DeviceClassWeb}, nil, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrInvalidContact))
	assert.Equal(t, 0, r.Count())
}

func TestSubscribe_InvalidQuietHours(t *testing.T) {
	r := New(nil)
	_, err := r.Subscribe("inc-1", pushContact("tok"), &types.PreferencesPatch{
		QuietHours: &types.QuietHoursPatch{Start: testutil.String("10pm")},
	}, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrInvalidQuietHours))
	assert.Equal(t, 0, r.Count())
}

func TestSubscribe_InvalidTimezone(t *testing.T) {
	r := New(nil)
	_, err := r.Subscribe("inc-1", pushContact("tok"), nil, "Mars/Olympus")
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrInvalidTimezone))
	assert.Contains(t, err.Error(), "Mars/Olympus")
	assert.Equal(t, 0, r.Count())
}

func TestUnsubscribe_Idempotent(t *testing.T) {
	r := New(nil)
	sub, err := r.Subscribe("inc-1", pushContact("tok"), nil, "")
	require.NoError(t, err)

	assert.True(t, r.Unsubscribe(sub.ID))
	assert.False(t, r.Unsubscribe(sub.ID), "second unsubscribe is a no-op")
	assert.False(t, r.Unsubscribe("does-not-exist"))

	got, ok := r.Get(sub.ID)
	require.True(t, ok, "inactive subscriptions remain queryable")
	assert.False(t, got.IsActive)
}

func TestUpdatePreferences(t *testing.T) {
	r := New(nil)
	sub, err := r.Subscribe("inc-1", pushContact("tok"), nil, "")
	require.NoError(t, err)

	found, err := r.UpdatePreferences(sub.ID, types.PreferencesPatch{
		Email:        testutil.Bool(false),
		CriticalOnly: testutil.Bool(true),
	})
	require.NoError(t, err)
	assert.True(t, found)

	got, _ := r.Get(sub.ID)
	assert.True(t, got.Preferences.Push)
	assert.False(t, got.Preferences.Email)
	assert.True(t, got.Preferences.CriticalOnly)
	assert.Equal(t, "inc-1", got.IncidentID)

	found, err = r.UpdatePreferences("missing", types.PreferencesPatch{Push: testutil.Bool(false)})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestUpdatePreferences_RejectsMalformedQuietHours(t *testing.T) {
	r := New(nil)
	sub, err := r.Subscribe("inc-1", pushContact("tok"), nil, "")
	require.NoError(t, err)

	found, err := r.UpdatePreferences(sub.ID, types.PreferencesPatch{
		QuietHours: &types.QuietHoursPatch{End: testutil.String("25:00")},
	})
	assert.True(t, found)
	require.Error(t, err)

	got, _ := r.Get(sub.ID)
	assert.Equal(t, "07:00", got.Preferences.QuietHours.End, "rejected patch leaves preferences unchanged")
}

func TestActiveSubscribersFor(t *testing.T) {
	r := New(nil)
	ctx := context.Background()

	a, _ := r.Subscribe("inc-1", pushContact("a"), nil, "")
	b, _ := r.Subscribe("inc-1", pushContact("b"), nil, "")
	_, _ = r.Subscribe("inc-2", pushContact("c"), nil, "")
	r.Unsubscribe(b.ID)

	active, err := r.ActiveSubscribersFor(ctx, "inc-1")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, a.ID, active[0].ID)

	assert.Len(t, r.SubscriptionsFor("inc-1"), 2)

	none, err := r.ActiveSubscribersFor(ctx, "inc-unknown")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestAllActiveSubscribers(t *testing.T) {
	r := New(nil)
	_, _ = r.Subscribe("inc-1", pushContact("a"), nil, "")
	b, _ := r.Subscribe("inc-2", pushContact("b"), nil, "")
	_, _ = r.Subscribe("inc-3", pushContact("c"), nil, "")
	r.Unsubscribe(b.ID)

	all, err := r.AllActiveSubscribers(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)

	everything, err := r.All(context.Background())
	require.NoError(t, err)
	assert.Len(t, everything, 3)
}

func TestQueries_CancelledContext(t *testing.T) {
	r := New(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.ActiveSubscribersFor(ctx, "inc-1")
	assert.ErrorIs(t, err, context.Canceled)
	_, err = r.AllActiveSubscribers(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRemoveInactiveBefore(t *testing.T) {
	clock := testutil.NewClock(testutil.Noon)
	r := NewWithOptions(nil, Options{Now: clock.Now})
	now := testutil.Noon.Add(8 * 24 * time.Hour)
	cutoff := now.Add(-7 * 24 * time.Hour)

	oldInactive, _ := r.Subscribe("inc-1", pushContact("old-inactive"), nil, "")
	oldActive, _ := r.Subscribe("inc-1", pushContact("old-active"), nil, "")
	r.Unsubscribe(oldInactive.ID)

	clock.Set(now.Add(-2 * 24 * time.Hour))
	recentInactive, _ := r.Subscribe("inc-1", pushContact("recent-inactive"), nil, "")
	r.Unsubscribe(recentInactive.ID)
	recentActive, _ := r.Subscribe("inc-1", pushContact("recent-active"), nil, "")

	removed, err := r.RemoveInactiveBefore(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, ok := r.Get(oldInactive.ID)
	assert.False(t, ok)
	for _, id := range []string{oldActive.ID, recentInactive.ID, recentActive.ID} {
		_, ok := r.Get(id)
		assert.True(t, ok, "subscription %s should be retained", id)
	}
	assert.Len(t, r.SubscriptionsFor("inc-1"), 3)
}

func TestOnChange(t *testing.T) {
	var mu sync.Mutex
	var events []string
	r := New(func(e ChangeEvent) {
		mu.Lock()
		events = append(events, e.Type)
		mu.Unlock()
	})

	sub, _ := r.Subscribe("inc-1", pushContact("a"), nil, "")
	_, _ = r.UpdatePreferences(sub.ID, types.PreferencesPatch{SMS: testutil.Bool(true)})
	r.Unsubscribe(sub.ID)
	r.Unsubscribe(sub.ID)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{EventSubscribe, EventUpdate, EventUnsubscribe}, events)
}

func TestConcurrentAccess(t *testing.T) {
	r := New(nil)
	ctx := context.Background()
	var wg sync.WaitGroup

	for i := range 50 {
		wg.Add(3)
		go func(n int) {
			defer wg.Done()
			sub, err := r.Subscribe(fmt.Sprintf("inc-%d", n%5), pushContact(fmt.Sprintf("tok-%d", n)), nil, "")
			if err == nil && n%2 == 0 {
				r.Unsubscribe(sub.ID)
			}
		}(i)
		go func() {
			defer wg.Done()
			_, _ = r.AllActiveSubscribers(ctx)
		}()
		go func() {
			defer wg.Done()
			_, _ = r.RemoveInactiveBefore(ctx, time.Now().Add(-time.Hour))
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, r.Count())
	active, err := r.AllActiveSubscribers(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 25)
}
