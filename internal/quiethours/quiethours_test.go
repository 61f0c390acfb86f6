package quiethours

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/winnyineza/RindwaApp-sub000/internal/types"
)

func quietSub(start, end, tz string) types.Subscription {
	prefs := types.DefaultPreferences()
	prefs.QuietHours = types.QuietHours{Enabled: true, Start: start, End: end}
	return types.Subscription{Preferences: prefs, Timezone: tz}
}

// utcAt returns a UTC instant with the given wall clock on a fixed date.
func utcAt(hour, minute int) time.Time {
	return time.Date(2026, 5, 12, hour, minute, 0, 0, time.UTC)
}

func TestIsQuietHours_SameDayWindow(t *testing.T) {
	sub := quietSub("09:00", "17:00", "UTC")

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"midday", utcAt(12, 0), true},
		{"evening", utcAt(20, 0), false},
		{"start bound", utcAt(9, 0), true},
		{"end bound", utcAt(17, 0), true},
		{"just before", utcAt(8, 59), false},
		{"just after", utcAt(17, 1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsQuietHours(sub, tt.now))
		})
	}
}

func TestIsQuietHours_OvernightWindow(t *testing.T) {
	sub := quietSub("22:00", "07:00", "UTC")

	assert.True(t, IsQuietHours(sub, utcAt(23, 30)))
	assert.True(t, IsQuietHours(sub, utcAt(3, 0)))
	assert.True(t, IsQuietHours(sub, utcAt(22, 0)))
	assert.True(t, IsQuietHours(sub, utcAt(7, 0)))
	assert.False(t, IsQuietHours(sub, utcAt(12, 0)))
	assert.False(t, IsQuietHours(sub, utcAt(21, 59)))
}

func TestIsQuietHours_Disabled(t *testing.T) {
	sub := quietSub("00:00", "23:59", "UTC")
	sub.Preferences.QuietHours.Enabled = false

	for h := 0; h < 24; h++ {
		assert.False(t, IsQuietHours(sub, utcAt(h, 30)), "hour %d", h)
	}
}

func TestIsQuietHours_ConvertsToSubscriberTimezone(t *testing.T) {
	// Kigali is UTC+2 with no DST: 21:30 UTC is 23:30 local.
	sub := quietSub("22:00", "07:00", "Africa/Kigali")
	assert.True(t, IsQuietHours(sub, utcAt(21, 30)))
	// 10:00 UTC is 12:00 local.
	assert.False(t, IsQuietHours(sub, utcAt(10, 0)))
}

func TestIsQuietHours_EmptyTimezoneUsesDefault(t *testing.T) {
	sub := quietSub("22:00", "07:00", "")
	assert.True(t, IsQuietHours(sub, utcAt(21, 30)), "empty zone should resolve to Africa/Kigali")
}

func TestIsQuietHours_MalformedWindow(t *testing.T) {
	sub := quietSub("late", "07:00", "UTC")
	assert.False(t, IsQuietHours(sub, utcAt(23, 0)))
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"07:00", 420, false},
		{"7:05", 425, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"1200", 0, true},
		{"", 0, true},
		{"ab:cd", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, types.ErrInvalidQuietHours))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateTimezone(t *testing.T) {
	for _, tz := range []string{"Africa/Kigali", "UTC", "America/New_York"} {
		assert.NoError(t, ValidateTimezone(tz), tz)
	}
	for _, tz := range []string{"Mars/Olympus", "", "Kigali"} {
		err := ValidateTimezone(tz)
		assert.True(t, errors.Is(err, types.ErrInvalidTimezone), "%q: %v", tz, err)
	}
}

func TestLocation_UnknownFallsBackToDefault(t *testing.T) {
	loc := Location("Mars/Olympus_Mons")
	require.NotNil(t, loc)
	assert.Equal(t, Location(types.DefaultTimezone).String(), loc.String())
}
