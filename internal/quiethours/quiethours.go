// Package quiethours decides whether a subscriber's do-not-disturb window is in effect.
package quiethours

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
	_ "time/tzdata"

	"github.com/winnyineza/RindwaApp-sub000/internal/types"
)

// locations caches loaded zones; LoadLocation hits the tz database on every call.
var locations sync.Map // string -> *time.Location

// IsQuietHours reports whether now, in the subscription's timezone, falls inside
// its quiet-hours window. Always false when quiet hours are disabled or malformed.
//
// Same-day windows (start <= end) include both bounds. Overnight windows
// (start > end) match t >= start or t <= end.
func IsQuietHours(sub types.Subscription, now time.Time) bool {
	qh := sub.Preferences.QuietHours
	if !qh.Enabled {
		return false
	}
	start, err := ParseClock(qh.Start)
	if err != nil {
		return false
	}
	end, err := ParseClock(qh.End)
	if err != nil {
		return false
	}

	local := now.In(Location(sub.Timezone))
	t := local.Hour()*60 + local.Minute()

	if start <= end {
		return start <= t && t <= end
	}
	return t >= start || t <= end
}

// ParseClock converts "HH:MM" to minutes since midnight.
func ParseClock(s string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(hh) == 0 || len(hh) > 2 || len(mm) != 2 {
		return 0, fmt.Errorf("%w: %q", types.ErrInvalidQuietHours, s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("%w: %q", types.ErrInvalidQuietHours, s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: %q", types.ErrInvalidQuietHours, s)
	}
	return h*60 + m, nil
}

// Validate checks both bounds of a quiet-hours window, enabled or not.
func Validate(qh types.QuietHours) error {
	if _, err := ParseClock(qh.Start); err != nil {
		return err
	}
	_, err := ParseClock(qh.End)
	return err
}

// ValidateTimezone reports whether name is a loadable IANA zone.
func ValidateTimezone(name string) error {
	if _, err := time.LoadLocation(name); err != nil || name == "" {
		return fmt.Errorf("%w: %q", types.ErrInvalidTimezone, name)
	}
	return nil
}

// Location resolves an IANA zone name. Empty or unknown names fall back to
// the default zone, and to UTC if that is unavailable too.
func Location(name string) *time.Location {
	if name == "" {
		name = types.DefaultTimezone
	}
	if loc, ok := locations.Load(name); ok {
		return loc.(*time.Location)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		loc = time.UTC
		if name != types.DefaultTimezone {
			loc = Location(types.DefaultTimezone)
		}
	}
	locations.Store(name, loc)
	return loc
}
