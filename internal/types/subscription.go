package types

import (
	"errors"
	"time"
)

// DeviceClass is the push-notification platform variant of a device.
type DeviceClass string

const (
	DeviceClassIOS     DeviceClass = "ios"
	DeviceClassAndroid DeviceClass = "android"
	DeviceClassWeb     DeviceClass = "web"
)

// Normalize maps unknown or empty device classes to web.
func (d DeviceClass) Normalize() DeviceClass {
	switch d {
	case DeviceClassIOS, DeviceClassAndroid:
		return d
	default:
		return DeviceClassWeb
	}
}

// Channel is a delivery mechanism.
type Channel string

const (
	ChannelPush  Channel = "push"
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

// DefaultTimezone is used when a subscription does not carry a zone.
const DefaultTimezone = "Africa/Kigali"

const (
	DefaultQuietStart = "22:00"
	DefaultQuietEnd   = "07:00"
)

var (
	// ErrInvalidContact is returned when a subscription has no usable address.
	ErrInvalidContact = errors.New("subscription requires a push token, email, or phone")

	// ErrInvalidQuietHours is returned when a quiet-hours bound is not HH:MM.
	ErrInvalidQuietHours = errors.New("quiet hours must be formatted HH:MM")

	// ErrInvalidTimezone is returned when a subscription names an unknown IANA zone.
	ErrInvalidTimezone = errors.New("timezone must be a known IANA zone name")

	// ErrSendTimeout is recorded when a provider call exceeds its deadline.
	ErrSendTimeout = errors.New("channel send timed out")
)

// Contact holds the channel addresses of a subscriber. Any field may be empty.
type Contact struct {
	PushToken   string      `json:"pushToken,omitempty"`
	DeviceClass DeviceClass `json:"deviceClass,omitempty"`
	Email       string      `json:"email,omitempty"`
	Phone       string      `json:"phone,omitempty"`
}

// Actionable reports whether at least one address is present.
func (c Contact) Actionable() bool {
	return c.PushToken != "" || c.Email != "" || c.Phone != ""
}

// QuietHours is a daily do-not-disturb window in the subscriber's timezone.
type QuietHours struct {
	Enabled bool   `json:"enabled"`
	Start   string `json:"start"` // HH:MM
	End     string `json:"end"`   // HH:MM
}

// Preferences controls which channels a subscriber receives and when.
type Preferences struct {
	Push         bool       `json:"push"`
	Email        bool       `json:"email"`
	SMS          bool       `json:"sms"`
	CriticalOnly bool       `json:"criticalOnly"`
	QuietHours   QuietHours `json:"quietHours"`
}

// DefaultPreferences returns push and email on, sms off, quiet hours disabled.
func DefaultPreferences() Preferences {
	return Preferences{
		Push:  true,
		Email: true,
		QuietHours: QuietHours{
			Start: DefaultQuietStart,
			End:   DefaultQuietEnd,
		},
	}
}

// QuietHoursPatch carries optional quiet-hours fields.
type QuietHoursPatch struct {
	Enabled *bool   `json:"enabled,omitempty"`
	Start   *string `json:"start,omitempty"`
	End     *string `json:"end,omitempty"`
}

// PreferencesPatch carries optional preference fields. Nil fields are left unchanged.
type PreferencesPatch struct {
	Push         *bool            `json:"push,omitempty"`
	Email        *bool            `json:"email,omitempty"`
	SMS          *bool            `json:"sms,omitempty"`
	CriticalOnly *bool            `json:"criticalOnly,omitempty"`
	QuietHours   *QuietHoursPatch `json:"quietHours,omitempty"`
}

// Apply returns p with every non-nil field of patch merged in.
func (p Preferences) Apply(patch *PreferencesPatch) Preferences {
	if patch == nil {
		return p
	}
	if patch.Push != nil {
		p.Push = *patch.Push
	}
	if patch.Email != nil {
		p.Email = *patch.Email
	}
	if patch.SMS != nil {
		p.SMS = *patch.SMS
	}
	if patch.CriticalOnly != nil {
		p.CriticalOnly = *patch.CriticalOnly
	}
	if q := patch.QuietHours; q != nil {
		if q.Enabled != nil {
			p.QuietHours.Enabled = *q.Enabled
		}
		if q.Start != nil {
			p.QuietHours.Start = *q.Start
		}
		if q.End != nil {
			p.QuietHours.End = *q.End
		}
	}
	return p
}

// Subscription is a citizen's registration to follow one incident.
// IncidentID and CreatedAt never change after creation.
type Subscription struct {
	ID          string      `json:"id"`
	IncidentID  string      `json:"incidentId"`
	Contact     Contact     `json:"contact"`
	Preferences Preferences `json:"preferences"`
	Timezone    string      `json:"timezone"`
	IsActive    bool        `json:"isActive"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// WantsPush reports whether a push can be sent to this subscriber.
func (s Subscription) WantsPush() bool {
	return s.Preferences.Push && s.Contact.PushToken != ""
}

// WantsEmail reports whether an email can be sent to this subscriber.
func (s Subscription) WantsEmail() bool {
	return s.Preferences.Email && s.Contact.Email != ""
}

// WantsSMS reports whether an SMS can be sent to this subscriber.
func (s Subscription) WantsSMS() bool {
	return s.Preferences.SMS && s.Contact.Phone != ""
}
