package channels

import (
	"fmt"

	"github.com/winnyineza/RindwaApp-sub000/internal/types"
)

// PushPriority is the delivery priority requested from the push provider.
type PushPriority string

const (
	PushPriorityNormal PushPriority = "normal"
	PushPriorityHigh   PushPriority = "high"
)

// Sounds used by the dispatcher.
const (
	SoundDefault   = "default"
	SoundEmergency = "emergency"
)

const (
	androidIcon       = "ic_emergency"
	androidColor      = "#dc2626"
	androidChannelID  = "emergency_updates"
	androidVisibility = "public"
	webIcon           = "/icons/icon-192x192.png"
	defaultBadge      = 1
)

// PushAction is a generic notification button.
type PushAction struct {
	Action string `json:"action"`
	Title  string `json:"title"`
	Icon   string `json:"icon,omitempty"`
}

// PushPayload is the channel-independent content of a push notification.
type PushPayload struct {
	Title    string
	Body     string
	Data     map[string]string
	ImageURL string
	Actions  []PushAction
	Priority PushPriority
	Sound    string
	Badge    *int
}

// PushTarget identifies a device.
type PushTarget struct {
	Token       string
	DeviceClass types.DeviceClass
}

// PushNotification is the notification block sent to every platform.
// Which optional fields are populated depends on the device class.
type PushNotification struct {
	Title      string       `json:"title"`
	Body       string       `json:"body"`
	Image      string       `json:"image,omitempty"`
	Icon       string       `json:"icon,omitempty"`
	Color      string       `json:"color,omitempty"`
	ChannelID  string       `json:"channel_id,omitempty"`
	Visibility string       `json:"visibility,omitempty"`
	Sound      string       `json:"sound,omitempty"`
	Badge      *int         `json:"badge,omitempty"`
	Actions    []PushAction `json:"actions,omitempty"`
}

// APSAlert is the alert dictionary of an APNs payload.
type APSAlert struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// APS is the aps dictionary of an APNs payload.
type APS struct {
	Alert APSAlert `json:"alert"`
	Sound string   `json:"sound,omitempty"`
	Badge int      `json:"badge"`
}

// APNSPayload wraps the aps dictionary.
type APNSPayload struct {
	APS APS `json:"aps"`
}

// PushRequest is the provider request for one device.
type PushRequest struct {
	To           string            `json:"to"`
	Platform     types.DeviceClass `json:"platform"`
	Priority     PushPriority      `json:"priority"`
	Data         map[string]string `json:"data,omitempty"`
	Notification PushNotification  `json:"notification"`
	APNS         *APNSPayload      `json:"apns,omitempty"`
}

// BuildPush builds the push request for target. Unknown device classes are
// treated as web.
func BuildPush(target PushTarget, p PushPayload) PushRequest {
	priority := p.Priority
	if priority != PushPriorityHigh {
		priority = PushPriorityNormal
	}

	platform := target.DeviceClass.Normalize()
	req := PushRequest{
		To:       target.Token,
		Platform: platform,
		Priority: priority,
		Data:     copyData(p.Data),
	}

	switch platform {
	case types.DeviceClassIOS:
		badge := defaultBadge
		if p.Badge != nil {
			badge = *p.Badge
		}
		req.APNS = &APNSPayload{APS: APS{
			Alert: APSAlert{Title: p.Title, Body: p.Body},
			Sound: p.Sound,
			Badge: badge,
		}}
		req.Notification = PushNotification{
			Title: p.Title,
			Body:  p.Body,
			Image: p.ImageURL,
			Sound: p.Sound,
			Badge: &badge,
		}
	case types.DeviceClassAndroid:
		req.Notification = PushNotification{
			Title:      p.Title,
			Body:       p.Body,
			Image:      p.ImageURL,
			Icon:       androidIcon,
			Color:      androidColor,
			ChannelID:  androidChannelID,
			Visibility: androidVisibility,
			Sound:      p.Sound,
		}
	default:
		req.Notification = PushNotification{
			Title:   p.Title,
			Body:    p.Body,
			Image:   p.ImageURL,
			Icon:    webIcon,
			Actions: webActions(p.Actions),
		}
	}
	return req
}

func webActions(actions []PushAction) []PushAction {
	if len(actions) == 0 {
		return nil
	}
	out := make([]PushAction, len(actions))
	for i, a := range actions {
		out[i] = PushAction{Action: a.Action, Title: a.Title}
		if a.Icon != "" {
			out[i].Icon = fmt.Sprintf("/icons/%s.png", a.Icon)
		}
	}
	return out
}

func copyData(data map[string]string) map[string]string {
	if len(data) == 0 {
		return nil
	}
	out := make(map[string]string, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}
