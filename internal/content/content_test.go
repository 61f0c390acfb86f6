package content

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/winnyineza/RindwaApp-sub000/internal/types"
)

func TestProgressPush(t *testing.T) {
	b := NewBuilder()

	title, body := b.ProgressPush("inc-7", types.NotificationUpdate{
		Status:   "in_progress",
		Message:  "Responders dispatched",
		Location: "Kimironko",
	})
	assert.Equal(t, "Incident inc-7: in progress", title)
	assert.Equal(t, "Responders dispatched (Kimironko)", body)

	title, _ = b.ProgressPush("inc-7", types.NotificationUpdate{Status: "escalated"})
	assert.True(t, strings.HasPrefix(title, "URGENT"))
}

func TestProgressEmail(t *testing.T) {
	b := NewBuilder()
	action := true
	email, err := b.ProgressEmail("inc-7", types.NotificationUpdate{
		Status:         "in_progress",
		Priority:       "high",
		Message:        "Road closed <north side>",
		UpdatedBy:      "Officer Uwase",
		EstimatedTime:  "30 minutes",
		ActionRequired: &action,
	})
	require.NoError(t, err)

	assert.Equal(t, "[HIGH] Incident inc-7 update: in progress", email.Subject)
	assert.Contains(t, email.HTMLBody, "Officer Uwase")
	assert.Contains(t, email.HTMLBody, "30 minutes")
	assert.Contains(t, email.HTMLBody, "Action required")
	assert.Contains(t, email.HTMLBody, "&lt;north side&gt;", "message is HTML-escaped")
}

func TestProgressSMS_Truncates(t *testing.T) {
	b := NewBuilder()
	msg := b.ProgressSMS("inc-7", types.NotificationUpdate{
		Status:  "in_progress",
		Message: strings.Repeat("x", 300),
	})
	assert.Equal(t, 160, utf8.RuneCountInString(msg))
	assert.True(t, strings.HasSuffix(msg, "..."))

	short := b.ProgressSMS("inc-7", types.NotificationUpdate{Status: "resolved", Message: "All clear.", EstimatedTime: "now"})
	assert.Equal(t, "Rindwa: incident inc-7 is resolved. All clear. ETA now.", short)
}

func TestResolutionEmail(t *testing.T) {
	b := NewBuilder()
	start := time.Date(2026, 5, 12, 8, 0, 0, 0, time.UTC)
	email, err := b.ResolutionEmail("inc-9", types.ResolutionDetails{
		ResolvedBy:   "Station 3",
		ReportedAt:   start,
		ResolvedAt:   start.Add(3*time.Hour + 12*time.Minute),
		ActionsTaken: []string{"Fire contained", "Area secured"},
		Notes:        "No injuries reported.",
	})
	require.NoError(t, err)

	assert.Equal(t, "Incident inc-9 resolved", email.Subject)
	assert.Contains(t, email.HTMLBody, "Station 3")
	assert.Contains(t, email.HTMLBody, "3 hours 12 minutes")
	assert.Contains(t, email.HTMLBody, "<li>Fire contained</li>")
	assert.Contains(t, email.HTMLBody, "<li>Area secured</li>")
	assert.Contains(t, email.HTMLBody, "No injuries reported.")
}
