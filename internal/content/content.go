// Package content renders notification text: push titles and bodies, HTML
// emails, and SMS messages. Rendering is pure and has no knowledge of who
// receives the result.
package content

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/winnyineza/RindwaApp-sub000/internal/channels"
	"github.com/winnyineza/RindwaApp-sub000/internal/types"
)

// smsLimit keeps progress texts within a single 160-character segment.
const smsLimit = 160

var progressEmailTmpl = template.Must(template.New("progress").Parse(`<!DOCTYPE html>
<html><body style="font-family:Arial,sans-serif;color:#111827">
<div style="background:{{if .Urgent}}#dc2626{{else}}#1d4ed8{{end}};color:#fff;padding:16px"><h2 style="margin:0">{{if .Urgent}}Urgent incident update{{else}}Incident update{{end}}</h2></div>
<div style="padding:16px">
<p><strong>Incident:</strong> {{.IncidentID}}</p>
<p><strong>Status:</strong> {{.Status}}</p>
{{- if .Priority}}<p><strong>Priority:</strong> {{.Priority}}</p>{{end}}
<p>{{.Message}}</p>
{{- if .Location}}<p><strong>Location:</strong> {{.Location}}</p>{{end}}
{{- if .EstimatedTime}}<p><strong>Estimated time:</strong> {{.EstimatedTime}}</p>{{end}}
{{- if .ActionRequired}}<p style="color:#dc2626"><strong>Action required:</strong> please follow instructions from responders.</p>{{end}}
<p style="color:#6b7280">Updated by {{.UpdatedBy}}</p>
</div></body></html>`))

var resolutionEmailTmpl = template.Must(template.New("resolution").Parse(`<!DOCTYPE html>
<html><body style="font-family:Arial,sans-serif;color:#111827">
<div style="background:#16a34a;color:#fff;padding:16px"><h2 style="margin:0">Incident resolved</h2></div>
<div style="padding:16px">
<p><strong>Incident:</strong> {{.IncidentID}}</p>
<p><strong>Resolved by:</strong> {{.ResolvedBy}}</p>
<p><strong>Time to resolution:</strong> {{.Hours}} hours {{.Minutes}} minutes</p>
{{- if .Actions}}
<p><strong>Actions taken:</strong></p>
<ol>{{range .Actions}}<li>{{.}}</li>{{end}}</ol>
{{- end}}
{{- if .Notes}}<p>{{.Notes}}</p>{{end}}
<p style="color:#6b7280">Thank you for helping keep your community safe.</p>
</div></body></html>`))

// Builder renders notification content with the default templates.
type Builder struct{}

// NewBuilder returns the default content builder.
func NewBuilder() *Builder { return &Builder{} }

// ProgressPush returns the push title and body for a status update.
func (b *Builder) ProgressPush(incidentID string, u types.NotificationUpdate) (title, body string) {
	title = fmt.Sprintf("Incident %s: %s", incidentID, humanize(u.Status))
	if u.IsUrgent() {
		title = "URGENT - " + title
	}
	body = u.Message
	if u.Location != "" {
		body = fmt.Sprintf("%s (%s)", body, u.Location)
	}
	return title, body
}

// ProgressEmail renders the HTML email for a status update.
func (b *Builder) ProgressEmail(incidentID string, u types.NotificationUpdate) (channels.EmailPayload, error) {
	data := struct {
		IncidentID     string
		Urgent         bool
		Status         string
		Priority       string
		Message        string
		Location       string
		EstimatedTime  string
		ActionRequired bool
		UpdatedBy      string
	}{
		IncidentID:     incidentID,
		Urgent:         u.IsUrgent(),
		Status:         humanize(u.Status),
		Priority:       u.Priority,
		Message:        u.Message,
		Location:       u.Location,
		EstimatedTime:  u.EstimatedTime,
		ActionRequired: u.ActionRequired != nil && *u.ActionRequired,
		UpdatedBy:      u.UpdatedBy,
	}

	var buf bytes.Buffer
	if err := progressEmailTmpl.Execute(&buf, data); err != nil {
		return channels.EmailPayload{}, fmt.Errorf("render progress email: %w", err)
	}
	return channels.EmailPayload{
		Subject:  fmt.Sprintf("[%s] Incident %s update: %s", strings.ToUpper(orDefault(u.Priority, "info")), incidentID, humanize(u.Status)),
		HTMLBody: buf.String(),
	}, nil
}

// ProgressSMS renders the text message for a status update.
func (b *Builder) ProgressSMS(incidentID string, u types.NotificationUpdate) string {
	msg := fmt.Sprintf("Rindwa: incident %s is %s. %s", incidentID, humanize(u.Status), u.Message)
	if u.EstimatedTime != "" {
		msg += " ETA " + u.EstimatedTime + "."
	}
	return truncate(msg, smsLimit)
}

// ResolutionEmail renders the detailed resolution report.
func (b *Builder) ResolutionEmail(incidentID string, r types.ResolutionDetails) (channels.EmailPayload, error) {
	hours, minutes := r.TimeToResolution()
	data := struct {
		IncidentID string
		ResolvedBy string
		Hours      int
		Minutes    int
		Actions    []string
		Notes      string
	}{incidentID, r.ResolvedBy, hours, minutes, r.ActionsTaken, r.Notes}

	var buf bytes.Buffer
	if err := resolutionEmailTmpl.Execute(&buf, data); err != nil {
		return channels.EmailPayload{}, fmt.Errorf("render resolution email: %w", err)
	}
	return channels.EmailPayload{
		Subject:  fmt.Sprintf("Incident %s resolved", incidentID),
		HTMLBody: buf.String(),
	}, nil
}

func humanize(status string) string {
	if status == "" {
		return "updated"
	}
	return strings.ReplaceAll(status, "_", " ")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-3]) + "..."
}
