// Package api exposes the notification engine over HTTP. Handlers are thin
// wrappers: validation and status mapping happen here, behavior lives in the
// registry, tracker, and notifier.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/winnyineza/RindwaApp-sub000/internal/notifier"
	"github.com/winnyineza/RindwaApp-sub000/internal/tracker"
	"github.com/winnyineza/RindwaApp-sub000/internal/types"
)

const (
	defaultRecordLimit = 100
	maxRecordLimit     = 1000
	maxBodyBytes       = 1 << 20
)

// SubscriptionStore is the registry surface used by the API.
type SubscriptionStore interface {
	Subscribe(incidentID string, contact types.Contact, prefs *types.PreferencesPatch, timezone string) (types.Subscription, error)
	Unsubscribe(id string) bool
	UpdatePreferences(id string, patch types.PreferencesPatch) (bool, error)
	Get(id string) (types.Subscription, bool)
	SubscriptionsFor(incidentID string) []types.Subscription
}

// DeliveryStats is the tracker surface used by the API.
type DeliveryStats interface {
	StatsSnapshot(ctx context.Context) (tracker.Stats, error)
	Records(ctx context.Context, filter tracker.RecordFilter) ([]types.DeliveryRecord, error)
	LatestFor(ctx context.Context, target string) (types.DeliveryRecord, bool, error)
	LatestPerTarget(ctx context.Context) (map[string]types.DeliveryRecord, error)
}

// Notifier triggers dispatch rounds.
type Notifier interface {
	SendProgressUpdate(ctx context.Context, incidentID string, update types.NotificationUpdate) (notifier.RoundResult, error)
	SendResolution(ctx context.Context, incidentID string, details types.ResolutionDetails) (notifier.ResolutionResult, error)
	BroadcastEmergencyAlert(ctx context.Context, title, message, priority string, deviceClasses []types.DeviceClass) (notifier.BroadcastResult, error)
}

// SubscribeRequest is the body of POST /api/v1/incidents/{id}/subscriptions.
type SubscribeRequest struct {
	types.Contact
	Preferences *types.PreferencesPatch `json:"preferences,omitempty"`
	Timezone    string                  `json:"timezone,omitempty"`
}

// BroadcastRequest is the body of POST /api/v1/broadcasts.
type BroadcastRequest struct {
	Title         string              `json:"title"`
	Message       string              `json:"message"`
	Priority      string              `json:"priority,omitempty"`
	DeviceClasses []types.DeviceClass `json:"deviceClasses,omitempty"`
}

// DeliveriesResponse is the body of GET /api/v1/deliveries.
type DeliveriesResponse struct {
	Records []types.DeliveryRecord `json:"records"`
}

// SubscriptionsResponse is the body of GET /api/v1/incidents/{id}/subscriptions.
type SubscriptionsResponse struct {
	Subscriptions []types.Subscription `json:"subscriptions"`
}

// ErrorResponse is returned with every non-2xx status.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Handler serves the API routes.
type Handler struct {
	logger   *zap.Logger
	subs     SubscriptionStore
	stats    DeliveryStats
	notifier Notifier
}

// NewHandler creates a Handler.
func NewHandler(subs SubscriptionStore, stats DeliveryStats, n Notifier, logger *zap.Logger) *Handler {
	return &Handler{
		logger:   logger.Named("api"),
		subs:     subs,
		stats:    stats,
		notifier: n,
	}
}

// Subscribe handles POST /api/v1/incidents/{incidentID}/subscriptions.
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req SubscribeRequest
	if !h.decode(w, r, &req) {
		return
	}
	sub, err := h.subs.Subscribe(chi.URLParam(r, "incidentID"), req.Contact, req.Preferences, req.Timezone)
	if err != nil {
		h.clientError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, sub)
}

// GetSubscription handles GET /api/v1/subscriptions/{subscriptionID}.
func (h *Handler) GetSubscription(w http.ResponseWriter, r *http.Request) {
	sub, ok := h.subs.Get(chi.URLParam(r, "subscriptionID"))
	if !ok {
		h.writeError(w, http.StatusNotFound, "subscription not found")
		return
	}
	h.writeJSON(w, http.StatusOK, sub)
}

// IncidentSubscriptions handles GET /api/v1/incidents/{incidentID}/subscriptions.
// Inactive subscriptions are included until the sweeper removes them.
func (h *Handler) IncidentSubscriptions(w http.ResponseWriter, r *http.Request) {
	subs := h.subs.SubscriptionsFor(chi.URLParam(r, "incidentID"))
	if subs == nil {
		subs = []types.Subscription{}
	}
	h.writeJSON(w, http.StatusOK, SubscriptionsResponse{Subscriptions: subs})
}

// Unsubscribe handles DELETE /api/v1/subscriptions/{subscriptionID}. Unknown
// or already inactive subscriptions are not an error.
func (h *Handler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	changed := h.subs.Unsubscribe(chi.URLParam(r, "subscriptionID"))
	h.writeJSON(w, http.StatusOK, map[string]bool{"unsubscribed": changed})
}

// UpdatePreferences handles PATCH /api/v1/subscriptions/{subscriptionID}/preferences.
func (h *Handler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var patch types.PreferencesPatch
	if !h.decode(w, r, &patch) {
		return
	}
	found, err := h.subs.UpdatePreferences(chi.URLParam(r, "subscriptionID"), patch)
	if err != nil {
		h.clientError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]bool{"updated": found})
}

// Stats handles GET /api/v1/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.StatsSnapshot(r.Context())
	if err != nil {
		h.serverError(w, "Failed to compute stats", err)
		return
	}
	h.writeJSON(w, http.StatusOK, stats)
}

// Deliveries handles GET /api/v1/deliveries.
func (h *Handler) Deliveries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := tracker.RecordFilter{
		Target:         q.Get("target"),
		Channel:        types.Channel(q.Get("channel")),
		IncidentID:     q.Get("incidentId"),
		SubscriptionID: q.Get("subscriptionId"),
		Limit:          defaultRecordLimit,
	}
	if v := q.Get("since"); v != "" {
		since, err := time.Parse(time.RFC3339, v)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "since must be an RFC3339 timestamp")
			return
		}
		filter.Since = since
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			h.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		filter.Limit = min(n, maxRecordLimit)
	}

	recs, err := h.stats.Records(r.Context(), filter)
	if err != nil {
		h.serverError(w, "Failed to read deliveries", err)
		return
	}
	if recs == nil {
		recs = []types.DeliveryRecord{}
	}
	h.writeJSON(w, http.StatusOK, DeliveriesResponse{Records: recs})
}

// LatestDeliveries handles GET /api/v1/deliveries/latest: the most recent
// record of each target, sorted by target. A target query parameter narrows
// the result to that target.
func (h *Handler) LatestDeliveries(w http.ResponseWriter, r *http.Request) {
	recs := []types.DeliveryRecord{}
	if target := r.URL.Query().Get("target"); target != "" {
		rec, found, err := h.stats.LatestFor(r.Context(), target)
		if err != nil {
			h.serverError(w, "Failed to read latest delivery", err)
			return
		}
		if found {
			recs = append(recs, rec)
		}
		h.writeJSON(w, http.StatusOK, DeliveriesResponse{Records: recs})
		return
	}

	latest, err := h.stats.LatestPerTarget(r.Context())
	if err != nil {
		h.serverError(w, "Failed to read latest deliveries", err)
		return
	}
	for _, rec := range latest {
		recs = append(recs, rec)
	}
	slices.SortFunc(recs, func(a, b types.DeliveryRecord) int { return strings.Compare(a.Target, b.Target) })
	h.writeJSON(w, http.StatusOK, DeliveriesResponse{Records: recs})
}

// ProgressUpdate handles POST /api/v1/incidents/{incidentID}/updates. The
// round runs to completion even if the client disconnects.
func (h *Handler) ProgressUpdate(w http.ResponseWriter, r *http.Request) {
	var update types.NotificationUpdate
	if !h.decode(w, r, &update) {
		return
	}
	if update.Status == "" {
		h.writeError(w, http.StatusBadRequest, "status is required")
		return
	}
	res, err := h.notifier.SendProgressUpdate(context.WithoutCancel(r.Context()), chi.URLParam(r, "incidentID"), update)
	if err != nil {
		h.serverError(w, "Progress dispatch failed", err)
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

// Resolution handles POST /api/v1/incidents/{incidentID}/resolution.
func (h *Handler) Resolution(w http.ResponseWriter, r *http.Request) {
	var details types.ResolutionDetails
	if !h.decode(w, r, &details) {
		return
	}
	res, err := h.notifier.SendResolution(context.WithoutCancel(r.Context()), chi.URLParam(r, "incidentID"), details)
	if err != nil {
		h.serverError(w, "Resolution dispatch failed", err)
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

// Broadcast handles POST /api/v1/broadcasts.
func (h *Handler) Broadcast(w http.ResponseWriter, r *http.Request) {
	var req BroadcastRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Title == "" || req.Message == "" {
		h.writeError(w, http.StatusBadRequest, "title and message are required")
		return
	}
	res, err := h.notifier.BroadcastEmergencyAlert(context.WithoutCancel(r.Context()), req.Title, req.Message, req.Priority, req.DeviceClasses)
	if err != nil {
		h.serverError(w, "Broadcast failed", err)
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

// Health handles GET /healthz.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func (h *Handler) clientError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, types.ErrInvalidContact),
		errors.Is(err, types.ErrInvalidQuietHours),
		errors.Is(err, types.ErrInvalidTimezone):
		h.writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.serverError(w, "Request failed", err)
	}
}

func (h *Handler) serverError(w http.ResponseWriter, msg string, err error) {
	h.logger.Error(msg, zap.Error(err))
	h.writeError(w, http.StatusInternalServerError, "internal error")
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, ErrorResponse{Error: msg})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}
