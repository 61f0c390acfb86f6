package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// NewRouter wires the API routes. A nil metrics handler leaves /metrics unmounted.
func NewRouter(h *Handler, metrics http.Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(h.logger))

	r.Get("/healthz", h.Health)
	if metrics != nil {
		r.Handle("/metrics", metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Subscriptions
		r.Post("/incidents/{incidentID}/subscriptions", h.Subscribe)
		r.Get("/incidents/{incidentID}/subscriptions", h.IncidentSubscriptions)
		r.Get("/subscriptions/{subscriptionID}", h.GetSubscription)
		r.Delete("/subscriptions/{subscriptionID}", h.Unsubscribe)
		r.Patch("/subscriptions/{subscriptionID}/preferences", h.UpdatePreferences)

		// Dispatch
		r.Post("/incidents/{incidentID}/updates", h.ProgressUpdate)
		r.Post("/incidents/{incidentID}/resolution", h.Resolution)
		r.Post("/broadcasts", h.Broadcast)

		// Tracker
		r.Get("/stats", h.Stats)
		r.Get("/deliveries", h.Deliveries)
		r.Get("/deliveries/latest", h.LatestDeliveries)
	})

	return r
}

// requestLogger logs one line per request at debug level.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("HTTP request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
