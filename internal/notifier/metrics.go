package notifier

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	deliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rindwa_notifier_deliveries_total",
			Help: "Total channel send attempts by channel and status.",
		},
		[]string{"channel", "status"},
	)
	sendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rindwa_notifier_send_duration_seconds",
			Help:    "Duration of channel sends, including rate limit waits.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"channel"},
	)
	skippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rindwa_notifier_skipped_subscribers_total",
			Help: "Subscribers left out of a dispatch round by reason.",
		},
		[]string{"reason"},
	)
	recordErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rindwa_notifier_record_errors_total",
			Help: "Delivery records that could not be written to the ledger.",
		},
	)
)
