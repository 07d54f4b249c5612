package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Intake metrics
	OrdersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orderflow_gateway_orders_total",
			Help: "Total number of order submissions received",
		},
		[]string{"status"},
	)

	OrderBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orderflow_gateway_order_bytes_total",
			Help: "Total bytes of order payload data received",
		},
	)

	PublishDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "orderflow_gateway_publish_duration_seconds",
			Help:    "Duration of stream publishes in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Rate limit metrics
	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orderflow_gateway_rate_limit_hits_total",
			Help: "Total number of requests rejected by rate limiting",
		},
		[]string{"key"},
	)
)
