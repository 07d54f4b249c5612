package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Indexing metrics
	DocumentsIndexedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orderflow_warehouse_documents_indexed_total",
			Help: "Total number of documents indexed, per projection",
		},
		[]string{"projection"},
	)

	DocumentsFailedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orderflow_warehouse_documents_failed_total",
			Help: "Total number of documents that failed to index, per reason",
		},
		[]string{"reason"},
	)

	// Bulk flush metrics
	FlushesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orderflow_warehouse_bulk_flushes_total",
			Help: "Total number of bulk index flushes",
		},
	)

	FlushDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "orderflow_warehouse_bulk_flush_duration_seconds",
			Help:    "Duration of bulk index flushes in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)
