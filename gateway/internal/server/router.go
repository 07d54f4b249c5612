package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/flowmart-systems/orderflow-stack/gateway/internal/handlers"
)

// NewRouter constructs a ServeMux with gateway API routes registered.
func NewRouter(h *handlers.OrdersHandler) http.Handler {
	mux := http.NewServeMux()

	// Order intake
	mux.HandleFunc("/api/v1/orders", h.HandleSubmit)

	// Health endpoint
	mux.HandleFunc("/healthz", h.Health)

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())

	return mux
}
