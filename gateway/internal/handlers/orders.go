// Package handlers implements the gateway HTTP intake.
package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/flowmart-systems/orderflow-stack/common/logging"
	"github.com/flowmart-systems/orderflow-stack/common/messaging"
	"github.com/flowmart-systems/orderflow-stack/common/record"
	"github.com/flowmart-systems/orderflow-stack/gateway/internal/metrics"
	"github.com/flowmart-systems/orderflow-stack/gateway/internal/ratelimit"
)

// StreamPublisher is the durable publish capability the handler needs.
type StreamPublisher interface {
	PublishSync(ctx context.Context, subject string, data []byte) (*jetstream.PubAck, error)
}

// OrderSubmission is the intake request body. Data carries the
// base64-encoded order payload; Stream and PartitionKey are accepted for
// producer compatibility but not interpreted here.
type OrderSubmission struct {
	Stream       string `json:"stream,omitempty"`
	PartitionKey string `json:"partition_key,omitempty"`
	Data         string `json:"data"`
}

// OrderResponse acknowledges a queued submission.
type OrderResponse struct {
	RecordID string `json:"record_id"`
	Status   string `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// OrdersHandler accepts order submissions and publishes them as inbound
// records on the raw orders stream.
type OrdersHandler struct {
	publisher StreamPublisher
	limiter   ratelimit.RateLimiter
	token     string
	logger    *logging.Logger
}

func NewOrdersHandler(publisher StreamPublisher, limiter ratelimit.RateLimiter, token string, logger *logging.Logger) *OrdersHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &OrdersHandler{
		publisher: publisher,
		limiter:   limiter,
		token:     token,
		logger:    logger,
	}
}

// HandleSubmit handles POST /api/v1/orders.
func (h *OrdersHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.sendError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if !h.authorized(r) {
		metrics.OrdersTotal.WithLabelValues("unauthorized").Inc()
		h.sendError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	clientIP := getClientIP(r)
	allowed, err := h.limiter.Allow(r.Context(), clientIP)
	if err != nil {
		h.logger.Warn("rate limit check failed", logging.Error(err))
		// Fail open: a limiter outage must not block intake.
		allowed = true
	}
	if !allowed {
		metrics.OrdersTotal.WithLabelValues("rate_limited").Inc()
		h.sendError(w, "rate limit exceeded", http.StatusTooManyRequests)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.sendError(w, "failed to read body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	var sub OrderSubmission
	if err := json.Unmarshal(body, &sub); err != nil {
		metrics.OrdersTotal.WithLabelValues("invalid").Inc()
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if sub.Data == "" {
		metrics.OrdersTotal.WithLabelValues("invalid").Inc()
		h.sendError(w, "data is required", http.StatusBadRequest)
		return
	}
	if _, err := base64.StdEncoding.DecodeString(sub.Data); err != nil {
		metrics.OrdersTotal.WithLabelValues("invalid").Inc()
		h.sendError(w, "data is not valid base64", http.StatusBadRequest)
		return
	}

	recordID := uuid.New().String()
	batch := record.Batch{
		Records: []record.InboundRecord{{
			RecordID: recordID,
			Data:     sub.Data,
		}},
	}

	payload, err := json.Marshal(batch)
	if err != nil {
		h.sendError(w, "internal error", http.StatusInternalServerError)
		return
	}

	started := time.Now()
	if _, err := h.publisher.PublishSync(r.Context(), messaging.SubjectOrdersRaw, payload); err != nil {
		metrics.OrdersTotal.WithLabelValues("publish_failed").Inc()
		h.logger.Error("stream publish failed",
			logging.RecordID(recordID),
			logging.Error(err),
		)
		h.sendError(w, "failed to queue order", http.StatusServiceUnavailable)
		return
	}
	metrics.PublishDuration.Observe(time.Since(started).Seconds())

	metrics.OrdersTotal.WithLabelValues("queued").Inc()
	metrics.OrderBytesTotal.Add(float64(len(sub.Data)))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(OrderResponse{
		RecordID: recordID,
		Status:   "queued",
	})
}

// Health handles GET /healthz.
func (h *OrdersHandler) Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (h *OrdersHandler) authorized(r *http.Request) bool {
	if h.token == "" {
		return true
	}
	auth := r.Header.Get("Authorization")
	return strings.TrimPrefix(auth, "Bearer ") == h.token
}

func (h *OrdersHandler) sendError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(errorResponse{Error: msg})
}

// getClientIP extracts the client address, honoring X-Forwarded-For.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx > 0 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	host := r.RemoteAddr
	if idx := strings.LastIndex(host, ":"); idx > 0 {
		return host[:idx]
	}
	return host
}
