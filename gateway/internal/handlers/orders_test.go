package handlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowmart-systems/orderflow-stack/common/messaging"
	"github.com/flowmart-systems/orderflow-stack/common/record"
	"github.com/flowmart-systems/orderflow-stack/gateway/internal/ratelimit"
)

type fakePublisher struct {
	subjects []string
	payloads [][]byte
	failWith error
}

func (f *fakePublisher) PublishSync(_ context.Context, subject string, data []byte) (*jetstream.PubAck, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.subjects = append(f.subjects, subject)
	f.payloads = append(f.payloads, data)
	return &jetstream.PubAck{Stream: "ORDERS", Sequence: uint64(len(f.payloads))}, nil
}

type denyAllLimiter struct{}

func (denyAllLimiter) Allow(context.Context, string) (bool, error) { return false, nil }
func (denyAllLimiter) Close() error                                { return nil }

type brokenLimiter struct{}

func (brokenLimiter) Allow(context.Context, string) (bool, error) {
	return false, errors.New("redis unreachable")
}
func (brokenLimiter) Close() error { return nil }

func submitRequest(t *testing.T, body any) *http.Request {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	return httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewReader(raw))
}

func validSubmission() OrderSubmission {
	return OrderSubmission{
		Data: base64.StdEncoding.EncodeToString([]byte(`{"order_id":"ord-1","order_date":"2024-03-05T07:00:00"}`)),
	}
}

func TestHandleSubmit_QueuesOrder(t *testing.T) {
	pub := &fakePublisher{}
	h := NewOrdersHandler(pub, &ratelimit.NoOpRateLimiter{}, "", nil)

	rec := httptest.NewRecorder()
	h.HandleSubmit(rec, submitRequest(t, validSubmission()))

	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp OrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "queued", resp.Status)
	assert.NotEmpty(t, resp.RecordID)

	require.Len(t, pub.subjects, 1)
	assert.Equal(t, messaging.SubjectOrdersRaw, pub.subjects[0])

	var batch record.Batch
	require.NoError(t, json.Unmarshal(pub.payloads[0], &batch))
	require.Len(t, batch.Records, 1)
	assert.Equal(t, resp.RecordID, batch.Records[0].RecordID)
	assert.Equal(t, validSubmission().Data, batch.Records[0].Data)
}

func TestHandleSubmit_Validation(t *testing.T) {
	tests := []struct {
		name     string
		body     any
		wantCode int
	}{
		{"missing data", OrderSubmission{}, http.StatusBadRequest},
		{"bad base64", OrderSubmission{Data: "%%%"}, http.StatusBadRequest},
		{"not json", "plain text", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &fakePublisher{}
			h := NewOrdersHandler(pub, &ratelimit.NoOpRateLimiter{}, "", nil)

			rec := httptest.NewRecorder()
			var req *http.Request
			if s, ok := tt.body.(string); ok {
				req = httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewReader([]byte(s)))
			} else {
				req = submitRequest(t, tt.body)
			}
			h.HandleSubmit(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Empty(t, pub.subjects)
		})
	}
}

func TestHandleSubmit_Auth(t *testing.T) {
	pub := &fakePublisher{}
	h := NewOrdersHandler(pub, &ratelimit.NoOpRateLimiter{}, "secret-token", nil)

	rec := httptest.NewRecorder()
	h.HandleSubmit(rec, submitRequest(t, validSubmission()))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	req := submitRequest(t, validSubmission())
	req.Header.Set("Authorization", "Bearer secret-token")
	h.HandleSubmit(rec, req)
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestHandleSubmit_MethodNotAllowed(t *testing.T) {
	h := NewOrdersHandler(&fakePublisher{}, &ratelimit.NoOpRateLimiter{}, "", nil)

	rec := httptest.NewRecorder()
	h.HandleSubmit(rec, httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleSubmit_RateLimited(t *testing.T) {
	h := NewOrdersHandler(&fakePublisher{}, denyAllLimiter{}, "", nil)

	rec := httptest.NewRecorder()
	h.HandleSubmit(rec, submitRequest(t, validSubmission()))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestHandleSubmit_LimiterFailureFailsOpen(t *testing.T) {
	pub := &fakePublisher{}
	h := NewOrdersHandler(pub, brokenLimiter{}, "", nil)

	rec := httptest.NewRecorder()
	h.HandleSubmit(rec, submitRequest(t, validSubmission()))
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestHandleSubmit_PublishFailure(t *testing.T) {
	pub := &fakePublisher{failWith: errors.New("no stream")}
	h := NewOrdersHandler(pub, &ratelimit.NoOpRateLimiter{}, "", nil)

	rec := httptest.NewRecorder()
	h.HandleSubmit(rec, submitRequest(t, validSubmission()))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		want       string
	}{
		{"remote addr", "10.0.0.7:53211", "", "10.0.0.7"},
		{"single forwarded", "10.0.0.7:53211", "203.0.113.9", "203.0.113.9"},
		{"forwarded chain", "10.0.0.7:53211", "203.0.113.9, 10.0.0.1", "203.0.113.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			assert.Equal(t, tt.want, getClientIP(req))
		})
	}
}
