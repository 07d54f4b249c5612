// Package service wires the canonical writer to the message bus.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/flowmart-systems/orderflow-stack/common/logging"
	"github.com/flowmart-systems/orderflow-stack/common/messaging"
	"github.com/flowmart-systems/orderflow-stack/common/models"
	"github.com/flowmart-systems/orderflow-stack/common/record"
	"github.com/flowmart-systems/orderflow-stack/consumer/internal/metrics"
)

// OrderStore is the subset of the canonical store the writer needs.
type OrderStore interface {
	UpsertOrder(ctx context.Context, event *models.OrderEvent) error
}

// Writer decodes inbound records and upserts the canonical event, one row
// per record. No batching, no dedup; redelivery rewrites identical content.
type Writer struct {
	store     OrderStore
	logger    *logging.Logger
	startedAt time.Time
	batches   atomic.Uint64
	written   atomic.Uint64
	failed    atomic.Uint64
}

// NewWriter creates a canonical writer backed by store.
func NewWriter(store OrderStore, logger *logging.Logger) *Writer {
	if logger == nil {
		logger = logging.Default()
	}
	return &Writer{
		store:     store,
		logger:    logger,
		startedAt: time.Now().UTC(),
	}
}

// HandleMessage is the message-bus handler for the raw orders subject.
// A decode or write failure surfaces as a handler error so the transport
// redelivers the message; at-least-once is the recovery mechanism.
func (w *Writer) HandleMessage(ctx context.Context, msg *messaging.Message) error {
	var batch record.Batch
	if err := json.Unmarshal(msg.Data, &batch); err != nil {
		return fmt.Errorf("unmarshal batch envelope: %w", err)
	}

	for _, in := range batch.Records {
		event, err := record.Decode(in.Data)
		if err != nil {
			w.failed.Add(1)
			metrics.RecordsFailedTotal.WithLabelValues("decode").Inc()
			w.logger.Warn("canonical decode failed",
				logging.RecordID(in.RecordID),
				logging.Error(err),
			)
			return err
		}

		started := time.Now()
		if err := w.store.UpsertOrder(ctx, event); err != nil {
			w.failed.Add(1)
			metrics.RecordsFailedTotal.WithLabelValues("store").Inc()
			w.logger.Warn("canonical upsert failed",
				logging.RecordID(in.RecordID),
				logging.OrderID(event.OrderID),
				logging.Error(err),
			)
			return err
		}
		metrics.UpsertDuration.Observe(time.Since(started).Seconds())

		w.written.Add(1)
		metrics.RecordsWrittenTotal.Inc()
	}

	w.batches.Add(1)
	metrics.BatchesTotal.Inc()
	w.logger.Info("wrote canonical records", logging.Count(len(batch.Records)))
	return nil
}

// Stats is a snapshot of writer counters for health reporting.
type Stats struct {
	UptimeSeconds int64  `json:"uptime_seconds"`
	Batches       uint64 `json:"batches"`
	Written       uint64 `json:"written"`
	Failed        uint64 `json:"failed"`
}

// Health returns live status for health checks.
func (w *Writer) Health() Stats {
	return Stats{
		UptimeSeconds: int64(time.Since(w.startedAt).Seconds()),
		Batches:       w.batches.Load(),
		Written:       w.written.Load(),
		Failed:        w.failed.Load(),
	}
}
