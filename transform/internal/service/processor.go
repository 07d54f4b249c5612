// Package service wires the transform pipelines to the message bus.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/flowmart-systems/orderflow-stack/common/logging"
	"github.com/flowmart-systems/orderflow-stack/common/messaging"
	"github.com/flowmart-systems/orderflow-stack/common/record"
	"github.com/flowmart-systems/orderflow-stack/transform/internal/metrics"
	"github.com/flowmart-systems/orderflow-stack/transform/internal/pipeline"
	"github.com/flowmart-systems/orderflow-stack/transform/internal/projector"
)

// FailedRecord is the DLQ entry written for a record the pipeline could not
// process.
type FailedRecord struct {
	Timestamp  time.Time            `json:"timestamp"`
	Projection string               `json:"projection"`
	Record     record.InboundRecord `json:"record"`
	Reason     string               `json:"reason"`
	Error      string               `json:"error"`
}

// Processor consumes raw batches, runs every projection pipeline over them
// and publishes the outbound records to the curated subjects.
type Processor struct {
	pipelines []*pipeline.Pipeline
	publisher messaging.Publisher
	logger    *logging.Logger
	startedAt time.Time
	batches   atomic.Uint64
	emitted   atomic.Uint64
	failed    atomic.Uint64
}

// NewProcessor creates a processor running the given projectors.
func NewProcessor(publisher messaging.Publisher, projectors []projector.Projector, logger *logging.Logger) *Processor {
	if logger == nil {
		logger = logging.Default()
	}

	pipelines := make([]*pipeline.Pipeline, 0, len(projectors))
	for _, p := range projectors {
		pipelines = append(pipelines, pipeline.New(p, logger))
	}

	return &Processor{
		pipelines: pipelines,
		publisher: publisher,
		logger:    logger,
		startedAt: time.Now().UTC(),
	}
}

// HandleMessage is the message-bus handler for the raw orders subject. The
// payload is a batch envelope; the whole batch is processed to completion on
// this goroutine. Returning an error triggers redelivery.
func (p *Processor) HandleMessage(ctx context.Context, msg *messaging.Message) error {
	started := time.Now()

	var batch record.Batch
	if err := json.Unmarshal(msg.Data, &batch); err != nil {
		return fmt.Errorf("unmarshal batch envelope: %w", err)
	}

	for _, pl := range p.pipelines {
		name := pl.Projector().Name()
		metrics.RecordsInTotal.WithLabelValues(name).Add(float64(len(batch.Records)))

		out, failures := pl.Run(batch.Records)

		for _, rec := range out {
			if rec.Result != record.ResultOk {
				continue
			}
			if err := p.publishCurated(ctx, name, rec); err != nil {
				metrics.PublishErrorsTotal.Inc()
				return fmt.Errorf("publish curated record %s: %w", rec.RecordID, err)
			}
			p.emitted.Add(1)
			metrics.RecordsOutTotal.WithLabelValues(name).Inc()
		}

		for _, f := range failures {
			p.failed.Add(1)
			metrics.RecordsFailedTotal.WithLabelValues(name, f.Reason).Inc()
			if err := p.publishDLQ(ctx, name, f); err != nil {
				// DLQ publish failure must not block the batch; the record
				// is already reported as failed.
				p.logger.Error("dlq publish failed",
					logging.RecordID(f.Record.RecordID),
					logging.Error(err),
				)
			}
		}
	}

	p.batches.Add(1)
	metrics.BatchesTotal.Inc()
	metrics.BatchDuration.Observe(time.Since(started).Seconds())

	return nil
}

// publishCurated sends one successful outbound record to its projection's
// curated subject, partition keys carried as message headers.
func (p *Processor) publishCurated(ctx context.Context, projection string, rec record.OutboundRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal outbound record: %w", err)
	}

	meta := map[string]string{
		messaging.HeaderRecordID: rec.RecordID,
	}
	if rec.Metadata != nil {
		for k, v := range rec.Metadata.PartitionKeys {
			meta[messaging.HeaderPartitionPrefix+k] = v
		}
	}

	return p.publisher.PublishMsg(ctx, &messaging.Message{
		Subject:  messaging.CuratedSubject(projection),
		Data:     data,
		Metadata: meta,
	})
}

// publishDLQ records a failed inbound record on the transform DLQ subject.
func (p *Processor) publishDLQ(ctx context.Context, projection string, f pipeline.Failure) error {
	entry := FailedRecord{
		Timestamp:  time.Now().UTC(),
		Projection: projection,
		Record:     f.Record,
		Reason:     f.Reason,
		Error:      f.Err.Error(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal dlq entry: %w", err)
	}

	return p.publisher.Publish(ctx, messaging.DLQSubject(f.Reason), data)
}

// Stats is a snapshot of processor counters for health reporting.
type Stats struct {
	UptimeSeconds int64  `json:"uptime_seconds"`
	Batches       uint64 `json:"batches"`
	Emitted       uint64 `json:"emitted"`
	Failed        uint64 `json:"failed"`
}

// Health returns live status for health checks.
func (p *Processor) Health() Stats {
	return Stats{
		UptimeSeconds: int64(time.Since(p.startedAt).Seconds()),
		Batches:       p.batches.Load(),
		Emitted:       p.emitted.Load(),
		Failed:        p.failed.Load(),
	}
}
