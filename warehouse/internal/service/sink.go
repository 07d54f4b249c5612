// Package service wires curated record consumption to the analytics store.
package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/flowmart-systems/orderflow-stack/common/logging"
	"github.com/flowmart-systems/orderflow-stack/common/messaging"
	"github.com/flowmart-systems/orderflow-stack/common/record"
	"github.com/flowmart-systems/orderflow-stack/warehouse/internal/client"
	"github.com/flowmart-systems/orderflow-stack/warehouse/internal/metrics"
)

// BulkIndexer is the subset of the OpenSearch client the sink needs.
type BulkIndexer interface {
	BulkIndex(ctx context.Context, docs []client.Document) ([]error, error)
}

// IndexNamer derives a target index from projection and partition keys.
type IndexNamer interface {
	IndexName(projection string, partitionKeys map[string]string) string
}

// Sink indexes curated outbound records into the analytics store. Each
// fetched batch becomes one bulk flush; documents are bucketed by the
// partition keys the transform attached, and failures are accounted per
// item so one bad record only redelivers itself.
type Sink struct {
	indexer   BulkIndexer
	namer     IndexNamer
	logger    *logging.Logger
	startedAt time.Time
	indexed   atomic.Uint64
	failed    atomic.Uint64
}

func NewSink(indexer BulkIndexer, namer IndexNamer, logger *logging.Logger) *Sink {
	if logger == nil {
		logger = logging.Default()
	}
	return &Sink{
		indexer:   indexer,
		namer:     namer,
		logger:    logger,
		startedAt: time.Now().UTC(),
	}
}

// HandleBatch consumes one fetched batch of curated records. The returned
// slice parallels msgs; a non-nil entry triggers redelivery of that message
// only. The document id is the outbound record id, so a redelivered record
// overwrites its previous copy.
func (s *Sink) HandleBatch(ctx context.Context, msgs []*messaging.Message) []error {
	results := make([]error, len(msgs))

	var docs []client.Document
	var positions []int
	var projections []string

	for i, msg := range msgs {
		var rec record.OutboundRecord
		if err := json.Unmarshal(msg.Data, &rec); err != nil {
			s.failed.Add(1)
			metrics.DocumentsFailedTotal.WithLabelValues("unmarshal").Inc()
			results[i] = fmt.Errorf("unmarshal curated record: %w", err)
			continue
		}

		if rec.Result != record.ResultOk {
			// Failed records carry no payload; nothing to index.
			continue
		}

		body, err := base64.StdEncoding.DecodeString(rec.Data)
		if err != nil {
			s.failed.Add(1)
			metrics.DocumentsFailedTotal.WithLabelValues("decode").Inc()
			results[i] = fmt.Errorf("decode curated payload %s: %w", rec.RecordID, err)
			continue
		}

		var partitionKeys map[string]string
		if rec.Metadata != nil {
			partitionKeys = rec.Metadata.PartitionKeys
		}

		projection := projectionFromSubject(msg.Subject)
		docs = append(docs, client.Document{
			Index: s.namer.IndexName(projection, partitionKeys),
			ID:    rec.RecordID,
			Body:  body,
		})
		positions = append(positions, i)
		projections = append(projections, projection)
	}

	if len(docs) == 0 {
		return results
	}

	started := time.Now()
	itemErrs, err := s.indexer.BulkIndex(ctx, docs)
	metrics.FlushesTotal.Inc()
	metrics.FlushDuration.Observe(time.Since(started).Seconds())

	for j := range docs {
		itemErr := err
		if itemErrs != nil && itemErrs[j] != nil {
			itemErr = itemErrs[j]
		}
		if itemErr != nil {
			s.failed.Add(1)
			metrics.DocumentsFailedTotal.WithLabelValues("index").Inc()
			s.logger.Warn("index failed",
				logging.RecordID(docs[j].ID),
				"index", docs[j].Index,
				logging.Error(itemErr),
			)
			results[positions[j]] = itemErr
			continue
		}
		s.indexed.Add(1)
		metrics.DocumentsIndexedTotal.WithLabelValues(projections[j]).Inc()
	}

	return results
}

// projectionFromSubject maps orders.curated.<name> to <name>.
func projectionFromSubject(subject string) string {
	if idx := strings.LastIndex(subject, "."); idx >= 0 {
		return subject[idx+1:]
	}
	return subject
}

// Stats is a snapshot of sink counters for health reporting.
type Stats struct {
	UptimeSeconds int64  `json:"uptime_seconds"`
	Indexed       uint64 `json:"indexed"`
	Failed        uint64 `json:"failed"`
}

// Health returns live status for health checks.
func (s *Sink) Health() Stats {
	return Stats{
		UptimeSeconds: int64(time.Since(s.startedAt).Seconds()),
		Indexed:       s.indexed.Load(),
		Failed:        s.failed.Load(),
	}
}
