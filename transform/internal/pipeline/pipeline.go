// Package pipeline orchestrates per-record decoding, projection, identity
// allocation and encoding over an inbound batch.
package pipeline

import (
	"errors"

	"github.com/flowmart-systems/orderflow-stack/common/logging"
	"github.com/flowmart-systems/orderflow-stack/common/record"
	"github.com/flowmart-systems/orderflow-stack/transform/internal/partition"
	"github.com/flowmart-systems/orderflow-stack/transform/internal/projector"
	"github.com/flowmart-systems/orderflow-stack/transform/internal/recordid"
)

// Failure reasons, used for DLQ subjects and failure logging.
const (
	ReasonDecode       = "decode"
	ReasonTimestamp    = "timestamp"
	ReasonFieldMissing = "field_missing"
	ReasonEncode       = "encode"
)

// Failure describes one inbound record the pipeline could not process.
type Failure struct {
	Record record.InboundRecord
	Reason string
	Err    error
}

// Pipeline runs one projector over inbound batches. It holds no mutable
// state; a single instance is safe for reuse across batches.
type Pipeline struct {
	projector projector.Projector
	logger    *logging.Logger
}

// New creates a pipeline for the given projector.
func New(p projector.Projector, logger *logging.Logger) *Pipeline {
	if logger == nil {
		logger = logging.Default()
	}
	return &Pipeline{
		projector: p,
		logger:    logger.With(logging.Projection(p.Name())),
	}
}

// Projector returns the projector this pipeline runs.
func (p *Pipeline) Projector() projector.Projector { return p.projector }

// Run drives every record of the batch through decode, projection, identity
// allocation and encoding. A record failure is converted into a single
// ProcessingFailed outbound entry and never aborts the rest of the batch.
// Outbound ordering follows batch order; within a record's expansion it
// follows source item order, and the first expanded item keeps the inbound
// record id verbatim.
func (p *Pipeline) Run(batch []record.InboundRecord) ([]record.OutboundRecord, []Failure) {
	out := make([]record.OutboundRecord, 0, len(batch))
	var failures []Failure

	for _, in := range batch {
		emitted, err := p.processRecord(in)
		if err != nil {
			reason := FailureReason(err)
			p.logger.Warn("record processing failed",
				logging.RecordID(in.RecordID),
				logging.Error(err),
				"reason", reason,
			)
			failures = append(failures, Failure{Record: in, Reason: reason, Err: err})
			out = append(out, record.OutboundRecord{
				RecordID: in.RecordID,
				Result:   record.ResultFailed,
			})
			continue
		}
		out = append(out, emitted...)
	}

	p.logger.Info("processed batch",
		logging.Count(len(batch)),
		"emitted", len(out)-len(failures),
		"failed", len(failures),
	)

	return out, failures
}

// processRecord handles one inbound record end to end. A record with zero
// projections contributes no outbound records and no failure.
func (p *Pipeline) processRecord(in record.InboundRecord) ([]record.OutboundRecord, error) {
	event, err := record.Decode(in.Data)
	if err != nil {
		return nil, err
	}

	projections, err := p.projector.Project(event)
	if err != nil {
		return nil, err
	}

	out := make([]record.OutboundRecord, 0, len(projections))
	for i, proj := range projections {
		data, err := record.Encode(proj.Payload)
		if err != nil {
			return nil, err
		}
		out = append(out, record.OutboundRecord{
			RecordID: recordid.Allocate(in.RecordID, i),
			Result:   record.ResultOk,
			Data:     data,
			Metadata: &record.Metadata{PartitionKeys: proj.Keys},
		})
	}

	return out, nil
}

// FailureReason classifies an error into a stable reason label.
func FailureReason(err error) string {
	var (
		decodeErr    *record.DecodeError
		timestampErr *partition.TimestampError
		fieldErr     *projector.FieldMissingError
		encodeErr    *record.EncodeError
	)
	switch {
	case errors.As(err, &decodeErr):
		return ReasonDecode
	case errors.As(err, &timestampErr):
		return ReasonTimestamp
	case errors.As(err, &fieldErr):
		return ReasonFieldMissing
	case errors.As(err, &encodeErr):
		return ReasonEncode
	default:
		return "unknown"
	}
}
