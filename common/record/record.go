// Package record defines the transport-level batch record envelope and the
// codec between encoded payloads and the canonical order event.
package record

// Result reports per-record processing outcome to the transport.
type Result string

const (
	ResultOk     Result = "Ok"
	ResultFailed Result = "ProcessingFailed"
)

// InboundRecord is one record as delivered by the streaming transport.
// Data holds the base64-encoded JSON payload.
type InboundRecord struct {
	RecordID string `json:"recordId"`
	Data     string `json:"data"`
}

// OutboundRecord is one processed record handed back to the transport.
// Failed records carry no data and no metadata.
type OutboundRecord struct {
	RecordID string    `json:"recordId"`
	Result   Result    `json:"result"`
	Data     string    `json:"data,omitempty"`
	Metadata *Metadata `json:"metadata,omitempty"`
}

// Metadata carries the partition key set a downstream store buckets by.
type Metadata struct {
	PartitionKeys map[string]string `json:"partitionKeys"`
}

// Batch is the inbound batch envelope published on the raw subject.
type Batch struct {
	Records []InboundRecord `json:"records"`
}

// BatchResult is the outbound batch envelope returned by the pipeline.
type BatchResult struct {
	Records []OutboundRecord `json:"records"`
}
