package messaging

// Subject constants for the orderflow message bus.
// Follow the pattern: {domain}.{stage}.{resource}
const (
	// SubjectOrdersRaw carries inbound record batches as received at the
	// gateway, prior to any transformation.
	SubjectOrdersRaw = "orders.raw"

	// Curated subjects carry transformed outbound records, one subject per
	// projection.
	SubjectCuratedSummaries = "orders.curated.summaries"
	SubjectCuratedAddresses = "orders.curated.addresses"
	SubjectCuratedProducts  = "orders.curated.products"

	// SubjectDLQTransform receives records the transform pipeline could not
	// process (append .{reason} for a specific failure kind).
	SubjectDLQTransform = "orders.dlq.transform"
)

// Message header names for outbound record metadata.
const (
	// HeaderRecordID correlates a curated message with its transport record.
	HeaderRecordID = "Orderflow-Record-Id"

	// HeaderPartitionPrefix prefixes one header per partition key dimension,
	// e.g. Orderflow-Partition-Year.
	HeaderPartitionPrefix = "Orderflow-Partition-"
)

// Durable consumer names for the ORDERS stream. The transform and consumer
// services each keep an independent cursor over the same subject.
const (
	ConsumerTransform = "orderflow-transform"
	ConsumerCanonical = "orderflow-canonical"
	ConsumerWarehouse = "orderflow-warehouse"
)

// CuratedSubject returns the curated subject for a projection name.
// Unknown projection names fall back to a projection-suffixed subject.
func CuratedSubject(projection string) string {
	switch projection {
	case "order-summary":
		return SubjectCuratedSummaries
	case "shipping-address":
		return SubjectCuratedAddresses
	case "product-line-item":
		return SubjectCuratedProducts
	default:
		return "orders.curated." + projection
	}
}

// DLQSubject returns the transform DLQ subject for a failure reason.
// Example: orders.dlq.transform.decode
func DLQSubject(reason string) string {
	return SubjectDLQTransform + "." + reason
}
