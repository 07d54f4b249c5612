package logging

import "log/slog"

// Common field names for consistent logging across services.
const (
	FieldService    = "service"
	FieldRecordID   = "record_id"
	FieldOrderID    = "order_id"
	FieldCustomerID = "customer_id"
	FieldProjection = "projection"
	FieldSubject    = "subject"
	FieldCount      = "count"
	FieldError      = "error"
	FieldDuration   = "duration_ms"
)

// Service returns a slog attribute for the service name.
func Service(name string) slog.Attr {
	return slog.String(FieldService, name)
}

// RecordID returns a slog attribute for a transport record ID.
func RecordID(id string) slog.Attr {
	return slog.String(FieldRecordID, id)
}

// OrderID returns a slog attribute for an order ID.
func OrderID(id string) slog.Attr {
	return slog.String(FieldOrderID, id)
}

// CustomerID returns a slog attribute for a customer ID.
func CustomerID(id string) slog.Attr {
	return slog.String(FieldCustomerID, id)
}

// Projection returns a slog attribute for a projection name.
func Projection(name string) slog.Attr {
	return slog.String(FieldProjection, name)
}

// Subject returns a slog attribute for a message bus subject.
func Subject(subject string) slog.Attr {
	return slog.String(FieldSubject, subject)
}

// Count returns a slog attribute for a record count.
func Count(n int) slog.Attr {
	return slog.Int(FieldCount, n)
}

// Error returns a slog attribute for an error.
func Error(err error) slog.Attr {
	return slog.String(FieldError, err.Error())
}

// Duration returns a slog attribute for duration in milliseconds.
func Duration(ms int64) slog.Attr {
	return slog.Int64(FieldDuration, ms)
}
