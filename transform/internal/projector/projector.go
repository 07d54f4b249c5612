// Package projector reshapes canonical order events into the narrow
// per-projection outputs the analytics sinks consume.
package projector

import (
	"fmt"

	"github.com/flowmart-systems/orderflow-stack/common/models"
	"github.com/flowmart-systems/orderflow-stack/transform/internal/partition"
)

// Projection bundles one reshaped output value with the partition key set a
// downstream store buckets it by.
type Projection struct {
	Payload any
	Keys    partition.Keys
}

// Projector maps one canonical order event to zero or more projections.
// Implementations are pure: no side effects, no retained state.
type Projector interface {
	// Name identifies the projection for subjects, metrics and logs.
	Name() string

	// Project returns the projections derived from event, in emission
	// order. An error is scoped to this single event.
	Project(event *models.OrderEvent) ([]Projection, error)
}

// FieldMissingError marks a projection-specific required field absent from
// the canonical event.
type FieldMissingError struct {
	Field string
}

func (e *FieldMissingError) Error() string {
	return fmt.Sprintf("required field missing: %s", e.Field)
}

// All returns the full projector set in a stable order.
func All() []Projector {
	return []Projector{
		OrderSummary{},
		ShippingAddress{},
		ProductLineItem{},
	}
}
