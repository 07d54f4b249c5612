package projector

import (
	"github.com/flowmart-systems/orderflow-stack/common/models"
	"github.com/flowmart-systems/orderflow-stack/transform/internal/partition"
)

// SummaryRow is the order-summary projection payload. OrderDate is the pure
// calendar date truncated from the order timestamp, while the partition keys
// for the same projection keep hour granularity. The asymmetry is deliberate.
type SummaryRow struct {
	CustomerID string `json:"customer_id"`
	OrderID    string `json:"order_id"`
	OrderDate  string `json:"order_date"`
	Status     string `json:"status"`
}

// OrderSummary projects one event into exactly one summary row, partitioned
// by calendar fields plus customer id.
type OrderSummary struct{}

func (OrderSummary) Name() string { return "order-summary" }

func (OrderSummary) Project(event *models.OrderEvent) ([]Projection, error) {
	keys, err := partition.Derive(event.OrderDate, map[string]string{
		"customer_id": event.CustomerID,
	})
	if err != nil {
		return nil, err
	}

	t, err := partition.Parse(event.OrderDate)
	if err != nil {
		return nil, err
	}

	row := SummaryRow{
		CustomerID: event.CustomerID,
		OrderID:    event.OrderID,
		OrderDate:  t.Format("2006-01-02"),
		Status:     event.Status,
	}

	return []Projection{{Payload: row, Keys: keys}}, nil
}
