package projector

import (
	"github.com/flowmart-systems/orderflow-stack/common/models"
	"github.com/flowmart-systems/orderflow-stack/transform/internal/partition"
)

// ProductRow is the product-line-item projection payload, one per product
// item in the source order.
type ProductRow struct {
	ProductID string `json:"product_id"`
	OrderID   string `json:"order_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Color     string `json:"color"`
	Size      string `json:"size"`
}

// ProductLineItem fans one event out into one row per product item, in
// source order. An order with no product items yields zero projections;
// that is not an error. Partition keys are calendar-only.
type ProductLineItem struct{}

func (ProductLineItem) Name() string { return "product-line-item" }

func (ProductLineItem) Project(event *models.OrderEvent) ([]Projection, error) {
	keys, err := partition.Derive(event.OrderDate, nil)
	if err != nil {
		return nil, err
	}

	projections := make([]Projection, 0, len(event.ProductDetails))
	for _, item := range event.ProductDetails {
		row := ProductRow{
			ProductID: item.ProductID,
			OrderID:   event.OrderID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Color:     item.Details.Color,
			Size:      item.Details.Size,
		}
		projections = append(projections, Projection{Payload: row, Keys: keys})
	}

	return projections, nil
}
