package projector

import (
	"github.com/flowmart-systems/orderflow-stack/common/models"
	"github.com/flowmart-systems/orderflow-stack/transform/internal/partition"
)

// AddressRow is the shipping-address projection payload.
type AddressRow struct {
	OrderID string `json:"order_id"`
	Country string `json:"country"`
	State   string `json:"state"`
	City    string `json:"city"`
	Street  string `json:"street"`
	Zip     string `json:"zip"`
}

// ShippingAddress projects one event into exactly one address row,
// partitioned by calendar fields plus destination country. Every address
// field is required.
type ShippingAddress struct{}

func (ShippingAddress) Name() string { return "shipping-address" }

func (ShippingAddress) Project(event *models.OrderEvent) ([]Projection, error) {
	addr := event.ShippingAddress
	if addr == nil {
		return nil, &FieldMissingError{Field: "shipping_address"}
	}

	required := []struct {
		field string
		value string
	}{
		{"shipping_address.country", addr.Country},
		{"shipping_address.state", addr.State},
		{"shipping_address.city", addr.City},
		{"shipping_address.street", addr.Street},
		{"shipping_address.zip", addr.Zip},
	}
	for _, r := range required {
		if r.value == "" {
			return nil, &FieldMissingError{Field: r.field}
		}
	}

	keys, err := partition.Derive(event.OrderDate, map[string]string{
		"country": addr.Country,
	})
	if err != nil {
		return nil, err
	}

	row := AddressRow{
		OrderID: event.OrderID,
		Country: addr.Country,
		State:   addr.State,
		City:    addr.City,
		Street:  addr.Street,
		Zip:     addr.Zip,
	}

	return []Projection{{Payload: row, Keys: keys}}, nil
}
