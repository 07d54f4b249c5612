package projector

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowmart-systems/orderflow-stack/common/models"
	"github.com/flowmart-systems/orderflow-stack/transform/internal/partition"
)

func fullAddress() *models.ShippingAddress {
	return &models.ShippingAddress{
		Country: "DE",
		State:   "BE",
		City:    "Berlin",
		Street:  "Unter den Linden 1",
		Zip:     "10117",
	}
}

func TestShippingAddress_Project(t *testing.T) {
	event := &models.OrderEvent{
		CustomerID:      "cust-9",
		OrderID:         "ord-1",
		OrderDate:       "2024-03-05T07:00:00",
		ShippingAddress: fullAddress(),
	}

	projections, err := ShippingAddress{}.Project(event)
	require.NoError(t, err)
	require.Len(t, projections, 1)

	row, ok := projections[0].Payload.(AddressRow)
	require.True(t, ok)
	assert.Equal(t, "ord-1", row.OrderID)
	assert.Equal(t, "DE", row.Country)
	assert.Equal(t, "Berlin", row.City)
	assert.Equal(t, "10117", row.Zip)

	assert.Equal(t, partition.Keys{
		"year":    "2024",
		"month":   "03",
		"day":     "05",
		"hour":    "07",
		"country": "DE",
	}, projections[0].Keys)
}

func TestShippingAddress_MissingFields(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*models.ShippingAddress)
		wantField string
	}{
		{"no country", func(a *models.ShippingAddress) { a.Country = "" }, "shipping_address.country"},
		{"no state", func(a *models.ShippingAddress) { a.State = "" }, "shipping_address.state"},
		{"no city", func(a *models.ShippingAddress) { a.City = "" }, "shipping_address.city"},
		{"no street", func(a *models.ShippingAddress) { a.Street = "" }, "shipping_address.street"},
		{"no zip", func(a *models.ShippingAddress) { a.Zip = "" }, "shipping_address.zip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr := fullAddress()
			tt.mutate(addr)
			event := &models.OrderEvent{
				OrderID:         "ord-1",
				OrderDate:       "2024-03-05T07:00:00",
				ShippingAddress: addr,
			}

			projections, err := ShippingAddress{}.Project(event)
			require.Error(t, err)
			assert.Nil(t, projections)

			var missing *FieldMissingError
			require.True(t, errors.As(err, &missing))
			assert.Equal(t, tt.wantField, missing.Field)
		})
	}
}

func TestShippingAddress_NoAddress(t *testing.T) {
	event := &models.OrderEvent{
		OrderID:   "ord-1",
		OrderDate: "2024-03-05T07:00:00",
	}

	_, err := ShippingAddress{}.Project(event)
	var missing *FieldMissingError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "shipping_address", missing.Field)
}
