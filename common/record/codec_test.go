package record_test

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowmart-systems/orderflow-stack/common/models"
	"github.com/flowmart-systems/orderflow-stack/common/record"
)

func encodeJSON(t *testing.T, v any) string {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(raw)
}

func TestDecode(t *testing.T) {
	payload := map[string]any{
		"customer_id": "user3542",
		"order_id":    "o00042",
		"order_date":  "2024-03-05T07:00:00Z",
		"status":      "pending",
		"shipping_address": map[string]any{
			"street":  "1 Main St",
			"city":    "Springfield",
			"state":   "IL",
			"zip":     "62704",
			"country": "USA",
		},
		"product_details": []map[string]any{
			{
				"product_id": "p00001",
				"name":       "widget",
				"quantity":   2,
				"item_details": map[string]any{
					"color": "red",
					"size":  "M",
				},
			},
		},
	}

	event, err := record.Decode(encodeJSON(t, payload))
	require.NoError(t, err)

	assert.Equal(t, "user3542", event.CustomerID)
	assert.Equal(t, "o00042", event.OrderID)
	assert.Equal(t, "2024-03-05T07:00:00Z", event.OrderDate)
	assert.Equal(t, "pending", event.Status)
	require.NotNil(t, event.ShippingAddress)
	assert.Equal(t, "USA", event.ShippingAddress.Country)
	require.Len(t, event.ProductDetails, 1)
	assert.Equal(t, "p00001", event.ProductDetails[0].ProductID)
	assert.Equal(t, 2, event.ProductDetails[0].Quantity)
	assert.Equal(t, "red", event.ProductDetails[0].Details.Color)
}

func TestDecode_IgnoresUnknownFields(t *testing.T) {
	payload := map[string]any{
		"order_id":      "o00042",
		"order_date":    "2024-03-05T07:00:00",
		"future_field":  "whatever",
		"another_field": 42,
	}

	event, err := record.Decode(encodeJSON(t, payload))
	require.NoError(t, err)
	assert.Equal(t, "o00042", event.OrderID)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "not base64", data: "!!not-base64!!"},
		{name: "not json", data: base64.StdEncoding.EncodeToString([]byte("not json"))},
		{name: "missing order_id", data: encodeJSON(t, map[string]any{"order_date": "2024-03-05T07:00:00"})},
		{name: "missing order_date", data: encodeJSON(t, map[string]any{"order_id": "o00042"})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := record.Decode(tt.data)
			require.Error(t, err)

			var decodeErr *record.DecodeError
			assert.True(t, errors.As(err, &decodeErr))
		})
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	type projection struct {
		ProductID string `json:"product_id"`
		OrderID   string `json:"order_id"`
		Quantity  int    `json:"quantity"`
	}

	src := projection{ProductID: "p00001", OrderID: "o00042", Quantity: 12345}

	data, err := record.Encode(src)
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(data)
	require.NoError(t, err)

	var got projection
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, src, got)
}

func TestEncode_DecodeCanonicalRoundTrip(t *testing.T) {
	src := models.OrderEvent{
		CustomerID: "user3542",
		OrderID:    "o00042",
		OrderDate:  "2024-03-05T07:00:00",
		Status:     "pending",
		PurchaseDetails: &models.PurchaseDetails{
			PaymentType: "credit_card",
			Amount:      "48.27",
			Currency:    "USD",
			Instalments: 3,
		},
		ProductDetails: []models.ProductItem{
			{
				ProductID: "p00001",
				Name:      "widget",
				Quantity:  2,
				Details:   models.ItemDetails{Color: "red", Size: "M"},
			},
		},
	}

	data, err := record.Encode(&src)
	require.NoError(t, err)

	got, err := record.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, &src, got)
}
