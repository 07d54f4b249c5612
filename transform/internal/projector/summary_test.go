package projector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowmart-systems/orderflow-stack/common/models"
	"github.com/flowmart-systems/orderflow-stack/transform/internal/partition"
)

func TestOrderSummary_Project(t *testing.T) {
	event := &models.OrderEvent{
		CustomerID: "cust-9",
		OrderID:    "ord-1",
		OrderDate:  "2024-03-05T07:15:00",
		Status:     "shipped",
	}

	projections, err := OrderSummary{}.Project(event)
	require.NoError(t, err)
	require.Len(t, projections, 1)

	row, ok := projections[0].Payload.(SummaryRow)
	require.True(t, ok)
	assert.Equal(t, "cust-9", row.CustomerID)
	assert.Equal(t, "ord-1", row.OrderID)
	assert.Equal(t, "2024-03-05", row.OrderDate)
	assert.Equal(t, "shipped", row.Status)

	assert.Equal(t, partition.Keys{
		"year":        "2024",
		"month":       "03",
		"day":         "05",
		"hour":        "07",
		"customer_id": "cust-9",
	}, projections[0].Keys)
}

// The payload carries the date truncated to day granularity while the
// partition keys keep the hour.
func TestOrderSummary_DateTruncatedKeysKeepHour(t *testing.T) {
	event := &models.OrderEvent{
		CustomerID: "cust-9",
		OrderID:    "ord-1",
		OrderDate:  "2024-03-05T23:59:59",
		Status:     "placed",
	}

	projections, err := OrderSummary{}.Project(event)
	require.NoError(t, err)
	require.Len(t, projections, 1)

	row := projections[0].Payload.(SummaryRow)
	assert.Equal(t, "2024-03-05", row.OrderDate)
	assert.Equal(t, "23", projections[0].Keys["hour"])
}

func TestOrderSummary_BadTimestamp(t *testing.T) {
	event := &models.OrderEvent{
		CustomerID: "cust-9",
		OrderID:    "ord-1",
		OrderDate:  "not-a-date",
	}

	projections, err := OrderSummary{}.Project(event)
	require.Error(t, err)
	assert.Nil(t, projections)
	assert.IsType(t, &partition.TimestampError{}, err)
}
