package messaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCuratedSubject(t *testing.T) {
	tests := []struct {
		projection string
		want       string
	}{
		{"order-summary", SubjectCuratedSummaries},
		{"shipping-address", SubjectCuratedAddresses},
		{"product-line-item", SubjectCuratedProducts},
		{"custom", "orders.curated.custom"},
	}

	for _, tt := range tests {
		t.Run(tt.projection, func(t *testing.T) {
			assert.Equal(t, tt.want, CuratedSubject(tt.projection))
		})
	}
}

func TestDLQSubject(t *testing.T) {
	assert.Equal(t, "orders.dlq.transform.decode", DLQSubject("decode"))
	assert.Equal(t, "orders.dlq.transform.timestamp", DLQSubject("timestamp"))
}
