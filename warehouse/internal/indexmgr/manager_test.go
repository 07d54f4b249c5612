package indexmgr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndexName(t *testing.T) {
	m := NewIndexManager(nil, Config{IndexPrefix: "orderflow"})

	tests := []struct {
		name       string
		projection string
		keys       map[string]string
		want       string
	}{
		{
			name:       "full calendar keys",
			projection: "summaries",
			keys:       map[string]string{"year": "2024", "month": "03", "day": "05", "hour": "07"},
			want:       "orderflow-summaries-2024.03.05",
		},
		{
			name:       "extra dimensions ignored",
			projection: "addresses",
			keys:       map[string]string{"year": "2024", "month": "03", "day": "05", "country": "NL"},
			want:       "orderflow-addresses-2024.03.05",
		},
		{
			name:       "missing day",
			projection: "products",
			keys:       map[string]string{"year": "2024", "month": "03"},
			want:       "orderflow-products-unpartitioned",
		},
		{
			name:       "nil keys",
			projection: "products",
			keys:       nil,
			want:       "orderflow-products-unpartitioned",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.IndexName(tt.projection, tt.keys))
		})
	}
}
