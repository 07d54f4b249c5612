package recordid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllocate(t *testing.T) {
	tests := []struct {
		name       string
		originalID string
		index      int
		want       string
	}{
		{"first output keeps original id", "rec-1", 0, "rec-1"},
		{"second output gets suffix", "rec-1", 1, "rec-1_1"},
		{"suffix counts from one", "rec-1", 7, "rec-1_7"},
		{"suffix appended verbatim", "rec_1", 2, "rec_1_2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Allocate(tt.originalID, tt.index))
		})
	}
}
