package partition

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDerive(t *testing.T) {
	tests := []struct {
		name      string
		orderDate string
		extra     map[string]string
		want      Keys
	}{
		{
			name:      "morning hour zero padded",
			orderDate: "2024-03-05T07:00:00",
			want:      Keys{"year": "2024", "month": "03", "day": "05", "hour": "07"},
		},
		{
			name:      "utc designator stripped",
			orderDate: "2024-03-05T07:00:00Z",
			want:      Keys{"year": "2024", "month": "03", "day": "05", "hour": "07"},
		},
		{
			name:      "fractional seconds",
			orderDate: "2023-11-30T23:59:59.123456",
			want:      Keys{"year": "2023", "month": "11", "day": "30", "hour": "23"},
		},
		{
			name:      "minute precision",
			orderDate: "2022-01-09T04:30",
			want:      Keys{"year": "2022", "month": "01", "day": "09", "hour": "04"},
		},
		{
			name:      "date only defaults hour to midnight",
			orderDate: "2024-07-01",
			want:      Keys{"year": "2024", "month": "07", "day": "01", "hour": "00"},
		},
		{
			name:      "extra dimensions merged",
			orderDate: "2024-03-05T07:00:00",
			extra:     map[string]string{"customer_id": "c-42"},
			want:      Keys{"year": "2024", "month": "03", "day": "05", "hour": "07", "customer_id": "c-42"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Derive(tt.orderDate, tt.extra)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDerive_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		orderDate string
	}{
		{"empty", ""},
		{"not a timestamp", "next tuesday"},
		{"offset not accepted", "2024-03-05T07:00:00+02:00"},
		{"month out of range", "2024-13-05T07:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keys, err := Derive(tt.orderDate, nil)
			require.Error(t, err)
			assert.Nil(t, keys)

			var tsErr *TimestampError
			require.True(t, errors.As(err, &tsErr))
			assert.Equal(t, tt.orderDate, tsErr.Value)
		})
	}
}

func TestParse_NoTimezoneConversion(t *testing.T) {
	// The Z designator is a label, not a conversion. Calendar fields must
	// match the literal text with and without it.
	plain, err := Parse("2024-03-05T23:30:00")
	require.NoError(t, err)

	zoned, err := Parse("2024-03-05T23:30:00Z")
	require.NoError(t, err)

	assert.Equal(t, plain.Hour(), zoned.Hour())
	assert.Equal(t, plain.Day(), zoned.Day())
}
