// Package partition derives partition key sets from order timestamps.
package partition

import (
	"fmt"
	"strings"
	"time"
)

// Keys maps partition dimension names to string values. Calendar dimensions
// are always present and zero-padded to fixed width.
type Keys map[string]string

// Calendar dimension names.
const (
	DimYear  = "year"
	DimMonth = "month"
	DimDay   = "day"
	DimHour  = "hour"
)

// TimestampError marks an order timestamp that is absent or not ISO-8601.
// It is a per-record failure, not a batch failure.
type TimestampError struct {
	Value string
	Err   error
}

func (e *TimestampError) Error() string {
	return fmt.Sprintf("parse order timestamp %q: %v", e.Value, e.Err)
}

func (e *TimestampError) Unwrap() error { return e.Err }

// Accepted ISO-8601 layouts, most specific first. Offsets are not accepted;
// a trailing Z is stripped before parsing and no timezone conversion happens.
var layouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Parse parses an order timestamp. A trailing "Z" designator is treated as
// UTC and stripped; calendar fields come straight from the parsed value.
func Parse(orderDate string) (time.Time, error) {
	if orderDate == "" {
		return time.Time{}, &TimestampError{Value: orderDate, Err: fmt.Errorf("empty timestamp")}
	}

	s := strings.TrimSuffix(orderDate, "Z")

	var lastErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}

	return time.Time{}, &TimestampError{Value: orderDate, Err: lastErr}
}

// Derive extracts the calendar partition keys from an order timestamp and
// merges in any extra dimensions. Pure function; returns *TimestampError if
// the timestamp does not parse.
func Derive(orderDate string, extra map[string]string) (Keys, error) {
	t, err := Parse(orderDate)
	if err != nil {
		return nil, err
	}

	keys := Keys{
		DimYear:  t.Format("2006"),
		DimMonth: t.Format("01"),
		DimDay:   t.Format("02"),
		DimHour:  t.Format("15"),
	}
	for k, v := range extra {
		keys[k] = v
	}

	return keys, nil
}
