package models

import (
	"fmt"
	"strconv"
)

// DecimalString holds a JSON number as its exact source text. Monetary
// amounts must survive transport without float rounding; "19.990" stays
// "19.990".
type DecimalString string

// UnmarshalJSON accepts a bare JSON number, a quoted numeric string, or
// null. The raw digits are kept verbatim.
func (d *DecimalString) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		*d = ""
		return nil
	}

	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return fmt.Errorf("invalid decimal value %q: %w", string(data), err)
	}

	*d = DecimalString(s)
	return nil
}

// MarshalJSON emits the stored text as a bare JSON number, or null when
// empty.
func (d DecimalString) MarshalJSON() ([]byte, error) {
	if d == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseFloat(string(d), 64); err != nil {
		return nil, fmt.Errorf("invalid decimal value %q: %w", string(d), err)
	}
	return []byte(d), nil
}

func (d DecimalString) String() string { return string(d) }
