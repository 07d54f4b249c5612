package record

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/flowmart-systems/orderflow-stack/common/models"
)

// DecodeError marks a payload that could not be turned into a canonical
// order event: bad base64, bad JSON, or a missing required field.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("decode payload: %v", e.Err) }
func (e *DecodeError) Unwrap() error { return e.Err }

// EncodeError marks a projection that could not be serialized. It should not
// occur for well-formed projection values.
type EncodeError struct {
	Err error
}

func (e *EncodeError) Error() string { return fmt.Sprintf("encode projection: %v", e.Err) }
func (e *EncodeError) Unwrap() error { return e.Err }

// Decode turns a base64-encoded JSON payload into a canonical order event.
// Unknown payload fields are ignored; absent required fields fail typed.
func Decode(data string) (*models.OrderEvent, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, &DecodeError{Err: fmt.Errorf("base64: %w", err)}
	}

	var event models.OrderEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		return nil, &DecodeError{Err: fmt.Errorf("json: %w", err)}
	}

	if err := event.Validate(); err != nil {
		return nil, &DecodeError{Err: err}
	}

	return &event, nil
}

// Encode serializes a projection value and base64-encodes it for transport.
func Encode(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", &EncodeError{Err: err}
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}
