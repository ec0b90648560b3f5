package steam

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

var jsonNull = []byte("null")

// FlexInt decodes a JSON number or an integer-valued JSON string into an int64.
// Steam serializes several numeric fields either way depending on the endpoint.
// Fractions, words, booleans, arrays and objects are rejected with ErrMalformedResponse.
type FlexInt int64

// UnmarshalJSON implements json.Unmarshaler. null leaves the value untouched.
func (f *FlexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, jsonNull) {
		return nil
	}

	raw := b
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		raw = []byte(s)
	}

	n, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %s is not an integer", ErrMalformedResponse, b)
	}
	*f = FlexInt(n)
	return nil
}

// Int returns the value as an int.
func (f FlexInt) Int() int { return int(f) }

// FlexID decodes an identifier sent either as a JSON string or as a JSON
// integer into its decimal string form. Class ids and game ids can exceed
// int64, so the value is kept as text.
type FlexID string

// UnmarshalJSON implements json.Unmarshaler. null leaves the value untouched.
func (f *FlexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, jsonNull) {
		return nil
	}

	raw := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
	}

	if !isDigits(raw) {
		return fmt.Errorf("%w: %s is not a numeric id", ErrMalformedResponse, b)
	}
	*f = FlexID(raw)
	return nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ValidID reports whether s looks like a Steam id or app id: 1 to 20 decimal digits.
func ValidID(s string) bool {
	return len(s) <= 20 && isDigits(s)
}
