package service

import (
	"bytes"
	"encoding/json"

	"github.com/mmynk/splitshare/internal/calculator"
)

// flexNumber accepts a JSON number or a JSON string holding user-typed
// numeric text ("12.5", "", "abc"). Coercion happens in Float, never at
// decode time, so malformed text reaches the calculator as 0 instead of
// failing the request.
type flexNumber struct {
	raw string
	set bool
}

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = flexNumber{}
		return nil
	}
	n.set = true
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &n.raw)
	}
	n.raw = string(data)
	return nil
}

// Set reports whether the field was present and not null.
func (n flexNumber) Set() bool { return n.set }

// Raw returns the text as received.
func (n flexNumber) Raw() string { return n.raw }

// Float returns the coerced numeric value.
func (n flexNumber) Float() float64 { return calculator.ParseNumber(n.raw) }
