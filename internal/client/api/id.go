// internal/client/api/id.go
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// maxExactInt is the largest integer a float64 holds without rounding
const maxExactInt = 1 << 53

// ID is an opaque backend identifier. Backends disagree on whether ids are
// JSON strings or JSON integers, so both decode into the same value.
type ID string

// String returns the identifier text
func (id ID) String() string {
	return string(id)
}

// IsZero reports whether the identifier is empty
func (id ID) IsZero() bool {
	return id == ""
}

// MarshalJSON always encodes the id as a JSON string
func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(id))
}

// UnmarshalJSON accepts a JSON string, a JSON number or null
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or a number: %w", err)
	}
	*id = ID(canonicalNumber(n))
	return nil
}

// canonicalNumber spells integral numbers without a fraction or exponent, so
// 1, 1.0 and 1e0 name the same id. Other numbers keep their JSON text.
func canonicalNumber(n json.Number) string {
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10)
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > maxExactInt {
		return n.String()
	}
	return strconv.FormatInt(int64(f), 10)
}
