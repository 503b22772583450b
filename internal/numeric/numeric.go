// Package numeric parses the loosely typed integer identifiers the web client
// sends: roll numbers, staff ids and numeric passwords arrive either as JSON
// numbers or as strings.
package numeric

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ParseInt reads an optionally signed run of leading decimal digits, ignoring
// surrounding whitespace and any trailing characters. It fails when no digit
// is found.
func ParseInt(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0, false
	}
	v, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// FromAny converts a decoded JSON or BSON scalar into an integer.
func FromAny(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		if v, err := n.Int64(); err == nil {
			return v, true
		}
		if f, err := n.Float64(); err == nil {
			return FromAny(f)
		}
		return ParseInt(n.String())
	case string:
		return ParseInt(n)
	}
	return 0, false
}

// Int is a request field that accepts a JSON number or a numeric string.
// Decoding never fails; check Valid instead.
type Int struct {
	Value   int64
	Present bool
	Valid   bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Int) UnmarshalJSON(b []byte) error {
	*n = Int{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	n.Present = true

	var raw any
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil
	}
	n.Value, n.Valid = FromAny(raw)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n Int) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(n.Value, 10)), nil
}
