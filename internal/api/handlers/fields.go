package handlers

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/5w1tchy/catalog-api/internal/validate"
)

var jsonNull = []byte("null")

// String decodes fields[name] as a JSON string. It returns nil when the key
// is absent or fails to decode; failures are recorded in errs.
func String(fields map[string]json.RawMessage, name string, errs *validate.Errors) *string {
	raw, ok := fields[name]
	if !ok {
		return nil
	}
	if bytes.Equal(raw, jsonNull) {
		errs.Add(name, "null", "This field may not be null.")
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		errs.Add(name, "invalid", "Not a valid string.")
		return nil
	}
	return &s
}

// Int decodes fields[name] as an integer. Integral JSON numbers and numeric
// strings are accepted.
func Int(fields map[string]json.RawMessage, name string, errs *validate.Errors) *int64 {
	raw, ok := fields[name]
	if !ok {
		return nil
	}
	if bytes.Equal(raw, jsonNull) {
		errs.Add(name, "null", "This field may not be null.")
		return nil
	}
	n, ok := parseInt(raw)
	if !ok {
		errs.Add(name, "invalid", "A valid integer is required.")
		return nil
	}
	return &n
}

func parseInt(raw json.RawMessage) (int64, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		return n, err == nil
	}
	var num json.Number
	if err := json.Unmarshal(raw, &num); err != nil {
		return 0, false
	}
	if n, err := num.Int64(); err == nil {
		return n, true
	}
	f, err := num.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int64(f), true
}
