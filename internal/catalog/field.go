package catalog

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
)

// Field holds a raw JSON value whose type differs between catalog endpoints
// (a disc designator may be "1/2", "1" or 1; an alias may be a string or a list).
// The zero value means the key was absent.
type Field json.RawMessage

// UnmarshalJSON stores the raw value without interpreting it.
func (f *Field) UnmarshalJSON(data []byte) error {
	*f = append((*f)[:0], data...)
	return nil
}

// MarshalJSON writes the raw value back, or null when absent.
func (f Field) MarshalJSON() ([]byte, error) {
	if len(f) == 0 {
		return []byte("null"), nil
	}
	return f, nil
}

// IsEmpty reports whether the value is absent or carries no information:
// null, false, 0, "", [] or {}.
func (f Field) IsEmpty() bool {
	raw := bytes.TrimSpace(f)
	if len(raw) == 0 {
		return true
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return true
	}
	switch val := v.(type) {
	case nil:
		return true
	case bool:
		return !val
	case float64:
		return val == 0
	case string:
		return val == ""
	case []any:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	}
	return false
}

// String returns the value if it is a JSON string.
func (f Field) String() (string, bool) {
	raw := bytes.TrimSpace(f)
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// Int returns the value if it is a JSON integer literal.
// Floats and numeric strings are not integers.
func (f Field) Int() (int64, bool) {
	n, ok := f.number()
	if !ok {
		return 0, false
	}
	i, err := n.Int64()
	if err != nil {
		return 0, false
	}
	return i, true
}

// Float returns the value if it is any JSON number.
func (f Field) Float() (float64, bool) {
	n, ok := f.number()
	if !ok {
		return 0, false
	}
	v, err := n.Float64()
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

func (f Field) number() (json.Number, bool) {
	raw := bytes.TrimSpace(f)
	if len(raw) == 0 {
		return "", false
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return "", false
	}
	n, ok := v.(json.Number)
	return n, ok
}

// Strings returns the non-empty string entries of the value.
// A single string is treated as a one-element list; other types yield nil.
func (f Field) Strings() []string {
	if s, ok := f.String(); ok {
		if s == "" {
			return nil
		}
		return []string{s}
	}
	raw := bytes.TrimSpace(f)
	if len(raw) == 0 || raw[0] != '[' {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	var out []string
	for _, item := range items {
		if s, ok := Field(item).String(); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ParseDiscDesignator parses a disc field that may be "N/M", "N" or an integer.
// Parts that are not plain decimal digits are ignored, so "abc" yields 0, 0.
// A zero result means absent.
func ParseDiscDesignator(f Field) (number, total int) {
	if s, ok := f.String(); ok {
		parts := strings.Split(s, "/")
		number = parseDigits(parts[0])
		if len(parts) > 1 {
			total = parseDigits(parts[1])
		}
		return number, total
	}
	if n, ok := f.Int(); ok && n > 0 && n <= math.MaxInt32 {
		return int(n), 0
	}
	return 0, 0
}

// parseDigits converts a string made only of ASCII digits, returning 0 otherwise.
func parseDigits(s string) int {
	if s == "" || len(s) > 9 {
		return 0
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}

// positive returns the integer value of f when it is a positive JSON integer.
func positive(f Field) int {
	if n, ok := f.Int(); ok && n > 0 && n <= math.MaxInt32 {
		return int(n)
	}
	return 0
}
