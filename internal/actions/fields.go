package actions

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Fields is the flat field set accompanying an action. Values come either
// from a decoded JSON object or from a query string.
type Fields map[string]any

// FromQuery flattens query parameters, keeping the first value of each.
func FromQuery(values url.Values) Fields {
	f := make(Fields, len(values))
	for k, v := range values {
		if len(v) > 0 {
			f[k] = v[0]
		}
	}
	return f
}

// String returns the field as trimmed text. Numbers and booleans are
// formatted; absent or null fields yield "".
func (f Fields) String(name string) string {
	switch v := f[name].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// OptionalString returns nil when the field is absent or blank.
func (f Fields) OptionalString(name string) *string {
	s := f.String(name)
	if s == "" {
		return nil
	}
	return &s
}

// Float accepts a JSON number or a numeric string. An absent field is 0.
func (f Fields) Float(name string) (float64, error) {
	switch v := f[name].(type) {
	case nil:
		return 0, nil
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, nil
		}
		return strconv.ParseFloat(s, 64)
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}

// Int truncates a numeric field toward zero, saturating at the int range.
// ok is false when the field is absent or cannot be parsed.
func (f Fields) Int(name string) (n int, ok bool) {
	if _, present := f[name]; !present {
		return 0, false
	}
	v, err := f.Float(name)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	switch {
	case v >= math.MaxInt:
		return math.MaxInt, true
	case v <= math.MinInt:
		return math.MinInt, true
	}
	return int(v), true
}
