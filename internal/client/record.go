package client

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Record is an untyped API object. Numeric columns may arrive as JSON
// numbers or as decimal strings; the accessors accept both.
type Record map[string]any

func (r Record) ID() uint {
	return uint(r.Float("id"))
}

// Lookup follows a dotted path through nested objects, e.g. "site.farm.name".
func (r Record) Lookup(path string) (any, bool) {
	var cur any = map[string]any(r)
	for _, key := range strings.Split(path, ".") {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Record:
		return m, true
	}
	return nil, false
}

// String renders the value at path, "" when absent or null.
func (r Record) String(path string) string {
	v, ok := r.Lookup(path)
	if !ok {
		return ""
	}
	return Format(v)
}

// Float reads the value at path as a number; absent, null and unparsable
// values are 0.
func (r Record) Float(path string) float64 {
	v, ok := r.Lookup(path)
	if !ok {
		return 0
	}
	return ToFloat(v)
}

// Uint reads an id-like value at path; nil when absent or zero.
func (r Record) Uint(path string) *uint {
	f := r.Float(path)
	if f <= 0 {
		return nil
	}
	id := uint(f)
	return &id
}

// ToFloat reads a decoded JSON number, numeric string or bool. Anything
// else, NaN and the infinities included, is 0.
func ToFloat(v any) float64 {
	f := toFloat(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func toFloat(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case uint:
		return float64(x)
	case json.Number:
		f, _ := x.Float64()
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0
		}
		return f
	case bool:
		if x {
			return 1
		}
	}
	return 0
}

// Format renders a decoded JSON value for display.
func Format(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		if x {
			return "yes"
		}
		return "no"
	case map[string]any, []any:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	default:
		return fmt.Sprint(x)
	}
}
