package models

import (
	"encoding/json"
	"math"
	"strconv"
)

// ValueKind identifies which field of a Value is populated.
type ValueKind string

const (
	ValueNull   ValueKind = "null"
	ValueNumber ValueKind = "number"
	ValueText   ValueKind = "text"
)

// Value is a single table cell or resolved factor value.
// The zero value is null.
type Value struct {
	Kind   ValueKind
	Number float64
	Text   string
}

// Number returns a numeric Value.
func Number(f float64) Value {
	return Value{Kind: ValueNumber, Number: f}
}

// Text returns a string Value.
func Text(s string) Value {
	return Value{Kind: ValueText, Text: s}
}

// Null returns the null Value.
func Null() Value {
	return Value{Kind: ValueNull}
}

// IsNull reports whether the value carries no data.
func (v Value) IsNull() bool {
	return v.Kind == "" || v.Kind == ValueNull
}

// IsNumber reports whether the value is numeric.
func (v Value) IsNumber() bool {
	return v.Kind == ValueNumber
}

// String formats the value for CSV output and Markdown rendering.
// Null renders as an empty string.
func (v Value) String() string {
	switch v.Kind {
	case ValueNumber:
		return strconv.FormatFloat(v.Number, 'g', -1, 64)
	case ValueText:
		return v.Text
	default:
		return ""
	}
}

// MarshalJSON encodes the value as a JSON number, string or null.
// NaN and infinities have no JSON form and encode as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case ValueNumber:
		if math.IsNaN(v.Number) || math.IsInf(v.Number, 0) {
			return []byte("null"), nil
		}
		return json.Marshal(v.Number)
	case ValueText:
		return json.Marshal(v.Text)
	default:
		return []byte("null"), nil
	}
}

// Repeat returns a series holding n copies of v.
func Repeat(v Value, n int) []Value {
	out := make([]Value, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// Numbers converts a float series to Values.
func Numbers(fs []float64) []Value {
	out := make([]Value, len(fs))
	for i, f := range fs {
		out[i] = Number(f)
	}
	return out
}
