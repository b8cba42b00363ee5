// Package jsonutil converts loosely typed scalars from decoded JSON or YAML
// documents. Metadata exports are hand edited, so numbers often arrive as
// strings and strings as numbers.
package jsonutil

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FlexibleString converts v to a string, handling numbers and booleans in
// place of strings. The second result is false for nil.
func FlexibleString(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, true
	case json.Number:
		return val.String(), true
	case float64:
		if val == math.Trunc(val) && math.Abs(val) < 1<<53 {
			return strconv.FormatInt(int64(val), 10), true
		}
		return strconv.FormatFloat(val, 'g', -1, 64), true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case bool:
		return strconv.FormatBool(val), true
	default:
		// Objects and arrays fall back to their JSON form.
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val), true
		}
		return string(b), true
	}
}

// FlexibleFloat converts v to a float64. Numeric strings are accepted.
// The second result is false for nil and empty strings.
func FlexibleFloat(v any) (float64, bool, error) {
	switch val := v.(type) {
	case nil:
		return 0, false, nil
	case float64:
		return val, true, nil
	case float32:
		return float64(val), true, nil
	case int:
		return float64(val), true, nil
	case int64:
		return float64(val), true, nil
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return 0, false, fmt.Errorf("invalid number %q: %w", val.String(), err)
		}
		return f, true, nil
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return 0, false, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false, fmt.Errorf("invalid number %q: %w", val, err)
		}
		return f, true, nil
	default:
		return 0, false, fmt.Errorf("expected a number, got %T", v)
	}
}

// FlexibleInt converts v to an int. Floats must be integral.
func FlexibleInt(v any) (int, bool, error) {
	f, ok, err := FlexibleFloat(v)
	if err != nil || !ok {
		return 0, ok, err
	}
	if f != math.Trunc(f) {
		return 0, false, fmt.Errorf("expected an integer, got %v", f)
	}
	return int(f), true, nil
}
