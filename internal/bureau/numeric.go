package bureau

import (
	"fmt"
	"strconv"
	"strings"
)

// cleanNumeric normalizes a bureau numeric field of any JSON type into a
// float. Currency symbols, digit grouping, and stray text are stripped;
// absent or unparseable values are 0. "₹1,23,456.50" parses as 123456.50.
func cleanNumeric(v any) float64 {
	switch t := v.(type) {
	case nil:
		return 0
	case float64:
		return t
	case int:
		return float64(t)
	}
	s := strings.TrimSpace(asString(v))
	if s == "" {
		return 0
	}
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	f, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return f
}

// asString renders a scalar JSON value as a string. Whole floats print
// without the decoder's ".0" artifact so account numbers and pincodes
// survive the float round-trip intact.
func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	}
	return fmt.Sprintf("%v", v)
}

// pathString reads a nested field as a trimmed string.
func pathString(data any, path string) string {
	return strings.TrimSpace(asString(lookupPath(data, path)))
}

// pathNumeric reads a nested field as a cleaned float.
func pathNumeric(data any, path string) float64 {
	return cleanNumeric(lookupPath(data, path))
}

// field reads a direct map key as a trimmed string.
func field(m map[string]any, key string) string {
	return strings.TrimSpace(asString(m[key]))
}
