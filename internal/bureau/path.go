package bureau

import (
	"sort"
	"strconv"
	"strings"
)

// lookupPath reads a deeply nested optional value using a dotted path with
// bracketed indices, e.g. "reportSummary.accounts[0].balance". Any missing
// key, wrong intermediate type, or out-of-range index yields nil. It
// operates on generic decoded JSON (map[string]any / []any / scalars).
func lookupPath(data any, path string) any {
	if path == "" {
		return nil
	}
	ref := data
	for _, seg := range strings.Split(path, ".") {
		key, idx, indexed := splitIndex(seg)
		if key != "" {
			m, ok := ref.(map[string]any)
			if !ok {
				return nil
			}
			ref = m[key]
		}
		if indexed {
			arr, ok := ref.([]any)
			if !ok || idx < 0 || idx >= len(arr) {
				return nil
			}
			ref = arr[idx]
		}
		if ref == nil {
			return nil
		}
	}
	return ref
}

// splitIndex parses "key[3]" into ("key", 3, true); plain segments return
// ("key", 0, false). A malformed index is treated as plain text, which then
// misses in the map and degrades to nil like any absent key.
func splitIndex(seg string) (string, int, bool) {
	open := strings.IndexByte(seg, '[')
	if open < 0 || !strings.HasSuffix(seg, "]") {
		return seg, 0, false
	}
	idx, err := strconv.Atoi(seg[open+1 : len(seg)-1])
	if err != nil {
		return seg, 0, false
	}
	return seg[:open], idx, true
}

// lookupKeys walks a mixed key sequence where each element is either a
// string map key or an int slice index. It degrades to nil on any mismatch.
func lookupKeys(data any, keys ...any) any {
	ref := data
	for _, k := range keys {
		switch key := k.(type) {
		case string:
			m, ok := ref.(map[string]any)
			if !ok {
				return nil
			}
			ref = m[key]
		case int:
			arr, ok := ref.([]any)
			if !ok || key < 0 || key >= len(arr) {
				return nil
			}
			ref = arr[key]
		default:
			return nil
		}
		if ref == nil {
			return nil
		}
	}
	return ref
}

// asMap returns v as an object, or an empty object when it is anything else.
func asMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

// sortedKeys returns m's keys in sorted order. Category-keyed sections are
// walked through this so extraction output is stable across runs.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// asSlice returns v as an array; a bare object is wrapped as a one-element
// array because several bureaus collapse single-element lists to objects.
func asSlice(v any) []any {
	switch t := v.(type) {
	case []any:
		return t
	case map[string]any:
		return []any{t}
	}
	return nil
}
