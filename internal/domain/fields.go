package domain

import "strconv"

// Dig walks nested string-keyed maps and returns the value at path.
func Dig(fields map[string]any, path ...string) (any, bool) {
	current := any(fields)
	for _, key := range path {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// DigString returns the value at path coerced to a string, or "" when the
// path is absent. Numbers and booleans stringify; nulls and containers do not.
func DigString(fields map[string]any, path ...string) string {
	value, ok := Dig(fields, path...)
	if !ok {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// DigMap returns the nested map at path, or nil.
func DigMap(fields map[string]any, path ...string) map[string]any {
	value, ok := Dig(fields, path...)
	if !ok {
		return nil
	}
	m, _ := value.(map[string]any)
	return m
}

// DigSlice returns the array at path, or nil.
func DigSlice(fields map[string]any, path ...string) []any {
	value, ok := Dig(fields, path...)
	if !ok {
		return nil
	}
	s, _ := value.([]any)
	return s
}

// Has reports whether path resolves to any non-nil value.
func Has(fields map[string]any, path ...string) bool {
	value, ok := Dig(fields, path...)
	return ok && value != nil
}
