package mapsafe

import "strconv"

// Get retrieves a typed value from a map[string]any.
// Pipeline parameters arrive as decoded JSON, so numbers are float64 and
// booleans may have been serialized as strings by older launchers.
// If the key is missing or the value cannot be converted, defaultValue is returned.
func Get[T any](m map[string]any, key string, defaultValue T) T {
	val, ok := m[key]
	if !ok || val == nil {
		return defaultValue
	}

	switch any(defaultValue).(type) {
	case string:
		if s, ok := val.(string); ok {
			return any(s).(T)
		}
	case bool:
		switch x := val.(type) {
		case bool:
			return any(x).(T)
		case string:
			if b, err := strconv.ParseBool(x); err == nil {
				return any(b).(T)
			}
		}
	case int:
		switch x := val.(type) {
		case int:
			return any(x).(T)
		case float64:
			return any(int(x)).(T)
		}
	case float64:
		switch x := val.(type) {
		case float64:
			return any(x).(T)
		case int:
			return any(float64(x)).(T)
		}
	default:
		if v, ok := val.(T); ok {
			return v
		}
	}

	return defaultValue
}
