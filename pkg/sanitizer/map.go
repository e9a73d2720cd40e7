package sanitizer

import "strings"

// TrimMapValues returns a copy of m with every value trimmed. A nil map
// comes back empty so it is stored as an object, never null.
func TrimMapValues[K comparable](m map[K]string) map[K]string {
	out := make(map[K]string, len(m))
	for k, v := range m {
		out[k] = strings.TrimSpace(v)
	}
	return out
}
