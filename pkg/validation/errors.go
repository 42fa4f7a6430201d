package validation

import "sort"

// ErrorMap maps a field name to the message describing why it failed
// validation. Only failing fields are present; an empty map means the values
// are valid.
type ErrorMap map[string]string

// Empty reports whether no field failed.
func (m ErrorMap) Empty() bool {
	return len(m) == 0
}

// Get returns the message for field, or "" when the field is valid.
func (m ErrorMap) Get(field string) string {
	if m == nil {
		return ""
	}
	return m[field]
}

// Has reports whether field carries an error.
func (m ErrorMap) Has(field string) bool {
	_, ok := m[field]
	return ok
}

// Fields lists failing field names in sorted order.
func (m ErrorMap) Fields() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns an independent copy. A nil map clones to an empty map.
func (m ErrorMap) Clone() ErrorMap {
	out := make(ErrorMap, len(m))
	for field, message := range m {
		out[field] = message
	}
	return out
}

// FieldErrors converts the map into the per-field message slices used by
// render options.
func (m ErrorMap) FieldErrors() map[string][]string {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string][]string, len(m))
	for field, message := range m {
		out[field] = []string{message}
	}
	return out
}

// Issue is a single validation failure in list form, convenient for JSON
// payloads that need a stable order.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Issues returns the map as a slice ordered by field name.
func (m ErrorMap) Issues() []Issue {
	if len(m) == 0 {
		return nil
	}
	out := make([]Issue, 0, len(m))
	for _, field := range m.Fields() {
		out = append(out, Issue{Field: field, Message: m[field]})
	}
	return out
}
