package render

import (
	"maps"
	"slices"
	"strings"
)

// HiddenField is a hidden input emitted after the visible controls.
type HiddenField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// WithHidden returns a copy of fields with name set to value. Blank names are
// ignored.
func WithHidden(fields map[string]string, name, value string) map[string]string {
	out := maps.Clone(fields)
	if name = strings.TrimSpace(name); name == "" {
		return out
	}
	if out == nil {
		out = make(map[string]string, 1)
	}
	out[name] = value
	return out
}

// SortedHiddenFields orders fields by name so markup is stable across
// renders. Blank names are dropped.
func SortedHiddenFields(fields map[string]string) []HiddenField {
	var out []HiddenField
	for _, name := range slices.Sorted(maps.Keys(fields)) {
		if key := strings.TrimSpace(name); key != "" {
			out = append(out, HiddenField{Name: key, Value: fields[name]})
		}
	}
	return out
}
