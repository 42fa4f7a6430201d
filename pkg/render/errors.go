package render

import (
	"slices"
	"strconv"
	"strings"

	"github.com/goliatone/go-eventform/pkg/model"
)

// ErrorMapping splits an error payload into field-level and form-level
// messages keyed by model field name.
type ErrorMapping struct {
	Fields map[string][]string `json:"fields,omitempty"`
	Form   []string            `json:"form,omitempty"`
}

// envelope segments that never name a field.
var wrapperSegments = []string{"body", "request", "payload", "data", "values"}

// MapErrorPayload attributes messages keyed by JSON pointers or dotted paths
// ("/body/age", "$.values.email") to the model's fields. Paths that do not
// resolve to a field become form-level errors.
func MapErrorPayload(fm model.FormModel, payload map[string][]string) ErrorMapping {
	var mapping ErrorMapping
	for path, messages := range payload {
		messages = cleanMessages(messages)
		if len(messages) == 0 {
			continue
		}
		name := fieldForPath(fm, path)
		if name == "" {
			mapping.Form = append(mapping.Form, messages...)
			continue
		}
		if mapping.Fields == nil {
			mapping.Fields = make(map[string][]string)
		}
		mapping.Fields[name] = cleanMessages(append(mapping.Fields[name], messages...))
	}
	mapping.Form = cleanMessages(mapping.Form)
	return mapping
}

// fieldForPath returns the field named by the first meaningful segment of
// path, or "" for form-level paths.
func fieldForPath(fm model.FormModel, path string) string {
	path = strings.TrimLeft(strings.TrimSpace(path), "#/.$")
	path = strings.NewReplacer("[", ".", "]", "").Replace(path)
	segments := strings.FieldsFunc(path, func(r rune) bool { return r == '.' || r == '/' })

	for _, segment := range segments {
		segment = strings.NewReplacer("~1", "/", "~0", "~").Replace(strings.TrimSpace(segment))
		if slices.Contains(wrapperSegments, strings.ToLower(segment)) {
			continue
		}
		if _, err := strconv.Atoi(segment); err == nil {
			continue
		}
		if _, ok := fm.Field(segment); ok {
			return segment
		}
		return ""
	}
	return ""
}

// MergeFormErrors joins form-level messages, trimmed and without duplicates,
// in first-seen order.
func MergeFormErrors(existing []string, extras ...string) []string {
	return cleanMessages(append(slices.Clone(existing), extras...))
}

func cleanMessages(messages []string) []string {
	var out []string
	for _, message := range messages {
		message = strings.TrimSpace(message)
		if message != "" && !slices.Contains(out, message) {
			out = append(out, message)
		}
	}
	return out
}
