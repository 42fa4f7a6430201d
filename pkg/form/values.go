package form

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Values is an immutable snapshot of field values keyed by field name. Text
// controls store strings; checkbox controls store bools. The zero value is an
// empty snapshot.
type Values struct {
	fields map[string]any
}

// NewValues copies initial into a new snapshot.
func NewValues(initial map[string]any) Values {
	out := make(map[string]any, len(initial))
	for name, value := range initial {
		out[name] = value
	}
	return Values{fields: out}
}

// FromStrings builds a snapshot where every field is a plain string.
func FromStrings(initial map[string]string) Values {
	out := make(map[string]any, len(initial))
	for name, value := range initial {
		out[name] = value
	}
	return Values{fields: out}
}

// Get returns the raw value stored for name.
func (v Values) Get(name string) (any, bool) {
	value, ok := v.fields[name]
	return value, ok
}

// String returns the value for name rendered as text. Missing fields yield "".
func (v Values) String(name string) string {
	value, ok := v.fields[name]
	if !ok || value == nil {
		return ""
	}
	switch typed := value.(type) {
	case string:
		return typed
	case bool:
		return strconv.FormatBool(typed)
	default:
		return fmt.Sprint(typed)
	}
}

// Bool reports the boolean value for name. Strings are parsed with
// strconv.ParseBool; anything unparsable is false.
func (v Values) Bool(name string) bool {
	switch typed := v.fields[name].(type) {
	case bool:
		return typed
	case string:
		parsed, err := strconv.ParseBool(typed)
		return err == nil && parsed
	default:
		return false
	}
}

// With returns a new snapshot with name set to value. The receiver is left
// untouched.
func (v Values) With(name string, value any) Values {
	out := make(map[string]any, len(v.fields)+1)
	for key, existing := range v.fields {
		out[key] = existing
	}
	out[name] = value
	return Values{fields: out}
}

// Names lists the field names in sorted order.
func (v Values) Names() []string {
	names := make([]string, 0, len(v.fields))
	for name := range v.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len reports the number of fields in the snapshot.
func (v Values) Len() int {
	return len(v.fields)
}

// Map returns a copy of the snapshot as a plain map.
func (v Values) Map() map[string]any {
	out := make(map[string]any, len(v.fields))
	for name, value := range v.fields {
		out[name] = value
	}
	return out
}

// Strings returns a copy of the snapshot with every value rendered as text.
func (v Values) Strings() map[string]string {
	out := make(map[string]string, len(v.fields))
	for name := range v.fields {
		out[name] = v.String(name)
	}
	return out
}

// MarshalJSON encodes the snapshot as a flat JSON object.
func (v Values) MarshalJSON() ([]byte, error) {
	if v.fields == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(v.fields)
}

// UnmarshalJSON decodes a flat JSON object. Only string and bool members are
// accepted.
func (v *Values) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("form: decode values: %w", err)
	}
	out := make(map[string]any, len(raw))
	for name, value := range raw {
		switch value.(type) {
		case string, bool:
			out[name] = value
		default:
			return fmt.Errorf("form: field %q must be a string or boolean, got %T", name, value)
		}
	}
	v.fields = out
	return nil
}
