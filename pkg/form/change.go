package form

import (
	"net/url"
	"sort"
	"strings"
)

// ControlType names the kind of input a change originated from.
type ControlType string

const (
	ControlText     ControlType = "text"
	ControlEmail    ControlType = "email"
	ControlNumber   ControlType = "number"
	ControlSelect   ControlType = "select"
	ControlCheckbox ControlType = "checkbox"
	ControlHidden   ControlType = "hidden"
)

// Change describes a single field update coming from an input control. Value
// carries the raw text; Checked is only consulted for checkbox controls.
type Change struct {
	Name    string      `json:"name"`
	Value   string      `json:"value"`
	Type    ControlType `json:"type,omitempty"`
	Checked bool        `json:"checked,omitempty"`
}

// TextChange is shorthand for a plain text change.
func TextChange(name, value string) Change {
	return Change{Name: name, Value: value, Type: ControlText}
}

// CheckboxChange is shorthand for a checkbox toggle.
func CheckboxChange(name string, checked bool) Change {
	return Change{Name: name, Type: ControlCheckbox, Checked: checked}
}

// resolved returns the value the change stores in the snapshot.
func (c Change) resolved() any {
	if c.Type == ControlCheckbox {
		return c.Checked
	}
	return c.Value
}

// ChangesFromForm translates a posted HTML form into change descriptors for
// the given controls. Checkboxes are checked when their name is present in the
// payload; other controls only produce a change when posted, so fields the
// browser did not render keep their current value. Changes are ordered by
// field name.
func ChangesFromForm(posted url.Values, controls map[string]ControlType) []Change {
	names := make([]string, 0, len(controls))
	for name := range controls {
		if strings.TrimSpace(name) == "" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	changes := make([]Change, 0, len(names))
	for _, name := range names {
		control := controls[name]
		if control == ControlCheckbox {
			changes = append(changes, CheckboxChange(name, posted.Has(name)))
			continue
		}
		if !posted.Has(name) {
			continue
		}
		changes = append(changes, Change{Name: name, Value: posted.Get(name), Type: control})
	}
	return changes
}
