package components

import "github.com/goliatone/go-eventform/pkg/form"

// Canonical component names used by the vanilla renderer and default registry.
const (
	NameInput    = "input"
	NameSelect   = "select"
	NameCheckbox = "checkbox"
	NameHidden   = "hidden"
)

// NameFor maps a control type onto the component that renders it.
func NameFor(control form.ControlType) string {
	switch control {
	case form.ControlSelect:
		return NameSelect
	case form.ControlCheckbox:
		return NameCheckbox
	case form.ControlHidden:
		return NameHidden
	default:
		return NameInput
	}
}
