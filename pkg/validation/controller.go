package validation

import "github.com/goliatone/go-eventform/pkg/form"

// ValidateFunc computes the full ErrorMap for a snapshot. Implementations must
// be pure: the same snapshot always yields the same map.
type ValidateFunc func(values form.Values) ErrorMap

// SubmitEvent is the host submit event. The controller only uses it to stop
// the host's default submission behaviour.
type SubmitEvent interface {
	PreventDefault()
}

// PreventDefaultFunc adapts a function into a SubmitEvent.
type PreventDefaultFunc func()

// PreventDefault calls the wrapped function when set.
func (fn PreventDefaultFunc) PreventDefault() {
	if fn != nil {
		fn()
	}
}

// Controller runs validation on submit and keeps the resulting ErrorMap as
// the visible error state. Errors are only recomputed on submit, never on
// change.
type Controller struct {
	values       func() form.Values
	validate     ValidateFunc
	setSubmitted func(bool)
	errors       ErrorMap
}

// NewController wires a controller to a snapshot source, a validation
// function, and the submitted-flag setter. A nil validate treats every
// snapshot as valid.
func NewController(values func() form.Values, validate ValidateFunc, setSubmitted func(bool)) *Controller {
	return &Controller{
		values:       values,
		validate:     validate,
		setSubmitted: setSubmitted,
		errors:       ErrorMap{},
	}
}

// Errors returns a copy of the errors from the last submit attempt.
func (c *Controller) Errors() ErrorMap {
	return c.errors.Clone()
}

// HandleSubmit prevents the default submission, validates the current
// snapshot, and flags the form submitted when nothing failed. The resulting
// map, empty or not, replaces the visible error state.
func (c *Controller) HandleSubmit(event SubmitEvent) ErrorMap {
	if event != nil {
		event.PreventDefault()
	}

	var snapshot form.Values
	if c.values != nil {
		snapshot = c.values()
	}

	errs := ErrorMap{}
	if c.validate != nil {
		if result := c.validate(snapshot); result != nil {
			errs = result.Clone()
		}
	}

	if errs.Empty() && c.setSubmitted != nil {
		c.setSubmitted(true)
	}
	c.errors = errs
	return errs.Clone()
}
