package tui

import (
	"github.com/goliatone/go-eventform/pkg/form"
	"github.com/goliatone/go-eventform/pkg/registration"
	"github.com/goliatone/go-eventform/pkg/validation"
)

// State tracks an interactive session over one form instance: the fields
// already prompted in the current pass and the number of submit attempts.
// The first pass prompts every visible field; later passes only revisit the
// fields that failed.
type State struct {
	form     *registration.Form
	asked    map[string]struct{}
	retry    map[string]struct{}
	attempts int
}

// NewState starts a session over f.
func NewState(f *registration.Form) *State {
	return &State{
		form:  f,
		asked: make(map[string]struct{}),
	}
}

// Form returns the form instance being filled in.
func (s *State) Form() *registration.Form {
	return s.form
}

// Attempts reports how many submits were made.
func (s *State) Attempts() int {
	return s.attempts
}

// Next returns the next field to prompt in the current pass. Visibility is
// re-evaluated on every call so fields revealed by an earlier answer are
// picked up in the same pass.
func (s *State) Next() (registration.FieldView, bool, error) {
	view, err := s.form.View()
	if err != nil {
		return registration.FieldView{}, false, err
	}
	for _, field := range view.Fields {
		if field.Control == form.ControlHidden {
			continue
		}
		if _, done := s.asked[field.Name]; done {
			continue
		}
		if s.retry != nil {
			if _, ok := s.retry[field.Name]; !ok {
				continue
			}
		}
		return field, true, nil
	}
	return registration.FieldView{}, false, nil
}

// Answer applies change to the form and marks its field as prompted.
func (s *State) Answer(change form.Change) {
	s.asked[change.Name] = struct{}{}
	s.form.HandleChange(change)
}

// Submit submits the form and prepares the next pass from the failing fields.
func (s *State) Submit() validation.ErrorMap {
	s.attempts++
	errs := s.form.HandleSubmit(nil)

	s.asked = make(map[string]struct{})
	s.retry = make(map[string]struct{}, len(errs))
	for _, name := range errs.Fields() {
		s.retry[name] = struct{}{}
	}
	return errs
}
