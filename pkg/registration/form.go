package registration

import (
	"github.com/goliatone/go-eventform/pkg/form"
	"github.com/goliatone/go-eventform/pkg/model"
	"github.com/goliatone/go-eventform/pkg/validation"
	"github.com/goliatone/go-eventform/pkg/visibility"
	"github.com/goliatone/go-eventform/pkg/visibility/expr"
)

// State is the display state of a form instance.
type State string

const (
	// StateEditing renders bound inputs and inline errors.
	StateEditing State = "editing"
	// StateSubmitted renders the read-only summary. It is terminal.
	StateSubmitted State = "submitted"
)

var (
	// sharedEvaluator caches compiled visibility rules across form instances.
	sharedEvaluator = expr.New()
	defaultModel    = MustModel()
)

// Option configures a Form.
type Option func(*Form)

// WithModel replaces the field definitions, for example with a decorated
// model carrying configured labels.
func WithModel(fm model.FormModel) Option {
	return func(f *Form) {
		if len(fm.Fields) > 0 {
			f.model = fm
		}
	}
}

// WithEvaluator overrides the visibility evaluator.
func WithEvaluator(evaluator visibility.Evaluator) Option {
	return func(f *Form) {
		if evaluator != nil {
			f.evaluator = evaluator
		}
	}
}

// WithPrefill seeds the initial snapshot with values layered over the
// defaults.
func WithPrefill(values map[string]string) Option {
	return func(f *Form) {
		for name, value := range values {
			f.initial = f.initial.With(name, value)
		}
	}
}

// Form is one registration form instance: the value store, the submit
// controller, and the submitted flag.
type Form struct {
	model      model.FormModel
	evaluator  visibility.Evaluator
	initial    form.Values
	store      *form.Store
	controller *validation.Controller
	submitted  bool
}

// New creates a form in the editing state with the initial values.
func New(options ...Option) *Form {
	f := &Form{
		model:     defaultModel,
		evaluator: sharedEvaluator,
		initial:   InitialValues(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}

	f.store = form.NewStore(f.initial)
	f.controller = validation.NewController(f.store.Values, Validate, f.setSubmitted)
	return f
}

func (f *Form) setSubmitted(submitted bool) {
	// there is no way back to editing
	if submitted {
		f.submitted = true
	}
}

// State reports the current display state.
func (f *Form) State() State {
	if f.submitted {
		return StateSubmitted
	}
	return StateEditing
}

// Submitted reports whether a submit has succeeded.
func (f *Form) Submitted() bool {
	return f.submitted
}

// Values returns the current snapshot.
func (f *Form) Values() form.Values {
	return f.store.Values()
}

// Errors returns the errors from the last submit attempt.
func (f *Form) Errors() validation.ErrorMap {
	return f.controller.Errors()
}

// Model returns the field definitions the form renders.
func (f *Form) Model() model.FormModel {
	return f.model
}

// HandleChange applies a field change. Changes after a successful submit are
// ignored.
func (f *Form) HandleChange(change form.Change) form.Values {
	if f.submitted {
		return f.store.Values()
	}
	return f.store.HandleChange(change)
}

// HandleSubmit validates the current values and moves to the submitted state
// when nothing failed. Once submitted, further submits only prevent the
// default action.
func (f *Form) HandleSubmit(event validation.SubmitEvent) validation.ErrorMap {
	if f.submitted {
		if event != nil {
			event.PreventDefault()
		}
		return validation.ErrorMap{}
	}
	return f.controller.HandleSubmit(event)
}

// Submit applies changes in order and then submits, the way a full form post
// arrives.
func (f *Form) Submit(changes ...form.Change) validation.ErrorMap {
	for _, change := range changes {
		f.HandleChange(change)
	}
	return f.HandleSubmit(nil)
}
