package registration

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-eventform/pkg/form"
	"github.com/goliatone/go-eventform/pkg/model"
	"github.com/goliatone/go-eventform/pkg/validation"
	"github.com/goliatone/go-eventform/pkg/visibility"
)

// FieldView is a visible field bound to its current value and error text.
type FieldView struct {
	model.Field
	Value   string `json:"value"`
	Checked bool   `json:"checked,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SummaryItem is one line of the read-only recap.
type SummaryItem struct {
	Field string `json:"field"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// View is an immutable render snapshot of a form instance. Fields is only
// populated while editing and Summary only once submitted.
type View struct {
	FormID      string              `json:"formId"`
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	Endpoint    string              `json:"endpoint"`
	Method      string              `json:"method"`
	SubmitLabel string              `json:"submitLabel"`
	State       State               `json:"state"`
	Submitted   bool                `json:"submitted"`
	Values      form.Values         `json:"values"`
	Errors      validation.ErrorMap `json:"errors,omitempty"`
	Fields      []FieldView         `json:"fields,omitempty"`
	Summary     []SummaryItem       `json:"summary,omitempty"`
}

// View builds the render snapshot for the current state.
func (f *Form) View() (View, error) {
	values := f.store.Values()
	view := View{
		FormID:      f.model.ID,
		Title:       f.model.Title,
		Description: f.model.Description,
		Endpoint:    f.model.Endpoint,
		Method:      f.model.Method,
		SubmitLabel: f.model.SubmitLabel,
		State:       f.State(),
		Submitted:   f.submitted,
		Values:      values,
		Errors:      f.controller.Errors(),
	}

	if f.submitted {
		summary, err := Summary(f.model, values, f.evaluator)
		if err != nil {
			return View{}, err
		}
		view.Summary = summary
		return view, nil
	}

	fields, err := VisibleFields(f.model, values, f.evaluator)
	if err != nil {
		return View{}, err
	}
	view.Fields = make([]FieldView, 0, len(fields))
	for _, field := range fields {
		view.Fields = append(view.Fields, FieldView{
			Field:   field,
			Value:   values.String(field.Name),
			Checked: field.Control == form.ControlCheckbox && values.Bool(field.Name),
			Error:   view.Errors.Get(field.Name),
		})
	}
	return view, nil
}

// VisibleFields returns the model fields whose visibility rule holds for
// values, in model order.
func VisibleFields(fm model.FormModel, values form.Values, evaluator visibility.Evaluator) ([]model.Field, error) {
	if evaluator == nil {
		evaluator = sharedEvaluator
	}
	out := make([]model.Field, 0, len(fm.Fields))
	for _, field := range fm.Fields {
		visible, err := evaluator.Eval(field.Name, field.VisibleWhen, values)
		if err != nil {
			return nil, fmt.Errorf("registration: visibility of %q: %w", field.Name, err)
		}
		if visible {
			out = append(out, field)
		}
	}
	return out, nil
}

// Summary builds the read-only recap of values: one item per visible field,
// with select values shown by their option label.
func Summary(fm model.FormModel, values form.Values, evaluator visibility.Evaluator) ([]SummaryItem, error) {
	fields, err := VisibleFields(fm, values, evaluator)
	if err != nil {
		return nil, err
	}
	items := make([]SummaryItem, 0, len(fields))
	for _, field := range fields {
		items = append(items, SummaryItem{
			Field: field.Name,
			Label: summaryLabel(field),
			Value: summaryValue(field, values),
		})
	}
	return items, nil
}

func summaryLabel(field model.Field) string {
	if label := strings.TrimSpace(field.Metadata[MetaSummaryLabel]); label != "" {
		return label
	}
	label := strings.TrimSpace(strings.TrimRight(field.Label, ":?"))
	if label == "" {
		return field.Name
	}
	return label
}

func summaryValue(field model.Field, values form.Values) string {
	switch field.Control {
	case form.ControlSelect:
		return selectedLabel(field, values.String(field.Name))
	case form.ControlCheckbox:
		if values.Bool(field.Name) {
			return "Yes"
		}
		return "No"
	default:
		return values.String(field.Name)
	}
}

// selectedLabel shows a select value by its option label. Values outside the
// options read as the first option, the way an unmatched select falls back.
func selectedLabel(field model.Field, value string) string {
	for _, option := range field.Options {
		if option.Value == value {
			return option.Label
		}
	}
	if len(field.Options) > 0 {
		return field.Options[0].Label
	}
	return value
}
