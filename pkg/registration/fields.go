package registration

import (
	"github.com/goliatone/go-eventform/pkg/form"
	"github.com/goliatone/go-eventform/pkg/model"
)

// Field names.
const (
	FieldName               = "name"
	FieldEmail              = "email"
	FieldAge                = "age"
	FieldAttendingWithGuest = "attendingWithGuest"
	FieldGuestName          = "guestName"
)

// Values accepted by the attendingWithGuest select.
const (
	AttendingYes = "yes"
	AttendingNo  = "no"
)

// FormID identifies the registration form in models and API documents.
const FormID = "eventRegistration"

// DefaultTitle is the heading rendered above the form.
const DefaultTitle = "Event Registration Form"

// MetaSummaryLabel is the field metadata key holding the label used in the
// read-only summary.
const MetaSummaryLabel = "summaryLabel"

// guestRule is the visibility rule for the guest name field.
const guestRule = FieldAttendingWithGuest + ` == "` + AttendingYes + `"`

// InitialValues returns the snapshot every new form starts from.
func InitialValues() form.Values {
	return form.FromStrings(map[string]string{
		FieldName:               "",
		FieldEmail:              "",
		FieldAge:                "",
		FieldAttendingWithGuest: AttendingNo,
		FieldGuestName:          "",
	})
}

// Model describes the registration form fields in display order. Decorators
// run on the built model, for example to apply configured labels.
func Model(decorators ...model.Decorator) (model.FormModel, error) {
	fm := model.FormModel{
		ID:          FormID,
		Title:       DefaultTitle,
		Endpoint:    "/",
		Method:      "POST",
		SubmitLabel: "Submit",
		Fields: []model.Field{
			{
				Name:     FieldName,
				Control:  form.ControlText,
				Label:    "Name:",
				Required: true,
				Metadata: map[string]string{MetaSummaryLabel: "Name"},
			},
			{
				Name:     FieldEmail,
				Control:  form.ControlEmail,
				Label:    "Email:",
				Required: true,
				Metadata: map[string]string{MetaSummaryLabel: "Email"},
			},
			{
				Name:     FieldAge,
				Control:  form.ControlNumber,
				Label:    "Age:",
				Required: true,
				Metadata: map[string]string{MetaSummaryLabel: "Age"},
			},
			{
				Name:    FieldAttendingWithGuest,
				Control: form.ControlSelect,
				Label:   "Are you attending with a guest?",
				Options: []model.Option{
					{Value: AttendingNo, Label: "No"},
					{Value: AttendingYes, Label: "Yes"},
				},
				Metadata: map[string]string{MetaSummaryLabel: "Attending with a guest"},
			},
			{
				Name:        FieldGuestName,
				Control:     form.ControlText,
				Label:       "Guest Name:",
				Required:    true,
				VisibleWhen: guestRule,
				Metadata:    map[string]string{MetaSummaryLabel: "Guest Name"},
			},
		},
	}
	if err := model.Apply(&fm, decorators...); err != nil {
		return model.FormModel{}, err
	}
	return fm, nil
}

// MustModel is Model without decorators; it cannot fail.
func MustModel() model.FormModel {
	fm, err := Model()
	if err != nil {
		panic(err)
	}
	return fm
}

// AttendingWithGuest reports whether values select the guest option.
func AttendingWithGuest(values form.Values) bool {
	return values.String(FieldAttendingWithGuest) == AttendingYes
}
