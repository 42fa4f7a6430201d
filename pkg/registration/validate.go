package registration

import (
	"github.com/goliatone/go-eventform/pkg/form"
	"github.com/goliatone/go-eventform/pkg/validation"
)

// Validation messages.
const (
	MsgNameRequired      = "Name is required"
	MsgEmailRequired     = "Email is required"
	MsgEmailInvalid      = "Email address is invalid"
	MsgAgeRequired       = "Age is required"
	MsgAgeInvalid        = "Age must be a number greater than 0"
	MsgGuestNameRequired = "Guest name is required if attending with a guest"
)

var rules = validation.Rules(
	validation.Field(FieldName,
		validation.Required(FieldName, MsgNameRequired),
	),
	validation.Field(FieldEmail,
		validation.Required(FieldEmail, MsgEmailRequired),
		validation.EmailShaped(FieldEmail, MsgEmailInvalid),
	),
	validation.Field(FieldAge,
		validation.Required(FieldAge, MsgAgeRequired),
		validation.PositiveNumber(FieldAge, MsgAgeInvalid),
	),
	validation.Field(FieldGuestName,
		validation.RequiredWhen(FieldGuestName, MsgGuestNameRequired, AttendingWithGuest),
	),
)

// Validate returns the ErrorMap for a registration snapshot. It is pure and
// idempotent.
func Validate(values form.Values) validation.ErrorMap {
	return rules(values)
}

var _ validation.ValidateFunc = Validate
