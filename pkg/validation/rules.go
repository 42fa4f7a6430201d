package validation

import (
	"regexp"

	"github.com/goliatone/go-eventform/pkg/form"
)

// emailShape is a minimal shape check: something, "@", something, ".",
// something. It is deliberately unanchored.
var emailShape = regexp.MustCompile(`\S+@\S+\.\S+`)

// Check inspects a snapshot and returns a message when the rule fails, or ""
// when it passes.
type Check func(values form.Values) string

// FieldRules groups the checks guarding one field. Checks run in order and
// the first failing message is reported.
type FieldRules struct {
	Field  string
	Checks []Check
}

// Field is shorthand for building FieldRules.
func Field(name string, checks ...Check) FieldRules {
	return FieldRules{Field: name, Checks: checks}
}

// Rules composes per-field rules into a ValidateFunc. The resulting map holds
// at most one message per field.
func Rules(fields ...FieldRules) ValidateFunc {
	return func(values form.Values) ErrorMap {
		errs := ErrorMap{}
		for _, rules := range fields {
			for _, check := range rules.Checks {
				if check == nil {
					continue
				}
				if message := check(values); message != "" {
					errs[rules.Field] = message
					break
				}
			}
		}
		return errs
	}
}

// Required fails when field is empty.
func Required(field, message string) Check {
	return func(values form.Values) string {
		if !Present(values, field) {
			return message
		}
		return ""
	}
}

// RequiredWhen fails when when(values) holds and field is empty.
func RequiredWhen(field, message string, when func(form.Values) bool) Check {
	return func(values form.Values) string {
		if when != nil && when(values) && !Present(values, field) {
			return message
		}
		return ""
	}
}

// Pattern fails when field does not match re.
func Pattern(field string, re *regexp.Regexp, message string) Check {
	return func(values form.Values) string {
		if re == nil || re.MatchString(values.String(field)) {
			return ""
		}
		return message
	}
}

// EmailShaped fails when field does not look like an email address.
func EmailShaped(field, message string) Check {
	return Pattern(field, emailShape, message)
}

// PositiveNumber fails when field is not numeric or not greater than zero.
func PositiveNumber(field, message string) Check {
	return func(values form.Values) string {
		if n, ok := ParseNumber(values.String(field)); ok && n > 0 {
			return ""
		}
		return message
	}
}

// Present reports whether field holds a non-empty value. Checkbox fields are
// present when checked.
func Present(values form.Values, field string) bool {
	raw, ok := values.Get(field)
	if !ok || raw == nil {
		return false
	}
	switch typed := raw.(type) {
	case bool:
		return typed
	case string:
		return typed != ""
	default:
		return true
	}
}

// IsEmailShaped reports whether value passes the email shape check.
func IsEmailShaped(value string) bool {
	return emailShape.MatchString(value)
}
