package testsupport

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/goliatone/go-eventform/pkg/form"
	"github.com/goliatone/go-eventform/pkg/registration"
)

// ValidRegistration is a complete registration without a guest.
func ValidRegistration() map[string]string {
	return map[string]string{
		registration.FieldName:               "Jo",
		registration.FieldEmail:              "jo@x.com",
		registration.FieldAge:                "30",
		registration.FieldAttendingWithGuest: registration.AttendingNo,
	}
}

// InvalidRegistration fails the name, email and age rules.
func InvalidRegistration() map[string]string {
	return map[string]string{
		registration.FieldName:  "",
		registration.FieldEmail: "bad",
		registration.FieldAge:   "-1",
	}
}

// Changes converts values into text changes sorted by field name.
func Changes(values map[string]string) []form.Change {
	names := form.FromStrings(values).Names()
	out := make([]form.Change, 0, len(names))
	for _, name := range names {
		out = append(out, form.TextChange(name, values[name]))
	}
	return out
}

// SubmittedView returns the view of a form submitted with values.
func SubmittedView(t *testing.T, values map[string]string) registration.View {
	t.Helper()

	f := registration.New()
	f.Submit(Changes(values)...)
	view, err := f.View()
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	return view
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents. Tests can assert
// the renderer returns and writes the same payload without duplicating buffer
// setup.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
