package registration

import (
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"

	"github.com/goliatone/go-eventform/pkg/form"
	"github.com/goliatone/go-eventform/pkg/validation"
)

func TestValidate_Scenarios(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]string
		want   validation.ErrorMap
	}{
		{
			name: "valid without guest",
			values: map[string]string{
				FieldName: "Jo", FieldEmail: "jo@x.com", FieldAge: "30", FieldAttendingWithGuest: AttendingNo,
			},
			want: validation.ErrorMap{},
		},
		{
			name: "invalid fields",
			values: map[string]string{
				FieldName: "", FieldEmail: "bad", FieldAge: "-1", FieldAttendingWithGuest: AttendingNo,
			},
			want: validation.ErrorMap{
				FieldName:  MsgNameRequired,
				FieldEmail: MsgEmailInvalid,
				FieldAge:   MsgAgeInvalid,
			},
		},
		{
			name: "guest name missing",
			values: map[string]string{
				FieldName: "A", FieldEmail: "a@b.com", FieldAge: "5", FieldAttendingWithGuest: AttendingYes, FieldGuestName: "",
			},
			want: validation.ErrorMap{FieldGuestName: MsgGuestNameRequired},
		},
		{
			name:   "everything missing",
			values: map[string]string{},
			want: validation.ErrorMap{
				FieldName:  MsgNameRequired,
				FieldEmail: MsgEmailRequired,
				FieldAge:   MsgAgeRequired,
			},
		},
		{
			name: "non numeric age",
			values: map[string]string{
				FieldName: "A", FieldEmail: "a@b.com", FieldAge: "abc",
			},
			want: validation.ErrorMap{FieldAge: MsgAgeInvalid},
		},
		{
			name: "fractional age accepted",
			values: map[string]string{
				FieldName: "A", FieldEmail: "a@b.com", FieldAge: "0.5",
			},
			want: validation.ErrorMap{},
		},
		{
			name: "guest name ignored when not attending with guest",
			values: map[string]string{
				FieldName: "A", FieldEmail: "a@b.com", FieldAge: "5", FieldAttendingWithGuest: AttendingNo, FieldGuestName: "",
			},
			want: validation.ErrorMap{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Validate(form.FromStrings(tt.values))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("errors mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func validName() *rapid.Generator[string] {
	return rapid.StringMatching(`[A-Za-z][A-Za-z ]{0,20}`)
}

func validEmail() *rapid.Generator[string] {
	return rapid.StringMatching(`[a-z0-9._]{1,10}@[a-z0-9]{1,10}\.[a-z]{2,5}`)
}

func validAge() *rapid.Generator[string] {
	return rapid.Custom(func(t *rapid.T) string {
		if rapid.Bool().Draw(t, "fractional") {
			whole := rapid.IntRange(0, 120).Draw(t, "whole")
			frac := rapid.IntRange(1, 99).Draw(t, "frac")
			return strconv.Itoa(whole) + "." + strconv.Itoa(frac)
		}
		return strconv.Itoa(rapid.IntRange(1, 130).Draw(t, "age"))
	})
}

func TestValidate_ValidWithoutGuestHasNoErrors(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		values := form.FromStrings(map[string]string{
			FieldName:               validName().Draw(rt, "name"),
			FieldEmail:              validEmail().Draw(rt, "email"),
			FieldAge:                validAge().Draw(rt, "age"),
			FieldAttendingWithGuest: AttendingNo,
			FieldGuestName:          rapid.String().Draw(rt, "guestName"),
		})
		if errs := Validate(values); !errs.Empty() {
			rt.Fatalf("expected no errors for %#v, got %#v", values.Map(), errs)
		}
	})
}

func TestValidate_GuestWithoutNameAlwaysFlagged(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		values := form.FromStrings(map[string]string{
			FieldName:               rapid.String().Draw(rt, "name"),
			FieldEmail:              rapid.String().Draw(rt, "email"),
			FieldAge:                rapid.String().Draw(rt, "age"),
			FieldAttendingWithGuest: AttendingYes,
			FieldGuestName:          "",
		})
		errs := Validate(values)
		if got := errs.Get(FieldGuestName); got != MsgGuestNameRequired {
			rt.Fatalf("expected guest name error, got %q (%#v)", got, errs)
		}
	})
}

func TestValidate_Idempotent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		values := form.FromStrings(map[string]string{
			FieldName:               rapid.String().Draw(rt, "name"),
			FieldEmail:              rapid.String().Draw(rt, "email"),
			FieldAge:                rapid.String().Draw(rt, "age"),
			FieldAttendingWithGuest: rapid.SampledFrom([]string{AttendingYes, AttendingNo}).Draw(rt, "attending"),
			FieldGuestName:          rapid.String().Draw(rt, "guestName"),
		})
		first := Validate(values)
		second := Validate(values)
		if diff := cmp.Diff(first, second); diff != "" {
			rt.Fatalf("validate not idempotent (-first +second):\n%s", diff)
		}
	})
}
