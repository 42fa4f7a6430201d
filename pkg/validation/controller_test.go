package validation

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-eventform/pkg/form"
)

func TestController_SubmitValid(t *testing.T) {
	store := form.NewStore(form.FromStrings(map[string]string{"name": "Jo"}))
	submitted := false
	prevented := 0

	ctrl := NewController(store.Values, Rules(Field("name", Required("name", "Name is required"))), func(v bool) {
		submitted = v
	})

	errs := ctrl.HandleSubmit(PreventDefaultFunc(func() { prevented++ }))
	if !errs.Empty() {
		t.Fatalf("expected no errors, got %#v", errs)
	}
	if !submitted {
		t.Fatalf("expected submitted flag to be set")
	}
	if prevented != 1 {
		t.Fatalf("expected PreventDefault once, got %d", prevented)
	}
}

func TestController_SubmitInvalidKeepsEditing(t *testing.T) {
	store := form.NewStore(form.FromStrings(map[string]string{"name": ""}))
	submitted := false

	ctrl := NewController(store.Values, Rules(Field("name", Required("name", "Name is required"))), func(v bool) {
		submitted = v
	})

	errs := ctrl.HandleSubmit(nil)
	if diff := cmp.Diff(ErrorMap{"name": "Name is required"}, errs); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if submitted {
		t.Fatalf("expected submitted flag to stay false")
	}
	if diff := cmp.Diff(errs, ctrl.Errors()); diff != "" {
		t.Fatalf("visible errors mismatch (-want +got):\n%s", diff)
	}
}

func TestController_ErrorsOnlyRecomputedOnSubmit(t *testing.T) {
	store := form.NewStore(form.FromStrings(map[string]string{"name": ""}))
	ctrl := NewController(store.Values, Rules(Field("name", Required("name", "Name is required"))), nil)

	ctrl.HandleSubmit(nil)
	store.HandleChange(form.TextChange("name", "Jo"))

	if !ctrl.Errors().Has("name") {
		t.Fatalf("expected stale error to remain until the next submit")
	}

	ctrl.HandleSubmit(nil)
	if !ctrl.Errors().Empty() {
		t.Fatalf("expected errors cleared after resubmit, got %#v", ctrl.Errors())
	}
}

func TestController_ErrorsReturnsCopy(t *testing.T) {
	values := func() form.Values { return form.Values{} }
	ctrl := NewController(values, Rules(Field("name", Required("name", "Name is required"))), nil)
	ctrl.HandleSubmit(nil)

	errs := ctrl.Errors()
	errs["name"] = "changed"

	if got := ctrl.Errors().Get("name"); got != "Name is required" {
		t.Fatalf("controller state mutated through copy: %q", got)
	}
}

func TestController_NilValidateIsValid(t *testing.T) {
	submitted := false
	ctrl := NewController(nil, nil, func(v bool) { submitted = v })
	if errs := ctrl.HandleSubmit(nil); !errs.Empty() {
		t.Fatalf("expected no errors, got %#v", errs)
	}
	if !submitted {
		t.Fatalf("expected submitted flag to be set")
	}
}
