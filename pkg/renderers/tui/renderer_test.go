package tui

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-eventform/pkg/model"
	"github.com/goliatone/go-eventform/pkg/registration"
	"github.com/goliatone/go-eventform/pkg/render"
	"github.com/goliatone/go-eventform/pkg/testsupport"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	confirm      []bool
	infoMessages []string
	prompted     []string
	inputPos     int
	selectPos    int
	confirmPos   int
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.prompted = append(s.prompted, cfg.Message)
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	s.prompted = append(s.prompted, cfg.Message)
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.prompted = append(s.prompted, cfg.Message)
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

type runResult struct {
	State     registration.State         `json:"state"`
	Submitted bool                       `json:"submitted"`
	Values    map[string]string          `json:"values"`
	Summary   []registration.SummaryItem `json:"summary"`
}

func decodeRun(t *testing.T, out []byte) runResult {
	t.Helper()
	var res runResult
	if err := json.Unmarshal(out, &res); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	return res
}

func TestRun_ValidFirstPass(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Jo", "jo@x.com", "30"},
		selectIdx: []int{0},
	}
	r, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	out, err := r.Run(context.Background(), registration.New(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	res := decodeRun(t, out)
	if !res.Submitted || res.State != registration.StateSubmitted {
		t.Fatalf("expected submitted result, got %#v", res)
	}
	want := []registration.SummaryItem{
		{Field: registration.FieldName, Label: "Name", Value: "Jo"},
		{Field: registration.FieldEmail, Label: "Email", Value: "jo@x.com"},
		{Field: registration.FieldAge, Label: "Age", Value: "30"},
		{Field: registration.FieldAttendingWithGuest, Label: "Attending with a guest", Value: "No"},
	}
	if diff := cmp.Diff(want, res.Summary); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
	if len(driver.infoMessages) != 0 {
		t.Fatalf("expected no error reports, got %v", driver.infoMessages)
	}
}

func TestRun_GuestPromptFollowsSelection(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"A", "a@b.com", "5", "Bo"},
		selectIdx: []int{1},
	}
	r, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	out, err := r.Run(context.Background(), registration.New(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	wantPrompts := []string{"Name:", "Email:", "Age:", "Are you attending with a guest?", "Guest Name:"}
	if diff := cmp.Diff(wantPrompts, driver.prompted); diff != "" {
		t.Fatalf("prompt order mismatch (-want +got):\n%s", diff)
	}
	res := decodeRun(t, out)
	if res.Values[registration.FieldGuestName] != "Bo" || res.Values[registration.FieldAttendingWithGuest] != registration.AttendingYes {
		t.Fatalf("unexpected values %#v", res.Values)
	}
}

func TestRun_RepromptsFailingFields(t *testing.T) {
	driver := &stubDriver{
		// first pass: name blank, bad email, negative age; retry fixes all three
		inputs:    []string{"", "bad", "-1", "Jo", "jo@x.com", "30"},
		selectIdx: []int{0},
	}
	r, err := New(WithPromptDriver(driver), WithTheme(Theme{ErrorPrefix: "! "}))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	out, err := r.Run(context.Background(), registration.New(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	wantInfo := []string{
		"! " + registration.MsgNameRequired,
		"! " + registration.MsgEmailInvalid,
		"! " + registration.MsgAgeInvalid,
	}
	if diff := cmp.Diff(wantInfo, driver.infoMessages); diff != "" {
		t.Fatalf("error reports mismatch (-want +got):\n%s", diff)
	}
	wantPrompts := []string{"Name:", "Email:", "Age:", "Are you attending with a guest?", "Name:", "Email:", "Age:"}
	if diff := cmp.Diff(wantPrompts, driver.prompted); diff != "" {
		t.Fatalf("prompt order mismatch (-want +got):\n%s", diff)
	}
	if !decodeRun(t, out).Submitted {
		t.Fatalf("expected submitted output")
	}
}

func TestRun_MaxAttempts(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"", "", ""},
		selectIdx: []int{0},
	}
	r, err := New(WithPromptDriver(driver), WithMaxAttempts(1))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	f := registration.New()
	if _, err := r.Run(context.Background(), f, render.RenderOptions{}); !errors.Is(err, ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
	if f.State() != registration.StateEditing {
		t.Fatalf("expected form to stay editing")
	}
}

func TestRun_DriverErrorStops(t *testing.T) {
	r, err := New(WithPromptDriver(&stubDriver{}))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if _, err := r.Run(context.Background(), registration.New(), render.RenderOptions{}); err == nil {
		t.Fatalf("expected driver error")
	}
}

func TestRender_FormEncoded(t *testing.T) {
	r, err := New(WithPromptDriver(&stubDriver{}), WithOutputFormat(OutputFormatFormURLEncoded),
		WithSubmitTransformer(func(values map[string]string) (map[string]string, error) {
			delete(values, registration.FieldGuestName)
			return values, nil
		}))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	out, err := r.Render(context.Background(), testsupport.SubmittedView(t, testsupport.ValidRegistration()), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	parsed, err := url.ParseQuery(string(out))
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if parsed.Get(registration.FieldEmail) != "jo@x.com" || parsed.Has(registration.FieldGuestName) {
		t.Fatalf("unexpected encoded values %v", parsed)
	}
	if r.ContentType() != "application/x-www-form-urlencoded" {
		t.Fatalf("unexpected content type %s", r.ContentType())
	}
}

func TestRender_TransformerError(t *testing.T) {
	boom := errors.New("boom")
	r, err := New(WithPromptDriver(&stubDriver{}), WithSubmitTransformer(func(map[string]string) (map[string]string, error) {
		return nil, boom
	}))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if _, err := r.Render(context.Background(), testsupport.SubmittedView(t, testsupport.ValidRegistration()), render.RenderOptions{}); !errors.Is(err, boom) {
		t.Fatalf("expected transformer error, got %v", err)
	}
}

func TestRender_PrettySummary(t *testing.T) {
	r, err := New(WithPromptDriver(&stubDriver{}), WithOutputFormat(OutputFormatPrettyText))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	view := testsupport.SubmittedView(t, testsupport.ValidRegistration())
	out, err := r.Render(context.Background(), view, render.RenderOptions{
		Theme: &theme.RendererConfig{Theme: "acme", Tokens: map[string]string{"brand": "#123456"}},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	text := string(out)
	for _, fragment := range []string{"Event Registration Form", "Registration Summary", "Name:", "Jo", "Attending with a guest:", "No"} {
		if !strings.Contains(text, fragment) {
			t.Fatalf("expected %q in output\n%s", fragment, text)
		}
	}
}

func TestRender_PrettyEditingShowsErrorsAndPlainDescription(t *testing.T) {
	r, err := New(WithPromptDriver(&stubDriver{}), WithOutputFormat(OutputFormatPrettyText))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	fm, err := registration.Model(model.WithTitle("", "<p>Bring &amp; share</p>"))
	if err != nil {
		t.Fatalf("model: %v", err)
	}
	f := registration.New(registration.WithModel(fm))
	f.Submit(testsupport.Changes(testsupport.InvalidRegistration())...)
	view, err := f.View()
	if err != nil {
		t.Fatalf("view: %v", err)
	}

	out, err := r.Render(context.Background(), view, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	text := string(out)
	for _, fragment := range []string{"Bring & share", registration.MsgNameRequired, registration.MsgAgeInvalid, "bad"} {
		if !strings.Contains(text, fragment) {
			t.Fatalf("expected %q in output\n%s", fragment, text)
		}
	}
	if strings.Contains(text, "<p>") {
		t.Fatalf("expected markup stripped\n%s", text)
	}
}

func TestNew_RejectsUnknownFormat(t *testing.T) {
	if _, err := New(WithOutputFormat("yaml")); err == nil {
		t.Fatalf("expected unknown format error")
	}
}

func TestRender_CancelledContext(t *testing.T) {
	r, err := New(WithPromptDriver(&stubDriver{}))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Render(ctx, registration.View{}, render.RenderOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}
