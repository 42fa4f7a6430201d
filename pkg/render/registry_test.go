package render_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-eventform/pkg/registration"
	"github.com/goliatone/go-eventform/pkg/render"
)

type stubRenderer struct {
	name    string
	err     error
	options render.RenderOptions
}

func (s *stubRenderer) Name() string        { return s.name }
func (s *stubRenderer) ContentType() string { return "text/plain" }

func (s *stubRenderer) Render(_ context.Context, view registration.View, opts render.RenderOptions) ([]byte, error) {
	s.options = opts
	if s.err != nil {
		return nil, s.err
	}
	return []byte(string(view.State)), nil
}

func TestRegistry_RegisterAndList(t *testing.T) {
	registry := render.NewRegistry()
	registry.MustRegister(&stubRenderer{name: "tui"})
	registry.MustRegister(&stubRenderer{name: "vanilla"})

	if diff := cmp.Diff([]string{"tui", "vanilla"}, registry.List()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if !registry.Has("tui") || registry.Has("preact") {
		t.Fatalf("unexpected Has results")
	}
	if err := registry.Register(&stubRenderer{name: "tui"}); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
	if err := registry.Register(&stubRenderer{}); err == nil {
		t.Fatalf("expected empty name to fail")
	}
	if err := registry.Register(nil); err == nil {
		t.Fatalf("expected nil renderer to fail")
	}
	if _, err := registry.Get("missing"); err == nil {
		t.Fatalf("expected missing renderer error")
	}
}

func TestRegistry_Render(t *testing.T) {
	stub := &stubRenderer{name: "stub"}
	registry := render.NewRegistry()
	registry.MustRegister(stub)

	view, err := registration.New().View()
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	out, contentType, err := registry.Render(context.Background(), "stub", view, render.RenderOptions{Stylesheet: "/x.css"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != string(registration.StateEditing) || contentType != "text/plain" {
		t.Fatalf("unexpected output %q %q", out, contentType)
	}
	if stub.options.StylesheetURL() != "/x.css" {
		t.Fatalf("expected options passed through")
	}

	boom := errors.New("boom")
	stub.err = boom
	if _, _, err := registry.Render(context.Background(), "stub", view, render.RenderOptions{}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}
