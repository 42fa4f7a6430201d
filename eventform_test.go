package eventform

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/goliatone/go-eventform/pkg/registration"
	"github.com/goliatone/go-eventform/pkg/themes"
)

func TestRenderHTML_Editing(t *testing.T) {
	out, err := RenderHTML(context.Background(), map[string]string{
		registration.FieldAttendingWithGuest: registration.AttendingYes,
		"ignored":                            "x",
	}, false)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)
	if !strings.Contains(html, `name="guestName"`) {
		t.Fatalf("expected guest name input")
	}
	if strings.Contains(html, registration.MsgNameRequired) {
		t.Fatalf("expected no errors before submit")
	}
}

func TestRenderHTML_Submitted(t *testing.T) {
	catalog := themes.NewCatalog()
	if err := catalog.Register(themes.DefaultManifest("/static")); err != nil {
		t.Fatalf("register: %v", err)
	}

	out, err := RenderHTML(context.Background(), map[string]string{
		registration.FieldName:  "Jo",
		registration.FieldEmail: "jo@x.com",
		registration.FieldAge:   "30",
	}, true, WithThemeCatalog(catalog, "", "dark"))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)
	if !strings.Contains(html, "<dt>Name:</dt><dd>Jo</dd>") {
		t.Fatalf("expected summary, got:\n%s", html)
	}
	if !strings.Contains(html, `href="/static/eventform.css"`) {
		t.Fatalf("expected themed stylesheet url")
	}
	if !strings.Contains(html, `data-theme-variant="dark"`) {
		t.Fatalf("expected dark variant marker")
	}
}

func TestEmbeddedFiles(t *testing.T) {
	if _, err := fs.Stat(EmbeddedTemplates(), "templates/page.tmpl"); err != nil {
		t.Fatalf("expected page template: %v", err)
	}
	if _, err := fs.Stat(AssetsFS(), "eventform.css"); err != nil {
		t.Fatalf("expected stylesheet: %v", err)
	}
}
