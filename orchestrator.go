package eventform

import (
	"context"
	"net/url"

	"github.com/goliatone/go-eventform/pkg/form"
	"github.com/goliatone/go-eventform/pkg/orchestrator"
	"github.com/goliatone/go-eventform/pkg/render"
	"github.com/goliatone/go-eventform/pkg/themes"
)

// RenderOptions describes per-request data renderers use, such as hidden
// fields and the live change endpoint.
type RenderOptions = render.RenderOptions

// Request describes one render of a form instance.
type Request = orchestrator.Request

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// RenderHTML builds a fresh registration form, applies values as if they were
// posted, optionally submits, and renders the result with the default
// renderer. Names that are not form fields are ignored.
func RenderHTML(ctx context.Context, values map[string]string, submit bool, options ...orchestrator.Option) ([]byte, error) {
	orch := orchestrator.New(options...)
	f, err := orch.NewForm()
	if err != nil {
		return nil, err
	}

	posted := url.Values{}
	for name, value := range values {
		posted.Set(name, value)
	}
	for _, change := range form.ChangesFromForm(posted, f.Model().Controls()) {
		f.HandleChange(change)
	}
	if submit {
		f.HandleSubmit(nil)
	}

	out, _, err := orch.Generate(ctx, orchestrator.Request{Form: f})
	return out, err
}

// WithThemeCatalog resolves renderer theme configuration from catalog.
func WithThemeCatalog(catalog *themes.Catalog, name, variant string) orchestrator.Option {
	return orchestrator.WithThemes(catalog, name, variant)
}
