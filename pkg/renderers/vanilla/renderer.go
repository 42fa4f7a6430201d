package vanilla

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-eventform/pkg/form"
	"github.com/goliatone/go-eventform/pkg/registration"
	"github.com/goliatone/go-eventform/pkg/render"
	rendertemplate "github.com/goliatone/go-eventform/pkg/render/template"
	gotemplate "github.com/goliatone/go-eventform/pkg/render/template/gotemplate"
	"github.com/goliatone/go-eventform/pkg/renderers/vanilla/components"
)

const (
	pageTemplate = "templates/page.tmpl"
	pagePartial  = "forms.page"

	// DefaultAssetPrefix is where the HTTP server mounts AssetsFS.
	DefaultAssetPrefix = "/assets"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	registry         *components.Registry
	sanitizer        *bluemonday.Policy
	assetPrefix      string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithComponentRegistry replaces the built-in control components.
func WithComponentRegistry(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.registry = registry
		}
	}
}

// WithSanitizer sets the policy applied to the form description before it is
// emitted as HTML. Defaults to bluemonday's UGC policy.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.sanitizer = policy
		}
	}
}

// WithAssetPrefix sets the URL prefix the bundled stylesheet and scripts are
// served from.
func WithAssetPrefix(prefix string) Option {
	return func(cfg *config) {
		cfg.assetPrefix = strings.TrimRight(strings.TrimSpace(prefix), "/")
	}
}

// Renderer renders the registration page as server-side HTML.
type Renderer struct {
	templates   rendertemplate.TemplateRenderer
	registry    *components.Registry
	sanitizer   *bluemonday.Policy
	assetPrefix string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS:  TemplatesFS(),
		assetPrefix: DefaultAssetPrefix,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.registry == nil {
		cfg.registry = components.NewDefaultRegistry(cfg.assetPrefix)
	}
	if cfg.sanitizer == nil {
		cfg.sanitizer = bluemonday.UGCPolicy()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates:   renderer,
		registry:    cfg.registry,
		sanitizer:   cfg.sanitizer,
		assetPrefix: cfg.assetPrefix,
	}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

type fieldEntry struct {
	Field       registration.FieldView `json:"field"`
	Component   string                 `json:"component"`
	Control     string                 `json:"control"`
	InlineLabel bool                   `json:"inline_label"`
	Hidden      bool                   `json:"hidden"`
}

func (r *Renderer) Render(ctx context.Context, view registration.View, opts render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	themeCtx := themeContext(opts.Theme)

	entries := make([]fieldEntry, 0, len(view.Fields))
	used := make([]string, 0, len(view.Fields))
	for _, field := range view.Fields {
		entry, err := r.renderField(field, themeCtx.Partials, opts.ChangeEndpoint != "")
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: %w", err)
		}
		entries = append(entries, entry)
		if !slices.Contains(used, entry.Component) {
			used = append(used, entry.Component)
		}
	}
	slices.Sort(used)

	stylesheets, scripts := r.registry.Assets(used)
	if opts.ChangeEndpoint == "" {
		scripts = nil
	}

	stylesheet := opts.StylesheetURL()
	if stylesheet == "" {
		stylesheet = r.assetPrefix + "/" + StylesheetName
	}

	templateName := pageTemplate
	if candidate := strings.TrimSpace(themeCtx.Partials[pagePartial]); candidate != "" {
		templateName = candidate
	}

	result, err := r.templates.RenderTemplate(templateName, map[string]any{
		"form":            view,
		"fields":          entries,
		"summary":         view.Summary,
		"description":     r.sanitizer.Sanitize(view.Description),
		"hidden_fields":   render.SortedHiddenFields(opts.Hidden),
		"form_errors":     render.MergeFormErrors(opts.FormErrors),
		"change_endpoint": opts.ChangeEndpoint,
		"stylesheet":      stylesheet,
		"stylesheets":     stylesheets,
		"scripts":         scripts,
		"theme":           themeCtx,
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func (r *Renderer) renderField(field registration.FieldView, partials map[string]string, live bool) (fieldEntry, error) {
	name := components.NameFor(field.Control)
	descriptor, ok := r.registry.Descriptor(name)
	if !ok {
		return fieldEntry{}, fmt.Errorf("component %q not registered for field %q", name, field.Name)
	}

	var control bytes.Buffer
	data := components.ComponentData{
		Template:      r.templates,
		ThemePartials: partials,
		Live:          live && (field.Control == form.ControlSelect || field.Control == form.ControlCheckbox),
	}
	if err := descriptor.Renderer(&control, field, data); err != nil {
		return fieldEntry{}, fmt.Errorf("render component %q for field %q: %w", name, field.Name, err)
	}

	return fieldEntry{
		Field:       field,
		Component:   name,
		Control:     control.String(),
		InlineLabel: name == components.NameCheckbox,
		Hidden:      name == components.NameHidden,
	}, nil
}
