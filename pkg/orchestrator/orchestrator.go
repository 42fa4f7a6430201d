package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-eventform/pkg/model"
	"github.com/goliatone/go-eventform/pkg/registration"
	"github.com/goliatone/go-eventform/pkg/render"
	"github.com/goliatone/go-eventform/pkg/renderers/vanilla"
	"github.com/goliatone/go-eventform/pkg/visibility"
	"github.com/goliatone/go-eventform/pkg/visibility/expr"
)

const defaultRendererName = "vanilla"

// ThemeResolver turns a theme and variant name into renderer configuration.
// *themes.Catalog satisfies it.
type ThemeResolver interface {
	Resolve(name, variant string) (*theme.RendererConfig, error)
}

// Option mutates the orchestrator configuration.
type Option func(*Orchestrator)

// WithRegistry injects a renderer registry. Without it the orchestrator
// registers the vanilla renderer.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer selects the renderer used when a request names none.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithDecorators appends model decorators, for example configured labels.
func WithDecorators(decorators ...model.Decorator) Option {
	return func(o *Orchestrator) {
		o.decorators = append(o.decorators, decorators...)
	}
}

// WithThemes resolves theme configuration for every request that does not
// carry one, using name and variant when the request leaves them empty.
func WithThemes(resolver ThemeResolver, name, variant string) Option {
	return func(o *Orchestrator) {
		o.themes = resolver
		o.themeName = name
		o.themeVariant = variant
	}
}

// WithEvaluator overrides the visibility evaluator handed to new forms.
func WithEvaluator(evaluator visibility.Evaluator) Option {
	return func(o *Orchestrator) {
		o.evaluator = evaluator
	}
}

// Orchestrator builds registration forms from a decorated model and renders
// their views through the registry.
type Orchestrator struct {
	registry        *render.Registry
	defaultRenderer string
	decorators      []model.Decorator
	themes          ThemeResolver
	themeName       string
	themeVariant    string
	evaluator       visibility.Evaluator
	initialiseErr   error

	modelOnce sync.Once
	model     model.FormModel
	modelErr  error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Registry exposes the renderer registry.
func (o *Orchestrator) Registry() *render.Registry {
	return o.registry
}

// Model returns the decorated registration model. It is built once and every
// visibility rule is checked to compile.
func (o *Orchestrator) Model() (model.FormModel, error) {
	o.modelOnce.Do(func() {
		decorators := append([]model.Decorator{}, o.decorators...)
		if validator, ok := o.evaluator.(RuleValidator); ok {
			decorators = append(decorators, CheckVisibilityRules(validator))
		}
		fm, err := registration.Model(decorators...)
		if err != nil {
			o.modelErr = fmt.Errorf("orchestrator: build form model: %w", err)
			return
		}
		o.model = fm
	})
	return o.model, o.modelErr
}

// NewForm creates a form instance over the decorated model.
func (o *Orchestrator) NewForm(options ...registration.Option) (*registration.Form, error) {
	fm, err := o.Model()
	if err != nil {
		return nil, err
	}
	base := []registration.Option{
		registration.WithModel(fm),
		registration.WithEvaluator(o.evaluator),
	}
	return registration.New(append(base, options...)...), nil
}

// Request describes one render of a form instance.
type Request struct {
	// Form is the instance to render.
	Form *registration.Form

	// Renderer names the renderer to use. If empty, the orchestrator falls back
	// to the configured default renderer.
	Renderer string

	// ThemeName and ThemeVariant override the configured theme selection.
	ThemeName    string
	ThemeVariant string

	// RenderOptions carries per-request data such as hidden fields and the
	// change endpoint. A Theme set here skips theme resolution.
	RenderOptions render.RenderOptions
}

// Generate renders the current view of req.Form and reports the renderer's
// content type.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, string, error) {
	if ctx == nil {
		return nil, "", errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	if err := o.initialiseErr; err != nil {
		return nil, "", err
	}
	if req.Form == nil {
		return nil, "", errors.New("orchestrator: form is required")
	}

	options := req.RenderOptions
	if options.Theme == nil && o.themes != nil {
		cfg, err := o.themes.Resolve(firstNonEmpty(req.ThemeName, o.themeName), firstNonEmpty(req.ThemeVariant, o.themeVariant))
		if err != nil {
			return nil, "", fmt.Errorf("orchestrator: resolve theme: %w", err)
		}
		options.Theme = cfg
	}

	view, err := req.Form.View()
	if err != nil {
		return nil, "", fmt.Errorf("orchestrator: build view: %w", err)
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, "", err
	}

	output, err := renderer.Render(ctx, view, options)
	if err != nil {
		return nil, "", fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, renderer.ContentType(), nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}
	return o.registry.Get(names[0])
}

func (o *Orchestrator) applyDefaults() {
	if o.evaluator == nil {
		o.evaluator = expr.New()
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := vanilla.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else {
			o.registry.MustRegister(renderer)
		}
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
