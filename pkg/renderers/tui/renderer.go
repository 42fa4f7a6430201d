package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/url"
	"strings"

	"github.com/charmbracelet/lipgloss"
	theme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-eventform/pkg/form"
	"github.com/goliatone/go-eventform/pkg/registration"
	"github.com/goliatone/go-eventform/pkg/render"
	"github.com/goliatone/go-eventform/pkg/validation"
)

// Renderer drives the registration form from a terminal. Render prints a
// view; Run prompts for values until a submit succeeds.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	out               io.Writer
	submitTransformer SubmitTransformer
	theme             Theme
	maxAttempts       int
	stripTags         *bluemonday.Policy
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		stripTags:    bluemonday.StrictPolicy(),
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	switch r.outputFormat {
	case OutputFormatJSON, OutputFormatFormURLEncoded, OutputFormatPrettyText:
	default:
		return nil, fmt.Errorf("tui: unknown output format %q", r.outputFormat)
	}

	if r.driver == nil {
		r.driver = newSurveyDriver(r.out)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

// Render serializes view in the configured output format without prompting.
func (r *Renderer) Render(ctx context.Context, view registration.View, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	values := view.Values.Strings()
	if r.submitTransformer != nil {
		var err error
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}

	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		encoded := url.Values{}
		for name, value := range values {
			encoded.Set(name, value)
		}
		return []byte(encoded.Encode()), nil
	case OutputFormatPrettyText:
		return []byte(r.pretty(view, opts.Theme)), nil
	default:
		payload := struct {
			State     registration.State         `json:"state"`
			Submitted bool                       `json:"submitted"`
			Values    map[string]string          `json:"values"`
			Errors    validation.ErrorMap        `json:"errors,omitempty"`
			Summary   []registration.SummaryItem `json:"summary,omitempty"`
		}{
			State:     view.State,
			Submitted: view.Submitted,
			Values:    values,
			Errors:    view.Errors,
			Summary:   view.Summary,
		}
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("tui: encode json: %w", err)
		}
		return data, nil
	}
}

// Run prompts for every visible field, submits, and re-prompts the failing
// fields until the form reaches the submitted state. The final view is
// returned in the configured output format.
func (r *Renderer) Run(ctx context.Context, f *registration.Form, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if f == nil {
		return nil, errors.New("tui: form is required")
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}

	state := NewState(f)
	for !f.Submitted() {
		if err := r.promptPass(ctx, state); err != nil {
			return nil, err
		}

		errs := state.Submit()
		if errs.Empty() {
			break
		}
		r.reportErrors(ctx, f, errs)

		if r.maxAttempts > 0 && state.Attempts() >= r.maxAttempts {
			return nil, fmt.Errorf("%w (%d)", ErrTooManyAttempts, state.Attempts())
		}
	}

	view, err := f.View()
	if err != nil {
		return nil, fmt.Errorf("tui: build view: %w", err)
	}
	return r.Render(ctx, view, opts)
}

func (r *Renderer) promptPass(ctx context.Context, state *State) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		field, ok, err := state.Next()
		if err != nil {
			return fmt.Errorf("tui: next field: %w", err)
		}
		if !ok {
			return nil
		}
		change, err := r.promptField(ctx, field)
		if err != nil {
			return err
		}
		state.Answer(change)
	}
}

func (r *Renderer) promptField(ctx context.Context, field registration.FieldView) (form.Change, error) {
	message := r.theme.PromptPrefix + field.Label
	switch field.Control {
	case form.ControlSelect:
		labels := make([]string, 0, len(field.Options))
		defaultIndex := 0
		for i, option := range field.Options {
			labels = append(labels, option.Label)
			if option.Value == field.Value {
				defaultIndex = i
			}
		}
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      labels,
			DefaultIndex: defaultIndex,
			Help:         field.Description,
		})
		if err != nil {
			return form.Change{}, err
		}
		value := field.Value
		if idx >= 0 && idx < len(field.Options) {
			value = field.Options[idx].Value
		}
		return form.Change{Name: field.Name, Value: value, Type: form.ControlSelect}, nil

	case form.ControlCheckbox:
		checked, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: message,
			Default: field.Checked,
			Help:    field.Description,
		})
		if err != nil {
			return form.Change{}, err
		}
		return form.CheckboxChange(field.Name, checked), nil

	default:
		value, err := r.driver.Input(ctx, InputConfig{
			Message: message,
			Default: field.Value,
			Help:    field.Description,
		})
		if err != nil {
			return form.Change{}, err
		}
		return form.Change{Name: field.Name, Value: value, Type: field.Control}, nil
	}
}

// reportErrors prints the failing fields in display order.
func (r *Renderer) reportErrors(ctx context.Context, f *registration.Form, errs validation.ErrorMap) {
	for _, field := range f.Model().Fields {
		if message := errs.Get(field.Name); message != "" {
			_ = r.driver.Info(ctx, r.theme.ErrorPrefix+message)
		}
	}
}

type styles struct {
	title lipgloss.Style
	label lipgloss.Style
	value lipgloss.Style
	error lipgloss.Style
	box   lipgloss.Style
}

func newStyles(cfg *theme.RendererConfig) styles {
	brand := lipgloss.Color("12")
	danger := lipgloss.Color("9")
	if cfg != nil {
		if token := strings.TrimSpace(cfg.Tokens["brand"]); token != "" {
			brand = lipgloss.Color(token)
		}
		if token := strings.TrimSpace(cfg.Tokens["danger"]); token != "" {
			danger = lipgloss.Color(token)
		}
	}
	return styles{
		title: lipgloss.NewStyle().Bold(true).Foreground(brand),
		label: lipgloss.NewStyle().Bold(true),
		value: lipgloss.NewStyle(),
		error: lipgloss.NewStyle().Foreground(danger),
		box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(brand).
			Padding(0, 1),
	}
}

func (r *Renderer) pretty(view registration.View, cfg *theme.RendererConfig) string {
	st := newStyles(cfg)

	var b strings.Builder
	b.WriteString(st.title.Render(view.Title))
	b.WriteString("\n")
	if description := r.plainText(view.Description); description != "" {
		b.WriteString(description)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if view.Submitted {
		lines := []string{st.label.Render("Registration Summary")}
		for _, item := range view.Summary {
			lines = append(lines, st.label.Render(item.Label+":")+" "+st.value.Render(item.Value))
		}
		b.WriteString(st.box.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
		b.WriteString("\n")
		return b.String()
	}

	for _, field := range view.Fields {
		b.WriteString(st.label.Render(field.Label))
		b.WriteString(" ")
		b.WriteString(st.value.Render(displayValue(field)))
		b.WriteString("\n")
		if field.Error != "" {
			b.WriteString("  ")
			b.WriteString(st.error.Render(r.theme.ErrorPrefix + field.Error))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (r *Renderer) plainText(markup string) string {
	if strings.TrimSpace(markup) == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(r.stripTags.Sanitize(markup)))
}

func displayValue(field registration.FieldView) string {
	switch field.Control {
	case form.ControlSelect:
		return field.OptionLabel(field.Value)
	case form.ControlCheckbox:
		if field.Checked {
			return "Yes"
		}
		return "No"
	default:
		return field.Value
	}
}
