package components

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goliatone/go-eventform/pkg/form"
	"github.com/goliatone/go-eventform/pkg/registration"
)

const (
	templatePrefix = "templates/components/"

	// LiveScript is the asset that posts live controls to the change endpoint.
	LiveScript = "eventform-live.js"
)

// NewDefaultRegistry constructs a registry pre-populated with the built-in
// components used by the vanilla renderer. assetPrefix is prepended to the
// script URLs components depend on.
func NewDefaultRegistry(assetPrefix string) *Registry {
	registry := New()
	liveScript := Script{Src: joinAsset(assetPrefix, LiveScript), Defer: true}

	registry.MustRegister(NameInput, Descriptor{
		Renderer: templateComponentRenderer("forms.input", templatePrefix+"input.tmpl"),
	})
	registry.MustRegister(NameSelect, Descriptor{
		Renderer: templateComponentRenderer("forms.select", templatePrefix+"select.tmpl"),
		Scripts:  []Script{liveScript},
	})
	registry.MustRegister(NameCheckbox, Descriptor{
		Renderer: templateComponentRenderer("forms.checkbox", templatePrefix+"checkbox.tmpl"),
		Scripts:  []Script{liveScript},
	})
	registry.MustRegister(NameHidden, Descriptor{
		Renderer: templateComponentRenderer("forms.hidden", templatePrefix+"hidden.tmpl"),
	})

	return registry
}

func templateComponentRenderer(partialKey, templateName string) Renderer {
	return func(buf *bytes.Buffer, field registration.FieldView, data ComponentData) error {
		if data.Template == nil {
			return fmt.Errorf("components: template renderer not configured for %q", templateName)
		}

		resolvedTemplate := templateName
		if data.ThemePartials != nil {
			if candidate := strings.TrimSpace(data.ThemePartials[partialKey]); candidate != "" {
				resolvedTemplate = candidate
			}
		}

		payload := map[string]any{
			"field":      field,
			"input_type": inputType(field.Control),
			"live":       data.Live,
		}
		rendered, err := data.Template.RenderTemplate(resolvedTemplate, payload)
		if err != nil {
			return fmt.Errorf("components: render template %q: %w", resolvedTemplate, err)
		}
		buf.WriteString(rendered)
		return nil
	}
}

func inputType(control form.ControlType) string {
	switch control {
	case form.ControlEmail:
		return "email"
	case form.ControlNumber:
		return "number"
	case form.ControlHidden:
		return "hidden"
	default:
		return "text"
	}
}

func joinAsset(prefix, name string) string {
	prefix = strings.TrimRight(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}
