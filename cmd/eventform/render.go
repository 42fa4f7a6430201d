package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-eventform/pkg/form"
	"github.com/goliatone/go-eventform/pkg/model"
	"github.com/goliatone/go-eventform/pkg/orchestrator"
	"github.com/goliatone/go-eventform/pkg/render"
	"github.com/goliatone/go-eventform/pkg/renderers/tui"
	"github.com/goliatone/go-eventform/pkg/renderers/vanilla"
)

func newRenderCmd(a *app) *cobra.Command {
	var (
		values  map[string]string
		submit  bool
		format  string
		variant string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the form or its summary for the given values",
		Example: `  eventform render --set name=Jo --set email=jo@x.com --set age=30 --submit
  eventform render --format json --set attendingWithGuest=yes`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry, rendererName, err := renderRegistry(format)
			if err != nil {
				return err
			}
			orch, _, err := a.orchestrator(registry)
			if err != nil {
				return err
			}
			f, err := orch.NewForm()
			if err != nil {
				return err
			}

			changes, err := changesFor(f.Model(), values)
			if err != nil {
				return err
			}
			for _, change := range changes {
				f.HandleChange(change)
			}
			if submit {
				f.HandleSubmit(nil)
			}

			out, _, err := orch.Generate(cmd.Context(), orchestrator.Request{
				Form:         f,
				Renderer:     rendererName,
				ThemeVariant: variant,
			})
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	cmd.Flags().StringToStringVar(&values, "set", nil, "field value as name=value (repeatable)")
	cmd.Flags().BoolVar(&submit, "submit", false, "submit after applying the values")
	cmd.Flags().StringVarP(&format, "format", "f", "html", "output format (html, json, form, pretty)")
	cmd.Flags().StringVar(&variant, "variant", "", "theme variant (default from theme.variant)")
	return cmd
}

// renderRegistry registers the renderer for format and reports its name.
func renderRegistry(format string) (*render.Registry, string, error) {
	registry := render.NewRegistry()
	if format == "html" || format == "" {
		renderer, err := vanilla.New()
		if err != nil {
			return nil, "", err
		}
		registry.MustRegister(renderer)
		return registry, renderer.Name(), nil
	}

	renderer, err := tui.New(tui.WithOutputFormat(tui.OutputFormat(format)))
	if err != nil {
		return nil, "", err
	}
	registry.MustRegister(renderer)
	return registry, renderer.Name(), nil
}

// changesFor turns name=value pairs into changes in model order. Unknown
// names are an error.
func changesFor(fm model.FormModel, values map[string]string) ([]form.Change, error) {
	unknown := make([]string, 0)
	for name := range values {
		if _, ok := fm.Field(name); !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("unknown field %q", unknown[0])
	}

	changes := make([]form.Change, 0, len(values))
	for _, field := range fm.Fields {
		value, ok := values[field.Name]
		if !ok {
			continue
		}
		if field.Control == form.ControlCheckbox {
			checked, err := strconv.ParseBool(value)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", field.Name, err)
			}
			changes = append(changes, form.CheckboxChange(field.Name, checked))
			continue
		}
		changes = append(changes, form.Change{Name: field.Name, Value: value, Type: field.Control})
	}
	return changes, nil
}
