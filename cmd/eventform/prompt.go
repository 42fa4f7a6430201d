package main

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-eventform/pkg/render"
	"github.com/goliatone/go-eventform/pkg/renderers/tui"
)

func newPromptCmd(a *app) *cobra.Command {
	var (
		format      string
		maxAttempts int
	)

	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Fill in the registration form interactively",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			orch, catalog, err := a.orchestrator(nil)
			if err != nil {
				return err
			}
			themeCfg, err := catalog.Resolve(a.cfg.Theme.Name, a.cfg.Theme.Variant)
			if err != nil {
				return err
			}
			f, err := orch.NewForm()
			if err != nil {
				return err
			}

			renderer, err := tui.New(
				tui.WithOutputFormat(tui.OutputFormat(format)),
				tui.WithOutput(cmd.ErrOrStderr()),
				tui.WithMaxAttempts(maxAttempts),
				tui.WithTheme(tui.Theme{ErrorPrefix: "✗ "}),
			)
			if err != nil {
				return err
			}

			out, err := renderer.Run(ctx, f, render.RenderOptions{Theme: themeCfg})
			if err != nil {
				return err
			}
			a.logger.Debug().Str("state", string(f.State())).Msg("prompt finished")
			_, err = cmd.OutOrStdout().Write(append(out, '\n'))
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(tui.OutputFormatPrettyText), "output format (pretty, json, form)")
	cmd.Flags().IntVar(&maxAttempts, "max-attempts", 0, "give up after this many failed submits (0 = unlimited)")
	return cmd
}
