package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/goliatone/go-eventform/internal/config"
	"github.com/goliatone/go-eventform/internal/logging"
	"github.com/goliatone/go-eventform/pkg/model"
	"github.com/goliatone/go-eventform/pkg/orchestrator"
	"github.com/goliatone/go-eventform/pkg/registration"
	"github.com/goliatone/go-eventform/pkg/render"
	"github.com/goliatone/go-eventform/pkg/renderers/vanilla"
	"github.com/goliatone/go-eventform/pkg/themes"
)

// app carries what every subcommand needs once configuration is loaded.
type app struct {
	configPath string
	viper      *viper.Viper
	cfg        config.Config
	logger     zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{viper: viper.New(), logger: zerolog.Nop()}

	root := &cobra.Command{
		Use:           "eventform",
		Short:         "Event registration form",
		Long:          `Serves, renders, and validates the event registration form over HTTP, in the terminal, or as JSON.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "config file (default: "+config.DefaultPath+")")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-format", "", "log format (console, json)")
	_ = a.viper.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = a.viper.BindPFlag("log.format", flags.Lookup("log-format"))

	root.AddCommand(
		newServeCmd(a),
		newPromptCmd(a),
		newRenderCmd(a),
		newValidateCmd(a),
		newConfigCmd(a),
	)
	return root
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load(a.viper, a.configPath)
	if err != nil {
		return err
	}
	logger, err := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	a.logger.Debug().Str("config", a.viper.ConfigFileUsed()).Msg("configuration loaded")
	return nil
}

// catalog registers the built-in theme and every configured manifest file.
func (a *app) catalog() (*themes.Catalog, error) {
	catalog := themes.NewCatalog(themes.WithDefaults(a.cfg.Theme.Name, a.cfg.Theme.Variant))
	if err := catalog.Register(themes.DefaultManifest(vanilla.DefaultAssetPrefix)); err != nil {
		return nil, err
	}
	for _, path := range a.cfg.Theme.Manifests {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading theme manifest: %w", err)
		}
		manifest, err := themes.ParseManifest(data, path)
		if err != nil {
			return nil, err
		}
		if err := catalog.Register(manifest); err != nil {
			return nil, err
		}
		a.logger.Debug().Str("theme", manifest.Name).Str("path", path).Msg("theme registered")
	}
	return catalog, nil
}

// orchestrator builds the form pipeline from configuration. A nil registry
// selects the default vanilla renderer.
func (a *app) orchestrator(registry *render.Registry) (*orchestrator.Orchestrator, *themes.Catalog, error) {
	catalog, err := a.catalog()
	if err != nil {
		return nil, nil, err
	}

	names := make([]string, 0, len(registration.MustModel().Fields))
	for _, field := range registration.MustModel().Fields {
		names = append(names, field.Name)
	}

	options := []orchestrator.Option{
		orchestrator.WithThemes(catalog, a.cfg.Theme.Name, a.cfg.Theme.Variant),
		orchestrator.WithDecorators(
			model.WithTitle(a.cfg.Event.Title, a.cfg.Event.Description),
			model.WithLabels(a.cfg.Event.FieldLabels(names)),
		),
	}
	if registry != nil {
		options = append(options, orchestrator.WithRegistry(registry))
	}
	orch := orchestrator.New(options...)
	if _, err := orch.Model(); err != nil {
		return nil, nil, err
	}
	return orch, catalog, nil
}
