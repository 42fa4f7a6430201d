// Package config provides configuration types, defaults, and loading for the
// eventform commands.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to environment overrides (EVENTFORM_SERVER_ADDR).
const EnvPrefix = "EVENTFORM"

// DefaultPath is where the default config file is looked up and written.
const DefaultPath = ".eventform/config.yaml"

// Config holds all configuration options.
type Config struct {
	Server ServerConfig `mapstructure:"server" yaml:"server"`
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
	Event  EventConfig  `mapstructure:"event" yaml:"event"`
	Theme  ThemeConfig  `mapstructure:"theme" yaml:"theme"`
}

// ServerConfig configures the HTTP server and its session store.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr" yaml:"addr"`
	SessionTTL      time.Duration `mapstructure:"session_ttl" yaml:"session_ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval" yaml:"cleanup_interval"`
	LiveChanges     bool          `mapstructure:"live_changes" yaml:"live_changes"` // post every field change to /change
}

// LogConfig configures the zerolog logger.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"` // "console" or "json"
}

// EventConfig holds the texts shown around the form.
type EventConfig struct {
	Title       string            `mapstructure:"title" yaml:"title"`
	Description string            `mapstructure:"description" yaml:"description"` // HTML, sanitised before rendering
	Labels      map[string]string `mapstructure:"labels" yaml:"labels,omitempty"`
}

// ThemeConfig selects the theme and variant and lists extra manifests.
type ThemeConfig struct {
	Name      string   `mapstructure:"name" yaml:"name"`
	Variant   string   `mapstructure:"variant" yaml:"variant"`
	Manifests []string `mapstructure:"manifests" yaml:"manifests,omitempty"`
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			SessionTTL:      30 * time.Minute,
			CleanupInterval: 10 * time.Minute,
			LiveChanges:     true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Event: EventConfig{
			Title: "Event Registration Form",
		},
		Theme: ThemeConfig{
			Name:    "default",
			Variant: "light",
		},
	}
}

// SetDefaults registers every default on v so environment overrides resolve.
func SetDefaults(v *viper.Viper) {
	defaults := Defaults()
	v.SetDefault("server.addr", defaults.Server.Addr)
	v.SetDefault("server.session_ttl", defaults.Server.SessionTTL)
	v.SetDefault("server.cleanup_interval", defaults.Server.CleanupInterval)
	v.SetDefault("server.live_changes", defaults.Server.LiveChanges)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.format", defaults.Log.Format)
	v.SetDefault("event.title", defaults.Event.Title)
	v.SetDefault("event.description", defaults.Event.Description)
	v.SetDefault("theme.name", defaults.Theme.Name)
	v.SetDefault("theme.variant", defaults.Theme.Variant)
}

// Load reads configuration into a Config. When path is empty the file is
// looked up at DefaultPath and a missing file is not an error.
func Load(v *viper.Viper, path string) (Config, error) {
	if v == nil {
		v = viper.New()
	}
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Dir(DefaultPath))
		v.SetConfigName(strings.TrimSuffix(filepath.Base(DefaultPath), filepath.Ext(DefaultPath)))
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values the commands cannot run without.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.SessionTTL <= 0 {
		return fmt.Errorf("server.session_ttl must be positive, got %s", c.Server.SessionTTL)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json, got %q", c.Log.Format)
	}
	return nil
}

// FieldLabels resolves configured labels against field names. Viper lowercases
// map keys, so names are matched case-insensitively.
func (e EventConfig) FieldLabels(names []string) map[string]string {
	if len(e.Labels) == 0 {
		return nil
	}
	out := make(map[string]string, len(e.Labels))
	for key, label := range e.Labels {
		for _, name := range names {
			if strings.EqualFold(key, name) {
				out[name] = label
				break
			}
		}
	}
	return out
}

// WriteDefault writes the default configuration as YAML, creating the parent
// directory if needed.
func WriteDefault(path string) error {
	if path == "" {
		path = DefaultPath
	}
	data, err := yaml.Marshal(Defaults())
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	header := "# eventform configuration\n# Environment overrides use the " + EnvPrefix + "_ prefix, e.g. " + EnvPrefix + "_SERVER_ADDR.\n"
	if err := os.WriteFile(path, append([]byte(header), data...), 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
