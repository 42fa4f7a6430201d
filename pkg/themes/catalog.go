package themes

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
)

var (
	// ErrUnknownTheme is returned when a theme name is not registered.
	ErrUnknownTheme = errors.New("themes: unknown theme")
	// ErrUnknownVariant is returned when a manifest has no such variant.
	ErrUnknownVariant = errors.New("themes: unknown variant")
)

// Catalog registers manifests with a go-theme registry and selects between
// them. It satisfies theme.ThemeSelector.
type Catalog struct {
	mu             sync.RWMutex
	provider       theme.ThemeProvider
	register       func(*theme.Manifest) error
	manifests      map[string]*theme.Manifest
	defaultTheme   string
	defaultVariant string
	fallbacks      map[string]string
}

var _ theme.ThemeSelector = (*Catalog)(nil)

// CatalogOption configures a Catalog.
type CatalogOption func(*Catalog)

// WithDefaults sets the theme and variant used when a request names none.
func WithDefaults(name, variant string) CatalogOption {
	return func(c *Catalog) {
		if name = strings.TrimSpace(name); name != "" {
			c.defaultTheme = name
		}
		c.defaultVariant = strings.TrimSpace(variant)
	}
}

// WithFallbacks sets partial templates applied when a manifest does not
// override them.
func WithFallbacks(fallbacks map[string]string) CatalogOption {
	return func(c *Catalog) {
		c.fallbacks = copyStringMap(fallbacks)
	}
}

// NewCatalog creates an empty catalog backed by a fresh go-theme registry.
func NewCatalog(options ...CatalogOption) *Catalog {
	registry := theme.NewRegistry()
	c := &Catalog{
		provider:       registry,
		register:       registry.Register,
		manifests:      make(map[string]*theme.Manifest),
		defaultTheme:   DefaultTheme,
		defaultVariant: DefaultVariant,
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Register adds manifests. Names must be unique across the catalog.
func (c *Catalog) Register(manifests ...*theme.Manifest) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, manifest := range manifests {
		if manifest == nil {
			continue
		}
		name := strings.TrimSpace(manifest.Name)
		if name == "" {
			return errors.New("themes: manifest name is required")
		}
		if _, exists := c.manifests[name]; exists {
			return fmt.Errorf("themes: theme %q already registered", name)
		}
		if err := c.register(manifest); err != nil {
			return fmt.Errorf("themes: register %q: %w", name, err)
		}
		c.manifests[name] = manifest
	}
	return nil
}

// Provider exposes the underlying go-theme registry.
func (c *Catalog) Provider() theme.ThemeProvider {
	return c.provider
}

// Names lists registered theme names in sorted order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.manifests))
	for name := range c.manifests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select resolves name and variant, falling back to the catalog defaults when
// either is empty. A variant the manifest does not define is an error unless
// it is the default variant, which may be implicit.
func (c *Catalog) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	name = strings.TrimSpace(name)
	if name == "" {
		name = c.defaultTheme
	}
	manifest, ok := c.manifests[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}

	variant = strings.TrimSpace(variant)
	if variant == "" {
		variant = c.defaultVariant
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok && variant != c.defaultVariant {
			return nil, fmt.Errorf("%w: %q has no variant %q", ErrUnknownVariant, name, variant)
		}
	}

	return &theme.Selection{
		Theme:    name,
		Variant:  variant,
		Manifest: manifest,
	}, nil
}

// Resolve selects a theme and builds its renderer configuration.
func (c *Catalog) Resolve(name, variant string) (*theme.RendererConfig, error) {
	selection, err := c.Select(name, variant)
	if err != nil {
		return nil, err
	}
	return RendererConfig(selection, c.fallbacks), nil
}

// RendererConfig flattens a selection into what renderers consume: variant
// tokens and templates override the base manifest, fallbacks fill partials
// neither defines, every token becomes a "--name" CSS variable, and AssetURL
// joins the asset prefix with the file for a key.
func RendererConfig(selection *theme.Selection, fallbacks map[string]string) *theme.RendererConfig {
	if selection == nil {
		return nil
	}

	cfg := &theme.RendererConfig{
		Theme:   selection.Theme,
		Variant: selection.Variant,
	}

	partials := copyStringMap(fallbacks)
	tokens := map[string]string{}
	assets := theme.Assets{}

	if manifest := selection.Manifest; manifest != nil {
		partials = mergeStringMap(partials, manifest.Templates)
		tokens = mergeStringMap(tokens, manifest.Tokens)
		assets.Prefix = manifest.Assets.Prefix
		assets.Files = copyStringMap(manifest.Assets.Files)

		if variant, ok := manifest.Variants[selection.Variant]; ok {
			partials = mergeStringMap(partials, variant.Templates)
			tokens = mergeStringMap(tokens, variant.Tokens)
			if prefix := strings.TrimSpace(variant.Assets.Prefix); prefix != "" {
				assets.Prefix = prefix
			}
			assets.Files = mergeStringMap(assets.Files, variant.Assets.Files)
		}
	}

	cfg.Partials = partials
	cfg.Tokens = tokens
	cfg.CSSVars = make(map[string]string, len(tokens))
	for key, value := range tokens {
		cfg.CSSVars["--"+key] = value
	}
	cfg.AssetURL = assetResolver(assets)
	return cfg
}

func assetResolver(assets theme.Assets) func(string) string {
	return func(key string) string {
		file := strings.TrimSpace(assets.Files[key])
		if file == "" {
			return ""
		}
		if strings.HasPrefix(file, "/") || strings.Contains(file, "://") {
			return file
		}
		prefix := strings.TrimSpace(assets.Prefix)
		if prefix == "" {
			return file
		}
		if strings.Contains(prefix, "://") {
			return strings.TrimRight(prefix, "/") + "/" + file
		}
		return path.Join(prefix, file)
	}
}

func copyStringMap(in map[string]string) map[string]string {
	if len(in) == 0 {
		return map[string]string{}
	}
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

func mergeStringMap(dst, src map[string]string) map[string]string {
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	for key, value := range src {
		dst[key] = value
	}
	return dst
}
