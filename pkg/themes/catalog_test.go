package themes

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-eventform/pkg/render"
)

func acmeManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    "acme",
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand": "#123456",
		},
		Templates: map[string]string{
			"forms.input": "themes/acme/input.tmpl",
		},
		Assets: theme.Assets{
			Prefix: "/assets/themes/acme",
			Files: map[string]string{
				render.StylesheetAsset: "theme.css",
			},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"brand": "#654321",
				},
				Templates: map[string]string{
					"forms.checkbox": "themes/acme/dark/checkbox.tmpl",
				},
				Assets: theme.Assets{
					Files: map[string]string{
						"eventform.script": "app.dark.js",
					},
				},
			},
		},
	}
}

func TestCatalog_SelectDefaults(t *testing.T) {
	catalog := NewCatalog()
	if err := catalog.Register(DefaultManifest("/assets")); err != nil {
		t.Fatalf("register: %v", err)
	}

	selection, err := catalog.Select("", "")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if selection.Theme != DefaultTheme || selection.Variant != DefaultVariant {
		t.Fatalf("unexpected selection %s/%s", selection.Theme, selection.Variant)
	}

	cfg, err := catalog.Resolve("", "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got := cfg.AssetURL(render.StylesheetAsset); got != "/assets/eventform.css" {
		t.Fatalf("unexpected stylesheet url %q", got)
	}
	if cfg.CSSVars["--brand"] != "#2563eb" {
		t.Fatalf("expected brand css var, got %#v", cfg.CSSVars)
	}
}

func TestCatalog_ResolveMergesVariant(t *testing.T) {
	catalog := NewCatalog(
		WithDefaults("acme", "dark"),
		WithFallbacks(map[string]string{
			"forms.input":  "templates/components/input.tmpl",
			"forms.select": "templates/components/select.tmpl",
		}),
	)
	if err := catalog.Register(acmeManifest()); err != nil {
		t.Fatalf("register: %v", err)
	}

	cfg, err := catalog.Resolve("", "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if cfg.Theme != "acme" || cfg.Variant != "dark" {
		t.Fatalf("unexpected theme %s/%s", cfg.Theme, cfg.Variant)
	}
	wantPartials := map[string]string{
		"forms.input":    "themes/acme/input.tmpl",
		"forms.select":   "templates/components/select.tmpl",
		"forms.checkbox": "themes/acme/dark/checkbox.tmpl",
	}
	if diff := cmp.Diff(wantPartials, cfg.Partials); diff != "" {
		t.Fatalf("partials mismatch (-want +got):\n%s", diff)
	}
	if cfg.Tokens["brand"] != "#654321" || cfg.CSSVars["--brand"] != "#654321" {
		t.Fatalf("variant tokens not applied: %#v %#v", cfg.Tokens, cfg.CSSVars)
	}
	if got := cfg.AssetURL("eventform.script"); got != "/assets/themes/acme/app.dark.js" {
		t.Fatalf("unexpected variant asset url %q", got)
	}
	if got := cfg.AssetURL(render.StylesheetAsset); got != "/assets/themes/acme/theme.css" {
		t.Fatalf("unexpected stylesheet url %q", got)
	}
	if got := cfg.AssetURL("missing"); got != "" {
		t.Fatalf("expected empty url for missing asset, got %q", got)
	}
}

func TestCatalog_SelectErrors(t *testing.T) {
	catalog := NewCatalog()
	if err := catalog.Register(acmeManifest()); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := catalog.Select("nope", ""); !errors.Is(err, ErrUnknownTheme) {
		t.Fatalf("expected ErrUnknownTheme, got %v", err)
	}
	if _, err := catalog.Select("acme", "sepia"); !errors.Is(err, ErrUnknownVariant) {
		t.Fatalf("expected ErrUnknownVariant, got %v", err)
	}
	if _, err := catalog.Select("acme", DefaultVariant); err != nil {
		t.Fatalf("expected implicit default variant to resolve, got %v", err)
	}
}

func TestCatalog_RegisterDuplicate(t *testing.T) {
	catalog := NewCatalog()
	if err := catalog.Register(acmeManifest()); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := catalog.Register(acmeManifest()); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
	if err := catalog.Register(&theme.Manifest{Version: "1.0.0"}); err == nil {
		t.Fatalf("expected nameless manifest to fail")
	}
	if diff := cmp.Diff([]string{"acme"}, catalog.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if catalog.Provider() == nil {
		t.Fatalf("expected provider")
	}
}

func TestLoadFS(t *testing.T) {
	files := fstest.MapFS{
		"themes/ocean.yaml": {Data: []byte(`
name: ocean
version: 2.0.0
tokens:
  brand: "#0077be"
assets:
  prefix: https://cdn.example.com/ocean/
  files:
    eventform.stylesheet: ocean.css
variants:
  night:
    tokens:
      brand: "#001f3f"
`)},
		"themes/sand.json": {Data: []byte(`{"name":"sand","tokens":{"brand":"#c2b280"}}`)},
		"themes/README.md": {Data: []byte("ignored")},
	}

	manifests, err := LoadFS(files)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	catalog := NewCatalog()
	if err := catalog.Register(manifests...); err != nil {
		t.Fatalf("register: %v", err)
	}
	if diff := cmp.Diff([]string{"ocean", "sand"}, catalog.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}

	cfg, err := catalog.Resolve("ocean", "night")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.CSSVars["--brand"] != "#001f3f" {
		t.Fatalf("expected night brand, got %#v", cfg.CSSVars)
	}
	if got := cfg.AssetURL(render.StylesheetAsset); got != "https://cdn.example.com/ocean/ocean.css" {
		t.Fatalf("unexpected cdn url %q", got)
	}
}

func TestParseManifestErrors(t *testing.T) {
	for name, data := range map[string]string{
		"empty":   "  ",
		"no name": "tokens:\n  brand: red\n",
		"invalid": "name: [unterminated",
	} {
		if _, err := ParseManifest([]byte(data), name); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestRendererConfig_NilSelection(t *testing.T) {
	if RendererConfig(nil, nil) != nil {
		t.Fatalf("expected nil config")
	}
}
