package themes

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	theme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-eventform/pkg/render"
)

// DefaultTheme and DefaultVariant name the built-in manifest.
const (
	DefaultTheme   = "default"
	DefaultVariant = "light"
)

type assetsFile struct {
	Prefix string            `json:"prefix" yaml:"prefix"`
	Files  map[string]string `json:"files" yaml:"files"`
}

type variantFile struct {
	Tokens    map[string]string `json:"tokens" yaml:"tokens"`
	Templates map[string]string `json:"templates" yaml:"templates"`
	Assets    assetsFile        `json:"assets" yaml:"assets"`
}

type manifestFile struct {
	Name      string                 `json:"name" yaml:"name"`
	Version   string                 `json:"version" yaml:"version"`
	Tokens    map[string]string      `json:"tokens" yaml:"tokens"`
	Templates map[string]string      `json:"templates" yaml:"templates"`
	Assets    assetsFile             `json:"assets" yaml:"assets"`
	Variants  map[string]variantFile `json:"variants" yaml:"variants"`
}

// DefaultManifest is the built-in theme: the bundled stylesheet with a light
// and a dark variant.
func DefaultManifest(assetPrefix string) *theme.Manifest {
	return &theme.Manifest{
		Name:    DefaultTheme,
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand":   "#2563eb",
			"surface": "#ffffff",
			"text":    "#111827",
			"muted":   "#6b7280",
			"danger":  "#b91c1c",
		},
		Assets: theme.Assets{
			Prefix: assetPrefix,
			Files: map[string]string{
				render.StylesheetAsset: "eventform.css",
			},
		},
		Variants: map[string]theme.Variant{
			"light": {},
			"dark": {
				Tokens: map[string]string{
					"brand":   "#60a5fa",
					"surface": "#111827",
					"text":    "#f9fafb",
					"muted":   "#9ca3af",
					"danger":  "#f87171",
				},
			},
		},
	}
}

// ParseManifest decodes a JSON or YAML manifest document.
func ParseManifest(data []byte, source string) (*theme.Manifest, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("themes: manifest %s is empty", source)
	}

	var doc manifestFile
	if err := json.Unmarshal(data, &doc); err != nil {
		doc = manifestFile{}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("themes: parse %s: invalid JSON or YAML: %w", source, err)
		}
	}

	name := strings.TrimSpace(doc.Name)
	if name == "" {
		return nil, fmt.Errorf("themes: manifest %s has no name", source)
	}

	manifest := &theme.Manifest{
		Name:      name,
		Version:   strings.TrimSpace(doc.Version),
		Tokens:    doc.Tokens,
		Templates: doc.Templates,
		Assets:    theme.Assets{Prefix: doc.Assets.Prefix, Files: doc.Assets.Files},
	}
	if manifest.Version == "" {
		manifest.Version = "0.0.0"
	}
	if len(doc.Variants) > 0 {
		manifest.Variants = make(map[string]theme.Variant, len(doc.Variants))
		for key, variant := range doc.Variants {
			variantName := strings.TrimSpace(key)
			if variantName == "" {
				return nil, fmt.Errorf("themes: manifest %s defines an empty variant name", source)
			}
			manifest.Variants[variantName] = theme.Variant{
				Tokens:    variant.Tokens,
				Templates: variant.Templates,
				Assets:    theme.Assets{Prefix: variant.Assets.Prefix, Files: variant.Assets.Files},
			}
		}
	}
	return manifest, nil
}

// LoadFS walks fsys and parses every JSON/YAML manifest it finds.
func LoadFS(fsys fs.FS) ([]*theme.Manifest, error) {
	if fsys == nil {
		return nil, nil
	}

	var manifests []*theme.Manifest
	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isManifestFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("themes: read %s: %w", path, err)
		}
		manifest, err := ParseManifest(data, path)
		if err != nil {
			return err
		}
		manifests = append(manifests, manifest)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return manifests, nil
}

func isManifestFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
