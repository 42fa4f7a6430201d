package vanilla

import (
	"maps"
	"slices"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// pageTheme is the theme block the page template sees.
type pageTheme struct {
	Name         string            `json:"name,omitempty"`
	Variant      string            `json:"variant,omitempty"`
	Partials     map[string]string `json:"partials,omitempty"`
	Tokens       map[string]string `json:"tokens,omitempty"`
	CSSVarsStyle string            `json:"cssVarsStyle,omitempty"`
}

func themeContext(cfg *theme.RendererConfig) pageTheme {
	if cfg == nil {
		return pageTheme{}
	}
	return pageTheme{
		Name:         cfg.Theme,
		Variant:      cfg.Variant,
		Partials:     maps.Clone(cfg.Partials),
		Tokens:       maps.Clone(cfg.Tokens),
		CSSVarsStyle: inlineCSSVars(cfg.CSSVars),
	}
}

// inlineCSSVars renders vars as a style attribute value. Values that could
// break out of the declaration are skipped.
func inlineCSSVars(vars map[string]string) string {
	var decls []string
	for _, key := range slices.Sorted(maps.Keys(vars)) {
		name, value := strings.TrimSpace(key), strings.TrimSpace(vars[key])
		if name == "" || value == "" || strings.ContainsAny(value, ";{}<>") {
			continue
		}
		decls = append(decls, "--"+strings.TrimPrefix(name, "--")+": "+value+";")
	}
	return strings.Join(decls, " ")
}
