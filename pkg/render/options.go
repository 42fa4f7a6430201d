package render

import (
	theme "github.com/goliatone/go-theme"
)

// RenderOptions describe per-request data that renderers can use to customise
// their output without touching the form instance.
type RenderOptions struct {
	// ChangeEndpoint receives single field updates (for example the guest
	// select) so the page can re-render without validating. Empty disables the
	// live update hook.
	ChangeEndpoint string
	// Hidden inputs emitted inside the form element, such as the session
	// token.
	Hidden map[string]string
	// Stylesheet is the URL of the page stylesheet. Theme assets win when the
	// theme resolves a "eventform.stylesheet" asset.
	Stylesheet string
	// Theme carries the resolved go-theme selection: tokens, CSS variables and
	// asset lookups.
	Theme *theme.RendererConfig
	// FormErrors are messages not tied to a single field, for example a
	// malformed API payload.
	FormErrors []string
}

// StylesheetAsset is the theme asset key for the page stylesheet.
const StylesheetAsset = "eventform.stylesheet"

// StylesheetURL resolves the stylesheet, preferring the theme asset.
func (o RenderOptions) StylesheetURL() string {
	if o.Theme != nil && o.Theme.AssetURL != nil {
		if url := o.Theme.AssetURL(StylesheetAsset); url != "" {
			return url
		}
	}
	return o.Stylesheet
}
