package template

import (
	"io"
)

// TemplateRenderer renders named templates for the HTML renderers. Filters
// registered on it are available to every template it loads.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
}
