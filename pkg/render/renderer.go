package render

import (
	"context"

	"github.com/goliatone/go-eventform/pkg/registration"
)

// Renderer turns a registration view into a byte representation (HTML,
// terminal text, JSON).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view registration.View, options RenderOptions) ([]byte, error)
}
