package render

import (
	"context"

	"github.com/goliatone/go-formsession/pkg/session"
)

// Renderer turns the current state of a session into a byte representation
// (HTML markup, a terminal transcript).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, s *session.Session, options RenderOptions) ([]byte, error)
}
