package template

import (
	"io"
)

// TemplateRenderer is the seam between page handlers and the template engine.
// RenderTemplate executes the named template with per-request data, returning
// the output and copying it to every non-nil writer in out.
type TemplateRenderer interface {
	RenderTemplate(name string, data map[string]any, out ...io.Writer) (string, error)
}
