// Package mustache renders operator templates with mustache semantics:
// sections, {{escaped}} and {{{raw}}} values.
package mustache

import (
	"fmt"

	"github.com/cbroglie/mustache"

	"github.com/example/retrobot/internal/core/retro"
	"github.com/example/retrobot/internal/ports/secondary"
)

// Renderer implements secondary.Renderer.
type Renderer struct{}

// NewRenderer creates a Renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render renders tmpl against view. Parse failures wrap retro.ErrTemplate.
func (r *Renderer) Render(tmpl string, view map[string]any) (string, error) {
	out, err := mustache.Render(tmpl, view)
	if err != nil {
		return "", fmt.Errorf("%w: %v", retro.ErrTemplate, err)
	}
	return out, nil
}

// Ensure Renderer implements the interface
var _ secondary.Renderer = (*Renderer)(nil)
