// Package equation renders model formula strings for terminal display.
// Rendering is purely decorative: it goes through glamour when a renderer is
// available and silently falls back to the raw formula text otherwise.
package equation

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"iccview/internal/logger"
)

// Renderer renders formulas as terminal markdown. The zero value is usable
// and always falls back to plain text.
type Renderer struct {
	tr *glamour.TermRenderer
}

// NewRenderer creates a formula renderer. If the underlying markdown
// renderer cannot be constructed the returned Renderer still works and
// emits raw formula text.
func NewRenderer() *Renderer {
	tr, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		logger.Debug("Formula renderer unavailable, falling back to plain text", "error", err)
		return &Renderer{}
	}
	return &Renderer{tr: tr}
}

// Render returns the formula for display. Any rendering failure falls back
// to the raw formula string.
func (r *Renderer) Render(formula string) string {
	if r.tr == nil {
		return formula
	}
	out, err := r.tr.Render(fmt.Sprintf("`%s`", formula))
	if err != nil {
		logger.Debug("Formula rendering failed, falling back to plain text", "error", err)
		return formula
	}
	out = strings.TrimRight(out, "\n")
	if strings.TrimSpace(out) == "" {
		return formula
	}
	return out
}
