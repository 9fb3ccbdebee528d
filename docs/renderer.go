package docs

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// Renderer produces styled connector documentation from markdown. The
// options are fixed platform-wide; callers never configure styling.
type Renderer struct {
	term *glamour.TermRenderer
}

// NewRenderer builds the platform renderer. Construction failure leaves the
// renderer in plain-text mode instead of returning an error; documentation
// display must never block a form.
func NewRenderer() *Renderer {
	term, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dracula"),
		glamour.WithWordWrap(80),
		glamour.WithEmoji(),
	)
	if err != nil {
		return &Renderer{}
	}

	return &Renderer{term: term}
}

// Render converts markdown into styled output. Absent text renders empty;
// anything the parser rejects degrades to the raw text. Raw HTML never
// reaches the output, the underlying goldmark pipeline drops it.
func (r *Renderer) Render(markdown string) string {
	if strings.TrimSpace(markdown) == "" {
		return ""
	}
	if r.term == nil {
		return markdown
	}

	rendered, err := r.term.Render(markdown)
	if err != nil {
		return markdown
	}

	return rendered
}
