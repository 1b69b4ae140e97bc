package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders chat text as markdown.
// An empty style detects light or dark backgrounds.
func NewRenderer(style string, width int) func(string) string {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	r, err := glamour.NewTermRenderer(opts...)
	return func(text string) string {
		if err != nil {
			return text
		}
		out, rerr := r.Render(text)
		if rerr != nil {
			return text
		}
		return strings.TrimSpace(out)
	}
}
