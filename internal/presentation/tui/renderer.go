package tui

import (
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// A fixed style keeps the output stable when stdout is not a terminal.
func NewRenderer(style string) func(string) (string, error) {
	opt := glamour.WithAutoStyle() // Automatically detect light/dark background
	if style != "" {
		opt = glamour.WithStandardStyle(style)
	}
	r, err := glamour.NewTermRenderer(opt, glamour.WithWordWrap(100))
	if err != nil {
		return func(markdown string) (string, error) {
			return markdown, err
		}
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}
