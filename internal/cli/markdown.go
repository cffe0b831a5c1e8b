package cli

import (
	"log/slog"
	"strings"

	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer renders advisory replies, which models usually format as markdown.
type MarkdownRenderer struct {
	renderer *glamour.TermRenderer
}

// NewMarkdownRenderer creates a renderer wrapping at width columns. Style is
// a glamour style name such as "dark", "light" or "notty"; empty picks one
// from the terminal.
func NewMarkdownRenderer(width int, style string) (*MarkdownRenderer, error) {
	if width <= 0 {
		width = 80
	}

	styleOpt := glamour.WithAutoStyle()
	if style != "" {
		styleOpt = glamour.WithStandardStyle(style)
	}

	renderer, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		return nil, err
	}
	return &MarkdownRenderer{renderer: renderer}, nil
}

// Render returns text rendered for the terminal, or the raw text if rendering fails.
func (m *MarkdownRenderer) Render(text string) string {
	if m == nil || m.renderer == nil {
		return text
	}
	out, err := m.renderer.Render(text)
	if err != nil {
		slog.Debug("Markdown render failed", "error", err)
		return text
	}
	return strings.Trim(out, "\n")
}
