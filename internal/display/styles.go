// Package display renders cards, table snapshots and summaries for the
// terminal.
package display

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles contains all styling for terminal output
type Styles struct {
	Header     lipgloss.Style
	Label      lipgloss.Style
	RedCard    lipgloss.Style
	BlackCard  lipgloss.Style
	HiddenCard lipgloss.Style
	Active     lipgloss.Style
	Folded     lipgloss.Style

	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
}

// Renderer writes styled output for one terminal.
type Renderer struct {
	lg     *lipgloss.Renderer
	styles Styles
}

// New creates a renderer for w. With color off every style renders as plain
// text.
func New(w io.Writer, color bool) *Renderer {
	lg := lipgloss.NewRenderer(w)
	if !color {
		lg.SetColorProfile(termenv.Ascii)
	}
	return &Renderer{lg: lg, styles: newStyles(lg)}
}

func newStyles(lg *lipgloss.Renderer) Styles {
	return Styles{
		Header: lg.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			Bold(true),
		Label: lg.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true),
		RedCard: lg.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
		BlackCard: lg.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FAFAFA"}).
			Bold(true),
		HiddenCard: lg.NewStyle().
			Foreground(lipgloss.Color("#626262")),
		Active: lg.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true),
		Folded: lg.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			Strikethrough(true),
		Success: lg.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true),
		Error: lg.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
		Warning: lg.NewStyle().
			Foreground(lipgloss.Color("#FFEAA7")).
			Bold(true),
		Info: lg.NewStyle().
			Foreground(lipgloss.Color("#626262")),
	}
}

// Styles returns the renderer's styles.
func (r *Renderer) Styles() Styles {
	return r.styles
}
