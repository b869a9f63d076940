package ui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"github.com/prabalesh/brtop/internal/render"
)

var (
	// Filter prompt styles
	FilterPromptStyle = lipgloss.NewStyle().
				Foreground(render.ColorAccent).
				Bold(true)

	FilterTextStyle = lipgloss.NewStyle().
			Foreground(render.ColorValue)

	FilterPlaceholderStyle = lipgloss.NewStyle().
				Foreground(render.ColorMuted).
				Italic(true)

	// Footer hint styles
	HintKeyStyle = lipgloss.NewStyle().
			Foreground(render.ColorTitle).
			Bold(true)

	HintDescStyle = lipgloss.NewStyle().
			Foreground(render.ColorMuted)

	HintSepStyle = lipgloss.NewStyle().
			Foreground(render.ColorBorder)
)

// newHelp returns the footer hint renderer.
func newHelp() help.Model {
	h := help.New()
	h.ShortSeparator = " • "
	h.Styles.ShortKey = HintKeyStyle
	h.Styles.ShortDesc = HintDescStyle
	h.Styles.ShortSeparator = HintSepStyle
	h.Styles.Ellipsis = HintSepStyle
	return h
}
