package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Thresholds for metric severity levels.
const (
	WarningThreshold  = 70.0
	CriticalThreshold = 90.0
)

const (
	ColorBorder    = lipgloss.Color("240")
	ColorAccent    = lipgloss.Color("205")
	ColorTitle     = lipgloss.Color("86")
	ColorValue     = lipgloss.Color("220")
	ColorMuted     = lipgloss.Color("241")
	ColorHealthy   = lipgloss.Color("46")
	ColorWarning   = lipgloss.Color("226")
	ColorCritical  = lipgloss.Color("196")
	ColorRx        = lipgloss.Color("36")
	ColorTx        = lipgloss.Color("205")
	ColorSelection = lipgloss.Color("240")
)

var (
	PanelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorTitle).
			Bold(true)

	// Tab styles
	TabStyle = lipgloss.NewStyle().
			Padding(0, 1)

	ActiveTabStyle = TabStyle.
			Foreground(lipgloss.Color("36")).
			Bold(true).
			Underline(true)

	InactiveTabStyle = TabStyle.
				Foreground(ColorMuted)

	// Data styles
	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTitle).
			Bold(true)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorValue)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// Status styles
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorHealthy)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorCritical)

	// Table styles
	TableHeaderStyle = lipgloss.NewStyle().
				Foreground(ColorAccent).
				Bold(true)

	SelectedRowStyle = lipgloss.NewStyle().
				Background(ColorSelection).
				Foreground(lipgloss.Color("15")).
				Bold(true)

	ContextRowStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Faint(true)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	RxStyle = lipgloss.NewStyle().Foreground(ColorRx)
	TxStyle = lipgloss.NewStyle().Foreground(ColorTx)
)

// MetricColor returns green below 70%, yellow below 90% and red above.
func MetricColor(percent float64) lipgloss.Color {
	switch {
	case percent >= CriticalThreshold:
		return ColorCritical
	case percent >= WarningThreshold:
		return ColorWarning
	default:
		return ColorHealthy
	}
}

func MetricStyle(percent float64) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(MetricColor(percent))
}

// Bar renders a compact meter colored by severity.
func Bar(percent float64, width int) string {
	if width <= 0 {
		return ""
	}
	percent = clampPercent(percent)

	filled := int(percent / 100 * float64(width))
	if filled > width {
		filled = width
	}
	return MetricStyle(percent).Render(strings.Repeat("█", filled)) +
		DimStyle.Render(strings.Repeat("░", width-filled))
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
