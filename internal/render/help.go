package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type helpBinding struct {
	Key  string
	Desc string
}

var helpBindings = []helpBinding{
	{"q / Ctrl+C", "Quit"},
	{"Tab / S-Tab", "Next / previous panel"},
	{"1-7", "Jump to panel"},
	{"s / S", "Next / previous sort column"},
	{"P / M / N", "Sort by CPU / memory / pid"},
	{"r", "Reverse sort order"},
	{"t", "Toggle tree view"},
	{"/", "Filter processes"},
	{"Esc", "Clear filter / close"},
	{"↑↓ / k j", "Select process"},
	{"PgUp / PgDn", "Page through processes"},
	{"Home / End", "First / last process"},
	{"← → / - +", "Collapse / expand subtree"},
	{"Space", "Toggle subtree"},
	{"K / Del", "Kill selected process"},
	{"?", "Toggle this help"},
}

var (
	helpBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent).
			Padding(1, 2)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorValue).
			Bold(true).
			Width(14)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(ColorTitle)
)

func helpBox() string {
	lines := []string{HeaderStyle.Render("Keyboard Shortcuts"), ""}
	for _, b := range helpBindings {
		lines = append(lines, helpKeyStyle.Render(b.Key)+helpDescStyle.Render(b.Desc))
	}
	lines = append(lines, "", DimStyle.Render("Press ? to close"))
	return helpBoxStyle.Render(strings.Join(lines, "\n"))
}
