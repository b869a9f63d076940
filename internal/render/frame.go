// Package render composes dashboard frames. Frame is a pure function of its
// input: it reads the snapshot and view state and performs no I/O.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/prabalesh/brtop/internal/errors"
	"github.com/prabalesh/brtop/internal/models"
	"github.com/prabalesh/brtop/internal/view"
)

// Input is everything one frame depends on.
type Input struct {
	Snapshot *models.SystemSnapshot
	View     *view.State
	Width    int
	Height   int
	Now      time.Time

	// FilterLine is the rendered filter prompt while the filter is edited.
	FilterLine string
	// Hints replaces the default key hints in the footer.
	Hints      string
	Stats      *Stats
	Debug      bool

	// Lagging marks subsystems that are OK but have missed two cadences.
	Lagging [models.NumSubsystems]bool
}

type frame struct {
	Input
	snap   *models.SystemSnapshot
	layout Layout
}

// Frame renders a complete screen.
func Frame(in Input) string {
	if err := CheckSize(in.Width, in.Height); err != nil {
		return fitArea(lipgloss.Place(in.Width, in.Height, lipgloss.Center, lipgloss.Center,
			ErrorStyle.Render(errors.Summary(err))), in.Width, in.Height)
	}

	snap := in.Snapshot
	if snap == nil {
		snap = &models.SystemSnapshot{}
	}
	f := &frame{
		Input:  in,
		snap:   snap,
		layout: Plan(in.Width, in.Height, in.View.Tab, snap.Battery != nil),
	}

	var body string
	if in.View.Help {
		body = fitArea(lipgloss.Place(in.Width, f.layout.Height, lipgloss.Center, lipgloss.Center, helpBox()),
			in.Width, f.layout.Height)
	} else {
		body = f.body()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		f.header(),
		f.tabs(),
		body,
		f.footer(),
	)
}

func (f *frame) body() string {
	if len(f.layout.Units) == 0 {
		return lipgloss.Place(f.Width, f.layout.Height, lipgloss.Center, lipgloss.Center,
			DimStyle.Render("not enough room for any panel"))
	}

	parts := make([]string, 0, len(f.layout.Units))
	for _, u := range f.layout.Units {
		n := len(u.Panels)
		panels := make([]string, n)
		for i, p := range u.Panels {
			w := f.Width / n
			if i == n-1 {
				w = f.Width - w*(n-1)
			}
			panels[i] = f.panel(p, w, u.Height)
		}
		parts = append(parts, lipgloss.JoinHorizontal(lipgloss.Top, panels...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (f *frame) panel(p Panel, w, h int) string {
	detail := f.View.Tab != view.TabOverview
	switch p {
	case PanelCPU:
		return f.cpuPanel(w, h, detail)
	case PanelMemory:
		return f.memoryPanel(w, h, detail)
	case PanelNetwork:
		return f.networkPanel(w, h, detail)
	case PanelDisk:
		return f.diskPanel(w, h, detail)
	case PanelBattery:
		return f.batteryPanel(w, h)
	case PanelProcess:
		return f.processPanel(w, h)
	}
	return ""
}

func (f *frame) header() string {
	host := f.snap.Host
	left := TitleStyle.Render("brtop")
	if host.Hostname != "" {
		left += " " + ValueStyle.Render(host.Hostname)
	}
	if up := host.Uptime(f.Now); up > 0 {
		left += DimStyle.Render(" up " + Duration(up))
	}
	for _, sub := range models.Subsystems {
		if f.snap.Status[sub].State == models.Failed {
			left += ErrorStyle.Render(" " + sub.String() + "!")
		}
	}

	right := DimStyle.Render(f.Now.Format("15:04:05"))
	gap := f.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return lipgloss.NewStyle().MaxWidth(f.Width).Render(left)
	}
	return left + strings.Repeat(" ", gap) + right
}

func (f *frame) tabs() string {
	items := make([]string, 0, view.NumTabs)
	for t := view.Tab(0); t < view.NumTabs; t++ {
		label := fmt.Sprintf("%d %s", int(t)+1, t)
		if t == f.View.Tab {
			items = append(items, ActiveTabStyle.Render(label))
		} else {
			items = append(items, InactiveTabStyle.Render(label))
		}
	}
	return lipgloss.NewStyle().MaxWidth(f.Width).Render(lipgloss.JoinHorizontal(lipgloss.Top, items...))
}

func (f *frame) footer() string {
	v := f.View
	var left string
	switch {
	case v.PendingKill != nil:
		left = WarningStyle.Render(v.Status)
	case v.Filtering:
		left = f.FilterLine
	case v.StatusVisible(f.Now):
		if v.StatusErr {
			left = ErrorStyle.Render(v.Status)
		} else {
			left = SuccessStyle.Render(v.Status)
		}
	case f.Hints != "":
		left = f.Hints
	default:
		left = FooterStyle.Render("q quit • ? help • tab/1-7 panels • s sort • / filter • t tree • K kill")
	}

	if f.Debug && f.Stats != nil {
		right := DimStyle.Render(fmt.Sprintf("frames %d p50 %s p99 %s snap v%d",
			f.Stats.Frames(), f.Stats.Quantile(50), f.Stats.Quantile(99), f.snap.Version))
		if gap := f.Width - lipgloss.Width(left) - lipgloss.Width(right); gap >= 1 {
			return left + strings.Repeat(" ", gap) + right
		}
	}
	return lipgloss.NewStyle().MaxWidth(f.Width).Render(left)
}

// fitArea cuts s to at most w columns and h lines.
func fitArea(s string, w, h int) string {
	return lipgloss.NewStyle().MaxWidth(max(w, 1)).MaxHeight(max(h, 1)).Render(s)
}

// box draws a bordered panel of exactly w by h cells with title on the
// first line. Lines that do not fit are cut.
func box(title string, lines []string, w, h int) string {
	iw, ih := max(w-2, 1), max(h-2, 1)
	body := append([]string{title}, lines...)
	if len(body) > ih {
		body = body[:ih]
	}
	content := lipgloss.NewStyle().MaxWidth(iw).Render(strings.Join(body, "\n"))
	return PanelStyle.Width(iw).Height(ih).Render(content)
}

// title renders a panel title with the subsystem's freshness.
func (f *frame) title(name string, sub models.Subsystem, extra string) string {
	st := f.snap.Status[sub]
	t := TitleStyle.Render(name)
	if extra != "" {
		t += " " + extra
	}
	switch st.State {
	case models.Failed:
		t += ErrorStyle.Render(" stale: " + st.LastError)
	case models.Unavailable:
		t += DimStyle.Render(" unavailable")
	case models.OK:
		if f.Lagging[sub] {
			t += WarningStyle.Render(" lagging")
		}
	}
	return t
}

// placeholder returns the body of a panel with no value yet.
func (f *frame) placeholder(sub models.Subsystem) []string {
	switch f.snap.Status[sub].State {
	case models.Unavailable:
		return []string{DimStyle.Render("not present on this system")}
	case models.Failed:
		return []string{ErrorStyle.Render("read failed: " + f.snap.Status[sub].LastError)}
	default:
		return []string{DimStyle.Render("collecting…")}
	}
}
