package render

import (
	"fmt"

	"github.com/prabalesh/brtop/internal/errors"
	"github.com/prabalesh/brtop/internal/view"
)

// Smallest terminal the dashboard draws in.
const (
	MinWidth  = 40
	MinHeight = 10
)

// WideWidth is the width from which the overview places memory, network
// and disk side by side.
const WideWidth = 110

// chromeLines are the header, tab bar and footer.
const chromeLines = 3

type Panel int

const (
	PanelCPU Panel = iota
	PanelMemory
	PanelNetwork
	PanelDisk
	PanelBattery
	PanelProcess
)

func (p Panel) String() string {
	switch p {
	case PanelCPU:
		return "cpu"
	case PanelMemory:
		return "mem"
	case PanelNetwork:
		return "net"
	case PanelDisk:
		return "disk"
	case PanelBattery:
		return "battery"
	case PanelProcess:
		return "proc"
	default:
		return "?"
	}
}

// Unit is a horizontal band of one or more panels sharing a height.
// Min includes borders. Units with the lowest Priority are dropped first
// when space runs out; spare lines are shared by Weight.
type Unit struct {
	Panels   []Panel
	Min      int
	Weight   int
	Priority int
	Height   int
}

// Layout is the negotiated arrangement of one frame.
type Layout struct {
	Width, Height int
	Units         []Unit
}

// CheckSize returns a RENDER_TOO_SMALL error when the terminal cannot hold
// even the chrome and one panel.
func CheckSize(width, height int) error {
	if width < MinWidth || height < MinHeight {
		return errors.New(errors.ErrRenderTooSmall,
			fmt.Sprintf("Terminal too small: %dx%d", width, height),
			fmt.Sprintf("Resize to at least %dx%d", MinWidth, MinHeight))
	}
	return nil
}

// Plan negotiates the body layout for tab.
func Plan(width, height int, tab view.Tab, hasBattery bool) Layout {
	body := height - chromeLines
	var units []Unit
	switch tab {
	case view.TabCPU:
		units = []Unit{{Panels: []Panel{PanelCPU}, Min: 4, Weight: 1}}
	case view.TabMemory:
		units = []Unit{{Panels: []Panel{PanelMemory}, Min: 4, Weight: 1}}
	case view.TabNetwork:
		units = []Unit{{Panels: []Panel{PanelNetwork}, Min: 4, Weight: 1}}
	case view.TabDisk:
		units = []Unit{{Panels: []Panel{PanelDisk}, Min: 4, Weight: 1}}
	case view.TabBattery:
		units = []Unit{{Panels: []Panel{PanelBattery}, Min: 4, Weight: 1}}
	case view.TabProcesses:
		units = []Unit{{Panels: []Panel{PanelProcess}, Min: 4, Weight: 1}}
	default:
		units = overviewUnits(width, hasBattery)
	}
	return Layout{Width: width, Height: body, Units: Negotiate(units, body)}
}

func overviewUnits(width int, hasBattery bool) []Unit {
	if width >= WideWidth {
		middle := []Panel{PanelMemory, PanelNetwork, PanelDisk}
		if hasBattery {
			middle = append(middle, PanelBattery)
		}
		return []Unit{
			{Panels: []Panel{PanelCPU}, Min: 6, Weight: 3, Priority: 5},
			{Panels: middle, Min: 7, Weight: 2, Priority: 4},
			{Panels: []Panel{PanelProcess}, Min: 6, Weight: 5, Priority: 3},
		}
	}
	units := []Unit{
		{Panels: []Panel{PanelCPU}, Min: 6, Weight: 3, Priority: 5},
		{Panels: []Panel{PanelMemory}, Min: 5, Weight: 1, Priority: 4},
		{Panels: []Panel{PanelNetwork}, Min: 5, Weight: 1, Priority: 2},
		{Panels: []Panel{PanelDisk}, Min: 4, Weight: 1, Priority: 1},
	}
	if hasBattery {
		units = append(units, Unit{Panels: []Panel{PanelBattery}, Min: 4, Priority: 0})
	}
	return append(units, Unit{Panels: []Panel{PanelProcess}, Min: 6, Weight: 5, Priority: 3})
}

// Negotiate drops the lowest-priority units until the minimum heights fit
// in avail, then shares the spare lines by weight. Order is preserved.
func Negotiate(units []Unit, avail int) []Unit {
	kept := make([]bool, len(units))
	need := 0
	for i, u := range units {
		kept[i] = true
		need += u.Min
	}
	for need > avail {
		drop := -1
		for i, u := range units {
			if kept[i] && (drop < 0 || u.Priority < units[drop].Priority) {
				drop = i
			}
		}
		if drop < 0 {
			break
		}
		kept[drop] = false
		need -= units[drop].Min
	}

	var out []Unit
	totalWeight := 0
	for i, u := range units {
		if kept[i] {
			u.Height = u.Min
			out = append(out, u)
			totalWeight += u.Weight
		}
	}
	spare := avail - need
	if spare <= 0 || totalWeight == 0 {
		return out
	}

	given := 0
	for i := range out {
		extra := spare * out[i].Weight / totalWeight
		out[i].Height += extra
		given += extra
	}
	// rounding leftovers go to the weighted units in order
	for i := 0; given < spare; i = (i + 1) % len(out) {
		if out[i].Weight > 0 {
			out[i].Height++
			given++
		}
	}
	return out
}

// Has reports whether p is part of the layout.
func (l Layout) Has(p Panel) bool {
	for _, u := range l.Units {
		for _, q := range u.Panels {
			if q == p {
				return true
			}
		}
	}
	return false
}

// ProcessRows returns how many process rows fit in the layout.
func (l Layout) ProcessRows() int {
	for _, u := range l.Units {
		for _, p := range u.Panels {
			if p == PanelProcess {
				// borders, title, column header
				return max(u.Height-4, 1)
			}
		}
	}
	return 1
}

// ProcessViewport is the number of process rows visible for a terminal of
// the given size.
func ProcessViewport(width, height int, tab view.Tab, hasBattery bool) int {
	return Plan(width, height, tab, hasBattery).ProcessRows()
}
