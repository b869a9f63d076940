package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/prabalesh/brtop/internal/models"
	"github.com/prabalesh/brtop/internal/proctree"
)

type column struct {
	title string
	width int
	right bool
	sort  proctree.SortKey
	value func(r proctree.Row) string
}

const (
	graphWidth   = 10
	nameMinWidth = 12
	nameMaxWidth = 28
)

// columns picks the process table columns that fit in width.
func columns(width int, tree bool) []column {
	pid := column{"PID", 7, true, proctree.SortPID, func(r proctree.Row) string {
		if r.Synthetic {
			return ""
		}
		return strconv.Itoa(int(r.Info.PID))
	}}
	name := column{"NAME", 0, false, proctree.SortName, func(r proctree.Row) string {
		if tree {
			return treePrefix(r) + r.Info.Name
		}
		return r.Info.Name
	}}
	user := column{"USER", 9, false, proctree.SortUser, func(r proctree.Row) string {
		if r.Info.User == "" && r.Info.Partial {
			return "?"
		}
		return r.Info.User
	}}
	threads := column{"THR", 4, true, proctree.SortThreads, func(r proctree.Row) string {
		if r.Synthetic {
			return ""
		}
		return strconv.Itoa(int(r.Info.Threads))
	}}
	state := column{"S", 1, false, -1, func(r proctree.Row) string {
		if r.Synthetic {
			return ""
		}
		return r.Info.State.Short()
	}}
	cpu := column{"CPU%", 6, true, proctree.SortCPU, func(r proctree.Row) string {
		if r.Synthetic {
			return ""
		}
		return fmt.Sprintf("%.1f", r.Info.CPUPercent)
	}}
	mem := column{"MEM%", 6, true, proctree.SortMem, func(r proctree.Row) string {
		if r.Synthetic {
			return ""
		}
		return fmt.Sprintf("%.1f", r.Info.MemPercent)
	}}
	rss := column{"RSS", 9, true, -1, func(r proctree.Row) string {
		if r.Synthetic {
			return ""
		}
		return Bytes(r.Info.RSS)
	}}
	graph := column{"HISTORY", graphWidth, false, -1, func(r proctree.Row) string {
		return Sparkline(r.Info.CPUHistory, graphWidth, PercentScale)
	}}
	command := column{"COMMAND", 0, false, proctree.SortCommand, func(r proctree.Row) string {
		return r.Info.Command
	}}

	var cols []column
	switch {
	case width < 60:
		cols = []column{pid, name, cpu, mem}
	case width < 110:
		cols = []column{pid, name, user, threads, state, cpu, mem, rss, command}
	default:
		cols = []column{pid, name, user, threads, state, cpu, mem, rss, graph, command}
	}

	used := len(cols) - 1
	for _, c := range cols {
		used += c.width
	}
	rest := width - used

	hasCommand := cols[len(cols)-1].title == "COMMAND"
	nameW := rest
	if hasCommand {
		nameW = min(max(rest/3, nameMinWidth), nameMaxWidth)
		if tree {
			nameW = min(max(rest/2, nameMinWidth), nameMaxWidth+8)
		}
	}
	for i := range cols {
		switch cols[i].title {
		case "NAME":
			cols[i].width = max(nameW, 1)
		case "COMMAND":
			cols[i].width = max(rest-nameW, 0)
		}
	}
	if hasCommand && cols[len(cols)-1].width < 8 {
		cols = cols[:len(cols)-1]
	}
	return cols
}

// treePrefix draws the hierarchy guides in front of a name.
func treePrefix(r proctree.Row) string {
	var b strings.Builder
	for d := 1; d < r.Depth; d++ {
		if d < len(r.Guides) && r.Guides[d] {
			b.WriteString("│ ")
		} else {
			b.WriteString("  ")
		}
	}
	if r.Depth > 0 {
		if r.Last {
			b.WriteString("└─")
		} else {
			b.WriteString("├─")
		}
	}
	switch {
	case r.HasChildren && r.Collapsed:
		b.WriteString("+ ")
	case r.HasChildren:
		b.WriteString("- ")
	case r.Depth > 0:
		b.WriteString(" ")
	}
	return b.String()
}

func cell(c column, s string) string {
	if c.right {
		return padLeft(s, c.width)
	}
	return pad(s, c.width)
}

func (f *frame) processPanel(w, h int) string {
	v := f.View
	table := f.snap.Processes

	extra := ""
	if table != nil {
		c := table.Counts
		extra = DimStyle.Render(fmt.Sprintf("%d total, %d running, %d sleeping, %d zombie, %d threads",
			c.Total, c.Running, c.Sleeping, c.Zombie, c.Threads))
	}
	dir := "▼"
	if !v.Descending {
		dir = "▲"
	}
	mode := "list"
	if v.Tree {
		mode = "tree"
	}
	extra += " " + ValueStyle.Render(fmt.Sprintf("[%s %s %s]", v.SortKey, dir, mode))
	if v.Filter.Active() || v.FilterText != "" {
		extra += " " + WarningStyle.Render("filter: "+v.FilterText)
	}
	title := f.title("Processes", models.Process, extra)

	if table == nil {
		return box(title, f.placeholder(models.Process), w, h)
	}

	iw := w - 2
	cols := columns(iw, v.Tree)

	heads := make([]string, len(cols))
	for i, c := range cols {
		t := c.title
		if c.sort == v.SortKey {
			t += dir
		}
		heads[i] = cell(c, t)
	}
	lines := []string{TableHeaderStyle.Render(strings.Join(heads, " "))}

	rows := v.Rows()
	if len(rows) == 0 {
		msg := "no processes"
		if v.Filter.Active() {
			msg = "no process matches the filter"
		}
		return box(title, append(lines, DimStyle.Render(msg)), w, h)
	}

	visible := max(h-4, 1)
	start := min(v.Scroll, max(len(rows)-1, 0))
	end := min(start+visible, len(rows))
	for i := start; i < end; i++ {
		lines = append(lines, f.processRow(rows[i], cols, iw, v.HasSelection && i == v.Cursor))
	}
	return box(title, lines, w, h)
}

func (f *frame) processRow(r proctree.Row, cols []column, width int, selected bool) string {
	cells := make([]string, len(cols))
	for i, c := range cols {
		cells[i] = cell(c, c.value(r))
	}

	switch {
	case selected:
		return SelectedRowStyle.Width(width).Render(strings.Join(cells, " "))
	case r.ContextOnly || r.Synthetic:
		return ContextRowStyle.Render(strings.Join(cells, " "))
	}

	for i, c := range cols {
		switch c.title {
		case "CPU%":
			cells[i] = MetricStyle(r.Info.CPUPercent).Render(cells[i])
		case "HISTORY":
			cells[i] = MetricStyle(lastOf(r.Info.CPUHistory)).Render(cells[i])
		case "S":
			if r.Info.State == models.StateZombie {
				cells[i] = ErrorStyle.Render(cells[i])
			}
		}
	}
	return strings.Join(cells, " ")
}

func lastOf(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	return v[len(v)-1]
}
