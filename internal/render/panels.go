package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/progress"

	"github.com/prabalesh/brtop/internal/models"
)

// coreCellWidth is "C12 ██████ 100%" plus a separating space.
const coreCellWidth = 17

// gauge renders a gradient meter of the given width.
func gauge(percent float64, width int) string {
	if width <= 0 {
		return ""
	}
	p := progress.New(progress.WithDefaultGradient(), progress.WithWidth(width), progress.WithoutPercentage())
	return p.ViewAs(clampPercent(percent) / 100)
}

func percentText(v float64) string {
	return MetricStyle(v).Render(fmt.Sprintf("%5.1f%%", v))
}

func (f *frame) cpuPanel(w, h int, detail bool) string {
	cpu := f.snap.CPU
	if cpu == nil {
		return box(f.title("CPU", models.CPU, ""), f.placeholder(models.CPU), w, h)
	}

	info := []string{percentText(cpu.Percent.Instant)}
	if cpu.Model != "" {
		info = append(info, DimStyle.Render(cpu.Model))
	}
	if cpu.MHz > 0 {
		info = append(info, DimStyle.Render(fmt.Sprintf("%.0f MHz", cpu.MHz)))
	}
	if cpu.HasTemp {
		info = append(info, MetricStyle(cpu.TempC).Render(fmt.Sprintf("%.0f°C", cpu.TempC)))
	}
	title := f.title("CPU", models.CPU, strings.Join(info, " "))

	iw, ih := w-2, h-3
	cores := coreLines(cpu.Cores, iw)
	graphH := ih - len(cores)
	if graphH < 2 && !detail {
		cores, graphH = nil, ih
	}

	var lines []string
	if graphH > 0 {
		lines = append(lines, strings.Split(Braille(cpu.History, iw, graphH, PercentScale, ColorTitle), "\n")...)
	}
	return box(title, append(lines, cores...), w, h)
}

// coreLines lays per-core meters out in as many columns as fit.
func coreLines(cores []models.RateSample, width int) []string {
	if len(cores) == 0 {
		return nil
	}
	cols := max(width/coreCellWidth, 1)
	rows := (len(cores) + cols - 1) / cols

	lines := make([]string, rows)
	for i, c := range cores {
		// column-major so core numbers read downwards
		r := i % rows
		cell := fmt.Sprintf("%s %s %s", LabelStyle.Render(fmt.Sprintf("C%-2d", i)), Bar(c.Smoothed, 6), MetricStyle(c.Instant).Render(fmt.Sprintf("%3.0f%%", c.Instant)))
		if lines[r] != "" {
			lines[r] += " "
		}
		lines[r] += cell
	}
	return lines
}

func (f *frame) memoryPanel(w, h int, detail bool) string {
	mem := f.snap.Memory
	if mem == nil {
		return box(f.title("Memory", models.Memory, ""), f.placeholder(models.Memory), w, h)
	}

	iw := w - 2
	barW := max(iw-32, 4)
	lines := []string{
		fmt.Sprintf("%s %s %s %s", LabelStyle.Render("Used "), gauge(mem.UsagePercent, barW), percentText(mem.UsagePercent),
			ValueStyle.Render(Bytes(mem.Used)+"/"+Bytes(mem.Total))),
		fmt.Sprintf("%s %s  %s %s  %s %s",
			LabelStyle.Render("Avail"), ValueStyle.Render(Bytes(mem.Available)),
			LabelStyle.Render("Cached"), ValueStyle.Render(Bytes(mem.Cached)),
			LabelStyle.Render("Free"), ValueStyle.Render(Bytes(mem.Free))),
	}
	if mem.SwapTotal > 0 {
		lines = append(lines, fmt.Sprintf("%s %s %s %s", LabelStyle.Render("Swap "), gauge(mem.SwapPercent, barW), percentText(mem.SwapPercent),
			ValueStyle.Render(Bytes(mem.SwapUsed)+"/"+Bytes(mem.SwapTotal))))
	} else {
		lines = append(lines, LabelStyle.Render("Swap ")+" "+DimStyle.Render("none"))
	}

	if graphH := h - 3 - len(lines); graphH > 0 {
		lines = append(lines, strings.Split(Braille(mem.History, iw, graphH, PercentScale, ColorTitle), "\n")...)
	}
	return box(f.title("Memory", models.Memory, ""), lines, w, h)
}

func (f *frame) networkPanel(w, h int, detail bool) string {
	net := f.snap.Network
	if net == nil {
		return box(f.title("Network", models.Network, ""), f.placeholder(models.Network), w, h)
	}

	iw, ih := w-2, h-3
	totals := fmt.Sprintf("%s %s  %s %s",
		RxStyle.Render("↓"), ValueStyle.Render(Rate(net.Rx.Instant)),
		TxStyle.Render("↑"), ValueStyle.Render(Rate(net.Tx.Instant)))

	names := make([]string, 0, len(net.Interfaces))
	for name := range net.Interfaces {
		names = append(names, name)
	}
	sort.Strings(names)

	var ifaces []string
	for _, name := range names {
		r := net.Interfaces[name]
		line := fmt.Sprintf("%s ↓ %s ↑ %s", LabelStyle.Render(pad(name, 10)), padLeft(Rate(r.Rx.Instant), 11), padLeft(Rate(r.Tx.Instant), 11))
		if iw >= 70 {
			line += DimStyle.Render(fmt.Sprintf("  total ↓ %s ↑ %s", Bytes(r.RxTotal), Bytes(r.TxTotal)))
		}
		ifaces = append(ifaces, line)
	}

	// graphs get what is left after the interface list, at least two rows
	listH := len(ifaces)
	if !detail {
		listH = min(listH, max(ih-1-4, 0))
	} else {
		listH = min(listH, max(ih-1-2, 0))
	}
	graphH := ih - 1 - listH

	lines := []string{totals}
	if graphH >= 2 {
		scale := AutoScale(net.RxHistory, net.TxHistory)
		rxH := graphH / 2
		lines = append(lines, strings.Split(Braille(net.RxHistory, iw, rxH, scale, ColorRx), "\n")...)
		lines = append(lines, strings.Split(Braille(net.TxHistory, iw, graphH-rxH, scale, ColorTx), "\n")...)
	}
	lines = append(lines, ifaces[:listH]...)
	return box(f.title("Network", models.Network, ""), lines, w, h)
}

func (f *frame) diskPanel(w, h int, detail bool) string {
	disk := f.snap.Disk
	if disk == nil {
		return box(f.title("Disk", models.Disk, ""), f.placeholder(models.Disk), w, h)
	}

	mounts := make([]string, 0, len(disk.Mounts))
	for mp := range disk.Mounts {
		mounts = append(mounts, mp)
	}
	sort.Strings(mounts)

	iw := w - 2
	showIO := iw >= 60
	barW := max(min(iw-40, 20), 4)
	if showIO {
		barW = max(min(iw-64, 20), 4)
	}

	var lines []string
	for _, mp := range mounts {
		d := disk.Mounts[mp]
		line := fmt.Sprintf("%s %s %s %s", LabelStyle.Render(pad(mp, 12)), Bar(d.UsagePercent, barW), percentText(d.UsagePercent),
			ValueStyle.Render(padLeft(Bytes(d.Used)+"/"+Bytes(d.Total), 19)))
		if showIO && d.HasIO {
			line += DimStyle.Render(fmt.Sprintf(" r %s w %s", padLeft(Rate(d.Read.Instant), 11), padLeft(Rate(d.Write.Instant), 11)))
		}
		lines = append(lines, line)
		if detail {
			lines = append(lines, DimStyle.Render(fmt.Sprintf("  %s %s, free %s", d.Device, d.Filesystem, Bytes(d.Free))))
		}
	}
	if len(lines) == 0 {
		lines = append(lines, DimStyle.Render("no mounted filesystems"))
	}
	return box(f.title("Disk", models.Disk, ""), lines, w, h)
}

func (f *frame) batteryPanel(w, h int) string {
	bat := f.snap.Battery
	if bat == nil {
		return box(f.title("Battery", models.Battery, ""), f.placeholder(models.Battery), w, h)
	}

	statusStyle := SuccessStyle
	switch {
	case bat.Level < 20:
		statusStyle = ErrorStyle
	case bat.Level < 50:
		statusStyle = WarningStyle
	}

	iw := w - 2
	lines := []string{
		fmt.Sprintf("%s %s %s", gauge(bat.Level, max(iw-20, 4)), statusStyle.Render(fmt.Sprintf("%3.0f%%", bat.Level)), ValueStyle.Render(string(bat.Status))),
	}

	var details []string
	switch {
	case bat.TimeToEmpty > 0:
		details = append(details, LabelStyle.Render("Left")+" "+ValueStyle.Render(Duration(bat.TimeToEmpty)))
	case bat.TimeToFull > 0:
		details = append(details, LabelStyle.Render("Full in")+" "+ValueStyle.Render(Duration(bat.TimeToFull)))
	}
	if bat.PowerWatts > 0 {
		details = append(details, LabelStyle.Render("Power")+" "+ValueStyle.Render(fmt.Sprintf("%.1f W", bat.PowerWatts)))
	}
	if bat.Health > 0 {
		details = append(details, LabelStyle.Render("Health")+" "+ValueStyle.Render(fmt.Sprintf("%.0f%%", bat.Health)))
	}
	if len(details) > 0 {
		lines = append(lines, strings.Join(details, "  "))
	}
	return box(f.title("Battery", models.Battery, DimStyle.Render(bat.Name)), lines, w, h)
}
