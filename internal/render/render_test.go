package render

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prabalesh/brtop/internal/errors"
	"github.com/prabalesh/brtop/internal/models"
	"github.com/prabalesh/brtop/internal/proctree"
	"github.com/prabalesh/brtop/internal/view"
)

var now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func sampleSnapshot() *models.SystemSnapshot {
	s := &models.SystemSnapshot{
		Version: 7,
		Host:    models.HostInfo{Hostname: "devbox", BootTime: now.Add(-26 * time.Hour)},
		CPU: &models.CPUSummary{
			Percent: models.RateSample{Instant: 42, Smoothed: 40},
			Cores:   []models.RateSample{{Instant: 10, Smoothed: 10}, {Instant: 95, Smoothed: 90}},
			History: []float64{10, 20, 42},
			Model:   "Test CPU",
		},
		Memory: &models.MemorySummary{Total: 8 << 30, Used: 4 << 30, UsagePercent: 50, History: []float64{50}},
		Network: &models.NetworkSummary{
			Interfaces: map[string]models.NetworkRate{
				"eth0": {Name: "eth0", Rx: models.RateSample{Instant: 1024}},
			},
			Rx:        models.RateSample{Instant: 1024},
			RxHistory: []float64{0, 1024},
			TxHistory: []float64{0, 0},
		},
		Disk: &models.DiskSummary{Mounts: map[string]models.DiskUsage{
			"/": {Mountpoint: "/", Total: 100 << 30, Used: 25 << 30, UsagePercent: 25},
		}},
		Processes: &models.ProcessTable{
			Processes: map[int32]models.ProcessInfo{
				1:  {PID: 1, Name: "init", User: "root", State: models.StateSleeping},
				42: {PID: 42, PPID: 1, Name: "vim", User: "alice", CPUPercent: 12.5, State: models.StateRunning},
			},
			Counts: models.ProcessCounts{Total: 2, Running: 1, Sleeping: 1},
		},
	}
	for _, sub := range models.Subsystems {
		s.Status[sub].State = models.OK
	}
	s.Status[models.Battery].State = models.Unavailable
	return s
}

func input(snap *models.SystemSnapshot, w, h int) Input {
	v := view.New(view.Options{SortKey: proctree.SortCPU, Descending: true})
	v.Apply(view.Action{Kind: view.Resize, Width: w, Height: h})
	if snap.Processes != nil {
		rows := proctree.NewBuilder().Build(snap.Processes.Processes, v.BuildOptions())
		v.Reconcile(rows, ProcessViewport(w, h, v.Tab, snap.Battery != nil))
	}
	return Input{Snapshot: snap, View: v, Width: w, Height: h, Now: now}
}

func assertFits(t *testing.T, out string, w, h int) {
	t.Helper()
	lines := strings.Split(out, "\n")
	assert.LessOrEqual(t, len(lines), h)
	for i, l := range lines {
		assert.LessOrEqual(t, lipgloss.Width(l), w, "line %d", i)
	}
}

func TestFrameTooSmall(t *testing.T) {
	out := Frame(input(sampleSnapshot(), 30, 8))
	assert.Contains(t, out, "Terminal too small: 30x8")
	assertFits(t, out, 30, 8)

	err := CheckSize(30, 8)
	assert.True(t, errors.IsCode(err, errors.ErrRenderTooSmall))
	assert.NoError(t, CheckSize(MinWidth, MinHeight))
}

func TestFrameOverview(t *testing.T) {
	for _, size := range [][2]int{{80, 24}, {120, 40}, {MinWidth, MinHeight}, {200, 60}} {
		w, h := size[0], size[1]
		out := Frame(input(sampleSnapshot(), w, h))
		assertFits(t, out, w, h)
		assert.Contains(t, out, "brtop")
	}

	out := Frame(input(sampleSnapshot(), 120, 40))
	assert.Contains(t, out, "devbox")
	assert.Contains(t, out, "up 1d 2h")
	assert.Contains(t, out, "12:00:00")
	assert.Contains(t, out, "Test CPU")
	assert.Contains(t, out, "vim")
	assert.Contains(t, out, "eth0")
	assert.Contains(t, out, "1.0 KiB/s")
	assert.False(t, Plan(120, 40, view.TabOverview, false).Has(PanelBattery))
}

func TestFrameDetailTabs(t *testing.T) {
	for tab := view.Tab(0); tab < view.NumTabs; tab++ {
		in := input(sampleSnapshot(), 100, 30)
		in.View.Apply(view.Action{Kind: view.SetTab, Tab: tab})
		out := Frame(in)
		assertFits(t, out, 100, 30)
	}

	in := input(sampleSnapshot(), 100, 30)
	in.View.Apply(view.Action{Kind: view.SetTab, Tab: view.TabBattery})
	assert.Contains(t, Frame(in), "not present on this system")
}

func TestFramePendingAndStale(t *testing.T) {
	snap := &models.SystemSnapshot{}
	out := Frame(input(snap, 80, 30))
	assert.Contains(t, out, "collecting…")

	snap = sampleSnapshot()
	snap.Status[models.Memory] = models.SubsystemStatus{State: models.Failed, LastError: "EIO"}
	out = Frame(input(snap, 100, 40))
	assert.Contains(t, out, "stale: EIO")
	assert.Contains(t, out, "memory!")
}

func TestFrameHelpOverlay(t *testing.T) {
	in := input(sampleSnapshot(), 80, 24)
	in.View.Apply(view.Action{Kind: view.ToggleHelp})
	out := Frame(in)
	assert.Contains(t, out, "Keyboard Shortcuts")
	assertFits(t, out, 80, 24)
}

func TestFrameFooter(t *testing.T) {
	in := input(sampleSnapshot(), 100, 30)
	in.View.Apply(view.Action{Kind: view.SetStatus, Text: "Sent SIGTERM to 42 (vim)", At: now})
	assert.Contains(t, Frame(in), "Sent SIGTERM to 42 (vim)")

	in = input(sampleSnapshot(), 120, 30)
	in.Debug = true
	in.Stats = NewStats()
	in.Stats.Record(2 * time.Millisecond)
	assert.Contains(t, Frame(in), "frames 1")
}

func TestNegotiate(t *testing.T) {
	units := []Unit{
		{Panels: []Panel{PanelCPU}, Min: 6, Weight: 1, Priority: 5},
		{Panels: []Panel{PanelDisk}, Min: 4, Weight: 1, Priority: 1},
		{Panels: []Panel{PanelProcess}, Min: 6, Weight: 2, Priority: 3},
	}

	got := Negotiate(units, 20)
	require.Len(t, got, 3)
	assert.Equal(t, []int{7, 5, 8}, []int{got[0].Height, got[1].Height, got[2].Height})

	got = Negotiate(units, 14)
	require.Len(t, got, 2, "disk has the lowest priority")
	assert.Equal(t, PanelCPU, got[0].Panels[0])
	assert.Equal(t, PanelProcess, got[1].Panels[0])
	assert.Equal(t, 14, got[0].Height+got[1].Height)

	assert.Empty(t, Negotiate(units, 3))
}

func TestPlanOmitsPanels(t *testing.T) {
	small := Plan(80, 20, view.TabOverview, false)
	assert.True(t, small.Has(PanelCPU))
	assert.True(t, small.Has(PanelProcess))
	assert.False(t, small.Has(PanelDisk))

	big := Plan(80, 60, view.TabOverview, true)
	assert.True(t, big.Has(PanelBattery))
	assert.True(t, big.Has(PanelDisk))

	wide := Plan(140, 40, view.TabOverview, false)
	require.Len(t, wide.Units, 3)
	assert.Equal(t, []Panel{PanelMemory, PanelNetwork, PanelDisk}, wide.Units[1].Panels)

	assert.Equal(t, 30-chromeLines-4, ProcessViewport(100, 30, view.TabProcesses, false))
}

func TestTreePrefix(t *testing.T) {
	tests := []struct {
		name string
		row  proctree.Row
		want string
	}{
		{"root with children", proctree.Row{Depth: 0, HasChildren: true}, "- "},
		{"collapsed", proctree.Row{Depth: 0, HasChildren: true, Collapsed: true}, "+ "},
		{"middle child", proctree.Row{Depth: 1, Guides: []bool{false}}, "├─ "},
		{"last grandchild", proctree.Row{Depth: 2, Last: true, Guides: []bool{false, true}}, "│ └─ "},
		{"grandchild of last", proctree.Row{Depth: 2, Guides: []bool{false, false}}, "  ├─ "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, treePrefix(tt.row))
		})
	}
}

func TestColumnsFillWidth(t *testing.T) {
	for _, w := range []int{38, 59, 80, 109, 160} {
		cols := columns(w, false)
		total := len(cols) - 1
		for _, c := range cols {
			total += c.width
		}
		assert.LessOrEqual(t, total, w, "width %d", w)
	}
	assert.Equal(t, "HISTORY", columns(160, false)[8].title)
}

func TestSparklineAndBraille(t *testing.T) {
	assert.Equal(t, "  ▁█", Sparkline([]float64{0, 100}, 4, PercentScale))
	assert.Equal(t, "█▁", Sparkline([]float64{0, 100, 0, 0}, 2, PercentScale), "peaks survive resampling")

	g := Braille([]float64{100, 100}, 2, 1, Scale{Max: 100}, ColorRx)
	assert.Equal(t, 2, lipgloss.Width(g))
	assert.Contains(t, g, "⣿")
	assert.Empty(t, Braille(nil, 0, 1, PercentScale, ColorRx))

	assert.Equal(t, Scale{Max: 1}, AutoScale(nil))
	assert.Equal(t, Scale{Max: 5}, AutoScale([]float64{1, 5}, []float64{2}))
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "1.0 KiB/s", Rate(1024))
	assert.Equal(t, "0 B/s", Rate(-5))
	assert.Equal(t, "2h 05m", Duration(2*time.Hour+5*time.Minute))
	assert.Equal(t, "3d 1h", Duration(73*time.Hour))
	assert.Equal(t, "-", Duration(0))
	assert.Equal(t, "ab…", truncate("abcdef", 3))
	assert.Equal(t, "ab  ", pad("ab", 4))
	assert.Equal(t, "  ab", padLeft("ab", 4))
}

func TestStats(t *testing.T) {
	s := NewStats()
	assert.Zero(t, s.Quantile(99))
	for i := 1; i <= 100; i++ {
		s.Record(time.Duration(i) * time.Millisecond)
	}
	assert.Equal(t, int64(100), s.Frames())
	assert.InDelta(t, float64(50*time.Millisecond), float64(s.Quantile(50)), float64(time.Millisecond))
	assert.InDelta(t, float64(99*time.Millisecond), float64(s.Quantile(99)), float64(time.Millisecond))
}

func TestFrameLagging(t *testing.T) {
	in := input(sampleSnapshot(), 100, 40)
	assert.NotContains(t, Frame(in), "lagging")
	in.Lagging[models.CPU] = true
	assert.Contains(t, Frame(in), "lagging")
}
