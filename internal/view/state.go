// Package view holds the interactive dashboard state. State is owned by the
// coordinator goroutine; Apply and Reconcile perform no I/O.
package view

import (
	"fmt"
	"time"

	"github.com/prabalesh/brtop/internal/errors"
	"github.com/prabalesh/brtop/internal/models"
	"github.com/prabalesh/brtop/internal/proctree"
)

// StatusTTL is how long a transient status message stays visible.
const StatusTTL = 4 * time.Second

type Tab int

const (
	TabOverview Tab = iota
	TabCPU
	TabMemory
	TabProcesses
	TabNetwork
	TabDisk
	TabBattery

	NumTabs
)

var tabNames = [NumTabs]string{"Overview", "CPU", "Memory", "Processes", "Network", "Disk", "Battery"}

func (t Tab) String() string {
	if t < 0 || t >= NumTabs {
		return "Unknown"
	}
	return tabNames[t]
}

// KillRequest is a kill waiting for confirmation.
type KillRequest struct {
	PID  int32
	Name string
}

// State is the view state of the dashboard.
type State struct {
	Tab  Tab
	Help bool

	SortKey    proctree.SortKey
	Descending bool
	Tree       bool
	// Collapsed maps a pid to the start time of the collapsed process.
	Collapsed map[int32]time.Time

	FilterText string
	Filter     proctree.Filter
	// Filtering is set while the filter input has focus.
	Filtering bool

	// Selected is the pid under the cursor; valid when HasSelection.
	Selected     int32
	HasSelection bool
	Cursor       int
	Scroll       int

	ConfirmKill bool
	PendingKill *KillRequest

	Status    string
	StatusErr bool
	StatusAt  time.Time

	Width, Height int

	rows     []proctree.Row
	viewport int
}

// Options seeds a State.
type Options struct {
	SortKey     proctree.SortKey
	Descending  bool
	Tree        bool
	Filter      string
	ConfirmKill bool
}

func New(opts Options) *State {
	s := &State{
		SortKey:     opts.SortKey,
		Descending:  opts.Descending,
		Tree:        opts.Tree,
		ConfirmKill: opts.ConfirmKill,
		Collapsed:   make(map[int32]time.Time),
		viewport:    1,
	}
	if opts.Filter != "" {
		s.setFilter(opts.Filter, time.Time{})
	}
	return s
}

// BuildOptions returns the process table options for the current state.
func (s *State) BuildOptions() proctree.Options {
	return proctree.Options{
		Tree:       s.Tree,
		SortKey:    s.SortKey,
		Descending: s.Descending,
		Filter:     s.Filter,
		Collapsed:  s.Collapsed,
	}
}

// Prune drops collapse state for processes that are gone from procs or whose
// pid now belongs to a different process.
func (s *State) Prune(procs map[int32]models.ProcessInfo) {
	for pid, start := range s.Collapsed {
		if p, ok := procs[pid]; !ok || !p.StartTime.Equal(start) {
			delete(s.Collapsed, pid)
		}
	}
}

// Rows returns the rows last passed to Reconcile.
func (s *State) Rows() []proctree.Row { return s.rows }

// Viewport returns the number of visible process rows.
func (s *State) Viewport() int { return s.viewport }

// SelectedRow returns the row under the cursor.
func (s *State) SelectedRow() (proctree.Row, bool) {
	if !s.HasSelection || s.Cursor < 0 || s.Cursor >= len(s.rows) {
		return proctree.Row{}, false
	}
	return s.rows[s.Cursor], true
}

// StatusVisible reports whether the status message should still be shown.
func (s *State) StatusVisible(now time.Time) bool {
	return s.Status != "" && now.Sub(s.StatusAt) < StatusTTL
}

// Reconcile installs freshly built rows. The selection follows its pid; if
// the pid is gone it moves to the nearest selectable row. Scroll is clamped
// so the cursor stays inside a viewport of the given height.
func (s *State) Reconcile(rows []proctree.Row, viewport int) {
	prevCursor := s.Cursor
	s.rows = rows
	s.viewport = max(viewport, 1)

	idx := -1
	if s.HasSelection {
		for i, r := range rows {
			if r.Selectable() && r.Info.PID == s.Selected {
				idx = i
				break
			}
		}
	}
	if idx < 0 {
		idx = s.nearestSelectable(min(prevCursor, len(rows)-1))
	}
	s.selectIndex(idx)
	s.clampScroll()

	if s.PendingKill != nil && (!s.HasSelection || s.Selected != s.PendingKill.PID) {
		s.PendingKill = nil
	}
}

func (s *State) nearestSelectable(from int) int {
	if from < 0 {
		from = 0
	}
	for d := 0; d < len(s.rows); d++ {
		if i := from + d; i < len(s.rows) && s.rows[i].Selectable() {
			return i
		}
		if i := from - d; i >= 0 && i < len(s.rows) && s.rows[i].Selectable() {
			return i
		}
	}
	return -1
}

func (s *State) selectIndex(i int) {
	if i < 0 || i >= len(s.rows) {
		s.HasSelection = false
		s.Selected = 0
		s.Cursor = 0
		return
	}
	s.Cursor = i
	s.Selected = s.rows[i].Info.PID
	s.HasSelection = true
}

func (s *State) clampScroll() {
	if s.HasSelection {
		if s.Cursor < s.Scroll {
			s.Scroll = s.Cursor
		}
		if s.Cursor >= s.Scroll+s.viewport {
			s.Scroll = s.Cursor - s.viewport + 1
		}
	}
	s.Scroll = max(0, min(s.Scroll, len(s.rows)-s.viewport))
}

// step moves the cursor by delta selectable rows. Moving past either end
// continues once from the other.
func (s *State) step(delta int) {
	n := len(s.rows)
	if n == 0 {
		return
	}
	if !s.HasSelection {
		s.jump(false)
		return
	}

	dir := 1
	if delta < 0 {
		dir, delta = -1, -delta
	}
	cur := s.Cursor
	wrapped := false
	for moved := 0; moved < delta; {
		next := cur + dir
		if next < 0 || next >= n {
			if wrapped {
				break
			}
			next = (next + n) % n
			wrapped = true
		}
		if next == s.Cursor {
			break
		}
		cur = next
		if s.rows[cur].Selectable() {
			s.selectIndex(cur)
			moved++
		}
	}
	s.clampScroll()
}

// page moves the cursor delta rows, wrapping by index modulo the row count,
// then settles on the nearest selectable row.
func (s *State) page(delta int) {
	n := len(s.rows)
	if n == 0 {
		return
	}
	if !s.HasSelection {
		s.jump(false)
		return
	}
	idx := ((s.Cursor+delta)%n + n) % n
	if idx = s.nearestSelectable(idx); idx >= 0 {
		s.selectIndex(idx)
	}
	s.clampScroll()
}

func (s *State) jump(toEnd bool) {
	var idx int
	if toEnd {
		idx = -1
		for i := len(s.rows) - 1; i >= 0; i-- {
			if s.rows[i].Selectable() {
				idx = i
				break
			}
		}
	} else {
		idx = s.nearestSelectable(0)
	}
	if idx >= 0 {
		s.selectIndex(idx)
	}
	s.clampScroll()
}

func (s *State) setStatus(msg string, isErr bool, at time.Time) {
	s.Status, s.StatusErr, s.StatusAt = msg, isErr, at
}

func (s *State) setFilter(text string, at time.Time) {
	s.FilterText = text
	f, err := proctree.ParseFilter(text)
	if err != nil {
		s.setStatus(errors.Summary(err), true, at)
		return
	}
	s.Filter = f
}

func (s *State) describeKill(r KillRequest) string {
	return fmt.Sprintf("Kill %d (%s)? y/n", r.PID, r.Name)
}

func errSummary(err error) string {
	switch {
	case errors.Is(err, errors.ErrProcessNotFound):
		return "no such process"
	case errors.Is(err, errors.ErrPermissionDenied):
		return "permission denied"
	default:
		return errors.Summary(err)
	}
}
