package view

import (
	"fmt"
	"time"

	"github.com/prabalesh/brtop/internal/proctree"
)

type ActionKind int

const (
	ActionNone ActionKind = iota
	Quit
	SortNext
	SortPrev
	SortSet
	ToggleDirection
	StartFilter
	SetFilter
	ApplyFilter
	ClearFilter
	MoveUp
	MoveDown
	PageUp
	PageDown
	Home
	End
	Expand
	Collapse
	ToggleCollapse
	ToggleTree
	NextTab
	PrevTab
	SetTab
	ToggleHelp
	RequestKill
	ConfirmKill
	CancelKill
	SetStatus
	Resize
)

// Action is one user or system intent. Only the fields relevant to Kind
// are read.
type Action struct {
	Kind   ActionKind
	Sort   proctree.SortKey
	Tab    Tab
	Text   string
	Err    bool
	Width  int
	Height int
	// At stamps status messages.
	At time.Time
}

type EffectKind int

const (
	EffectNone EffectKind = iota
	EffectQuit
	EffectKill
)

// Effect is the side effect the caller must perform after Apply.
type Effect struct {
	Kind EffectKind
	PID  int32
	Name string
}

// Apply mutates the state for a and returns the effect to run.
func (s *State) Apply(a Action) Effect {
	switch a.Kind {
	case Quit:
		return Effect{Kind: EffectQuit}

	case SortNext:
		s.SortKey = s.SortKey.Next()
	case SortPrev:
		s.SortKey = s.SortKey.Prev()
	case SortSet:
		if s.SortKey == a.Sort {
			s.Descending = !s.Descending
		}
		s.SortKey = a.Sort
	case ToggleDirection:
		s.Descending = !s.Descending

	case StartFilter:
		s.Filtering = true
	case SetFilter:
		s.setFilter(a.Text, a.At)
	case ApplyFilter:
		s.Filtering = false
	case ClearFilter:
		s.Filtering = false
		s.FilterText = ""
		s.Filter = proctree.Filter{}

	case MoveUp:
		s.step(-1)
	case MoveDown:
		s.step(1)
	case PageUp:
		s.page(-s.viewport)
	case PageDown:
		s.page(s.viewport)
	case Home:
		s.jump(false)
	case End:
		s.jump(true)

	case Expand, Collapse, ToggleCollapse:
		s.collapse(a.Kind)
	case ToggleTree:
		s.Tree = !s.Tree
		s.Scroll = 0

	case NextTab:
		s.Tab = (s.Tab + 1) % NumTabs
	case PrevTab:
		s.Tab = (s.Tab + NumTabs - 1) % NumTabs
	case SetTab:
		if a.Tab >= 0 && a.Tab < NumTabs {
			s.Tab = a.Tab
		}
	case ToggleHelp:
		s.Help = !s.Help

	case RequestKill:
		return s.requestKill(a.At)
	case ConfirmKill:
		if s.PendingKill == nil {
			return Effect{}
		}
		req := *s.PendingKill
		s.PendingKill = nil
		return Effect{Kind: EffectKill, PID: req.PID, Name: req.Name}
	case CancelKill:
		if s.PendingKill != nil {
			s.PendingKill = nil
			s.setStatus("Kill cancelled", false, a.At)
		}

	case SetStatus:
		s.setStatus(a.Text, a.Err, a.At)
	case Resize:
		s.Width, s.Height = a.Width, a.Height
	}
	return Effect{}
}

func (s *State) collapse(kind ActionKind) {
	row, ok := s.SelectedRow()
	if !ok || !s.Tree || !row.HasChildren {
		return
	}
	pid := row.Info.PID
	switch kind {
	case Expand:
		delete(s.Collapsed, pid)
	case Collapse:
		s.Collapsed[pid] = row.Info.StartTime
	case ToggleCollapse:
		if start, ok := s.Collapsed[pid]; ok && start.Equal(row.Info.StartTime) {
			delete(s.Collapsed, pid)
		} else {
			s.Collapsed[pid] = row.Info.StartTime
		}
	}
}

func (s *State) requestKill(at time.Time) Effect {
	row, ok := s.SelectedRow()
	if !ok {
		s.setStatus("No process selected", true, at)
		return Effect{}
	}
	req := KillRequest{PID: row.Info.PID, Name: row.Info.Name}
	if !s.ConfirmKill {
		return Effect{Kind: EffectKill, PID: req.PID, Name: req.Name}
	}
	s.PendingKill = &req
	s.setStatus(s.describeKill(req), false, at)
	return Effect{}
}

// KillResult records the outcome of a kill as a status message.
func (s *State) KillResult(pid int32, name, signal string, err error, at time.Time) {
	if err != nil {
		s.setStatus(fmt.Sprintf("Kill %d failed: %s", pid, errSummary(err)), true, at)
		return
	}
	s.setStatus(fmt.Sprintf("Sent SIG%s to %d (%s)", signal, pid, name), false, at)
}
