package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap binds keys to dashboard actions.
type KeyMap struct {
	Quit     key.Binding
	Help     key.Binding
	NextTab  key.Binding
	PrevTab  key.Binding
	Tabs     key.Binding
	SortNext key.Binding
	SortPrev key.Binding
	SortCPU  key.Binding
	SortMem  key.Binding
	SortPID  key.Binding
	Reverse  key.Binding
	Tree     key.Binding
	Filter   key.Binding
	Clear    key.Binding
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
	Collapse key.Binding
	Expand   key.Binding
	Toggle   key.Binding
	Kill     key.Binding

	// Filter prompt.
	Apply key.Binding

	// Kill confirmation.
	Confirm key.Binding
	Cancel  key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		NextTab:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next panel")),
		PrevTab:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous panel")),
		Tabs:     key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7"), key.WithHelp("1-7", "jump to panel")),
		SortNext: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "next sort")),
		SortPrev: key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "previous sort")),
		SortCPU:  key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "sort by cpu")),
		SortMem:  key.NewBinding(key.WithKeys("M"), key.WithHelp("M", "sort by memory")),
		SortPID:  key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "sort by pid")),
		Reverse:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reverse")),
		Tree:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "tree")),
		Filter:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Clear:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear filter")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
		Home:     key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("home", "first")),
		End:      key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("end", "last")),
		Collapse: key.NewBinding(key.WithKeys("left", "h", "-"), key.WithHelp("←/-", "collapse")),
		Expand:   key.NewBinding(key.WithKeys("right", "l", "+", "="), key.WithHelp("→/+", "expand")),
		Toggle:   key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "toggle subtree")),
		Kill:     key.NewBinding(key.WithKeys("K", "delete"), key.WithHelp("K", "kill")),

		Apply: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),

		Confirm: key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "confirm")),
		Cancel:  key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "cancel")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Help, k.NextTab, k.SortNext, k.Filter, k.Tree, k.Kill}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Quit, k.Help, k.NextTab, k.PrevTab, k.Tabs},
		{k.SortNext, k.SortPrev, k.SortCPU, k.SortMem, k.SortPID, k.Reverse},
		{k.Filter, k.Clear, k.Tree, k.Collapse, k.Expand, k.Toggle},
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Home, k.End, k.Kill},
	}
}
