// Package ui is the interactive coordinator. It owns the view state and the
// current snapshot, and turns keys, OS signals, sampler updates and render
// ticks into one action stream on bubbletea's event loop.
package ui

import (
	"context"
	"os"
	"syscall"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/prabalesh/brtop/internal/aggregator"
	"github.com/prabalesh/brtop/internal/collector"
	"github.com/prabalesh/brtop/internal/config"
	"github.com/prabalesh/brtop/internal/logger"
	"github.com/prabalesh/brtop/internal/models"
	"github.com/prabalesh/brtop/internal/proctree"
	"github.com/prabalesh/brtop/internal/render"
	"github.com/prabalesh/brtop/internal/sampler"
	"github.com/prabalesh/brtop/internal/view"
)

// killTimeout bounds a single signal delivery.
const killTimeout = 2 * time.Second

// Source is the sampling side of the pipeline.
type Source interface {
	Updates() <-chan models.Update
	Shutdown() []models.Subsystem
}

// Signaler delivers termination signals to processes.
type Signaler interface {
	Signal(ctx context.Context, pid int32, sig string) (collector.SignalResult, error)
}

type (
	tickMsg   time.Time
	updateMsg models.Update

	killResultMsg struct {
		result collector.SignalResult
		err    error
	}

	shutdownMsg struct {
		abandoned []models.Subsystem
	}
)

// SignalMsg carries an OS signal into the event loop.
type SignalMsg struct {
	Signal os.Signal
}

// Options configures an App.
type Options struct {
	Config     *config.Config
	Source     Source
	Aggregator *aggregator.Aggregator
	Signaler   Signaler
	Log        logger.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

type App struct {
	cfg      *config.Config
	source   Source
	agg      *aggregator.Aggregator
	signaler Signaler
	log      logger.Logger
	now      func() time.Time

	keys    KeyMap
	help    help.Model
	filter  textinput.Model
	view    *view.State
	builder *proctree.Builder
	stats   *render.Stats

	frame     string
	quitting  bool
	done      chan struct{}
	abandoned []models.Subsystem
}

func NewApp(opts Options) *App {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	log := opts.Log
	if log == nil {
		log = logger.Noop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	agg := opts.Aggregator
	if agg == nil {
		agg = aggregator.New(models.HostInfo{})
	}

	sortKey, err := proctree.ParseSortKey(cfg.Process.Sort)
	if err != nil {
		log.Warn("%v", err)
		sortKey = proctree.SortCPU
	}

	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "name, user:root, pid:42, state:R, cpu>5, mem>1"
	ti.CharLimit = 120
	ti.PromptStyle = FilterPromptStyle
	ti.TextStyle = FilterTextStyle
	ti.PlaceholderStyle = FilterPlaceholderStyle
	ti.Cursor.SetMode(cursor.CursorStatic)
	ti.SetValue(cfg.Process.Filter)

	return &App{
		cfg:      cfg,
		source:   opts.Source,
		agg:      agg,
		signaler: opts.Signaler,
		log:      log,
		now:      now,
		keys:     DefaultKeyMap(),
		help:     newHelp(),
		filter:   ti,
		view: view.New(view.Options{
			SortKey:     sortKey,
			Descending:  cfg.Process.Descending,
			Tree:        cfg.Process.Tree,
			Filter:      cfg.Process.Filter,
			ConfirmKill: cfg.Process.KillConfirm != config.KillConfirmNever,
		}),
		builder: proctree.NewBuilder(),
		stats:   render.NewStats(),
		done:    make(chan struct{}),
	}
}

// State returns the view state. Only safe from the event loop.
func (a *App) State() *view.State { return a.view }

// Abandoned lists the samplers that did not stop within the grace period.
// Valid once the program has exited.
func (a *App) Abandoned() []models.Subsystem { return a.abandoned }

// Stats returns the frame latency statistics.
func (a *App) Stats() *render.Stats { return a.stats }

// Render composes a single frame of the given size outside the event loop.
// Used for one-shot output.
func (a *App) Render(width, height int) string {
	a.view.Apply(view.Action{Kind: view.Resize, Width: width, Height: height})
	a.help.Width = width
	a.refresh()
	return a.frame
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.waitForUpdate(),
		a.tick(),
	)
}

func (a *App) tick() tea.Cmd {
	return tea.Tick(a.cfg.Cadence.Render, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForUpdate blocks on the sampler channel until an update arrives or
// the app starts shutting down.
func (a *App) waitForUpdate() tea.Cmd {
	if a.source == nil {
		return nil
	}
	updates, done := a.source.Updates(), a.done
	return func() tea.Msg {
		select {
		case u := <-updates:
			return updateMsg(u)
		case <-done:
			return nil
		}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.view.Apply(view.Action{Kind: view.Resize, Width: msg.Width, Height: msg.Height})
		a.help.Width = msg.Width
		a.refresh()
		return a, nil

	case tea.KeyMsg:
		cmd := a.handleKey(msg)
		if !a.quitting {
			a.refresh()
		}
		return a, cmd

	case SignalMsg:
		a.log.Info("received %v", msg.Signal)
		switch msg.Signal {
		case os.Interrupt, syscall.SIGTERM, syscall.SIGHUP:
			return a, a.shutdown()
		}
		return a, nil

	case updateMsg:
		u := models.Update(msg)
		if !a.agg.Apply(u) {
			a.log.Debug("discarded %s update seq %d", u.Subsystem, u.Seq)
		} else if u.Err != nil {
			a.log.Warn("%s: %v", u.Subsystem, u.Err)
		}
		if a.quitting {
			return a, nil
		}
		return a, a.waitForUpdate()

	case tickMsg:
		if a.quitting {
			return a, nil
		}
		a.refresh()
		return a, a.tick()

	case killResultMsg:
		a.view.KillResult(msg.result.PID, msg.result.Name, msg.result.Signal, msg.err, a.now())
		if msg.err != nil {
			a.log.Warn("kill %d: %v", msg.result.PID, msg.err)
		}
		a.refresh()
		return a, nil

	case shutdownMsg:
		a.abandoned = msg.abandoned
		return a, tea.Quit
	}

	return a, nil
}

func (a *App) View() string {
	if a.quitting {
		return ""
	}
	if a.view.Width == 0 {
		return "Loading..."
	}
	return a.frame
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	now := a.now()
	k := a.keys

	if a.view.Filtering {
		switch {
		case msg.String() == "ctrl+c":
			return a.apply(view.Action{Kind: view.Quit})
		case key.Matches(msg, k.Clear):
			a.filter.Reset()
			a.filter.Blur()
			return a.apply(view.Action{Kind: view.ClearFilter})
		case key.Matches(msg, k.Apply):
			a.filter.Blur()
			return a.apply(view.Action{Kind: view.ApplyFilter})
		}
		before := a.filter.Value()
		var cmd tea.Cmd
		a.filter, cmd = a.filter.Update(msg)
		if v := a.filter.Value(); v != before {
			a.apply(view.Action{Kind: view.SetFilter, Text: v, At: now})
		}
		return cmd
	}

	if a.view.PendingKill != nil {
		switch {
		case key.Matches(msg, k.Confirm):
			return a.apply(view.Action{Kind: view.ConfirmKill, At: now})
		case key.Matches(msg, k.Cancel):
			return a.apply(view.Action{Kind: view.CancelKill, At: now})
		case msg.String() == "ctrl+c":
			return a.apply(view.Action{Kind: view.Quit})
		}
		return nil
	}

	if a.view.Help {
		switch {
		case key.Matches(msg, k.Help), msg.String() == "esc":
			return a.apply(view.Action{Kind: view.ToggleHelp})
		case key.Matches(msg, k.Quit):
			return a.apply(view.Action{Kind: view.Quit})
		}
		return nil
	}

	act, ok := a.action(msg)
	if !ok {
		return nil
	}
	act.At = now
	return a.apply(act)
}

// action maps a key in normal mode to a view action.
func (a *App) action(msg tea.KeyMsg) (view.Action, bool) {
	k := a.keys
	switch {
	case key.Matches(msg, k.Quit):
		return view.Action{Kind: view.Quit}, true
	case key.Matches(msg, k.Help):
		return view.Action{Kind: view.ToggleHelp}, true
	case key.Matches(msg, k.NextTab):
		return view.Action{Kind: view.NextTab}, true
	case key.Matches(msg, k.PrevTab):
		return view.Action{Kind: view.PrevTab}, true
	case key.Matches(msg, k.Tabs):
		return view.Action{Kind: view.SetTab, Tab: view.Tab(msg.String()[0] - '1')}, true
	case key.Matches(msg, k.SortNext):
		return view.Action{Kind: view.SortNext}, true
	case key.Matches(msg, k.SortPrev):
		return view.Action{Kind: view.SortPrev}, true
	case key.Matches(msg, k.SortCPU):
		return view.Action{Kind: view.SortSet, Sort: proctree.SortCPU}, true
	case key.Matches(msg, k.SortMem):
		return view.Action{Kind: view.SortSet, Sort: proctree.SortMem}, true
	case key.Matches(msg, k.SortPID):
		return view.Action{Kind: view.SortSet, Sort: proctree.SortPID}, true
	case key.Matches(msg, k.Reverse):
		return view.Action{Kind: view.ToggleDirection}, true
	case key.Matches(msg, k.Tree):
		return view.Action{Kind: view.ToggleTree}, true
	case key.Matches(msg, k.Filter):
		return view.Action{Kind: view.StartFilter}, true
	case key.Matches(msg, k.Clear):
		return view.Action{Kind: view.ClearFilter}, true
	case key.Matches(msg, k.Up):
		return view.Action{Kind: view.MoveUp}, true
	case key.Matches(msg, k.Down):
		return view.Action{Kind: view.MoveDown}, true
	case key.Matches(msg, k.PageUp):
		return view.Action{Kind: view.PageUp}, true
	case key.Matches(msg, k.PageDown):
		return view.Action{Kind: view.PageDown}, true
	case key.Matches(msg, k.Home):
		return view.Action{Kind: view.Home}, true
	case key.Matches(msg, k.End):
		return view.Action{Kind: view.End}, true
	case key.Matches(msg, k.Collapse):
		return view.Action{Kind: view.Collapse}, true
	case key.Matches(msg, k.Expand):
		return view.Action{Kind: view.Expand}, true
	case key.Matches(msg, k.Toggle):
		return view.Action{Kind: view.ToggleCollapse}, true
	case key.Matches(msg, k.Kill):
		return view.Action{Kind: view.RequestKill}, true
	}
	return view.Action{}, false
}

// apply runs act against the view state and performs its effect.
func (a *App) apply(act view.Action) tea.Cmd {
	switch act.Kind {
	case view.StartFilter:
		a.filter.SetValue(a.view.FilterText)
		a.filter.CursorEnd()
		a.filter.Focus()
	case view.ClearFilter:
		a.filter.Reset()
	}

	eff := a.view.Apply(act)
	switch eff.Kind {
	case view.EffectQuit:
		return a.shutdown()
	case view.EffectKill:
		return a.killCmd(eff.PID, eff.Name)
	}
	return nil
}

// killCmd signals pid off the event loop and reports back with a killResultMsg.
func (a *App) killCmd(pid int32, name string) tea.Cmd {
	if a.signaler == nil {
		return nil
	}
	signaler, sig := a.signaler, a.cfg.Process.KillSignal
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), killTimeout)
		defer cancel()
		res, err := signaler.Signal(ctx, pid, sig)
		if res.Name == "" {
			res.Name = name
		}
		return killResultMsg{result: res, err: err}
	}
}

// shutdown stops the samplers in a command; the program quits when it returns.
func (a *App) shutdown() tea.Cmd {
	if a.quitting {
		return nil
	}
	a.quitting = true
	close(a.done)
	if a.source == nil {
		return tea.Quit
	}
	source := a.source
	return func() tea.Msg {
		return shutdownMsg{abandoned: source.Shutdown()}
	}
}

// refresh rebuilds the process rows from the latest snapshot and composes
// the next frame.
func (a *App) refresh() {
	if a.view.Width == 0 {
		return
	}
	now := a.now()
	snap := a.agg.Snapshot()

	var rows []proctree.Row
	if snap.Processes != nil {
		a.view.Prune(snap.Processes.Processes)
		rows = a.builder.Build(snap.Processes.Processes, a.view.BuildOptions())
	}
	a.view.Reconcile(rows, render.ProcessViewport(a.view.Width, a.view.Height, a.view.Tab, snap.Battery != nil))

	in := render.Input{
		Snapshot: snap,
		View:     a.view,
		Width:    a.view.Width,
		Height:   a.view.Height,
		Now:      now,
		Hints:    a.help.ShortHelpView(a.keys.ShortHelp()),
		Stats:    a.stats,
		Debug:    a.cfg.Debug,
	}
	if a.view.Filtering {
		in.FilterLine = a.filter.View()
	}
	for _, sub := range models.Subsystems {
		if snap.Status[sub].State == models.OK {
			in.Lagging[sub] = !a.agg.Fresh(sub, now, sampler.CadenceFor(sub, a.cfg))
		}
	}

	start := time.Now()
	a.frame = render.Frame(in)
	a.stats.Record(time.Since(start))
}
