package cli

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/prabalesh/brtop/internal/aggregator"
	"github.com/prabalesh/brtop/internal/collector"
	"github.com/prabalesh/brtop/internal/config"
	"github.com/prabalesh/brtop/internal/errors"
	"github.com/prabalesh/brtop/internal/logger"
	"github.com/prabalesh/brtop/internal/sampler"
	"github.com/prabalesh/brtop/internal/scheduler"
	"github.com/prabalesh/brtop/internal/ui"
)

// resolveConfig loads the config file and applies command line overrides.
func resolveConfig(f dashboardFlags) (*config.Config, error) {
	cfg, _, err := config.LoadOrDefault(f.configPath)
	if err != nil {
		return nil, err
	}

	if f.sortSet {
		cfg.Process.Sort = strings.ToLower(f.sort)
	}
	if f.reverse {
		cfg.Process.Descending = !cfg.Process.Descending
	}
	if f.treeSet {
		cfg.Process.Tree = f.tree
	}
	if f.filterSet {
		cfg.Process.Filter = f.filter
	}
	if f.noColor || termenv.EnvNoColor() {
		cfg.Theme.NoColor = true
	}
	if f.debug {
		cfg.Debug = true
	}
	if f.logFile != "" {
		cfg.LogFile = f.logFile
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupLogging routes the standard logger to cfg.LogFile, or discards it,
// and installs the default logger. The returned func closes the file.
func setupLogging(cfg *config.Config) (func(), error) {
	log := logger.NewEnvLogger("[brtop]")
	if cfg.Debug {
		log = logger.NewDebugLogger("[brtop]")
	}
	logger.SetDefault(log)

	if cfg.LogFile == "" {
		logger.Discard()
		return func() {}, nil
	}
	f, err := tea.LogToFile(cfg.LogFile, "")
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrFatalIO,
			"Cannot open log file "+cfg.LogFile,
			"Check the directory exists and is writable")
	}
	return func() { _ = f.Close() }, nil
}

func applyTheme(cfg *config.Config) {
	if cfg.Theme.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// pipeline is the sampling side shared by the dashboard and one-shot mode.
type pipeline struct {
	agg      *aggregator.Aggregator
	sched    *scheduler.Scheduler
	samplers int
}

func newPipeline(ctx context.Context, cfg *config.Config, log logger.Logger) *pipeline {
	samplers := sampler.Build(collector.NewReaders(cfg), cfg, log)
	return &pipeline{
		agg:      aggregator.New(collector.HostInfo(ctx)),
		sched:    scheduler.New(samplers, cfg.ShutdownGrace, log),
		samplers: len(samplers),
	}
}

// dashboardCommand runs the interactive dashboard until quit or a
// terminating signal. The terminal is restored by bubbletea before the
// samplers are shut down.
func dashboardCommand(ctx context.Context, cfg *config.Config) error {
	closeLog, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	defer closeLog()
	applyTheme(cfg)

	if ctx == nil {
		ctx = context.Background()
	}
	log := logger.Default()
	p := newPipeline(ctx, cfg, log)

	app := ui.NewApp(ui.Options{
		Config:     cfg,
		Source:     p.sched,
		Aggregator: p.agg,
		Signaler:   collector.NewSignaler(),
		Log:        log,
	})
	prog := tea.NewProgram(app, tea.WithAltScreen(), tea.WithoutSignalHandler())

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	stop := make(chan struct{})
	defer func() {
		signal.Stop(sigs)
		close(stop)
	}()
	go func() {
		for {
			select {
			case s := <-sigs:
				prog.Send(ui.SignalMsg{Signal: s})
			case <-stop:
				return
			}
		}
	}()

	log.Info("starting %d samplers", p.samplers)
	p.sched.Start(ctx)
	_, runErr := prog.Run()

	// Shutdown is idempotent; the app has normally run it already.
	if abandoned := p.sched.Shutdown(); len(abandoned) > 0 {
		log.Warn("abandoned samplers: %v", abandoned)
	}

	if runErr != nil {
		return errors.WrapWithCode(runErr, errors.ErrFatalIO,
			"Terminal error",
			"brtop needs an interactive terminal; try --once for plain output")
	}
	return nil
}
