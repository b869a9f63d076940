package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/prabalesh/brtop/internal/aggregator"
	"github.com/prabalesh/brtop/internal/config"
	"github.com/prabalesh/brtop/internal/logger"
	"github.com/prabalesh/brtop/internal/models"
	"github.com/prabalesh/brtop/internal/ui"
)

// Frame size used when stdout is not a terminal.
const (
	defaultOnceWidth  = 120
	defaultOnceHeight = 40
)

// onceCommand samples until every subsystem has a value (rates need two
// readings) or the wait runs out, then prints a single frame.
func onceCommand(ctx context.Context, cfg *config.Config, out io.Writer) error {
	closeLog, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	width, height, tty := terminalSize(out)
	if !tty || cfg.Theme.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	log := logger.Default()
	p := newPipeline(ctx, cfg, log)
	p.sched.Start(ctx)
	collectSamples(ctx, p.sched.Updates(), p.agg, onceWait(cfg))
	if abandoned := p.sched.Shutdown(); len(abandoned) > 0 {
		log.Warn("abandoned samplers: %v", abandoned)
	}

	app := ui.NewApp(ui.Options{Config: cfg, Aggregator: p.agg, Log: log})
	_, err = fmt.Fprintln(out, app.Render(width, height))
	return err
}

// onceWait is long enough for the slowest rate-based subsystem to take two
// readings.
func onceWait(cfg *config.Config) time.Duration {
	c := cfg.Cadence
	return 2*max(c.CPU, c.Network, c.Process, c.Disk) + cfg.ReadTimeout
}

// collectSamples applies updates until no subsystem is pending or wait expires.
func collectSamples(ctx context.Context, updates <-chan models.Update, agg *aggregator.Aggregator, wait time.Duration) {
	timer := time.NewTimer(wait)
	defer timer.Stop()

	for !settled(agg.Snapshot()) {
		select {
		case u := <-updates:
			agg.Apply(u)
		case <-timer.C:
			return
		case <-ctx.Done():
			return
		}
	}
}

func settled(s *models.SystemSnapshot) bool {
	for _, sub := range models.Subsystems {
		if s.Status[sub].State == models.Pending {
			return false
		}
	}
	return true
}

// terminalSize returns the size of out when it is a terminal.
func terminalSize(out io.Writer) (width, height int, tty bool) {
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return defaultOnceWidth, defaultOnceHeight, false
	}
	w, h, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return defaultOnceWidth, defaultOnceHeight, true
	}
	return w, h, true
}
