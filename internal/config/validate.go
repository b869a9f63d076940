package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/prabalesh/brtop/internal/errors"
)

const (
	// MinCadence is the fastest sampling or render interval accepted.
	MinCadence = 100 * time.Millisecond
	// MinHistory and MaxHistory bound the graph ring length.
	MinHistory = 10
	MaxHistory = 1000
)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	cadences := []struct {
		key string
		val time.Duration
	}{
		{"cadence.cpu", cfg.Cadence.CPU},
		{"cadence.memory", cfg.Cadence.Memory},
		{"cadence.network", cfg.Cadence.Network},
		{"cadence.disk", cfg.Cadence.Disk},
		{"cadence.battery", cfg.Cadence.Battery},
		{"cadence.process", cfg.Cadence.Process},
		{"cadence.render", cfg.Cadence.Render},
	}
	for _, c := range cadences {
		if c.val < MinCadence {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("%s is too fast (%s)", c.key, c.val),
				fmt.Sprintf("Use at least %s", MinCadence))
		}
	}

	if cfg.ShutdownGrace <= 0 {
		return errors.New(errors.ErrConfig,
			"shutdown_grace must be positive",
			"Try 500ms")
	}
	if cfg.ReadTimeout <= 0 {
		return errors.New(errors.ErrConfig,
			"read_timeout must be positive",
			"Try 2s")
	}

	alphas := []struct {
		key string
		val float64
	}{
		{"smoothing.cpu", cfg.Smoothing.CPU},
		{"smoothing.memory", cfg.Smoothing.Memory},
		{"smoothing.network", cfg.Smoothing.Network},
		{"smoothing.disk", cfg.Smoothing.Disk},
		{"smoothing.process", cfg.Smoothing.Process},
	}
	for _, a := range alphas {
		if a.val <= 0 || a.val > 1 {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("%s must be in (0, 1], got %g", a.key, a.val),
				"1 disables smoothing; smaller values give calmer graphs")
		}
	}

	if cfg.HistoryLength < MinHistory || cfg.HistoryLength > MaxHistory {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("history_length %d is out of range", cfg.HistoryLength),
			fmt.Sprintf("Use a value between %d and %d", MinHistory, MaxHistory))
	}

	if !slices.Contains(SortKeys, cfg.Process.Sort) {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown sort key '%s'", cfg.Process.Sort),
			"Valid keys: "+strings.Join(SortKeys, ", "))
	}

	switch cfg.Process.KillConfirm {
	case KillConfirmAlways, KillConfirmNever:
	default:
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown kill_confirm policy '%s'", cfg.Process.KillConfirm),
			"Use 'always' or 'never'")
	}

	switch cfg.Process.KillSignal {
	case SignalTerm, SignalKill:
	default:
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unsupported kill_signal '%s'", cfg.Process.KillSignal),
			"Use TERM or KILL")
	}

	return nil
}
