package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prabalesh/brtop/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, time.Second, cfg.Cadence.CPU)
	assert.Equal(t, 10*time.Second, cfg.Cadence.Battery)
	assert.Equal(t, 250*time.Millisecond, cfg.Cadence.Render)
	assert.Equal(t, 500*time.Millisecond, cfg.ShutdownGrace)
	assert.Equal(t, 100, cfg.HistoryLength)
	assert.Greater(t, cfg.Smoothing.CPU, cfg.Smoothing.Network, "cpu reacts faster than network")
	assert.Equal(t, "cpu", cfg.Process.Sort)
	assert.True(t, cfg.Process.Descending)
	assert.Equal(t, KillConfirmAlways, cfg.Process.KillConfirm)
	assert.Equal(t, SignalTerm, cfg.Process.KillSignal)
	require.NoError(t, Validate(cfg))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, ConfigFileName)

	content := `
cadence:
  cpu: 500ms
  battery: 30s
smoothing:
  network: 0.2
history_length: 200
process:
  sort: MEM
  tree: true
  kill_confirm: never
  kill_signal: sigkill
network:
  include_loopback: true
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, 500*time.Millisecond, cfg.Cadence.CPU)
	assert.Equal(t, 30*time.Second, cfg.Cadence.Battery)
	assert.Equal(t, time.Second, cfg.Cadence.Memory, "unset keys keep defaults")
	assert.InDelta(t, 0.2, cfg.Smoothing.Network, 1e-9)
	assert.Equal(t, 200, cfg.HistoryLength)
	assert.Equal(t, "mem", cfg.Process.Sort)
	assert.True(t, cfg.Process.Tree)
	assert.Equal(t, KillConfirmNever, cfg.Process.KillConfirm)
	assert.Equal(t, SignalKill, cfg.Process.KillSignal)
	assert.True(t, cfg.Network.IncludeLoopback)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("BRTOP_CADENCE_CPU", "750ms")
	t.Setenv("BRTOP_PROCESS_SORT", "pid")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 750*time.Millisecond, cfg.Cadence.CPU)
	assert.Equal(t, "pid", cfg.Process.Sort)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestFindExplicitMissing(t *testing.T) {
	_, err := Find(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Specified config file not found")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{"cadence too fast", func(c *Config) { c.Cadence.CPU = 10 * time.Millisecond }, "cadence.cpu is too fast"},
		{"zero grace", func(c *Config) { c.ShutdownGrace = 0 }, "shutdown_grace"},
		{"alpha zero", func(c *Config) { c.Smoothing.CPU = 0 }, "smoothing.cpu"},
		{"alpha above one", func(c *Config) { c.Smoothing.Network = 1.5 }, "smoothing.network"},
		{"history too short", func(c *Config) { c.HistoryLength = 2 }, "history_length"},
		{"bad sort", func(c *Config) { c.Process.Sort = "colour" }, "Unknown sort key"},
		{"bad confirm", func(c *Config) { c.Process.KillConfirm = "sometimes" }, "kill_confirm"},
		{"bad signal", func(c *Config) { c.Process.KillSignal = "HUP" }, "kill_signal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrConfig))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestMarshalLoadsBack(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Cadence.CPU = 750 * time.Millisecond
	cfg.Process.Sort = "mem"
	cfg.Process.Filter = "user:root"
	cfg.Theme.NoColor = true

	data, err := Marshal(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(data), "cpu: 750ms")
	assert.Contains(t, string(data), "kill_confirm: always")

	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, data, 0644))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
