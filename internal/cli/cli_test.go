package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prabalesh/brtop/internal/aggregator"
	"github.com/prabalesh/brtop/internal/config"
	"github.com/prabalesh/brtop/internal/errors"
	"github.com/prabalesh/brtop/internal/models"
)

// withMemFs swaps the command filesystem for an in-memory one.
func withMemFs(t *testing.T) afero.Fs {
	t.Helper()
	orig := fs
	fs = afero.NewMemMapFs()
	t.Cleanup(func() { fs = orig })
	return fs
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "brtop.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestVersionOutput(t *testing.T) {
	orig := []string{version, commit, date}
	defer SetVersionInfo(orig[0], orig[1], orig[2])
	SetVersionInfo("1.2.3", "abc1234", "2025-01-08T12:00:00Z")

	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	defer versionCmd.SetOut(nil)
	versionCmd.Run(versionCmd, nil)

	out := buf.String()
	assert.Contains(t, out, "brtop v1.2.3")
	assert.Contains(t, out, "commit: abc1234")
	assert.Contains(t, out, "built: 2025-01-08T12:00:00Z")
	assert.Contains(t, out, "os/arch: "+runtime.GOOS+"/"+runtime.GOARCH)
}

func TestFormatVersion(t *testing.T) {
	assert.Equal(t, "dev", formatVersion("dev"))
	assert.Equal(t, "v1.0.0", formatVersion("1.0.0"))
	assert.Equal(t, "v2.0.0", formatVersion("v2.0.0"))
}

func TestResolveConfigFlags(t *testing.T) {
	path := writeConfig(t, "process:\n  sort: pid\n  tree: true\n")

	tests := []struct {
		name  string
		flags dashboardFlags
		check func(t *testing.T, cfg *config.Config)
	}{
		{"file values", dashboardFlags{}, func(t *testing.T, cfg *config.Config) {
			assert.Equal(t, "pid", cfg.Process.Sort)
			assert.True(t, cfg.Process.Tree)
			assert.True(t, cfg.Process.Descending)
		}},
		{"sort override", dashboardFlags{sort: "MEM", sortSet: true}, func(t *testing.T, cfg *config.Config) {
			assert.Equal(t, "mem", cfg.Process.Sort)
		}},
		{"unset sort flag keeps file", dashboardFlags{sort: "mem"}, func(t *testing.T, cfg *config.Config) {
			assert.Equal(t, "pid", cfg.Process.Sort)
		}},
		{"reverse", dashboardFlags{reverse: true}, func(t *testing.T, cfg *config.Config) {
			assert.False(t, cfg.Process.Descending)
		}},
		{"tree off", dashboardFlags{tree: false, treeSet: true}, func(t *testing.T, cfg *config.Config) {
			assert.False(t, cfg.Process.Tree)
		}},
		{"filter, color and logging", dashboardFlags{filter: "user:root", filterSet: true, noColor: true, debug: true, logFile: "/tmp/brtop.log"},
			func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "user:root", cfg.Process.Filter)
				assert.True(t, cfg.Theme.NoColor)
				assert.True(t, cfg.Debug)
				assert.Equal(t, "/tmp/brtop.log", cfg.LogFile)
			}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.flags.configPath = path
			cfg, err := resolveConfig(tt.flags)
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestResolveConfigInvalidSort(t *testing.T) {
	_, err := resolveConfig(dashboardFlags{configPath: writeConfig(t, "debug: false\n"), sort: "colour", sortSet: true})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestConfigInit(t *testing.T) {
	mem := withMemFs(t)

	require.NoError(t, writeDefaultConfig(config.ConfigFileName, false))
	data, err := afero.ReadFile(mem, config.ConfigFileName)
	require.NoError(t, err)
	assert.Contains(t, string(data), "history_length: 100")

	err = writeDefaultConfig(config.ConfigFileName, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	require.NoError(t, writeDefaultConfig(config.ConfigFileName, true))

	nested := filepath.Join("home", "u", ".config", "brtop", "config.yaml")
	require.NoError(t, writeDefaultConfig(nested, false))
	exists, err := afero.Exists(mem, nested)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestConfigShow(t *testing.T) {
	orig := rootFlags.configPath
	defer func() { rootFlags.configPath = orig }()
	path := writeConfig(t, "history_length: 300\n")
	rootFlags.configPath = path

	var buf bytes.Buffer
	configShowCmd.SetOut(&buf)
	defer configShowCmd.SetOut(nil)
	require.NoError(t, configShowCmd.RunE(configShowCmd, nil))

	assert.Contains(t, buf.String(), "# source: "+path)
	assert.Contains(t, buf.String(), "history_length: 300")
	assert.Contains(t, buf.String(), "cadence:")
}

func TestCollectSamplesStopsWhenSettled(t *testing.T) {
	agg := aggregator.New(models.HostInfo{})
	updates := make(chan models.Update, len(models.Subsystems))
	for _, sub := range models.Subsystems {
		updates <- models.Update{Subsystem: sub, Seq: 1, Unavailable: true}
	}

	start := time.Now()
	collectSamples(context.Background(), updates, agg, time.Minute)
	assert.Less(t, time.Since(start), time.Second)
	assert.True(t, settled(agg.Snapshot()))
}

func TestCollectSamplesDeadline(t *testing.T) {
	agg := aggregator.New(models.HostInfo{})
	collectSamples(context.Background(), make(chan models.Update), agg, 20*time.Millisecond)
	assert.False(t, settled(agg.Snapshot()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	collectSamples(ctx, make(chan models.Update), agg, time.Minute)
}

func TestOnceWait(t *testing.T) {
	cfg := config.DefaultConfig()
	assert.Equal(t, 2*cfg.Cadence.Disk+cfg.ReadTimeout, onceWait(cfg))
}

func TestTerminalSizeNonTTY(t *testing.T) {
	w, h, tty := terminalSize(&bytes.Buffer{})
	assert.False(t, tty)
	assert.Equal(t, defaultOnceWidth, w)
	assert.Equal(t, defaultOnceHeight, h)
}

func TestSetupLoggingFile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LogFile = filepath.Join(t.TempDir(), "brtop.log")
	closeLog, err := setupLogging(cfg)
	require.NoError(t, err)
	closeLog()
	_, err = os.Stat(cfg.LogFile)
	assert.NoError(t, err)

	cfg.LogFile = filepath.Join(t.TempDir(), "missing", "brtop.log")
	_, err = setupLogging(cfg)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrFatalIO))
}
