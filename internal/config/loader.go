package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/prabalesh/brtop/internal/errors"
	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the per-directory config file name.
	ConfigFileName = ".brtop.yaml"
	// GlobalConfigDir is the directory for global config, relative to $HOME.
	GlobalConfigDir = ".config/brtop"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
	// EnvPrefix prefixes environment overrides, e.g. BRTOP_CADENCE_CPU=500ms.
	EnvPrefix = "BRTOP"
)

// Load reads config from the specified path. An empty path loads defaults
// plus environment overrides.
func Load(path string) (*Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if os.IsNotExist(err) {
				return nil, errors.WrapWithCode(err, errors.ErrConfig,
					"Config file not found",
					"Run 'brtop config init' to create one, or specify one with --config")
			}
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to read config file",
				"Check the file exists and is valid YAML")
		}
	}

	return parseConfig(v, path)
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. .brtop.yaml in the current directory
// 3. ~/.config/brtop/config.yaml
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	if cwd, err := os.Getwd(); err == nil {
		local := filepath.Join(cwd, ConfigFileName)
		if _, err := os.Stat(local); err == nil {
			return local, nil
		}
	}

	if global := GlobalPath(); global != "" {
		if _, err := os.Stat(global); err == nil {
			return global, nil
		}
	}

	return "", nil
}

// GlobalPath returns ~/.config/brtop/config.yaml, or "" when $HOME is unknown.
func GlobalPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
}

// LoadOrDefault finds and loads the config, falling back to defaults.
func LoadOrDefault(explicit string) (*Config, string, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, "", err
	}
	cfg, err := Load(path)
	return cfg, path, err
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// parseConfig converts viper config to our Config struct with defaults merged in.
func parseConfig(v *viper.Viper, path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		where := "the environment"
		if path != "" {
			where = path
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax and value types in "+where)
	}

	cfg.Process.Sort = strings.ToLower(cfg.Process.Sort)
	cfg.Process.KillConfirm = strings.ToLower(cfg.Process.KillConfirm)
	cfg.Process.KillSignal = strings.ToUpper(strings.TrimPrefix(strings.ToUpper(cfg.Process.KillSignal), "SIG"))

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every key with viper. AutomaticEnv only resolves
// keys viper already knows about, so each field needs a default here.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("cadence.cpu", d.Cadence.CPU.String())
	v.SetDefault("cadence.memory", d.Cadence.Memory.String())
	v.SetDefault("cadence.network", d.Cadence.Network.String())
	v.SetDefault("cadence.disk", d.Cadence.Disk.String())
	v.SetDefault("cadence.battery", d.Cadence.Battery.String())
	v.SetDefault("cadence.process", d.Cadence.Process.String())
	v.SetDefault("cadence.render", d.Cadence.Render.String())
	v.SetDefault("shutdown_grace", d.ShutdownGrace.String())
	v.SetDefault("read_timeout", d.ReadTimeout.String())
	v.SetDefault("smoothing.cpu", d.Smoothing.CPU)
	v.SetDefault("smoothing.memory", d.Smoothing.Memory)
	v.SetDefault("smoothing.network", d.Smoothing.Network)
	v.SetDefault("smoothing.disk", d.Smoothing.Disk)
	v.SetDefault("smoothing.process", d.Smoothing.Process)
	v.SetDefault("history_length", d.HistoryLength)
	v.SetDefault("process.sort", d.Process.Sort)
	v.SetDefault("process.descending", d.Process.Descending)
	v.SetDefault("process.tree", d.Process.Tree)
	v.SetDefault("process.filter", d.Process.Filter)
	v.SetDefault("process.kill_confirm", d.Process.KillConfirm)
	v.SetDefault("process.kill_signal", d.Process.KillSignal)
	v.SetDefault("network.include_loopback", d.Network.IncludeLoopback)
	v.SetDefault("disk.include_virtual", d.Disk.IncludeVirtual)
	v.SetDefault("theme.no_color", d.Theme.NoColor)
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("debug", d.Debug)
}
