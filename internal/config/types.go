package config

import "time"

// Config is the resolved value set consumed by the core. It is produced once
// at startup and never mutated afterwards.
type Config struct {
	Cadence       CadenceConfig   `yaml:"cadence" mapstructure:"cadence"`
	ShutdownGrace time.Duration   `yaml:"shutdown_grace" mapstructure:"shutdown_grace"`
	ReadTimeout   time.Duration   `yaml:"read_timeout" mapstructure:"read_timeout"`
	Smoothing     SmoothingConfig `yaml:"smoothing" mapstructure:"smoothing"`
	HistoryLength int             `yaml:"history_length" mapstructure:"history_length"`
	Process       ProcessConfig   `yaml:"process" mapstructure:"process"`
	Network       NetworkConfig   `yaml:"network" mapstructure:"network"`
	Disk          DiskConfig      `yaml:"disk" mapstructure:"disk"`
	Theme         ThemeConfig     `yaml:"theme" mapstructure:"theme"`
	LogFile       string          `yaml:"log_file" mapstructure:"log_file"`
	Debug         bool            `yaml:"debug" mapstructure:"debug"`
}

// CadenceConfig holds the sampling interval of each subsystem and the render tick.
type CadenceConfig struct {
	CPU     time.Duration `yaml:"cpu" mapstructure:"cpu"`
	Memory  time.Duration `yaml:"memory" mapstructure:"memory"`
	Network time.Duration `yaml:"network" mapstructure:"network"`
	Disk    time.Duration `yaml:"disk" mapstructure:"disk"`
	Battery time.Duration `yaml:"battery" mapstructure:"battery"`
	Process time.Duration `yaml:"process" mapstructure:"process"`
	Render  time.Duration `yaml:"render" mapstructure:"render"`
}

// SmoothingConfig holds the EMA factor per metric class. Higher reacts faster.
type SmoothingConfig struct {
	CPU     float64 `yaml:"cpu" mapstructure:"cpu"`
	Memory  float64 `yaml:"memory" mapstructure:"memory"`
	Network float64 `yaml:"network" mapstructure:"network"`
	Disk    float64 `yaml:"disk" mapstructure:"disk"`
	Process float64 `yaml:"process" mapstructure:"process"`
}

// ProcessConfig controls the process table defaults and the kill action.
type ProcessConfig struct {
	Sort        string `yaml:"sort" mapstructure:"sort"`
	Descending  bool   `yaml:"descending" mapstructure:"descending"`
	Tree        bool   `yaml:"tree" mapstructure:"tree"`
	Filter      string `yaml:"filter" mapstructure:"filter"`
	KillConfirm string `yaml:"kill_confirm" mapstructure:"kill_confirm"`
	KillSignal  string `yaml:"kill_signal" mapstructure:"kill_signal"`
}

type NetworkConfig struct {
	IncludeLoopback bool `yaml:"include_loopback" mapstructure:"include_loopback"`
}

type DiskConfig struct {
	IncludeVirtual bool `yaml:"include_virtual" mapstructure:"include_virtual"`
}

type ThemeConfig struct {
	NoColor bool `yaml:"no_color" mapstructure:"no_color"`
}

// Kill confirmation policies.
const (
	KillConfirmAlways = "always"
	KillConfirmNever  = "never"
)

// Kill signals understood by the process signaler.
const (
	SignalTerm = "TERM"
	SignalKill = "KILL"
)

// SortKeys lists the accepted values of process.sort.
var SortKeys = []string{"cpu", "mem", "pid", "name", "threads", "user", "command"}

// DefaultConfig returns the configuration used when no file or flag overrides a key.
func DefaultConfig() *Config {
	return &Config{
		Cadence: CadenceConfig{
			CPU:     time.Second,
			Memory:  time.Second,
			Network: time.Second,
			Disk:    2 * time.Second,
			Battery: 10 * time.Second,
			Process: 2 * time.Second,
			Render:  250 * time.Millisecond,
		},
		ShutdownGrace: 500 * time.Millisecond,
		ReadTimeout:   2 * time.Second,
		Smoothing: SmoothingConfig{
			CPU:     0.6,
			Memory:  0.5,
			Network: 0.3,
			Disk:    0.3,
			Process: 0.5,
		},
		HistoryLength: 100,
		Process: ProcessConfig{
			Sort:        "cpu",
			Descending:  true,
			Tree:        false,
			KillConfirm: KillConfirmAlways,
			KillSignal:  SignalTerm,
		},
	}
}
