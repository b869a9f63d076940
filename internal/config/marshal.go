package config

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

const fileHeader = `# brtop configuration
# Durations use Go syntax (500ms, 2s). Every key may also be set through the
# environment, e.g. BRTOP_CADENCE_CPU=500ms or BRTOP_PROCESS_SORT=mem.
`

// Marshal renders cfg as a YAML document that Load reads back unchanged.
// Durations are written as strings rather than nanosecond integers.
func Marshal(cfg *Config) ([]byte, error) {
	doc := map[string]any{
		"cadence": map[string]string{
			"cpu":     cfg.Cadence.CPU.String(),
			"memory":  cfg.Cadence.Memory.String(),
			"network": cfg.Cadence.Network.String(),
			"disk":    cfg.Cadence.Disk.String(),
			"battery": cfg.Cadence.Battery.String(),
			"process": cfg.Cadence.Process.String(),
			"render":  cfg.Cadence.Render.String(),
		},
		"shutdown_grace": cfg.ShutdownGrace.String(),
		"read_timeout":   cfg.ReadTimeout.String(),
		"smoothing": map[string]float64{
			"cpu":     cfg.Smoothing.CPU,
			"memory":  cfg.Smoothing.Memory,
			"network": cfg.Smoothing.Network,
			"disk":    cfg.Smoothing.Disk,
			"process": cfg.Smoothing.Process,
		},
		"history_length": cfg.HistoryLength,
		"process":        cfg.Process,
		"network":        cfg.Network,
		"disk":           cfg.Disk,
		"theme":          cfg.Theme,
		"log_file":       cfg.LogFile,
		"debug":          cfg.Debug,
	}

	var buf bytes.Buffer
	buf.WriteString(fileHeader)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
