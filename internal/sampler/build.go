package sampler

import (
	"time"

	"github.com/prabalesh/brtop/internal/collector"
	"github.com/prabalesh/brtop/internal/config"
	"github.com/prabalesh/brtop/internal/logger"
	"github.com/prabalesh/brtop/internal/models"
)

// CadenceFor returns the configured sampling interval of sub.
func CadenceFor(sub models.Subsystem, cfg *config.Config) time.Duration {
	switch sub {
	case models.CPU:
		return cfg.Cadence.CPU
	case models.Memory:
		return cfg.Cadence.Memory
	case models.Network:
		return cfg.Cadence.Network
	case models.Disk:
		return cfg.Cadence.Disk
	case models.Battery:
		return cfg.Cadence.Battery
	case models.Process:
		return cfg.Cadence.Process
	default:
		return cfg.Cadence.CPU
	}
}

// Build wires one sampler per reader using the cadences and smoothing
// factors from cfg.
func Build(readers []collector.Reader, cfg *config.Config, log logger.Logger) []*Sampler {
	samplers := make([]*Sampler, 0, len(readers))
	for _, r := range readers {
		sub := r.Subsystem()
		cadence := CadenceFor(sub, cfg)
		timeout := min(cfg.ReadTimeout, cadence)
		samplers = append(samplers, New(r, NewDeriver(sub, cfg), cadence, timeout, log))
	}
	return samplers
}
