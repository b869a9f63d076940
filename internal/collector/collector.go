// Package collector reads raw OS counters. Every reader is stateless apart
// from caches of slow-changing facts; turning counters into rates is the
// sampler's job.
package collector

import (
	"context"
	"time"

	"github.com/prabalesh/brtop/internal/config"
	"github.com/prabalesh/brtop/internal/models"
	"github.com/spf13/afero"
)

// Reader performs one bounded read of a subsystem's counters.
//
// A reader returns errors.ErrUnavailable (possibly wrapped) when the
// subsystem does not exist on this host. Any other error is a failed read
// that the caller may retry on its next tick.
type Reader interface {
	Subsystem() models.Subsystem
	Read(ctx context.Context) (models.Reading, error)
}

// clock is swapped in tests.
type clock func() time.Time

// NewReaders builds the production reader for every subsystem.
func NewReaders(cfg *config.Config) []Reader {
	cache := NewInfoCache()
	return []Reader{
		NewCPUReader(cache),
		NewMemoryReader(),
		NewNetworkReader(cfg.Network.IncludeLoopback),
		NewDiskReader(cfg.Disk.IncludeVirtual),
		NewBatteryReader(afero.NewOsFs(), DefaultPowerSupplyDir),
		NewProcessReader(NewUserCache()),
	}
}
