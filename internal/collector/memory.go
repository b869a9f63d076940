package collector

import (
	"context"
	"time"

	"github.com/prabalesh/brtop/internal/errors"
	"github.com/prabalesh/brtop/internal/models"
	"github.com/shirou/gopsutil/v3/mem"
)

type MemoryReader struct {
	now     clock
	virtual func(ctx context.Context) (*mem.VirtualMemoryStat, error)
	swap    func(ctx context.Context) (*mem.SwapMemoryStat, error)
}

func NewMemoryReader() *MemoryReader {
	return &MemoryReader{
		now:     time.Now,
		virtual: mem.VirtualMemoryWithContext,
		swap:    mem.SwapMemoryWithContext,
	}
}

func (r *MemoryReader) Subsystem() models.Subsystem { return models.Memory }

func (r *MemoryReader) Read(ctx context.Context) (models.Reading, error) {
	vm, err := r.virtual(ctx)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrReadTransient, "Failed to read memory", "")
	}

	reading := &models.MemoryReading{
		At:        r.now(),
		Total:     vm.Total,
		Used:      vm.Used,
		Free:      vm.Free,
		Available: vm.Available,
		Cached:    vm.Cached + vm.Buffers,
	}

	// Swap is optional; a host without swap still has memory.
	if sw, err := r.swap(ctx); err == nil && sw != nil {
		reading.SwapTotal = sw.Total
		reading.SwapUsed = sw.Used
	}

	return reading, nil
}
