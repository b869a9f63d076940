package collector

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/prabalesh/brtop/internal/errors"
	"github.com/prabalesh/brtop/internal/models"
	"github.com/shirou/gopsutil/v3/disk"
)

var virtualFilesystems = map[string]bool{
	"tmpfs":    true,
	"devtmpfs": true,
	"overlay":  true,
	"squashfs": true,
	"proc":     true,
	"sysfs":    true,
	"cgroup":   true,
	"cgroup2":  true,
	"autofs":   true,
	"nsfs":     true,
}

type DiskReader struct {
	includeVirtual bool
	now            clock

	partitions func(ctx context.Context, all bool) ([]disk.PartitionStat, error)
	usage      func(ctx context.Context, path string) (*disk.UsageStat, error)
	io         func(ctx context.Context, names ...string) (map[string]disk.IOCountersStat, error)
	resolve    func(path string) (string, error)
}

func NewDiskReader(includeVirtual bool) *DiskReader {
	return &DiskReader{
		includeVirtual: includeVirtual,
		now:            time.Now,
		partitions:     disk.PartitionsWithContext,
		usage:          disk.UsageWithContext,
		io:             disk.IOCountersWithContext,
		resolve:        filepath.EvalSymlinks,
	}
}

func (r *DiskReader) Subsystem() models.Subsystem { return models.Disk }

func (r *DiskReader) Read(ctx context.Context) (models.Reading, error) {
	parts, err := r.partitions(ctx, false)
	if err != nil && len(parts) == 0 {
		return nil, errors.WrapWithCode(err, errors.ErrReadTransient, "Failed to list partitions", "")
	}

	// IO counters are best effort; usage alone is still worth showing.
	counters, _ := r.io(ctx)

	reading := &models.DiskReading{At: r.now()}
	seen := make(map[string]bool)
	for _, p := range parts {
		if seen[p.Mountpoint] || r.shouldSkip(p) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		u, err := r.usage(ctx, p.Mountpoint)
		if err != nil || u == nil || u.Total == 0 {
			continue
		}
		seen[p.Mountpoint] = true

		mc := models.MountCounters{
			Device:     p.Device,
			Mountpoint: p.Mountpoint,
			Filesystem: p.Fstype,
			Total:      u.Total,
			Used:       u.Used,
			Free:       u.Free,
		}
		if io, ok := counters[r.ioName(p.Device)]; ok {
			mc.ReadBytes = io.ReadBytes
			mc.WriteBytes = io.WriteBytes
			mc.HasIO = true
		}
		reading.Mounts = append(reading.Mounts, mc)
	}

	return reading, nil
}

// shouldSkip drops pseudo filesystems and loop devices unless asked not to.
func (r *DiskReader) shouldSkip(p disk.PartitionStat) bool {
	mount := strings.TrimSpace(p.Mountpoint)
	if mount == "" {
		return true
	}
	if r.includeVirtual {
		return false
	}
	if virtualFilesystems[p.Fstype] {
		return true
	}
	if strings.Contains(p.Device, "loop") {
		return true
	}
	if mount == "/dev" || strings.HasPrefix(mount, "/dev/") || strings.HasPrefix(mount, "/proc") || strings.HasPrefix(mount, "/sys") {
		return true
	}
	return !strings.HasPrefix(p.Device, "/dev")
}

// ioName maps a device path to its diskstats name, following
// /dev/mapper style symlinks to the dm-N node.
func (r *DiskReader) ioName(device string) string {
	if resolved, err := r.resolve(device); err == nil {
		device = resolved
	}
	return filepath.Base(device)
}
