package models

import "time"

// MountCounters are the usage figures and cumulative IO bytes of one mount.
type MountCounters struct {
	Device     string `json:"device"`
	Mountpoint string `json:"mountpoint"`
	Filesystem string `json:"filesystem"`
	Total      uint64 `json:"total"`
	Used       uint64 `json:"used"`
	Free       uint64 `json:"free"`
	ReadBytes  uint64 `json:"read_bytes"`
	WriteBytes uint64 `json:"write_bytes"`
	HasIO      bool   `json:"has_io"`
}

type DiskReading struct {
	At     time.Time
	Mounts []MountCounters
}

func (r *DiskReading) Subsystem() Subsystem  { return Disk }
func (r *DiskReading) CapturedAt() time.Time { return r.At }

type DiskUsage struct {
	Device       string     `json:"device"`
	Mountpoint   string     `json:"mountpoint"`
	Filesystem   string     `json:"filesystem"`
	Total        uint64     `json:"total"`
	Used         uint64     `json:"used"`
	Free         uint64     `json:"free"`
	UsagePercent float64    `json:"usage_percent"`
	Read         RateSample `json:"read"`
	Write        RateSample `json:"write"`
	HasIO        bool       `json:"has_io"`
}

type DiskSummary struct {
	Mounts map[string]DiskUsage `json:"mounts"`
}
