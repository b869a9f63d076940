package models

import "time"

// Availability is the state of one subsystem inside a snapshot.
type Availability int

const (
	// Pending means no update has arrived yet.
	Pending Availability = iota
	OK
	// Failed means the last read failed; the previous value is still shown.
	Failed
	// Unavailable means the subsystem is absent on this host.
	Unavailable
)

func (a Availability) String() string {
	switch a {
	case OK:
		return "ok"
	case Failed:
		return "failed"
	case Unavailable:
		return "unavailable"
	default:
		return "pending"
	}
}

type SubsystemStatus struct {
	State     Availability `json:"state"`
	Seq       uint64       `json:"seq"`
	UpdatedAt time.Time    `json:"updated_at"`
	LastError string       `json:"last_error,omitempty"`
}

// SystemSnapshot is an immutable aggregate of the latest value of every
// subsystem. A nil field means the subsystem has no value (pending or
// unavailable); see Status for which.
type SystemSnapshot struct {
	Version   uint64          `json:"version"`
	Taken     time.Time       `json:"taken"`
	Host      HostInfo        `json:"host"`
	CPU       *CPUSummary     `json:"cpu,omitempty"`
	Memory    *MemorySummary  `json:"memory,omitempty"`
	Network   *NetworkSummary `json:"network,omitempty"`
	Disk      *DiskSummary    `json:"disk,omitempty"`
	Battery   *BatteryInfo    `json:"battery,omitempty"`
	Processes *ProcessTable   `json:"processes,omitempty"`

	Status [NumSubsystems]SubsystemStatus `json:"status"`
}

type HostInfo struct {
	Hostname string    `json:"hostname"`
	OS       string    `json:"os"`
	Platform string    `json:"platform"`
	Kernel   string    `json:"kernel"`
	Arch     string    `json:"arch"`
	BootTime time.Time `json:"boot_time"`
}

// Uptime returns the time since boot, or zero if the boot time is unknown.
func (h HostInfo) Uptime(now time.Time) time.Duration {
	if h.BootTime.IsZero() {
		return 0
	}
	return now.Sub(h.BootTime)
}

// CPUTicks are cumulative active and total time for one core.
type CPUTicks struct {
	Active float64 `json:"active"`
	Total  float64 `json:"total"`
}

type CPUReading struct {
	At      time.Time
	Cores   []CPUTicks
	Model   string
	MHz     float64
	TempC   float64
	HasTemp bool
}

func (r *CPUReading) Subsystem() Subsystem  { return CPU }
func (r *CPUReading) CapturedAt() time.Time { return r.At }

type CPUSummary struct {
	Percent RateSample   `json:"percent"`
	Cores   []RateSample `json:"cores"`
	History []float64    `json:"history"`
	Model   string       `json:"model"`
	MHz     float64      `json:"mhz"`
	TempC   float64      `json:"temperature"`
	HasTemp bool         `json:"has_temperature"`
}

type MemoryReading struct {
	At        time.Time
	Total     uint64
	Used      uint64
	Free      uint64
	Available uint64
	Cached    uint64
	SwapTotal uint64
	SwapUsed  uint64
}

func (r *MemoryReading) Subsystem() Subsystem  { return Memory }
func (r *MemoryReading) CapturedAt() time.Time { return r.At }

type MemorySummary struct {
	Total        uint64    `json:"total"`
	Used         uint64    `json:"used"`
	Free         uint64    `json:"free"`
	Available    uint64    `json:"available"`
	Cached       uint64    `json:"cached"`
	UsagePercent float64   `json:"usage_percent"`
	SwapTotal    uint64    `json:"swap_total"`
	SwapUsed     uint64    `json:"swap_used"`
	SwapPercent  float64   `json:"swap_percent"`
	History      []float64 `json:"history"`
}

// BatteryStatus is the charge state reported by the power supply.
type BatteryStatus string

const (
	BatteryCharging    BatteryStatus = "Charging"
	BatteryDischarging BatteryStatus = "Discharging"
	BatteryFull        BatteryStatus = "Full"
	BatteryNotCharging BatteryStatus = "Not charging"
	BatteryUnknown     BatteryStatus = "Unknown"
)

type BatteryReading struct {
	At     time.Time
	Name   string
	Status BatteryStatus
	// Percent as reported by the capacity file, used when energy values are missing.
	Percent float64
	// Energy values in watt-hours, power in watts.
	EnergyNow        float64
	EnergyFull       float64
	EnergyFullDesign float64
	PowerNow         float64
}

func (r *BatteryReading) Subsystem() Subsystem  { return Battery }
func (r *BatteryReading) CapturedAt() time.Time { return r.At }

type BatteryInfo struct {
	Name        string        `json:"name"`
	Level       float64       `json:"level"`
	Status      BatteryStatus `json:"status"`
	IsCharging  bool          `json:"is_charging"`
	PowerWatts  float64       `json:"power_watts"`
	TimeToEmpty time.Duration `json:"time_to_empty"`
	TimeToFull  time.Duration `json:"time_to_full"`
	Health      float64       `json:"health"`
}
