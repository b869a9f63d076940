package models

import "time"

// Subsystem identifies one independently sampled source of OS counters.
type Subsystem int

const (
	CPU Subsystem = iota
	Memory
	Network
	Disk
	Battery
	Process

	// NumSubsystems is the number of sampled subsystems.
	NumSubsystems
)

// Subsystems lists every subsystem in display order.
var Subsystems = []Subsystem{CPU, Memory, Network, Disk, Battery, Process}

func (s Subsystem) String() string {
	switch s {
	case CPU:
		return "cpu"
	case Memory:
		return "memory"
	case Network:
		return "network"
	case Disk:
		return "disk"
	case Battery:
		return "battery"
	case Process:
		return "process"
	default:
		return "unknown"
	}
}

// Reading is a raw, point-in-time counter reading for one subsystem.
// Implementations are immutable once returned by a reader.
type Reading interface {
	Subsystem() Subsystem
	CapturedAt() time.Time
}

// RateSample pairs the instantaneous rate used for numbers with the
// smoothed value used for graphs.
type RateSample struct {
	Instant  float64 `json:"instant"`
	Smoothed float64 `json:"smoothed"`
}

// Update is what a sampler sends to the coordinator for one tick.
// Exactly one of Payload, Unavailable or Err is meaningful.
type Update struct {
	Subsystem   Subsystem
	Seq         uint64
	At          time.Time
	Payload     any
	Unavailable bool
	Err         error
}
