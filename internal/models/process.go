package models

import "time"

// ProcessState is the scheduler state of a process.
type ProcessState string

const (
	StateRunning  ProcessState = "running"
	StateSleeping ProcessState = "sleeping"
	StateZombie   ProcessState = "zombie"
	StateStopped  ProcessState = "stopped"
	StateIdle     ProcessState = "idle"
	StateUnknown  ProcessState = "unknown"
)

// Short returns the one-letter code shown in the process table.
func (s ProcessState) Short() string {
	switch s {
	case StateRunning:
		return "R"
	case StateSleeping:
		return "S"
	case StateZombie:
		return "Z"
	case StateStopped:
		return "T"
	case StateIdle:
		return "I"
	default:
		return "?"
	}
}

// ProcessCounters are the raw per-process values of one scan.
type ProcessCounters struct {
	PID     int32
	PPID    int32
	Name    string
	Command string
	User    string
	State   ProcessState
	// CPUTime is cumulative user+system time in seconds.
	CPUTime float64
	RSS     uint64
	Threads int32
	// StartTime is the creation time in milliseconds since the epoch.
	StartTime int64
	// Partial is set when some detail could not be read (permission denied).
	Partial bool
}

type ProcessReading struct {
	At        time.Time
	NumCPU    int
	MemTotal  uint64
	Processes []ProcessCounters
}

func (r *ProcessReading) Subsystem() Subsystem  { return Process }
func (r *ProcessReading) CapturedAt() time.Time { return r.At }

type ProcessInfo struct {
	PID        int32        `json:"pid"`
	PPID       int32        `json:"ppid"`
	User       string       `json:"user"`
	Name       string       `json:"name"`
	Command    string       `json:"command"`
	State      ProcessState `json:"state"`
	CPUPercent float64      `json:"cpu_percent"`
	MemPercent float64      `json:"mem_percent"`
	RSS        uint64       `json:"rss"`
	Threads    int32        `json:"threads"`
	StartTime  time.Time    `json:"start_time"`
	Partial    bool         `json:"partial"`
	CPUHistory []float64    `json:"cpu_history"`
}

type ProcessCounts struct {
	Total    int `json:"total"`
	Running  int `json:"running"`
	Sleeping int `json:"sleeping"`
	Zombie   int `json:"zombie"`
	Stopped  int `json:"stopped"`
	Threads  int `json:"threads"`
}

type ProcessTable struct {
	Processes map[int32]ProcessInfo `json:"processes"`
	Counts    ProcessCounts         `json:"counts"`
}
