// Package aggregator merges sampler updates into versioned, immutable
// system snapshots.
package aggregator

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prabalesh/brtop/internal/errors"
	"github.com/prabalesh/brtop/internal/models"
)

// Aggregator owns the latest snapshot. Apply is called from the coordinator
// only; Snapshot may be called from any goroutine.
type Aggregator struct {
	mu      sync.Mutex
	current atomic.Pointer[models.SystemSnapshot]
	now     func() time.Time
}

// New creates an aggregator whose first snapshot carries only host info and
// every subsystem pending.
func New(host models.HostInfo) *Aggregator {
	a := &Aggregator{now: time.Now}
	a.current.Store(&models.SystemSnapshot{Host: host, Taken: a.now()})
	return a
}

// Snapshot returns the latest published snapshot. Callers must not modify it.
func (a *Aggregator) Snapshot() *models.SystemSnapshot {
	return a.current.Load()
}

// Apply merges u and publishes a new snapshot. It reports false when u was
// discarded because a newer update for the same subsystem was already applied.
func (a *Aggregator) Apply(u models.Update) bool {
	if u.Subsystem < 0 || u.Subsystem >= models.NumSubsystems {
		return false
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	prev := a.current.Load()
	status := prev.Status[u.Subsystem]
	if u.Seq <= status.Seq {
		return false
	}

	next := *prev
	next.Version = prev.Version + 1
	next.Taken = a.now()
	status.Seq = u.Seq
	status.UpdatedAt = u.At

	switch {
	case u.Unavailable:
		reset(&next, u.Subsystem)
		status.State = models.Unavailable
		status.LastError = ""
	case u.Err != nil:
		// keep the stale value on screen
		status.State = models.Failed
		status.LastError = errors.Summary(u.Err)
	default:
		if err := assign(&next, u.Subsystem, u.Payload); err != nil {
			status.State = models.Failed
			status.LastError = errors.Summary(err)
			break
		}
		status.State = models.OK
		status.LastError = ""
	}

	next.Status[u.Subsystem] = status
	a.current.Store(&next)
	return true
}

// Fresh reports whether sub was updated successfully within two cadences of now.
func (a *Aggregator) Fresh(sub models.Subsystem, now time.Time, cadence time.Duration) bool {
	if sub < 0 || sub >= models.NumSubsystems {
		return false
	}
	st := a.Snapshot().Status[sub]
	if st.State != models.OK {
		return false
	}
	return now.Sub(st.UpdatedAt) <= 2*cadence
}

func reset(s *models.SystemSnapshot, sub models.Subsystem) {
	switch sub {
	case models.CPU:
		s.CPU = nil
	case models.Memory:
		s.Memory = nil
	case models.Network:
		s.Network = nil
	case models.Disk:
		s.Disk = nil
	case models.Battery:
		s.Battery = nil
	case models.Process:
		s.Processes = nil
	}
}

func assign(s *models.SystemSnapshot, sub models.Subsystem, payload any) error {
	ok := false
	switch sub {
	case models.CPU:
		var v *models.CPUSummary
		if v, ok = payload.(*models.CPUSummary); ok && v != nil {
			s.CPU = v
		}
	case models.Memory:
		var v *models.MemorySummary
		if v, ok = payload.(*models.MemorySummary); ok && v != nil {
			s.Memory = v
		}
	case models.Network:
		var v *models.NetworkSummary
		if v, ok = payload.(*models.NetworkSummary); ok && v != nil {
			s.Network = v
		}
	case models.Disk:
		var v *models.DiskSummary
		if v, ok = payload.(*models.DiskSummary); ok && v != nil {
			s.Disk = v
		}
	case models.Battery:
		var v *models.BatteryInfo
		if v, ok = payload.(*models.BatteryInfo); ok && v != nil {
			s.Battery = v
		}
	case models.Process:
		var v *models.ProcessTable
		if v, ok = payload.(*models.ProcessTable); ok && v != nil {
			s.Processes = v
		}
	}
	if !ok {
		return errors.New(errors.ErrReadTransient, fmt.Sprintf("unexpected %s payload %T", sub, payload), "")
	}
	return nil
}
