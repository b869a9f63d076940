// Package scheduler runs the samplers and owns the shutdown broadcast.
package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/prabalesh/brtop/internal/logger"
	"github.com/prabalesh/brtop/internal/models"
	"github.com/prabalesh/brtop/internal/sampler"
)

// State is the lifecycle phase of the scheduler.
type State int32

const (
	Starting State = iota
	Running
	ShuttingDown
	Stopped
)

func (s State) String() string {
	switch s {
	case Starting:
		return "starting"
	case Running:
		return "running"
	case ShuttingDown:
		return "shutting down"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// UpdateBuffer is the capacity of the update channel.
const UpdateBuffer = 64

// Scheduler launches one goroutine per sampler and cancels them on shutdown.
// The update channel is never closed; a sampler abandoned after the grace
// period may still be blocked in a read and must not panic on send.
type Scheduler struct {
	samplers []*sampler.Sampler
	grace    time.Duration
	log      logger.Logger

	updates chan models.Update
	state   atomic.Int32

	mu      sync.Mutex
	cancel  context.CancelFunc
	group   *errgroup.Group
	running map[models.Subsystem]bool
	once    sync.Once
	result  []models.Subsystem
}

func New(samplers []*sampler.Sampler, grace time.Duration, log logger.Logger) *Scheduler {
	if log == nil {
		log = logger.Noop()
	}
	return &Scheduler{
		samplers: samplers,
		grace:    grace,
		log:      log,
		updates:  make(chan models.Update, UpdateBuffer),
		running:  make(map[models.Subsystem]bool, len(samplers)),
	}
}

// Updates returns the receive side of the update channel.
func (s *Scheduler) Updates() <-chan models.Update {
	return s.updates
}

func (s *Scheduler) State() State {
	return State(s.state.Load())
}

// Start launches every sampler. It returns immediately.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.group != nil {
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.group, ctx = errgroup.WithContext(ctx)

	for _, smp := range s.samplers {
		smp := smp
		sub := smp.Subsystem()
		s.running[sub] = true
		s.group.Go(func() error {
			defer s.finished(sub)
			s.log.Debug("sampler %s started, cadence %s", sub, smp.Cadence())
			return smp.Run(ctx, s.updates)
		})
	}
	s.state.Store(int32(Running))
}

func (s *Scheduler) finished(sub models.Subsystem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.running, sub)
}

// Shutdown cancels every sampler and waits up to the grace period for them
// to return. It returns the subsystems whose samplers were still running when
// the grace period expired. Safe to call more than once.
func (s *Scheduler) Shutdown() []models.Subsystem {
	s.once.Do(func() {
		s.result = s.shutdown()
	})
	return s.result
}

func (s *Scheduler) shutdown() []models.Subsystem {
	s.mu.Lock()
	group, cancel := s.group, s.cancel
	s.mu.Unlock()

	if group == nil {
		s.state.Store(int32(Stopped))
		return nil
	}

	s.state.Store(int32(ShuttingDown))
	cancel()

	done := make(chan struct{})
	go func() {
		if err := group.Wait(); err != nil {
			s.log.Warn("sampler exited with error: %v", err)
		}
		close(done)
	}()

	var abandoned []models.Subsystem
	select {
	case <-done:
	case <-time.After(s.grace):
		s.mu.Lock()
		for _, sub := range models.Subsystems {
			if s.running[sub] {
				abandoned = append(abandoned, sub)
			}
		}
		s.mu.Unlock()
		for _, sub := range abandoned {
			s.log.Warn("sampler %s did not stop within %s, abandoning", sub, s.grace)
		}
	}

	s.state.Store(int32(Stopped))
	return abandoned
}
