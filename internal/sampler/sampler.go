// Package sampler runs one collector per subsystem on its own cadence and
// emits derived, immutable payloads to the coordinator.
package sampler

import (
	"context"
	"fmt"
	"time"

	"github.com/prabalesh/brtop/internal/collector"
	"github.com/prabalesh/brtop/internal/errors"
	"github.com/prabalesh/brtop/internal/logger"
	"github.com/prabalesh/brtop/internal/models"
)

// Sampler owns a reader and the rate state derived from it. Run must be
// called at most once; the sampler is not safe for concurrent use.
type Sampler struct {
	reader  collector.Reader
	deriver Deriver
	cadence time.Duration
	timeout time.Duration
	log     logger.Logger

	seq uint64
}

// New creates a sampler. timeout bounds each read; zero means the cadence.
func New(reader collector.Reader, deriver Deriver, cadence, timeout time.Duration, log logger.Logger) *Sampler {
	if timeout <= 0 {
		timeout = cadence
	}
	if log == nil {
		log = logger.Noop()
	}
	return &Sampler{
		reader:  reader,
		deriver: deriver,
		cadence: cadence,
		timeout: timeout,
		log:     log,
	}
}

func (s *Sampler) Subsystem() models.Subsystem { return s.reader.Subsystem() }
func (s *Sampler) Cadence() time.Duration      { return s.cadence }

// Run samples immediately and then once per cadence until ctx is cancelled.
// Cancellation is checked before and after every read; a result that
// completes after cancellation is discarded.
func (s *Sampler) Run(ctx context.Context, out chan<- models.Update) error {
	ticker := time.NewTicker(s.cadence)
	defer ticker.Stop()

	for {
		s.tick(ctx, out)

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (s *Sampler) tick(ctx context.Context, out chan<- models.Update) {
	if ctx.Err() != nil {
		return
	}

	reading, err := s.read(ctx)
	if ctx.Err() != nil {
		return
	}

	sub := s.reader.Subsystem()
	upd := models.Update{Subsystem: sub, At: time.Now()}

	switch {
	case errors.Is(err, errors.ErrUnavailable):
		upd.Unavailable = true
	case err != nil:
		s.log.Debug("%s read failed: %v", sub, errors.Summary(err))
		upd.Err = err
	default:
		payload, derr := s.deriver.Derive(reading)
		switch {
		case derr != nil:
			upd.Err = derr
		case payload == nil:
			// first reading of a rate metric only primes the baseline
			return
		default:
			upd.Payload = payload
			upd.At = reading.CapturedAt()
		}
	}

	s.seq++
	upd.Seq = s.seq

	select {
	case out <- upd:
	case <-ctx.Done():
	}
}

// read runs one bounded read. A reader panic is reported as a failed read.
func (s *Sampler) read(ctx context.Context) (reading models.Reading, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New(errors.ErrReadTransient, fmt.Sprintf("%s reader panicked: %v", s.reader.Subsystem(), r), "")
		}
	}()

	rctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	reading, err = s.reader.Read(rctx)
	if err == nil && reading == nil {
		err = errors.New(errors.ErrReadTransient, fmt.Sprintf("%s reader returned nothing", s.reader.Subsystem()), "")
	}
	return reading, err
}
