package collector

import (
	"context"
	"fmt"

	"github.com/prabalesh/brtop/internal/config"
	"github.com/prabalesh/brtop/internal/errors"
	"github.com/shirou/gopsutil/v3/process"
)

// signalTarget is the subset of *process.Process needed to deliver a signal.
type signalTarget interface {
	NameWithContext(ctx context.Context) (string, error)
	TerminateWithContext(ctx context.Context) error
	KillWithContext(ctx context.Context) error
}

// SignalResult describes a delivered signal.
type SignalResult struct {
	PID    int32
	Name   string
	Signal string
}

// Signaler sends termination signals to processes. It never waits for the
// target to exit.
type Signaler struct {
	open func(ctx context.Context, pid int32) (signalTarget, error)
}

func NewSignaler() *Signaler {
	return &Signaler{
		open: func(ctx context.Context, pid int32) (signalTarget, error) {
			return process.NewProcessWithContext(ctx, pid)
		},
	}
}

// Signal delivers sig (config.SignalTerm or config.SignalKill) to pid.
// Errors are normalized to errors.ErrProcessNotFound or
// errors.ErrPermissionDenied where possible, wrapped as ErrActionFailed.
func (s *Signaler) Signal(ctx context.Context, pid int32, sig string) (SignalResult, error) {
	result := SignalResult{PID: pid, Signal: sig}
	if pid <= 0 {
		return result, errors.New(errors.ErrActionFailed, fmt.Sprintf("invalid pid %d", pid), "")
	}

	proc, err := s.open(ctx, pid)
	if err != nil {
		return result, normalizeSignalErr(err, pid)
	}
	if name, err := proc.NameWithContext(ctx); err == nil {
		result.Name = name
	}

	switch sig {
	case config.SignalKill:
		err = proc.KillWithContext(ctx)
	default:
		result.Signal = config.SignalTerm
		err = proc.TerminateWithContext(ctx)
	}
	if err != nil {
		return result, normalizeSignalErr(err, pid)
	}
	return result, nil
}

func normalizeSignalErr(err error, pid int32) error {
	msg := fmt.Sprintf("Cannot signal pid %d", pid)
	switch {
	case isProcessMissingErr(err):
		return errors.WrapWithCode(errors.ErrProcessNotFound, errors.ErrActionFailed, msg, "")
	case isPermissionErr(err):
		return errors.WrapWithCode(errors.ErrPermissionDenied, errors.ErrActionFailed, msg, "")
	default:
		return errors.WrapWithCode(err, errors.ErrActionFailed, msg, "")
	}
}
