package collector

import (
	"context"
	"fmt"
	"syscall"
	"testing"

	"github.com/prabalesh/brtop/internal/config"
	"github.com/prabalesh/brtop/internal/errors"
	"github.com/shirou/gopsutil/v3/process"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTarget struct {
	termErr    error
	killErr    error
	terminated bool
	killed     bool
}

func (f *fakeTarget) NameWithContext(ctx context.Context) (string, error) { return "victim", nil }
func (f *fakeTarget) TerminateWithContext(ctx context.Context) error {
	f.terminated = true
	return f.termErr
}
func (f *fakeTarget) KillWithContext(ctx context.Context) error {
	f.killed = true
	return f.killErr
}

func signalerFor(target *fakeTarget, openErr error) *Signaler {
	return &Signaler{open: func(ctx context.Context, pid int32) (signalTarget, error) {
		if openErr != nil {
			return nil, openErr
		}
		return target, nil
	}}
}

func TestSignalerTerm(t *testing.T) {
	target := &fakeTarget{}
	res, err := signalerFor(target, nil).Signal(context.Background(), 42, config.SignalTerm)
	require.NoError(t, err)
	assert.True(t, target.terminated)
	assert.False(t, target.killed)
	assert.Equal(t, "victim", res.Name)
	assert.Equal(t, config.SignalTerm, res.Signal)
}

func TestSignalerKill(t *testing.T) {
	target := &fakeTarget{}
	_, err := signalerFor(target, nil).Signal(context.Background(), 42, config.SignalKill)
	require.NoError(t, err)
	assert.True(t, target.killed)
}

func TestSignalerErrors(t *testing.T) {
	tests := []struct {
		name    string
		target  *fakeTarget
		openErr error
		want    error
	}{
		{"no such process on open", nil, process.ErrorProcessNotRunning, errors.ErrProcessNotFound},
		{"esrch on term", &fakeTarget{termErr: syscall.ESRCH}, nil, errors.ErrProcessNotFound},
		{"eperm on term", &fakeTarget{termErr: syscall.EPERM}, nil, errors.ErrPermissionDenied},
		{"text permission", &fakeTarget{termErr: fmt.Errorf("operation not permitted")}, nil, errors.ErrPermissionDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := signalerFor(tt.target, tt.openErr).Signal(context.Background(), 42, config.SignalTerm)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrActionFailed))
			assert.True(t, errors.Is(err, tt.want))
		})
	}
}

func TestSignalerInvalidPID(t *testing.T) {
	_, err := NewSignaler().Signal(context.Background(), 0, config.SignalTerm)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrActionFailed))
}
