package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/prabalesh/brtop/internal/logger"
	"github.com/prabalesh/brtop/internal/models"
	"github.com/prabalesh/brtop/internal/sampler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memReader struct{}

func (memReader) Subsystem() models.Subsystem { return models.Memory }

func (memReader) Read(ctx context.Context) (models.Reading, error) {
	return &models.MemoryReading{At: time.Now(), Total: 100, Used: 50}, nil
}

// stuckReader ignores cancellation, like a read blocked in the kernel.
type stuckReader struct {
	release chan struct{}
}

func (stuckReader) Subsystem() models.Subsystem { return models.Disk }

func (r stuckReader) Read(ctx context.Context) (models.Reading, error) {
	<-r.release
	return &models.DiskReading{At: time.Now()}, nil
}

func TestSchedulerDeliversUpdates(t *testing.T) {
	smp := sampler.New(memReader{}, sampler.NewMemoryDeriver(1, 10), 10*time.Millisecond, 0, nil)
	s := New([]*sampler.Sampler{smp}, time.Second, nil)
	assert.Equal(t, Starting, s.State())

	s.Start(context.Background())
	assert.Equal(t, Running, s.State())

	select {
	case u := <-s.Updates():
		assert.Equal(t, models.Memory, u.Subsystem)
		assert.Equal(t, uint64(1), u.Seq)
	case <-time.After(2 * time.Second):
		t.Fatal("no update")
	}

	assert.Empty(t, s.Shutdown())
	assert.Equal(t, Stopped, s.State())
}

func TestShutdownStopsSamplersWhenNobodyReads(t *testing.T) {
	smp := sampler.New(memReader{}, sampler.NewMemoryDeriver(1, 10), time.Millisecond, 0, nil)
	s := New([]*sampler.Sampler{smp}, time.Second, nil)
	s.Start(context.Background())

	// let the buffer fill so the sampler blocks on send
	time.Sleep(150 * time.Millisecond)

	start := time.Now()
	assert.Empty(t, s.Shutdown())
	assert.Less(t, time.Since(start), time.Second)
}

func TestShutdownAbandonsBlockedReader(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	log := logger.NewBufferLogger()
	stuck := sampler.New(stuckReader{release: release}, sampler.NewDiskDeriver(1, 10), time.Hour, time.Hour, nil)
	ok := sampler.New(memReader{}, sampler.NewMemoryDeriver(1, 10), 10*time.Millisecond, 0, nil)
	s := New([]*sampler.Sampler{stuck, ok}, 50*time.Millisecond, log)
	s.Start(context.Background())
	time.Sleep(20 * time.Millisecond)

	start := time.Now()
	abandoned := s.Shutdown()
	elapsed := time.Since(start)

	require.Equal(t, []models.Subsystem{models.Disk}, abandoned)
	assert.GreaterOrEqual(t, elapsed, 50*time.Millisecond)
	assert.Less(t, elapsed, time.Second)
	var warned []string
	for _, m := range log.Snapshot() {
		if m.Level == "warn" {
			warned = append(warned, m.Message)
		}
	}
	assert.Contains(t, warned, "sampler disk did not stop within 50ms, abandoning")
	assert.Equal(t, Stopped, s.State())

	// idempotent
	assert.Equal(t, abandoned, s.Shutdown())
}

func TestShutdownWithoutStart(t *testing.T) {
	s := New(nil, time.Second, nil)
	assert.Empty(t, s.Shutdown())
	assert.Equal(t, Stopped, s.State())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "shutting down", ShuttingDown.String())
}
