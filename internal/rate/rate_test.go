package rate

import (
	"math/rand"
	"testing"
	"time"

	"github.com/prabalesh/brtop/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelta(t *testing.T) {
	tests := []struct {
		name      string
		prev, cur uint64
		want      uint64
	}{
		{"growth", 100, 150, 50},
		{"unchanged", 100, 100, 0},
		{"wrap", ^uint64(0) - 5, 10, 0},
		{"reset", 5000, 12, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Delta(tt.prev, tt.cur))
		})
	}
}

func TestPerSecondNeverNegative(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		prev := r.Uint64()
		cur := r.Uint64()
		got := PerSecond(prev, cur, time.Duration(r.Intn(5000)+1)*time.Millisecond)
		assert.GreaterOrEqual(t, got, 0.0)
		if cur < prev {
			assert.Zero(t, got, "decreasing counter must yield 0")
		}
	}

	assert.Zero(t, PerSecond(0, 100, 0), "zero elapsed")
	assert.Zero(t, PerSecond(0, 100, -time.Second), "negative elapsed")
}

func TestCounterNetworkRate(t *testing.T) {
	c := NewCounter(0.3, 10)
	t0 := time.Unix(1000, 0)

	_, ok := c.Observe(1000, t0)
	assert.False(t, ok, "first observation only primes")

	s, ok := c.Observe(3000, t0.Add(2*time.Second))
	require.True(t, ok)
	assert.InDelta(t, 1000.0, s.Instant, 1e-9)
	assert.InDelta(t, 1000.0, s.Smoothed, 1e-9, "first rate seeds the average")
}

func TestCounterUsesActualElapsed(t *testing.T) {
	c := NewCounter(1, 10)
	t0 := time.Unix(0, 0)
	c.Observe(0, t0)

	// Nominal cadence 1s but the tick fired late.
	s, _ := c.Observe(1500, t0.Add(1500*time.Millisecond))
	assert.InDelta(t, 1000.0, s.Instant, 1e-9)
}

func TestCounterResetIsZeroForOneTick(t *testing.T) {
	c := NewCounter(1, 10)
	t0 := time.Unix(0, 0)
	c.Observe(5000, t0)

	s, _ := c.Observe(100, t0.Add(time.Second))
	assert.Zero(t, s.Instant)

	s, _ = c.Observe(600, t0.Add(2*time.Second))
	assert.InDelta(t, 500.0, s.Instant, 1e-9, "new baseline after reset")
}

func TestCounterDuplicateTimestamp(t *testing.T) {
	c := NewCounter(0.5, 10)
	t0 := time.Unix(0, 0)
	c.Observe(0, t0)
	c.Observe(100, t0.Add(time.Second))

	s, ok := c.Observe(500, t0.Add(time.Second))
	assert.True(t, ok)
	assert.Zero(t, s.Instant)
	assert.InDelta(t, 100.0, s.Smoothed, 1e-9)
	assert.Len(t, c.History(), 1, "duplicate reading adds no graph point")
}

func TestEMA(t *testing.T) {
	e := NewEMA(0.5)
	assert.Equal(t, 10.0, e.Next(10))
	assert.Equal(t, 15.0, e.Next(20))
	assert.Equal(t, 7.5, e.Next(0))

	invalid := NewEMA(0)
	invalid.Next(3)
	assert.Equal(t, 9.0, invalid.Next(9), "out of range alpha disables smoothing")
}

func TestCorePercent(t *testing.T) {
	prev := models.CPUTicks{Active: 100, Total: 1000}
	cur := models.CPUTicks{Active: 150, Total: 1100}
	assert.InDelta(t, 50.0, CorePercent(prev, cur), 0.01)

	assert.Zero(t, CorePercent(cur, prev), "counter reset")
	assert.Zero(t, CorePercent(prev, prev), "no elapsed ticks")
	assert.Equal(t, 100.0, CorePercent(prev, models.CPUTicks{Active: 400, Total: 1100}), "clamped")
}

func TestWeightedPercent(t *testing.T) {
	prev := []models.CPUTicks{{Active: 0, Total: 0}, {Active: 0, Total: 0}}
	cur := []models.CPUTicks{{Active: 90, Total: 100}, {Active: 10, Total: 300}}

	// Simple mean would be (90% + 3.3%) / 2 = 46.7%; weighted is 100/400.
	assert.InDelta(t, 25.0, WeightedPercent(prev, cur), 0.01)

	t.Run("hot plugged core ignored", func(t *testing.T) {
		cur3 := append(append([]models.CPUTicks{}, cur...), models.CPUTicks{Active: 500, Total: 500})
		assert.InDelta(t, 25.0, WeightedPercent(prev, cur3), 0.01)
	})

	t.Run("offline core contributes nothing", func(t *testing.T) {
		stalled := []models.CPUTicks{{Active: 90, Total: 100}, {Active: 0, Total: 0}}
		assert.InDelta(t, 90.0, WeightedPercent(prev, stalled), 0.01)
	})

	t.Run("no ticks", func(t *testing.T) {
		assert.Zero(t, WeightedPercent(nil, nil))
	})
}
