// Package rate turns cumulative OS counters into per-second rates and
// smoothed graph series.
//
// Counters only ever grow; a decrease means the counter wrapped or its
// source restarted. Such a tick is recorded as a rate of zero rather than a
// negative value or a spike, and the new value becomes the baseline.
package rate

import (
	"time"

	"github.com/prabalesh/brtop/internal/models"
)

// Delta returns cur-prev, or 0 when the counter went backwards.
func Delta(prev, cur uint64) uint64 {
	if cur < prev {
		return 0
	}
	return cur - prev
}

// PerSecond returns the rate between two readings taken elapsed apart.
// elapsed must come from the readings' capture times, not the nominal cadence.
func PerSecond(prev, cur uint64, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(Delta(prev, cur)) / elapsed.Seconds()
}

// EMA is an exponential moving average: s = α·x + (1−α)·s_prev.
// The first value seeds the average.
type EMA struct {
	alpha  float64
	value  float64
	primed bool
}

// NewEMA creates an average with factor alpha, clamped to (0, 1].
func NewEMA(alpha float64) EMA {
	if alpha <= 0 || alpha > 1 {
		alpha = 1
	}
	return EMA{alpha: alpha}
}

// Next folds x into the average and returns the new smoothed value.
func (e *EMA) Next(x float64) float64 {
	if !e.primed {
		e.value = x
		e.primed = true
		return x
	}
	e.value = e.alpha*x + (1-e.alpha)*e.value
	return e.value
}

// Value returns the current smoothed value.
func (e *EMA) Value() float64 {
	return e.value
}

// Counter tracks one cumulative counter. It retains exactly the previous
// reading plus the graph history of its smoothed rate.
type Counter struct {
	prev   uint64
	prevAt time.Time
	primed bool
	series *Series
}

// NewCounter creates a counter whose rate is smoothed with alpha and whose
// history keeps the last size points.
func NewCounter(alpha float64, size int) *Counter {
	return &Counter{series: NewSeries(alpha, size)}
}

// Observe records value captured at at. The first observation only sets the
// baseline and returns ok=false.
func (c *Counter) Observe(value uint64, at time.Time) (models.RateSample, bool) {
	if !c.primed {
		c.prev, c.prevAt, c.primed = value, at, true
		return models.RateSample{}, false
	}

	elapsed := at.Sub(c.prevAt)
	if elapsed <= 0 {
		// Same or earlier timestamp: nothing to measure, keep the baseline.
		return models.RateSample{Smoothed: c.series.Current()}, true
	}

	instant := PerSecond(c.prev, value, elapsed)
	c.prev, c.prevAt = value, at
	return c.series.Add(instant), true
}

// History returns the smoothed rate history, oldest first.
func (c *Counter) History() []float64 {
	return c.series.Values()
}

// CorePercent returns the busy percentage of one core between two readings,
// clamped to [0, 100].
func CorePercent(prev, cur models.CPUTicks) float64 {
	total := cur.Total - prev.Total
	active := cur.Active - prev.Active
	if total <= 0 || active <= 0 {
		return 0
	}
	return clampPercent(active / total * 100)
}

// WeightedPercent returns the aggregate busy percentage over all cores,
// weighting each core by its total tick delta. Cores present in only one of
// the readings (hot-plug) are ignored.
func WeightedPercent(prev, cur []models.CPUTicks) float64 {
	n := min(len(prev), len(cur))

	var active, total float64
	for i := 0; i < n; i++ {
		dt := cur[i].Total - prev[i].Total
		if dt <= 0 {
			continue
		}
		da := cur[i].Active - prev[i].Active
		if da < 0 {
			da = 0
		}
		if da > dt {
			da = dt
		}
		active += da
		total += dt
	}
	if total <= 0 {
		return 0
	}
	return clampPercent(active / total * 100)
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
