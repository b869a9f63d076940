package rate

import "github.com/prabalesh/brtop/internal/models"

// DefaultHistorySize is the number of graph points kept per metric.
const DefaultHistorySize = 100

// Ring is a fixed-size circular buffer for float64 values.
// It is not safe for concurrent use; each sampler owns its rings.
type Ring struct {
	data  []float64
	head  int
	count int
}

// NewRing creates a ring holding at most size values.
func NewRing(size int) *Ring {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &Ring{data: make([]float64, size)}
}

// Push appends v, overwriting the oldest value when full.
func (r *Ring) Push(v float64) {
	r.data[r.head] = v
	r.head = (r.head + 1) % len(r.data)
	if r.count < len(r.data) {
		r.count++
	}
}

func (r *Ring) Len() int { return r.count }
func (r *Ring) Cap() int { return len(r.data) }

// Last returns up to n of the most recent values, oldest first, in a new slice.
func (r *Ring) Last(n int) []float64 {
	if n > r.count {
		n = r.count
	}
	if n <= 0 {
		return nil
	}

	out := make([]float64, n)
	start := (r.head - n + len(r.data)) % len(r.data)
	for i := 0; i < n; i++ {
		out[i] = r.data[(start+i)%len(r.data)]
	}
	return out
}

// Values returns every stored value, oldest first, in a new slice.
func (r *Ring) Values() []float64 {
	return r.Last(r.count)
}

// Series is an EMA whose smoothed outputs are kept in a Ring for graphing.
type Series struct {
	ema  EMA
	ring *Ring
}

func NewSeries(alpha float64, size int) *Series {
	return &Series{ema: NewEMA(alpha), ring: NewRing(size)}
}

// Add folds x into the series and returns the raw and smoothed values.
func (s *Series) Add(x float64) models.RateSample {
	smoothed := s.ema.Next(x)
	s.ring.Push(smoothed)
	return models.RateSample{Instant: x, Smoothed: smoothed}
}

// Current returns the latest smoothed value.
func (s *Series) Current() float64 { return s.ema.Value() }

// Values returns the smoothed history, oldest first.
func (s *Series) Values() []float64 { return s.ring.Values() }
