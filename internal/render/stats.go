package render

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Stats tracks frame render latency.
type Stats struct {
	hist   *hdrhistogram.Histogram
	frames int64
}

// NewStats records latencies from 1µs to 10s with three significant digits.
func NewStats() *Stats {
	return &Stats{hist: hdrhistogram.New(1, int64(10*time.Second/time.Microsecond), 3)}
}

// Record adds one frame that took d to render.
func (s *Stats) Record(d time.Duration) {
	s.frames++
	us := d.Microseconds()
	if us < 1 {
		us = 1
	}
	// values above the trackable range are dropped by the histogram
	_ = s.hist.RecordValue(us)
}

func (s *Stats) Frames() int64 { return s.frames }

// Quantile returns the q-th percentile (0-100) frame latency.
func (s *Stats) Quantile(q float64) time.Duration {
	if s.hist.TotalCount() == 0 {
		return 0
	}
	return time.Duration(s.hist.ValueAtQuantile(q)) * time.Microsecond
}

func (s *Stats) Max() time.Duration {
	return time.Duration(s.hist.Max()) * time.Microsecond
}
