package runner

import (
	"fmt"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

const (
	minLatencyUs = 1
	maxLatencyUs = 600_000_000 // 10 minutes
)

// Stats collects process durations across batches.
type Stats struct {
	mu        sync.Mutex
	histogram *hdrhistogram.Histogram
	total     int64
	failures  int64
	timeouts  int64
}

// Summary is a point-in-time view of Stats.
type Summary struct {
	Total    int64
	Failures int64
	Timeouts int64
	Min      time.Duration
	Mean     time.Duration
	P50      time.Duration
	P95      time.Duration
	P99      time.Duration
	Max      time.Duration
}

func NewStats() *Stats {
	return &Stats{
		// 1us to 10m range, 3 significant digits
		histogram: hdrhistogram.New(minLatencyUs, maxLatencyUs, 3),
	}
}

// Record adds one process run. Failed runs are counted but their durations
// are not part of the latency distribution.
func (s *Stats) Record(duration time.Duration, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.total++
	if err != nil {
		s.failures++
		if IsTimeout(err) {
			s.timeouts++
		}
		return
	}

	latencyUs := duration.Microseconds()
	if latencyUs < minLatencyUs {
		latencyUs = minLatencyUs
	}
	if latencyUs > maxLatencyUs {
		latencyUs = maxLatencyUs
	}
	_ = s.histogram.RecordValue(latencyUs)
}

func (s *Stats) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := Summary{
		Total:    s.total,
		Failures: s.failures,
		Timeouts: s.timeouts,
	}
	if s.histogram.TotalCount() == 0 {
		return sum
	}

	sum.Min = time.Duration(s.histogram.Min()) * time.Microsecond
	sum.Mean = time.Duration(s.histogram.Mean()) * time.Microsecond
	sum.P50 = time.Duration(s.histogram.ValueAtQuantile(50)) * time.Microsecond
	sum.P95 = time.Duration(s.histogram.ValueAtQuantile(95)) * time.Microsecond
	sum.P99 = time.Duration(s.histogram.ValueAtQuantile(99)) * time.Microsecond
	sum.Max = time.Duration(s.histogram.Max()) * time.Microsecond
	return sum
}

func (s Summary) String() string {
	if s.Total == 0 {
		return "No requests executed yet"
	}
	return fmt.Sprintf("%d run(s), %d failed (%d timed out) | min %s p50 %s p95 %s p99 %s max %s",
		s.Total, s.Failures, s.Timeouts,
		s.Min.Round(time.Millisecond), s.P50.Round(time.Millisecond), s.P95.Round(time.Millisecond),
		s.P99.Round(time.Millisecond), s.Max.Round(time.Millisecond))
}
