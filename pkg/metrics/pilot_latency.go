// Package metrics tracks in-process latency percentiles.
package metrics

import (
	"sort"
	"sync"
	"time"
)

const defaultWindow = 500

// LatencyTracker keeps a sliding window of samples and reports percentiles.
type LatencyTracker struct {
	mu       sync.Mutex
	samples  []int64 // microseconds
	window   int
	failures int64
	count    int64
}

func NewLatencyTracker(window int) *LatencyTracker {
	if window <= 0 {
		window = defaultWindow
	}
	return &LatencyTracker{samples: make([]int64, 0, window), window: window}
}

// Record adds one observation. Failed calls count toward latency too.
func (t *LatencyTracker) Record(d time.Duration, failed bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.samples) >= t.window {
		drop := t.window / 10
		if drop < 1 {
			drop = 1
		}
		t.samples = append(t.samples[:0], t.samples[drop:]...)
	}
	t.samples = append(t.samples, d.Microseconds())
	t.count++
	if failed {
		t.failures++
	}
}

func (t *LatencyTracker) Stats() LatencyStats {
	t.mu.Lock()
	sorted := make([]int64, len(t.samples))
	copy(sorted, t.samples)
	stats := LatencyStats{Count: t.count, Failures: t.failures, Samples: len(sorted)}
	t.mu.Unlock()

	if len(sorted) == 0 {
		return stats
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var sum int64
	for _, v := range sorted {
		sum += v
	}
	n := len(sorted)
	stats.Min = micros(sorted[0])
	stats.Max = micros(sorted[n-1])
	stats.Avg = micros(sum / int64(n))
	stats.P50 = micros(percentile(sorted, 0.50))
	stats.P95 = micros(percentile(sorted, 0.95))
	stats.P99 = micros(percentile(sorted, 0.99))
	return stats
}

func percentile(sorted []int64, p float64) int64 {
	return sorted[int(float64(len(sorted)-1)*p)]
}

func micros(v int64) time.Duration {
	return time.Duration(v) * time.Microsecond
}

type LatencyStats struct {
	Count    int64
	Failures int64
	Samples  int
	Min      time.Duration
	Max      time.Duration
	Avg      time.Duration
	P50      time.Duration
	P95      time.Duration
	P99      time.Duration
}

// ToMap renders the stats in milliseconds for JSON probes.
func (s LatencyStats) ToMap() map[string]any {
	ms := func(d time.Duration) float64 { return float64(d.Microseconds()) / 1000 }
	return map[string]any{
		"count":       s.Count,
		"failures":    s.Failures,
		"sample_size": s.Samples,
		"min_ms":      ms(s.Min),
		"max_ms":      ms(s.Max),
		"avg_ms":      ms(s.Avg),
		"p50_ms":      ms(s.P50),
		"p95_ms":      ms(s.P95),
		"p99_ms":      ms(s.P99),
	}
}

// LatencyRegistry holds one tracker per name, created on first use.
type LatencyRegistry struct {
	mu       sync.RWMutex
	trackers map[string]*LatencyTracker
	window   int
}

func NewLatencyRegistry(window int) *LatencyRegistry {
	return &LatencyRegistry{trackers: make(map[string]*LatencyTracker), window: window}
}

func (r *LatencyRegistry) Record(name string, d time.Duration, failed bool) {
	r.mu.RLock()
	tracker, ok := r.trackers[name]
	r.mu.RUnlock()

	if !ok {
		r.mu.Lock()
		if tracker, ok = r.trackers[name]; !ok {
			tracker = NewLatencyTracker(r.window)
			r.trackers[name] = tracker
		}
		r.mu.Unlock()
	}
	tracker.Record(d, failed)
}

func (r *LatencyRegistry) Stats(name string) LatencyStats {
	r.mu.RLock()
	tracker, ok := r.trackers[name]
	r.mu.RUnlock()
	if !ok {
		return LatencyStats{}
	}
	return tracker.Stats()
}

// Snapshot returns every tracker's stats keyed by name.
func (r *LatencyRegistry) Snapshot() map[string]any {
	r.mu.RLock()
	names := make([]string, 0, len(r.trackers))
	for name := range r.trackers {
		names = append(names, name)
	}
	r.mu.RUnlock()

	out := make(map[string]any, len(names))
	for _, name := range names {
		out[name] = r.Stats(name).ToMap()
	}
	return out
}
