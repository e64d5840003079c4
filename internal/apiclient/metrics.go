package apiclient

import (
	"sync/atomic"
	"time"
)

type metrics struct {
	calls   int64
	errors  int64
	latency int64 // nanoseconds
}

var globalMetrics = &metrics{}

// Stats is a point-in-time view of backend call metrics.
type Stats struct {
	Calls        int64   `json:"calls"`
	Errors       int64   `json:"errors"`
	AvgLatencyMs float64 `json:"avg_latency_ms"`
	ErrorRate    float64 `json:"error_rate"`
}

func Snapshot() Stats {
	calls := atomic.LoadInt64(&globalMetrics.calls)
	errs := atomic.LoadInt64(&globalMetrics.errors)
	latency := atomic.LoadInt64(&globalMetrics.latency)

	s := Stats{Calls: calls, Errors: errs}
	if calls > 0 {
		s.AvgLatencyMs = float64(latency) / float64(calls) / 1e6
		s.ErrorRate = float64(errs) / float64(calls) * 100
	}
	return s
}

// ResetMetrics resets all metrics (useful for testing)
func ResetMetrics() {
	atomic.StoreInt64(&globalMetrics.calls, 0)
	atomic.StoreInt64(&globalMetrics.errors, 0)
	atomic.StoreInt64(&globalMetrics.latency, 0)
}

func recordCall(duration time.Duration, err error) {
	atomic.AddInt64(&globalMetrics.calls, 1)
	atomic.AddInt64(&globalMetrics.latency, duration.Nanoseconds())
	if err != nil {
		atomic.AddInt64(&globalMetrics.errors, 1)
	}
}
