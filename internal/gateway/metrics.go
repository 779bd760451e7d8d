package gateway

import (
	"sync/atomic"
	"time"
)

// Metrics tracks processing-gateway call metrics
type Metrics struct {
	calls     int64
	errors    int64
	latencyNs int64 // Total latency in nanoseconds
}

var globalMetrics = &Metrics{}

// Snapshot returns the current metrics values.
func Snapshot() (calls, errors int64, latency time.Duration) {
	return atomic.LoadInt64(&globalMetrics.calls),
		atomic.LoadInt64(&globalMetrics.errors),
		time.Duration(atomic.LoadInt64(&globalMetrics.latencyNs))
}

// ResetMetrics resets all metrics (useful for testing)
func ResetMetrics() {
	atomic.StoreInt64(&globalMetrics.calls, 0)
	atomic.StoreInt64(&globalMetrics.errors, 0)
	atomic.StoreInt64(&globalMetrics.latencyNs, 0)
}

func recordCall(duration time.Duration, err error) {
	atomic.AddInt64(&globalMetrics.calls, 1)
	atomic.AddInt64(&globalMetrics.latencyNs, duration.Nanoseconds())
	if err != nil {
		atomic.AddInt64(&globalMetrics.errors, 1)
	}
}
