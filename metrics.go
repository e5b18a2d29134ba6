package goGate

import (
	"sync/atomic"
	"time"
)

// MetricID names one gate counter or histogram.
type MetricID uint16

const (
	// MetricCheckNotRequired counts checks on excluded paths.
	MetricCheckNotRequired MetricID = iota
	// MetricCheckUnauthenticated counts checks without credential material.
	MetricCheckUnauthenticated
	// MetricCheckForbidden counts checks whose credential did not resolve.
	MetricCheckForbidden
	// MetricCheckAuthenticated counts checks that resolved an identity.
	MetricCheckAuthenticated
	// MetricLoginSuccess counts successful logins.
	MetricLoginSuccess
	// MetricLoginFailure counts rejected logins.
	MetricLoginFailure
	// MetricSessionCreated counts issued sessions.
	MetricSessionCreated
	// MetricSessionDestroyed counts sessions removed by logout.
	MetricSessionDestroyed
	// MetricSessionExpired counts expired sessions presented to the gate.
	MetricSessionExpired
	// MetricSessionPurged counts sessions removed by an explicit purge.
	MetricSessionPurged
	// MetricBackendFailure counts store and directory faults.
	MetricBackendFailure
	// MetricCheckLatency is the gate check latency histogram.
	MetricCheckLatency
	metricIDCount
)

const (
	histBucketCount = 8
	cacheLineSize   = 64
)

type metricHistogram struct {
	buckets [histBucketCount]uint64
}

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics is a fixed set of lock-free counters plus one latency histogram.
// A nil or disabled Metrics ignores every call.
type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      [metricIDCount]paddedCounter
	histograms    [metricIDCount]metricHistogram
}

// MetricsSnapshot is a point-in-time copy of all metrics.
type MetricsSnapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

// NewMetrics returns Metrics configured by cfg.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatencyHistograms,
	}
}

// Enabled reports whether counters are recorded.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// LatencyEnabled reports whether the latency histogram is recorded.
func (m *Metrics) LatencyEnabled() bool {
	return m != nil && m.enableLatency
}

// Inc adds one to the counter id.
func (m *Metrics) Inc(id MetricID) {
	m.Add(id, 1)
}

// Add adds n to the counter id.
func (m *Metrics) Add(id MetricID, n uint64) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, n)
}

// Observe records d in the histogram id. Only MetricCheckLatency has a
// histogram.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.enabled || !m.enableLatency || id >= metricIDCount {
		return
	}
	if id != MetricCheckLatency {
		return
	}

	b := bucketIndex(d)
	atomic.AddUint64(&m.histograms[id].buckets[b], 1)
}

// Value returns the current counter value.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot copies every counter and, when enabled, the latency buckets.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}

	s := MetricsSnapshot{
		Counters:   make(map[MetricID]uint64, int(metricIDCount)),
		Histograms: make(map[MetricID][]uint64, 1),
	}

	for id := MetricID(0); id < metricIDCount; id++ {
		if id == MetricCheckLatency {
			continue
		}
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}

	if m.enableLatency {
		buckets := make([]uint64, histBucketCount)
		for i := 0; i < histBucketCount; i++ {
			buckets[i] = atomic.LoadUint64(&m.histograms[MetricCheckLatency].buckets[i])
		}
		s.Histograms[MetricCheckLatency] = buckets
	}

	return s
}

func decisionMetric(d Decision) MetricID {
	switch d {
	case DecisionNotRequired:
		return MetricCheckNotRequired
	case DecisionUnauthenticated:
		return MetricCheckUnauthenticated
	case DecisionForbidden:
		return MetricCheckForbidden
	default:
		return MetricCheckAuthenticated
	}
}

// bucketIndex maps d to an upper bound in 0.5, 1, 2.5, 5, 10, 25, 50 ms
// or +Inf. Gate checks are expected to be far below a request budget.
func bucketIndex(d time.Duration) int {
	us := d.Microseconds()

	switch {
	case us <= 500:
		return 0
	case us <= 1000:
		return 1
	case us <= 2500:
		return 2
	case us <= 5000:
		return 3
	case us <= 10000:
		return 4
	case us <= 25000:
		return 5
	case us <= 50000:
		return 6
	default:
		return 7
	}
}
