package internaldefs

import (
	goGate "github.com/MrEthical07/goGate"
)

// CounterDef names one exported gate counter.
type CounterDef struct {
	ID   goGate.MetricID
	Name string
	Help string
}

// HistogramDef names one exported gate histogram.
type HistogramDef struct {
	ID   goGate.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter in a stable order.
var CounterDefs = []CounterDef{
	{ID: goGate.MetricCheckNotRequired, Name: "gogate_check_not_required_total", Help: "Checks on excluded paths."},
	{ID: goGate.MetricCheckUnauthenticated, Name: "gogate_check_unauthenticated_total", Help: "Checks without credential material."},
	{ID: goGate.MetricCheckForbidden, Name: "gogate_check_forbidden_total", Help: "Checks whose credential did not resolve to an identity."},
	{ID: goGate.MetricCheckAuthenticated, Name: "gogate_check_authenticated_total", Help: "Checks that resolved an identity."},
	{ID: goGate.MetricLoginSuccess, Name: "gogate_login_success_total", Help: "Successful logins."},
	{ID: goGate.MetricLoginFailure, Name: "gogate_login_failure_total", Help: "Rejected logins."},
	{ID: goGate.MetricSessionCreated, Name: "gogate_session_created_total", Help: "Created sessions."},
	{ID: goGate.MetricSessionDestroyed, Name: "gogate_session_destroyed_total", Help: "Sessions destroyed by logout."},
	{ID: goGate.MetricSessionExpired, Name: "gogate_session_expired_total", Help: "Expired sessions presented to the gate."},
	{ID: goGate.MetricSessionPurged, Name: "gogate_session_purged_total", Help: "Sessions removed by purge."},
	{ID: goGate.MetricBackendFailure, Name: "gogate_backend_failure_total", Help: "Session store and identity directory faults."},
}

// HistogramDefs lists every exported histogram.
var HistogramDefs = []HistogramDef{
	{ID: goGate.MetricCheckLatency, Name: "gogate_check_latency_seconds", Help: "Gate check latency."},
}

// HistogramBounds are the finite upper bounds in seconds. The eighth bucket
// is +Inf.
var HistogramBounds = []float64{
	0.0005,
	0.001,
	0.0025,
	0.005,
	0.01,
	0.025,
	0.05,
}

// HistogramBoundSuffix names each bucket for exporters without native
// histogram support.
var HistogramBoundSuffix = []string{
	"0_0005",
	"0_001",
	"0_0025",
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"inf",
}

// NormalizeBuckets pads or truncates raw to the fixed bucket count.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts to running totals.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
