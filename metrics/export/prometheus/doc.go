// Package prometheus exposes gate metrics through client_golang.
//
// [NewExporter] returns a prometheus.Collector that reads
// [goGate.Gate.MetricsSnapshot] on every scrape. Counters are published as
// gogate_*_total and the check latency as the gogate_check_latency_seconds
// histogram.
//
// # What this package must NOT do
//
//   - Register with the global Prometheus registry. [Handler] uses its own.
//   - Mutate gate state.
package prometheus
