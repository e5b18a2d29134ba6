// Package otel publishes gate metrics through an OpenTelemetry meter.
//
// [NewExporter] registers an Int64ObservableCounter per gate counter and an
// Int64ObservableGauge per cumulative latency bucket. A single callback
// reads [goGate.Gate.MetricsSnapshot] on each collection cycle.
//
// # What this package must NOT do
//
//   - Own the MeterProvider. Callers supply the Meter.
//   - Mutate gate state.
package otel
