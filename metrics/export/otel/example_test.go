package otel_test

import (
	"context"
	"fmt"
	"net/http/httptest"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	goGate "github.com/MrEthical07/goGate"
	otelexport "github.com/MrEthical07/goGate/metrics/export/otel"
)

// Gate counters become observable instruments on any OpenTelemetry meter.
// Swap the manual reader for an OTLP or Prometheus reader in production.
func ExampleNewExporter() {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = provider.Shutdown(context.Background()) }()

	gate, err := goGate.New().Build()
	if err != nil {
		fmt.Println(err)
		return
	}

	exporter, err := otelexport.NewExporter(provider.Meter("gogate"), gate)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer exporter.Close()

	gate.CheckHTTP(httptest.NewRequest("GET", "/api/v1/status", nil))

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		fmt.Println(err)
		return
	}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "gogate_check_not_required_total" {
				continue
			}
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok && len(sum.DataPoints) == 1 {
				fmt.Println(m.Name, sum.DataPoints[0].Value)
			}
		}
	}
	// Output: gogate_check_not_required_total 1
}
