package observability

import (
	"context"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestBookingMetricsCounts(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	m, err := NewBookingMetricsWith(provider.Meter("test"))
	if err != nil {
		t.Fatalf("NewBookingMetricsWith: %v", err)
	}

	ctx := context.Background()
	m.Created(ctx, "online")
	m.Created(ctx, "online")
	m.StatusChanged(ctx, "confirmed")

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}

	totals := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			sum, ok := md.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				totals[md.Name] += dp.Value
			}
		}
	}

	if totals["bookings_created_total"] != 2 {
		t.Errorf("bookings_created_total = %d, want 2", totals["bookings_created_total"])
	}
	if totals["booking_status_changes_total"] != 1 {
		t.Errorf("booking_status_changes_total = %d, want 1", totals["booking_status_changes_total"])
	}
}

func TestNilBookingMetricsIsNoop(t *testing.T) {
	var m *BookingMetrics
	m.Created(context.Background(), "clinic")
	m.StatusChanged(context.Background(), "pending")
	m.ExaminationChanged(context.Background(), "done")
}
