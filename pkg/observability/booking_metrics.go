package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// BookingMetrics counts booking writes. The zero value is not usable; build
// it with NewBookingMetrics.
type BookingMetrics struct {
	created       metric.Int64Counter
	statusChanges metric.Int64Counter
	examinations  metric.Int64Counter
}

// NewBookingMetrics registers the counters on the global meter provider.
func NewBookingMetrics() (*BookingMetrics, error) {
	return NewBookingMetricsWith(otel.Meter(instrumentationName))
}

func NewBookingMetricsWith(meter metric.Meter) (*BookingMetrics, error) {
	created, err := meter.Int64Counter("bookings_created_total",
		metric.WithDescription("Bookings created, by booking type"))
	if err != nil {
		return nil, err
	}
	statusChanges, err := meter.Int64Counter("booking_status_changes_total",
		metric.WithDescription("Booking status changes, by new status"))
	if err != nil {
		return nil, err
	}
	examinations, err := meter.Int64Counter("booking_examination_changes_total",
		metric.WithDescription("Examination status changes, by new status"))
	if err != nil {
		return nil, err
	}
	return &BookingMetrics{created: created, statusChanges: statusChanges, examinations: examinations}, nil
}

func (m *BookingMetrics) Created(ctx context.Context, bookingType string) {
	if m == nil {
		return
	}
	m.created.Add(ctx, 1, metric.WithAttributes(attribute.String("type", bookingType)))
}

func (m *BookingMetrics) StatusChanged(ctx context.Context, status string) {
	if m == nil {
		return
	}
	m.statusChanges.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

func (m *BookingMetrics) ExaminationChanged(ctx context.Context, status string) {
	if m == nil {
		return
	}
	m.examinations.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}
