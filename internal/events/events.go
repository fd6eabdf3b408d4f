// Package events carries booking domain events over NATS.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/shopspring/decimal"

	"github.com/Alijeyrad/clinicdesk_backend/internal/service/booking"
)

const (
	SubjectBookingCreated = "clinic.booking.created"
	SubjectBookingStatus  = "clinic.booking.status"
)

// BookingEvent is the JSON body of every booking event. It carries enough of
// the booking for subscribers to act without reading the store.
type BookingEvent struct {
	BookingID       string          `json:"bookingId"`
	CustomerName    string          `json:"customerName"`
	CustomerPhone   string          `json:"customerPhone"`
	Email           string          `json:"email,omitempty"`
	AppointmentDate time.Time       `json:"appointmentDate"`
	BookingType     booking.Type    `json:"bookingType"`
	Status          booking.Status  `json:"status"`
	PreviousStatus  booking.Status  `json:"previousStatus,omitempty"`
	AmountPaid      decimal.Decimal `json:"amountPaid"`
	Notes           string          `json:"notes,omitempty"`
	OccurredAt      time.Time       `json:"occurredAt"`
}

func newBookingEvent(b *booking.Booking, previous booking.Status) BookingEvent {
	return BookingEvent{
		BookingID:       b.ID,
		CustomerName:    b.CustomerName,
		CustomerPhone:   b.CustomerPhone,
		Email:           b.Email,
		AppointmentDate: b.AppointmentDate,
		BookingType:     b.Type,
		Status:          b.Status,
		PreviousStatus:  previous,
		AmountPaid:      b.AmountPaid,
		Notes:           b.Notes,
		OccurredAt:      time.Now().UTC(),
	}
}

func subject(prefix, id string) string {
	return fmt.Sprintf("%s.%s", prefix, id)
}

// bookingIDFromSubject returns the last token of a booking subject.
func bookingIDFromSubject(subj string) string {
	parts := strings.Split(subj, ".")
	if len(parts) < 4 {
		return ""
	}
	return parts[len(parts)-1]
}

// Publisher sends booking events to NATS. A nil connection makes it a no-op.
type Publisher struct {
	nc *nats.Conn
}

func NewPublisher(nc *nats.Conn) *Publisher {
	return &Publisher{nc: nc}
}

func (p *Publisher) Created(ctx context.Context, b *booking.Booking) {
	p.publish(ctx, subject(SubjectBookingCreated, b.ID), newBookingEvent(b, ""))
}

func (p *Publisher) StatusChanged(ctx context.Context, b *booking.Booking, previous booking.Status) {
	p.publish(ctx, subject(SubjectBookingStatus, b.ID), newBookingEvent(b, previous))
}

func (p *Publisher) publish(ctx context.Context, subj string, ev BookingEvent) {
	if p == nil || p.nc == nil {
		return
	}
	data, err := json.Marshal(ev)
	if err != nil {
		slog.ErrorContext(ctx, "encode booking event", "subject", subj, "error", err)
		return
	}
	if err := p.nc.Publish(subj, data); err != nil {
		slog.WarnContext(ctx, "publish booking event failed", "subject", subj, "error", err)
	}
}
