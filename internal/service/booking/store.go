package booking

import (
	"context"
	"time"
)

// Store persists bookings. Every write is a single-document atomic update;
// unknown ids return ErrNotFound.
type Store interface {
	Insert(ctx context.Context, b *Booking) error
	Get(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, f Filter) ([]Booking, error)
	Update(ctx context.Context, id string, p Patch, at time.Time) (*Booking, error)
	SetExaminationStatus(ctx context.Context, id string, s ExaminationStatus, at time.Time) (*Booking, error)
	Delete(ctx context.Context, id string) error

	// ListByPhoneKey returns bookings sharing phoneKey except excludeID,
	// newest appointment first.
	ListByPhoneKey(ctx context.Context, phoneKey, excludeID string) ([]Booking, error)

	// IncomeByCustomer sums amount paid per customer name for appointments in [from, to).
	IncomeByCustomer(ctx context.Context, from, to time.Time) ([]CustomerIncome, error)

	// CreateReport attaches r when the booking has none (ErrReportExists otherwise).
	CreateReport(ctx context.Context, id string, r Report) (*Booking, error)
	// ReplaceReport overwrites an existing report (ErrReportNotFound otherwise).
	ReplaceReport(ctx context.Context, id string, r Report) (*Booking, error)
}
