package accounting

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Alijeyrad/clinicdesk_backend/internal/service/booking"
	"github.com/Alijeyrad/clinicdesk_backend/pkg/authorize"
)

// maxAmount is the exclusive bound of NUMERIC(12,2).
var maxAmount = decimal.New(1, 10)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type AddIncomeRequest struct {
	Description string
	Amount      decimal.Decimal
	EntryDate   string
}

type AddExpenseRequest struct {
	Description string
	Amount      decimal.Decimal
	ExpenseDate string
	Notes       string
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	ParseMonth(raw string) (Month, error)

	BookingsIncome(ctx context.Context, m Month) (*BookingsIncome, error)
	ManualIncome(ctx context.Context, m Month) (*ManualIncome, error)
	Expenses(ctx context.Context, m Month) (*Expenses, error)
	Summary(ctx context.Context, m Month) (*Summary, error)
	Overview(ctx context.Context, year int) (*Overview, error)

	AddIncome(ctx context.Context, access authorize.Access, req AddIncomeRequest) (*IncomeEntry, error)
	AddExpense(ctx context.Context, access authorize.Access, req AddExpenseRequest) (*ExpenseEntry, error)
	DeleteIncome(ctx context.Context, access authorize.Access, id int64) error
	DeleteExpense(ctx context.Context, access authorize.Access, id int64) error
}

// BookingIncome is the booking-side half of the ledger.
type BookingIncome interface {
	IncomeByCustomer(ctx context.Context, from, to time.Time) ([]booking.CustomerIncome, error)
}

type Gate interface {
	Require(ctx context.Context, access authorize.Access, object authorize.Resource, action authorize.Action) error
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type service struct {
	ledger   Ledger
	bookings BookingIncome
	gate     Gate
	loc      *time.Location
	now      func() time.Time
}

func New(ledger Ledger, bookings BookingIncome, gate Gate, loc *time.Location) Service {
	if loc == nil {
		loc = time.UTC
	}
	return &service{ledger: ledger, bookings: bookings, gate: gate, loc: loc, now: time.Now}
}

func (s *service) ParseMonth(raw string) (Month, error) {
	return ParseMonth(raw, s.now(), s.loc)
}

func (s *service) BookingsIncome(ctx context.Context, m Month) (*BookingsIncome, error) {
	from, to := m.Window(s.loc)
	rows, err := s.bookings.IncomeByCustomer(ctx, from, to)
	if err != nil {
		return nil, err
	}
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.Amount)
	}
	if rows == nil {
		rows = []booking.CustomerIncome{}
	}
	return &BookingsIncome{Month: m, ByCustomer: rows, Total: total}, nil
}

func (s *service) ManualIncome(ctx context.Context, m Month) (*ManualIncome, error) {
	entries, err := s.ledger.ListIncome(ctx, m.FirstDay(), m.NextFirstDay())
	if err != nil {
		return nil, err
	}
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Amount)
	}
	return &ManualIncome{Month: m, Entries: entries, Total: total}, nil
}

func (s *service) Expenses(ctx context.Context, m Month) (*Expenses, error) {
	entries, err := s.ledger.ListExpenses(ctx, m.FirstDay(), m.NextFirstDay())
	if err != nil {
		return nil, err
	}
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Amount)
	}
	return &Expenses{Month: m, Expenses: entries, Total: total}, nil
}

func (s *service) Summary(ctx context.Context, m Month) (*Summary, error) {
	bookings, err := s.BookingsIncome(ctx, m)
	if err != nil {
		return nil, err
	}
	ledger, err := s.ledger.Totals(ctx, m.FirstDay(), m.NextFirstDay())
	if err != nil {
		return nil, err
	}
	totalIncome := bookings.Total.Add(ledger.Income)
	return &Summary{
		Month:              m,
		IncomeFromBookings: bookings.Total,
		ManualIncome:       ledger.Income,
		TotalIncome:        totalIncome,
		TotalExpenses:      ledger.Expenses,
		Balance:            totalIncome.Sub(ledger.Expenses),
	}, nil
}

func (s *service) Overview(ctx context.Context, year int) (*Overview, error) {
	if year == 0 {
		year = s.now().In(s.loc).Year()
	}
	if year < 2000 || year > 2100 {
		return nil, ErrInvalidYear
	}
	o := &Overview{Year: year, Months: make([]Summary, 0, 12)}
	for month := time.January; month <= time.December; month++ {
		sum, err := s.Summary(ctx, Month{Year: year, Month: month})
		if err != nil {
			return nil, err
		}
		o.Months = append(o.Months, *sum)
		o.TotalIncome = o.TotalIncome.Add(sum.TotalIncome)
		o.TotalExpenses = o.TotalExpenses.Add(sum.TotalExpenses)
	}
	o.Balance = o.TotalIncome.Sub(o.TotalExpenses)
	return o, nil
}

func validateEntry(description string, amount decimal.Decimal) (string, decimal.Decimal, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return "", decimal.Zero, ErrBlankDescription
	}
	amount = amount.Round(2)
	if !amount.IsPositive() {
		return "", decimal.Zero, ErrNonPositiveAmount
	}
	if amount.GreaterThanOrEqual(maxAmount) {
		return "", decimal.Zero, ErrAmountTooLarge
	}
	return description, amount, nil
}

func (s *service) AddIncome(ctx context.Context, access authorize.Access, req AddIncomeRequest) (*IncomeEntry, error) {
	if err := s.gate.Require(ctx, access, authorize.ResourceLedger, authorize.ActionCreate); err != nil {
		return nil, err
	}
	desc, amount, err := validateEntry(req.Description, req.Amount)
	if err != nil {
		return nil, err
	}
	day, err := parseDay(req.EntryDate, s.now(), s.loc)
	if err != nil {
		return nil, err
	}

	e := &IncomeEntry{Description: desc, Amount: amount, EntryDate: day}
	if err := s.ledger.AddIncome(ctx, e); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "income entry added", "entry_id", e.ID, "amount", e.Amount.String(), "entry_date", e.EntryDate)
	return e, nil
}

func (s *service) AddExpense(ctx context.Context, access authorize.Access, req AddExpenseRequest) (*ExpenseEntry, error) {
	if err := s.gate.Require(ctx, access, authorize.ResourceLedger, authorize.ActionCreate); err != nil {
		return nil, err
	}
	desc, amount, err := validateEntry(req.Description, req.Amount)
	if err != nil {
		return nil, err
	}
	day, err := parseDay(req.ExpenseDate, s.now(), s.loc)
	if err != nil {
		return nil, err
	}

	e := &ExpenseEntry{Description: desc, Amount: amount, ExpenseDate: day, Notes: strings.TrimSpace(req.Notes)}
	if err := s.ledger.AddExpense(ctx, e); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "expense added", "entry_id", e.ID, "amount", e.Amount.String(), "expense_date", e.ExpenseDate)
	return e, nil
}

func (s *service) DeleteIncome(ctx context.Context, access authorize.Access, id int64) error {
	if err := s.gate.Require(ctx, access, authorize.ResourceLedger, authorize.ActionDelete); err != nil {
		return err
	}
	if err := s.ledger.DeleteIncome(ctx, id); err != nil {
		return err
	}
	slog.InfoContext(ctx, "income entry deleted", "entry_id", id)
	return nil
}

func (s *service) DeleteExpense(ctx context.Context, access authorize.Access, id int64) error {
	if err := s.gate.Require(ctx, access, authorize.ResourceLedger, authorize.ActionDelete); err != nil {
		return err
	}
	if err := s.ledger.DeleteExpense(ctx, id); err != nil {
		return err
	}
	slog.InfoContext(ctx, "expense deleted", "entry_id", id)
	return nil
}
