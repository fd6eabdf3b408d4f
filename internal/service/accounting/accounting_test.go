package accounting

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Alijeyrad/clinicdesk_backend/internal/service/booking"
	"github.com/Alijeyrad/clinicdesk_backend/pkg/apperr"
	"github.com/Alijeyrad/clinicdesk_backend/pkg/authorize"
)

type memLedger struct {
	seq      int64
	income   []IncomeEntry
	expenses []ExpenseEntry
}

func (m *memLedger) AddIncome(_ context.Context, e *IncomeEntry) error {
	m.seq++
	e.ID, e.CreatedAt = m.seq, time.Now()
	m.income = append(m.income, *e)
	return nil
}

func (m *memLedger) AddExpense(_ context.Context, e *ExpenseEntry) error {
	m.seq++
	e.ID, e.CreatedAt = m.seq, time.Now()
	m.expenses = append(m.expenses, *e)
	return nil
}

func (m *memLedger) DeleteIncome(_ context.Context, id int64) error {
	for i, e := range m.income {
		if e.ID == id {
			m.income = append(m.income[:i], m.income[i+1:]...)
			return nil
		}
	}
	return ErrIncomeNotFound
}

func (m *memLedger) DeleteExpense(_ context.Context, id int64) error {
	for i, e := range m.expenses {
		if e.ID == id {
			m.expenses = append(m.expenses[:i], m.expenses[i+1:]...)
			return nil
		}
	}
	return ErrExpenseNotFound
}

func (m *memLedger) ListIncome(_ context.Context, from, to string) ([]IncomeEntry, error) {
	out := []IncomeEntry{}
	for _, e := range m.income {
		if e.EntryDate >= from && e.EntryDate < to {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EntryDate > out[j].EntryDate })
	return out, nil
}

func (m *memLedger) ListExpenses(_ context.Context, from, to string) ([]ExpenseEntry, error) {
	out := []ExpenseEntry{}
	for _, e := range m.expenses {
		if e.ExpenseDate >= from && e.ExpenseDate < to {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memLedger) Totals(ctx context.Context, from, to string) (LedgerTotals, error) {
	var t LedgerTotals
	inc, _ := m.ListIncome(ctx, from, to)
	for _, e := range inc {
		t.Income = t.Income.Add(e.Amount)
	}
	exp, _ := m.ListExpenses(ctx, from, to)
	for _, e := range exp {
		t.Expenses = t.Expenses.Add(e.Amount)
	}
	return t, nil
}

type paidBooking struct {
	name   string
	amount string
	at     time.Time
}

type fakeBookings []paidBooking

func (f fakeBookings) IncomeByCustomer(_ context.Context, from, to time.Time) ([]booking.CustomerIncome, error) {
	sums := map[string]decimal.Decimal{}
	for _, b := range f {
		if b.at.Before(from) || !b.at.Before(to) {
			continue
		}
		sums[b.name] = sums[b.name].Add(decimal.RequireFromString(b.amount))
	}
	var out []booking.CustomerIncome
	for name, amount := range sums {
		out = append(out, booking.CustomerIncome{CustomerName: name, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CustomerName < out[j].CustomerName })
	return out, nil
}

func newGate(t *testing.T) *authorize.Gate {
	t.Helper()
	policy := filepath.Join(t.TempDir(), "policy.csv")
	if err := os.WriteFile(policy, nil, 0o644); err != nil {
		t.Fatalf("write policy: %v", err)
	}
	e, err := authorize.NewFileEnforcer("", policy)
	if err != nil {
		t.Fatalf("NewFileEnforcer: %v", err)
	}
	auth, err := authorize.NewAuthorization(e)
	if err != nil {
		t.Fatalf("NewAuthorization: %v", err)
	}
	if err := authorize.SeedDefaultPolicies(context.Background(), auth); err != nil {
		t.Fatalf("SeedDefaultPolicies: %v", err)
	}
	return authorize.NewGate(auth)
}

var (
	admin      = authorize.FullAdmin{}
	accountant = authorize.NewAccess(false, authorize.NewPermissionSet(authorize.PermManageAccounts))
	frontDesk  = authorize.NewAccess(false, authorize.NewPermissionSet(authorize.PermManageDailyBookings))
)

func newTestService(t *testing.T, bookings fakeBookings) (*service, *memLedger) {
	t.Helper()
	ledger := &memLedger{}
	svc := New(ledger, bookings, newGate(t), time.UTC).(*service)
	svc.now = func() time.Time { return time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC) }
	return svc, ledger
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestSummary(t *testing.T) {
	ctx := context.Background()
	march := func(day int) time.Time { return time.Date(2024, 3, day, 10, 0, 0, 0, time.UTC) }
	svc, _ := newTestService(t, fakeBookings{
		{"Nour", "100", march(2)},
		{"Omar", "200", march(28)},
		{"Omar", "999", time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)},
	})

	if _, err := svc.AddIncome(ctx, accountant, AddIncomeRequest{Description: "lab share", Amount: d("50"), EntryDate: "2024-03-03"}); err != nil {
		t.Fatalf("AddIncome: %v", err)
	}
	if _, err := svc.AddExpense(ctx, accountant, AddExpenseRequest{Description: "supplies", Amount: d("30"), ExpenseDate: "2024-03-10"}); err != nil {
		t.Fatalf("AddExpense: %v", err)
	}
	if _, err := svc.AddExpense(ctx, accountant, AddExpenseRequest{Description: "rent", Amount: d("500"), ExpenseDate: "2024-02-29"}); err != nil {
		t.Fatalf("AddExpense: %v", err)
	}

	m, err := svc.ParseMonth("2024-03")
	if err != nil {
		t.Fatalf("ParseMonth: %v", err)
	}

	bookings, err := svc.BookingsIncome(ctx, m)
	if err != nil {
		t.Fatalf("BookingsIncome: %v", err)
	}
	if !bookings.Total.Equal(d("300")) || len(bookings.ByCustomer) != 2 {
		t.Errorf("bookings income = %+v, want total 300 over 2 customers", bookings)
	}
	manual, err := svc.ManualIncome(ctx, m)
	if err != nil {
		t.Fatalf("ManualIncome: %v", err)
	}
	if !manual.Total.Equal(d("50")) {
		t.Errorf("manual total = %s, want 50", manual.Total)
	}

	sum, err := svc.Summary(ctx, m)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	checks := []struct {
		name string
		got  decimal.Decimal
		want string
	}{
		{"incomeFromBookings", sum.IncomeFromBookings, "300"},
		{"manualIncome", sum.ManualIncome, "50"},
		{"totalIncome", sum.TotalIncome, "350"},
		{"totalExpenses", sum.TotalExpenses, "30"},
		{"balance", sum.Balance, "320"},
	}
	for _, c := range checks {
		if !c.got.Equal(d(c.want)) {
			t.Errorf("%s = %s, want %s", c.name, c.got, c.want)
		}
	}
	if sum.Month.String() != "2024-03" {
		t.Errorf("month = %s", sum.Month)
	}
}

func TestAddIncomeValidation(t *testing.T) {
	ctx := context.Background()
	svc, ledger := newTestService(t, nil)

	tests := []struct {
		name string
		req  AddIncomeRequest
		want error
	}{
		{"blank description", AddIncomeRequest{Description: "", Amount: d("10")}, ErrBlankDescription},
		{"whitespace description", AddIncomeRequest{Description: "   ", Amount: d("10")}, ErrBlankDescription},
		{"zero amount", AddIncomeRequest{Description: "x", Amount: d("0")}, ErrNonPositiveAmount},
		{"negative amount", AddIncomeRequest{Description: "x", Amount: d("-3")}, ErrNonPositiveAmount},
		{"rounds to zero", AddIncomeRequest{Description: "x", Amount: d("0.001")}, ErrNonPositiveAmount},
		{"too large", AddIncomeRequest{Description: "x", Amount: d("10000000000")}, ErrAmountTooLarge},
		{"bad date", AddIncomeRequest{Description: "x", Amount: d("1"), EntryDate: "03/03/2024"}, ErrInvalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddIncome(ctx, admin, tt.req)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if !errors.Is(err, apperr.ErrValidation) {
				t.Errorf("kind = %v, want validation", apperr.KindOf(err))
			}
		})
	}
	if len(ledger.income) != 0 {
		t.Fatalf("ledger has %d entries after rejected adds", len(ledger.income))
	}

	e, err := svc.AddIncome(ctx, admin, AddIncomeRequest{Description: " donation ", Amount: d("12.345")})
	if err != nil {
		t.Fatalf("AddIncome: %v", err)
	}
	if e.EntryDate != "2024-03-20" {
		t.Errorf("entryDate = %q, want today", e.EntryDate)
	}
	if e.Description != "donation" || !e.Amount.Equal(d("12.35")) {
		t.Errorf("entry = %+v", e)
	}
}

func TestLedgerWritesRequireAccountsPermission(t *testing.T) {
	ctx := context.Background()
	svc, ledger := newTestService(t, nil)

	_, err := svc.AddIncome(ctx, frontDesk, AddIncomeRequest{Description: "x", Amount: d("1")})
	if !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("AddIncome: err = %v, want forbidden", err)
	}
	_, err = svc.AddExpense(ctx, authorize.Restricted{}, AddExpenseRequest{Description: "x", Amount: d("1")})
	if !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("AddExpense: err = %v, want forbidden", err)
	}

	e, err := svc.AddExpense(ctx, accountant, AddExpenseRequest{Description: "x", Amount: d("1"), Notes: " cash "})
	if err != nil {
		t.Fatalf("AddExpense: %v", err)
	}
	if e.Notes != "cash" {
		t.Errorf("notes = %q", e.Notes)
	}
	if err := svc.DeleteExpense(ctx, frontDesk, e.ID); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("DeleteExpense: err = %v, want forbidden", err)
	}
	if err := svc.DeleteExpense(ctx, accountant, e.ID); err != nil {
		t.Fatalf("DeleteExpense: %v", err)
	}
	if err := svc.DeleteExpense(ctx, accountant, e.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("second DeleteExpense: err = %v, want not found", err)
	}
	if err := svc.DeleteIncome(ctx, accountant, 42); !errors.Is(err, ErrIncomeNotFound) {
		t.Fatalf("DeleteIncome: err = %v", err)
	}
	if len(ledger.expenses) != 0 {
		t.Errorf("expenses left: %d", len(ledger.expenses))
	}
}

func TestOverview(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, fakeBookings{
		{"Nour", "100", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
		{"Nour", "40", time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC)},
	})
	if _, err := svc.AddExpense(ctx, admin, AddExpenseRequest{Description: "rent", Amount: d("60"), ExpenseDate: "2024-06-01"}); err != nil {
		t.Fatalf("AddExpense: %v", err)
	}

	o, err := svc.Overview(ctx, 2024)
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if len(o.Months) != 12 {
		t.Fatalf("months = %d, want 12", len(o.Months))
	}
	if !o.Months[0].TotalIncome.Equal(d("100")) || !o.Months[5].TotalExpenses.Equal(d("60")) {
		t.Errorf("january = %+v, june = %+v", o.Months[0], o.Months[5])
	}
	if !o.Balance.Equal(d("80")) {
		t.Errorf("balance = %s, want 80", o.Balance)
	}
	if _, err := svc.Overview(ctx, 1999); !errors.Is(err, ErrInvalidYear) {
		t.Errorf("Overview(1999): err = %v", err)
	}
}
