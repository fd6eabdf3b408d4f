package accounting

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Alijeyrad/clinicdesk_backend/internal/service/booking"
)

type IncomeEntry struct {
	ID          int64           `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	EntryDate   string          `json:"entryDate"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type ExpenseEntry struct {
	ID          int64           `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	ExpenseDate string          `json:"expenseDate"`
	Notes       string          `json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type BookingsIncome struct {
	Month      Month                    `json:"month"`
	ByCustomer []booking.CustomerIncome `json:"byCustomer"`
	Total      decimal.Decimal          `json:"total"`
}

type ManualIncome struct {
	Month   Month           `json:"month"`
	Entries []IncomeEntry   `json:"entries"`
	Total   decimal.Decimal `json:"total"`
}

type Expenses struct {
	Month    Month           `json:"month"`
	Expenses []ExpenseEntry  `json:"expenses"`
	Total    decimal.Decimal `json:"total"`
}

type Summary struct {
	Month              Month           `json:"month"`
	IncomeFromBookings decimal.Decimal `json:"incomeFromBookings"`
	ManualIncome       decimal.Decimal `json:"manualIncome"`
	TotalIncome        decimal.Decimal `json:"totalIncome"`
	TotalExpenses      decimal.Decimal `json:"totalExpenses"`
	Balance            decimal.Decimal `json:"balance"`
}

type Overview struct {
	Year          int             `json:"year"`
	Months        []Summary       `json:"months"`
	TotalIncome   decimal.Decimal `json:"totalIncome"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	Balance       decimal.Decimal `json:"balance"`
}

// LedgerTotals are manual income and expense sums read from one snapshot.
type LedgerTotals struct {
	Income   decimal.Decimal
	Expenses decimal.Decimal
}
