package accounting

import (
	"context"
	stdsql "database/sql"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/shopspring/decimal"

	"github.com/Alijeyrad/clinicdesk_backend/pkg/apperr"
	"github.com/Alijeyrad/clinicdesk_backend/pkg/database"
)

const (
	incomeTable  = "income_entries"
	expenseTable = "expense_entries"
)

// Ledger stores manual income and expense entries. Date bounds are DATE
// strings, half-open: [from, to).
type Ledger interface {
	AddIncome(ctx context.Context, e *IncomeEntry) error
	AddExpense(ctx context.Context, e *ExpenseEntry) error
	DeleteIncome(ctx context.Context, id int64) error
	DeleteExpense(ctx context.Context, id int64) error
	ListIncome(ctx context.Context, from, to string) ([]IncomeEntry, error)
	ListExpenses(ctx context.Context, from, to string) ([]ExpenseEntry, error)
	Totals(ctx context.Context, from, to string) (LedgerTotals, error)
}

type pgLedger struct {
	drv *entsql.Driver
}

func NewPostgresLedger(drv *entsql.Driver) Ledger {
	return &pgLedger{drv: drv}
}

func (l *pgLedger) AddIncome(ctx context.Context, e *IncomeEntry) error {
	query, args := database.Dialect().
		Insert(incomeTable).
		Columns("description", "amount", "entry_date").
		Values(e.Description, e.Amount, e.EntryDate).
		Returning("id", "created_at").
		Query()
	return l.insertReturning(ctx, "add income", query, args, &e.ID, &e.CreatedAt)
}

func (l *pgLedger) AddExpense(ctx context.Context, e *ExpenseEntry) error {
	query, args := database.Dialect().
		Insert(expenseTable).
		Columns("description", "amount", "expense_date", "notes").
		Values(e.Description, e.Amount, e.ExpenseDate, e.Notes).
		Returning("id", "created_at").
		Query()
	return l.insertReturning(ctx, "add expense", query, args, &e.ID, &e.CreatedAt)
}

func (l *pgLedger) insertReturning(ctx context.Context, op, query string, args []any, id *int64, createdAt *time.Time) error {
	var rows entsql.Rows
	if err := l.drv.Query(ctx, query, args, &rows); err != nil {
		return apperr.Store(op, err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return apperr.Store(op, err)
		}
		return apperr.Store(op, stdsql.ErrNoRows)
	}
	if err := rows.Scan(id, createdAt); err != nil {
		return apperr.Store(op, err)
	}
	return nil
}

func (l *pgLedger) DeleteIncome(ctx context.Context, id int64) error {
	return l.delete(ctx, "delete income", incomeTable, id, ErrIncomeNotFound)
}

func (l *pgLedger) DeleteExpense(ctx context.Context, id int64) error {
	return l.delete(ctx, "delete expense", expenseTable, id, ErrExpenseNotFound)
}

func (l *pgLedger) delete(ctx context.Context, op, table string, id int64, notFound error) error {
	query, args := database.Dialect().
		Delete(table).
		Where(entsql.EQ("id", id)).
		Query()
	var res stdsql.Result
	if err := l.drv.Exec(ctx, query, args, &res); err != nil {
		return apperr.Store(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Store(op, err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func (l *pgLedger) ListIncome(ctx context.Context, from, to string) ([]IncomeEntry, error) {
	t := database.Dialect().Table(incomeTable)
	query, args := database.Dialect().
		Select(t.C("id"), t.C("description"), t.C("amount"), t.C("entry_date"), t.C("created_at")).
		From(t).
		Where(entsql.And(entsql.GTE(t.C("entry_date"), from), entsql.LT(t.C("entry_date"), to))).
		OrderBy(entsql.Desc(t.C("entry_date")), entsql.Desc(t.C("id"))).
		Query()

	var rows entsql.Rows
	if err := l.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, apperr.Store("list income", err)
	}
	defer rows.Close()

	out := []IncomeEntry{}
	for rows.Next() {
		var (
			e   IncomeEntry
			day time.Time
		)
		if err := rows.Scan(&e.ID, &e.Description, &e.Amount, &day, &e.CreatedAt); err != nil {
			return nil, apperr.Store("list income", err)
		}
		e.EntryDate = day.Format(time.DateOnly)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store("list income", err)
	}
	return out, nil
}

func (l *pgLedger) ListExpenses(ctx context.Context, from, to string) ([]ExpenseEntry, error) {
	t := database.Dialect().Table(expenseTable)
	query, args := database.Dialect().
		Select(t.C("id"), t.C("description"), t.C("amount"), t.C("expense_date"), t.C("notes"), t.C("created_at")).
		From(t).
		Where(entsql.And(entsql.GTE(t.C("expense_date"), from), entsql.LT(t.C("expense_date"), to))).
		OrderBy(entsql.Desc(t.C("expense_date")), entsql.Desc(t.C("id"))).
		Query()

	var rows entsql.Rows
	if err := l.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, apperr.Store("list expenses", err)
	}
	defer rows.Close()

	out := []ExpenseEntry{}
	for rows.Next() {
		var (
			e   ExpenseEntry
			day time.Time
		)
		if err := rows.Scan(&e.ID, &e.Description, &e.Amount, &day, &e.Notes, &e.CreatedAt); err != nil {
			return nil, apperr.Store("list expenses", err)
		}
		e.ExpenseDate = day.Format(time.DateOnly)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store("list expenses", err)
	}
	return out, nil
}

// Totals reads both sums inside one read-only REPEATABLE READ transaction so
// the pair comes from the same snapshot.
func (l *pgLedger) Totals(ctx context.Context, from, to string) (LedgerTotals, error) {
	tx, err := l.drv.BeginTx(ctx, &stdsql.TxOptions{Isolation: stdsql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return LedgerTotals{}, apperr.Store("begin ledger snapshot", err)
	}
	defer func() { _ = tx.Rollback() }()

	income, err := sumBetween(ctx, tx, incomeTable, "entry_date", from, to)
	if err != nil {
		return LedgerTotals{}, apperr.Store("sum income", err)
	}
	expenses, err := sumBetween(ctx, tx, expenseTable, "expense_date", from, to)
	if err != nil {
		return LedgerTotals{}, apperr.Store("sum expenses", err)
	}
	if err := tx.Commit(); err != nil {
		return LedgerTotals{}, apperr.Store("commit ledger snapshot", err)
	}
	return LedgerTotals{Income: income, Expenses: expenses}, nil
}

type querier interface {
	Query(ctx context.Context, query string, args, v any) error
}

func sumBetween(ctx context.Context, q querier, table, dateColumn, from, to string) (decimal.Decimal, error) {
	t := database.Dialect().Table(table)
	query, args := database.Dialect().
		Select(entsql.Sum(t.C("amount"))).
		From(t).
		Where(entsql.And(entsql.GTE(t.C(dateColumn), from), entsql.LT(t.C(dateColumn), to))).
		Query()

	var rows entsql.Rows
	if err := q.Query(ctx, query, args, &rows); err != nil {
		return decimal.Zero, err
	}
	defer rows.Close()

	var sum decimal.NullDecimal
	if rows.Next() {
		if err := rows.Scan(&sum); err != nil {
			return decimal.Zero, err
		}
	}
	if err := rows.Err(); err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}
