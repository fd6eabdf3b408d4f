package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/shopspring/decimal"

	"github.com/Alijeyrad/clinicdesk_backend/internal/service/accounting"
	"github.com/Alijeyrad/clinicdesk_backend/pkg/reqctx"
)

type AccountingHandler struct {
	svc accounting.Service
}

func NewAccountingHandler(svc accounting.Service) *AccountingHandler {
	return &AccountingHandler{svc: svc}
}

func (h *AccountingHandler) month(c fiber.Ctx) (accounting.Month, error) {
	return h.svc.ParseMonth(c.Query("month"))
}

func entryID(c fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	return id, err == nil && id > 0
}

// GET /api/accounts/summary?month=YYYY-MM
func (h *AccountingHandler) Summary(c fiber.Ctx) error {
	m, err := h.month(c)
	if err != nil {
		return fail(c, err)
	}
	s, err := h.svc.Summary(c.Context(), m)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, s)
}

// GET /api/accounts/income/bookings?month=YYYY-MM
func (h *AccountingHandler) BookingsIncome(c fiber.Ctx) error {
	m, err := h.month(c)
	if err != nil {
		return fail(c, err)
	}
	res, err := h.svc.BookingsIncome(c.Context(), m)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, res)
}

// GET /api/accounts/income/manual?month=YYYY-MM
func (h *AccountingHandler) ManualIncome(c fiber.Ctx) error {
	m, err := h.month(c)
	if err != nil {
		return fail(c, err)
	}
	res, err := h.svc.ManualIncome(c.Context(), m)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, res)
}

// GET /api/accounts/expenses?month=YYYY-MM
func (h *AccountingHandler) Expenses(c fiber.Ctx) error {
	m, err := h.month(c)
	if err != nil {
		return fail(c, err)
	}
	res, err := h.svc.Expenses(c.Context(), m)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, res)
}

// GET /api/accounts/overview?year=YYYY
func (h *AccountingHandler) Overview(c fiber.Ctx) error {
	year := 0
	if raw := c.Query("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil {
			return fail(c, accounting.ErrInvalidYear)
		}
		year = y
	}
	res, err := h.svc.Overview(c.Context(), year)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, res)
}

// POST /api/accounts/income
func (h *AccountingHandler) AddIncome(c fiber.Ctx) error {
	var body struct {
		Description string          `json:"description"`
		Amount      decimal.Decimal `json:"amount"`
		EntryDate   string          `json:"entryDate"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	e, err := h.svc.AddIncome(c.Context(), reqctx.AccessFromContext(c.Context()), accounting.AddIncomeRequest{
		Description: body.Description,
		Amount:      body.Amount,
		EntryDate:   body.EntryDate,
	})
	if err != nil {
		return fail(c, err)
	}
	return created(c, e)
}

// POST /api/accounts/expenses
func (h *AccountingHandler) AddExpense(c fiber.Ctx) error {
	var body struct {
		Description string          `json:"description"`
		Amount      decimal.Decimal `json:"amount"`
		ExpenseDate string          `json:"expenseDate"`
		Notes       string          `json:"notes"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	e, err := h.svc.AddExpense(c.Context(), reqctx.AccessFromContext(c.Context()), accounting.AddExpenseRequest{
		Description: body.Description,
		Amount:      body.Amount,
		ExpenseDate: body.ExpenseDate,
		Notes:       body.Notes,
	})
	if err != nil {
		return fail(c, err)
	}
	return created(c, e)
}

// DELETE /api/accounts/income/:id
func (h *AccountingHandler) DeleteIncome(c fiber.Ctx) error {
	id, valid := entryID(c)
	if !valid {
		return fail(c, accounting.ErrIncomeNotFound)
	}
	if err := h.svc.DeleteIncome(c.Context(), reqctx.AccessFromContext(c.Context()), id); err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.Map{"message": "income entry deleted"})
}

// DELETE /api/accounts/expenses/:id
func (h *AccountingHandler) DeleteExpense(c fiber.Ctx) error {
	id, valid := entryID(c)
	if !valid {
		return fail(c, accounting.ErrExpenseNotFound)
	}
	if err := h.svc.DeleteExpense(c.Context(), reqctx.AccessFromContext(c.Context()), id); err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.Map{"message": "expense deleted"})
}
