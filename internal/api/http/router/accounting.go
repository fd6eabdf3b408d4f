package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/clinicdesk_backend/internal/api/http/handler"
	"github.com/Alijeyrad/clinicdesk_backend/pkg/authorize"
)

func (r *Router) registerAccountingRoutes(
	api fiber.Router,
	h *handler.AccountingHandler,
	authRequired fiber.Handler,
	requirePerm func(authorize.Resource, authorize.Action) fiber.Handler,
) {
	group := api.Group("/accounts", authRequired, requirePerm(authorize.ResourceLedger, authorize.ActionRead))

	group.Get("/summary", h.Summary)
	group.Get("/overview", h.Overview)
	group.Get("/income/bookings", h.BookingsIncome)
	group.Get("/income/manual", h.ManualIncome)
	group.Get("/expenses", h.Expenses)

	group.Post("/income", h.AddIncome)
	group.Post("/expenses", h.AddExpense)
	group.Delete("/income/:id", h.DeleteIncome)
	group.Delete("/expenses/:id", h.DeleteExpense)
}
