package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/clinicdesk_backend/internal/api/http/handler"
	"github.com/Alijeyrad/clinicdesk_backend/pkg/authorize"
)

func (r *Router) registerBookingRoutes(
	api fiber.Router,
	h *handler.BookingHandler,
	authRequired fiber.Handler,
	publicLimit fiber.Handler,
	requirePerm func(authorize.Resource, authorize.Action) fiber.Handler,
) {
	group := api.Group("/bookings")

	// Public booking form
	group.Post("/online", publicLimit, h.CreateOnline)

	group.Get("/online", authRequired, requirePerm(authorize.ResourceOnlineBooking, authorize.ActionList), h.ListOnline)
	group.Patch("/online/:id/status", authRequired, h.SetStatus)
	group.Get("/all", authRequired, requirePerm(authorize.ResourceClinicBooking, authorize.ActionList), h.ListAll)
	group.Post("/clinic", authRequired, h.CreateClinic)

	// Writes are gated inside the service by the booking's own type.
	group.Get("/:id", authRequired, requirePerm(authorize.ResourceBookingHistory, authorize.ActionRead), h.Get)
	group.Put("/:id", authRequired, h.Update)
	group.Delete("/:id", authRequired, h.Delete)
	group.Patch("/:id/status", authRequired, h.SetStatus)
	group.Patch("/:id/examination-status", authRequired, h.SetExaminationStatus)
	group.Get("/:id/history", authRequired, requirePerm(authorize.ResourceBookingHistory, authorize.ActionRead), h.History)

	group.Get("/:id/report", authRequired, requirePerm(authorize.ResourcePatientReport, authorize.ActionRead), h.GetReport)
	group.Post("/:id/report", authRequired, h.CreateReport)
	group.Put("/:id/report", authRequired, h.UpdateReport)
}
