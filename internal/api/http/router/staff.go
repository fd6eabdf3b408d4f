package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/clinicdesk_backend/internal/api/http/handler"
	"github.com/Alijeyrad/clinicdesk_backend/pkg/authorize"
)

func (r *Router) registerStaffRoutes(
	api fiber.Router,
	h *handler.StaffHandler,
	authRequired fiber.Handler,
	requirePerm func(authorize.Resource, authorize.Action) fiber.Handler,
) {
	group := api.Group("/admin/staff", authRequired, requirePerm(authorize.ResourceStaff, authorize.ActionList))

	group.Get("/", h.List)
	group.Post("/", h.Create)
	group.Get("/:id", h.Get)
	group.Put("/:id", h.Update)
	group.Patch("/:id/status", h.SetActive)
	group.Delete("/:id", h.Delete)
}
