package handler

import (
	"encoding/json"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/Alijeyrad/clinicdesk_backend/internal/api/http/middleware"
	"github.com/Alijeyrad/clinicdesk_backend/internal/service/staff"
)

type StaffHandler struct {
	svc staff.Service
}

func NewStaffHandler(svc staff.Service) *StaffHandler {
	return &StaffHandler{svc: svc}
}

func actorFrom(c fiber.Ctx) (staff.Actor, bool) {
	p, found := middleware.Principal(c)
	if !found {
		return staff.Actor{}, false
	}
	return staff.Actor{ID: p.StaffID, Access: p.Access}, true
}

func staffID(c fiber.Ctx) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params("id"))
	return id, err == nil
}

// GET /api/admin/staff
func (h *StaffHandler) List(c fiber.Ctx) error {
	actor, found := actorFrom(c)
	if !found {
		return fail(c, fiber.ErrUnauthorized)
	}
	list, err := h.svc.List(c.Context(), actor)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, list)
}

// GET /api/admin/staff/:id
func (h *StaffHandler) Get(c fiber.Ctx) error {
	actor, found := actorFrom(c)
	if !found {
		return fail(c, fiber.ErrUnauthorized)
	}
	id, valid := staffID(c)
	if !valid {
		return fail(c, staff.ErrNotFound)
	}
	s, err := h.svc.Get(c.Context(), actor, id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, s)
}

// POST /api/admin/staff
func (h *StaffHandler) Create(c fiber.Ctx) error {
	actor, found := actorFrom(c)
	if !found {
		return fail(c, fiber.ErrUnauthorized)
	}
	var body struct {
		Name        string          `json:"name"`
		Email       string          `json:"email"`
		Password    string          `json:"password"`
		Role        staff.Role      `json:"role"`
		Permissions json.RawMessage `json:"permissions"`
		FullAdmin   bool            `json:"fullAdmin"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	res, err := h.svc.Create(c.Context(), actor, staff.CreateRequest{
		Name:        body.Name,
		Email:       body.Email,
		Password:    body.Password,
		Role:        body.Role,
		Permissions: body.Permissions,
		FullAdmin:   body.FullAdmin,
	})
	if err != nil {
		return fail(c, err)
	}
	return created(c, res)
}

// PUT /api/admin/staff/:id
func (h *StaffHandler) Update(c fiber.Ctx) error {
	actor, found := actorFrom(c)
	if !found {
		return fail(c, fiber.ErrUnauthorized)
	}
	id, valid := staffID(c)
	if !valid {
		return fail(c, staff.ErrNotFound)
	}
	var body struct {
		Name        *string         `json:"name"`
		Email       *string         `json:"email"`
		Password    *string         `json:"password"`
		Role        *staff.Role     `json:"role"`
		Permissions json.RawMessage `json:"permissions"`
		FullAdmin   *bool           `json:"fullAdmin"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	s, err := h.svc.Update(c.Context(), actor, id, staff.UpdateRequest{
		Name:        body.Name,
		Email:       body.Email,
		Password:    body.Password,
		Role:        body.Role,
		Permissions: body.Permissions,
		FullAdmin:   body.FullAdmin,
	})
	if err != nil {
		return fail(c, err)
	}
	return ok(c, s)
}

// PATCH /api/admin/staff/:id/status
func (h *StaffHandler) SetActive(c fiber.Ctx) error {
	actor, found := actorFrom(c)
	if !found {
		return fail(c, fiber.ErrUnauthorized)
	}
	id, valid := staffID(c)
	if !valid {
		return fail(c, staff.ErrNotFound)
	}
	var body struct {
		IsActive *bool `json:"isActive"`
	}
	if err := c.Bind().JSON(&body); err != nil || body.IsActive == nil {
		return badRequest(c, "isActive is required")
	}

	s, err := h.svc.SetActive(c.Context(), actor, id, *body.IsActive)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, s)
}

// DELETE /api/admin/staff/:id
func (h *StaffHandler) Delete(c fiber.Ctx) error {
	actor, found := actorFrom(c)
	if !found {
		return fail(c, fiber.ErrUnauthorized)
	}
	id, valid := staffID(c)
	if !valid {
		return fail(c, staff.ErrNotFound)
	}
	if err := h.svc.Delete(c.Context(), actor, id); err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.Map{"message": "staff member deleted"})
}
