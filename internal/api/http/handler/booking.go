package handler

import (
	"github.com/gofiber/fiber/v3"
	"github.com/shopspring/decimal"

	"github.com/Alijeyrad/clinicdesk_backend/internal/service/booking"
	"github.com/Alijeyrad/clinicdesk_backend/pkg/reqctx"
)

type BookingHandler struct {
	svc booking.Service
}

func NewBookingHandler(svc booking.Service) *BookingHandler {
	return &BookingHandler{svc: svc}
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

// POST /api/bookings/online (public)
func (h *BookingHandler) CreateOnline(c fiber.Ctx) error {
	var body struct {
		Name   string           `json:"name"`
		Phone  string           `json:"phone"`
		Date   string           `json:"date"`
		Email  string           `json:"email"`
		Amount *decimal.Decimal `json:"amount"`
		Notes  string           `json:"notes"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	b, err := h.svc.CreateOnline(c.Context(), booking.CreateOnlineRequest{
		Name:   body.Name,
		Phone:  body.Phone,
		Date:   body.Date,
		Email:  body.Email,
		Amount: body.Amount,
		Notes:  body.Notes,
	})
	if err != nil {
		return fail(c, err)
	}
	return created(c, b)
}

// POST /api/bookings/clinic
func (h *BookingHandler) CreateClinic(c fiber.Ctx) error {
	var body struct {
		Name       string            `json:"name"`
		Phone      string            `json:"phone"`
		Date       string            `json:"date"`
		Email      string            `json:"email"`
		AmountPaid *decimal.Decimal  `json:"amountPaid"`
		VisitType  booking.VisitType `json:"visitType"`
		Status     booking.Status    `json:"status"`
		Notes      string            `json:"notes"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	b, err := h.svc.CreateClinic(c.Context(), reqctx.AccessFromContext(c.Context()), booking.CreateClinicRequest{
		Name:       body.Name,
		Phone:      body.Phone,
		Date:       body.Date,
		Email:      body.Email,
		AmountPaid: body.AmountPaid,
		VisitType:  body.VisitType,
		Status:     body.Status,
		Notes:      body.Notes,
	})
	if err != nil {
		return fail(c, err)
	}
	return created(c, b)
}

// ---------------------------------------------------------------------------
// Read
// ---------------------------------------------------------------------------

// GET /api/bookings/online?status&date
func (h *BookingHandler) ListOnline(c fiber.Ctx) error {
	list, err := h.svc.List(c.Context(), booking.ListRequest{
		Type:   string(booking.TypeOnline),
		Status: c.Query("status"),
		Date:   c.Query("date"),
	})
	if err != nil {
		return fail(c, err)
	}
	return ok(c, list)
}

// GET /api/bookings/all?type&status&date&examinationStatus
func (h *BookingHandler) ListAll(c fiber.Ctx) error {
	list, err := h.svc.List(c.Context(), booking.ListRequest{
		Type:              c.Query("type"),
		Status:            c.Query("status"),
		ExaminationStatus: c.Query("examinationStatus"),
		Date:              c.Query("date"),
	})
	if err != nil {
		return fail(c, err)
	}
	return ok(c, list)
}

// GET /api/bookings/:id
func (h *BookingHandler) Get(c fiber.Ctx) error {
	b, err := h.svc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, b)
}

// GET /api/bookings/:id/history
func (h *BookingHandler) History(c fiber.Ctx) error {
	res, err := h.svc.History(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, res)
}

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

// PUT /api/bookings/:id
func (h *BookingHandler) Update(c fiber.Ctx) error {
	var body struct {
		Name       *string            `json:"name"`
		Phone      *string            `json:"phone"`
		Email      *string            `json:"email"`
		Date       *string            `json:"date"`
		AmountPaid *decimal.Decimal   `json:"amountPaid"`
		VisitType  *booking.VisitType `json:"visitType"`
		Status     *booking.Status    `json:"status"`
		Notes      *string            `json:"notes"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	b, err := h.svc.Update(c.Context(), reqctx.AccessFromContext(c.Context()), c.Params("id"), booking.UpdateRequest{
		Name:       body.Name,
		Phone:      body.Phone,
		Email:      body.Email,
		Date:       body.Date,
		AmountPaid: body.AmountPaid,
		VisitType:  body.VisitType,
		Status:     body.Status,
		Notes:      body.Notes,
	})
	if err != nil {
		return fail(c, err)
	}
	return ok(c, b)
}

// PATCH /api/bookings/:id/status and /api/bookings/online/:id/status
func (h *BookingHandler) SetStatus(c fiber.Ctx) error {
	var body struct {
		Status booking.Status `json:"status"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	b, err := h.svc.SetStatus(c.Context(), reqctx.AccessFromContext(c.Context()), c.Params("id"), body.Status)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, b)
}

// PATCH /api/bookings/:id/examination-status
func (h *BookingHandler) SetExaminationStatus(c fiber.Ctx) error {
	var body struct {
		ExaminationStatus booking.ExaminationStatus `json:"examinationStatus"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	b, err := h.svc.SetExaminationStatus(c.Context(), reqctx.AccessFromContext(c.Context()), c.Params("id"), body.ExaminationStatus)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, b)
}

// DELETE /api/bookings/:id
func (h *BookingHandler) Delete(c fiber.Ctx) error {
	if err := h.svc.Cancel(c.Context(), reqctx.AccessFromContext(c.Context()), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.Map{"message": "booking deleted"})
}

// ---------------------------------------------------------------------------
// Report
// ---------------------------------------------------------------------------

type reportBody struct {
	MedicalCondition string               `json:"medicalCondition"`
	Notes            string               `json:"notes"`
	Medications      []booking.Medication `json:"medications"`
}

func (b reportBody) input() booking.ReportInput {
	return booking.ReportInput{
		MedicalCondition: b.MedicalCondition,
		Notes:            b.Notes,
		Medications:      b.Medications,
	}
}

// GET /api/bookings/:id/report
func (h *BookingHandler) GetReport(c fiber.Ctx) error {
	r, err := h.svc.GetReport(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, r)
}

// POST /api/bookings/:id/report
func (h *BookingHandler) CreateReport(c fiber.Ctx) error {
	var body reportBody
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	r, err := h.svc.CreateReport(c.Context(), reqctx.AccessFromContext(c.Context()), c.Params("id"), body.input())
	if err != nil {
		return fail(c, err)
	}
	return created(c, r)
}

// PUT /api/bookings/:id/report
func (h *BookingHandler) UpdateReport(c fiber.Ctx) error {
	var body reportBody
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	r, err := h.svc.UpdateReport(c.Context(), reqctx.AccessFromContext(c.Context()), c.Params("id"), body.input())
	if err != nil {
		return fail(c, err)
	}
	return ok(c, r)
}
