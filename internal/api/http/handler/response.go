package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/clinicdesk_backend/internal/api/http/middleware"
	"github.com/Alijeyrad/clinicdesk_backend/pkg/apperr"
)

func ok(c fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{"data": data})
}

func created(c fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": data})
}

func badRequest(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

// statusFor maps an error kind to its HTTP status.
func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return fiber.StatusBadRequest
	case apperr.KindUnauthorized:
		return fiber.StatusUnauthorized
	case apperr.KindForbidden:
		return fiber.StatusForbidden
	case apperr.KindNotFound:
		return fiber.StatusNotFound
	case apperr.KindConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// fail writes err as {"error": msg}. Unclassified and store errors are logged
// and reported generically.
func fail(c fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}

	status := statusFor(apperr.KindOf(err))
	if status == fiber.StatusInternalServerError {
		rid, _ := middleware.RequestIDFromFiber(c)
		slog.ErrorContext(c.Context(), "request failed",
			"method", c.Method(),
			"path", c.Path(),
			"request_id", rid,
			"error", err,
		)
	}
	return c.Status(status).JSON(fiber.Map{"error": apperr.Message(err)})
}

// ErrorHandler renders errors returned by middleware and handlers.
func ErrorHandler(c fiber.Ctx, err error) error {
	return fail(c, err)
}
