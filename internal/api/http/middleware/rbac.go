package middleware

import (
	"context"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/clinicdesk_backend/pkg/authorize"
	"github.com/Alijeyrad/clinicdesk_backend/pkg/reqctx"
)

type Gate interface {
	Require(ctx context.Context, access authorize.Access, object authorize.Resource, action authorize.Action) error
}

// RequirePermission checks the caller's access against the permission matrix.
// It must run after AuthRequired.
func RequirePermission(gate Gate, resource authorize.Resource, action authorize.Action) fiber.Handler {
	return func(c fiber.Ctx) error {
		if _, ok := reqctx.PrincipalFromContext(c.Context()); !ok {
			return errNoCredential
		}
		if err := gate.Require(c.Context(), reqctx.AccessFromContext(c.Context()), resource, action); err != nil {
			return err
		}
		return c.Next()
	}
}
