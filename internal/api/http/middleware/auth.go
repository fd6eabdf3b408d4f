package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/clinicdesk_backend/pkg/apperr"
	"github.com/Alijeyrad/clinicdesk_backend/pkg/reqctx"
)

// DefaultCookieName carries the access token for browser clients.
const DefaultCookieName = "admin-token"

var errNoCredential = apperr.Unauthorized("authentication required")

// Resolver turns an access token into the principal behind it.
type Resolver interface {
	Resolve(ctx context.Context, token string) (*reqctx.Principal, error)
}

// Credential returns the access token from the Authorization header, falling
// back to the session cookie.
func Credential(c fiber.Ctx, cookieName string) string {
	if h := c.Get(fiber.HeaderAuthorization); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	return c.Cookies(cookieName)
}

// AuthRequired resolves the caller's session and attaches the principal to the
// request context.
func AuthRequired(res Resolver, cookieName string) fiber.Handler {
	return func(c fiber.Ctx) error {
		token := Credential(c, cookieName)
		if token == "" {
			return errNoCredential
		}

		p, err := res.Resolve(c.Context(), token)
		if err != nil {
			return err
		}

		c.SetContext(reqctx.WithPrincipal(c.Context(), p))
		return c.Next()
	}
}

// Principal returns the principal set by AuthRequired.
func Principal(c fiber.Ctx) (*reqctx.Principal, bool) {
	return reqctx.PrincipalFromContext(c.Context())
}
