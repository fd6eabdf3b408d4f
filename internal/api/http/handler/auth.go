package handler

import (
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/clinicdesk_backend/config"
	"github.com/Alijeyrad/clinicdesk_backend/internal/api/http/middleware"
	"github.com/Alijeyrad/clinicdesk_backend/internal/service/auth"
)

type AuthHandler struct {
	svc    auth.Service
	cookie config.CookieConfig
}

func NewAuthHandler(svc auth.Service, cookie config.CookieConfig) *AuthHandler {
	if cookie.Name == "" {
		cookie.Name = middleware.DefaultCookieName
	}
	return &AuthHandler{svc: svc, cookie: cookie}
}

func (h *AuthHandler) setCookie(c fiber.Ctx, value string, maxAge int, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    value,
		Path:     "/",
		Domain:   h.cookie.Domain,
		MaxAge:   maxAge,
		Expires:  expires,
		Secure:   h.cookie.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// POST /api/auth/login
func (h *AuthHandler) Login(c fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	res, err := h.svc.Login(c.Context(), auth.LoginRequest{
		Email:    body.Email,
		Password: body.Password,
	})
	if err != nil {
		return fail(c, err)
	}

	h.setCookie(c, res.AccessToken, int(res.ExpiresIn), res.ExpiresAt)
	return ok(c, res)
}

// POST /api/auth/logout
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	p, found := middleware.Principal(c)
	if !found {
		return fail(c, fiber.ErrUnauthorized)
	}
	if err := h.svc.Logout(c.Context(), p.SessionID); err != nil {
		return fail(c, err)
	}
	h.setCookie(c, "", -1, time.Unix(0, 0))
	return ok(c, fiber.Map{"message": "logged out"})
}

// GET /api/auth/me
func (h *AuthHandler) Me(c fiber.Ctx) error {
	p, found := middleware.Principal(c)
	if !found {
		return fail(c, fiber.ErrUnauthorized)
	}
	me, err := h.svc.Me(c.Context(), p)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, me)
}
