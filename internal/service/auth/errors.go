package auth

import "github.com/Alijeyrad/clinicdesk_backend/pkg/apperr"

var (
	ErrMissingCredentials = apperr.Validation("email and password are required")
	ErrAccountLocked      = apperr.Forbidden("account temporarily locked due to repeated login failures")
	ErrSessionNotFound    = apperr.Unauthorized("session not found or expired")
	ErrInvalidToken       = apperr.Unauthorized("invalid or expired token")
)
