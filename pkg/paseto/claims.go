package pasetotoken

import (
	"time"

	"github.com/google/uuid"
)

// Claims is the app-facing token payload. A token is only a pointer to a
// server-side session; permissions are never carried in the token.
type Claims struct {
	StaffID   uuid.UUID
	SessionID uuid.UUID

	Issuer   string
	Audience string

	IssuedAt  time.Time
	NotBefore time.Time
	ExpiresAt time.Time
	TokenID   string // jti
}

func (c *Claims) IsExpired() bool {
	return time.Now().After(c.ExpiresAt)
}
