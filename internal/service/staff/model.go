package staff

import (
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/clinicdesk_backend/pkg/authorize"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

func (r Role) Valid() bool { return r == RoleAdmin || r == RoleStaff }

type Staff struct {
	ID           uuid.UUID              `json:"id"`
	Name         string                 `json:"name"`
	Email        string                 `json:"email"`
	PasswordHash string                 `json:"-"`
	Role         Role                   `json:"role"`
	IsActive     bool                   `json:"isActive"`
	FullAdmin    bool                   `json:"fullAdmin"`
	Permissions  []authorize.Permission `json:"permissions"`
	CreatedAt    time.Time              `json:"createdAt"`
	UpdatedAt    time.Time              `json:"updatedAt"`
}

// Access is the authorization a session for this staff member carries.
func (s *Staff) Access() authorize.Access {
	return authorize.NewAccess(s.FullAdmin, authorize.NewPermissionSet(s.Permissions...))
}

// Patch holds the columns an update rewrites. Nil fields are kept.
type Patch struct {
	Name         *string
	Email        *string
	PasswordHash *string
	Role         *Role
	IsActive     *bool
	FullAdmin    *bool
	Permissions  []authorize.Permission
	SetPerms     bool
}

// Actor is the authenticated staff member performing an operation.
type Actor struct {
	ID     uuid.UUID
	Access authorize.Access
}
