package staff

import "github.com/Alijeyrad/clinicdesk_backend/pkg/apperr"

var (
	ErrNotFound           = apperr.NotFound("staff member not found")
	ErrEmailTaken         = apperr.Conflict("email address is already in use")
	ErrSelfDeactivate     = apperr.Validation("you cannot deactivate your own account")
	ErrSelfDelete         = apperr.Validation("you cannot delete your own account")
	ErrInvalidCredentials = apperr.Unauthorized("invalid email or password")
	ErrInactive           = apperr.Unauthorized("this account is deactivated")
)
