package authorize

import (
	"context"
	"fmt"

	"github.com/Alijeyrad/clinicdesk_backend/pkg/apperr"
)

// Gate answers whether an Access may perform an operation. It is consulted
// by HTTP middleware and by services that guard individual fields.
type Gate struct {
	auth IAuthorization
}

func NewGate(auth IAuthorization) *Gate {
	return &Gate{auth: auth}
}

// Allowed reports whether any subject of access is granted action on object.
// A Restricted access with no permissions is never allowed.
func (g *Gate) Allowed(ctx context.Context, access Access, object Resource, action Action) (bool, error) {
	if access == nil {
		return false, nil
	}
	for _, sub := range access.Subjects() {
		ok, err := g.auth.Enforce(ctx, sub, DomainClinic, object, action)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// Require is Allowed returning a Forbidden error on denial.
func (g *Gate) Require(ctx context.Context, access Access, object Resource, action Action) error {
	ok, err := g.Allowed(ctx, access, object, action)
	if err != nil {
		return apperr.Store("authorize", err)
	}
	if !ok {
		return apperr.Forbidden(fmt.Sprintf("not allowed to %s %s", action, object))
	}
	return nil
}
