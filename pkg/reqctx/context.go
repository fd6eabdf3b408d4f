package reqctx

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/clinicdesk_backend/pkg/authorize"
)

// ctxKey is a private type for context keys to prevent collisions.
type ctxKey int

const (
	keyRequestMeta ctxKey = iota
	keyPrincipal
)

// RequestMeta holds per-request metadata set by HTTP middleware.
type RequestMeta struct {
	RequestID   string
	ClientIP    string
	UserAgent   string
	RequestedAt time.Time
}

func WithRequestMeta(ctx context.Context, meta *RequestMeta) context.Context {
	return context.WithValue(ctx, keyRequestMeta, meta)
}

func RequestMetaFromContext(ctx context.Context) (*RequestMeta, bool) {
	meta, ok := ctx.Value(keyRequestMeta).(*RequestMeta)
	return meta, ok && meta != nil
}

// RequestIDFromContext returns "" when no RequestMeta is set.
func RequestIDFromContext(ctx context.Context) string {
	if meta, ok := RequestMetaFromContext(ctx); ok {
		return meta.RequestID
	}
	return ""
}

// Principal is the authenticated staff member behind a request, resolved
// from the server-side session named by the credential.
type Principal struct {
	SessionID uuid.UUID
	StaffID   uuid.UUID
	Access    authorize.Access
	ExpiresAt time.Time
}

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, keyPrincipal, p)
}

func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(keyPrincipal).(*Principal)
	return p, ok && p != nil
}

// AccessFromContext returns the caller's access, or an empty Restricted
// access for unauthenticated contexts. It never returns FullAdmin by default.
func AccessFromContext(ctx context.Context) authorize.Access {
	if p, ok := PrincipalFromContext(ctx); ok && p.Access != nil {
		return p.Access
	}
	return authorize.Restricted{Permissions: authorize.PermissionSet{}}
}
