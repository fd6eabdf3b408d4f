package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/clinicdesk_backend/internal/service/staff"
	"github.com/Alijeyrad/clinicdesk_backend/pkg/authorize"
	pasetotoken "github.com/Alijeyrad/clinicdesk_backend/pkg/paseto"
	"github.com/Alijeyrad/clinicdesk_backend/pkg/reqctx"
)

const (
	defaultMaxLoginAttempts = 5
	defaultLockMinutes      = 15
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type LoginRequest struct {
	Email    string
	Password string
}

type LoginResult struct {
	AccessToken string       `json:"accessToken"`
	ExpiresAt   time.Time    `json:"expiresAt"`
	ExpiresIn   int64        `json:"expiresIn"` // seconds
	Staff       *staff.Staff `json:"staff"`
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Logout(ctx context.Context, sessionID uuid.UUID) error
	// Resolve turns a bearer credential into the principal behind it.
	Resolve(ctx context.Context, token string) (*reqctx.Principal, error)
	Me(ctx context.Context, p *reqctx.Principal) (*staff.Staff, error)
}

type Options struct {
	MaxLoginAttempts int
	LockDuration     time.Duration
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type authService struct {
	staff    staff.Service
	sessions SessionStore
	paseto   *pasetotoken.Manager
	opts     Options
	now      func() time.Time
}

func New(staffSvc staff.Service, sessions SessionStore, paseto *pasetotoken.Manager, opts Options) Service {
	if opts.MaxLoginAttempts <= 0 {
		opts.MaxLoginAttempts = defaultMaxLoginAttempts
	}
	if opts.LockDuration <= 0 {
		opts.LockDuration = defaultLockMinutes * time.Minute
	}
	return &authService{
		staff:    staffSvc,
		sessions: sessions,
		paseto:   paseto,
		opts:     opts,
		now:      time.Now,
	}
}

// ---------------------------------------------------------------------------
// Login
// ---------------------------------------------------------------------------

func (s *authService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, ErrMissingCredentials
	}

	failures, err := s.sessions.FailedLogins(ctx, email)
	if err != nil {
		return nil, err
	}
	if failures >= int64(s.opts.MaxLoginAttempts) {
		return nil, ErrAccountLocked
	}

	st, err := s.staff.Authenticate(ctx, email, req.Password)
	if err != nil {
		if errors.Is(err, staff.ErrInvalidCredentials) {
			s.recordFailedLogin(ctx, email)
		}
		return nil, err
	}
	if err := s.sessions.ClearFailedLogins(ctx, email); err != nil {
		slog.WarnContext(ctx, "failed to clear login attempts", "staff_id", st.ID, "error", err)
	}
	return s.createSession(ctx, st)
}

func (s *authService) recordFailedLogin(ctx context.Context, email string) {
	n, err := s.sessions.RecordFailedLogin(ctx, email, s.opts.LockDuration)
	if err != nil {
		slog.ErrorContext(ctx, "failed to record login attempt", "error", err)
		return
	}
	if n >= int64(s.opts.MaxLoginAttempts) {
		slog.WarnContext(ctx, "login locked after repeated failures", "attempts", n)
	}
}

func (s *authService) createSession(ctx context.Context, st *staff.Staff) (*LoginResult, error) {
	// Re-validate stored permissions; unknown names from older rows are dropped.
	names := make([]string, 0, len(st.Permissions))
	for _, p := range st.Permissions {
		if _, ok := authorize.KnownPermissions[p]; ok {
			names = append(names, string(p))
		}
	}
	perms, err := authorize.PermissionsFromStrings(names)
	if err != nil {
		return nil, err
	}

	sid, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate session id: %w", err)
	}
	now := s.now().UTC()
	sess := &Session{
		ID:          sid,
		StaffID:     st.ID,
		FullAdmin:   st.FullAdmin,
		Permissions: perms.Strings(),
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.paseto.TTL()),
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}

	token, err := s.paseto.Issue(st.ID, sid, sess.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	slog.InfoContext(ctx, "staff logged in", "staff_id", st.ID, "session_id", sid)

	return &LoginResult{
		AccessToken: token,
		ExpiresAt:   sess.ExpiresAt,
		ExpiresIn:   int64(sess.ExpiresAt.Sub(now).Seconds()),
		Staff:       st,
	}, nil
}

// ---------------------------------------------------------------------------
// Logout
// ---------------------------------------------------------------------------

func (s *authService) Logout(ctx context.Context, sessionID uuid.UUID) error {
	sess, err := s.sessions.Load(ctx, sessionID)
	if errors.Is(err, ErrSessionNotFound) {
		slog.DebugContext(ctx, "logout: session already gone", "session_id", sessionID)
		return nil
	}
	if err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, sess); err != nil {
		return err
	}
	slog.InfoContext(ctx, "staff logged out", "staff_id", sess.StaffID, "session_id", sessionID)
	return nil
}

// ---------------------------------------------------------------------------
// Resolve
// ---------------------------------------------------------------------------

func (s *authService) Resolve(ctx context.Context, token string) (*reqctx.Principal, error) {
	claims, err := s.paseto.Verify(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	sess, err := s.sessions.Load(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if sess.StaffID != claims.StaffID || !s.now().Before(sess.ExpiresAt) {
		return nil, ErrSessionNotFound
	}

	perms, err := authorize.PermissionsFromStrings(sess.Permissions)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	return &reqctx.Principal{
		SessionID: sess.ID,
		StaffID:   sess.StaffID,
		Access:    authorize.NewAccess(sess.FullAdmin, perms),
		ExpiresAt: sess.ExpiresAt,
	}, nil
}

func (s *authService) Me(ctx context.Context, p *reqctx.Principal) (*staff.Staff, error) {
	return s.staff.Lookup(ctx, p.StaffID)
}
