package staff

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Alijeyrad/clinicdesk_backend/pkg/apperr"
	"github.com/Alijeyrad/clinicdesk_backend/pkg/authorize"
	"github.com/Alijeyrad/clinicdesk_backend/pkg/util/password"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type CreateRequest struct {
	Name     string `validate:"required,max=100"`
	Email    string `validate:"required,email,max=254"`
	Password string `validate:"omitempty,min=8,max=128"`
	Role     Role   `validate:"omitempty,oneof=admin staff"`
	// Permissions is either ["name", ...] or [{"name": ...}, ...].
	Permissions json.RawMessage
	FullAdmin   bool
}

type UpdateRequest struct {
	Name        *string `validate:"omitempty,min=1,max=100"`
	Email       *string `validate:"omitempty,email,max=254"`
	Password    *string `validate:"omitempty,min=8,max=128"`
	Role        *Role   `validate:"omitempty,oneof=admin staff"`
	Permissions json.RawMessage
	FullAdmin   *bool
}

// CreateResult carries the generated password once when none was supplied.
type CreateResult struct {
	Staff             *Staff `json:"staff"`
	GeneratedPassword string `json:"generatedPassword,omitempty"`
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	List(ctx context.Context, actor Actor) ([]Staff, error)
	Get(ctx context.Context, actor Actor, id uuid.UUID) (*Staff, error)
	Create(ctx context.Context, actor Actor, req CreateRequest) (*CreateResult, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, req UpdateRequest) (*Staff, error)
	SetActive(ctx context.Context, actor Actor, id uuid.UUID, active bool) (*Staff, error)
	Delete(ctx context.Context, actor Actor, id uuid.UUID) error

	// Authenticate checks credentials for login. Inactive accounts are refused.
	Authenticate(ctx context.Context, email, pw string) (*Staff, error)
	// Lookup returns an account without an authorization check, for session
	// resolution.
	Lookup(ctx context.Context, id uuid.UUID) (*Staff, error)
	// Bootstrap creates a full admin without an actor. It is refused once an
	// active full admin exists.
	Bootstrap(ctx context.Context, req CreateRequest) (*CreateResult, error)
}

type Gate interface {
	Require(ctx context.Context, access authorize.Access, object authorize.Resource, action authorize.Action) error
}

// SessionRevoker ends every session of a staff member.
type SessionRevoker interface {
	RevokeStaff(ctx context.Context, staffID uuid.UUID) error
}

type nopRevoker struct{}

func (nopRevoker) RevokeStaff(context.Context, uuid.UUID) error { return nil }

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type Deps struct {
	Store             Store
	Gate              Gate
	Hasher            *password.Hasher
	Revoker           SessionRevoker
	GeneratedPwLength int
}

type service struct {
	store    Store
	gate     Gate
	hasher   *password.Hasher
	sessions SessionRevoker
	genLen   int
	now      func() time.Time
}

func New(d Deps) Service {
	s := &service{
		store:    d.Store,
		gate:     d.Gate,
		hasher:   d.Hasher,
		sessions: d.Revoker,
		genLen:   d.GeneratedPwLength,
		now:      time.Now,
	}
	if s.sessions == nil {
		s.sessions = nopRevoker{}
	}
	if s.hasher == nil {
		s.hasher = password.NewHasher(password.DefaultParams())
	}
	return s
}

// validationError turns validator output into one readable message.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Validation(err.Error())
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "email":
			msgs = append(msgs, field+" must be a valid email address")
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of %s", field, fe.Param()))
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return apperr.Validation(strings.Join(msgs, "; "))
}

func parsePermissions(raw json.RawMessage) ([]authorize.Permission, error) {
	set, err := authorize.ParsePermissions(raw)
	if err != nil {
		return nil, apperr.Validation(err.Error())
	}
	return set.Sorted(), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *service) require(ctx context.Context, actor Actor, action authorize.Action) error {
	return s.gate.Require(ctx, actor.Access, authorize.ResourceStaff, action)
}

func (s *service) List(ctx context.Context, actor Actor) ([]Staff, error) {
	if err := s.require(ctx, actor, authorize.ActionList); err != nil {
		return nil, err
	}
	return s.store.List(ctx)
}

func (s *service) Get(ctx context.Context, actor Actor, id uuid.UUID) (*Staff, error) {
	if err := s.require(ctx, actor, authorize.ActionRead); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, id)
}

func (s *service) Lookup(ctx context.Context, id uuid.UUID) (*Staff, error) {
	return s.store.Get(ctx, id)
}

func (s *service) Create(ctx context.Context, actor Actor, req CreateRequest) (*CreateResult, error) {
	if err := s.require(ctx, actor, authorize.ActionCreate); err != nil {
		return nil, err
	}
	res, err := s.create(ctx, req)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "staff account created",
		"staff_id", res.Staff.ID, "by", actor.ID, "full_admin", res.Staff.FullAdmin)
	return res, nil
}

func (s *service) Bootstrap(ctx context.Context, req CreateRequest) (*CreateResult, error) {
	n, err := s.store.CountFullAdmins(ctx)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, apperr.Conflict("an active full admin already exists")
	}
	req.FullAdmin = true
	req.Role = RoleAdmin
	res, err := s.create(ctx, req)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "bootstrap admin created", "staff_id", res.Staff.ID)
	return res, nil
}

func (s *service) create(ctx context.Context, req CreateRequest) (*CreateResult, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)
	if err := validate.Struct(req); err != nil {
		return nil, validationError(err)
	}
	perms, err := parsePermissions(req.Permissions)
	if err != nil {
		return nil, err
	}
	role := req.Role
	if role == "" {
		role = RoleStaff
	}

	res := &CreateResult{}
	pw := req.Password
	if pw == "" {
		pw = password.Generate(s.genLen)
		res.GeneratedPassword = pw
	}
	hash, err := s.hasher.Hash(pw)
	if err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate staff id: %w", err)
	}
	now := s.now().UTC()
	st := &Staff{
		ID:           id,
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		FullAdmin:    req.FullAdmin,
		Permissions:  perms,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Create(ctx, st); err != nil {
		return nil, err
	}
	res.Staff = st
	return res, nil
}

func (s *service) Update(ctx context.Context, actor Actor, id uuid.UUID, req UpdateRequest) (*Staff, error) {
	if err := s.require(ctx, actor, authorize.ActionUpdate); err != nil {
		return nil, err
	}
	if req.Email != nil {
		e := normalizeEmail(*req.Email)
		req.Email = &e
	}
	if req.Name != nil {
		n := strings.TrimSpace(*req.Name)
		req.Name = &n
	}
	if err := validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	p := Patch{Name: req.Name, Email: req.Email, Role: req.Role, FullAdmin: req.FullAdmin}
	if len(req.Permissions) > 0 {
		perms, err := parsePermissions(req.Permissions)
		if err != nil {
			return nil, err
		}
		p.Permissions, p.SetPerms = perms, true
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, err
		}
		p.PasswordHash = &hash
	}
	if actor.ID == id && req.FullAdmin != nil && !*req.FullAdmin {
		return nil, apperr.Validation("you cannot remove your own full admin flag")
	}

	updated, err := s.store.Update(ctx, id, p, s.now().UTC())
	if err != nil {
		return nil, err
	}
	// Sessions carry the access they were created with.
	if p.SetPerms || p.FullAdmin != nil || p.PasswordHash != nil {
		s.revoke(ctx, id)
	}
	slog.InfoContext(ctx, "staff account updated", "staff_id", id, "by", actor.ID)
	return updated, nil
}

func (s *service) SetActive(ctx context.Context, actor Actor, id uuid.UUID, active bool) (*Staff, error) {
	if err := s.require(ctx, actor, authorize.ActionUpdate); err != nil {
		return nil, err
	}
	if actor.ID == id && !active {
		return nil, ErrSelfDeactivate
	}
	updated, err := s.store.Update(ctx, id, Patch{IsActive: &active}, s.now().UTC())
	if err != nil {
		return nil, err
	}
	if !active {
		s.revoke(ctx, id)
	}
	slog.InfoContext(ctx, "staff account status changed", "staff_id", id, "active", active, "by", actor.ID)
	return updated, nil
}

func (s *service) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	if err := s.require(ctx, actor, authorize.ActionDelete); err != nil {
		return err
	}
	if actor.ID == id {
		return ErrSelfDelete
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.revoke(ctx, id)
	slog.InfoContext(ctx, "staff account deleted", "staff_id", id, "by", actor.ID)
	return nil
}

func (s *service) revoke(ctx context.Context, id uuid.UUID) {
	if err := s.sessions.RevokeStaff(ctx, id); err != nil {
		slog.ErrorContext(ctx, "failed to revoke staff sessions", "staff_id", id, "error", err)
	}
}

func (s *service) Authenticate(ctx context.Context, email, pw string) (*Staff, error) {
	st, err := s.store.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Unknown emails take as long as a wrong password.
			_, _ = s.hasher.Hash(pw)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := s.hasher.Verify(st.PasswordHash, pw); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !st.IsActive {
		return nil, ErrInactive
	}
	if s.hasher.NeedsRehash(st.PasswordHash) {
		if hash, err := s.hasher.Hash(pw); err == nil {
			if _, err := s.store.Update(ctx, st.ID, Patch{PasswordHash: &hash}, s.now().UTC()); err != nil {
				slog.WarnContext(ctx, "password rehash failed", "staff_id", st.ID, "error", err)
			}
		}
	}
	return st, nil
}
