package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/clinicdesk_backend/internal/service/staff"
	"github.com/Alijeyrad/clinicdesk_backend/pkg/authorize"
	pasetotoken "github.com/Alijeyrad/clinicdesk_backend/pkg/paseto"
)

type memSessions struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]Session
	attempts map[string]int64
}

func newMemSessions() *memSessions {
	return &memSessions{sessions: map[uuid.UUID]Session{}, attempts: map[string]int64{}}
}

func (m *memSessions) Save(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = *s
	return nil
}

func (m *memSessions) Load(_ context.Context, id uuid.UUID) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return &s, nil
}

func (m *memSessions) Delete(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, s.ID)
	return nil
}

func (m *memSessions) RevokeStaff(_ context.Context, staffID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		if s.StaffID == staffID {
			delete(m.sessions, id)
		}
	}
	return nil
}

func (m *memSessions) FailedLogins(_ context.Context, email string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attempts[email], nil
}

func (m *memSessions) RecordFailedLogin(_ context.Context, email string, _ time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts[email]++
	return m.attempts[email], nil
}

func (m *memSessions) ClearFailedLogins(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.attempts, email)
	return nil
}

// fakeStaff answers only the calls the auth service makes.
type fakeStaff struct {
	staff.Service
	member   staff.Staff
	password string
}

func (f *fakeStaff) Authenticate(_ context.Context, email, pw string) (*staff.Staff, error) {
	if email != f.member.Email || pw != f.password {
		return nil, staff.ErrInvalidCredentials
	}
	if !f.member.IsActive {
		return nil, staff.ErrInactive
	}
	m := f.member
	return &m, nil
}

func (f *fakeStaff) Lookup(_ context.Context, id uuid.UUID) (*staff.Staff, error) {
	if id != f.member.ID {
		return nil, staff.ErrNotFound
	}
	m := f.member
	return &m, nil
}

type fixture struct {
	svc      Service
	sessions *memSessions
	staff    *fakeStaff
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	keys := pasetotoken.NewLocalKeys()
	tokens, err := pasetotoken.New(pasetotoken.Config{Mode: keys.Mode, Issuer: "clinicdesk", Audience: "dashboard", TTL: time.Hour}, keys)
	if err != nil {
		t.Fatalf("paseto.New: %v", err)
	}
	st := &fakeStaff{
		member: staff.Staff{
			ID:          uuid.New(),
			Name:        "Front Desk",
			Email:       "desk@clinic.test",
			IsActive:    true,
			Permissions: []authorize.Permission{authorize.PermManageDailyBookings, "legacy_perm"},
		},
		password: "supersecret",
	}
	sessions := newMemSessions()
	return fixture{
		svc:      New(st, sessions, tokens, Options{MaxLoginAttempts: 3, LockDuration: time.Minute}),
		sessions: sessions,
		staff:    st,
	}
}

func TestLoginAndResolve(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Login(ctx, LoginRequest{Email: "  Desk@Clinic.test ", Password: "supersecret"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.AccessToken == "" || res.ExpiresIn <= 0 {
		t.Fatalf("Login result = %+v", res)
	}

	p, err := f.svc.Resolve(ctx, res.AccessToken)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if p.StaffID != f.staff.member.ID {
		t.Errorf("StaffID = %s, want %s", p.StaffID, f.staff.member.ID)
	}
	if authorize.IsFullAdmin(p.Access) {
		t.Error("restricted member resolved as full admin")
	}
	r, ok := p.Access.(authorize.Restricted)
	if !ok {
		t.Fatalf("Access = %T, want Restricted", p.Access)
	}
	if !r.Permissions.Has(authorize.PermManageDailyBookings) || len(r.Permissions) != 1 {
		t.Errorf("Permissions = %v, want only %s", r.Permissions.Sorted(), authorize.PermManageDailyBookings)
	}

	me, err := f.svc.Me(ctx, p)
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if me.Email != f.staff.member.Email {
		t.Errorf("Me().Email = %q", me.Email)
	}
}

func TestLoginErrors(t *testing.T) {
	tests := []struct {
		name string
		req  LoginRequest
		want error
	}{
		{"missing email", LoginRequest{Password: "x"}, ErrMissingCredentials},
		{"missing password", LoginRequest{Email: "desk@clinic.test"}, ErrMissingCredentials},
		{"wrong password", LoginRequest{Email: "desk@clinic.test", Password: "nope"}, staff.ErrInvalidCredentials},
		{"unknown email", LoginRequest{Email: "ghost@clinic.test", Password: "supersecret"}, staff.ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if _, err := f.svc.Login(context.Background(), tt.req); !errors.Is(err, tt.want) {
				t.Errorf("Login() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestInactiveLoginRefused(t *testing.T) {
	f := newFixture(t)
	f.staff.member.IsActive = false
	_, err := f.svc.Login(context.Background(), LoginRequest{Email: "desk@clinic.test", Password: "supersecret"})
	if !errors.Is(err, staff.ErrInactive) {
		t.Fatalf("Login() error = %v, want ErrInactive", err)
	}
	if n := f.sessions.attempts["desk@clinic.test"]; n != 0 {
		t.Errorf("inactive login counted as failure: %d", n)
	}
}

func TestLockoutAfterRepeatedFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bad := LoginRequest{Email: "desk@clinic.test", Password: "wrong"}

	for i := 0; i < 3; i++ {
		if _, err := f.svc.Login(ctx, bad); !errors.Is(err, staff.ErrInvalidCredentials) {
			t.Fatalf("attempt %d: error = %v", i+1, err)
		}
	}
	_, err := f.svc.Login(ctx, LoginRequest{Email: "desk@clinic.test", Password: "supersecret"})
	if !errors.Is(err, ErrAccountLocked) {
		t.Fatalf("Login() after lockout = %v, want ErrAccountLocked", err)
	}
}

func TestSuccessfulLoginClearsFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, _ = f.svc.Login(ctx, LoginRequest{Email: "desk@clinic.test", Password: "wrong"})
	if _, err := f.svc.Login(ctx, LoginRequest{Email: "desk@clinic.test", Password: "supersecret"}); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if n := f.sessions.attempts["desk@clinic.test"]; n != 0 {
		t.Errorf("attempts = %d after success, want 0", n)
	}
}

func TestLogoutEndsSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Login(ctx, LoginRequest{Email: "desk@clinic.test", Password: "supersecret"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	p, err := f.svc.Resolve(ctx, res.AccessToken)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if err := f.svc.Logout(ctx, p.SessionID); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := f.svc.Resolve(ctx, res.AccessToken); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Resolve() after logout = %v, want ErrSessionNotFound", err)
	}
	// A second logout is harmless.
	if err := f.svc.Logout(ctx, p.SessionID); err != nil {
		t.Errorf("second Logout: %v", err)
	}
}

func TestResolveRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Login(ctx, LoginRequest{Email: "desk@clinic.test", Password: "supersecret"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	t.Run("garbage token", func(t *testing.T) {
		if _, err := f.svc.Resolve(ctx, "v4.local.garbage"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Resolve() error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("revoked staff", func(t *testing.T) {
		if err := f.sessions.RevokeStaff(ctx, f.staff.member.ID); err != nil {
			t.Fatal(err)
		}
		if _, err := f.svc.Resolve(ctx, res.AccessToken); !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("Resolve() error = %v, want ErrSessionNotFound", err)
		}
	})
}

func TestFullAdminSession(t *testing.T) {
	f := newFixture(t)
	f.staff.member.FullAdmin = true
	ctx := context.Background()

	res, err := f.svc.Login(ctx, LoginRequest{Email: "desk@clinic.test", Password: "supersecret"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	p, err := f.svc.Resolve(ctx, res.AccessToken)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !authorize.IsFullAdmin(p.Access) {
		t.Errorf("Access = %T, want FullAdmin", p.Access)
	}
}
