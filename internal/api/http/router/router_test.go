package router

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Alijeyrad/clinicdesk_backend/config"
	"github.com/Alijeyrad/clinicdesk_backend/internal/api/http/handler"
	"github.com/Alijeyrad/clinicdesk_backend/internal/service/accounting"
	"github.com/Alijeyrad/clinicdesk_backend/internal/service/auth"
	"github.com/Alijeyrad/clinicdesk_backend/internal/service/booking"
	"github.com/Alijeyrad/clinicdesk_backend/internal/service/staff"
	"github.com/Alijeyrad/clinicdesk_backend/pkg/authorize"
	"github.com/Alijeyrad/clinicdesk_backend/pkg/reqctx"
)

// fakeAuth resolves a fixed set of tokens.
type fakeAuth struct {
	principals map[string]*reqctx.Principal
}

func (f *fakeAuth) Login(_ context.Context, req auth.LoginRequest) (*auth.LoginResult, error) {
	if req.Email == "" || req.Password == "" {
		return nil, auth.ErrMissingCredentials
	}
	if req.Password != "supersecret" {
		return nil, staff.ErrInvalidCredentials
	}
	return &auth.LoginResult{
		AccessToken: "admin",
		ExpiresAt:   time.Now().Add(time.Hour),
		ExpiresIn:   3600,
		Staff:       &staff.Staff{Email: req.Email, IsActive: true, FullAdmin: true},
	}, nil
}

func (f *fakeAuth) Logout(context.Context, uuid.UUID) error { return nil }

func (f *fakeAuth) Resolve(_ context.Context, token string) (*reqctx.Principal, error) {
	p, found := f.principals[token]
	if !found {
		return nil, auth.ErrInvalidToken
	}
	return p, nil
}

func (f *fakeAuth) Me(_ context.Context, p *reqctx.Principal) (*staff.Staff, error) {
	return &staff.Staff{ID: p.StaffID, Name: "Desk"}, nil
}

type fakeBookings struct {
	booking.Service
	listed []booking.ListRequest
}

func (f *fakeBookings) CreateOnline(_ context.Context, req booking.CreateOnlineRequest) (*booking.Booking, error) {
	if req.Name == "" || req.Phone == "" || req.Date == "" {
		return nil, booking.ErrMissingFields
	}
	return &booking.Booking{ID: "b1", CustomerName: req.Name, Type: booking.TypeOnline, Status: booking.StatusPending}, nil
}

func (f *fakeBookings) List(_ context.Context, req booking.ListRequest) ([]booking.Booking, error) {
	f.listed = append(f.listed, req)
	return []booking.Booking{}, nil
}

func (f *fakeBookings) Get(_ context.Context, id string) (*booking.Booking, error) {
	if id != "b1" {
		return nil, booking.ErrNotFound
	}
	return &booking.Booking{ID: "b1"}, nil
}

type fakeAccounting struct {
	accounting.Service
}

func (fakeAccounting) ParseMonth(raw string) (accounting.Month, error) {
	return accounting.ParseMonth(raw, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), time.UTC)
}

func (fakeAccounting) Summary(_ context.Context, m accounting.Month) (*accounting.Summary, error) {
	return &accounting.Summary{Month: m, TotalIncome: decimal.NewFromInt(10)}, nil
}

func newGate(t *testing.T) *authorize.Gate {
	t.Helper()
	policy := filepath.Join(t.TempDir(), "policy.csv")
	if err := os.WriteFile(policy, nil, 0o644); err != nil {
		t.Fatalf("write policy: %v", err)
	}
	e, err := authorize.NewFileEnforcer("", policy)
	if err != nil {
		t.Fatalf("NewFileEnforcer: %v", err)
	}
	a, err := authorize.NewAuthorization(e)
	if err != nil {
		t.Fatalf("NewAuthorization: %v", err)
	}
	if err := authorize.SeedDefaultPolicies(context.Background(), a); err != nil {
		t.Fatalf("SeedDefaultPolicies: %v", err)
	}
	return authorize.NewGate(a)
}

type testApp struct {
	app      *fiber.App
	bookings *fakeBookings
}

func newTestApp(t *testing.T) testApp {
	t.Helper()
	bookings := &fakeBookings{}
	r := NewRouter(Params{
		Cfg:  &config.Config{},
		Gate: newGate(t),
		AuthSvc: &fakeAuth{principals: map[string]*reqctx.Principal{
			"admin": {StaffID: uuid.New(), Access: authorize.FullAdmin{}},
			"desk": {StaffID: uuid.New(), Access: authorize.Restricted{
				Permissions: authorize.NewPermissionSet(authorize.PermManageOnlineBookings),
			}},
		}},
		BookingSvc:    bookings,
		AccountingSvc: fakeAccounting{},
		StaffSvc:      nil,
	})
	app := fiber.New(fiber.Config{ErrorHandler: handler.ErrorHandler})
	r.Register(app)
	return testApp{app: app, bookings: bookings}
}

func (ta testApp) do(t *testing.T, method, path, token, body string) (int, map[string]any, *http.Response) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ta.app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var out map[string]any
	raw, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(raw, &out)
	return resp.StatusCode, out, resp
}

func TestPublicBookingMissingFields(t *testing.T) {
	ta := newTestApp(t)
	status, body, _ := ta.do(t, http.MethodPost, "/api/bookings/online", "", `{"name":"Mona"}`)
	if status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", status)
	}
	if body["error"] != "Missing required fields: name, phone, date" {
		t.Errorf("error = %v", body["error"])
	}
}

func TestPublicBookingCreated(t *testing.T) {
	ta := newTestApp(t)
	status, body, _ := ta.do(t, http.MethodPost, "/api/bookings/online", "",
		`{"name":"Mona","phone":"01001234567","date":"2024-03-20T10:00"}`)
	if status != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (%v)", status, body)
	}
	data, _ := body["data"].(map[string]any)
	if data["status"] != "pending" {
		t.Errorf("status field = %v, want pending", data["status"])
	}
}

func TestAuthRequired(t *testing.T) {
	ta := newTestApp(t)
	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"no credential", "", http.StatusUnauthorized},
		{"unknown token", "forged", http.StatusUnauthorized},
		{"valid token", "admin", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _, _ := ta.do(t, http.MethodGet, "/api/bookings/online", tt.token, "")
			if status != tt.want {
				t.Errorf("status = %d, want %d", status, tt.want)
			}
		})
	}
}

func TestCookieCredential(t *testing.T) {
	ta := newTestApp(t)
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: "admin-token", Value: "desk"})
	resp, err := ta.app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestPermissionMatrix(t *testing.T) {
	ta := newTestApp(t)
	tests := []struct {
		name  string
		token string
		path  string
		want  int
	}{
		{"online manager lists online", "desk", "/api/bookings/online", http.StatusOK},
		{"online manager cannot list all", "desk", "/api/bookings/all", http.StatusForbidden},
		{"online manager cannot read accounts", "desk", "/api/accounts/summary?month=2024-03", http.StatusForbidden},
		{"full admin reads accounts", "admin", "/api/accounts/summary?month=2024-03", http.StatusOK},
		{"online manager cannot manage staff", "desk", "/api/admin/staff", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body, _ := ta.do(t, http.MethodGet, tt.path, tt.token, "")
			if status != tt.want {
				t.Errorf("status = %d, want %d (%v)", status, tt.want, body)
			}
		})
	}
}

func TestListAllPassesFilters(t *testing.T) {
	ta := newTestApp(t)
	status, _, _ := ta.do(t, http.MethodGet, "/api/bookings/all?type=clinic&status=confirmed&examinationStatus=waiting&date=2024-03-15", "admin", "")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	got := ta.bookings.listed[len(ta.bookings.listed)-1]
	want := booking.ListRequest{Type: "clinic", Status: "confirmed", ExaminationStatus: "waiting", Date: "2024-03-15"}
	if got != want {
		t.Errorf("ListRequest = %+v, want %+v", got, want)
	}
}

func TestUnknownBookingIsNotFound(t *testing.T) {
	ta := newTestApp(t)
	status, _, _ := ta.do(t, http.MethodGet, "/api/bookings/nope", "admin", "")
	if status != http.StatusNotFound {
		t.Errorf("status = %d, want 404", status)
	}
}

func TestInvalidMonthIsBadRequest(t *testing.T) {
	ta := newTestApp(t)
	status, _, _ := ta.do(t, http.MethodGet, "/api/accounts/summary?month=2024-13", "admin", "")
	if status != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", status)
	}
}

func TestLoginSetsCookie(t *testing.T) {
	ta := newTestApp(t)
	status, body, resp := ta.do(t, http.MethodPost, "/api/auth/login", "", `{"email":"root@clinic.test","password":"supersecret"}`)
	if status != http.StatusOK {
		t.Fatalf("status = %d (%v)", status, body)
	}
	var found bool
	for _, c := range resp.Cookies() {
		if c.Name == "admin-token" && c.Value == "admin" && c.HttpOnly {
			found = true
		}
	}
	if !found {
		t.Errorf("admin-token cookie not set: %v", resp.Header.Values("Set-Cookie"))
	}

	status, _, _ = ta.do(t, http.MethodPost, "/api/auth/login", "", `{"email":"root@clinic.test","password":"wrong"}`)
	if status != http.StatusUnauthorized {
		t.Errorf("bad password status = %d, want 401", status)
	}
}
