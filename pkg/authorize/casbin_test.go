package authorize

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	casbin "github.com/casbin/casbin/v2"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"

	"github.com/Alijeyrad/clinicdesk_backend/pkg/apperr"
)

// createTestEnforcer creates a file-backed Casbin enforcer for testing
func createTestEnforcer(t *testing.T) *casbin.DistributedEnforcer {
	t.Helper()

	tmpDir := t.TempDir()

	modelPath := filepath.Join(tmpDir, "model.conf")
	if err := os.WriteFile(modelPath, []byte(DefaultModel), 0644); err != nil {
		t.Fatalf("failed to write model file: %v", err)
	}

	policyPath := filepath.Join(tmpDir, "policy.csv")
	if err := os.WriteFile(policyPath, []byte(""), 0644); err != nil {
		t.Fatalf("failed to write policy file: %v", err)
	}

	a := fileadapter.NewAdapter(policyPath)

	e, err := casbin.NewDistributedEnforcer(modelPath, a)
	if err != nil {
		t.Fatalf("failed to create enforcer: %v", err)
	}

	e.EnableAutoSave(false)
	e.EnableEnforce(true)

	return e
}

func seededGate(t *testing.T) *Gate {
	t.Helper()
	auth, err := NewAuthorization(createTestEnforcer(t))
	if err != nil {
		t.Fatalf("NewAuthorization: %v", err)
	}
	if err := SeedDefaultPolicies(context.Background(), auth); err != nil {
		t.Fatalf("SeedDefaultPolicies: %v", err)
	}
	return NewGate(auth)
}

func TestNewAuthorization(t *testing.T) {
	t.Run("returns error for nil enforcer", func(t *testing.T) {
		_, err := NewAuthorization(nil)
		if err == nil {
			t.Error("Expected error for nil enforcer")
		}
	})

	t.Run("succeeds with valid enforcer", func(t *testing.T) {
		auth, err := NewAuthorization(createTestEnforcer(t))
		if err != nil {
			t.Errorf("Unexpected error: %v", err)
		}
		if auth == nil {
			t.Error("Expected non-nil authorization")
		}
	})
}

func TestEnforceArguments(t *testing.T) {
	auth, _ := NewAuthorization(createTestEnforcer(t))
	ctx := context.Background()

	tests := []struct {
		name     string
		subject  Role
		domain   Domain
		resource Resource
		action   Action
	}{
		{"empty subject", "", DomainClinic, ResourceLedger, ActionRead},
		{"invalid domain", RoleFullAdmin, Domain("invalid"), ResourceLedger, ActionRead},
		{"unknown resource", RoleFullAdmin, DomainClinic, Resource("unknown"), ActionRead},
		{"unknown action", RoleFullAdmin, DomainClinic, ResourceLedger, Action("unknown")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.Enforce(ctx, tt.subject, tt.domain, tt.resource, tt.action)
			if !errors.Is(err, ErrInvalidArgs) {
				t.Errorf("Enforce() error = %v, want ErrInvalidArgs", err)
			}
		})
	}
}

func TestAddPermissionValidation(t *testing.T) {
	auth, _ := NewAuthorization(createTestEnforcer(t))
	ctx := context.Background()

	tests := []struct {
		name    string
		role    Role
		wantErr bool
	}{
		{"full admin role", RoleFullAdmin, false},
		{"known permission role", PermissionRole(PermManageAccounts), false},
		{"unknown permission role", Role("perm:launch_rockets"), true},
		{"bare prefix", Role("perm:"), true},
		{"arbitrary subject", Role("user:123"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.AddPermission(ctx, tt.role, DomainClinic, ResourceLedger, ActionRead, EffectAllow)
			if (err != nil) != tt.wantErr {
				t.Errorf("AddPermission() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGateMatrix(t *testing.T) {
	gate := seededGate(t)
	ctx := context.Background()

	online := Restricted{Permissions: NewPermissionSet(PermManageOnlineBookings)}
	daily := Restricted{Permissions: NewPermissionSet(PermManageDailyBookings)}
	accounts := Restricted{Permissions: NewPermissionSet(PermManageAccounts)}
	none := Restricted{Permissions: PermissionSet{}}
	both := Restricted{Permissions: NewPermissionSet(PermManageOnlineBookings, PermManageAccounts)}

	tests := []struct {
		name     string
		access   Access
		resource Resource
		action   Action
		want     bool
	}{
		{"full admin sets examination", FullAdmin{}, ResourceExamination, ActionUpdate, true},
		{"full admin manages staff", FullAdmin{}, ResourceStaff, ActionCreate, true},
		{"full admin writes reports", FullAdmin{}, ResourcePatientReport, ActionCreate, true},

		{"online lists online bookings", online, ResourceOnlineBooking, ActionList, true},
		{"online updates online bookings", online, ResourceOnlineBooking, ActionUpdate, true},
		{"online cannot touch clinic bookings", online, ResourceClinicBooking, ActionCreate, false},
		{"online cannot set examination", online, ResourceExamination, ActionUpdate, false},
		{"online reads reports", online, ResourcePatientReport, ActionRead, true},
		{"online cannot write reports", online, ResourcePatientReport, ActionCreate, false},

		{"daily creates clinic bookings", daily, ResourceClinicBooking, ActionCreate, true},
		{"daily reads online bookings", daily, ResourceOnlineBooking, ActionRead, true},
		{"daily cannot update online bookings", daily, ResourceOnlineBooking, ActionUpdate, false},
		{"daily reads history", daily, ResourceBookingHistory, ActionRead, true},
		{"daily cannot read ledger", daily, ResourceLedger, ActionList, false},

		{"accounts reads ledger", accounts, ResourceLedger, ActionList, true},
		{"accounts deletes ledger entries", accounts, ResourceLedger, ActionDelete, true},
		{"accounts cannot list bookings", accounts, ResourceOnlineBooking, ActionList, false},

		{"empty permissions grant nothing", none, ResourceOnlineBooking, ActionList, false},
		{"empty permissions cannot manage staff", none, ResourceStaff, ActionList, false},
		{"union of permissions", both, ResourceLedger, ActionCreate, true},
		{"union still excludes staff", both, ResourceStaff, ActionRead, false},
		{"nil access", nil, ResourceLedger, ActionRead, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := gate.Allowed(ctx, tt.access, tt.resource, tt.action)
			if err != nil {
				t.Fatalf("Allowed() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Allowed() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGateRequire(t *testing.T) {
	gate := seededGate(t)
	ctx := context.Background()

	err := gate.Require(ctx, Restricted{Permissions: NewPermissionSet(PermManageDailyBookings)}, ResourceExamination, ActionUpdate)
	if !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("Require() error = %v, want forbidden", err)
	}

	if err := gate.Require(ctx, FullAdmin{}, ResourceExamination, ActionUpdate); err != nil {
		t.Fatalf("Require() for full admin: %v", err)
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	auth, _ := NewAuthorization(createTestEnforcer(t))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := SeedDefaultPolicies(ctx, auth); err != nil {
			t.Fatalf("seed pass %d: %v", i, err)
		}
	}

	policies := auth.Raw().GetPolicy()
	if len(policies) != len(DefaultPolicies()) {
		t.Errorf("policy count = %d, want %d", len(policies), len(DefaultPolicies()))
	}
}

func TestRemovePermission(t *testing.T) {
	auth, _ := NewAuthorization(createTestEnforcer(t))
	ctx := context.Background()
	role := PermissionRole(PermManageAccounts)

	if _, err := auth.AddPermission(ctx, role, DomainClinic, ResourceLedger, ActionRead, EffectAllow); err != nil {
		t.Fatalf("AddPermission: %v", err)
	}
	removed, err := auth.RemovePermission(ctx, role, DomainClinic, ResourceLedger, ActionRead, EffectAllow)
	if err != nil || !removed {
		t.Fatalf("RemovePermission() = %v, %v", removed, err)
	}
	ok, _ := auth.Enforce(ctx, role, DomainClinic, ResourceLedger, ActionRead)
	if ok {
		t.Error("permission still enforced after removal")
	}
}
