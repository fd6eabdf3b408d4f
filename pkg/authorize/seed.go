package authorize

import (
	"context"
	"log/slog"
)

// DefaultPolicies is the permission matrix of the dashboard. Examination
// status, patient report writes and staff management have no permission row
// and are therefore reserved for full admins.
func DefaultPolicies() []PermissionPolicy {
	online := PermissionRole(PermManageOnlineBookings)
	daily := PermissionRole(PermManageDailyBookings)
	accounts := PermissionRole(PermManageAccounts)

	return []PermissionPolicy{
		{RoleFullAdmin, DomainClinic, WildcardResource, WildcardAction, EffectAllow},

		// Online booking requests: triage and reschedule.
		{online, DomainClinic, ResourceOnlineBooking, ActionList, EffectAllow},
		{online, DomainClinic, ResourceOnlineBooking, ActionRead, EffectAllow},
		{online, DomainClinic, ResourceOnlineBooking, ActionUpdate, EffectAllow},
		{online, DomainClinic, ResourceOnlineBooking, ActionDelete, EffectAllow},
		{online, DomainClinic, ResourceBookingHistory, ActionRead, EffectAllow},
		{online, DomainClinic, ResourcePatientReport, ActionRead, EffectAllow},

		// Front desk: daily walk-in bookings, read access to online ones.
		{daily, DomainClinic, ResourceClinicBooking, ActionCreate, EffectAllow},
		{daily, DomainClinic, ResourceClinicBooking, ActionList, EffectAllow},
		{daily, DomainClinic, ResourceClinicBooking, ActionRead, EffectAllow},
		{daily, DomainClinic, ResourceClinicBooking, ActionUpdate, EffectAllow},
		{daily, DomainClinic, ResourceClinicBooking, ActionDelete, EffectAllow},
		{daily, DomainClinic, ResourceOnlineBooking, ActionList, EffectAllow},
		{daily, DomainClinic, ResourceOnlineBooking, ActionRead, EffectAllow},
		{daily, DomainClinic, ResourceBookingHistory, ActionRead, EffectAllow},
		{daily, DomainClinic, ResourcePatientReport, ActionRead, EffectAllow},

		// Accounts.
		{accounts, DomainClinic, ResourceLedger, ActionList, EffectAllow},
		{accounts, DomainClinic, ResourceLedger, ActionRead, EffectAllow},
		{accounts, DomainClinic, ResourceLedger, ActionCreate, EffectAllow},
		{accounts, DomainClinic, ResourceLedger, ActionDelete, EffectAllow},
	}
}

// SeedDefaultPolicies writes DefaultPolicies. Existing rows are left alone.
func SeedDefaultPolicies(ctx context.Context, auth IAuthorization) error {
	logger := slog.Default()

	policies := DefaultPolicies()
	for _, p := range policies {
		added, err := auth.AddPermission(ctx, p.Subject, p.Domain, p.Object, p.Action, p.Effect)
		if err != nil {
			logger.Error("failed to add policy", "policy", p, "error", err)
			return err
		}
		if added {
			logger.Debug("added policy", "role", p.Subject, "domain", p.Domain, "resource", p.Object, "action", p.Action)
		}
	}

	logger.Info("seeded default RBAC policies", "count", len(policies))
	return nil
}
