package authorize

type Action string
type Resource string
type Role string
type Domain string

// ----------------------------
// Actions
// ----------------------------

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionList   Action = "list"

	WildcardAction Action = "*"
)

var KnownActions = map[Action]struct{}{
	ActionCreate: {}, ActionRead: {}, ActionUpdate: {}, ActionDelete: {}, ActionList: {},
}

// ----------------------------
// Resources
// ----------------------------

const (
	WildcardResource Resource = "*"

	ResourceOnlineBooking  Resource = "online_booking"
	ResourceClinicBooking  Resource = "clinic_booking"
	ResourceBookingHistory Resource = "booking_history"
	ResourceExamination    Resource = "examination"
	ResourcePatientReport  Resource = "patient_report"
	ResourceLedger         Resource = "ledger"
	ResourceStaff          Resource = "staff"
)

var KnownResources = map[Resource]struct{}{
	ResourceOnlineBooking: {}, ResourceClinicBooking: {}, ResourceBookingHistory: {},
	ResourceExamination: {}, ResourcePatientReport: {},
	ResourceLedger: {}, ResourceStaff: {},
}

// ----------------------------
// Roles
// ----------------------------
//
// Casbin subjects. A restricted session is enforced once per permission role
// it holds; a full admin session is enforced as RoleFullAdmin.

const (
	RoleFullAdmin Role = "role:full_admin"

	RolePrefixPermission = "perm:"
)

// PermissionRole is the casbin subject that carries a permission's grants.
func PermissionRole(p Permission) Role {
	return Role(RolePrefixPermission + string(p))
}

// ----------------------------
// Domains
// ----------------------------

const (
	DomainClinic   Domain = "clinic"
	WildcardDomain Domain = "*"
)

func IsValidDomain(d Domain) bool {
	return d == DomainClinic || d == WildcardDomain
}

// ----------------------------
// Casbin tuple helpers
// ----------------------------

type PolicyEffect string

const (
	EffectAllow PolicyEffect = "allow"
	EffectDeny  PolicyEffect = "deny"
)

// Permission rows: p, role, domain, resource, action, eft
type PermissionPolicy struct {
	Subject Role
	Domain  Domain
	Object  Resource
	Action  Action
	Effect  PolicyEffect
}
