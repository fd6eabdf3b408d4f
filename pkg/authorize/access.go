package authorize

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Permission is one of the grantable dashboard permissions.
type Permission string

const (
	PermManageOnlineBookings Permission = "manage_online_bookings"
	PermManageDailyBookings  Permission = "manage_daily_bookings"
	PermManageAccounts       Permission = "manage_accounts"
)

var KnownPermissions = map[Permission]struct{}{
	PermManageOnlineBookings: {},
	PermManageDailyBookings:  {},
	PermManageAccounts:       {},
}

// PermissionSet is a deduplicated set of known permissions.
type PermissionSet map[Permission]struct{}

func NewPermissionSet(perms ...Permission) PermissionSet {
	s := make(PermissionSet, len(perms))
	for _, p := range perms {
		s[p] = struct{}{}
	}
	return s
}

func (s PermissionSet) Has(p Permission) bool {
	_, ok := s[p]
	return ok
}

// Sorted returns the permissions in a stable order.
func (s PermissionSet) Sorted() []Permission {
	out := make([]Permission, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// Strings is Sorted as plain strings, the shape persisted and sent to clients.
func (s PermissionSet) Strings() []string {
	sorted := s.Sorted()
	out := make([]string, len(sorted))
	for i, p := range sorted {
		out[i] = string(p)
	}
	return out
}

// Access is what an authenticated caller may do. It is either FullAdmin or
// Restricted; there are no other implementations.
type Access interface {
	isAccess()
	// Subjects are the casbin subjects enforced on behalf of the caller.
	Subjects() []Role
}

// FullAdmin may perform every operation.
type FullAdmin struct{}

func (FullAdmin) isAccess() {}

func (FullAdmin) Subjects() []Role { return []Role{RoleFullAdmin} }

// Restricted may perform what its permissions grant. An empty set grants nothing.
type Restricted struct {
	Permissions PermissionSet
}

func (Restricted) isAccess() {}

func (r Restricted) Subjects() []Role {
	out := make([]Role, 0, len(r.Permissions))
	for _, p := range r.Permissions.Sorted() {
		out = append(out, PermissionRole(p))
	}
	return out
}

// NewAccess derives Access from an account's explicit full-admin flag. The
// permission list is ignored for full admins and never widens access when empty.
func NewAccess(fullAdmin bool, perms PermissionSet) Access {
	if fullAdmin {
		return FullAdmin{}
	}
	if perms == nil {
		perms = PermissionSet{}
	}
	return Restricted{Permissions: perms}
}

func IsFullAdmin(a Access) bool {
	_, ok := a.(FullAdmin)
	return ok
}

// ---------------------------------------------------------------------------
// Payload normalisation
// ---------------------------------------------------------------------------

// UnknownPermissionError reports a permission name that is not grantable.
type UnknownPermissionError struct{ Name string }

func (e UnknownPermissionError) Error() string {
	return fmt.Sprintf("unknown permission %q", e.Name)
}

// ParsePermissions accepts either ["a","b"] or [{"name":"a"}, ...] (mixed
// entries allowed) and returns the canonical set. null and empty input yield
// an empty set.
func ParsePermissions(raw json.RawMessage) (PermissionSet, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return PermissionSet{}, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("permissions must be a list: %w", err)
	}

	names := make([]string, 0, len(items))
	for _, item := range items {
		var name string
		if err := json.Unmarshal(item, &name); err == nil {
			names = append(names, name)
			continue
		}
		var obj struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(item, &obj); err != nil {
			return nil, fmt.Errorf("permission entry must be a string or an object with a name: %s", string(item))
		}
		names = append(names, obj.Name)
	}

	return PermissionsFromStrings(names)
}

// PermissionsFromStrings validates and deduplicates permission names.
// Blank names are skipped.
func PermissionsFromStrings(names []string) (PermissionSet, error) {
	set := make(PermissionSet, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		p := Permission(n)
		if _, ok := KnownPermissions[p]; !ok {
			return nil, UnknownPermissionError{Name: n}
		}
		set[p] = struct{}{}
	}
	return set, nil
}
