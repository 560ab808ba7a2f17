package roles

import "fmt"

// ===============================
// Staff Roles
// ===============================

type Role string

const (
	AdminSys      Role = "ADMIN_SYS"
	GeneralDoctor Role = "GENERAL_DOCTOR"
	Doctor        Role = "DOCTOR"
	Nurse         Role = "NURSE"
	Secretary     Role = "SECRETARY"

	// None means no role is assigned: either the request is anonymous
	// or the account exists but was never provisioned with a profile.
	None Role = ""
)

// All lists every assignable role, in display order.
func All() []Role {
	return []Role{AdminSys, GeneralDoctor, Doctor, Nurse, Secretary}
}

func Parse(s string) (Role, error) {
	switch Role(s) {
	case AdminSys, GeneralDoctor, Doctor, Nurse, Secretary:
		return Role(s), nil
	}
	return None, fmt.Errorf("unknown role %q", s)
}

func (r Role) Valid() bool {
	_, err := Parse(string(r))
	return err == nil
}

func (r Role) String() string {
	return string(r)
}

func (r Role) Description() string {
	switch r {
	case AdminSys:
		return "System Administrator"
	case GeneralDoctor:
		return "General Doctor"
	case Doctor:
		return "Specialist Doctor"
	case Nurse:
		return "Nurse"
	case Secretary:
		return "Medical Secretary"
	default:
		return "Unknown role"
	}
}

// DashboardRoute is the landing page for a freshly signed-in user.
// Unknown or missing roles land on the neutral protected page.
func (r Role) DashboardRoute() string {
	switch r {
	case AdminSys, GeneralDoctor:
		return "/admin"
	case Doctor:
		return "/medical"
	case Nurse:
		return "/nurse"
	case Secretary:
		return "/secretary"
	default:
		return "/protected"
	}
}

// ===============================
// Predicates
// ===============================
//
// All predicates take an already-resolved role. There is no implicit
// admin bypass: a check passes only for roles it explicitly lists.

func HasRole(r Role, required Role) bool {
	return r.Valid() && r == required
}

// HasAnyRole reports whether r is in the required set. An empty set
// denies everyone, so a forgotten argument never grants access.
func HasAnyRole(r Role, required ...Role) bool {
	if !r.Valid() {
		return false
	}
	for _, req := range required {
		if r == req {
			return true
		}
	}
	return false
}

// IsAdmin is a naming convenience over the explicit two-role union.
// GENERAL_DOCTOR is admin-equivalent by product decision, not hierarchy.
func IsAdmin(r Role) bool {
	return HasAnyRole(r, AdminSys, GeneralDoctor)
}

func IsMedicalStaff(r Role) bool {
	return HasAnyRole(r, Doctor, Nurse, GeneralDoctor)
}
