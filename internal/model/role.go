package model

// Role is the access level of an authenticated user.
type Role string

const (
	RoleHRManager  Role = "HR_Manager"
	RoleTeamLeader Role = "Team_Leader"
	RoleEmployee   Role = "Employee"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks whether the role is a known value.
func (r Role) IsValid() bool {
	switch r {
	case RoleHRManager, RoleTeamLeader, RoleEmployee:
		return true
	}
	return false
}

// IsAdmin reports whether the role may act on any record.
func (r Role) IsAdmin() bool {
	return r == RoleHRManager
}

// IsSelfService reports whether the role is limited to its own record for
// profile edits.
func (r Role) IsSelfService() bool {
	return r == RoleTeamLeader || r == RoleEmployee
}
