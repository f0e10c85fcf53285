package enums

import "fmt"

// SystemRole represents the platform-wide role granted to a user.
type SystemRole string

const (
	SystemRoleAdmin   SystemRole = "admin"
	SystemRoleManager SystemRole = "manager"
	SystemRoleAgent   SystemRole = "agent"
)

var validSystemRoles = []SystemRole{
	SystemRoleAdmin,
	SystemRoleManager,
	SystemRoleAgent,
}

// String implements fmt.Stringer.
func (r SystemRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known SystemRole.
func (r SystemRole) IsValid() bool {
	for _, candidate := range validSystemRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the role bypasses per-lead visibility and
// capability checks.
func (r SystemRole) IsAdmin() bool {
	return r == SystemRoleAdmin
}

// ParseSystemRole converts raw input into a SystemRole.
func ParseSystemRole(value string) (SystemRole, error) {
	for _, candidate := range validSystemRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid system role %q", value)
}
