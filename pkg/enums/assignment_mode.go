package enums

import "fmt"

// AssignmentMode selects which ownership slice of the lead list is visible.
type AssignmentMode string

const (
	AssignmentModeAll        AssignmentMode = "all"
	AssignmentModeMyLeads    AssignmentMode = "my_leads"
	AssignmentModeAssigned   AssignmentMode = "assigned"
	AssignmentModeUnassigned AssignmentMode = "unassigned"
)

var validAssignmentModes = []AssignmentMode{
	AssignmentModeAll,
	AssignmentModeMyLeads,
	AssignmentModeAssigned,
	AssignmentModeUnassigned,
}

// String implements fmt.Stringer.
func (m AssignmentMode) String() string {
	return string(m)
}

// IsValid reports whether the value is a known AssignmentMode.
func (m AssignmentMode) IsValid() bool {
	for _, candidate := range validAssignmentModes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseAssignmentMode converts raw input into an AssignmentMode.
func ParseAssignmentMode(value string) (AssignmentMode, error) {
	for _, candidate := range validAssignmentModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid assignment mode %q", value)
}
