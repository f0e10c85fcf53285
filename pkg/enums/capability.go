package enums

import "fmt"

// Capability grants a non-admin user a specific operation on the leads
// resource. Admins implicitly hold every capability.
type Capability string

const (
	CapabilityAssignLeads Capability = "leads.assign"
	CapabilityDeleteLeads Capability = "leads.delete"
	CapabilityUpdateLeads Capability = "leads.update"
)

var validCapabilities = []Capability{
	CapabilityAssignLeads,
	CapabilityDeleteLeads,
	CapabilityUpdateLeads,
}

// String implements fmt.Stringer.
func (c Capability) String() string {
	return string(c)
}

// IsValid reports whether the value is a known Capability.
func (c Capability) IsValid() bool {
	for _, candidate := range validCapabilities {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCapability converts raw input into a Capability.
func ParseCapability(value string) (Capability, error) {
	for _, candidate := range validCapabilities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid capability %q", value)
}
