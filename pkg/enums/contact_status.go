package enums

import "fmt"

// ContactStatus tracks the outcome of outreach attempts, independent of the
// pipeline stage.
type ContactStatus string

const (
	ContactStatusNotContacted  ContactStatus = "not_contacted"
	ContactStatusContacted     ContactStatus = "contacted"
	ContactStatusNotInterested ContactStatus = "not_interested"
	ContactStatusNotPicked     ContactStatus = "not_picked"
	ContactStatusSwitchedOff   ContactStatus = "switched_off"
	ContactStatusConnected     ContactStatus = "connected"
	ContactStatusFollowUp      ContactStatus = "follow_up"
	ContactStatusWrongNumber   ContactStatus = "wrong_number"
	ContactStatusOutOfNetwork  ContactStatus = "out_of_network"
)

var validContactStatuses = []ContactStatus{
	ContactStatusNotContacted,
	ContactStatusContacted,
	ContactStatusNotInterested,
	ContactStatusNotPicked,
	ContactStatusSwitchedOff,
	ContactStatusConnected,
	ContactStatusFollowUp,
	ContactStatusWrongNumber,
	ContactStatusOutOfNetwork,
}

// String implements fmt.Stringer.
func (s ContactStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ContactStatus.
func (s ContactStatus) IsValid() bool {
	for _, candidate := range validContactStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseContactStatus converts raw input into a ContactStatus.
func ParseContactStatus(value string) (ContactStatus, error) {
	for _, candidate := range validContactStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid contact status %q", value)
}
