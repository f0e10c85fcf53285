package enums

import "fmt"

// ActivityType classifies entries in a lead's activity log.
type ActivityType string

const (
	ActivityTypeCreation     ActivityType = "creation"
	ActivityTypeStageChange  ActivityType = "stage_change"
	ActivityTypeStatusChange ActivityType = "status_change"
	ActivityTypeAssignment   ActivityType = "assignment"
	ActivityTypeNote         ActivityType = "note"
	ActivityTypeDeletion     ActivityType = "deletion"
)

var validActivityTypes = []ActivityType{
	ActivityTypeCreation,
	ActivityTypeStageChange,
	ActivityTypeStatusChange,
	ActivityTypeAssignment,
	ActivityTypeNote,
	ActivityTypeDeletion,
}

// String implements fmt.Stringer.
func (t ActivityType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known ActivityType.
func (t ActivityType) IsValid() bool {
	for _, candidate := range validActivityTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseActivityType converts raw input into an ActivityType.
func ParseActivityType(value string) (ActivityType, error) {
	for _, candidate := range validActivityTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid activity type %q", value)
}
