package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/angelmondragon/leadflow-backend/pkg/enums"
)

// User represents a team member who works leads.
type User struct {
	ID           uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string           `gorm:"column:email;type:text;not null;uniqueIndex"`
	PasswordHash string           `gorm:"column:password_hash;not null"`
	FullName     string           `gorm:"column:full_name;not null"`
	DepartmentID *uuid.UUID       `gorm:"column:department_id;type:uuid"`
	Role         enums.SystemRole `gorm:"column:role;type:system_role;not null;default:'agent'"`
	Capabilities pq.StringArray   `gorm:"column:capabilities;type:text[];not null;default:ARRAY[]::text[]"`
	IsActive     bool             `gorm:"column:is_active;not null;default:true"`
	LastLoginAt  *time.Time       `gorm:"column:last_login_at"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// IsAdmin reports whether the user bypasses lead visibility and capability
// gates.
func (u User) IsAdmin() bool {
	return u.Role.IsAdmin()
}

// HasCapability reports whether the user holds the capability explicitly or
// through the admin role.
func (u User) HasCapability(capability enums.Capability) bool {
	if u.IsAdmin() {
		return true
	}
	for _, held := range u.Capabilities {
		if held == string(capability) {
			return true
		}
	}
	return false
}

// HasAnyCapability reports whether at least one of the capabilities is held.
func (u User) HasAnyCapability(capabilities ...enums.Capability) bool {
	for _, capability := range capabilities {
		if u.HasCapability(capability) {
			return true
		}
	}
	return false
}

func equalEmailFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
