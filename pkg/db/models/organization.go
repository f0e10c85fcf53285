package models

import (
	"time"

	"github.com/google/uuid"
)

// Organization holds org-wide settings. One row per deployment.
type Organization struct {
	ID               uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name             string    `gorm:"column:name;not null"`
	AutoAssignPaused bool      `gorm:"column:auto_assign_paused;not null;default:false"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
