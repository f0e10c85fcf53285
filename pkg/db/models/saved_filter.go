package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// SavedFilter is a persisted named combination of advanced filter criteria.
// Global filters are visible to every user; otherwise only to the owner.
type SavedFilter struct {
	ID         uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name       string         `gorm:"column:name;not null"`
	OwnerEmail string         `gorm:"column:owner_email;not null;index"`
	IsGlobal   bool           `gorm:"column:is_global;not null;default:false"`
	Stages     pq.StringArray `gorm:"column:stages;type:text[];not null;default:ARRAY[]::text[]"`
	Sources    pq.StringArray `gorm:"column:sources;type:text[];not null;default:ARRAY[]::text[]"`
	AssignedTo pq.StringArray `gorm:"column:assigned_to;type:text[];not null;default:ARRAY[]::text[]"`
	CreatedAt  time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// VisibleTo reports whether the filter is offered to the given user.
func (f SavedFilter) VisibleTo(email string) bool {
	return f.IsGlobal || equalEmailFold(f.OwnerEmail, email)
}
