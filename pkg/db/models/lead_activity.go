package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/leadflow-backend/pkg/enums"
)

// LeadActivity is an append-only log entry describing a change to a lead.
type LeadActivity struct {
	ID         uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	LeadID     uuid.UUID          `gorm:"column:lead_id;type:uuid;not null;index"`
	Type       enums.ActivityType `gorm:"column:type;type:activity_type;not null"`
	Message    string             `gorm:"column:message;not null"`
	ActorEmail string             `gorm:"column:actor_email;not null"`
	CreatedAt  time.Time          `gorm:"column:created_at;autoCreateTime"`
}
