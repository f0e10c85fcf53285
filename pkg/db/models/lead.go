package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/leadflow-backend/pkg/enums"
)

// Lead represents a sales prospect moving through the pipeline.
type Lead struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	LeadName      string              `gorm:"column:lead_name;not null"`
	Phone         *string             `gorm:"column:phone"`
	Email         *string             `gorm:"column:email"`
	Status        enums.LeadStatus    `gorm:"column:status;type:lead_status;not null;default:'new'"`
	ContactStatus enums.ContactStatus `gorm:"column:contact_status;type:contact_status;not null;default:'not_contacted'"`
	Source        enums.LeadSource    `gorm:"column:source;type:lead_source;not null"`
	AssignedTo    *string             `gorm:"column:assigned_to"`
	Notes         *string             `gorm:"column:notes"`

	FBPageID      *string    `gorm:"column:fb_page_id"`
	FBFormID      *string    `gorm:"column:fb_form_id"`
	FBCreatedTime *time.Time `gorm:"column:fb_created_time"`

	NextFollowUp    *time.Time       `gorm:"column:next_follow_up"`
	LastContactDate *time.Time       `gorm:"column:last_contact_date"`
	IsCold          bool             `gorm:"column:is_cold;not null;default:false"`
	Location        *string          `gorm:"column:location"`
	Budget          *decimal.Decimal `gorm:"column:budget;type:numeric(14,2)"`
	Requirements    *string          `gorm:"column:requirements"`
	Timeline        *string          `gorm:"column:timeline"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// EffectiveCreatedAt returns the facebook creation time when present, else the
// row creation time. Date filters resolve against this value.
func (l Lead) EffectiveCreatedAt() time.Time {
	if l.FBCreatedTime != nil && !l.FBCreatedTime.IsZero() {
		return *l.FBCreatedTime
	}
	return l.CreatedAt
}

// IsAssignedTo reports ownership by email, case-insensitively and trimmed.
func (l Lead) IsAssignedTo(email string) bool {
	if l.AssignedTo == nil {
		return false
	}
	return equalEmailFold(*l.AssignedTo, email)
}
