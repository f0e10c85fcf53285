package models

import (
	"time"

	"github.com/google/uuid"
)

// FacebookPageConnection stores the credentials needed to pull lead form
// submissions from a connected page.
type FacebookPageConnection struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PageID       string     `gorm:"column:page_id;not null;uniqueIndex:ux_fb_page_form"`
	PageName     string     `gorm:"column:page_name;not null"`
	FormID       string     `gorm:"column:form_id;not null;uniqueIndex:ux_fb_page_form"`
	AccessToken  string     `gorm:"column:access_token;not null"`
	IsActive     bool       `gorm:"column:is_active;not null;default:true"`
	LastSyncedAt *time.Time `gorm:"column:last_synced_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
