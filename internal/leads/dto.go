package leads

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/leadflow-backend/pkg/db/models"
	"github.com/angelmondragon/leadflow-backend/pkg/enums"
	"github.com/angelmondragon/leadflow-backend/pkg/pagination"
)

// Actor identifies the authenticated user a service call runs as.
type Actor struct {
	Email        string
	Role         enums.SystemRole
	Capabilities []string
}

// IsAdmin reports whether the actor bypasses visibility and capability gates.
func (a Actor) IsAdmin() bool {
	return a.Role.IsAdmin()
}

// HasCapability reports whether the actor holds the capability explicitly or
// through the admin role.
func (a Actor) HasCapability(capability enums.Capability) bool {
	if a.IsAdmin() {
		return true
	}
	for _, held := range a.Capabilities {
		if held == string(capability) {
			return true
		}
	}
	return false
}

// LeadDTO is the lead payload returned to clients.
type LeadDTO struct {
	ID              uuid.UUID        `json:"id"`
	Name            string           `json:"name"`
	Phone           *string          `json:"phone,omitempty"`
	Email           *string          `json:"email,omitempty"`
	Status          string           `json:"status"`
	StatusLabel     string           `json:"status_label"`
	ContactStatus   string           `json:"contact_status"`
	Source          string           `json:"source"`
	AssignedTo      *string          `json:"assigned_to,omitempty"`
	Notes           *string          `json:"notes,omitempty"`
	FormName        string           `json:"form_name"`
	FBPageID        *string          `json:"fb_page_id,omitempty"`
	FBFormID        *string          `json:"fb_form_id,omitempty"`
	NextFollowUp    *time.Time       `json:"next_follow_up,omitempty"`
	LastContactDate *time.Time       `json:"last_contact_date,omitempty"`
	IsCold          bool             `json:"is_cold"`
	Location        *string          `json:"location,omitempty"`
	Budget          *decimal.Decimal `json:"budget,omitempty"`
	Requirements    *string          `json:"requirements,omitempty"`
	Timeline        *string          `json:"timeline,omitempty"`
	CreatedDate     time.Time        `json:"created_date"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

func toLeadDTO(lead models.Lead) LeadDTO {
	return LeadDTO{
		ID:              lead.ID,
		Name:            lead.LeadName,
		Phone:           lead.Phone,
		Email:           lead.Email,
		Status:          string(lead.Status),
		StatusLabel:     lead.Status.Label(),
		ContactStatus:   string(lead.ContactStatus),
		Source:          string(lead.Source),
		AssignedTo:      lead.AssignedTo,
		Notes:           lead.Notes,
		FormName:        DeriveFormName(lead.Notes),
		FBPageID:        lead.FBPageID,
		FBFormID:        lead.FBFormID,
		NextFollowUp:    lead.NextFollowUp,
		LastContactDate: lead.LastContactDate,
		IsCold:          lead.IsCold,
		Location:        lead.Location,
		Budget:          lead.Budget,
		Requirements:    lead.Requirements,
		Timeline:        lead.Timeline,
		CreatedDate:     lead.EffectiveCreatedAt(),
		UpdatedAt:       lead.UpdatedAt,
	}
}

// ListLeadsInput carries the full list surface: filters, sort, pagination.
type ListLeadsInput struct {
	Filter     FilterContext
	SortBy     string
	SortDir    SortDirection
	Pagination pagination.Params
}

// ListLeadsResult is one page of the filtered+sorted collection plus the
// metadata the table needs.
type ListLeadsResult struct {
	Leads      []LeadDTO `json:"leads"`
	Total      int       `json:"total"`
	TotalPages int       `json:"total_pages"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	FormNames  []string  `json:"form_names"`
}

// CreateLeadInput holds the validated payload to create a lead.
type CreateLeadInput struct {
	Name          string
	Phone         *string
	Email         *string
	Status        enums.LeadStatus
	ContactStatus enums.ContactStatus
	Source        enums.LeadSource
	AssignedTo    *string
	Notes         *string
	NextFollowUp  *time.Time
	Location      *string
	Budget        *decimal.Decimal
	Requirements  *string
	Timeline      *string
}

// UpdateLeadInput holds optional mutation values for a lead.
type UpdateLeadInput struct {
	Name          *string
	Phone         *string
	Email         *string
	Status        *enums.LeadStatus
	ContactStatus *enums.ContactStatus
	Source        *enums.LeadSource
	AssignedTo    *string
	ClearAssignee bool
	Notes         *string
	NextFollowUp  *time.Time
	IsCold        *bool
	Location      *string
	Budget        *decimal.Decimal
	Requirements  *string
	Timeline      *string
}

// BulkActionResult is the per-item outcome summary for bulk endpoints.
type BulkActionResult struct {
	Requested int             `json:"requested"`
	Succeeded int             `json:"succeeded"`
	Skipped   int             `json:"skipped"`
	Failed    []BulkItemError `json:"failed,omitempty"`
}

// BulkItemError reports one failed lead in a bulk run.
type BulkItemError struct {
	LeadID uuid.UUID `json:"lead_id"`
	Error  string    `json:"error"`
}

func toBulkResult(requested int, batch BatchResult) *BulkActionResult {
	out := &BulkActionResult{
		Requested: requested,
		Succeeded: batch.Succeeded,
		Skipped:   batch.Skipped,
	}
	for _, item := range batch.Failed {
		out.Failed = append(out.Failed, BulkItemError{LeadID: item.ID, Error: item.Err.Error()})
	}
	return out
}
