package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/leadflow-backend/api/middleware"
	"github.com/angelmondragon/leadflow-backend/api/responses"
	"github.com/angelmondragon/leadflow-backend/api/validators"
	"github.com/angelmondragon/leadflow-backend/internal/organizations"
	"github.com/angelmondragon/leadflow-backend/pkg/db/models"
	"github.com/angelmondragon/leadflow-backend/pkg/logger"
)

type organizationDTO struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	AutoAssignPaused bool      `json:"auto_assign_paused"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type autoAssignRequest struct {
	Paused *bool `json:"paused" validate:"required"`
}

func toOrganizationDTO(org *models.Organization) organizationDTO {
	return organizationDTO{
		ID:               org.ID,
		Name:             org.Name,
		AutoAssignPaused: org.AutoAssignPaused,
		UpdatedAt:        org.UpdatedAt,
	}
}

func OrganizationGet(svc *organizations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		org, err := svc.Get(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toOrganizationDTO(org))
	}
}

// OrganizationAutoAssign pauses or resumes round-robin auto assignment.
// Admin gating happens in the route middleware.
func OrganizationAutoAssign(svc *organizations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body autoAssignRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := middleware.UserEmailFromContext(r.Context())
		org, err := svc.SetAutoAssignPaused(r.Context(), actor, *body.Paused)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toOrganizationDTO(org))
	}
}
