package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/leadflow-backend/api/middleware"
	"github.com/angelmondragon/leadflow-backend/api/responses"
	"github.com/angelmondragon/leadflow-backend/api/validators"
	"github.com/angelmondragon/leadflow-backend/internal/leads"
	pkgerrors "github.com/angelmondragon/leadflow-backend/pkg/errors"
	"github.com/angelmondragon/leadflow-backend/pkg/logger"
)

// maxBulkLeads caps a single bulk request so one call cannot hold the worker
// pool for minutes.
const maxBulkLeads = 500

type bulkLeadsRequest struct {
	LeadIDs []string `json:"lead_ids" validate:"required,min=1"`
}

type bulkAssignRequest struct {
	LeadIDs  []string `json:"lead_ids" validate:"required,min=1"`
	Assignee string   `json:"assignee" validate:"required,email"`
}

func parseBulkIDs(raw []string) ([]uuid.UUID, error) {
	if len(raw) > maxBulkLeads {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "too many leads in one request").WithDetails(map[string]any{"max": maxBulkLeads, "requested": len(raw)})
	}
	ids := make([]uuid.UUID, 0, len(raw))
	for _, value := range raw {
		id, err := uuid.Parse(value)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "lead ids must be UUIDs").WithDetails(map[string]any{"lead_id": value})
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// LeadsBulkMarkContacted stamps contact status and last-contact date across
// the selection.
func LeadsBulkMarkContacted(svc leads.Service, logg *logger.Logger) http.HandlerFunc {
	return bulkHandler(logg, func(r *http.Request, ids []uuid.UUID) (*leads.BulkActionResult, error) {
		return svc.MarkContactedBulk(r.Context(), middleware.ActorFromContext(r.Context()), ids)
	})
}

// LeadsBulkAssign hands the selection to one agent.
func LeadsBulkAssign(svc leads.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body bulkAssignRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ids, err := parseBulkIDs(body.LeadIDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.AssignBulk(r.Context(), middleware.ActorFromContext(r.Context()), ids, body.Assignee)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// LeadsBulkUnassign returns the selection to the unassigned pool.
func LeadsBulkUnassign(svc leads.Service, logg *logger.Logger) http.HandlerFunc {
	return bulkHandler(logg, func(r *http.Request, ids []uuid.UUID) (*leads.BulkActionResult, error) {
		return svc.UnassignBulk(r.Context(), middleware.ActorFromContext(r.Context()), ids)
	})
}

// LeadsBulkDelete removes the selection.
func LeadsBulkDelete(svc leads.Service, logg *logger.Logger) http.HandlerFunc {
	return bulkHandler(logg, func(r *http.Request, ids []uuid.UUID) (*leads.BulkActionResult, error) {
		return svc.DeleteBulk(r.Context(), middleware.ActorFromContext(r.Context()), ids)
	})
}

func bulkHandler(logg *logger.Logger, run func(*http.Request, []uuid.UUID) (*leads.BulkActionResult, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body bulkLeadsRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ids, err := parseBulkIDs(body.LeadIDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := run(r, ids)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
