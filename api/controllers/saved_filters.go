package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/leadflow-backend/api/middleware"
	"github.com/angelmondragon/leadflow-backend/api/responses"
	"github.com/angelmondragon/leadflow-backend/api/validators"
	"github.com/angelmondragon/leadflow-backend/internal/savedfilters"
	"github.com/angelmondragon/leadflow-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/leadflow-backend/pkg/errors"
	"github.com/angelmondragon/leadflow-backend/pkg/logger"
)

type createSavedFilterRequest struct {
	Name       string   `json:"name" validate:"required"`
	IsGlobal   bool     `json:"is_global"`
	Stages     []string `json:"stages"`
	Sources    []string `json:"sources"`
	AssignedTo []string `json:"assigned_to"`
}

type updateSavedFilterRequest struct {
	Name       *string  `json:"name"`
	IsGlobal   *bool    `json:"is_global"`
	Stages     []string `json:"stages"`
	Sources    []string `json:"sources"`
	AssignedTo []string `json:"assigned_to"`
}

func viewerFromRequest(r *http.Request) savedfilters.Viewer {
	role := middleware.RoleFromContext(r.Context())
	return savedfilters.Viewer{
		Email:   middleware.UserEmailFromContext(r.Context()),
		IsAdmin: enums.SystemRole(role).IsAdmin(),
	}
}

func parseFilterID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "filterId")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "filter id must be a UUID").WithDetails(map[string]any{"filter_id": raw})
	}
	return id, nil
}

func SavedFiltersList(svc *savedfilters.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters, err := svc.List(r.Context(), viewerFromRequest(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"filters": filters})
	}
}

func SavedFiltersCreate(svc *savedfilters.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createSavedFilterRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter, err := svc.Create(r.Context(), viewerFromRequest(r), savedfilters.CreateInput{
			Name:       body.Name,
			IsGlobal:   body.IsGlobal,
			Stages:     body.Stages,
			Sources:    body.Sources,
			AssignedTo: body.AssignedTo,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, filter)
	}
}

func SavedFiltersUpdate(svc *savedfilters.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseFilterID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateSavedFilterRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter, err := svc.Update(r.Context(), viewerFromRequest(r), id, savedfilters.UpdateInput{
			Name:       body.Name,
			IsGlobal:   body.IsGlobal,
			Stages:     body.Stages,
			Sources:    body.Sources,
			AssignedTo: body.AssignedTo,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, filter)
	}
}

func SavedFiltersDelete(svc *savedfilters.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseFilterID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), viewerFromRequest(r), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
