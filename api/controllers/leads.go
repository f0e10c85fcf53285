package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/leadflow-backend/api/middleware"
	"github.com/angelmondragon/leadflow-backend/api/responses"
	"github.com/angelmondragon/leadflow-backend/api/validators"
	"github.com/angelmondragon/leadflow-backend/internal/activities"
	"github.com/angelmondragon/leadflow-backend/internal/leads"
	"github.com/angelmondragon/leadflow-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/leadflow-backend/pkg/errors"
	"github.com/angelmondragon/leadflow-backend/pkg/logger"
	"github.com/angelmondragon/leadflow-backend/pkg/pagination"
)

type createLeadRequest struct {
	Name          string           `json:"name" validate:"required"`
	Phone         *string          `json:"phone"`
	Email         *string          `json:"email" validate:"omitempty,email"`
	Status        string           `json:"status"`
	ContactStatus string           `json:"contact_status"`
	Source        string           `json:"source" validate:"required"`
	AssignedTo    *string          `json:"assigned_to"`
	Notes         *string          `json:"notes"`
	NextFollowUp  *time.Time       `json:"next_follow_up"`
	Location      *string          `json:"location"`
	Budget        *decimal.Decimal `json:"budget"`
	Requirements  *string          `json:"requirements"`
	Timeline      *string          `json:"timeline"`
}

type updateLeadRequest struct {
	Name          *string          `json:"name"`
	Phone         *string          `json:"phone"`
	Email         *string          `json:"email" validate:"omitempty,email"`
	Status        *string          `json:"status"`
	ContactStatus *string          `json:"contact_status"`
	Source        *string          `json:"source"`
	AssignedTo    *string          `json:"assigned_to"`
	Notes         *string          `json:"notes"`
	NextFollowUp  *time.Time       `json:"next_follow_up"`
	IsCold        *bool            `json:"is_cold"`
	Location      *string          `json:"location"`
	Budget        *decimal.Decimal `json:"budget"`
	Requirements  *string          `json:"requirements"`
	Timeline      *string          `json:"timeline"`
}

// parseLeadID reads the {leadId} URL parameter.
func parseLeadID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "leadId")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "lead id must be a UUID").WithDetails(map[string]any{"lead_id": raw})
	}
	return id, nil
}

// parseListInput maps the list/export query surface onto the service input.
// Enum-valued params reject unknown values instead of silently matching
// nothing.
func parseListInput(r *http.Request) (leads.ListLeadsInput, error) {
	var input leads.ListLeadsInput
	q := r.URL.Query()

	input.Filter.Query = q.Get("q")
	input.Filter.Status = q.Get("stage")
	input.Filter.Source = q.Get("source")
	input.Filter.ContactStatus = q.Get("contact_status")
	input.Filter.Member = q.Get("member")
	input.Filter.FBPage = q.Get("fb_page")
	input.Filter.FBForm = q.Get("fb_form")
	input.Filter.FormName = q.Get("form_name")
	input.Filter.Stages = validators.ParseQueryList(r, "stages")
	input.Filter.Sources = validators.ParseQueryList(r, "sources")
	input.Filter.AssignedTo = validators.ParseQueryList(r, "assigned")

	if raw := q.Get("assignment"); raw != "" {
		mode, err := enums.ParseAssignmentMode(raw)
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid assignment filter")
		}
		input.Filter.Assignment = mode
	}
	if raw := q.Get("date_filter"); raw != "" {
		dateRange, err := enums.ParseDateRange(raw)
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid date filter")
		}
		input.Filter.DateFilter = dateRange
	}
	from, err := validators.ParseQueryDate(r, "date_from")
	if err != nil {
		return input, err
	}
	to, err := validators.ParseQueryDate(r, "date_to")
	if err != nil {
		return input, err
	}
	input.Filter.DateFrom = from
	input.Filter.DateTo = to

	input.SortBy = q.Get("sort_by")
	if input.SortBy == "" {
		input.SortBy = leads.SortByCreatedDate
	}
	switch dir := q.Get("sort_dir"); dir {
	case "", string(leads.SortDesc):
		input.SortDir = leads.SortDesc
	case string(leads.SortAsc):
		input.SortDir = leads.SortAsc
	default:
		return input, pkgerrors.New(pkgerrors.CodeValidation, "sort_dir must be asc or desc")
	}

	page, err := validators.ParseQueryInt(r, "page", 1, 1, 1_000_000)
	if err != nil {
		return input, err
	}
	size, err := validators.ParseQueryInt(r, "page_size", pagination.DefaultSize, 1, pagination.MaxSize)
	if err != nil {
		return input, err
	}
	input.Pagination = pagination.Params{Page: page, Size: pagination.NormalizeSize(size)}
	return input, nil
}

// LeadsList serves the filtered, sorted, paginated lead table.
func LeadsList(svc leads.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := parseListInput(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), middleware.ActorFromContext(r.Context()), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func LeadsGet(svc leads.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseLeadID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lead, err := svc.Get(r.Context(), middleware.ActorFromContext(r.Context()), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, lead)
	}
}

func LeadsCreate(svc leads.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createLeadRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := body.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lead, err := svc.Create(r.Context(), middleware.ActorFromContext(r.Context()), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, lead)
	}
}

func LeadsUpdate(svc leads.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseLeadID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateLeadRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := body.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lead, err := svc.Update(r.Context(), middleware.ActorFromContext(r.Context()), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, lead)
	}
}

func LeadsDelete(svc leads.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseLeadID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), middleware.ActorFromContext(r.Context()), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// LeadActivities lists the activity timeline for one lead. Visibility runs
// through the lead service so agents cannot read timelines of leads they
// cannot see.
func LeadActivities(leadSvc leads.Service, activitySvc *activities.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseLeadID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if _, err := leadSvc.Get(r.Context(), middleware.ActorFromContext(r.Context()), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", activities.DefaultListLimit, 1, activities.DefaultListLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := activitySvc.ListByLead(r.Context(), id, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"activities": items})
	}
}

func (req createLeadRequest) toInput() (leads.CreateLeadInput, error) {
	input := leads.CreateLeadInput{
		Name:         req.Name,
		Phone:        req.Phone,
		Email:        req.Email,
		AssignedTo:   req.AssignedTo,
		Notes:        req.Notes,
		NextFollowUp: req.NextFollowUp,
		Location:     req.Location,
		Budget:       req.Budget,
		Requirements: req.Requirements,
		Timeline:     req.Timeline,
	}

	source, err := enums.ParseLeadSource(req.Source)
	if err != nil {
		return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid source")
	}
	input.Source = source

	if req.Status != "" {
		status, err := enums.ParseLeadStatus(req.Status)
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
		input.Status = status
	}
	if req.ContactStatus != "" {
		contactStatus, err := enums.ParseContactStatus(req.ContactStatus)
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid contact status")
		}
		input.ContactStatus = contactStatus
	}
	return input, nil
}

func (req updateLeadRequest) toInput() (leads.UpdateLeadInput, error) {
	input := leads.UpdateLeadInput{
		Name:         req.Name,
		Phone:        req.Phone,
		Email:        req.Email,
		Notes:        req.Notes,
		NextFollowUp: req.NextFollowUp,
		IsCold:       req.IsCold,
		Location:     req.Location,
		Budget:       req.Budget,
		Requirements: req.Requirements,
		Timeline:     req.Timeline,
	}

	// An explicit empty assigned_to clears the assignee; absence leaves it
	// untouched.
	if req.AssignedTo != nil {
		if *req.AssignedTo == "" {
			input.ClearAssignee = true
		} else {
			input.AssignedTo = req.AssignedTo
		}
	}

	if req.Status != nil {
		status, err := enums.ParseLeadStatus(*req.Status)
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
		input.Status = &status
	}
	if req.ContactStatus != nil {
		contactStatus, err := enums.ParseContactStatus(*req.ContactStatus)
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid contact status")
		}
		input.ContactStatus = &contactStatus
	}
	if req.Source != nil {
		source, err := enums.ParseLeadSource(*req.Source)
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid source")
		}
		input.Source = &source
	}
	return input, nil
}
