package savedfilters

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/angelmondragon/leadflow-backend/pkg/db/models"
	"github.com/angelmondragon/leadflow-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/leadflow-backend/pkg/errors"
	"github.com/angelmondragon/leadflow-backend/pkg/logger"
)

// Viewer identifies the user reading or mutating saved filters.
type Viewer struct {
	Email   string
	IsAdmin bool
}

// FilterDTO is the saved filter payload returned to clients.
type FilterDTO struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	OwnerEmail string    `json:"owner_email"`
	IsGlobal   bool      `json:"is_global"`
	Stages     []string  `json:"stages"`
	Sources    []string  `json:"sources"`
	AssignedTo []string  `json:"assigned_to"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateInput carries a new preset. Only admins may set IsGlobal.
type CreateInput struct {
	Name       string
	IsGlobal   bool
	Stages     []string
	Sources    []string
	AssignedTo []string
}

// UpdateInput carries preset changes. Nil fields are left untouched.
type UpdateInput struct {
	Name       *string
	IsGlobal   *bool
	Stages     []string
	Sources    []string
	AssignedTo []string
}

// Service manages saved filter presets. Everyone sees global presets plus
// their own; only the owner or an admin may change or remove one.
type Service struct {
	repo Repository
	logg *logger.Logger
}

// NewService builds the saved filter service.
func NewService(repo Repository, logg *logger.Logger) *Service {
	return &Service{repo: repo, logg: logg}
}

// List returns the presets visible to the viewer, oldest first.
func (s *Service) List(ctx context.Context, viewer Viewer) ([]FilterDTO, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]FilterDTO, 0, len(rows))
	for _, row := range rows {
		if viewer.IsAdmin || row.VisibleTo(viewer.Email) {
			out = append(out, toDTO(row))
		}
	}
	return out, nil
}

// Create stores a new preset owned by the viewer.
func (s *Service) Create(ctx context.Context, viewer Viewer, input CreateInput) (*FilterDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "filter name is required")
	}
	if input.IsGlobal && !viewer.IsAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins may create global filters")
	}
	if err := validateCriteria(input.Stages, input.Sources); err != nil {
		return nil, err
	}

	filter := &models.SavedFilter{
		ID:         uuid.New(),
		Name:       name,
		OwnerEmail: normalizeEmail(viewer.Email),
		IsGlobal:   input.IsGlobal,
		Stages:     pq.StringArray(emptyIfNil(input.Stages)),
		Sources:    pq.StringArray(emptyIfNil(input.Sources)),
		AssignedTo: pq.StringArray(emptyIfNil(input.AssignedTo)),
	}
	if err := s.repo.Create(ctx, filter); err != nil {
		return nil, err
	}

	s.logFilter(ctx, viewer, filter, "saved filter created")

	dto := toDTO(*filter)
	return &dto, nil
}

// Update applies changes to a preset the viewer owns (or any preset for an
// admin).
func (s *Service) Update(ctx context.Context, viewer Viewer, id uuid.UUID, input UpdateInput) (*FilterDTO, error) {
	filter, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireOwnership(viewer, *filter); err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "filter name is required")
		}
		filter.Name = name
	}
	if input.IsGlobal != nil {
		if *input.IsGlobal != filter.IsGlobal && !viewer.IsAdmin {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins may change global visibility")
		}
		filter.IsGlobal = *input.IsGlobal
	}
	if input.Stages != nil {
		filter.Stages = pq.StringArray(input.Stages)
	}
	if input.Sources != nil {
		filter.Sources = pq.StringArray(input.Sources)
	}
	if input.AssignedTo != nil {
		filter.AssignedTo = pq.StringArray(input.AssignedTo)
	}
	if err := validateCriteria(filter.Stages, filter.Sources); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, filter); err != nil {
		return nil, err
	}
	dto := toDTO(*filter)
	return &dto, nil
}

// Delete removes a preset the viewer owns (or any preset for an admin).
func (s *Service) Delete(ctx context.Context, viewer Viewer, id uuid.UUID) error {
	filter, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := requireOwnership(viewer, *filter); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logFilter(ctx, viewer, filter, "saved filter deleted")
	return nil
}

func (s *Service) logFilter(ctx context.Context, viewer Viewer, filter *models.SavedFilter, msg string) {
	if s.logg == nil {
		return
	}
	logCtx := s.logg.WithUserEmail(ctx, viewer.Email)
	logCtx = s.logg.WithField(logCtx, "filter_id", filter.ID.String())
	s.logg.Info(logCtx, msg)
}

func requireOwnership(viewer Viewer, filter models.SavedFilter) error {
	if viewer.IsAdmin {
		return nil
	}
	if strings.EqualFold(strings.TrimSpace(filter.OwnerEmail), strings.TrimSpace(viewer.Email)) {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "filter belongs to another user")
}

func validateCriteria(stages, sources []string) error {
	for _, stage := range stages {
		if _, err := enums.ParseLeadStatus(stage); err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "unknown stage: "+stage)
		}
	}
	for _, source := range sources {
		if _, err := enums.ParseLeadSource(source); err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "unknown source: "+source)
		}
	}
	return nil
}

func toDTO(filter models.SavedFilter) FilterDTO {
	return FilterDTO{
		ID:         filter.ID,
		Name:       filter.Name,
		OwnerEmail: filter.OwnerEmail,
		IsGlobal:   filter.IsGlobal,
		Stages:     emptyIfNil(filter.Stages),
		Sources:    emptyIfNil(filter.Sources),
		AssignedTo: emptyIfNil(filter.AssignedTo),
		CreatedAt:  filter.CreatedAt,
		UpdatedAt:  filter.UpdatedAt,
	}
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
