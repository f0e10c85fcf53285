package activities

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/leadflow-backend/pkg/db/models"
	"github.com/angelmondragon/leadflow-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/leadflow-backend/pkg/errors"
)

// DefaultListLimit bounds the activity feed returned per lead.
const DefaultListLimit = 50

// ActivityDTO is the activity payload returned to clients.
type ActivityDTO struct {
	ID         uuid.UUID `json:"id"`
	LeadID     uuid.UUID `json:"lead_id"`
	Type       string    `json:"type"`
	Message    string    `json:"message"`
	ActorEmail string    `json:"actor_email"`
	CreatedAt  time.Time `json:"created_at"`
}

// Service records and lists lead activity log entries. The log is
// append-only; entries are never edited.
type Service struct {
	repo Repository
}

// NewService builds the activity service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// RecordTx appends an activity inside the caller's transaction so the log
// entry commits with the mutation it describes.
func (s *Service) RecordTx(tx *gorm.DB, leadID uuid.UUID, activityType enums.ActivityType, message, actorEmail string) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "transaction required")
	}
	if !activityType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid activity type")
	}
	if strings.TrimSpace(message) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "activity message is required")
	}
	return s.repo.InsertTx(tx, &models.LeadActivity{
		ID:         uuid.New(),
		LeadID:     leadID,
		Type:       activityType,
		Message:    message,
		ActorEmail: strings.ToLower(strings.TrimSpace(actorEmail)),
	})
}

// ListByLead returns the most recent entries for a lead, newest first.
func (s *Service) ListByLead(ctx context.Context, leadID uuid.UUID, limit int) ([]ActivityDTO, error) {
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}
	rows, err := s.repo.ListByLead(ctx, leadID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]ActivityDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, ActivityDTO{
			ID:         row.ID,
			LeadID:     row.LeadID,
			Type:       string(row.Type),
			Message:    row.Message,
			ActorEmail: row.ActorEmail,
			CreatedAt:  row.CreatedAt,
		})
	}
	return out, nil
}
