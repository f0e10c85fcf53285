package organizations

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/angelmondragon/leadflow-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/leadflow-backend/pkg/errors"
	"github.com/angelmondragon/leadflow-backend/pkg/logger"
)

// Service reads and updates the single organization row. The row is
// expected to exist; deployments seed it via migration or first boot.
type Service struct {
	db   *gorm.DB
	logg *logger.Logger
}

// NewService builds the organization service.
func NewService(db *gorm.DB, logg *logger.Logger) *Service {
	return &Service{db: db, logg: logg}
}

// Get returns the organization settings row.
func (s *Service) Get(ctx context.Context) (*models.Organization, error) {
	var org models.Organization
	err := s.db.WithContext(ctx).Order("created_at ASC").First(&org).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "organization not configured")
	}
	if err != nil {
		return nil, err
	}
	return &org, nil
}

// SetAutoAssignPaused toggles the auto-assignment pause switch.
func (s *Service) SetAutoAssignPaused(ctx context.Context, actorEmail string, paused bool) (*models.Organization, error) {
	org, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	if org.AutoAssignPaused == paused {
		return org, nil
	}

	err = s.db.WithContext(ctx).
		Model(&models.Organization{}).
		Where("id = ?", org.ID).
		Update("auto_assign_paused", paused).Error
	if err != nil {
		return nil, err
	}
	org.AutoAssignPaused = paused

	if s.logg != nil {
		logCtx := s.logg.WithUserEmail(ctx, actorEmail)
		logCtx = s.logg.WithField(logCtx, "auto_assign_paused", paused)
		s.logg.Info(logCtx, "auto-assign toggled")
	}
	return org, nil
}
