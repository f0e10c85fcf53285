package activities

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/leadflow-backend/pkg/db/models"
)

// Repository persists and reads lead activity log entries.
type Repository interface {
	InsertTx(tx *gorm.DB, activity *models.LeadActivity) error
	ListByLead(ctx context.Context, leadID uuid.UUID, limit int) ([]models.LeadActivity, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository builds the GORM-backed activity repository.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) InsertTx(tx *gorm.DB, activity *models.LeadActivity) error {
	return tx.Create(activity).Error
}

func (r *gormRepository) ListByLead(ctx context.Context, leadID uuid.UUID, limit int) ([]models.LeadActivity, error) {
	var rows []models.LeadActivity
	q := r.db.WithContext(ctx).
		Where("lead_id = ?", leadID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&rows).Error
	return rows, err
}
