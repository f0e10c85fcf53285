package savedfilters

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/leadflow-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/leadflow-backend/pkg/errors"
)

// Repository persists saved filter presets.
type Repository interface {
	ListAll(ctx context.Context) ([]models.SavedFilter, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.SavedFilter, error)
	Create(ctx context.Context, filter *models.SavedFilter) error
	Update(ctx context.Context, filter *models.SavedFilter) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository builds the GORM-backed saved filter repository.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) ListAll(ctx context.Context) ([]models.SavedFilter, error) {
	var rows []models.SavedFilter
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error
	return rows, err
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.SavedFilter, error) {
	var row models.SavedFilter
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "saved filter not found")
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *gormRepository) Create(ctx context.Context, filter *models.SavedFilter) error {
	return r.db.WithContext(ctx).Create(filter).Error
}

func (r *gormRepository) Update(ctx context.Context, filter *models.SavedFilter) error {
	result := r.db.WithContext(ctx).
		Model(&models.SavedFilter{}).
		Where("id = ?", filter.ID).
		Updates(map[string]any{
			"name":        filter.Name,
			"is_global":   filter.IsGlobal,
			"stages":      filter.Stages,
			"sources":     filter.Sources,
			"assigned_to": filter.AssignedTo,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "saved filter not found")
	}
	return nil
}

func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.SavedFilter{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "saved filter not found")
	}
	return nil
}
