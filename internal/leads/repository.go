package leads

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/leadflow-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/leadflow-backend/pkg/errors"
)

// LeadRepository defines persistence operations for leads. The list path
// fetches wholesale; filtering, sorting and pagination run in memory so the
// predicate engine stays pure and unit-testable.
type LeadRepository interface {
	ListAll(ctx context.Context) ([]models.Lead, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Lead, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*models.Lead, error)
	Create(tx *gorm.DB, lead *models.Lead) error
	UpdateFields(tx *gorm.DB, id uuid.UUID, fields map[string]any) error
	Delete(tx *gorm.DB, id uuid.UUID) error
}

type gormLeadRepository struct {
	db *gorm.DB
}

// NewRepository builds the GORM-backed lead repository.
func NewRepository(db *gorm.DB) LeadRepository {
	return &gormLeadRepository{db: db}
}

func (r *gormLeadRepository) ListAll(ctx context.Context) ([]models.Lead, error) {
	var rows []models.Lead
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *gormLeadRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	return findLead(r.db.WithContext(ctx), id)
}

func (r *gormLeadRepository) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*models.Lead, error) {
	return findLead(tx, id)
}

func findLead(db *gorm.DB, id uuid.UUID) (*models.Lead, error) {
	var lead models.Lead
	if err := db.First(&lead, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "lead not found")
		}
		return nil, err
	}
	return &lead, nil
}

func (r *gormLeadRepository) Create(tx *gorm.DB, lead *models.Lead) error {
	return tx.Create(lead).Error
}

func (r *gormLeadRepository) UpdateFields(tx *gorm.DB, id uuid.UUID, fields map[string]any) error {
	result := tx.Model(&models.Lead{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "lead not found")
	}
	return nil
}

func (r *gormLeadRepository) Delete(tx *gorm.DB, id uuid.UUID) error {
	result := tx.Delete(&models.Lead{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "lead not found")
	}
	return nil
}
