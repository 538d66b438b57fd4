package bundles

import (
	"context"

	"github.com/merchkit/bxgy-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes persistence operations for bundle rows.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts the bundle row.
func (r *Repository) Create(ctx context.Context, bundle *models.Bundle) (*models.Bundle, error) {
	if err := r.db.WithContext(ctx).Create(bundle).Error; err != nil {
		return nil, err
	}
	return bundle, nil
}

// FindByID loads a single bundle row.
func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Bundle, error) {
	var bundle models.Bundle
	if err := r.db.WithContext(ctx).First(&bundle, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &bundle, nil
}

// FindAll returns every bundle row, newest first.
func (r *Repository) FindAll(ctx context.Context) ([]models.Bundle, error) {
	var rows []models.Bundle
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Delete removes the bundle row.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Bundle{}, "id = ?", id).Error
}
