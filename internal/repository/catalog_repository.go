package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/memoria-app/memoria-backend/internal/models"
	"github.com/memoria-app/memoria-backend/internal/pkg/apperror"
	"github.com/memoria-app/memoria-backend/internal/repository/common"
)

// CatalogRepository handles the read-only reference data orders point at:
// cemeteries and service categories.
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository creates a new instance.
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ListCemeteries returns all cemeteries ordered by city.
func (r *CatalogRepository) ListCemeteries(ctx context.Context) ([]models.Cemetery, error) {
	var cemeteries []models.Cemetery
	query := `SELECT * FROM cemeteries ORDER BY city, name`
	if err := r.db.SelectContext(ctx, &cemeteries, query); err != nil {
		return nil, fmt.Errorf("catalog repository: list cemeteries: %w", err)
	}
	return cemeteries, nil
}

// GetCemetery returns a cemetery by identifier.
func (r *CatalogRepository) GetCemetery(ctx context.Context, id uuid.UUID) (*models.Cemetery, error) {
	return common.GetByID[models.Cemetery](ctx, r.db, "cemeteries", id, apperror.ErrCemeteryNotFound)
}

// ListServiceCategories returns all service categories ordered by name.
func (r *CatalogRepository) ListServiceCategories(ctx context.Context) ([]models.ServiceCategory, error) {
	var categories []models.ServiceCategory
	query := `SELECT * FROM service_categories ORDER BY name`
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("catalog repository: list service categories: %w", err)
	}
	return categories, nil
}

// GetServiceCategory returns a service category by identifier.
func (r *CatalogRepository) GetServiceCategory(ctx context.Context, id uuid.UUID) (*models.ServiceCategory, error) {
	return common.GetByID[models.ServiceCategory](ctx, r.db, "service_categories", id, apperror.ErrCategoryNotFound)
}
