package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/memoria-app/memoria-backend/internal/models"
)

// PhotoRepository handles the photos table.
type PhotoRepository struct {
	db *sqlx.DB
}

// NewPhotoRepository creates a new instance.
func NewPhotoRepository(db *sqlx.DB) *PhotoRepository {
	return &PhotoRepository{db: db}
}

// Create inserts a photo record.
func (r *PhotoRepository) Create(ctx context.Context, photo *models.Photo) error {
	query := `
		INSERT INTO photos (order_id, kind, url, storage_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, uploaded_at
	`
	err := r.db.QueryRowxContext(
		ctx,
		query,
		photo.OrderID,
		photo.Kind,
		photo.URL,
		photo.StorageID,
	).Scan(&photo.ID, &photo.UploadedAt)
	if err != nil {
		return fmt.Errorf("photo repository: insert: %w", err)
	}
	return nil
}

// ListByOrder returns the photos of an order, newest first.
func (r *PhotoRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Photo, error) {
	var photos []models.Photo
	query := `SELECT * FROM photos WHERE order_id = $1 ORDER BY uploaded_at DESC`
	if err := r.db.SelectContext(ctx, &photos, query, orderID); err != nil {
		return nil, fmt.Errorf("photo repository: list by order: %w", err)
	}
	return photos, nil
}

// CountKinds returns how many before and after photos an order has. Both
// must be non-zero before the order can leave the accepted state.
func (r *PhotoRepository) CountKinds(ctx context.Context, orderID uuid.UUID) (before int, after int, err error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE kind = $2) AS before_count,
			COUNT(*) FILTER (WHERE kind = $3) AS after_count
		FROM photos
		WHERE order_id = $1
	`
	row := r.db.QueryRowxContext(ctx, query, orderID, models.PhotoKindBefore, models.PhotoKindAfter)
	if err := row.Scan(&before, &after); err != nil {
		return 0, 0, fmt.Errorf("photo repository: count kinds: %w", err)
	}
	return before, after, nil
}
