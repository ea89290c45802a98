package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/memoria-app/memoria-backend/internal/models"
	"github.com/memoria-app/memoria-backend/internal/pkg/apperror"
	"github.com/memoria-app/memoria-backend/internal/repository/common"
)

const uniqueViolation = "23505"

// UserRepository handles the users table.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a user. Duplicate emails map to ErrEmailExists.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, password_hash, role, zone_intervention, siret, is_verified)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := r.db.QueryRowxContext(
		ctx,
		query,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.ZoneIntervention,
		user.Siret,
		user.IsVerified,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return apperror.ErrEmailExists
		}
		return fmt.Errorf("user repository: insert: %w", err)
	}
	return nil
}

// GetByID returns a user by identifier.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return common.GetByID[models.User](ctx, r.db, "users", id, apperror.ErrUserNotFound)
}

// GetByEmail returns a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return common.GetByField[models.User](ctx, r.db, "users", "email", email, apperror.ErrUserNotFound)
}

// ListPendingProviders returns providers awaiting admin verification.
func (r *UserRepository) ListPendingProviders(ctx context.Context) ([]models.User, error) {
	var users []models.User
	query := `
		SELECT * FROM users
		WHERE role = $1 AND is_verified = FALSE AND rejection_reason IS NULL
		ORDER BY created_at
	`
	if err := r.db.SelectContext(ctx, &users, query, models.RolePrestataire); err != nil {
		return nil, fmt.Errorf("user repository: list pending providers: %w", err)
	}
	return users, nil
}

// ApproveProvider marks a provider as verified.
func (r *UserRepository) ApproveProvider(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	query := `
		UPDATE users
		SET is_verified = TRUE, rejection_reason = NULL
		WHERE id = $1 AND role = $2
		RETURNING *
	`
	if err := r.db.GetContext(ctx, &user, query, id, models.RolePrestataire); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrProviderNotFound
		}
		return nil, fmt.Errorf("user repository: approve provider: %w", err)
	}
	return &user, nil
}

// RejectProvider records the rejection reason for a provider.
func (r *UserRepository) RejectProvider(ctx context.Context, id uuid.UUID, reason string) (*models.User, error) {
	var user models.User
	query := `
		UPDATE users
		SET is_verified = FALSE, rejection_reason = $2
		WHERE id = $1 AND role = $3
		RETURNING *
	`
	if err := r.db.GetContext(ctx, &user, query, id, reason, models.RolePrestataire); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrProviderNotFound
		}
		return nil, fmt.Errorf("user repository: reject provider: %w", err)
	}
	return &user, nil
}
