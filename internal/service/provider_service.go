package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/memoria-app/memoria-backend/internal/logger"
	"github.com/memoria-app/memoria-backend/internal/models"
	"github.com/memoria-app/memoria-backend/internal/pkg/apperror"
)

// ProviderStore is the slice of the user repository used for moderation.
type ProviderStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListPendingProviders(ctx context.Context) ([]models.User, error)
	ApproveProvider(ctx context.Context, id uuid.UUID) (*models.User, error)
	RejectProvider(ctx context.Context, id uuid.UUID, reason string) (*models.User, error)
}

// ProviderService handles admin moderation of prestataire accounts. A
// prestataire cannot accept orders until an admin has verified them.
type ProviderService struct {
	users ProviderStore
}

// NewProviderService creates the provider moderation service.
func NewProviderService(users ProviderStore) *ProviderService {
	return &ProviderService{users: users}
}

// ListPendingProviders returns prestataires awaiting moderation.
func (s *ProviderService) ListPendingProviders(ctx context.Context, role string) ([]models.User, error) {
	if role != models.RoleAdmin {
		return nil, apperror.ErrForbidden
	}
	return s.users.ListPendingProviders(ctx)
}

// ApproveProvider marks a prestataire as verified.
func (s *ProviderService) ApproveProvider(ctx context.Context, providerID uuid.UUID, role string) (*models.User, error) {
	provider, err := s.pendingProvider(ctx, providerID, role)
	if err != nil {
		return nil, err
	}

	approved, err := s.users.ApproveProvider(ctx, provider.ID)
	if err != nil {
		return nil, err
	}

	logger.Log.WithField("provider_id", provider.ID).Info("prestataire approved")
	return approved, nil
}

// RejectProvider refuses a prestataire with a reason shown to them.
func (s *ProviderService) RejectProvider(ctx context.Context, providerID uuid.UUID, role, reason string) (*models.User, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperror.New(apperror.ErrCodeMissingFields, "a rejection reason is required")
	}

	provider, err := s.pendingProvider(ctx, providerID, role)
	if err != nil {
		return nil, err
	}

	rejected, err := s.users.RejectProvider(ctx, provider.ID, reason)
	if err != nil {
		return nil, err
	}

	logger.Log.WithField("provider_id", provider.ID).Info("prestataire rejected")
	return rejected, nil
}

func (s *ProviderService) pendingProvider(ctx context.Context, providerID uuid.UUID, role string) (*models.User, error) {
	if role != models.RoleAdmin {
		return nil, apperror.ErrForbidden
	}

	user, err := s.users.GetByID(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if !user.IsProvider() {
		return nil, apperror.ErrProviderNotFound
	}
	if user.IsVerified {
		return nil, apperror.New(apperror.ErrCodeAlreadyVerified, "prestataire is already verified")
	}
	return user, nil
}
