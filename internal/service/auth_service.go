package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/memoria-app/memoria-backend/internal/logger"
	"github.com/memoria-app/memoria-backend/internal/models"
	"github.com/memoria-app/memoria-backend/internal/pkg/apperror"
	"github.com/memoria-app/memoria-backend/internal/validation"
)

// AuthRepository describes what the auth service needs from storage.
type AuthRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// AuthService handles registration and login.
type AuthService struct {
	repo   AuthRepository
	tokens *TokenManager
}

// NewAuthService creates the auth service.
func NewAuthService(repo AuthRepository, tokens *TokenManager) *AuthService {
	return &AuthService{repo: repo, tokens: tokens}
}

// RegisterInput carries the self-registration payload. Providers declare
// their intervention zone and company number; both are ignored for clients.
type RegisterInput struct {
	Email            string
	Password         string
	Role             string
	ZoneIntervention string
	Siret            string
}

// LoginInput carries the login payload.
type LoginInput struct {
	Email    string
	Password string
}

// AuthResult is what register and login return.
type AuthResult struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// Register creates a client or provider account. New providers start
// unverified and cannot accept missions until an admin approves them.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if _, ok := models.ValidRoles[in.Role]; !ok {
		return nil, apperror.New(apperror.ErrCodeValidation, "role must be client or prestataire")
	}

	user := &models.User{
		Email: validation.NormalizeEmail(in.Email),
		Role:  in.Role,
	}

	if in.Role == models.RolePrestataire {
		if in.Siret != "" {
			if err := validation.ValidateSiret(in.Siret); err != nil {
				return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
			}
			siret := in.Siret
			user.Siret = &siret
		}
		if in.ZoneIntervention != "" {
			if err := validation.ValidateLength("zone_intervention", in.ZoneIntervention, 0, validation.MaxZoneLength); err != nil {
				return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
			}
			zone := in.ZoneIntervention
			user.ZoneIntervention = &zone
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "failed to hash password")
	}
	user.PasswordHash = string(hash)

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Log.WithField("user_id", user.ID).WithField("role", user.Role).Info("user registered")

	return s.issueToken(user)
}

// Login verifies credentials and issues a token.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	user, err := s.repo.GetByEmail(ctx, validation.NormalizeEmail(in.Email))
	if err != nil {
		if errors.Is(err, apperror.ErrUserNotFound) {
			return nil, apperror.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	return s.issueToken(user)
}

// CreateAdmin creates an administrator account. Only an existing admin may
// call this; the handler enforces the role.
func (s *AuthService) CreateAdmin(ctx context.Context, email, password string) (*models.User, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "failed to hash password")
	}

	user := &models.User{
		Email:        validation.NormalizeEmail(email),
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		IsVerified:   true,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Log.WithField("user_id", user.ID).Info("admin account created")
	return user, nil
}

// GetUser returns the account of the authenticated caller.
func (s *AuthService) GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.repo.GetByID(ctx, userID)
}

func (s *AuthService) issueToken(user *models.User) (*AuthResult, error) {
	token, exp, err := s.tokens.Generate(user)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "failed to sign token")
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: exp}, nil
}
