package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/memoria-app/memoria-backend/internal/http/middleware"
	"github.com/memoria-app/memoria-backend/internal/pkg/apperror"
)

// currentUserID extracts the caller id placed in the context by the auth
// middleware.
func currentUserID(c *gin.Context) (uuid.UUID, error) {
	raw, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	userID, ok := raw.(uuid.UUID)
	if !ok {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	return userID, nil
}

// currentUserRole extracts the caller role from the context.
func currentUserRole(c *gin.Context) (string, error) {
	raw, exists := c.Get(middleware.ContextRoleKey)
	if !exists {
		return "", apperror.ErrUnauthorized
	}

	role, ok := raw.(string)
	if !ok {
		return "", apperror.ErrUnauthorized
	}

	return role, nil
}

// identity returns both caller id and role, erroring once.
func identity(c *gin.Context) (uuid.UUID, string, error) {
	userID, err := currentUserID(c)
	if err != nil {
		return uuid.Nil, "", err
	}
	role, err := currentUserRole(c)
	if err != nil {
		return uuid.Nil, "", err
	}
	return userID, role, nil
}

// pathUUID parses a UUID path parameter. The UUIDValidator middleware has
// already rejected malformed values, this just converts the type.
func pathUUID(c *gin.Context, name string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperror.New(apperror.ErrCodeValidation, "parameter "+name+" must be a valid UUID")
	}
	return parsed, nil
}
