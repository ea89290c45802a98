package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/memoria-app/memoria-backend/internal/http/response"
)

// UUIDValidator checks that a path parameter is a valid UUID.
// Usage: router.GET("/orders/:id", UUIDValidator("id"), handler.GetOrder)
func UUIDValidator(paramName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		idStr := c.Param(paramName)
		if idStr == "" {
			response.BadRequest(c, "parameter "+paramName+" is required")
			c.Abort()
			return
		}

		if _, err := uuid.Parse(idStr); err != nil {
			response.BadRequest(c, "parameter "+paramName+" must be a valid UUID")
			c.Abort()
			return
		}

		c.Next()
	}
}
