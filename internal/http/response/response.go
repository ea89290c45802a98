package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/memoria-app/memoria-backend/internal/logger"
	"github.com/memoria-app/memoria-backend/internal/pkg/apperror"
)

// Envelope is the uniform response body. Every endpoint returns it: data
// on success, a coded error otherwise.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

// ErrorBody carries the machine readable code and a human message.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// OK writes a 200 with data.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes a 201 with data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// Error maps an error to its HTTP status and coded body. Unknown errors
// are masked as INTERNAL_ERROR and logged with the request path.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		logger.Log.WithFields(logrus.Fields{
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		}).WithError(err).Error("unhandled request error")
		appErr = apperror.New(apperror.ErrCodeInternal, "internal server error")
	}

	if appErr.HTTPStatus >= http.StatusInternalServerError {
		logger.Log.WithFields(logrus.Fields{
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
			"code":   appErr.Code,
		}).WithError(err).Error("request failed")
	}

	c.JSON(appErr.HTTPStatus, Envelope{
		Success: false,
		Error:   &ErrorBody{Code: string(appErr.Code), Message: appErr.Message},
	})
}

// BadRequest writes a 400 with a VALIDATION_ERROR body, used for malformed
// JSON and bad path parameters before a service is ever reached.
func BadRequest(c *gin.Context, message string) {
	Error(c, apperror.New(apperror.ErrCodeValidation, message))
}

// Unauthorized writes a 401.
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "authentication required"
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, Envelope{
		Success: false,
		Error:   &ErrorBody{Code: string(apperror.ErrCodeUnauthorized), Message: message},
	})
}

// Forbidden writes a 403 and aborts the chain.
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "access denied"
	}
	c.AbortWithStatusJSON(http.StatusForbidden, Envelope{
		Success: false,
		Error:   &ErrorBody{Code: string(apperror.ErrCodeForbidden), Message: message},
	})
}
