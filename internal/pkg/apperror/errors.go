package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized  ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden     ErrorCode = "FORBIDDEN"
	ErrCodeBadRequest    ErrorCode = "BAD_REQUEST"
	ErrCodeConflict      ErrorCode = "CONFLICT"
	ErrCodeInternal      ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation    ErrorCode = "VALIDATION_ERROR"
	ErrCodeDatabaseError ErrorCode = "DATABASE_ERROR"

	// Lifecycle-specific codes. The frontend distinguishes them so it can
	// show "someone else took it" vs "not in your area".
	ErrCodeOrderNotFound        ErrorCode = "ORDER_NOT_FOUND"
	ErrCodeUserNotFound         ErrorCode = "USER_NOT_FOUND"
	ErrCodeProviderNotFound     ErrorCode = "PROVIDER_NOT_FOUND"
	ErrCodeOrderAlreadyAssigned ErrorCode = "ORDER_ALREADY_ASSIGNED"
	ErrCodeZoneMismatch         ErrorCode = "ZONE_MISMATCH"
	ErrCodeMissingPhotos        ErrorCode = "MISSING_PHOTOS"
	ErrCodeInvalidStatus        ErrorCode = "INVALID_STATUS"
	ErrCodeMissingFields        ErrorCode = "MISSING_FIELDS"
	ErrCodeInvalidPrice         ErrorCode = "INVALID_PRICE"
	ErrCodeInvalidCredentials   ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeEmailExists          ErrorCode = "EMAIL_ALREADY_EXISTS"
	ErrCodeAlreadyVerified      ErrorCode = "ALREADY_VERIFIED"
	ErrCodeUpstream             ErrorCode = "UPSTREAM_ERROR"
	ErrCodeTooManyRequests      ErrorCode = "TOO_MANY_REQUESTS"
)

type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is match two AppErrors by code, so the sentinel errors
// below keep matching after being wrapped with a more specific message.
func (e *AppError) Is(target error) bool {
	var appErr *AppError
	if !errors.As(target, &appErr) {
		return false
	}
	return e.Code == appErr.Code
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound, ErrCodeOrderNotFound, ErrCodeUserNotFound, ErrCodeProviderNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized, ErrCodeInvalidCredentials:
		return http.StatusUnauthorized
	case ErrCodeForbidden, ErrCodeZoneMismatch:
		return http.StatusForbidden
	case ErrCodeBadRequest, ErrCodeValidation, ErrCodeMissingFields, ErrCodeInvalidPrice, ErrCodeMissingPhotos, ErrCodeAlreadyVerified:
		return http.StatusBadRequest
	case ErrCodeConflict, ErrCodeOrderAlreadyAssigned, ErrCodeInvalidStatus, ErrCodeEmailExists:
		return http.StatusConflict
	case ErrCodeUpstream:
		return http.StatusBadGateway
	case ErrCodeTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.HTTPStatus == http.StatusNotFound
}

func IsForbidden(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.HTTPStatus == http.StatusForbidden
}

func IsConflict(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.HTTPStatus == http.StatusConflict
}

var (
	ErrOrderNotFound        = New(ErrCodeOrderNotFound, "order not found")
	ErrUserNotFound         = New(ErrCodeUserNotFound, "user not found")
	ErrProviderNotFound     = New(ErrCodeProviderNotFound, "provider not found")
	ErrCemeteryNotFound     = New(ErrCodeNotFound, "cemetery not found")
	ErrCategoryNotFound     = New(ErrCodeNotFound, "service category not found")
	ErrPhotoNotFound        = New(ErrCodeNotFound, "photo not found")
	ErrUnauthorized         = New(ErrCodeUnauthorized, "authentication required")
	ErrForbidden            = New(ErrCodeForbidden, "insufficient permissions")
	ErrInvalidCredentials   = New(ErrCodeInvalidCredentials, "invalid email or password")
	ErrEmailExists          = New(ErrCodeEmailExists, "email is already registered")
	ErrOrderAlreadyAssigned = New(ErrCodeOrderAlreadyAssigned, "this mission has already been accepted by another provider")
	ErrZoneMismatch         = New(ErrCodeZoneMismatch, "this mission is outside your intervention zone")
	ErrMissingPhotos        = New(ErrCodeMissingPhotos, "at least one before and one after photo are required")
	ErrInvalidStatus        = New(ErrCodeInvalidStatus, "order is not in a valid state for this action")
)
