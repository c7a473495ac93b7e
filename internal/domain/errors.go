package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound           = errors.New("resource not found")
	ErrConflict           = errors.New("resource already exists")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrValidation         = errors.New("validation error")
	ErrInternal           = errors.New("internal server error")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrUserNotFound       = errors.New("user not found")
	ErrListingNotFound    = errors.New("listing not found")
	ErrBundleNotFound     = errors.New("bundle not found")
	ErrLeadNotFound       = errors.New("lead not found")
	ErrDraftNotFound      = errors.New("draft not found")
)

type AppError struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Details    map[string]string `json:"details,omitempty"`
	StatusCode int               `json:"-"`
	Err        error             `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    e.Message,
		Details:    e.Details,
		StatusCode: e.StatusCode,
		Err:        err,
	}
}

func NewValidationError(details map[string]string) *AppError {
	return &AppError{
		Code:       "VALIDATION_ERROR",
		Message:    "Validation failed",
		Details:    details,
		StatusCode: http.StatusUnprocessableEntity,
	}
}

func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		StatusCode: http.StatusNotFound,
	}
}

func NewConflictError(message string) *AppError {
	return &AppError{
		Code:       "CONFLICT",
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:       "FORBIDDEN",
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:       "UNAUTHORIZED",
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

// NewThrottledError reports a submission attempted inside the cooldown
// window. RetrySeconds is surfaced so the storefront can show a countdown.
func NewThrottledError(retrySeconds int) *AppError {
	return &AppError{
		Code:    "THROTTLED",
		Message: fmt.Sprintf("Please wait %d seconds before submitting again", retrySeconds),
		Details: map[string]string{
			"retry_seconds": fmt.Sprintf("%d", retrySeconds),
		},
		StatusCode: http.StatusTooManyRequests,
	}
}

// NewMailConfigError reports a missing provider credential. The message
// names the credential so misconfiguration is diagnosable from the client.
func NewMailConfigError(credential string) *AppError {
	return &AppError{
		Code:       "MAIL_NOT_CONFIGURED",
		Message:    fmt.Sprintf("Email service is not configured: missing %s", credential),
		StatusCode: http.StatusInternalServerError,
	}
}

// NewProviderError relays a non-success response from the email provider,
// preserving its status code and message.
func NewProviderError(statusCode int, message string) *AppError {
	if statusCode < 400 {
		statusCode = http.StatusBadGateway
	}
	return &AppError{
		Code:       "PROVIDER_ERROR",
		Message:    message,
		StatusCode: statusCode,
	}
}

func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode == http.StatusNotFound
	}
	return false
}

func IsThrottled(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == "THROTTLED"
	}
	return false
}

func IsValidation(err error) bool {
	if errors.Is(err, ErrValidation) {
		return true
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == "VALIDATION_ERROR"
	}
	return false
}
