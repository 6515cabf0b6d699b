package errors

import (
	"errors"
	"net/http"
)

// Domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrAlreadyExists      = errors.New("resource already exists")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrOTPNotFound        = errors.New("otp expired or not found")
	ErrOTPMismatch        = errors.New("invalid otp code")
	ErrPayloadExpired     = errors.New("registration data expired")
	ErrInvalidTransition  = errors.New("invalid status transition")
)

// AppError represents an application error with HTTP status
type AppError struct {
	Status  int               `json:"-"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	Err     error             `json:"-"`
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "application error"
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(status int, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Message: message,
		Err:     err,
	}
}

// NotFound builds a 404 error
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, message, ErrNotFound)
}

// BadRequest builds a 400 error
func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message, ErrInvalidInput)
}

// Unauthorized builds a 401 error
func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, message, ErrUnauthorized)
}

// Forbidden builds a 403 error
func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, message, ErrForbidden)
}

// Conflict builds a 409 error
func Conflict(message string) *AppError {
	return NewAppError(http.StatusConflict, message, ErrAlreadyExists)
}

// InternalError builds a 500 error
func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, "internal server error", err)
}

// Validation builds a 400 error carrying field-scoped messages
func Validation(fields map[string]string) *AppError {
	return &AppError{
		Status:  http.StatusBadRequest,
		Message: "validation failed",
		Fields:  fields,
		Err:     ErrInvalidInput,
	}
}

// FieldError builds a 400 error scoped to a single field
func FieldError(field, message string) *AppError {
	return Validation(map[string]string{field: message})
}
