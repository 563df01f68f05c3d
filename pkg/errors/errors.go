package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError
func NewAppError(code, message string, status int, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// Common error constructors

// BadRequest creates a 400 error
func BadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    "BAD_REQUEST",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     err,
	}
}

// Unauthorized creates a 401 error
func Unauthorized(message string, err error) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     err,
	}
}

// Forbidden creates a 403 error
func Forbidden(message string, err error) *AppError {
	return &AppError{
		Code:    "FORBIDDEN",
		Message: message,
		Status:  http.StatusForbidden,
		Err:     err,
	}
}

// NotFound creates a 404 error
func NotFound(message string, err error) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: message,
		Status:  http.StatusNotFound,
		Err:     err,
	}
}

// Conflict creates a 409 error
func Conflict(message string, err error) *AppError {
	return &AppError{
		Code:    "CONFLICT",
		Message: message,
		Status:  http.StatusConflict,
		Err:     err,
	}
}

// Internal creates a 500 error
func Internal(message string, err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: message,
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// Domain-specific errors

var (
	ErrRideNotFound = NotFound("Ride not found", nil)

	// Missing or malformed bearer token. A valid token whose identity no
	// longer exists is ErrPrincipalNotFound instead, observed as 404.
	ErrTokenMissing      = Unauthorized("Authorization token missing", nil)
	ErrInvalidToken      = Unauthorized("Invalid or expired token", nil)
	ErrPrincipalNotFound = NotFound("User not found", nil)

	// Never reveals whether the identifier or the password was wrong.
	ErrInvalidCredentials = Unauthorized("Invalid credentials", nil)

	ErrRiderNotFound  = NotFound("User not found", nil)
	ErrDriverNotFound = NotFound("User not found", nil)
	ErrRiderExists    = Conflict("User with this email already exists", nil)
	ErrDriverExists   = Conflict("User with this mobile number already exists", nil)

	ErrNotProfileOwner = Forbidden("You can only update your own profile", nil)

	ErrInvalidCoordinates = BadRequest("Invalid coordinates", nil)
	ErrInvalidDistance    = BadRequest("Distance must be a positive number", nil)
	ErrRideAlreadyEnded   = Conflict("Ride is already completed", nil)
	ErrInvalidOTP         = BadRequest("Invalid OTP", nil)
)

// Storage wraps a persistence failure. No retries are performed anywhere in
// this service; the failure surfaces immediately to the caller.
func Storage(err error) *AppError {
	return &AppError{
		Code:    "STORAGE_ERROR",
		Message: "Server error",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError attempts to convert an error to AppError
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	// Return generic internal error if not an AppError
	return Internal("An unexpected error occurred", err)
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
