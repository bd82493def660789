package pkg

import (
	"errors"
	"fmt"
	"net/http"
)

// Custom error types
var (
	// Authentication errors
	ErrUnauthenticated     = NewAppError("UNAUTHENTICATED", "Authentication required", http.StatusUnauthorized)
	ErrInvalidCredentials  = NewAppError("INVALID_CREDENTIALS", "Invalid username or password", http.StatusUnauthorized)
	ErrPinInvalidOrExpired = NewAppError("PIN_INVALID_OR_EXPIRED", "Invalid or expired pin", http.StatusUnauthorized)

	// Authorization errors
	ErrAccessDenied = NewAppError("ACCESS_DENIED", "Access denied", http.StatusForbidden)

	// User errors
	ErrUserNotFound = NewAppError("USER_NOT_FOUND", "User not found", http.StatusNotFound)

	// Folder errors
	ErrFolderNotFound      = NewAppError("FOLDER_NOT_FOUND", "Folder not found", http.StatusNotFound)
	ErrFolderAlreadyExists = NewAppError("FOLDER_ALREADY_EXISTS", "Folder already exists", http.StatusConflict)

	// File errors
	ErrFileNotFound     = NewAppError("FILE_NOT_FOUND", "File not found", http.StatusNotFound)
	ErrFileUploadFailed = NewAppError("FILE_UPLOAD_FAILED", "File upload failed", http.StatusInternalServerError)

	// Collaboration errors
	ErrCollaborationNotFound = NewAppError("COLLABORATION_NOT_FOUND", "Collaboration request not found", http.StatusNotFound)

	// Validation errors
	ErrInvalidRequest   = NewAppError("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	ErrValidationFailed = NewAppError("VALIDATION_FAILED", "Validation failed", http.StatusBadRequest)

	// System errors
	ErrUpstreamFailure = NewAppError("UPSTREAM_FAILURE", "Backing service error", http.StatusBadGateway)
	ErrInternalServer  = NewAppError("INTERNAL_SERVER_ERROR", "Internal server error", http.StatusInternalServerError)
)

// AppError represents an application-specific error
type AppError struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	StatusCode int                    `json:"status_code"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Cause      error                  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %s)", e.Code, e.Message, e.Cause.Error())
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// WithDetails returns a copy of the error with details attached
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    e.Message,
		StatusCode: e.StatusCode,
		Details:    details,
		Cause:      e.Cause,
	}
}

// WithCause returns a copy of the error with an underlying cause
func (e *AppError) WithCause(cause error) *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    e.Message,
		StatusCode: e.StatusCode,
		Details:    e.Details,
		Cause:      cause,
	}
}

// Is matches errors by code, so sentinel comparisons survive
// WithCause/WithDetails copies.
func (e *AppError) Is(target error) bool {
	var appErr *AppError
	if errors.As(target, &appErr) {
		return e.Code == appErr.Code
	}
	return false
}

// NewAppError creates a new application error
func NewAppError(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// ValidationError represents a single field validation failure
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// ValidationErrors represents multiple validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", ve[0].Message)
}

// IsAppError checks if error is an AppError
func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
