package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes
const (
	// Authentication errors
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeInvalidToken       = "INVALID_TOKEN"

	// Authorization errors
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeAccountDisabled = "ACCOUNT_DISABLED"

	// Validation errors
	ErrCodeInvalidInput = "INVALID_INPUT"

	// Resource errors
	ErrCodeNotFound = "NOT_FOUND"
	ErrCodeConflict = "CONFLICT"

	// Service errors
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// APIError represents a standardized API error response
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new APIError
func NewAPIError(code, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
	}
}

// NewAPIErrorWithDetails creates a new APIError with details
func NewAPIErrorWithDetails(code, message string, details interface{}) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// RespondWithError sends an error response and stops the handler chain.
func RespondWithError(c *gin.Context, statusCode int, err *APIError) {
	c.AbortWithStatusJSON(statusCode, err)
}

func orDefault(message, fallback string) string {
	if message == "" {
		return fallback
	}
	return message
}

// Unauthorized sends a 401 response
func Unauthorized(c *gin.Context, message string) {
	RespondWithError(c, http.StatusUnauthorized, NewAPIError(ErrCodeUnauthorized, orDefault(message, "Authentication required")))
}

// InvalidCredentials sends a 401 response for a failed login
func InvalidCredentials(c *gin.Context, message string) {
	RespondWithError(c, http.StatusUnauthorized, NewAPIError(ErrCodeInvalidCredentials, orDefault(message, "Invalid email or password")))
}

// InvalidToken sends a 401 response for a malformed or expired bearer token
func InvalidToken(c *gin.Context, message string) {
	RespondWithError(c, http.StatusUnauthorized, NewAPIError(ErrCodeInvalidToken, orDefault(message, "Invalid or expired token")))
}

// Forbidden sends a 403 response
func Forbidden(c *gin.Context, message string) {
	RespondWithError(c, http.StatusForbidden, NewAPIError(ErrCodeForbidden, orDefault(message, "Access denied")))
}

// AccountDisabled sends a 403 response for inactive or vanished principals
func AccountDisabled(c *gin.Context, message string) {
	RespondWithError(c, http.StatusForbidden, NewAPIError(ErrCodeAccountDisabled, orDefault(message, "Account is deactivated or no longer exists")))
}

// NotFound sends a 404 response
func NotFound(c *gin.Context, message string) {
	RespondWithError(c, http.StatusNotFound, NewAPIError(ErrCodeNotFound, orDefault(message, "Resource not found")))
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string) {
	RespondWithError(c, http.StatusBadRequest, NewAPIError(ErrCodeInvalidInput, orDefault(message, "Invalid request")))
}

// BadRequestWithDetails sends a 400 response with details
func BadRequestWithDetails(c *gin.Context, message string, details interface{}) {
	RespondWithError(c, http.StatusBadRequest, NewAPIErrorWithDetails(ErrCodeInvalidInput, message, details))
}

// Conflict sends a 409 response
func Conflict(c *gin.Context, message string) {
	RespondWithError(c, http.StatusConflict, NewAPIError(ErrCodeConflict, orDefault(message, "Resource conflict")))
}

// InternalError sends a 500 response
func InternalError(c *gin.Context, message string) {
	RespondWithError(c, http.StatusInternalServerError, NewAPIError(ErrCodeInternalError, orDefault(message, "Internal server error")))
}

// InternalErrorWithDetails sends a 500 response carrying diagnostic detail
func InternalErrorWithDetails(c *gin.Context, message string, details interface{}) {
	RespondWithError(c, http.StatusInternalServerError, NewAPIErrorWithDetails(ErrCodeInternalError, orDefault(message, "Internal server error"), details))
}

// ServiceUnavailable sends a 503 response
func ServiceUnavailable(c *gin.Context, message string) {
	RespondWithError(c, http.StatusServiceUnavailable, NewAPIError(ErrCodeServiceUnavailable, orDefault(message, "Service temporarily unavailable")))
}
