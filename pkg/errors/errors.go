package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode represents standardized error codes
type ErrorCode string

const (
	// Authentication errors
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"

	// Validation errors
	ErrCodeValidation   ErrorCode = "VALIDATION_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"

	// Business logic errors
	ErrCodeNotFound        ErrorCode = "NOT_FOUND"
	ErrCodeAccountNotFound ErrorCode = "ACCOUNT_NOT_FOUND"
	ErrCodeAssetNotFound   ErrorCode = "ASSET_NOT_FOUND"
	ErrCodeDuplicateEntry  ErrorCode = "DUPLICATE_ENTRY"

	// System errors
	ErrCodeInternal    ErrorCode = "INTERNAL_ERROR"
	ErrCodeExternalAPI ErrorCode = "EXTERNAL_API_ERROR"
	ErrCodeDatabase    ErrorCode = "DATABASE_ERROR"
	ErrCodeTimeout     ErrorCode = "TIMEOUT"
	ErrCodeRateLimit   ErrorCode = "RATE_LIMIT_EXCEEDED"
)

// FolioError represents a standardized error
type FolioError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	StatusCode int                    `json:"-"`
}

func (e FolioError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// New creates a new FolioError
func New(code ErrorCode, message string) *FolioError {
	return &FolioError{
		Code:       code,
		Message:    message,
		StatusCode: getHTTPStatusCode(code),
		Details:    make(map[string]interface{}),
	}
}

// NewWithDetails creates a new FolioError with details
func NewWithDetails(code ErrorCode, message string, details map[string]interface{}) *FolioError {
	return &FolioError{
		Code:       code,
		Message:    message,
		StatusCode: getHTTPStatusCode(code),
		Details:    details,
	}
}

// Wrap wraps an existing error with FolioError
func Wrap(err error, code ErrorCode, message string) *FolioError {
	details := map[string]interface{}{
		"original_error": err.Error(),
	}
	return NewWithDetails(code, message, details)
}

// AddDetail adds a detail to the error
func (e *FolioError) AddDetail(key string, value interface{}) *FolioError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// getHTTPStatusCode maps error codes to HTTP status codes
func getHTTPStatusCode(code ErrorCode) int {
	switch code {
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeValidation, ErrCodeInvalidInput, ErrCodeMissingField:
		return http.StatusBadRequest
	case ErrCodeNotFound, ErrCodeAccountNotFound, ErrCodeAssetNotFound:
		return http.StatusNotFound
	case ErrCodeDuplicateEntry:
		return http.StatusConflict
	case ErrCodeRateLimit:
		return http.StatusTooManyRequests
	case ErrCodeExternalAPI:
		return http.StatusBadGateway
	case ErrCodeTimeout:
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Common error constructors
func Unauthorized(message string) *FolioError {
	return New(ErrCodeUnauthorized, message)
}

func ValidationError(message string) *FolioError {
	return New(ErrCodeValidation, message)
}

func NotFound(resource string) *FolioError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", resource))
}

func ExternalAPI(service string, err error) *FolioError {
	return Wrap(err, ErrCodeExternalAPI, fmt.Sprintf("external API error from %s", service))
}

func Internal(message string) *FolioError {
	return New(ErrCodeInternal, message)
}

func Database(message string) *FolioError {
	return New(ErrCodeDatabase, message)
}

// IsNotFound reports whether err is a FolioError with a not-found code
func IsNotFound(err error) bool {
	if fe, ok := err.(*FolioError); ok {
		return fe.StatusCode == http.StatusNotFound
	}
	return false
}
