package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"
)

type ErrorCode string

const (
	ErrCodeValidationFailed   ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidID          ErrorCode = "INVALID_ID"
	ErrCodeUnauthorised       ErrorCode = "UNAUTHORISED"
	ErrCodeForbidden          ErrorCode = "FORBIDDEN"
	ErrCodeRecordNotFound     ErrorCode = "RECORD_NOT_FOUND"
	ErrCodeInvalidMethod      ErrorCode = "INVALID_METHOD"
	ErrCodeRateLimited        ErrorCode = "RATE_LIMITED"
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	ErrCodeDatabase           ErrorCode = "DATABASE_ERROR"
	ErrCodeExternalService    ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrCodeInternal           ErrorCode = "INTERNAL_ERROR"
)

// User-facing messages shared by several operations.
const (
	MsgUnauthorised  = "You're not authorised to access this resource"
	MsgGeneric       = "Something went wrong, please try again"
	MsgInvalidID     = "Invalid ID"
	MsgInvalidMethod = "Invalid method"
)

type StandardError struct {
	Code        ErrorCode              `json:"code"`
	Message     string                 `json:"message"`
	Details     string                 `json:"details,omitempty"`
	Retryable   bool                   `json:"retryable"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	FieldErrors map[string]string      `json:"fieldErrors,omitempty"`
	Timestamp   time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	if e.Message == "" && len(e.FieldErrors) > 0 {
		return fmt.Sprintf("StandardError[%s]: %s", e.Code, joinFieldErrors(e.FieldErrors))
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// HTTPStatus maps the error code onto the response status.
func (e *StandardError) HTTPStatus() int {
	return HTTPStatus(e.Code)
}

func joinFieldErrors(fieldErrors map[string]string) string {
	keys := make([]string, 0, len(fieldErrors))
	for k := range fieldErrors {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fieldErrors[k])
	}
	return strings.Join(parts, "; ")
}

// As extracts a *StandardError from anywhere in err's chain.
func As(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// HasCode reports whether err carries a StandardError with the given code.
func HasCode(err error, code ErrorCode) bool {
	stdErr, ok := As(err)
	return ok && stdErr.Code == code
}

func NewValidationError(fieldErrors map[string]string) *StandardError {
	return &StandardError{
		Code:        ErrCodeValidationFailed,
		FieldErrors: fieldErrors,
		Retryable:   false,
		Timestamp:   time.Now().UTC(),
	}
}

func NewFieldError(field, message string) *StandardError {
	return NewValidationError(map[string]string{field: message})
}

// NewFormError is a validation failure that is not tied to a single field.
func NewFormError(message string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   message,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewInvalidIDError(raw string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidID,
		Message:   MsgInvalidID,
		Details:   fmt.Sprintf("id: %q", raw),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewUnauthorisedError(message string) *StandardError {
	if message == "" {
		message = MsgUnauthorised
	}
	return &StandardError{
		Code:      ErrCodeUnauthorised,
		Message:   message,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewForbiddenError(message string) *StandardError {
	if message == "" {
		message = MsgUnauthorised
	}
	return &StandardError{
		Code:      ErrCodeForbidden,
		Message:   message,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewNotFoundError(message string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRecordNotFound,
		Message:   message,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewInvalidMethodError(method string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidMethod,
		Message:   MsgInvalidMethod,
		Details:   fmt.Sprintf("method: %s", method),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewRateLimitedError(message string, retryAfter time.Duration) *StandardError {
	return &StandardError{
		Code:      ErrCodeRateLimited,
		Message:   message,
		Retryable: true,
		Metadata:  map[string]interface{}{"retryAfterSeconds": int(retryAfter.Seconds())},
		Timestamp: time.Now().UTC(),
	}
}

func NewServiceUnavailableError(service, message string) *StandardError {
	return &StandardError{
		Code:      ErrCodeServiceUnavailable,
		Message:   message,
		Details:   fmt.Sprintf("service: %s", service),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewDatabaseError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabase,
		Message:   MsgGeneric,
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeExternalService,
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   MsgGeneric,
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// HTTPStatus maps an error code onto an HTTP status.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeValidationFailed, ErrCodeInvalidID:
		return http.StatusBadRequest
	case ErrCodeUnauthorised:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeRecordNotFound:
		return http.StatusNotFound
	case ErrCodeInvalidMethod:
		return http.StatusMethodNotAllowed
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case ErrCodeServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func IsRetryableErrorCode(code ErrorCode) bool {
	switch code {
	case ErrCodeDatabase, ErrCodeExternalService, ErrCodeServiceUnavailable, ErrCodeRateLimited:
		return true
	default:
		return false
	}
}

// IsClientError reports whether the code describes a problem with the request rather than the server.
func IsClientError(code ErrorCode) bool {
	return HTTPStatus(code) < http.StatusInternalServerError
}

func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	case codeStr == string(ErrCodeUnauthorised) || codeStr == string(ErrCodeForbidden) || codeStr == string(ErrCodeRateLimited):
		return "AUTH"
	case strings.Contains(codeStr, "NOT_FOUND"):
		return "NOT_FOUND"
	case strings.Contains(codeStr, "DATABASE"):
		return "DATABASE"
	case strings.Contains(codeStr, "EXTERNAL") || strings.Contains(codeStr, "UNAVAILABLE"):
		return "EXTERNAL"
	default:
		return "OTHER"
	}
}
