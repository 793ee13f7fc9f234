package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrorType is the abstract kind of a failure. Only the transport layer turns it into a status code.
type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
	ErrorTypeRateLimited  ErrorType = "RATE_LIMITED"
)

var statusByType = map[ErrorType]int{
	ErrorTypeValidation:   http.StatusBadRequest,
	ErrorTypeNotFound:     http.StatusNotFound,
	ErrorTypeUnauthorized: http.StatusUnauthorized,
	ErrorTypeForbidden:    http.StatusForbidden,
	ErrorTypeConflict:     http.StatusConflict,
	ErrorTypeInternal:     http.StatusInternalServerError,
	ErrorTypeRateLimited:  http.StatusTooManyRequests,
}

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeUnknownField     ErrorCode = "UNKNOWN_FIELD"
	ErrCodeEmptyUpdate      ErrorCode = "EMPTY_UPDATE"
	ErrCodeInvalidReference ErrorCode = "INVALID_REFERENCE"

	ErrCodeUserNotFound         ErrorCode = "USER_NOT_FOUND"
	ErrCodeRoleNotFound         ErrorCode = "ROLE_NOT_FOUND"
	ErrCodePermissionNotFound   ErrorCode = "PERMISSION_NOT_FOUND"
	ErrCodeSupplierNotFound     ErrorCode = "SUPPLIER_NOT_FOUND"
	ErrCodeTagNotFound          ErrorCode = "TAG_NOT_FOUND"
	ErrCodeOrganizationNotFound ErrorCode = "ORGANIZATION_NOT_FOUND"
	ErrCodeRecordNotFound       ErrorCode = "RECORD_NOT_FOUND"

	ErrCodeInvalidCredentials  ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeAccountNotActive    ErrorCode = "ACCOUNT_NOT_ACTIVE"
	ErrCodeInvalidToken        ErrorCode = "INVALID_TOKEN"
	ErrCodeInvalidRefreshToken ErrorCode = "INVALID_REFRESH_TOKEN"
	ErrCodeInsufficientAccess  ErrorCode = "INSUFFICIENT_PERMISSIONS"

	ErrCodeDuplicate   ErrorCode = "DUPLICATE"
	ErrCodeInternal    ErrorCode = "INTERNAL_ERROR"
	ErrCodeRateLimited ErrorCode = "TOO_MANY_REQUESTS"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func newAppError(kind ErrorType, code ErrorCode, message string) *AppError {
	return &AppError{Type: kind, Code: code, Message: message, StatusCode: statusByType[kind]}
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeValidation, code, message)
}

// NewValidationFieldError reports a single bad field; the field and its own code go in Details.
func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeValidation, ErrCodeValidationFailed, "Validation failed").
		WithDetails(ValidationErrors{Errors: []ValidationError{{Field: field, Message: message, Code: string(code)}}})
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeNotFound, code, message)
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeUnauthorized, code, message)
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeForbidden, code, message)
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeConflict, code, message)
}

func NewInternalError(message string, cause error) *AppError {
	return newAppError(ErrorTypeInternal, ErrCodeInternal, message).WithCause(cause)
}

func NewRateLimitedError(message string) *AppError {
	return newAppError(ErrorTypeRateLimited, ErrCodeRateLimited, message)
}

var (
	ErrInvalidCredentials  = NewUnauthorizedError("Invalid credentials", ErrCodeInvalidCredentials)
	ErrInvalidToken        = NewUnauthorizedError("Invalid token", ErrCodeInvalidToken)
	ErrInvalidRefreshToken = NewForbiddenError("Invalid refresh token", ErrCodeInvalidRefreshToken)
	ErrEmptyUpdate         = NewValidationError("no fields to update", ErrCodeEmptyUpdate)
)

// Error prefers the first field message so logs say what was wrong rather than "Validation failed".
func (e *AppError) Error() string {
	if v, ok := e.Details.(ValidationErrors); ok && len(v.Errors) > 0 {
		return v.Errors[0].Message
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCause returns a copy so shared sentinel errors are never mutated.
func (e *AppError) WithCause(cause error) *AppError {
	cp := *e
	cp.Cause = cause
	return &cp
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

// AsAppError unwraps err until it finds an *AppError.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsKind reports whether err carries an AppError of the given type.
func IsKind(err error, kind ErrorType) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Type == kind
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
