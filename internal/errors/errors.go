package errors

import (
	"errors"
	"fmt"
	"runtime"
)

// AppError represents an application-specific error
type AppError struct {
	Code      string       `json:"code"`
	Message   string       `json:"message"`
	Details   string       `json:"details,omitempty"`
	Fields    []FieldError `json:"fields,omitempty"`
	Cause     error        `json:"-"`
	File      string       `json:"file,omitempty"`
	Line      int          `json:"line,omitempty"`
	Operation string       `json:"operation,omitempty"`
}

// FieldError describes a single invalid requirement field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new application error
func NewAppError(code, message string, cause error) *AppError {
	_, file, line, _ := runtime.Caller(1)
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
		File:    file,
		Line:    line,
	}
}

// WithOperation adds operation context to the error
func (e *AppError) WithOperation(operation string) *AppError {
	e.Operation = operation
	return e
}

// WithDetails adds additional details to the error
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// Common error codes
const (
	ErrCodeNotFound             = "NOT_FOUND"
	ErrCodeUnauthorized         = "UNAUTHORIZED"
	ErrCodeForbidden            = "FORBIDDEN"
	ErrCodeInternalError        = "INTERNAL_ERROR"
	ErrCodeDatabaseError        = "DATABASE_ERROR"
	ErrCodeValidationError      = "VALIDATION_ERROR"
	ErrCodeConflict             = "CONFLICT"
	ErrCodeCatalogUnavailable   = "CATALOG_UNAVAILABLE"
	ErrCodePricingInconsistency = "PRICING_INCONSISTENCY"
	ErrCodeAuditWriteFailure    = "AUDIT_WRITE_FAILURE"
)

// Common error constructors
func NotFound(message string, cause error) *AppError {
	return NewAppError(ErrCodeNotFound, message, cause)
}

func Unauthorized(message string, cause error) *AppError {
	return NewAppError(ErrCodeUnauthorized, message, cause)
}

func Forbidden(message string, cause error) *AppError {
	return NewAppError(ErrCodeForbidden, message, cause)
}

func InternalError(message string, cause error) *AppError {
	return NewAppError(ErrCodeInternalError, message, cause)
}

func DatabaseError(message string, cause error) *AppError {
	return NewAppError(ErrCodeDatabaseError, message, cause)
}

func Conflict(message string, cause error) *AppError {
	return NewAppError(ErrCodeConflict, message, cause)
}

// Validation creates a VALIDATION_ERROR carrying the full list of offending fields
func Validation(fields []FieldError) *AppError {
	err := NewAppError(ErrCodeValidationError, "requirement validation failed", nil)
	err.Fields = fields
	return err
}

// CatalogUnavailable reports that no catalog snapshot could be served
func CatalogUnavailable(message string, cause error) *AppError {
	return NewAppError(ErrCodeCatalogUnavailable, message, cause)
}

// PricingInconsistency reports a rate-table gap for a band the catalog claims to support
func PricingInconsistency(message string, cause error) *AppError {
	return NewAppError(ErrCodePricingInconsistency, message, cause)
}

// AuditWriteFailure reports a failed session append after retries were exhausted
func AuditWriteFailure(message string, cause error) *AppError {
	return NewAppError(ErrCodeAuditWriteFailure, message, cause)
}

// IsCode reports whether err is an AppError with the given code
func IsCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// AsAppError unwraps err into an AppError, or wraps it as an internal error
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return InternalError("unexpected error", err)
}
