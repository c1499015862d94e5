// Package errors provides unified error handling across the pocket-deck system.
//
// SYSTEM ARCHITECTURE ROLE:
// This module is the foundation for error handling across all interfaces (CLI, HTTP, TUI)
// and across the compile pipeline (validation, dispatch, chart geometry, assembly, export).
//
// KEY RESPONSIBILITIES:
// - Define the error taxonomy of the deck compiler (spec validation, unknown template,
//   chart data shape, collaborator failure) plus the ambient resource/storage codes
// - Provide structured error types (AppError) with severity levels and context
// - Enable interface-specific error formatting while maintaining consistent core error data
//
// INTEGRATION POINTS:
// - internal/validation/validator.go: ValidationResult.ToAppError() builds SpecValidationError
// - internal/renderer/registry.go: Dispatch returns UnknownTemplateError
// - internal/chart/chart.go: Render returns ChartDataShapeError, contained by slide renderers
// - internal/assembler/assembler.go: CollaboratorFailure for minifier and theme lookup
// - internal/api/server.go: HTTPErrorHandler maps AppErrors to HTTP status codes and JSON
// - internal/cli: CLIErrorHandler formats AppErrors for terminal display
//
// USAGE PATTERNS:
// - Create errors: Use constructor functions like SpecValidationError(), NotFoundError()
// - Wrap errors: Use Wrap() to add context to existing errors
// - Check types: Use IsAppError(), GetAppError() and HasCode() for type-safe handling
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized error codes
type ErrorCode string

const (
	// Compile pipeline errors
	ErrCodeSpecValidation      ErrorCode = "SPEC_VALIDATION"
	ErrCodeUnknownTemplate     ErrorCode = "UNKNOWN_TEMPLATE"
	ErrCodeChartDataShape      ErrorCode = "CHART_DATA_SHAPE"
	ErrCodeCollaboratorFailure ErrorCode = "COLLABORATOR_FAILURE"

	// Input errors
	ErrCodeInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrCodeInvalidFormat ErrorCode = "INVALID_FORMAT"

	// Service errors
	ErrCodeInternalError  ErrorCode = "INTERNAL_ERROR"
	ErrCodeNotImplemented ErrorCode = "NOT_IMPLEMENTED"

	// Resource errors
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// Storage errors
	ErrCodeStorageFailure ErrorCode = "STORAGE_FAILURE"
	ErrCodeFileNotFound   ErrorCode = "FILE_NOT_FOUND"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

const (
	SeverityInfo     ErrorSeverity = "info"
	SeverityWarning  ErrorSeverity = "warning"
	SeverityError    ErrorSeverity = "error"
	SeverityCritical ErrorSeverity = "critical"
)

// ErrorCategory represents the category of an error
type ErrorCategory string

const (
	CategoryValidation   ErrorCategory = "validation"
	CategoryTemplate     ErrorCategory = "template"
	CategoryChart        ErrorCategory = "chart"
	CategoryCollaborator ErrorCategory = "collaborator"
	CategoryService      ErrorCategory = "service"
	CategoryStorage      ErrorCategory = "storage"
	CategorySystem       ErrorCategory = "system"
)

// AppError represents a standardized application error
type AppError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Severity  ErrorSeverity          `json:"severity"`
	Category  ErrorCategory          `json:"category"`
	Cause     error                  `json:"-"`
	Context   map[string]interface{} `json:"context,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Retryable bool                   `json:"retryable"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// IsRetryable returns whether the error is retryable
func (e *AppError) IsRetryable() bool {
	return e.Retryable
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message string) *AppError {
	category, severity := categorizeError(code)
	return &AppError{
		Code:      code,
		Message:   message,
		Severity:  severity,
		Category:  category,
		Timestamp: time.Now(),
		Retryable: isRetryable(code),
	}
}

// Wrap wraps an existing error with application error context
func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := NewAppError(code, message)
	appErr.Cause = err
	return appErr
}

// categorizeError determines the category and severity based on error code
func categorizeError(code ErrorCode) (ErrorCategory, ErrorSeverity) {
	switch code {
	case ErrCodeSpecValidation, ErrCodeInvalidInput, ErrCodeInvalidFormat:
		return CategoryValidation, SeverityWarning

	case ErrCodeUnknownTemplate:
		return CategoryTemplate, SeverityError

	// Chart shape problems are contained to one slide, so they only warn.
	case ErrCodeChartDataShape:
		return CategoryChart, SeverityWarning

	case ErrCodeCollaboratorFailure:
		return CategoryCollaborator, SeverityWarning

	case ErrCodeInternalError:
		return CategoryService, SeverityCritical
	case ErrCodeNotImplemented, ErrCodeNotFound:
		return CategoryService, SeverityInfo
	case ErrCodeAlreadyExists:
		return CategoryService, SeverityWarning

	case ErrCodeStorageFailure:
		return CategoryStorage, SeverityError
	case ErrCodeFileNotFound:
		return CategoryStorage, SeverityInfo

	default:
		return CategorySystem, SeverityError
	}
}

// isRetryable determines if an error is retryable based on its code
func isRetryable(code ErrorCode) bool {
	return code == ErrCodeStorageFailure
}

// IsAppError checks if an error is, or wraps, an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetAppError extracts an AppError from an error, or converts it to one
func GetAppError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, ErrCodeInternalError, "Internal error occurred")
}

// HasCode reports whether err is an AppError carrying code
func HasCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// SpecValidationError reports a malformed presentation definition.
// issues is typically a []validation.Issue; it is stored under the "issues" context key.
func SpecValidationError(message string, issues interface{}) *AppError {
	err := NewAppError(ErrCodeSpecValidation, message)
	if issues != nil {
		err.WithContext("issues", issues)
	}
	return err
}

// UnknownTemplateError reports a slide kind with no registered renderer
func UnknownTemplateError(kind string) *AppError {
	return NewAppError(ErrCodeUnknownTemplate, fmt.Sprintf("no template registered for slide type '%s'", kind)).
		WithContext("kind", kind)
}

// ChartDataShapeError reports chart data that cannot be plotted
func ChartDataShapeError(chartKind string, reason string) *AppError {
	return NewAppError(ErrCodeChartDataShape, reason).
		WithContext("chart", chartKind)
}

// CollaboratorFailure wraps a failure of an external collaborator such as the minifier
func CollaboratorFailure(collaborator string, err error) *AppError {
	return Wrap(err, ErrCodeCollaboratorFailure, fmt.Sprintf("%s failed", collaborator)).
		WithContext("collaborator", collaborator)
}

// Common error constructors for frequently used errors
func InvalidInputError(message string) *AppError {
	return NewAppError(ErrCodeInvalidInput, message)
}

func NotFoundError(resource string) *AppError {
	return NewAppError(ErrCodeNotFound, fmt.Sprintf("%s not found", resource))
}

func AlreadyExistsError(resource string) *AppError {
	return NewAppError(ErrCodeAlreadyExists, fmt.Sprintf("%s already exists", resource))
}

func InternalError(message string) *AppError {
	return NewAppError(ErrCodeInternalError, message)
}

func StorageError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeStorageFailure, fmt.Sprintf("Storage operation failed: %s", operation))
}
