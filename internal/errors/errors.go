// Package errors provides unified error handling for the prompt panel.
//
// The CLI and the TUI both surface failures through AppError, so a catalog
// that fails to load reads the same in either place. Interface-specific
// formatting lives in handlers.go.
//
// The optimize tab's empty-input guard is not an error; it produces a notice
// as the result text.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized error codes
type ErrorCode string

const (
	// Validation errors
	ErrCodeValidation   ErrorCode = "VALIDATION_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// Resource errors
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// Catalog errors
	ErrCodeCatalogLoad   ErrorCode = "CATALOG_LOAD"
	ErrCodeFileCorrupted ErrorCode = "FILE_CORRUPTED"
	ErrCodeConfigInvalid ErrorCode = "CONFIG_INVALID"
	ErrCodeInternalError ErrorCode = "INTERNAL_ERROR"
	ErrCodeCancelled     ErrorCode = "CANCELLED"

	// Clipboard errors
	ErrCodeClipboardUnavailable ErrorCode = "CLIPBOARD_UNAVAILABLE"
	ErrCodeClipboardFailed      ErrorCode = "CLIPBOARD_FAILED"
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
	CategoryValidation ErrorCategory = "validation"
	CategoryCatalog    ErrorCategory = "catalog"
	CategoryClipboard  ErrorCategory = "clipboard"
	CategoryConfig     ErrorCategory = "config"
	CategorySystem     ErrorCategory = "system"
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
	}
}

// Wrap wraps an existing error with application error context
func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := NewAppError(code, message)
	appErr.Cause = err
	return appErr
}

func categorizeError(code ErrorCode) (ErrorCategory, ErrorSeverity) {
	switch code {
	case ErrCodeValidation, ErrCodeInvalidInput:
		return CategoryValidation, SeverityWarning
	case ErrCodeNotFound:
		return CategoryCatalog, SeverityInfo
	case ErrCodeCatalogLoad:
		return CategoryCatalog, SeverityError
	case ErrCodeFileCorrupted:
		return CategoryCatalog, SeverityWarning
	case ErrCodeConfigInvalid:
		return CategoryConfig, SeverityError
	case ErrCodeClipboardUnavailable:
		return CategoryClipboard, SeverityWarning
	case ErrCodeClipboardFailed:
		return CategoryClipboard, SeverityError
	case ErrCodeInternalError:
		return CategorySystem, SeverityCritical
	case ErrCodeCancelled:
		return CategorySystem, SeverityInfo
	default:
		return CategorySystem, SeverityError
	}
}

// IsAppError checks if an error is, or wraps, an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetAppError extracts an AppError from an error chain, or converts it to one
func GetAppError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, ErrCodeInternalError, "Internal error occurred")
}

// HasCode reports whether err carries the given code
func HasCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr.Code == code
}

// Common error constructors for frequently used errors

func ValidationError(message string) *AppError {
	return NewAppError(ErrCodeValidation, message)
}

func NotFoundError(resource string) *AppError {
	return NewAppError(ErrCodeNotFound, fmt.Sprintf("%s not found", resource))
}

func CatalogError(source string, err error) *AppError {
	return Wrap(err, ErrCodeCatalogLoad, fmt.Sprintf("Failed to load prompt catalog from %s", source))
}

func CorruptedFileError(path string, err error) *AppError {
	return Wrap(err, ErrCodeFileCorrupted, fmt.Sprintf("Skipping unreadable prompt file %s", path))
}

func ConfigError(message string, err error) *AppError {
	return Wrap(err, ErrCodeConfigInvalid, message)
}

func ClipboardFailure(err error) *AppError {
	return Wrap(err, ErrCodeClipboardFailed, "Failed to copy to clipboard")
}

func ClipboardUnavailable(err error) *AppError {
	return Wrap(err, ErrCodeClipboardUnavailable, "No clipboard utility found")
}

func InputError(message string) *AppError {
	return NewAppError(ErrCodeInvalidInput, message)
}

// Cancelled reports an operation the user interrupted
func Cancelled(message string, err error) *AppError {
	return Wrap(err, ErrCodeCancelled, message)
}
