// Package errors provides a lightweight structured error type (DocForgeError)
// for category-based classification across loaders, normalization and export.
package errors

import (
	"fmt"
)

// ErrorCategory represents the category of a DocForge error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// Data acquisition errors
	CategorySource  ErrorCategory = "source"
	CategoryParse   ErrorCategory = "parse"
	CategoryNetwork ErrorCategory = "network"

	// Record and document processing errors
	CategoryNormalize ErrorCategory = "normalize"
	CategoryExport    ErrorCategory = "export"
	CategoryTemplate  ErrorCategory = "template"

	// Runtime and infrastructure errors
	CategoryCapability ErrorCategory = "capability"
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryInternal   ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
	SeverityInfo    ErrorSeverity = "info"    // Informational, no impact
)

// DocForgeError is a structured error with category, severity, and context
type DocForgeError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for DocForgeError
type ContextFields map[string]any

// Error implements the error interface
func (e *DocForgeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *DocForgeError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *DocForgeError) WithContext(key string, value any) *DocForgeError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new DocForgeError
func New(category ErrorCategory, severity ErrorSeverity, message string) *DocForgeError {
	return &DocForgeError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new DocForgeError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *DocForgeError {
	return &DocForgeError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// IsCategory checks if an error belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	if dfe, ok := err.(*DocForgeError); ok {
		return dfe.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal if not a DocForgeError
func GetCategory(err error) ErrorCategory {
	if dfe, ok := err.(*DocForgeError); ok {
		return dfe.Category
	}
	return CategoryInternal
}

// ValidationError creates a new validation error
func ValidationError(message string) *DocForgeError {
	return &DocForgeError{
		Category: CategoryValidation,
		Severity: SeverityWarning,
		Message:  message,
	}
}

// WrapError wraps an existing error with a new DocForgeError at SeverityError
func WrapError(err error, category ErrorCategory, message string) *DocForgeError {
	return &DocForgeError{
		Category: category,
		Severity: SeverityError,
		Message:  message,
		Cause:    err,
	}
}
